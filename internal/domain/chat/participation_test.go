package chat

import "testing"

func msgsFrom(senders ...string) []RawMessage {
	out := make([]RawMessage, len(senders))
	for i, s := range senders {
		out[i] = RawMessage{Sender: s, Body: "msg", Hour: 13}
	}
	return out
}

func TestAggregateParticipation(t *testing.T) {
	cases := []struct {
		name    string
		senders []string
		want    []ParticipationEntry
	}{
		{"even pair", []string{"나", "친구"}, []ParticipationEntry{{"나", 1, 50}, {"친구", 1, 50}}},
		{"two to one", []string{"B", "A", "A"}, []ParticipationEntry{{"A", 2, 67}, {"B", 1, 33}}},
		{"three way tie", []string{"x", "y", "z"}, []ParticipationEntry{{"x", 1, 34}, {"y", 1, 33}, {"z", 1, 33}}},
		{"single", []string{"solo", "solo"}, []ParticipationEntry{{"solo", 2, 100}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := AggregateParticipation(msgsFrom(tc.senders...))
			if len(got) != len(tc.want) {
				t.Fatalf("expected %d entries, got %+v", len(tc.want), got)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("entry %d: expected %+v, got %+v", i, tc.want[i], got[i])
				}
			}
		})
	}
}

func TestAggregateParticipationEmpty(t *testing.T) {
	got := AggregateParticipation(nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestParticipationRatiosSumTo100(t *testing.T) {
	senders := []string{"a", "b", "c", "d", "e", "f", "g"}
	for n := 1; n <= 60; n++ {
		var msgs []RawMessage
		for i := 0; i < n; i++ {
			msgs = append(msgs, RawMessage{Sender: senders[(i*i+i/3)%len(senders)]})
		}
		got := AggregateParticipation(msgs)
		sum, count := 0, 0
		for i, p := range got {
			sum += p.Ratio
			count += p.Count
			if i > 0 && got[i-1].Count < p.Count {
				t.Fatalf("n=%d: not sorted by count: %+v", n, got)
			}
		}
		if sum != 100 || count != n {
			t.Fatalf("n=%d: ratio sum %d, count sum %d", n, sum, count)
		}
	}
}

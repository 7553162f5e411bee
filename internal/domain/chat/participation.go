package chat

import "sort"

// AggregateParticipation counts messages per sender. Entries are ordered by
// count descending, ties by first appearance. Ratios are whole percents
// distributed by largest remainder so they sum to exactly 100.
func AggregateParticipation(msgs []RawMessage) []ParticipationEntry {
	out := []ParticipationEntry{}
	if len(msgs) == 0 {
		return out
	}

	index := make(map[string]int)
	for _, m := range msgs {
		i, ok := index[m.Sender]
		if !ok {
			i = len(out)
			index[m.Sender] = i
			out = append(out, ParticipationEntry{Sender: m.Sender})
		}
		out[i].Count++
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	assignRatios(out, len(msgs))
	return out
}

func assignRatios(entries []ParticipationEntry, total int) {
	remainders := make([]int, len(entries))
	assigned := 0
	for i := range entries {
		scaled := entries[i].Count * 100
		entries[i].Ratio = scaled / total
		remainders[i] = scaled % total
		assigned += entries[i].Ratio
	}

	order := make([]int, len(entries))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return remainders[order[a]] > remainders[order[b]] })

	for k := 0; k < 100-assigned && k < len(order); k++ {
		entries[order[k]].Ratio++
	}
}

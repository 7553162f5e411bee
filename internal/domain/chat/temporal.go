package chat

// AggregateHours counts messages per hour of day. The result always has 24
// slots in ascending hour order. Messages flagged Malformed are skipped when
// excludeMalformed is set.
func AggregateHours(msgs []RawMessage, excludeMalformed bool) []TimeSlot {
	slots := make([]TimeSlot, 24)
	for h := range slots {
		slots[h].Hour = h
	}
	for _, m := range msgs {
		if excludeMalformed && m.Malformed {
			continue
		}
		slots[ClampHour(m.Hour)].Count++
	}
	return slots
}

// ClampHour forces h into 0..23.
func ClampHour(h int) int {
	if h < 0 {
		return 0
	}
	if h > 23 {
		return 23
	}
	return h
}

package chat

import (
	"regexp"
	"strconv"
	"strings"
)

type hourMatcher struct {
	name string
	re   *regexp.Regexp
	// indexes of the submatches; -1 when the pattern has no such group
	marker, hour, minute int
}

// Tried in order; the first one that matches decides. A match whose values
// are out of range is malformed and does not fall through.
var hourMatchers = []hourMatcher{
	{"marker-before", regexp.MustCompile(`(?i)^(오전|오후|am|pm|a\.m\.|p\.m\.)\s*(\d{1,2}):(\d{2})(?::\d{2})?$`), 1, 2, 3},
	{"marker-after", regexp.MustCompile(`(?i)^(\d{1,2}):(\d{2})(?::\d{2})?\s*(am|pm|a\.m\.|p\.m\.)$`), 3, 1, 2},
	{"clock-24h", regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::\d{2})?$`), -1, 1, 2},
	{"embedded", regexp.MustCompile(`(?i)(?:(오전|오후|am|pm)\s*)?(\d{1,2}):(\d{2})(?::\d{2})?`), 1, 2, 3},
}

// ParseHour reads the hour of day (0..23) from a raw export timestamp such
// as "오후 1:23", "1:23 PM", "13:23" or "2024. 5. 20. 오후 3:30".
// ok is false when no matcher accepts the value; hour is then 0.
func ParseHour(raw string) (hour int, ok bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	for _, m := range hourMatchers {
		sub := m.re.FindStringSubmatch(s)
		if sub == nil {
			continue
		}
		marker := ""
		if m.marker >= 0 {
			marker = sub[m.marker]
		}
		h, _ := strconv.Atoi(sub[m.hour])
		minute, _ := strconv.Atoi(sub[m.minute])
		return toHour24(marker, h, minute)
	}
	return 0, false
}

func toHour24(marker string, h, minute int) (int, bool) {
	if minute < 0 || minute > 59 {
		return 0, false
	}
	switch strings.ToLower(marker) {
	case "":
		if h < 0 || h > 23 {
			return 0, false
		}
		return h, true
	case "오후", "pm", "p.m.":
		if h < 0 || h > 12 {
			return 0, false
		}
		if h < 12 {
			h += 12
		}
		return h, true
	default: // 오전 / am
		if h < 0 || h > 12 {
			return 0, false
		}
		if h == 12 {
			h = 0
		}
		return h, true
	}
}

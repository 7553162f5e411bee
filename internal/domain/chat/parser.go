package chat

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// --------------- 2024년 5월 20일 월요일 ---------------
	dividerPat = regexp.MustCompile(`^-*\s*(\d{4})년\s*(\d{1,2})월\s*(\d{1,2})일\s*(?:[월화수목금토일]요일)?\s*-*$`)

	// [김철수] [오후 3:30] 안녕하세요
	mobilePat = regexp.MustCompile(`^\[([^\]]+)\]\s*\[((?:오전|오후|AM|PM|am|pm)\s*\d{1,2}:\d{2}(?::\d{2})?|\d{1,2}:\d{2}(?::\d{2})?(?:\s*(?:AM|PM|am|pm))?)\]\s?(.*)$`)

	// [오후 1:23] 나 : 뭐해?
	// The bracket must hold something time-shaped (H:MM or a marker and a
	// number) so "[1] 첫째: 사과" stays a continuation.
	canonicalPat = regexp.MustCompile(`^\[([^\]]*(?:\d{1,2}:\d{2}|(?:오전|오후|AM|PM|am|pm)\s*\d{1,2})[^\]]*)\]\s*([^:]+?)\s*:\s?(.*)$`)

	// 2024. 5. 20. 오후 3:30, 김철수 : 안녕하세요
	pcPat = regexp.MustCompile(`^(\d{4})\.\s?(\d{1,2})\.\s?(\d{1,2})\.?\s+((?:(?:오전|오후|AM|PM|am|pm)\s+)?\d{1,2}:\d{2}),\s+(.*?)\s:\s?(.*)$`)

	// 2024년 5월 20일 오후 3:30, 김철수 : 안녕하세요
	androidPat = regexp.MustCompile(`^(\d{4})년\s*(\d{1,2})월\s*(\d{1,2})일\s+((?:(?:오전|오후)\s*)?\d{1,2}:\d{2}),\s*(.*?)\s:\s?(.*)$`)
)

// lineMatcher turns a message-start line into a message. ok is false when
// the line does not have this matcher's shape.
type lineMatcher func(line string) (msg RawMessage, date string, ok bool)

var lineMatchers = []lineMatcher{matchMobile, matchCanonical, matchPC, matchAndroid}

func matchMobile(line string) (RawMessage, string, bool) {
	m := mobilePat.FindStringSubmatch(line)
	if m == nil {
		return RawMessage{}, "", false
	}
	return RawMessage{TimestampRaw: m[2], Sender: m[1], Body: m[3]}, "", true
}

func matchCanonical(line string) (RawMessage, string, bool) {
	m := canonicalPat.FindStringSubmatch(line)
	if m == nil {
		return RawMessage{}, "", false
	}
	return RawMessage{TimestampRaw: m[1], Sender: m[2], Body: m[3]}, "", true
}

func matchPC(line string) (RawMessage, string, bool) {
	m := pcPat.FindStringSubmatch(line)
	if m == nil {
		return RawMessage{}, "", false
	}
	date := formatDate(m[1], m[2], m[3])
	return RawMessage{TimestampRaw: m[4], Sender: m[5], Body: m[6]}, date, true
}

func matchAndroid(line string) (RawMessage, string, bool) {
	m := androidPat.FindStringSubmatch(line)
	if m == nil {
		return RawMessage{}, "", false
	}
	date := formatDate(m[1], m[2], m[3])
	return RawMessage{TimestampRaw: m[4], Sender: m[5], Body: m[6]}, date, true
}

func formatDate(y, m, d string) string {
	mm, _ := strconv.Atoi(m)
	dd, _ := strconv.Atoi(d)
	return fmt.Sprintf("%s-%02d-%02d", y, mm, dd)
}

// Parse turns exported chat text into messages in arrival order.
//
// A line that starts a message (mobile, bracketed, PC or Android layout)
// opens a new message. Date dividers only update the current date. Any other
// line continues the previous message body, or is dropped when there is none
// yet (export header). Blank lines between continuation lines are kept as
// paragraph breaks; blank lines before a message start are dropped. A
// timestamp whose hour cannot be read keeps the message with hour 0 and
// Malformed set.
//
// Parse fails with a ParseError when no message is recognized.
func Parse(raw string) ([]RawMessage, ParseStats, error) {
	var stats ParseStats

	text := norm.NFC.String(raw)
	text = strings.TrimPrefix(text, "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var (
		out         []RawMessage
		currentDate string
		blanks      int // blank lines since the last non-blank line
	)
	for _, physical := range strings.Split(text, "\n") {
		stats.Lines++
		line := strings.TrimSpace(physical)
		if line == "" {
			blanks++
			continue
		}
		pending := blanks
		blanks = 0

		if msg, ok := matchLine(line); ok {
			if msg.Date != "" {
				currentDate = msg.Date
			} else {
				msg.Date = currentDate
			}
			if msg.Malformed {
				stats.Malformed++
			}
			out = append(out, msg)
			continue
		}

		if m := dividerPat.FindStringSubmatch(line); m != nil {
			currentDate = formatDate(m[1], m[2], m[3])
			stats.Dividers++
			continue
		}

		if len(out) == 0 {
			stats.Discarded++
			continue
		}
		last := &out[len(out)-1]
		if last.Body == "" {
			last.Body = line
		} else {
			last.Body += strings.Repeat("\n", pending+1) + line
		}
		stats.Continuations++
	}

	stats.Messages = len(out)
	if len(out) == 0 {
		return nil, stats, NewParseError(MsgBadFormat)
	}
	return out, stats, nil
}

func matchLine(line string) (RawMessage, bool) {
	for _, match := range lineMatchers {
		msg, date, ok := match(line)
		if !ok {
			continue
		}
		msg.Sender = strings.TrimSpace(msg.Sender)
		if msg.Sender == "" {
			continue
		}
		msg.TimestampRaw = strings.TrimSpace(msg.TimestampRaw)
		msg.Body = strings.TrimSpace(msg.Body)
		msg.Date = date
		hour, ok := ParseHour(msg.TimestampRaw)
		msg.Hour = hour
		msg.Malformed = !ok
		return msg, true
	}
	return RawMessage{}, false
}

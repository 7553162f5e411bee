package chat

import (
	"fmt"
	"math"
	"strings"
)

type factor int

const (
	factorBalance factor = iota
	factorResponsiveness
	factorActivity
)

// One sentence per dominant factor, used to open the summary.
var dominantPhrases = map[factor]string{
	factorBalance:        "대화 참여가 고르게 나뉘어 있어요.",
	factorResponsiveness: "메시지를 주고받는 흐름이 활발해요.",
	factorActivity:       "대화량이 꾸준히 많은 편이에요.",
}

const (
	topicNone     = "뚜렷한 주제 없이 일상적인 대화를 나눴어요."
	topicOne      = "\"%s\" 이야기가 가장 많이 오갔어요."
	topicTwo      = "\"%s\", \"%s\" 이야기가 가장 많이 오갔어요."
	summaryEmpty  = "분석할 메시지가 없어요."
	summaryPeak   = "%d시에 대화가 가장 많았어요."
	summaryDetail = "(참여 균형 %d%%, 응답성 %d%%, 활동량 %d%%)"
)

// BalanceFactor is 1 for a perfectly even split. Two senders use
// 1 - |p1 - p2|, more than two use Shannon entropy normalized by ln(n).
// Fewer than two senders give 0.
func BalanceFactor(participation []ParticipationEntry) float64 {
	n := len(participation)
	if n < 2 {
		return 0
	}
	total := 0
	for _, p := range participation {
		total += p.Count
	}
	if total == 0 {
		return 0
	}
	if n == 2 {
		p1 := float64(participation[0].Count) / float64(total)
		p2 := float64(participation[1].Count) / float64(total)
		return clamp01(1 - math.Abs(p1-p2))
	}
	var h float64
	for _, p := range participation {
		if p.Count == 0 {
			continue
		}
		q := float64(p.Count) / float64(total)
		h -= q * math.Log(q)
	}
	return clamp01(h / math.Log(float64(n)))
}

// ResponsivenessFactor is the share of consecutive message pairs that
// switch sender.
func ResponsivenessFactor(msgs []RawMessage) float64 {
	if len(msgs) < 2 {
		return 0
	}
	alternations := 0
	for i := 1; i < len(msgs); i++ {
		if msgs[i].Sender != msgs[i-1].Sender {
			alternations++
		}
	}
	return float64(alternations) / float64(len(msgs)-1)
}

// ActivityFactor grows logarithmically with the message count and caps at
// 1 once total reaches saturation.
func ActivityFactor(total, saturation int) float64 {
	if total <= 0 {
		return 0
	}
	if saturation < 1 {
		saturation = 1
	}
	return clamp01(math.Log1p(float64(total)) / math.Log1p(float64(saturation)))
}

// Score derives the interest score, its label, a topic line and a summary.
// The summary also carries the tone sentence read from the keywords. It is
// deterministic and never fails; empty input scores 0.
func Score(msgs []RawMessage, participation []ParticipationEntry, keywords []KeywordEntry, slots []TimeSlot, s Settings) Insight {
	f := Factors{
		Balance:        BalanceFactor(participation),
		Responsiveness: ResponsivenessFactor(msgs),
		Activity:       ActivityFactor(len(msgs), s.ActivitySaturation),
	}
	score := WeightedScore(f, s.Weights)
	tone := ReadTone(keywords, s.Tone)

	return Insight{
		InterestScore: score,
		InterestLabel: LabelFor(s.Labels, score),
		Topic:         topicLine(keywords),
		Summary:       summaryLine(len(msgs), f, tone, slots),
		Factors:       f,
		Tone:          tone,
	}
}

// WeightedScore is round(100 * weighted mean of f), clamped to 0..100.
func WeightedScore(f Factors, w Weights) int {
	sum := w.sum()
	if sum <= 0 {
		return 0
	}
	mean := (w.Balance*f.Balance + w.Responsiveness*f.Responsiveness + w.Activity*f.Activity) / sum
	score := int(math.Round(100 * mean))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func topicLine(keywords []KeywordEntry) string {
	switch {
	case len(keywords) == 0:
		return topicNone
	case len(keywords) == 1:
		return fmt.Sprintf(topicOne, keywords[0].Word)
	default:
		return fmt.Sprintf(topicTwo, keywords[0].Word, keywords[1].Word)
	}
}

func summaryLine(total int, f Factors, tone ToneReading, slots []TimeSlot) string {
	if total == 0 {
		return summaryEmpty
	}
	parts := []string{dominantPhrases[dominant(f)], tone.Sentence}
	if peak, ok := peakHour(slots); ok {
		parts = append(parts, fmt.Sprintf(summaryPeak, peak))
	}
	parts = append(parts, fmt.Sprintf(summaryDetail, percent(f.Balance), percent(f.Responsiveness), percent(f.Activity)))
	return strings.Join(parts, " ")
}

// dominant picks the largest factor; ties go to balance, then
// responsiveness.
func dominant(f Factors) factor {
	best, bestVal := factorBalance, f.Balance
	if f.Responsiveness > bestVal {
		best, bestVal = factorResponsiveness, f.Responsiveness
	}
	if f.Activity > bestVal {
		best = factorActivity
	}
	return best
}

// peakHour returns the earliest hour with the highest non-zero count.
func peakHour(slots []TimeSlot) (int, bool) {
	best, bestCount := 0, 0
	for _, s := range slots {
		if s.Count > bestCount {
			best, bestCount = s.Hour, s.Count
		}
	}
	return best, bestCount > 0
}

func percent(v float64) int { return int(math.Round(100 * v)) }

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

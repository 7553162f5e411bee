package chat

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Tone scoring. Each distinct lexicon entry found among the keywords moves
// the score from the neutral base; the result is clamped to 0..100.
const (
	toneBase           = 50
	toneAffectionStep  = 18
	toneInterestStep   = 10
	toneColdPenalty    = 25
	toneWarmMin        = 80
	toneFriendlyMin    = 60
	toneCasualMin      = 40
	toneInsufficient   = "대화량이 너무 적어서 분위기를 읽기 어려워요."
	toneWarmSentence   = "애정 표현이나 설레는 말이 자주 보여요."
	toneFondSentence   = "호감이 느껴지는 말이 자연스럽게 오가요."
	toneCasualSentence = "편한 친구 같은 분위기예요."
	toneCoolSentence   = "아직은 서로 거리를 두는 분위기예요."
)

// ToneLexicon holds the word lists behind the tone sentence. An entry hits
// when a keyword equals it or starts with it, so "보고싶" covers "보고싶어".
type ToneLexicon struct {
	Affection []string `yaml:"affection" json:"affection"`
	Interest  []string `yaml:"interest" json:"interest"`
	Cold      []string `yaml:"cold" json:"cold"`
}

// DefaultToneLexicon returns the built-in word lists.
func DefaultToneLexicon() ToneLexicon {
	return ToneLexicon{
		Affection: []string{
			"사랑", "좋아해", "너밖에", "보고싶", "설레", "썸", "심쿵", "고백",
			"사귀자", "연애", "자기야", "여보", "공주", "왕자", "내꺼", "결혼",
			"크리스마스",
		},
		Interest: []string{
			"귀엽", "귀여워", "이쁘다", "예쁘다", "잘생겼", "멋있다", "데이트",
			"영화", "밥먹자", "밥이나", "술한잔", "만날까", "보자", "만나",
			"연락", "전화", "심심", "언제", "시간", "약속",
		},
		Cold: []string{
			"바빠", "피곤", "나중에", "귀찮", "힘들", "관심없", "됐어", "그만",
			"몰라", "싫어", "안돼",
		},
	}
}

// Normalized returns a copy with NFC, lowercased, trimmed and de-duplicated
// entries. Blank entries are dropped.
func (l ToneLexicon) Normalized() ToneLexicon {
	return ToneLexicon{
		Affection: normalizeWords(l.Affection),
		Interest:  normalizeWords(l.Interest),
		Cold:      normalizeWords(l.Cold),
	}
}

func normalizeWords(words []string) []string {
	out := make([]string, 0, len(words))
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(norm.NFC.String(w)))
		if w == "" {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// ToneReading is the lexicon verdict over the top keywords.
type ToneReading struct {
	Score     int
	Affection int
	Interest  int
	Cold      int
	// Insufficient is set when there were no keywords to read.
	Insufficient bool
	Sentence     string
}

// ReadTone scores the keywords against the lexicon. With no keywords the
// reading is marked insufficient and scores 0.
func ReadTone(keywords []KeywordEntry, lex ToneLexicon) ToneReading {
	if len(keywords) == 0 {
		return ToneReading{Insufficient: true, Sentence: toneInsufficient}
	}
	r := ToneReading{
		Affection: lexiconHits(keywords, lex.Affection),
		Interest:  lexiconHits(keywords, lex.Interest),
		Cold:      lexiconHits(keywords, lex.Cold),
	}
	score := toneBase + toneAffectionStep*r.Affection + toneInterestStep*r.Interest - toneColdPenalty*r.Cold
	r.Score = min(max(score, 0), 100)

	switch {
	case r.Score >= toneWarmMin:
		r.Sentence = toneWarmSentence
	case r.Score >= toneFriendlyMin:
		r.Sentence = toneFondSentence
	case r.Score >= toneCasualMin:
		r.Sentence = toneCasualSentence
	default:
		r.Sentence = toneCoolSentence
	}
	return r
}

// lexiconHits counts the entries matched by at least one keyword.
func lexiconHits(keywords []KeywordEntry, entries []string) int {
	hits := 0
	for _, e := range entries {
		for _, k := range keywords {
			if strings.HasPrefix(k.Word, e) {
				hits++
				break
			}
		}
	}
	return hits
}

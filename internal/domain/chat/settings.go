package chat

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Scoring defaults. Each one is overridable through Settings.
const (
	DefaultBalanceWeight        = 0.35
	DefaultResponsivenessWeight = 0.40
	DefaultActivityWeight       = 0.25

	// DefaultActivitySaturation is the message count at which the activity
	// factor reaches 1.
	DefaultActivitySaturation = 500

	DefaultMinKeywordLength = 2
	DefaultKeywordTopN      = 20
)

// Weights of the three interest factors. They are normalized by their sum.
type Weights struct {
	Balance        float64 `yaml:"balance" json:"balance"`
	Responsiveness float64 `yaml:"responsiveness" json:"responsiveness"`
	Activity       float64 `yaml:"activity" json:"activity"`
}

func (w Weights) sum() float64 { return w.Balance + w.Responsiveness + w.Activity }

// LabelTier maps every score >= Min (and below the previous tier) to Label.
type LabelTier struct {
	Min   int    `yaml:"min" json:"min"`
	Label string `yaml:"label" json:"label"`
}

// DefaultLabels ordered from the highest tier down to 0.
func DefaultLabels() []LabelTier {
	return []LabelTier{
		{Min: 80, Label: "매우 높음"},
		{Min: 60, Label: "높음"},
		{Min: 40, Label: "보통"},
		{Min: 20, Label: "조금 낮음"},
		{Min: 0, Label: "낮음"},
	}
}

// Settings is the read-only engine configuration. Build it once at startup
// and share it between requests.
type Settings struct {
	Stopwords          map[string]struct{}
	MinKeywordLength   int
	KeywordTopN        int
	ActivitySaturation int
	Weights            Weights
	Labels             []LabelTier

	// Tone lists the words behind the summary's tone sentence, normalized.
	Tone ToneLexicon

	// ExcludeMalformedHours drops messages whose hour could not be parsed
	// from the time distribution instead of counting them at hour 0.
	ExcludeMalformedHours bool
}

// DefaultSettings returns the built-in configuration.
func DefaultSettings() Settings {
	return Settings{
		Stopwords:          StopwordSet(DefaultStopwords, nil),
		MinKeywordLength:   DefaultMinKeywordLength,
		KeywordTopN:        DefaultKeywordTopN,
		ActivitySaturation: DefaultActivitySaturation,
		Weights: Weights{
			Balance:        DefaultBalanceWeight,
			Responsiveness: DefaultResponsivenessWeight,
			Activity:       DefaultActivityWeight,
		},
		Labels: DefaultLabels(),
		Tone:   DefaultToneLexicon().Normalized(),
	}
}

// Validate checks weights and the label table. The table must be strictly
// descending and end at 0 so every score in 0..100 maps to one label.
func (s Settings) Validate() error {
	if s.MinKeywordLength < 1 {
		return fmt.Errorf("minKeywordLength must be >= 1, got %d", s.MinKeywordLength)
	}
	if s.ActivitySaturation < 1 {
		return fmt.Errorf("activitySaturation must be >= 1, got %d", s.ActivitySaturation)
	}
	w := s.Weights
	for name, v := range map[string]float64{
		"balance":        w.Balance,
		"responsiveness": w.Responsiveness,
		"activity":       w.Activity,
	} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("weight %s must be a finite value >= 0", name)
		}
	}
	if w.sum() <= 0 {
		return errors.New("at least one weight must be > 0")
	}
	return ValidateLabels(s.Labels)
}

// ValidateLabels checks that tiers are strictly descending, within 0..100,
// non-empty and that the last tier starts at 0.
func ValidateLabels(tiers []LabelTier) error {
	if len(tiers) == 0 {
		return errors.New("label table is empty")
	}
	prev := 101
	for i, t := range tiers {
		if strings.TrimSpace(t.Label) == "" {
			return fmt.Errorf("label tier %d has an empty label", i)
		}
		if t.Min < 0 || t.Min > 100 {
			return fmt.Errorf("label tier %q: min %d out of range 0..100", t.Label, t.Min)
		}
		if t.Min >= prev {
			return fmt.Errorf("label tier %q: min %d is not below previous tier %d", t.Label, t.Min, prev)
		}
		prev = t.Min
	}
	if prev != 0 {
		return fmt.Errorf("last label tier must start at 0, got %d", prev)
	}
	return nil
}

// LabelFor returns the label of the first tier whose Min <= score.
func LabelFor(tiers []LabelTier, score int) string {
	for _, t := range tiers {
		if score >= t.Min {
			return t.Label
		}
	}
	if len(tiers) > 0 {
		return tiers[len(tiers)-1].Label
	}
	return ""
}

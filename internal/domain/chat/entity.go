package chat

// RawMessage is one logical message recovered from export text.
// Continuation lines are already merged into Body.
type RawMessage struct {
	TimestampRaw string `json:"timestampRaw"`
	Sender       string `json:"sender"`
	Body         string `json:"body"`
	Hour         int    `json:"hour"`
	Date         string `json:"date,omitempty"` // YYYY-MM-DD when the export carries it
	Malformed    bool   `json:"-"`              // hour could not be read from TimestampRaw
}

// ParticipationEntry value object
type ParticipationEntry struct {
	Sender string `json:"sender"`
	Count  int    `json:"count"`
	Ratio  int    `json:"ratio"` // whole percent, entries sum to 100
}

// KeywordEntry value object
type KeywordEntry struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// TimeSlot value object
type TimeSlot struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// Factors are the normalized [0,1] inputs of the interest score.
type Factors struct {
	Balance        float64 `json:"balance"`
	Responsiveness float64 `json:"responsiveness"`
	Activity       float64 `json:"activity"`
}

// Insight is the scorer output.
type Insight struct {
	InterestScore int         `json:"interestScore"`
	InterestLabel string      `json:"interestLabel"`
	Topic         string      `json:"topic"`
	Summary       string      `json:"summary"`
	Factors       Factors     `json:"-"`
	Tone          ToneReading `json:"-"`
}

// AnalysisResult is the response body of the analyze endpoints.
// Built once per request and never persisted.
type AnalysisResult struct {
	TotalMessages    int                  `json:"totalMessages"`
	Participation    []ParticipationEntry `json:"participation"`
	Keywords         []KeywordEntry       `json:"keywords"`
	TimeDistribution []TimeSlot           `json:"timeDistribution"`
	InterestScore    int                  `json:"interestScore"`
	InterestLabel    string               `json:"interestLabel"`
	Topic            string               `json:"topic"`
	Summary          string               `json:"summary"`
}

// ParseStats counts what the parser did with each physical line.
type ParseStats struct {
	Lines         int `json:"lines"`
	Messages      int `json:"messages"`
	Continuations int `json:"continuations"`
	Dividers      int `json:"dividers"`
	Discarded     int `json:"discarded"`
	Malformed     int `json:"malformed"`
}

package analysiserrors

import "time"

// Record is one internal analysis failure kept for operators.
// It never contains the analyzed text, only its size.
type Record struct {
	ID         string    `json:"id"`
	RequestID  string    `json:"request_id,omitempty"`
	Phase      string    `json:"phase"` // analyze_text | analyze_legacy
	Message    string    `json:"message"`
	InputBytes int       `json:"input_bytes"`
	CreatedAt  time.Time `json:"created_at"`
}

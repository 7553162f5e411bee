package chat

import "errors"

// Error kinds. Match them with errors.Is.
var (
	ErrValidation = errors.New("validation error")
	ErrParse      = errors.New("parse error")
	ErrInternal   = errors.New("internal error")
)

// Messages shown to the caller as-is.
const (
	MsgEmptyText      = "텍스트가 없습니다."
	MsgBadFormat      = "카톡 형식이 올바르지 않습니다."
	MsgAnalysisFailed = "분석 중 오류가 발생했습니다."
)

// Error carries a kind, a short user-displayable message and the
// underlying cause (never shown to the caller).
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.Error() + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Kind.Error() + ": " + e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// NewValidationError input must be corrected by the user
func NewValidationError(msg string) *Error {
	return &Error{Kind: ErrValidation, Message: msg}
}

// NewParseError nothing could be recovered from non-empty input
func NewParseError(msg string) *Error {
	return &Error{Kind: ErrParse, Message: msg}
}

// NewInternalError wraps an unexpected failure behind a generic message.
func NewInternalError(cause error) *Error {
	return &Error{Kind: ErrInternal, Message: MsgAnalysisFailed, Err: cause}
}

// UserMessage returns the text that may be shown to the caller for err.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return MsgAnalysisFailed
}

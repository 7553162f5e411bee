package chat

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKinds(t *testing.T) {
	cause := errors.New("boom")
	internal := NewInternalError(cause)
	wrapped := fmt.Errorf("request: %w", internal)

	if !errors.Is(wrapped, ErrInternal) || !errors.Is(wrapped, cause) {
		t.Fatalf("wrapped internal error lost its chain: %v", wrapped)
	}
	if errors.Is(wrapped, ErrParse) {
		t.Fatalf("internal error must not match ErrParse")
	}
	if UserMessage(wrapped) != MsgAnalysisFailed {
		t.Fatalf("cause leaked into user message: %q", UserMessage(wrapped))
	}

	v := NewValidationError(MsgEmptyText)
	if !errors.Is(v, ErrValidation) || UserMessage(v) != MsgEmptyText {
		t.Fatalf("unexpected validation error %v", v)
	}
	if UserMessage(errors.New("plain")) != MsgAnalysisFailed {
		t.Fatalf("unknown errors must use the generic message")
	}
}

package chat

import "context"

// Source port for a pre-loaded chat export (legacy GET /api/analyze).
// Load returns the decoded export text.
type Source interface {
	Load(ctx context.Context) (string, error)
	Name() string
}

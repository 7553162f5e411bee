package chatfile

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/bryanwahyu/chatlens/internal/infra/textenc"
)

// Source reads a chat export from the local disk on every Load, so the
// file can be replaced without a restart.
type Source struct {
	path string
}

func New(path string) *Source { return &Source{path: path} }

func (s *Source) Name() string { return "file:" + s.path }

func (s *Source) Load(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b, err := os.ReadFile(s.path)
	if err != nil {
		return "", err
	}
	text, enc, err := textenc.Decode(b)
	if err != nil {
		return "", fmt.Errorf("%s: %w", s.path, err)
	}
	slog.Debug("chat file loaded", "path", s.path, "bytes", len(b), "encoding", enc)
	return text, nil
}

// Check implements the health checker used by /healthz.
func (s *Source) Check(ctx context.Context) error {
	_, err := os.Stat(s.path)
	return err
}

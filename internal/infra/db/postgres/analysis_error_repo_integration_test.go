//go:build integration

package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	domain "github.com/bryanwahyu/chatlens/internal/domain/analysiserrors"
)

func TestAnalysisErrorRepositoryRoundTrip(t *testing.T) {
	dsn := os.Getenv("CHATLENS_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("CHATLENS_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	db, err := Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer db.Close()

	repo := NewAnalysisErrorRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	rec := &domain.Record{Phase: "analyze_text", Message: "boom", InputBytes: 42, CreatedAt: time.Now().UTC()}
	if err := repo.Save(ctx, rec); err != nil {
		t.Fatalf("save: %v", err)
	}
	list, err := repo.Latest(ctx, 5)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	for _, r := range list {
		if r.ID == rec.ID {
			if r.RequestID != "-" || r.InputBytes != 42 {
				t.Fatalf("unexpected record %+v", r)
			}
			return
		}
	}
	t.Fatalf("saved record %s not returned", rec.ID)
}

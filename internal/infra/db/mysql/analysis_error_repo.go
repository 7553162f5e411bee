package mysql

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	domain "github.com/bryanwahyu/chatlens/internal/domain/analysiserrors"
)

// Schema is the DDL for the analysis error sink.
const Schema = `
CREATE TABLE IF NOT EXISTS analysis_errors (
  id          CHAR(36)     NOT NULL PRIMARY KEY,
  request_id  VARCHAR(64)  NOT NULL DEFAULT '-',
  phase       VARCHAR(32)  NOT NULL,
  message     TEXT         NOT NULL,
  input_bytes INT          NOT NULL DEFAULT 0,
  created_at  DATETIME(3)  NOT NULL,
  KEY idx_analysis_errors_created (created_at)
)`

type AnalysisErrorRepository struct {
	db *sql.DB
}

func NewAnalysisErrorRepository(db *sql.DB) *AnalysisErrorRepository {
	return &AnalysisErrorRepository{db: db}
}

// Migrate creates the table when missing.
func (r *AnalysisErrorRepository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, Schema)
	return err
}

func (r *AnalysisErrorRepository) Save(ctx context.Context, e *domain.Record) error {
	const q = `
INSERT INTO analysis_errors
  (id, request_id, phase, message, input_bytes, created_at)
VALUES (?,?,?,?,?,?)
`
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	msg := e.Message
	if strings.TrimSpace(msg) == "" {
		msg = "-"
	}
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q, e.ID, stringOrDash(e.RequestID), stringOrDash(e.Phase), msg, e.InputBytes, created)
	return err
}

func (r *AnalysisErrorRepository) Latest(ctx context.Context, limit int) ([]*domain.Record, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, request_id, phase, message, input_bytes, created_at
FROM analysis_errors
ORDER BY created_at DESC, id DESC
LIMIT ?;`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Record
	for rows.Next() {
		var e domain.Record
		if err := rows.Scan(&e.ID, &e.RequestID, &e.Phase, &e.Message, &e.InputBytes, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

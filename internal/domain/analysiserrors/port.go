package analysiserrors

import "context"

// Repository defines persistence for analysis errors
type Repository interface {
	Save(ctx context.Context, r *Record) error
	Latest(ctx context.Context, limit int) ([]*Record, error)
}

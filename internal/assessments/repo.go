package assessments

import (
	"context"
	"time"
)

// Repo defines persistence operations for assessments.
type Repo interface {
	Create(ctx context.Context, a Assessment) error
	GetByID(ctx context.Context, id string) (Assessment, error)
	// ListBySource returns a page of a source's assessments, newest first.
	ListBySource(ctx context.Context, source string, limit, offset int) ([]Assessment, error)
	// History returns a source's assessments measured at or after since,
	// oldest first. Ties on measuredAt keep insertion order.
	History(ctx context.Context, source string, since time.Time) ([]Assessment, error)
}

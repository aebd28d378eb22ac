package assessments

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo stores assessments in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu       sync.RWMutex
	byID     map[string]Assessment
	bySource map[string][]Assessment
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:     make(map[string]Assessment),
		bySource: make(map[string][]Assessment),
	}
}

// Create stores the assessment.
func (r *MemoryRepo) Create(ctx context.Context, a Assessment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[a.ID] = a
	r.bySource[a.Source] = append(r.bySource[a.Source], a)
	return nil
}

// GetByID returns an assessment by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Assessment, error) {
	if err := ctx.Err(); err != nil {
		return Assessment{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[id]
	if !ok {
		return Assessment{}, ErrNotFound
	}
	return a, nil
}

// ListBySource returns a page of assessments for a source, newest measurement first.
func (r *MemoryRepo) ListBySource(ctx context.Context, source string, limit, offset int) ([]Assessment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	items := append([]Assessment(nil), r.bySource[source]...)
	r.mu.RUnlock()

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].MeasuredAt.Equal(items[j].MeasuredAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].MeasuredAt.After(items[j].MeasuredAt)
	})

	if offset >= len(items) {
		return []Assessment{}, nil
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end], nil
}

// History returns assessments measured at or after since, oldest first.
func (r *MemoryRepo) History(ctx context.Context, source string, since time.Time) ([]Assessment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Assessment, 0, len(r.bySource[source]))
	for _, a := range r.bySource[source] {
		if !a.MeasuredAt.Before(since) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MeasuredAt.Before(out[j].MeasuredAt)
	})
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)

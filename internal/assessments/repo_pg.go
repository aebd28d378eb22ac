package assessments

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"waterquality-backend/internal/quality"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `
SELECT id, source, measured_at, readings, index_score, index_category, index_components,
       recommendations, diagnostics, catalog_version, created_at
FROM assessments`

// Create inserts a new assessment.
func (r *PGRepo) Create(ctx context.Context, a Assessment) error {
	const query = `
INSERT INTO assessments (
	id, source, measured_at, readings, index_score, index_category, index_components,
	recommendations, diagnostics, catalog_version, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	readings, err := marshalJSONB(a.Values, "{}")
	if err != nil {
		return err
	}
	components, err := marshalJSONB(a.Index.Components, "[]")
	if err != nil {
		return err
	}
	recs, err := marshalJSONB(a.Recommendations, "[]")
	if err != nil {
		return err
	}
	diags, err := marshalJSONB(a.Diagnostics, "[]")
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		a.ID,
		a.Source,
		a.MeasuredAt,
		readings,
		a.Index.Score,
		a.Index.Category,
		components,
		recs,
		diags,
		a.CatalogVersion,
		a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert assessment %s: %w", a.ID, err)
	}
	return nil
}

// GetByID returns an assessment by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Assessment, error) {
	row := r.DB.QueryRowContext(ctx, selectColumns+`
WHERE id = $1
LIMIT 1`, id)
	a, err := scanAssessment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Assessment{}, ErrNotFound
		}
		return Assessment{}, err
	}
	return a, nil
}

// ListBySource returns a page of assessments for a source, newest measurement first.
func (r *PGRepo) ListBySource(ctx context.Context, source string, limit, offset int) ([]Assessment, error) {
	rows, err := r.DB.QueryContext(ctx, selectColumns+`
WHERE source = $1
ORDER BY measured_at DESC, created_at DESC
LIMIT $2 OFFSET $3`, source, limit, offset)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

// History returns assessments measured at or after since, oldest first.
func (r *PGRepo) History(ctx context.Context, source string, since time.Time) ([]Assessment, error) {
	rows, err := r.DB.QueryContext(ctx, selectColumns+`
WHERE source = $1 AND measured_at >= $2
ORDER BY measured_at ASC, created_at ASC`, source, since)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAssessment(row rowScanner) (Assessment, error) {
	var a Assessment
	var readings, components, recs, diags []byte
	if err := row.Scan(
		&a.ID,
		&a.Source,
		&a.MeasuredAt,
		&readings,
		&a.Index.Score,
		&a.Index.Category,
		&components,
		&recs,
		&diags,
		&a.CatalogVersion,
		&a.CreatedAt,
	); err != nil {
		return Assessment{}, err
	}
	if err := unmarshalJSONB(readings, &a.Values); err != nil {
		return Assessment{}, fmt.Errorf("decode readings of %s: %w", a.ID, err)
	}
	if err := unmarshalJSONB(components, &a.Index.Components); err != nil {
		return Assessment{}, fmt.Errorf("decode index components of %s: %w", a.ID, err)
	}
	if err := unmarshalJSONB(recs, &a.Recommendations); err != nil {
		return Assessment{}, fmt.Errorf("decode recommendations of %s: %w", a.ID, err)
	}
	if err := unmarshalJSONB(diags, &a.Diagnostics); err != nil {
		return Assessment{}, fmt.Errorf("decode diagnostics of %s: %w", a.ID, err)
	}
	if a.Recommendations == nil {
		a.Recommendations = []quality.Recommendation{}
	}
	if a.Diagnostics == nil {
		a.Diagnostics = []quality.Diagnostic{}
	}
	return a, nil
}

func collect(rows *sql.Rows) ([]Assessment, error) {
	defer rows.Close()
	out := []Assessment{}
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func marshalJSONB(value any, empty string) ([]byte, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	if string(raw) == "null" {
		return []byte(empty), nil
	}
	return raw, nil
}

func unmarshalJSONB(raw []byte, dest any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dest)
}

var _ Repo = (*PGRepo)(nil)

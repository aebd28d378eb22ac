package health

import (
	"context"
	"database/sql"
	"time"

	"waterquality-backend/internal/guidelines"
	"waterquality-backend/internal/shared/storage/db"
)

const pingTimeout = 2 * time.Second

// Status is the health payload.
type Status struct {
	OK             bool   `json:"ok"`
	Database       string `json:"database"`
	CatalogVersion int    `json:"catalogVersion"`
	Parameters     int    `json:"parameters"`
}

// Service encapsulates health-related checks.
type Service struct {
	DB      *sql.DB
	Catalog *guidelines.Catalog
}

// NewService constructs a new health service. database may be nil when the
// process runs on in-memory repositories.
func NewService(database *sql.DB, cat *guidelines.Catalog) *Service {
	return &Service{DB: database, Catalog: cat}
}

// Status reports catalog state and database reachability.
func (s *Service) Status(ctx context.Context) Status {
	st := Status{OK: true, Database: "memory"}
	if s.Catalog != nil {
		st.CatalogVersion = s.Catalog.Version()
		st.Parameters = len(s.Catalog.Names())
	} else {
		st.OK = false
	}
	if s.DB != nil {
		st.Database = "up"
		if err := db.Ping(ctx, s.DB, pingTimeout); err != nil {
			st.Database = "down"
			st.OK = false
		}
	}
	return st
}

package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"waterquality-backend/internal/assessments"
	"waterquality-backend/internal/shared/config"
)

func TestBuildDevUsesMemory(t *testing.T) {
	app, err := Build(context.Background(), config.Config{
		Env:             "dev",
		ObjectStoreType: "local",
		LocalStoreDir:   t.TempDir(),
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer app.Close()

	if app.DB != nil {
		t.Fatalf("expected no database in dev without DATABASE_URL")
	}
	if _, ok := app.AssessmentsRepo.(*assessments.MemoryRepo); !ok {
		t.Fatalf("expected memory repo, got %T", app.AssessmentsRepo)
	}
	if app.Store == nil || app.Catalog == nil || app.Router == nil {
		t.Fatalf("expected store, catalog and router to be built")
	}

	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/guidelines", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 from guidelines, got %d", resp.Code)
	}
}

func TestBuildRequiresDatabaseInProduction(t *testing.T) {
	if _, err := Build(context.Background(), config.Config{Env: "production", ObjectStoreType: "none"}); err == nil {
		t.Fatalf("expected error without DATABASE_URL in production")
	}
}

func TestBuildStoreNone(t *testing.T) {
	app, err := Build(context.Background(), config.Config{Env: "local", ObjectStoreType: "none"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if app.Store != nil || app.AssessmentService.Store != nil {
		t.Fatalf("expected no object store")
	}
}

func TestBuildS3RequiresBucket(t *testing.T) {
	if _, err := Build(context.Background(), config.Config{Env: "dev", ObjectStoreType: "s3"}); err == nil {
		t.Fatalf("expected error without S3_BUCKET")
	}
}

func TestLoadCatalog(t *testing.T) {
	cat, err := LoadCatalog("")
	if err != nil || cat == nil {
		t.Fatalf("expected embedded catalog, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("parameters: [\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadCatalog(path); err == nil {
		t.Fatalf("expected error for broken catalog")
	}
	if _, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing catalog")
	}
}

package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"waterquality-backend/internal/assessments"
	"waterquality-backend/internal/guidelines"
	"waterquality-backend/internal/services/health"
	"waterquality-backend/internal/shared/config"
	"waterquality-backend/internal/shared/server"
	"waterquality-backend/internal/shared/server/middleware"
	"waterquality-backend/internal/shared/storage/db"
	"waterquality-backend/internal/shared/storage/object"
	localstore "waterquality-backend/internal/shared/storage/object/local"
	s3store "waterquality-backend/internal/shared/storage/object/s3"
)

// App holds shared dependencies.
type App struct {
	Config            config.Config
	Router            *gin.Engine
	DB                *sql.DB
	Store             object.ObjectStore
	Catalog           *guidelines.Catalog
	AssessmentsRepo   assessments.Repo
	AssessmentService *assessments.Service
	AssessmentHandler *assessments.Handler
	Health            *health.Service
}

// Build prepares shared dependencies and the router.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}

	cat, err := LoadCatalog(cfg.GuidelinesPath)
	if err != nil {
		return nil, err
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		if sqlDB != nil {
			sqlDB.Close()
		}
		return nil, err
	}

	app := &App{
		Config:  cfg,
		DB:      sqlDB,
		Store:   store,
		Catalog: cat,
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:            app.Config,
		AssessmentHandler: app.AssessmentHandler,
		Health:            app.Health,
		Limiter:           middleware.NewRateLimiter(nil),
	})

	return app, nil
}

// Close releases the database pool.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

// LoadCatalog loads the guideline catalog from path, or the embedded default when path is empty.
func LoadCatalog(path string) (*guidelines.Catalog, error) {
	if strings.TrimSpace(path) == "" {
		cat, err := guidelines.Default()
		if err != nil {
			return nil, fmt.Errorf("load embedded guideline catalog: %w", err)
		}
		return cat, nil
	}
	cat, err := guidelines.LoadFile(path)
	if err != nil {
		return nil, err
	}
	log.Printf("bootstrap: loaded guideline catalog %s version=%d parameters=%d", path, cat.Version(), len(cat.Names()))
	return cat, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: migrations failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, s3store.Options{
			Region:          cfg.AWSRegion,
			Bucket:          cfg.S3Bucket,
			Prefix:          cfg.S3Prefix,
			KMSKeyID:        cfg.SSEKMSKeyID,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretKey,
		})
	case "none":
		log.Printf("bootstrap: OBJECT_STORE=none; assessment snapshots are not archived")
		return nil, nil
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildServices(app *App) {
	var repo assessments.Repo
	if app.DB != nil {
		repo = &assessments.PGRepo{DB: app.DB}
	} else {
		repo = assessments.NewMemoryRepo()
	}

	svc := &assessments.Service{
		Repo:             repo,
		Catalog:          app.Catalog,
		Store:            app.Store,
		TrendDefaultDays: app.Config.TrendDefaultDays,
		TrendMaxDays:     app.Config.TrendMaxDays,
	}

	app.AssessmentsRepo = repo
	app.AssessmentService = svc
	app.AssessmentHandler = assessments.NewHandler(svc)
	app.Health = health.NewService(app.DB, app.Catalog)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"btoolme/internal/catalog"
	"btoolme/internal/delivery"
	"btoolme/internal/health"
	"btoolme/internal/mailer"
	"btoolme/internal/questionnaire"
	"btoolme/internal/shared/config"
	"btoolme/internal/shared/metrics"
	"btoolme/internal/shared/server"
	"btoolme/internal/shared/storage/db"
)

// Sender is a mailer that can also verify its transport.
type Sender interface {
	mailer.Sender
	mailer.Verifier
}

// App holds shared dependencies, built once at process start.
type App struct {
	Config        config.Config
	Router        *gin.Engine
	DB            *sql.DB
	Catalog       *catalog.Snapshot
	Metrics       *metrics.Recorder
	Sender        Sender
	Questionnaire *questionnaire.Service
	Dispatcher    *delivery.MailDispatcher
	Gateway       *delivery.Gateway
	Health        *health.Service
}

// Options lets callers substitute collaborators, mainly in tests.
type Options struct {
	Sender Sender
}

// Build prepares every dependency and the router.
func Build(cfg config.Config) (*App, error) {
	return BuildWith(cfg, Options{})
}

func BuildWith(cfg config.Config, opts Options) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	snapshot, err := buildCatalog(ctx, sqlDB)
	if err != nil {
		return nil, err
	}

	rec, err := metrics.NewRecorder()
	if err != nil {
		return nil, err
	}

	sender := opts.Sender
	if sender == nil {
		sender, err = buildSender(cfg)
		if err != nil {
			return nil, err
		}
	}

	app := &App{
		Config:  cfg,
		DB:      sqlDB,
		Catalog: snapshot,
		Metrics: rec,
		Sender:  sender,
	}
	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:    cfg,
		Metrics:   rec,
		Catalog:   catalog.NewHandler(snapshot),
		Questions: questionnaire.NewHandler(app.Questionnaire),
		Delivery:  delivery.NewHandler(app.Dispatcher, rec),
		Health:    health.NewHandler(app.Health),
	})
	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		log.Printf("bootstrap: DATABASE_URL empty; serving the embedded catalog")
		return nil, nil
	}

	rt := db.DetectRuntime()
	opts := db.OptionsFromEnv(db.DefaultOptions(rt))
	var (
		sqlDB *sql.DB
		err   error
	)
	if rt == db.RuntimeLambda {
		sqlDB, err = db.Shared(ctx, cfg.DatabaseURL, opts)
	} else {
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, opts)
	}
	if err != nil {
		if cfg.IsDevLike() {
			log.Printf("bootstrap: database connect failed; serving the embedded catalog: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return migrateForDev(ctx, cfg, rt, sqlDB), nil
}

// runMigrations is swapped in tests.
var runMigrations = db.RunMigrations

// migrateForDev applies pending migrations for local servers so the tools
// table exists without running cmd/migrate. Deployed environments migrate
// at release time.
func migrateForDev(ctx context.Context, cfg config.Config, rt db.Runtime, conn *sql.DB) *sql.DB {
	if conn == nil || rt != db.RuntimeServer || !cfg.IsDevLike() {
		return conn
	}
	if err := runMigrations(ctx, conn); err != nil {
		log.Printf("bootstrap: migrations failed; serving the embedded catalog: %v", err)
		_ = conn.Close()
		return nil
	}
	return conn
}

func buildCatalog(ctx context.Context, sqlDB *sql.DB) (*catalog.Snapshot, error) {
	if sqlDB != nil {
		snapshot, err := catalog.Load(ctx, &catalog.PGRepo{DB: sqlDB})
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		if len(snapshot.Tools()) > 0 {
			log.Printf("bootstrap: catalog loaded from database (%d tools)", len(snapshot.Tools()))
			return snapshot, nil
		}
		log.Printf("bootstrap: tools table empty; run cmd/migrate to seed it. Serving the embedded catalog")
	}
	return catalog.Load(ctx, catalog.NewMemoryRepo(catalog.Default()))
}

// buildSender validates email settings once. Production refuses to start
// without them; dev-like environments log messages instead of sending.
func buildSender(cfg config.Config) (Sender, error) {
	err := cfg.ValidateEmail()
	if err == nil {
		return mailer.NewGmailSender(mailer.GmailConfig{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RefreshToken: cfg.GoogleRefreshToken,
			RedirectURL:  cfg.GoogleRedirectURL,
			User:         cfg.EmailFrom,
			Host:         cfg.SMTPHost,
			Port:         cfg.SMTPPort,
		})
	}
	if cfg.IsDevLike() {
		if cfg.EmailConfigured() {
			log.Printf("bootstrap: Gmail credentials present but invalid (%v); using log sender", err)
		} else {
			log.Printf("bootstrap: email not configured; using log sender")
		}
		return mailer.LogSender{}, nil
	}
	return nil, err
}

func buildServices(app *App) error {
	qs, err := questionnaire.NewService(app.Catalog, app.Config.RecommendationLimit, app.Config.RecommendationCacheSize, app.Metrics)
	if err != nil {
		return err
	}
	from := app.Config.EmailFrom
	if from == "" {
		from = "no-reply@btoolme.local"
	}
	dispatcher := &delivery.MailDispatcher{
		Sender:     app.Sender,
		From:       from,
		FromName:   app.Config.EmailFromName,
		InternalTo: app.Config.EmailInternalTo,
		Metrics:    app.Metrics,
	}

	var dbCheck health.Checker
	if app.DB != nil {
		conn := app.DB
		dbCheck = func(ctx context.Context) error { return db.Ping(ctx, conn, 0) }
	}

	app.Questionnaire = qs
	app.Dispatcher = dispatcher
	app.Gateway = delivery.NewGateway(dispatcher, app.Metrics)
	app.Health = health.NewService(app.Sender.Verify, dbCheck)

	if app.Questionnaire == nil || app.Gateway == nil {
		return errors.New("failed to initialize services")
	}
	return nil
}

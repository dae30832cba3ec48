package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/RiasZoV/Practice/internal/console"
	"github.com/RiasZoV/Practice/internal/core/ports"
	"github.com/RiasZoV/Practice/internal/core/service"
	"github.com/RiasZoV/Practice/internal/infrastructure/config"
	"github.com/RiasZoV/Practice/internal/infrastructure/credential"
	"github.com/RiasZoV/Practice/internal/infrastructure/db/mongo"
	"github.com/RiasZoV/Practice/internal/infrastructure/db/sqlstore"
	"github.com/RiasZoV/Practice/internal/infrastructure/health"
	"github.com/RiasZoV/Practice/internal/infrastructure/seed"
	"github.com/RiasZoV/Practice/internal/metrics"
	"github.com/RiasZoV/Practice/pkg/logger"
)

// app holds the wired services for one process run.
type app struct {
	cfg    *config.Config
	log    zerolog.Logger
	repo   ports.DirectoryRepository
	check  *health.Checker
	closer func() error

	auth  *service.AuthService
	admin *service.AdminService
	authz *service.Authorizer
	boot  *service.BootstrapService
}

func loadEnv(path string) error {
	return config.LoadDotenv(path)
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty, Env: cfg.Env})

	a := &app{cfg: cfg, log: log, check: health.NewChecker(3 * time.Second)}
	if err := a.openStore(ctx); err != nil {
		return nil, err
	}

	creds := credential.NewBcrypt(cfg.BcryptCost)
	a.auth = service.NewAuthService(a.repo, creds, cfg.Location(), log.With().Str("component", "auth").Logger())
	a.admin = service.NewAdminService(a.repo, creds, log.With().Str("component", "admin").Logger())
	a.authz = service.NewAuthorizer(a.repo, cfg.ScopeManagerResets, log.With().Str("component", "authz").Logger())
	a.boot = service.NewBootstrapService(a.repo, a.admin, log.With().Str("component", "bootstrap").Logger())
	return a, nil
}

func (a *app) openStore(ctx context.Context) error {
	switch a.cfg.Store {
	case config.StoreMongo:
		store, err := mongo.Open(ctx, mongo.Config{URI: a.cfg.Mongo.URI, Database: a.cfg.Mongo.Database})
		if err != nil {
			return err
		}
		a.repo = store
		a.check.Register("mongodb", health.PingFunc(store.Ping))
		a.closer = func() error { return store.Close(context.Background()) }
		a.log.Info().Str("database", a.cfg.Mongo.Database).Msg("mongo directory store opened")

	default:
		db, err := sqlstore.Open(sqlstore.Config{Path: a.cfg.SQLite.Path, Debug: a.cfg.SQLite.Debug})
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		a.repo = sqlstore.NewDirectoryRepository(db)
		a.check.Register("sqlite", health.PingFunc(sqlDB.PingContext))
		a.closer = func() error { return sqlstore.Close(db) }
		a.log.Info().Str("path", a.cfg.SQLite.Path).Msg("sqlite directory store opened")
	}
	return nil
}

// close releases the store and writes the metrics textfile when configured.
func (a *app) close() {
	if a.cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(a.cfg.MetricsFile); err != nil {
			a.log.Warn().Err(err).Str("path", a.cfg.MetricsFile).Msg("metrics textfile not written")
		}
	}
	if a.closer != nil {
		if err := a.closer(); err != nil {
			a.log.Warn().Err(err).Msg("closing directory store")
		}
	}
}

func runConsole(ctx context.Context, in io.Reader, out io.Writer) error {
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.boot.EnsureDefaults(ctx); err != nil {
		return err
	}
	if a.cfg.SeedFile != "" {
		if err := a.seedFrom(ctx, a.cfg.SeedFile); err != nil {
			return err
		}
	}

	con := console.New(in, out, a.auth, a.admin, a.authz, a.log.With().Str("component", "console").Logger())

	need, err := a.boot.NeedsInitialUsers(ctx)
	if err != nil {
		return err
	}
	if need {
		n, err := con.InitialUsers(ctx)
		if err != nil {
			return err
		}
		a.log.Info().Int("added", n).Msg("initial users entered")
	}

	err = con.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (a *app) seedFrom(ctx context.Context, path string) error {
	users, err := seed.LoadUsers(path)
	if err != nil {
		return err
	}
	n, err := a.boot.SeedUsers(ctx, users)
	if err != nil {
		return err
	}
	a.log.Info().Str("file", path).Int("added", n).Int("entries", len(users)).Msg("seed file applied")
	return nil
}

func runSeed(ctx context.Context, path string, out io.Writer) error {
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.boot.EnsureDefaults(ctx); err != nil {
		return err
	}
	before, err := a.repo.CountUsers(ctx)
	if err != nil {
		return err
	}
	if err := a.seedFrom(ctx, path); err != nil {
		return err
	}
	after, err := a.repo.CountUsers(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "%d users added, %d in directory\n", after-before, after)
	return err
}

func runCheck(ctx context.Context, out io.Writer) error {
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	report := a.check.Check(ctx)
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return err
	}
	if !report.Healthy() {
		return errors.New("directory store unhealthy")
	}
	return nil
}

package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resume-builder/internal/adapter/analytics"
	"resume-builder/internal/adapter/cache"
	"resume-builder/internal/adapter/events"
	httpadapter "resume-builder/internal/adapter/http"
	repo "resume-builder/internal/adapter/repository"
	"resume-builder/internal/config"
	"resume-builder/internal/infrastructure/migration"
	"resume-builder/internal/usecase"
	infra "resume-builder/pkg/infrastructure"
	"resume-builder/pkg/logger"
	"resume-builder/pkg/telemetry"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func newConfig() (*config.Config, error) {
	return config.Load(os.Getenv("RESUME_CONFIG"))
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New(cfg.Log.Level, cfg.Log.Format)
}

func registerTracer(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) error {
	shutdown, err := telemetry.InitTracer(context.Background(), cfg.Telemetry.ServiceName, cfg.Telemetry.CollectorURL)
	if err != nil {
		return err
	}
	if cfg.Telemetry.CollectorURL != "" {
		logger.Info("tracing enabled", zap.String("collector", cfg.Telemetry.CollectorURL))
	}
	lc.Append(fx.Hook{OnStop: shutdown})
	return nil
}

func newDraftRepo(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (usecase.DraftRepo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if cfg.Storage.Driver == config.DriverSQLite {
		db, err := infra.OpenSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := migration.RunSQLite(ctx, db, logger); err != nil {
			db.Close()
			return nil, err
		}
		lc.Append(fx.Hook{OnStop: func(context.Context) error { return db.Close() }})
		logger.Info("drafts stored in sqlite", zap.String("path", cfg.Storage.SQLitePath))
		return repo.NewSQLiteDraftsRepo(db), nil
	}

	pool, err := infra.NewPostgresPool(ctx, cfg.Storage.PostgresURL)
	if err != nil {
		return nil, err
	}
	if err := migration.RunPostgres(ctx, pool, logger); err != nil {
		pool.Close()
		return nil, err
	}
	lc.Append(fx.Hook{OnStop: func(context.Context) error {
		pool.Close()
		return nil
	}})
	logger.Info("drafts stored in postgres")
	return repo.NewDraftsRepo(pool), nil
}

// newCache falls back to the in-process cache when redis is unset or
// unreachable; the cache only saves rendering work.
func newCache(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) cache.Cache {
	var c cache.Cache = cache.NewMemoryWithLimit(cfg.Redis.MemoryEntries)
	if cfg.Redis.Addr != "" {
		r := cache.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := r.Ping(ctx); err != nil {
			logger.Warn("redis unavailable, using in-memory export cache", zap.Error(err))
			r.Close()
		} else {
			c = r
		}
	}
	lc.Append(fx.Hook{OnStop: func(context.Context) error { return c.Close() }})
	return c
}

func newPublisher(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (events.Publisher, error) {
	if cfg.NATS.URL == "" {
		return events.Noop{}, nil
	}
	p, err := events.NewNATSPublisher(cfg.NATS.URL, cfg.NATS.SubjectPrefix, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{OnStop: func(context.Context) error {
		p.Close()
		return nil
	}})
	return p, nil
}

func newRecorder(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (analytics.Recorder, error) {
	if cfg.ClickHouse.Addr == "" {
		return analytics.Noop{}, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	rec, err := analytics.NewClickHouseRecorder(ctx, cfg.ClickHouse.Addr, cfg.ClickHouse.Database,
		cfg.ClickHouse.Username, cfg.ClickHouse.Password, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{OnStop: func(context.Context) error { return rec.Close() }})
	return rec, nil
}

func newCapturer(cfg *config.Config, logger *zap.Logger) usecase.Capturer {
	return infra.NewChromedpRenderer(cfg.Browser.ExecPath, cfg.Browser.Timeout, logger)
}

func newExporter(c usecase.Capturer, ch cache.Cache, p events.Publisher, rec analytics.Recorder, cfg *config.Config, logger *zap.Logger) *usecase.Exporter {
	return usecase.NewExporter(c, ch, p, rec, usecase.ExporterConfig{
		PDFMode:  cfg.Export.PDFMode,
		Attempts: cfg.Export.Attempts,
		Backoff:  cfg.Export.Backoff,
		CacheTTL: cfg.Redis.TTL,
	}, logger)
}

func newApp(h *httpadapter.Handler, cfg *config.Config, logger *zap.Logger) *fiber.App {
	return httpadapter.NewApp(h, httpadapter.ServerConfig{
		BodyLimitMB:  cfg.HTTP.BodyLimitMB,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}, logger)
}

func startServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				logger.Info("http server listening", zap.String("addr", cfg.HTTP.Addr))
				if err := app.Listen(cfg.HTTP.Addr); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})
}

func main() {
	app := fx.New(
		fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l}
		}),
		fx.Provide(
			newConfig,
			newLogger,
			newDraftRepo,
			newCache,
			newPublisher,
			newRecorder,
			newCapturer,
			newExporter,
			usecase.NewDrafts,
			usecase.NewForm,
			httpadapter.NewHandler,
			newApp,
		),
		fx.Invoke(registerTracer, startServer),
	)

	startCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		log.Fatal(err)
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	stopCtx, cancelStop := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStop()
	if err := app.Stop(stopCtx); err != nil {
		log.Fatal(err)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"golang.org/x/time/rate"

	clientrepo "github.com/Oikion/mvp-sub017/internal/repositories/client"
	propertyrepo "github.com/Oikion/mvp-sub017/internal/repositories/property"
	"github.com/Oikion/mvp-sub017/pkg/cache"
	"github.com/Oikion/mvp-sub017/pkg/database"
	"github.com/Oikion/mvp-sub017/pkg/events"
	"github.com/Oikion/mvp-sub017/pkg/matching"
	"github.com/Oikion/mvp-sub017/pkg/middleware"
	"github.com/Oikion/mvp-sub017/pkg/routes"
	"github.com/Oikion/mvp-sub017/pkg/routes/health"
	"github.com/Oikion/mvp-sub017/pkg/startup"
	"github.com/Oikion/mvp-sub017/pkg/tracing"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the matching API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		engine, err := newEngine(cfg)
		if err != nil {
			return err
		}

		infra := &infrastructure{}
		s := infra.startup()
		if err := s.Start(ctx); err != nil {
			return eris.Wrap(err, "start dependencies")
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.Stop(stopCtx); err != nil {
				logger.WithError(err).Warn("Failed to stop dependencies cleanly")
			}
		}()

		auth := middleware.HeaderAuth()
		if cfg.Auth.Enabled {
			verifier, err := middleware.NewOIDCVerifier(ctx, cfg.Auth.IssuerURL, cfg.Auth.ClientID)
			if err != nil {
				return eris.Wrap(err, "create token verifier")
			}
			auth = middleware.Authentication(logger, verifier)
		} else {
			logger.Warn("Authentication disabled, trusting organization headers")
		}

		clients := clientrepo.NewRepository(infra.db, logger)
		properties := propertyrepo.NewRepository(infra.db, logger)

		var prefCache matching.PreferenceCache
		var redisPing health.Pinger
		if infra.redis != nil {
			prefCache = cache.NewPreferenceCache(infra.redis, cfg.Matching.CacheTTL, engine.Scorer().Extractor().Version(), logger)
			redisPing = health.PingFunc(infra.redis.Ping)
		}
		var publisher matching.EventPublisher
		if infra.producer != nil {
			publisher = infra.producer
		}

		service := matching.NewService(logger, engine, clients, properties, prefCache, publisher)
		checker := health.NewChecker(infra.db, redisPing, cfg.App.Version)

		e := newEcho()
		routes.Register(e, routes.Dependencies{
			Logger:     logger,
			Service:    service,
			Clients:    clients,
			Properties: properties,
			Health:     checker,
			Defaults:   cfg.DefaultRankRequest(),
			Auth:       auth,
		})

		port := servePort
		if port == 0 {
			port = cfg.HTTP.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           e,
			ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSeconds) * time.Second,
			WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSeconds) * time.Second,
			IdleTimeout:       time.Duration(cfg.HTTP.IdleTimeoutSeconds) * time.Second,
			ReadHeaderTimeout: time.Duration(cfg.HTTP.ReadHeaderTimeoutSeconds) * time.Second,
			MaxHeaderBytes:    cfg.HTTP.MaxHeaderBytes,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.WithField("port", port).Info("Starting server")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
		checker.SetReady(true)

		select {
		case <-ctx.Done():
		case err := <-errCh:
			return eris.Wrap(err, "server listen")
		}

		checker.SetReady(false)
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return eris.Wrap(err, "server shutdown")
		}
		return nil
	},
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.Error(logger)

	e.Use(echomw.Recover())
	e.Use(otelecho.Middleware(cfg.App.Name))
	e.Use(middleware.Context())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.HTTP.AllowOrigins,
		AllowMethods: cfg.HTTP.AllowMethods,
		AllowHeaders: []string{
			echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization,
			echo.HeaderXRequestID, middleware.HeaderTenantID, middleware.HeaderUserID,
		},
	}))
	if cfg.HTTP.BodyLimit != "" {
		e.Use(echomw.BodyLimit(cfg.HTTP.BodyLimit))
	}
	if cfg.HTTP.RateLimit > 0 {
		e.Use(echomw.RateLimiter(echomw.NewRateLimiterMemoryStore(rate.Limit(cfg.HTTP.RateLimit))))
	}

	return e
}

// infrastructure holds the connections opened during startup
type infrastructure struct {
	db       database.DB
	redis    *cache.Client
	producer *events.Producer
	shutdown func(context.Context) error
}

func (i *infrastructure) startup() *startup.Startup {
	s := startup.NewStartup(logger, cfg.App.StartupMaxAttempts)

	s.AddDependency(startup.Dependency{
		Name: "tracing",
		OnStart: func(ctx context.Context) error {
			shutdown, err := tracing.Setup(ctx, cfg.TracingConfig(), logger)
			if err != nil {
				return err
			}
			i.shutdown = shutdown
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if i.shutdown == nil {
				return nil
			}
			return i.shutdown(ctx)
		},
	})

	s.AddDependency(startup.Dependency{
		Name: "database",
		OnStart: func(ctx context.Context) error {
			db, err := database.Open(ctx, cfg.DatabaseConfig(), logger)
			if err != nil {
				return err
			}
			i.db = db
			return nil
		},
		OnStop: func(context.Context) error {
			return i.db.Close()
		},
	})

	if cfg.Migration.OnStartup {
		s.AddDependency(startup.Dependency{
			Name:     "migrations",
			Requires: []string{"database"},
			OnStart: func(context.Context) error {
				return database.NewMigrationService(logger, cfg.MigrationConfig()).MigrateDB(i.db)
			},
		})
	}

	if cfg.Redis.Enabled {
		s.AddDependency(startup.Dependency{
			Name: "redis",
			OnStart: func(ctx context.Context) error {
				client, err := cache.NewClient(ctx, cfg.RedisConfig(), logger)
				if err != nil {
					return err
				}
				i.redis = client
				return nil
			},
			OnStop: func(context.Context) error {
				return i.redis.Close()
			},
		})
	}

	if cfg.Kafka.Enabled {
		s.AddDependency(startup.Dependency{
			Name: "kafka",
			OnStart: func(context.Context) error {
				i.producer = events.NewProducer(cfg.ProducerConfig(), logger)
				return nil
			},
			OnStop: func(context.Context) error {
				return i.producer.Close()
			},
		})
	}

	return s
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ortiurbani/orti-api/internal/api"
	"github.com/ortiurbani/orti-api/internal/cache"
	"github.com/ortiurbani/orti-api/internal/config"
	"github.com/ortiurbani/orti-api/internal/db"
	"github.com/ortiurbani/orti-api/internal/i18n"
	"github.com/ortiurbani/orti-api/internal/logger"
	"github.com/ortiurbani/orti-api/internal/metrics"
	"github.com/ortiurbani/orti-api/internal/repository"
	"github.com/ortiurbani/orti-api/internal/repository/dao"
	"github.com/ortiurbani/orti-api/internal/service"
)

const shutdownTimeout = 10 * time.Second

type readCache interface {
	service.Cache
	Close() error
}

func Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configPath := config.DefaultPath
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	conf, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment, conf.API.LogLevel, conf.API.LogFile); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}
	defer func() { _ = zap.L().Sync() }()

	if err = config.Watch(configPath, func(c *config.AppConfig) {
		if err := logger.SetLevel(c.API.LogLevel); err != nil {
			zap.L().Warn("ignoring log level from reloaded config", zap.Error(err))
			return
		}
		zap.L().Info("log level reloaded", zap.String("level", c.API.LogLevel))
	}); err != nil {
		zap.L().Info("config file not watched", zap.String("path", configPath), zap.Error(err))
	}

	gormDB, err := db.Open(conf, os.Getenv("DATABASE_URL"))
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	var c readCache = cache.Noop{}
	if conf.Redis.Addr != "" {
		if c, err = cache.NewRedis(ctx, conf.Redis); err != nil {
			return fmt.Errorf("failed to initialize cache -> %w", err)
		}
	}
	defer c.Close()

	if err = metrics.Register(prometheus.DefaultRegisterer); err != nil {
		return fmt.Errorf("failed to register metrics -> %w", err)
	}

	if err = service.Bootstrap(ctx, conf.Bootstrap,
		repository.NewUserRepository(dao.NewUserDAO(gormDB)),
		repository.NewMunicipalityRepository(dao.NewMunicipalityDAO(gormDB)),
	); err != nil {
		return fmt.Errorf("failed to bootstrap administrator -> %w", err)
	}

	i18n.SetDefault(conf.API.DefaultLanguage)

	s := api.NewServer(conf, gormDB, c)
	go s.Feed.Run(ctx)

	srv := &http.Server{
		Addr:    ":" + s.Config.API.Port,
		Handler: s.Router,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info(fmt.Sprintf("starting server at %v", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err = <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start the server -> %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zap.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down the server -> %w", err)
	}

	return nil
}

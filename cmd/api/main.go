package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bryanwahyu/chatlens/internal/application"
	"github.com/bryanwahyu/chatlens/internal/application/analysis"
	"github.com/bryanwahyu/chatlens/internal/config"
	"github.com/bryanwahyu/chatlens/internal/domain/analysiserrors"
	"github.com/bryanwahyu/chatlens/internal/domain/chat"
	"github.com/bryanwahyu/chatlens/internal/infra/chatfile"
	mysqlp "github.com/bryanwahyu/chatlens/internal/infra/db/mysql"
	pgp "github.com/bryanwahyu/chatlens/internal/infra/db/postgres"
	"github.com/bryanwahyu/chatlens/internal/infra/httpserver"
	minioStore "github.com/bryanwahyu/chatlens/internal/infra/storage"
	"github.com/bryanwahyu/chatlens/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	explicit := false
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path, explicit = v, true
	}

	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		cfg, err = config.Default(), nil
	}
	if err != nil {
		slog.Error("config load error", "path", path, "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger()
	slog.SetDefault(logger)

	settings, err := cfg.AnalysisSettings()
	if err != nil {
		logger.Error("analysis settings", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checkers := map[string]middleware.HealthChecker{}

	// optional error sink
	errRepo, db, err := openErrorLog(ctx, cfg)
	if err != nil {
		logger.Error("error log init", "driver", cfg.ErrorLog.Driver, "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
		checkers["error_log"] = &middleware.DatabaseHealthChecker{DB: db}
	}

	// optional legacy source
	source, checker, err := openSource(ctx, cfg)
	if err != nil {
		logger.Error("chat source init", "source", cfg.Legacy.Source, "error", err)
		os.Exit(1)
	}
	if checker != nil {
		checkers["chat_source"] = checker
	}

	svc := &analysis.Service{
		Settings: settings,
		Source:   source,
		Errors:   errRepo,
		Clock:    application.SystemClock{},
		Logger:   logger,
	}

	var limiter *middleware.RateLimiter
	if cfg.Server.RateLimit.Capacity > 0 {
		limiter = middleware.NewRateLimiter(cfg.Server.RateLimit.Capacity, cfg.Server.RateLimit.RefillPerSecond)
		go limiter.Run(ctx)
	}

	handler := httpserver.NewRouter(svc, httpserver.Options{
		Logger:         logger,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		APIKeys:        cfg.Server.APIKeys,
		RateLimiter:    limiter,
		StaticDir:      cfg.Server.StaticDir,
		HealthCheckers: checkers,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// run server
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr, "legacy_source", sourceName(source), "error_log", cfg.ErrorLog.Driver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// graceful shutdown
	select {
	case <-ctx.Done():
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}
	logger.Info("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func openErrorLog(ctx context.Context, cfg *config.Config) (analysiserrors.Repository, *sql.DB, error) {
	switch cfg.ErrorLog.Driver {
	case "mysql":
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, nil, err
		}
		repo := mysqlp.NewAnalysisErrorRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		return repo, db, nil
	case "postgres":
		db, err := pgp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, nil, err
		}
		repo := pgp.NewAnalysisErrorRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		return repo, db, nil
	}
	return nil, nil, nil
}

func openSource(ctx context.Context, cfg *config.Config) (chat.Source, middleware.HealthChecker, error) {
	switch cfg.Legacy.Source {
	case "file":
		src := chatfile.New(cfg.Legacy.Path)
		return src, src, nil
	case "minio":
		m := cfg.Legacy.Minio
		store, err := minioStore.New(ctx,
			m.Endpoint,
			m.Region,
			m.BucketName,
			m.ObjectKey,
			m.AccessKey,
			m.SecretKey,
			m.UseSSL,
		)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	}
	return nil, nil, nil
}

func sourceName(s chat.Source) string {
	if s == nil {
		return "-"
	}
	return s.Name()
}

package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"bookstore/internal/auth"
	"bookstore/internal/config"
	"bookstore/internal/db"
	grpcserver "bookstore/internal/grpc"
	"bookstore/internal/logger"
	"bookstore/internal/shop"
	"bookstore/internal/web"
)

func main() {
	load := config.LoadWithDefaults
	if os.Getenv("APP_ENV") == "prod" {
		load = config.Load
	}
	cfg, err := load()
	if err != nil {
		slog.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}
	log := logger.New(logger.Options{Service: "bookstore", Env: cfg.App.Env, Level: cfg.App.LogLevel, AddSource: true})
	log.Info("configuration loaded", slog.String("config", cfg.String()))

	d, err := openStore(cfg)
	if err != nil {
		log.Error("open db", slog.Any("err", err), slog.String("path", cfg.Database.Path))
		os.Exit(1)
	}
	defer func() {
		if err := d.Close(); err != nil {
			log.Error("close db", slog.Any("err", err))
		}
	}()
	if v, err := db.Version(d); err == nil {
		log.Info("schema version", slog.Int("version", v))
		if v == 0 {
			log.Warn("store is not initialized; run bookstorectl migrate and bookstorectl seed")
		}
	}

	sessions, err := auth.NewSessions(auth.SessionConfig{
		Secret:     cfg.Auth.SessionSecret,
		TTL:        cfg.Auth.SessionTTL,
		CookieName: cfg.Auth.CookieName,
		Secure:     cfg.Auth.CookieSecure,
	})
	if err != nil {
		log.Error("sessions", slog.Any("err", err))
		os.Exit(1)
	}

	svc := shop.NewService(d, log)
	site, err := web.New(web.Options{
		Shop:        svc,
		Sessions:    sessions,
		Logger:      log,
		StaticDir:   cfg.HTTP.StaticDir,
		CORSOrigins: cfg.CORSOrigins(),
	})
	if err != nil {
		log.Error("web setup", slog.Any("err", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	probe, err := grpcserver.Start(grpcserver.Options{Address: cfg.GRPC.Address, Pinger: svc, Logger: log})
	if err != nil {
		log.Error("start grpc", slog.Any("err", err), slog.String("addr", cfg.GRPC.Address))
		os.Exit(1)
	}
	log.Info("grpc health listening", slog.String("addr", probe.Addr().String()))

	httpSrv := web.NewHTTPServer(cfg.HTTP.Address, site.Handler())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http listening", slog.String("addr", cfg.HTTP.Address))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown requested")

		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return errors.Join(httpSrv.Shutdown(stopCtx), probe.Shutdown(stopCtx))
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", slog.Any("err", err))
		os.Exit(1)
	}
	log.Info("bye")
}

func openStore(cfg *config.Config) (*sql.DB, error) {
	if cfg.Database.AutoMigrate {
		return db.Open(cfg.Database.Path)
	}
	return db.Connect(cfg.Database.Path)
}

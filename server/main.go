package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meikuraledutech/workflow"
	"github.com/meikuraledutech/workflow/autosave"
	"github.com/meikuraledutech/workflow/badger"
	"github.com/meikuraledutech/workflow/config"
	"github.com/meikuraledutech/workflow/httpapi"
	"github.com/meikuraledutech/workflow/memory"
	"github.com/meikuraledutech/workflow/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sink, closer, err := openSink(ctx, cfg, logger)
	if err != nil {
		logger.Error("open sink", "sink", cfg.Sink, "error", err)
		os.Exit(1)
	}
	defer closer.Close()

	srv := httpapi.New(sink, logger,
		autosave.WithDebounce(cfg.Debounce),
		autosave.WithMinSaving(cfg.MinSaving),
		autosave.WithSavedDisplay(cfg.SavedDisplay),
	)
	defer srv.Close()

	app := srv.App()
	go func() {
		<-ctx.Done()
		if err := app.Shutdown(); err != nil {
			logger.Error("shutdown", "error", err)
		}
	}()

	logger.Info("workflow server listening", "addr", cfg.ListenAddr, "sink", cfg.Sink)
	if err := app.Listen(cfg.ListenAddr); err != nil {
		logger.Error("listen", "error", err)
	}
}

type closeFunc func() error

func (f closeFunc) Close() error { return f() }

func openSink(ctx context.Context, cfg config.Config, logger *slog.Logger) (workflow.Sink, io.Closer, error) {
	switch cfg.Sink {
	case config.SinkPostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		s := postgres.New(pool)
		if err := s.CreateSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return s, closeFunc(func() error { pool.Close(); return nil }), nil

	case config.SinkBadger:
		s, err := badger.Open(badger.Config{
			Path:       cfg.BadgerPath,
			SyncWrites: true,
			Logger:     logger.With("component", "badger"),
		})
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil

	default:
		return memory.New(cfg.MemoryQuota), closeFunc(func() error { return nil }), nil
	}
}

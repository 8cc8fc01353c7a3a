package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jacksmith/td/internal/cli"
	"github.com/jacksmith/td/internal/persist"
	"github.com/jacksmith/td/internal/storage"
	"github.com/jacksmith/td/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app wires one command invocation: workspace, config, logger, adapter and
// a hydrated task store.
type app struct {
	storage *storage.Storage
	cfg     *storage.Config
	log     *zap.Logger
	adapter persist.Adapter
	store   *store.TaskStore
}

// commandContext returns the command's context, or Background when the
// command is run directly (tests) without one.
func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}

// openApp opens the workspace in rootDir and hydrates the store. A snapshot
// that cannot be read is reported on stderr and td continues with an empty
// list; an interrupted load is an error.
func openApp(ctx context.Context) (*app, error) {
	s, err := storage.Open(rootDir)
	if err != nil {
		return nil, err
	}
	cfg, err := s.LoadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(s.LogPath(cfg), cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}
	logger = logger.Named("td")

	adapter, err := s.OpenAdapter(cfg)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}

	a := &app{storage: s, cfg: cfg, log: logger, adapter: adapter}
	a.store = store.New(adapter,
		store.WithLogger(logger.Named("store")),
		store.WithErrorHook(func(err error) {
			fmt.Fprintf(os.Stderr, "%s failed to save tasks: %v\n", cli.Red("warning:"), err)
		}),
	)

	if err := a.store.Hydrate(ctx); err != nil {
		var pe *persist.PersistenceError
		if !errors.As(err, &pe) {
			a.close()
			return nil, fmt.Errorf("failed to load tasks: %w", err)
		}
		fmt.Fprintf(os.Stderr, "%s could not load saved tasks, starting empty: %v\n", cli.Yellow("warning:"), err)
	}

	logger.Debug("workspace opened",
		zap.String("root", s.Root()),
		zap.String("backend", cfg.Backend),
		zap.String("key", cfg.Key),
	)
	return a, nil
}

// close waits up to flush_timeout for pending writes, then releases the
// adapter and flushes the log.
func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.FlushTimeout)
	defer cancel()

	if err := a.store.Close(ctx); err != nil {
		a.log.Error("pending writes not flushed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "%s some changes may not have been saved: %v\n", cli.Red("warning:"), err)
	}
	if err := a.adapter.Close(); err != nil {
		a.log.Warn("failed to close adapter", zap.Error(err))
	}
	_ = a.log.Sync()
}

// newLogger builds a production JSON logger writing to path.
func newLogger(path, level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.MessageKey = "msg"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	return cfg.Build()
}

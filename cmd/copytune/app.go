package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"copytune/internal/config"
	"copytune/internal/llm"
	"copytune/internal/optimize"
	"copytune/internal/store"
)

// app wires the pieces every command needs: config file, logger, and
// the opened store.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *store.Store
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	dir, err := cfg.StorageDir()
	if err != nil {
		return nil, err
	}
	blob, err := store.NewFileBlob(dir)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:    cfg,
		logger: logger,
		store:  store.Open(ctx, blob, logger),
	}, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl := zapcore.WarnLevel
	if level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("log_level %q: %w", level, err)
		}
		lvl = parsed
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.OutputPaths = []string{"stderr"}
	return zcfg.Build()
}

// activeClient builds the model client for the store's active model
func (a *app) activeClient() (llm.Client, llm.ModelConfig, error) {
	model, ok := a.store.ActiveModel()
	if !ok {
		return nil, llm.ModelConfig{}, fmt.Errorf("no model configured, run: copytune model add")
	}
	client, err := llm.New(model.ModelConfig, a.cfg.RequestTimeout())
	if err != nil {
		return nil, llm.ModelConfig{}, err
	}
	return client, model.ModelConfig, nil
}

// optimizer builds the rewrite pipeline over the active model
func (a *app) optimizer() (*optimize.Optimizer, error) {
	client, _, err := a.activeClient()
	if err != nil {
		return nil, err
	}
	return optimize.New(client,
		optimize.WithLogger(a.logger),
		optimize.WithBatchDelay(a.cfg.BatchDelay()),
	), nil
}

// Package app wires the calculator service to its infrastructure.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/multicalc/pkg/config"
	"github.com/amirasaad/multicalc/pkg/service/calc"
)

const startupRefreshTimeout = 15 * time.Second

type App struct {
	Deps        *config.Deps
	Config      *config.App
	CalcService *calc.Service
}

// New builds the calculator service and registers the event handlers.
func New(deps *config.Deps, cfg *config.App) *App {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Config == nil {
		deps.Config = cfg
	}
	app := &App{
		Deps:        deps,
		Config:      cfg,
		CalcService: calc.NewService(*deps),
	}
	app.setupEventBus()
	return app
}

// Start restores persisted state and, when configured, refreshes the official
// rates once. A failed refresh keeps the stored rates.
func (a *App) Start(ctx context.Context) error {
	if err := a.CalcService.Load(ctx); err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	if a.Config == nil || a.Config.RateFeed == nil || !a.Config.RateFeed.RefreshOnStart {
		return nil
	}

	refreshCtx, cancel := context.WithTimeout(ctx, startupRefreshTimeout)
	defer cancel()
	res, err := a.CalcService.Refresh(refreshCtx)
	if err != nil {
		a.Deps.Logger.Warn("Startup rate refresh failed", "error", err)
		return nil
	}
	a.Deps.Logger.Info("Startup rate refresh", "merged", res.Merged, "date", res.Date)
	return nil
}

// Stop writes every blob so nothing is lost on shutdown.
func (a *App) Stop(ctx context.Context) error {
	return a.CalcService.Persist(ctx)
}

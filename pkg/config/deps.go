package config

import (
	"log/slog"

	"github.com/amirasaad/multicalc/pkg/eventbus"
	"github.com/amirasaad/multicalc/pkg/provider"
	"github.com/amirasaad/multicalc/pkg/storage"
)

// Deps holds all infrastructure dependencies for building the app and services.
type Deps struct {
	Feed     provider.RateFeed
	EventBus eventbus.Bus
	Store    storage.KV
	Logger   *slog.Logger
	Config   *App
}

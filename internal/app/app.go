package app

import (
	"io"
	"log/slog"

	"github.com/vk/passgrid/internal/handlers"
)

// App holds the configuration, logger and handler registry of one run.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	handlers *handlers.Handlers
}

// NewApp creates an App. Plans and graphs are written to outW, logs to logW.
// When no modules are given the core modules are registered.
func NewApp(outW, logW io.Writer, cfg *Config, modules ...handlers.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	h := handlers.New()
	if len(modules) == 0 {
		modules = coreModules(outW)
	}
	for _, mod := range modules {
		mod.Register(h)
	}
	logger.Debug("All handler modules registered.", "count", len(modules), "handlers", h.Names())

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		handlers: h,
	}
}

// Handlers returns the handler registry. This is primarily for testing.
func (a *App) Handlers() *handlers.Handlers {
	return a.handlers
}

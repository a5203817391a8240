package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/flowgridgo/internal/config"
	"github.com/vk/flowgridgo/internal/ctxlog"
	"github.com/vk/flowgridgo/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	registry  *registry.Registry
	config    *config.Model
	converter config.Converter
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, modules ...registry.Module) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	// Load the plan into the format-agnostic model first.
	cfgModel, converter, err := loader.Load(ctx, appConfig.PlanPath)
	if err != nil {
		// A failure to load config is a fatal startup error.
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	logger.Debug("Plan configuration loaded and translated into unified model.")

	// Create and populate the registry with Go handlers.
	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All runner modules registered.", "count", len(modules))

	// Validate the integrity of the registry.
	if err := reg.Validate(ctx); err != nil {
		// This is a programmer error (mismatch between code and config), so we panic.
		panic(err)
	}

	return &App{
		outW:      outW,
		logger:    logger,
		registry:  reg,
		config:    cfgModel,
		converter: converter,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/hashicorp/hcl/v2"

	"github.com/vk/plotspec/internal/compositor"
	"github.com/vk/plotspec/internal/ctxlog"
	"github.com/vk/plotspec/internal/spec"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle. Parse results go to outW; logs go to errW so the rendered JSON
// stays machine-readable.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *compositor.Registry
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and the builtin
// compositor operation registry.
func NewApp(outW, errW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, errW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:     outW,
		logger:   logger,
		registry: compositor.Builtin(),
	}
}

// Registry returns the application's operation registry. This is primarily
// for testing.
func (a *App) Registry() *compositor.Registry {
	return a.registry
}

// Run parses the configured specification line and writes the rendered result
// to the output writer. Non-fatal parser warnings are logged; a parse error
// is returned as an ordinary error.
func (a *App) Run(ctx context.Context, cfg *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "spec_type", cfg.SpecType, "line", cfg.Line)

	var (
		rendered []byte
		diags    hcl.Diagnostics
		err      error
	)
	switch cfg.SpecType {
	case SpecTypeOpts:
		parser := spec.NewOptsSpec(a.registry)
		parser.AbortOnEvalFailure = cfg.Strict
		var out map[string]spec.ElementOptions
		out, diags = parser.Parse(ctx, cfg.Line, nil)
		if !diags.HasErrors() {
			a.logger.Debug("Options specification parsed.", "paths", sortedPaths(out))
			rendered, err = renderElementOptions(out)
		}
	case SpecTypeCompositor:
		parser := spec.NewCompositorSpec(a.registry)
		parser.AbortOnEvalFailure = cfg.Strict
		var defs []compositor.Definition
		defs, diags = parser.Parse(ctx, cfg.Line, nil)
		if !diags.HasErrors() {
			a.logger.Debug("Compositor specification parsed.", "definitions", len(defs))
			rendered, err = renderDefinitions(defs)
		}
	default:
		return fmt.Errorf("unknown spec type %q", cfg.SpecType)
	}

	for _, d := range diags {
		if d.Severity == hcl.DiagWarning {
			a.logger.Warn(d.Summary, "detail", d.Detail)
		}
	}
	if diags.HasErrors() {
		return errors.New(diags.Error())
	}
	if err != nil {
		return fmt.Errorf("failed to render parse result: %w", err)
	}

	if _, err := fmt.Fprintln(a.outW, string(rendered)); err != nil {
		return fmt.Errorf("failed to write parse result: %w", err)
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}

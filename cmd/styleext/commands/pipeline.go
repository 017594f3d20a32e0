package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/styleext/internal/bundler"
	"git.home.luguber.info/inful/styleext/internal/config"
	"git.home.luguber.info/inful/styleext/internal/errors"
	"git.home.luguber.info/inful/styleext/internal/htmlplugin"
	"git.home.luguber.info/inful/styleext/internal/metrics"
	"git.home.luguber.info/inful/styleext/internal/plugin"
	"git.home.luguber.info/inful/styleext/internal/styleext"
)

// Pipeline is a compiler with the HTML plugins and the inline plugin applied.
// One pipeline serves every build of a watch session.
type Pipeline struct {
	cfg      *config.AppConfig
	compiler *bundler.Compiler
	inline   *styleext.Plugin
	registry *prom.Registry
	recorder *metrics.PrometheusRecorder
	log      *slog.Logger
}

// BuildResult summarises one pipeline build.
type BuildResult struct {
	Stats   *bundler.Stats
	Written []string
}

// NewPipeline validates cfg and wires the plugins. The HTML plugins are
// generators, so the registry applies them ahead of the inline plugin and
// their pages render before the stylesheet is removed.
func NewPipeline(cfg *config.AppConfig, logger *slog.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = slog.Default()
	}
	style, err := bundler.ParseHookStyle(cfg.Build.Hooks)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryConfig, errors.SeverityFatal, "invalid build.hooks")
	}

	reg := prom.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)

	inline, err := styleext.New(cfg.Inline.Options, styleext.WithLogger(logger), styleext.WithRecorder(rec))
	if err != nil {
		return nil, err
	}

	plugins := plugin.NewRegistry()
	for _, o := range cfg.HTML {
		if err := plugins.Register(htmlplugin.New(o, htmlplugin.WithLogger(logger))); err != nil {
			return nil, errors.Wrap(err, errors.CategoryConfig, errors.SeverityFatal, "invalid html plugin configuration")
		}
	}
	if err := plugins.Register(inline); err != nil {
		return nil, errors.InternalError("register inline plugin", err)
	}

	compiler := bundler.NewCompiler(style, bundler.WithLogger(logger))
	if err := plugins.ApplyAll(compiler, logger); err != nil {
		return nil, errors.InternalError("apply plugins", err)
	}
	logger.Debug("Pipeline ready", "plugins", plugins.Count(), "hooks", style.String())

	return &Pipeline{
		cfg:      cfg,
		compiler: compiler,
		inline:   inline,
		registry: reg,
		recorder: rec,
		log:      logger,
	}, nil
}

// Build loads the source directory, runs one compilation and writes the
// resulting assets. Compilation errors are reported through the result, not
// the returned error.
func (p *Pipeline) Build(ctx context.Context) (*BuildResult, error) {
	start := time.Now()
	res, err := p.build(ctx)
	p.recorder.ObserveBuildDuration(time.Since(start))
	switch {
	case err != nil:
		p.recorder.IncBuildOutcome("failed")
	case res.Stats.HasErrors():
		p.recorder.IncBuildOutcome("errors")
	case res.Stats.HasWarnings():
		p.recorder.IncBuildOutcome("warnings")
	default:
		p.recorder.IncBuildOutcome("success")
	}
	if merr := p.writeMetrics(); merr != nil {
		p.log.Warn("Failed to write metrics textfile", "error", merr)
	}
	return res, err
}

func (p *Pipeline) build(ctx context.Context) (*BuildResult, error) {
	in, err := bundler.LoadInput(p.cfg.Build.Source, p.cfg.Build.Manifest)
	if err != nil {
		return nil, err
	}
	stats, err := p.compiler.Run(ctx, in)
	if err != nil {
		p.inline.Reset()
		if stats == nil {
			return nil, errors.Wrap(err, errors.CategoryInput, errors.SeverityFatal, "invalid build input")
		}
		return nil, err
	}
	written, err := bundler.WriteAssets(stats.Compilation, p.cfg.Build.Output)
	if err != nil {
		return nil, err
	}
	p.log.Info("Build finished",
		"output", p.cfg.Build.Output,
		"assets", len(written),
		"errors", len(stats.Compilation.Errors()),
		"warnings", len(stats.Compilation.Warnings()),
		"duration", stats.Duration())
	return &BuildResult{Stats: stats, Written: written}, nil
}

func (p *Pipeline) writeMetrics() error {
	if p.cfg.Metrics.Textfile == "" {
		return nil
	}
	return prom.WriteToTextfile(p.cfg.Metrics.Textfile, p.registry)
}

// PrintReport writes compilation errors and warnings to w.
func PrintReport(w io.Writer, res *BuildResult) {
	if res == nil || res.Stats == nil {
		return
	}
	for _, e := range res.Stats.Compilation.Errors() {
		_, _ = fmt.Fprintf(w, "ERROR %v\n", e)
	}
	for _, e := range res.Stats.Compilation.Warnings() {
		_, _ = fmt.Fprintf(w, "WARNING %v\n", e)
	}
}

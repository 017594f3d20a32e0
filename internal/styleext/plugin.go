package styleext

import (
	"log/slog"

	"git.home.luguber.info/inful/styleext/internal/bundler"
	"git.home.luguber.info/inful/styleext/internal/config"
	"git.home.luguber.info/inful/styleext/internal/ledger"
	"git.home.luguber.info/inful/styleext/internal/lifecycle"
	"git.home.luguber.info/inful/styleext/internal/logfields"
	"git.home.luguber.info/inful/styleext/internal/metrics"
	"git.home.luguber.info/inful/styleext/internal/minify"
	"git.home.luguber.info/inful/styleext/internal/mutator"
	"git.home.luguber.info/inful/styleext/internal/plugin"
	"git.home.luguber.info/inful/styleext/internal/version"
)

// Name identifies the plugin in hook taps and logs.
const Name = "StyleExtPlugin"

// Plugin inlines one generated stylesheet per compilation.
type Plugin struct {
	cfg      *config.PluginConfig
	ledger   *ledger.Ledger
	minifier minify.Minifier
	mutator  *mutator.Mutator
	log      *slog.Logger
	recorder metrics.Recorder
}

// Option configures a Plugin.
type Option func(*Plugin)

// WithLogger sets the plugin logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Plugin) {
		if l != nil {
			p.log = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(p *Plugin) {
		if r != nil {
			p.recorder = r
		}
	}
}

// WithMinifier replaces the built-in CSS minifier. It is only used when
// minification is enabled in the configuration.
func WithMinifier(m minify.Minifier) Option {
	return func(p *Plugin) { p.minifier = m }
}

// New validates opts and returns a plugin. Configuration errors are returned
// here, never from a build.
func New(opts config.Options, options ...Option) (*Plugin, error) {
	cfg, res, err := config.Normalize(opts)
	if err != nil {
		return nil, err
	}
	p := &Plugin{
		cfg:      cfg,
		ledger:   ledger.New(),
		log:      slog.Default(),
		recorder: metrics.NoopRecorder{},
	}
	for _, o := range options {
		o(p)
	}
	p.log = p.log.With(logfields.Plugin(Name))
	for _, w := range res.Warnings {
		p.log.Warn("Configuration adjusted", "warning", w)
	}

	var m minify.Minifier
	if cfg.Minify != nil {
		m = p.minifier
		if m == nil {
			m = minify.NewCSS(*cfg.Minify)
		}
	}
	p.mutator = mutator.New(m)
	p.log.Debug("Plugin configured", "config", cfg.String())
	return p, nil
}

// Config returns the normalized configuration.
func (p *Plugin) Config() *config.PluginConfig { return p.cfg }

// Ledger returns the deletion ledger owned by this instance.
func (p *Plugin) Ledger() *ledger.Ledger { return p.ledger }

// Reset drops every pending deletion, e.g. after an aborted build.
func (p *Plugin) Reset() { p.ledger.Reset() }

// Metadata describes the plugin.
func (p *Plugin) Metadata() plugin.PluginMetadata {
	return plugin.PluginMetadata{
		Name:        "styleext",
		Version:     version.Version,
		Type:        plugin.PluginTypeTransform,
		Description: "Embeds the generated stylesheet into HTML pages",
	}
}

// Apply registers the plugin on c. A disabled plugin registers nothing.
func (p *Plugin) Apply(c *bundler.Compiler) error {
	if !p.cfg.Enabled {
		p.log.Info("Plugin disabled, skipping registration")
		return nil
	}
	a, err := lifecycle.New(c, Name, lifecycle.WithLogger(p.log), lifecycle.WithRecorder(p.recorder))
	if err != nil {
		return err
	}
	if err := a.OnCompilation(p.compilation); err != nil {
		return err
	}
	if err := a.OnEmit(p.emit); err != nil {
		return err
	}
	return a.OnDone(p.done)
}

func (p *Plugin) compilation(s *lifecycle.Scope) {
	comp := s.Compilation()
	r := &run{
		plugin: p,
		comp:   comp,
		log:    p.log.With(logfields.CompilationID(comp.ID())),
	}
	if err := s.On(lifecycle.StageBeforeHTML, r.resolve); err != nil {
		comp.AddError(err)
	}
	mutate, stage := r.insert, lifecycle.StageAfterHTML
	if p.cfg.Position.Replaces() {
		mutate, stage = r.replace, lifecycle.StageAlterTags
	}
	if err := s.On(stage, mutate); err != nil {
		comp.AddError(err)
	}
}

func (p *Plugin) emit(pl *lifecycle.Payload) error {
	p.flush(pl.Compilation)
	return nil
}

// done removes stylesheets still pending when an earlier emit handler
// failed and the emit series never reached this plugin.
func (p *Plugin) done(stats *bundler.Stats) error {
	if n := p.flush(stats.Compilation); n > 0 {
		p.log.Warn("Removed inlined stylesheets after emit was cut short",
			logfields.CompilationID(stats.Compilation.ID()), "count", n)
	}
	return nil
}

func (p *Plugin) flush(comp *bundler.Compilation) int {
	deleted := p.ledger.Flush(comp.ID(), comp)
	p.recorder.AddDeleted(len(deleted))
	for _, name := range deleted {
		p.log.Debug("Removed inlined stylesheet", logfields.CompilationID(comp.ID()), logfields.Asset(name))
	}
	return len(deleted)
}

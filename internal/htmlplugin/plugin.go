package htmlplugin

import (
	"fmt"
	"log/slog"
	"path"
	"strings"

	"git.home.luguber.info/inful/styleext/internal/bundler"
	"git.home.luguber.info/inful/styleext/internal/hook"
	"git.home.luguber.info/inful/styleext/internal/logfields"
	"git.home.luguber.info/inful/styleext/internal/plugin"
	"git.home.luguber.info/inful/styleext/internal/version"
)

// Name identifies the plugin in hook taps and logs.
const Name = "HtmlPlugin"

// Plugin generates one HTML page per instance.
type Plugin struct {
	opts Options
	log  *slog.Logger
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

// New creates an HTML plugin. Empty options fall back to defaults.
func New(opts Options, options ...Option) *Plugin {
	p := &Plugin{opts: opts.withDefaults(), log: slog.Default()}
	for _, o := range options {
		o(p)
	}
	p.log = p.log.With(logfields.Plugin(Name), logfields.Asset(p.opts.Filename))
	return p
}

// Options returns the effective options.
func (p *Plugin) Options() Options { return p.opts }

// Metadata describes the plugin.
func (p *Plugin) Metadata() plugin.PluginMetadata {
	return plugin.PluginMetadata{
		Name:        "html:" + p.opts.Filename,
		Version:     version.Version,
		Type:        plugin.PluginTypeGenerator,
		Description: "Generates an HTML page linking the entrypoint assets",
	}
}

// Apply registers page generation on the compiler emit event.
func (p *Plugin) Apply(c *bundler.Compiler) error {
	if c.Hooks != nil {
		c.Hooks.Emit.TapAsync(Name, p.generate)
		return nil
	}
	return c.Plugin(bundler.EventEmit, func(arg any, done hook.Callback) {
		comp, ok := arg.(*bundler.Compilation)
		if !ok {
			if done != nil {
				done(fmt.Errorf("%s: unexpected emit argument %T", Name, arg))
			}
			return
		}
		if done == nil {
			done = func(error) {}
		}
		p.generate(comp, done)
	})
}

// Files returns the CSS and JS files of the selected entrypoints, in
// entrypoint then chunk order, prefixed with the public path.
func (p *Plugin) Files(c *bundler.Compilation) AssetGroups {
	groups := AssetGroups{PublicPath: p.opts.PublicPath}
	seen := make(map[string]struct{})
	for _, ep := range c.Entrypoints() {
		if !p.opts.includes(ep.Name) {
			continue
		}
		for _, f := range ep.Files() {
			if _, dup := seen[f]; dup {
				continue
			}
			seen[f] = struct{}{}
			switch strings.ToLower(path.Ext(stripQuery(f))) {
			case ".css":
				groups.CSS = append(groups.CSS, p.opts.PublicPath+f)
			case ".js", ".mjs":
				groups.JS = append(groups.JS, p.opts.PublicPath+f)
			}
		}
	}
	return groups
}

func (p *Plugin) generate(c *bundler.Compilation, done hook.Callback) {
	data := &EventData{Plugin: p, OutputName: p.opts.Filename, Assets: p.Files(c)}
	log := p.log.With(logfields.CompilationID(c.ID()))

	p.fire(c, HookBeforeAssetTagGeneration, data, func() {
		for _, href := range data.Assets.CSS {
			data.Head = append(data.Head, LinkTag(href))
		}
		for _, src := range data.Assets.JS {
			data.Body = append(data.Body, ScriptTag(src))
		}

		p.fire(c, HookAlterAssetTagGroups, data, func() {
			out, err := render(p.opts.Template, p.opts.Title, data.Head, data.Body)
			if err != nil {
				c.AddError(fmt.Errorf("%s: %w", Name, err))
				done(nil)
				return
			}
			data.HTML = out

			p.fire(c, HookBeforeEmit, data, func() {
				if err := c.EmitAsset(data.OutputName, bundler.StringSource(data.HTML)); err != nil {
					c.AddError(fmt.Errorf("%s: %w", Name, err))
				} else {
					log.Debug("Emitted page", logfields.Bytes(len(data.HTML)))
				}
				done(nil)
			})
		})
	})
}

// fire runs one stage in the vocabulary of the compilation and continues with
// next whatever the outcome; a stage error lands in the error log.
func (p *Plugin) fire(c *bundler.Compilation, stage string, data *EventData, next func()) {
	finish := func(err error) {
		if err != nil {
			p.log.Debug("Stage failed", logfields.Stage(stage), logfields.Error(err))
			c.AddError(err)
		}
		next()
	}

	if c.Style() == bundler.HookStyleTap {
		h, _ := GetHooks(c).ByName(stage)
		h.CallAsync(data, finish)
		return
	}

	switch stage {
	case HookBeforeAssetTagGeneration:
		c.ApplyPluginsAsync(EventBeforeHTMLProcessing, data, finish)
	case HookAlterAssetTagGroups:
		c.ApplyPlugins(EventAlterAssetTags, data)
		finish(nil)
	case HookBeforeEmit:
		c.ApplyPluginsAsync(EventAfterHTMLProcessing, data, finish)
	}
}

func stripQuery(f string) string {
	if i := strings.IndexAny(f, "?#"); i >= 0 {
		return f[:i]
	}
	return f
}

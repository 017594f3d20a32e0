package plugin

import (
	"fmt"
	"log/slog"
	"sync"

	"git.home.luguber.info/inful/styleext/internal/bundler"
	"git.home.luguber.info/inful/styleext/internal/logfields"
)

// Registry holds plugins in registration order. Order matters: plugins tap
// the same compiler events and run in the order they were applied, so
// generators are always applied ahead of the transforms that rewrite their
// output.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	plugins map[string]Plugin
}

// NewRegistry creates a new empty plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		plugins: make(map[string]Plugin),
	}
}

// Register adds a plugin to the registry.
// Returns an error if a plugin with the same name already exists.
func (r *Registry) Register(plugin Plugin) error {
	if plugin == nil {
		return fmt.Errorf("cannot register nil plugin")
	}

	metadata := plugin.Metadata()
	if err := metadata.Validate(); err != nil {
		return fmt.Errorf("invalid plugin metadata: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.plugins[metadata.Name]; exists {
		return fmt.Errorf("plugin %s already registered", metadata.Name)
	}

	r.plugins[metadata.Name] = plugin
	r.order = append(r.order, metadata.Name)
	return nil
}

// List returns all registered plugins in registration order.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.plugins[name])
	}
	return result
}

// ListByType returns all plugins of a specific type in registration order.
func (r *Registry) ListByType(pluginType PluginType) []Plugin {
	var result []Plugin
	for _, p := range r.List() {
		if p.Metadata().Type == pluginType {
			result = append(result, p)
		}
	}
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// applyOrder is the phase order of ApplyAll.
var applyOrder = []PluginType{PluginTypeGenerator, PluginTypeTransform}

// ApplyAll applies generators, then transforms, each phase in registration
// order, and stops at the first failure.
func (r *Registry) ApplyAll(c *bundler.Compiler, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	var plugins []Plugin
	for _, typ := range applyOrder {
		plugins = append(plugins, r.ListByType(typ)...)
	}
	for _, p := range plugins {
		md := p.Metadata()
		if err := p.Apply(c); err != nil {
			return NewPluginError(md.Name, "apply", err)
		}
		logger.Debug("Plugin applied", logfields.Plugin(md.Name), "version", md.Version, "hooks", c.Style().String())
	}
	return nil
}

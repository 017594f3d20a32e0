// Package plugin provides the registry through which bundler plugins are
// attached to a compiler.
package plugin

import (
	"fmt"

	"git.home.luguber.info/inful/styleext/internal/bundler"
)

// Plugin is anything that can wire itself into a compiler.
type Plugin interface {
	// Metadata returns the plugin's identity.
	Metadata() PluginMetadata

	// Apply registers the plugin's handlers on the compiler. It runs once per
	// compiler, before any compilation, and picks the event vocabulary the
	// compiler exposes.
	Apply(c *bundler.Compiler) error
}

// PluginMetadata describes a plugin's identity.
type PluginMetadata struct {
	// Name is the unique plugin identifier (e.g., "html", "style-ext").
	Name string

	// Version is the semantic version (e.g., "v1.0.0").
	Version string

	// Type identifies the plugin category.
	Type PluginType

	// Description provides a human-readable summary of the plugin's purpose.
	Description string
}

// String returns a human-readable representation of the plugin metadata.
func (m PluginMetadata) String() string {
	return fmt.Sprintf("%s@%s (%s)", m.Name, m.Version, m.Type)
}

// Validate checks if the plugin metadata is valid.
func (m PluginMetadata) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("plugin name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("plugin version is required")
	}
	if !m.Type.IsValid() {
		return fmt.Errorf("invalid plugin type: %s", m.Type)
	}
	return nil
}

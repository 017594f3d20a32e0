package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/styleext/internal/minify"
)

// MinifySetting is the minify option: false, true, or a minifier options
// mapping that is passed through unchanged.
type MinifySetting struct {
	Enabled bool
	Options *minify.Options
}

// MinifyOff disables minification.
func MinifyOff() MinifySetting { return MinifySetting{} }

// MinifyDefaults enables minification with the minifier's defaults.
func MinifyDefaults() MinifySetting { return MinifySetting{Enabled: true} }

// MinifyWith enables minification with explicit options.
func MinifyWith(opts minify.Options) MinifySetting {
	return MinifySetting{Enabled: true, Options: &opts}
}

// Effective returns the options handed to the minifier, or nil when off.
func (m MinifySetting) Effective() *minify.Options {
	if !m.Enabled {
		return nil
	}
	if m.Options != nil {
		opts := *m.Options
		return &opts
	}
	opts := minify.Defaults()
	return &opts
}

var minifyKeys = []string{"keep_special_comments", "keep_trailing_semicolon"}

// UnmarshalYAML accepts a boolean or an options mapping.
func (m *MinifySetting) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*m = MinifyOff()
			return nil
		}
		var on bool
		if err := node.Decode(&on); err != nil {
			return fmt.Errorf("minify: expected boolean or mapping: %w", err)
		}
		*m = MinifySetting{Enabled: on}
		return nil
	case yaml.MappingNode:
		if err := checkKeys("minify", node, minifyKeys); err != nil {
			return err
		}
		opts := minify.Defaults()
		if err := node.Decode(&opts); err != nil {
			return fmt.Errorf("minify: %w", err)
		}
		*m = MinifyWith(opts)
		return nil
	default:
		return fmt.Errorf("minify: expected boolean or mapping (line %d)", node.Line)
	}
}

// MarshalYAML writes the shortest equivalent form.
func (m MinifySetting) MarshalYAML() (any, error) {
	if !m.Enabled {
		return false, nil
	}
	if m.Options == nil {
		return true, nil
	}
	return *m.Options, nil
}

// IsZero lets omitempty drop a disabled setting.
func (m MinifySetting) IsZero() bool { return !m.Enabled }

func checkKeys(field string, node *yaml.Node, allowed []string) error {
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		known := false
		for _, a := range allowed {
			if a == key {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("%s: line %d: field %s not found", field, node.Content[i].Line, key)
		}
	}
	return nil
}

package config

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/styleext/internal/errors"
)

// Options is the user-facing plugin configuration. Every field is optional.
type Options struct {
	Enabled     *bool         `yaml:"enabled,omitempty"`
	CSSFilename string        `yaml:"css_filename,omitempty"`
	CSSRegExp   string        `yaml:"css_regexp,omitempty"`
	Chunks      []string      `yaml:"chunks,omitempty"`
	Position    string        `yaml:"position,omitempty"`
	Minify      MinifySetting `yaml:"minify,omitempty"`
}

// Enable is a helper for Options.Enabled.
func Enable(on bool) *bool { return &on }

// Setting is the value of the inline key of the application config. Besides
// a mapping it accepts a boolean (enable/disable) or a bare stylesheet
// filename.
type Setting struct {
	Options Options
}

// UnmarshalYAML decodes any accepted shape and rejects legacy ones.
func (s *Setting) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	opts, err := Parse(raw)
	if err != nil {
		return err
	}
	s.Options = opts
	return nil
}

// MarshalYAML writes the options mapping.
func (s Setting) MarshalYAML() (any, error) { return s.Options, nil }

// Parse turns a loosely typed configuration value into Options:
//
//   - nil: all defaults
//   - bool: enabled or disabled with defaults
//   - string: the css_filename shorthand
//   - Options / *Options: used as is
//   - map[string]any: decoded strictly by field name
//
// Loader strings, loader lists and mappings with the removed loader or inline
// keys are legacy shapes and fail with a configuration error.
func Parse(v any) (Options, error) {
	switch t := v.(type) {
	case nil:
		return Options{}, nil
	case bool:
		return Options{Enabled: Enable(t)}, nil
	case string:
		if isLoaderString(t) {
			return Options{}, errors.LegacyConfiguration("loader string")
		}
		return Options{CSSFilename: strings.TrimSpace(t)}, nil
	case []string:
		return Options{}, errors.LegacyConfiguration("loader list")
	case []any:
		return Options{}, errors.LegacyConfiguration("loader list")
	case Options:
		return t, nil
	case *Options:
		if t == nil {
			return Options{}, nil
		}
		return *t, nil
	case map[string]any:
		return fromMap(t)
	default:
		return Options{}, errors.New(errors.CategoryConfig, errors.SeverityFatal,
			fmt.Sprintf("unsupported configuration type %T", v))
	}
}

func fromMap(m map[string]any) (Options, error) {
	for _, key := range []string{"loader", "loaders", "inline"} {
		if _, ok := m[key]; ok {
			return Options{}, errors.LegacyConfiguration("mapping with " + key + " key")
		}
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return Options{}, errors.Wrap(err, errors.CategoryConfig, errors.SeverityFatal, "invalid configuration mapping")
	}
	var opts Options
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil {
		return Options{}, errors.Wrap(err, errors.CategoryConfig, errors.SeverityFatal, "invalid configuration mapping")
	}
	return opts, nil
}

// isLoaderString recognises "css-loader!postcss-loader" style request strings.
func isLoaderString(s string) bool {
	if strings.Contains(s, "!") {
		return true
	}
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '?'); i >= 0 {
		s = s[:i]
	}
	return s == "loader" || strings.HasSuffix(s, "-loader")
}

package config

import (
	"bytes"
	stdErrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/styleext/internal/errors"
	"git.home.luguber.info/inful/styleext/internal/htmlplugin"
)

// AppConfig is the configuration file of the styleext command.
type AppConfig struct {
	Inline  Setting              `yaml:"inline"`
	HTML    []htmlplugin.Options `yaml:"html"`
	Build   BuildConfig          `yaml:"build"`
	Metrics MetricsConfig        `yaml:"metrics,omitempty"`
}

// BuildConfig describes where build input comes from and where output goes.
type BuildConfig struct {
	Source   string `yaml:"source"`
	Manifest string `yaml:"manifest,omitempty"`
	Output   string `yaml:"output"`
	// Hooks selects the compiler event vocabulary: tap or legacy.
	Hooks string `yaml:"hooks,omitempty"`
}

// MetricsConfig enables the Prometheus text file written after each build.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// Defaults fills unset fields.
func (c *AppConfig) Defaults() {
	if c.Build.Source == "" {
		c.Build.Source = "dist"
	}
	if c.Build.Output == "" {
		c.Build.Output = "public"
	}
	if c.Build.Hooks == "" {
		c.Build.Hooks = "tap"
	}
	if len(c.HTML) == 0 {
		c.HTML = []htmlplugin.Options{{}}
	}
}

// Load reads the configuration file at path. Variables from .env and
// .env.local (when present) are loaded first and ${VAR} references in the
// file are expanded.
func Load(path string) (*AppConfig, error) {
	for _, env := range []string{".env", ".env.local"} {
		if err := godotenv.Load(env); err != nil {
			if !stdErrors.Is(err, fs.ErrNotExist) {
				slog.Warn("Failed to load env file", "file", env, "error", err)
			}
			continue
		}
		slog.Debug("Loaded environment file", "file", env)
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, errors.ConfigRead(path, err)
	}
	expanded := os.ExpandEnv(string(data))

	var cfg AppConfig
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if se, ok := errors.As(err); ok {
			return nil, se.WithContext("path", path)
		}
		return nil, errors.ConfigRead(path, err)
	}
	cfg.Defaults()
	return &cfg, nil
}

// Init writes an example configuration file.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
	}

	example := AppConfig{
		Inline: Setting{Options: Options{
			CSSRegExp: DefaultCSSRegExp,
			Position:  string(PositionPlugin),
			Minify:    MinifyDefaults(),
		}},
		HTML: []htmlplugin.Options{{
			Filename: htmlplugin.DefaultFilename,
			Title:    "My Application",
		}},
		Build: BuildConfig{
			Source: "dist",
			Output: "public",
			Hooks:  "tap",
		},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

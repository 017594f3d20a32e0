package config

import (
	"fmt"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/styleext/internal/errors"
	"git.home.luguber.info/inful/styleext/internal/minify"
)

// DefaultCSSRegExp matches generated stylesheet names.
const DefaultCSSRegExp = `\.css$`

var defaultCSSRegExp = regexp.MustCompile(DefaultCSSRegExp)

// PluginConfig is the complete, validated configuration of one plugin
// instance. It is never modified after Normalize returns.
type PluginConfig struct {
	Enabled     bool
	CSSFilename string
	CSSRegExp   *regexp.Regexp
	// Chunks restricts candidates to the files of these entrypoints. Nil
	// means unrestricted; an empty non-nil slice selects nothing.
	Chunks   []string
	Position Position
	// Minify holds the minifier options, nil when minification is off.
	Minify *minify.Options
}

// NormalizationResult collects non-fatal adjustments made while normalizing.
type NormalizationResult struct {
	Warnings []string
}

// Normalize applies defaults and validates opts. Any returned error is a
// configuration error and should stop plugin construction.
func Normalize(opts Options) (*PluginConfig, *NormalizationResult, error) {
	res := &NormalizationResult{}
	cfg := &PluginConfig{
		Enabled:     true,
		CSSFilename: strings.TrimSpace(opts.CSSFilename),
		CSSRegExp:   defaultCSSRegExp,
		Minify:      opts.Minify.Effective(),
	}
	if opts.Enabled != nil {
		cfg.Enabled = *opts.Enabled
	}

	if opts.CSSRegExp != "" {
		re, err := regexp.Compile(opts.CSSRegExp)
		if err != nil {
			return nil, nil, errors.InvalidPattern(opts.CSSRegExp, err)
		}
		cfg.CSSRegExp = re
		if cfg.CSSFilename != "" {
			res.Warnings = append(res.Warnings, "css_filename is set; css_regexp is ignored")
		}
	}

	pos, err := ParsePosition(opts.Position)
	if err != nil {
		return nil, nil, err
	}
	cfg.Position = pos

	cfg.Chunks = normalizeChunks(opts.Chunks, res)
	return cfg, res, nil
}

// Matches reports whether filename is the configured stylesheet.
func (c *PluginConfig) Matches(filename string) bool {
	if c.CSSFilename != "" {
		return filename == c.CSSFilename
	}
	return c.CSSRegExp.MatchString(filename)
}

// String summarises the configuration for debug logs.
func (c *PluginConfig) String() string {
	sel := "css_regexp=" + c.CSSRegExp.String()
	if c.CSSFilename != "" {
		sel = "css_filename=" + c.CSSFilename
	}
	return fmt.Sprintf("enabled=%t %s chunks=%v position=%s minify=%t",
		c.Enabled, sel, c.Chunks, c.Position, c.Minify != nil)
}

// normalizeChunks trims and dedupes while keeping order and keeping the
// difference between nil and empty.
func normalizeChunks(in []string, res *NormalizationResult) []string {
	if in == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		t := strings.TrimSpace(v)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	if len(out) != len(in) {
		res.Warnings = append(res.Warnings, fmt.Sprintf("normalized chunks list (%d -> %d entries)", len(in), len(out)))
	}
	return out
}

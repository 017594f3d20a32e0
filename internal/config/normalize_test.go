package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/styleext/internal/errors"
	"git.home.luguber.info/inful/styleext/internal/minify"
)

func TestNormalize_Defaults(t *testing.T) {
	cfg, res, err := Normalize(Options{})
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
	assert.True(t, cfg.Enabled)
	assert.Empty(t, cfg.CSSFilename)
	assert.Equal(t, DefaultCSSRegExp, cfg.CSSRegExp.String())
	assert.Nil(t, cfg.Chunks)
	assert.Equal(t, PositionHeadBottom, cfg.Position)
	assert.Nil(t, cfg.Minify)

	assert.True(t, cfg.Matches("index.css"))
	assert.True(t, cfg.Matches("css/app.3f2a.css"))
	assert.False(t, cfg.Matches("index.css.map"))
	assert.False(t, cfg.Matches("index.js"))
}

func TestNormalize_FilenameTakesPrecedence(t *testing.T) {
	cfg, res, err := Normalize(Options{CSSFilename: " styles.css ", CSSRegExp: `\.scss$`})
	require.NoError(t, err)
	assert.Len(t, res.Warnings, 1)
	assert.True(t, cfg.Matches("styles.css"))
	assert.False(t, cfg.Matches("other.css"))
	assert.False(t, cfg.Matches("x.scss"))
}

func TestNormalize_Positions(t *testing.T) {
	for _, p := range AllowedPositions() {
		cfg, _, err := Normalize(Options{Position: p})
		require.NoError(t, err, p)
		assert.Equal(t, Position(p), cfg.Position)
	}

	for _, bad := range []string{"head", "HEAD-TOP", " plugin", "footer"} {
		_, _, err := Normalize(Options{Position: bad})
		require.Error(t, err, bad)
		assert.True(t, errors.IsCategory(err, errors.CategoryConfig))
	}
}

func TestPosition_Predicates(t *testing.T) {
	assert.True(t, PositionPlugin.Replaces())
	assert.False(t, PositionHeadTop.Replaces())
	assert.True(t, PositionHeadTop.InHead() && PositionHeadTop.AtStart())
	assert.True(t, PositionHeadBottom.InHead() && !PositionHeadBottom.AtStart())
	assert.True(t, !PositionBodyTop.InHead() && PositionBodyTop.AtStart())
	assert.True(t, !PositionBodyBottom.InHead() && !PositionBodyBottom.AtStart())
}

func TestNormalize_InvalidPattern(t *testing.T) {
	_, _, err := Normalize(Options{CSSRegExp: "(["})
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfig))
}

func TestNormalize_Chunks(t *testing.T) {
	cfg, res, err := Normalize(Options{Chunks: []string{"main", " vendor ", "main", ""}})
	require.NoError(t, err)
	assert.Equal(t, []string{"main", "vendor"}, cfg.Chunks)
	assert.Len(t, res.Warnings, 1)

	cfg, _, err = Normalize(Options{Chunks: []string{}})
	require.NoError(t, err)
	assert.NotNil(t, cfg.Chunks)
	assert.Empty(t, cfg.Chunks)
}

func TestNormalize_Minify(t *testing.T) {
	cfg, _, err := Normalize(Options{Minify: MinifyDefaults()})
	require.NoError(t, err)
	require.NotNil(t, cfg.Minify)
	assert.Equal(t, minify.Defaults(), *cfg.Minify)

	cfg, _, err = Normalize(Options{Minify: MinifyWith(minify.Options{KeepTrailingSemicolon: true})})
	require.NoError(t, err)
	assert.Equal(t, minify.Options{KeepTrailingSemicolon: true}, *cfg.Minify)
}

func TestNormalize_Disabled(t *testing.T) {
	cfg, _, err := Normalize(Options{Enabled: Enable(false)})
	require.NoError(t, err)
	assert.False(t, cfg.Enabled)
	assert.Contains(t, cfg.String(), "enabled=false")
}

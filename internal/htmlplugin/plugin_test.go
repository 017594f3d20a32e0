package htmlplugin

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/styleext/internal/bundler"
	"git.home.luguber.info/inful/styleext/internal/hook"
)

func twoEntryInput() *bundler.Input {
	in := &bundler.Input{
		Chunks: []bundler.ChunkSpec{
			{Name: "main", Files: []string{"main.js", "main.css"}},
			{Name: "vendor", Files: []string{"vendor.js", "vendor.css"}},
		},
		Entrypoints: []bundler.EntrypointSpec{
			{Name: "main", Chunks: []string{"main"}},
			{Name: "vendor", Chunks: []string{"vendor"}},
		},
	}
	in.AddAsset("main.js", bundler.StringSource("m()")).
		AddAsset("main.css", bundler.StringSource("body{}")).
		AddAsset("vendor.js", bundler.StringSource("v()")).
		AddAsset("vendor.css", bundler.StringSource("p{}"))
	return in
}

func runPage(t *testing.T, style bundler.HookStyle, p *Plugin, setup func(*bundler.Compiler)) *bundler.Compilation {
	t.Helper()
	c := bundler.NewCompiler(style)
	if setup != nil {
		setup(c)
	}
	require.NoError(t, p.Apply(c))
	stats, err := c.Run(context.Background(), twoEntryInput())
	require.NoError(t, err)
	return stats.Compilation
}

func page(t *testing.T, c *bundler.Compilation, name string) string {
	t.Helper()
	a, ok := c.Asset(name)
	require.True(t, ok, "page %s not emitted", name)
	return string(a.Source())
}

func TestPlugin_DefaultPage(t *testing.T) {
	comp := runPage(t, bundler.HookStyleTap, New(Options{Title: "Demo", PublicPath: "/static/"}), nil)
	require.NoError(t, comp.Err())

	out := page(t, comp, DefaultFilename)
	assert.Contains(t, out, "<title>Demo</title>")
	assert.Contains(t, out, `<link href="/static/main.css" rel="stylesheet"/>`)
	assert.Contains(t, out, `<link href="/static/vendor.css" rel="stylesheet"/>`)
	assert.Contains(t, out, `<script src="/static/main.js" type="text/javascript"></script>`)
	assert.Less(t, strings.Index(out, "main.css"), strings.Index(out, "</head>"))
	assert.Greater(t, strings.Index(out, "main.js"), strings.Index(out, "<body>"))
}

func TestPlugin_ChunkSelection(t *testing.T) {
	p := New(Options{Filename: "app.html", Chunks: []string{"main", "vendor"}, ExcludeChunks: []string{"vendor"}})
	comp := runPage(t, bundler.HookStyleTap, p, nil)

	out := page(t, comp, "app.html")
	assert.Contains(t, out, "main.css")
	assert.NotContains(t, out, "vendor")

	groups := p.Files(comp)
	assert.Equal(t, []string{"main.css"}, groups.CSS)
	assert.Equal(t, []string{"main.js"}, groups.JS)
}

func TestPlugin_TapStages(t *testing.T) {
	var order []string
	comp := runPage(t, bundler.HookStyleTap, New(Options{}), func(c *bundler.Compiler) {
		c.Hooks.Compilation.Tap("probe", func(comp *bundler.Compilation) {
			h := GetHooks(comp)
			h.BeforeAssetTagGeneration.Tap("probe", func(d *EventData) error {
				order = append(order, HookBeforeAssetTagGeneration)
				assert.Nil(t, d.Head)
				assert.Equal(t, []string{"main.css", "vendor.css"}, d.Assets.CSS)
				return nil
			})
			h.AlterAssetTagGroups.TapAsync("probe", func(d *EventData, done hook.Callback) {
				order = append(order, HookAlterAssetTagGroups)
				require.Len(t, d.Head, 2)
				d.Head[0] = StyleTag("body{}")
				done(nil)
			})
			h.BeforeEmit.Tap("probe", func(d *EventData) error {
				order = append(order, HookBeforeEmit)
				d.HTML = strings.Replace(d.HTML, "</body>", "<!-- done --></body>", 1)
				return nil
			})
		})
	})

	assert.Equal(t, []string{HookBeforeAssetTagGeneration, HookAlterAssetTagGroups, HookBeforeEmit}, order)
	out := page(t, comp, DefaultFilename)
	assert.Contains(t, out, `<style type="text/css">body{}</style>`)
	assert.NotContains(t, out, `href="main.css"`)
	assert.Contains(t, out, "<!-- done -->")
}

func TestPlugin_StageErrorDoesNotStopLaterStages(t *testing.T) {
	reached := false
	comp := runPage(t, bundler.HookStyleTap, New(Options{}), func(c *bundler.Compiler) {
		c.Hooks.Compilation.Tap("probe", func(comp *bundler.Compilation) {
			GetHooks(comp).BeforeAssetTagGeneration.Tap("probe", func(*EventData) error {
				return errors.New("boom")
			})
			GetHooks(comp).BeforeEmit.Tap("probe", func(*EventData) error {
				reached = true
				return nil
			})
		})
	})

	assert.True(t, reached)
	require.Len(t, comp.Errors(), 1)
	assert.Contains(t, comp.Errors()[0].Error(), "boom")
	page(t, comp, DefaultFilename)
}

func TestPlugin_LegacyEvents(t *testing.T) {
	var order []string
	comp := runPage(t, bundler.HookStyleLegacy, New(Options{}), func(c *bundler.Compiler) {
		require.NoError(t, c.Plugin(bundler.EventCompilation, func(arg any, _ hook.Callback) {
			comp := arg.(*bundler.Compilation)
			for _, ev := range []string{EventBeforeHTMLProcessing, EventAlterAssetTags, EventAfterHTMLProcessing} {
				require.NoError(t, comp.Plugin(ev, func(arg any, done hook.Callback) {
					d := arg.(*EventData)
					order = append(order, ev)
					if ev == EventAlterAssetTags {
						assert.Nil(t, done)
						assert.Len(t, d.Head, 2)
						return
					}
					done(nil)
				}))
			}
		}))
	})

	assert.Equal(t, []string{EventBeforeHTMLProcessing, EventAlterAssetTags, EventAfterHTMLProcessing}, order)
	assert.NoError(t, comp.Err())
	page(t, comp, DefaultFilename)
}

func TestPlugin_DuplicateFilenameIsRecorded(t *testing.T) {
	c := bundler.NewCompiler(bundler.HookStyleTap)
	require.NoError(t, New(Options{}).Apply(c))
	require.NoError(t, New(Options{}).Apply(c))
	stats, err := c.Run(context.Background(), twoEntryInput())
	require.NoError(t, err)
	require.Len(t, stats.Compilation.Errors(), 1)
	assert.Contains(t, stats.Compilation.Err().Error(), "conflict")
}

func TestHooks_ByName(t *testing.T) {
	h := &Hooks{}
	_, ok := h.ByName("nope")
	assert.False(t, ok)
	_, ok = h.ByName(HookBeforeEmit)
	assert.True(t, ok)
}

package bundler

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompilation_AssetStore(t *testing.T) {
	c, err := newCompilation(HookStyleTap, sampleInput())
	require.NoError(t, err)

	a, ok := c.Asset("main.css")
	require.True(t, ok)
	assert.Equal(t, "body{}", string(a.Source()))

	assert.Error(t, c.EmitAsset("main.css", StringSource("x")))
	require.NoError(t, c.EmitAsset("index.html", StringSource("<html>")))
	require.NoError(t, c.UpdateAsset("main.css", StringSource("p{}")))
	assert.Error(t, c.UpdateAsset("nope.css", StringSource("")))

	assert.True(t, c.DeleteAsset("main.css"))
	assert.False(t, c.DeleteAsset("main.css"))
	assert.Equal(t, []string{"vendor.js", "main.js", "vendor.css", "index.html"}, c.AssetNames())
}

func TestCompilation_ErrorLog(t *testing.T) {
	c, err := newCompilation(HookStyleTap, nil)
	require.NoError(t, err)
	assert.NoError(t, c.Err())

	c.AddError(nil)
	c.AddError(errors.New("one"))
	c.AddError(errors.New("two"))
	c.AddWarning(errors.New("careful"))

	assert.Len(t, c.Errors(), 2)
	assert.Len(t, c.Warnings(), 1)
	assert.EqualError(t, c.Err(), "one; two")
}

func TestCompilation_Extension(t *testing.T) {
	c, err := newCompilation(HookStyleTap, nil)
	require.NoError(t, err)
	type key struct{}
	calls := 0
	create := func() any { calls++; return &calls }
	first := c.Extension(key{}, create)
	second := c.Extension(key{}, create)
	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestEntrypoint_Files(t *testing.T) {
	shared := &Chunk{Name: "runtime", Files: []string{"runtime.js"}}
	ep := &Entrypoint{Name: "main", Chunks: []*Chunk{shared, {Name: "main", Files: []string{"main.js", "runtime.js"}}}}
	assert.Equal(t, []string{"runtime.js", "main.js"}, ep.Files())
	assert.True(t, shared.HasFile("runtime.js"))
	assert.False(t, shared.HasFile("main.js"))
}

func TestLoadInputAndWriteAssets(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "app.js"), []byte("a()"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "css", "app.css"), []byte("p{}"), 0o644))

	in, err := LoadInput(src, "")
	require.NoError(t, err)
	require.Len(t, in.Assets, 2)
	assert.Equal(t, "app.js", in.Assets[0].Name)
	assert.Equal(t, "css/app.css", in.Assets[1].Name)
	assert.Equal(t, []string{"app.js", "css/app.css"}, in.Chunks[0].Files)

	manifest := filepath.Join(src, "manifest.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte(`
chunks:
  - name: app
    files: [app.js, css/app.css]
entrypoints:
  - name: app
    chunks: [app]
`), 0o644))
	in, err = LoadInput(src, manifest)
	require.NoError(t, err)
	assert.Len(t, in.Assets, 2, "manifest inside the source dir is not an asset")
	assert.Equal(t, "app", in.Entrypoints[0].Name)

	c, err := newCompilation(HookStyleTap, in)
	require.NoError(t, err)
	out := t.TempDir()
	written, err := WriteAssets(c, out)
	require.NoError(t, err)
	assert.Equal(t, []string{"app.js", "css/app.css"}, written)
	data, err := os.ReadFile(filepath.Join(out, "css", "app.css"))
	require.NoError(t, err)
	assert.Equal(t, "p{}", string(data))
}

func TestReadManifest_UnknownField(t *testing.T) {
	p := filepath.Join(t.TempDir(), "m.yaml")
	require.NoError(t, os.WriteFile(p, []byte("bundles: []\n"), 0o644))
	_, err := ReadManifest(p)
	assert.Error(t, err)
}

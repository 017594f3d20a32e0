package lifecycle

import (
	"context"
	stdErrors "errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/styleext/internal/bundler"
	"git.home.luguber.info/inful/styleext/internal/errors"
	"git.home.luguber.info/inful/styleext/internal/htmlplugin"
	"git.home.luguber.info/inful/styleext/internal/metrics"
)

const testPlugin = "LifecycleTest"

var vocabularies = []bundler.HookStyle{bundler.HookStyleTap, bundler.HookStyleLegacy}

type stageRecorder struct {
	metrics.NoopRecorder
	mu      sync.Mutex
	results map[string][]metrics.ResultLabel
}

func (r *stageRecorder) IncStageResult(stage string, result metrics.ResultLabel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.results == nil {
		r.results = make(map[string][]metrics.ResultLabel)
	}
	r.results[stage] = append(r.results[stage], result)
}

func input() *bundler.Input {
	in := &bundler.Input{}
	in.AddAsset("main.js", bundler.StringSource("m()")).
		AddAsset("index.css", bundler.StringSource("body{background:snow}"))
	return in.WithDefaultEntry()
}

// setup returns a compiler with the HTML plugin applied ahead of the adapter.
func setup(t *testing.T, style bundler.HookStyle, opts ...Option) (*bundler.Compiler, *Adapter) {
	t.Helper()
	c := bundler.NewCompiler(style)
	require.NoError(t, htmlplugin.New(htmlplugin.Options{}).Apply(c))
	a, err := New(c, testPlugin, opts...)
	require.NoError(t, err)
	return c, a
}

func run(t *testing.T, c *bundler.Compiler) *bundler.Compilation {
	t.Helper()
	stats, err := c.Run(context.Background(), input())
	require.NoError(t, err)
	return stats.Compilation
}

func TestStage_String(t *testing.T) {
	names := make([]string, 0, 4)
	for _, s := range Stages() {
		names = append(names, s.String())
	}
	assert.Equal(t, []string{"beforeHtml", "alterTags", "afterHtml", "emit"}, names)
	assert.Equal(t, "Stage(9)", Stage(9).String())
}

func TestNew_DetectsVocabulary(t *testing.T) {
	tap, err := New(bundler.NewCompiler(bundler.HookStyleTap), testPlugin)
	require.NoError(t, err)
	assert.Equal(t, VocabularyTap, tap.Vocabulary())
	assert.Equal(t, htmlplugin.HookAlterAssetTagGroups, tap.Event(StageAlterTags))

	legacy, err := New(bundler.NewCompiler(bundler.HookStyleLegacy), testPlugin)
	require.NoError(t, err)
	assert.Equal(t, VocabularyLegacy, legacy.Vocabulary())
	assert.Equal(t, "legacy", legacy.Vocabulary().String())
	assert.Equal(t, htmlplugin.EventAfterHTMLProcessing, legacy.Event(StageAfterHTML))

	_, err = New(nil, testPlugin)
	assert.Error(t, err)
}

func TestAdapter_StagesFireInOrder(t *testing.T) {
	for _, style := range vocabularies {
		t.Run(style.String(), func(t *testing.T) {
			c, a := setup(t, style)
			var order []Stage
			record := func(p *Payload) error {
				order = append(order, p.Stage)
				return nil
			}
			require.NoError(t, a.OnCompilation(func(s *Scope) {
				require.NotNil(t, s.Compilation())
				for _, stage := range []Stage{StageBeforeHTML, StageAlterTags, StageAfterHTML} {
					require.NoError(t, s.On(stage, record))
				}
			}))
			require.NoError(t, a.OnEmit(record))

			comp := run(t, c)

			require.NoError(t, comp.Err())
			assert.Equal(t, Stages(), order)
		})
	}
}

func TestAdapter_PayloadCarriesEventData(t *testing.T) {
	for _, style := range vocabularies {
		t.Run(style.String(), func(t *testing.T) {
			c, a := setup(t, style)
			var html string
			var head int
			require.NoError(t, a.OnCompilation(func(s *Scope) {
				require.NoError(t, s.On(StageAlterTags, func(p *Payload) error {
					head = len(p.Data.Head)
					assert.Same(t, s.Compilation(), p.Compilation)
					return nil
				}))
				require.NoError(t, s.On(StageAfterHTML, func(p *Payload) error {
					html = p.Data.HTML
					return nil
				}))
			}))
			require.NoError(t, a.OnEmit(func(p *Payload) error {
				assert.Nil(t, p.Data)
				_, ok := p.Compilation.Asset(htmlplugin.DefaultFilename)
				assert.True(t, ok, "page emitted before plugin emit")
				return nil
			}))

			run(t, c)

			assert.Equal(t, 1, head)
			assert.Contains(t, html, `<link href="index.css" rel="stylesheet"/>`)
		})
	}
}

func TestScope_OnRejectsEmit(t *testing.T) {
	c, a := setup(t, bundler.HookStyleTap)
	var regErr error
	require.NoError(t, a.OnCompilation(func(s *Scope) {
		regErr = s.On(StageEmit, func(*Payload) error { return nil })
	}))
	run(t, c)
	require.Error(t, regErr)
	assert.True(t, errors.IsCategory(regErr, errors.CategoryInternal))
}

func TestAdapter_HandlerErrorIsRecorded(t *testing.T) {
	boom := stdErrors.New("boom")
	for _, style := range vocabularies {
		t.Run(style.String(), func(t *testing.T) {
			rec := &stageRecorder{}
			c, a := setup(t, style, WithRecorder(rec))
			afterRan := false
			require.NoError(t, a.OnCompilation(func(s *Scope) {
				require.NoError(t, s.On(StageAlterTags, func(*Payload) error { return boom }))
				require.NoError(t, s.On(StageAfterHTML, func(*Payload) error {
					afterRan = true
					return nil
				}))
			}))

			comp := run(t, c)

			errs := comp.Errors()
			require.Len(t, errs, 1)
			assert.ErrorIs(t, errs[0], boom)
			assert.True(t, afterRan, "later stages still run")
			_, ok := comp.Asset(htmlplugin.DefaultFilename)
			assert.True(t, ok)
			assert.Equal(t, []metrics.ResultLabel{metrics.ResultError}, rec.results["alterTags"])
			assert.Equal(t, []metrics.ResultLabel{metrics.ResultSuccess}, rec.results["afterHtml"])
		})
	}
}

func TestAdapter_PanicBecomesLifecycleError(t *testing.T) {
	for _, style := range vocabularies {
		t.Run(style.String(), func(t *testing.T) {
			rec := &stageRecorder{}
			c, a := setup(t, style, WithRecorder(rec))
			require.NoError(t, a.OnCompilation(func(s *Scope) {
				require.NoError(t, s.On(StageBeforeHTML, func(*Payload) error { panic("kaboom") }))
			}))

			comp := run(t, c)

			errs := comp.Errors()
			require.Len(t, errs, 1)
			assert.True(t, errors.IsCategory(errs[0], errors.CategoryLifecycle))
			assert.Contains(t, errs[0].Error(), "kaboom")
			assert.Equal(t, []metrics.ResultLabel{metrics.ResultPanic}, rec.results["beforeHtml"])
		})
	}
}

func TestAdapter_EmitErrorReachesCompilation(t *testing.T) {
	for _, style := range vocabularies {
		t.Run(style.String(), func(t *testing.T) {
			c, a := setup(t, style)
			require.NoError(t, a.OnEmit(func(*Payload) error { return stdErrors.New("flush failed") }))

			comp := run(t, c)

			require.Error(t, comp.Err())
			assert.Contains(t, comp.Err().Error(), "flush failed")
		})
	}
}

func TestAdapter_LegacyUnexpectedArgument(t *testing.T) {
	c, a := setup(t, bundler.HookStyleLegacy)
	calls := 0
	require.NoError(t, a.OnCompilation(func(s *Scope) {
		require.NoError(t, s.On(StageAlterTags, func(*Payload) error {
			calls++
			return nil
		}))
	}))
	comp := run(t, c)
	require.NoError(t, comp.Err())

	comp.ApplyPlugins(htmlplugin.EventAlterAssetTags, "not a payload")

	assert.Equal(t, 1, calls)
	errs := comp.Errors()
	require.Len(t, errs, 1)
	assert.True(t, errors.IsCategory(errs[0], errors.CategoryLifecycle))
	assert.Contains(t, errs[0].Error(), "unexpected argument type string")
}

func TestAdapter_LegacyAsyncContinuation(t *testing.T) {
	c, a := setup(t, bundler.HookStyleLegacy)
	require.NoError(t, a.OnCompilation(func(s *Scope) {
		require.NoError(t, s.On(StageAfterHTML, func(*Payload) error { return nil }))
	}))
	comp := run(t, c)

	var got error
	called := false
	comp.ApplyPluginsAsync(htmlplugin.EventAfterHTMLProcessing, 42, func(err error) {
		called = true
		got = err
	})

	assert.True(t, called)
	require.Error(t, got)
	assert.True(t, errors.IsCategory(got, errors.CategoryLifecycle))
	assert.Empty(t, comp.Errors(), "continuation owns the error")
}

func TestAdapter_OnDone(t *testing.T) {
	for _, style := range vocabularies {
		t.Run(style.String(), func(t *testing.T) {
			c, a := setup(t, style)
			require.NoError(t, a.OnEmit(func(*Payload) error { return stdErrors.New("flush failed") }))
			var finished *bundler.Compilation
			require.NoError(t, a.OnDone(func(s *bundler.Stats) error {
				finished = s.Compilation
				return nil
			}))
			require.NoError(t, a.OnDone(func(*bundler.Stats) error { panic("late") }))

			comp := run(t, c)

			assert.Same(t, comp, finished, "done fires after a failed emit")
			errs := comp.Errors()
			require.Len(t, errs, 2)
			assert.Contains(t, errs[0].Error(), "flush failed")
			assert.True(t, errors.IsCategory(errs[1], errors.CategoryLifecycle))
		})
	}
}

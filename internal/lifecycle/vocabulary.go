package lifecycle

import (
	"git.home.luguber.info/inful/styleext/internal/bundler"
	"git.home.luguber.info/inful/styleext/internal/hook"
	"git.home.luguber.info/inful/styleext/internal/htmlplugin"
)

// Vocabulary identifies the event model a host speaks.
type Vocabulary int

const (
	// VocabularyTap registers through typed hooks.
	VocabularyTap Vocabulary = iota
	// VocabularyLegacy registers through string-keyed Plugin calls.
	VocabularyLegacy
)

// String returns the vocabulary name.
func (v Vocabulary) String() string {
	if v == VocabularyLegacy {
		return "legacy"
	}
	return "tap"
}

// vocabulary maps every stage to the concrete host registration call.
type vocabulary struct {
	kind          Vocabulary
	events        map[Stage]string
	onCompilation func(c *bundler.Compiler, name string, fn bundler.LegacyHandler) error
	onEmit        func(c *bundler.Compiler, name string, fn bundler.LegacyHandler) error
	onDone        func(c *bundler.Compiler, name string, fn bundler.LegacyHandler) error
	onStage       func(comp *bundler.Compilation, name, event string, fn bundler.LegacyHandler) error
}

var legacyVocabulary = &vocabulary{
	kind: VocabularyLegacy,
	events: map[Stage]string{
		StageBeforeHTML: htmlplugin.EventBeforeHTMLProcessing,
		StageAlterTags:  htmlplugin.EventAlterAssetTags,
		StageAfterHTML:  htmlplugin.EventAfterHTMLProcessing,
		StageEmit:       bundler.EventEmit,
	},
	onCompilation: func(c *bundler.Compiler, _ string, fn bundler.LegacyHandler) error {
		return c.Plugin(bundler.EventCompilation, fn)
	},
	onEmit: func(c *bundler.Compiler, _ string, fn bundler.LegacyHandler) error {
		return c.Plugin(bundler.EventEmit, fn)
	},
	onDone: func(c *bundler.Compiler, _ string, fn bundler.LegacyHandler) error {
		return c.Plugin(bundler.EventDone, fn)
	},
	onStage: func(comp *bundler.Compilation, _, event string, fn bundler.LegacyHandler) error {
		return comp.Plugin(event, fn)
	},
}

var tapVocabulary = &vocabulary{
	kind: VocabularyTap,
	events: map[Stage]string{
		StageBeforeHTML: htmlplugin.HookBeforeAssetTagGeneration,
		StageAlterTags:  htmlplugin.HookAlterAssetTagGroups,
		StageAfterHTML:  htmlplugin.HookBeforeEmit,
		StageEmit:       bundler.EventEmit,
	},
	onCompilation: func(c *bundler.Compiler, name string, fn bundler.LegacyHandler) error {
		c.Hooks.Compilation.Tap(name, func(comp *bundler.Compilation) { fn(comp, nil) })
		return nil
	},
	onEmit: func(c *bundler.Compiler, name string, fn bundler.LegacyHandler) error {
		c.Hooks.Emit.TapAsync(name, func(comp *bundler.Compilation, done hook.Callback) { fn(comp, done) })
		return nil
	},
	onDone: func(c *bundler.Compiler, name string, fn bundler.LegacyHandler) error {
		c.Hooks.Done.Tap(name, func(stats *bundler.Stats) { fn(stats, nil) })
		return nil
	},
	onStage: func(comp *bundler.Compilation, name, event string, fn bundler.LegacyHandler) error {
		h, _ := htmlplugin.GetHooks(comp).ByName(event)
		h.TapAsync(name, func(data *htmlplugin.EventData, done hook.Callback) { fn(data, done) })
		return nil
	},
}

func detect(c *bundler.Compiler) *vocabulary {
	if c.Hooks != nil {
		return tapVocabulary
	}
	return legacyVocabulary
}

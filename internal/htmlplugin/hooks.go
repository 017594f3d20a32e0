package htmlplugin

import (
	"git.home.luguber.info/inful/styleext/internal/bundler"
	"git.home.luguber.info/inful/styleext/internal/hook"
)

// Legacy compilation event names.
const (
	EventBeforeHTMLProcessing = "html-plugin-before-html-processing"
	EventAlterAssetTags       = "html-plugin-alter-asset-tags"
	EventAfterHTMLProcessing  = "html-plugin-after-html-processing"
)

// Tap hook names.
const (
	HookBeforeAssetTagGeneration = "beforeAssetTagGeneration"
	HookAlterAssetTagGroups      = "alterAssetTagGroups"
	HookBeforeEmit               = "beforeEmit"
)

// AssetGroups lists the files selected for a page, already prefixed with the
// public path.
type AssetGroups struct {
	PublicPath string
	CSS        []string
	JS         []string
}

// EventData is the payload handed to every stage. Head and Body are filled
// from the alter stage on, HTML from the before-emit stage on.
type EventData struct {
	Plugin     *Plugin
	OutputName string
	Assets     AssetGroups
	Head       []*TagDescriptor
	Body       []*TagDescriptor
	HTML       string
}

// Hooks are the tap-style stages of the HTML plugin for one compilation.
type Hooks struct {
	BeforeAssetTagGeneration *hook.AsyncSeriesHook[*EventData]
	AlterAssetTagGroups      *hook.AsyncSeriesHook[*EventData]
	BeforeEmit               *hook.AsyncSeriesHook[*EventData]
}

// ByName returns the hook registered under one of the Hook* names.
func (h *Hooks) ByName(name string) (*hook.AsyncSeriesHook[*EventData], bool) {
	switch name {
	case HookBeforeAssetTagGeneration:
		return h.BeforeAssetTagGeneration, true
	case HookAlterAssetTagGroups:
		return h.AlterAssetTagGroups, true
	case HookBeforeEmit:
		return h.BeforeEmit, true
	default:
		return nil, false
	}
}

type hooksKey struct{}

// GetHooks returns the hooks attached to c, creating them on first use. All
// HTML plugin instances of a compilation share one set.
func GetHooks(c *bundler.Compilation) *Hooks {
	return c.Extension(hooksKey{}, func() any {
		return &Hooks{
			BeforeAssetTagGeneration: hook.NewAsyncSeriesHook[*EventData](HookBeforeAssetTagGeneration),
			AlterAssetTagGroups:      hook.NewAsyncSeriesHook[*EventData](HookAlterAssetTagGroups),
			BeforeEmit:               hook.NewAsyncSeriesHook[*EventData](HookBeforeEmit),
		}
	}).(*Hooks)
}

package bundler

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"go.uber.org/multierr"

	"git.home.luguber.info/inful/styleext/internal/hook"
)

// LegacyHandler is the handler shape of the legacy vocabulary. done is nil
// when the event is fired synchronously.
type LegacyHandler func(arg any, done hook.Callback)

// Compilation is the snapshot of one build pass. Apart from the asset store
// and the error/warning logs it is immutable once handed to plugins.
type Compilation struct {
	id    string
	style HookStyle

	mu          sync.Mutex
	assets      *orderedmap.OrderedMap[string, Asset]
	entrypoints *orderedmap.OrderedMap[string, *Entrypoint]
	chunks      []*Chunk
	errors      []error
	warnings    []error
	handlers    map[string][]LegacyHandler
	extensions  map[any]any
}

func newCompilation(style HookStyle, in *Input) (*Compilation, error) {
	c := &Compilation{
		id:          uuid.NewString(),
		style:       style,
		assets:      orderedmap.New[string, Asset](),
		entrypoints: orderedmap.New[string, *Entrypoint](),
		handlers:    make(map[string][]LegacyHandler),
		extensions:  make(map[any]any),
	}
	if in == nil {
		return c, nil
	}

	for _, a := range in.Assets {
		if _, exists := c.assets.Get(a.Name); exists {
			return nil, fmt.Errorf("duplicate asset %q", a.Name)
		}
		c.assets.Set(a.Name, a.Source)
	}

	byName := make(map[string]*Chunk, len(in.Chunks))
	for i, spec := range in.Chunks {
		if _, exists := byName[spec.Name]; exists {
			return nil, fmt.Errorf("duplicate chunk %q", spec.Name)
		}
		ch := &Chunk{ID: i, Name: spec.Name, Files: append([]string(nil), spec.Files...)}
		byName[spec.Name] = ch
		c.chunks = append(c.chunks, ch)
	}

	for _, spec := range in.Entrypoints {
		ep := &Entrypoint{Name: spec.Name}
		for _, name := range spec.Chunks {
			ch, ok := byName[name]
			if !ok {
				return nil, fmt.Errorf("entrypoint %q references unknown chunk %q", spec.Name, name)
			}
			ep.Chunks = append(ep.Chunks, ch)
		}
		c.entrypoints.Set(spec.Name, ep)
	}
	return c, nil
}

// ID uniquely identifies this compilation.
func (c *Compilation) ID() string { return c.id }

// Style returns the vocabulary of the compiler that created the compilation.
func (c *Compilation) Style() HookStyle { return c.style }

// Asset returns the asset stored under name.
func (c *Compilation) Asset(name string) (Asset, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.assets.Get(name)
}

// AssetNames returns all asset names in insertion order.
func (c *Compilation) AssetNames() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, 0, c.assets.Len())
	for p := c.assets.Oldest(); p != nil; p = p.Next() {
		names = append(names, p.Key)
	}
	return names
}

// EmitAsset adds a new asset. Emitting an existing name is an error.
func (c *Compilation) EmitAsset(name string, a Asset) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.assets.Get(name); exists {
		return fmt.Errorf("conflict: multiple assets emit to the same filename %s", name)
	}
	c.assets.Set(name, a)
	return nil
}

// UpdateAsset replaces the content of an existing asset, keeping its position.
func (c *Compilation) UpdateAsset(name string, a Asset) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.assets.Get(name); !exists {
		return fmt.Errorf("asset %s does not exist", name)
	}
	c.assets.Set(name, a)
	return nil
}

// DeleteAsset removes an asset and reports whether it was present.
func (c *Compilation) DeleteAsset(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, present := c.assets.Delete(name)
	return present
}

// Entrypoint returns the named entrypoint.
func (c *Compilation) Entrypoint(name string) (*Entrypoint, bool) {
	return c.entrypoints.Get(name)
}

// Entrypoints returns all entrypoints in declaration order.
func (c *Compilation) Entrypoints() []*Entrypoint {
	out := make([]*Entrypoint, 0, c.entrypoints.Len())
	for p := c.entrypoints.Oldest(); p != nil; p = p.Next() {
		out = append(out, p.Value)
	}
	return out
}

// Chunks returns all chunks in declaration order.
func (c *Compilation) Chunks() []*Chunk { return c.chunks }

// AddError appends err to the compilation error log.
func (c *Compilation) AddError(err error) {
	if err == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = append(c.errors, err)
}

// AddWarning appends err to the compilation warning log.
func (c *Compilation) AddWarning(err error) {
	if err == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.warnings = append(c.warnings, err)
}

// Errors returns a copy of the error log.
func (c *Compilation) Errors() []error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]error(nil), c.errors...)
}

// Warnings returns a copy of the warning log.
func (c *Compilation) Warnings() []error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]error(nil), c.warnings...)
}

// Err combines the error log into a single error, nil when empty.
func (c *Compilation) Err() error {
	return multierr.Combine(c.Errors()...)
}

// Extension returns the value stored under key, creating it with create on
// first use. Plugins use it to attach per-compilation state such as hooks.
func (c *Compilation) Extension(key any, create func() any) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.extensions[key]; ok {
		return v
	}
	v := create()
	c.extensions[key] = v
	return v
}

// Plugin registers a legacy handler for a compilation-scoped event.
func (c *Compilation) Plugin(event string, fn LegacyHandler) error {
	if c.style != HookStyleLegacy {
		return ErrLegacyUnavailable
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[event] = append(c.handlers[event], fn)
	return nil
}

// ApplyPlugins fires a legacy event synchronously; handlers get no continuation.
func (c *Compilation) ApplyPlugins(event string, arg any) {
	for _, fn := range c.legacyHandlers(event) {
		fn(arg, nil)
	}
}

// ApplyPluginsAsync fires a legacy event in series and calls done once.
func (c *Compilation) ApplyPluginsAsync(event string, arg any, done hook.Callback) {
	seriesOf(event, c.legacyHandlers(event)).CallAsync(arg, done)
}

func (c *Compilation) legacyHandlers(event string) []LegacyHandler {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]LegacyHandler(nil), c.handlers[event]...)
}

func seriesOf(event string, handlers []LegacyHandler) *hook.AsyncSeriesHook[any] {
	h := hook.NewAsyncSeriesHook[any](event)
	for i, fn := range handlers {
		h.TapAsync(fmt.Sprintf("%s#%d", event, i), func(arg any, done hook.Callback) {
			fn(arg, done)
		})
	}
	return h
}

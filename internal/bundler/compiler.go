package bundler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"git.home.luguber.info/inful/styleext/internal/hook"
	"git.home.luguber.info/inful/styleext/internal/logfields"
)

// HookStyle selects the event vocabulary a compiler exposes.
type HookStyle int

const (
	// HookStyleTap exposes typed hooks through Compiler.Hooks.
	HookStyleTap HookStyle = iota
	// HookStyleLegacy exposes string-keyed Plugin registration.
	HookStyleLegacy
)

// String returns the vocabulary name.
func (s HookStyle) String() string {
	switch s {
	case HookStyleTap:
		return "tap"
	case HookStyleLegacy:
		return "legacy"
	default:
		return fmt.Sprintf("HookStyle(%d)", int(s))
	}
}

// ParseHookStyle maps "tap" or "legacy" to a HookStyle.
func ParseHookStyle(s string) (HookStyle, error) {
	switch s {
	case "", "tap":
		return HookStyleTap, nil
	case "legacy":
		return HookStyleLegacy, nil
	default:
		return 0, fmt.Errorf("unknown hook style %q (want tap or legacy)", s)
	}
}

// Legacy event names fired on the compiler.
const (
	EventCompilation = "compilation"
	EventEmit        = "emit"
	EventDone        = "done"
)

// ErrLegacyUnavailable is returned by Plugin on a tap-style compiler or compilation.
var ErrLegacyUnavailable = errors.New("legacy plugin interface is not available; register through Hooks")

// CompilerHooks are the tap-style compiler hooks.
type CompilerHooks struct {
	Compilation *hook.SyncHook[*Compilation]
	Emit        *hook.AsyncSeriesHook[*Compilation]
	Done        *hook.SyncHook[*Stats]
}

// Stats summarises one Run.
type Stats struct {
	Compilation *Compilation
	StartTime   time.Time
	EndTime     time.Time
}

// HasErrors reports whether the compilation recorded errors.
func (s *Stats) HasErrors() bool { return len(s.Compilation.Errors()) > 0 }

// HasWarnings reports whether the compilation recorded warnings.
func (s *Stats) HasWarnings() bool { return len(s.Compilation.Warnings()) > 0 }

// Duration returns the wall time of the run.
func (s *Stats) Duration() time.Duration { return s.EndTime.Sub(s.StartTime) }

// Compiler runs compilations and fires lifecycle events around them.
type Compiler struct {
	// Hooks is nil for a legacy compiler; plugins use that to pick a vocabulary.
	Hooks *CompilerHooks

	style    HookStyle
	log      *slog.Logger
	mu       sync.Mutex
	handlers map[string][]LegacyHandler
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the compiler logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Compiler) {
		if l != nil {
			c.log = l
		}
	}
}

// NewCompiler creates a compiler speaking the given vocabulary.
func NewCompiler(style HookStyle, opts ...Option) *Compiler {
	c := &Compiler{
		style:    style,
		log:      slog.Default(),
		handlers: make(map[string][]LegacyHandler),
	}
	if style == HookStyleTap {
		c.Hooks = &CompilerHooks{
			Compilation: hook.NewSyncHook[*Compilation](EventCompilation),
			Emit:        hook.NewAsyncSeriesHook[*Compilation](EventEmit),
			Done:        hook.NewSyncHook[*Stats](EventDone),
		}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Style returns the vocabulary of the compiler.
func (c *Compiler) Style() HookStyle { return c.style }

// Plugin registers a legacy handler for a compiler event.
func (c *Compiler) Plugin(event string, fn LegacyHandler) error {
	if c.style != HookStyleLegacy {
		return ErrLegacyUnavailable
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[event] = append(c.handlers[event], fn)
	return nil
}

func (c *Compiler) legacyHandlers(event string) []LegacyHandler {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]LegacyHandler(nil), c.handlers[event]...)
}

// Run performs one compilation over in. Errors raised by emit handlers are
// recorded on the compilation; Run itself fails only for invalid input or
// cancellation.
func (c *Compiler) Run(ctx context.Context, in *Input) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}

	comp, err := newCompilation(c.style, in)
	if err != nil {
		return nil, fmt.Errorf("invalid build input: %w", err)
	}
	stats.Compilation = comp
	log := c.log.With(logfields.CompilationID(comp.ID()))
	log.Debug("Compilation started",
		"assets", len(in.assetsOrNil()),
		"chunks", len(comp.Chunks()),
		"hooks", c.style.String())

	c.fireCompilation(comp)

	if err := c.fireEmit(ctx, comp); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return stats, ctxErr
		}
		comp.AddError(err)
	}

	stats.EndTime = time.Now()
	c.fireDone(stats)
	log.Debug("Compilation finished",
		logfields.DurationMS(float64(stats.Duration().Microseconds())/1000),
		"errors", len(comp.Errors()),
		"warnings", len(comp.Warnings()))
	return stats, nil
}

// fireDone runs after emit whatever its outcome.
func (c *Compiler) fireDone(stats *Stats) {
	if c.Hooks != nil {
		c.Hooks.Done.Call(stats)
		return
	}
	for _, fn := range c.legacyHandlers(EventDone) {
		fn(stats, nil)
	}
}

func (c *Compiler) fireCompilation(comp *Compilation) {
	if c.Hooks != nil {
		c.Hooks.Compilation.Call(comp)
		return
	}
	for _, fn := range c.legacyHandlers(EventCompilation) {
		fn(comp, nil)
	}
}

func (c *Compiler) fireEmit(ctx context.Context, comp *Compilation) error {
	ch := make(chan error, 1)
	done := func(err error) { ch <- err }
	if c.Hooks != nil {
		c.Hooks.Emit.CallAsync(comp, done)
	} else {
		seriesOf(EventEmit, c.legacyHandlers(EventEmit)).CallAsync(comp, done)
	}
	select {
	case err := <-ch:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

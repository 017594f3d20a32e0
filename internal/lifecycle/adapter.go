// Package lifecycle bridges the two event vocabularies of the host build
// system behind a single stage enum and handler shape.
//
// The vocabulary is detected once when the adapter is created. Handlers are
// wrapped so that returned errors and recovered panics reach the host
// continuation when one exists, and the compilation error log otherwise.
package lifecycle

import (
	"fmt"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/styleext/internal/bundler"
	"git.home.luguber.info/inful/styleext/internal/errors"
	"git.home.luguber.info/inful/styleext/internal/hook"
	"git.home.luguber.info/inful/styleext/internal/htmlplugin"
	"git.home.luguber.info/inful/styleext/internal/logfields"
	"git.home.luguber.info/inful/styleext/internal/metrics"
)

// Payload is what every handler receives. Data is nil for StageEmit.
type Payload struct {
	Stage       Stage
	Compilation *bundler.Compilation
	Data        *htmlplugin.EventData
}

// Handler is the uniform stage callback.
type Handler func(*Payload) error

// Adapter registers handlers on one compiler for one plugin.
type Adapter struct {
	compiler *bundler.Compiler
	name     string
	vocab    *vocabulary
	log      *slog.Logger
	recorder metrics.Recorder
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the adapter logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.log = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(a *Adapter) {
		if r != nil {
			a.recorder = r
		}
	}
}

// New detects the vocabulary of c and returns an adapter registering under
// pluginName.
func New(c *bundler.Compiler, pluginName string, opts ...Option) (*Adapter, error) {
	if c == nil {
		return nil, errors.InternalError("lifecycle adapter needs a compiler", nil)
	}
	a := &Adapter{
		compiler: c,
		name:     pluginName,
		vocab:    detect(c),
		log:      slog.Default(),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(a)
	}
	a.log = a.log.With(logfields.Plugin(pluginName), logfields.Vocabulary(a.vocab.kind.String()))
	a.log.Debug("Lifecycle vocabulary detected")
	return a, nil
}

// Vocabulary returns the detected vocabulary.
func (a *Adapter) Vocabulary() Vocabulary { return a.vocab.kind }

// Event returns the host event or hook name stage maps to.
func (a *Adapter) Event(stage Stage) string { return a.vocab.events[stage] }

// OnCompilation calls fn for every new compilation with a scope for
// registering that compilation's HTML stages.
func (a *Adapter) OnCompilation(fn func(*Scope)) error {
	return a.vocab.onCompilation(a.compiler, a.name, func(arg any, done hook.Callback) {
		comp, ok := arg.(*bundler.Compilation)
		if !ok {
			a.complete(nil, bundler.EventCompilation, errors.UnexpectedArgument(bundler.EventCompilation, arg), done)
			return
		}
		_, err := a.protect(bundler.EventCompilation, func() error {
			fn(&Scope{adapter: a, comp: comp})
			return nil
		})
		a.complete(comp, bundler.EventCompilation, err, done)
	})
}

// OnEmit registers h for StageEmit.
func (a *Adapter) OnEmit(h Handler) error {
	return a.vocab.onEmit(a.compiler, a.name, a.wrap(StageEmit, nil, h))
}

// OnDone calls fn once a compilation has finished, after every emit handler
// ran or the emit series was cut short by an error. Errors are recorded on
// the compilation.
func (a *Adapter) OnDone(fn func(*bundler.Stats) error) error {
	return a.vocab.onDone(a.compiler, a.name, func(arg any, done hook.Callback) {
		stats, ok := arg.(*bundler.Stats)
		if !ok || stats == nil || stats.Compilation == nil {
			a.complete(nil, bundler.EventDone, errors.UnexpectedArgument(bundler.EventDone, arg), done)
			return
		}
		_, err := a.protect(bundler.EventDone, func() error { return fn(stats) })
		a.complete(stats.Compilation, bundler.EventDone, err, done)
	})
}

// Scope registers stage handlers on a single compilation.
type Scope struct {
	adapter *Adapter
	comp    *bundler.Compilation
}

// Compilation returns the compilation the scope belongs to.
func (s *Scope) Compilation() *bundler.Compilation { return s.comp }

// On registers h for one of the HTML stages.
func (s *Scope) On(stage Stage, h Handler) error {
	if !stage.htmlStage() {
		return errors.InternalError(fmt.Sprintf("stage %s cannot be registered on a compilation", stage), nil)
	}
	a := s.adapter
	return a.vocab.onStage(s.comp, a.name, a.vocab.events[stage], a.wrap(stage, s.comp, h))
}

// wrap adapts h to the raw host handler shape. comp is nil for StageEmit,
// where the compilation arrives as the argument.
func (a *Adapter) wrap(stage Stage, comp *bundler.Compilation, h Handler) bundler.LegacyHandler {
	event := a.vocab.events[stage]
	return func(arg any, done hook.Callback) {
		start := time.Now()
		p, err := payloadFor(stage, comp, event, arg)
		target := comp
		if p != nil {
			target = p.Compilation
		}
		panicked := false
		if err == nil {
			panicked, err = a.protect(stage.String(), func() error { return h(p) })
		}
		a.recorder.ObserveStageDuration(stage.String(), time.Since(start))
		a.recorder.IncStageResult(stage.String(), resultOf(err, panicked))
		a.complete(target, stage.String(), err, done)
	}
}

func payloadFor(stage Stage, comp *bundler.Compilation, event string, arg any) (*Payload, error) {
	if stage == StageEmit {
		c, ok := arg.(*bundler.Compilation)
		if !ok || c == nil {
			return nil, errors.UnexpectedArgument(event, arg)
		}
		return &Payload{Stage: stage, Compilation: c}, nil
	}
	data, ok := arg.(*htmlplugin.EventData)
	if !ok || data == nil {
		return nil, errors.UnexpectedArgument(event, arg)
	}
	return &Payload{Stage: stage, Compilation: comp, Data: data}, nil
}

// protect runs fn and converts a panic into a lifecycle error.
func (a *Adapter) protect(stage string, fn func() error) (panicked bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			panicked, err = true, errors.CallbackPanic(stage, r)
		}
	}()
	return false, fn()
}

// complete hands err to the continuation, or records it on comp when the
// host fired the event synchronously.
func (a *Adapter) complete(comp *bundler.Compilation, stage string, err error, done hook.Callback) {
	if err != nil {
		a.log.Debug("Stage handler failed", logfields.Stage(stage), logfields.Error(err))
	}
	if done != nil {
		done(err)
		return
	}
	if err == nil {
		return
	}
	if comp == nil {
		a.log.Error("Dropping stage error without compilation", logfields.Stage(stage), logfields.Error(err))
		return
	}
	comp.AddError(fmt.Errorf("%s: %w", a.name, err))
}

func resultOf(err error, panicked bool) metrics.ResultLabel {
	switch {
	case panicked:
		return metrics.ResultPanic
	case err != nil:
		return metrics.ResultError
	default:
		return metrics.ResultSuccess
	}
}

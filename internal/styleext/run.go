package styleext

import (
	"log/slog"

	"git.home.luguber.info/inful/styleext/internal/bundler"
	"git.home.luguber.info/inful/styleext/internal/errors"
	"git.home.luguber.info/inful/styleext/internal/lifecycle"
	"git.home.luguber.info/inful/styleext/internal/logfields"
	"git.home.luguber.info/inful/styleext/internal/resolver"
)

// run holds the state of one compilation. Stages of a compilation fire in
// sequence, so it needs no locking.
type run struct {
	plugin   *Plugin
	comp     *bundler.Compilation
	log      *slog.Logger
	resolved bool
	target   string
}

// resolve picks the stylesheet at the first page of the compilation; later
// pages reuse the result.
func (r *run) resolve(pl *lifecycle.Payload) error {
	if r.resolved {
		return nil
	}
	r.resolved = true
	r.checkChunks()

	var htmlChunks []string
	if pl.Data != nil && pl.Data.Plugin != nil {
		htmlChunks = pl.Data.Plugin.Options().Chunks
	}
	res := resolver.Resolve(r.plugin.cfg, htmlChunks, r.comp)
	r.plugin.recorder.IncResolution(res.Outcome())
	if !res.Found {
		r.log.Debug("No stylesheet to inline", "filter", res.Filter.String())
		return nil
	}
	r.target = res.Filename
	r.plugin.ledger.Mark(r.comp.ID(), res.Filename)
	r.log.Debug("Resolved stylesheet", logfields.Asset(res.Filename))
	return nil
}

// checkChunks warns about configured chunk names the compilation does not
// declare. Such names select nothing.
func (r *run) checkChunks() {
	for _, name := range r.plugin.cfg.Chunks {
		if _, ok := r.comp.Entrypoint(name); ok {
			continue
		}
		r.log.Warn("Configured chunk not found", logfields.Chunk(name))
		r.comp.AddWarning(errors.UnknownChunk(name))
	}
}

func (r *run) replace(pl *lifecycle.Payload) error {
	if r.target == "" {
		return nil
	}
	ok, err := r.plugin.mutator.Replace(r.comp, pl.Data, r.target)
	if err != nil {
		return err
	}
	if !ok {
		r.log.Debug("No link tag references stylesheet", logfields.Asset(r.target), "page", pl.Data.OutputName)
		return nil
	}
	r.inlined(pl)
	return nil
}

func (r *run) insert(pl *lifecycle.Payload) error {
	if r.target == "" {
		return nil
	}
	if err := r.plugin.mutator.Insert(r.comp, pl.Data, r.target, r.plugin.cfg.Position); err != nil {
		return err
	}
	r.inlined(pl)
	return nil
}

func (r *run) inlined(pl *lifecycle.Payload) {
	pos := r.plugin.cfg.Position.String()
	r.plugin.recorder.IncInlined(pos)
	if a, ok := r.comp.Asset(r.target); ok {
		r.plugin.recorder.ObserveInlinedBytes(len(a.Source()))
	}
	r.log.Info("Inlined stylesheet",
		logfields.Asset(r.target),
		logfields.Position(pos),
		"page", pl.Data.OutputName)
}

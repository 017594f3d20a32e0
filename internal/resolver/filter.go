package resolver

import (
	"git.home.luguber.info/inful/styleext/internal/bundler"
	"git.home.luguber.info/inful/styleext/internal/util/sets"
)

// FilterKind tags the variants of Filter.
type FilterKind int

const (
	// MatchesAll accepts every asset name.
	MatchesAll FilterKind = iota
	// Matches accepts the names its predicate accepts.
	Matches
	// MatchesNothing accepts no name; resolution yields no target.
	MatchesNothing
)

func (k FilterKind) String() string {
	switch k {
	case MatchesAll:
		return "all"
	case Matches:
		return "matches"
	case MatchesNothing:
		return "nothing"
	default:
		return "unknown"
	}
}

// Filter restricts the candidate asset names before the stylesheet matcher
// runs.
type Filter struct {
	kind FilterKind
	pred func(string) bool
}

// All returns the unrestricted filter.
func All() Filter { return Filter{kind: MatchesAll} }

// Nothing returns the filter that rejects every name.
func Nothing() Filter { return Filter{kind: MatchesNothing} }

// Predicate returns a filter accepting the names pred accepts.
func Predicate(pred func(string) bool) Filter {
	if pred == nil {
		return Nothing()
	}
	return Filter{kind: Matches, pred: pred}
}

// Kind returns the variant.
func (f Filter) Kind() FilterKind { return f.kind }

// Accepts reports whether name is a candidate.
func (f Filter) Accepts(name string) bool {
	switch f.kind {
	case MatchesAll:
		return true
	case Matches:
		return f.pred(name)
	default:
		return false
	}
}

// ChunkFilter builds the filter for a chunk restriction. The chunks of the
// named entrypoints are collected; when htmlChunks is non-nil they are
// intersected, by chunk identity, with the chunks of the entrypoints the HTML
// plugin selected. Entrypoints missing from the snapshot contribute nothing.
// An empty chunk set yields Nothing.
func ChunkFilter(chunks, htmlChunks []string, snap Snapshot) Filter {
	if chunks == nil {
		return All()
	}

	candidates := chunksOf(chunks, snap)
	if htmlChunks != nil {
		allowed := sets.New(chunksOf(htmlChunks, snap)...)
		kept := candidates[:0:0]
		for _, ch := range candidates {
			if allowed.Has(ch) {
				kept = append(kept, ch)
			}
		}
		candidates = kept
	}
	if len(candidates) == 0 {
		return Nothing()
	}

	return Predicate(func(name string) bool {
		for _, ch := range candidates {
			if ch.HasFile(name) {
				return true
			}
		}
		return false
	})
}

func chunksOf(entries []string, snap Snapshot) []*bundler.Chunk {
	var out []*bundler.Chunk
	for _, name := range entries {
		ep, ok := snap.Entrypoint(name)
		if !ok || ep == nil {
			continue
		}
		for _, ch := range ep.Chunks {
			if ch != nil {
				out = append(out, ch)
			}
		}
	}
	return out
}

// Package resolver picks the generated stylesheet to inline from the assets
// of a compilation.
package resolver

import (
	"git.home.luguber.info/inful/styleext/internal/bundler"
	"git.home.luguber.info/inful/styleext/internal/config"
)

// Snapshot is the read-only view of a compilation the resolver needs.
type Snapshot interface {
	AssetNames() []string
	Entrypoint(name string) (*bundler.Entrypoint, bool)
}

// Result is the outcome of one resolution. Found is false when no asset
// qualified, which is not an error.
type Result struct {
	Filename string
	Found    bool
	Filter   FilterKind
}

// Outcome labels the result for logs and metrics.
func (r Result) Outcome() string {
	switch {
	case r.Found:
		return "found"
	case r.Filter == MatchesNothing:
		return "no_files"
	default:
		return "none"
	}
}

// Resolve returns the first asset, in insertion order, that passes the chunk
// filter and the configured matcher. htmlChunks is the chunk selection of the
// HTML plugin being processed, nil when it selects everything. Resolve only
// reads snap and is safe to call repeatedly.
func Resolve(cfg *config.PluginConfig, htmlChunks []string, snap Snapshot) Result {
	filter := ChunkFilter(cfg.Chunks, htmlChunks, snap)
	res := Result{Filter: filter.Kind()}
	if filter.Kind() == MatchesNothing {
		return res
	}
	for _, name := range snap.AssetNames() {
		if filter.Accepts(name) && cfg.Matches(name) {
			res.Filename = name
			res.Found = true
			return res
		}
	}
	return res
}

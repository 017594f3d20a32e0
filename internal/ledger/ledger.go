// Package ledger defers the removal of inlined stylesheets until the end of
// a compilation.
package ledger

import (
	"sync"

	"git.home.luguber.info/inful/styleext/internal/util/sets"
)

// Store is the part of a compilation the ledger deletes from.
type Store interface {
	DeleteAsset(name string) bool
}

// Ledger records filenames to delete, per compilation. One ledger belongs to
// one plugin instance and may serve several compilations at once; Flush
// drops a compilation's entries so nothing carries over into the next build.
type Ledger struct {
	mu     sync.Mutex
	marked map[string]sets.Set[string]
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{marked: make(map[string]sets.Set[string])}
}

// Mark records filename for deletion at the end of compilation id. It
// reports whether the name was newly marked.
func (l *Ledger) Mark(id, filename string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.marked[id]
	if !ok {
		s = sets.New[string]()
		l.marked[id] = s
	}
	return s.Add(filename)
}

// Pending returns the names marked for compilation id, sorted.
func (l *Ledger) Pending(id string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return sets.Sorted(l.marked[id])
}

// Flush deletes every name marked for compilation id from store and forgets
// them. Names already gone from the store are skipped. It returns the names
// actually deleted, sorted. Flushing again is a no-op.
func (l *Ledger) Flush(id string, store Store) []string {
	l.mu.Lock()
	s := l.marked[id]
	delete(l.marked, id)
	l.mu.Unlock()

	var deleted []string
	for _, name := range sets.Sorted(s) {
		if store.DeleteAsset(name) {
			deleted = append(deleted, name)
		}
	}
	return deleted
}

// Reset forgets every mark of every compilation.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	clear(l.marked)
}

// Len returns the number of marked names across compilations.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, s := range l.marked {
		n += s.Len()
	}
	return n
}

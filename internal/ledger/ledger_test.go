package ledger

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore map[string]bool

func (m memStore) DeleteAsset(name string) bool {
	if !m[name] {
		return false
	}
	delete(m, name)
	return true
}

func TestLedger_FlushOnce(t *testing.T) {
	l := New()
	assert.True(t, l.Mark("c1", "index.css"))
	assert.False(t, l.Mark("c1", "index.css"))
	assert.True(t, l.Mark("c1", "gone.css"))
	assert.Equal(t, []string{"gone.css", "index.css"}, l.Pending("c1"))

	store := memStore{"index.css": true, "index.html": true}
	assert.Equal(t, []string{"index.css"}, l.Flush("c1", store))
	assert.Equal(t, memStore{"index.html": true}, store)
	assert.Zero(t, l.Len())

	assert.Empty(t, l.Flush("c1", store))
	assert.Equal(t, memStore{"index.html": true}, store)
}

func TestLedger_ScopedPerCompilation(t *testing.T) {
	l := New()
	l.Mark("c1", "a.css")
	l.Mark("c2", "b.css")

	store := memStore{"a.css": true, "b.css": true}
	assert.Equal(t, []string{"a.css"}, l.Flush("c1", store))
	assert.True(t, store["b.css"])
	assert.Equal(t, 1, l.Len())

	l.Reset()
	assert.Zero(t, l.Len())
	assert.Empty(t, l.Flush("c2", store))
	assert.True(t, store["b.css"])
}

func TestLedger_Concurrent(t *testing.T) {
	l := New()
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := fmt.Sprintf("c%d", i)
			store := memStore{"x.css": true}
			l.Mark(id, "x.css")
			l.Mark(id, "x.css")
			deleted := l.Flush(id, store)
			assert.Equal(t, []string{"x.css"}, deleted)
		}()
	}
	wg.Wait()
	require.Zero(t, l.Len())
}

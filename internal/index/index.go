package index

import (
	"strings"
	"sync"
)

// Index is the installed searchable item list. Install replaces the whole
// list under the write lock, so concurrent searches see either the old or
// the new list, never a half-built one.
type Index struct {
	mu    sync.RWMutex
	items []Item
	gen   uint64
}

// New returns an empty index.
func New() *Index {
	return &Index{}
}

// Install atomically replaces the item list and bumps the generation.
func (x *Index) Install(items []Item) {
	x.mu.Lock()
	x.items = items
	x.gen++
	x.mu.Unlock()
}

// Generation increases by one on every Install. Pollers use it to notice
// that a background refresh has swapped the list.
func (x *Index) Generation() uint64 {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.gen
}

// Items returns the current item list. Callers must not mutate it.
func (x *Index) Items() []Item {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.items
}

// Len returns the current item count.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.items)
}

// Search returns the items whose search string contains every
// space-separated word of query, case-insensitively. An empty query
// returns everything.
func (x *Index) Search(query string) []Item {
	x.mu.RLock()
	items := x.items
	x.mu.RUnlock()

	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return items
	}

	var matches []Item
	for _, it := range items {
		ok := true
		for _, w := range words {
			if !strings.Contains(it.Search, w) {
				ok = false
				break
			}
		}
		if ok {
			matches = append(matches, it)
		}
	}
	return matches
}

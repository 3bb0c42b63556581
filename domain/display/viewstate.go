package display

import (
	"slices"
	"sync"
)

// ViewState tracks which task rows have their details expanded. It lives
// outside the synchronization engine and is keyed by task ID only.
type ViewState struct {
	mu       sync.RWMutex
	expanded map[int64]struct{}
}

func NewViewState() *ViewState {
	return &ViewState{expanded: make(map[int64]struct{})}
}

// Toggle flips the expansion of id and returns the new value.
func (v *ViewState) Toggle(id int64) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, ok := v.expanded[id]; ok {
		delete(v.expanded, id)
		return false
	}
	v.expanded[id] = struct{}{}
	return true
}

// Expand marks ids as expanded.
func (v *ViewState) Expand(ids ...int64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, id := range ids {
		v.expanded[id] = struct{}{}
	}
}

func (v *ViewState) IsExpanded(id int64) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()

	_, ok := v.expanded[id]
	return ok
}

// Prune forgets every id not in live, e.g. after a refresh removed tasks.
func (v *ViewState) Prune(live []int64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for id := range v.expanded {
		if !slices.Contains(live, id) {
			delete(v.expanded, id)
		}
	}
}

// Expanded returns the expanded ids in ascending order.
func (v *ViewState) Expanded() []int64 {
	v.mu.RLock()
	defer v.mu.RUnlock()

	ids := make([]int64, 0, len(v.expanded))
	for id := range v.expanded {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

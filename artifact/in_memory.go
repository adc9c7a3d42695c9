package artifact

import (
	"slices"
	"sort"
	"sync"
)

// DefaultMaxRuns bounds how many runs an InMemoryStore retains.
const DefaultMaxRuns = 100

// InMemoryStore keeps run artifacts in a nested map guarded by an RWMutex.
// Data is copied on save and retrieval. Once more than maxRuns runs are
// stored, the run saved least recently is evicted with all its artifacts.
//
// Layout: runID -> name -> raw bytes
type InMemoryStore struct {
	mu        sync.RWMutex
	maxRuns   int
	order     []string                     // run IDs, oldest first
	artifacts map[string]map[string][]byte // runID -> name -> data
}

// NewInMemoryStore returns an empty store retaining at most maxRuns runs.
// maxRuns <= 0 selects DefaultMaxRuns.
func NewInMemoryStore(maxRuns int) *InMemoryStore {
	if maxRuns <= 0 {
		maxRuns = DefaultMaxRuns
	}

	return &InMemoryStore{maxRuns: maxRuns, artifacts: make(map[string]map[string][]byte)}
}

// Save stores (or overwrites) the artifact bytes for the given run and name.
func (a *InMemoryStore) Save(runID, name string, data []byte) error {
	if runID == "" || name == "" {
		return ErrInvalidKey
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.artifacts[runID]; !exists {
		a.artifacts[runID] = make(map[string][]byte)
	} else {
		a.order = slices.DeleteFunc(a.order, func(id string) bool { return id == runID })
	}

	a.order = append(a.order, runID)
	a.artifacts[runID][name] = slices.Clone(data)

	for len(a.order) > a.maxRuns {
		evicted := a.order[0]
		a.order = a.order[1:]
		delete(a.artifacts, evicted)
	}

	return nil
}

// Get returns a copy of the stored artifact bytes or ErrNotFound.
func (a *InMemoryStore) Get(runID, name string) ([]byte, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	data, ok := a.artifacts[runID][name]
	if !ok {
		return nil, ErrNotFound
	}

	return slices.Clone(data), nil
}

// List returns the sorted artifact names stored for the run.
func (a *InMemoryStore) List(runID string) ([]string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	m, ok := a.artifacts[runID]
	if !ok {
		return nil, ErrNotFound
	}

	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}

	sort.Strings(names)

	return names, nil
}

// Runs returns the retained run IDs, most recently saved first.
func (a *InMemoryStore) Runs() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := slices.Clone(a.order)
	slices.Reverse(out)

	return out
}

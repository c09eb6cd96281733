package csal

import "sync"

// Database key prefixes used by Tree to namespace internal nodes from
// leaves in a single flat key space (§4.2's Database interface). Grounded
// on the teacher library's database.go NodePrefix/LeafPrefix scheme.
const (
	nodePrefix = "n:"
	leafPrefix = "l:"
)

// InMemoryDatabase is a map-backed Database, suitable for tests and for the
// generator tree's typical use as a disposable fixture builder rather than
// a durable store.
type InMemoryDatabase struct {
	data map[string][]byte
	mu   sync.RWMutex
}

// NewInMemoryDatabase returns an empty InMemoryDatabase.
func NewInMemoryDatabase() *InMemoryDatabase {
	return &InMemoryDatabase{data: make(map[string][]byte)}
}

func (db *InMemoryDatabase) Get(key []byte) ([]byte, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	value, ok := db.data[string(key)]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (db *InMemoryDatabase) Set(key, value []byte) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	db.data[string(key)] = stored
	return nil
}

func (db *InMemoryDatabase) Delete(key []byte) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	delete(db.data, string(key))
	return nil
}

func (db *InMemoryDatabase) Has(key []byte) (bool, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	_, ok := db.data[string(key)]
	return ok, nil
}

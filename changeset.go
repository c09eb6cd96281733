package csal

import (
	"sort"

	"github.com/nervosnetwork/csal/internal/pool"
)

// MaxChanges is the maximum number of reads or writes a single witness may
// carry (§6). The harness rejects a larger reads_count with
// TooManyChangesError; the write set is a MaxChanges-capacity ChangeSet, so
// a VM write of one key too many fails with InsufficientCapacityError.
const MaxChanges = 1024

// entryBufferPool reuses MaxChanges-capacity Entry slices across
// invocations so that read-set and write-set change sets do not allocate
// on the steady-state validation path (§5).
var entryBufferPool = pool.New(func() []Entry { return make([]Entry, MaxChanges) })

// NewPooledChangeSet returns a ChangeSet backed by a pooled MaxChanges
// capacity buffer. Release must be called when the caller is done with it
// to return the buffer to the pool.
func NewPooledChangeSet() (cs *ChangeSet, release func()) {
	buf := entryBufferPool.Get()
	cs = &ChangeSet{}
	cs.Init(buf, MaxChanges)
	return cs, func() { entryBufferPool.Put(buf) }
}

// ChangeSet is an unordered-insert buffer of (key, value) entries with
// stable de-duplication and canonical sort (§4.2, §3). It mirrors
// original_source/c/validator.h's csal_change_t / csal_change_insert /
// csal_change_fetch / csal_change_organize, generalized from a fixed C
// array to a Go slice but keeping the same capacity discipline: a
// ChangeSet never grows past the capacity it was initialized with.
//
// A ChangeSet is either raw (insertion order, may contain duplicate keys)
// or organized (sorted, duplicate-free) — see Organize.
type ChangeSet struct {
	entries  []Entry
	length   int
	capacity int
}

// NewChangeSet allocates a ChangeSet with its own backing buffer.
func NewChangeSet(capacity int) *ChangeSet {
	cs := &ChangeSet{}
	cs.Init(make([]Entry, capacity), capacity)
	return cs
}

// Init attaches external storage and resets the length to zero. buffer must
// have length >= capacity; entries beyond capacity are ignored. This is the
// hook internal/pool uses to hand a ChangeSet a pooled buffer instead of
// allocating one (§5: caller-owned storage, no dynamic allocation on the
// steady-state validation path).
func (cs *ChangeSet) Init(buffer []Entry, capacity int) {
	cs.entries = buffer
	cs.length = 0
	cs.capacity = capacity
}

// Len returns the number of entries currently held.
func (cs *ChangeSet) Len() int { return cs.length }

// Capacity returns the backing buffer's capacity.
func (cs *ChangeSet) Capacity() int { return cs.capacity }

// Entries returns the in-use portion of the backing buffer. The caller must
// not retain it across a subsequent Insert/Organize call.
func (cs *ChangeSet) Entries() []Entry { return cs.entries[:cs.length] }

// Insert appends (key, value, order=length) if there is capacity.
// Otherwise it scans from the tail for an entry with a matching key; if
// found, it overwrites the value (order unchanged) and succeeds; if not
// found, it fails with InsufficientCapacityError.
func (cs *ChangeSet) Insert(key Key, value Value) error {
	if cs.length < cs.capacity {
		cs.entries[cs.length] = Entry{Key: key, Value: value, Order: uint64(cs.length)}
		cs.length++
		return nil
	}
	for i := cs.length - 1; i >= 0; i-- {
		if cs.entries[i].Key == key {
			cs.entries[i].Value = value
			return nil
		}
	}
	return &InsufficientCapacityError{Key: key, Capacity: cs.capacity}
}

// Fetch scans from the tail and returns the first matching value, so the
// latest insert dominates before Organize is called. It returns ErrNotFound
// if no entry matches.
func (cs *ChangeSet) Fetch(key Key) (Value, error) {
	for i := cs.length - 1; i >= 0; i-- {
		if cs.entries[i].Key == key {
			return cs.entries[i].Value, nil
		}
	}
	return Value{}, ErrNotFound
}

// Organize assigns order := position for all entries, sorts by (SMT key
// order, order ascending), then collapses runs of equal keys, keeping the
// LAST entry of each run (largest order, i.e. last-write-wins). Length is
// updated to the distinct-key count. Organize is idempotent.
func (cs *ChangeSet) Organize() {
	n := cs.length
	for i := 0; i < n; i++ {
		cs.entries[i].Order = uint64(i)
	}

	entries := cs.entries[:n]
	sort.SliceStable(entries, func(i, j int) bool {
		if cmp := keyCompare(entries[i].Key, entries[j].Key); cmp != 0 {
			return cmp < 0
		}
		return entries[i].Order < entries[j].Order
	})

	write := 0
	i := 0
	for i < n {
		last := i
		for last+1 < n && entries[last+1].Key == entries[i].Key {
			last++
		}
		if last != write {
			entries[write] = entries[last]
		}
		write++
		i = last + 1
	}
	cs.length = write
}

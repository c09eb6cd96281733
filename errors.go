package csal

import "fmt"

// Sentinel errors for conditions that carry no useful context beyond their
// kind (§7).
var (
	// ErrInvalidProof covers malformed opcodes, truncated operands, a wrong
	// leaf count at termination, or a digest mismatch during verify.
	ErrInvalidProof = fmt.Errorf("csal: invalid proof")

	// ErrInvalidStack covers stack underflow, overflow, or a non-singleton
	// stack at termination.
	ErrInvalidStack = fmt.Errorf("csal: invalid stack")

	// ErrInvalidSibling is returned when a MERGE opcode's two top-of-stack
	// keys fail the bit-flip sibling relation.
	ErrInvalidSibling = fmt.Errorf("csal: invalid sibling")

	// ErrNotFound is returned by ChangeSet.Fetch when no entry matches.
	ErrNotFound = fmt.Errorf("csal: not found")

	// ErrInvalidData is returned for malformed witness or cell data.
	ErrInvalidData = fmt.Errorf("csal: invalid data")

	// ErrUnsupportedFlags is returned when reserved script-args bits are set.
	ErrUnsupportedFlags = fmt.Errorf("csal: unsupported flags")

	// ErrInvalidRootHash is returned when the reconstructed root does not
	// match the claimed output root.
	ErrInvalidRootHash = fmt.Errorf("csal: invalid root hash")

	// ErrNilDatabase is returned when a generator tree is built with a nil
	// Database.
	ErrNilDatabase = fmt.Errorf("csal: database cannot be nil")
)

// InsufficientCapacityError is returned by ChangeSet.Insert when the set is
// full and the key being inserted is not already present.
type InsufficientCapacityError struct {
	Key      Key
	Capacity int
}

func (e *InsufficientCapacityError) Error() string {
	return fmt.Sprintf("csal: insufficient capacity (%d) to insert key %s", e.Capacity, e.Key)
}

// TooManyChangesError is returned when a witness declares more reads than
// the configured maximum (1024, §6). A write set that outgrows the same
// maximum fails inside ChangeSet.Insert with InsufficientCapacityError
// instead.
type TooManyChangesError struct {
	Count int
	Max   int
}

func (e *TooManyChangesError) Error() string {
	return fmt.Sprintf("csal: too many changes: %d exceeds maximum of %d", e.Count, e.Max)
}

// InvalidTreeDepthError describes a generator tree depth outside [1, 256].
// Tree has no depth parameter, so no function in this package returns it.
type InvalidTreeDepthError struct {
	Depth uint16
}

func (e InvalidTreeDepthError) Error() string {
	return fmt.Sprintf("csal: invalid tree depth: %d (must be between 1 and 256)", e.Depth)
}

// OutOfRangeError describes a key that does not fit a generator tree depth.
// Tree always spans the full 256-bit key space, so no function in this
// package returns it.
type OutOfRangeError struct {
	Key   Key
	Depth uint16
}

func (e OutOfRangeError) Error() string {
	return fmt.Sprintf("csal: key %s out of range for tree depth %d", e.Key, e.Depth)
}

// KeyNotFoundError is returned when Update or Delete targets a key absent
// from the generator tree.
type KeyNotFoundError struct {
	Key Key
}

func (e KeyNotFoundError) Error() string {
	return fmt.Sprintf("csal: key not found: %s", e.Key)
}

// KeyExistsError is returned when Insert targets a key already present in
// the generator tree.
type KeyExistsError struct {
	Key Key
}

func (e KeyExistsError) Error() string {
	return fmt.Sprintf("csal: key already exists: %s", e.Key)
}

func errHexLength(n int) error {
	return fmt.Errorf("csal: hex string must be 64 characters, got %d", n)
}

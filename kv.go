package csal

import "github.com/ethereum/go-ethereum/crypto"

// KeyForName derives a 32-byte tree key from an arbitrary-length name via
// Keccak256, the same role go-ethereum's crypto.Keccak256 plays in the
// teacher library's InsertKV/GetKV/UpdateKV/DeleteKV (smt.go), truncating
// the hash into the tree's index space. Here the tree's key space already
// is the full 32-byte Keccak256 output, so no truncation is needed; this is
// deliberately a different hash than the Blake2b leaf/node combiner in
// hash.go — Keccak derives the key from a name, Blake2b combines keys and
// values into digests.
func KeyForName(name string) Key {
	var k Key
	copy(k[:], crypto.Keccak256([]byte(name)))
	return k
}

// InsertKV inserts value under the key Keccak256(name) derives to.
func (t *Tree) InsertKV(name string, value Value) error {
	return t.Insert(KeyForName(name), value)
}

// GetKV retrieves the value stored under name, if any.
func (t *Tree) GetKV(name string) (Value, bool, error) {
	return t.Get(KeyForName(name))
}

// UpdateKV updates the value stored under name.
func (t *Tree) UpdateKV(name string, value Value) error {
	return t.Update(KeyForName(name), value)
}

// DeleteKV removes the value stored under name.
func (t *Tree) DeleteKV(name string) error {
	return t.Delete(KeyForName(name))
}

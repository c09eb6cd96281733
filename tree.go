package csal

import "encoding/hex"

// Tree is the off-chain "generator" companion to the stateless validator
// (§4.3, §4.5): a persistent Sparse Merkle Tree that a transaction builder
// runs locally to produce the witnesses (read proofs, write proofs, old
// values) the on-chain validator checks. The validator itself never
// persists a tree — it only ever sees a 32-byte root plus a compressed
// proof — but producing realistic proofs for tests and tooling needs an
// actual tree, per original_source/c/generator.h's documented role.
//
// Tree is adapted from the teacher library's SparseMerkleTree (smt.go):
// same content-addressed node/leaf storage and lone-leaf compression (a
// subtree containing exactly one occupant is stored as that leaf's digest
// directly, with no intervening empty-sibling nodes materialized), but
// retargeted from *big.Int indices and a bitmask proof encoding to the
// Key/Value/Digest types and the opcode proof stream proof.go interprets.
//
// Compression is sound because of merge's zero short-circuit (see merge
// below): the digest of a subtree with exactly one non-empty occupant does
// not change as you ascend through empty sibling levels, so there is
// nothing to gain from materializing them, and Prove emits no PROOF step
// for an empty sibling for the same reason.
type Tree struct {
	db   Database
	root Digest
}

// NewTree creates a Tree over db, starting from the canonical empty root
// (the all-zero digest).
func NewTree(db Database) (*Tree, error) {
	if db == nil {
		return nil, ErrNilDatabase
	}
	return &Tree{db: db}, nil
}

// Root returns the tree's current root digest.
func (t *Tree) Root() Digest { return t.root }

// merge combines two child digests into their parent's digest. A zero
// (empty-subtree) side is returned unchanged rather than hashed — the same
// rule the compressed proof format relies on to omit empty siblings.
func merge(left, right Digest) Digest {
	if left.IsZero() {
		return right
	}
	if right.IsZero() {
		return left
	}
	return hashDigests(left, right)
}

func nodeKey(digest Digest) []byte {
	return []byte(nodePrefix + hex.EncodeToString(digest[:]))
}

func leafKey(digest Digest) []byte {
	return []byte(leafPrefix + hex.EncodeToString(digest[:]))
}

func (t *Tree) setNode(digest Digest, left, right Digest) error {
	data := make([]byte, 0, 64)
	data = append(data, left[:]...)
	data = append(data, right[:]...)
	return t.db.Set(nodeKey(digest), data)
}

func (t *Tree) setLeaf(digest Digest, data LeafData) error {
	buf := make([]byte, 0, KeyBytes+ValueBytes)
	buf = append(buf, data.Key[:]...)
	buf = append(buf, data.Value[:]...)
	return t.db.Set(leafKey(digest), buf)
}

// lookup classifies digest as either a stored internal node, a stored lone
// leaf, or unknown (neither — the caller should treat it as an empty
// subtree, which only legitimately happens for the zero digest).
func (t *Tree) lookup(digest Digest) (node Node, leaf LeafData, isLeaf bool, err error) {
	raw, err := t.db.Get(nodeKey(digest))
	if err != nil {
		return Node{}, LeafData{}, false, err
	}
	if raw != nil {
		copy(node.Left[:], raw[0:32])
		copy(node.Right[:], raw[32:64])
		return node, LeafData{}, false, nil
	}
	raw, err = t.db.Get(leafKey(digest))
	if err != nil {
		return Node{}, LeafData{}, false, err
	}
	if raw != nil {
		copy(leaf.Key[:], raw[0:KeyBytes])
		copy(leaf.Value[:], raw[KeyBytes:KeyBytes+ValueBytes])
		return Node{}, leaf, true, nil
	}
	return Node{}, LeafData{}, false, ErrNotFound
}

// Get returns the value stored at key, if any.
func (t *Tree) Get(key Key) (Value, bool, error) {
	current := t.root
	for height := 255; height >= 0; height-- {
		if current.IsZero() {
			return Value{}, false, nil
		}
		node, leaf, isLeaf, err := t.lookup(current)
		if err != nil {
			return Value{}, false, err
		}
		if isLeaf {
			if leaf.Key == key {
				return leaf.Value, true, nil
			}
			return Value{}, false, nil
		}
		if bit(&key, height) == 0 {
			current = node.Left
		} else {
			current = node.Right
		}
	}
	return Value{}, false, nil
}

// Exists reports whether key has a value in the tree.
func (t *Tree) Exists(key Key) (bool, error) {
	_, ok, err := t.Get(key)
	return ok, err
}

// Insert adds a new key. It fails with KeyExistsError if key is already
// present.
func (t *Tree) Insert(key Key, value Value) error {
	exists, err := t.Exists(key)
	if err != nil {
		return err
	}
	if exists {
		return &KeyExistsError{Key: key}
	}
	return t.set(key, value)
}

// Update replaces an existing key's value. It fails with KeyNotFoundError
// if key is absent.
func (t *Tree) Update(key Key, value Value) error {
	exists, err := t.Exists(key)
	if err != nil {
		return err
	}
	if !exists {
		return &KeyNotFoundError{Key: key}
	}
	return t.set(key, value)
}

// Delete removes key. It fails with KeyNotFoundError if key is absent.
func (t *Tree) Delete(key Key) error {
	exists, err := t.Exists(key)
	if err != nil {
		return err
	}
	if !exists {
		return &KeyNotFoundError{Key: key}
	}
	newRoot, err := t.remove(t.root, 255, key)
	if err != nil {
		return err
	}
	t.root = newRoot
	return nil
}

func (t *Tree) set(key Key, value Value) error {
	leaf := leafDigest(key, value)
	if err := t.setLeaf(leaf, LeafData{Key: key, Value: value}); err != nil {
		return err
	}
	newRoot, err := t.insert(t.root, 255, key, leaf)
	if err != nil {
		return err
	}
	t.root = newRoot
	return nil
}

func (t *Tree) insert(current Digest, height int, key Key, leaf Digest) (Digest, error) {
	if current.IsZero() {
		return leaf, nil
	}
	node, occupant, isLeaf, err := t.lookup(current)
	if err != nil {
		return Digest{}, err
	}
	if isLeaf {
		if occupant.Key == key {
			return leaf, nil
		}
		var left, right Digest
		if bit(&occupant.Key, height) == 0 {
			left = current
		} else {
			right = current
		}
		if bit(&key, height) == 0 {
			newLeft, err := t.insert(left, height-1, key, leaf)
			if err != nil {
				return Digest{}, err
			}
			left = newLeft
		} else {
			newRight, err := t.insert(right, height-1, key, leaf)
			if err != nil {
				return Digest{}, err
			}
			right = newRight
		}
		combined := merge(left, right)
		if err := t.setNode(combined, left, right); err != nil {
			return Digest{}, err
		}
		return combined, nil
	}

	left, right := node.Left, node.Right
	if bit(&key, height) == 0 {
		newLeft, err := t.insert(left, height-1, key, leaf)
		if err != nil {
			return Digest{}, err
		}
		left = newLeft
	} else {
		newRight, err := t.insert(right, height-1, key, leaf)
		if err != nil {
			return Digest{}, err
		}
		right = newRight
	}
	combined := merge(left, right)
	if err := t.setNode(combined, left, right); err != nil {
		return Digest{}, err
	}
	return combined, nil
}

func (t *Tree) remove(current Digest, height int, key Key) (Digest, error) {
	if current.IsZero() {
		return Digest{}, nil
	}
	node, occupant, isLeaf, err := t.lookup(current)
	if err != nil {
		return Digest{}, err
	}
	if isLeaf {
		if occupant.Key == key {
			return Digest{}, nil
		}
		return current, nil
	}
	left, right := node.Left, node.Right
	if bit(&key, height) == 0 {
		newLeft, err := t.remove(left, height-1, key)
		if err != nil {
			return Digest{}, err
		}
		left = newLeft
	} else {
		newRight, err := t.remove(right, height-1, key)
		if err != nil {
			return Digest{}, err
		}
		right = newRight
	}
	combined := merge(left, right)
	if !combined.IsZero() {
		if err := t.setNode(combined, left, right); err != nil {
			return Digest{}, err
		}
	}
	return combined, nil
}

// Prove builds a compressed opcode proof (§4.3, §6) covering every key in
// keys against the tree's current root. keys need not be pre-sorted or
// deduplicated. The returned proof, combined with a ChangeSet built from
// keys and their current (or, for update proofs, new) values and then
// Organize()'d, is exactly what Verify/UpdateRoot expect.
func (t *Tree) Prove(keys []Key) ([]byte, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	sorted := append([]Key(nil), keys...)
	dedup := make([]Key, 0, len(sorted))
	seen := make(map[Key]bool, len(sorted))
	for _, k := range sorted {
		if !seen[k] {
			seen[k] = true
			dedup = append(dedup, k)
		}
	}
	sortKeysAscending(dedup)
	return t.prove(t.root, 255, dedup)
}

// GetProof is a convenience wrapper around Prove for a single key; it also
// returns the key's current value and whether it exists.
func (t *Tree) GetProof(key Key) (Value, bool, []byte, error) {
	value, exists, err := t.Get(key)
	if err != nil {
		return Value{}, false, nil, err
	}
	proof, err := t.Prove([]Key{key})
	if err != nil {
		return Value{}, false, nil, err
	}
	return value, exists, proof, nil
}

func (t *Tree) prove(current Digest, height int, keys []Key) ([]byte, error) {
	if current.IsZero() {
		return t.proveSplit(Digest{}, Digest{}, height, keys)
	}
	node, occupant, isLeaf, err := t.lookup(current)
	if err != nil {
		return nil, err
	}
	if isLeaf {
		if len(keys) == 1 && keys[0] == occupant.Key {
			return []byte{opPushLeaf}, nil
		}
		var left, right Digest
		if bit(&occupant.Key, height) == 0 {
			left = current
		} else {
			right = current
		}
		return t.proveSplit(left, right, height, keys)
	}
	return t.proveSplit(node.Left, node.Right, height, keys)
}

func (t *Tree) proveSplit(left, right Digest, height int, keys []Key) ([]byte, error) {
	var leftKeys, rightKeys []Key
	for _, k := range keys {
		if bit(&k, height) == 0 {
			leftKeys = append(leftKeys, k)
		} else {
			rightKeys = append(rightKeys, k)
		}
	}

	switch {
	case len(leftKeys) > 0 && len(rightKeys) > 0:
		lops, err := t.prove(left, height-1, leftKeys)
		if err != nil {
			return nil, err
		}
		rops, err := t.prove(right, height-1, rightKeys)
		if err != nil {
			return nil, err
		}
		ops := append(lops, rops...)
		return append(ops, opMerge, byte(height)), nil

	case len(leftKeys) > 0:
		lops, err := t.prove(left, height-1, leftKeys)
		if err != nil {
			return nil, err
		}
		if right.IsZero() {
			return lops, nil
		}
		ops := append(lops, opProof, byte(height))
		return append(ops, right[:]...), nil

	default:
		rops, err := t.prove(right, height-1, rightKeys)
		if err != nil {
			return nil, err
		}
		if left.IsZero() {
			return rops, nil
		}
		ops := append(rops, opProof, byte(height))
		return append(ops, left[:]...), nil
	}
}

// sortKeysAscending sorts keys in SMT key order (§4.1).
func sortKeysAscending(keys []Key) {
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keyLess(keys[j], keys[j-1]); j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
}

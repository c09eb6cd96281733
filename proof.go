package csal

import "github.com/nervosnetwork/csal/internal/pool"

// Proof opcodes (§4.3, §6). Grounded on original_source/c/validator.h's
// csal_smt_update_root / csal_smt_verify switch over proof bytes 0x4C /
// 0x50 / 0x48.
const (
	opPushLeaf byte = 0x4C
	opProof    byte = 0x50
	opMerge    byte = 0x48
)

// stackSize bounds the proof interpreter's stack. A balanced 256-bit SMT
// with k active leaves in a single proof needs at most ceil(log2 k)+1
// stack slots; 32 suffices for 2^31 leaves in one proof.
const stackSize = 32

type stackItem struct {
	key    Key
	digest Digest
}

type stackFrame [stackSize]stackItem

// stackPool lets repeated UpdateRoot/Verify invocations reuse their
// 32-slot working stack instead of allocating one per call, in keeping
// with §5's no-dynamic-allocation discipline on the steady-state
// validation path.
var stackPool = pool.New(func() *stackFrame { return new(stackFrame) })

// UpdateRoot runs the proof interpreter over an organized batch (distinct
// keys, SMT-ascending) and a compressed proof, returning the root obtained
// by folding the batch's leaves and the proof's siblings together (§4.3).
//
// The same algorithm serves both update and verification: the proof never
// mentions leaf values, only siblings, so a caller can reuse one proof to
// verify a batch under one set of values (Verify) and recompute under
// another (UpdateRoot with new values) — see §4.3's "same proof, two
// roles" design rationale.
func UpdateRoot(batch *ChangeSet, proof []byte) (Digest, error) {
	frame := stackPool.Get()
	defer stackPool.Put(frame)

	entries := batch.Entries()
	top := 0
	leafCursor := 0
	i := 0

	for i < len(proof) {
		op := proof[i]
		i++
		switch op {
		case opPushLeaf:
			if top >= stackSize {
				return Digest{}, ErrInvalidStack
			}
			if leafCursor >= len(entries) {
				return Digest{}, ErrInvalidProof
			}
			e := entries[leafCursor]
			frame[top] = stackItem{key: e.Key, digest: leafDigest(e.Key, e.Value)}
			top++
			leafCursor++

		case opProof:
			if top == 0 {
				return Digest{}, ErrInvalidStack
			}
			if i+33 > len(proof) {
				return Digest{}, ErrInvalidProof
			}
			height := proof[i]
			i++
			var sibling Digest
			copy(sibling[:], proof[i:i+32])
			i += 32

			item := &frame[top-1]
			if bit(&item.key, int(height)) == 1 {
				item.digest = hashDigests(sibling, item.digest)
			} else {
				item.digest = hashDigests(item.digest, sibling)
			}
			item.key = parentPath(item.key, height)

		case opMerge:
			if top < 2 {
				return Digest{}, ErrInvalidStack
			}
			if i >= len(proof) {
				return Digest{}, ErrInvalidProof
			}
			height := proof[i]
			i++

			a := frame[top-2]
			b := frame[top-1]
			top -= 2

			aSet := bit(&a.key, int(height))
			bSet := bit(&b.key, int(height))
			zeroLowBits(&a.key, int(height))
			zeroLowBits(&b.key, int(height))

			siblingKeyA := a.key
			if aSet == 1 {
				clearBit(&siblingKeyA, int(height))
			} else {
				setBit(&siblingKeyA, int(height))
			}
			if siblingKeyA != b.key || aSet == bSet {
				return Digest{}, ErrInvalidSibling
			}

			var digest Digest
			if aSet == 1 {
				digest = hashDigests(b.digest, a.digest)
			} else {
				digest = hashDigests(a.digest, b.digest)
			}
			frame[top] = stackItem{key: a.key, digest: digest}
			top++

		default:
			return Digest{}, ErrInvalidProof
		}
	}

	if leafCursor != len(entries) {
		return Digest{}, ErrInvalidProof
	}
	if top != 1 {
		return Digest{}, ErrInvalidStack
	}
	return frame[0].digest, nil
}

// Verify reports whether proof folds batch into root exactly.
func Verify(root Digest, batch *ChangeSet, proof []byte) error {
	computed, err := UpdateRoot(batch, proof)
	if err != nil {
		return err
	}
	if computed != root {
		return ErrInvalidProof
	}
	return nil
}

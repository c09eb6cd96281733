package csal

import "golang.org/x/crypto/blake2b"

// hash256 computes the 32-byte Blake2b-256 compression of left||right with
// no framing, empty key, and empty personalization (§4.4).
func hash256(left, right []byte) Digest {
	h, err := blake2b.New256(nil)
	if err != nil {
		// blake2b.New256 only fails for an oversized key, and we pass none.
		panic(err)
	}
	h.Write(left)
	h.Write(right)
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// hashDigests is a convenience wrapper combining two digests.
func hashDigests(left, right Digest) Digest {
	return hash256(left[:], right[:])
}

// leafDigest computes H(key || value), the canonical SMT leaf digest.
func leafDigest(key Key, value Value) Digest {
	return hash256(key[:], value[:])
}

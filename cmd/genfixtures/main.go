// Command genfixtures generates JSON proof-test-vector fixtures for the
// package tests by driving a generator Tree with random keys and emitting
// the opcode proofs it produces. It replaces the teacher library's
// cmd/generate_test_data.go, which did the same job for the teacher's
// bitmask-Enables proof format against a tiny fixed 4-leaf tree; this
// version targets the opcode proof stream proof.go interprets and writes
// one proof vector per random leaf plus one all-leaves batch vector instead
// of a single hard-coded case.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/nervosnetwork/csal"
	"github.com/nervosnetwork/csal/internal/vectors"
)

func main() {
	out := flag.String("out", "internal/vectors/testdata/proofs.json", "output JSON path")
	count := flag.Int("count", 8, "number of random leaves to insert")
	flag.Parse()

	tree, err := csal.NewTree(csal.NewInMemoryDatabase())
	if err != nil {
		fail(err)
	}

	keys := make([]csal.Key, *count)
	values := make([]csal.Value, *count)
	for i := range keys {
		keys[i] = randomKey()
		values[i] = randomValue()
		if err := tree.Insert(keys[i], values[i]); err != nil {
			fail(err)
		}
	}

	var vecs []vectors.ProofTestVector
	for i, key := range keys {
		value, exists, proof, err := tree.GetProof(key)
		if err != nil {
			fail(err)
		}
		if !exists || value != values[i] {
			fail(fmt.Errorf("genfixtures: inconsistent tree state for key %s", key))
		}
		vecs = append(vecs, vectors.ProofTestVector{
			Name:     fmt.Sprintf("random-leaf-%d", i),
			Root:     tree.Root().String(),
			Keys:     []string{key.String()},
			Values:   []string{value.String()},
			Proof:    "0x" + hex.EncodeToString(proof),
			Expected: tree.Root().String(),
		})
	}

	batchProof, err := tree.Prove(keys)
	if err != nil {
		fail(err)
	}
	keyStrs := make([]string, len(keys))
	valueStrs := make([]string, len(values))
	for i := range keys {
		keyStrs[i] = keys[i].String()
		valueStrs[i] = values[i].String()
	}
	vecs = append(vecs, vectors.ProofTestVector{
		Name:     "all-leaves-batch",
		Root:     tree.Root().String(),
		Keys:     keyStrs,
		Values:   valueStrs,
		Proof:    "0x" + hex.EncodeToString(batchProof),
		Expected: tree.Root().String(),
	})

	if err := vectors.SaveProofVectors(*out, vecs); err != nil {
		fail(err)
	}
	fmt.Printf("wrote %d vectors to %s (root %s)\n", len(vecs), *out, tree.Root())
}

func randomKey() csal.Key {
	var k csal.Key
	if _, err := rand.Read(k[:]); err != nil {
		fail(err)
	}
	return k
}

func randomValue() csal.Value {
	var v csal.Value
	if _, err := rand.Read(v[:]); err != nil {
		fail(err)
	}
	return v
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "genfixtures:", err)
	os.Exit(1)
}

package csal_test

import (
	"testing"

	"github.com/nervosnetwork/csal"
	"github.com/nervosnetwork/csal/internal/hostsim"
	"github.com/nervosnetwork/csal/internal/vm"
)

func kN(n byte) csal.Key {
	var k csal.Key
	k[31] = n
	return k
}

func vN(n byte) csal.Value {
	var v csal.Value
	v[31] = n
	return v
}

// buildWitnessForReadWrite drives a generator tree through a single R-then-W
// program and returns the witness content plus the roots Validate expects.
func buildWitnessForReadWrite(t *testing.T, key csal.Key, oldValue, newValue csal.Value) ([]byte, csal.Digest, csal.Digest) {
	t.Helper()
	tree, err := csal.NewTree(csal.NewInMemoryDatabase())
	if err != nil {
		t.Fatal(err)
	}
	if err := tree.Insert(key, oldValue); err != nil {
		t.Fatal(err)
	}
	inputRoot := tree.Root()

	source := make([]byte, 0, 2*(1+csal.KeyBytes+csal.ValueBytes))
	appendOp := func(op byte, k csal.Key, v csal.Value) {
		rec := make([]byte, 1+csal.KeyBytes+csal.ValueBytes)
		rec[0] = op
		copy(rec[1:], k[:])
		copy(rec[1+csal.KeyBytes:], v[:])
		source = append(source, rec...)
	}
	appendOp('R', key, oldValue)
	appendOp('W', key, newValue)

	reads := csal.NewChangeSet(1)
	if err := reads.Insert(key, oldValue); err != nil {
		t.Fatal(err)
	}
	reads.Organize()
	readProof, err := tree.Prove([]csal.Key{key})
	if err != nil {
		t.Fatal(err)
	}

	writeProof, err := tree.Prove([]csal.Key{key})
	if err != nil {
		t.Fatal(err)
	}

	if err := tree.Update(key, newValue); err != nil {
		t.Fatal(err)
	}
	outputRoot := tree.Root()

	content := csal.BuildWitness(source, reads.Entries(), readProof, []csal.Value{oldValue}, writeProof)
	return content, inputRoot, outputRoot
}

func TestValidateReadWriteRoundTrip(t *testing.T) {
	key := kN(1)
	content, inputRoot, outputRoot := buildWitnessForReadWrite(t, key, vN(1), vN(2))

	host := hostsim.NewHost(inputRoot, outputRoot, content)
	if err := csal.Validate(host, vm.Dummy{}); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}

func TestValidateRejectsWrongOutputRoot(t *testing.T) {
	key := kN(1)
	content, inputRoot, outputRoot := buildWitnessForReadWrite(t, key, vN(1), vN(2))
	outputRoot[0] ^= 0xFF

	host := hostsim.NewHost(inputRoot, outputRoot, content)
	if err := csal.Validate(host, vm.Dummy{}); err != csal.ErrInvalidRootHash {
		t.Fatalf("expected ErrInvalidRootHash, got %v", err)
	}
}

func TestValidateRejectsUnsupportedFlags(t *testing.T) {
	key := kN(1)
	content, inputRoot, outputRoot := buildWitnessForReadWrite(t, key, vN(1), vN(2))

	host := hostsim.NewHost(inputRoot, outputRoot, content)
	host.Args[0] = 0xFE // reserved bits 1-7 set, bit 0 clear

	if err := csal.Validate(host, vm.Dummy{}); err != csal.ErrUnsupportedFlags {
		t.Fatalf("expected ErrUnsupportedFlags, got %v", err)
	}
}

func TestValidateCellDestruction(t *testing.T) {
	key := kN(1)
	tree, err := csal.NewTree(csal.NewInMemoryDatabase())
	if err != nil {
		t.Fatal(err)
	}
	if err := tree.Insert(key, vN(1)); err != nil {
		t.Fatal(err)
	}

	host := &hostsim.Host{
		Input:  hostsim.Cell{Root: tree.Root(), Exists: true},
		Output: hostsim.Cell{Exists: false},
		Args:   make([]byte, 8),
	}
	if err := csal.Validate(host, vm.Dummy{}); err != nil {
		t.Fatalf("cell destruction with empty witness content should succeed, got %v", err)
	}
}

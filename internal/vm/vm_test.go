package vm

import (
	"testing"

	"github.com/nervosnetwork/csal"
)

func buildOp(op byte, key csal.Key, value csal.Value) []byte {
	rec := make([]byte, operationLength)
	rec[0] = op
	copy(rec[1:], key[:])
	copy(rec[1+csal.KeyBytes:], value[:])
	return rec
}

func TestDummyReadThenWrite(t *testing.T) {
	var key csal.Key
	var value, newValue csal.Value
	key[31] = 1
	value[31] = 1
	newValue[31] = 2

	source := append(buildOp('R', key, value), buildOp('W', key, newValue)...)

	existing := csal.NewChangeSet(1)
	if err := existing.Insert(key, value); err != nil {
		t.Fatal(err)
	}
	existing.Organize()

	changes := csal.NewChangeSet(1)
	if err := (Dummy{}).Execute(source, existing, changes); err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	got, err := changes.Fetch(key)
	if err != nil || got != newValue {
		t.Fatalf("expected write recorded in changes, got=%s err=%v", got, err)
	}
	got, err = existing.Fetch(key)
	if err != nil || got != newValue {
		t.Fatalf("expected existing updated in place, got=%s err=%v", got, err)
	}
}

func TestDummyReadMismatchFails(t *testing.T) {
	var key csal.Key
	var value, wrong csal.Value
	key[31] = 1
	value[31] = 1
	wrong[31] = 9

	source := buildOp('R', key, wrong)

	existing := csal.NewChangeSet(1)
	if err := existing.Insert(key, value); err != nil {
		t.Fatal(err)
	}
	existing.Organize()

	if err := (Dummy{}).Execute(source, existing, csal.NewChangeSet(1)); err == nil {
		t.Fatal("expected read mismatch error")
	}
}

func TestDummyUnknownOpcodeFails(t *testing.T) {
	var key csal.Key
	var value csal.Value
	source := buildOp('X', key, value)

	existing := csal.NewChangeSet(0)
	existing.Organize()

	if err := (Dummy{}).Execute(source, existing, csal.NewChangeSet(0)); err == nil {
		t.Fatal("expected unknown opcode error")
	}
}

func TestDummyMisalignedSourceFails(t *testing.T) {
	existing := csal.NewChangeSet(0)
	existing.Organize()

	if err := (Dummy{}).Execute([]byte{0x01, 0x02, 0x03}, existing, csal.NewChangeSet(0)); err == nil {
		t.Fatal("expected misaligned-source error")
	}
}

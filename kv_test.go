package csal

import "testing"

func TestKeyForNameDeterministic(t *testing.T) {
	a := KeyForName("balance:alice")
	b := KeyForName("balance:alice")
	if a != b {
		t.Fatal("KeyForName must be deterministic for the same name")
	}
	c := KeyForName("balance:bob")
	if a == c {
		t.Fatal("different names should (overwhelmingly likely) derive different keys")
	}
}

func TestKVRoundTrip(t *testing.T) {
	tree, err := NewTree(NewInMemoryDatabase())
	if err != nil {
		t.Fatal(err)
	}

	v := valueN(1)
	if err := tree.InsertKV("balance:alice", v); err != nil {
		t.Fatalf("InsertKV: %v", err)
	}

	got, exists, err := tree.GetKV("balance:alice")
	if err != nil || !exists || got != v {
		t.Fatalf("GetKV: got=%s exists=%v err=%v", got, exists, err)
	}

	v2 := valueN(2)
	if err := tree.UpdateKV("balance:alice", v2); err != nil {
		t.Fatalf("UpdateKV: %v", err)
	}
	got, exists, err = tree.GetKV("balance:alice")
	if err != nil || !exists || got != v2 {
		t.Fatalf("GetKV after update: got=%s exists=%v err=%v", got, exists, err)
	}

	if err := tree.DeleteKV("balance:alice"); err != nil {
		t.Fatalf("DeleteKV: %v", err)
	}
	_, exists, err = tree.GetKV("balance:alice")
	if err != nil || exists {
		t.Fatalf("expected key gone after DeleteKV: exists=%v err=%v", exists, err)
	}
}

package csal

import "testing"

func TestInMemoryDatabaseGetSetDeleteHas(t *testing.T) {
	db := NewInMemoryDatabase()

	if ok, err := db.Has([]byte("k")); err != nil || ok {
		t.Fatalf("expected key absent, ok=%v err=%v", ok, err)
	}
	got, err := db.Get([]byte("k"))
	if err != nil || got != nil {
		t.Fatalf("expected nil for missing key, got=%v err=%v", got, err)
	}

	if err := db.Set([]byte("k"), []byte("v")); err != nil {
		t.Fatal(err)
	}
	got, err = db.Get([]byte("k"))
	if err != nil || string(got) != "v" {
		t.Fatalf("expected v, got=%s err=%v", got, err)
	}
	if ok, err := db.Has([]byte("k")); err != nil || !ok {
		t.Fatalf("expected key present, ok=%v err=%v", ok, err)
	}

	if err := db.Delete([]byte("k")); err != nil {
		t.Fatal(err)
	}
	if ok, _ := db.Has([]byte("k")); ok {
		t.Fatal("expected key absent after delete")
	}
}

func TestInMemoryDatabaseGetReturnsACopy(t *testing.T) {
	db := NewInMemoryDatabase()
	original := []byte("hello")
	if err := db.Set([]byte("k"), original); err != nil {
		t.Fatal(err)
	}
	got, err := db.Get([]byte("k"))
	if err != nil {
		t.Fatal(err)
	}
	got[0] = 'X'
	second, err := db.Get([]byte("k"))
	if err != nil || string(second) != "hello" {
		t.Fatalf("mutating a returned value should not affect stored state, got %s", second)
	}
}

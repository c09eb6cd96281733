package pool

import "testing"

func TestPoolGetPutReuse(t *testing.T) {
	allocations := 0
	p := New(func() []byte {
		allocations++
		return make([]byte, 32)
	})

	buf := p.Get()
	if allocations != 1 {
		t.Fatalf("expected 1 allocation for first Get, got %d", allocations)
	}
	if len(buf) != 32 {
		t.Fatalf("expected buffer of length 32, got %d", len(buf))
	}
	p.Put(buf)

	buf2 := p.Get()
	if allocations != 1 {
		t.Fatalf("expected Put buffer to be reused without a new allocation, got %d allocations", allocations)
	}
	_ = buf2
}

func TestPoolGetAllocatesWhenEmpty(t *testing.T) {
	p := New(func() *int {
		v := 7
		return &v
	})
	a := p.Get()
	b := p.Get()
	if *a != 7 || *b != 7 {
		t.Fatal("expected both items to come from newFn with the same initial value")
	}
}

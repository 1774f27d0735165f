package server

import "testing"

func TestObjectCache_StoreLookupRelease(t *testing.T) {
	c := NewObjectCache()
	v := &Pair{Kind: "int"}

	a := c.Store(v)
	b := c.Store(v)
	if a != 1 || b != 2 {
		t.Fatalf("handles = %d, %d; want 1, 2", a, b)
	}

	got, ok := c.Lookup(a)
	if !ok || got != v {
		t.Errorf("Lookup(%d) = %v, %v", a, got, ok)
	}

	if !c.Release(a) {
		t.Error("first release should succeed")
	}
	if c.Release(a) {
		t.Error("second release should fail")
	}
	if _, ok := c.Lookup(a); ok {
		t.Error("released handle still resolves")
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}

	if n := c.Store("next"); n != 3 {
		t.Errorf("handle after release = %d, want 3", n)
	}
	if c.Counter() != 3 {
		t.Errorf("Counter = %d, want 3", c.Counter())
	}
}

func TestObjectCache_Filter(t *testing.T) {
	c := NewObjectCache()

	n, err := c.ObjectToRef("value")
	if err != nil {
		t.Fatalf("ObjectToRef: %v", err)
	}
	v, err := c.RefToObject(n)
	if err != nil || v != "value" {
		t.Errorf("RefToObject(%d) = %v, %v", n, v, err)
	}

	if _, err := c.RefToObject(42); err == nil || err.Error() != "no such object: 42" {
		t.Errorf("RefToObject(42) error = %v", err)
	}
}

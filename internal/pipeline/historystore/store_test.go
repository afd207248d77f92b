package historystore

import "testing"

func TestMemory_GetMissIsFalseNotError(t *testing.T) {
	m := NewMemory()
	if _, ok := m.Get("agent:execution", "history"); ok {
		t.Fatal("expected a miss on an empty store")
	}
}

func TestMemory_SetThenGetRoundTrips(t *testing.T) {
	m := NewMemory()
	m.Set("agent:execution", "history", []int{1, 2, 3})
	v, ok := m.Get("agent:execution", "history")
	if !ok {
		t.Fatal("expected a hit after Set")
	}
	got, ok := v.([]int)
	if !ok || len(got) != 3 {
		t.Fatalf("unexpected value: %#v", v)
	}
}

func TestMemory_GroupsAreIsolated(t *testing.T) {
	m := NewMemory()
	m.Set("g1", "k", "v1")
	if _, ok := m.Get("g2", "k"); ok {
		t.Fatal("expected no cross-group leakage")
	}
}

func TestMemory_OverwriteReplacesValue(t *testing.T) {
	m := NewMemory()
	m.Set("g", "k", "v1")
	m.Set("g", "k", "v2")
	v, _ := m.Get("g", "k")
	if v != "v2" {
		t.Fatalf("expected overwritten value v2, got %v", v)
	}
}

package component

import "testing"

func TestMarkerSetAddRemove(t *testing.T) {
	var m MarkerSet

	if !m.Add(MarkerBreaker) {
		t.Fatalf("first add should insert")
	}
	if m.Add(MarkerBreaker) {
		t.Fatalf("second add must not insert a duplicate")
	}
	if m.Len() != 1 {
		t.Fatalf("expected one marker, got %d", m.Len())
	}
	m.Add(MarkerDriller)
	kinds := m.Kinds()
	if len(kinds) != 2 || kinds[0] != MarkerBreaker || kinds[1] != MarkerDriller {
		t.Fatalf("unexpected kinds %v", kinds)
	}

	if !m.Remove(MarkerBreaker) || m.Remove(MarkerBreaker) {
		t.Fatalf("remove should succeed exactly once")
	}
	if m.Has(MarkerBreaker) || !m.Has(MarkerDriller) {
		t.Fatalf("unexpected membership after remove")
	}

	m.Clear()
	if m.Len() != 0 {
		t.Fatalf("clear should empty the set")
	}
}

func TestMarkerSetTimers(t *testing.T) {
	var m MarkerSet
	if m.Advance(MarkerDriller, 1) != 0 {
		t.Fatalf("absent marker should not accumulate time")
	}

	m.Add(MarkerDriller)
	m.Advance(MarkerDriller, 0.25)
	m.Advance(MarkerDriller, 0.5)
	if got := m.Elapsed(MarkerDriller); got != 0.75 {
		t.Fatalf("elapsed = %v, want 0.75", got)
	}

	m.Add(MarkerDriller)
	if got := m.Elapsed(MarkerDriller); got != 0.75 {
		t.Fatalf("re-adding must keep the running timer, got %v", got)
	}

	if m.Has(MarkerKind(9)) || m.Add(MarkerKind(9)) {
		t.Fatalf("unknown kinds are rejected")
	}
}

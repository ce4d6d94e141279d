package component

// MarkerKind identifies a special interaction the droplet currently
// qualifies for.
type MarkerKind uint8

const (
	MarkerBreaker MarkerKind = iota
	MarkerDriller
	markerKindCount
)

func (k MarkerKind) String() string {
	switch k {
	case MarkerBreaker:
		return "breaker"
	case MarkerDriller:
		return "driller"
	}
	return "unknown"
}

// MarkerSet holds at most one marker of each kind, each with its own elapsed
// timer.
type MarkerSet struct {
	present [markerKindCount]bool
	elapsed [markerKindCount]float64
}

// Add inserts k and reports whether it was newly added. Adding a present
// marker keeps its timer running.
func (m *MarkerSet) Add(k MarkerKind) bool {
	if m == nil || k >= markerKindCount || m.present[k] {
		return false
	}
	m.present[k] = true
	m.elapsed[k] = 0
	return true
}

// Remove deletes k and reports whether it was present.
func (m *MarkerSet) Remove(k MarkerKind) bool {
	if m == nil || k >= markerKindCount || !m.present[k] {
		return false
	}
	m.present[k] = false
	m.elapsed[k] = 0
	return true
}

func (m *MarkerSet) Has(k MarkerKind) bool {
	if m == nil || k >= markerKindCount {
		return false
	}
	return m.present[k]
}

func (m *MarkerSet) Clear() {
	if m == nil {
		return
	}
	*m = MarkerSet{}
}

func (m *MarkerSet) Len() int {
	if m == nil {
		return 0
	}
	n := 0
	for _, ok := range m.present {
		if ok {
			n++
		}
	}
	return n
}

// Kinds returns the present markers in kind order.
func (m *MarkerSet) Kinds() []MarkerKind {
	if m == nil {
		return nil
	}
	var out []MarkerKind
	for k := MarkerKind(0); k < markerKindCount; k++ {
		if m.present[k] {
			out = append(out, k)
		}
	}
	return out
}

// Elapsed returns how long k has been present.
func (m *MarkerSet) Elapsed(k MarkerKind) float64 {
	if !m.Has(k) {
		return 0
	}
	return m.elapsed[k]
}

// Advance adds dt to the timer of k if present and returns the new value.
func (m *MarkerSet) Advance(k MarkerKind, dt float64) float64 {
	if !m.Has(k) {
		return 0
	}
	m.elapsed[k] += dt
	return m.elapsed[k]
}

func ParseMarkerKind(s string) (MarkerKind, bool) {
	for k := MarkerKind(0); k < markerKindCount; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return markerKindCount, false
}

// Package curve evaluates response curves sampled over normalized time.
package curve

import (
	"sort"

	"github.com/milk9111/droplet/common"
)

// Curve maps a normalized time in [0, 1] to a response value.
type Curve interface {
	Eval(t float64) float64
}

type Key struct {
	T float64 `yaml:"t"`
	V float64 `yaml:"v"`
}

// Keyed is a piecewise linear curve. Values before the first key and after
// the last key are held constant.
type Keyed struct {
	keys []Key
}

func NewKeyed(keys ...Key) *Keyed {
	sorted := append([]Key(nil), keys...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].T < sorted[j].T })
	return &Keyed{keys: sorted}
}

func (c *Keyed) Eval(t float64) float64 {
	if c == nil || len(c.keys) == 0 {
		return 0
	}
	if t <= c.keys[0].T {
		return c.keys[0].V
	}
	last := c.keys[len(c.keys)-1]
	if t >= last.T {
		return last.V
	}
	i := sort.Search(len(c.keys), func(i int) bool { return c.keys[i].T > t })
	a, b := c.keys[i-1], c.keys[i]
	span := b.T - a.T
	if span <= 0 {
		return b.V
	}
	return common.Lerp(a.V, b.V, (t-a.T)/span)
}

func (c *Keyed) Keys() []Key {
	if c == nil {
		return nil
	}
	return append([]Key(nil), c.keys...)
}

// Constant always returns the same value.
type Constant float64

func (c Constant) Eval(float64) float64 { return float64(c) }

// Eval evaluates c at t, treating a nil curve as a constant 1.
func Eval(c Curve, t float64) float64 {
	if c == nil {
		return 1
	}
	return c.Eval(t)
}

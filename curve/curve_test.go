package curve

import (
	"math"
	"testing"
)

func TestKeyedEval(t *testing.T) {
	c := NewKeyed(Key{T: 1, V: 0}, Key{T: 0, V: 0}, Key{T: 0.5, V: 1})

	cases := []struct {
		name string
		t    float64
		want float64
	}{
		{"before_first", -1, 0},
		{"first", 0, 0},
		{"quarter", 0.25, 0.5},
		{"peak", 0.5, 1},
		{"three_quarter", 0.75, 0.5},
		{"after_last", 2, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := c.Eval(tc.t); math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("Eval(%v) = %v, want %v", tc.t, got, tc.want)
			}
		})
	}
}

func TestKeyedEmptyAndNil(t *testing.T) {
	var nilCurve *Keyed
	if nilCurve.Eval(0.5) != 0 {
		t.Fatalf("nil curve should evaluate to 0")
	}
	if NewKeyed().Eval(0.5) != 0 {
		t.Fatalf("empty curve should evaluate to 0")
	}
	if Eval(nil, 0.3) != 1 {
		t.Fatalf("Eval(nil) should default to 1")
	}
	if Eval(Constant(0.25), 0.9) != 0.25 {
		t.Fatalf("constant curve mismatch")
	}
}

func TestScriptCurve(t *testing.T) {
	s, err := NewScript("ease", []byte(`value = t * t`))
	if err != nil {
		t.Fatalf("NewScript: %v", err)
	}
	if got := s.Eval(0.5); math.Abs(got-0.25) > 1e-9 {
		t.Fatalf("Eval(0.5) = %v, want 0.25", got)
	}

	baked := s.Bake(3)
	keys := baked.Keys()
	if len(keys) != 3 || keys[2].V != 1 {
		t.Fatalf("unexpected baked keys %v", keys)
	}
}

func TestScriptCurveCompileError(t *testing.T) {
	if _, err := NewScript("broken", []byte(`value = (`)); err == nil {
		t.Fatalf("expected compile error")
	}
}

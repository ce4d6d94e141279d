package curve

import (
	"fmt"
	"log"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// Script is a curve whose value is computed by a tengo script. The script
// reads the global `t` and must assign the global `value`.
type Script struct {
	name     string
	compiled *tengo.Compiled
}

func NewScript(name string, src []byte) (*Script, error) {
	script := tengo.NewScript(src)
	if err := script.Add("t", 0.0); err != nil {
		return nil, fmt.Errorf("curve: %s: %w", name, err)
	}
	if err := script.Add("value", 0.0); err != nil {
		return nil, fmt.Errorf("curve: %s: %w", name, err)
	}
	script.SetImports(stdlib.GetModuleMap("math"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("curve: compile %s: %w", name, err)
	}

	return &Script{name: name, compiled: compiled}, nil
}

func (s *Script) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

func (s *Script) Eval(t float64) float64 {
	if s == nil || s.compiled == nil {
		return 0
	}
	if err := s.compiled.Set("t", t); err != nil {
		log.Printf("curve: %s: set t: %v", s.name, err)
		return 0
	}
	if err := s.compiled.Run(); err != nil {
		log.Printf("curve: %s: run: %v", s.name, err)
		return 0
	}
	return s.compiled.Get("value").Float()
}

// Bake samples the script into a keyed curve so hot paths avoid running the VM
// every tick.
func (s *Script) Bake(samples int) *Keyed {
	if samples < 2 {
		samples = 2
	}
	keys := make([]Key, 0, samples)
	for i := 0; i < samples; i++ {
		t := float64(i) / float64(samples-1)
		keys = append(keys, Key{T: t, V: s.Eval(t)})
	}
	return NewKeyed(keys...)
}

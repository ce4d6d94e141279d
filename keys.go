package main

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// ebitenKeys resolves the key names of the input contexts to ebiten keys.
type ebitenKeys struct {
	known   map[string]ebiten.Key
	unknown map[string]bool
}

func newEbitenKeys() *ebitenKeys {
	return &ebitenKeys{known: make(map[string]ebiten.Key), unknown: make(map[string]bool)}
}

func (k *ebitenKeys) key(name string) (ebiten.Key, bool) {
	if key, ok := k.known[name]; ok {
		return key, true
	}
	if k.unknown[name] {
		return 0, false
	}
	var key ebiten.Key
	if err := key.UnmarshalText([]byte(name)); err != nil {
		log.Printf("input: key %q: %v", name, err)
		k.unknown[name] = true
		return 0, false
	}
	k.known[name] = key
	return key, true
}

func (k *ebitenKeys) Held(name string) bool {
	key, ok := k.key(name)
	return ok && ebiten.IsKeyPressed(key)
}

func (k *ebitenKeys) JustPressed(name string) bool {
	key, ok := k.key(name)
	return ok && inpututil.IsKeyJustPressed(key)
}

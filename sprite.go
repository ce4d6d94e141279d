package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/droplet/ecs/component"
	"golang.org/x/image/colornames"
)

const meshSolid = "droplet_solid"

// dropletSprite draws the droplet with the mesh and material picked by the
// material state system.
type dropletSprite struct {
	mesh     string
	material string
	visible  bool

	colors map[string]color.Color
}

func newDropletSprite(appearance component.Appearance, colors map[component.MaterialState]color.Color) *dropletSprite {
	s := &dropletSprite{visible: true}
	s.setPalette(appearance, colors)
	return s
}

// setPalette maps each state's material id to the state's color.
func (s *dropletSprite) setPalette(appearance component.Appearance, colors map[component.MaterialState]color.Color) {
	s.colors = make(map[string]color.Color, len(colors))
	for _, state := range component.MaterialStates {
		if c, ok := colors[state]; ok {
			s.colors[appearance.For(state).Material] = c
		}
	}
}

func (s *dropletSprite) SetMesh(id string)       { s.mesh = id }
func (s *dropletSprite) SetMaterial(id string)   { s.material = id }
func (s *dropletSprite) SetVisible(visible bool) { s.visible = visible }

func (s *dropletSprite) color() color.Color {
	if c, ok := s.colors[s.material]; ok {
		return c
	}
	return colornames.Deepskyblue
}

// Draw renders the capsule centered at (x, y) in screen space. A hidden mesh
// leaves only the material, drawn as a cloud.
func (s *dropletSprite) Draw(screen *ebiten.Image, x, y float32, c component.Capsule) {
	clr := s.color()
	r := float32(c.Radius)
	h := float32(c.HalfHeight)

	switch {
	case !s.visible:
		vector.FillCircle(screen, x-r*0.6, y, r*0.8, clr, true)
		vector.FillCircle(screen, x+r*0.6, y, r*0.8, clr, true)
		vector.FillCircle(screen, x, y-r*0.5, r, clr, true)
	case s.mesh == meshSolid:
		vector.FillRect(screen, x-r, y-h, 2*r, 2*h, clr, false)
		vector.StrokeRect(screen, x-r, y-h, 2*r, 2*h, 2, colornames.White, false)
	default:
		vector.FillCircle(screen, x, y+h-r, r, clr, true)
		vector.FillCircle(screen, x, y+h-r*2.2, r*0.55, clr, true)
	}
}

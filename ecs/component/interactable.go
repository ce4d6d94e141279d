package component

import "github.com/go-gl/mathgl/mgl64"

// Actor identifies the character interacting with a target. It carries the
// raw entity handle.
type Actor uint64

// InteractableTarget is implemented by anything the droplet can focus and
// interact with.
type InteractableTarget interface {
	InRange(actor Actor, actorPos mgl64.Vec3) bool
	Active() bool
	Register(actor Actor)
	Unregister(actor Actor)
	Interact(actor Actor)
}

type Interactable struct {
	Target InteractableTarget
	// Dialogue targets cannot be focused while gazeous.
	Dialogue bool
}

var InteractableComponent = NewComponent[Interactable]()

// Prompt is a radius based InteractableTarget.
type Prompt struct {
	Name     string
	Center   mgl64.Vec3
	Radius   float64
	Disabled bool

	OnInteract func(actor Actor)

	registered   map[Actor]bool
	interactions int
}

func NewPrompt(name string, center mgl64.Vec3, radius float64) *Prompt {
	return &Prompt{Name: name, Center: center, Radius: radius}
}

func (p *Prompt) InRange(_ Actor, actorPos mgl64.Vec3) bool {
	d := actorPos.Sub(p.Center)
	return d.Dot(d) <= p.Radius*p.Radius
}

func (p *Prompt) Active() bool {
	return !p.Disabled
}

func (p *Prompt) Register(actor Actor) {
	if p.registered == nil {
		p.registered = make(map[Actor]bool)
	}
	p.registered[actor] = true
}

func (p *Prompt) Unregister(actor Actor) {
	delete(p.registered, actor)
}

func (p *Prompt) Registered(actor Actor) bool {
	return p.registered[actor]
}

func (p *Prompt) Interact(actor Actor) {
	p.interactions++
	if p.OnInteract != nil {
		p.OnInteract(actor)
	}
}

func (p *Prompt) Interactions() int {
	return p.interactions
}

// LandingRequest is added by the host when the droplet touches the ground
// after falling.
type LandingRequest struct {
	Hit Hit
}

var LandingRequestComponent = NewComponent[LandingRequest]()

// InteractRequest asks for a manual interaction this tick.
type InteractRequest struct{}

var InteractRequestComponent = NewComponent[InteractRequest]()

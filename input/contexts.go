// Package input maps keys to droplet actions through named input contexts.
// The active context follows the material state of the droplet.
package input

import (
	_ "embed"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/droplet/ecs/component"
	"gopkg.in/ini.v1"
)

//go:embed contexts.ini
var defaultContexts []byte

const DefaultContext = "default"

var ErrUnknownContext = errors.New("input: unknown context")

type Action string

const (
	ActionMoveLeft  Action = "move_left"
	ActionMoveRight Action = "move_right"
	ActionMoveUp    Action = "move_up"
	ActionMoveDown  Action = "move_down"
	ActionJump      Action = "jump"
	ActionInteract  Action = "interact"
	ActionStateNext Action = "state_next"
	ActionStatePrev Action = "state_prev"
)

// Context binds actions to key names.
type Context struct {
	Name     string
	Bindings map[Action][]string
}

func (c *Context) Keys(a Action) []string {
	if c == nil {
		return nil
	}
	return c.Bindings[a]
}

// Contexts holds every loaded context and the active one.
type Contexts struct {
	contexts map[string]*Context
	active   string
}

// Load parses the embedded contexts followed by sources; later sources
// override keys of earlier ones.
func Load(sources ...any) (*Contexts, error) {
	options := ini.LoadOptions{
		SkipUnrecognizableLines: true,
		IgnoreInlineComment:     false,
		AllowShadows:            false,
	}
	file, err := ini.LoadSources(options, defaultContexts, sources...)
	if err != nil {
		return nil, fmt.Errorf("input: load contexts: %w", err)
	}

	c := &Contexts{contexts: make(map[string]*Context), active: DefaultContext}
	for _, section := range file.Sections() {
		name := section.Name()
		if name == ini.DefaultSection {
			continue
		}
		ctx := &Context{Name: name, Bindings: make(map[Action][]string)}
		for _, key := range section.Keys() {
			var names []string
			for _, k := range key.Strings(",") {
				if k != "" {
					names = append(names, k)
				}
			}
			ctx.Bindings[Action(strings.ToLower(key.Name()))] = names
		}
		c.contexts[name] = ctx
	}
	if _, ok := c.contexts[DefaultContext]; !ok {
		return nil, fmt.Errorf("input: context %q: %w", DefaultContext, ErrUnknownContext)
	}
	return c, nil
}

// SetActiveContext switches the active context. An unknown id falls back to
// the default context.
func (c *Contexts) SetActiveContext(id string) {
	if c == nil {
		return
	}
	if _, ok := c.contexts[id]; !ok {
		log.Printf("input: context %q: %v, using %q", id, ErrUnknownContext, DefaultContext)
		id = DefaultContext
	}
	c.active = id
}

func (c *Contexts) ActiveName() string {
	if c == nil {
		return ""
	}
	return c.active
}

func (c *Contexts) Active() *Context {
	if c == nil {
		return nil
	}
	return c.contexts[c.active]
}

func (c *Contexts) Context(id string) (*Context, bool) {
	if c == nil {
		return nil, false
	}
	ctx, ok := c.contexts[id]
	return ctx, ok
}

// KeyState reports whether a named key is held or was pressed this frame.
type KeyState interface {
	Held(key string) bool
	JustPressed(key string) bool
}

func anyKey(keys []string, fn func(string) bool) bool {
	for _, k := range keys {
		if fn(k) {
			return true
		}
	}
	return false
}

// Read builds the droplet input of this frame from the active context.
// Movement and jump follow held keys; state changes and interactions fire on
// the press.
func (c *Contexts) Read(keys KeyState, facing mgl64.Vec3) component.Input {
	in := component.Input{Facing: facing}
	ctx := c.Active()
	if ctx == nil || keys == nil {
		return in
	}

	held := func(a Action) bool { return anyKey(ctx.Keys(a), keys.Held) }
	pressed := func(a Action) bool { return anyKey(ctx.Keys(a), keys.JustPressed) }

	if held(ActionMoveLeft) {
		in.Move.X--
	}
	if held(ActionMoveRight) {
		in.Move.X++
	}
	if held(ActionMoveUp) {
		in.Move.Y++
	}
	if held(ActionMoveDown) {
		in.Move.Y--
	}
	in.Jump = held(ActionJump)
	in.Interact = pressed(ActionInteract)

	switch {
	case pressed(ActionStateNext):
		in.ChangeState = 1
	case pressed(ActionStatePrev):
		in.ChangeState = -1
	}
	return in
}

package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/droplet/ecs"
	"github.com/milk9111/droplet/ecs/component"
	"github.com/milk9111/droplet/ecs/system"
	"github.com/milk9111/droplet/input"
	"github.com/milk9111/droplet/levels"
	"github.com/milk9111/droplet/prefabs"
	"golang.org/x/image/colornames"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	maxEventLines = 6
)

// sideFacing looks into the course so move right maps to +X.
var sideFacing = mgl64.Vec3{0, 1, 0}

type Game struct {
	cfg    Config
	frames int

	world     *ecs.World
	scheduler *ecs.Scheduler
	droplet   *system.DropletSystem
	body      *system.BodySystem

	level    *levels.Level
	contexts *input.Contexts
	keys     *ebitenKeys
	watcher  *prefabs.Watcher

	player  ecs.Entity
	prefab  *prefabs.DropletPrefab
	sprite  *dropletSprite
	prompts []*component.Prompt

	snapshot string
	events   []string
	camera   mgl64.Vec3
}

func NewGame(cfg Config) (*Game, error) {
	lvl, err := levels.LoadLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var contexts *input.Contexts
	if cfg.Contexts != "" {
		contexts, err = input.Load(cfg.Contexts)
	} else {
		contexts, err = input.Load()
	}
	if err != nil {
		return nil, err
	}

	prefab, err := loadPrefab(cfg, lvl)
	if err != nil {
		return nil, err
	}

	world := ecs.NewWorld()
	world.SetPhysicsWorld(lvl.PhysicsWorld())

	g := &Game{
		cfg:      cfg,
		world:    world,
		level:    lvl,
		contexts: contexts,
		keys:     newEbitenKeys(),
		prefab:   prefab,
		sprite:   newDropletSprite(prefab.Appearance, prefab.Colors),
		camera:   prefab.Transform.Position,
	}

	observers := &system.StateObservers{}
	observers.Subscribe(func(e ecs.Entity, state component.MaterialState) {
		if g.cfg.Debug {
			log.Printf("droplet: %v is now %v", e, state)
		}
	})

	g.droplet = system.NewDropletSystem(system.DropletConfig{
		Inputs:    contexts,
		Visuals:   g.sprite,
		Observers: observers,
	})
	g.body = system.NewBodySystem(nil)
	g.body.MinX, g.body.MaxX = lvl.Bounds()
	g.scheduler = ecs.NewScheduler(g.droplet, g.body)

	g.player, err = prefabs.SpawnDroplet(world, prefab)
	if err != nil {
		return nil, err
	}
	if _, g.prompts, err = lvl.SpawnPrompts(world); err != nil {
		return nil, err
	}
	for _, p := range g.prompts {
		name := p.Name
		p.OnInteract = func(actor component.Actor) {
			g.pushEvent(fmt.Sprintf("%s: hello droplet", name))
		}
	}

	if cfg.Watch {
		w, err := prefabs.NewWatcher("prefabs", "prefabs/scripts")
		if err != nil {
			log.Printf("prefabs: watch disabled: %v", err)
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

// loadPrefab loads the droplet prefab, places it at the level spawn and
// applies the configuration overrides.
func loadPrefab(cfg Config, lvl *levels.Level) (*prefabs.DropletPrefab, error) {
	prefab, err := prefabs.LoadDroplet(cfg.Prefab)
	if err != nil {
		return nil, err
	}
	prefab.Transform.Position = lvl.Spawn.Vec3()
	if cfg.InfiniteStamina {
		prefab.Stamina.Infinite = true
	}
	if cfg.NoTimeLimit {
		prefab.NoTimeLimit = true
	}
	if cfg.Debug {
		prefab.DebugSpeed = true
		prefab.DebugInteractions = true
	}
	return prefab, nil
}

func (g *Game) Close() {
	if g == nil || g.watcher == nil {
		return
	}
	if err := g.watcher.Close(); err != nil {
		log.Printf("prefabs: close watcher: %v", err)
	}
}

func (g *Game) Update() error {
	g.frames++

	g.reload()
	g.handleDebugKeys()

	if in, ok := ecs.Get(g.world, g.player, component.InputComponent.Kind()); ok {
		*in = g.contexts.Read(g.keys, sideFacing)
	}
	if t, ok := ecs.Get(g.world, g.player, component.TransformComponent.Kind()); ok {
		if err := g.droplet.SetUnderOil(g.world, g.player, g.level.OilAt(t.Position.X())); err != nil {
			log.Printf("droplet: set oil: %v", err)
		}
	}

	g.scheduler.Update(g.world)

	for _, ev := range g.world.Events().Drain() {
		g.pushEvent(fmt.Sprintf("%s %v", ev.Type, ev.Data))
	}

	if t, ok := ecs.Get(g.world, g.player, component.TransformComponent.Kind()); ok {
		g.camera = g.camera.Add(t.Position.Sub(g.camera).Mul(0.1))
	}
	return nil
}

func (g *Game) pushEvent(line string) {
	if g.cfg.Debug {
		log.Printf("droplet: %s", line)
	}
	g.events = append(g.events, line)
	if len(g.events) > maxEventLines {
		g.events = g.events[len(g.events)-maxEventLines:]
	}
}

// reload rebuilds the tuning of the live droplet when a prefab or one of its
// curve scripts changes on disk.
func (g *Game) reload() {
	if g.watcher == nil {
		return
	}
	changes := g.watcher.Poll()
	if len(changes) == 0 {
		return
	}

	prefab, err := loadPrefab(g.cfg, g.level)
	if err != nil {
		log.Printf("prefabs: reload %s: %v", changes[0].Path, err)
		return
	}
	if err := g.droplet.SetProfile(g.world, g.player, prefab.Profile); err != nil {
		log.Printf("prefabs: reload profile: %v", err)
		return
	}
	if d, ok := ecs.Get(g.world, g.player, component.DropletComponent.Kind()); ok {
		d.Tuning = prefab.Tuning
	}
	if p, ok := ecs.Get(g.world, g.player, component.StaminaProfilesComponent.Kind()); ok {
		*p = prefab.StaminaProfiles
	}
	if a, ok := ecs.Get(g.world, g.player, component.AppearanceComponent.Kind()); ok {
		*a = prefab.Appearance
	}
	g.sprite.setPalette(prefab.Appearance, prefab.Colors)
	g.prefab = prefab
	log.Printf("prefabs: reloaded %s from %v", g.cfg.Prefab, prefabs.Origin(g.cfg.Prefab))
}

func (g *Game) handleDebugKeys() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyF1):
		g.cfg.Debug = !g.cfg.Debug
	case inpututil.IsKeyJustPressed(ebiten.KeyF5):
		data, err := system.Snapshot(g.world, g.player)
		if err != nil {
			log.Printf("droplet: snapshot: %v", err)
			return
		}
		g.snapshot = data
		g.pushEvent("snapshot saved")
	case inpututil.IsKeyJustPressed(ebiten.KeyF9):
		if g.snapshot == "" {
			return
		}
		if err := system.RestoreSnapshot(g.world, g.player, g.snapshot); err != nil {
			log.Printf("droplet: restore: %v", err)
			return
		}
		g.pushEvent("snapshot restored")
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.respawn()
	}
}

func (g *Game) respawn() {
	t, ok := ecs.Get(g.world, g.player, component.TransformComponent.Kind())
	if !ok {
		return
	}
	m, ok := ecs.Get(g.world, g.player, component.MovementComponent.Kind())
	if !ok {
		return
	}
	t.Position = g.level.Spawn.Vec3()
	m.Velocity = mgl64.Vec3{}
	if m.Mode != component.MovementFlying {
		m.Mode = component.MovementFalling
	}
}

// toScreen maps a course point to screen space around the camera.
func (g *Game) toScreen(p mgl64.Vec3) (float32, float32) {
	x := p.X() - g.camera.X() + baseWidth/2
	y := baseHeight/2 - (p.Z() - g.camera.Z())
	return float32(x), float32(y)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)

	for _, zone := range g.level.Oil {
		x0, _ := g.toScreen(mgl64.Vec3{zone.MinX, 0, 0})
		x1, _ := g.toScreen(mgl64.Vec3{zone.MaxX, 0, 0})
		vector.FillRect(screen, x0, 0, x1-x0, baseHeight, colornames.Darkolivegreen, false)
	}

	for _, seg := range g.level.Terrain {
		x0, y0 := g.toScreen(seg.From.Vec3())
		x1, y1 := g.toScreen(seg.To.Vec3())
		vector.StrokeLine(screen, x0, y0, x1, y1, 3, colornames.Sandybrown, true)
	}

	g.drawPrompts(screen)

	t, ok := ecs.Get(g.world, g.player, component.TransformComponent.Kind())
	if !ok {
		return
	}
	c, _ := ecs.Get(g.world, g.player, component.CapsuleComponent.Kind())
	x, y := g.toScreen(t.Position)
	if c != nil {
		g.sprite.Draw(screen, x, y, *c)
	}
	if g.cfg.Debug {
		g.drawProbes(screen)
	}
	g.drawHUD(screen)
}

func (g *Game) drawPrompts(screen *ebiten.Image) {
	focus, focused := g.droplet.Interaction.Focus(g.player)
	for _, e := range ecs.Entities(g.world) {
		in, ok := ecs.Get(g.world, e, component.InteractableComponent.Kind())
		if !ok {
			continue
		}
		p, ok := in.Target.(*component.Prompt)
		if !ok {
			continue
		}
		x, y := g.toScreen(p.Center)
		clr := colornames.Gold
		switch {
		case p.Disabled:
			clr = colornames.Gray
		case focused && focus == e:
			clr = colornames.Lime
		}
		vector.FillCircle(screen, x, y, 8, clr, true)
		vector.StrokeCircle(screen, x, y, float32(p.Radius), 1, clr, true)
		ebitenutil.DebugPrintAt(screen, p.Name, int(x)+10, int(y)-20)
	}
}

func (g *Game) drawProbes(screen *ebiten.Image) {
	ground, ok := ecs.Get(g.world, g.player, component.GroundComponent.Kind())
	if !ok {
		return
	}
	for _, probe := range ground.Probes {
		if !probe.OK {
			continue
		}
		x0, y0 := g.toScreen(probe.Origin)
		x1, y1 := g.toScreen(probe.Hit.Point)
		vector.StrokeLine(screen, x0, y0, x1, y1, 1, colornames.Red, false)
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	var b strings.Builder
	fmt.Fprintf(&b, "FPS: %.2f  context: %s\n", ebiten.ActualFPS(), g.contexts.ActiveName())

	if ctrl, ok := ecs.Get(g.world, g.player, component.StateControllerComponent.Kind()); ok {
		fmt.Fprintf(&b, "state: %v (was %v)  return in %.1fs  cooldown %.1fs\n",
			ctrl.Current, ctrl.Previous, ctrl.ReturnTimer, ctrl.CooldownTimer)
	}
	if m, ok := ecs.Get(g.world, g.player, component.MovementComponent.Kind()); ok {
		fmt.Fprintf(&b, "mode: %v  speed: %.0f/%.0f\n", m.Mode, m.Velocity.Len(), m.MaxWalkSpeed)
	}
	if s, ok := ecs.Get(g.world, g.player, component.StaminaComponent.Kind()); ok && s.ShowDebugBar {
		fmt.Fprintf(&b, "stamina: %.1f/%.0f\n", s.Current(), s.Max())
	}
	if ground, ok := ecs.Get(g.world, g.player, component.GroundComponent.Kind()); ok {
		fmt.Fprintf(&b, "slope: %.1f  ascending: %v\n", ground.SlopeAngle, ground.Ascending)
	}
	if d, ok := ecs.Get(g.world, g.player, component.DropletComponent.Kind()); ok {
		fmt.Fprintf(&b, "markers: %v  oil: %v  splash: %v  slide: %v\n",
			d.Markers.Kinds(), d.UnderOil, d.Splash.Active, d.SlideDash.Active)
	}
	b.WriteString("F1 debug  F5 save  F9 restore  R respawn\n")
	for _, line := range g.events {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	ebitenutil.DebugPrint(screen, b.String())
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

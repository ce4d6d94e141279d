package system

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/droplet/ecs"
	"github.com/milk9111/droplet/ecs/component"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var ErrInvalidSnapshot = errors.New("droplet: invalid snapshot")

type snapshotField struct {
	path  string
	value any
}

// Snapshot serializes the controller state of e to JSON: material states,
// timers, markers, stamina and the running overlays.
func Snapshot(w *ecs.World, e ecs.Entity) (string, error) {
	ctrl, ok := ecs.Get(w, e, component.StateControllerComponent.Kind())
	if !ok {
		return "", ErrMissingDependency
	}
	d, ok := ecs.Get(w, e, component.DropletComponent.Kind())
	if !ok {
		return "", ErrMissingDependency
	}

	markers := make([]string, 0, d.Markers.Len())
	for _, k := range d.Markers.Kinds() {
		markers = append(markers, k.String())
	}

	fields := []snapshotField{
		{"state", ctrl.Current.String()},
		{"previous", ctrl.Previous.String()},
		{"timers.return", ctrl.ReturnTimer},
		{"timers.cooldown", ctrl.CooldownTimer},
		{"timers.duration", d.CurrentDuration},
		{"timers.stateCooldown", d.CurrentCooldown},
		{"markers", markers},
		{"flags.canSplash", d.CanSplash},
		{"flags.underOil", d.UnderOil},
		{"fallingSpeed", d.CurrentFallingSpeed},
		{"overlays.slideDashBreak.active", d.SlideDashBreak.Active},
		{"overlays.slideDashBreak.elapsed", d.SlideDashBreak.Elapsed},
		{"overlays.slideDashBreak.duration", d.SlideDashBreak.Duration},
	}
	for _, k := range d.Markers.Kinds() {
		fields = append(fields, snapshotField{"markerTimers." + k.String(), d.Markers.Elapsed(k)})
	}
	fields = append(fields, overlayFields("overlays.splash", d.Splash)...)
	fields = append(fields, overlayFields("overlays.slideDash", d.SlideDash)...)

	if st, ok := ecs.Get(w, e, component.StaminaComponent.Kind()); ok {
		fields = append(fields,
			snapshotField{"stamina.current", st.Current()},
			snapshotField{"stamina.max", st.Max()},
			snapshotField{"stamina.infinite", st.Infinite},
		)
	}
	if m, ok := ecs.Get(w, e, component.MovementComponent.Kind()); ok {
		fields = append(fields,
			snapshotField{"movement.maxWalkSpeed", m.MaxWalkSpeed},
			snapshotField{"movement.velocity", vecField(m.Velocity)},
			snapshotField{"movement.mode", m.Mode.String()},
		)
	}

	out := "{}"
	for _, f := range fields {
		var err error
		out, err = sjson.Set(out, f.path, f.value)
		if err != nil {
			return "", fmt.Errorf("droplet: snapshot %s: %w", f.path, err)
		}
	}
	return out, nil
}

func overlayFields(prefix string, o component.Overlay) []snapshotField {
	return []snapshotField{
		{prefix + ".active", o.Active},
		{prefix + ".elapsed", o.Elapsed},
		{prefix + ".duration", o.Duration},
		{prefix + ".startSpeed", o.StartSpeed},
		{prefix + ".targetSpeed", o.TargetSpeed},
		{prefix + ".startVelocity", vecField(o.StartVelocity)},
		{prefix + ".direction", vecField(o.Direction)},
	}
}

func vecField(v mgl64.Vec3) []float64 {
	return []float64{v[0], v[1], v[2]}
}

func readVec(r gjson.Result) (mgl64.Vec3, bool) {
	a := r.Array()
	if len(a) != 3 {
		return mgl64.Vec3{}, false
	}
	return mgl64.Vec3{a[0].Float(), a[1].Float(), a[2].Float()}, true
}

func readOverlay(r gjson.Result) component.Overlay {
	o := component.Overlay{
		Active:      r.Get("active").Bool(),
		Elapsed:     r.Get("elapsed").Float(),
		Duration:    r.Get("duration").Float(),
		StartSpeed:  r.Get("startSpeed").Float(),
		TargetSpeed: r.Get("targetSpeed").Float(),
	}
	o.StartVelocity, _ = readVec(r.Get("startVelocity"))
	o.Direction, _ = readVec(r.Get("direction"))
	return o
}

// RestoreSnapshot loads controller state written by Snapshot into e. The
// whole snapshot is validated before anything is written. The movement
// strategy and stamina profile of the restored state are bound again, but
// no transition runs, so no entry effect fires.
func RestoreSnapshot(w *ecs.World, e ecs.Entity, data string) error {
	if !gjson.Valid(data) {
		return ErrInvalidSnapshot
	}
	ctrl, ok := ecs.Get(w, e, component.StateControllerComponent.Kind())
	if !ok {
		return ErrMissingDependency
	}
	d, ok := ecs.Get(w, e, component.DropletComponent.Kind())
	if !ok {
		return ErrMissingDependency
	}

	snap := gjson.Parse(data)
	state, err := component.ParseMaterialState(snap.Get("state").String())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	previous, err := component.ParseMaterialState(snap.Get("previous").String())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	var markers component.MarkerSet
	for _, v := range snap.Get("markers").Array() {
		k, ok := component.ParseMarkerKind(v.String())
		if !ok {
			return fmt.Errorf("%w: marker %q", ErrInvalidSnapshot, v.String())
		}
		markers.Add(k)
		markers.Advance(k, snap.Get("markerTimers."+k.String()).Float())
	}

	m, hasMovement := ecs.Get(w, e, component.MovementComponent.Kind())
	savedMode := component.MovementNone
	if hasMovement {
		savedMode = m.Mode
	}
	if v := snap.Get("movement.mode"); v.Exists() {
		if savedMode, err = component.ParseMovementMode(v.String()); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
		}
	}

	ctrl.Current = state
	ctrl.Previous = previous
	ctrl.ReturnTimer = snap.Get("timers.return").Float()
	ctrl.CooldownTimer = snap.Get("timers.cooldown").Float()
	d.CurrentDuration = snap.Get("timers.duration").Float()
	d.CurrentCooldown = snap.Get("timers.stateCooldown").Float()
	d.CanSplash = snap.Get("flags.canSplash").Bool()
	d.UnderOil = snap.Get("flags.underOil").Bool()
	d.CurrentFallingSpeed = snap.Get("fallingSpeed").Float()
	d.Markers = markers
	d.Splash = readOverlay(snap.Get("overlays.splash"))
	d.SlideDash = readOverlay(snap.Get("overlays.slideDash"))
	d.SlideDashBreak = component.Window{
		Active:   snap.Get("overlays.slideDashBreak.active").Bool(),
		Elapsed:  snap.Get("overlays.slideDashBreak.elapsed").Float(),
		Duration: snap.Get("overlays.slideDashBreak.duration").Float(),
	}

	strategy, bound := strategyFor(state)
	d.Strategy = component.MaterialNone
	if bound {
		d.Strategy = state
	}
	if hasMovement {
		profile, _ := ecs.Get(w, e, component.SpeedProfileComponent.Kind())
		if bound {
			m.Mode = strategy.Mode()
			if m.Mode == component.MovementWalking && savedMode != component.MovementWalking {
				m.Mode = component.MovementFalling
			}
			strategy.ApplySpecificities(m, profile)
			if profile != nil {
				loadStateLocomotion(m, profile, state)
			}
		} else {
			m.DefaultLandMode = component.MovementNone
		}
		if v := snap.Get("movement.maxWalkSpeed"); v.Exists() {
			m.MaxWalkSpeed = v.Float()
		}
		if v, ok := readVec(snap.Get("movement.velocity")); ok {
			m.Velocity = v
		}
	}

	if st, ok := ecs.Get(w, e, component.StaminaComponent.Kind()); ok {
		if profiles, ok := ecs.Get(w, e, component.StaminaProfilesComponent.Kind()); ok {
			if p, ok := profiles.For(state); ok {
				*st = st.Swap(p)
			}
		}
		if cur := snap.Get("stamina.current"); cur.Exists() {
			st.SetCurrent(cur.Float())
		}
		st.Infinite = snap.Get("stamina.infinite").Bool()
	}
	return nil
}

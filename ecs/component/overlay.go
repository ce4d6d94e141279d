package component

import "github.com/go-gl/mathgl/mgl64"

// Overlay is a timed velocity override. While active it drives the
// character velocity instead of the regular speed modulation.
type Overlay struct {
	Active   bool
	Elapsed  float64
	Duration float64

	StartSpeed    float64
	TargetSpeed   float64
	StartVelocity mgl64.Vec3
	Direction     mgl64.Vec3
}

// Progress returns Elapsed/Duration, or 1 for an overlay without duration.
func (o *Overlay) Progress() float64 {
	if o == nil || o.Duration <= 0 {
		return 1
	}
	return o.Elapsed / o.Duration
}

// Stop deactivates the overlay and rewinds it so it can be triggered again.
func (o *Overlay) Stop() {
	if o == nil {
		return
	}
	o.Active = false
	o.Elapsed = 0
}

// Window is a plain timed flag.
type Window struct {
	Active   bool
	Elapsed  float64
	Duration float64
}

func (w *Window) Arm(duration float64) {
	if w == nil {
		return
	}
	w.Active = true
	w.Elapsed = 0
	w.Duration = duration
}

// Advance moves the window forward by dt and reports whether it closed on
// this call.
func (w *Window) Advance(dt float64) bool {
	if w == nil || !w.Active {
		return false
	}
	w.Elapsed += dt
	if w.Elapsed >= w.Duration {
		w.Active = false
		w.Elapsed = 0
		return true
	}
	return false
}

func (w *Window) Cancel() {
	if w == nil {
		return
	}
	w.Active = false
	w.Elapsed = 0
}

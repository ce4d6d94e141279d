package component

// StaminaProfile is the per-state tuning of the stamina pool.
type StaminaProfile struct {
	Max float64
	// JumpCost is the share of Max a grounded jump consumes.
	JumpCost float64
	// RegenPerSecond applies while nothing drains the pool.
	RegenPerSecond float64
	// DrainPerSecond applies every tick regardless of movement.
	DrainPerSecond float64
	// AscendDrainPerSecond applies while climbing a slope.
	AscendDrainPerSecond float64
}

// Stamina is the droplet's stamina pool. Each material state owns its own
// profile; on a transition the pool is rebuilt from the new profile with
// the current value and debug flags carried over.
type Stamina struct {
	Profile StaminaProfile
	current float64

	Infinite      bool
	DebugMessages bool
	ShowDebugBar  bool
}

var StaminaComponent = NewComponent[Stamina]()

// NewStamina returns a full pool for profile.
func NewStamina(profile StaminaProfile) Stamina {
	return Stamina{Profile: profile, current: profile.Max}
}

func (s *Stamina) Current() float64 {
	if s == nil {
		return 0
	}
	return s.current
}

func (s *Stamina) Max() float64 {
	if s == nil {
		return 0
	}
	return s.Profile.Max
}

func (s *Stamina) JumpCost() float64 {
	if s == nil {
		return 0
	}
	return s.Profile.JumpCost
}

// SetCurrent clamps v to [0, Max].
func (s *Stamina) SetCurrent(v float64) {
	if s == nil {
		return
	}
	if v < 0 {
		v = 0
	}
	if v > s.Profile.Max {
		v = s.Profile.Max
	}
	s.current = v
}

// CanJump reports whether the pool covers a jump.
func (s *Stamina) CanJump() bool {
	if s == nil {
		return false
	}
	return s.current >= s.Profile.JumpCost*s.Profile.Max
}

// DrainJump removes the cost of one jump.
func (s *Stamina) DrainJump() {
	if s == nil || s.Infinite {
		return
	}
	s.SetCurrent(s.current - s.Profile.JumpCost*s.Profile.Max)
}

func (s *Stamina) Empty() bool {
	return s == nil || s.current <= 0
}

// Tick applies drain and regeneration for dt seconds.
func (s *Stamina) Tick(dt float64, ascending bool) {
	if s == nil || s.Infinite || dt <= 0 {
		return
	}
	drain := s.Profile.DrainPerSecond
	if ascending {
		drain += s.Profile.AscendDrainPerSecond
	}
	if drain > 0 {
		s.SetCurrent(s.current - drain*dt)
		return
	}
	s.SetCurrent(s.current + s.Profile.RegenPerSecond*dt)
}

// Swap returns a pool built from profile holding the same current value and
// debug flags as s. The value is carried as is, even above the new Max, so a
// transition never gains or loses stamina.
func (s Stamina) Swap(profile StaminaProfile) Stamina {
	return Stamina{
		Profile:       profile,
		current:       s.current,
		Infinite:      s.Infinite,
		DebugMessages: s.DebugMessages,
		ShowDebugBar:  s.ShowDebugBar,
	}
}

// StaminaProfiles holds one profile per playable state.
type StaminaProfiles struct {
	Liquid  StaminaProfile
	Solid   StaminaProfile
	Gazeous StaminaProfile
}

func (p *StaminaProfiles) For(s MaterialState) (StaminaProfile, bool) {
	if p == nil {
		return StaminaProfile{}, false
	}
	switch s {
	case MaterialLiquid:
		return p.Liquid, true
	case MaterialSolid:
		return p.Solid, true
	case MaterialGazeous:
		return p.Gazeous, true
	}
	return StaminaProfile{}, false
}

var StaminaProfilesComponent = NewComponent[StaminaProfiles]()

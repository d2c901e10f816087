package engine

import (
	"math/rand"

	"github.com/lixenwraith/multicube/core"
	"github.com/lixenwraith/multicube/input"
	"github.com/lixenwraith/multicube/render"
	"github.com/lixenwraith/multicube/vmath"
)

// Factors holds the degrees applied per rotation key for each speed tier
type Factors struct {
	Base     float64
	Half     float64
	Double   float64
	Combined float64
}

// NewFactors derives the tiers from the base speed
// Shift+Alt rotates by the auto-rotation ceiling
func NewFactors(base, autoSpeed float64) Factors {
	return Factors{
		Base:     base,
		Half:     base / 2,
		Double:   base * 2,
		Combined: autoSpeed,
	}
}

// For returns the factor of tier s
func (f Factors) For(s input.Speed) float64 {
	switch s {
	case input.SpeedHalf:
		return f.Half
	case input.SpeedDouble:
		return f.Double
	case input.SpeedCombined:
		return f.Combined
	}
	return f.Base
}

// Session pairs one virtual screen with one cube and its rotation state
type Session struct {
	screen    *core.VirtualScreen
	cube      *render.Cube
	rot       vmath.Rotation
	manual    bool
	autoSpeed float64
	stats     render.RenderStats
}

// NewSession creates a session in manual mode at zero rotation
func NewSession(screen *core.VirtualScreen, cube *render.Cube, autoSpeed float64) *Session {
	return &Session{
		screen:    screen,
		cube:      cube,
		manual:    true,
		autoSpeed: autoSpeed,
	}
}

func (s *Session) Screen() *core.VirtualScreen { return s.screen }
func (s *Session) Rotation() vmath.Rotation    { return s.rot }
func (s *Session) Manual() bool                { return s.manual }

// Stats returns the counters of the last Project call
func (s *Session) Stats() render.RenderStats { return s.stats }

// SetRotation replaces the rotation, normalized
func (s *Session) SetRotation(r vmath.Rotation) { s.rot = r.Normalize() }

// Apply updates rotation state from a focused-session intent
// Returns true when the intent was consumed
func (s *Session) Apply(in input.Intent, f Factors) bool {
	switch in.Type {
	case input.IntentRotate:
		if !s.manual {
			return false
		}
		s.rot = s.rot.Nudge(in.Axis, in.Sign*f.For(in.Speed))
		return true
	case input.IntentReset:
		s.rot = vmath.Rotation{}
		s.manual = true
		return true
	case input.IntentToggleAuto:
		s.manual = !s.manual
		return true
	}
	return false
}

// AutoRotate advances every axis by an independent draw in [0, autoSpeed)
// No-op in manual mode
func (s *Session) AutoRotate(rng *rand.Rand) {
	if s.manual {
		return
	}
	s.rot = s.rot.Add(vmath.Rotation{
		X: rng.Float64() * s.autoSpeed,
		Y: rng.Float64() * s.autoSpeed,
		Z: rng.Float64() * s.autoSpeed,
	})
}

// Project clears the screen and renders the cube at the current rotation
func (s *Session) Project() error {
	s.screen.Clear()
	stats, err := s.cube.Render(s.rot, s.screen)
	s.stats = stats
	return err
}

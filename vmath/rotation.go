package vmath

import "math"

// Rotation holds per-axis angles in degrees, kept in [0, 360) by Normalize
type Rotation struct {
	X, Y, Z float64
}

// NormalizeAngle wraps deg into [0, 360)
func NormalizeAngle(deg float64) float64 {
	a := math.Mod(deg, 360)
	if a < 0 {
		a += 360
	}
	// -0.0 and rounding at the upper bound both land here
	if a >= 360 || a == 0 {
		return 0
	}
	return a
}

// Normalize returns r with every axis wrapped into [0, 360)
func (r Rotation) Normalize() Rotation {
	return Rotation{NormalizeAngle(r.X), NormalizeAngle(r.Y), NormalizeAngle(r.Z)}
}

// Add returns the normalized sum of r and d
func (r Rotation) Add(d Rotation) Rotation {
	return Rotation{r.X + d.X, r.Y + d.Y, r.Z + d.Z}.Normalize()
}

// Apply rotates v by r
func (r Rotation) Apply(v Vector3) Vector3 {
	return v.Rotate(r.X, r.Y, r.Z)
}

// Axis selects one of the three rotation axes
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	}
	return "?"
}

// Nudge returns r with delta added to a single axis, normalized
func (r Rotation) Nudge(axis Axis, delta float64) Rotation {
	switch axis {
	case AxisX:
		r.X += delta
	case AxisY:
		r.Y += delta
	case AxisZ:
		r.Z += delta
	}
	return r.Normalize()
}

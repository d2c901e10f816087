package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the tolerance used for length classification and singular projections
const Epsilon = 1e-9

// Vector3 is a float64 3D point or direction
// Value type; every operation returns a new vector
type Vector3 struct {
	X, Y, Z float64
}

// V3 builds a Vector3 from components
func V3(x, y, z float64) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

// Length returns the Euclidean norm
func (v Vector3) Length() float64 {
	return v.mgl().Len()
}

// ApproxEqual reports whether every component differs by at most tol
func (v Vector3) ApproxEqual(o Vector3, tol float64) bool {
	return math.Abs(v.X-o.X) <= tol && math.Abs(v.Y-o.Y) <= tol && math.Abs(v.Z-o.Z) <= tol
}

// RotateX rotates about the X axis by degrees
func (v Vector3) RotateX(deg float64) Vector3 {
	if deg == 0 {
		return v
	}
	return fromMgl(mgl64.Rotate3DX(mgl64.DegToRad(deg)).Mul3x1(v.mgl()))
}

// RotateY rotates about the Y axis by degrees
func (v Vector3) RotateY(deg float64) Vector3 {
	if deg == 0 {
		return v
	}
	return fromMgl(mgl64.Rotate3DY(mgl64.DegToRad(deg)).Mul3x1(v.mgl()))
}

// RotateZ rotates about the Z axis by degrees
func (v Vector3) RotateZ(deg float64) Vector3 {
	if deg == 0 {
		return v
	}
	return fromMgl(mgl64.Rotate3DZ(mgl64.DegToRad(deg)).Mul3x1(v.mgl()))
}

// Rotate applies X, then Y, then Z
// Each step consumes the full result of the previous one
func (v Vector3) Rotate(ax, ay, az float64) Vector3 {
	return v.RotateX(ax).RotateY(ay).RotateZ(az)
}

// Project maps the point onto the view plane: factor = size / (fov + z)
// Result is (x*factor, -y*factor, 1); ok is false when fov + z is near zero
func (v Vector3) Project(size, fov float64) (Vector3, bool) {
	d := fov + v.Z
	if math.Abs(d) < Epsilon {
		return Vector3{}, false
	}
	factor := size / d
	return Vector3{v.X * factor, -v.Y * factor, 1}, true
}

func (v Vector3) mgl() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func fromMgl(m mgl64.Vec3) Vector3 {
	return Vector3{m[0], m[1], m[2]}
}

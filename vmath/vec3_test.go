package vmath

import (
	"math"
	"testing"
)

const tol = 1e-9

var samplePoints = []Vector3{
	{0, 0, 0},
	{1, 0, 0},
	{0, 1, 0},
	{0, 0, 1},
	{1, -1, 1},
	{-0.25, 3.5, -2},
	{123.4, -56.7, 8.9},
}

var sampleAngles = []float64{0, 1, 30, 45, 90, 179.5, 180, 270, 359, -42, 725}

func TestRotateInverse(t *testing.T) {
	rotations := []struct {
		name string
		fn   func(Vector3, float64) Vector3
	}{
		{"X", Vector3.RotateX},
		{"Y", Vector3.RotateY},
		{"Z", Vector3.RotateZ},
	}

	for _, r := range rotations {
		for _, p := range samplePoints {
			for _, a := range sampleAngles {
				got := r.fn(r.fn(p, a), -a)
				if !got.ApproxEqual(p, 1e-7) {
					t.Errorf("Rotate%s(%v, %v) then %v: expected %v, got %v", r.name, p, a, -a, p, got)
				}
			}
		}
	}
}

func TestRotateZeroIsIdentity(t *testing.T) {
	for _, p := range samplePoints {
		if got := p.Rotate(0, 0, 0); got != p {
			t.Errorf("Expected Rotate(0,0,0) of %v to be identity, got %v", p, got)
		}
		if got := p.RotateX(0); got != p {
			t.Errorf("Expected RotateX(0) identity, got %v", got)
		}
	}
}

func TestRotateQuarterTurns(t *testing.T) {
	tests := []struct {
		name string
		got  Vector3
		want Vector3
	}{
		{"X moves Y to Z", V3(0, 1, 0).RotateX(90), V3(0, 0, 1)},
		{"Y moves Z to X", V3(0, 0, 1).RotateY(90), V3(1, 0, 0)},
		{"Z moves X to Y", V3(1, 0, 0).RotateZ(90), V3(0, 1, 0)},
	}
	for _, tt := range tests {
		if !tt.got.ApproxEqual(tt.want, tol) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, tt.got)
		}
	}
}

func TestRotateComposesAxesInOrder(t *testing.T) {
	p := V3(0.3, -0.7, 0.9)
	want := p.RotateX(30).RotateY(60).RotateZ(-15)
	got := p.Rotate(30, 60, -15)
	if !got.ApproxEqual(want, tol) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	// Length is preserved by any rotation
	if math.Abs(got.Length()-p.Length()) > tol {
		t.Errorf("Expected length %v, got %v", p.Length(), got.Length())
	}
}

func TestProject(t *testing.T) {
	q, ok := V3(1, 1, 1).Project(100, 3)
	if !ok {
		t.Fatal("Expected projection to succeed")
	}
	if !q.ApproxEqual(V3(25, -25, 1), tol) {
		t.Errorf("Expected (25,-25,1), got %v", q)
	}

	if _, ok := V3(1, 1, -3).Project(100, 3); ok {
		t.Error("Expected singular projection when fov + z == 0")
	}
	q, ok = V3(1, 0, -3+1e-12).Project(100, 3)
	if ok {
		t.Errorf("Expected near-singular projection to be rejected, got %v", q)
	}
}

func TestVectorArithmetic(t *testing.T) {
	a := V3(1, 2, 3)
	b := V3(-1, 0.5, 2)
	if got := a.Add(b); got != V3(0, 2.5, 5) {
		t.Errorf("Add: got %v", got)
	}
	if got := a.Sub(b); got != V3(2, 1.5, 1) {
		t.Errorf("Sub: got %v", got)
	}
	if got := a.Scale(-2); got != V3(-2, -4, -6) {
		t.Errorf("Scale: got %v", got)
	}
	if got := V3(3, 4, 0).Length(); got != 5 {
		t.Errorf("Length: expected 5, got %v", got)
	}
}

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{359, 359},
		{360, 0},
		{361, 1},
		{-1, 359},
		{-360, 0},
		{725, 5},
		{math.Copysign(0, -1), 0},
	}
	for _, tt := range tests {
		if got := NormalizeAngle(tt.in); math.Abs(got-tt.want) > tol {
			t.Errorf("NormalizeAngle(%v): expected %v, got %v", tt.in, tt.want, got)
		}
	}

	r := Rotation{X: 350}.Nudge(AxisX, 20)
	if math.Abs(r.X-10) > tol {
		t.Errorf("Expected nudge to wrap to 10, got %v", r.X)
	}
	r = Rotation{}.Add(Rotation{X: -5, Y: 365, Z: 720})
	if math.Abs(r.X-355) > tol || math.Abs(r.Y-5) > tol || r.Z != 0 {
		t.Errorf("Unexpected normalized rotation %+v", r)
	}
}

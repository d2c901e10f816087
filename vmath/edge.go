package vmath

import (
	"math"
	"sync"
)

// EdgeLength is the model-space length of a unit cube edge spanning [-1, 1]
const EdgeLength = 2.0

// Edge is a model-space segment between two cube corners
type Edge struct {
	A, B Vector3
}

var (
	cubeEdgesOnce sync.Once
	cubeEdges     []Edge
)

// CubeCorners returns the 8 points (±1, ±1, ±1)
// Corner i has X = +1 when bit 2 is set, Y when bit 1, Z when bit 0
func CubeCorners() [8]Vector3 {
	var c [8]Vector3
	for i := range c {
		c[i] = Vector3{
			X: sign(i&4 != 0),
			Y: sign(i&2 != 0),
			Z: sign(i&1 != 0),
		}
	}
	return c
}

// CubeEdges returns the 12 corner pairs whose distance is EdgeLength
// A is always the lower-indexed corner; the returned slice is a copy
func CubeEdges() []Edge {
	cubeEdgesOnce.Do(func() {
		corners := CubeCorners()
		cubeEdges = make([]Edge, 0, 12)
		for i := 0; i < len(corners); i++ {
			for j := i + 1; j < len(corners); j++ {
				d := corners[i].Sub(corners[j]).Length()
				if math.Abs(d-EdgeLength) < Epsilon {
					cubeEdges = append(cubeEdges, Edge{A: corners[i], B: corners[j]})
				}
			}
		}
	})
	out := make([]Edge, len(cubeEdges))
	copy(out, cubeEdges)
	return out
}

func sign(pos bool) float64 {
	if pos {
		return 1
	}
	return -1
}

package render

import (
	"fmt"
	"math"
	"sync"

	"github.com/lixenwraith/multicube/core"
	"github.com/lixenwraith/multicube/vmath"
)

// Projection-to-grid constants, empirically tuned to center the cube on a character grid
const (
	ViewFactor   = 2.5
	PointDivisor = 5.0
)

// Cube sizing defaults
const (
	DefaultZoom = 3.2
	DefaultFOV  = 3.0
)

// Policy decides what Render does with a point that lands outside the screen
type Policy uint8

const (
	// PolicyStrict aborts the render with core.ErrOutOfRange
	PolicyStrict Policy = iota
	// PolicySkip drops the point and counts it in RenderStats.Skipped
	PolicySkip
)

func (p Policy) String() string {
	if p == PolicySkip {
		return "skip"
	}
	return "error"
}

// ParsePolicy maps "error"/"strict" and "skip" to a Policy
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "error", "strict":
		return PolicyStrict, nil
	case "skip":
		return PolicySkip, nil
	}
	return PolicyStrict, fmt.Errorf("unknown out-of-range policy %q", s)
}

// CubeConfig parametrizes a wireframe cube
type CubeConfig struct {
	Size     float64 // Projection scale
	FOV      float64 // Distance offset, must be > 0
	Samples  int     // Points per edge, at least 1
	Glyphs   Glyphs
	Policy   Policy
	Parallel bool // Compute edges concurrently
}

// Plot is one sampled edge point mapped to a local screen cell
type Plot struct {
	X, Y  int
	Depth float64 // Rotated z, before projection
}

// RenderStats summarizes one Render call
type RenderStats struct {
	Plotted  int // In-bounds points
	Skipped  int // Out-of-range points dropped under PolicySkip
	Singular int // Points whose projection was undefined
}

// Cube samples the 12 model-space edges and draws them into a VirtualScreen
type Cube struct {
	cfg   CubeConfig
	edges []vmath.Edge
}

// NewCube validates cfg and binds the shared edge set
func NewCube(cfg CubeConfig) (*Cube, error) {
	switch {
	case !(cfg.Size > 0):
		return nil, &core.ConfigError{Field: "size", Reason: "must be positive"}
	case !(cfg.FOV > 0):
		return nil, &core.ConfigError{Field: "fov", Reason: "must be positive"}
	case cfg.Samples < 1:
		return nil, &core.ConfigError{Field: "samples", Reason: "must be at least 1"}
	}
	return &Cube{cfg: cfg, edges: vmath.CubeEdges()}, nil
}

// NewCubeFor sizes a cube for a width x height screen
func NewCubeFor(width, height int, zoom, fov float64, glyphs Glyphs, policy Policy) (*Cube, error) {
	if !(zoom > 0) {
		return nil, &core.ConfigError{Field: "zoom", Reason: "must be positive"}
	}
	size := SizeFor(width, height, zoom)
	return NewCube(CubeConfig{
		Size:     size,
		FOV:      fov,
		Samples:  SampleCount(size, zoom),
		Glyphs:   glyphs,
		Policy:   policy,
		Parallel: true,
	})
}

// SizeFor returns the projection scale fitting a width x height screen
func SizeFor(width, height int, zoom float64) float64 {
	return math.Min(float64(height)*zoom, float64(width)*zoom)
}

// SampleCount returns floor(size/zoom), never below 1
func SampleCount(size, zoom float64) int {
	return max(1, int(math.Floor(size/zoom)))
}

// FitsScreen reports whether a cube sized by SizeFor(zoom) with this fov stays on screen at every rotation
// A rotated corner is at most sqrt(3) from the origin
func FitsScreen(zoom, fov float64) bool {
	if fov*fov <= 3 {
		return false
	}
	reach := zoom * math.Sqrt(3) / math.Sqrt(fov*fov-3)
	return reach < PointDivisor-ViewFactor
}

func (c *Cube) Config() CubeConfig { return c.cfg }

// Plot computes the screen cells of every sampled point at rotation rot
// Points with singular projections are dropped and counted
func (c *Cube) Plot(rot vmath.Rotation, width, height int) ([]Plot, int) {
	perEdge := make([][]Plot, len(c.edges))
	singular := make([]int, len(c.edges))

	if c.cfg.Parallel {
		var wg sync.WaitGroup
		wg.Add(len(c.edges))
		for i := range c.edges {
			core.Go(func() {
				defer wg.Done()
				perEdge[i], singular[i] = c.plotEdge(c.edges[i], rot, width, height)
			})
		}
		wg.Wait()
	} else {
		for i := range c.edges {
			perEdge[i], singular[i] = c.plotEdge(c.edges[i], rot, width, height)
		}
	}

	plots := make([]Plot, 0, len(c.edges)*c.cfg.Samples)
	dropped := 0
	for i := range perEdge {
		plots = append(plots, perEdge[i]...)
		dropped += singular[i]
	}
	return plots, dropped
}

// plotEdge walks t = i/samples - 1 from B toward A (A itself is never sampled)
func (c *Cube) plotEdge(e vmath.Edge, rot vmath.Rotation, width, height int) ([]Plot, int) {
	n := c.cfg.Samples
	out := make([]Plot, 0, n)
	singular := 0

	diff := e.A.Sub(e.B)
	cx := float64(width) * ViewFactor
	cy := float64(height) * ViewFactor

	for i := 0; i < n; i++ {
		t := float64(i)/float64(n) - 1
		r := rot.Apply(e.A.Add(diff.Scale(t)))
		q, ok := r.Project(c.cfg.Size, c.cfg.FOV)
		if !ok {
			singular++
			continue
		}
		out = append(out, Plot{
			X:     int(math.Floor((q.X + cx) / PointDivisor)),
			Y:     int(math.Floor((q.Y + cy) / PointDivisor)),
			Depth: r.Z,
		})
	}
	return out, singular
}

// Render draws the cube into s at rotation rot; s is not cleared first
// Writes are applied on the calling goroutine in edge order
func (c *Cube) Render(rot vmath.Rotation, s *core.VirtualScreen) (RenderStats, error) {
	plots, singular := c.Plot(rot, s.Width(), s.Height())
	stats := RenderStats{Singular: singular}

	for _, p := range plots {
		placed, err := c.place(s, p)
		if err != nil {
			return stats, fmt.Errorf("cube point at rotation (%.1f,%.1f,%.1f): %w", rot.X, rot.Y, rot.Z, err)
		}
		if placed {
			stats.Plotted++
		} else {
			stats.Skipped++
		}
	}
	return stats, nil
}

// place writes the depth glyph for p; a far glyph never replaces a near one
// Returns false when the point was out of range and the policy dropped it
func (c *Cube) place(s *core.VirtualScreen, p Plot) (bool, error) {
	cur, ok := s.At(p.X, p.Y)
	if !ok {
		if c.cfg.Policy == PolicySkip {
			return false, nil
		}
		return false, &core.RangeError{X: p.X, Y: p.Y, Width: s.Width(), Height: s.Height()}
	}

	g := c.cfg.Glyphs.For(p.Depth)
	if g == c.cfg.Glyphs.Far && cur == c.cfg.Glyphs.Near {
		return true, nil
	}
	return true, s.Push(g, p.X, p.Y)
}

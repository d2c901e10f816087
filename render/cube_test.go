package render

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"github.com/lixenwraith/multicube/core"
	"github.com/lixenwraith/multicube/vmath"
)

func newScreen(t *testing.T, w, h int) *core.VirtualScreen {
	t.Helper()
	s, err := core.NewVirtualScreen(w, h, 0, 0, w, h)
	if err != nil {
		t.Fatalf("NewVirtualScreen failed: %v", err)
	}
	return s
}

// scenarioCube is the 40x20, size 100, fov 3 regression baseline
func scenarioCube(t *testing.T, policy Policy, parallel bool) *Cube {
	t.Helper()
	c, err := NewCube(CubeConfig{
		Size:     100,
		FOV:      3,
		Samples:  SampleCount(100, DefaultZoom),
		Glyphs:   DefaultGlyphs(),
		Policy:   policy,
		Parallel: parallel,
	})
	if err != nil {
		t.Fatalf("NewCube failed: %v", err)
	}
	return c
}

func TestSampleCount(t *testing.T) {
	tests := []struct {
		size, zoom float64
		want       int
	}{
		{100, 3.2, 31},
		{51.2, 3.2, 16},
		{1, 3.2, 1},
		{0, 3.2, 1},
	}
	for _, tt := range tests {
		if got := SampleCount(tt.size, tt.zoom); got != tt.want {
			t.Errorf("SampleCount(%v, %v): expected %d, got %d", tt.size, tt.zoom, tt.want, got)
		}
	}
}

func TestNewCubeValidation(t *testing.T) {
	bad := []CubeConfig{
		{Size: 0, FOV: 3, Samples: 1},
		{Size: 10, FOV: 0, Samples: 1},
		{Size: 10, FOV: 3, Samples: 0},
	}
	for _, cfg := range bad {
		if _, err := NewCube(cfg); !errors.Is(err, core.ErrConfig) {
			t.Errorf("Config %+v: expected ErrConfig, got %v", cfg, err)
		}
	}
}

func TestScenarioAStrictRejectsBottomEdge(t *testing.T) {
	c := scenarioCube(t, PolicyStrict, true)
	s := newScreen(t, 40, 20)

	// The y=-1,z=-1 edge projects exactly onto row 20
	_, err := c.Render(vmath.Rotation{}, s)
	if !errors.Is(err, core.ErrOutOfRange) {
		t.Fatalf("Expected ErrOutOfRange, got %v", err)
	}
	var rangeErr *core.RangeError
	if !errors.As(err, &rangeErr) || rangeErr.Y != 20 {
		t.Errorf("Expected rejected row 20, got %v", err)
	}
}

func TestScenarioABaseline(t *testing.T) {
	c := scenarioCube(t, PolicySkip, true)
	s := newScreen(t, 40, 20)

	stats, err := c.Render(vmath.Rotation{}, s)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	samples := SampleCount(100, DefaultZoom)
	if stats.Skipped != samples {
		t.Errorf("Expected exactly one edge (%d points) skipped, got %d", samples, stats.Skipped)
	}
	if stats.Plotted != 12*samples-samples {
		t.Errorf("Expected %d plotted points, got %d", 11*samples, stats.Plotted)
	}
	if stats.Singular != 0 {
		t.Errorf("Expected no singular projections, got %d", stats.Singular)
	}

	plots, _ := c.Plot(vmath.Rotation{}, 40, 20)
	var sumX, sumY, n int
	minX, maxX := 40, -1
	for _, p := range plots {
		if p.Y >= 20 {
			continue
		}
		sumX += p.X
		sumY += p.Y
		n++
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
	}
	meanX := float64(sumX) / float64(n)
	meanY := float64(sumY) / float64(n)
	if meanX < 18.5 || meanX > 21.5 {
		t.Errorf("Expected points centered horizontally near 20, got mean %.2f", meanX)
	}
	if meanY < 7 || meanY > 10.5 {
		t.Errorf("Expected points centered vertically near 10, got mean %.2f", meanY)
	}
	if minX != 10 || maxX != 30 {
		t.Errorf("Expected horizontal extent [10,30], got [%d,%d]", minX, maxX)
	}

	// Front face corners (z=-1) sit at columns 10 and 30 on row 0
	for _, x := range []int{10, 30} {
		if r, _ := s.At(x, 0); r != NearGlyph {
			t.Errorf("Expected near glyph at (%d,0), got %q", x, r)
		}
	}
	// Back face (z=+1) top edge is far
	if r, _ := s.At(20, 5); r != FarGlyph {
		t.Errorf("Expected far glyph at (20,5), got %q", r)
	}
}

func TestPlotParallelMatchesSequential(t *testing.T) {
	par := scenarioCube(t, PolicySkip, true)
	seq := scenarioCube(t, PolicySkip, false)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		rot := vmath.Rotation{X: rng.Float64() * 360, Y: rng.Float64() * 360, Z: rng.Float64() * 360}
		a, _ := par.Plot(rot, 40, 20)
		b, _ := seq.Plot(rot, 40, 20)
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("Rotation %+v: parallel and sequential plots differ", rot)
		}
	}
}

func TestProductionSizingStaysInBounds(t *testing.T) {
	if !FitsScreen(DefaultZoom, DefaultFOV) {
		t.Fatal("Expected default zoom/fov to fit every rotation")
	}

	rng := rand.New(rand.NewSource(42))
	sizes := [][2]int{{1, 1}, {25, 16}, {14, 9}, {60, 12}, {8, 30}}
	for _, sz := range sizes {
		c, err := NewCubeFor(sz[0], sz[1], DefaultZoom, DefaultFOV, DefaultGlyphs(), PolicyStrict)
		if err != nil {
			t.Fatalf("NewCubeFor(%v) failed: %v", sz, err)
		}
		s := newScreen(t, sz[0], sz[1])
		for i := 0; i < 200; i++ {
			rot := vmath.Rotation{X: rng.Float64() * 360, Y: rng.Float64() * 360, Z: rng.Float64() * 360}
			s.Clear()
			if _, err := c.Render(rot, s); err != nil {
				t.Fatalf("Screen %v rotation %+v: %v", sz, rot, err)
			}
		}
	}
}

func TestFitsScreen(t *testing.T) {
	if FitsScreen(3.2, 1.5) {
		t.Error("Expected fov below sqrt(3) to be rejected")
	}
	if FitsScreen(10, 3) {
		t.Error("Expected oversized zoom to be rejected")
	}
}

func TestFarGlyphNeverReplacesNear(t *testing.T) {
	c := scenarioCube(t, PolicyStrict, false)
	s := newScreen(t, 4, 4)

	if _, err := c.place(s, Plot{X: 1, Y: 1, Depth: -1}); err != nil {
		t.Fatalf("place failed: %v", err)
	}
	if _, err := c.place(s, Plot{X: 1, Y: 1, Depth: 1}); err != nil {
		t.Fatalf("place failed: %v", err)
	}
	if r, _ := s.At(1, 1); r != NearGlyph {
		t.Errorf("Expected near glyph to survive, got %q", r)
	}

	// Near upgrades far
	c.place(s, Plot{X: 2, Y: 2, Depth: 1})
	c.place(s, Plot{X: 2, Y: 2, Depth: 0})
	if r, _ := s.At(2, 2); r != NearGlyph {
		t.Errorf("Expected near glyph to replace far, got %q", r)
	}
}

func TestParsePolicy(t *testing.T) {
	for in, want := range map[string]Policy{"": PolicyStrict, "error": PolicyStrict, "strict": PolicyStrict, "skip": PolicySkip} {
		got, err := ParsePolicy(in)
		if err != nil || got != want {
			t.Errorf("ParsePolicy(%q): expected %v, got %v (%v)", in, want, got, err)
		}
	}
	if _, err := ParsePolicy("clip"); err == nil {
		t.Error("Expected unknown policy to fail")
	}
}

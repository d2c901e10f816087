package render

// Default glyphs for the binary depth cue
const (
	NearGlyph     = 'o'
	FarGlyph      = '-'
	NearThreshold = 0.3
)

// Glyphs selects the rune for a rotated point by depth
type Glyphs struct {
	Near      rune
	Far       rune
	Threshold float64 // Rotated z below this is near
}

// DefaultGlyphs returns the near/far pair used by the cubes
func DefaultGlyphs() Glyphs {
	return Glyphs{Near: NearGlyph, Far: FarGlyph, Threshold: NearThreshold}
}

// For returns the glyph for a rotated z
func (g Glyphs) For(z float64) rune {
	if z < g.Threshold {
		return g.Near
	}
	return g.Far
}

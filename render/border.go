package render

import "github.com/lixenwraith/multicube/core"

// Border runes drawn in the 1-cell gap right of and below each region
const (
	VBorder = '|'
	HBorder = '-'
)

// DrawBorder writes the right-hand column and bottom row framing area
// The bottom row includes the corner cell
func DrawBorder(w core.CellWriter, area core.Area) {
	right := area.Right()
	for y := area.Y; y < area.Bottom(); y++ {
		w.PutRune(right, y, VBorder)
	}
	bottom := area.Bottom()
	for x := area.X; x <= right; x++ {
		w.PutRune(x, bottom, HBorder)
	}
}

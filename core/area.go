package core

// Area represents a rectangular region of the terminal canvas
type Area struct {
	X, Y          int // Top-left corner
	Width, Height int // Dimensions (minimum 1x1)
}

// Right returns the first column past the area
func (a Area) Right() int { return a.X + a.Width }

// Bottom returns the first row past the area
func (a Area) Bottom() int { return a.Y + a.Height }

// Contains reports whether (x, y) lies inside the area
func (a Area) Contains(x, y int) bool {
	return x >= a.X && x < a.Right() && y >= a.Y && y < a.Bottom()
}

package core

import "unicode/utf8"

// Blank is the rune every cell holds after construction or Clear
const Blank = ' '

// CellWriter receives absolute canvas writes during a flush
// Implementations are expected to hold the output device lock for the whole flush
type CellWriter interface {
	PutRune(x, y int, r rune)
}

// VirtualScreen is a double-buffered character grid placed at an offset on a larger canvas
// current receives writes; previous mirrors what was last emitted to the device
// Not safe for concurrent use
type VirtualScreen struct {
	width   int
	height  int
	xOffset int
	yOffset int

	current  []rune // Row-major: y*width + x
	previous []rune
	changed  bool
}

// NewVirtualScreen validates placement against the canvas and allocates both buffers
func NewVirtualScreen(width, height, xOffset, yOffset, canvasWidth, canvasHeight int) (*VirtualScreen, error) {
	switch {
	case width < 1:
		return nil, &ConfigError{Field: "width", Reason: "must be at least 1"}
	case height < 1:
		return nil, &ConfigError{Field: "height", Reason: "must be at least 1"}
	case xOffset < 0:
		return nil, &ConfigError{Field: "xOffset", Reason: "must not be negative"}
	case yOffset < 0:
		return nil, &ConfigError{Field: "yOffset", Reason: "must not be negative"}
	case width+xOffset > canvasWidth:
		return nil, &ConfigError{Field: "width+xOffset", Reason: "exceeds canvas width"}
	case height+yOffset > canvasHeight:
		return nil, &ConfigError{Field: "height+yOffset", Reason: "exceeds canvas height"}
	}

	s := &VirtualScreen{
		width:    width,
		height:   height,
		xOffset:  xOffset,
		yOffset:  yOffset,
		current:  make([]rune, width*height),
		previous: make([]rune, width*height),
	}
	fill(s.current)
	fill(s.previous)
	return s, nil
}

// NewVirtualScreenIn places a screen over area on a canvas of the given size
func NewVirtualScreenIn(area Area, canvasWidth, canvasHeight int) (*VirtualScreen, error) {
	return NewVirtualScreen(area.Width, area.Height, area.X, area.Y, canvasWidth, canvasHeight)
}

func (s *VirtualScreen) Width() int   { return s.width }
func (s *VirtualScreen) Height() int  { return s.height }
func (s *VirtualScreen) XOffset() int { return s.xOffset }
func (s *VirtualScreen) YOffset() int { return s.yOffset }

// Area returns the canvas region covered by the screen
func (s *VirtualScreen) Area() Area {
	return Area{X: s.xOffset, Y: s.yOffset, Width: s.width, Height: s.height}
}

// Changed reports whether any cell may differ from what was last flushed
func (s *VirtualScreen) Changed() bool { return s.changed }

func (s *VirtualScreen) inBounds(x, y int) bool {
	return x >= 0 && x < s.width && y >= 0 && y < s.height
}

// At returns the current buffer value at local (x, y)
func (s *VirtualScreen) At(x, y int) (rune, bool) {
	if !s.inBounds(x, y) {
		return 0, false
	}
	return s.current[y*s.width+x], true
}

// Push writes r at local (x, y)
// changed is only raised when the cell value actually differs
func (s *VirtualScreen) Push(r rune, x, y int) error {
	if !s.inBounds(x, y) {
		return &RangeError{X: x, Y: y, Width: s.width, Height: s.height}
	}
	i := y*s.width + x
	if s.current[i] != r {
		s.current[i] = r
		s.changed = true
	}
	return nil
}

// PushString writes str left to right starting at local (x, y)
// Nothing is written if the run does not fit on the row
func (s *VirtualScreen) PushString(str string, x, y int) error {
	last := x + max(utf8.RuneCountInString(str)-1, 0)
	if !s.inBounds(x, y) || !s.inBounds(last, y) {
		return &RangeError{X: last, Y: y, Width: s.width, Height: s.height}
	}
	for _, r := range str {
		// Bounds already checked for the whole run
		_ = s.Push(r, x, y)
		x++
	}
	return nil
}

// Clear blanks the current buffer; previous is untouched until the next flush
func (s *VirtualScreen) Clear() {
	fill(s.current)
	s.changed = true
}

// Flush emits every cell that differs from the last flushed state and returns the count
// Unchanged screens return immediately
func (s *VirtualScreen) Flush(w CellWriter) int {
	if !s.changed {
		return 0
	}
	written := 0
	for y := 0; y < s.height; y++ {
		row := y * s.width
		for x := 0; x < s.width; x++ {
			i := row + x
			if s.current[i] != s.previous[i] {
				w.PutRune(x+s.xOffset, y+s.yOffset, s.current[i])
				s.previous[i] = s.current[i]
				written++
			}
		}
	}
	s.changed = false
	return written
}

// FullOutput emits every cell unconditionally
// Used for the first draw and after the device contents were lost
func (s *VirtualScreen) FullOutput(w CellWriter) int {
	for y := 0; y < s.height; y++ {
		row := y * s.width
		for x := 0; x < s.width; x++ {
			w.PutRune(x+s.xOffset, y+s.yOffset, s.current[row+x])
		}
	}
	copy(s.previous, s.current)
	s.changed = false
	return len(s.current)
}

func fill(cells []rune) {
	for i := range cells {
		cells[i] = Blank
	}
}

package render

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/multicube/core"
)

const eventBufferSize = 64

// Terminal owns the tcell screen and the one lock serializing every write to it
type Terminal struct {
	mu     sync.Mutex
	screen tcell.Screen
	style  tcell.Style

	events   chan tcell.Event
	quit     chan struct{}
	pumpOnce sync.Once
	finiOnce sync.Once
}

// NewTerminal wraps an uninitialized tcell screen; style is used for cube cells
func NewTerminal(screen tcell.Screen, style tcell.Style) *Terminal {
	return &Terminal{
		screen: screen,
		style:  style,
		events: make(chan tcell.Event, eventBufferSize),
		quit:   make(chan struct{}),
	}
}

// Init enters the tcell screen, hides the cursor and clears it
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.SetStyle(t.style)
	t.screen.HideCursor()
	t.screen.Clear()
	return nil
}

// Fini restores the terminal. Safe to call multiple times
func (t *Terminal) Fini() {
	t.finiOnce.Do(func() {
		close(t.quit)
		t.mu.Lock()
		t.screen.Fini()
		t.mu.Unlock()
	})
}

// Size returns the canvas dimensions
func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.screen.Size()
}

// cellWriter adapts the tcell screen to core.CellWriter with a fixed style
type cellWriter struct {
	screen tcell.Screen
	style  tcell.Style
}

func (w cellWriter) PutRune(x, y int, r rune) {
	w.screen.SetContent(x, y, r, nil, w.style)
}

// Draw runs fn with exclusive access to the screen using the default cube style
func (t *Terminal) Draw(fn func(w core.CellWriter)) {
	t.DrawStyled(t.style, fn)
}

// DrawStyled runs fn with exclusive access to the screen using style
func (t *Terminal) DrawStyled(style tcell.Style, fn func(w core.CellWriter)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(cellWriter{screen: t.screen, style: style})
}

// Show makes pending cell writes visible
func (t *Terminal) Show() {
	t.mu.Lock()
	t.screen.Show()
	t.mu.Unlock()
}

// Sync forces tcell to repaint the whole terminal
func (t *Terminal) Sync() {
	t.mu.Lock()
	t.screen.Sync()
	t.mu.Unlock()
}

// Clear blanks the whole canvas
func (t *Terminal) Clear() {
	t.mu.Lock()
	t.screen.Clear()
	t.mu.Unlock()
}

// Status writes msg on the bottom canvas row, truncated to the canvas width
func (t *Terminal) Status(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	w, h := t.screen.Size()
	if w < 1 || h < 1 {
		return
	}
	line := runewidth.FillRight(runewidth.Truncate(msg, w, ""), w)
	x := 0
	for _, r := range line {
		t.screen.SetContent(x, h-1, r, nil, t.style)
		x += runewidth.RuneWidth(r)
	}
}

// Text writes lines starting at (x, y), one per row, clipped to the canvas
func (t *Terminal) Text(x, y int, lines []string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	w, h := t.screen.Size()
	for i, line := range lines {
		row := y + i
		if row >= h {
			return
		}
		col := x
		for _, r := range runewidth.Truncate(line, max(w-x, 0), "") {
			t.screen.SetContent(col, row, r, nil, t.style)
			col += runewidth.RuneWidth(r)
		}
	}
}

// StartEvents pumps tcell events into a buffered channel so Poll never blocks
func (t *Terminal) StartEvents() {
	t.pumpOnce.Do(func() {
		core.Go(func() {
			for {
				ev := t.screen.PollEvent()
				if ev == nil {
					// Screen finalized
					return
				}
				select {
				case t.events <- ev:
				case <-t.quit:
					return
				}
			}
		})
	})
}

// Poll returns one pending event without blocking
func (t *Terminal) Poll() (tcell.Event, bool) {
	select {
	case ev := <-t.events:
		return ev, true
	default:
		return nil, false
	}
}

// WaitKey blocks until a key event arrives, discarding other events
// Returns nil once the terminal is finalized
func (t *Terminal) WaitKey() *tcell.EventKey {
	for {
		select {
		case ev := <-t.events:
			if key, ok := ev.(*tcell.EventKey); ok {
				return key
			}
		case <-t.quit:
			return nil
		}
	}
}

package main

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/multicube/settings"
)

var resizeLines = []string{
	"Resize the window to a size you like.",
	"Press any key to continue...",
}

var introLines = []string{
	"MultiCube: up to ten rotating wireframe cubes in one terminal.",
	"",
	"Switch between screens with the number keys (1-9, 0).",
	"Use W, A, S, D, J and K to rotate the cube in the selected screen.",
	"Hold ALT to rotate faster, SHIFT to rotate slower.",
	"Press M to toggle auto-rotation for the selected cube; press M again to take control back.",
	"Press R to reset the selected cube. This also turns auto-rotation off.",
	"Press ESC at any time to exit.",
	"",
	"Press F to disable this message. Afterwards, press up-down-left-right",
	"with the arrow keys to enable it again.",
	"",
	"Press any other key to continue.",
}

// panel is the part of the terminal the startup screens use
type panel interface {
	Clear()
	Text(x, y int, lines []string)
	Status(msg string)
	Show()
	WaitKey() *tcell.EventKey
}

func isQuitKey(ev *tcell.EventKey) bool {
	return ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC
}

// waitForResize shows the resize prompt; false means the user quit
func waitForResize(p panel) bool {
	p.Clear()
	p.Text(0, 0, resizeLines)
	p.Show()

	ev := p.WaitKey()
	p.Clear()
	return ev != nil && !isQuitKey(ev)
}

// runIntro shows the help panel until a continue key; false means the user quit
// F disables the panel for later runs and keeps it on screen
func runIntro(p panel, store settings.Store) bool {
	p.Clear()
	p.Text(0, 0, introLines)
	p.Show()

	for {
		ev := p.WaitKey()
		switch {
		case ev == nil || isQuitKey(ev):
			return false
		case ev.Key() == tcell.KeyRune && (ev.Rune() == 'f' || ev.Rune() == 'F'):
			store.SetShowIntro(false)
			p.Status("[settings] intro disabled")
			p.Show()
		default:
			p.Clear()
			return true
		}
	}
}

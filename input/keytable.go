package input

import (
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/multicube/vmath"
)

// KeyEntry describes what a key does, before modifiers are considered
type KeyEntry struct {
	Type   IntentType
	Axis   vmath.Axis
	Sign   float64
	Screen int
	Arrow  Arrow
}

// KeyTable maps keys to behaviors
type KeyTable struct {
	// Special keys (Esc, Ctrl+*, arrows)
	Keys map[tcell.Key]KeyEntry

	// Rune bindings, matched case-insensitively
	Runes map[rune]KeyEntry
}

// DefaultKeyTable returns the default key bindings
func DefaultKeyTable() *KeyTable {
	kt := &KeyTable{
		Keys: map[tcell.Key]KeyEntry{
			tcell.KeyEscape: {Type: IntentQuit},
			tcell.KeyCtrlC:  {Type: IntentQuit},
			tcell.KeyUp:     {Type: IntentArrow, Arrow: ArrowUp},
			tcell.KeyDown:   {Type: IntentArrow, Arrow: ArrowDown},
			tcell.KeyLeft:   {Type: IntentArrow, Arrow: ArrowLeft},
			tcell.KeyRight:  {Type: IntentArrow, Arrow: ArrowRight},
		},
		Runes: map[rune]KeyEntry{
			'w': {Type: IntentRotate, Axis: vmath.AxisX, Sign: 1},
			's': {Type: IntentRotate, Axis: vmath.AxisX, Sign: -1},
			'a': {Type: IntentRotate, Axis: vmath.AxisY, Sign: 1},
			'd': {Type: IntentRotate, Axis: vmath.AxisY, Sign: -1},
			'j': {Type: IntentRotate, Axis: vmath.AxisZ, Sign: 1},
			'k': {Type: IntentRotate, Axis: vmath.AxisZ, Sign: -1},
			'r': {Type: IntentReset},
			'm': {Type: IntentToggleAuto},
		},
	}

	// Top row and keypad both deliver digits: 1..9 select screens 0..8, 0 selects 9
	for d := '1'; d <= '9'; d++ {
		kt.Runes[d] = KeyEntry{Type: IntentSelect, Screen: int(d - '1')}
	}
	kt.Runes['0'] = KeyEntry{Type: IntentSelect, Screen: 9}

	return kt
}

// Map resolves a key event to an intent
func (kt *KeyTable) Map(ev *tcell.EventKey) Intent {
	var (
		entry KeyEntry
		found bool
		upper bool
	)

	if ev.Key() == tcell.KeyRune {
		r := ev.Rune()
		if ev.Modifiers()&tcell.ModCtrl != 0 {
			// Some terminals report Ctrl+letter as a modified rune
			if unicode.ToLower(r) == 'c' {
				return Intent{Type: IntentQuit}
			}
			return Intent{}
		}
		upper = unicode.IsUpper(r)
		entry, found = kt.Runes[unicode.ToLower(r)]
	} else {
		entry, found = kt.Keys[ev.Key()]
	}
	if !found {
		return Intent{}
	}

	return Intent{
		Type:   entry.Type,
		Axis:   entry.Axis,
		Sign:   entry.Sign,
		Speed:  speedFor(ev.Modifiers(), upper),
		Screen: entry.Screen,
		Arrow:  entry.Arrow,
	}
}

// speedFor derives the tier
// Shift+letter arrives as an upper-case rune; ModShift only reaches rune keys alongside another modifier
func speedFor(mod tcell.ModMask, upper bool) Speed {
	shift := mod&tcell.ModShift != 0 || upper
	alt := mod&tcell.ModAlt != 0
	switch {
	case shift && alt:
		return SpeedCombined
	case shift:
		return SpeedHalf
	case alt:
		return SpeedDouble
	}
	return SpeedBase
}

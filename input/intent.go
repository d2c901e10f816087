package input

import "github.com/lixenwraith/multicube/vmath"

// IntentType discriminates semantic actions
type IntentType uint8

const (
	IntentNone IntentType = iota

	IntentQuit       // Esc, Ctrl+C
	IntentRotate     // w/s, a/d, j/k
	IntentReset      // r
	IntentToggleAuto // m
	IntentSelect     // 1-9, 0
	IntentArrow      // Arrow keys, only meaningful to the unlock sequence
)

func (t IntentType) String() string {
	switch t {
	case IntentQuit:
		return "quit"
	case IntentRotate:
		return "rotate"
	case IntentReset:
		return "reset"
	case IntentToggleAuto:
		return "toggle-auto"
	case IntentSelect:
		return "select"
	case IntentArrow:
		return "arrow"
	}
	return "none"
}

// Speed is the rotation tier chosen by modifier keys
type Speed uint8

const (
	SpeedBase     Speed = iota // No modifier
	SpeedHalf                  // Shift
	SpeedDouble                // Alt
	SpeedCombined              // Shift+Alt, its own tier rather than cancelling out
)

// Arrow identifies a direction key
type Arrow uint8

const (
	ArrowNone Arrow = iota
	ArrowUp
	ArrowDown
	ArrowLeft
	ArrowRight
)

// Intent is the semantic result of one key press
type Intent struct {
	Type   IntentType
	Axis   vmath.Axis // IntentRotate
	Sign   float64    // IntentRotate: +1 or -1
	Speed  Speed      // IntentRotate
	Screen int        // IntentSelect: 0-based session index
	Arrow  Arrow      // IntentArrow
}

package input

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/multicube/vmath"
)

func runeKey(r rune, mod tcell.ModMask) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, mod)
}

func TestMapRotationKeys(t *testing.T) {
	kt := DefaultKeyTable()
	tests := []struct {
		r    rune
		axis vmath.Axis
		sign float64
	}{
		{'w', vmath.AxisX, 1},
		{'s', vmath.AxisX, -1},
		{'a', vmath.AxisY, 1},
		{'d', vmath.AxisY, -1},
		{'j', vmath.AxisZ, 1},
		{'k', vmath.AxisZ, -1},
	}
	for _, tt := range tests {
		in := kt.Map(runeKey(tt.r, tcell.ModNone))
		if in.Type != IntentRotate || in.Axis != tt.axis || in.Sign != tt.sign {
			t.Errorf("Key %q: expected rotate %v %v, got %+v", tt.r, tt.axis, tt.sign, in)
		}
		if in.Speed != SpeedBase {
			t.Errorf("Key %q: expected base speed, got %v", tt.r, in.Speed)
		}
	}
}

func TestMapSpeedTiers(t *testing.T) {
	kt := DefaultKeyTable()
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want Speed
	}{
		{"plain", runeKey('w', tcell.ModNone), SpeedBase},
		{"upper case", runeKey('W', tcell.ModNone), SpeedHalf},
		{"alt", runeKey('w', tcell.ModAlt), SpeedDouble},
		{"shift and alt", runeKey('W', tcell.ModAlt), SpeedCombined},
		{"shift flag with alt", runeKey('w', tcell.ModShift|tcell.ModAlt), SpeedCombined},
	}
	for _, tt := range tests {
		in := kt.Map(tt.ev)
		if in.Type != IntentRotate || in.Axis != vmath.AxisX {
			t.Errorf("%s: expected rotate X, got %+v", tt.name, in)
		}
		if in.Speed != tt.want {
			t.Errorf("%s: expected speed %v, got %v", tt.name, tt.want, in.Speed)
		}
	}
}

func TestMapSelectAndSystemKeys(t *testing.T) {
	kt := DefaultKeyTable()

	for i, r := range "1234567890" {
		in := kt.Map(runeKey(r, tcell.ModNone))
		if in.Type != IntentSelect || in.Screen != i {
			t.Errorf("Digit %q: expected select %d, got %+v", r, i, in)
		}
	}

	if in := kt.Map(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)); in.Type != IntentQuit {
		t.Errorf("Expected Esc to quit, got %v", in.Type)
	}
	if in := kt.Map(runeKey('R', tcell.ModNone)); in.Type != IntentReset {
		t.Errorf("Expected R to reset, got %v", in.Type)
	}
	if in := kt.Map(runeKey('m', tcell.ModNone)); in.Type != IntentToggleAuto {
		t.Errorf("Expected m to toggle auto, got %v", in.Type)
	}
	if in := kt.Map(runeKey('z', tcell.ModNone)); in.Type != IntentNone {
		t.Errorf("Expected unbound key to map to none, got %v", in.Type)
	}
	if in := kt.Map(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone)); in.Type != IntentArrow || in.Arrow != ArrowLeft {
		t.Errorf("Expected left arrow intent, got %+v", in)
	}
}

func arrow(a Arrow) Intent { return Intent{Type: IntentArrow, Arrow: a} }

func TestSequenceCompletes(t *testing.T) {
	seq := NewSequence(UnlockPattern)

	steps := []Arrow{ArrowUp, ArrowDown, ArrowLeft}
	for _, a := range steps {
		if seq.Feed(arrow(a)) {
			t.Fatalf("Sequence completed early at %v", a)
		}
	}
	if !seq.Feed(arrow(ArrowRight)) {
		t.Fatal("Expected sequence to complete on right arrow")
	}
	if seq.Progress() != 0 {
		t.Errorf("Expected progress reset after completion, got %d", seq.Progress())
	}
}

func TestSequenceInterruptionResets(t *testing.T) {
	seq := NewSequence(UnlockPattern)

	seq.Feed(arrow(ArrowUp))
	seq.Feed(arrow(ArrowDown))
	seq.Feed(Intent{Type: IntentRotate})
	if seq.Progress() != 0 {
		t.Fatalf("Expected non-arrow key to reset, got progress %d", seq.Progress())
	}
	if seq.Feed(arrow(ArrowLeft)) || seq.Feed(arrow(ArrowRight)) {
		t.Error("Expected interrupted sequence not to complete")
	}

	// Lone right arrow never fires
	if seq.Feed(arrow(ArrowRight)) {
		t.Error("Expected right arrow alone not to complete")
	}

	// Wrong arrow that matches the first step restarts the attempt
	seq.Feed(arrow(ArrowUp))
	seq.Feed(arrow(ArrowUp))
	if seq.Progress() != 1 {
		t.Errorf("Expected restart at step 1, got %d", seq.Progress())
	}
	seq.Feed(arrow(ArrowDown))
	seq.Feed(arrow(ArrowLeft))
	if !seq.Feed(arrow(ArrowRight)) {
		t.Error("Expected restarted sequence to complete")
	}
}

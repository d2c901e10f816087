package input

// UnlockPattern is the arrow combo that re-enables the intro
var UnlockPattern = []Arrow{ArrowUp, ArrowDown, ArrowLeft, ArrowRight}

// Sequence tracks progress through an arrow pattern
// Any intent that is not the expected arrow resets progress
type Sequence struct {
	pattern []Arrow
	pos     int
}

// NewSequence creates a tracker for pattern
func NewSequence(pattern []Arrow) *Sequence {
	p := make([]Arrow, len(pattern))
	copy(p, pattern)
	return &Sequence{pattern: p}
}

// Feed advances the tracker and reports whether the pattern just completed
func (s *Sequence) Feed(in Intent) bool {
	if len(s.pattern) == 0 {
		return false
	}
	if in.Type != IntentArrow {
		s.pos = 0
		return false
	}

	if in.Arrow == s.pattern[s.pos] {
		s.pos++
		if s.pos == len(s.pattern) {
			s.pos = 0
			return true
		}
		return false
	}

	// A wrong arrow may itself start a new attempt
	s.pos = 0
	if in.Arrow == s.pattern[0] {
		s.pos = 1
	}
	return false
}

// Progress returns how many pattern steps have matched so far
func (s *Sequence) Progress() int { return s.pos }

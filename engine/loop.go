package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/multicube/core"
	"github.com/lixenwraith/multicube/input"
	"github.com/lixenwraith/multicube/render"
	"github.com/lixenwraith/multicube/settings"
)

// DefaultMinFrame is the shortest time one loop iteration may take
const DefaultMinFrame = 20 * time.Millisecond

// UnlockMessage is shown on the status row when the arrow combo completes
const UnlockMessage = "[settings] intro enabled"

// EventSource yields pending input without blocking
type EventSource interface {
	Poll() (tcell.Event, bool)
}

// Display is the serialized terminal the loop flushes into
type Display interface {
	Draw(fn func(w core.CellWriter))
	DrawStyled(style tcell.Style, fn func(w core.CellWriter))
	Show()
	Sync()
	Status(msg string)
}

// Cues plays feedback sounds
type Cues interface {
	PlayFocus()
	PlayUnlock()
}

// LoopConfig holds frame pacing, rotation speeds and border styles
type LoopConfig struct {
	MinFrame    time.Duration
	Factors     Factors
	BorderStyle tcell.Style
	FocusStyle  tcell.Style
}

// LoopOptions carries optional collaborators; nil fields get defaults
type LoopOptions struct {
	Keys     *input.KeyTable
	Settings settings.Store
	Cues     Cues
	Clock    Clock
	Rand     *rand.Rand
}

// Loop drives every session: input, auto-rotation, projection and flush
type Loop struct {
	sessions []*Session
	focus    int

	display Display
	events  EventSource
	keys    *input.KeyTable
	seq     *input.Sequence
	store   settings.Store
	cues    Cues
	clock   Clock
	rng     *rand.Rand
	cfg     LoopConfig

	resync bool
	frames uint64
}

// NewLoop wires a loop over sessions; focus starts on session 0
func NewLoop(sessions []*Session, display Display, events EventSource, cfg LoopConfig, opts LoopOptions) (*Loop, error) {
	if len(sessions) == 0 {
		return nil, &core.ConfigError{Field: "sessions", Reason: "at least one session required"}
	}
	if len(sessions) > MaxScreens {
		return nil, &core.ConfigError{Field: "sessions", Reason: fmt.Sprintf("at most %d sessions", MaxScreens)}
	}
	if cfg.MinFrame < 0 {
		return nil, &core.ConfigError{Field: "min_frame", Reason: "must not be negative"}
	}

	l := &Loop{
		sessions: sessions,
		display:  display,
		events:   events,
		keys:     opts.Keys,
		seq:      input.NewSequence(input.UnlockPattern),
		store:    opts.Settings,
		cues:     opts.Cues,
		clock:    opts.Clock,
		rng:      opts.Rand,
		cfg:      cfg,
	}
	if l.keys == nil {
		l.keys = input.DefaultKeyTable()
	}
	if l.clock == nil {
		l.clock = SystemClock{}
	}
	if l.rng == nil {
		l.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return l, nil
}

func (l *Loop) Focus() int           { return l.focus }
func (l *Loop) Sessions() []*Session { return l.sessions }
func (l *Loop) Frames() uint64       { return l.frames }

// Prime draws every border, marks the focused one and outputs the first frame
func (l *Loop) Prime() error {
	if err := l.project(); err != nil {
		return err
	}
	l.drawBorders()
	l.display.Draw(func(w core.CellWriter) {
		for _, s := range l.sessions {
			s.Screen().FullOutput(w)
		}
	})
	l.display.Show()
	return nil
}

// Run primes the display and iterates until quit or ctx is done
// Returns nil on quit or cancellation and the first frame error otherwise
func (l *Loop) Run(ctx context.Context) error {
	if err := l.Prime(); err != nil {
		return err
	}
	log.Printf("[loop] started with %d sessions, min frame %v", len(l.sessions), l.cfg.MinFrame)

	for {
		if ctx.Err() != nil {
			log.Printf("[loop] context done after %d frames", l.frames)
			return nil
		}

		start := l.clock.Now()
		quit, err := l.Step()
		if err != nil {
			return err
		}
		if quit {
			log.Printf("[loop] quit after %d frames", l.frames)
			return nil
		}

		if rest := l.cfg.MinFrame - l.clock.Now().Sub(start); rest > 0 {
			l.clock.Sleep(rest)
		}
	}
}

// Step runs one iteration without pacing and reports whether quit was requested
func (l *Loop) Step() (bool, error) {
	if ev, ok := l.events.Poll(); ok {
		if l.handle(ev) {
			return true, nil
		}
	}

	for _, s := range l.sessions {
		s.AutoRotate(l.rng)
	}

	if err := l.project(); err != nil {
		return false, fmt.Errorf("frame %d: %w", l.frames, err)
	}

	full := l.resync
	l.resync = false
	if full {
		l.drawBorders()
	}
	l.display.Draw(func(w core.CellWriter) {
		for _, s := range l.sessions {
			if full {
				s.Screen().FullOutput(w)
			} else {
				s.Screen().Flush(w)
			}
		}
	})
	l.display.Show()

	l.frames++
	return false, nil
}

// project renders all sessions concurrently; each session owns its screen
func (l *Loop) project() error {
	var g errgroup.Group
	for i, s := range l.sessions {
		g.Go(func() error {
			defer core.Recover()
			if err := s.Project(); err != nil {
				return fmt.Errorf("session %d: %w", i, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// handle dispatches one event and reports quit
func (l *Loop) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		in := l.keys.Map(ev)
		if l.seq.Feed(in) {
			l.unlock()
		}

		switch in.Type {
		case input.IntentQuit:
			return true
		case input.IntentSelect:
			l.SetFocus(in.Screen)
		case input.IntentArrow, input.IntentNone:
		default:
			l.sessions[l.focus].Apply(in, l.cfg.Factors)
		}

	case *tcell.EventResize:
		l.display.Sync()
		l.resync = true
	}
	return false
}

// SetFocus moves focus to index n; indices without a session are ignored
func (l *Loop) SetFocus(n int) bool {
	if n < 0 || n >= len(l.sessions) || n == l.focus {
		return false
	}

	prev := l.focus
	l.focus = n
	l.drawBorder(prev)
	l.drawBorder(n)

	if l.cues != nil {
		l.cues.PlayFocus()
	}
	log.Printf("[loop] focus %d -> %d", prev, n)
	return true
}

func (l *Loop) unlock() {
	if l.store != nil {
		l.store.SetShowIntro(true)
	}
	l.display.Status(UnlockMessage)
	if l.cues != nil {
		l.cues.PlayUnlock()
	}
	log.Printf("[loop] intro re-enabled")
}

func (l *Loop) drawBorders() {
	for i := range l.sessions {
		l.drawBorder(i)
	}
}

func (l *Loop) drawBorder(i int) {
	style := l.cfg.BorderStyle
	if i == l.focus {
		style = l.cfg.FocusStyle
	}
	area := l.sessions[i].Screen().Area()
	l.display.DrawStyled(style, func(w core.CellWriter) {
		render.DrawBorder(w, area)
	})
}

// IsRangeError reports whether err came from a cube point leaving its screen
func IsRangeError(err error) bool {
	return errors.Is(err, core.ErrOutOfRange)
}

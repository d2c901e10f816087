package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(48000)

	focusFreq     = 880.0
	focusDuration = 60 * time.Millisecond

	unlockStep = 90 * time.Millisecond
)

// unlockNotes is a rising arpeggio
var unlockNotes = []float64{523.25, 659.25, 783.99, 1046.50}

// SoundManager plays short interface cues through one speaker mixer
// Every Play method is a no-op until Initialize succeeds
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

// NewSoundManager creates a silent sound manager
func NewSoundManager() *SoundManager {
	return &SoundManager{mixer: &beep.Mixer{}}
}

// Initialize opens the speaker; safe to call twice
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup silences the mixer
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	sm.initialized = false
}

// PlayFocus plays a short blip when the focused screen changes
func (sm *SoundManager) PlayFocus() {
	sm.play(FocusCue())
}

// PlayUnlock plays the arpeggio for the completed arrow combo
func (sm *SoundManager) PlayUnlock() {
	sm.play(UnlockCue())
}

func (sm *SoundManager) play(s beep.Streamer) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
}

// FocusCue returns the finite focus blip stream
func FocusCue() beep.Streamer {
	return beep.Take(sampleRate.N(focusDuration), NewToneGenerator(sampleRate, focusFreq, focusDuration))
}

// UnlockCue returns the finite unlock arpeggio stream
func UnlockCue() beep.Streamer {
	notes := make([]beep.Streamer, 0, len(unlockNotes))
	for _, f := range unlockNotes {
		notes = append(notes, beep.Take(sampleRate.N(unlockStep), NewToneGenerator(sampleRate, f, unlockStep)))
	}
	return beep.Seq(notes...)
}

// ToneGenerator generates a sine tone with a linear attack and exponential release
type ToneGenerator struct {
	sr     beep.SampleRate
	freq   float64
	length int
	pos    int
}

// NewToneGenerator creates a tone shaped to fade out over d
func NewToneGenerator(sr beep.SampleRate, freq float64, d time.Duration) *ToneGenerator {
	return &ToneGenerator{sr: sr, freq: freq, length: max(1, sr.N(d))}
}

func (g *ToneGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	attack := float64(g.sr.N(5 * time.Millisecond))
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		progress := float64(g.pos) / float64(g.length)

		envelope := math.Min(float64(g.pos)/attack, 1.0) * math.Exp(-4*progress)
		sample := 0.2 * envelope * math.Sin(2*math.Pi*g.freq*t)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *ToneGenerator) Err() error {
	return nil
}

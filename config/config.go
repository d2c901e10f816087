package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"math"
	"os"
	"time"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/multicube/core"
	"github.com/lixenwraith/multicube/engine"
	"github.com/lixenwraith/multicube/render"
	"github.com/lixenwraith/multicube/toml"
)

// Config is the full runtime configuration
type Config struct {
	Render  RenderConfig  `toml:"render"`
	Control ControlConfig `toml:"control"`
	Loop    LoopConfig    `toml:"loop"`
	Style   StyleConfig   `toml:"style"`
	Audio   AudioConfig   `toml:"audio"`
}

type RenderConfig struct {
	Zoom          float64 `toml:"zoom"`
	FOV           float64 `toml:"fov"`
	NearThreshold float64 `toml:"near_threshold"`
	NearGlyph     string  `toml:"near_glyph"`
	FarGlyph      string  `toml:"far_glyph"`
	OutOfRange    string  `toml:"out_of_range"` // "error" or "skip"
}

type ControlConfig struct {
	BaseSpeed  float64 `toml:"base_speed"` // Degrees per key press
	AutoSpeed  float64 `toml:"auto_speed"` // Per-frame ceiling of each auto-rotation step
	MaxScreens int     `toml:"max_screens"`
}

type LoopConfig struct {
	MinFrameMS int `toml:"min_frame_ms"`
}

// StyleConfig holds colors as #rrggbb
type StyleConfig struct {
	CubeColor   string `toml:"cube_color"`
	BorderColor string `toml:"border_color"`
	FocusColor  string `toml:"focus_color"`
}

type AudioConfig struct {
	Enabled bool `toml:"enabled"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Render: RenderConfig{
			Zoom:          render.DefaultZoom,
			FOV:           render.DefaultFOV,
			NearThreshold: render.NearThreshold,
			NearGlyph:     string(render.NearGlyph),
			FarGlyph:      string(render.FarGlyph),
			OutOfRange:    render.PolicyStrict.String(),
		},
		Control: ControlConfig{
			BaseSpeed:  6,
			AutoSpeed:  5,
			MaxScreens: engine.MaxScreens,
		},
		Loop: LoopConfig{
			MinFrameMS: int(engine.DefaultMinFrame / time.Millisecond),
		},
		Style: StyleConfig{
			CubeColor:   "#d0d0d0",
			BorderColor: "#606060",
			FocusColor:  "#ffaf00",
		},
		Audio: AudioConfig{Enabled: true},
	}
}

// Load reads path over the defaults; a missing file yields the defaults
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("[config] %s not found, using defaults", path)
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), &core.ConfigError{Field: path, Reason: err.Error()}
	}
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Validate checks every field; the first violation is returned as *core.ConfigError
func (c Config) Validate() error {
	r := c.Render
	switch {
	case !(r.Zoom > 0):
		return &core.ConfigError{Field: "render.zoom", Reason: "must be positive"}
	case !(r.FOV > math.Sqrt(3)):
		// Below sqrt(3) a rotated corner can sit on or behind the projection plane
		return &core.ConfigError{Field: "render.fov", Reason: "must exceed sqrt(3)"}
	case math.IsNaN(r.NearThreshold):
		return &core.ConfigError{Field: "render.near_threshold", Reason: "must be a number"}
	}
	if err := checkGlyph("render.near_glyph", r.NearGlyph); err != nil {
		return err
	}
	if err := checkGlyph("render.far_glyph", r.FarGlyph); err != nil {
		return err
	}
	if _, err := render.ParsePolicy(r.OutOfRange); err != nil {
		return &core.ConfigError{Field: "render.out_of_range", Reason: err.Error()}
	}

	ctl := c.Control
	switch {
	case !(ctl.BaseSpeed > 0):
		return &core.ConfigError{Field: "control.base_speed", Reason: "must be positive"}
	case !(ctl.AutoSpeed >= 0):
		return &core.ConfigError{Field: "control.auto_speed", Reason: "must not be negative"}
	case ctl.MaxScreens < 1 || ctl.MaxScreens > engine.MaxScreens:
		return &core.ConfigError{Field: "control.max_screens", Reason: fmt.Sprintf("must be in 1..%d", engine.MaxScreens)}
	case c.Loop.MinFrameMS < 0:
		return &core.ConfigError{Field: "loop.min_frame_ms", Reason: "must not be negative"}
	}

	for field, hex := range map[string]string{
		"style.cube_color":   c.Style.CubeColor,
		"style.border_color": c.Style.BorderColor,
		"style.focus_color":  c.Style.FocusColor,
	} {
		if _, err := ParseColor(hex); err != nil {
			return &core.ConfigError{Field: field, Reason: err.Error()}
		}
	}

	if !render.FitsScreen(r.Zoom, r.FOV) {
		log.Printf("[config] zoom %.2f with fov %.2f can leave the screen at some rotations", r.Zoom, r.FOV)
	}
	return nil
}

func checkGlyph(field, s string) error {
	if utf8.RuneCountInString(s) != 1 {
		return &core.ConfigError{Field: field, Reason: "must be a single character"}
	}
	if runewidth.StringWidth(s) != 1 {
		return &core.ConfigError{Field: field, Reason: "must occupy one terminal cell"}
	}
	return nil
}

// Glyphs returns the depth glyph set
func (c Config) Glyphs() render.Glyphs {
	near, _ := utf8.DecodeRuneInString(c.Render.NearGlyph)
	far, _ := utf8.DecodeRuneInString(c.Render.FarGlyph)
	return render.Glyphs{Near: near, Far: far, Threshold: c.Render.NearThreshold}
}

// Policy returns the out-of-range policy; Validate guarantees it parses
func (c Config) Policy() render.Policy {
	p, _ := render.ParsePolicy(c.Render.OutOfRange)
	return p
}

func (c Config) MinFrame() time.Duration {
	return time.Duration(c.Loop.MinFrameMS) * time.Millisecond
}

func (c Config) Factors() engine.Factors {
	return engine.NewFactors(c.Control.BaseSpeed, c.Control.AutoSpeed)
}

// Styles returns the cube, border and focused border styles
func (c Config) Styles() (cube, border, focus tcell.Style) {
	base := tcell.StyleDefault
	return base.Foreground(colorOrDefault(c.Style.CubeColor)),
		base.Foreground(colorOrDefault(c.Style.BorderColor)),
		base.Foreground(colorOrDefault(c.Style.FocusColor)).Bold(true)
}

// ParseColor converts #rrggbb to a terminal color
func ParseColor(hex string) (tcell.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return tcell.ColorDefault, err
	}
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b)), nil
}

func colorOrDefault(hex string) tcell.Color {
	c, err := ParseColor(hex)
	if err != nil {
		return tcell.ColorDefault
	}
	return c
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/multicube/audio"
	"github.com/lixenwraith/multicube/config"
	"github.com/lixenwraith/multicube/core"
	"github.com/lixenwraith/multicube/engine"
	"github.com/lixenwraith/multicube/render"
	"github.com/lixenwraith/multicube/settings"
)

// options are the parsed command-line flags
type options struct {
	skipResize   bool
	configPath   string
	settingsPath string
	seed         int64
	debug        bool
	width        int
	height       int
}

// parseFlags parses args; flag.ErrHelp is returned for -help
func parseFlags(args []string, out io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("multicube", flag.ContinueOnError)
	fs.SetOutput(out)

	fs.BoolVar(&opts.skipResize, "skip-resize", false, "Skip the resize prompt")
	fs.StringVar(&opts.configPath, "config", "multicube.toml", "Path to the configuration file")
	fs.StringVar(&opts.settingsPath, "settings", "", "Path to the persisted settings (default ~/.multicube/settings.toml)")
	fs.Int64Var(&opts.seed, "seed", 0, "Auto-rotation seed (0 seeds from the clock)")
	fs.BoolVar(&opts.debug, "debug", false, "Write logs to "+logDir+"/"+logFileName)
	fs.IntVar(&opts.width, "width", 0, "Canvas width (0 or out of range uses the terminal width)")
	fs.IntVar(&opts.height, "height", 0, "Canvas height (0 or out of range uses the terminal height)")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	opts.settingsPath = settings.ExpandPath(opts.settingsPath)
	return opts, nil
}

// canvasSize applies the -width/-height overrides when they fit the terminal
func canvasSize(termW, termH, width, height int) (int, int) {
	w, h := termW, termH
	if width > 0 && width <= termW {
		w = width
	}
	if height > 0 && height <= termH {
		h = height
	}
	return w, h
}

func main() {
	// Panic recovery: the crash handler restores the terminal before reporting
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := parseFlags(args, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		return 1
	}

	if logFile := setupLogging(opts.debug); logFile != nil {
		defer logFile.Close()
	}
	if opts.settingsPath == "" {
		opts.settingsPath = settings.DefaultPath()
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		return 1
	}
	store := settings.Open(opts.settingsPath)
	cubeStyle, borderStyle, focusStyle := cfg.Styles()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create terminal: %v\n", err)
		return 1
	}
	term := render.NewTerminal(screen, cubeStyle)
	if err := term.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		return 1
	}
	defer term.Fini()
	core.SetCrashFinalizer(term.Fini)
	term.StartEvents()

	if !opts.skipResize && !waitForResize(term) {
		return 0
	}
	if store.ShowIntro() && !runIntro(term, store) {
		return 0
	}

	termW, termH := term.Size()
	w, h := canvasSize(termW, termH, opts.width, opts.height)
	sessions, err := buildSessions(cfg, w, h)
	if err != nil {
		term.Fini()
		fmt.Fprintf(os.Stderr, "Cannot lay out screens: %v\n", err)
		return 1
	}

	var cues engine.Cues
	if cfg.Audio.Enabled {
		sm := audio.NewSoundManager()
		if err := sm.Initialize(); err != nil {
			log.Printf("[main] audio unavailable: %v", err)
		}
		defer sm.Cleanup()
		cues = sm
	}

	seed := opts.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log.Printf("[main] canvas %dx%d, %d screens, seed %d", w, h, len(sessions), seed)

	loop, err := engine.NewLoop(sessions, term, term, engine.LoopConfig{
		MinFrame:    cfg.MinFrame(),
		Factors:     cfg.Factors(),
		BorderStyle: borderStyle,
		FocusStyle:  focusStyle,
	}, engine.LoopOptions{
		Settings: store,
		Cues:     cues,
		Rand:     rand.New(rand.NewSource(seed)),
	})
	if err != nil {
		term.Fini()
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := loop.Run(ctx); err != nil {
		log.Printf("[main] frame failure: %v", err)
		term.Fini()
		reportFailure(os.Stderr, err)
		return 1
	}
	return 0
}

// reportFailure writes the fatal frame error to the crash log and tells the user where it went
func reportFailure(out io.Writer, err error) {
	if engine.IsRangeError(err) {
		fmt.Fprintf(out, "A cube left its screen (try out_of_range = \"skip\" or a larger fov): %v\n", err)
	} else {
		fmt.Fprintf(out, "Render failed: %v\n", err)
	}
	if path := core.ReportFault(err); path != "" {
		fmt.Fprintf(out, "Details written to %s\n", path)
	}
}

// buildSessions partitions the canvas and pairs every region with a sized cube
func buildSessions(cfg config.Config, width, height int) ([]*engine.Session, error) {
	areas, err := engine.Partition(width, height, cfg.Control.MaxScreens)
	if err != nil {
		return nil, err
	}

	sessions := make([]*engine.Session, 0, len(areas))
	for i, a := range areas {
		vs, err := core.NewVirtualScreenIn(a, width, height)
		if err != nil {
			return nil, fmt.Errorf("screen %d: %w", i, err)
		}
		cube, err := render.NewCubeFor(a.Width, a.Height, cfg.Render.Zoom, cfg.Render.FOV, cfg.Glyphs(), cfg.Policy())
		if err != nil {
			return nil, fmt.Errorf("cube %d: %w", i, err)
		}
		sessions = append(sessions, engine.NewSession(vs, cube, cfg.Control.AutoSpeed))
	}
	return sessions, nil
}

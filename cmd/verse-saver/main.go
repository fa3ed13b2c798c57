package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/lixenwraith/verse-saver/audio"
	"github.com/lixenwraith/verse-saver/constant"
	"github.com/lixenwraith/verse-saver/core"
	"github.com/lixenwraith/verse-saver/engine"
	"github.com/lixenwraith/verse-saver/physics"
	"github.com/lixenwraith/verse-saver/verse"
	"github.com/lixenwraith/verse-saver/window"
)

// CLI holds command-line flags; any flag may also come from the JSON config file
type CLI struct {
	Bible      string        `name:"bible" short:"b" type:"path" env:"VERSE_SAVER_BIBLE" default:"${bible}" help:"Verse corpus: text, .xz, SQLite or Zefania XML"`
	Surface    string        `name:"surface" short:"s" enum:"auto,terminal,x11,window,text" default:"auto" help:"Display surface (${enum})"`
	LineLength int           `name:"line-length" default:"${line_length}" help:"Wrap budget in characters"`
	Duration   time.Duration `name:"duration" short:"d" default:"${duration}" help:"Time each verse stays on screen"`
	Frame      time.Duration `name:"frame" default:"${frame}" help:"Delay between frames"`
	Step       int           `name:"step" default:"-1" help:"Movement per frame, -1 uses the surface default"`
	Padding    int           `name:"padding" default:"-1" help:"Line padding, -1 uses the surface default"`
	FontSize   float64       `name:"font-size" default:"${font_size}" help:"Font size as a percentage of surface width"`
	Placement  string        `name:"placement" enum:"block,surface" default:"block" help:"Initial position range (${enum})"`
	Seed       uint64        `name:"seed" help:"Random seed, 0 seeds from the clock"`
	Chime      bool          `name:"chime" help:"Ring a chime on corner bounces"`
	Once       bool          `name:"once" help:"Show a single verse and exit"`
	Debug      bool          `name:"debug" help:"Write debug logs to logs/verse-saver.log"`
}

func newParser(cli *CLI, configPaths ...string) (*kong.Kong, error) {
	return kong.New(cli,
		kong.Name("verse-saver"),
		kong.Description("Screensaver that bounces a random scripture verse around the screen"),
		kong.UsageOnError(),
		kong.Vars{
			"bible":       constant.DefaultBiblePath,
			"line_length": strconv.Itoa(constant.DefaultLineLength),
			"duration":    constant.DefaultDuration.String(),
			"frame":       constant.DefaultFrameInterval.String(),
			"font_size":   strconv.FormatFloat(constant.DefaultFontSizePercent, 'f', -1, 64),
		},
		kong.Configuration(kong.JSON, configPaths...),
	)
}

func main() {
	// Panic Recovery: registered surface is restored before the trace prints
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	var cli CLI
	parser, err := newParser(&cli, constant.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "verse-saver: %v\n", err)
		os.Exit(1)
	}
	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	logFile, logger := setupLogging(cli.Debug)

	// xscreensaver stops hacks with SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, &cli, logger, os.Stdout, os.Getenv)
	stop()

	if err != nil {
		logger.Error("verse-saver failed", "err", err)
	}
	if logFile != nil {
		logFile.Close()
	}
	kctx.FatalIfErrorf(err)
}

// run selects the first verse, acquires a surface and animates until stopped
func run(ctx context.Context, cli *CLI, logger *log.Logger, out io.Writer, getenv func(string) string) error {
	placement, err := physics.ParsePlacement(cli.Placement)
	if err != nil {
		return err
	}

	var rng core.Rand = core.NewRand()
	if cli.Seed != 0 {
		rng = core.NewSeededRand(cli.Seed)
	}

	// Corpus problems are fatal before any surface touches the display
	first, err := verse.SelectFile(cli.Bible, cli.LineLength, rng)
	if err != nil {
		return err
	}
	logger.Debug("corpus ready", "path", cli.Bible, "first", first.Entry.Reference())

	selector := nextVerse(first, func() (verse.Formatted, error) {
		return verse.SelectFile(cli.Bible, cli.LineLength, rng)
	})

	for _, kind := range surfaceCandidates(cli.Surface, getenv) {
		if kind == surfaceText {
			return printVerse(out, first)
		}

		cfg := buildConfig(cli, kind, placement)
		if err := cfg.Validate(); err != nil {
			return err
		}

		h, err := openHost(kind, cfg, logger)
		if err != nil {
			logger.Warn("surface unavailable", "surface", kind, "err", err)
			continue
		}
		logger.Info("surface acquired", "surface", kind)

		// The window is only known to be usable once its game loop starts
		err = animate(ctx, cli, cfg, h, rng, logger, selector)
		if errors.Is(err, window.ErrNoWindow) {
			logger.Warn("surface unavailable", "surface", kind, "err", err)
			continue
		}
		return err
	}
	return nil
}

func animate(ctx context.Context, cli *CLI, cfg engine.Config, h host, rng core.Rand, logger *log.Logger, selector engine.Selector) error {
	core.SetCrashSurface(h)
	defer core.SetCrashSurface(nil)
	defer h.Fini()

	opts := []engine.Option{engine.WithRand(rng), engine.WithLogger(logger)}
	if cli.Chime {
		chime := audio.NewChime()
		if err := chime.Initialize(); err != nil {
			logger.Warn("chime disabled", "err", err)
		} else {
			defer chime.Cleanup()
			opts = append(opts, engine.WithCornerHook(chime.Play))
		}
	}

	animator := engine.New(h, cfg, opts...)
	return h.Host(ctx, func(ctx context.Context) error {
		if cli.Once {
			return animator.Run(ctx, selector)
		}
		return animator.Loop(ctx, selector)
	})
}

// nextVerse yields first once, then defers to sel
func nextVerse(first verse.Formatted, sel engine.Selector) engine.Selector {
	used := false
	return func() (verse.Formatted, error) {
		if !used {
			used = true
			return first, nil
		}
		return sel()
	}
}

// buildConfig applies flags over the surface's defaults
func buildConfig(cli *CLI, kind string, placement physics.Placement) engine.Config {
	cfg := engine.DefaultConfig()
	if kind == surfaceTerminal {
		cfg.Step = constant.TerminalStep
		cfg.Padding = constant.TerminalPadding
	}
	if cli.Step >= 0 {
		cfg.Step = cli.Step
	}
	if cli.Padding >= 0 {
		cfg.Padding = cli.Padding
	}
	cfg.LineLength = cli.LineLength
	cfg.Duration = cli.Duration
	cfg.FrameInterval = cli.Frame
	cfg.FontSizePercent = cli.FontSize
	cfg.Placement = placement
	return cfg
}

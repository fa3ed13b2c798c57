// Package engine drives the verse bounce animation on a display surface
package engine

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/lixenwraith/verse-saver/constant"
	"github.com/lixenwraith/verse-saver/core"
	"github.com/lixenwraith/verse-saver/physics"
	"github.com/lixenwraith/verse-saver/verse"
)

// Selector supplies the verse for each cycle
type Selector func() (verse.Formatted, error)

// Animator bounces one verse at a time around a surface
type Animator struct {
	surface  Surface
	cfg      Config
	rng      core.Rand
	clock    Clock
	logger   *log.Logger
	onCorner func()
}

// Option customises an Animator
type Option func(*Animator)

// WithRand replaces the random source used for placement and corner bounces
func WithRand(rng core.Rand) Option {
	return func(a *Animator) { a.rng = rng }
}

// WithClock replaces the wall clock
func WithClock(c Clock) Option {
	return func(a *Animator) { a.clock = c }
}

// WithLogger attaches a logger; the default discards output
func WithLogger(l *log.Logger) Option {
	return func(a *Animator) { a.logger = l }
}

// WithCornerHook registers fn to run on every corner bounce
func WithCornerHook(fn func()) Option {
	return func(a *Animator) { a.onCorner = fn }
}

// New creates an animator; cfg is assumed to have passed Validate
func New(surface Surface, cfg Config, opts ...Option) *Animator {
	a := &Animator{
		surface: surface,
		cfg:     cfg,
		rng:     core.NewRand(),
		clock:   SystemClock{},
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// layout is the measured geometry of one verse block
type layout struct {
	textWidth   int
	lineHeight  int
	blockHeight int
}

func (a *Animator) measure(lines []string) (layout, error) {
	var l layout
	maxHeight := 0
	for _, line := range lines {
		w, h, err := a.surface.Measure(line)
		if err != nil {
			return layout{}, surfaceErr("measure", err)
		}
		l.textWidth = max(l.textWidth, w)
		maxHeight = max(maxHeight, h)
	}
	l.lineHeight = maxHeight + a.cfg.Padding
	l.blockHeight = (l.lineHeight + a.cfg.Padding) * len(lines)
	return l, nil
}

// Run shows one verse for cfg.Duration, then returns.
// Duration is checked once per frame, so a frame in progress always completes.
// Cancelling ctx ends the cycle early without error; surface failures are
// returned as *SurfaceError and selection errors unchanged.
func (a *Animator) Run(ctx context.Context, sel Selector) error {
	v, err := sel()
	if err != nil {
		return err
	}
	lines := v.Lines()

	geo, err := a.measure(lines)
	if err != nil {
		return err
	}

	width, height := a.surface.Bounds()
	state := physics.NewState(
		physics.Size{W: width, H: height},
		physics.Size{W: geo.textWidth, H: geo.blockHeight},
		a.cfg.Placement,
		a.rng,
	)

	a.logger.Debug("verse cycle",
		"ref", v.Entry.Reference(),
		"lines", len(lines),
		"block", [2]int{geo.textWidth, geo.blockHeight},
		"bounds", [2]int{width, height},
		"start", [2]int{state.X, state.Y},
		"dir", state.Dir,
	)

	start := a.clock.Now()
	frames := 0
	for a.clock.Now().Sub(start) < a.cfg.Duration {
		if ctx.Err() != nil {
			break
		}

		for i, line := range lines {
			if err := a.surface.DrawText(state.X, state.Y+geo.lineHeight*i, line, i); err != nil {
				return surfaceErr("draw", err)
			}
		}
		if err := a.surface.Flush(); err != nil {
			return surfaceErr("flush", err)
		}

		cancelled := false
		select {
		case <-ctx.Done():
			cancelled = true
		case <-a.clock.After(a.cfg.FrameInterval):
		}

		margin := state.Bounds.W / constant.ClearMarginDivisor
		if err := a.surface.ClearRegion(state.X, state.Y, geo.textWidth+a.cfg.Step+margin, geo.blockHeight+margin); err != nil {
			return surfaceErr("clear", err)
		}
		frames++
		if cancelled {
			break
		}

		// Surfaces may be resized between frames
		width, height = a.surface.Bounds()
		state.Bounds = physics.Size{W: width, H: height}

		if state.Tick(a.cfg.Step, a.rng) == physics.BounceCorner {
			a.logger.Debug("corner bounce", "pos", [2]int{state.X, state.Y}, "dir", state.Dir)
			if a.onCorner != nil {
				a.onCorner()
			}
		}
	}

	if err := a.surface.Flush(); err != nil {
		return surfaceErr("flush", err)
	}
	a.logger.Debug("verse cycle done", "ref", v.Entry.Reference(), "frames", frames)
	return nil
}

// Loop runs verse cycles until ctx is cancelled or a cycle fails
func (a *Animator) Loop(ctx context.Context, sel Selector) error {
	for ctx.Err() == nil {
		if err := a.Run(ctx, sel); err != nil {
			return err
		}
	}
	return nil
}

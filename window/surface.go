// Package window renders the screensaver in a desktop window through Ebitengine.
//
// Ebitengine owns the main goroutine, so Run starts the animation on a
// separate goroutine and blocks in the game loop until either side finishes.
package window

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/lixenwraith/verse-saver/constant"
	"github.com/lixenwraith/verse-saver/core"
)

// ErrNoWindow is returned by Run when the game loop fails before its first frame,
// typically because no display is available
var ErrNoWindow = errors.New("window could not be opened")

// runGame is swapped in tests that have no display
var runGame = ebiten.RunGame

// Surface is an Ebitengine backed display surface
type Surface struct {
	face        *text.GoTextFace
	lineSpacing float64
	logger      *log.Logger

	canvas canvas

	mu            sync.Mutex
	width, height int
}

// Options configures New
type Options struct {
	Width, Height int
	// FontSize maps the window width to a pixel font size
	FontSize func(width int) float64
	Logger   *log.Logger
}

// New loads the Go Regular face sized for the initial window width
func New(opts Options) (*Surface, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = constant.FallbackWindowWidth, constant.FallbackWindowHeight
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	source, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("load window font: %w", err)
	}

	size := 24.0
	if opts.FontSize != nil {
		size = opts.FontSize(opts.Width)
	}
	face := &text.GoTextFace{Source: source, Size: size}
	m := face.Metrics()

	return &Surface{
		face:        face,
		lineSpacing: m.HAscent + m.HDescent + m.HLineGap,
		logger:      logger,
		width:       opts.Width,
		height:      opts.Height,
	}, nil
}

// Run opens the window and calls fn on its own goroutine.
// The window closes when fn returns; closing the window, a key press or a
// click cancels the context passed to fn. A game loop that fails before its
// first frame is reported as ErrNoWindow.
func (s *Surface) Run(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var fnErr error
	done := make(chan struct{})
	core.Go(func() {
		defer close(done)
		defer cancel()
		fnErr = fn(ctx)
	})

	w, h := s.Bounds()
	ebiten.SetWindowTitle(constant.WindowTitle)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	g := &game{surface: s, ctx: ctx, cancel: cancel}
	runErr := runGame(g)
	cancel()
	<-done

	if runErr != nil && !errors.Is(runErr, ebiten.Termination) {
		if !g.started.Load() {
			return fmt.Errorf("%w: %w", ErrNoWindow, runErr)
		}
		return fmt.Errorf("window game loop: %w", runErr)
	}
	return fnErr
}

// Fini is a no-op; the window is torn down when Run returns
func (s *Surface) Fini() {}

func (s *Surface) Bounds() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

func (s *Surface) resize(width, height int) {
	s.mu.Lock()
	s.width, s.height = width, height
	s.mu.Unlock()
}

func (s *Surface) Measure(line string) (int, int, error) {
	w, h := text.Measure(line, s.face, s.lineSpacing)
	return int(math.Ceil(w)), int(math.Ceil(h)), nil
}

func (s *Surface) DrawText(x, y int, line string, index int) error {
	s.canvas.draw(x, y, line)
	return nil
}

func (s *Surface) ClearRegion(x, y, width, height int) error {
	s.canvas.clear(x, y, width, height)
	return nil
}

// Flush makes the current draw list visible from the next game frame
func (s *Surface) Flush() error {
	s.canvas.publish()
	return nil
}

// game adapts the surface to ebiten.Game
type game struct {
	surface *Surface
	ctx     context.Context
	cancel  context.CancelFunc
	started atomic.Bool
}

func (g *game) Update() error {
	g.started.Store(true)
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	if len(inpututil.AppendJustPressedKeys(nil)) > 0 ||
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) ||
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		g.surface.logger.Debug("input received, closing window")
		g.cancel()
		return ebiten.Termination
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	for _, op := range g.surface.canvas.snapshot() {
		opts := &text.DrawOptions{}
		opts.GeoM.Translate(float64(op.x), float64(op.y))
		opts.ColorScale.ScaleWithColor(color.White)
		text.Draw(screen, op.line, g.surface.face, opts)
	}
}

// Layout tracks the outside size so the bounce follows window resizes
func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.surface.resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

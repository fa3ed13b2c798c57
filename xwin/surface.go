// Package xwin renders the screensaver with core X11 fonts over jezek/xgb.
//
// Inside xscreensaver the hack draws into the window named by
// XSCREENSAVER_WINDOW; otherwise it opens its own window.
package xwin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"github.com/lixenwraith/verse-saver/constant"
	"github.com/lixenwraith/verse-saver/core"
)

// ErrNoDisplay is returned when no X server can be reached
var ErrNoDisplay = errors.New("no X display")

// EnvWindow names the variable xscreensaver uses to hand over its window
const EnvWindow = "XSCREENSAVER_WINDOW"

// maxText8 is the longest string a single ImageText8 request carries
const maxText8 = 255

// Surface draws into an X11 window
type Surface struct {
	conn   *xgb.Conn
	proto  protocol
	win    xproto.Window
	gc     xproto.Gcontext
	font   xproto.Font
	ascent int
	owned  bool
	logger *log.Logger

	mu            sync.Mutex
	width, height int
	// asyncErr holds the first protocol error delivered on the event queue
	asyncErr error

	finiOnce sync.Once
}

// Options configures Open
type Options struct {
	// FontSize maps the window width to a pixel font size
	FontSize func(width int) float64
	Logger   *log.Logger
}

// WindowFromEnv parses an XSCREENSAVER_WINDOW value such as "0x2a00007"
func WindowFromEnv(value string) (xproto.Window, bool) {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return 0, false
	}
	id := strings.TrimPrefix(strings.TrimPrefix(fields[0], "0x"), "0X")
	n, err := strconv.ParseUint(id, 16, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return xproto.Window(n), true
}

// Open connects to $DISPLAY and prepares a window, font and graphics context
func Open(opts Options) (*Surface, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoDisplay, err)
	}
	screen := xproto.Setup(conn).DefaultScreen(conn)

	s := &Surface{conn: conn, proto: xconn{conn}, logger: logger}

	if win, ok := WindowFromEnv(os.Getenv(EnvWindow)); ok {
		s.win = win
		logger.Debug("using xscreensaver window", "id", fmt.Sprintf("0x%x", uint32(win)))
	} else if err := s.createWindow(screen); err != nil {
		conn.Close()
		return nil, err
	}

	geom, err := xproto.GetGeometry(conn, xproto.Drawable(s.win)).Reply()
	if err != nil {
		s.Fini()
		return nil, fmt.Errorf("query window geometry: %w", err)
	}
	s.width, s.height = int(geom.Width), int(geom.Height)

	size := 0.0
	if opts.FontSize != nil {
		size = opts.FontSize(s.width)
	}
	if err := s.loadFont(size); err != nil {
		s.Fini()
		return nil, err
	}

	gc, err := xproto.NewGcontextId(conn)
	if err != nil {
		s.Fini()
		return nil, fmt.Errorf("allocate graphics context: %w", err)
	}
	// Value list follows mask bit order: foreground, background, font
	mask := uint32(xproto.GcForeground | xproto.GcBackground | xproto.GcFont)
	values := []uint32{screen.WhitePixel, screen.BlackPixel, uint32(s.font)}
	if err := xproto.CreateGCChecked(conn, gc, xproto.Drawable(s.win), mask, values).Check(); err != nil {
		s.Fini()
		return nil, fmt.Errorf("create graphics context: %w", err)
	}
	s.gc = gc

	if err := xproto.ClearAreaChecked(conn, false, s.win, 0, 0, 0, 0).Check(); err != nil {
		s.Fini()
		return nil, fmt.Errorf("clear window: %w", err)
	}
	return s, nil
}

func (s *Surface) createWindow(screen *xproto.ScreenInfo) error {
	win, err := xproto.NewWindowId(s.conn)
	if err != nil {
		return fmt.Errorf("allocate window: %w", err)
	}

	err = xproto.CreateWindowChecked(s.conn, screen.RootDepth, win, screen.Root,
		0, 0, constant.FallbackWindowWidth, constant.FallbackWindowHeight, 0,
		xproto.WindowClassInputOutput, screen.RootVisual,
		xproto.CwBackPixel|xproto.CwEventMask,
		[]uint32{
			screen.BlackPixel,
			xproto.EventMaskKeyPress | xproto.EventMaskButtonPress | xproto.EventMaskStructureNotify,
		}).Check()
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}

	title := constant.WindowTitle
	xproto.ChangeProperty(s.conn, xproto.PropModeReplace, win, xproto.AtomWmName, xproto.AtomString,
		8, uint32(len(title)), []byte(title))

	if err := xproto.MapWindowChecked(s.conn, win).Check(); err != nil {
		xproto.DestroyWindow(s.conn, win)
		return fmt.Errorf("map window: %w", err)
	}

	s.win = win
	s.owned = true
	return nil
}

// fontPatterns lists core fonts to try, sized patterns first
func fontPatterns(pixelSize int) []string {
	var patterns []string
	if pixelSize > 0 {
		patterns = append(patterns,
			fmt.Sprintf("-*-helvetica-medium-r-normal--%d-*-*-*-*-*-iso8859-1", pixelSize),
			fmt.Sprintf("-*-fixed-medium-r-*-*-%d-*-*-*-*-*-iso8859-1", pixelSize),
		)
	}
	return append(patterns,
		"-misc-fixed-medium-r-normal--20-200-75-75-c-100-iso8859-1",
		"10x20",
		"9x15",
		"fixed",
	)
}

func (s *Surface) loadFont(size float64) error {
	fid, err := xproto.NewFontId(s.conn)
	if err != nil {
		return fmt.Errorf("allocate font: %w", err)
	}

	var openErr error
	for _, pattern := range fontPatterns(int(math.Round(size))) {
		openErr = xproto.OpenFontChecked(s.conn, fid, uint16(len(pattern)), pattern).Check()
		if openErr == nil {
			s.logger.Debug("opened font", "pattern", pattern)
			break
		}
	}
	if openErr != nil {
		return fmt.Errorf("open font: %w", openErr)
	}
	s.font = fid

	info, err := xproto.QueryFont(s.conn, xproto.Fontable(fid)).Reply()
	if err != nil {
		return fmt.Errorf("query font: %w", err)
	}
	s.ascent = int(info.FontAscent)
	return nil
}

// Watch returns a context cancelled on key or button press, or when the connection drops
func (s *Surface) Watch(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	core.Go(func() {
		defer cancel()
		for {
			ev, xerr := s.conn.WaitForEvent()
			if ev == nil && xerr == nil {
				return
			}
			if xerr != nil {
				s.logger.Warn("x11 error", "err", xerr)
				s.recordErr(xerr)
				continue
			}
			switch ev := ev.(type) {
			case xproto.KeyPressEvent, xproto.ButtonPressEvent:
				return
			case xproto.ConfigureNotifyEvent:
				s.mu.Lock()
				s.width, s.height = int(ev.Width), int(ev.Height)
				s.mu.Unlock()
			}
		}
	})

	return ctx, cancel
}

// Fini releases server resources and closes the connection
func (s *Surface) Fini() {
	s.finiOnce.Do(func() {
		if s.gc != 0 {
			xproto.FreeGC(s.conn, s.gc)
		}
		if s.font != 0 {
			xproto.CloseFont(s.conn, s.font)
		}
		if s.owned {
			xproto.DestroyWindow(s.conn, s.win)
		}
		s.conn.Close()
	})
}

func (s *Surface) Bounds() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

func (s *Surface) Measure(line string) (int, int, error) {
	w, h, err := s.proto.textExtents(s.font, text8(line))
	if err != nil {
		return 0, 0, fmt.Errorf("query text extents: %w", err)
	}
	return w, h, nil
}

// DrawText draws with the baseline one ascent below y
func (s *Surface) DrawText(x, y int, line string, index int) error {
	if err := s.proto.imageText(s.win, s.gc, clamp16(x), clamp16(y+s.ascent), text8(line)); err != nil {
		return fmt.Errorf("draw text: %w", err)
	}
	return nil
}

func (s *Surface) ClearRegion(x, y, width, height int) error {
	// A zero extent clears to the window edge in X11
	if width <= 0 || height <= 0 {
		return nil
	}
	err := s.proto.clearArea(s.win, clamp16(x), clamp16(y),
		uint16(min(width, math.MaxUint16)), uint16(min(height, math.MaxUint16)))
	if err != nil {
		return fmt.Errorf("clear area: %w", err)
	}
	return nil
}

// Flush forces a round trip so queued requests are processed and a dead
// connection surfaces, then reports any protocol error seen since the last flush
func (s *Surface) Flush() error {
	if err := s.proto.roundTrip(); err != nil {
		return fmt.Errorf("x11 round trip: %w", err)
	}
	if err := s.takeErr(); err != nil {
		return fmt.Errorf("x11 protocol error: %w", err)
	}
	return nil
}

func (s *Surface) recordErr(err error) {
	s.mu.Lock()
	if s.asyncErr == nil {
		s.asyncErr = err
	}
	s.mu.Unlock()
}

func (s *Surface) takeErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.asyncErr
	s.asyncErr = nil
	return err
}

// text8 is the Latin-1 form of line, cut to what one ImageText8 request carries
func text8(line string) []byte {
	b := latin1(line)
	if len(b) > maxText8 {
		b = b[:maxText8]
	}
	return b
}

// latin1 maps text onto the ISO 8859-1 core font encoding, '?' for anything outside it
func latin1(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xff {
			r = '?'
		}
		out = append(out, byte(r))
	}
	return out
}

func char2b(b []byte) []xproto.Char2b {
	chars := make([]xproto.Char2b, len(b))
	for i, c := range b {
		chars[i] = xproto.Char2b{Byte1: 0, Byte2: c}
	}
	return chars
}

func clamp16(v int) int16 {
	return int16(max(math.MinInt16, min(v, math.MaxInt16)))
}

// Package terminal renders the screensaver in a terminal through tcell.
//
// One cell is one surface unit: a line measures its display width in cells by
// one row. Any key press, mouse click or loss of the terminal stops the run.
package terminal

import (
	"context"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/verse-saver/core"
)

// Surface is a tcell backed display surface
type Surface struct {
	screen tcell.Screen
	style  tcell.Style

	finiOnce sync.Once
}

// New initialises the controlling terminal
func New() (*Surface, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create terminal screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("initialize terminal: %w", err)
	}
	return NewWithScreen(screen), nil
}

// NewWithScreen wraps an already initialised screen
func NewWithScreen(screen tcell.Screen) *Surface {
	s := &Surface{
		screen: screen,
		style:  tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack),
	}
	screen.SetStyle(s.style)
	screen.HideCursor()
	screen.EnableMouse(tcell.MouseButtonEvents)
	screen.Clear()
	return s
}

// Watch returns a context cancelled on user input or terminal loss
func (s *Surface) Watch(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	core.Go(func() {
		defer cancel()
		for {
			ev := s.screen.PollEvent()
			if ev == nil {
				// Screen finalised
				return
			}
			if s.handleEvent(ev) {
				return
			}
		}
	})

	return ctx, cancel
}

// handleEvent reports whether ev should end the screensaver
func (s *Surface) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return true
	case *tcell.EventMouse:
		return ev.Buttons() != tcell.ButtonNone
	case *tcell.EventResize:
		s.screen.Sync()
	}
	return false
}

// Fini restores the terminal; safe to call more than once
func (s *Surface) Fini() {
	s.finiOnce.Do(s.screen.Fini)
}

func (s *Surface) Bounds() (int, int) {
	return s.screen.Size()
}

// Measure returns the display width of line in cells and a height of one row
func (s *Surface) Measure(line string) (int, int, error) {
	return runewidth.StringWidth(line), 1, nil
}

// DrawText writes line starting at cell (x, y); cells off screen are dropped by tcell.
// Zero-width runes ride along with the cell of the rune before them.
func (s *Surface) DrawText(x, y int, line string, index int) error {
	runes := []rune(line)
	col := x
	for i := 0; i < len(runes); {
		r := runes[i]
		i++
		marks := i
		for i < len(runes) && runewidth.RuneWidth(runes[i]) == 0 {
			i++
		}
		w := runewidth.RuneWidth(r)
		if w == 0 {
			// Marks with no base rune
			continue
		}
		var combc []rune
		if i > marks {
			combc = runes[marks:i]
		}
		s.screen.SetContent(col, y, r, combc, s.style)
		col += w
	}
	return nil
}

// ClearRegion blanks a rectangle of cells
func (s *Surface) ClearRegion(x, y, width, height int) error {
	for row := y; row < y+height; row++ {
		for col := x; col < x+width; col++ {
			s.screen.SetContent(col, row, ' ', nil, s.style)
		}
	}
	return nil
}

func (s *Surface) Flush() error {
	s.screen.Show()
	return nil
}

package terminal

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

func newSimSurface(t *testing.T) (*Surface, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	if err := sim.Init(); err != nil {
		t.Fatalf("Failed to init simulation screen: %v", err)
	}
	sim.SetSize(40, 10)
	s := NewWithScreen(sim)
	t.Cleanup(s.Fini)
	return s, sim
}

func cellAt(sim tcell.SimulationScreen, x, y int) rune {
	r, _, _, _ := sim.GetContent(x, y)
	return r
}

func TestSurface_Bounds(t *testing.T) {
	s, _ := newSimSurface(t)
	w, h := s.Bounds()
	if w != 40 || h != 10 {
		t.Errorf("Bounds = (%d,%d), want (40,10)", w, h)
	}
}

func TestSurface_Measure(t *testing.T) {
	s, _ := newSimSurface(t)

	tests := []struct {
		line string
		want int
	}{
		{"In the ", 7},
		{"", 0},
		{"日本 ", 5},
		{"héllo ", 6},
	}
	for _, tt := range tests {
		w, h, err := s.Measure(tt.line)
		if err != nil {
			t.Fatalf("Measure(%q) failed: %v", tt.line, err)
		}
		if w != tt.want || h != 1 {
			t.Errorf("Measure(%q) = (%d,%d), want (%d,1)", tt.line, w, h, tt.want)
		}
	}
}

func TestSurface_DrawAndClear(t *testing.T) {
	s, sim := newSimSurface(t)

	if err := s.DrawText(2, 3, "héllo ", 0); err != nil {
		t.Fatalf("DrawText failed: %v", err)
	}
	if err := s.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	want := []rune("héllo")
	for i, r := range want {
		if got := cellAt(sim, 2+i, 3); got != r {
			t.Errorf("cell (%d,3) = %q, want %q", 2+i, got, r)
		}
	}

	if err := s.ClearRegion(2, 3, 3, 1); err != nil {
		t.Fatalf("ClearRegion failed: %v", err)
	}
	for x := 2; x < 5; x++ {
		if got := cellAt(sim, x, 3); got != ' ' {
			t.Errorf("cell (%d,3) = %q after clear", x, got)
		}
	}
	if got := cellAt(sim, 5, 3); got != 'l' {
		t.Errorf("cell (5,3) = %q, clear overran its region", got)
	}
}

func TestSurface_DrawCombiningMarks(t *testing.T) {
	s, sim := newSimSurface(t)

	// Decomposed e-acute followed by x
	if err := s.DrawText(1, 2, "e\u0301x", 0); err != nil {
		t.Fatalf("DrawText failed: %v", err)
	}
	if err := s.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	mainc, combc, _, _ := sim.GetContent(1, 2)
	if mainc != 'e' || len(combc) != 1 || combc[0] != '\u0301' {
		t.Errorf("cell (1,2) = %q %q, want 'e' with U+0301", mainc, combc)
	}
	if got := cellAt(sim, 2, 2); got != 'x' {
		t.Errorf("cell (2,2) = %q, want 'x'", got)
	}
	if w, _, _ := s.Measure("e\u0301x"); w != 2 {
		t.Errorf("Measure = %d cells, want 2", w)
	}
}

func TestSurface_DrawOffScreen(t *testing.T) {
	s, _ := newSimSurface(t)
	// Partially visible blocks are normal before the first bounce
	if err := s.DrawText(-3, -1, "hidden", 0); err != nil {
		t.Errorf("DrawText off screen failed: %v", err)
	}
	if err := s.DrawText(38, 9, "edge", 0); err != nil {
		t.Errorf("DrawText past edge failed: %v", err)
	}
}

func TestSurface_HandleEvent(t *testing.T) {
	s, _ := newSimSurface(t)

	if s.handleEvent(tcell.NewEventMouse(1, 1, tcell.ButtonNone, tcell.ModNone)) {
		t.Error("mouse motion should not stop the screensaver")
	}
	if !s.handleEvent(tcell.NewEventMouse(1, 1, tcell.Button1, tcell.ModNone)) {
		t.Error("mouse click should stop the screensaver")
	}
	if s.handleEvent(tcell.NewEventResize(50, 20)) {
		t.Error("resize should not stop the screensaver")
	}
}

func TestSurface_WatchCancelsOnInput(t *testing.T) {
	s, sim := newSimSurface(t)

	ctx, cancel := s.Watch(context.Background())
	defer cancel()

	if err := sim.PostEvent(tcell.NewEventMouse(0, 0, tcell.Button1, tcell.ModNone)); err != nil {
		t.Fatalf("PostEvent failed: %v", err)
	}

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context not cancelled after click")
	}
}

func TestSurface_WatchCancelsOnFini(t *testing.T) {
	s, _ := newSimSurface(t)

	ctx, cancel := s.Watch(context.Background())
	defer cancel()
	s.Fini()

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context not cancelled after Fini")
	}
}

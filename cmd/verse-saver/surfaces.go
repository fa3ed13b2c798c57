package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/lixenwraith/verse-saver/engine"
	"github.com/lixenwraith/verse-saver/terminal"
	"github.com/lixenwraith/verse-saver/window"
	"github.com/lixenwraith/verse-saver/xwin"
)

const (
	surfaceAuto     = "auto"
	surfaceTerminal = "terminal"
	surfaceX11      = "x11"
	surfaceWindow   = "window"
	surfaceText     = "text"
)

// host is a surface that also owns the event loop the animation runs under
type host interface {
	engine.Surface
	Fini()
	Host(ctx context.Context, fn func(context.Context) error) error
}

// watcher surfaces report input through a cancelled context
type watcher interface {
	engine.Surface
	Fini()
	Watch(parent context.Context) (context.Context, context.CancelFunc)
}

type watchHost struct {
	watcher
}

func (w watchHost) Host(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := w.Watch(ctx)
	defer cancel()
	return fn(ctx)
}

type windowHost struct {
	*window.Surface
}

func (w windowHost) Host(ctx context.Context, fn func(context.Context) error) error {
	return w.Run(ctx, fn)
}

// surfaceCandidates lists surfaces to try in order; text always comes last
func surfaceCandidates(requested string, getenv func(string) string) []string {
	switch requested {
	case surfaceText:
		return []string{surfaceText}
	case surfaceAuto, "":
		if getenv(xwin.EnvWindow) != "" {
			return []string{surfaceX11, surfaceText}
		}
		return []string{surfaceTerminal, surfaceX11, surfaceText}
	default:
		return []string{requested, surfaceText}
	}
}

// openHost is replaced in tests that cannot reach a display
var openHost = openSurface

func openSurface(kind string, cfg engine.Config, logger *log.Logger) (host, error) {
	switch kind {
	case surfaceTerminal:
		s, err := terminal.New()
		if err != nil {
			return nil, err
		}
		return watchHost{s}, nil
	case surfaceX11:
		s, err := xwin.Open(xwin.Options{FontSize: cfg.FontSize, Logger: logger})
		if err != nil {
			return nil, err
		}
		return watchHost{s}, nil
	case surfaceWindow:
		s, err := window.New(window.Options{FontSize: cfg.FontSize, Logger: logger})
		if err != nil {
			return nil, err
		}
		return windowHost{s}, nil
	default:
		return nil, fmt.Errorf("unknown surface %q", kind)
	}
}

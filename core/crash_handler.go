// @lixen: #focus{sys[crash,recover]}
package core

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync"
)

// Finisher is a display surface that must be torn down before the process exits
type Finisher interface {
	Fini()
}

var (
	crashMu      sync.Mutex
	crashSurface Finisher
)

// SetCrashSurface registers the surface restored by HandleCrash, nil clears it
func SetCrashSurface(f Finisher) {
	crashMu.Lock()
	crashSurface = f
	crashMu.Unlock()
}

// CrashSurface returns the surface currently registered for crash recovery
func CrashSurface() Finisher {
	crashMu.Lock()
	defer crashMu.Unlock()
	return crashSurface
}

// HandleCrash is the unified panic handler that restores the surface and prints the stack trace
func HandleCrash(r any) {
	if r == nil {
		return
	}

	crashMu.Lock()
	f := crashSurface
	crashSurface = nil
	crashMu.Unlock()

	if f != nil {
		f.Fini()
	}

	// \r\n keeps the trace readable if the terminal is still in raw mode
	fmt.Fprintf(os.Stderr, "\r\n\x1b[31mVERSE-SAVER CRASHED: %v\x1b[0m\r\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
	os.Stderr.Sync()

	os.Exit(1)
}

// Go runs a function in a new goroutine with panic recovery.
// Use this instead of the 'go' keyword so the surface is restored on crash.
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}

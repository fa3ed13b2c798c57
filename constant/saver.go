package constant

import "time"

// Animation defaults
const (
	// DefaultStep is the distance moved per frame on pixel surfaces
	DefaultStep = 3

	// DefaultFrameInterval is the delay between frames (20 FPS)
	DefaultFrameInterval = 50 * time.Millisecond

	// DefaultDuration is how long one verse stays on screen
	DefaultDuration = 30 * time.Second

	// DefaultPadding is added to the line height on pixel surfaces
	DefaultPadding = 3

	// ClearMarginDivisor sizes the margin added around a cleared block: surface width / 40
	ClearMarginDivisor = 40
)

// Terminal surface overrides, cells are much coarser than pixels
const (
	TerminalStep    = 1
	TerminalPadding = 0
)

// Verse formatting defaults
const (
	// DefaultLineLength is the wrap budget in characters
	DefaultLineLength = 40

	// DefaultFontSizePercent is the font size as a percentage of surface width
	DefaultFontSizePercent = 2.0

	// DefaultBiblePath is used when no corpus is given
	DefaultBiblePath = "/opt/verse-saver/bible.txt"

	// ConfigPath is the optional JSON file holding flag defaults
	ConfigPath = "~/.config/verse-saver.json"
)

// Window surfaces
const (
	// FallbackWindowWidth and FallbackWindowHeight size the window opened when
	// not running inside an xscreensaver-provided window
	FallbackWindowWidth  = 1200
	FallbackWindowHeight = 800

	WindowTitle = "verse-saver"
)

// Logging
const (
	LogDir      = "logs"
	LogFileName = "verse-saver.log"
)

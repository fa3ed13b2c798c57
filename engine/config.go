package engine

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/lixenwraith/verse-saver/constant"
	"github.com/lixenwraith/verse-saver/physics"
)

// Config collects the parameters the screensaver variants differ in
type Config struct {
	// Step is the distance moved per frame
	Step int
	// FrameInterval is the delay between frames
	FrameInterval time.Duration
	// Duration is how long one verse stays up before a new one is selected
	Duration time.Duration
	// LineLength is the wrap budget in characters
	LineLength int
	// Padding is added to the line height and again between lines
	Padding int
	// Placement selects the range of the random start position
	Placement physics.Placement
	// FontSizePercent sizes fonts relative to the surface width; ignored by the terminal
	FontSizePercent float64
}

// DefaultConfig returns the settings of the windowed variant
func DefaultConfig() Config {
	return Config{
		Step:            constant.DefaultStep,
		FrameInterval:   constant.DefaultFrameInterval,
		Duration:        constant.DefaultDuration,
		LineLength:      constant.DefaultLineLength,
		Padding:         constant.DefaultPadding,
		Placement:       physics.PlaceWithinBlock,
		FontSizePercent: constant.DefaultFontSizePercent,
	}
}

// Validate rejects settings the animation cannot run with
func (c Config) Validate() error {
	var errs []error
	if c.Step <= 0 {
		errs = append(errs, fmt.Errorf("step must be positive, got %d", c.Step))
	}
	if c.FrameInterval <= 0 {
		errs = append(errs, fmt.Errorf("frame interval must be positive, got %v", c.FrameInterval))
	}
	if c.Duration <= 0 {
		errs = append(errs, fmt.Errorf("duration must be positive, got %v", c.Duration))
	}
	if c.LineLength <= 0 {
		errs = append(errs, fmt.Errorf("line length must be positive, got %d", c.LineLength))
	}
	if c.Padding < 0 {
		errs = append(errs, fmt.Errorf("padding must not be negative, got %d", c.Padding))
	}
	if c.FontSizePercent <= 0 {
		errs = append(errs, fmt.Errorf("font size must be positive, got %g%%", c.FontSizePercent))
	}
	return errors.Join(errs...)
}

// FontSize returns the font size for a surface of the given width, at least 1
func (c Config) FontSize(width int) float64 {
	return math.Max(1, math.Round(float64(width)*c.FontSizePercent/100))
}

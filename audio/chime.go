// Package audio plays the optional corner chime.
//
// Audio is best effort: without a usable output device every call is a no-op.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(48000)

	chimeDuration = 400 * time.Millisecond
)

// Chime owns the speaker and mixes short bell tones into it
type Chime struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

// NewChime creates an uninitialised chime
func NewChime() *Chime {
	return &Chime{mixer: &beep.Mixer{}}
}

// Initialize opens the speaker; calling it again is a no-op
func (c *Chime) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}

	// 100ms buffer
	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return err
	}

	speaker.Play(c.mixer)
	c.initialized = true
	return nil
}

// Play rings the bell once; safe on a nil or uninitialised Chime
func (c *Chime) Play() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}

	speaker.Lock()
	c.mixer.Add(beep.Take(sampleRate.N(chimeDuration), NewBellGenerator(sampleRate, 880)))
	speaker.Unlock()
}

// Cleanup silences pending tones and releases the speaker
func (c *Chime) Cleanup() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}

	speaker.Lock()
	c.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	c.initialized = false
}

// BellGenerator is a sine tone with its octave, struck and left to decay
type BellGenerator struct {
	sr   beep.SampleRate
	freq float64
	pos  int
}

// NewBellGenerator creates a bell at the given fundamental frequency
func NewBellGenerator(sr beep.SampleRate, freq float64) *BellGenerator {
	return &BellGenerator{sr: sr, freq: freq}
}

func (g *BellGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		sample := 0.6*math.Sin(2*math.Pi*g.freq*t) + 0.25*math.Sin(2*math.Pi*g.freq*2*t)

		// 5ms attack, exponential decay
		attack := math.Min(t/0.005, 1.0)
		decay := math.Exp(-t * 8)
		sample *= attack * decay * 0.3

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *BellGenerator) Err() error {
	return nil
}

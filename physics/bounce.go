// @lixen: #focus{motion[bounce,reflect,corner]}
package physics

import (
	"fmt"

	"github.com/lixenwraith/verse-saver/core"
)

// Direction is the diagonal heading of the verse block
type Direction uint8

const (
	NorthWest Direction = iota
	NorthEast
	SouthEast
	SouthWest
)

const directionCount = 4

// Delta returns the unit signs of travel along x and y
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case NorthWest:
		return -1, -1
	case NorthEast:
		return 1, -1
	case SouthEast:
		return 1, 1
	default:
		return -1, 1
	}
}

func (d Direction) String() string {
	switch d {
	case NorthWest:
		return "NW"
	case NorthEast:
		return "NE"
	case SouthEast:
		return "SE"
	case SouthWest:
		return "SW"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

// RandomDirection picks one of the four headings uniformly
func RandomDirection(rng core.Rand) Direction {
	return Direction(rng.IntN(directionCount))
}

// Bounce reports what Reflect did on a tick
type Bounce uint8

const (
	BounceNone Bounce = iota
	// BounceEdge is a single axis hit, resolved deterministically
	BounceEdge
	// BounceCorner is a simultaneous hit on both axes, resolved with a random heading
	BounceCorner
)

// Size is a width/height pair in surface units
type Size struct {
	W, H int
}

// Placement selects the range of the random starting position
type Placement uint8

const (
	// PlaceWithinBlock draws x in [0, block.W) and y in [0, block.H).
	// The range follows the text size, not the surface, so large text on a small
	// surface may start partly off screen until the first bounce.
	PlaceWithinBlock Placement = iota
	// PlaceWithinSurface draws a start position that keeps the block fully on the surface
	PlaceWithinSurface
)

// ParsePlacement maps "block" and "surface" to a Placement
func ParsePlacement(s string) (Placement, error) {
	switch s {
	case "block", "":
		return PlaceWithinBlock, nil
	case "surface":
		return PlaceWithinSurface, nil
	default:
		return PlaceWithinBlock, fmt.Errorf("unknown placement %q", s)
	}
}

func (p Placement) String() string {
	if p == PlaceWithinSurface {
		return "surface"
	}
	return "block"
}

// State is the position and heading of one verse block for one cycle
type State struct {
	X, Y int
	Dir  Direction
	// Bounds is the drawable area, owned by the surface
	Bounds Size
	// Block is the measured verse size, fixed for the cycle
	Block Size
}

// NewState places a block at a random position with a random heading
func NewState(bounds, block Size, placement Placement, rng core.Rand) *State {
	s := &State{
		Dir:    RandomDirection(rng),
		Bounds: bounds,
		Block:  block,
	}

	switch placement {
	case PlaceWithinSurface:
		s.X = intnOrZero(rng, bounds.W-block.W+1)
		s.Y = intnOrZero(rng, bounds.H-block.H+1)
	default:
		s.X = intnOrZero(rng, block.W)
		s.Y = intnOrZero(rng, block.H)
	}
	return s
}

// intnOrZero returns rng.IntN(n), or 0 for an empty range
func intnOrZero(rng core.Rand, n int) int {
	if n <= 0 {
		return 0
	}
	return rng.IntN(n)
}

// Advance moves the block step units along its heading
func (s *State) Advance(step int) {
	dx, dy := s.Dir.Delta()
	s.X += dx * step
	s.Y += dy * step
}

// Reflect clamps the block back inside the bounds after a step and updates the heading.
// Only the two edges the heading moves toward are checked. A single edge hit
// reverses the violated axis; hitting both at once picks a fresh random heading,
// which may equal the current one.
func (s *State) Reflect(rng core.Rand) Bounce {
	left := s.X < 0
	top := s.Y < 0
	right := s.X+s.Block.W > s.Bounds.W
	bottom := s.Y+s.Block.H > s.Bounds.H

	switch s.Dir {
	case NorthWest:
		return s.resolve(left, top, NorthEast, SouthWest, rng)
	case NorthEast:
		return s.resolve(right, top, NorthWest, SouthEast, rng)
	case SouthEast:
		return s.resolve(right, bottom, SouthWest, NorthEast, rng)
	default:
		return s.resolve(left, bottom, SouthEast, NorthWest, rng)
	}
}

// Tick advances one step and applies the reflection rules
func (s *State) Tick(step int, rng core.Rand) Bounce {
	s.Advance(step)
	return s.Reflect(rng)
}

func (s *State) resolve(hitX, hitY bool, onX, onY Direction, rng core.Rand) Bounce {
	switch {
	case hitX && hitY:
		s.clampX()
		s.clampY()
		s.Dir = RandomDirection(rng)
		return BounceCorner
	case hitX:
		s.clampX()
		s.Dir = onX
		return BounceEdge
	case hitY:
		s.clampY()
		s.Dir = onY
		return BounceEdge
	}
	return BounceNone
}

// clampX pins x to the edge the current heading moves toward; call before changing Dir
func (s *State) clampX() {
	if dx, _ := s.Dir.Delta(); dx < 0 {
		s.X = 0
	} else {
		s.X = s.Bounds.W - s.Block.W
	}
}

func (s *State) clampY() {
	if _, dy := s.Dir.Delta(); dy < 0 {
		s.Y = 0
	} else {
		s.Y = s.Bounds.H - s.Block.H
	}
}

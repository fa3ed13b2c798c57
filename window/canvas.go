package window

import "sync"

// textOp is one line drawn at a surface position
type textOp struct {
	x, y int
	line string
}

// canvas keeps the retained draw list the game loop renders from.
// The animator edits the working list; Flush publishes a snapshot.
type canvas struct {
	mu      sync.Mutex
	working []textOp
	visible []textOp
}

func (c *canvas) draw(x, y int, line string) {
	c.mu.Lock()
	c.working = append(c.working, textOp{x: x, y: y, line: line})
	c.mu.Unlock()
}

// clear drops every op whose origin lies inside the rectangle
func (c *canvas) clear(x, y, width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.working[:0]
	for _, op := range c.working {
		if op.x >= x && op.x < x+width && op.y >= y && op.y < y+height {
			continue
		}
		kept = append(kept, op)
	}
	c.working = kept
}

func (c *canvas) publish() {
	c.mu.Lock()
	c.visible = append(c.visible[:0:0], c.working...)
	c.mu.Unlock()
}

// snapshot returns the last published ops; callers must not modify it
func (c *canvas) snapshot() []textOp {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visible
}

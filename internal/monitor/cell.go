// Package monitor keeps the latest facial expression seen by the camera
// available to the speech loop.
package monitor

import (
	"sync"

	"saathi/internal/expression"
)

// Snapshot is the value held by a Cell. Label is the display form, e.g.
// "Happy 😄".
type Snapshot struct {
	Label    string
	Detected bool
}

// Cell is the shared expression slot. Writers are the poller, readers the
// speech loop; neither blocks the other for longer than a copy.
type Cell struct {
	mu  sync.Mutex
	cur Snapshot
}

func NewCell() *Cell {
	return &Cell{cur: Snapshot{Label: string(expression.Neutral)}}
}

// Set records a detection. A missing face keeps the previous label and only
// clears the detected flag.
func (c *Cell) Set(label string, detected bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if detected {
		c.cur.Label = label
	}
	c.cur.Detected = detected
}

func (c *Cell) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.cur
}

// Context returns the bracketed Hindi hint for the current expression, or
// "" when no face is in view.
func (c *Cell) Context() string {
	s := c.Snapshot()
	if !s.Detected {
		return ""
	}
	return expression.ContextFor(s.Label)
}

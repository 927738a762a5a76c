package calling

import (
	"sync"

	"drift/internal/ir"
)

// Convention describes how a callee passes arguments and results.
type Convention struct {
	Name string

	// ArgLocs are the storage cells a conforming caller may pass arguments
	// in, in passing order.
	ArgLocs []ir.MemoryLocation

	// RetLoc is the cell a result is returned in; invalid for void.
	RetLoc ir.MemoryLocation
}

// Conventions maps callee identities to detected conventions. Detection may
// run from parallel per-function passes, so mutation is serialized.
type Conventions struct {
	mu sync.RWMutex
	m  map[CalleeID]*Convention
}

func NewConventions() *Conventions {
	return &Conventions{m: make(map[CalleeID]*Convention)}
}

// Set records the convention for id.
func (c *Conventions) Set(id CalleeID, conv *Convention) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[id] = conv
}

// Get returns the convention for id, or nil when none was detected.
func (c *Conventions) Get(id CalleeID) *Convention {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.m[id]
}

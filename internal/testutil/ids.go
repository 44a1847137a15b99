package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDs generates predictable record IDs for tests.
//
// IDs have the shape of a version 7 UUID with the counter in the last
// group, so the same test always stores the same IDs and golden output
// stays byte-identical.
type SequentialIDs struct {
	mu sync.Mutex
	n  int64
}

// NewSequentialIDs creates a generator whose first ID ends in 1.
func NewSequentialIDs() *SequentialIDs {
	return &SequentialIDs{}
}

// NewID returns the next ID.
func (g *SequentialIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("00000000-0000-7000-8000-%012d", g.n)
}

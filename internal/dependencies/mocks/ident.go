package mocks

import (
	"fmt"

	"github.com/mcoot/pigdice-go/internal/dependencies/ident"
)

// MockIdent is a mock implementation of ident.Generator for testing
type MockIdent struct {
	// Queued is a queue of IDs to return from NewID
	Queued []string
	index  int
	serial int
}

// Ensure MockIdent implements Generator
var _ ident.Generator = (*MockIdent)(nil)

// NewMockIdent creates a new MockIdent
func NewMockIdent() *MockIdent {
	return &MockIdent{}
}

// NewID returns the next queued ID, or a deterministic sequential one
// once the queue is exhausted
func (g *MockIdent) NewID() string {
	if g.index < len(g.Queued) {
		id := g.Queued[g.index]
		g.index++
		return id
	}
	g.serial++
	return fmt.Sprintf("session-%04d", g.serial)
}

// QueueID adds IDs to the result queue
func (g *MockIdent) QueueID(ids ...string) {
	g.Queued = append(g.Queued, ids...)
}

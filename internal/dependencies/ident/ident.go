package ident

import "github.com/google/uuid"

// Generator produces unique identifiers for new sessions
type Generator interface {
	NewID() string
}

// UUIDGenerator implements Generator with random UUIDs
type UUIDGenerator struct{}

// New creates a new UUIDGenerator
func New() *UUIDGenerator {
	return &UUIDGenerator{}
}

// NewID returns a new random UUID string
func (g *UUIDGenerator) NewID() string {
	return uuid.NewString()
}

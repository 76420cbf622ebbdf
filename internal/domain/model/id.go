package model

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// IDGenerator hands out opaque unique identifiers.
type IDGenerator interface {
	NewID() string
}

// ULIDGenerator generates monotonic ULIDs (e.g. 01JB6X8Y2K9FQR4T3VWHGP5M2C).
type ULIDGenerator struct {
	mu      sync.Mutex
	now     func() time.Time
	entropy io.Reader
}

// NewULIDGenerator creates a ULID generator backed by crypto/rand.
func NewULIDGenerator() *ULIDGenerator {
	return NewULIDGeneratorWith(time.Now, rand.Reader)
}

// NewULIDGeneratorWith creates a ULID generator with an explicit clock and
// random source (for testing).
func NewULIDGeneratorWith(now func() time.Time, r io.Reader) *ULIDGenerator {
	return &ULIDGenerator{
		now:     now,
		entropy: ulid.Monotonic(r, 0),
	}
}

// NewID returns a new ULID string.
func (g *ULIDGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(g.now()), g.entropy).String()
}

// SequenceGenerator yields prefix-1, prefix-2, ... and is meant for tests and
// fixtures that need stable identifiers.
type SequenceGenerator struct {
	mu     sync.Mutex
	Prefix string
	n      int
}

// NewID returns the next identifier in the sequence.
func (g *SequenceGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	prefix := g.Prefix
	if prefix == "" {
		prefix = "id"
	}
	return fmt.Sprintf("%s-%d", prefix, g.n)
}

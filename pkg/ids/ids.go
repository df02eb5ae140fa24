// Package ids provides identifier sources for nodes and edges created on
// the canvas.
//
// Both sources are monotonic: each call returns an id that sorts after
// the previous one issued by the same source.
package ids

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Source yields unique identifiers.
type Source interface {
	NextID() string
}

// Sequence issues prefix_0, prefix_1, ... It is safe for concurrent use.
type Sequence struct {
	mu     sync.Mutex
	prefix string
	next   int
}

// DefaultPrefix matches the ids produced for palette drops.
const DefaultPrefix = "dndnode"

// NewSequence returns a counter starting at start. An empty prefix uses
// DefaultPrefix.
func NewSequence(prefix string, start int) *Sequence {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Sequence{prefix: prefix, next: start}
}

// NextID returns the next id in the sequence.
func (s *Sequence) NextID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := fmt.Sprintf("%s_%d", s.prefix, s.next)
	s.next++
	return id
}

// Skip advances the counter so that it never issues an id already present
// in taken. Used when a collection is pre-seeded with sequence-style ids.
func (s *Sequence) Skip(taken func(id string) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for taken(fmt.Sprintf("%s_%d", s.prefix, s.next)) {
		s.next++
	}
}

// UUID issues time-ordered version 7 UUIDs.
type UUID struct{}

// NextID returns a new UUIDv7 string. It falls back to a random v4 UUID
// only if the clock source fails.
func (UUID) NextID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Named returns the source registered under name: "seq" (default) or "uuid".
func Named(name string) (Source, error) {
	switch name {
	case "", "seq", "sequence":
		return NewSequence("", 0), nil
	case "uuid":
		return UUID{}, nil
	}
	return nil, fmt.Errorf("unknown id source %q (want seq or uuid)", name)
}

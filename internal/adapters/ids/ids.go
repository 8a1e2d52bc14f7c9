// Package ids provides catalog entry identifier generators.
package ids

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

type UUID struct{}

func NewUUID() UUID { return UUID{} }

func (UUID) NewID() string { return uuid.NewString() }

// Sequence hands out prefixed, strictly increasing identifiers. The counter is
// owned by the generator, so separate stores never share it.
type Sequence struct {
	prefix string
	n      atomic.Int64
}

func NewSequence(prefix string, start int64) *Sequence {
	s := &Sequence{prefix: prefix}
	s.n.Store(start)
	return s
}

func (s *Sequence) NewID() string {
	return fmt.Sprintf("%s%d", s.prefix, s.n.Add(1))
}

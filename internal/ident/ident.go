// Package ident provides id generators for findings and reviews.
package ident

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator returns a fresh opaque identifier on each call. Implementations
// must be safe for concurrent use.
type Generator func() string

// UUID returns a random version 4 UUID string. It keeps no state between
// calls.
func UUID() string {
	return uuid.NewString()
}

// Sequence returns a generator producing prefix-1, prefix-2, ... from a
// counter owned by the returned closure. Useful where stable ids are wanted,
// such as tests and golden output.
func Sequence(prefix string) Generator {
	var n atomic.Int64
	return func() string {
		return fmt.Sprintf("%s-%d", prefix, n.Add(1))
	}
}

// OrDefault returns g, or UUID when g is nil.
func OrDefault(g Generator) Generator {
	if g == nil {
		return UUID
	}
	return g
}

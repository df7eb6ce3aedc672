package ident

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := UUID()
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestSequence(t *testing.T) {
	next := Sequence("rev")
	assert.Equal(t, "rev-1", next())
	assert.Equal(t, "rev-2", next())

	// Each sequence owns its counter.
	other := Sequence("rev")
	assert.Equal(t, "rev-1", other())
}

func TestSequence_Concurrent(t *testing.T) {
	next := Sequence("c")
	var mu sync.Mutex
	seen := make(map[string]bool)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				id := next()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Len(t, seen, 800)
}

func TestOrDefault(t *testing.T) {
	assert.NotEmpty(t, OrDefault(nil)())
	assert.Equal(t, "x-1", OrDefault(Sequence("x"))())
}

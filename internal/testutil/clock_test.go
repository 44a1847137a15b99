package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeterministicClock_StartsAtStart(t *testing.T) {
	clock := NewDeterministicClock(Epoch, time.Second)
	assert.Equal(t, int64(0), clock.Ticks())
	assert.Equal(t, Epoch, clock.Next())
}

func TestDeterministicClock_AdvancesByStep(t *testing.T) {
	clock := NewDeterministicClock(Epoch, time.Second)

	assert.Equal(t, At(0), clock.Next())
	assert.Equal(t, At(1), clock.Next())
	assert.Equal(t, At(2), clock.Next())
	assert.Equal(t, int64(3), clock.Ticks())
	assert.Equal(t, At(3).Time(), clock.Now())
}

func TestDeterministicClock_Reset(t *testing.T) {
	clock := NewDeterministicClock(Epoch, time.Minute)
	clock.Next()
	clock.Next()

	clock.Reset()
	assert.Equal(t, int64(0), clock.Ticks())
	assert.Equal(t, Epoch, clock.Next())
}

func TestDeterministicClock_ThreadSafe(t *testing.T) {
	clock := NewDeterministicClock(Epoch, time.Microsecond)
	const numGoroutines = 50
	const callsPerGoroutine = 100

	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := make(map[int64]bool)
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < callsPerGoroutine; j++ {
				ts := clock.Next()
				mu.Lock()
				seen[int64(ts)] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Len(t, seen, numGoroutines*callsPerGoroutine, "every reading is unique")
	assert.Equal(t, int64(numGoroutines*callsPerGoroutine), clock.Ticks())
}

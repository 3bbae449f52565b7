package timing

import (
	"sync"
	"time"
)

// Tracker records how long named operations take.
type Tracker struct {
	timings map[string][]time.Duration
	mu      sync.RWMutex
	now     func() time.Time
}

func NewTracker() *Tracker {
	return &Tracker{
		timings: make(map[string][]time.Duration),
		now:     time.Now,
	}
}

// Start returns a function that records the elapsed time for operation
// when called, and also returns that duration.
func (tt *Tracker) Start(operation string) func() time.Duration {
	start := tt.now()
	return func() time.Duration {
		duration := tt.now().Sub(start)
		tt.record(operation, duration)
		return duration
	}
}

func (tt *Tracker) record(operation string, duration time.Duration) {
	tt.mu.Lock()
	defer tt.mu.Unlock()

	tt.timings[operation] = append(tt.timings[operation], duration)
}

func (tt *Tracker) GetTimings(operation string) []time.Duration {
	tt.mu.RLock()
	defer tt.mu.RUnlock()

	timings := tt.timings[operation]
	if timings == nil {
		return nil
	}

	result := make([]time.Duration, len(timings))
	copy(result, timings)
	return result
}

func (tt *Tracker) GetAverageTime(operation string) time.Duration {
	timings := tt.GetTimings(operation)
	if len(timings) == 0 {
		return 0
	}

	var total time.Duration
	for _, duration := range timings {
		total += duration
	}

	return total / time.Duration(len(timings))
}

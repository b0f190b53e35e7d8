package monitoring

import (
	"sync"
	"time"
)

// A ProgressBar tracks how far a long-running activity, such as a timestep
// run, has advanced.
type ProgressBar struct {
	sync.Mutex
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time"`
	Total     uint64    `json:"total"`
	Completed uint64    `json:"completed"`
}

// Advance marks a certain amount of work as completed.
func (b *ProgressBar) Advance(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.Completed += amount
}

// Fraction returns the completed share of the work, in the range [0, 1].
func (b *ProgressBar) Fraction() float64 {
	b.Lock()
	defer b.Unlock()

	if b.Total == 0 {
		return 0
	}

	return float64(b.Completed) / float64(b.Total)
}

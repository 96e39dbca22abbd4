package helpers

import (
	"sync"
	"time"
)

// GateClock blocks every Sleep until Open is called, so tests can hold a
// dispense in flight. Entered receives one value per Sleep that started.
type GateClock struct {
	Entered chan struct{}

	gate chan struct{}
	once sync.Once
	now  time.Time
}

// NewGateClock creates a closed gate. capacity bounds how many blocked
// sleeps can be signaled on Entered without a reader.
func NewGateClock(capacity int) *GateClock {
	return &GateClock{
		Entered: make(chan struct{}, capacity),
		gate:    make(chan struct{}),
		now:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (c *GateClock) Now() time.Time { return c.now }

// Sleep signals Entered and blocks until the gate opens. Once open, a full
// Entered buffer no longer blocks.
func (c *GateClock) Sleep(time.Duration) {
	select {
	case c.Entered <- struct{}{}:
	case <-c.gate:
		return
	}
	<-c.gate
}

// Open releases every blocked and future Sleep
func (c *GateClock) Open() {
	c.once.Do(func() { close(c.gate) })
}

// WaitEntered waits for n sleeps to start or the timeout to elapse
func (c *GateClock) WaitEntered(n int, timeout time.Duration) bool {
	deadline := time.After(timeout)
	for i := 0; i < n; i++ {
		select {
		case <-c.Entered:
		case <-deadline:
			return false
		}
	}
	return true
}

package station

import "sync"

// StatisticsSnapshot is a consistent point-in-time read of all counters
type StatisticsSnapshot struct {
	Sales                     int
	CancellationsTooExpensive int
	CancellationsNoGas        int
	Revenue                   float64
}

// Transactions returns the number of purchases that reached a terminal outcome
func (s StatisticsSnapshot) Transactions() int {
	return s.Sales + s.CancellationsTooExpensive + s.CancellationsNoGas
}

// Statistics holds the station's sale and cancellation counters.
// Every method is safe for concurrent use; counters only grow.
type Statistics struct {
	mu sync.Mutex

	sales        int
	tooExpensive int
	noGas        int
	revenue      float64
}

// NewStatistics creates zeroed counters
func NewStatistics() *Statistics {
	return &Statistics{}
}

// RecordSale counts one sale and adds its revenue in the same step
func (s *Statistics) RecordSale(revenue float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sales++
	s.revenue += revenue
}

// RecordTooExpensive counts one too-expensive cancellation
func (s *Statistics) RecordTooExpensive() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tooExpensive++
}

// RecordNoGas counts one no-gas cancellation
func (s *Statistics) RecordNoGas() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.noGas++
}

// Snapshot returns all four counters read under one lock
func (s *Statistics) Snapshot() StatisticsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return StatisticsSnapshot{
		Sales:                     s.sales,
		CancellationsTooExpensive: s.tooExpensive,
		CancellationsNoGas:        s.noGas,
		Revenue:                   s.revenue,
	}
}

func (s *Statistics) Sales() int {
	return s.Snapshot().Sales
}

func (s *Statistics) CancellationsTooExpensive() int {
	return s.Snapshot().CancellationsTooExpensive
}

func (s *Statistics) CancellationsNoGas() int {
	return s.Snapshot().CancellationsNoGas
}

func (s *Statistics) Revenue() float64 {
	return s.Snapshot().Revenue
}

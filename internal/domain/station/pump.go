package station

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andrescamacho/gasstation-go/internal/domain/shared"
)

// DefaultDispenseRate is the number of units a pump delivers per second
const DefaultDispenseRate = 10.0

// Pump is a dispensing unit bound to one fuel grade with a finite, depleting quantity.
//
// Thread-Safety:
// Remaining quantity is guarded by a mutex. Dispense additionally holds an
// in-progress flag for its whole duration, so overlapping calls on the same
// pump are detected and rejected with ErrPumpBusy instead of racing.
//
// Invariants:
// - Grade never changes after creation
// - Remaining quantity is non-increasing and never negative
// - Remaining quantity only changes through Dispense
type Pump struct {
	mu sync.RWMutex

	id           PumpID
	grade        FuelGrade
	initial      float64
	remaining    float64
	dispenseRate float64
	clock        shared.Clock

	dispensing atomic.Bool
}

// NewPump creates a pump that delivers DefaultDispenseRate units per second.
// A nil clock means the real system clock.
func NewPump(grade FuelGrade, quantity float64, clock shared.Clock) (*Pump, error) {
	return NewPumpWithRate(grade, quantity, DefaultDispenseRate, clock)
}

// NewPumpWithRate creates a pump with an explicit dispense rate (units per second)
func NewPumpWithRate(grade FuelGrade, quantity, rate float64, clock shared.Clock) (*Pump, error) {
	if !grade.IsValid() {
		return nil, &ErrUnknownFuelGrade{Grade: string(grade)}
	}
	if math.IsNaN(quantity) || math.IsInf(quantity, 0) || quantity < 0 {
		return nil, shared.NewValidationError("quantity", "must be a non-negative finite number")
	}
	if !isPositiveFinite(rate) {
		return nil, shared.NewValidationError("dispense_rate", "must be a positive finite number")
	}
	if clock == nil {
		clock = shared.NewRealClock()
	}

	return &Pump{
		id:           NewPumpID(),
		grade:        grade,
		initial:      quantity,
		remaining:    quantity,
		dispenseRate: rate,
		clock:        clock,
	}, nil
}

func (p *Pump) ID() PumpID               { return p.id }
func (p *Pump) Grade() FuelGrade         { return p.grade }
func (p *Pump) InitialQuantity() float64 { return p.initial }
func (p *Pump) DispenseRate() float64    { return p.dispenseRate }

// RemainingQuantity returns a snapshot of the quantity left in the pump
func (p *Pump) RemainingQuantity() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.remaining
}

// CanDispense reports whether the pump currently holds at least amount units
func (p *Pump) CanDispense(amount float64) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.remaining >= amount
}

// IsDispensing reports whether a dispense call is in progress
func (p *Pump) IsDispensing() bool {
	return p.dispensing.Load()
}

// DispenseDuration returns how long delivering amount units takes
func (p *Pump) DispenseDuration(amount float64) time.Duration {
	return time.Duration(amount / p.dispenseRate * float64(time.Second))
}

// Dispense delivers amount units, blocking for DispenseDuration(amount).
// Requires 0 < amount <= RemainingQuantity().
func (p *Pump) Dispense(amount float64) error {
	if !isPositiveFinite(amount) {
		return &ErrInvalidAmount{Amount: amount}
	}

	if !p.dispensing.CompareAndSwap(false, true) {
		return &ErrPumpBusy{PumpID: p.id.String()}
	}
	defer p.dispensing.Store(false)

	// Quantity cannot change while the flag is held: Dispense is the only mutator.
	remaining := p.RemainingQuantity()
	if amount > remaining {
		return &ErrInsufficientQuantity{
			PumpID:    p.id.String(),
			Requested: amount,
			Remaining: remaining,
		}
	}

	p.clock.Sleep(p.DispenseDuration(amount))

	p.mu.Lock()
	p.remaining -= amount
	p.mu.Unlock()

	return nil
}

// Snapshot returns an immutable copy of the pump's current state
func (p *Pump) Snapshot() PumpSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return PumpSnapshot{
		ID:        p.id,
		Grade:     p.grade,
		Initial:   p.initial,
		Remaining: p.remaining,
	}
}

// String provides human-readable representation
func (p *Pump) String() string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return fmt.Sprintf("Pump[%s, grade=%s, remaining=%.2f/%.2f]", p.id, p.grade, p.remaining, p.initial)
}

func isPositiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

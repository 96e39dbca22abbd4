package station

import (
	"fmt"
	"sync"

	"github.com/andrescamacho/gasstation-go/internal/domain/station"
)

// InMemoryPumpAllocator implements PumpAllocator with in-memory state.
//
// Thread-Safety:
// One mutex protects the registry and the in-use marking. The eligibility
// scan (grade, remaining quantity, not reserved) and the marking happen under
// it as a single step. Remaining quantity of an unreserved pump cannot change
// during the scan because only a reservation holder dispenses.
//
// The lock is never held while a pump dispenses.
type InMemoryPumpAllocator struct {
	mu sync.Mutex

	// pumps in registration order; first-fit scans walk this slice
	pumps []*station.Pump

	// registered indexes pumps by ID to reject duplicates
	registered map[station.PumpID]struct{}

	// inUse maps pump ID -> live reservation
	inUse map[station.PumpID]*station.Reservation
}

// NewInMemoryPumpAllocator creates an empty allocator
func NewInMemoryPumpAllocator() *InMemoryPumpAllocator {
	return &InMemoryPumpAllocator{
		registered: make(map[station.PumpID]struct{}),
		inUse:      make(map[station.PumpID]*station.Reservation),
	}
}

// Register appends a pump to the registry
func (a *InMemoryPumpAllocator) Register(pump *station.Pump) error {
	if pump == nil {
		return fmt.Errorf("pump cannot be nil")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.registered[pump.ID()]; exists {
		return &station.ErrPumpAlreadyRegistered{PumpID: pump.ID().String()}
	}

	a.registered[pump.ID()] = struct{}{}
	a.pumps = append(a.pumps, pump)
	return nil
}

// Reserve marks the first eligible pump in registration order as in use
func (a *InMemoryPumpAllocator) Reserve(grade station.FuelGrade, amount float64) (*station.Reservation, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, pump := range a.pumps {
		if pump.Grade() != grade {
			continue
		}
		if _, busy := a.inUse[pump.ID()]; busy {
			continue
		}
		if !pump.CanDispense(amount) {
			continue
		}

		reservation := station.NewReservation(pump, amount)
		a.inUse[pump.ID()] = reservation
		return reservation, true
	}

	return nil, false
}

// Release removes the in-use marking held by reservation
func (a *InMemoryPumpAllocator) Release(reservation *station.Reservation) error {
	if reservation == nil || reservation.Pump() == nil {
		return fmt.Errorf("reservation cannot be nil")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	id := reservation.Pump().ID()
	current, ok := a.inUse[id]
	if !ok || current != reservation {
		return &station.ErrReservationReleased{PumpID: id.String()}
	}

	delete(a.inUse, id)
	return nil
}

// InUse returns the number of pumps currently reserved
func (a *InMemoryPumpAllocator) InUse() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.inUse)
}

// IsReserved reports whether the pump with id is currently reserved
func (a *InMemoryPumpAllocator) IsReserved(id station.PumpID) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.inUse[id]
	return ok
}

// Pumps returns a read-only snapshot of all pumps in registration order
func (a *InMemoryPumpAllocator) Pumps() station.PumpView {
	a.mu.Lock()
	pumps := make([]*station.Pump, len(a.pumps))
	copy(pumps, a.pumps)
	a.mu.Unlock()

	snapshots := make([]station.PumpSnapshot, len(pumps))
	for i, pump := range pumps {
		snapshots[i] = pump.Snapshot()
	}
	return station.NewPumpView(snapshots)
}

// Verify interface implementation
var _ station.PumpAllocator = (*InMemoryPumpAllocator)(nil)

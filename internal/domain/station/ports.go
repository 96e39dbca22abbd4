package station

import "context"

// PumpAllocator owns the pump registry and the in-use marking.
//
// Key responsibilities:
// - Register pumps in a stable order before load begins
// - Reserve the first eligible pump atomically with the eligibility scan
// - Release reservations exactly once
type PumpAllocator interface {
	// Register appends a pump to the registry
	Register(pump *Pump) error

	// Reserve selects and marks the first pump, in registration order, that
	// matches grade, holds at least amount units and is not reserved.
	// Returns false when no such pump exists; nothing is mutated then.
	Reserve(grade FuelGrade, amount float64) (*Reservation, bool)

	// Release removes the in-use marking. Must be called exactly once per
	// successful Reserve, including when the dispense fails.
	Release(reservation *Reservation) error

	// InUse returns the number of live reservations
	InUse() int

	// Pumps returns a read-only snapshot of the registry
	Pumps() PumpView
}

// PriceTable maps fuel grades to their current unit price.
// Reads racing a write may observe either value.
type PriceTable interface {
	GetPrice(grade FuelGrade) (float64, error)
	SetPrice(grade FuelGrade, price float64) error
}

// SaleJournal is a write-mostly audit trail of purchase outcomes
type SaleJournal interface {
	// Append stores one record
	Append(ctx context.Context, record *SaleRecord) error

	// FindByOutcome returns the most recent records with the outcome (limit <= 0 means all)
	FindByOutcome(ctx context.Context, outcome Outcome, limit int) ([]*SaleRecord, error)

	// CountByOutcome returns how many records carry the outcome
	CountByOutcome(ctx context.Context, outcome Outcome) (int, error)

	// SumRevenue returns the total revenue of all sold records
	SumRevenue(ctx context.Context) (float64, error)
}

// Reservation is an exclusive, temporary claim on a pump for one dispense
type Reservation struct {
	pump   *Pump
	amount float64
}

// NewReservation creates a claim on pump for amount units
func NewReservation(pump *Pump, amount float64) *Reservation {
	return &Reservation{pump: pump, amount: amount}
}

func (r *Reservation) Pump() *Pump     { return r.pump }
func (r *Reservation) Amount() float64 { return r.amount }

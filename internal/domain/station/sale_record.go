package station

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SaleRecord is an immutable journal entry for one completed purchase attempt
type SaleRecord struct {
	id        string
	timestamp time.Time
	grade     FuelGrade
	amount    float64
	price     float64
	maxPrice  float64
	revenue   float64
	outcome   Outcome
	pumpID    string
}

// NewSaleRecord creates a journal entry with a generated ID.
// pumpID and revenue are only meaningful for OutcomeSold.
func NewSaleRecord(
	timestamp time.Time,
	grade FuelGrade,
	amount float64,
	price float64,
	maxPrice float64,
	outcome Outcome,
	pumpID string,
	revenue float64,
) (*SaleRecord, error) {
	if !grade.IsValid() {
		return nil, &ErrUnknownFuelGrade{Grade: string(grade)}
	}
	if !outcome.IsValid() {
		return nil, fmt.Errorf("invalid outcome: %s", outcome)
	}
	if outcome == OutcomeSold && pumpID == "" {
		return nil, fmt.Errorf("sold record requires a pump id")
	}
	if outcome != OutcomeSold && revenue != 0 {
		return nil, fmt.Errorf("%s record cannot carry revenue", outcome)
	}

	return &SaleRecord{
		id:        uuid.New().String(),
		timestamp: timestamp,
		grade:     grade,
		amount:    amount,
		price:     price,
		maxPrice:  maxPrice,
		revenue:   revenue,
		outcome:   outcome,
		pumpID:    pumpID,
	}, nil
}

// ReconstructSaleRecord rebuilds a record read back from the journal
func ReconstructSaleRecord(
	id string,
	timestamp time.Time,
	grade FuelGrade,
	amount, price, maxPrice, revenue float64,
	outcome Outcome,
	pumpID string,
) *SaleRecord {
	return &SaleRecord{
		id:        id,
		timestamp: timestamp,
		grade:     grade,
		amount:    amount,
		price:     price,
		maxPrice:  maxPrice,
		revenue:   revenue,
		outcome:   outcome,
		pumpID:    pumpID,
	}
}

func (r *SaleRecord) ID() string           { return r.id }
func (r *SaleRecord) Timestamp() time.Time { return r.timestamp }
func (r *SaleRecord) Grade() FuelGrade     { return r.grade }
func (r *SaleRecord) Amount() float64      { return r.amount }
func (r *SaleRecord) Price() float64       { return r.price }
func (r *SaleRecord) MaxPrice() float64    { return r.maxPrice }
func (r *SaleRecord) Revenue() float64     { return r.revenue }
func (r *SaleRecord) Outcome() Outcome     { return r.outcome }
func (r *SaleRecord) PumpID() string       { return r.pumpID }

func (r *SaleRecord) String() string {
	return fmt.Sprintf("SaleRecord[%s, %s %s amount=%.2f price=%.4f revenue=%.2f]",
		r.id, r.outcome, r.grade, r.amount, r.price, r.revenue)
}

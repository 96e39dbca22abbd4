package station

import (
	"sync"

	"github.com/andrescamacho/gasstation-go/internal/domain/station"
)

// InMemoryPriceTable implements PriceTable with a mutex-guarded map.
// Writes overwrite; there is no coordination with in-flight purchases.
type InMemoryPriceTable struct {
	mu     sync.RWMutex
	prices map[station.FuelGrade]float64
}

// NewInMemoryPriceTable creates an empty price table
func NewInMemoryPriceTable() *InMemoryPriceTable {
	return &InMemoryPriceTable{prices: make(map[station.FuelGrade]float64)}
}

// GetPrice returns the current unit price of grade
func (t *InMemoryPriceTable) GetPrice(grade station.FuelGrade) (float64, error) {
	if !grade.IsValid() {
		return 0, &station.ErrUnknownFuelGrade{Grade: string(grade)}
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	price, ok := t.prices[grade]
	if !ok {
		return 0, &station.ErrPriceNotSet{Grade: grade}
	}
	return price, nil
}

// SetPrice overwrites the unit price of grade. Prices must be positive and finite.
func (t *InMemoryPriceTable) SetPrice(grade station.FuelGrade, price float64) error {
	if !grade.IsValid() {
		return &station.ErrUnknownFuelGrade{Grade: string(grade)}
	}
	if !isPositiveFinite(price) {
		return &station.ErrInvalidPrice{Field: "price", Price: price}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.prices[grade] = price
	return nil
}

// Prices returns a copy of every price entry
func (t *InMemoryPriceTable) Prices() map[station.FuelGrade]float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make(map[station.FuelGrade]float64, len(t.prices))
	for grade, price := range t.prices {
		result[grade] = price
	}
	return result
}

// Verify interface implementation
var _ station.PriceTable = (*InMemoryPriceTable)(nil)

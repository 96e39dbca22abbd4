package station

import (
	"context"

	"github.com/andrescamacho/gasstation-go/internal/domain/shared"
	"github.com/andrescamacho/gasstation-go/internal/domain/station"
)

// GasStation wires pumps, prices and statistics behind one coordinator.
//
// Pumps and prices are set up before concurrent load begins. After that,
// BuyGas and Purchase may be called from any number of goroutines.
type GasStation struct {
	allocator   *InMemoryPumpAllocator
	prices      *InMemoryPriceTable
	stats       *Statistics
	coordinator *Coordinator
	clock       shared.Clock
}

// NewGasStation creates an empty station. journal may be nil; a nil clock
// means the real clock.
func NewGasStation(journal station.SaleJournal, clock shared.Clock) *GasStation {
	if clock == nil {
		clock = shared.NewRealClock()
	}

	allocator := NewInMemoryPumpAllocator()
	prices := NewInMemoryPriceTable()
	stats := NewStatistics()

	return &GasStation{
		allocator:   allocator,
		prices:      prices,
		stats:       stats,
		coordinator: NewCoordinator(allocator, prices, stats, journal, clock),
		clock:       clock,
	}
}

// AddPump registers a pump. Not meant to race with purchases.
func (s *GasStation) AddPump(pump *station.Pump) error {
	return s.allocator.Register(pump)
}

// NewPump creates a pump on the station clock and registers it
func (s *GasStation) NewPump(grade station.FuelGrade, quantity, rate float64) (*station.Pump, error) {
	pump, err := station.NewPumpWithRate(grade, quantity, rate, s.clock)
	if err != nil {
		return nil, err
	}
	if err := s.AddPump(pump); err != nil {
		return nil, err
	}
	return pump, nil
}

// SetPrice overwrites the unit price of grade
func (s *GasStation) SetPrice(grade station.FuelGrade, price float64) error {
	return s.prices.SetPrice(grade, price)
}

// GetPrice returns the unit price of grade
func (s *GasStation) GetPrice(grade station.FuelGrade) (float64, error) {
	return s.prices.GetPrice(grade)
}

// Prices returns a copy of the price table
func (s *GasStation) Prices() map[station.FuelGrade]float64 {
	return s.prices.Prices()
}

// BuyGas purchases amount units of grade if the price does not exceed maxPrice.
// Returns the revenue of the sale, or a *ErrTooExpensive / *ErrNoGas cancellation.
func (s *GasStation) BuyGas(ctx context.Context, grade station.FuelGrade, amount, maxPrice float64) (float64, error) {
	receipt, err := s.coordinator.Purchase(ctx, grade, amount, maxPrice)
	if err != nil {
		return 0, err
	}
	return receipt.Revenue, nil
}

// Purchase runs one transaction and returns its receipt
func (s *GasStation) Purchase(ctx context.Context, grade station.FuelGrade, amount, maxPrice float64) (*Receipt, error) {
	return s.coordinator.Purchase(ctx, grade, amount, maxPrice)
}

// Pumps returns a read-only snapshot of the registered pumps
func (s *GasStation) Pumps() station.PumpView {
	return s.allocator.Pumps()
}

// PumpsInUse returns the number of pumps currently reserved
func (s *GasStation) PumpsInUse() int {
	return s.allocator.InUse()
}

func (s *GasStation) Statistics() StatisticsSnapshot {
	return s.stats.Snapshot()
}

func (s *GasStation) NumberOfSales() int {
	return s.stats.Sales()
}

func (s *GasStation) NumberOfCancellationsTooExpensive() int {
	return s.stats.CancellationsTooExpensive()
}

func (s *GasStation) NumberOfCancellationsNoGas() int {
	return s.stats.CancellationsNoGas()
}

func (s *GasStation) Revenue() float64 {
	return s.stats.Revenue()
}

// Clock returns the clock pumps on this station dispense against
func (s *GasStation) Clock() shared.Clock {
	return s.clock
}

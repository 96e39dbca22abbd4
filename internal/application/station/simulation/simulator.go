package simulation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/andrescamacho/gasstation-go/internal/application/common"
	appStation "github.com/andrescamacho/gasstation-go/internal/application/station"
	"github.com/andrescamacho/gasstation-go/internal/domain/station"
)

// Customer buys the same amount of one grade over and over, starting at most
// one attempt per Interval. A purchase that outlasts Interval is followed by
// the next attempt right away. Cancellations do not stop a customer.
type Customer struct {
	Name     string
	Grade    station.FuelGrade
	Amount   float64
	MaxPrice float64
	Interval time.Duration
}

// Validate checks the customer can take part in a simulation
func (c Customer) Validate() error {
	if !c.Grade.IsValid() {
		return &station.ErrUnknownFuelGrade{Grade: string(c.Grade)}
	}
	if c.Amount <= 0 {
		return &station.ErrInvalidAmount{Amount: c.Amount}
	}
	if c.Interval <= 0 {
		return fmt.Errorf("customer %s: interval must be positive, got %s", c.Name, c.Interval)
	}
	return nil
}

// CustomerReport counts what one customer achieved
type CustomerReport struct {
	Customer     Customer
	Attempts     int
	Sold         int
	TooExpensive int
	NoGas        int
	Dispensed    float64
	Spent        float64
}

// Report is the result of one simulation run
type Report struct {
	Elapsed    time.Duration
	Customers  []CustomerReport
	Statistics appStation.StatisticsSnapshot
	Pumps      station.PumpView
}

// Purchaser is the part of the station a customer talks to
type Purchaser interface {
	Purchase(ctx context.Context, grade station.FuelGrade, amount, maxPrice float64) (*appStation.Receipt, error)
	Statistics() appStation.StatisticsSnapshot
	Pumps() station.PumpView
}

// Simulator runs customers against a station until its context ends
type Simulator struct {
	station   Purchaser
	customers []Customer
}

// NewSimulator validates the customers and returns a simulator
func NewSimulator(gs Purchaser, customers []Customer) (*Simulator, error) {
	if gs == nil {
		return nil, fmt.Errorf("station cannot be nil")
	}
	if len(customers) == 0 {
		return nil, fmt.Errorf("at least one customer is required")
	}
	for i, c := range customers {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("invalid customer %d: %w", i, err)
		}
	}

	cs := make([]Customer, len(customers))
	copy(cs, customers)
	return &Simulator{station: gs, customers: cs}, nil
}

// Run starts one goroutine per customer and waits for ctx to end. Purchases
// already admitted when ctx ends run to completion. A purchase failing with
// anything other than a cancellation stops the run and is returned.
func (s *Simulator) Run(ctx context.Context) (*Report, error) {
	logger := common.LoggerFromContext(ctx)
	start := time.Now()

	reports := make([]CustomerReport, len(s.customers))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for i, customer := range s.customers {
		i, customer := i, customer
		reports[i].Customer = customer

		g.Go(func() error {
			limiter := rate.NewLimiter(rate.Every(customer.Interval), 1)
			for {
				if err := limiter.Wait(gctx); err != nil {
					return nil
				}

				receipt, err := s.station.Purchase(context.WithoutCancel(gctx), customer.Grade, customer.Amount, customer.MaxPrice)

				mu.Lock()
				r := &reports[i]
				r.Attempts++
				switch {
				case err == nil:
					r.Sold++
					r.Dispensed += receipt.Amount
					r.Spent += receipt.Revenue
				case station.IsTooExpensive(err):
					r.TooExpensive++
				case station.IsNoGas(err):
					r.NoGas++
				}
				mu.Unlock()

				if err != nil && !station.IsCancellation(err) {
					return fmt.Errorf("customer %s: %w", customer.Name, err)
				}
			}
		})
	}

	logger.Log("INFO", "Simulation started", map[string]interface{}{
		"customers": len(s.customers),
	})

	err := g.Wait()

	report := &Report{
		Elapsed:    time.Since(start),
		Customers:  reports,
		Statistics: s.station.Statistics(),
		Pumps:      s.station.Pumps(),
	}

	logger.Log("INFO", "Simulation finished", map[string]interface{}{
		"elapsed":       report.Elapsed.String(),
		"sales":         report.Statistics.Sales,
		"too_expensive": report.Statistics.CancellationsTooExpensive,
		"no_gas":        report.Statistics.CancellationsNoGas,
		"revenue":       report.Statistics.Revenue,
	})

	return report, err
}

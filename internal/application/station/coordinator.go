package station

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/andrescamacho/gasstation-go/internal/adapters/metrics"
	"github.com/andrescamacho/gasstation-go/internal/application/common"
	"github.com/andrescamacho/gasstation-go/internal/domain/shared"
	"github.com/andrescamacho/gasstation-go/internal/domain/station"
)

// Receipt describes the terminal outcome of one purchase
type Receipt struct {
	Outcome          station.Outcome
	Grade            station.FuelGrade
	Amount           float64
	Price            float64
	MaxPrice         float64
	Revenue          float64
	PumpID           string
	DispenseDuration time.Duration
}

// Coordinator runs purchase transactions against the allocator, price table and statistics.
//
// Transaction steps:
//  1. Validate grade, amount and max price
//  2. Read the price once; every later step uses that value
//  3. Reject when price > maxPrice (TooExpensive)
//  4. Reserve the first eligible pump (NoGas when none)
//  5. Dispense outside every lock, count the sale, release exactly once
//
// Validation errors and dispense failures are returned without touching any counter.
type Coordinator struct {
	allocator station.PumpAllocator
	prices    station.PriceTable
	stats     *Statistics
	journal   station.SaleJournal
	clock     shared.Clock
}

// NewCoordinator creates a coordinator. journal may be nil.
func NewCoordinator(
	allocator station.PumpAllocator,
	prices station.PriceTable,
	stats *Statistics,
	journal station.SaleJournal,
	clock shared.Clock,
) *Coordinator {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &Coordinator{
		allocator: allocator,
		prices:    prices,
		stats:     stats,
		journal:   journal,
		clock:     clock,
	}
}

// Purchase runs one transaction. TooExpensive and NoGas outcomes come back as
// both a receipt and the matching typed error.
func (c *Coordinator) Purchase(ctx context.Context, grade station.FuelGrade, amount, maxPrice float64) (*Receipt, error) {
	logger := common.LoggerFromContext(ctx)

	if !grade.IsValid() {
		return nil, &station.ErrUnknownFuelGrade{Grade: string(grade)}
	}
	if !isPositiveFinite(amount) {
		return nil, &station.ErrInvalidAmount{Amount: amount}
	}
	if math.IsNaN(maxPrice) {
		return nil, &station.ErrInvalidPrice{Field: "max_price", Price: maxPrice}
	}

	price, err := c.prices.GetPrice(grade)
	if err != nil {
		return nil, err
	}

	receipt := &Receipt{
		Grade:    grade,
		Amount:   amount,
		Price:    price,
		MaxPrice: maxPrice,
	}

	if price > maxPrice {
		c.stats.RecordTooExpensive()
		metrics.RecordCancellation(grade.String(), station.OutcomeTooExpensive.String())
		logger.Log("INFO", "Purchase cancelled: too expensive", map[string]interface{}{
			"grade":     grade.String(),
			"amount":    amount,
			"price":     price,
			"max_price": maxPrice,
		})

		receipt.Outcome = station.OutcomeTooExpensive
		c.journalReceipt(ctx, receipt)
		return receipt, &station.ErrTooExpensive{Grade: grade, Price: price, MaxPrice: maxPrice}
	}

	reservation, ok := c.allocator.Reserve(grade, amount)
	if !ok {
		c.stats.RecordNoGas()
		metrics.RecordCancellation(grade.String(), station.OutcomeNoGas.String())
		logger.Log("INFO", "Purchase cancelled: no gas", map[string]interface{}{
			"grade":  grade.String(),
			"amount": amount,
		})

		receipt.Outcome = station.OutcomeNoGas
		c.journalReceipt(ctx, receipt)
		return receipt, &station.ErrNoGas{Grade: grade, Amount: amount}
	}

	if err := c.sell(ctx, reservation, receipt); err != nil {
		logger.Log("ERROR", "Dispense failed", map[string]interface{}{
			"grade":   grade.String(),
			"amount":  amount,
			"pump_id": reservation.Pump().ID().String(),
			"error":   err.Error(),
		})
		return nil, fmt.Errorf("failed to dispense %.2f units of %s: %w", amount, grade, err)
	}

	metrics.RecordSale(grade.String(), amount, receipt.Revenue, receipt.DispenseDuration.Seconds())
	logger.Log("INFO", "Sale completed", map[string]interface{}{
		"grade":   grade.String(),
		"amount":  amount,
		"price":   price,
		"revenue": receipt.Revenue,
		"pump_id": receipt.PumpID,
	})

	c.journalReceipt(ctx, receipt)
	return receipt, nil
}

// sell dispenses the reserved amount and counts the sale at the admission
// price already on the receipt. The reservation is released on every path,
// after the counters are updated.
func (c *Coordinator) sell(ctx context.Context, reservation *station.Reservation, receipt *Receipt) error {
	metrics.PumpReserved()

	defer func() {
		if err := c.allocator.Release(reservation); err != nil {
			common.LoggerFromContext(ctx).Log("ERROR", "Failed to release pump", map[string]interface{}{
				"pump_id": reservation.Pump().ID().String(),
				"error":   err.Error(),
			})
			return
		}
		metrics.PumpReleased()
	}()

	pump := reservation.Pump()
	if err := pump.Dispense(reservation.Amount()); err != nil {
		return err
	}

	revenue := receipt.Price * reservation.Amount()
	c.stats.RecordSale(revenue)

	receipt.Outcome = station.OutcomeSold
	receipt.Revenue = revenue
	receipt.PumpID = pump.ID().String()
	receipt.DispenseDuration = pump.DispenseDuration(reservation.Amount())
	return nil
}

// journalReceipt appends the receipt to the journal when one is configured.
// Journal failures are logged and never change the purchase outcome.
func (c *Coordinator) journalReceipt(ctx context.Context, receipt *Receipt) {
	if c.journal == nil {
		return
	}

	record, err := station.NewSaleRecord(
		c.clock.Now(),
		receipt.Grade,
		receipt.Amount,
		receipt.Price,
		receipt.MaxPrice,
		receipt.Outcome,
		receipt.PumpID,
		receipt.Revenue,
	)
	if err == nil {
		err = c.journal.Append(ctx, record)
	}
	if err != nil {
		common.LoggerFromContext(ctx).Log("WARNING", "Failed to journal purchase", map[string]interface{}{
			"grade":   receipt.Grade.String(),
			"outcome": receipt.Outcome.String(),
			"error":   err.Error(),
		})
	}
}

// Statistics returns the coordinator's counters
func (c *Coordinator) Statistics() *Statistics {
	return c.stats
}

func isPositiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

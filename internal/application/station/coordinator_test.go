package station_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appStation "github.com/andrescamacho/gasstation-go/internal/application/station"
	"github.com/andrescamacho/gasstation-go/internal/domain/shared"
	"github.com/andrescamacho/gasstation-go/internal/domain/station"
	"github.com/andrescamacho/gasstation-go/test/helpers"
)

// memoryJournal records appended sale records; failWith makes every Append fail
type memoryJournal struct {
	mu       sync.Mutex
	records  []*station.SaleRecord
	failWith error
}

func (j *memoryJournal) Append(_ context.Context, record *station.SaleRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.failWith != nil {
		return j.failWith
	}
	j.records = append(j.records, record)
	return nil
}

func (j *memoryJournal) FindByOutcome(_ context.Context, outcome station.Outcome, limit int) ([]*station.SaleRecord, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	var result []*station.SaleRecord
	for _, r := range j.records {
		if r.Outcome() == outcome {
			result = append(result, r)
		}
	}
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (j *memoryJournal) CountByOutcome(ctx context.Context, outcome station.Outcome) (int, error) {
	records, err := j.FindByOutcome(ctx, outcome, 0)
	return len(records), err
}

func (j *memoryJournal) SumRevenue(_ context.Context) (float64, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	var total float64
	for _, r := range j.records {
		total += r.Revenue()
	}
	return total, nil
}

func TestPurchase_SoldThenTooExpensive(t *testing.T) {
	// Arrange
	gs := helpers.NewTestStation(t, nil, nil,
		map[station.FuelGrade]float64{station.FuelGradeSuper: 1.42},
		helpers.PumpSpec{Grade: station.FuelGradeSuper, Quantity: 200},
	)
	ctx := context.Background()

	// Act
	receipt, err := gs.Purchase(ctx, station.FuelGradeSuper, 50, 1.42)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, station.OutcomeSold, receipt.Outcome)
	assert.InDelta(t, 71.0, receipt.Revenue, 1e-9)
	assert.Equal(t, 5*time.Second, receipt.DispenseDuration)
	assert.Equal(t, 150.0, gs.Pumps().At(0).Remaining)

	// Act
	receipt, err = gs.Purchase(ctx, station.FuelGradeSuper, 1, 1.30)

	// Assert
	assert.True(t, station.IsTooExpensive(err))
	assert.Equal(t, station.OutcomeTooExpensive, receipt.Outcome)
	assert.Equal(t, 1, gs.NumberOfCancellationsTooExpensive())
	assert.Equal(t, 1, gs.NumberOfSales())
	assert.Equal(t, 150.0, gs.Pumps().At(0).Remaining)
	assert.InDelta(t, 71.0, gs.Revenue(), 1e-9)
}

func TestPurchase_NoGasWhenNoPumpHoldsTheAmount(t *testing.T) {
	// Arrange
	gs := helpers.NewTestStation(t, nil, nil,
		map[station.FuelGrade]float64{station.FuelGradeDiesel: 1.20},
		helpers.PumpSpec{Grade: station.FuelGradeDiesel, Quantity: 150},
	)

	// Act
	revenue, err := gs.BuyGas(context.Background(), station.FuelGradeDiesel, 151, 1.50)

	// Assert
	var noGas *station.ErrNoGas
	require.ErrorAs(t, err, &noGas)
	assert.Equal(t, 151.0, noGas.Amount)
	assert.Zero(t, revenue)
	assert.Equal(t, 1, gs.NumberOfCancellationsNoGas())
	assert.Zero(t, gs.NumberOfSales())
	assert.Zero(t, gs.Revenue())
	assert.Equal(t, 150.0, gs.Pumps().At(0).Remaining)
}

func TestPurchase_ConcurrentBuyersUseDistinctPumps(t *testing.T) {
	// Arrange
	clock := helpers.NewGateClock(2)
	gs := helpers.NewTestStation(t, clock, nil,
		map[station.FuelGrade]float64{station.FuelGradeRegular: 1.40},
		helpers.PumpSpec{Grade: station.FuelGradeRegular, Quantity: 100},
		helpers.PumpSpec{Grade: station.FuelGradeRegular, Quantity: 200},
	)

	receipts := make([]*appStation.Receipt, 2)
	errs := make([]error, 2)
	var wg sync.WaitGroup

	// Act
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			receipts[i], errs[i] = gs.Purchase(context.Background(), station.FuelGradeRegular, 80, 1.50)
		}(i)
	}
	bothDispensing := clock.WaitEntered(2, 5*time.Second)
	inUse := gs.PumpsInUse()
	clock.Open()
	wg.Wait()

	// Assert
	require.True(t, bothDispensing, "both dispenses should run at the same time")
	assert.Equal(t, 2, inUse)
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.NotEqual(t, receipts[0].PumpID, receipts[1].PumpID)
	assert.Equal(t, 140.0, gs.Pumps().TotalRemaining(station.FuelGradeRegular))
	for _, p := range gs.Pumps().All() {
		assert.GreaterOrEqual(t, p.Remaining, 0.0)
	}
	assert.Equal(t, 0, gs.PumpsInUse())
}

func TestPurchase_ReservedPumpIsNotShared(t *testing.T) {
	// Arrange
	clock := helpers.NewGateClock(1)
	gs := helpers.NewTestStation(t, clock, nil,
		map[station.FuelGrade]float64{station.FuelGradeSuper: 1.42},
		helpers.PumpSpec{Grade: station.FuelGradeSuper, Quantity: 200},
	)

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = gs.Purchase(context.Background(), station.FuelGradeSuper, 50, 2.0)
	}()
	require.True(t, clock.WaitEntered(1, 5*time.Second))

	// Act
	_, secondErr := gs.Purchase(context.Background(), station.FuelGradeSuper, 10, 2.0)
	clock.Open()
	wg.Wait()

	// Assert
	require.NoError(t, firstErr)
	assert.True(t, station.IsNoGas(secondErr))
	stats := gs.Statistics()
	assert.Equal(t, 1, stats.Sales)
	assert.Equal(t, 1, stats.CancellationsNoGas)
	assert.Equal(t, 150.0, gs.Pumps().At(0).Remaining)
}

func TestPurchase_RevenueUsesAdmissionPrice(t *testing.T) {
	// Arrange
	clock := helpers.NewGateClock(1)
	gs := helpers.NewTestStation(t, clock, nil,
		map[station.FuelGrade]float64{station.FuelGradeSuper: 1.42},
		helpers.PumpSpec{Grade: station.FuelGradeSuper, Quantity: 200},
	)

	var wg sync.WaitGroup
	var receipt *appStation.Receipt
	var err error
	wg.Add(1)
	go func() {
		defer wg.Done()
		receipt, err = gs.Purchase(context.Background(), station.FuelGradeSuper, 50, 5.0)
	}()
	require.True(t, clock.WaitEntered(1, 5*time.Second))

	// Act
	require.NoError(t, gs.SetPrice(station.FuelGradeSuper, 3.00))
	clock.Open()
	wg.Wait()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1.42, receipt.Price)
	assert.InDelta(t, 71.0, receipt.Revenue, 1e-9)
	assert.InDelta(t, 71.0, gs.Revenue(), 1e-9)
	price, _ := gs.GetPrice(station.FuelGradeSuper)
	assert.Equal(t, 3.00, price)
}

func TestPurchase_PreconditionViolationsTouchNoCounter(t *testing.T) {
	gs := helpers.NewTestStation(t, nil, nil,
		map[station.FuelGrade]float64{station.FuelGradeSuper: 1.42},
		helpers.PumpSpec{Grade: station.FuelGradeSuper, Quantity: 200},
		helpers.PumpSpec{Grade: station.FuelGradeDiesel, Quantity: 150},
	)

	tests := []struct {
		name     string
		grade    station.FuelGrade
		amount   float64
		maxPrice float64
		target   interface{}
	}{
		{"zero amount", station.FuelGradeSuper, 0, 2, new(*station.ErrInvalidAmount)},
		{"negative amount", station.FuelGradeSuper, -5, 2, new(*station.ErrInvalidAmount)},
		{"NaN amount", station.FuelGradeSuper, math.NaN(), 2, new(*station.ErrInvalidAmount)},
		{"infinite amount", station.FuelGradeSuper, math.Inf(1), 2, new(*station.ErrInvalidAmount)},
		{"unknown grade", station.FuelGrade("KEROSENE"), 10, 2, new(*station.ErrUnknownFuelGrade)},
		{"price not set", station.FuelGradeDiesel, 10, 2, new(*station.ErrPriceNotSet)},
		{"NaN max price", station.FuelGradeSuper, 10, math.NaN(), new(*station.ErrInvalidPrice)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			receipt, err := gs.Purchase(context.Background(), tt.grade, tt.amount, tt.maxPrice)

			// Assert
			assert.Nil(t, receipt)
			assert.ErrorAs(t, err, tt.target)
			assert.False(t, station.IsCancellation(err))
		})
	}

	assert.Zero(t, gs.Statistics().Transactions())
	assert.Equal(t, 350.0, gs.Pumps().At(0).Remaining+gs.Pumps().At(1).Remaining)
}

func TestPurchase_NegativeMaxPriceIsTooExpensive(t *testing.T) {
	// Arrange
	gs := helpers.NewDefaultTestStation(t)

	// Act
	_, err := gs.BuyGas(context.Background(), station.FuelGradeRegular, 10, -1)

	// Assert
	assert.True(t, station.IsTooExpensive(err))
	assert.Equal(t, 1, gs.NumberOfCancellationsTooExpensive())
}

func TestPurchase_JournalReceivesEveryOutcome(t *testing.T) {
	// Arrange
	journal := &memoryJournal{}
	gs := helpers.NewTestStation(t, nil, journal, helpers.DefaultPrices, helpers.DefaultPumps...)
	ctx := context.Background()

	// Act
	_, _ = gs.BuyGas(ctx, station.FuelGradeSuper, 50, 1.42)
	_, _ = gs.BuyGas(ctx, station.FuelGradeSuper, 1, 1.00)
	_, _ = gs.BuyGas(ctx, station.FuelGradeDiesel, 500, 2.00)
	_, _ = gs.BuyGas(ctx, station.FuelGradeDiesel, 0, 2.00)

	// Assert
	require.Len(t, journal.records, 3)
	assert.Equal(t, station.OutcomeSold, journal.records[0].Outcome())
	assert.NotEmpty(t, journal.records[0].PumpID())
	assert.InDelta(t, 71.0, journal.records[0].Revenue(), 1e-9)
	assert.Equal(t, station.OutcomeTooExpensive, journal.records[1].Outcome())
	assert.Equal(t, 1.00, journal.records[1].MaxPrice())
	assert.Equal(t, station.OutcomeNoGas, journal.records[2].Outcome())
	assert.Zero(t, journal.records[2].Revenue())
}

func TestPurchase_JournalFailureDoesNotChangeOutcome(t *testing.T) {
	// Arrange
	journal := &memoryJournal{failWith: errors.New("disk full")}
	gs := helpers.NewTestStation(t, nil, journal, helpers.DefaultPrices, helpers.DefaultPumps...)

	// Act
	revenue, err := gs.BuyGas(context.Background(), station.FuelGradeSuper, 10, 1.42)

	// Assert
	require.NoError(t, err)
	assert.InDelta(t, 14.2, revenue, 1e-9)
	assert.Equal(t, 1, gs.NumberOfSales())
}

func TestPurchase_ManyConcurrentBuyersKeepCountersExact(t *testing.T) {
	// Arrange
	gs := helpers.NewDefaultTestStation(t)
	grades := []station.FuelGrade{station.FuelGradeRegular, station.FuelGradeSuper, station.FuelGradeDiesel}
	const callers = 400

	type result struct {
		receipt *appStation.Receipt
		err     error
	}
	results := make([]result, callers)
	var wg sync.WaitGroup

	// Act
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer wg.Done()
			grade := grades[i%len(grades)]
			amount := float64(1 + i%25)
			maxPrice := 1.30 + float64(i%3)*0.1
			r, err := gs.Purchase(context.Background(), grade, amount, maxPrice)
			results[i] = result{receipt: r, err: err}
		}(i)
	}
	wg.Wait()

	// Assert
	var sold int
	var revenue float64
	dispensed := make(map[station.FuelGrade]float64)
	for i, r := range results {
		if r.err != nil {
			require.True(t, station.IsCancellation(r.err), "call %d: unexpected error %v", i, r.err)
			continue
		}
		sold++
		revenue += r.receipt.Revenue
		dispensed[r.receipt.Grade] += r.receipt.Amount
	}

	stats := gs.Statistics()
	assert.Equal(t, callers, stats.Transactions())
	assert.Equal(t, sold, stats.Sales)
	assert.InDelta(t, revenue, stats.Revenue, 1e-6)
	assert.Equal(t, 0, gs.PumpsInUse())

	initial := map[station.FuelGrade]float64{
		station.FuelGradeRegular: 300,
		station.FuelGradeSuper:   200,
		station.FuelGradeDiesel:  150,
	}
	for _, grade := range grades {
		remaining := gs.Pumps().TotalRemaining(grade)
		assert.InDelta(t, initial[grade]-dispensed[grade], remaining, 1e-9, fmt.Sprintf("grade %s", grade))
	}
	for _, p := range gs.Pumps().All() {
		assert.GreaterOrEqual(t, p.Remaining, 0.0)
	}
}

// oversizedAllocator hands out reservations for more fuel than the pump holds
type oversizedAllocator struct {
	*appStation.InMemoryPumpAllocator
	extra float64

	mu    sync.Mutex
	inner map[*station.Reservation]*station.Reservation
}

func (a *oversizedAllocator) Reserve(grade station.FuelGrade, amount float64) (*station.Reservation, bool) {
	reservation, ok := a.InMemoryPumpAllocator.Reserve(grade, amount)
	if !ok {
		return nil, false
	}
	oversized := station.NewReservation(reservation.Pump(), amount+a.extra)

	a.mu.Lock()
	a.inner[oversized] = reservation
	a.mu.Unlock()
	return oversized, true
}

func (a *oversizedAllocator) Release(reservation *station.Reservation) error {
	a.mu.Lock()
	inner, ok := a.inner[reservation]
	delete(a.inner, reservation)
	a.mu.Unlock()
	if !ok {
		return &station.ErrReservationReleased{PumpID: reservation.Pump().ID().String()}
	}
	return a.InMemoryPumpAllocator.Release(inner)
}

func TestPurchase_DispenseFailureReleasesPumpAndCountsNothing(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(time.Time{})
	allocator := &oversizedAllocator{
		InMemoryPumpAllocator: appStation.NewInMemoryPumpAllocator(),
		extra:                 40,
		inner:                 make(map[*station.Reservation]*station.Reservation),
	}
	pump, err := station.NewPumpWithRate(station.FuelGradeSuper, 10, station.DefaultDispenseRate, clock)
	require.NoError(t, err)
	require.NoError(t, allocator.Register(pump))

	prices := appStation.NewInMemoryPriceTable()
	require.NoError(t, prices.SetPrice(station.FuelGradeSuper, 1.42))
	stats := appStation.NewStatistics()
	journal := &memoryJournal{}
	coordinator := appStation.NewCoordinator(allocator, prices, stats, journal, clock)

	// Act
	receipt, err := coordinator.Purchase(context.Background(), station.FuelGradeSuper, 10, 2.00)

	// Assert
	var insufficient *station.ErrInsufficientQuantity
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 50.0, insufficient.Requested)
	assert.Nil(t, receipt)
	assert.Equal(t, 0, allocator.InUse())
	assert.Equal(t, 0, stats.Snapshot().Transactions())
	assert.Zero(t, stats.Snapshot().Revenue)
	assert.Equal(t, 10.0, allocator.Pumps().At(0).Remaining)
	assert.Empty(t, journal.records)

	// Act
	_, err = coordinator.Purchase(context.Background(), station.FuelGradeSuper, 10, 2.00)

	// Assert
	require.Error(t, err)
	assert.False(t, station.IsNoGas(err), "released pump should be reserved again")
	assert.Equal(t, 0, allocator.InUse())
}

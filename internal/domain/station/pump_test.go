package station_test

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/gasstation-go/internal/domain/shared"
	"github.com/andrescamacho/gasstation-go/internal/domain/station"
)

func TestNewPump_Validation(t *testing.T) {
	clock := shared.NewMockClock(time.Time{})

	_, err := station.NewPump("KEROSENE", 100, clock)
	var unknown *station.ErrUnknownFuelGrade
	assert.ErrorAs(t, err, &unknown)

	_, err = station.NewPump(station.FuelGradeSuper, -1, clock)
	assert.Error(t, err)

	_, err = station.NewPump(station.FuelGradeSuper, math.NaN(), clock)
	assert.Error(t, err)

	_, err = station.NewPumpWithRate(station.FuelGradeSuper, 100, 0, clock)
	assert.Error(t, err)

	pump, err := station.NewPump(station.FuelGradeSuper, 0, clock)
	require.NoError(t, err)
	assert.Equal(t, 0.0, pump.RemainingQuantity())
	assert.False(t, pump.ID().IsZero())
}

func TestPump_DispenseDecrementsAndTakesTime(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(time.Time{})
	pump, err := station.NewPump(station.FuelGradeSuper, 200, clock)
	require.NoError(t, err)

	// Act
	err = pump.Dispense(50)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 150.0, pump.RemainingQuantity())
	assert.Equal(t, 5*time.Second, clock.TotalSlept())
	assert.Equal(t, 50.0, pump.Snapshot().Dispensed())
	assert.False(t, pump.IsDispensing())
}

func TestPump_DispenseRejectsInvalidAmounts(t *testing.T) {
	clock := shared.NewMockClock(time.Time{})
	pump, err := station.NewPump(station.FuelGradeDiesel, 150, clock)
	require.NoError(t, err)

	for _, amount := range []float64{0, -5, math.NaN(), math.Inf(1)} {
		var invalid *station.ErrInvalidAmount
		assert.ErrorAs(t, pump.Dispense(amount), &invalid, "amount %v", amount)
	}

	var insufficient *station.ErrInsufficientQuantity
	require.ErrorAs(t, pump.Dispense(151), &insufficient)
	assert.Equal(t, 151.0, insufficient.Requested)
	assert.Equal(t, 150.0, insufficient.Remaining)

	assert.Equal(t, 150.0, pump.RemainingQuantity())
	assert.Equal(t, time.Duration(0), clock.TotalSlept())
}

func TestPump_DispenseUntilEmpty(t *testing.T) {
	clock := shared.NewMockClock(time.Time{})
	pump, err := station.NewPump(station.FuelGradeRegular, 100, clock)
	require.NoError(t, err)

	require.NoError(t, pump.Dispense(60))
	require.NoError(t, pump.Dispense(40))
	assert.Equal(t, 0.0, pump.RemainingQuantity())
	assert.False(t, pump.CanDispense(0.1))
	assert.Error(t, pump.Dispense(0.1))
}

// blockingClock holds every Sleep until release is closed.
type blockingClock struct {
	entered chan struct{}
	release chan struct{}
}

func (c *blockingClock) Now() time.Time { return time.Time{} }

func (c *blockingClock) Sleep(time.Duration) {
	c.entered <- struct{}{}
	<-c.release
}

func TestPump_OverlappingDispenseIsRejected(t *testing.T) {
	// Arrange
	clock := &blockingClock{entered: make(chan struct{}, 1), release: make(chan struct{})}
	pump, err := station.NewPump(station.FuelGradeSuper, 200, clock)
	require.NoError(t, err)

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		firstErr = pump.Dispense(30)
	}()
	<-clock.entered

	// Act
	secondErr := pump.Dispense(30)
	close(clock.release)
	wg.Wait()

	// Assert
	require.NoError(t, firstErr)
	var busy *station.ErrPumpBusy
	assert.ErrorAs(t, secondErr, &busy)
	assert.Equal(t, 170.0, pump.RemainingQuantity())
}

func TestPump_DispenseDuration(t *testing.T) {
	pump, err := station.NewPumpWithRate(station.FuelGradeSuper, 100, 20, shared.NewMockClock(time.Time{}))
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, pump.DispenseDuration(40))
	assert.Equal(t, 20.0, pump.DispenseRate())
}

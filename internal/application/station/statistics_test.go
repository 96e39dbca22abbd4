package station_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appStation "github.com/andrescamacho/gasstation-go/internal/application/station"
	"github.com/andrescamacho/gasstation-go/internal/domain/station"
)

func TestStatistics_ConcurrentUpdatesAreNotLost(t *testing.T) {
	// Arrange
	stats := appStation.NewStatistics()
	const workers = 64
	const perWorker = 250
	var wg sync.WaitGroup

	// Act
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				switch (w + i) % 3 {
				case 0:
					stats.RecordSale(0.5)
				case 1:
					stats.RecordTooExpensive()
				default:
					stats.RecordNoGas()
				}
			}
		}(w)
	}
	wg.Wait()

	// Assert
	snapshot := stats.Snapshot()
	assert.Equal(t, workers*perWorker, snapshot.Transactions())
	assert.InDelta(t, float64(snapshot.Sales)*0.5, snapshot.Revenue, 1e-9)
	assert.Equal(t, snapshot.Sales, stats.Sales())
	assert.Equal(t, snapshot.CancellationsTooExpensive, stats.CancellationsTooExpensive())
	assert.Equal(t, snapshot.CancellationsNoGas, stats.CancellationsNoGas())
}

func TestStatistics_StartsAtZero(t *testing.T) {
	stats := appStation.NewStatistics()

	assert.Equal(t, appStation.StatisticsSnapshot{}, stats.Snapshot())
	assert.Zero(t, stats.Revenue())
}

func TestPriceTable_SetAndGet(t *testing.T) {
	// Arrange
	table := appStation.NewInMemoryPriceTable()

	// Act
	require.NoError(t, table.SetPrice(station.FuelGradeSuper, 1.42))
	require.NoError(t, table.SetPrice(station.FuelGradeSuper, 1.50))

	// Assert
	price, err := table.GetPrice(station.FuelGradeSuper)
	require.NoError(t, err)
	assert.Equal(t, 1.50, price)

	prices := table.Prices()
	prices[station.FuelGradeSuper] = 99
	again, _ := table.GetPrice(station.FuelGradeSuper)
	assert.Equal(t, 1.50, again, "Prices must return a copy")
}

func TestPriceTable_Errors(t *testing.T) {
	table := appStation.NewInMemoryPriceTable()

	_, err := table.GetPrice(station.FuelGradeDiesel)
	var notSet *station.ErrPriceNotSet
	assert.ErrorAs(t, err, &notSet)

	_, err = table.GetPrice(station.FuelGrade("LPG"))
	var unknown *station.ErrUnknownFuelGrade
	assert.ErrorAs(t, err, &unknown)

	var invalid *station.ErrInvalidPrice
	assert.ErrorAs(t, table.SetPrice(station.FuelGradeDiesel, 0), &invalid)
	assert.ErrorAs(t, table.SetPrice(station.FuelGradeDiesel, -1.2), &invalid)
	assert.ErrorAs(t, table.SetPrice(station.FuelGrade("LPG"), 1), &unknown)
	assert.Empty(t, table.Prices())
}

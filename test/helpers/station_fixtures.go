package helpers

import (
	"testing"
	"time"

	appStation "github.com/andrescamacho/gasstation-go/internal/application/station"
	"github.com/andrescamacho/gasstation-go/internal/domain/shared"
	"github.com/andrescamacho/gasstation-go/internal/domain/station"
)

// PumpSpec describes one pump for a test station
type PumpSpec struct {
	Grade    station.FuelGrade
	Quantity float64
}

// DefaultPrices are the unit prices used by the reference station layout
var DefaultPrices = map[station.FuelGrade]float64{
	station.FuelGradeRegular: 1.40,
	station.FuelGradeSuper:   1.42,
	station.FuelGradeDiesel:  1.20,
}

// DefaultPumps is the reference station layout
var DefaultPumps = []PumpSpec{
	{Grade: station.FuelGradeSuper, Quantity: 200},
	{Grade: station.FuelGradeDiesel, Quantity: 150},
	{Grade: station.FuelGradeRegular, Quantity: 100},
	{Grade: station.FuelGradeRegular, Quantity: 200},
}

// NewTestStation builds a station with the given pumps and prices.
// A nil clock means a fresh MockClock.
func NewTestStation(
	t *testing.T,
	clock shared.Clock,
	journal station.SaleJournal,
	prices map[station.FuelGrade]float64,
	pumps ...PumpSpec,
) *appStation.GasStation {
	t.Helper()

	if clock == nil {
		clock = shared.NewMockClock(time.Time{})
	}

	gs := appStation.NewGasStation(journal, clock)
	for _, spec := range pumps {
		if _, err := gs.NewPump(spec.Grade, spec.Quantity, station.DefaultDispenseRate); err != nil {
			t.Fatalf("failed to add %s pump: %v", spec.Grade, err)
		}
	}
	for grade, price := range prices {
		if err := gs.SetPrice(grade, price); err != nil {
			t.Fatalf("failed to set %s price: %v", grade, err)
		}
	}
	return gs
}

// NewDefaultTestStation builds the reference station layout on a MockClock
func NewDefaultTestStation(t *testing.T) *appStation.GasStation {
	t.Helper()
	return NewTestStation(t, nil, nil, DefaultPrices, DefaultPumps...)
}

package setup

import (
	"fmt"

	appStation "github.com/andrescamacho/gasstation-go/internal/application/station"
	"github.com/andrescamacho/gasstation-go/internal/application/station/simulation"
	"github.com/andrescamacho/gasstation-go/internal/domain/shared"
	"github.com/andrescamacho/gasstation-go/internal/domain/station"
	"github.com/andrescamacho/gasstation-go/internal/infrastructure/config"
)

// BuildStation creates a station from configuration, registering pumps in
// configured order before setting prices. journal and clock may be nil.
func BuildStation(cfg config.StationConfig, journal station.SaleJournal, clock shared.Clock) (*appStation.GasStation, error) {
	gs := appStation.NewGasStation(journal, clock)

	for i, p := range cfg.Pumps {
		grade, err := station.ParseFuelGrade(p.Grade)
		if err != nil {
			return nil, fmt.Errorf("pump %d: %w", i, err)
		}
		if _, err := gs.NewPump(grade, p.Quantity, cfg.DispenseRate); err != nil {
			return nil, fmt.Errorf("pump %d: %w", i, err)
		}
	}

	for name, price := range cfg.Prices {
		grade, err := station.ParseFuelGrade(name)
		if err != nil {
			return nil, fmt.Errorf("price for %q: %w", name, err)
		}
		if err := gs.SetPrice(grade, price); err != nil {
			return nil, err
		}
	}

	return gs, nil
}

// BuildCustomers converts customer configuration into simulation customers
func BuildCustomers(cfg config.SimulationConfig) ([]simulation.Customer, error) {
	customers := make([]simulation.Customer, 0, len(cfg.Customers))
	for i, c := range cfg.Customers {
		grade, err := station.ParseFuelGrade(c.Grade)
		if err != nil {
			return nil, fmt.Errorf("customer %d: %w", i, err)
		}

		name := c.Name
		if name == "" {
			name = fmt.Sprintf("customer-%d", i+1)
		}

		customers = append(customers, simulation.Customer{
			Name:     name,
			Grade:    grade,
			Amount:   c.Amount,
			MaxPrice: c.MaxPrice,
			Interval: c.Interval,
		})
	}
	return customers, nil
}

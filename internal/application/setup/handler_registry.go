package setup

import (
	"reflect"

	"github.com/andrescamacho/gasstation-go/internal/application/mediator"
	appStation "github.com/andrescamacho/gasstation-go/internal/application/station"
	"github.com/andrescamacho/gasstation-go/internal/application/station/commands"
	"github.com/andrescamacho/gasstation-go/internal/application/station/queries"
)

// HandlerRegistry holds the dependencies needed to build station handlers
type HandlerRegistry struct {
	station *appStation.GasStation
}

// NewHandlerRegistry creates a new handler registry for station
func NewHandlerRegistry(station *appStation.GasStation) *HandlerRegistry {
	return &HandlerRegistry{station: station}
}

// RegisterStationHandlers registers all station command and query handlers with the mediator
//
// This method registers:
//   - PurchaseFuelCommand → PurchaseFuelHandler
//   - SetPriceCommand → SetPriceHandler
//   - GetStatisticsQuery → GetStatisticsHandler
//   - ListPumpsQuery → ListPumpsHandler
func (r *HandlerRegistry) RegisterStationHandlers(m mediator.Mediator) error {
	handlers := []struct {
		requestType reflect.Type
		handler     mediator.RequestHandler
	}{
		{reflect.TypeOf((*commands.PurchaseFuelCommand)(nil)), commands.NewPurchaseFuelHandler(r.station)},
		{reflect.TypeOf((*commands.SetPriceCommand)(nil)), commands.NewSetPriceHandler(r.station)},
		{reflect.TypeOf((*queries.GetStatisticsQuery)(nil)), queries.NewGetStatisticsHandler(r.station)},
		{reflect.TypeOf((*queries.ListPumpsQuery)(nil)), queries.NewListPumpsHandler(r.station)},
	}

	for _, h := range handlers {
		if err := m.Register(h.requestType, h.handler); err != nil {
			return err
		}
	}

	return nil
}

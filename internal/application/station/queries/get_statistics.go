package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/gasstation-go/internal/application/mediator"
	appStation "github.com/andrescamacho/gasstation-go/internal/application/station"
	"github.com/andrescamacho/gasstation-go/internal/domain/station"
)

// GetStatisticsQuery reads the station counters and current prices
type GetStatisticsQuery struct{}

// GetStatisticsResponse is a consistent counter snapshot plus the price table
type GetStatisticsResponse struct {
	Statistics appStation.StatisticsSnapshot
	Prices     map[station.FuelGrade]float64
	PumpsInUse int
}

// StatisticsReader exposes read-only station state
type StatisticsReader interface {
	Statistics() appStation.StatisticsSnapshot
	Prices() map[station.FuelGrade]float64
	PumpsInUse() int
}

// GetStatisticsHandler handles the GetStatistics query
type GetStatisticsHandler struct {
	station StatisticsReader
}

// NewGetStatisticsHandler creates a new GetStatisticsHandler
func NewGetStatisticsHandler(gs StatisticsReader) *GetStatisticsHandler {
	return &GetStatisticsHandler{station: gs}
}

// Handle executes the GetStatistics query
func (h *GetStatisticsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*GetStatisticsQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetStatisticsQuery")
	}

	return &GetStatisticsResponse{
		Statistics: h.station.Statistics(),
		Prices:     h.station.Prices(),
		PumpsInUse: h.station.PumpsInUse(),
	}, nil
}

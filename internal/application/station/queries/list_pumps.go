package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/gasstation-go/internal/application/mediator"
	"github.com/andrescamacho/gasstation-go/internal/domain/station"
)

// ListPumpsQuery lists pump snapshots, optionally filtered by grade
type ListPumpsQuery struct {
	Grade string // empty for all grades
}

// ListPumpsResponse holds pump snapshots in registration order
type ListPumpsResponse struct {
	Pumps []station.PumpSnapshot
}

// PumpLister exposes the pump registry view
type PumpLister interface {
	Pumps() station.PumpView
}

// ListPumpsHandler handles the ListPumps query
type ListPumpsHandler struct {
	station PumpLister
}

// NewListPumpsHandler creates a new ListPumpsHandler
func NewListPumpsHandler(gs PumpLister) *ListPumpsHandler {
	return &ListPumpsHandler{station: gs}
}

// Handle executes the ListPumps query
func (h *ListPumpsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ListPumpsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListPumpsQuery")
	}

	view := h.station.Pumps()
	if query.Grade == "" {
		return &ListPumpsResponse{Pumps: view.All()}, nil
	}

	grade, err := station.ParseFuelGrade(query.Grade)
	if err != nil {
		return nil, err
	}
	return &ListPumpsResponse{Pumps: view.ByGrade(grade)}, nil
}

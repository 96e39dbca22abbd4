package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/gasstation-go/internal/application/mediator"
	appStation "github.com/andrescamacho/gasstation-go/internal/application/station"
	"github.com/andrescamacho/gasstation-go/internal/domain/station"
)

// PurchaseFuelCommand asks the station to sell Amount units of Grade at no more than MaxPrice
type PurchaseFuelCommand struct {
	Grade    string
	Amount   float64
	MaxPrice float64
}

// PurchaseFuelResponse carries the receipt of a purchase that reached a terminal outcome.
// Cancellations are reported here too, with Cancelled set and the typed error in Reason.
type PurchaseFuelResponse struct {
	Receipt   *appStation.Receipt
	Cancelled bool
	Reason    error
}

// Purchaser runs purchase transactions
type Purchaser interface {
	Purchase(ctx context.Context, grade station.FuelGrade, amount, maxPrice float64) (*appStation.Receipt, error)
}

// PurchaseFuelHandler handles the PurchaseFuel command
type PurchaseFuelHandler struct {
	station Purchaser
}

// NewPurchaseFuelHandler creates a new PurchaseFuelHandler
func NewPurchaseFuelHandler(gs Purchaser) *PurchaseFuelHandler {
	return &PurchaseFuelHandler{station: gs}
}

// Handle executes the PurchaseFuel command
func (h *PurchaseFuelHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*PurchaseFuelCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *PurchaseFuelCommand")
	}

	grade, err := station.ParseFuelGrade(cmd.Grade)
	if err != nil {
		return nil, err
	}

	receipt, err := h.station.Purchase(ctx, grade, cmd.Amount, cmd.MaxPrice)
	if err != nil {
		if station.IsCancellation(err) {
			return &PurchaseFuelResponse{Receipt: receipt, Cancelled: true, Reason: err}, nil
		}
		return nil, err
	}

	return &PurchaseFuelResponse{Receipt: receipt}, nil
}

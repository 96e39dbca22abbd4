package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/gasstation-go/internal/application/common"
	"github.com/andrescamacho/gasstation-go/internal/application/mediator"
	"github.com/andrescamacho/gasstation-go/internal/domain/station"
)

// SetPriceCommand overwrites the unit price of a grade
type SetPriceCommand struct {
	Grade string
	Price float64
}

// SetPriceResponse echoes the price now in effect
type SetPriceResponse struct {
	Grade station.FuelGrade
	Price float64
}

// PriceSetter updates unit prices
type PriceSetter interface {
	SetPrice(grade station.FuelGrade, price float64) error
}

// SetPriceHandler handles the SetPrice command
type SetPriceHandler struct {
	prices PriceSetter
}

// NewSetPriceHandler creates a new SetPriceHandler
func NewSetPriceHandler(prices PriceSetter) *SetPriceHandler {
	return &SetPriceHandler{prices: prices}
}

// Handle executes the SetPrice command
func (h *SetPriceHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*SetPriceCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *SetPriceCommand")
	}

	grade, err := station.ParseFuelGrade(cmd.Grade)
	if err != nil {
		return nil, err
	}

	if err := h.prices.SetPrice(grade, cmd.Price); err != nil {
		return nil, fmt.Errorf("failed to set price: %w", err)
	}

	common.LoggerFromContext(ctx).Log("INFO", "Price updated", map[string]interface{}{
		"grade": grade.String(),
		"price": cmd.Price,
	})

	return &SetPriceResponse{Grade: grade, Price: cmd.Price}, nil
}

package station

import (
	"errors"
	"fmt"
)

// ErrTooExpensive indicates the current price exceeds the buyer's ceiling
type ErrTooExpensive struct {
	Grade    FuelGrade
	Price    float64
	MaxPrice float64
}

func (e *ErrTooExpensive) Error() string {
	return fmt.Sprintf("%s is too expensive: price %.4f exceeds max price %.4f", e.Grade, e.Price, e.MaxPrice)
}

// ErrNoGas indicates no unreserved pump of the grade holds the requested amount
type ErrNoGas struct {
	Grade  FuelGrade
	Amount float64
}

func (e *ErrNoGas) Error() string {
	return fmt.Sprintf("no %s pump available with %.2f units", e.Grade, e.Amount)
}

// ErrUnknownFuelGrade indicates a grade outside the known enumeration
type ErrUnknownFuelGrade struct {
	Grade string
}

func (e *ErrUnknownFuelGrade) Error() string {
	return fmt.Sprintf("unknown fuel grade: %q", e.Grade)
}

// ErrInvalidAmount indicates a non-positive or non-finite amount
type ErrInvalidAmount struct {
	Amount float64
}

func (e *ErrInvalidAmount) Error() string {
	return fmt.Sprintf("amount must be a positive finite number, got %v", e.Amount)
}

// ErrPriceNotSet indicates a purchase against a grade with no price entry
type ErrPriceNotSet struct {
	Grade FuelGrade
}

func (e *ErrPriceNotSet) Error() string {
	return fmt.Sprintf("no price set for %s", e.Grade)
}

// ErrInvalidPrice indicates a price that is not a positive finite number
type ErrInvalidPrice struct {
	Field string
	Price float64
}

func (e *ErrInvalidPrice) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Price)
}

// ErrInsufficientQuantity indicates a dispense larger than the pump's remaining quantity
type ErrInsufficientQuantity struct {
	PumpID    string
	Requested float64
	Remaining float64
}

func (e *ErrInsufficientQuantity) Error() string {
	return fmt.Sprintf("pump %s cannot dispense %.2f units: only %.2f remaining", e.PumpID, e.Requested, e.Remaining)
}

// ErrPumpBusy indicates a dispense was attempted while another is in progress
type ErrPumpBusy struct {
	PumpID string
}

func (e *ErrPumpBusy) Error() string {
	return fmt.Sprintf("pump %s is already dispensing", e.PumpID)
}

// ErrPumpAlreadyRegistered indicates the pump is already part of the station
type ErrPumpAlreadyRegistered struct {
	PumpID string
}

func (e *ErrPumpAlreadyRegistered) Error() string {
	return fmt.Sprintf("pump already registered: %s", e.PumpID)
}

// ErrReservationReleased indicates a reservation was released more than once
type ErrReservationReleased struct {
	PumpID string
}

func (e *ErrReservationReleased) Error() string {
	return fmt.Sprintf("reservation on pump %s already released", e.PumpID)
}

// IsTooExpensive reports whether err is a too-expensive cancellation
func IsTooExpensive(err error) bool {
	var target *ErrTooExpensive
	return errors.As(err, &target)
}

// IsNoGas reports whether err is a no-gas cancellation
func IsNoGas(err error) bool {
	var target *ErrNoGas
	return errors.As(err, &target)
}

// IsCancellation reports whether err is one of the two recoverable sale outcomes
func IsCancellation(err error) bool {
	return IsTooExpensive(err) || IsNoGas(err)
}

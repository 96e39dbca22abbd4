package station

import (
	"fmt"

	"github.com/google/uuid"
)

// PumpID is a value object representing a pump's unique identifier
type PumpID struct {
	value string
}

// NewPumpID creates a new PumpID with a generated UUID
func NewPumpID() PumpID {
	return PumpID{value: uuid.New().String()}
}

// PumpIDFromString creates a PumpID from an existing UUID string
func PumpIDFromString(id string) (PumpID, error) {
	if id == "" {
		return PumpID{}, fmt.Errorf("pump_id cannot be empty")
	}

	if _, err := uuid.Parse(id); err != nil {
		return PumpID{}, fmt.Errorf("invalid pump_id format: %w", err)
	}

	return PumpID{value: id}, nil
}

func (p PumpID) String() string {
	return p.value
}

// Equals checks if two PumpIDs are equal
func (p PumpID) Equals(other PumpID) bool {
	return p.value == other.value
}

// IsZero checks if the PumpID is the zero value (uninitialized)
func (p PumpID) IsZero() bool {
	return p.value == ""
}

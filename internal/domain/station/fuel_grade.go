package station

import "strings"

// FuelGrade represents the category of fuel a pump dispenses
type FuelGrade string

const (
	// FuelGradeRegular is standard unleaded fuel
	FuelGradeRegular FuelGrade = "REGULAR"

	// FuelGradeSuper is high-octane unleaded fuel
	FuelGradeSuper FuelGrade = "SUPER"

	// FuelGradeDiesel is diesel fuel
	FuelGradeDiesel FuelGrade = "DIESEL"
)

// AllFuelGrades returns all valid fuel grades
func AllFuelGrades() []FuelGrade {
	return []FuelGrade{
		FuelGradeRegular,
		FuelGradeSuper,
		FuelGradeDiesel,
	}
}

// String returns the string representation of the FuelGrade
func (g FuelGrade) String() string {
	return string(g)
}

// IsValid checks if the fuel grade is one of the known grades
func (g FuelGrade) IsValid() bool {
	switch g {
	case FuelGradeRegular, FuelGradeSuper, FuelGradeDiesel:
		return true
	default:
		return false
	}
}

// ParseFuelGrade parses a string into a FuelGrade (case-insensitive)
func ParseFuelGrade(s string) (FuelGrade, error) {
	g := FuelGrade(strings.ToUpper(strings.TrimSpace(s)))
	if !g.IsValid() {
		return "", &ErrUnknownFuelGrade{Grade: s}
	}
	return g, nil
}

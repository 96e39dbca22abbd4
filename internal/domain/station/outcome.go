package station

import "fmt"

// Outcome is the terminal signal of one purchase
type Outcome string

const (
	// OutcomeSold means fuel was dispensed and revenue recorded
	OutcomeSold Outcome = "SOLD"

	// OutcomeTooExpensive means the price exceeded the buyer's ceiling
	OutcomeTooExpensive Outcome = "TOO_EXPENSIVE"

	// OutcomeNoGas means no eligible pump was available
	OutcomeNoGas Outcome = "NO_GAS"
)

// AllOutcomes returns all valid outcomes
func AllOutcomes() []Outcome {
	return []Outcome{OutcomeSold, OutcomeTooExpensive, OutcomeNoGas}
}

func (o Outcome) String() string {
	return string(o)
}

// IsValid checks if the outcome is valid
func (o Outcome) IsValid() bool {
	switch o {
	case OutcomeSold, OutcomeTooExpensive, OutcomeNoGas:
		return true
	default:
		return false
	}
}

// ParseOutcome parses a string into an Outcome
func ParseOutcome(s string) (Outcome, error) {
	o := Outcome(s)
	if !o.IsValid() {
		return "", fmt.Errorf("invalid outcome: %s", s)
	}
	return o, nil
}

// OutcomeOf maps a purchase error to its outcome; ok is false for errors
// that are not sale outcomes (precondition violations).
func OutcomeOf(err error) (outcome Outcome, ok bool) {
	switch {
	case err == nil:
		return OutcomeSold, true
	case IsTooExpensive(err):
		return OutcomeTooExpensive, true
	case IsNoGas(err):
		return OutcomeNoGas, true
	default:
		return "", false
	}
}

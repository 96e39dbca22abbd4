package station

// PumpSnapshot is a point-in-time copy of a pump's state
type PumpSnapshot struct {
	ID        PumpID
	Grade     FuelGrade
	Initial   float64
	Remaining float64
}

// Dispensed returns the total quantity delivered by the pump so far
func (s PumpSnapshot) Dispensed() float64 {
	return s.Initial - s.Remaining
}

// PumpView is a read-only view of the registered pumps in registration order.
// It owns its own copy of the snapshots; nothing done to a view reaches the station.
type PumpView struct {
	pumps []PumpSnapshot
}

// NewPumpView creates a view over a copy of the given snapshots
func NewPumpView(snapshots []PumpSnapshot) PumpView {
	pumps := make([]PumpSnapshot, len(snapshots))
	copy(pumps, snapshots)
	return PumpView{pumps: pumps}
}

// Len returns the number of pumps in the view
func (v PumpView) Len() int {
	return len(v.pumps)
}

// At returns the i-th pump in registration order
func (v PumpView) At(i int) PumpSnapshot {
	return v.pumps[i]
}

// All returns a fresh copy of every snapshot
func (v PumpView) All() []PumpSnapshot {
	result := make([]PumpSnapshot, len(v.pumps))
	copy(result, v.pumps)
	return result
}

// ByGrade returns a fresh slice of the snapshots matching grade
func (v PumpView) ByGrade(grade FuelGrade) []PumpSnapshot {
	var result []PumpSnapshot
	for _, p := range v.pumps {
		if p.Grade == grade {
			result = append(result, p)
		}
	}
	return result
}

// TotalRemaining sums the remaining quantity of all pumps of a grade
func (v PumpView) TotalRemaining(grade FuelGrade) float64 {
	total := 0.0
	for _, p := range v.pumps {
		if p.Grade == grade {
			total += p.Remaining
		}
	}
	return total
}

package valueobject

// SimulationOutcome is the terminal state of one simulation request.
type SimulationOutcome struct {
	value string
}

var (
	// OutcomeCreated: persisted, notification attempted.
	OutcomeCreated = SimulationOutcome{value: "CREATED"}
	// OutcomeRejected: invalid request or no eligible product. Nothing persisted.
	OutcomeRejected = SimulationOutcome{value: "REJECTED"}
	// OutcomeFailed: catalog or persistence failure. Nothing persisted.
	OutcomeFailed = SimulationOutcome{value: "FAILED"}
)

// String returns the string representation of the outcome.
func (o SimulationOutcome) String() string { return o.value }

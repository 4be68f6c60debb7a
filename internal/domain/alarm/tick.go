package alarm

// TickSummary describes the outcome of one proximity tick.
// It carries counts only; alarm data stays in the store.
type TickSummary struct {
	// PositionUnavailable is set when the tick ended before loading alarms.
	PositionUnavailable bool `json:"positionUnavailable"`
	// Evaluated counts enabled alarms active today.
	Evaluated int `json:"evaluated"`
	// Fired counts alarms that passed the notification gate.
	Fired int `json:"fired"`
	// FailedSends counts message actions that could not be delivered.
	FailedSends int `json:"failedSends"`
}

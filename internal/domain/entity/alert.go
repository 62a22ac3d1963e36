package entity

// Alert describes a price that crossed the configured target.
type Alert struct {
	Product     Product
	TargetPrice float64
	IsNewLow    bool
}

// Outcome is the result of one notification attempt. Channels without
// credentials skip rather than fail.
type Outcome int

const (
	OutcomeSkipped Outcome = iota
	OutcomeSent
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSent:
		return "sent"
	case OutcomeFailed:
		return "failed"
	default:
		return "skipped"
	}
}

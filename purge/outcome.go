package purge

// Status classifies the terminal result of one purge invocation.
type Status int

const (
	// StatusSuccess means the CDN confirmed the purge.
	StatusSuccess Status = iota
	// StatusSkipped means no action was needed; never notified.
	StatusSkipped
	// StatusFailed means the purge did not happen; always notified.
	StatusFailed
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the result of one purge invocation. It is never persisted; it
// only drives the notification decision and observability.
type Outcome struct {
	Status Status
	Detail string
}

// Success returns a successful outcome.
func Success() Outcome {
	return Outcome{Status: StatusSuccess}
}

// Skipped returns a benign no-action outcome.
func Skipped(reason string) Outcome {
	return Outcome{Status: StatusSkipped, Detail: reason}
}

// Failed returns a failed outcome with diagnostic detail.
func Failed(detail string) Outcome {
	return Outcome{Status: StatusFailed, Detail: detail}
}

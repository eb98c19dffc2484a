package imagestudio

// State tags an Outcome.
type State string

const (
	StateIdle      State = "idle"
	StateInFlight  State = "in_flight"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

// Outcome is the single result slot of a Studio. Exactly one state is active;
// ImageDataURI is set only when Succeeded and Message/Err only when Failed.
type Outcome struct {
	State        State
	ImageDataURI string
	Message      string
	Err          error
}

// Idle returns the empty outcome.
func Idle() Outcome {
	return Outcome{State: StateIdle}
}

// InFlight returns the outcome of a request that has been dispatched.
func InFlight() Outcome {
	return Outcome{State: StateInFlight}
}

// Succeeded returns a successful outcome carrying the image data URI.
func Succeeded(dataURI string) Outcome {
	return Outcome{State: StateSucceeded, ImageDataURI: dataURI}
}

// Failed returns a failed outcome. The message is what the user sees.
func Failed(message string, err error) Outcome {
	return Outcome{State: StateFailed, Message: message, Err: err}
}

// Settled reports whether a new submission may replace the outcome.
func (o Outcome) Settled() bool {
	return o.State != StateInFlight
}

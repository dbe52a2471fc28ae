package domain

// GenericFailureMessage is shown when no more specific user-facing message exists.
const GenericFailureMessage = "An unexpected error occurred. Please try again."

// Payload carries the success data of a relay operation. Fields that do not
// apply to an operation are left empty (verify has no SessionID or Phone).
type Payload struct {
	SessionID string
	Phone     string
	Message   string
}

// Outcome is the tagged result of every relay operation: exactly one of
// Success{payload} or Failure{message}. A failure message is never empty.
// Construct with Succeeded or Failed.
type Outcome struct {
	ok      bool
	payload Payload
	message string
}

// Succeeded returns a Success outcome carrying p.
func Succeeded(p Payload) Outcome {
	return Outcome{ok: true, payload: p}
}

// Failed returns a Failure outcome. An empty message is replaced with
// GenericFailureMessage so callers always have something to show.
func Failed(message string) Outcome {
	if message == "" {
		message = GenericFailureMessage
	}
	return Outcome{message: message}
}

// IsSuccess reports whether the outcome is the Success variant.
func (o Outcome) IsSuccess() bool { return o.ok }

// Payload returns the success payload; zero for a Failure.
func (o Outcome) Payload() Payload { return o.payload }

// FailureMessage returns the user-facing message; empty for a Success.
func (o Outcome) FailureMessage() string { return o.message }

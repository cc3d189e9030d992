package pactconsumer

import "fmt"

// VerificationError is the single error kind raised when consumer-side
// verification of a message fails, whatever the underlying reason: a failed
// reify call, a malformed envelope, contents that do not deserialize into
// the target type, a handler error, or a failed pact file write. The
// original failure is available as the cause.
type VerificationError struct {
	Description string
	cause       error
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("verification of message '%s' failed: %s", e.Description, e.cause)
}

func (e *VerificationError) Cause() error {
	return e.cause
}

func (e *VerificationError) Unwrap() error {
	return e.cause
}

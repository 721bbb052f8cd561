package llm

import (
	"errors"
	"fmt"
)

// FailureReason classifies why a generation produced no model text.
type FailureReason string

const (
	// FailureReasonConfiguration means the client could not be used as configured, such as a missing API key.
	FailureReasonConfiguration FailureReason = "configuration"
	// FailureReasonTransport covers network, authentication, and API errors.
	FailureReasonTransport FailureReason = "transport"
	// FailureReasonEmpty means the service answered without any candidate text.
	FailureReasonEmpty FailureReason = "empty"
)

// ErrEmptyResponse is the cause attached to FailureReasonEmpty failures.
var ErrEmptyResponse = errors.New("no response from AI")

// Failure describes an unsuccessful generation.
type Failure struct {
	Reason FailureReason
	Err    error
}

func (failure *Failure) Error() string {
	if failure.Err == nil {
		return string(failure.Reason)
	}
	return fmt.Sprintf("%s: %v", failure.Reason, failure.Err)
}

func (failure *Failure) Unwrap() error {
	return failure.Err
}

// Response is the outcome of one generation: model text on success, a Failure otherwise.
type Response struct {
	Text    string
	Failure *Failure
}

// Succeeded reports whether the response carries model text.
func (response Response) Succeeded() bool {
	return response.Failure == nil
}

// Success wraps model text.
func Success(text string) Response {
	return Response{Text: text}
}

// Failed wraps a failure cause.
func Failed(reason FailureReason, cause error) Response {
	return Response{Failure: &Failure{Reason: reason, Err: cause}}
}

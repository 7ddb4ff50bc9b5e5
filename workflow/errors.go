package workflow

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrTransitionInFlight is returned when an event arrives while a network call for the workflow is outstanding
	ErrTransitionInFlight = errors.New("another transition is still in progress")
	// ErrInvalidTransition is returned when the event is not accepted in the current phase
	ErrInvalidTransition = errors.New("event not allowed in the current phase")
	// ErrAbandoned is returned when a result arrives after the workflow was reset
	ErrAbandoned = errors.New("workflow was abandoned before the call completed")
	// ErrTimeout is attached to a workflow whose pending phase exceeded its ceiling
	ErrTimeout = errors.New("transfer is still processing after the allowed time")
)

type ValidationCode string

const (
	ValidationMissingField      ValidationCode = "missing_field"
	ValidationUnknownBank       ValidationCode = "unknown_bank"
	ValidationInvalidAmount     ValidationCode = "invalid_amount"
	ValidationInsufficientFunds ValidationCode = "insufficient_funds"
)

// ValidationError is a local, field level problem with a draft
type ValidationError struct {
	Code      ValidationCode
	Field     string
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *ValidationError) Error() string {
	switch e.Code {
	case ValidationMissingField:
		return fmt.Sprintf("%s is required", e.Field)
	case ValidationUnknownBank:
		return fmt.Sprintf("%s does not reference a supported bank", e.Field)
	case ValidationInvalidAmount:
		return "amount must be a positive number"
	case ValidationInsufficientFunds:
		return fmt.Sprintf("insufficient funds: requested %s, available %s",
			e.Requested.StringFixed(2), e.Available.StringFixed(2))
	}
	return "invalid request"
}

type SubmissionErrorKind string

const (
	SubmissionUnreachable SubmissionErrorKind = "unreachable"
	SubmissionRejected    SubmissionErrorKind = "rejected"
	SubmissionProtocol    SubmissionErrorKind = "protocol"
)

// SubmissionError describes why the ledger did not acknowledge a call
type SubmissionError struct {
	Kind       SubmissionErrorKind
	StatusCode int
	Detail     string
	Err        error
}

func (e *SubmissionError) Error() string {
	switch e.Kind {
	case SubmissionUnreachable:
		return "transfer service is unreachable"
	case SubmissionRejected:
		if e.Detail != "" {
			return fmt.Sprintf("request rejected: %s", e.Detail)
		}
		return fmt.Sprintf("request rejected with status %d", e.StatusCode)
	case SubmissionProtocol:
		return "unexpected response from transfer service"
	}
	return "submission failed"
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

type ContactErrorCode string

const (
	ContactInvalid          ContactErrorCode = "invalid"
	ContactSubmissionFailed ContactErrorCode = "submission_failed"
)

// ContactError is returned by the compliance hold handler
type ContactError struct {
	Code  ContactErrorCode
	Field string
	Err   error
}

func (e *ContactError) Error() string {
	if e.Code == ContactInvalid {
		return fmt.Sprintf("invalid contact field: %s", e.Field)
	}
	if e.Err != nil {
		return fmt.Sprintf("could not submit contact details: %v", e.Err)
	}
	return "could not submit contact details"
}

func (e *ContactError) Unwrap() error {
	return e.Err
}

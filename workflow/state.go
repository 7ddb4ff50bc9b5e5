package workflow

import (
	"time"

	"github.com/ChokeGuy/money-bridge/pkg/bank"
)

// Phase is the active state of a workflow
type Phase string

const (
	PhaseDraft          Phase = "draft"
	PhaseValidating     Phase = "validating"
	PhaseSubmitting     Phase = "submitting"
	PhasePending        Phase = "pending"
	PhaseComplianceHold Phase = "compliance_hold"
	PhaseContactCapture Phase = "contact_capture"
	PhaseSubmitted      Phase = "submitted"
	PhaseRejected       Phase = "rejected"
	PhaseHandedOff      Phase = "handed_off_for_review"
	PhaseFailed         Phase = "failed"
)

// Terminal reports whether the phase is an exit outcome
func (p Phase) Terminal() bool {
	switch p {
	case PhaseSubmitted, PhaseRejected, PhaseHandedOff, PhaseFailed:
		return true
	}
	return false
}

// Support is shown to users whose transfer is held for review
type Support struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// State is a snapshot of a workflow. Fields are only set in the phases that carry them.
type State struct {
	ID           string          `json:"id"`
	Kind         Kind            `json:"kind"`
	Phase        Phase           `json:"phase"`
	Request      TransferRequest `json:"request"`
	Bank         *bank.Bank      `json:"bank,omitempty"`
	Currency     string          `json:"currency"`
	Fee          string          `json:"fee"`
	SubmissionID string          `json:"submissionId,omitempty"`
	StartedAt    *time.Time      `json:"startedAt,omitempty"`
	Receipt      *Receipt        `json:"receipt,omitempty"`
	Contact      *ContactInfo    `json:"contact,omitempty"`
	Support      *Support        `json:"support,omitempty"`
	Reason       string          `json:"reason,omitempty"`
	Error        string          `json:"error,omitempty"`
	InFlight     bool            `json:"inFlight"`
	UpdatedAt    time.Time       `json:"updatedAt"`

	Err error `json:"-"`
}

// Busy reports whether the workflow is waiting on something other than the user
func (s State) Busy() bool {
	if s.InFlight {
		return true
	}
	switch s.Phase {
	case PhaseValidating, PhaseSubmitting, PhasePending:
		return true
	}
	return false
}

func (s State) clone() State {
	out := s
	if s.Bank != nil {
		b := *s.Bank
		out.Bank = &b
	}
	if s.StartedAt != nil {
		t := *s.StartedAt
		out.StartedAt = &t
	}
	if s.Receipt != nil {
		r := *s.Receipt
		out.Receipt = &r
	}
	if s.Contact != nil {
		c := *s.Contact
		out.Contact = &c
	}
	if s.Support != nil {
		sp := *s.Support
		out.Support = &sp
	}
	return out
}

package workflow

// Event is something the user does to a workflow
type Event interface {
	eventName() string
}

// EditDraft replaces the draft request
type EditDraft struct {
	Request TransferRequest
}

// Submit validates the draft and sends it to the ledger
type Submit struct{}

// Proceed moves a held submission to contact capture
type Proceed struct{}

// CaptureContact sends contact details for a held submission
type CaptureContact struct {
	Contact ContactInfo
}

// Retry returns a failed workflow to its draft, keeping the request
type Retry struct{}

// Abandon discards the workflow and starts an empty draft
type Abandon struct{}

func (EditDraft) eventName() string      { return "edit_draft" }
func (Submit) eventName() string         { return "submit" }
func (Proceed) eventName() string        { return "proceed" }
func (CaptureContact) eventName() string { return "capture_contact" }
func (Retry) eventName() string          { return "retry" }
func (Abandon) eventName() string        { return "abandon" }

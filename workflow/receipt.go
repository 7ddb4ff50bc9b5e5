package workflow

import "strings"

// ReceiptStatus is the status the ledger reports for a submission
type ReceiptStatus string

const (
	ReceiptPending     ReceiptStatus = "pending"
	ReceiptCompleted   ReceiptStatus = "completed"
	ReceiptRejected    ReceiptStatus = "rejected"
	ReceiptNeedsReview ReceiptStatus = "needs_review"
)

// ParseReceiptStatus accepts the statuses the ledger is known to send
func ParseReceiptStatus(raw string) (ReceiptStatus, bool) {
	switch ReceiptStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case ReceiptPending:
		return ReceiptPending, true
	case ReceiptCompleted:
		return ReceiptCompleted, true
	case ReceiptRejected:
		return ReceiptRejected, true
	case ReceiptNeedsReview:
		return ReceiptNeedsReview, true
	}
	return "", false
}

// Receipt is the ledger's acknowledgement of a submission
type Receipt struct {
	ID     string        `json:"id"`
	Status ReceiptStatus `json:"status"`
	Reason string        `json:"reason,omitempty"`
}

// Settled reports whether the ledger gave a final answer
func (r Receipt) Settled() bool {
	return r.Status != ReceiptPending
}

package workflow

import (
	"context"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -package mockwf -destination mock/collaborators.go github.com/ChokeGuy/money-bridge/workflow Submitter,StatusChecker,ReviewIntake,Session

// Submitter sends a validated request to the ledger. One call is one remote request.
type Submitter interface {
	Submit(ctx context.Context, token string, req ValidatedRequest) (Receipt, error)
}

// StatusChecker reads the current status of a submission
type StatusChecker interface {
	Status(ctx context.Context, token string, kind Kind, submissionID string) (Receipt, error)
}

// ReviewIntake accepts contact details for submissions held for manual review
type ReviewIntake interface {
	SubmitReview(ctx context.Context, token string, review ReviewRequest) error
}

// Session is the authenticated user the workflow acts for
type Session interface {
	Token() string
	Balance(ctx context.Context) (decimal.Decimal, error)
}

package workflow

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// PendingMode chooses how the pending phase learns the final status
type PendingMode string

const (
	// PendingSimulated holds for MinDuration and then trusts the status returned at submission
	PendingSimulated PendingMode = "simulated"
	// PendingPolling asks the ledger for the status until it settles
	PendingPolling PendingMode = "polling"
)

// PendingConfig bounds the pending phase
type PendingConfig struct {
	Mode         PendingMode
	Ceiling      time.Duration
	MinDuration  time.Duration
	PollInterval time.Duration
	// ReviewThreshold flags unsettled submissions at or above this amount for
	// manual review. Zero disables it.
	ReviewThreshold decimal.Decimal
}

type OutcomeKind string

const (
	OutcomeResolved  OutcomeKind = "resolved"
	OutcomeTimedOut  OutcomeKind = "timed_out"
	OutcomeCancelled OutcomeKind = "cancelled"
)

// Outcome is how a pending phase ended. Receipt carries the final status when resolved.
type Outcome struct {
	Kind    OutcomeKind
	Receipt Receipt
}

// PendingCoordinator waits, within a fixed ceiling, for a submission to settle
type PendingCoordinator struct {
	config PendingConfig
	status StatusChecker
}

func NewPendingCoordinator(config PendingConfig, status StatusChecker) *PendingCoordinator {
	return &PendingCoordinator{config: config, status: status}
}

// Ceiling is the longest a workflow may stay pending
func (c *PendingCoordinator) Ceiling() time.Duration {
	return c.config.Ceiling
}

// AwaitOutcome blocks until the submission settles, the ceiling elapses or ctx is cancelled.
// An unsettled status is never reported as completed.
func (c *PendingCoordinator) AwaitOutcome(ctx context.Context, token string, req ValidatedRequest, receipt Receipt) Outcome {
	waitCtx, cancel := context.WithTimeout(ctx, c.config.Ceiling)
	defer cancel()

	interrupted := func() Outcome {
		if ctx.Err() != nil {
			return Outcome{Kind: OutcomeCancelled, Receipt: receipt}
		}
		return Outcome{Kind: OutcomeTimedOut, Receipt: receipt}
	}

	if !sleep(waitCtx, c.config.MinDuration) {
		return interrupted()
	}

	if final, ok := c.resolve(req, receipt); ok {
		return Outcome{Kind: OutcomeResolved, Receipt: final}
	}

	if c.config.Mode != PendingPolling || c.status == nil {
		<-waitCtx.Done()
		return interrupted()
	}

	ticker := time.NewTicker(c.config.PollInterval)
	defer ticker.Stop()

	for {
		current, err := c.status.Status(waitCtx, token, req.Kind, receipt.ID)
		if err != nil {
			log.Warn().
				Err(err).
				Str("submission_id", receipt.ID).
				Msg("status check failed, will retry until the ceiling")
		} else {
			if current.ID == "" {
				current.ID = receipt.ID
			}
			receipt = current
			if final, ok := c.resolve(req, receipt); ok {
				return Outcome{Kind: OutcomeResolved, Receipt: final}
			}
		}

		select {
		case <-waitCtx.Done():
			return interrupted()
		case <-ticker.C:
		}
	}
}

func (c *PendingCoordinator) resolve(req ValidatedRequest, receipt Receipt) (Receipt, bool) {
	if receipt.Settled() {
		return receipt, true
	}

	if c.config.ReviewThreshold.IsPositive() && req.Amount.GreaterThanOrEqual(c.config.ReviewThreshold) {
		receipt.Status = ReceiptNeedsReview
		receipt.Reason = "amount requires tax clearance review"
		return receipt, true
	}

	return receipt, false
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

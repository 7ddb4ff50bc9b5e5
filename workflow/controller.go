package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ChokeGuy/money-bridge/util"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Dependencies are the components a Controller dispatches to
type Dependencies struct {
	Gate      *ValidationGate
	Submitter Submitter
	Pending   *PendingCoordinator
	Hold      *ComplianceHoldHandler
	Support   Support
}

// Controller owns the state of one workflow instance. All transitions happen
// under mu; network calls run outside of it and their results are applied only
// if the generation has not changed in the meantime.
type Controller struct {
	kind Kind
	deps Dependencies

	mu            sync.Mutex
	state         State
	validated     *ValidatedRequest
	generation    uint64
	cancelPending context.CancelFunc
	changed       chan struct{}
}

func NewController(kind Kind, deps Dependencies) *Controller {
	c := &Controller{
		kind:    kind,
		deps:    deps,
		changed: make(chan struct{}),
	}
	c.state = c.newDraft(TransferRequest{})
	return c
}

// State returns a snapshot of the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Await blocks until the workflow is no longer busy or ctx is done
func (c *Controller) Await(ctx context.Context) (State, error) {
	for {
		c.mu.Lock()
		st := c.state.clone()
		changed := c.changed
		c.mu.Unlock()

		if !st.Busy() {
			return st, nil
		}

		select {
		case <-ctx.Done():
			return st, ctx.Err()
		case <-changed:
		}
	}
}

// Dispatch applies a user event. The returned error is non-nil only when the
// event was refused; failures of the workflow itself are reported on the state.
func (c *Controller) Dispatch(ctx context.Context, session Session, event Event) (State, error) {
	switch ev := event.(type) {
	case EditDraft:
		return c.editDraft(ev.Request)
	case Submit:
		return c.submit(ctx, session)
	case Proceed:
		return c.proceed()
	case CaptureContact:
		return c.captureContact(ctx, session, ev.Contact)
	case Retry:
		return c.retry()
	case Abandon:
		return c.abandon(), nil
	}
	return c.State(), fmt.Errorf("%w: unknown event %T", ErrInvalidTransition, event)
}

// Close abandons the workflow, cancelling any pending wait
func (c *Controller) Close() {
	c.abandon()
}

func (c *Controller) editDraft(req TransferRequest) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.acceptLocked(PhaseDraft); err != nil {
		return c.state.clone(), err
	}

	c.state.Request = req
	c.state.Bank = nil
	if b, ok := c.deps.Gate.Bank(req.BankID); ok {
		c.state.Bank = &b
	}
	c.clearErrorLocked()
	c.touchLocked()

	return c.state.clone(), nil
}

func (c *Controller) submit(ctx context.Context, session Session) (State, error) {
	c.mu.Lock()
	if err := c.acceptLocked(PhaseDraft); err != nil {
		defer c.mu.Unlock()
		return c.state.clone(), err
	}

	gen := c.generation
	req := c.state.Request
	attemptID := c.state.ID
	c.clearErrorLocked()
	c.state.InFlight = true
	c.transitionLocked(PhaseValidating)
	c.mu.Unlock()

	balance := decimal.Zero
	if c.kind == KindTransfer {
		var err error
		balance, err = session.Balance(ctx)
		if err != nil {
			return c.finishValidation(gen, ValidatedRequest{}, fmt.Errorf("read account balance: %w", err))
		}
	}

	validated, err := c.deps.Gate.Validate(c.kind, req, balance)
	validated.IdempotencyKey = attemptID

	st, err := c.finishValidation(gen, validated, err)
	if err != nil || st.Phase != PhaseSubmitting {
		return st, err
	}

	if st, abandoned := c.abandonedSince(gen); abandoned {
		return st, ErrAbandoned
	}

	// The call is allowed to complete even if the caller goes away.
	receipt, err := c.deps.Submitter.Submit(context.WithoutCancel(ctx), session.Token(), validated)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		log.Warn().
			Str("workflow_id", attemptID).
			Str("submission_id", receipt.ID).
			Msg("dropping submission result for abandoned workflow")
		return c.state.clone(), ErrAbandoned
	}

	c.state.InFlight = false
	if err != nil {
		c.failLocked(err)
		return c.state.clone(), nil
	}

	startedAt := time.Now()
	c.state.SubmissionID = receipt.ID
	c.state.StartedAt = &startedAt
	c.state.Receipt = &receipt
	c.transitionLocked(PhasePending)

	pendingCtx, cancel := context.WithCancel(context.Background())
	c.cancelPending = cancel
	go c.awaitPending(pendingCtx, gen, session.Token(), validated, receipt)

	return c.state.clone(), nil
}

func (c *Controller) finishValidation(gen uint64, validated ValidatedRequest, err error) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return c.state.clone(), ErrAbandoned
	}

	if err != nil {
		c.state.InFlight = false
		c.setErrorLocked(err)
		c.transitionLocked(PhaseDraft)
		return c.state.clone(), nil
	}

	c.validated = &validated
	c.transitionLocked(PhaseSubmitting)
	return c.state.clone(), nil
}

// abandonedSince reports whether the attempt started at gen was abandoned
func (c *Controller) abandonedSince(gen uint64) (State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone(), gen != c.generation
}

func (c *Controller) awaitPending(ctx context.Context, gen uint64, token string, req ValidatedRequest, receipt Receipt) {
	outcome := c.deps.Pending.AwaitOutcome(ctx, token, req, receipt)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation || c.state.Phase != PhasePending {
		log.Warn().
			Str("submission_id", receipt.ID).
			Str("outcome", string(outcome.Kind)).
			Msg("dropping pending outcome for abandoned workflow")
		return
	}

	c.cancelPending = nil

	switch outcome.Kind {
	case OutcomeResolved:
		final := outcome.Receipt
		c.state.Receipt = &final

		switch final.Status {
		case ReceiptCompleted:
			c.transitionLocked(PhaseSubmitted)
		case ReceiptNeedsReview:
			support := c.deps.Support
			c.state.Support = &support
			c.transitionLocked(PhaseComplianceHold)
		case ReceiptRejected:
			c.state.Reason = final.Reason
			if c.state.Reason == "" {
				c.state.Reason = "rejected by the transfer service"
			}
			c.transitionLocked(PhaseRejected)
		default:
			c.failLocked(ErrTimeout)
		}
	case OutcomeTimedOut:
		c.failLocked(ErrTimeout)
	case OutcomeCancelled:
		// only reachable through abandon, which already moved the state on
	}
}

func (c *Controller) proceed() (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.acceptLocked(PhaseComplianceHold); err != nil {
		return c.state.clone(), err
	}

	c.state.Contact = &ContactInfo{}
	c.transitionLocked(PhaseContactCapture)
	return c.state.clone(), nil
}

func (c *Controller) captureContact(ctx context.Context, session Session, contact ContactInfo) (State, error) {
	c.mu.Lock()
	if err := c.acceptLocked(PhaseContactCapture); err != nil {
		defer c.mu.Unlock()
		return c.state.clone(), err
	}

	gen := c.generation
	submissionID := c.state.SubmissionID
	validated := *c.validated
	c.state.Contact = &contact
	c.state.InFlight = true
	c.clearErrorLocked()
	c.touchLocked()
	c.mu.Unlock()

	err := c.deps.Hold.CaptureContact(context.WithoutCancel(ctx), session.Token(), submissionID, validated, contact)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		log.Warn().
			Str("submission_id", submissionID).
			Msg("dropping contact capture result for abandoned workflow")
		return c.state.clone(), ErrAbandoned
	}

	c.state.InFlight = false
	if err != nil {
		c.setErrorLocked(err)
		c.touchLocked()
		return c.state.clone(), nil
	}

	c.transitionLocked(PhaseHandedOff)
	return c.state.clone(), nil
}

func (c *Controller) retry() (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.acceptLocked(PhaseFailed); err != nil {
		return c.state.clone(), err
	}

	c.resetLocked(c.state.Request)
	return c.state.clone(), nil
}

func (c *Controller) abandon() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.resetLocked(TransferRequest{})
	return c.state.clone()
}

// resetLocked starts a new attempt. Bumping the generation makes every
// outstanding call's result stale.
func (c *Controller) resetLocked(req TransferRequest) {
	c.generation++
	if c.cancelPending != nil {
		c.cancelPending()
		c.cancelPending = nil
	}
	c.validated = nil

	from := c.state.Phase
	c.state = c.newDraft(req)
	c.logTransition(from, PhaseDraft)
	c.notifyLocked()
}

func (c *Controller) acceptLocked(phase Phase) error {
	if c.state.Busy() {
		return ErrTransitionInFlight
	}
	if c.state.Phase != phase {
		return fmt.Errorf("%w: %s", ErrInvalidTransition, c.state.Phase)
	}
	return nil
}

func (c *Controller) transitionLocked(to Phase) {
	from := c.state.Phase
	c.state.Phase = to
	c.touchLocked()
	c.logTransition(from, to)
}

func (c *Controller) failLocked(err error) {
	c.setErrorLocked(err)
	c.transitionLocked(PhaseFailed)
}

func (c *Controller) setErrorLocked(err error) {
	c.state.Err = err
	c.state.Error = err.Error()
}

func (c *Controller) clearErrorLocked() {
	c.state.Err = nil
	c.state.Error = ""
}

func (c *Controller) touchLocked() {
	c.state.UpdatedAt = time.Now()
	c.notifyLocked()
}

func (c *Controller) notifyLocked() {
	close(c.changed)
	c.changed = make(chan struct{})
}

func (c *Controller) newDraft(req TransferRequest) State {
	st := State{
		ID:        uuid.NewString(),
		Kind:      c.kind,
		Phase:     PhaseDraft,
		Request:   req,
		Currency:  util.DefaultCurrency,
		Fee:       util.ZeroFee,
		UpdatedAt: time.Now(),
	}
	if b, ok := c.deps.Gate.Bank(req.BankID); ok {
		st.Bank = &b
	}
	return st
}

func (c *Controller) logTransition(from, to Phase) {
	log.Info().
		Str("workflow_id", c.state.ID).
		Str("kind", string(c.kind)).
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("workflow transition")
}

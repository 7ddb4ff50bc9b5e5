package workflow_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ChokeGuy/money-bridge/pkg/bank"
	"github.com/ChokeGuy/money-bridge/workflow"
	mockwf "github.com/ChokeGuy/money-bridge/workflow/mock"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var testSupport = workflow.Support{Email: "support@moneybridge.test", Phone: "+1 555 0100"}

type harness struct {
	controller *workflow.Controller
	submitter  *mockwf.MockSubmitter
	intake     *mockwf.MockReviewIntake
	session    *mockwf.MockSession
}

func newHarness(t *testing.T, kind workflow.Kind, pending workflow.PendingConfig) harness {
	ctrl := gomock.NewController(t)

	h := harness{
		submitter: mockwf.NewMockSubmitter(ctrl),
		intake:    mockwf.NewMockReviewIntake(ctrl),
		session:   mockwf.NewMockSession(ctrl),
	}
	h.session.EXPECT().Token().AnyTimes().Return("token")

	h.controller = workflow.NewController(kind, workflow.Dependencies{
		Gate:      workflow.NewValidationGate(bank.Default()),
		Submitter: h.submitter,
		Pending:   workflow.NewPendingCoordinator(pending, nil),
		Hold:      workflow.NewComplianceHoldHandler(h.intake),
		Support:   testSupport,
	})
	t.Cleanup(h.controller.Close)

	return h
}

func quickPending() workflow.PendingConfig {
	return workflow.PendingConfig{
		Mode:        workflow.PendingSimulated,
		Ceiling:     time.Second,
		MinDuration: 10 * time.Millisecond,
	}
}

func draft(amount string) workflow.TransferRequest {
	return workflow.TransferRequest{
		RecipientName: "Jane Doe",
		AccountNumber: "DE89370400440532013000",
		BankID:        "chase",
		Amount:        workflow.Amount(amount),
		Description:   "rent",
	}
}

func (h harness) dispatch(t *testing.T, event workflow.Event) workflow.State {
	st, err := h.controller.Dispatch(context.Background(), h.session, event)
	require.NoError(t, err)
	return st
}

func (h harness) settle(t *testing.T) workflow.State {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	st, err := h.controller.Await(ctx)
	require.NoError(t, err)
	return st
}

func TestNewControllerStartsInDraft(t *testing.T) {
	h := newHarness(t, workflow.KindTransfer, quickPending())

	st := h.controller.State()
	require.Equal(t, workflow.PhaseDraft, st.Phase)
	require.NotEmpty(t, st.ID)
	require.Equal(t, "USD", st.Currency)
	require.Equal(t, "0.00", st.Fee)
	require.False(t, st.InFlight)
}

func TestSubmitCompletes(t *testing.T) {
	h := newHarness(t, workflow.KindTransfer, quickPending())

	h.session.EXPECT().Balance(gomock.Any()).Times(1).Return(decimal.NewFromInt(1000), nil)
	h.submitter.EXPECT().
		Submit(gomock.Any(), gomock.Eq("token"), gomock.Any()).
		Times(1).
		DoAndReturn(func(_ context.Context, _ string, req workflow.ValidatedRequest) (workflow.Receipt, error) {
			require.Equal(t, workflow.KindTransfer, req.Kind)
			require.Equal(t, "chase", req.Bank.ID)
			require.True(t, req.Amount.Equal(decimal.NewFromInt(500)))
			require.NotEmpty(t, req.IdempotencyKey)
			return workflow.Receipt{ID: "tx1", Status: workflow.ReceiptCompleted}, nil
		})

	st := h.dispatch(t, workflow.EditDraft{Request: draft("500")})
	require.Equal(t, workflow.PhaseDraft, st.Phase)
	require.NotNil(t, st.Bank)
	require.Equal(t, "JPMorgan Chase", st.Bank.Name)

	st = h.dispatch(t, workflow.Submit{})
	require.Equal(t, workflow.PhasePending, st.Phase)
	require.Equal(t, "tx1", st.SubmissionID)
	require.NotNil(t, st.StartedAt)

	st = h.settle(t)
	require.Equal(t, workflow.PhaseSubmitted, st.Phase)
	require.NotNil(t, st.Receipt)
	require.Equal(t, "tx1", st.Receipt.ID)
	require.True(t, st.Phase.Terminal())
}

func TestSubmitInsufficientFunds(t *testing.T) {
	h := newHarness(t, workflow.KindTransfer, quickPending())

	h.session.EXPECT().Balance(gomock.Any()).Times(1).Return(decimal.NewFromInt(100), nil)
	h.submitter.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	h.dispatch(t, workflow.EditDraft{Request: draft("500")})
	st := h.dispatch(t, workflow.Submit{})

	require.Equal(t, workflow.PhaseDraft, st.Phase)
	require.False(t, st.InFlight)
	require.Equal(t, "insufficient funds: requested 500.00, available 100.00", st.Error)

	var validationErr *workflow.ValidationError
	require.ErrorAs(t, st.Err, &validationErr)
	require.Equal(t, workflow.ValidationInsufficientFunds, validationErr.Code)
	require.Equal(t, draft("500"), st.Request)
}

func TestSubmitBalanceUnavailable(t *testing.T) {
	h := newHarness(t, workflow.KindTransfer, quickPending())

	h.session.EXPECT().Balance(gomock.Any()).Times(1).Return(decimal.Zero, errors.New("dial tcp: refused"))
	h.submitter.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	h.dispatch(t, workflow.EditDraft{Request: draft("500")})
	st := h.dispatch(t, workflow.Submit{})

	require.Equal(t, workflow.PhaseDraft, st.Phase)
	require.Contains(t, st.Error, "read account balance")
}

func TestDepositSkipsFundsCheck(t *testing.T) {
	h := newHarness(t, workflow.KindDeposit, quickPending())

	h.session.EXPECT().Balance(gomock.Any()).Times(0)
	h.submitter.EXPECT().
		Submit(gomock.Any(), gomock.Any(), gomock.Any()).
		Times(1).
		Return(workflow.Receipt{ID: "dep1", Status: workflow.ReceiptCompleted}, nil)

	h.dispatch(t, workflow.EditDraft{Request: workflow.TransferRequest{BankID: "hsbc", Amount: "25000"}})
	h.dispatch(t, workflow.Submit{})

	st := h.settle(t)
	require.Equal(t, workflow.PhaseSubmitted, st.Phase)
	require.Equal(t, workflow.KindDeposit, st.Kind)
}

func TestSubmitFailure(t *testing.T) {
	h := newHarness(t, workflow.KindTransfer, quickPending())

	h.session.EXPECT().Balance(gomock.Any()).Times(1).Return(decimal.NewFromInt(1000), nil)
	h.submitter.EXPECT().
		Submit(gomock.Any(), gomock.Any(), gomock.Any()).
		Times(1).
		Return(workflow.Receipt{}, &workflow.SubmissionError{Kind: workflow.SubmissionUnreachable})

	h.dispatch(t, workflow.EditDraft{Request: draft("500")})
	st := h.dispatch(t, workflow.Submit{})

	require.Equal(t, workflow.PhaseFailed, st.Phase)
	var submissionErr *workflow.SubmissionError
	require.ErrorAs(t, st.Err, &submissionErr)
	require.Equal(t, workflow.SubmissionUnreachable, submissionErr.Kind)

	st = h.dispatch(t, workflow.Retry{})
	require.Equal(t, workflow.PhaseDraft, st.Phase)
	require.Equal(t, draft("500"), st.Request)
	require.Empty(t, st.Error)
}

func TestComplianceHoldHandOff(t *testing.T) {
	h := newHarness(t, workflow.KindTransfer, quickPending())
	contact := randomContact()

	h.session.EXPECT().Balance(gomock.Any()).Times(1).Return(decimal.NewFromInt(5000), nil)
	h.submitter.EXPECT().
		Submit(gomock.Any(), gomock.Any(), gomock.Any()).
		Times(1).
		Return(workflow.Receipt{ID: "tx9", Status: workflow.ReceiptNeedsReview}, nil)
	h.intake.EXPECT().
		SubmitReview(gomock.Any(), gomock.Eq("token"), gomock.Any()).
		Times(1).
		DoAndReturn(func(_ context.Context, _ string, review workflow.ReviewRequest) error {
			require.Equal(t, "tx9", review.SubmissionID)
			require.Equal(t, contact, review.Contact)
			return nil
		})

	h.dispatch(t, workflow.EditDraft{Request: draft("2500")})
	h.dispatch(t, workflow.Submit{})

	st := h.settle(t)
	require.Equal(t, workflow.PhaseComplianceHold, st.Phase)
	require.NotNil(t, st.Support)
	require.Equal(t, testSupport, *st.Support)

	st = h.dispatch(t, workflow.Proceed{})
	require.Equal(t, workflow.PhaseContactCapture, st.Phase)

	st = h.dispatch(t, workflow.CaptureContact{Contact: contact})
	require.Equal(t, workflow.PhaseHandedOff, st.Phase)
	require.Equal(t, "tx9", st.SubmissionID)
	require.Equal(t, contact, *st.Contact)
}

func TestContactCaptureFailureKeepsContact(t *testing.T) {
	h := newHarness(t, workflow.KindTransfer, quickPending())
	contact := randomContact()

	h.session.EXPECT().Balance(gomock.Any()).Times(1).Return(decimal.NewFromInt(5000), nil)
	h.submitter.EXPECT().
		Submit(gomock.Any(), gomock.Any(), gomock.Any()).
		Times(1).
		Return(workflow.Receipt{ID: "tx9", Status: workflow.ReceiptNeedsReview}, nil)
	gomock.InOrder(
		h.intake.EXPECT().
			SubmitReview(gomock.Any(), gomock.Any(), gomock.Any()).
			Times(1).
			Return(errors.New("intake down")),
		h.intake.EXPECT().
			SubmitReview(gomock.Any(), gomock.Any(), gomock.Any()).
			Times(1).
			Return(nil),
	)

	h.dispatch(t, workflow.EditDraft{Request: draft("2500")})
	h.dispatch(t, workflow.Submit{})
	h.settle(t)
	h.dispatch(t, workflow.Proceed{})

	st := h.dispatch(t, workflow.CaptureContact{Contact: contact})
	require.Equal(t, workflow.PhaseContactCapture, st.Phase)
	require.Equal(t, contact, *st.Contact)
	require.False(t, st.InFlight)

	var contactErr *workflow.ContactError
	require.ErrorAs(t, st.Err, &contactErr)
	require.Equal(t, workflow.ContactSubmissionFailed, contactErr.Code)

	st = h.dispatch(t, workflow.CaptureContact{Contact: contact})
	require.Equal(t, workflow.PhaseHandedOff, st.Phase)
	require.Empty(t, st.Error)
}

func TestRejectedDuringPending(t *testing.T) {
	h := newHarness(t, workflow.KindTransfer, quickPending())

	h.session.EXPECT().Balance(gomock.Any()).Times(1).Return(decimal.NewFromInt(1000), nil)
	h.submitter.EXPECT().
		Submit(gomock.Any(), gomock.Any(), gomock.Any()).
		Times(1).
		Return(workflow.Receipt{ID: "tx2", Status: workflow.ReceiptRejected, Reason: "account closed"}, nil)

	h.dispatch(t, workflow.EditDraft{Request: draft("500")})
	h.dispatch(t, workflow.Submit{})

	st := h.settle(t)
	require.Equal(t, workflow.PhaseRejected, st.Phase)
	require.Equal(t, "account closed", st.Reason)
}

func TestPendingTimeout(t *testing.T) {
	h := newHarness(t, workflow.KindTransfer, workflow.PendingConfig{
		Mode:    workflow.PendingSimulated,
		Ceiling: 40 * time.Millisecond,
	})

	h.session.EXPECT().Balance(gomock.Any()).Times(1).Return(decimal.NewFromInt(1000), nil)
	h.submitter.EXPECT().
		Submit(gomock.Any(), gomock.Any(), gomock.Any()).
		Times(1).
		Return(workflow.Receipt{ID: "tx3", Status: workflow.ReceiptPending}, nil)

	h.dispatch(t, workflow.EditDraft{Request: draft("500")})
	h.dispatch(t, workflow.Submit{})

	st := h.settle(t)
	require.Equal(t, workflow.PhaseFailed, st.Phase)
	require.ErrorIs(t, st.Err, workflow.ErrTimeout)

	st = h.dispatch(t, workflow.Retry{})
	require.Equal(t, workflow.PhaseDraft, st.Phase)
	require.Equal(t, draft("500"), st.Request)
}

func TestDuplicateSubmitWhileInFlight(t *testing.T) {
	h := newHarness(t, workflow.KindTransfer, quickPending())

	release := make(chan struct{})
	entered := make(chan struct{})

	h.session.EXPECT().Balance(gomock.Any()).Times(1).Return(decimal.NewFromInt(1000), nil)
	h.submitter.EXPECT().
		Submit(gomock.Any(), gomock.Any(), gomock.Any()).
		Times(1).
		DoAndReturn(func(context.Context, string, workflow.ValidatedRequest) (workflow.Receipt, error) {
			close(entered)
			<-release
			return workflow.Receipt{ID: "tx1", Status: workflow.ReceiptCompleted}, nil
		})

	h.dispatch(t, workflow.EditDraft{Request: draft("500")})

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.controller.Dispatch(context.Background(), h.session, workflow.Submit{})
	}()

	<-entered
	st, err := h.controller.Dispatch(context.Background(), h.session, workflow.Submit{})
	require.ErrorIs(t, err, workflow.ErrTransitionInFlight)
	require.Equal(t, workflow.PhaseSubmitting, st.Phase)
	require.True(t, st.InFlight)

	_, err = h.controller.Dispatch(context.Background(), h.session, workflow.EditDraft{Request: draft("1")})
	require.ErrorIs(t, err, workflow.ErrTransitionInFlight)

	close(release)
	<-done

	st = h.settle(t)
	require.Equal(t, workflow.PhaseSubmitted, st.Phase)
}

func TestAbandonDuringSubmission(t *testing.T) {
	h := newHarness(t, workflow.KindTransfer, quickPending())

	release := make(chan struct{})
	entered := make(chan struct{})

	h.session.EXPECT().Balance(gomock.Any()).Times(1).Return(decimal.NewFromInt(1000), nil)
	h.submitter.EXPECT().
		Submit(gomock.Any(), gomock.Any(), gomock.Any()).
		Times(1).
		DoAndReturn(func(context.Context, string, workflow.ValidatedRequest) (workflow.Receipt, error) {
			close(entered)
			<-release
			return workflow.Receipt{ID: "late", Status: workflow.ReceiptCompleted}, nil
		})

	first := h.dispatch(t, workflow.EditDraft{Request: draft("500")})

	type result struct {
		st  workflow.State
		err error
	}
	results := make(chan result, 1)
	go func() {
		st, err := h.controller.Dispatch(context.Background(), h.session, workflow.Submit{})
		results <- result{st, err}
	}()

	<-entered
	st := h.dispatch(t, workflow.Abandon{})
	require.Equal(t, workflow.PhaseDraft, st.Phase)
	require.NotEqual(t, first.ID, st.ID)
	require.Empty(t, st.Request.RecipientName)

	close(release)
	res := <-results
	require.ErrorIs(t, res.err, workflow.ErrAbandoned)

	st = h.controller.State()
	require.Equal(t, workflow.PhaseDraft, st.Phase)
	require.Empty(t, st.SubmissionID)
	require.Nil(t, st.Receipt)
}

func TestAbandonBeforeSubmissionIsSent(t *testing.T) {
	h := newHarness(t, workflow.KindTransfer, quickPending())

	release := make(chan struct{})
	entered := make(chan struct{})

	h.session.EXPECT().
		Balance(gomock.Any()).
		Times(1).
		DoAndReturn(func(context.Context) (decimal.Decimal, error) {
			close(entered)
			<-release
			return decimal.NewFromInt(1000), nil
		})
	h.submitter.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	h.dispatch(t, workflow.EditDraft{Request: draft("500")})

	errs := make(chan error, 1)
	go func() {
		_, err := h.controller.Dispatch(context.Background(), h.session, workflow.Submit{})
		errs <- err
	}()

	<-entered
	h.dispatch(t, workflow.Abandon{})
	close(release)

	require.ErrorIs(t, <-errs, workflow.ErrAbandoned)

	st := h.controller.State()
	require.Equal(t, workflow.PhaseDraft, st.Phase)
	require.False(t, st.InFlight)
	require.Empty(t, st.SubmissionID)
}

func TestAbandonDuringContactCapture(t *testing.T) {
	h := newHarness(t, workflow.KindTransfer, quickPending())

	release := make(chan struct{})
	entered := make(chan struct{})

	h.session.EXPECT().Balance(gomock.Any()).Times(1).Return(decimal.NewFromInt(5000), nil)
	h.submitter.EXPECT().
		Submit(gomock.Any(), gomock.Any(), gomock.Any()).
		Times(1).
		Return(workflow.Receipt{ID: "tx9", Status: workflow.ReceiptNeedsReview}, nil)
	h.intake.EXPECT().
		SubmitReview(gomock.Any(), gomock.Any(), gomock.Any()).
		Times(1).
		DoAndReturn(func(context.Context, string, workflow.ReviewRequest) error {
			close(entered)
			<-release
			return nil
		})

	h.dispatch(t, workflow.EditDraft{Request: draft("2500")})
	h.dispatch(t, workflow.Submit{})
	h.settle(t)
	h.dispatch(t, workflow.Proceed{})

	errs := make(chan error, 1)
	go func() {
		_, err := h.controller.Dispatch(context.Background(), h.session, workflow.CaptureContact{Contact: randomContact()})
		errs <- err
	}()

	<-entered
	st := h.dispatch(t, workflow.Abandon{})
	require.Equal(t, workflow.PhaseDraft, st.Phase)

	close(release)
	require.ErrorIs(t, <-errs, workflow.ErrAbandoned)

	st = h.controller.State()
	require.Equal(t, workflow.PhaseDraft, st.Phase)
	require.Empty(t, st.SubmissionID)
	require.Nil(t, st.Contact)
	require.False(t, st.InFlight)
}

func TestOversizedAmountReturnsToDraft(t *testing.T) {
	h := newHarness(t, workflow.KindDeposit, quickPending())

	h.submitter.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	h.dispatch(t, workflow.EditDraft{Request: workflow.TransferRequest{BankID: "hsbc", Amount: "1e99999999"}})
	st := h.dispatch(t, workflow.Submit{})

	require.Equal(t, workflow.PhaseDraft, st.Phase)
	var validationErr *workflow.ValidationError
	require.ErrorAs(t, st.Err, &validationErr)
	require.Equal(t, workflow.ValidationInvalidAmount, validationErr.Code)
	require.NotEmpty(t, h.controller.State().Error)
}

func TestAbandonDuringPending(t *testing.T) {
	h := newHarness(t, workflow.KindTransfer, workflow.PendingConfig{
		Mode:        workflow.PendingSimulated,
		Ceiling:     10 * time.Second,
		MinDuration: 5 * time.Second,
	})

	h.session.EXPECT().Balance(gomock.Any()).Times(1).Return(decimal.NewFromInt(1000), nil)
	h.submitter.EXPECT().
		Submit(gomock.Any(), gomock.Any(), gomock.Any()).
		Times(1).
		Return(workflow.Receipt{ID: "tx1", Status: workflow.ReceiptCompleted}, nil)

	h.dispatch(t, workflow.EditDraft{Request: draft("500")})
	st := h.dispatch(t, workflow.Submit{})
	require.Equal(t, workflow.PhasePending, st.Phase)

	st = h.dispatch(t, workflow.Abandon{})
	require.Equal(t, workflow.PhaseDraft, st.Phase)

	st = h.settle(t)
	require.Equal(t, workflow.PhaseDraft, st.Phase)
}

func TestInvalidTransitions(t *testing.T) {
	testCases := []struct {
		name  string
		event workflow.Event
	}{
		{name: "ProceedFromDraft", event: workflow.Proceed{}},
		{name: "RetryFromDraft", event: workflow.Retry{}},
		{name: "CaptureContactFromDraft", event: workflow.CaptureContact{Contact: randomContact()}},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, workflow.KindTransfer, quickPending())

			before := h.controller.State()
			st, err := h.controller.Dispatch(context.Background(), h.session, tc.event)
			require.ErrorIs(t, err, workflow.ErrInvalidTransition)
			require.Equal(t, before.ID, st.ID)
			require.Equal(t, workflow.PhaseDraft, st.Phase)
		})
	}
}

func TestEditAfterTerminalIsRefused(t *testing.T) {
	h := newHarness(t, workflow.KindTransfer, quickPending())

	h.session.EXPECT().Balance(gomock.Any()).Times(1).Return(decimal.NewFromInt(1000), nil)
	h.submitter.EXPECT().
		Submit(gomock.Any(), gomock.Any(), gomock.Any()).
		Times(1).
		Return(workflow.Receipt{ID: "tx1", Status: workflow.ReceiptCompleted}, nil)

	h.dispatch(t, workflow.EditDraft{Request: draft("500")})
	h.dispatch(t, workflow.Submit{})
	h.settle(t)

	_, err := h.controller.Dispatch(context.Background(), h.session, workflow.EditDraft{Request: draft("1")})
	require.ErrorIs(t, err, workflow.ErrInvalidTransition)

	_, err = h.controller.Dispatch(context.Background(), h.session, workflow.Submit{})
	require.ErrorIs(t, err, workflow.ErrInvalidTransition)

	st := h.dispatch(t, workflow.Abandon{})
	require.Equal(t, workflow.PhaseDraft, st.Phase)
}

func TestRegistryKeepsOneControllerPerSession(t *testing.T) {
	registry := workflow.NewDefaultRegistry(workflow.Dependencies{
		Gate:    workflow.NewValidationGate(bank.Default()),
		Pending: workflow.NewPendingCoordinator(quickPending(), nil),
		Hold:    workflow.NewComplianceHoldHandler(nil),
	})
	defer registry.Close()

	a := registry.Get("alice", workflow.KindTransfer)
	require.Same(t, a, registry.Get("alice", workflow.KindTransfer))
	require.NotSame(t, a, registry.Get("alice", workflow.KindDeposit))
	require.NotSame(t, a, registry.Get("bob", workflow.KindTransfer))
}

func TestRegistryEvictsIdleWorkflows(t *testing.T) {
	h := newHarness(t, workflow.KindTransfer, quickPending())

	h.session.EXPECT().Balance(gomock.Any()).Times(1).Return(decimal.NewFromInt(5000), nil)
	h.submitter.EXPECT().
		Submit(gomock.Any(), gomock.Any(), gomock.Any()).
		Times(1).
		Return(workflow.Receipt{ID: "tx9", Status: workflow.ReceiptNeedsReview}, nil)

	h.dispatch(t, workflow.EditDraft{Request: draft("2500")})
	h.dispatch(t, workflow.Submit{})
	h.settle(t)
	h.dispatch(t, workflow.Proceed{})

	deps := workflow.Dependencies{
		Gate:    workflow.NewValidationGate(bank.Default()),
		Pending: workflow.NewPendingCoordinator(quickPending(), nil),
		Hold:    workflow.NewComplianceHoldHandler(nil),
	}
	registry := workflow.NewRegistry(func(kind workflow.Kind) *workflow.Controller {
		if kind == workflow.KindTransfer {
			return h.controller
		}
		return workflow.NewController(kind, deps)
	}).WithIdleTTL(time.Minute)
	defer registry.Close()

	capture := registry.Get("alice", workflow.KindTransfer)
	idle := registry.Get("alice", workflow.KindDeposit)
	require.Equal(t, 2, registry.Len())

	require.Zero(t, registry.Evict(time.Now()))
	require.Equal(t, 2, registry.Len())

	require.Equal(t, 1, registry.Evict(time.Now().Add(2*time.Minute)))
	require.Equal(t, 1, registry.Len())
	require.Same(t, capture, registry.Get("alice", workflow.KindTransfer))
	require.Equal(t, workflow.PhaseContactCapture, capture.State().Phase)

	fresh := registry.Get("alice", workflow.KindDeposit)
	require.NotSame(t, idle, fresh)
	require.NotEqual(t, idle.State().ID, fresh.State().ID)
}

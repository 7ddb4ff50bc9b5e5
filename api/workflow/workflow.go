package workflow

import (
	"errors"
	"net/http"

	dto "github.com/ChokeGuy/money-bridge/api/workflow/dto"
	res "github.com/ChokeGuy/money-bridge/pkg/http_response"
	"github.com/ChokeGuy/money-bridge/pkg/middlewares/auth"
	"github.com/ChokeGuy/money-bridge/pkg/token"
	sv "github.com/ChokeGuy/money-bridge/server/http"
	"github.com/ChokeGuy/money-bridge/validations"
	"github.com/ChokeGuy/money-bridge/worker"
	wf "github.com/ChokeGuy/money-bridge/workflow"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

type WorkflowHandler struct {
	*sv.Server
}

func NewWorkflowHandler(server *sv.Server) *WorkflowHandler {
	return &WorkflowHandler{Server: server}
}

func (h *WorkflowHandler) MapRoutes() {
	router := h.Router

	router.GET("/banks", h.listBanks)
	router.GET("/banks/:id", h.getBank)

	authRoutes := router.Group("/workflows").Use(auth.AuthMiddleWare(h.TokenMaker))

	authRoutes.GET("/:kind", h.getWorkflow)
	authRoutes.PUT("/:kind/draft", h.editDraft)
	authRoutes.POST("/:kind/submit", h.submit)
	authRoutes.POST("/:kind/proceed", h.proceed)
	authRoutes.POST("/:kind/contact", h.captureContact)
	authRoutes.POST("/:kind/retry", h.retry)
	authRoutes.DELETE("/:kind", h.abandon)
}

func (h *WorkflowHandler) listBanks(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, res.SuccessResponse(dto.NewBankListResponse(h.Banks.List()), "Banks retrieved successfully"))
}

func (h *WorkflowHandler) getBank(ctx *gin.Context) {
	var req dto.GetBankUri

	if err := ctx.ShouldBindUri(&req); err != nil {
		ctx.JSON(http.StatusNotFound, res.ErrorResponse(http.StatusNotFound, validations.FormatValidationError(err)))
		return
	}

	b, _ := h.Banks.Lookup(req.ID)
	ctx.JSON(http.StatusOK, res.SuccessResponse(b, "Bank retrieved successfully"))
}

func (h *WorkflowHandler) getWorkflow(ctx *gin.Context) {
	controller, ok := h.controller(ctx)
	if !ok {
		return
	}

	var req dto.GetWorkflowRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, res.ErrorResponse(http.StatusBadRequest, err.Error()))
		return
	}

	state := controller.State()
	if req.Wait {
		// a cancelled request still gets the latest snapshot
		state, _ = controller.Await(ctx.Request.Context())
	}

	ctx.JSON(http.StatusOK, res.SuccessResponse(state, "Workflow retrieved successfully"))
}

func (h *WorkflowHandler) editDraft(ctx *gin.Context) {
	var req dto.DraftRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		validations.HandleValidationError(ctx, err)
		return
	}

	h.dispatch(ctx, wf.EditDraft{Request: req.ToTransferRequest()})
}

func (h *WorkflowHandler) submit(ctx *gin.Context) {
	h.dispatch(ctx, wf.Submit{})
}

func (h *WorkflowHandler) proceed(ctx *gin.Context) {
	h.dispatch(ctx, wf.Proceed{})
}

func (h *WorkflowHandler) captureContact(ctx *gin.Context) {
	var req dto.ContactRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		validations.HandleValidationError(ctx, err)
		return
	}

	state, ok := h.dispatch(ctx, wf.CaptureContact{Contact: req.ToContact()})
	if ok && state.Phase == wf.PhaseHandedOff {
		h.sendReviewConfirmation(ctx, state)
	}
}

func (h *WorkflowHandler) retry(ctx *gin.Context) {
	h.dispatch(ctx, wf.Retry{})
}

func (h *WorkflowHandler) abandon(ctx *gin.Context) {
	h.dispatch(ctx, wf.Abandon{})
}

// controller resolves the workflow of the authenticated user for the kind in the path
func (h *WorkflowHandler) controller(ctx *gin.Context) (*wf.Controller, bool) {
	var uri dto.WorkflowUri

	if err := ctx.ShouldBindUri(&uri); err != nil {
		ctx.JSON(http.StatusBadRequest, res.ErrorResponse(http.StatusBadRequest, err.Error()))
		return nil, false
	}

	kind, ok := wf.ParseKind(uri.Kind)
	if !ok {
		ctx.JSON(http.StatusNotFound, res.ErrorResponse(http.StatusNotFound, "unknown workflow kind"))
		return nil, false
	}

	authPayload := ctx.MustGet(auth.AuthPayloadKey).(*token.Payload)
	return h.Workflows.Get(authPayload.SessionKey(), kind), true
}

// dispatch applies event and writes the resulting state. ok is true when the
// event was accepted and left no error on the state.
func (h *WorkflowHandler) dispatch(ctx *gin.Context, event wf.Event) (wf.State, bool) {
	controller, ok := h.controller(ctx)
	if !ok {
		return wf.State{}, false
	}

	session := h.NewSession(ctx.GetString(auth.AuthTokenKey))
	state, err := controller.Dispatch(ctx.Request.Context(), session, event)

	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, wf.ErrInvalidTransition) ||
			errors.Is(err, wf.ErrTransitionInFlight) ||
			errors.Is(err, wf.ErrAbandoned) {
			statusCode = http.StatusConflict
		}
		ctx.JSON(statusCode, res.StateResponse(statusCode, state, err.Error()))
		return state, false
	}

	if state.Error != "" {
		ctx.JSON(http.StatusUnprocessableEntity, res.StateResponse(http.StatusUnprocessableEntity, state, state.Error))
		return state, false
	}

	ctx.JSON(http.StatusOK, res.SuccessResponse(state, "Workflow updated successfully"))
	return state, true
}

// sendReviewConfirmation queues the email. The hand-off already happened, so
// failures are only logged.
func (h *WorkflowHandler) sendReviewConfirmation(ctx *gin.Context, state wf.State) {
	if h.TaskDistributor == nil || state.Contact == nil {
		return
	}

	payload := &worker.PayloadSendReviewConfirmation{
		SubmissionID: state.SubmissionID,
		Email:        state.Contact.Email,
		FirstName:    state.Contact.FirstName,
		Amount:       string(state.Request.Amount),
		Currency:     state.Currency,
	}

	opts := []asynq.Option{
		asynq.MaxRetry(10),
		asynq.Queue(worker.QueueCritical),
	}

	if err := h.TaskDistributor.DistributeTaskSendReviewConfirmation(ctx.Request.Context(), payload, opts...); err != nil {
		log.Error().
			Err(err).
			Str("submission_id", state.SubmissionID).
			Msg("fail to distribute review confirmation task")
	}
}

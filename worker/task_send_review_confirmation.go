package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/ChokeGuy/money-bridge/pkg/email"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

const (
	TaskSendReviewConfirmation = "task:send_review_confirmation"
)

// PayloadSendReviewConfirmation carries what the confirmation email needs.
// The account number never leaves the workflow.
type PayloadSendReviewConfirmation struct {
	SubmissionID string `json:"submissionId"`
	Email        string `json:"email"`
	FirstName    string `json:"firstName"`
	Amount       string `json:"amount"`
	Currency     string `json:"currency"`
}

func (distributor *RedisTaskDistributor) DistributeTaskSendReviewConfirmation(
	ctx context.Context,
	payload *PayloadSendReviewConfirmation,
	opts ...asynq.Option,
) error {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("fail to marshal payload: %w", err)
	}

	task := asynq.NewTask(TaskSendReviewConfirmation, jsonPayload, opts...)
	info, err := distributor.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("fail to enqueue task: %w", err)
	}

	log.Info().
		Str("type", task.Type()).
		Str("queue", info.Queue).
		Int("max_retry", info.MaxRetry).
		Str("submission_id", payload.SubmissionID).
		Msg("enqueued task")

	return nil
}

func (processor *RedisTaskProcessor) ProcessTaskSendReviewConfirmation(ctx context.Context, task *asynq.Task) error {
	var payload PayloadSendReviewConfirmation

	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("fail to unmarshal payload: %w", asynq.SkipRetry)
	}

	if strings.TrimSpace(payload.Email) == "" {
		return fmt.Errorf("payload has no recipient: %w", asynq.SkipRetry)
	}

	if err := processor.mailer.SendEmail(ctx, reviewConfirmationEmail(payload, processor.supportEmail)); err != nil {
		return fmt.Errorf("fail to send email: %w", err)
	}

	log.Info().
		Str("type", task.Type()).
		Str("submission_id", payload.SubmissionID).
		Msg("processed task")

	return nil
}

func reviewConfirmationEmail(payload PayloadSendReviewConfirmation, supportEmail string) email.EmailPayload {
	return email.EmailPayload{
		Subject: "We received your details",
		Content: fmt.Sprintf(`Hello %s, <br/>
		Your transfer of %s %s (reference %s) is waiting for a tax clearance review.<br/>
		Our team will contact you within 24 hours.<br/>
		`,
			html.EscapeString(payload.FirstName),
			html.EscapeString(payload.Amount),
			html.EscapeString(payload.Currency),
			html.EscapeString(payload.SubmissionID),
		),
		To:      []string{payload.Email},
		ReplyTo: supportEmail,
	}
}

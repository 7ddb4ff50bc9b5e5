package workflow

import (
	"context"
	"errors"
	"strings"

	"github.com/ChokeGuy/money-bridge/validations"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// ComplianceHoldHandler collects contact details for submissions flagged for
// manual review and forwards them to the review intake.
type ComplianceHoldHandler struct {
	intake   ReviewIntake
	validate *validator.Validate
}

func NewComplianceHoldHandler(intake ReviewIntake) *ComplianceHoldHandler {
	return &ComplianceHoldHandler{
		intake:   intake,
		validate: validations.New(nil),
	}
}

// ValidateContact checks the contact fields without touching the network
func (h *ComplianceHoldHandler) ValidateContact(contact ContactInfo) error {
	err := h.validate.Struct(contact)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return &ContactError{Code: ContactInvalid, Field: ve[0].Field()}
	}
	return &ContactError{Code: ContactInvalid, Err: err}
}

// CaptureContact validates contact and makes exactly one intake attempt
func (h *ComplianceHoldHandler) CaptureContact(
	ctx context.Context,
	token string,
	submissionID string,
	req ValidatedRequest,
	contact ContactInfo,
) error {
	if err := h.ValidateContact(contact); err != nil {
		return err
	}

	if strings.TrimSpace(submissionID) == "" {
		return &ContactError{Code: ContactInvalid, Field: "submissionId"}
	}

	err := h.intake.SubmitReview(ctx, token, ReviewRequest{
		SubmissionID: submissionID,
		Request:      req,
		Contact:      contact.trimmed(),
	})
	if err != nil {
		log.Error().
			Err(err).
			Str("submission_id", submissionID).
			Msg("review intake failed")
		return &ContactError{Code: ContactSubmissionFailed, Err: err}
	}

	log.Info().
		Str("submission_id", submissionID).
		Msg("submission handed off for review")

	return nil
}

package workflow

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/ChokeGuy/money-bridge/pkg/bank"
	"github.com/shopspring/decimal"
)

// Kind selects which remote endpoint a workflow submits to
type Kind string

const (
	KindTransfer Kind = "transfer"
	KindDeposit  Kind = "deposit"
)

// ParseKind maps a route parameter to a Kind
func ParseKind(raw string) (Kind, bool) {
	switch Kind(strings.ToLower(strings.TrimSpace(raw))) {
	case KindTransfer:
		return KindTransfer, true
	case KindDeposit:
		return KindDeposit, true
	}
	return "", false
}

// Amount is the amount exactly as the user typed it. It accepts both JSON
// strings and JSON numbers so clients can send either.
type Amount string

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*a = Amount(n.String())
	return nil
}

// TransferRequest is the draft a user fills in. Deposits only use BankID,
// Amount, Description and Payer.
type TransferRequest struct {
	RecipientName string      `json:"recipientName" validate:"notblank"`
	AccountNumber string      `json:"accountNumber" validate:"notblank"`
	BankID        string      `json:"bankId" validate:"notblank,bank"`
	Amount        Amount      `json:"amount" validate:"notblank"`
	Description   string      `json:"description,omitempty"`
	Payer         ContactInfo `json:"payer" validate:"-"`
}

type depositRequest struct {
	BankID string `json:"bankId" validate:"notblank,bank"`
	Amount Amount `json:"amount" validate:"notblank"`
}

// ContactInfo is what a reviewer needs to reach the user
type ContactInfo struct {
	FirstName string `json:"firstName" validate:"notblank"`
	LastName  string `json:"lastName" validate:"notblank"`
	Email     string `json:"email" validate:"notblank,contact_email"`
	Phone     string `json:"phone" validate:"notblank"`
	Message   string `json:"message,omitempty"`
}

func (c ContactInfo) trimmed() ContactInfo {
	return ContactInfo{
		FirstName: strings.TrimSpace(c.FirstName),
		LastName:  strings.TrimSpace(c.LastName),
		Email:     strings.TrimSpace(c.Email),
		Phone:     strings.TrimSpace(c.Phone),
		Message:   strings.TrimSpace(c.Message),
	}
}

// ValidatedRequest is a request that passed the ValidationGate. It is
// immutable once submitted.
type ValidatedRequest struct {
	Kind           Kind
	Request        TransferRequest
	Bank           bank.Bank
	Amount         decimal.Decimal
	IdempotencyKey string
}

// ReviewRequest is the payload handed to the review intake
type ReviewRequest struct {
	SubmissionID string
	Request      ValidatedRequest
	Contact      ContactInfo
}

package workflow

import (
	"errors"
	"regexp"
	"strings"

	"github.com/ChokeGuy/money-bridge/pkg/bank"
	"github.com/ChokeGuy/money-bridge/validations"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// amountPattern is a plain decimal with at most two fraction digits.
// Exponent notation is refused so rendering an amount stays cheap.
var amountPattern = regexp.MustCompile(`^\d{1,15}(\.\d{1,2})?$`)

// MaxAmount is the largest amount a single request may carry
var MaxAmount = decimal.NewFromInt(1_000_000_000)

// ValidationGate checks a draft before anything leaves the process
type ValidationGate struct {
	banks    *bank.Catalog
	validate *validator.Validate
}

func NewValidationGate(banks *bank.Catalog) *ValidationGate {
	return &ValidationGate{
		banks:    banks,
		validate: validations.New(banks),
	}
}

// Bank resolves a bank id against the catalog
func (g *ValidationGate) Bank(id string) (bank.Bank, bool) {
	return g.banks.Lookup(id)
}

// Validate runs the checks in order and stops at the first failure:
// required fields, a positive amount, then funds sufficiency for transfers.
// It is a pure function of its inputs.
func (g *ValidationGate) Validate(kind Kind, req TransferRequest, balance decimal.Decimal) (ValidatedRequest, error) {
	var err error
	if kind == KindDeposit {
		err = g.validate.Struct(depositRequest{BankID: req.BankID, Amount: req.Amount})
	} else {
		err = g.validate.Struct(req)
	}
	if err != nil {
		return ValidatedRequest{}, fieldError(err)
	}

	amount, ok := parseAmount(string(req.Amount))
	if !ok {
		return ValidatedRequest{}, &ValidationError{Code: ValidationInvalidAmount, Field: "amount"}
	}

	if kind == KindTransfer && amount.GreaterThan(balance) {
		return ValidatedRequest{}, &ValidationError{
			Code:      ValidationInsufficientFunds,
			Field:     "amount",
			Requested: amount,
			Available: balance,
		}
	}

	b, _ := g.banks.Lookup(req.BankID)

	return ValidatedRequest{
		Kind:    kind,
		Request: normalize(req),
		Bank:    b,
		Amount:  amount,
	}, nil
}

func parseAmount(raw string) (decimal.Decimal, bool) {
	raw = strings.TrimSpace(raw)
	if !amountPattern.MatchString(raw) {
		return decimal.Zero, false
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil || !amount.IsPositive() || amount.GreaterThan(MaxAmount) {
		return decimal.Zero, false
	}
	return amount, true
}

func fieldError(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return &ValidationError{Code: ValidationMissingField}
	}

	first := ve[0]
	code := ValidationMissingField
	if first.Tag() == "bank" {
		code = ValidationUnknownBank
	}

	return &ValidationError{Code: code, Field: first.Field()}
}

func normalize(req TransferRequest) TransferRequest {
	return TransferRequest{
		RecipientName: strings.TrimSpace(req.RecipientName),
		AccountNumber: strings.TrimSpace(req.AccountNumber),
		BankID:        strings.TrimSpace(req.BankID),
		Amount:        Amount(strings.TrimSpace(string(req.Amount))),
		Description:   strings.TrimSpace(req.Description),
		Payer:         req.Payer.trimmed(),
	}
}

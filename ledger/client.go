package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ChokeGuy/money-bridge/workflow"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	maxBodySize = 1 << 20

	reviewTag = "manual_review"
)

// Client talks to the ledger API on behalf of an authenticated user.
// Every call is a single HTTP attempt.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return NewClientWithHTTP(baseURL, &http.Client{Timeout: timeout})
}

func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type transferBody struct {
	RecipientName string      `json:"recipient_name"`
	AccountNumber string      `json:"account_number"`
	Bank          string      `json:"bank"`
	Amount        json.Number `json:"amount"`
	Message       string      `json:"message,omitempty"`
}

type depositBody struct {
	Bank      string      `json:"bank"`
	Amount    json.Number `json:"amount"`
	FirstName string      `json:"firstName,omitempty"`
	LastName  string      `json:"lastName,omitempty"`
	Email     string      `json:"email,omitempty"`
	Phone     string      `json:"phone,omitempty"`
	Message   string      `json:"message,omitempty"`
}

type reviewBody struct {
	SubmissionID   string      `json:"submission_id"`
	Tag            string      `json:"tag"`
	Kind           string      `json:"kind"`
	RecipientName  string      `json:"recipient_name,omitempty"`
	AccountNumber  string      `json:"account_number,omitempty"`
	Bank           string      `json:"bank"`
	Amount         json.Number `json:"amount"`
	FirstName      string      `json:"firstName"`
	LastName       string      `json:"lastName"`
	Email          string      `json:"email"`
	Phone          string      `json:"phone"`
	ContactMessage string      `json:"message,omitempty"`
}

type receiptBody struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Reason string `json:"reason"`
}

type meBody struct {
	Name    string           `json:"name"`
	Email   string           `json:"email"`
	Balance *decimal.Decimal `json:"balance"`
}

func collection(kind workflow.Kind) string {
	if kind == workflow.KindDeposit {
		return "/deposits"
	}
	return "/transfers"
}

// Submit sends a validated request to the transfers or deposits endpoint
func (c *Client) Submit(ctx context.Context, token string, req workflow.ValidatedRequest) (workflow.Receipt, error) {
	var body interface{}

	amount := json.Number(req.Amount.String())
	if req.Kind == workflow.KindDeposit {
		payer := req.Request.Payer
		body = depositBody{
			Bank:      req.Bank.ID,
			Amount:    amount,
			FirstName: payer.FirstName,
			LastName:  payer.LastName,
			Email:     payer.Email,
			Phone:     payer.Phone,
			Message:   req.Request.Description,
		}
	} else {
		body = transferBody{
			RecipientName: req.Request.RecipientName,
			AccountNumber: req.Request.AccountNumber,
			Bank:          req.Bank.ID,
			Amount:        amount,
			Message:       req.Request.Description,
		}
	}

	headers := http.Header{}
	if req.IdempotencyKey != "" {
		headers.Set("Idempotency-Key", req.IdempotencyKey)
	}

	var resp receiptBody
	if err := c.do(ctx, http.MethodPost, collection(req.Kind), token, headers, body, &resp); err != nil {
		return workflow.Receipt{}, err
	}

	if resp.ID == "" {
		return workflow.Receipt{}, &workflow.SubmissionError{
			Kind:   workflow.SubmissionProtocol,
			Detail: "response carries no submission id",
		}
	}

	return toReceipt(resp)
}

// Status reads the current status of a submission
func (c *Client) Status(ctx context.Context, token string, kind workflow.Kind, id string) (workflow.Receipt, error) {
	var resp receiptBody
	path := collection(kind) + "/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodGet, path, token, nil, nil, &resp); err != nil {
		return workflow.Receipt{}, err
	}

	if resp.ID == "" {
		resp.ID = id
	}
	return toReceipt(resp)
}

// SubmitReview hands a held submission and its contact details to the review intake
func (c *Client) SubmitReview(ctx context.Context, token string, review workflow.ReviewRequest) error {
	req := review.Request
	body := reviewBody{
		SubmissionID:   review.SubmissionID,
		Tag:            reviewTag,
		Kind:           string(req.Kind),
		RecipientName:  req.Request.RecipientName,
		AccountNumber:  req.Request.AccountNumber,
		Bank:           req.Bank.ID,
		Amount:         json.Number(req.Amount.String()),
		FirstName:      review.Contact.FirstName,
		LastName:       review.Contact.LastName,
		Email:          review.Contact.Email,
		Phone:          review.Contact.Phone,
		ContactMessage: review.Contact.Message,
	}

	return c.do(ctx, http.MethodPost, "/reviews", token, nil, body, nil)
}

// Balance returns the available balance of the token's owner
func (c *Client) Balance(ctx context.Context, token string) (decimal.Decimal, error) {
	var resp meBody
	if err := c.do(ctx, http.MethodGet, "/me", token, nil, nil, &resp); err != nil {
		return decimal.Zero, err
	}

	if resp.Balance == nil {
		return decimal.Zero, &workflow.SubmissionError{
			Kind:   workflow.SubmissionProtocol,
			Detail: "response carries no balance",
		}
	}
	return *resp.Balance, nil
}

func toReceipt(resp receiptBody) (workflow.Receipt, error) {
	status, ok := workflow.ParseReceiptStatus(resp.Status)
	if !ok {
		return workflow.Receipt{}, &workflow.SubmissionError{
			Kind:   workflow.SubmissionProtocol,
			Detail: fmt.Sprintf("unknown status %q", resp.Status),
		}
	}

	return workflow.Receipt{
		ID:     resp.ID,
		Status: status,
		Reason: resp.Reason,
	}, nil
}

func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	token string,
	headers http.Header,
	body interface{},
	out interface{},
) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}

	for key, values := range headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().
			Err(err).
			Str("method", method).
			Str("path", path).
			Msg("ledger request failed")
		return &workflow.SubmissionError{Kind: workflow.SubmissionUnreachable, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))

	log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status_code", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("ledger request")

	if err != nil {
		return &workflow.SubmissionError{Kind: workflow.SubmissionUnreachable, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &workflow.SubmissionError{
			Kind:       workflow.SubmissionRejected,
			StatusCode: resp.StatusCode,
			Detail:     errorDetail(raw),
		}
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &workflow.SubmissionError{
			Kind:       workflow.SubmissionProtocol,
			StatusCode: resp.StatusCode,
			Detail:     "response body is not valid JSON",
			Err:        err,
		}
	}

	return nil
}

// errorDetail pulls a human readable message out of an error body
func errorDetail(raw []byte) string {
	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		return strings.TrimSpace(string(raw))
	}

	for _, key := range []string{"detail", "message", "error"} {
		if s, ok := body[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

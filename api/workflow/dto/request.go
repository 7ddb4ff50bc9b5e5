package workflow

import wf "github.com/ChokeGuy/money-bridge/workflow"

type WorkflowUri struct {
	Kind string `uri:"kind" binding:"required"`
}

type GetWorkflowRequest struct {
	Wait bool `form:"wait"`
}

type GetBankUri struct {
	ID string `uri:"id" binding:"required,bank"`
}

type ContactRequest struct {
	FirstName string `json:"firstName" binding:"max=100"`
	LastName  string `json:"lastName" binding:"max=100"`
	Email     string `json:"email" binding:"max=254"`
	Phone     string `json:"phone" binding:"max=32"`
	Message   string `json:"message" binding:"max=1000"`
}

func (r ContactRequest) ToContact() wf.ContactInfo {
	return wf.ContactInfo{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
		Message:   r.Message,
	}
}

// DraftRequest is a partially filled form. Completeness is only checked on submit.
type DraftRequest struct {
	RecipientName string         `json:"recipientName" binding:"max=100"`
	AccountNumber string         `json:"accountNumber" binding:"max=34"`
	BankID        string         `json:"bankId" binding:"max=32"`
	Amount        wf.Amount      `json:"amount" binding:"max=32"`
	Description   string         `json:"description" binding:"max=140"`
	Payer         ContactRequest `json:"payer"`
}

func (r DraftRequest) ToTransferRequest() wf.TransferRequest {
	return wf.TransferRequest{
		RecipientName: r.RecipientName,
		AccountNumber: r.AccountNumber,
		BankID:        r.BankID,
		Amount:        r.Amount,
		Description:   r.Description,
		Payer:         r.Payer.ToContact(),
	}
}

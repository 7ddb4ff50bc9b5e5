package workflow

import "github.com/ChokeGuy/money-bridge/pkg/bank"

type BankListResponse struct {
	Banks []bank.Bank `json:"banks"`
	Total int         `json:"total"`
}

func NewBankListResponse(banks []bank.Bank) BankListResponse {
	return BankListResponse{Banks: banks, Total: len(banks)}
}

package util

// Transfers and deposits are settled in a single currency.
const (
	USD = "USD"
)

// DefaultCurrency is the currency every amount in a workflow is expressed in
const DefaultCurrency = USD

// ZeroFee is the transfer fee shown on the transfer summary
const ZeroFee = "0.00"

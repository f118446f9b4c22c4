package account

import "github.com/shopspring/decimal"

// Operation names used in logs and metrics
const (
	OpGetBalance    = "get_balance"
	OpCreateAccount = "create_account"
	OpDeposit       = "deposit"
	OpTransfer      = "transfer"
)

const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// CreateAccountRequest carries the fields of a new account. A nil Balance
// opens the account at zero.
type CreateAccountRequest struct {
	AccountNumber string           `json:"account_number"`
	FirstName     string           `json:"first_name"`
	LastName      string           `json:"last_name"`
	Balance       *decimal.Decimal `json:"balance,omitempty"`
}

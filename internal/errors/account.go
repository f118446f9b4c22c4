package errors

const (
	CodeInvalidAccountData = "INVALID_ACCOUNT_DATA"
	CodeDuplicateAccount   = "DUPLICATE_ACCOUNT"
	CodeAccountNotFound    = "ACCOUNT_NOT_FOUND"
	CodeInvalidAmount      = "INVALID_AMOUNT"
	CodeSelfTransfer       = "SELF_TRANSFER"
	CodeInsufficientFunds  = "INSUFFICIENT_FUNDS"
)

var (
	ErrInvalidAccountData = &DomainError{
		Code:    CodeInvalidAccountData,
		Message: "invalid account data",
	}
	ErrDuplicateAccount = &DomainError{
		Code:    CodeDuplicateAccount,
		Message: "an account with the same account number already exists",
	}
	ErrAccountNotFound = &DomainError{
		Code:    CodeAccountNotFound,
		Message: "account not found",
	}
	ErrSourceAccountNotFound = &DomainError{
		Code:    CodeAccountNotFound,
		Message: "source account not found",
	}
	ErrDestinationAccountNotFound = &DomainError{
		Code:    CodeAccountNotFound,
		Message: "destination account not found",
	}
	ErrInvalidAmount = &DomainError{
		Code:    CodeInvalidAmount,
		Message: "amount must be a positive value",
	}
	ErrBalanceLimit = &DomainError{
		Code:    CodeInvalidAmount,
		Message: "amount would take the balance past the storable maximum",
	}
	ErrSelfTransfer = &DomainError{
		Code:    CodeSelfTransfer,
		Message: "not possible to transfer money to the same account",
	}
	ErrInsufficientFunds = &DomainError{
		Code:    CodeInsufficientFunds,
		Message: "insufficient funds in the source account",
	}
)

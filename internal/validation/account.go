package validation

import (
	"bankledger/internal/errors"

	"github.com/shopspring/decimal"
)

// ValidateNewAccount checks the fields of an account about to be created.
// A nil balance means the account opens at zero.
func ValidateNewAccount(accountNumber, firstName, lastName string, balance *decimal.Decimal) error {
	v := New()
	v.Required("account_number", accountNumber)
	v.MaxLength("account_number", accountNumber, MaxAccountNumberLength)
	v.Required("first_name", firstName)
	v.MaxLength("first_name", firstName, MaxNameLength)
	v.Required("last_name", lastName)
	v.MaxLength("last_name", lastName, MaxNameLength)
	if balance != nil {
		v.NonNegative("balance", *balance)
		v.Scale("balance", *balance)
		v.Precision("balance", *balance)
	}
	return v.Err(errors.ErrInvalidAccountData)
}

// ValidateAmount checks a deposit or transfer amount.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errors.ErrInvalidAmount
	}
	v := New()
	v.Scale("amount", amount)
	v.Precision("amount", amount)
	return v.Err(errors.ErrInvalidAmount)
}

package validation

const (
	// Matches the accounts.account_number column size
	MaxAccountNumberLength = 64
	MaxNameLength          = 255
)

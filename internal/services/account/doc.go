/*
Package account implements the account ledger: balance lookups, account
creation, deposits and transfers between accounts.

Every mutation runs inside one repository unit holding exclusive access to
the accounts it touches, so a transfer either moves the whole amount or
leaves both balances as they were. Multi-account units lock in
repositories.LockOrder.

Usage:

	svc := account.NewService(repo, balanceCache, metrics, logger)

	acc, err := svc.CreateAccount(ctx, &account.CreateAccountRequest{
	    AccountNumber: "1001",
	    FirstName:     "Jane",
	    LastName:      "Doe",
	})

	balance, err := svc.Deposit(ctx, "1001", decimal.RequireFromString("25.50"))
	balance, err = svc.Transfer(ctx, "1001", "1002", decimal.NewFromInt(10))

Error Handling:

Business rule violations are *errors.DomainError values from
internal/errors and are matched with errors.Is:
- ErrInvalidAccountData: missing names or account number, bad opening balance
- ErrDuplicateAccount: account number already taken
- ErrAccountNotFound: unknown account (also matches the source/destination variants)
- ErrInvalidAmount: amount not positive or too precise
- ErrSelfTransfer: source and destination are the same account
- ErrInsufficientFunds: source balance below the amount

Any other error comes from the store or the cache and means nothing was written.

Cache Management:

Balances are cached by account number. Reads fill the cache while holding
the account, and every mutation drops the keys it touches before its unit
commits.
*/
package account

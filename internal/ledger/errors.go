package ledger

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrAccountNotFound    = errors.New("account not found")
	ErrSelfTransfer       = errors.New("cannot transfer to self")
	ErrLoanLimitExceeded  = errors.New("loan limit exceeded")
	ErrNoActiveLoan       = errors.New("no active loan")

	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrAlreadyOwned     = errors.New("item already owned")
	ErrUnknownItem      = errors.New("unknown store item")
	ErrMissingField     = errors.New("missing required field")
	ErrUnknownStaffRole = errors.New("unknown staff role")
)

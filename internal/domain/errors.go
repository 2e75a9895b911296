package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every specific error below wraps exactly one of them so callers
// can classify with errors.Is.
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidState      = errors.New("invalid state")
	ErrPersistence       = errors.New("persistence failure")
)

var ErrNotFound = errors.New("not found")

var (
	ErrInvalidAccountNumber = fmt.Errorf("%w: account number must have exactly %d characters", ErrInvalidArgument, AccountNumberLength)
	ErrInvalidPassword      = fmt.Errorf("%w: password must have exactly %d characters", ErrInvalidArgument, PasswordLength)
	ErrInvalidAccountType   = fmt.Errorf("%w: account type must be NORMAL or VIP", ErrInvalidArgument)
	ErrAccountExists        = fmt.Errorf("%w: account already exists", ErrInvalidArgument)
	ErrInvalidAmount        = fmt.Errorf("%w: amount must be greater than zero", ErrInvalidArgument)
	ErrSelfTransfer         = fmt.Errorf("%w: cannot transfer to same account", ErrInvalidArgument)
	ErrRecipientNotFound    = fmt.Errorf("%w: destination account not found", ErrInvalidArgument)
	ErrLimitExceeded        = fmt.Errorf("%w: transfer limit exceeded", ErrInvalidArgument)

	ErrNoSession = fmt.Errorf("%w: no active session", ErrInvalidState)
	ErrNotVIP    = fmt.Errorf("%w: only VIP accounts may request a manager visit", ErrInvalidState)
)

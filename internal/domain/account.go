package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	AccountNumberLength = 5
	PasswordLength      = 4
)

type AccountType string

const (
	AccountTypeNormal AccountType = "NORMAL"
	AccountTypeVIP    AccountType = "VIP"
)

func (t AccountType) IsValid() bool {
	return t == AccountTypeNormal || t == AccountTypeVIP
}

// ParseAccountType accepts the tier name in any case. Surrounding whitespace
// is rejected.
func ParseAccountType(s string) (AccountType, error) {
	t := AccountType(strings.ToUpper(s))
	if !t.IsValid() {
		return "", ErrInvalidAccountType
	}
	return t, nil
}

// Account is a customer account. Number, Type, Login and PasswordHash never
// change after creation.
type Account struct {
	Number        string
	Type          AccountType
	Login         string
	PasswordHash  string
	Balance       decimal.Decimal
	NegativeSince *time.Time
}

// ValidateCredentials checks the creation invariants on the raw inputs.
func ValidateCredentials(number string, accountType AccountType, password string) error {
	if utf8.RuneCountInString(number) != AccountNumberLength {
		return ErrInvalidAccountNumber
	}
	if utf8.RuneCountInString(password) != PasswordLength {
		return ErrInvalidPassword
	}
	if !accountType.IsValid() {
		return ErrInvalidAccountType
	}
	return nil
}

func (a *Account) IsVIP() bool {
	return a.Type == AccountTypeVIP
}

// SetBalance replaces the balance and keeps NegativeSince in step: it is
// stamped the first time a VIP balance drops below zero and cleared once the
// balance is back at or above zero.
func (a *Account) SetBalance(balance decimal.Decimal, now time.Time) {
	a.Balance = balance
	switch {
	case !balance.IsNegative():
		a.NegativeSince = nil
	case a.IsVIP() && a.NegativeSince == nil:
		since := now
		a.NegativeSince = &since
	}
}

// AccrueNegativeInterest charges rate on the overdrawn amount for every whole
// minute elapsed since NegativeSince and returns the amount charged.
// NegativeSince stays where the balance first went negative.
func (a *Account) AccrueNegativeInterest(rate decimal.Decimal, now time.Time) decimal.Decimal {
	if !a.Balance.IsNegative() || a.NegativeSince == nil {
		return decimal.Zero
	}
	minutes := int64(now.Sub(*a.NegativeSince) / time.Minute)
	if minutes <= 0 {
		return decimal.Zero
	}

	interest := a.Balance.Abs().Mul(rate).Mul(decimal.NewFromInt(minutes))
	a.Balance = a.Balance.Sub(interest)
	return interest
}

func (a *Account) String() string {
	return fmt.Sprintf("Account: %s | Type: %s | Holder: %s | Balance: R$ %s",
		a.Number, a.Type, a.Login, a.Balance.StringFixed(2))
}

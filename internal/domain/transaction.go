package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeDeposit          TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal       TransactionType = "WITHDRAWAL"
	TransactionTypeTransferSent     TransactionType = "TRANSFER_SENT"
	TransactionTypeTransferReceived TransactionType = "TRANSFER_RECEIVED"
	TransactionTypeTransferFee      TransactionType = "TRANSFER_FEE"
	TransactionTypeManagerVisit     TransactionType = "MANAGER_VISIT"
)

func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeDeposit, TransactionTypeWithdrawal,
		TransactionTypeTransferSent, TransactionTypeTransferReceived,
		TransactionTypeTransferFee, TransactionTypeManagerVisit:
		return true
	}
	return false
}

// Transaction is one immutable ledger event filed under SourceAccount.
// Amount is positive for credits and negative for debits.
type Transaction struct {
	ID            uuid.UUID
	Timestamp     time.Time
	Type          TransactionType
	Amount        decimal.Decimal
	Description   string
	SourceAccount string
	DestAccount   *string
}

func NewTransaction(txType TransactionType, amount decimal.Decimal, description, source string, dest *string, now time.Time) Transaction {
	return Transaction{
		ID:            uuid.New(),
		Timestamp:     now,
		Type:          txType,
		Amount:        amount,
		Description:   description,
		SourceAccount: source,
		DestAccount:   dest,
	}
}

func (t Transaction) IsDebit() bool {
	return t.Amount.IsNegative()
}

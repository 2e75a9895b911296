package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/perrijuan/sistema-bancario/internal/domain"
)

// Transfer moves amount from the session account to dest. The sender also
// pays the transfer fee; both accounts are written in one SaveAll call.
func (e *Engine) Transfer(ctx context.Context, dest string, amount decimal.Decimal) error {
	if err := e.requireSession(); err != nil {
		return fmt.Errorf("Transfer: %w", err)
	}

	recipient, err := e.resolveRecipient(ctx, dest, amount)
	if err != nil {
		return fmt.Errorf("Transfer: %w", err)
	}
	if err := e.accrueInterest(ctx); err != nil {
		return fmt.Errorf("Transfer: %w", err)
	}

	sender := e.current
	fee := e.policy.transferFee(sender.IsVIP(), amount)
	if err := e.validateTransfer(sender, amount, fee); err != nil {
		return fmt.Errorf("Transfer: %w", err)
	}

	now := e.now()
	sender.SetBalance(sender.Balance.Sub(amount).Sub(fee), now)
	recipient.SetBalance(recipient.Balance.Add(amount), now)

	senderNumber, recipientNumber := sender.Number, recipient.Number
	txs := []domain.Transaction{
		domain.NewTransaction(domain.TransactionTypeTransferSent, amount.Neg(),
			"transfer sent to "+recipient.Number, sender.Number, &recipientNumber, now),
		domain.NewTransaction(domain.TransactionTypeTransferFee, fee.Neg(),
			"transfer fee", sender.Number, nil, now),
		domain.NewTransaction(domain.TransactionTypeTransferReceived, amount,
			"transfer received from "+sender.Number, recipient.Number, &senderNumber, now),
	}
	if err := e.commit(ctx, txs, sender, recipient); err != nil {
		return fmt.Errorf("Transfer: %w", err)
	}

	e.log.Info("transfer completed",
		"sender_account", sender.Number,
		"recipient_account", recipient.Number,
		"amount", amount,
		"fee", fee,
		"sender_balance", sender.Balance,
	)
	return nil
}

func (e *Engine) resolveRecipient(ctx context.Context, dest string, amount decimal.Decimal) (*domain.Account, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("resolveRecipient: %w", domain.ErrInvalidAmount)
	}
	if dest == e.current.Number {
		return nil, fmt.Errorf("resolveRecipient: %w", domain.ErrSelfTransfer)
	}

	recipient, err := e.accounts.GetByNumber(ctx, dest)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("resolveRecipient: %w", domain.ErrRecipientNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("resolveRecipient: %w", storeErr(err))
	}
	return recipient, nil
}

// validateTransfer applies the NORMAL-tier cap and funds check. VIP senders
// are never balance-checked.
func (e *Engine) validateTransfer(sender *domain.Account, amount, fee decimal.Decimal) error {
	if sender.IsVIP() {
		return nil
	}
	if amount.GreaterThan(e.policy.NormalTransferLimit) {
		return fmt.Errorf("validateTransfer: %w", domain.ErrLimitExceeded)
	}
	if sender.Balance.LessThan(amount.Add(fee)) {
		return fmt.Errorf("validateTransfer: %w", domain.ErrInsufficientFunds)
	}
	return nil
}

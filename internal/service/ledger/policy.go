package ledger

import "github.com/shopspring/decimal"

// Policy holds the tariff applied by the engine.
type Policy struct {
	NormalTransferFee    decimal.Decimal // flat, per transfer
	VIPTransferFeeRate   decimal.Decimal // fraction of the amount
	NormalTransferLimit  decimal.Decimal // largest single transfer for NORMAL accounts
	ManagerVisitFee      decimal.Decimal
	NegativeInterestRate decimal.Decimal // per whole minute overdrawn
}

func DefaultPolicy() Policy {
	return Policy{
		NormalTransferFee:    decimal.NewFromInt(8),
		VIPTransferFeeRate:   decimal.RequireFromString("0.008"),
		NormalTransferLimit:  decimal.NewFromInt(1000),
		ManagerVisitFee:      decimal.NewFromInt(50),
		NegativeInterestRate: decimal.RequireFromString("0.001"),
	}
}

func (p Policy) transferFee(vip bool, amount decimal.Decimal) decimal.Decimal {
	if vip {
		return amount.Mul(p.VIPTransferFeeRate)
	}
	return p.NormalTransferFee
}

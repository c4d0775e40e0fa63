package credit

import (
	"creditmanager/core"

	"github.com/holiman/uint256"
)

// CalcClosePayments payments of a voluntary close: the pool gets the total
// debt and the accrued fees are protocol profit
func CalcClosePayments(debt, accruedInterest, accruedFees *uint256.Int) (*core.ClosurePayments, error) {
	amountToPool, err := CalcTotalDebt(debt, accruedInterest, accruedFees)
	if err != nil {
		return nil, err
	}

	return &core.ClosurePayments{
		AmountToPool:   amountToPool,
		RemainingFunds: new(uint256.Int),
		Profit:         accruedFees.Clone(),
		Loss:           new(uint256.Int),
	}, nil
}

// LiquidationParams inputs of CalcLiquidationPayments
type LiquidationParams struct {
	Debt            *uint256.Int
	AccruedInterest *uint256.Int
	AccruedFees     *uint256.Int
	// TotalValue account value in underlying
	TotalValue *uint256.Int
	// LiquidationDiscount share of the total value left after the liquidator premium, bps
	LiquidationDiscount uint16
	// FeeLiquidation pool fee on the total value, bps
	FeeLiquidation uint16
}

// CalcLiquidationPayments payments of a liquidation.
//
// totalFunds = totalValue * discount. The pool is owed the total debt plus
// the liquidation fee, capped at totalFunds. Funds above that go back to the
// borrower. Profit and loss are measured against debt with interest.
func CalcLiquidationPayments(p LiquidationParams) (*core.ClosurePayments, error) {
	amountToPool, err := CalcTotalDebt(p.Debt, p.AccruedInterest, p.AccruedFees)
	if err != nil {
		return nil, err
	}

	fee, err := PercentMul(p.TotalValue, p.FeeLiquidation)
	if err != nil {
		return nil, err
	}

	if amountToPool, err = Add(amountToPool, fee); err != nil {
		return nil, err
	}

	totalFunds, err := PercentMul(p.TotalValue, p.LiquidationDiscount)
	if err != nil {
		return nil, err
	}

	payments := &core.ClosurePayments{
		RemainingFunds: new(uint256.Int),
		Profit:         new(uint256.Int),
		Loss:           new(uint256.Int),
	}

	if totalFunds.Gt(amountToPool) {
		payments.RemainingFunds.Sub(totalFunds, amountToPool)
	} else {
		amountToPool = totalFunds
	}
	payments.AmountToPool = amountToPool

	debtWithInterest, err := Add(p.Debt, p.AccruedInterest)
	if err != nil {
		return nil, err
	}

	if amountToPool.Cmp(debtWithInterest) >= 0 {
		payments.Profit.Sub(amountToPool, debtWithInterest)
	} else {
		payments.Loss.Sub(debtWithInterest, amountToPool)
	}

	return payments, nil
}

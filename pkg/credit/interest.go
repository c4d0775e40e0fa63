package credit

import (
	"creditmanager/core"
	"math/big"

	"github.com/holiman/uint256"
)

// CalcAccruedInterest amount * indexNow / indexLastUpdate - amount
func CalcAccruedInterest(amount, indexLastUpdate, indexNow *uint256.Int) (*uint256.Int, error) {
	if amount.IsZero() {
		return new(uint256.Int), nil
	}

	if indexLastUpdate.IsZero() || indexNow.Lt(indexLastUpdate) {
		return nil, core.ErrInvalidIndex
	}

	grown, err := MulDiv(amount, indexNow, indexLastUpdate)
	if err != nil {
		return nil, err
	}

	return SubFloor(grown, amount), nil
}

// CalcAccruedFees quota fees plus the interest fee of each tier, every fee rounded down
func CalcAccruedFees(baseInterest, quotaInterest, quotaFees *uint256.Int, feeInterest uint16) (*uint256.Int, error) {
	baseFee, err := PercentMul(baseInterest, feeInterest)
	if err != nil {
		return nil, err
	}

	quotaFee, err := PercentMul(quotaInterest, feeInterest)
	if err != nil {
		return nil, err
	}

	fees, err := Add(baseFee, quotaFee)
	if err != nil {
		return nil, err
	}

	return Add(fees, quotaFees)
}

// CalcTotalDebt debt + accrued interest + accrued fees
func CalcTotalDebt(debt, accruedInterest, accruedFees *uint256.Int) (*uint256.Int, error) {
	total, err := Add(debt, accruedInterest)
	if err != nil {
		return nil, err
	}
	return Add(total, accruedFees)
}

// CalcIncrease adds amount to debt and solves the index that keeps accrued interest unchanged:
//
//	newIndex = indexNow * newDebt / (indexNow * debt / indexLastUpdate + amount)
func CalcIncrease(amount, debt, indexNow, indexLastUpdate *uint256.Int) (newDebt, newIndex *uint256.Int, err error) {
	if debt.IsZero() {
		return amount.Clone(), indexNow.Clone(), nil
	}

	if indexLastUpdate.IsZero() || indexNow.Lt(indexLastUpdate) {
		return nil, nil, core.ErrInvalidIndex
	}

	if newDebt, err = Add(debt, amount); err != nil {
		return nil, nil, err
	}

	now := indexNow.ToBig()

	num := new(big.Int).Mul(now, newDebt.ToBig())
	num.Mul(num, bigIndexPrecision)

	den := new(big.Int).Mul(bigIndexPrecision, now)
	den.Mul(den, debt.ToBig())
	den.Quo(den, indexLastUpdate.ToBig())
	den.Add(den, new(big.Int).Mul(bigIndexPrecision, amount.ToBig()))

	if den.Sign() == 0 {
		return nil, nil, core.ErrInvalidIndex
	}

	newIndex, err = fromBig(num.Quo(num, den))
	if err != nil {
		return nil, nil, err
	}

	return newDebt, newIndex, nil
}

// DecreaseResult outcome of CalcDecrease
type DecreaseResult struct {
	NewDebt                    *uint256.Int
	NewCumulativeIndex         *uint256.Int
	Profit                     *uint256.Int
	NewCumulativeQuotaInterest *uint256.Int
	NewQuotaFees               *uint256.Int
}

// DecreaseParams inputs of CalcDecrease
type DecreaseParams struct {
	Amount                    *uint256.Int
	Debt                      *uint256.Int
	CumulativeIndexNow        *uint256.Int
	CumulativeIndexLastUpdate *uint256.Int
	CumulativeQuotaInterest   *uint256.Int
	QuotaFees                 *uint256.Int
	FeeInterest               uint16
}

// CalcDecrease applies a repayment in order: quota fees, quota interest with
// its fee, base interest with its fee, then principal.
//
// A partially covered interest tier is split between pool and fee in the
// ratio 10000:feeInterest. The fee share is rounded down and the pool share
// is the exact remainder. Principal repayment is capped at debt.
func CalcDecrease(p DecreaseParams) (*DecreaseResult, error) {
	remaining := p.Amount.Clone()

	res := &DecreaseResult{
		NewDebt:                    p.Debt.Clone(),
		NewCumulativeIndex:         p.CumulativeIndexLastUpdate.Clone(),
		Profit:                     new(uint256.Int),
		NewCumulativeQuotaInterest: p.CumulativeQuotaInterest.Clone(),
		NewQuotaFees:               p.QuotaFees.Clone(),
	}

	if !p.QuotaFees.IsZero() {
		if remaining.Lt(p.QuotaFees) {
			res.NewQuotaFees.Sub(p.QuotaFees, remaining)
			res.Profit.Set(remaining)
			return res, nil
		}

		remaining.Sub(remaining, p.QuotaFees)
		res.Profit.Set(p.QuotaFees)
		res.NewQuotaFees.Clear()
	}

	if !p.CumulativeQuotaInterest.IsZero() {
		fee, err := PercentMul(p.CumulativeQuotaInterest, p.FeeInterest)
		if err != nil {
			return nil, err
		}

		owed, err := Add(p.CumulativeQuotaInterest, fee)
		if err != nil {
			return nil, err
		}

		if remaining.Lt(owed) {
			toPool, feePart, err := splitPartial(remaining, p.FeeInterest)
			if err != nil {
				return nil, err
			}

			res.Profit.Add(res.Profit, feePart)
			res.NewCumulativeQuotaInterest = SubFloor(p.CumulativeQuotaInterest, toPool)
			return res, nil
		}

		remaining.Sub(remaining, owed)
		res.Profit.Add(res.Profit, fee)
		res.NewCumulativeQuotaInterest.Clear()
	}

	interest, err := CalcAccruedInterest(p.Debt, p.CumulativeIndexLastUpdate, p.CumulativeIndexNow)
	if err != nil {
		return nil, err
	}

	fee, err := PercentMul(interest, p.FeeInterest)
	if err != nil {
		return nil, err
	}

	owed, err := Add(interest, fee)
	if err != nil {
		return nil, err
	}

	if remaining.Lt(owed) {
		toPool, feePart, err := splitPartial(remaining, p.FeeInterest)
		if err != nil {
			return nil, err
		}

		res.Profit.Add(res.Profit, feePart)
		res.NewCumulativeIndex, err = partialIndex(toPool, p.Debt, p.CumulativeIndexNow, p.CumulativeIndexLastUpdate)
		if err != nil {
			return nil, err
		}
		return res, nil
	}

	remaining.Sub(remaining, owed)
	res.Profit.Add(res.Profit, fee)
	res.NewCumulativeIndex = p.CumulativeIndexNow.Clone()

	res.NewDebt = SubFloor(p.Debt, remaining)
	return res, nil
}

// splitPartial splits amount into pool and fee shares, fee rounded down
func splitPartial(amount *uint256.Int, feeInterest uint16) (toPool, fee *uint256.Int, err error) {
	fee, err = MulDiv(amount, uint256.NewInt(uint64(feeInterest)), uint256.NewInt(core.PercentageFactor+uint64(feeInterest)))
	if err != nil {
		return nil, nil, err
	}

	return new(uint256.Int).Sub(amount, fee), fee, nil
}

// partialIndex index after paying toPool of the base interest:
//
//	newIndex = indexNow * indexLastUpdate / (indexNow - toPool * indexLastUpdate / debt)
func partialIndex(toPool, debt, indexNow, indexLastUpdate *uint256.Int) (*uint256.Int, error) {
	if toPool.IsZero() {
		return indexLastUpdate.Clone(), nil
	}

	if debt.IsZero() {
		return indexNow.Clone(), nil
	}

	now := indexNow.ToBig()
	last := indexLastUpdate.ToBig()

	num := new(big.Int).Mul(bigIndexPrecision, now)
	num.Mul(num, last)

	paid := new(big.Int).Mul(bigIndexPrecision, toPool.ToBig())
	paid.Mul(paid, last)
	paid.Quo(paid, debt.ToBig())

	den := new(big.Int).Mul(bigIndexPrecision, now)
	den.Sub(den, paid)
	if den.Sign() <= 0 {
		return indexNow.Clone(), nil
	}

	idx, err := fromBig(num.Quo(num, den))
	if err != nil {
		return nil, err
	}

	if idx.Gt(indexNow) {
		return indexNow.Clone(), nil
	}
	return idx, nil
}

package credit

import (
	"creditmanager/core"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ray(v string) *uint256.Int {
	return uint256.MustFromDecimal(v)
}

func u(v uint64) *uint256.Int {
	return uint256.NewInt(v)
}

var (
	indexOne    = ray("1000000000000000000000000000")
	indexTenPct = ray("1100000000000000000000000000")
)

func TestCalcAccruedInterest(t *testing.T) {
	interest, err := CalcAccruedInterest(u(1000), indexOne, ray("1010000000000000000000000000"))
	require.Nil(t, err)
	assert.Equal(t, uint64(10), interest.Uint64())

	interest, err = CalcAccruedInterest(new(uint256.Int), indexOne, indexTenPct)
	require.Nil(t, err)
	assert.True(t, interest.IsZero())

	_, err = CalcAccruedInterest(u(1000), indexTenPct, indexOne)
	assert.ErrorIs(t, err, core.ErrInvalidIndex)
}

func TestCalcIncreaseKeepsInterest(t *testing.T) {
	newDebt, newIndex, err := CalcIncrease(u(500), u(1000), indexTenPct, indexOne)
	require.Nil(t, err)
	assert.Equal(t, uint64(1500), newDebt.Uint64())
	assert.Equal(t, "1031250000000000000000000000", newIndex.Dec())

	interest, err := CalcAccruedInterest(newDebt, newIndex, indexTenPct)
	require.Nil(t, err)
	assert.Equal(t, uint64(100), interest.Uint64(), "interest must survive the increase")
}

func TestCalcIncreaseFromZeroDebt(t *testing.T) {
	newDebt, newIndex, err := CalcIncrease(u(700), new(uint256.Int), indexTenPct, indexOne)
	require.Nil(t, err)
	assert.Equal(t, uint64(700), newDebt.Uint64())
	assert.True(t, newIndex.Eq(indexTenPct))
}

func decreaseParams(amount uint64) DecreaseParams {
	return DecreaseParams{
		Amount:                    u(amount),
		Debt:                      u(1000),
		CumulativeIndexNow:        indexTenPct,
		CumulativeIndexLastUpdate: indexOne,
		CumulativeQuotaInterest:   u(30),
		QuotaFees:                 u(5),
		FeeInterest:               1000,
	}
}

func TestCalcDecreaseRoundTrip(t *testing.T) {
	p := decreaseParams(0)

	interest, err := CalcAccruedInterest(p.Debt, p.CumulativeIndexLastUpdate, p.CumulativeIndexNow)
	require.Nil(t, err)
	quotaAndBase := new(uint256.Int).Add(interest, p.CumulativeQuotaInterest)

	fees, err := CalcAccruedFees(interest, p.CumulativeQuotaInterest, p.QuotaFees, p.FeeInterest)
	require.Nil(t, err)
	assert.Equal(t, uint64(18), fees.Uint64())

	total, err := CalcTotalDebt(p.Debt, quotaAndBase, fees)
	require.Nil(t, err)
	assert.Equal(t, uint64(1148), total.Uint64())

	p.Amount = total
	res, err := CalcDecrease(p)
	require.Nil(t, err)
	assert.True(t, res.NewDebt.IsZero())
	assert.True(t, res.NewCumulativeQuotaInterest.IsZero())
	assert.True(t, res.NewQuotaFees.IsZero())
	assert.Equal(t, uint64(18), res.Profit.Uint64())
	assert.True(t, res.NewCumulativeIndex.Eq(indexTenPct))
}

func TestCalcDecreaseOverpayment(t *testing.T) {
	res, err := CalcDecrease(decreaseParams(5000))
	require.Nil(t, err)
	assert.True(t, res.NewDebt.IsZero())
	assert.True(t, res.NewCumulativeQuotaInterest.IsZero())
	assert.True(t, res.NewQuotaFees.IsZero())
	assert.Equal(t, uint64(18), res.Profit.Uint64())
}

func TestCalcDecreasePartialQuotaInterest(t *testing.T) {
	res, err := CalcDecrease(decreaseParams(16))
	require.Nil(t, err)

	assert.True(t, res.NewQuotaFees.IsZero())
	assert.Equal(t, uint64(20), res.NewCumulativeQuotaInterest.Uint64())
	assert.Equal(t, uint64(6), res.Profit.Uint64())
	assert.Equal(t, uint64(1000), res.NewDebt.Uint64())
	assert.True(t, res.NewCumulativeIndex.Eq(indexOne))
}

func TestCalcDecreasePartialQuotaFees(t *testing.T) {
	res, err := CalcDecrease(decreaseParams(3))
	require.Nil(t, err)

	assert.Equal(t, uint64(2), res.NewQuotaFees.Uint64())
	assert.Equal(t, uint64(30), res.NewCumulativeQuotaInterest.Uint64())
	assert.Equal(t, uint64(3), res.Profit.Uint64())
}

func TestCalcDecreasePartialBaseInterest(t *testing.T) {
	res, err := CalcDecrease(decreaseParams(93))
	require.Nil(t, err)

	assert.Equal(t, uint64(1000), res.NewDebt.Uint64())
	assert.True(t, res.NewCumulativeQuotaInterest.IsZero())
	assert.Equal(t, uint64(13), res.Profit.Uint64())
	assert.Equal(t, "1047619047619047619047619047", res.NewCumulativeIndex.Dec())

	left, err := CalcAccruedInterest(res.NewDebt, res.NewCumulativeIndex, indexTenPct)
	require.Nil(t, err)
	assert.Equal(t, uint64(50), left.Uint64())
}

func TestCalcDecreasePartialPrincipal(t *testing.T) {
	res, err := CalcDecrease(decreaseParams(1048))
	require.Nil(t, err)

	assert.Equal(t, uint64(100), res.NewDebt.Uint64())
	assert.True(t, res.NewCumulativeIndex.Eq(indexTenPct))
	assert.Equal(t, uint64(18), res.Profit.Uint64())
}

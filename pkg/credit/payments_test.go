package credit

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalcClosePayments(t *testing.T) {
	payments, err := CalcClosePayments(u(1000), u(10), u(1))
	require.Nil(t, err)

	assert.Equal(t, uint64(1011), payments.AmountToPool.Uint64())
	assert.Equal(t, uint64(1), payments.Profit.Uint64())
	assert.True(t, payments.RemainingFunds.IsZero())
	assert.True(t, payments.Loss.IsZero())
}

func TestCalcLiquidationPayments(t *testing.T) {
	payments, err := CalcLiquidationPayments(LiquidationParams{
		Debt:                u(1000),
		AccruedInterest:     u(10),
		AccruedFees:         u(1),
		TotalValue:          u(1500),
		LiquidationDiscount: 9600,
		FeeLiquidation:      150,
	})
	require.Nil(t, err)

	assert.Equal(t, uint64(1033), payments.AmountToPool.Uint64())
	assert.Equal(t, uint64(407), payments.RemainingFunds.Uint64())
	assert.Equal(t, uint64(23), payments.Profit.Uint64())
	assert.True(t, payments.Loss.IsZero())
}

func TestCalcLiquidationPaymentsWithLoss(t *testing.T) {
	payments, err := CalcLiquidationPayments(LiquidationParams{
		Debt:                u(1000),
		AccruedInterest:     u(10),
		AccruedFees:         u(1),
		TotalValue:          u(1000),
		LiquidationDiscount: 9600,
		FeeLiquidation:      150,
	})
	require.Nil(t, err)

	assert.Equal(t, uint64(960), payments.AmountToPool.Uint64())
	assert.True(t, payments.RemainingFunds.IsZero())
	assert.True(t, payments.Profit.IsZero())
	assert.Equal(t, uint64(50), payments.Loss.Uint64())
}

func TestLiquidationConservation(t *testing.T) {
	for _, value := range []uint64{0, 1, 500, 999, 1011, 1053, 1500, 7_000_000} {
		for _, discount := range []uint16{9000, 9600, 10000} {
			total := u(value)
			payments, err := CalcLiquidationPayments(LiquidationParams{
				Debt:                u(1000),
				AccruedInterest:     u(10),
				AccruedFees:         u(1),
				TotalValue:          total,
				LiquidationDiscount: discount,
				FeeLiquidation:      150,
			})
			require.Nil(t, err)

			settled := new(uint256.Int).Add(payments.AmountToPool, payments.RemainingFunds)
			require.False(t, settled.Gt(total), "value %d discount %d", value, discount)

			liquidatorTake := new(uint256.Int).Sub(total, settled)
			sum := new(uint256.Int).Add(settled, liquidatorTake)
			assert.True(t, sum.Eq(total))
			assert.False(t, !payments.Profit.IsZero() && !payments.Loss.IsZero())
		}
	}
}

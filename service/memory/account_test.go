package memory

import (
	"context"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReturnAccountClearsAllowances(t *testing.T) {
	ctx := context.Background()
	factory := NewFactory(NewBank())

	taken, err := factory.TakeAccount(ctx, 1)
	require.Nil(t, err)
	require.Nil(t, taken.Approve(ctx, "weth", "swap", uint256.NewInt(100)))
	assert.Equal(t, "100", taken.(*Account).Allowance("weth", "swap").Dec())

	require.Nil(t, factory.ReturnAccount(ctx, taken.Address()))
	assert.Equal(t, 1, factory.Free())

	reused, err := factory.TakeAccount(ctx, 2)
	require.Nil(t, err)
	require.Equal(t, taken.Address(), reused.Address())
	assert.True(t, reused.(*Account).Allowance("weth", "swap").IsZero())

	assert.NotNil(t, factory.ReturnAccount(ctx, "unknown"))
}

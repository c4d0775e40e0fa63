package scenario

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const liquidation = `
ledger:
  name: demo
  underlying: usdc
  lt_underlying: 9000
  fees:
    interest: 1000
    liquidation: 150
    liquidation_discount: 9600
start: 1700000000
pool:
  liquidity: "1000000"
prices:
  - {token: usdc, price: "1", decimals: 0}
  - {token: weth, price: "1", decimals: 0}
tokens:
  - {token: weth, lt: 8000}
balances:
  - {holder: alice, token: weth, amount: "1501"}
  - {holder: bob, token: usdc, amount: "1000"}
steps:
  - {op: open, account: a, borrower: alice, amount: "1000"}
  - {op: burn, holder: a, token: usdc}
  - {op: add_collateral, account: a, token: weth, amount: "1501", payer: alice}
  - {op: index, index: "1.01"}
  - {op: check, account: a}
  - {op: status, account: a}
  - {op: liquidate, account: a, to: bob, payer: bob, expect: "not liquidatable"}
  - {op: price, token: weth, price: "0.5", decimals: 0}
  - {op: check, account: a, expect: "not enough collateral"}
  - {op: borrow, account: a, amount: "1", expect: "twice in one block"}
  - {op: liquidate, account: a, to: bob, payer: bob}
`

func TestParse(t *testing.T) {
	sc, err := Parse([]byte(`
ledger:
  underlying: usdc
steps:
  - op: open
    account: a
    borrower: alice
    amount: "10"
`))
	require.Nil(t, err)
	assert.Equal(t, "usdc", sc.Ledger.Name)
	require.Len(t, sc.Steps, 1)
	assert.Equal(t, "open", sc.Steps[0].Op)
	assert.Equal(t, "10", sc.Steps[0].Amount)
}

func TestRunLiquidation(t *testing.T) {
	ctx := context.Background()

	sc, err := Parse([]byte(liquidation))
	require.Nil(t, err)

	env, err := Setup(ctx, sc, Options{})
	require.Nil(t, err)

	var observed int
	results, err := env.Run(ctx, sc.Steps, func(ctx context.Context, r *Result) {
		observed++
	})
	require.Nil(t, err)
	assert.Equal(t, len(sc.Steps), observed)

	status := results[5]
	assert.Equal(t, "1011", status.Detail["total_debt"])
	assert.Equal(t, "11869", status.Detail["health_factor"])

	last := results[len(results)-1]
	assert.Equal(t, "720", last.Detail["amount_to_pool"])
	assert.Equal(t, "290", last.Detail["loss"])

	assert.Equal(t, "279", env.Bank.BalanceOf("bob", "usdc").Dec())
	assert.Equal(t, "1500", env.Bank.BalanceOf("bob", "weth").Dec())
	assert.Equal(t, "290", env.Pool.Stats().Loss.Dec())

	_, ok := env.Address("a")
	assert.True(t, ok)
	assert.Empty(t, env.Manager.Accounts(ctx))
}

func TestRunUnexpectedError(t *testing.T) {
	ctx := context.Background()

	sc, err := Parse([]byte(`
ledger:
  underlying: usdc
pool:
  liquidity: "100"
prices:
  - {token: usdc, price: "1", decimals: 0}
steps:
  - {op: open, account: a, borrower: alice, amount: "10"}
  - {op: close, account: a, to: alice}
`))
	require.Nil(t, err)

	env, err := Setup(ctx, sc, Options{})
	require.Nil(t, err)

	results, err := env.Run(ctx, sc.Steps, nil)
	assert.Error(t, err)
	assert.Len(t, results, 2)
	assert.Contains(t, results[1].Err.Error(), "non zero debt")
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	sc, err := Load("testdata/liquidation.yaml")
	require.Nil(t, err)
	assert.Equal(t, "demo", sc.Ledger.Name)
	assert.Len(t, sc.Tokens, 1)

	env, err := Setup(ctx, sc, Options{})
	require.Nil(t, err)

	results, err := env.Run(ctx, sc.Steps, nil)
	require.Nil(t, err)

	last := results[len(results)-1]
	assert.Equal(t, "720", last.Detail["amount_to_pool"])
	assert.Equal(t, "290", last.Detail["loss"])
	assert.Equal(t, "1500", env.Bank.BalanceOf("bob", "weth").Dec())
}

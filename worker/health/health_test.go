package health

import (
	"context"
	"creditmanager/core"
	"creditmanager/pkg/credit"
	"creditmanager/service/ledger"
	"creditmanager/service/memory"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan(t *testing.T) {
	ctx := context.Background()

	bank := memory.NewBank()
	bank.Mint("pool", "usdc", uint256.NewInt(1_000_000))
	pool := memory.NewPool("pool", "usdc", bank)
	factory := memory.NewFactory(bank)
	oracle := memory.NewOracle()
	require.Nil(t, oracle.SetPrice("usdc", decimal.NewFromInt(1), 0))
	store := memory.NewStore()

	m := ledger.New(
		ledger.Config{Name: "health", Underlying: "usdc", Facade: "facade", Configurator: "admin"},
		pool,
		factory,
		memory.NewQuotaKeeper(),
		oracle,
		bank,
		memory.NewClock(time.Unix(1_700_000_000, 0)),
		store.Tokens(),
		store.Accounts(),
		store.Params(),
	)
	require.Nil(t, m.SetThresholdRamp(ctx, "admin", "usdc", 9000, 9000, credit.RampNever, 0))

	healthy, err := m.OpenAccount(ctx, "facade", "alice", uint256.NewInt(100))
	require.Nil(t, err)
	bank.Mint(healthy, "usdc", uint256.NewInt(1000))

	sick, err := m.OpenAccount(ctx, "facade", "bob", uint256.NewInt(100))
	require.Nil(t, err)

	empty, err := m.OpenAccount(ctx, "facade", "carol", uint256.NewInt(0))
	require.Nil(t, err)

	w := New(&core.Config{Health: core.Health{Concurrency: 2}}, m)
	liquidatable, err := w.Scan(ctx)
	require.Nil(t, err)
	assert.Equal(t, []string{sick}, liquidatable)
	assert.NotContains(t, liquidatable, healthy)
	assert.NotContains(t, liquidatable, empty)
}

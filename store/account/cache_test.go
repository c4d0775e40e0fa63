package account

import (
	"context"
	"creditmanager/core"
	"creditmanager/service/memory"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingStore struct {
	core.IAccountStore
	finds int
}

func (s *countingStore) Find(ctx context.Context, address string) (*core.CreditAccount, error) {
	s.finds++
	return s.IAccountStore.Find(ctx, address)
}

func TestCache(t *testing.T) {
	ctx := context.Background()
	backend := &countingStore{IAccountStore: memory.NewStore().Accounts()}
	store := Cache(backend)

	acc := core.NewCreditAccount("acc", "alice")
	acc.Debt = uint256.NewInt(1000)
	require.Nil(t, backend.IAccountStore.Save(ctx, acc))

	found, err := store.Find(ctx, "acc")
	require.Nil(t, err)
	assert.Equal(t, "1000", found.Debt.Dec())

	found.Debt.SetUint64(1)
	found, err = store.Find(ctx, "acc")
	require.Nil(t, err)
	assert.Equal(t, "1000", found.Debt.Dec())
	assert.Equal(t, 1, backend.finds)

	acc.Debt = uint256.NewInt(500)
	require.Nil(t, store.Save(ctx, acc))
	found, err = store.Find(ctx, "acc")
	require.Nil(t, err)
	assert.Equal(t, "500", found.Debt.Dec())
	assert.Equal(t, 1, backend.finds)

	require.Nil(t, store.Delete(ctx, "acc"))
	_, err = store.Find(ctx, "acc")
	assert.Equal(t, core.ErrAccountNotFound, err)
	assert.Equal(t, 2, backend.finds)
}

package account

import (
	"context"
	"creditmanager/core"

	"github.com/bluele/gcache"
	"golang.org/x/sync/singleflight"
)

// Cache caches account records by address in front of store
func Cache(store core.IAccountStore) core.IAccountStore {
	return &cacheAccountStore{
		IAccountStore: store,
		cache:         gcache.New(2048).LRU().Build(),
		sf:            &singleflight.Group{},
	}
}

type cacheAccountStore struct {
	core.IAccountStore
	cache gcache.Cache
	sf    *singleflight.Group
}

func (s *cacheAccountStore) Save(ctx context.Context, account *core.CreditAccount) error {
	if err := s.IAccountStore.Save(ctx, account); err != nil {
		s.cache.Remove(account.Address)
		return err
	}

	_ = s.cache.Set(account.Address, account.Clone())
	return nil
}

func (s *cacheAccountStore) Find(ctx context.Context, address string) (*core.CreditAccount, error) {
	if v, err := s.cache.Get(address); err == nil {
		if account, ok := v.(*core.CreditAccount); ok {
			return account.Clone(), nil
		}
	}

	v, err, _ := s.sf.Do(address, func() (interface{}, error) {
		account, err := s.IAccountStore.Find(ctx, address)
		if err != nil {
			return nil, err
		}

		_ = s.cache.Set(address, account.Clone())
		return account, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*core.CreditAccount).Clone(), nil
}

func (s *cacheAccountStore) Delete(ctx context.Context, address string) error {
	s.cache.Remove(address)
	return s.IAccountStore.Delete(ctx, address)
}

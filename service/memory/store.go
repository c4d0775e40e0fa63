package memory

import (
	"context"
	"creditmanager/core"
	"sort"
	"sync"
)

// Store in memory token, account and params store
type Store struct {
	mux      sync.RWMutex
	tokens   map[string]*core.CollateralToken
	accounts map[string]*core.CreditAccount
	params   map[string]*core.LedgerParams
}

// NewStore new empty store
func NewStore() *Store {
	return &Store{
		tokens:   make(map[string]*core.CollateralToken),
		accounts: make(map[string]*core.CreditAccount),
		params:   make(map[string]*core.LedgerParams),
	}
}

// Tokens token store view
func (s *Store) Tokens() core.ITokenStore {
	return tokenStore{s}
}

// Accounts account store view
func (s *Store) Accounts() core.IAccountStore {
	return accountStore{s}
}

// Params params store view
func (s *Store) Params() core.IParamStore {
	return paramStore{s}
}

type tokenStore struct{ *Store }

func (s tokenStore) Save(ctx context.Context, token *core.CollateralToken) error {
	s.mux.Lock()
	defer s.mux.Unlock()

	c := *token
	s.tokens[token.Token] = &c
	return nil
}

func (s tokenStore) Find(ctx context.Context, token string) (*core.CollateralToken, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	t, ok := s.tokens[token]
	if !ok {
		return nil, core.ErrTokenNotAllowed
	}
	c := *t
	return &c, nil
}

func (s tokenStore) All(ctx context.Context) ([]*core.CollateralToken, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	tokens := make([]*core.CollateralToken, 0, len(s.tokens))
	for _, t := range s.tokens {
		c := *t
		tokens = append(tokens, &c)
	}

	sort.Slice(tokens, func(i, j int) bool {
		return tokens[i].Mask.Index() < tokens[j].Mask.Index()
	})
	return tokens, nil
}

type accountStore struct{ *Store }

func (s accountStore) Save(ctx context.Context, account *core.CreditAccount) error {
	s.mux.Lock()
	defer s.mux.Unlock()

	s.accounts[account.Address] = account.Clone()
	return nil
}

func (s accountStore) Find(ctx context.Context, address string) (*core.CreditAccount, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	a, ok := s.accounts[address]
	if !ok {
		return nil, core.ErrAccountNotFound
	}
	return a.Clone(), nil
}

func (s accountStore) Delete(ctx context.Context, address string) error {
	s.mux.Lock()
	defer s.mux.Unlock()

	delete(s.accounts, address)
	return nil
}

func (s accountStore) All(ctx context.Context) ([]*core.CreditAccount, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	accounts := make([]*core.CreditAccount, 0, len(s.accounts))
	for _, a := range s.accounts {
		accounts = append(accounts, a.Clone())
	}

	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Address < accounts[j].Address
	})
	return accounts, nil
}

func (s accountStore) FindByBorrower(ctx context.Context, borrower string) ([]*core.CreditAccount, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}

	var accounts []*core.CreditAccount
	for _, a := range all {
		if a.Borrower == borrower {
			accounts = append(accounts, a)
		}
	}
	return accounts, nil
}

type paramStore struct{ *Store }

func (s paramStore) Save(ctx context.Context, params *core.LedgerParams) error {
	s.mux.Lock()
	defer s.mux.Unlock()

	c := *params
	s.params[params.Ledger] = &c
	return nil
}

func (s paramStore) Find(ctx context.Context, ledger string) (*core.LedgerParams, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	p, ok := s.params[ledger]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

package ledger

import (
	"context"
	"creditmanager/core"
	"fmt"
	"sync"

	"github.com/fox-one/pkg/logger"
)

// Config ledger identity and initial roles
type Config struct {
	// Name key of the ledger params row
	Name             string
	Underlying       string
	Facade           string
	Configurator     string
	MaxEnabledTokens int
	Fees             core.FeeParams
}

// Manager credit ledger: account records, token registry and settlement
type Manager struct {
	name       string
	underlying string

	pool     core.IPool
	factory  core.IAccountFactory
	keeper   core.IQuotaKeeper
	bank     core.ITokenBank
	blocks   core.IBlockService
	tokenz   core.ITokenStore
	accountz core.IAccountStore
	paramz   core.IParamStore

	guard guard

	mux          sync.RWMutex
	oracle       core.IPriceOracle
	facade       string
	configurator string
	params       core.LedgerParams
	masks        map[string]core.Mask
	tokens       map[core.Mask]*core.CollateralToken
	tokenCount   int
	accounts     map[string]*core.CreditAccount
	containers   map[string]core.ICreditAccount
	adapters     map[string]string
	targets      map[string]string
	active       *activeAccount
}

var _ core.ICreditManager = (*Manager)(nil)

// New new ledger with only the underlying token registered
func New(
	cfg Config,
	pool core.IPool,
	factory core.IAccountFactory,
	keeper core.IQuotaKeeper,
	oracle core.IPriceOracle,
	bank core.ITokenBank,
	blocks core.IBlockService,
	tokens core.ITokenStore,
	accounts core.IAccountStore,
	params core.IParamStore,
) *Manager {
	maxEnabled := cfg.MaxEnabledTokens
	if maxEnabled <= 0 {
		maxEnabled = core.DefaultMaxEnabledTokens
	}

	m := &Manager{
		name:         cfg.Name,
		underlying:   cfg.Underlying,
		pool:         pool,
		factory:      factory,
		keeper:       keeper,
		bank:         bank,
		blocks:       blocks,
		tokenz:       tokens,
		accountz:     accounts,
		paramz:       params,
		oracle:       oracle,
		facade:       cfg.Facade,
		configurator: cfg.Configurator,
		params: core.LedgerParams{
			Ledger:           cfg.Name,
			Underlying:       cfg.Underlying,
			MaxEnabledTokens: maxEnabled,
			FeeParams:        cfg.Fees,
		},
		masks:      make(map[string]core.Mask),
		tokens:     make(map[core.Mask]*core.CollateralToken),
		accounts:   make(map[string]*core.CreditAccount),
		containers: make(map[string]core.ICreditAccount),
		adapters:   make(map[string]string),
		targets:    make(map[string]string),
	}

	m.addToken(newCollateralToken(cfg.Underlying, core.UnderlyingMask))
	return m
}

// Underlying quote currency token
func (m *Manager) Underlying() string {
	return m.underlying
}

// Pool lending pool
func (m *Manager) Pool() core.IPool {
	return m.pool
}

// Params copy of the ledger params
func (m *Manager) Params() core.LedgerParams {
	m.mux.RLock()
	defer m.mux.RUnlock()

	return m.params
}

// Facade current facade
func (m *Manager) Facade() string {
	m.mux.RLock()
	defer m.mux.RUnlock()

	return m.facade
}

// Configurator current configurator
func (m *Manager) Configurator() string {
	m.mux.RLock()
	defer m.mux.RUnlock()

	return m.configurator
}

// Account copy of an open account record
func (m *Manager) Account(ctx context.Context, address string) (*core.CreditAccount, error) {
	m.mux.RLock()
	defer m.mux.RUnlock()

	acc, ok := m.accounts[address]
	if !ok {
		return nil, core.ErrAccountNotFound
	}
	return acc.Clone(), nil
}

// Accounts addresses of every open account
func (m *Manager) Accounts(ctx context.Context) []string {
	m.mux.RLock()
	defer m.mux.RUnlock()

	addresses := make([]string, 0, len(m.accounts))
	for address := range m.accounts {
		addresses = append(addresses, address)
	}
	return addresses
}

func (m *Manager) requireFacade(caller string) error {
	m.mux.RLock()
	defer m.mux.RUnlock()

	if caller == "" || caller != m.facade {
		return core.ErrCallerNotFacade
	}
	return nil
}

func (m *Manager) requireConfigurator(caller string) error {
	m.mux.RLock()
	defer m.mux.RUnlock()

	if caller == "" || caller != m.configurator {
		return core.ErrCallerNotConfigurator
	}
	return nil
}

func (m *Manager) currentOracle() core.IPriceOracle {
	m.mux.RLock()
	defer m.mux.RUnlock()

	return m.oracle
}

// load returns a working copy of the account record and its container
func (m *Manager) load(address string) (*core.CreditAccount, core.ICreditAccount, error) {
	m.mux.RLock()
	defer m.mux.RUnlock()

	acc, ok := m.accounts[address]
	if !ok {
		return nil, nil, core.ErrAccountNotFound
	}
	return acc.Clone(), m.containers[address], nil
}

// save persists acc and makes it the current record
func (m *Manager) save(ctx context.Context, acc *core.CreditAccount, container core.ICreditAccount) error {
	if err := m.accountz.Save(ctx, acc); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("accounts.Save")
		return fmt.Errorf("save account %s: %w", acc.Address, err)
	}

	m.mux.Lock()
	defer m.mux.Unlock()

	m.accounts[acc.Address] = acc
	m.containers[acc.Address] = container
	return nil
}

// remove deletes the record of a closed account
func (m *Manager) remove(ctx context.Context, address string) error {
	if err := m.accountz.Delete(ctx, address); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("accounts.Delete")
		return fmt.Errorf("delete account %s: %w", address, err)
	}

	m.mux.Lock()
	defer m.mux.Unlock()

	delete(m.accounts, address)
	delete(m.containers, address)
	return nil
}

// rollback writes prev back after a step following save failed
func (m *Manager) rollback(ctx context.Context, prev, cur *core.CreditAccount, container core.ICreditAccount) {
	prev.ID, prev.Version = cur.ID, cur.Version
	if err := m.save(ctx, prev, container); err != nil {
		logger.FromContext(ctx).WithError(err).WithField("account", prev.Address).Errorln("rollback account")
	}
}

// restore puts back a record removed by a close or liquidation that failed
// before any funds left the container
func (m *Manager) restore(ctx context.Context, acc *core.CreditAccount, container core.ICreditAccount) {
	acc.ID, acc.Version = 0, 0
	if err := m.save(ctx, acc, container); err != nil {
		logger.FromContext(ctx).WithError(err).WithField("account", acc.Address).Errorln("restore account")
	}
}

// holdsAny reports whether some open account has a token of mask enabled
func (m *Manager) holdsAny(mask core.Mask) bool {
	m.mux.RLock()
	defer m.mux.RUnlock()

	for _, acc := range m.accounts {
		if !acc.EnabledTokensMask.And(mask).IsZero() {
			return true
		}
	}
	return false
}

func (m *Manager) saveParams(ctx context.Context, update func(p *core.LedgerParams)) error {
	m.mux.RLock()
	params := m.params
	m.mux.RUnlock()

	update(&params)
	if err := m.paramz.Save(ctx, &params); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("params.Save")
		return fmt.Errorf("save params %s: %w", m.name, err)
	}

	m.mux.Lock()
	defer m.mux.Unlock()

	m.params = params
	return nil
}

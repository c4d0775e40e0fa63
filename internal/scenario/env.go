package scenario

import (
	"context"
	"creditmanager/core"
	"creditmanager/pkg/credit"
	"creditmanager/pkg/number"
	"creditmanager/service/ledger"
	"creditmanager/service/memory"
	"errors"
	"fmt"
	"time"

	"github.com/fox-one/pkg/logger"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

const (
	// DefaultFacade caller of account operations
	DefaultFacade = "facade"
	// DefaultConfigurator caller of ledger setup
	DefaultConfigurator = "configurator"
	// PoolAddress holder of the pool liquidity
	PoolAddress = "pool"
)

// Stores persistence of the ledger, in memory when nil
type Stores struct {
	Tokens   core.ITokenStore
	Accounts core.IAccountStore
	Params   core.IParamStore
}

// Options overrides of the in memory collaborators
type Options struct {
	Facade       string
	Configurator string
	Stores       *Stores
	// Oracle prices tokens instead of the scenario prices
	Oracle core.IPriceOracle
	// Blocks replaces the scenario clock, advance steps then fail
	Blocks core.IBlockService
}

// Env a ledger wired to in memory collaborators
type Env struct {
	Bank    *memory.Bank
	Pool    *memory.Pool
	Factory *memory.Factory
	Keeper  *memory.QuotaKeeper
	Clock   *memory.Clock
	Manager *ledger.Manager

	facade       string
	configurator string
	prices       *memory.Oracle
	aliases      map[string]string
}

// Setup builds the ledger described by sc
func Setup(ctx context.Context, sc *Scenario, opts Options) (*Env, error) {
	if sc.Ledger.Underlying == "" {
		return nil, errors.New("scenario: underlying is required")
	}

	stores := opts.Stores
	if stores == nil {
		s := memory.NewStore()
		stores = &Stores{Tokens: s.Tokens(), Accounts: s.Accounts(), Params: s.Params()}
	}

	start := time.Now().UTC()
	if sc.Start > 0 {
		start = time.Unix(sc.Start, 0).UTC()
	}

	env := &Env{
		Bank:         memory.NewBank(),
		Keeper:       memory.NewQuotaKeeper(),
		Clock:        memory.NewClock(start),
		facade:       opts.Facade,
		configurator: opts.Configurator,
		prices:       memory.NewOracle(),
		aliases:      make(map[string]string),
	}

	if env.facade == "" {
		env.facade = DefaultFacade
	}

	if env.configurator == "" {
		env.configurator = DefaultConfigurator
	}
	env.Factory = memory.NewNamedFactory(env.Bank, sc.Ledger.Name)
	env.Pool = memory.NewPool(PoolAddress, sc.Ledger.Underlying, env.Bank)

	for _, p := range sc.Prices {
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return nil, fmt.Errorf("scenario: price of %s: %w", p.Token, err)
		}

		if err := env.prices.SetPrice(p.Token, price, p.Decimals); err != nil {
			return nil, err
		}
	}

	oracle := opts.Oracle
	if oracle == nil {
		oracle = env.prices
	}

	var blocks core.IBlockService = env.Clock
	if opts.Blocks != nil {
		blocks = opts.Blocks
		env.Clock = nil
	}

	env.Manager = ledger.New(
		ledger.Config{
			Name:             sc.Ledger.Name,
			Underlying:       sc.Ledger.Underlying,
			Facade:           env.facade,
			Configurator:     env.configurator,
			MaxEnabledTokens: sc.Ledger.MaxEnabledTokens,
			Fees: core.FeeParams{
				FeeInterest:                sc.Ledger.Fees.Interest,
				FeeLiquidation:             sc.Ledger.Fees.Liquidation,
				LiquidationDiscount:        sc.Ledger.Fees.LiquidationDiscount,
				FeeLiquidationExpired:      sc.Ledger.Fees.LiquidationExpired,
				LiquidationDiscountExpired: sc.Ledger.Fees.LiquidationDiscountExpired,
			},
		},
		env.Pool,
		env.Factory,
		env.Keeper,
		oracle,
		env.Bank,
		blocks,
		stores.Tokens,
		stores.Accounts,
		stores.Params,
	)

	if err := env.Manager.Restore(ctx); err != nil {
		return nil, err
	}

	if err := env.configure(ctx, sc); err != nil {
		return nil, err
	}

	if sc.Pool.Liquidity != "" {
		liquidity, err := parseAmount(sc.Pool.Liquidity)
		if err != nil {
			return nil, err
		}
		env.Bank.Mint(PoolAddress, sc.Ledger.Underlying, liquidity)
	}

	for _, b := range sc.Balances {
		amount, err := parseAmount(b.Amount)
		if err != nil {
			return nil, err
		}
		env.Bank.Mint(b.Holder, b.Token, amount)
	}

	return env, nil
}

func (e *Env) configure(ctx context.Context, sc *Scenario) error {
	m := e.Manager
	underlying := sc.Ledger.Underlying

	if err := m.SetThresholdRamp(ctx, e.configurator, underlying, sc.Ledger.LTUnderlying, sc.Ledger.LTUnderlying, credit.RampNever, 0); err != nil {
		return err
	}

	if sc.Ledger.ExpirationDate > 0 {
		if err := m.SetExpirationDate(ctx, e.configurator, sc.Ledger.ExpirationDate); err != nil {
			return err
		}
	}

	var quoted core.Mask
	for _, t := range sc.Tokens {
		mask, err := m.TokenMask(t.Token)
		if err == core.ErrTokenNotAllowed {
			mask, err = m.RegisterToken(ctx, e.configurator, t.Token)
		}
		if err != nil {
			return fmt.Errorf("scenario: register %s: %w", t.Token, err)
		}

		ltFinal, rampStart := t.LTFinal, t.RampStart
		if t.RampDuration == 0 {
			ltFinal, rampStart = t.LT, credit.RampNever
		}

		if err := m.SetThresholdRamp(ctx, e.configurator, t.Token, t.LT, ltFinal, rampStart, t.RampDuration); err != nil {
			return err
		}

		if t.Quota == nil {
			continue
		}

		limit, err := parseAmount(t.Quota.Limit)
		if err != nil {
			return err
		}

		e.Keeper.AddToken(t.Token, limit, t.Quota.Fee)
		e.Keeper.SetIndex(t.Token, credit.RAY)
		quoted = quoted.Enable(mask)
	}

	if quoted.IsZero() {
		return nil
	}
	return m.SetQuotedTokensMask(ctx, e.configurator, quoted)
}

// Address address of the account opened under alias
func (e *Env) Address(alias string) (string, bool) {
	address, ok := e.aliases[alias]
	return address, ok
}

// holder resolves an account alias, any other name is used as is
func (e *Env) holder(name string) string {
	if address, ok := e.aliases[name]; ok {
		return address
	}
	return name
}

func (e *Env) account(alias string) (string, error) {
	address, ok := e.aliases[alias]
	if !ok {
		return "", fmt.Errorf("scenario: unknown account %q", alias)
	}
	return address, nil
}

func parseAmount(s string) (*uint256.Int, error) {
	if s == "" {
		return new(uint256.Int), nil
	}

	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("scenario: amount %q: %w", s, err)
	}
	return v, nil
}

// parseIndex parses a growth factor such as 1.01 into a RAY index
func parseIndex(s string) (*uint256.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("scenario: index %q: %w", s, err)
	}

	index, err := number.ToRaw(d, 27)
	if err != nil {
		return nil, err
	}

	if index.IsZero() {
		return nil, core.ErrInvalidIndex
	}
	return index, nil
}

func logStep(ctx context.Context, i int, step Step) {
	logger.FromContext(ctx).WithField("step", i).
		WithField("op", step.Op).
		WithField("account", step.Account).
		Debugln("scenario step")
}

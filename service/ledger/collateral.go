package ledger

import (
	"context"
	"creditmanager/core"
	"creditmanager/pkg/credit"
	"fmt"
	"time"

	"github.com/fox-one/pkg/logger"
	"github.com/holiman/uint256"
)

var (
	maxUint256 = new(uint256.Int).SetAllOne()
	dust       = uint256.NewInt(core.DustBalance)
)

type quotedCollateral struct {
	token string
	lt    uint16
	quota *uint256.Int
}

// calcDebtAndCollateral measures debt and, depending on task, collateral of
// acc. In lazy mode the walk over tokens stops as soon as the weighted value
// reaches totalDebtUSD * minHealthFactor. Non quoted tokens at or below the
// dust balance are dropped from the returned enabled mask.
func (m *Manager) calcDebtAndCollateral(
	ctx context.Context,
	acc *core.CreditAccount,
	container core.ICreditAccount,
	task core.CalcTask,
	hints []core.Mask,
	minHealthFactor uint16,
) (*core.CollateralDebtData, error) {
	m.mux.RLock()
	params := m.params
	oracle := m.oracle
	m.mux.RUnlock()

	cdd := core.NewCollateralDebtData()
	cdd.Underlying = m.underlying
	cdd.Debt = acc.Debt.Clone()
	cdd.CumulativeIndexLastUpdate = acc.CumulativeIndexLastUpdate.Clone()
	cdd.CumulativeQuotaInterest = acc.CumulativeQuotaInterest.Clone()
	cdd.QuotaFees = acc.QuotaFees.Clone()
	cdd.EnabledTokensMask = acc.EnabledTokensMask

	index, err := m.pool.BaseInterestIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("pool base interest index: %w", err)
	}
	cdd.CumulativeIndexNow = index

	if task == core.CalcGenericParams {
		return cdd, nil
	}

	now := m.blocks.Now(ctx)
	cdd.QuotedTokensMask = params.QuotedTokensMask
	quoted, err := m.quotedCollateral(ctx, acc.Address, cdd, now)
	if err != nil {
		return nil, err
	}

	baseInterest, err := credit.CalcAccruedInterest(cdd.Debt, cdd.CumulativeIndexLastUpdate, cdd.CumulativeIndexNow)
	if err != nil {
		return nil, err
	}

	if cdd.AccruedInterest, err = credit.Add(baseInterest, cdd.CumulativeQuotaInterest); err != nil {
		return nil, err
	}

	cdd.AccruedFees, err = credit.CalcAccruedFees(baseInterest, cdd.CumulativeQuotaInterest, cdd.QuotaFees, params.FeeInterest)
	if err != nil {
		return nil, err
	}

	if task == core.CalcDebtOnly {
		return cdd, nil
	}

	if cdd.TotalDebtUSD, err = oracle.ValueOf(ctx, m.underlying, cdd.TotalDebt()); err != nil {
		return nil, fmt.Errorf("oracle value of debt: %w", err)
	}

	lazy := task == core.CalcFullCollateralCheckLazy
	if lazy && cdd.TotalDebtUSD.IsZero() {
		return cdd, nil
	}

	target := maxUint256
	if lazy {
		if target, err = credit.PercentMul(cdd.TotalDebtUSD, minHealthFactor); err != nil {
			return nil, err
		}
	}

	if err := m.valueQuoted(ctx, oracle, container, quoted, cdd); err != nil {
		return nil, err
	}

	if lazy && !cdd.TwvUSD.Lt(target) {
		return cdd, nil
	}

	disable, err := m.valueNonQuoted(ctx, oracle, container, cdd, hints, target, lazy, now)
	if err != nil {
		return nil, err
	}
	cdd.EnabledTokensMask = cdd.EnabledTokensMask.Disable(disable)

	if task == core.CalcDebtCollateral {
		if cdd.TotalValue, err = oracle.AmountOf(ctx, m.underlying, cdd.TotalValueUSD); err != nil {
			return nil, fmt.Errorf("oracle amount of total value: %w", err)
		}
	}

	return cdd, nil
}

// quotedCollateral folds the outstanding quota interest of every enabled
// quoted token into cdd
func (m *Manager) quotedCollateral(ctx context.Context, account string, cdd *core.CollateralDebtData, now time.Time) ([]quotedCollateral, error) {
	quotedMask := cdd.EnabledTokensMask.And(cdd.QuotedTokensMask)
	if quotedMask.IsZero() {
		return nil, nil
	}

	var quoted []quotedCollateral
	for _, bit := range quotedMask.Bits() {
		token, lt, err := m.CollateralToken(bit, true, now)
		if err != nil {
			return nil, err
		}

		quota, interest, err := m.keeper.GetQuotaAndOutstandingInterest(ctx, account, token)
		if err != nil {
			return nil, fmt.Errorf("quota keeper %s: %w", token, err)
		}

		if cdd.CumulativeQuotaInterest, err = credit.Add(cdd.CumulativeQuotaInterest, interest); err != nil {
			return nil, err
		}

		cdd.QuotedTokens = append(cdd.QuotedTokens, token)
		quoted = append(quoted, quotedCollateral{token: token, lt: lt, quota: quota})
	}

	return quoted, nil
}

// valueQuoted adds quoted tokens, each weighted value capped at its quota
func (m *Manager) valueQuoted(ctx context.Context, oracle core.IPriceOracle, container core.ICreditAccount, quoted []quotedCollateral, cdd *core.CollateralDebtData) error {
	for _, q := range quoted {
		value, weighted, _, err := m.tokenCollateral(ctx, oracle, container, q.token, q.lt)
		if err != nil {
			return err
		}

		quotaUSD, err := oracle.ValueOf(ctx, m.underlying, q.quota)
		if err != nil {
			return fmt.Errorf("oracle value of quota: %w", err)
		}

		if err := accumulate(cdd, value, credit.Min(weighted, quotaUSD)); err != nil {
			return err
		}
	}
	return nil
}

// valueNonQuoted walks the enabled non quoted tokens, hints first, and
// returns the tokens found empty
func (m *Manager) valueNonQuoted(
	ctx context.Context,
	oracle core.IPriceOracle,
	container core.ICreditAccount,
	cdd *core.CollateralDebtData,
	hints []core.Mask,
	target *uint256.Int,
	lazy bool,
	now time.Time,
) (core.Mask, error) {
	remaining := cdd.EnabledTokensMask.Disable(cdd.QuotedTokensMask)

	order := make([]core.Mask, 0, remaining.PopCount())
	for _, hint := range hints {
		if bit := hint.And(remaining); !bit.IsZero() {
			order = append(order, bit)
			remaining = remaining.Disable(bit)
		}
	}
	order = append(order, remaining.Bits()...)

	var disable core.Mask
	for _, bit := range order {
		token, lt, err := m.CollateralToken(bit, true, now)
		if err != nil {
			return disable, err
		}

		value, weighted, nonZero, err := m.tokenCollateral(ctx, oracle, container, token, lt)
		if err != nil {
			return disable, err
		}

		if !nonZero {
			disable = disable.Enable(bit)
			continue
		}

		if err := accumulate(cdd, value, weighted); err != nil {
			return disable, err
		}

		if lazy && !cdd.TwvUSD.Lt(target) {
			break
		}
	}

	return disable, nil
}

// tokenCollateral value of the balance above the dust reserve and its weighted value
func (m *Manager) tokenCollateral(ctx context.Context, oracle core.IPriceOracle, container core.ICreditAccount, token string, lt uint16) (value, weighted *uint256.Int, nonZero bool, err error) {
	balance, err := container.BalanceOf(ctx, token)
	if err != nil {
		return nil, nil, false, fmt.Errorf("balance of %s: %w", token, err)
	}

	if !balance.Gt(dust) {
		return new(uint256.Int), new(uint256.Int), false, nil
	}

	value, err = oracle.ValueOf(ctx, token, new(uint256.Int).Sub(balance, dust))
	if err != nil {
		return nil, nil, false, fmt.Errorf("oracle value of %s: %w", token, err)
	}

	if weighted, err = credit.PercentMul(value, lt); err != nil {
		return nil, nil, false, err
	}
	return value, weighted, true, nil
}

func accumulate(cdd *core.CollateralDebtData, value, weighted *uint256.Int) error {
	var err error
	if cdd.TotalValueUSD, err = credit.Add(cdd.TotalValueUSD, value); err != nil {
		return err
	}
	cdd.TwvUSD, err = credit.Add(cdd.TwvUSD, weighted)
	return err
}

// CalcDebtAndCollateral measures an open account without changing it
func (m *Manager) CalcDebtAndCollateral(ctx context.Context, account string, task core.CalcTask) (*core.CollateralDebtData, error) {
	acc, container, err := m.load(account)
	if err != nil {
		return nil, err
	}

	if task == core.CalcFullCollateralCheckLazy {
		return m.calcDebtAndCollateral(ctx, acc, container, task, nil, core.PercentageFactor)
	}
	return m.calcDebtAndCollateral(ctx, acc, container, task, nil, 0)
}

// IsLiquidatable reports whether the weighted value of account is below
// its total debt scaled by minHealthFactor
func (m *Manager) IsLiquidatable(ctx context.Context, account string, minHealthFactor uint16) (bool, error) {
	acc, container, err := m.load(account)
	if err != nil {
		return false, err
	}

	cdd, err := m.calcDebtAndCollateral(ctx, acc, container, core.CalcFullCollateralCheckLazy, nil, minHealthFactor)
	if err != nil {
		return false, err
	}

	target, err := credit.PercentMul(cdd.TotalDebtUSD, minHealthFactor)
	if err != nil {
		return false, err
	}
	return cdd.TwvUSD.Lt(target), nil
}

// FullCollateralCheck fails with ErrNotEnoughCollateral unless the weighted
// value covers the total debt times minHealthFactor, then saves the
// narrowed enabled mask
func (m *Manager) FullCollateralCheck(ctx context.Context, caller, account string, hints []core.Mask, minHealthFactor uint16) error {
	if err := m.guard.enter(); err != nil {
		return err
	}
	defer m.guard.leave()

	if err := m.requireFacade(caller); err != nil {
		return err
	}

	if minHealthFactor < core.PercentageFactor {
		return core.ErrCustomHealthFactorTooLow
	}

	for _, hint := range hints {
		if !hint.IsSingleBit() {
			return core.ErrInvalidCollateralHint
		}
	}

	acc, container, err := m.load(account)
	if err != nil {
		return err
	}

	cdd, err := m.calcDebtAndCollateral(ctx, acc, container, core.CalcFullCollateralCheckLazy, hints, minHealthFactor)
	if err != nil {
		return err
	}

	target, err := credit.PercentMul(cdd.TotalDebtUSD, minHealthFactor)
	if err != nil {
		return err
	}

	if cdd.TwvUSD.Lt(target) {
		logger.FromContext(ctx).WithField("account", account).
			WithField("twv_usd", cdd.TwvUSD.Dec()).
			WithField("target_usd", target.Dec()).
			Debugln("full collateral check failed")
		return core.ErrNotEnoughCollateral
	}

	if err := m.checkEnabledTokens(cdd.EnabledTokensMask); err != nil {
		return err
	}

	if cdd.EnabledTokensMask == acc.EnabledTokensMask {
		return nil
	}

	acc.EnabledTokensMask = cdd.EnabledTokensMask
	return m.save(ctx, acc, container)
}

func (m *Manager) checkEnabledTokens(mask core.Mask) error {
	m.mux.RLock()
	defer m.mux.RUnlock()

	if mask.PopCount() > m.params.MaxEnabledTokens {
		return core.ErrTooManyEnabledTokens
	}
	return nil
}

// AddCollateral pulls amount of token from payer into the account and
// enables the token unless it is quoted
func (m *Manager) AddCollateral(ctx context.Context, caller, payer, account, token string, amount *uint256.Int) (core.Mask, error) {
	if err := m.guard.enter(); err != nil {
		return core.Mask{}, err
	}
	defer m.guard.leave()

	if err := m.requireFacade(caller); err != nil {
		return core.Mask{}, err
	}

	mask, err := m.TokenMask(token)
	if err != nil {
		return core.Mask{}, err
	}

	acc, container, err := m.load(account)
	if err != nil {
		return core.Mask{}, err
	}

	if err := m.bank.TransferFrom(ctx, token, payer, account, amount); err != nil {
		return core.Mask{}, fmt.Errorf("transfer %s from %s: %w", token, payer, err)
	}

	if m.Params().QuotedTokensMask.Has(mask) || acc.EnabledTokensMask.Has(mask) {
		return acc.EnabledTokensMask, nil
	}

	acc.EnabledTokensMask = acc.EnabledTokensMask.Enable(mask)
	if err := m.save(ctx, acc, container); err != nil {
		return core.Mask{}, err
	}
	return acc.EnabledTokensMask, nil
}

// WithdrawCollateral sends amount of token from the account to to and
// disables the token once only dust is left
func (m *Manager) WithdrawCollateral(ctx context.Context, caller, account, token, to string, amount *uint256.Int) (core.Mask, error) {
	if err := m.guard.enter(); err != nil {
		return core.Mask{}, err
	}
	defer m.guard.leave()

	if err := m.requireFacade(caller); err != nil {
		return core.Mask{}, err
	}

	mask, err := m.TokenMask(token)
	if err != nil {
		return core.Mask{}, err
	}

	acc, container, err := m.load(account)
	if err != nil {
		return core.Mask{}, err
	}

	balance, err := container.BalanceOf(ctx, token)
	if err != nil {
		return core.Mask{}, fmt.Errorf("balance of %s: %w", token, err)
	}

	if balance.Lt(amount) {
		return core.Mask{}, fmt.Errorf("withdraw %s %s: %w", amount.Dec(), token, core.ErrInsufficientBalance)
	}

	left := new(uint256.Int).Sub(balance, amount)
	if left.Gt(dust) || m.Params().QuotedTokensMask.Has(mask) || !acc.EnabledTokensMask.Has(mask) {
		if err := container.Transfer(ctx, token, to, amount); err != nil {
			return core.Mask{}, fmt.Errorf("transfer %s to %s: %w", token, to, err)
		}
		return acc.EnabledTokensMask, nil
	}

	prev := acc.Clone()
	acc.EnabledTokensMask = acc.EnabledTokensMask.Disable(mask)
	if err := m.save(ctx, acc, container); err != nil {
		return core.Mask{}, err
	}

	if err := container.Transfer(ctx, token, to, amount); err != nil {
		m.rollback(ctx, prev, acc, container)
		return core.Mask{}, fmt.Errorf("transfer %s to %s: %w", token, to, err)
	}
	return acc.EnabledTokensMask, nil
}

// transferAll sends every token of mask, less the dust reserve, to to
func (m *Manager) transferAll(ctx context.Context, container core.ICreditAccount, mask core.Mask, to string) error {
	for _, token := range m.tokensOf(mask) {
		balance, err := container.BalanceOf(ctx, token)
		if err != nil {
			return fmt.Errorf("balance of %s: %w", token, err)
		}

		if !balance.Gt(dust) {
			continue
		}

		if err := container.Transfer(ctx, token, to, new(uint256.Int).Sub(balance, dust)); err != nil {
			return fmt.Errorf("transfer %s to %s: %w", token, to, err)
		}
	}
	return nil
}

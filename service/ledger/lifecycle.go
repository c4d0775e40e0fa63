package ledger

import (
	"context"
	"creditmanager/core"
	"creditmanager/pkg/credit"
	"errors"
	"fmt"

	"github.com/fox-one/pkg/logger"
	"github.com/holiman/uint256"
)

// OpenAccount takes a container from the factory, records the new account
// with only the underlying enabled and lends debt to it
func (m *Manager) OpenAccount(ctx context.Context, caller, borrower string, debt *uint256.Int) (string, error) {
	if err := m.guard.enter(); err != nil {
		return "", err
	}
	defer m.guard.leave()

	if err := m.requireFacade(caller); err != nil {
		return "", err
	}

	if borrower == "" {
		return "", core.ErrZeroAddress
	}

	if debt == nil {
		debt = new(uint256.Int)
	}

	block, err := m.blocks.CurrentBlock(ctx)
	if err != nil {
		return "", fmt.Errorf("current block: %w", err)
	}

	index, err := m.pool.BaseInterestIndex(ctx)
	if err != nil {
		return "", fmt.Errorf("pool base interest index: %w", err)
	}

	container, err := m.factory.TakeAccount(ctx, block)
	if err != nil {
		return "", fmt.Errorf("take account: %w", err)
	}

	acc := core.NewCreditAccount(container.Address(), borrower)
	acc.Debt = debt.Clone()
	acc.CumulativeIndexLastUpdate = index
	acc.EnabledTokensMask = core.UnderlyingMask
	acc.OpenBlock = block
	acc.LastDebtUpdate = block

	if err := m.save(ctx, acc, container); err != nil {
		m.release(ctx, acc.Address)
		return "", err
	}

	if !debt.IsZero() {
		if err := m.pool.LendCreditAccount(ctx, debt, acc.Address); err != nil {
			if err := m.retire(ctx, acc.Address); err != nil {
				logger.FromContext(ctx).WithError(err).WithField("account", acc.Address).Errorln("retire unfunded account")
			}
			return "", fmt.Errorf("pool lend: %w", err)
		}
	}

	logger.FromContext(ctx).WithField("account", acc.Address).
		WithField("borrower", borrower).
		WithField("debt", debt.Dec()).
		Infoln("credit account opened")

	return acc.Address, nil
}

// CloseAccount closes a fully repaid account and sends its balances to
// req.To. Quotas on every quoted token are dropped so a recycled container
// starts clean.
func (m *Manager) CloseAccount(ctx context.Context, caller string, req *core.CloseRequest) error {
	if err := m.guard.enter(); err != nil {
		return err
	}
	defer m.guard.leave()

	if err := m.requireFacade(caller); err != nil {
		return err
	}

	acc, container, err := m.load(req.Account)
	if err != nil {
		return err
	}

	if !acc.Debt.IsZero() {
		return core.ErrCloseAccountWithNonZeroDebt
	}

	if quoted := m.tokensOf(m.Params().QuotedTokensMask); len(quoted) > 0 {
		if err := m.keeper.RemoveQuotas(ctx, acc.Address, quoted, false); err != nil {
			return fmt.Errorf("quota keeper remove: %w", err)
		}
	}

	if err := m.remove(ctx, acc.Address); err != nil {
		return err
	}

	if err := m.transferAll(ctx, container, acc.EnabledTokensMask.Disable(req.SkipTokensMask), req.To); err != nil {
		m.restore(ctx, acc, container)
		return err
	}

	m.release(ctx, acc.Address)

	logger.FromContext(ctx).WithField("account", acc.Address).Infoln("credit account closed")
	return nil
}

// LiquidateAccount settles an unhealthy or expired account: the pool is
// repaid from the underlying balance, leftover funds go to the borrower and
// every other balance goes to req.To. Payouts start only after the keeper
// and the store accepted the closure.
func (m *Manager) LiquidateAccount(ctx context.Context, caller string, req *core.LiquidateRequest) (*core.ClosurePayments, error) {
	if err := m.guard.enter(); err != nil {
		return nil, err
	}
	defer m.guard.leave()

	if err := m.requireFacade(caller); err != nil {
		return nil, err
	}

	acc, container, err := m.load(req.Account)
	if err != nil {
		return nil, err
	}

	cdd, err := m.calcDebtAndCollateral(ctx, acc, container, core.CalcDebtCollateral, nil, 0)
	if err != nil {
		return nil, err
	}

	params := m.Params()
	lp := credit.LiquidationParams{
		Debt:            cdd.Debt,
		AccruedInterest: cdd.AccruedInterest,
		AccruedFees:     cdd.AccruedFees,
		TotalValue:      cdd.TotalValue,
	}

	switch req.Kind {
	case core.LiquidationNormal:
		if !cdd.IsLiquidatable() {
			return nil, core.ErrNotLiquidatable
		}
		lp.LiquidationDiscount = params.LiquidationDiscount
		lp.FeeLiquidation = params.FeeLiquidation
	case core.LiquidationExpired:
		if !params.Expirable() || m.blocks.Now(ctx).Unix() <= params.ExpirationDate {
			return nil, core.ErrNotLiquidatable
		}
		lp.LiquidationDiscount = params.LiquidationDiscountExpired
		lp.FeeLiquidation = params.FeeLiquidationExpired
	default:
		return nil, core.ErrIncorrectParameter
	}

	payments, err := credit.CalcLiquidationPayments(lp)
	if err != nil {
		return nil, err
	}

	if err := m.cover(ctx, container, payments, req.Payer); err != nil {
		return nil, err
	}

	if len(cdd.QuotedTokens) > 0 {
		if err := m.keeper.RemoveQuotas(ctx, acc.Address, cdd.QuotedTokens, !payments.Loss.IsZero()); err != nil {
			return nil, fmt.Errorf("quota keeper remove: %w", err)
		}
	}

	if err := m.remove(ctx, acc.Address); err != nil {
		return nil, err
	}

	if err := m.settle(ctx, acc, container, payments); err != nil {
		return nil, err
	}

	if err := m.transferAll(ctx, container, acc.EnabledTokensMask.Disable(req.SkipTokensMask), req.To); err != nil {
		logger.FromContext(ctx).WithError(err).WithField("account", acc.Address).Errorln("transfer collateral to liquidator")
		return nil, err
	}

	m.release(ctx, acc.Address)

	log := logger.FromContext(ctx).WithField("account", acc.Address).
		WithField("kind", req.Kind.String()).
		WithField("amount_to_pool", payments.AmountToPool.Dec()).
		WithField("remaining_funds", payments.RemainingFunds.Dec())
	if !payments.Loss.IsZero() {
		log.WithField("loss", payments.Loss.Dec()).Warnln("credit account liquidated with loss")
	} else {
		log.WithField("profit", payments.Profit.Dec()).Infoln("credit account liquidated")
	}

	return payments, nil
}

// cover makes sure the underlying balance pays the pool and the borrower,
// pulling any shortfall from payer
func (m *Manager) cover(ctx context.Context, container core.ICreditAccount, payments *core.ClosurePayments, payer string) error {
	owed, err := credit.Add(payments.AmountToPool, payments.RemainingFunds)
	if err != nil {
		return err
	}

	if err := m.fund(ctx, container, owed, payer); err != nil && !errors.Is(err, core.ErrInsufficientBalance) {
		return err
	}

	balance, err := container.BalanceOf(ctx, m.underlying)
	if err != nil {
		return fmt.Errorf("balance of underlying: %w", err)
	}

	need, err := credit.Add(owed, dust)
	if err != nil {
		return err
	}

	if balance.Lt(need) {
		return core.ErrInsufficientRemainingFunds
	}
	return nil
}

// settle pays the pool and the borrower of a removed account. The record is
// restored when the pool transfer fails since nothing has moved yet; later
// failures leave the container out of the factory for manual recovery.
func (m *Manager) settle(ctx context.Context, acc *core.CreditAccount, container core.ICreditAccount, payments *core.ClosurePayments) error {
	if !payments.AmountToPool.IsZero() {
		if err := container.Transfer(ctx, m.underlying, m.pool.Address(), payments.AmountToPool); err != nil {
			m.restore(ctx, acc, container)
			return fmt.Errorf("transfer to pool: %w", err)
		}
	}

	log := logger.FromContext(ctx).WithField("account", acc.Address)
	if err := m.pool.RepayCreditAccount(ctx, acc.Debt, payments.Profit, payments.Loss); err != nil {
		log.WithError(err).Errorln("pool.RepayCreditAccount")
		return fmt.Errorf("pool repay: %w", err)
	}

	if !payments.RemainingFunds.IsZero() {
		if err := container.Transfer(ctx, m.underlying, acc.Borrower, payments.RemainingFunds); err != nil {
			log.WithError(err).Errorln("transfer remaining funds")
			return fmt.Errorf("transfer remaining funds: %w", err)
		}
	}

	return nil
}

// retire drops the record and returns the container to the factory
func (m *Manager) retire(ctx context.Context, address string) error {
	if err := m.remove(ctx, address); err != nil {
		return err
	}

	m.release(ctx, address)
	return nil
}

func (m *Manager) release(ctx context.Context, address string) {
	if err := m.factory.ReturnAccount(ctx, address); err != nil {
		logger.FromContext(ctx).WithError(err).WithField("account", address).Errorln("factory.ReturnAccount")
	}
}

// SetFlagFor sets or clears flag on an account
func (m *Manager) SetFlagFor(ctx context.Context, caller, account string, flag uint16, value bool) error {
	if err := m.guard.enter(); err != nil {
		return err
	}
	defer m.guard.leave()

	if err := m.requireFacade(caller); err != nil {
		return err
	}

	acc, container, err := m.load(account)
	if err != nil {
		return err
	}

	if value {
		acc.Flags |= flag
	} else {
		acc.Flags &^= flag
	}
	return m.save(ctx, acc, container)
}

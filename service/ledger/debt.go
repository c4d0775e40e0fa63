package ledger

import (
	"context"
	"creditmanager/core"
	"creditmanager/pkg/credit"
	"fmt"

	"github.com/fox-one/pkg/logger"
	"github.com/holiman/uint256"
)

// ManageDebt borrows from or repays to the pool. Debt may change at most
// once per block. A repayment at or above the total debt closes out all
// interest and fees.
func (m *Manager) ManageDebt(ctx context.Context, caller string, change *core.DebtChange) (*core.DebtChangeResult, error) {
	if err := m.guard.enter(); err != nil {
		return nil, err
	}
	defer m.guard.leave()

	if err := m.requireFacade(caller); err != nil {
		return nil, err
	}

	if change.Amount == nil || change.Amount.IsZero() {
		return nil, core.ErrIncorrectParameter
	}

	acc, container, err := m.load(change.Account)
	if err != nil {
		return nil, err
	}

	block, err := m.blocks.CurrentBlock(ctx)
	if err != nil {
		return nil, fmt.Errorf("current block: %w", err)
	}

	if acc.LastDebtUpdate == block {
		return nil, core.ErrDebtUpdatedTwiceInOneBlock
	}

	switch change.Action {
	case core.IncreaseDebt:
		err = m.increaseDebt(ctx, acc, container, change.Amount, block)
	case core.DecreaseDebt:
		err = m.decreaseDebt(ctx, acc, container, change.Amount, change.Payer, block)
	default:
		err = core.ErrIncorrectParameter
	}
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).WithField("account", acc.Address).
		WithField("action", change.Action.String()).
		WithField("amount", change.Amount.Dec()).
		WithField("debt", acc.Debt.Dec()).
		Debugln("debt updated")

	return &core.DebtChangeResult{
		NewDebt:           acc.Debt.Clone(),
		EnabledTokensMask: acc.EnabledTokensMask,
	}, nil
}

// increaseDebt records the new debt, then lends; a failed lend restores the
// previous record
func (m *Manager) increaseDebt(ctx context.Context, acc *core.CreditAccount, container core.ICreditAccount, amount *uint256.Int, block int64) error {
	cdd, err := m.calcDebtAndCollateral(ctx, acc, container, core.CalcGenericParams, nil, 0)
	if err != nil {
		return err
	}

	newDebt, newIndex, err := credit.CalcIncrease(amount, acc.Debt, cdd.CumulativeIndexNow, acc.CumulativeIndexLastUpdate)
	if err != nil {
		return err
	}

	prev := acc.Clone()
	acc.Debt = newDebt
	acc.CumulativeIndexLastUpdate = newIndex
	acc.EnabledTokensMask = acc.EnabledTokensMask.Enable(core.UnderlyingMask)
	acc.LastDebtUpdate = block
	if err := m.save(ctx, acc, container); err != nil {
		return err
	}

	if err := m.pool.LendCreditAccount(ctx, amount, acc.Address); err != nil {
		m.rollback(ctx, prev, acc, container)
		return fmt.Errorf("pool lend: %w", err)
	}
	return nil
}

// decreaseDebt funds the repayment, settles quota interest with the keeper,
// records the new debt and only then pays the pool. A full repayment removes
// every quota of the account.
func (m *Manager) decreaseDebt(ctx context.Context, acc *core.CreditAccount, container core.ICreditAccount, amount *uint256.Int, payer string, block int64) error {
	cdd, err := m.calcDebtAndCollateral(ctx, acc, container, core.CalcDebtOnly, nil, 0)
	if err != nil {
		return err
	}

	maxRepayment := cdd.TotalDebt()
	full := !amount.Lt(maxRepayment)
	if full {
		amount = maxRepayment
	}

	var res *credit.DecreaseResult
	if full {
		payments, err := credit.CalcClosePayments(cdd.Debt, cdd.AccruedInterest, cdd.AccruedFees)
		if err != nil {
			return err
		}

		res = &credit.DecreaseResult{
			NewDebt:                    new(uint256.Int),
			NewCumulativeIndex:         cdd.CumulativeIndexNow.Clone(),
			Profit:                     payments.Profit,
			NewCumulativeQuotaInterest: new(uint256.Int),
			NewQuotaFees:               new(uint256.Int),
		}
	} else {
		res, err = credit.CalcDecrease(credit.DecreaseParams{
			Amount:                    amount,
			Debt:                      cdd.Debt,
			CumulativeIndexNow:        cdd.CumulativeIndexNow,
			CumulativeIndexLastUpdate: cdd.CumulativeIndexLastUpdate,
			CumulativeQuotaInterest:   cdd.CumulativeQuotaInterest,
			QuotaFees:                 cdd.QuotaFees,
			FeeInterest:               m.Params().FeeInterest,
		})
		if err != nil {
			return err
		}
	}

	if err := m.fund(ctx, container, amount, payer); err != nil {
		return err
	}

	if len(cdd.QuotedTokens) > 0 {
		if full {
			err = m.keeper.RemoveQuotas(ctx, acc.Address, cdd.QuotedTokens, false)
		} else {
			err = m.keeper.AccrueQuotaInterest(ctx, acc.Address, cdd.QuotedTokens)
		}
		if err != nil {
			return fmt.Errorf("quota keeper: %w", err)
		}
	}

	prev := acc.Clone()
	repaid := credit.SubFloor(acc.Debt, res.NewDebt)

	acc.Debt = res.NewDebt
	acc.CumulativeIndexLastUpdate = res.NewCumulativeIndex
	acc.CumulativeQuotaInterest = res.NewCumulativeQuotaInterest
	acc.QuotaFees = res.NewQuotaFees
	acc.LastDebtUpdate = block
	if acc.Debt.IsZero() {
		acc.EnabledTokensMask = acc.EnabledTokensMask.Disable(cdd.QuotedTokensMask)
	}

	if err := m.save(ctx, acc, container); err != nil {
		return err
	}

	if err := container.Transfer(ctx, m.underlying, m.pool.Address(), amount); err != nil {
		m.rollback(ctx, prev, acc, container)
		return fmt.Errorf("transfer to pool: %w", err)
	}

	if err := m.pool.RepayCreditAccount(ctx, repaid, res.Profit, new(uint256.Int)); err != nil {
		logger.FromContext(ctx).WithError(err).WithField("account", acc.Address).Errorln("pool.RepayCreditAccount")
		return fmt.Errorf("pool repay: %w", err)
	}
	return nil
}

// fund pulls from payer whatever the account lacks to pay amount of the
// underlying while keeping its dust reserve
func (m *Manager) fund(ctx context.Context, container core.ICreditAccount, amount *uint256.Int, payer string) error {
	balance, err := container.BalanceOf(ctx, m.underlying)
	if err != nil {
		return fmt.Errorf("balance of underlying: %w", err)
	}

	need, err := credit.Add(amount, dust)
	if err != nil {
		return err
	}

	if !balance.Lt(need) {
		return nil
	}

	if payer == "" {
		if balance.Lt(amount) {
			return core.ErrInsufficientBalance
		}
		return nil
	}

	shortfall := new(uint256.Int).Sub(need, balance)
	if err := m.bank.TransferFrom(ctx, m.underlying, payer, container.Address(), shortfall); err != nil {
		return fmt.Errorf("transfer shortfall from %s: %w", payer, err)
	}
	return nil
}

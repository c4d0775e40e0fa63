package ledger

import (
	"context"
	"creditmanager/core"
	"creditmanager/pkg/credit"
	"fmt"
	"math/big"

	"github.com/fox-one/pkg/logger"
	"github.com/holiman/uint256"
)

// UpdateQuota changes the quota of a quoted token through the keeper and
// folds the realized interest and fees into the account
func (m *Manager) UpdateQuota(ctx context.Context, caller, account, token string, change *big.Int, minQuota, maxQuota *uint256.Int) (*core.QuotaUpdate, error) {
	if err := m.guard.enter(); err != nil {
		return nil, err
	}
	defer m.guard.leave()

	if err := m.requireFacade(caller); err != nil {
		return nil, err
	}

	if change == nil || minQuota == nil || maxQuota == nil || minQuota.Gt(maxQuota) {
		return nil, core.ErrIncorrectParameter
	}

	mask, err := m.TokenMask(token)
	if err != nil {
		return nil, err
	}

	if !m.Params().QuotedTokensMask.Has(mask) {
		return nil, core.ErrTokenIsNotQuoted
	}

	acc, container, err := m.load(account)
	if err != nil {
		return nil, err
	}

	if change.Sign() > 0 && acc.Debt.IsZero() {
		return nil, core.ErrIncreaseQuotaOnZeroDebt
	}

	update, err := m.keeper.UpdateQuota(ctx, account, token, change, minQuota, maxQuota)
	if err != nil {
		return nil, fmt.Errorf("quota keeper update %s: %w", token, err)
	}

	if update.Enabled() {
		acc.EnabledTokensMask = acc.EnabledTokensMask.Enable(mask)
	} else if update.Disabled() {
		acc.EnabledTokensMask = acc.EnabledTokensMask.Disable(mask)
	}

	if acc.CumulativeQuotaInterest, err = credit.Add(acc.CumulativeQuotaInterest, update.InterestDelta); err != nil {
		return nil, err
	}

	if acc.QuotaFees, err = credit.Add(acc.QuotaFees, update.Fees); err != nil {
		return nil, err
	}

	if err := m.save(ctx, acc, container); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).WithField("account", account).
		WithField("token", token).
		WithField("change", update.Change.String()).
		WithField("quota", update.Quota.Dec()).
		Debugln("quota updated")

	return update, nil
}

package memory

import (
	"context"
	"creditmanager/core"
	"creditmanager/pkg/credit"
	"math/big"
	"sync"

	"github.com/holiman/uint256"
)

type quotaToken struct {
	index  *uint256.Int
	limit  *uint256.Int
	total  *uint256.Int
	feeBps uint16
}

type accountQuota struct {
	quota   *uint256.Int
	indexLU *uint256.Int
}

// QuotaKeeper in memory quota keeper; outstanding interest of a quota is
// quota * (tokenIndex - indexAtLastAccrual) / RAY
type QuotaKeeper struct {
	mux    sync.Mutex
	tokens map[string]*quotaToken
	quotas map[string]*accountQuota
}

// NewQuotaKeeper new empty keeper
func NewQuotaKeeper() *QuotaKeeper {
	return &QuotaKeeper{
		tokens: make(map[string]*quotaToken),
		quotas: make(map[string]*accountQuota),
	}
}

// AddToken makes token quotable with a total limit and a one time fee on increases
func (k *QuotaKeeper) AddToken(token string, limit *uint256.Int, feeBps uint16) {
	k.mux.Lock()
	defer k.mux.Unlock()

	k.tokens[token] = &quotaToken{
		index:  new(uint256.Int),
		limit:  limit.Clone(),
		total:  new(uint256.Int),
		feeBps: feeBps,
	}
}

// SetIndex moves the cumulative quota index of token, RAY scaled
func (k *QuotaKeeper) SetIndex(token string, index *uint256.Int) {
	k.mux.Lock()
	defer k.mux.Unlock()

	if t, ok := k.tokens[token]; ok {
		t.index = index.Clone()
	}
}

// Limit current total limit of token
func (k *QuotaKeeper) Limit(token string) *uint256.Int {
	k.mux.Lock()
	defer k.mux.Unlock()

	if t, ok := k.tokens[token]; ok {
		return t.limit.Clone()
	}
	return new(uint256.Int)
}

// GetQuotaAndOutstandingInterest implements core.IQuotaKeeper
func (k *QuotaKeeper) GetQuotaAndOutstandingInterest(ctx context.Context, account, token string) (*uint256.Int, *uint256.Int, error) {
	k.mux.Lock()
	defer k.mux.Unlock()

	t, ok := k.tokens[token]
	if !ok {
		return nil, nil, core.ErrTokenIsNotQuoted
	}

	q := k.quota(account, token, t)
	interest, err := k.outstanding(q, t)
	if err != nil {
		return nil, nil, err
	}
	return q.quota.Clone(), interest, nil
}

// UpdateQuota implements core.IQuotaKeeper
func (k *QuotaKeeper) UpdateQuota(ctx context.Context, account, token string, change *big.Int, minQuota, maxQuota *uint256.Int) (*core.QuotaUpdate, error) {
	k.mux.Lock()
	defer k.mux.Unlock()

	t, ok := k.tokens[token]
	if !ok {
		return nil, core.ErrTokenIsNotQuoted
	}

	q := k.quota(account, token, t)
	interest, err := k.outstanding(q, t)
	if err != nil {
		return nil, err
	}

	update := &core.QuotaUpdate{
		Change:        new(big.Int),
		PrevQuota:     q.quota.Clone(),
		InterestDelta: interest,
		Fees:          new(uint256.Int),
	}

	abs, overflow := uint256.FromBig(new(big.Int).Abs(change))
	if overflow {
		return nil, core.ErrArithmeticOverflow
	}

	quota, total := q.quota.Clone(), t.total.Clone()
	switch change.Sign() {
	case 1:
		realized := credit.Min(abs, credit.SubFloor(t.limit, t.total))
		if update.Fees, err = credit.PercentMul(realized, t.feeBps); err != nil {
			return nil, err
		}

		quota.Add(quota, realized)
		total.Add(total, realized)
		update.Change.Set(realized.ToBig())
	case -1:
		realized := credit.Min(abs, quota)

		quota.Sub(quota, realized)
		total = credit.SubFloor(total, realized)
		update.Change.Neg(realized.ToBig())
	}

	if quota.Lt(minQuota) || quota.Gt(maxQuota) {
		return nil, core.ErrIncorrectParameter
	}

	q.quota, q.indexLU, t.total = quota, t.index.Clone(), total
	update.Quota = quota.Clone()
	return update, nil
}

// AccrueQuotaInterest implements core.IQuotaKeeper
func (k *QuotaKeeper) AccrueQuotaInterest(ctx context.Context, account string, tokens []string) error {
	k.mux.Lock()
	defer k.mux.Unlock()

	for _, token := range tokens {
		t, ok := k.tokens[token]
		if !ok {
			return core.ErrTokenIsNotQuoted
		}
		k.quota(account, token, t).indexLU = t.index.Clone()
	}
	return nil
}

// RemoveQuotas implements core.IQuotaKeeper
func (k *QuotaKeeper) RemoveQuotas(ctx context.Context, account string, tokens []string, setLimitsToZero bool) error {
	k.mux.Lock()
	defer k.mux.Unlock()

	for _, token := range tokens {
		t, ok := k.tokens[token]
		if !ok {
			return core.ErrTokenIsNotQuoted
		}

		q := k.quota(account, token, t)
		t.total = credit.SubFloor(t.total, q.quota)
		q.quota.Clear()
		q.indexLU = t.index.Clone()

		if setLimitsToZero {
			t.limit.Clear()
		}
	}
	return nil
}

func (k *QuotaKeeper) quota(account, token string, t *quotaToken) *accountQuota {
	key := account + ":" + token
	q, ok := k.quotas[key]
	if !ok {
		q = &accountQuota{quota: new(uint256.Int), indexLU: t.index.Clone()}
		k.quotas[key] = q
	}
	return q
}

func (k *QuotaKeeper) outstanding(q *accountQuota, t *quotaToken) (*uint256.Int, error) {
	if q.quota.IsZero() || !t.index.Gt(q.indexLU) {
		return new(uint256.Int), nil
	}
	return credit.MulDiv(q.quota, new(uint256.Int).Sub(t.index, q.indexLU), credit.RAY)
}

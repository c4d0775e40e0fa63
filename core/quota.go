package core

import (
	"context"
	"math/big"

	"github.com/holiman/uint256"
)

// QuotaUpdate result of a quota change
type QuotaUpdate struct {
	// Change realized change, may be clamped by the keeper
	Change        *big.Int
	PrevQuota     *uint256.Int
	Quota         *uint256.Int
	InterestDelta *uint256.Int
	Fees          *uint256.Int
}

// Enabled quota went from zero to non zero
func (u *QuotaUpdate) Enabled() bool {
	return u.PrevQuota.IsZero() && !u.Quota.IsZero()
}

// Disabled quota went from non zero to zero
func (u *QuotaUpdate) Disabled() bool {
	return !u.PrevQuota.IsZero() && u.Quota.IsZero()
}

// IQuotaKeeper quota keeper interface
type IQuotaKeeper interface {
	GetQuotaAndOutstandingInterest(ctx context.Context, account, token string) (quota, interest *uint256.Int, err error)
	UpdateQuota(ctx context.Context, account, token string, change *big.Int, minQuota, maxQuota *uint256.Int) (*QuotaUpdate, error)
	AccrueQuotaInterest(ctx context.Context, account string, tokens []string) error
	RemoveQuotas(ctx context.Context, account string, tokens []string, setLimitsToZero bool) error
}

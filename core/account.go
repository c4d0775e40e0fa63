package core

import (
	"context"
	"time"

	"github.com/holiman/uint256"
)

// CreditAccount ledger record of one open position
type CreditAccount struct {
	ID                        int64        `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	Address                   string       `sql:"size:64;unique_index:idx_credit_accounts_address" json:"address,omitempty"`
	Borrower                  string       `sql:"size:64;index:idx_credit_accounts_borrower" json:"borrower,omitempty"`
	Debt                      *uint256.Int `sql:"type:varchar(80)" json:"debt,omitempty"`
	CumulativeIndexLastUpdate *uint256.Int `sql:"type:varchar(80)" json:"cumulative_index_last_update,omitempty"`
	CumulativeQuotaInterest   *uint256.Int `sql:"type:varchar(80)" json:"cumulative_quota_interest,omitempty"`
	QuotaFees                 *uint256.Int `sql:"type:varchar(80)" json:"quota_fees,omitempty"`
	EnabledTokensMask         Mask         `sql:"type:varchar(80)" json:"enabled_tokens_mask,omitempty"`
	Flags                     uint16       `sql:"default:0" json:"flags,omitempty"`
	OpenBlock                 int64        `sql:"default:0" json:"open_block,omitempty"`
	LastDebtUpdate            int64        `sql:"default:0" json:"last_debt_update,omitempty"`
	Version                   int64        `sql:"default:0" json:"version,omitempty"`
	CreatedAt                 time.Time    `json:"created_at,omitempty"`
	UpdatedAt                 time.Time    `json:"updated_at,omitempty"`
}

// NewCreditAccount zero valued record
func NewCreditAccount(address, borrower string) *CreditAccount {
	return &CreditAccount{
		Address:                   address,
		Borrower:                  borrower,
		Debt:                      new(uint256.Int),
		CumulativeIndexLastUpdate: new(uint256.Int),
		CumulativeQuotaInterest:   new(uint256.Int),
		QuotaFees:                 new(uint256.Int),
	}
}

// Clone deep copy
func (a *CreditAccount) Clone() *CreditAccount {
	c := *a
	c.Debt = cloneInt(a.Debt)
	c.CumulativeIndexLastUpdate = cloneInt(a.CumulativeIndexLastUpdate)
	c.CumulativeQuotaInterest = cloneInt(a.CumulativeQuotaInterest)
	c.QuotaFees = cloneInt(a.QuotaFees)
	return &c
}

// HasFlag reports whether all bits of flag are set
func (a *CreditAccount) HasFlag(flag uint16) bool {
	return a.Flags&flag == flag
}

func cloneInt(v *uint256.Int) *uint256.Int {
	if v == nil {
		return new(uint256.Int)
	}
	return v.Clone()
}

// IAccountStore credit account store interface
type IAccountStore interface {
	Save(ctx context.Context, account *CreditAccount) error
	Find(ctx context.Context, address string) (*CreditAccount, error)
	Delete(ctx context.Context, address string) error
	All(ctx context.Context) ([]*CreditAccount, error)
	FindByBorrower(ctx context.Context, borrower string) ([]*CreditAccount, error)
}

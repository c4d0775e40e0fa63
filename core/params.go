package core

import (
	"context"
	"time"
)

// FeeParams fee and liquidation premium parameters, in basis points
type FeeParams struct {
	FeeInterest                uint16 `sql:"default:0" json:"fee_interest,omitempty"`
	FeeLiquidation             uint16 `sql:"default:0" json:"fee_liquidation,omitempty"`
	LiquidationDiscount        uint16 `sql:"default:0" json:"liquidation_discount,omitempty"`
	FeeLiquidationExpired      uint16 `sql:"default:0" json:"fee_liquidation_expired,omitempty"`
	LiquidationDiscountExpired uint16 `sql:"default:0" json:"liquidation_discount_expired,omitempty"`
}

// LedgerParams ledger wide parameters, one row per ledger
type LedgerParams struct {
	ID               int64  `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	Ledger           string `sql:"size:64;unique_index:idx_ledger_params_ledger" json:"ledger,omitempty"`
	Underlying       string `sql:"size:64" json:"underlying,omitempty"`
	LTUnderlying     uint16 `sql:"default:0" json:"lt_underlying,omitempty"`
	QuotedTokensMask Mask   `sql:"type:varchar(80)" json:"quoted_tokens_mask,omitempty"`
	MaxEnabledTokens int    `sql:"default:0" json:"max_enabled_tokens,omitempty"`
	ExpirationDate   int64  `sql:"default:0" json:"expiration_date,omitempty"`
	FeeParams
	Version   int64     `sql:"default:0" json:"version,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Expirable reports whether an expiration date is set
func (p *LedgerParams) Expirable() bool {
	return p.ExpirationDate > 0
}

// IParamStore ledger params store interface
type IParamStore interface {
	Save(ctx context.Context, params *LedgerParams) error
	Find(ctx context.Context, ledger string) (*LedgerParams, error)
}

package core

import (
	"context"
	"time"
)

// CollateralToken registered collateral token with its liquidation threshold ramp
type CollateralToken struct {
	ID           int64     `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	Token        string    `sql:"size:64;unique_index:idx_collateral_tokens_token" json:"token,omitempty"`
	Mask         Mask      `sql:"type:varchar(80)" json:"mask,omitempty"`
	LTInitial    uint16    `sql:"default:0" json:"lt_initial,omitempty"`
	LTFinal      uint16    `sql:"default:0" json:"lt_final,omitempty"`
	RampStart    int64     `json:"ramp_start,omitempty"`
	RampDuration uint32    `sql:"default:0" json:"ramp_duration,omitempty"`
	Version      int64     `sql:"default:0" json:"version,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

// ITokenStore collateral token store interface
type ITokenStore interface {
	Save(ctx context.Context, token *CollateralToken) error
	Find(ctx context.Context, token string) (*CollateralToken, error)
	All(ctx context.Context) ([]*CollateralToken, error)
}

package core

import (
	"context"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// IPriceOracle converts token amounts to and from the quote currency
type IPriceOracle interface {
	ValueOf(ctx context.Context, token string, amount *uint256.Int) (*uint256.Int, error)
	AmountOf(ctx context.Context, token string, value *uint256.Int) (*uint256.Int, error)
}

// PriceTicker price ticker
type PriceTicker struct {
	Provider string          `json:"provider,omitempty"`
	Symbol   string          `json:"symbol,omitempty"`
	Price    decimal.Decimal `json:"price,omitempty"`
	Decimals int32           `json:"decimals,omitempty"`
}

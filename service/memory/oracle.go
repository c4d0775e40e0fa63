package memory

import (
	"context"
	"creditmanager/core"
	"creditmanager/pkg/credit"
	"creditmanager/pkg/number"
	"fmt"
	"sync"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// PriceDecimals precision of quote currency values
const PriceDecimals = 8

type price struct {
	price *uint256.Int
	unit  *uint256.Int
}

// Oracle static price oracle; a value is amount * price / 10^decimals with
// the price quoted per whole token at PriceDecimals precision
type Oracle struct {
	mux    sync.RWMutex
	prices map[string]price
}

// NewOracle new oracle without prices
func NewOracle() *Oracle {
	return &Oracle{
		prices: make(map[string]price),
	}
}

// SetPrice sets the price of one whole token
func (o *Oracle) SetPrice(token string, p decimal.Decimal, decimals int32) error {
	raw, err := number.ToRaw(p, PriceDecimals)
	if err != nil {
		return err
	}

	if raw.IsZero() {
		return fmt.Errorf("zero price for %s", token)
	}

	unit, overflow := uint256.FromBig(decimal.New(1, decimals).BigInt())
	if overflow {
		return core.ErrArithmeticOverflow
	}

	o.mux.Lock()
	defer o.mux.Unlock()

	o.prices[token] = price{price: raw, unit: unit}
	return nil
}

func (o *Oracle) get(token string) (price, error) {
	o.mux.RLock()
	defer o.mux.RUnlock()

	p, ok := o.prices[token]
	if !ok {
		return price{}, fmt.Errorf("no price for %s", token)
	}
	return p, nil
}

// ValueOf implements core.IPriceOracle
func (o *Oracle) ValueOf(ctx context.Context, token string, amount *uint256.Int) (*uint256.Int, error) {
	p, err := o.get(token)
	if err != nil {
		return nil, err
	}
	return credit.MulDiv(amount, p.price, p.unit)
}

// AmountOf implements core.IPriceOracle
func (o *Oracle) AmountOf(ctx context.Context, token string, value *uint256.Int) (*uint256.Int, error) {
	p, err := o.get(token)
	if err != nil {
		return nil, err
	}
	return credit.MulDiv(value, p.unit, p.price)
}

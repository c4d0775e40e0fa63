package number

import (
	"creditmanager/core"
	"errors"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

var errNegative = errors.New("number: negative amount")

func Decimal(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

func Ceil(d decimal.Decimal, precision int32) decimal.Decimal {
	return d.Shift(precision).Ceil().Shift(-precision)
}

// ToRaw converts a display amount to raw integer units, truncating below the token precision
func ToRaw(d decimal.Decimal, decimals int32) (*uint256.Int, error) {
	if d.IsNegative() {
		return nil, errNegative
	}

	v, overflow := uint256.FromBig(d.Shift(decimals).Truncate(0).BigInt())
	if overflow {
		return nil, core.ErrArithmeticOverflow
	}
	return v, nil
}

// FromRaw converts raw integer units to a display amount
func FromRaw(v *uint256.Int, decimals int32) decimal.Decimal {
	return decimal.NewFromBigInt(v.ToBig(), -decimals)
}

// Bps basis points as a fraction, 8000 => 0.8
func Bps(bps uint16) decimal.Decimal {
	return decimal.New(int64(bps), -4)
}

// ToBps fraction to basis points, rounded down
func ToBps(d decimal.Decimal) uint16 {
	if d.IsNegative() {
		return 0
	}

	bps := d.Shift(4).Truncate(0)
	if bps.GreaterThan(decimal.NewFromInt(core.PercentageFactor)) {
		return core.PercentageFactor
	}
	return uint16(bps.IntPart())
}

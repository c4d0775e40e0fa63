package credit

import (
	"creditmanager/core"
	"math/big"

	"github.com/holiman/uint256"
)

// RAY cumulative index scale, 1e27
var RAY = uint256.MustFromDecimal("1000000000000000000000000000")

// IndexPrecision extra precision of the index solved by CalcIncrease and CalcDecrease
var IndexPrecision = uint256.NewInt(1_000_000_000)

var (
	percentageFactor  = uint256.NewInt(core.PercentageFactor)
	bigIndexPrecision = IndexPrecision.ToBig()
)

// MulDiv x*y/d with a 512 bit intermediate
func MulDiv(x, y, d *uint256.Int) (*uint256.Int, error) {
	if d.IsZero() {
		return nil, core.ErrIncorrectParameter
	}

	z, overflow := new(uint256.Int).MulDivOverflow(x, y, d)
	if overflow {
		return nil, core.ErrArithmeticOverflow
	}

	return z, nil
}

// PercentMul x*bps/10000
func PercentMul(x *uint256.Int, bps uint16) (*uint256.Int, error) {
	return MulDiv(x, uint256.NewInt(uint64(bps)), percentageFactor)
}

// Add x+y, overflow checked
func Add(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(x, y)
	if overflow {
		return nil, core.ErrArithmeticOverflow
	}
	return z, nil
}

// SubFloor x-y, zero when y > x
func SubFloor(x, y *uint256.Int) *uint256.Int {
	if y.Gt(x) {
		return new(uint256.Int)
	}
	return new(uint256.Int).Sub(x, y)
}

// Min smaller of x and y
func Min(x, y *uint256.Int) *uint256.Int {
	if x.Lt(y) {
		return x.Clone()
	}
	return y.Clone()
}

func fromBig(v *big.Int) (*uint256.Int, error) {
	if v.Sign() < 0 {
		return nil, core.ErrArithmeticOverflow
	}

	z, overflow := uint256.FromBig(v)
	if overflow {
		return nil, core.ErrArithmeticOverflow
	}
	return z, nil
}

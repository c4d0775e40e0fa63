package core

import (
	"database/sql/driver"
	"math/bits"

	"github.com/holiman/uint256"
)

// MaxTokens is the size of the token mask space, the underlying included
const MaxTokens = 255

// Mask token bit set, one bit per registered token
type Mask [4]uint64

// UnderlyingMask mask reserved for the underlying token
var UnderlyingMask = MaskAt(0)

// MaskAt returns the mask with only bit i set
func MaskAt(i int) Mask {
	var m Mask
	if i < 0 || i >= 256 {
		return m
	}
	m[i/64] = 1 << (uint(i) % 64)
	return m
}

// Or union
func (m Mask) Or(o Mask) Mask {
	return Mask{m[0] | o[0], m[1] | o[1], m[2] | o[2], m[3] | o[3]}
}

// And intersection
func (m Mask) And(o Mask) Mask {
	return Mask{m[0] & o[0], m[1] & o[1], m[2] & o[2], m[3] & o[3]}
}

// AndNot clears the bits of o
func (m Mask) AndNot(o Mask) Mask {
	return Mask{m[0] &^ o[0], m[1] &^ o[1], m[2] &^ o[2], m[3] &^ o[3]}
}

// Enable sets the bits of o
func (m Mask) Enable(o Mask) Mask {
	return m.Or(o)
}

// Disable clears the bits of o
func (m Mask) Disable(o Mask) Mask {
	return m.AndNot(o)
}

// Has reports whether m and o share a bit
func (m Mask) Has(o Mask) bool {
	return !m.And(o).IsZero()
}

// IsZero no bit set
func (m Mask) IsZero() bool {
	return m[0]|m[1]|m[2]|m[3] == 0
}

// PopCount number of set bits
func (m Mask) PopCount() int {
	return bits.OnesCount64(m[0]) + bits.OnesCount64(m[1]) + bits.OnesCount64(m[2]) + bits.OnesCount64(m[3])
}

// IsSingleBit reports whether exactly one bit is set
func (m Mask) IsSingleBit() bool {
	return m.PopCount() == 1
}

// LowestBit returns the lowest set bit as a mask, zero mask if empty
func (m Mask) LowestBit() Mask {
	for i, w := range m {
		if w != 0 {
			var r Mask
			r[i] = w & -w
			return r
		}
	}
	return Mask{}
}

// Index position of the lowest set bit, -1 if empty
func (m Mask) Index() int {
	for i, w := range m {
		if w != 0 {
			return i*64 + bits.TrailingZeros64(w)
		}
	}
	return -1
}

// Bits splits m into single-bit masks in ascending order
func (m Mask) Bits() []Mask {
	out := make([]Mask, 0, m.PopCount())
	for rest := m; !rest.IsZero(); {
		low := rest.LowestBit()
		out = append(out, low)
		rest = rest.AndNot(low)
	}
	return out
}

// Uint256 converts to a 256-bit integer
func (m Mask) Uint256() *uint256.Int {
	v := uint256.Int(m)
	return &v
}

// MaskFromUint256 converts a 256-bit integer to a mask
func MaskFromUint256(v *uint256.Int) Mask {
	return Mask(*v)
}

func (m Mask) String() string {
	return m.Uint256().Hex()
}

// Value implements driver.Valuer
func (m Mask) Value() (driver.Value, error) {
	return m.Uint256().Dec(), nil
}

// Scan implements sql.Scanner
func (m *Mask) Scan(src interface{}) error {
	var v uint256.Int
	if err := v.Scan(src); err != nil {
		return err
	}
	*m = Mask(v)
	return nil
}

// MarshalJSON decimal string
func (m Mask) MarshalJSON() ([]byte, error) {
	return m.Uint256().MarshalJSON()
}

// UnmarshalJSON decimal or hex string
func (m *Mask) UnmarshalJSON(b []byte) error {
	var v uint256.Int
	if err := v.UnmarshalJSON(b); err != nil {
		return err
	}
	*m = Mask(v)
	return nil
}

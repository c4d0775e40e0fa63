package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskBits(t *testing.T) {
	m := MaskAt(0).Or(MaskAt(3)).Or(MaskAt(64)).Or(MaskAt(254))

	assert.Equal(t, 4, m.PopCount())
	assert.Equal(t, MaskAt(0), m.LowestBit())
	assert.Equal(t, []Mask{MaskAt(0), MaskAt(3), MaskAt(64), MaskAt(254)}, m.Bits())
	assert.Equal(t, 64, MaskAt(64).Index())
	assert.Equal(t, -1, Mask{}.Index())

	m = m.Disable(MaskAt(0))
	assert.Equal(t, MaskAt(3), m.LowestBit())
	assert.False(t, m.Has(UnderlyingMask))
	assert.True(t, m.Has(MaskAt(254)))
}

func TestMaskSingleBit(t *testing.T) {
	assert.True(t, MaskAt(200).IsSingleBit())
	assert.False(t, Mask{}.IsSingleBit())
	assert.False(t, MaskAt(1).Or(MaskAt(2)).IsSingleBit())
	assert.True(t, MaskAt(256).IsZero())
}

func TestMaskStorage(t *testing.T) {
	m := MaskAt(130).Or(UnderlyingMask)

	v, err := m.Value()
	require.Nil(t, err)

	var scanned Mask
	require.Nil(t, scanned.Scan(v))
	assert.Equal(t, m, scanned)

	require.Nil(t, scanned.Scan([]byte("5")))
	assert.Equal(t, MaskAt(0).Or(MaskAt(2)), scanned)
}

func TestErrorCodeCategory(t *testing.T) {
	assert.Equal(t, CategoryAuthorization, ErrCallerNotFacade.Category())
	assert.Equal(t, CategoryValidation, ErrTooManyTokens.Category())
	assert.Equal(t, CategoryInvariant, ErrDebtUpdatedTwiceInOneBlock.Category())
	assert.Equal(t, CategoryEconomic, ErrNotEnoughCollateral.Category())
	assert.Equal(t, "100203 too many tokens", ErrTooManyTokens.Error())
}

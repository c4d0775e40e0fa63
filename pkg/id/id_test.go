package id

import (
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAccountAddress(t *testing.T) {
	a := AccountAddress("memory", 0)
	assert.Equal(t, a, AccountAddress("memory", 0))
	assert.NotEqual(t, a, AccountAddress("memory", 1))
	assert.NotEqual(t, a, AccountAddress("usdc", 0))

	u, err := uuid.FromString(a)
	assert.Nil(t, err)
	assert.Equal(t, byte(5), u.Version())
}

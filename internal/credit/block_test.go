package credit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentBlock(t *testing.T) {
	currentBlock, e := CurrentBlock(context.Background(), 15, 1603366002)
	require.Nil(t, e)
	assert.Greater(t, currentBlock, int64(0))
}

func TestGetBlockByTime(t *testing.T) {
	ctx := context.Background()
	genesis := int64(1_600_000_000)

	block, err := GetBlockByTime(ctx, 15, genesis, time.Unix(genesis+151, 0))
	require.Nil(t, err)
	assert.Equal(t, int64(10), block)
	assert.Equal(t, time.Unix(genesis+150, 0).UTC(), BlockTime(15, genesis, block))

	_, err = GetBlockByTime(ctx, 15, genesis, time.Unix(genesis-1, 0))
	assert.NotNil(t, err)

	_, err = GetBlockByTime(ctx, 0, genesis, time.Now())
	assert.NotNil(t, err)
}

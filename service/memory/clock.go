package memory

import (
	"context"
	"sync"
	"time"
)

// Clock manually driven block service
type Clock struct {
	mux   sync.RWMutex
	block int64
	now   time.Time
}

// NewClock clock at block 1
func NewClock(now time.Time) *Clock {
	return &Clock{block: 1, now: now}
}

// Advance moves the clock forward by blocks and d
func (c *Clock) Advance(blocks int64, d time.Duration) {
	c.mux.Lock()
	defer c.mux.Unlock()

	c.block += blocks
	c.now = c.now.Add(d)
}

// CurrentBlock implements core.IBlockService
func (c *Clock) CurrentBlock(ctx context.Context) (int64, error) {
	c.mux.RLock()
	defer c.mux.RUnlock()

	return c.block, nil
}

// GetBlock implements core.IBlockService, every block in the past maps to the current one
func (c *Clock) GetBlock(ctx context.Context, t time.Time) (int64, error) {
	return c.CurrentBlock(ctx)
}

// Now implements core.IBlockService
func (c *Clock) Now(ctx context.Context) time.Time {
	c.mux.RLock()
	defer c.mux.RUnlock()

	return c.now
}

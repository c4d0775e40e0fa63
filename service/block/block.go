package block

import (
	"context"
	"creditmanager/core"
	"creditmanager/internal/credit"
	"time"
)

type service struct {
	config *core.Config
}

// New new block service
func New(config *core.Config) core.IBlockService {
	return &service{
		config: config,
	}
}

func (s *service) secondsPerBlock() int64 {
	if s.config.App.SecondsPerBlock > 0 {
		return s.config.App.SecondsPerBlock
	}
	return credit.DefaultSecondsPerBlock
}

//CurrentBlock current block
func (s *service) CurrentBlock(ctx context.Context) (int64, error) {
	current, e := credit.CurrentBlock(ctx, s.secondsPerBlock(), s.config.App.Genesis)
	if e != nil {
		return 0, e
	}
	return current, nil
}

// GetBlock get block by time
func (s *service) GetBlock(ctx context.Context, t time.Time) (int64, error) {
	block, e := credit.GetBlockByTime(ctx, s.secondsPerBlock(), s.config.App.Genesis, t)
	if e != nil {
		return 0, e
	}
	return block, nil
}

// Now wall clock used for threshold ramps and expiration
func (s *service) Now(ctx context.Context) time.Time {
	return time.Now().UTC()
}

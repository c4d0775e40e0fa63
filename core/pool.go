package core

import (
	"context"

	"github.com/holiman/uint256"
)

// IPool lending pool interface
type IPool interface {
	Address() string
	BaseInterestIndex(ctx context.Context) (*uint256.Int, error)
	LendCreditAccount(ctx context.Context, amount *uint256.Int, account string) error
	RepayCreditAccount(ctx context.Context, repaid, profit, loss *uint256.Int) error
}

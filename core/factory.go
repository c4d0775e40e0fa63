package core

import (
	"context"

	"github.com/holiman/uint256"
)

// ICreditAccount position container holding the account balances
type ICreditAccount interface {
	Address() string
	BalanceOf(ctx context.Context, token string) (*uint256.Int, error)
	Transfer(ctx context.Context, token, to string, amount *uint256.Int) error
	Approve(ctx context.Context, token, spender string, amount *uint256.Int) error
	Execute(ctx context.Context, target string, data []byte) ([]byte, error)
}

// IAccountFactory recycling pool of position containers
type IAccountFactory interface {
	TakeAccount(ctx context.Context, block int64) (ICreditAccount, error)
	ReturnAccount(ctx context.Context, address string) error
	Account(ctx context.Context, address string) (ICreditAccount, error)
}

// ITokenBank pulls tokens from external holders
type ITokenBank interface {
	TransferFrom(ctx context.Context, token, from, to string, amount *uint256.Int) error
}

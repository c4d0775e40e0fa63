package memory

import (
	"context"
	"creditmanager/core"
	"fmt"
	"sync"

	"github.com/holiman/uint256"
)

// Bank in memory token balances of every holder
type Bank struct {
	mux      sync.RWMutex
	balances map[string]map[string]*uint256.Int
}

// NewBank new empty bank
func NewBank() *Bank {
	return &Bank{
		balances: make(map[string]map[string]*uint256.Int),
	}
}

// Mint credits amount of token to holder
func (b *Bank) Mint(holder, token string, amount *uint256.Int) {
	b.mux.Lock()
	defer b.mux.Unlock()

	bal := b.balance(holder, token)
	bal.Add(bal, amount)
}

// Burn sets the balance of holder to zero
func (b *Bank) Burn(holder, token string) {
	b.mux.Lock()
	defer b.mux.Unlock()

	b.balance(holder, token).Clear()
}

// BalanceOf balance of holder
func (b *Bank) BalanceOf(holder, token string) *uint256.Int {
	b.mux.RLock()
	defer b.mux.RUnlock()

	if tokens, ok := b.balances[holder]; ok {
		if bal, ok := tokens[token]; ok {
			return bal.Clone()
		}
	}
	return new(uint256.Int)
}

// Move moves amount of token from one holder to another
func (b *Bank) Move(token, from, to string, amount *uint256.Int) error {
	b.mux.Lock()
	defer b.mux.Unlock()

	src := b.balance(from, token)
	if src.Lt(amount) {
		return fmt.Errorf("move %s %s from %s: %w", amount.Dec(), token, from, core.ErrInsufficientBalance)
	}

	src.Sub(src, amount)
	dst := b.balance(to, token)
	dst.Add(dst, amount)
	return nil
}

// TransferFrom implements core.ITokenBank
func (b *Bank) TransferFrom(ctx context.Context, token, from, to string, amount *uint256.Int) error {
	return b.Move(token, from, to, amount)
}

func (b *Bank) balance(holder, token string) *uint256.Int {
	tokens, ok := b.balances[holder]
	if !ok {
		tokens = make(map[string]*uint256.Int)
		b.balances[holder] = tokens
	}

	bal, ok := tokens[token]
	if !ok {
		bal = new(uint256.Int)
		tokens[token] = bal
	}
	return bal
}

package memory

import (
	"context"
	"creditmanager/core"
	"creditmanager/pkg/id"
	"errors"
	"fmt"
	"sync"

	"github.com/holiman/uint256"
)

// TargetFunc handles an adapter call executed by an account
type TargetFunc func(ctx context.Context, account *Account, data []byte) ([]byte, error)

// Account in memory position container backed by a Bank
type Account struct {
	address string
	factory *Factory

	mux        sync.Mutex
	allowances map[string]*uint256.Int
	deployedAt int64
}

// Address implements core.ICreditAccount
func (a *Account) Address() string {
	return a.address
}

// BalanceOf implements core.ICreditAccount
func (a *Account) BalanceOf(ctx context.Context, token string) (*uint256.Int, error) {
	return a.factory.bank.BalanceOf(a.address, token), nil
}

// Transfer implements core.ICreditAccount
func (a *Account) Transfer(ctx context.Context, token, to string, amount *uint256.Int) error {
	return a.factory.bank.Move(token, a.address, to, amount)
}

// Approve implements core.ICreditAccount
func (a *Account) Approve(ctx context.Context, token, spender string, amount *uint256.Int) error {
	a.mux.Lock()
	defer a.mux.Unlock()

	a.allowances[token+":"+spender] = amount.Clone()
	return nil
}

// Allowance approved amount of token for spender
func (a *Account) Allowance(token, spender string) *uint256.Int {
	a.mux.Lock()
	defer a.mux.Unlock()

	if v, ok := a.allowances[token+":"+spender]; ok {
		return v.Clone()
	}
	return new(uint256.Int)
}

// Execute implements core.ICreditAccount
func (a *Account) Execute(ctx context.Context, target string, data []byte) ([]byte, error) {
	fn, ok := a.factory.target(target)
	if !ok {
		return nil, fmt.Errorf("execute on unknown target %s", target)
	}
	return fn(ctx, a, data)
}

// Factory in memory account recycling pool
type Factory struct {
	bank *Bank
	name string

	mux     sync.Mutex
	all     map[string]*Account
	free    []*Account
	targets map[string]TargetFunc
}

// NewFactory new account factory over bank
func NewFactory(bank *Bank) *Factory {
	return NewNamedFactory(bank, "memory")
}

// NewNamedFactory new account factory whose container addresses derive from name
func NewNamedFactory(bank *Bank, name string) *Factory {
	return &Factory{
		bank:    bank,
		name:    name,
		all:     make(map[string]*Account),
		targets: make(map[string]TargetFunc),
	}
}

// SetTarget registers a call target reachable through Execute
func (f *Factory) SetTarget(target string, fn TargetFunc) {
	f.mux.Lock()
	defer f.mux.Unlock()

	f.targets[target] = fn
}

func (f *Factory) target(target string) (TargetFunc, bool) {
	f.mux.Lock()
	defer f.mux.Unlock()

	fn, ok := f.targets[target]
	return fn, ok
}

// TakeAccount implements core.IAccountFactory
func (f *Factory) TakeAccount(ctx context.Context, block int64) (core.ICreditAccount, error) {
	f.mux.Lock()
	defer f.mux.Unlock()

	if n := len(f.free); n > 0 {
		acc := f.free[n-1]
		f.free = f.free[:n-1]
		acc.deployedAt = block
		return acc, nil
	}

	acc := &Account{
		address:    id.AccountAddress(f.name, len(f.all)),
		factory:    f,
		allowances: make(map[string]*uint256.Int),
		deployedAt: block,
	}
	f.all[acc.address] = acc
	return acc, nil
}

// ReturnAccount implements core.IAccountFactory
func (f *Factory) ReturnAccount(ctx context.Context, address string) error {
	f.mux.Lock()
	defer f.mux.Unlock()

	acc, ok := f.all[address]
	if !ok {
		return errors.New("return unknown account")
	}

	acc.mux.Lock()
	acc.allowances = make(map[string]*uint256.Int)
	acc.mux.Unlock()

	f.free = append(f.free, acc)
	return nil
}

// Account implements core.IAccountFactory
func (f *Factory) Account(ctx context.Context, address string) (core.ICreditAccount, error) {
	f.mux.Lock()
	defer f.mux.Unlock()

	acc, ok := f.all[address]
	if !ok {
		return nil, core.ErrAccountNotFound
	}
	return acc, nil
}

// Free number of recycled accounts waiting to be taken
func (f *Factory) Free() int {
	f.mux.Lock()
	defer f.mux.Unlock()

	return len(f.free)
}

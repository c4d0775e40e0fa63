package memory

import (
	"context"
	"creditmanager/pkg/credit"
	"sync"

	"github.com/holiman/uint256"
)

// Pool in memory lending pool holding its liquidity in a Bank
type Pool struct {
	address    string
	underlying string
	bank       *Bank

	mux      sync.Mutex
	index    *uint256.Int
	borrowed *uint256.Int
	profit   *uint256.Int
	loss     *uint256.Int
}

// PoolStats pool totals
type PoolStats struct {
	Borrowed *uint256.Int
	Profit   *uint256.Int
	Loss     *uint256.Int
}

// NewPool new pool with the index at one RAY
func NewPool(address, underlying string, bank *Bank) *Pool {
	return &Pool{
		address:    address,
		underlying: underlying,
		bank:       bank,
		index:      credit.RAY.Clone(),
		borrowed:   new(uint256.Int),
		profit:     new(uint256.Int),
		loss:       new(uint256.Int),
	}
}

// SetIndex moves the cumulative index
func (p *Pool) SetIndex(index *uint256.Int) {
	p.mux.Lock()
	defer p.mux.Unlock()

	p.index = index.Clone()
}

// Address implements core.IPool
func (p *Pool) Address() string {
	return p.address
}

// BaseInterestIndex implements core.IPool
func (p *Pool) BaseInterestIndex(ctx context.Context) (*uint256.Int, error) {
	p.mux.Lock()
	defer p.mux.Unlock()

	return p.index.Clone(), nil
}

// LendCreditAccount implements core.IPool
func (p *Pool) LendCreditAccount(ctx context.Context, amount *uint256.Int, account string) error {
	if err := p.bank.Move(p.underlying, p.address, account, amount); err != nil {
		return err
	}

	p.mux.Lock()
	defer p.mux.Unlock()

	p.borrowed.Add(p.borrowed, amount)
	return nil
}

// RepayCreditAccount implements core.IPool
func (p *Pool) RepayCreditAccount(ctx context.Context, repaid, profit, loss *uint256.Int) error {
	p.mux.Lock()
	defer p.mux.Unlock()

	p.borrowed = credit.SubFloor(p.borrowed, repaid)
	p.profit.Add(p.profit, profit)
	p.loss.Add(p.loss, loss)
	return nil
}

// Stats pool totals
func (p *Pool) Stats() PoolStats {
	p.mux.Lock()
	defer p.mux.Unlock()

	return PoolStats{
		Borrowed: p.borrowed.Clone(),
		Profit:   p.profit.Clone(),
		Loss:     p.loss.Clone(),
	}
}

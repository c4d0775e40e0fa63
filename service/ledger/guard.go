package ledger

import (
	"creditmanager/core"
	"sync/atomic"
)

// guard admits one mutating call at a time; an overlapping call fails
// instead of waiting
type guard struct {
	inFlight atomic.Bool
}

func (g *guard) enter() error {
	if !g.inFlight.CompareAndSwap(false, true) {
		return core.ErrReentrancy
	}
	return nil
}

func (g *guard) leave() {
	g.inFlight.Store(false)
}

// activeAccount scope in which adapters may act on one account
type activeAccount struct {
	m        *Manager
	account  string
	released atomic.Bool
}

var _ core.IActiveAccount = (*activeAccount)(nil)

// Account account the scope was acquired for
func (a *activeAccount) Account() string {
	return a.account
}

// Release ends the scope; later calls are no-ops
func (a *activeAccount) Release() {
	if !a.released.CompareAndSwap(false, true) {
		return
	}

	a.m.mux.Lock()
	defer a.m.mux.Unlock()

	if a.m.active == a {
		a.m.active = nil
	}
}

func (a *activeAccount) valid(m *Manager) bool {
	if a == nil || a.m != m || a.released.Load() {
		return false
	}

	m.mux.RLock()
	defer m.mux.RUnlock()

	return m.active == a
}

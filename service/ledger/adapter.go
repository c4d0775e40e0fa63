package ledger

import (
	"context"
	"creditmanager/core"
	"fmt"

	"github.com/holiman/uint256"
)

// SetActiveAccount opens the scope in which linked adapters may act on
// account. The scope must be released before another one is acquired.
func (m *Manager) SetActiveAccount(ctx context.Context, caller, account string) (core.IActiveAccount, error) {
	if err := m.guard.enter(); err != nil {
		return nil, err
	}
	defer m.guard.leave()

	if err := m.requireFacade(caller); err != nil {
		return nil, err
	}

	m.mux.Lock()
	defer m.mux.Unlock()

	if _, ok := m.accounts[account]; !ok {
		return nil, core.ErrAccountNotFound
	}

	if m.active != nil {
		return nil, core.ErrActiveAccountOverridden
	}

	m.active = &activeAccount{m: m, account: account}
	return m.active, nil
}

// ActiveAccount account of the current scope, empty if none
func (m *Manager) ActiveAccount() string {
	m.mux.RLock()
	defer m.mux.RUnlock()

	if m.active == nil {
		return ""
	}
	return m.active.account
}

// adapterTarget resolves the target linked to adapter and the container
// of the active account
func (m *Manager) adapterTarget(adapter string, active core.IActiveAccount) (string, core.ICreditAccount, error) {
	m.mux.RLock()
	target, linked := m.adapters[adapter]
	m.mux.RUnlock()

	if adapter == "" || !linked {
		return "", nil, core.ErrCallerNotAdapter
	}

	scope, ok := active.(*activeAccount)
	if !ok || !scope.valid(m) {
		return "", nil, core.ErrActiveAccountNotSet
	}

	m.mux.RLock()
	defer m.mux.RUnlock()

	container, ok := m.containers[scope.account]
	if !ok {
		return "", nil, core.ErrAccountNotFound
	}
	return target, container, nil
}

// Execute forwards data from adapter to its linked target on behalf of the
// active account
func (m *Manager) Execute(ctx context.Context, adapter string, active core.IActiveAccount, data []byte) ([]byte, error) {
	if err := m.guard.enter(); err != nil {
		return nil, err
	}
	defer m.guard.leave()

	target, container, err := m.adapterTarget(adapter, active)
	if err != nil {
		return nil, err
	}

	result, err := container.Execute(ctx, target, data)
	if err != nil {
		return nil, fmt.Errorf("execute %s: %w", target, err)
	}
	return result, nil
}

// ApproveToken lets the target linked to adapter spend amount of token
// held by the active account
func (m *Manager) ApproveToken(ctx context.Context, adapter string, active core.IActiveAccount, token string, amount *uint256.Int) error {
	if err := m.guard.enter(); err != nil {
		return err
	}
	defer m.guard.leave()

	target, container, err := m.adapterTarget(adapter, active)
	if err != nil {
		return err
	}

	if _, err := m.TokenMask(token); err != nil {
		return err
	}

	if err := container.Approve(ctx, token, target, amount); err != nil {
		return fmt.Errorf("approve %s: %w", token, err)
	}
	return nil
}

package ledger

import (
	"context"
	"creditmanager/core"

	"github.com/fox-one/pkg/logger"
)

func (m *Manager) configure(ctx context.Context, caller string, fn func() error) error {
	if err := m.guard.enter(); err != nil {
		return err
	}
	defer m.guard.leave()

	if err := m.requireConfigurator(caller); err != nil {
		return err
	}

	return fn()
}

// SetFeeParameters replaces the fee schedule
func (m *Manager) SetFeeParameters(ctx context.Context, caller string, fees core.FeeParams) error {
	return m.configure(ctx, caller, func() error {
		for _, bps := range []uint16{
			fees.FeeInterest,
			fees.FeeLiquidation,
			fees.LiquidationDiscount,
			fees.FeeLiquidationExpired,
			fees.LiquidationDiscountExpired,
		} {
			if bps > core.PercentageFactor {
				return core.ErrIncorrectParameter
			}
		}

		return m.saveParams(ctx, func(p *core.LedgerParams) {
			p.FeeParams = fees
		})
	})
}

// SetQuotedTokensMask replaces the set of quoted tokens. The underlying can
// never be quoted and a token stays quoted while an open account has it
// enabled.
func (m *Manager) SetQuotedTokensMask(ctx context.Context, caller string, mask core.Mask) error {
	return m.configure(ctx, caller, func() error {
		if mask.Has(core.UnderlyingMask) {
			return core.ErrIncorrectParameter
		}

		if dropped := m.Params().QuotedTokensMask.Disable(mask); !dropped.IsZero() && m.holdsAny(dropped) {
			return core.ErrIncorrectParameter
		}

		return m.saveParams(ctx, func(p *core.LedgerParams) {
			p.QuotedTokensMask = mask
		})
	})
}

// SetMaxEnabledTokens limit of enabled tokens kept after a full collateral check
func (m *Manager) SetMaxEnabledTokens(ctx context.Context, caller string, max int) error {
	return m.configure(ctx, caller, func() error {
		if max <= 0 || max > core.MaxTokens {
			return core.ErrIncorrectParameter
		}

		return m.saveParams(ctx, func(p *core.LedgerParams) {
			p.MaxEnabledTokens = max
		})
	})
}

// SetExpirationDate unix time after which accounts may be liquidated as
// expired, zero disables expiration
func (m *Manager) SetExpirationDate(ctx context.Context, caller string, date int64) error {
	return m.configure(ctx, caller, func() error {
		if date < 0 {
			return core.ErrIncorrectParameter
		}

		return m.saveParams(ctx, func(p *core.LedgerParams) {
			p.ExpirationDate = date
		})
	})
}

// SetAdapterLink links adapter to target; an empty target unlinks it
func (m *Manager) SetAdapterLink(ctx context.Context, caller, adapter, target string) error {
	return m.configure(ctx, caller, func() error {
		if adapter == "" {
			return core.ErrZeroAddress
		}

		m.mux.Lock()
		defer m.mux.Unlock()

		if prev, ok := m.adapters[adapter]; ok {
			delete(m.targets, prev)
			delete(m.adapters, adapter)
		}

		if target == "" {
			return nil
		}

		if prev, ok := m.targets[target]; ok {
			delete(m.adapters, prev)
		}

		m.adapters[adapter] = target
		m.targets[target] = adapter

		logger.FromContext(ctx).WithField("adapter", adapter).WithField("target", target).Debugln("adapter linked")
		return nil
	})
}

// AdapterOf adapter linked to target
func (m *Manager) AdapterOf(target string) (string, bool) {
	m.mux.RLock()
	defer m.mux.RUnlock()

	adapter, ok := m.targets[target]
	return adapter, ok
}

// TargetOf target linked to adapter
func (m *Manager) TargetOf(adapter string) (string, bool) {
	m.mux.RLock()
	defer m.mux.RUnlock()

	target, ok := m.adapters[adapter]
	return target, ok
}

// SetFacade replaces the facade
func (m *Manager) SetFacade(ctx context.Context, caller, facade string) error {
	return m.configure(ctx, caller, func() error {
		if facade == "" {
			return core.ErrZeroAddress
		}

		m.mux.Lock()
		m.facade = facade
		m.mux.Unlock()
		return nil
	})
}

// SetPriceOracle replaces the price oracle
func (m *Manager) SetPriceOracle(ctx context.Context, caller string, oracle core.IPriceOracle) error {
	return m.configure(ctx, caller, func() error {
		if oracle == nil {
			return core.ErrZeroAddress
		}

		m.mux.Lock()
		m.oracle = oracle
		m.mux.Unlock()
		return nil
	})
}

// SetConfigurator hands the configurator role to configurator
func (m *Manager) SetConfigurator(ctx context.Context, caller, configurator string) error {
	return m.configure(ctx, caller, func() error {
		if configurator == "" {
			return core.ErrZeroAddress
		}

		m.mux.Lock()
		m.configurator = configurator
		m.mux.Unlock()

		logger.FromContext(ctx).WithField("configurator", configurator).Infoln("configurator changed")
		return nil
	})
}

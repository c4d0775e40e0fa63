package ledger

import (
	"context"
	"creditmanager/core"
	"fmt"

	"github.com/fox-one/pkg/logger"
)

// Restore reloads params, the token registry and open accounts from the
// stores. Missing params and the underlying token are written back with
// the values the manager was created with.
func (m *Manager) Restore(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("ledger", m.name)

	params, err := m.paramz.Find(ctx, m.name)
	if err != nil {
		log.WithError(err).Errorln("params.Find")
		return fmt.Errorf("find params %s: %w", m.name, err)
	}

	if params == nil {
		if err := m.saveParams(ctx, func(p *core.LedgerParams) {}); err != nil {
			return err
		}
	} else {
		if params.Underlying != m.underlying {
			return fmt.Errorf("ledger %s underlying mismatch: stored %s, configured %s", m.name, params.Underlying, m.underlying)
		}

		m.mux.Lock()
		m.params = *params
		m.mux.Unlock()
	}

	tokens, err := m.tokenz.All(ctx)
	if err != nil {
		log.WithError(err).Errorln("tokens.All")
		return fmt.Errorf("list tokens: %w", err)
	}

	underlying := false
	m.mux.Lock()
	for _, t := range tokens {
		if t.Token == m.underlying {
			underlying = true
		}
		m.addToken(t)
	}
	m.mux.Unlock()

	if !underlying {
		m.mux.RLock()
		t := *m.tokens[core.UnderlyingMask]
		m.mux.RUnlock()

		if err := m.tokenz.Save(ctx, &t); err != nil {
			log.WithError(err).Errorln("tokens.Save")
			return err
		}
	}

	accounts, err := m.accountz.All(ctx)
	if err != nil {
		log.WithError(err).Errorln("accounts.All")
		return fmt.Errorf("list accounts: %w", err)
	}

	for _, acc := range accounts {
		container, err := m.factory.Account(ctx, acc.Address)
		if err != nil {
			return fmt.Errorf("factory account %s: %w", acc.Address, err)
		}

		m.mux.Lock()
		m.accounts[acc.Address] = acc
		m.containers[acc.Address] = container
		m.mux.Unlock()
	}

	log.WithField("tokens", len(tokens)).WithField("accounts", len(accounts)).Infoln("ledger restored")
	return nil
}

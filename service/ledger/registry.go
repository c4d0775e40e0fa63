package ledger

import (
	"context"
	"creditmanager/core"
	"creditmanager/pkg/credit"
	"sort"
	"time"

	"github.com/fox-one/pkg/logger"
)

func newCollateralToken(token string, mask core.Mask) *core.CollateralToken {
	return &core.CollateralToken{
		Token:     token,
		Mask:      mask,
		RampStart: credit.RampNever,
	}
}

// addToken must be called with the write lock held or before the manager is shared
func (m *Manager) addToken(t *core.CollateralToken) {
	m.masks[t.Token] = t.Mask
	m.tokens[t.Mask] = t
	if idx := t.Mask.Index() + 1; idx > m.tokenCount {
		m.tokenCount = idx
	}
}

// RegisterToken assigns the next unused mask to token
func (m *Manager) RegisterToken(ctx context.Context, caller, token string) (core.Mask, error) {
	if err := m.guard.enter(); err != nil {
		return core.Mask{}, err
	}
	defer m.guard.leave()

	if err := m.requireConfigurator(caller); err != nil {
		return core.Mask{}, err
	}

	if token == "" {
		return core.Mask{}, core.ErrZeroAddress
	}

	m.mux.RLock()
	_, exists := m.masks[token]
	count := m.tokenCount
	m.mux.RUnlock()

	if exists {
		return core.Mask{}, core.ErrTokenAlreadyAdded
	}

	if count >= core.MaxTokens {
		return core.Mask{}, core.ErrTooManyTokens
	}

	t := newCollateralToken(token, core.MaskAt(count))
	if err := m.tokenz.Save(ctx, t); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("tokens.Save")
		return core.Mask{}, err
	}

	m.mux.Lock()
	m.addToken(t)
	m.mux.Unlock()

	logger.FromContext(ctx).WithField("token", token).WithField("mask", t.Mask.String()).Debugln("token registered")
	return t.Mask, nil
}

// SetThresholdRamp sets the liquidation threshold ramp of token; for the
// underlying only ltInitial is used
func (m *Manager) SetThresholdRamp(ctx context.Context, caller, token string, ltInitial, ltFinal uint16, rampStart int64, rampDuration uint32) error {
	if err := m.guard.enter(); err != nil {
		return err
	}
	defer m.guard.leave()

	if err := m.requireConfigurator(caller); err != nil {
		return err
	}

	if token == m.underlying {
		return m.saveParams(ctx, func(p *core.LedgerParams) {
			p.LTUnderlying = ltInitial
		})
	}

	m.mux.RLock()
	mask, ok := m.masks[token]
	var updated core.CollateralToken
	if ok {
		updated = *m.tokens[mask]
	}
	m.mux.RUnlock()

	if !ok {
		return core.ErrTokenNotAllowed
	}

	updated.LTInitial = ltInitial
	updated.LTFinal = ltFinal
	updated.RampStart = rampStart
	updated.RampDuration = rampDuration

	if err := m.tokenz.Save(ctx, &updated); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("tokens.Save")
		return err
	}

	m.mux.Lock()
	m.tokens[mask] = &updated
	m.mux.Unlock()
	return nil
}

// TokenMask mask of a registered token
func (m *Manager) TokenMask(token string) (core.Mask, error) {
	m.mux.RLock()
	defer m.mux.RUnlock()

	mask, ok := m.masks[token]
	if !ok {
		return core.Mask{}, core.ErrTokenNotAllowed
	}
	return mask, nil
}

// CollateralToken token of mask and, when computeLT is set, its threshold at now
func (m *Manager) CollateralToken(mask core.Mask, computeLT bool, now time.Time) (string, uint16, error) {
	m.mux.RLock()
	defer m.mux.RUnlock()

	t, ok := m.tokens[mask]
	if !ok {
		return "", 0, core.ErrTokenNotAllowed
	}

	if !computeLT {
		return t.Token, 0, nil
	}

	if mask == core.UnderlyingMask {
		return t.Token, m.params.LTUnderlying, nil
	}
	return t.Token, credit.LiquidationThreshold(t, now), nil
}

// LiquidationThreshold current threshold of token
func (m *Manager) LiquidationThreshold(ctx context.Context, token string) (uint16, error) {
	mask, err := m.TokenMask(token)
	if err != nil {
		return 0, err
	}

	_, lt, err := m.CollateralToken(mask, true, m.blocks.Now(ctx))
	return lt, err
}

// Tokens registered tokens in mask order
func (m *Manager) Tokens() []*core.CollateralToken {
	m.mux.RLock()
	defer m.mux.RUnlock()

	tokens := make([]*core.CollateralToken, 0, len(m.tokens))
	for _, t := range m.tokens {
		c := *t
		tokens = append(tokens, &c)
	}

	sort.Slice(tokens, func(i, j int) bool {
		return tokens[i].Mask.Index() < tokens[j].Mask.Index()
	})
	return tokens
}

// tokensOf tokens of every bit in mask, ascending
func (m *Manager) tokensOf(mask core.Mask) []string {
	m.mux.RLock()
	defer m.mux.RUnlock()

	var tokens []string
	for _, bit := range mask.Bits() {
		if t, ok := m.tokens[bit]; ok {
			tokens = append(tokens, t.Token)
		}
	}
	return tokens
}

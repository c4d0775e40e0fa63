package scenario

import (
	"context"
	"creditmanager/core"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// Result outcome of one step
type Result struct {
	Step    int
	Op      string
	Account string
	Err     error
	Detail  map[string]string
}

// Observer is called after every step
type Observer func(ctx context.Context, r *Result)

var maxQuota = new(uint256.Int).SetAllOne()

var flags = map[string]uint16{
	"bot_permissions":     core.FlagBotPermissions,
	"withdrawals_pending": core.FlagWithdrawalsPending,
}

// Run replays steps in order. A step failing with the error it expects
// counts as a success; any other outcome stops the run.
func (e *Env) Run(ctx context.Context, steps []Step, observe Observer) ([]*Result, error) {
	results := make([]*Result, 0, len(steps))
	for i, step := range steps {
		logStep(ctx, i, step)

		r := &Result{Step: i, Op: step.Op, Account: step.Account, Detail: map[string]string{}}
		r.Err = e.step(ctx, step, r)
		results = append(results, r)

		if observe != nil {
			observe(ctx, r)
		}

		switch {
		case step.Expect == "" && r.Err != nil:
			return results, fmt.Errorf("step %d %s: %w", i, step.Op, r.Err)
		case step.Expect != "" && r.Err == nil:
			return results, fmt.Errorf("step %d %s: expected %q, got success", i, step.Op, step.Expect)
		case step.Expect != "" && !strings.Contains(r.Err.Error(), step.Expect):
			return results, fmt.Errorf("step %d %s: expected %q, got %w", i, step.Op, step.Expect, r.Err)
		}
	}
	return results, nil
}

func (e *Env) step(ctx context.Context, step Step, r *Result) error {
	m := e.Manager

	switch step.Op {
	case "open":
		debt, err := parseAmount(step.Amount)
		if err != nil {
			return err
		}

		address, err := m.OpenAccount(ctx, e.facade, step.Borrower, debt)
		if err != nil {
			return err
		}

		e.aliases[step.Account] = address
		r.Detail["address"] = address
		return nil
	case "mint":
		amount, err := parseAmount(step.Amount)
		if err != nil {
			return err
		}

		e.Bank.Mint(e.holder(step.Holder), step.Token, amount)
		return nil
	case "burn":
		e.Bank.Burn(e.holder(step.Holder), step.Token)
		return nil
	case "price":
		price, err := decimal.NewFromString(step.Price)
		if err != nil {
			return err
		}
		return e.prices.SetPrice(step.Token, price, step.Decimals)
	case "index":
		index, err := parseIndex(step.Index)
		if err != nil {
			return err
		}

		if step.Token != "" {
			e.Keeper.SetIndex(step.Token, index)
		} else {
			e.Pool.SetIndex(index)
		}
		return nil
	case "advance":
		if e.Clock == nil {
			return errors.New("advance needs the scenario clock")
		}
		e.Clock.Advance(step.Blocks, time.Duration(step.Seconds)*time.Second)
		return nil
	}

	address, err := e.account(step.Account)
	if err != nil {
		return err
	}

	switch step.Op {
	case "add_collateral":
		amount, err := parseAmount(step.Amount)
		if err != nil {
			return err
		}

		mask, err := m.AddCollateral(ctx, e.facade, e.holder(step.Payer), address, step.Token, amount)
		r.Detail["enabled_tokens"] = mask.String()
		return err
	case "withdraw":
		amount, err := parseAmount(step.Amount)
		if err != nil {
			return err
		}

		mask, err := m.WithdrawCollateral(ctx, e.facade, address, step.Token, e.holder(step.To), amount)
		r.Detail["enabled_tokens"] = mask.String()
		return err
	case "borrow", "repay":
		amount, err := parseAmount(step.Amount)
		if err != nil {
			return err
		}

		change := &core.DebtChange{Account: address, Amount: amount, Action: core.IncreaseDebt}
		if step.Op == "repay" {
			change.Action = core.DecreaseDebt
			change.Payer = e.holder(step.Payer)
		}

		result, err := m.ManageDebt(ctx, e.facade, change)
		if err != nil {
			return err
		}

		r.Detail["debt"] = result.NewDebt.Dec()
		return nil
	case "quota":
		change, ok := new(big.Int).SetString(step.Amount, 10)
		if !ok {
			return fmt.Errorf("quota change %q: %w", step.Amount, core.ErrIncorrectParameter)
		}

		update, err := m.UpdateQuota(ctx, e.facade, address, step.Token, change, new(uint256.Int), maxQuota)
		if err != nil {
			return err
		}

		r.Detail["quota"] = update.Quota.Dec()
		r.Detail["fees"] = update.Fees.Dec()
		return nil
	case "check":
		hints := make([]core.Mask, 0, len(step.Hints))
		for _, token := range step.Hints {
			mask, err := m.TokenMask(token)
			if err != nil {
				return err
			}
			hints = append(hints, mask)
		}

		minHF := step.MinHealthFactor
		if minHF == 0 {
			minHF = core.PercentageFactor
		}
		return m.FullCollateralCheck(ctx, e.facade, address, hints, minHF)
	case "status":
		cdd, err := m.CalcDebtAndCollateral(ctx, address, core.CalcDebtCollateral)
		if err != nil {
			return err
		}

		r.Detail["total_debt"] = cdd.TotalDebt().Dec()
		r.Detail["total_value"] = cdd.TotalValue.Dec()
		r.Detail["twv_usd"] = cdd.TwvUSD.Dec()
		r.Detail["health_factor"] = strconv.FormatUint(cdd.HealthFactor(), 10)
		return nil
	case "liquidate":
		kind := core.LiquidationNormal
		if step.Kind == core.LiquidationExpired.String() {
			kind = core.LiquidationExpired
		}

		payments, err := m.LiquidateAccount(ctx, e.facade, &core.LiquidateRequest{
			Account: address,
			To:      e.holder(step.To),
			Kind:    kind,
			Payer:   e.holder(step.Payer),
		})
		if err != nil {
			return err
		}

		r.Detail["amount_to_pool"] = payments.AmountToPool.Dec()
		r.Detail["remaining_funds"] = payments.RemainingFunds.Dec()
		r.Detail["profit"] = payments.Profit.Dec()
		r.Detail["loss"] = payments.Loss.Dec()
		return nil
	case "close":
		return m.CloseAccount(ctx, e.facade, &core.CloseRequest{Account: address, To: e.holder(step.To)})
	case "flag":
		flag, ok := flags[step.Flag]
		if !ok {
			return fmt.Errorf("flag %q: %w", step.Flag, core.ErrIncorrectParameter)
		}
		return m.SetFlagFor(ctx, e.facade, address, flag, step.Value)
	}

	return fmt.Errorf("unknown op %q", step.Op)
}

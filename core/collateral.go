package core

import (
	"github.com/holiman/uint256"
)

// CalcTask how far a debt and collateral calculation goes
type CalcTask int

const (
	// CalcGenericParams debt, indexes and enabled mask only
	CalcGenericParams CalcTask = iota
	// CalcDebtOnly adds accrued interest and fees
	CalcDebtOnly
	// CalcFullCollateralCheckLazy stops once the weighted value covers the target
	CalcFullCollateralCheckLazy
	// CalcDebtCollateral values every enabled token
	CalcDebtCollateral
)

func (t CalcTask) String() string {
	switch t {
	case CalcGenericParams:
		return "generic_params"
	case CalcDebtOnly:
		return "debt_only"
	case CalcFullCollateralCheckLazy:
		return "full_collateral_check_lazy"
	case CalcDebtCollateral:
		return "debt_collateral"
	}
	return "unknown"
}

// CollateralDebtData result of a debt and collateral calculation
type CollateralDebtData struct {
	Debt                      *uint256.Int `json:"debt"`
	CumulativeIndexNow        *uint256.Int `json:"cumulative_index_now"`
	CumulativeIndexLastUpdate *uint256.Int `json:"cumulative_index_last_update"`
	CumulativeQuotaInterest   *uint256.Int `json:"cumulative_quota_interest"`
	QuotaFees                 *uint256.Int `json:"quota_fees"`
	AccruedInterest           *uint256.Int `json:"accrued_interest"`
	AccruedFees               *uint256.Int `json:"accrued_fees"`
	TotalDebtUSD              *uint256.Int `json:"total_debt_usd"`
	TotalValue                *uint256.Int `json:"total_value"`
	TotalValueUSD             *uint256.Int `json:"total_value_usd"`
	TwvUSD                    *uint256.Int `json:"twv_usd"`
	EnabledTokensMask         Mask         `json:"enabled_tokens_mask"`
	QuotedTokensMask          Mask         `json:"quoted_tokens_mask"`
	QuotedTokens              []string     `json:"quoted_tokens,omitempty"`
	Underlying                string       `json:"underlying"`
}

// NewCollateralDebtData zero valued data
func NewCollateralDebtData() *CollateralDebtData {
	return &CollateralDebtData{
		Debt:                      new(uint256.Int),
		CumulativeIndexNow:        new(uint256.Int),
		CumulativeIndexLastUpdate: new(uint256.Int),
		CumulativeQuotaInterest:   new(uint256.Int),
		QuotaFees:                 new(uint256.Int),
		AccruedInterest:           new(uint256.Int),
		AccruedFees:               new(uint256.Int),
		TotalDebtUSD:              new(uint256.Int),
		TotalValue:                new(uint256.Int),
		TotalValueUSD:             new(uint256.Int),
		TwvUSD:                    new(uint256.Int),
	}
}

// TotalDebt debt + accrued interest + accrued fees
func (d *CollateralDebtData) TotalDebt() *uint256.Int {
	total := new(uint256.Int).Add(d.Debt, d.AccruedInterest)
	return total.Add(total, d.AccruedFees)
}

// DebtWithInterest debt + accrued interest
func (d *CollateralDebtData) DebtWithInterest() *uint256.Int {
	return new(uint256.Int).Add(d.Debt, d.AccruedInterest)
}

// IsLiquidatable weighted value below total debt
func (d *CollateralDebtData) IsLiquidatable() bool {
	return d.TwvUSD.Lt(d.TotalDebtUSD)
}

// HealthFactor twv * 10000 / total debt in usd, max uint64 without debt
func (d *CollateralDebtData) HealthFactor() uint64 {
	if d.TotalDebtUSD.IsZero() {
		return ^uint64(0)
	}
	hf, overflow := new(uint256.Int).MulDivOverflow(d.TwvUSD, uint256.NewInt(PercentageFactor), d.TotalDebtUSD)
	if overflow || !hf.IsUint64() {
		return ^uint64(0)
	}
	return hf.Uint64()
}

package core

import (
	"context"
	"math/big"

	"github.com/holiman/uint256"
)

// DebtAction debt change direction
type DebtAction int

const (
	// IncreaseDebt borrow more from the pool
	IncreaseDebt DebtAction = iota + 1
	// DecreaseDebt repay to the pool
	DecreaseDebt
)

func (a DebtAction) String() string {
	switch a {
	case IncreaseDebt:
		return "increase"
	case DecreaseDebt:
		return "decrease"
	}
	return "unknown"
}

// LiquidationKind closure schedule
type LiquidationKind int

const (
	// LiquidationNormal under collateralized account
	LiquidationNormal LiquidationKind = iota + 1
	// LiquidationExpired account past the ledger expiration date
	LiquidationExpired
)

func (k LiquidationKind) String() string {
	switch k {
	case LiquidationNormal:
		return "liquidation"
	case LiquidationExpired:
		return "expired"
	}
	return "unknown"
}

// DebtChange manage debt request
type DebtChange struct {
	Account string
	Amount  *uint256.Int
	Action  DebtAction
	// Payer covers a shortfall of the underlying balance on full repayment
	Payer string
}

// DebtChangeResult manage debt result
type DebtChangeResult struct {
	NewDebt           *uint256.Int
	EnabledTokensMask Mask
}

// CloseRequest close account request
type CloseRequest struct {
	Account string
	To      string
	// SkipTokensMask tokens left on the account instead of sent to To
	SkipTokensMask Mask
}

// LiquidateRequest liquidate account request
type LiquidateRequest struct {
	Account        string
	To             string
	Kind           LiquidationKind
	SkipTokensMask Mask
	// Payer covers a shortfall of the underlying against the payments
	Payer string
}

// ClosurePayments settlement amounts of a closure
type ClosurePayments struct {
	AmountToPool   *uint256.Int `json:"amount_to_pool"`
	RemainingFunds *uint256.Int `json:"remaining_funds"`
	Profit         *uint256.Int `json:"profit"`
	Loss           *uint256.Int `json:"loss"`
}

// IActiveAccount scoped authorization of adapter calls against one account
type IActiveAccount interface {
	Account() string
	Release()
}

// ICreditManager credit ledger interface
type ICreditManager interface {
	OpenAccount(ctx context.Context, caller, borrower string, debt *uint256.Int) (string, error)
	CloseAccount(ctx context.Context, caller string, req *CloseRequest) error
	LiquidateAccount(ctx context.Context, caller string, req *LiquidateRequest) (*ClosurePayments, error)
	ManageDebt(ctx context.Context, caller string, change *DebtChange) (*DebtChangeResult, error)
	AddCollateral(ctx context.Context, caller, payer, account, token string, amount *uint256.Int) (Mask, error)
	WithdrawCollateral(ctx context.Context, caller, account, token, to string, amount *uint256.Int) (Mask, error)
	UpdateQuota(ctx context.Context, caller, account, token string, change *big.Int, minQuota, maxQuota *uint256.Int) (*QuotaUpdate, error)
	FullCollateralCheck(ctx context.Context, caller, account string, hints []Mask, minHealthFactor uint16) error
	SetFlagFor(ctx context.Context, caller, account string, flag uint16, value bool) error

	SetActiveAccount(ctx context.Context, caller, account string) (IActiveAccount, error)
	Execute(ctx context.Context, adapter string, active IActiveAccount, data []byte) ([]byte, error)
	ApproveToken(ctx context.Context, adapter string, active IActiveAccount, token string, amount *uint256.Int) error

	CalcDebtAndCollateral(ctx context.Context, account string, task CalcTask) (*CollateralDebtData, error)
	IsLiquidatable(ctx context.Context, account string, minHealthFactor uint16) (bool, error)
	Account(ctx context.Context, address string) (*CreditAccount, error)
	Accounts(ctx context.Context) []string
}

package core

import "strconv"

// ErrorCode int
type ErrorCode int

// ErrorCategory groups error codes by how a caller should react
type ErrorCategory int

const (
	// CategoryUnknown unknown
	CategoryUnknown ErrorCategory = iota
	// CategoryAuthorization wrong caller, no state change
	CategoryAuthorization
	// CategoryValidation bad input, caller must correct and retry
	CategoryValidation
	// CategoryInvariant caller-layer bug, never swallowed
	CategoryInvariant
	// CategoryEconomic expected, recoverable by the caller
	CategoryEconomic
)

const (
	// ErrUnknown unkown
	ErrUnknown ErrorCode = 100000

	// ErrCallerNotFacade caller is not the facade
	ErrCallerNotFacade ErrorCode = 100100
	// ErrCallerNotConfigurator caller is not the configurator
	ErrCallerNotConfigurator ErrorCode = 100101
	// ErrCallerNotAdapter caller is not a registered adapter
	ErrCallerNotAdapter ErrorCode = 100102
	// ErrActiveAccountNotSet adapter call without an active account
	ErrActiveAccountNotSet ErrorCode = 100103

	// ErrZeroAddress empty identifier
	ErrZeroAddress ErrorCode = 100200
	// ErrTokenNotAllowed token not registered
	ErrTokenNotAllowed ErrorCode = 100201
	// ErrTokenAlreadyAdded token registered twice
	ErrTokenAlreadyAdded ErrorCode = 100202
	// ErrTooManyTokens mask space exhausted
	ErrTooManyTokens ErrorCode = 100203
	// ErrIncorrectParameter malformed parameter
	ErrIncorrectParameter ErrorCode = 100204
	// ErrInvalidCollateralHint hint is not a single bit mask
	ErrInvalidCollateralHint ErrorCode = 100205
	// ErrCustomHealthFactorTooLow min health factor below 100%
	ErrCustomHealthFactorTooLow ErrorCode = 100206
	// ErrTokenIsNotQuoted quota update for a non quoted token
	ErrTokenIsNotQuoted ErrorCode = 100207
	// ErrAccountNotFound no open account
	ErrAccountNotFound ErrorCode = 100208
	// ErrTooManyEnabledTokens enabled tokens above the limit
	ErrTooManyEnabledTokens ErrorCode = 100209
	// ErrTargetNotAllowed adapter has no linked target
	ErrTargetNotAllowed ErrorCode = 100210
	// ErrNotLiquidatable account is healthy and not expired
	ErrNotLiquidatable ErrorCode = 100211

	// ErrDebtUpdatedTwiceInOneBlock debt changed twice in one block
	ErrDebtUpdatedTwiceInOneBlock ErrorCode = 100300
	// ErrCloseAccountWithNonZeroDebt close before full repayment
	ErrCloseAccountWithNonZeroDebt ErrorCode = 100301
	// ErrIncreaseQuotaOnZeroDebt quota increase without debt
	ErrIncreaseQuotaOnZeroDebt ErrorCode = 100302
	// ErrActiveAccountOverridden active account already set
	ErrActiveAccountOverridden ErrorCode = 100303
	// ErrReentrancy mutating call while another one is in flight
	ErrReentrancy ErrorCode = 100304
	// ErrArithmeticOverflow value exceeds 256 bits
	ErrArithmeticOverflow ErrorCode = 100305
	// ErrInvalidIndex zero or decreasing cumulative index
	ErrInvalidIndex ErrorCode = 100306

	// ErrNotEnoughCollateral health check failed
	ErrNotEnoughCollateral ErrorCode = 100400
	// ErrInsufficientRemainingFunds underlying balance cannot cover liquidation payments
	ErrInsufficientRemainingFunds ErrorCode = 100401
	// ErrInsufficientBalance account balance too low
	ErrInsufficientBalance ErrorCode = 100402
)

var errorMessages = map[ErrorCode]string{
	ErrUnknown:                     "unknown error",
	ErrCallerNotFacade:             "caller is not the facade",
	ErrCallerNotConfigurator:       "caller is not the configurator",
	ErrCallerNotAdapter:            "caller is not an adapter",
	ErrActiveAccountNotSet:         "active account not set",
	ErrZeroAddress:                 "zero address",
	ErrTokenNotAllowed:             "token not allowed",
	ErrTokenAlreadyAdded:           "token already added",
	ErrTooManyTokens:               "too many tokens",
	ErrIncorrectParameter:          "incorrect parameter",
	ErrInvalidCollateralHint:       "invalid collateral hint",
	ErrCustomHealthFactorTooLow:    "custom health factor too low",
	ErrTokenIsNotQuoted:            "token is not quoted",
	ErrAccountNotFound:             "credit account not found",
	ErrTooManyEnabledTokens:        "too many enabled tokens",
	ErrTargetNotAllowed:            "target contract not allowed",
	ErrNotLiquidatable:             "credit account not liquidatable",
	ErrDebtUpdatedTwiceInOneBlock:  "debt updated twice in one block",
	ErrCloseAccountWithNonZeroDebt: "close account with non zero debt",
	ErrIncreaseQuotaOnZeroDebt:     "increase quota on zero debt account",
	ErrActiveAccountOverridden:     "active account overridden",
	ErrReentrancy:                  "reentrant call",
	ErrArithmeticOverflow:          "arithmetic overflow",
	ErrInvalidIndex:                "invalid cumulative index",
	ErrNotEnoughCollateral:         "not enough collateral",
	ErrInsufficientRemainingFunds:  "insufficient remaining funds",
	ErrInsufficientBalance:         "insufficient balance",
}

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	if msg, ok := errorMessages[e]; ok {
		return e.String() + " " + msg
	}
	return e.String()
}

// Category error category by code range
func (e ErrorCode) Category() ErrorCategory {
	switch e / 100 {
	case 1001:
		return CategoryAuthorization
	case 1002:
		return CategoryValidation
	case 1003:
		return CategoryInvariant
	case 1004:
		return CategoryEconomic
	}
	return CategoryUnknown
}

func (c ErrorCategory) String() string {
	switch c {
	case CategoryAuthorization:
		return "authorization"
	case CategoryValidation:
		return "validation"
	case CategoryInvariant:
		return "invariant"
	case CategoryEconomic:
		return "economic"
	}
	return "unknown"
}

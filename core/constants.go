package core

const (
	// PercentageFactor 100% in basis points
	PercentageFactor = 10_000

	// DustBalance raw units kept on an account per token; a balance at or
	// below it counts as empty
	DustBalance = 1

	// DefaultMaxEnabledTokens enabled tokens limit of a new ledger
	DefaultMaxEnabledTokens = 12
)

// Account flags
const (
	// FlagBotPermissions account granted bot permissions
	FlagBotPermissions uint16 = 1 << iota
	// FlagWithdrawalsPending account has scheduled withdrawals
	FlagWithdrawalsPending
)

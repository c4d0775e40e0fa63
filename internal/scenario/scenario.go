package scenario

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario ledger setup and the steps replayed against it
type Scenario struct {
	Ledger   Ledger    `yaml:"ledger"`
	Start    int64     `yaml:"start"`
	Pool     Pool      `yaml:"pool"`
	Prices   []Price   `yaml:"prices"`
	Tokens   []Token   `yaml:"tokens"`
	Balances []Balance `yaml:"balances"`
	Steps    []Step    `yaml:"steps"`
}

// Ledger ledger params
type Ledger struct {
	Name             string `yaml:"name"`
	Underlying       string `yaml:"underlying"`
	LTUnderlying     uint16 `yaml:"lt_underlying"`
	MaxEnabledTokens int    `yaml:"max_enabled_tokens"`
	ExpirationDate   int64  `yaml:"expiration_date"`
	Fees             Fees   `yaml:"fees"`
}

// Fees fee params in basis points
type Fees struct {
	Interest                   uint16 `yaml:"interest"`
	Liquidation                uint16 `yaml:"liquidation"`
	LiquidationDiscount        uint16 `yaml:"liquidation_discount"`
	LiquidationExpired         uint16 `yaml:"liquidation_expired"`
	LiquidationDiscountExpired uint16 `yaml:"liquidation_discount_expired"`
}

// Pool initial pool liquidity, raw units of the underlying
type Pool struct {
	Liquidity string `yaml:"liquidity"`
}

// Price price of one whole token
type Price struct {
	Token    string `yaml:"token"`
	Price    string `yaml:"price"`
	Decimals int32  `yaml:"decimals"`
}

// Token collateral token; a token with a quota section is quoted
type Token struct {
	Token        string `yaml:"token"`
	LT           uint16 `yaml:"lt"`
	LTFinal      uint16 `yaml:"lt_final"`
	RampStart    int64  `yaml:"ramp_start"`
	RampDuration uint32 `yaml:"ramp_duration"`
	Quota        *Quota `yaml:"quota"`
}

// Quota quota keeper settings of a quoted token
type Quota struct {
	Limit string `yaml:"limit"`
	Fee   uint16 `yaml:"fee"`
}

// Balance initial balance of a holder
type Balance struct {
	Holder string `yaml:"holder"`
	Token  string `yaml:"token"`
	Amount string `yaml:"amount"`
}

// Step one ledger operation. Account is the alias given on open. Expect,
// when set, is a fragment of the error the step must fail with.
type Step struct {
	Op              string   `yaml:"op"`
	Account         string   `yaml:"account"`
	Borrower        string   `yaml:"borrower"`
	Holder          string   `yaml:"holder"`
	Token           string   `yaml:"token"`
	Amount          string   `yaml:"amount"`
	To              string   `yaml:"to"`
	Payer           string   `yaml:"payer"`
	Price           string   `yaml:"price"`
	Decimals        int32    `yaml:"decimals"`
	Index           string   `yaml:"index"`
	Blocks          int64    `yaml:"blocks"`
	Seconds         int64    `yaml:"seconds"`
	MinHealthFactor uint16   `yaml:"min_health_factor"`
	Hints           []string `yaml:"hints"`
	Kind            string   `yaml:"kind"`
	Flag            string   `yaml:"flag"`
	Value           bool     `yaml:"value"`
	Expect          string   `yaml:"expect"`
}

// Parse decodes a yaml scenario
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}

	if sc.Ledger.Name == "" {
		sc.Ledger.Name = sc.Ledger.Underlying
	}
	return &sc, nil
}

// Load reads and decodes a yaml scenario file
func Load(file string) (*Scenario, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

package core

import (
	"github.com/fox-one/pkg/store/db"
)

// Config credit ledger config
type Config struct {
	App         App         `json:"app"`
	DB          db.Config   `json:"db"`
	PriceOracle PriceOracle `json:"price_oracle"`
	Ledger      Ledger      `json:"ledger"`
	Health      Health      `json:"health"`
}

// App app config
type App struct {
	Genesis         int64  `json:"genesis" valid:"required"`
	SecondsPerBlock int64  `json:"seconds_per_block"`
	Location        string `json:"location"`
}

// PriceOracle price oracle config
type PriceOracle struct {
	EndPoint     string `json:"end_point" valid:"url,optional"`
	CacheSeconds int64  `json:"cache_seconds"`
}

// Ledger ledger identity and roles
type Ledger struct {
	Name         string `json:"name" valid:"required"`
	Underlying   string `json:"underlying" valid:"required"`
	Facade       string `json:"facade"`
	Configurator string `json:"configurator" valid:"required"`
}

// Health health monitor config
type Health struct {
	Schedule        string `json:"schedule"`
	Concurrency     int    `json:"concurrency"`
	MinHealthFactor uint16 `json:"min_health_factor"`
}

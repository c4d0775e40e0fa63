package config

import (
	"creditmanager/core"
	"creditmanager/internal/credit"
)

const (
	defaultHealthSchedule    = "@every 1m"
	defaultHealthConcurrency = 8
	defaultLocation          = "UTC"
)

func defaultConfig(cfg *core.Config) {
	if cfg.App.SecondsPerBlock <= 0 {
		cfg.App.SecondsPerBlock = credit.DefaultSecondsPerBlock
	}

	if cfg.App.Location == "" {
		cfg.App.Location = defaultLocation
	}

	if cfg.Ledger.Name == "" {
		cfg.Ledger.Name = cfg.Ledger.Underlying
	}

	if cfg.Ledger.Facade == "" {
		cfg.Ledger.Facade = cfg.Ledger.Configurator
	}

	if cfg.Health.Schedule == "" {
		cfg.Health.Schedule = defaultHealthSchedule
	}

	if cfg.Health.Concurrency <= 0 {
		cfg.Health.Concurrency = defaultHealthConcurrency
	}

	if cfg.Health.MinHealthFactor < core.PercentageFactor {
		cfg.Health.MinHealthFactor = core.PercentageFactor
	}
}

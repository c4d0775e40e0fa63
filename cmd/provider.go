package cmd

import (
	"creditmanager/core"
	"creditmanager/service/block"
	"creditmanager/service/oracle"
	"creditmanager/worker/health"
)

func provideConfig() *core.Config {
	return &cfg
}

// ------------------service------------------------------------

func provideBlockService() core.IBlockService {
	return block.New(provideConfig())
}

func providePriceService() *oracle.PriceService {
	return oracle.New(provideConfig())
}

// ------------------worker-------------------------------------

func provideHealthWorker(ledger core.ICreditManager) *health.Worker {
	return health.New(provideConfig(), ledger)
}

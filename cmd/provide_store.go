package cmd

import (
	"creditmanager/core"
	"creditmanager/internal/scenario"
	"creditmanager/store/account"
	"creditmanager/store/param"
	"creditmanager/store/token"

	"github.com/fox-one/pkg/store/db"
)

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func provideAccountStore(db *db.DB) core.IAccountStore {
	return account.Cache(account.New(db))
}

func provideTokenStore(db *db.DB) core.ITokenStore {
	return token.New(db)
}

func provideParamStore(db *db.DB) core.IParamStore {
	return param.New(db)
}

func provideStores(db *db.DB) *scenario.Stores {
	return &scenario.Stores{
		Tokens:   provideTokenStore(db),
		Accounts: provideAccountStore(db),
		Params:   provideParamStore(db),
	}
}

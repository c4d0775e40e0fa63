package param

import (
	"context"
	"creditmanager/core"
	"fmt"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type paramStore struct {
	db *db.DB
}

// New new ledger params store
func New(db *db.DB) core.IParamStore {
	return &paramStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.LedgerParams{})
		if err := tx.AutoMigrate(core.LedgerParams{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *paramStore) Save(ctx context.Context, params *core.LedgerParams) error {
	if params.ID == 0 {
		return s.db.Update().Create(params).Error
	}

	version := params.Version
	tx := s.db.Update().Model(core.LedgerParams{}).
		Where("ledger=? AND version=?", params.Ledger, version).
		Updates(map[string]interface{}{
			"lt_underlying":                params.LTUnderlying,
			"quoted_tokens_mask":           params.QuotedTokensMask,
			"max_enabled_tokens":           params.MaxEnabledTokens,
			"expiration_date":              params.ExpirationDate,
			"fee_interest":                 params.FeeInterest,
			"fee_liquidation":              params.FeeLiquidation,
			"liquidation_discount":         params.LiquidationDiscount,
			"fee_liquidation_expired":      params.FeeLiquidationExpired,
			"liquidation_discount_expired": params.LiquidationDiscountExpired,
			"version":                      version + 1,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return fmt.Errorf("update params %s: version %d conflict", params.Ledger, version)
	}

	params.Version = version + 1
	return nil
}

// Find returns nil without error when the ledger has no params yet
func (s *paramStore) Find(ctx context.Context, ledger string) (*core.LedgerParams, error) {
	var params core.LedgerParams
	if err := s.db.View().Where("ledger=?", ledger).First(&params).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}

	return &params, nil
}

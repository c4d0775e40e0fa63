package token

import (
	"context"
	"creditmanager/core"
	"fmt"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type tokenStore struct {
	db *db.DB
}

// New new collateral token store
func New(db *db.DB) core.ITokenStore {
	return &tokenStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.CollateralToken{})
		if err := tx.AutoMigrate(core.CollateralToken{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *tokenStore) Save(ctx context.Context, token *core.CollateralToken) error {
	if token.ID == 0 {
		return s.db.Update().Create(token).Error
	}

	version := token.Version
	tx := s.db.Update().Model(core.CollateralToken{}).
		Where("token=? AND version=?", token.Token, version).
		Updates(map[string]interface{}{
			"lt_initial":    token.LTInitial,
			"lt_final":      token.LTFinal,
			"ramp_start":    token.RampStart,
			"ramp_duration": token.RampDuration,
			"version":       version + 1,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return fmt.Errorf("update token %s: version %d conflict", token.Token, version)
	}

	token.Version = version + 1
	return nil
}

func (s *tokenStore) Find(ctx context.Context, token string) (*core.CollateralToken, error) {
	var t core.CollateralToken
	if err := s.db.View().Where("token=?", token).First(&t).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, core.ErrTokenNotAllowed
		}
		return nil, err
	}

	return &t, nil
}

func (s *tokenStore) All(ctx context.Context) ([]*core.CollateralToken, error) {
	var tokens []*core.CollateralToken
	if err := s.db.View().Order("id").Find(&tokens).Error; err != nil {
		return nil, err
	}
	return tokens, nil
}

package account

import (
	"context"
	"creditmanager/core"
	"fmt"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type accountStore struct {
	db *db.DB
}

// New new credit account store
func New(db *db.DB) core.IAccountStore {
	return &accountStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.CreditAccount{})
		if err := tx.AutoMigrate(core.CreditAccount{}).Error; err != nil {
			return err
		}

		return nil
	})
}

// Save creates the record on first save, later saves update it under the
// version it was loaded with
func (s *accountStore) Save(ctx context.Context, account *core.CreditAccount) error {
	if account.ID == 0 {
		return s.db.Update().Create(account).Error
	}

	version := account.Version
	tx := s.db.Update().Model(core.CreditAccount{}).
		Where("address=? AND version=?", account.Address, version).
		Updates(map[string]interface{}{
			"borrower":                     account.Borrower,
			"debt":                         account.Debt,
			"cumulative_index_last_update": account.CumulativeIndexLastUpdate,
			"cumulative_quota_interest":    account.CumulativeQuotaInterest,
			"quota_fees":                   account.QuotaFees,
			"enabled_tokens_mask":          account.EnabledTokensMask,
			"flags":                        account.Flags,
			"open_block":                   account.OpenBlock,
			"last_debt_update":             account.LastDebtUpdate,
			"version":                      version + 1,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return fmt.Errorf("update credit account %s: version %d conflict", account.Address, version)
	}

	account.Version = version + 1
	return nil
}

func (s *accountStore) Find(ctx context.Context, address string) (*core.CreditAccount, error) {
	var account core.CreditAccount
	if err := s.db.View().Where("address=?", address).First(&account).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, core.ErrAccountNotFound
		}
		return nil, err
	}

	return &account, nil
}

func (s *accountStore) Delete(ctx context.Context, address string) error {
	return s.db.Update().Where("address=?", address).Delete(core.CreditAccount{}).Error
}

func (s *accountStore) All(ctx context.Context) ([]*core.CreditAccount, error) {
	var accounts []*core.CreditAccount
	if err := s.db.View().Order("id").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

func (s *accountStore) FindByBorrower(ctx context.Context, borrower string) ([]*core.CreditAccount, error) {
	var accounts []*core.CreditAccount
	if err := s.db.View().Where("borrower=?", borrower).Order("id").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

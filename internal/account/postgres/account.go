package postgres

import (
	"errors"

	"github.com/frahmantamala/lead-management/internal/account"
	accountDatamodel "github.com/frahmantamala/lead-management/internal/core/datamodel/account"
	"gorm.io/gorm"
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) account.RepositoryAPI {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) GetByEmail(email string) (*accountDatamodel.Account, error) {
	var acc accountDatamodel.Account
	err := r.db.Where("email = ?", email).First(&acc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &acc, nil
}

func (r *AccountRepository) Create(acc *accountDatamodel.Account) error {
	return r.db.Create(acc).Error
}

func (r *AccountRepository) List() ([]*accountDatamodel.Account, error) {
	var accounts []*accountDatamodel.Account
	err := r.db.Order("created_at ASC").Find(&accounts).Error
	return accounts, err
}

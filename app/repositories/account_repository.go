package repositories

import (
	"github.com/ordinalfs/ordinalfs/app/models"
	"github.com/ordinalfs/ordinalfs/pkg/orm"
)

// AccountRepository handles database operations for Account.
type AccountRepository struct{}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{}
}

// FindByEmail looks up an account by its email address.
func (r *AccountRepository) FindByEmail(email string) (models.Account, error) {
	var acct models.Account
	err := orm.DB().Model(&models.Account{}).Where("email = ?", email).First(&acct)
	return acct, err
}

// FindByID looks up an account by primary key.
func (r *AccountRepository) FindByID(id uint) (models.Account, error) {
	var acct models.Account
	err := orm.DB().Model(&models.Account{}).Where("id = ?", id).First(&acct)
	return acct, err
}

// Create persists a new account record.
func (r *AccountRepository) Create(acct *models.Account) error {
	return orm.DB().Create(acct)
}

// Update persists changes to an existing account.
func (r *AccountRepository) Update(acct *models.Account) error {
	return orm.DB().Save(acct)
}

// All returns all accounts with optional pagination.
func (r *AccountRepository) All(page, limit int) ([]models.Account, orm.Pagination, error) {
	var accts []models.Account
	pagination, err := orm.DB().Model(&models.Account{}).OrderBy("id", "desc").GetWithPagination(&accts, page, limit)
	return accts, pagination, err
}

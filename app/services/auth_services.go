package services

import (
	"errors"

	"github.com/ordinalfs/ordinalfs/app/models"
	"github.com/ordinalfs/ordinalfs/app/repositories"
	"github.com/ordinalfs/ordinalfs/pkg/auth"
	"github.com/ordinalfs/ordinalfs/pkg/orm"
)

type AuthService struct {
	accounts *repositories.AccountRepository
}

func NewAuthService() *AuthService {
	return &AuthService{accounts: repositories.NewAccountRepository()}
}

// Login looks up the account by email, verifies the password and returns a signed JWT.
func (s *AuthService) Login(email, password string) (token string, refresh string, err error) {
	acct, err := s.accounts.FindByEmail(email)
	if err != nil {
		return "", "", errors.New("invalid credentials")
	}

	if !auth.CheckPassword(acct.Password, password) {
		return "", "", errors.New("invalid credentials")
	}

	token, err = auth.GenerateToken(acct.ID, acct.Role)
	if err != nil {
		return "", "", err
	}

	refresh, err = auth.GenerateRefreshToken(acct.ID, acct.Role)
	return token, refresh, err
}

// Register creates a new account with a hashed password. The account's ID
// becomes the owner_id stamped on any vfs.Node the account later creates.
func (s *AuthService) Register(username, email, password string) (models.Account, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.Account{}, err
	}

	acct := models.Account{
		Username: username,
		Email:    email,
		Password: hash,
		Role:     "user",
	}

	if err := s.accounts.Create(&acct); err != nil {
		return models.Account{}, err
	}

	return acct, nil
}

// Profile loads an account by primary key.
func (s *AuthService) Profile(id uint) (models.Account, error) {
	return s.accounts.FindByID(id)
}

// UpdateProfile updates the mutable fields of an account.
func (s *AuthService) UpdateProfile(id uint, username string) (models.Account, error) {
	acct, err := s.Profile(id)
	if err != nil {
		return models.Account{}, err
	}
	if username != "" {
		acct.Username = username
	}
	if err := s.accounts.Update(&acct); err != nil {
		return models.Account{}, err
	}
	return acct, nil
}

// ListAccounts returns a page of accounts, newest first, for the admin
// account-directory route.
func (s *AuthService) ListAccounts(page, limit int) ([]models.Account, orm.Pagination, error) {
	return s.accounts.All(page, limit)
}

// Package account is admin side account management: everything about accounts except tokens
package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/nkiryanov/streamhub/internal/apperrors"
	"github.com/nkiryanov/streamhub/internal/models"
	"github.com/nkiryanov/streamhub/internal/repository"
	"github.com/nkiryanov/streamhub/internal/service/auth"
	"github.com/nkiryanov/streamhub/internal/service/validate"
)

type AccountService struct {
	hasher   auth.PasswordHasher
	accounts repository.AccountRepo
}

func NewService(hasher auth.PasswordHasher, accounts repository.AccountRepo) *AccountService {
	if hasher == nil {
		hasher = auth.DefaultHasher
	}

	return &AccountService{
		hasher:   hasher,
		accounts: accounts,
	}
}

// Create account with explicit (or default) role. No tokens issued
func (s *AccountService) Create(ctx context.Context, params auth.RegisterParams) (models.Account, error) {
	create, err := auth.NewAccount(s.hasher, params)
	if err != nil {
		return models.Account{}, err
	}

	account, err := s.accounts.CreateAccount(ctx, create)
	if err != nil {
		return account, fmt.Errorf("can't create account: %w", err)
	}

	return account, nil
}

func (s *AccountService) Get(ctx context.Context, id uuid.UUID) (models.Account, error) {
	return s.accounts.GetAccountByID(ctx, id)
}

func (s *AccountService) GetByEmail(ctx context.Context, email string) (models.Account, error) {
	return s.accounts.GetAccountByEmail(ctx, email)
}

func (s *AccountService) List(ctx context.Context, page models.Page) ([]models.Account, error) {
	return s.accounts.ListAccounts(ctx, page)
}

func (s *AccountService) ListByRole(ctx context.Context, role string, page models.Page) ([]models.Account, error) {
	r, err := models.ParseRole(role)
	if err != nil {
		return nil, err
	}
	return s.accounts.ListAccountsByRole(ctx, r, page)
}

func (s *AccountService) Count(ctx context.Context) (int, error) {
	return s.accounts.CountAccounts(ctx)
}

type UpdateParams struct {
	Name  *string
	Email *string

	// Role is accepted only to be rejected: role can't be changed by update
	Role *string
}

// Update changes profile fields (name, email)
// Any role in params fails with apperrors.ErrRoleChangeForbidden
func (s *AccountService) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (models.Account, error) {
	if params.Role != nil {
		return models.Account{}, apperrors.ErrRoleChangeForbidden
	}

	var patch models.AccountPatch

	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if err := validate.Name(name); err != nil {
			return models.Account{}, err
		}
		patch.Name = &name
	}

	if params.Email != nil {
		email := models.NormalizeEmail(*params.Email)
		if err := validate.Email(email); err != nil {
			return models.Account{}, err
		}
		patch.Email = &email
	}

	if patch.Name == nil && patch.Email == nil {
		return models.Account{}, fmt.Errorf("%w: nothing to update", apperrors.ErrValidation)
	}

	return s.accounts.UpdateAccount(ctx, id, patch)
}

func (s *AccountService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.accounts.DeleteAccount(ctx, id)
}

package memory

import (
	"bytes"
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/nkiryanov/streamhub/internal/apperrors"
	"github.com/nkiryanov/streamhub/internal/models"
)

type AccountRepo struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]models.Account
	byEmail map[string]uuid.UUID
}

func NewAccountRepo() *AccountRepo {
	return &AccountRepo{
		byID:    make(map[uuid.UUID]models.Account),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (r *AccountRepo) CreateAccount(_ context.Context, create models.AccountCreate) (models.Account, error) {
	email := models.NormalizeEmail(create.Email)
	ts := now()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[email]; ok {
		return models.Account{}, apperrors.ErrAccountAlreadyExists
	}

	a := models.Account{
		ID:           uuid.New(),
		Email:        email,
		Name:         create.Name,
		PasswordHash: create.PasswordHash,
		Role:         create.Role,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	r.byID[a.ID] = a
	r.byEmail[email] = a.ID

	return a, nil
}

func (r *AccountRepo) GetAccountByID(_ context.Context, id uuid.UUID) (models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return models.Account{}, apperrors.ErrAccountNotFound
	}
	return a, nil
}

func (r *AccountRepo) GetAccountByEmail(_ context.Context, email string) (models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[models.NormalizeEmail(email)]
	if !ok {
		return models.Account{}, apperrors.ErrAccountNotFound
	}
	return r.byID[id], nil
}

func (r *AccountRepo) ListAccounts(_ context.Context, page models.Page) ([]models.Account, error) {
	return r.list(func(models.Account) bool { return true }, page), nil
}

func (r *AccountRepo) ListAccountsByRole(_ context.Context, role models.Role, page models.Page) ([]models.Account, error) {
	return r.list(func(a models.Account) bool { return a.Role == role }, page), nil
}

func (r *AccountRepo) list(match func(models.Account) bool, page models.Page) []models.Account {
	page = page.Normalize()

	r.mu.RLock()
	accounts := make([]models.Account, 0, len(r.byID))
	for _, a := range r.byID {
		if match(a) {
			accounts = append(accounts, a)
		}
	}
	r.mu.RUnlock()

	slices.SortFunc(accounts, func(a, b models.Account) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return bytes.Compare(a.ID[:], b.ID[:])
	})

	return paginate(accounts, page.Limit, page.Offset)
}

func (r *AccountRepo) CountAccounts(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byID), nil
}

func (r *AccountRepo) UpdateAccount(_ context.Context, id uuid.UUID, patch models.AccountPatch) (models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return models.Account{}, apperrors.ErrAccountNotFound
	}

	if patch.Email != nil {
		email := models.NormalizeEmail(*patch.Email)
		if owner, taken := r.byEmail[email]; taken && owner != id {
			return models.Account{}, apperrors.ErrAccountAlreadyExists
		}
		delete(r.byEmail, a.Email)
		r.byEmail[email] = id
		a.Email = email
	}
	if patch.Name != nil {
		a.Name = *patch.Name
	}

	a.UpdatedAt = now()
	r.byID[id] = a

	return a, nil
}

func (r *AccountRepo) DeleteAccount(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return apperrors.ErrAccountNotFound
	}

	delete(r.byID, id)
	delete(r.byEmail, a.Email)

	return nil
}

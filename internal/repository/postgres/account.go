package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nkiryanov/streamhub/internal/apperrors"
	"github.com/nkiryanov/streamhub/internal/models"
)

type AccountRepo struct {
	DB DBTX
}

const accountColumns = `id, email, name, password_hash, role, created_at, updated_at`

const createAccount = `-- name: CreateAccount
INSERT INTO accounts (id, email, name, password_hash, role)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + accountColumns

func (r *AccountRepo) CreateAccount(ctx context.Context, create models.AccountCreate) (models.Account, error) {
	rows, _ := r.DB.Query(ctx, createAccount, uuid.New(), create.Email, create.Name, create.PasswordHash, string(create.Role))
	account, err := pgx.CollectOneRow(rows, rowToAccount)

	if err != nil {
		if isUniqueViolation(err) {
			return account, apperrors.ErrAccountAlreadyExists
		}

		return account, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

const getAccountByID = `-- name: GetAccountByID
SELECT ` + accountColumns + ` FROM accounts
WHERE id = $1
`

func (r *AccountRepo) GetAccountByID(ctx context.Context, id uuid.UUID) (models.Account, error) {
	rows, _ := r.DB.Query(ctx, getAccountByID, id)
	return collectAccount(rows)
}

const getAccountByEmail = `-- name: GetAccountByEmail
SELECT ` + accountColumns + ` FROM accounts
WHERE email = $1
`

func (r *AccountRepo) GetAccountByEmail(ctx context.Context, email string) (models.Account, error) {
	rows, _ := r.DB.Query(ctx, getAccountByEmail, models.NormalizeEmail(email))
	return collectAccount(rows)
}

const listAccounts = `-- name: ListAccounts
SELECT ` + accountColumns + ` FROM accounts
WHERE ($1::text = '' OR role = $1)
ORDER BY created_at DESC, id
LIMIT $2 OFFSET $3
`

func (r *AccountRepo) ListAccounts(ctx context.Context, page models.Page) ([]models.Account, error) {
	return r.list(ctx, "", page)
}

func (r *AccountRepo) ListAccountsByRole(ctx context.Context, role models.Role, page models.Page) ([]models.Account, error) {
	return r.list(ctx, string(role), page)
}

func (r *AccountRepo) list(ctx context.Context, role string, page models.Page) ([]models.Account, error) {
	page = page.Normalize()

	rows, _ := r.DB.Query(ctx, listAccounts, role, page.Limit, page.Offset)
	accounts, err := pgx.CollectRows(rows, rowToAccount)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return accounts, nil
}

const countAccounts = `-- name: CountAccounts
SELECT count(*) FROM accounts
`

func (r *AccountRepo) CountAccounts(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.QueryRow(ctx, countAccounts).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return n, nil
}

const updateAccount = `-- name: UpdateAccount
UPDATE accounts
SET name = COALESCE($2, name),
    email = COALESCE($3, email),
    updated_at = now()
WHERE id = $1
RETURNING ` + accountColumns

func (r *AccountRepo) UpdateAccount(ctx context.Context, id uuid.UUID, patch models.AccountPatch) (models.Account, error) {
	var email *string
	if patch.Email != nil {
		normalized := models.NormalizeEmail(*patch.Email)
		email = &normalized
	}

	rows, _ := r.DB.Query(ctx, updateAccount, id, patch.Name, email)
	account, err := collectAccount(rows)
	if err != nil && isUniqueViolation(err) {
		return account, apperrors.ErrAccountAlreadyExists
	}

	return account, err
}

const deleteAccount = `-- name: DeleteAccount
DELETE FROM accounts
WHERE id = $1
`

func (r *AccountRepo) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deleteAccount, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrAccountNotFound
	}

	return nil
}

func collectAccount(rows pgx.Rows) (models.Account, error) {
	account, err := pgx.CollectOneRow(rows, rowToAccount)

	switch {
	case err == nil:
		return account, nil
	case errors.Is(err, pgx.ErrNoRows):
		return account, apperrors.ErrAccountNotFound
	default:
		return account, fmt.Errorf("db error: %w", err)
	}
}

func rowToAccount(row pgx.CollectableRow) (models.Account, error) {
	var (
		a    models.Account
		role string
	)

	err := row.Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash, &role, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return a, err
	}

	a.Role, err = models.ParseRole(role)
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()

	return a, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

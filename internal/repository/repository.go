package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/nkiryanov/streamhub/internal/models"
)

// Account repository interface. The credential store of the service
type AccountRepo interface {
	// Create account
	// If account with the email exists already has to return error apperrors.ErrAccountAlreadyExists
	CreateAccount(ctx context.Context, create models.AccountCreate) (models.Account, error)

	// Get account by it's id or (normalized) email
	// If account not found must return apperrors.ErrAccountNotFound
	GetAccountByID(ctx context.Context, id uuid.UUID) (models.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (models.Account, error)

	// List accounts, newest first
	ListAccounts(ctx context.Context, page models.Page) ([]models.Account, error)
	ListAccountsByRole(ctx context.Context, role models.Role, page models.Page) ([]models.Account, error)
	CountAccounts(ctx context.Context) (int, error)

	// Update name and/or email. Bumps updated_at
	// Must return apperrors.ErrAccountNotFound or apperrors.ErrAccountAlreadyExists (email taken)
	UpdateAccount(ctx context.Context, id uuid.UUID, patch models.AccountPatch) (models.Account, error)

	// If account not found must return apperrors.ErrAccountNotFound
	DeleteAccount(ctx context.Context, id uuid.UUID) error
}

// Video repository interface
type VideoRepo interface {
	CreateVideo(ctx context.Context, create models.VideoCreate) (models.Video, error)

	// If video not found must return apperrors.ErrVideoNotFound
	GetVideo(ctx context.Context, id uuid.UUID) (models.Video, error)

	// List videos matched by filter, newest first
	ListVideos(ctx context.Context, filter models.VideoFilter, page models.Page) ([]models.Video, error)
	CountVideos(ctx context.Context, filter models.VideoFilter) (int, error)

	// Partial update. Bumps updated_at. Must return apperrors.ErrVideoNotFound
	UpdateVideo(ctx context.Context, id uuid.UUID, patch models.VideoPatch) (models.Video, error)

	// If video not found must return apperrors.ErrVideoNotFound
	DeleteVideo(ctx context.Context, id uuid.UUID) error
}

type Storage interface {
	Account() AccountRepo
	Video() VideoRepo
}

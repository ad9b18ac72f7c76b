package handlers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nkiryanov/streamhub/internal/models"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=3,max=128"`
	Name     string `json:"name" validate:"required,max=100"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type registerResponse struct {
	models.TokenPair
	User models.AccountSummary `json:"user"`
}

type updateUserRequest struct {
	Name  *string `json:"name" validate:"omitempty,max=100"`
	Email *string `json:"email" validate:"omitempty,email,max=254"`
	Role  *string `json:"role"`
}

type userResponse struct {
	ID        uuid.UUID   `json:"id"`
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	Role      models.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func newUserResponse(a models.Account) userResponse {
	return userResponse{
		ID:        a.ID,
		Email:     a.Email,
		Name:      a.Name,
		Role:      a.Role,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func newUserList(accounts []models.Account) []userResponse {
	list := make([]userResponse, 0, len(accounts))
	for _, a := range accounts {
		list = append(list, newUserResponse(a))
	}
	return list
}

type createVideoRequest struct {
	Title           string  `json:"title" validate:"required,max=200"`
	Description     string  `json:"description" validate:"max=5000"`
	DurationSeconds int     `json:"duration_seconds" validate:"min=0"`
	ReleaseYear     *int    `json:"release_year"`
	Genre           string  `json:"genre" validate:"max=50"`
	ThumbnailURL    *string `json:"thumbnail_url" validate:"omitempty,url"`
	VideoURL        *string `json:"video_url" validate:"omitempty,url"`
	TrailerURL      *string `json:"trailer_url" validate:"omitempty,url"`
}

func (req createVideoRequest) toModel() models.VideoCreate {
	return models.VideoCreate{
		Title:           req.Title,
		Description:     req.Description,
		DurationSeconds: req.DurationSeconds,
		ReleaseYear:     req.ReleaseYear,
		Genre:           req.Genre,
		ThumbnailURL:    req.ThumbnailURL,
		VideoURL:        req.VideoURL,
		TrailerURL:      req.TrailerURL,
	}
}

// Every field is optional. Rating accepts both 8.5 and "8.5"
type updateVideoRequest struct {
	Title           *string          `json:"title" validate:"omitempty,max=200"`
	Description     *string          `json:"description" validate:"omitempty,max=5000"`
	DurationSeconds *int             `json:"duration_seconds" validate:"omitempty,min=0"`
	ReleaseYear     *int             `json:"release_year"`
	Rating          *decimal.Decimal `json:"rating"`
	Genre           *string          `json:"genre" validate:"omitempty,max=50"`
	ThumbnailURL    *string          `json:"thumbnail_url" validate:"omitempty,url"`
	VideoURL        *string          `json:"video_url" validate:"omitempty,url"`
	TrailerURL      *string          `json:"trailer_url" validate:"omitempty,url"`
	IsFeatured      *bool            `json:"is_featured"`
	IsAvailable     *bool            `json:"is_available"`
}

func (req updateVideoRequest) toModel() models.VideoPatch {
	return models.VideoPatch{
		Title:           req.Title,
		Description:     req.Description,
		DurationSeconds: req.DurationSeconds,
		ReleaseYear:     req.ReleaseYear,
		Rating:          req.Rating,
		Genre:           req.Genre,
		ThumbnailURL:    req.ThumbnailURL,
		VideoURL:        req.VideoURL,
		TrailerURL:      req.TrailerURL,
		IsFeatured:      req.IsFeatured,
		IsAvailable:     req.IsAvailable,
	}
}

type videoResponse struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	DurationSeconds int       `json:"duration_seconds"`
	ReleaseYear     *int      `json:"release_year"`
	Rating          float64   `json:"rating"`
	Genre           string    `json:"genre"`
	ThumbnailURL    *string   `json:"thumbnail_url"`
	VideoURL        *string   `json:"video_url"`
	TrailerURL      *string   `json:"trailer_url"`
	IsFeatured      bool      `json:"is_featured"`
	IsAvailable     bool      `json:"is_available"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func newVideoResponse(v models.Video) videoResponse {
	return videoResponse{
		ID:              v.ID,
		Title:           v.Title,
		Description:     v.Description,
		DurationSeconds: v.DurationSeconds,
		ReleaseYear:     v.ReleaseYear,
		Rating:          v.Rating.InexactFloat64(),
		Genre:           v.Genre,
		ThumbnailURL:    v.ThumbnailURL,
		VideoURL:        v.VideoURL,
		TrailerURL:      v.TrailerURL,
		IsFeatured:      v.IsFeatured,
		IsAvailable:     v.IsAvailable,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
}

func newVideoList(videos []models.Video) []videoResponse {
	list := make([]videoResponse, 0, len(videos))
	for _, v := range videos {
		list = append(list, newVideoResponse(v))
	}
	return list
}

type messageResponse struct {
	Message string `json:"message"`
}

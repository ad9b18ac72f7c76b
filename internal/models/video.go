package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Video struct {
	ID              uuid.UUID
	Title           string
	Description     string
	DurationSeconds int
	ReleaseYear     *int
	Rating          decimal.Decimal
	Genre           string
	ThumbnailURL    *string
	VideoURL        *string
	TrailerURL      *string
	IsFeatured      bool
	IsAvailable     bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// VideoCreate holds fields an admin sets on upload.
// New videos always start with zero rating, not featured and available
type VideoCreate struct {
	Title           string
	Description     string
	DurationSeconds int
	ReleaseYear     *int
	Genre           string
	ThumbnailURL    *string
	VideoURL        *string
	TrailerURL      *string
}

// VideoPatch is a partial update. Nil means "leave as is"
type VideoPatch struct {
	Title           *string
	Description     *string
	DurationSeconds *int
	ReleaseYear     *int
	Rating          *decimal.Decimal
	Genre           *string
	ThumbnailURL    *string
	VideoURL        *string
	TrailerURL      *string
	IsFeatured      *bool
	IsAvailable     *bool
}

// VideoFilter narrows video listing. Zero value lists everything
type VideoFilter struct {
	AvailableOnly bool
	FeaturedOnly  bool
	TitleContains string
}

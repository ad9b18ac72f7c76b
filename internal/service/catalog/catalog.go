package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nkiryanov/streamhub/internal/apperrors"
	"github.com/nkiryanov/streamhub/internal/models"
	"github.com/nkiryanov/streamhub/internal/repository"
)

const (
	MaxTitleLen = 200
	MinYear     = 1888 // the first film ever made
)

var maxRating = decimal.NewFromInt(10)

// Catalog service: admin side video management and viewer side catalog
type CatalogService struct {
	videos repository.VideoRepo
	now    func() time.Time
}

func NewService(videos repository.VideoRepo) *CatalogService {
	return &CatalogService{videos: videos, now: time.Now}
}

// Create video. New videos are available, not featured and have zero rating
func (s *CatalogService) Create(ctx context.Context, c models.VideoCreate) (models.Video, error) {
	c.Title = strings.TrimSpace(c.Title)
	c.Genre = strings.TrimSpace(c.Genre)

	if err := s.checkTitle(c.Title); err != nil {
		return models.Video{}, err
	}
	if err := checkDuration(c.DurationSeconds); err != nil {
		return models.Video{}, err
	}
	if err := s.checkYear(c.ReleaseYear); err != nil {
		return models.Video{}, err
	}

	video, err := s.videos.CreateVideo(ctx, c)
	if err != nil {
		return video, fmt.Errorf("can't create video: %w", err)
	}

	return video, nil
}

// Get any video, available or not
func (s *CatalogService) Get(ctx context.Context, id uuid.UUID) (models.Video, error) {
	return s.videos.GetVideo(ctx, id)
}

// List every video, available or not
func (s *CatalogService) List(ctx context.Context, page models.Page) ([]models.Video, error) {
	return s.videos.ListVideos(ctx, models.VideoFilter{}, page)
}

// Update video partially
func (s *CatalogService) Update(ctx context.Context, id uuid.UUID, p models.VideoPatch) (models.Video, error) {
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if err := s.checkTitle(title); err != nil {
			return models.Video{}, err
		}
		p.Title = &title
	}
	if p.DurationSeconds != nil {
		if err := checkDuration(*p.DurationSeconds); err != nil {
			return models.Video{}, err
		}
	}
	if err := s.checkYear(p.ReleaseYear); err != nil {
		return models.Video{}, err
	}
	if p.Rating != nil {
		if p.Rating.IsNegative() || p.Rating.GreaterThan(maxRating) {
			return models.Video{}, fmt.Errorf("%w: rating must be in [0, 10]", apperrors.ErrValidation)
		}
		rounded := p.Rating.Round(1)
		p.Rating = &rounded
	}

	return s.videos.UpdateVideo(ctx, id, p)
}

func (s *CatalogService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.videos.DeleteVideo(ctx, id)
}

// Catalog lists videos viewers may watch
func (s *CatalogService) Catalog(ctx context.Context, page models.Page) ([]models.Video, error) {
	return s.videos.ListVideos(ctx, models.VideoFilter{AvailableOnly: true}, page)
}

func (s *CatalogService) Featured(ctx context.Context, page models.Page) ([]models.Video, error) {
	return s.videos.ListVideos(ctx, models.VideoFilter{AvailableOnly: true, FeaturedOnly: true}, page)
}

// Search available videos by title substring, case-insensitive
func (s *CatalogService) Search(ctx context.Context, title string, page models.Page) ([]models.Video, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title to search is required", apperrors.ErrValidation)
	}
	return s.videos.ListVideos(ctx, models.VideoFilter{AvailableOnly: true, TitleContains: title}, page)
}

// GetAvailable returns video only if viewers may watch it
func (s *CatalogService) GetAvailable(ctx context.Context, id uuid.UUID) (models.Video, error) {
	video, err := s.videos.GetVideo(ctx, id)
	if err != nil {
		return video, err
	}
	if !video.IsAvailable {
		return models.Video{}, apperrors.ErrVideoNotFound
	}
	return video, nil
}

// CountAvailable counts videos viewers may watch
func (s *CatalogService) CountAvailable(ctx context.Context) (int, error) {
	return s.videos.CountVideos(ctx, models.VideoFilter{AvailableOnly: true})
}

func (s *CatalogService) checkTitle(title string) error {
	if title == "" || len(title) > MaxTitleLen {
		return fmt.Errorf("%w: title is required and must be shorter than %d", apperrors.ErrValidation, MaxTitleLen)
	}
	return nil
}

func (s *CatalogService) checkYear(year *int) error {
	if year == nil {
		return nil
	}
	if *year < MinYear || *year > s.now().Year()+5 {
		return fmt.Errorf("%w: release year %d is out of range", apperrors.ErrValidation, *year)
	}
	return nil
}

func checkDuration(seconds int) error {
	if seconds < 0 {
		return fmt.Errorf("%w: duration must not be negative", apperrors.ErrValidation)
	}
	return nil
}

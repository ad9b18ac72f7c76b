package memory

import (
	"bytes"
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/nkiryanov/streamhub/internal/apperrors"
	"github.com/nkiryanov/streamhub/internal/models"
)

type VideoRepo struct {
	mu     sync.RWMutex
	videos map[uuid.UUID]models.Video
}

func NewVideoRepo() *VideoRepo {
	return &VideoRepo{videos: make(map[uuid.UUID]models.Video)}
}

func (r *VideoRepo) CreateVideo(_ context.Context, c models.VideoCreate) (models.Video, error) {
	ts := now()
	v := models.Video{
		ID:              uuid.New(),
		Title:           c.Title,
		Description:     c.Description,
		DurationSeconds: c.DurationSeconds,
		ReleaseYear:     clonePtr(c.ReleaseYear),
		Genre:           c.Genre,
		ThumbnailURL:    clonePtr(c.ThumbnailURL),
		VideoURL:        clonePtr(c.VideoURL),
		TrailerURL:      clonePtr(c.TrailerURL),
		IsAvailable:     true,
		CreatedAt:       ts,
		UpdatedAt:       ts,
	}

	r.mu.Lock()
	r.videos[v.ID] = v
	r.mu.Unlock()

	return v, nil
}

func (r *VideoRepo) GetVideo(_ context.Context, id uuid.UUID) (models.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.videos[id]
	if !ok {
		return models.Video{}, apperrors.ErrVideoNotFound
	}
	return v, nil
}

func (r *VideoRepo) ListVideos(_ context.Context, filter models.VideoFilter, page models.Page) ([]models.Video, error) {
	page = page.Normalize()

	videos := r.filter(filter)
	slices.SortFunc(videos, func(a, b models.Video) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return bytes.Compare(a.ID[:], b.ID[:])
	})

	return paginate(videos, page.Limit, page.Offset), nil
}

func (r *VideoRepo) CountVideos(_ context.Context, filter models.VideoFilter) (int, error) {
	return len(r.filter(filter)), nil
}

func (r *VideoRepo) filter(f models.VideoFilter) []models.Video {
	title := strings.ToLower(f.TitleContains)

	r.mu.RLock()
	defer r.mu.RUnlock()

	videos := make([]models.Video, 0, len(r.videos))
	for _, v := range r.videos {
		switch {
		case f.AvailableOnly && !v.IsAvailable:
			continue
		case f.FeaturedOnly && !v.IsFeatured:
			continue
		case title != "" && !strings.Contains(strings.ToLower(v.Title), title):
			continue
		}
		videos = append(videos, v)
	}

	return videos
}

func (r *VideoRepo) UpdateVideo(_ context.Context, id uuid.UUID, p models.VideoPatch) (models.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.videos[id]
	if !ok {
		return models.Video{}, apperrors.ErrVideoNotFound
	}

	setIf(&v.Title, p.Title)
	setIf(&v.Description, p.Description)
	setIf(&v.DurationSeconds, p.DurationSeconds)
	setIf(&v.Rating, p.Rating)
	setIf(&v.Genre, p.Genre)
	setIf(&v.IsFeatured, p.IsFeatured)
	setIf(&v.IsAvailable, p.IsAvailable)
	if p.ReleaseYear != nil {
		v.ReleaseYear = clonePtr(p.ReleaseYear)
	}
	if p.ThumbnailURL != nil {
		v.ThumbnailURL = clonePtr(p.ThumbnailURL)
	}
	if p.VideoURL != nil {
		v.VideoURL = clonePtr(p.VideoURL)
	}
	if p.TrailerURL != nil {
		v.TrailerURL = clonePtr(p.TrailerURL)
	}

	v.UpdatedAt = now()
	r.videos[id] = v

	return v, nil
}

func (r *VideoRepo) DeleteVideo(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.videos[id]; !ok {
		return apperrors.ErrVideoNotFound
	}
	delete(r.videos, id)

	return nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

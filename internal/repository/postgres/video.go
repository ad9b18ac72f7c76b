package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/nkiryanov/streamhub/internal/apperrors"
	"github.com/nkiryanov/streamhub/internal/models"
)

type VideoRepo struct {
	DB DBTX
}

const videoColumns = `id, title, description, duration_seconds, release_year, rating, genre,
	thumbnail_url, video_url, trailer_url, is_featured, is_available, created_at, updated_at`

const createVideo = `-- name: CreateVideo
INSERT INTO videos (id, title, description, duration_seconds, release_year, genre, thumbnail_url, video_url, trailer_url)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + videoColumns

func (r *VideoRepo) CreateVideo(ctx context.Context, c models.VideoCreate) (models.Video, error) {
	rows, _ := r.DB.Query(ctx, createVideo,
		uuid.New(), c.Title, c.Description, c.DurationSeconds, c.ReleaseYear, c.Genre, c.ThumbnailURL, c.VideoURL, c.TrailerURL,
	)

	video, err := pgx.CollectOneRow(rows, rowToVideo)
	if err != nil {
		return video, fmt.Errorf("db error: %w", err)
	}

	return video, nil
}

const getVideo = `-- name: GetVideo
SELECT ` + videoColumns + ` FROM videos
WHERE id = $1
`

func (r *VideoRepo) GetVideo(ctx context.Context, id uuid.UUID) (models.Video, error) {
	rows, _ := r.DB.Query(ctx, getVideo, id)
	return collectVideo(rows)
}

// Filter params: $1 available only, $2 featured only, $3 title pattern (empty for any)
const videoFilter = `
WHERE ($1::bool = false OR is_available)
  AND ($2::bool = false OR is_featured)
  AND ($3::text = '' OR title ILIKE '%' || $3 || '%')
`

const listVideos = `-- name: ListVideos
SELECT ` + videoColumns + ` FROM videos` + videoFilter + `
ORDER BY created_at DESC, id
LIMIT $4 OFFSET $5
`

func (r *VideoRepo) ListVideos(ctx context.Context, filter models.VideoFilter, page models.Page) ([]models.Video, error) {
	page = page.Normalize()

	rows, _ := r.DB.Query(ctx, listVideos,
		filter.AvailableOnly, filter.FeaturedOnly, escapeLike(filter.TitleContains), page.Limit, page.Offset,
	)

	videos, err := pgx.CollectRows(rows, rowToVideo)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return videos, nil
}

const countVideos = `-- name: CountVideos
SELECT count(*) FROM videos` + videoFilter

func (r *VideoRepo) CountVideos(ctx context.Context, filter models.VideoFilter) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, countVideos, filter.AvailableOnly, filter.FeaturedOnly, escapeLike(filter.TitleContains)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return n, nil
}

const updateVideo = `-- name: UpdateVideo
UPDATE videos
SET title = COALESCE($2, title),
    description = COALESCE($3, description),
    duration_seconds = COALESCE($4, duration_seconds),
    release_year = COALESCE($5, release_year),
    rating = COALESCE($6, rating),
    genre = COALESCE($7, genre),
    thumbnail_url = COALESCE($8, thumbnail_url),
    video_url = COALESCE($9, video_url),
    trailer_url = COALESCE($10, trailer_url),
    is_featured = COALESCE($11, is_featured),
    is_available = COALESCE($12, is_available),
    updated_at = now()
WHERE id = $1
RETURNING ` + videoColumns

func (r *VideoRepo) UpdateVideo(ctx context.Context, id uuid.UUID, p models.VideoPatch) (models.Video, error) {
	rows, _ := r.DB.Query(ctx, updateVideo, id,
		p.Title, p.Description, p.DurationSeconds, p.ReleaseYear, p.Rating, p.Genre,
		p.ThumbnailURL, p.VideoURL, p.TrailerURL, p.IsFeatured, p.IsAvailable,
	)

	return collectVideo(rows)
}

const deleteVideo = `-- name: DeleteVideo
DELETE FROM videos
WHERE id = $1
`

func (r *VideoRepo) DeleteVideo(ctx context.Context, id uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deleteVideo, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrVideoNotFound
	}

	return nil
}

func collectVideo(rows pgx.Rows) (models.Video, error) {
	video, err := pgx.CollectOneRow(rows, rowToVideo)

	switch {
	case err == nil:
		return video, nil
	case errors.Is(err, pgx.ErrNoRows):
		return video, apperrors.ErrVideoNotFound
	default:
		return video, fmt.Errorf("db error: %w", err)
	}
}

func rowToVideo(row pgx.CollectableRow) (models.Video, error) {
	var v models.Video
	err := row.Scan(
		&v.ID, &v.Title, &v.Description, &v.DurationSeconds, &v.ReleaseYear, &v.Rating, &v.Genre,
		&v.ThumbnailURL, &v.VideoURL, &v.TrailerURL, &v.IsFeatured, &v.IsAvailable, &v.CreatedAt, &v.UpdatedAt,
	)
	v.CreatedAt = v.CreatedAt.UTC()
	v.UpdatedAt = v.UpdatedAt.UTC()
	return v, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user input match literally inside ILIKE pattern
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

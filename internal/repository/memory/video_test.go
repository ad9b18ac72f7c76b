package memory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/streamhub/internal/apperrors"
	"github.com/nkiryanov/streamhub/internal/models"
)

func Test_VideoRepo(t *testing.T) {
	t.Run("create with defaults", func(t *testing.T) {
		r := NewVideoRepo()
		year := 1999

		v, err := r.CreateVideo(t.Context(), models.VideoCreate{Title: "The Matrix", DurationSeconds: 8160, ReleaseYear: &year})
		require.NoError(t, err)

		year = 2000
		got, err := r.GetVideo(t.Context(), v.ID)
		require.NoError(t, err)
		assert.Equal(t, 1999, *got.ReleaseYear, "store keeps own copy of pointers")
		assert.True(t, got.IsAvailable)
		assert.False(t, got.IsFeatured)
		assert.True(t, got.Rating.IsZero())
	})

	t.Run("filter and count", func(t *testing.T) {
		r := NewVideoRepo()
		matrix, err := r.CreateVideo(t.Context(), models.VideoCreate{Title: "The Matrix"})
		require.NoError(t, err)
		reloaded, err := r.CreateVideo(t.Context(), models.VideoCreate{Title: "Matrix Reloaded"})
		require.NoError(t, err)
		_, err = r.CreateVideo(t.Context(), models.VideoCreate{Title: "Heat"})
		require.NoError(t, err)

		featured, unavailable := true, false
		_, err = r.UpdateVideo(t.Context(), matrix.ID, models.VideoPatch{IsFeatured: &featured})
		require.NoError(t, err)
		_, err = r.UpdateVideo(t.Context(), reloaded.ID, models.VideoPatch{IsAvailable: &unavailable})
		require.NoError(t, err)

		found, err := r.ListVideos(t.Context(), models.VideoFilter{TitleContains: "MATRIX"}, models.Page{})
		require.NoError(t, err)
		assert.Len(t, found, 2)

		available, err := r.CountVideos(t.Context(), models.VideoFilter{AvailableOnly: true})
		require.NoError(t, err)
		assert.Equal(t, 2, available)

		onlyFeatured, err := r.ListVideos(t.Context(), models.VideoFilter{FeaturedOnly: true, AvailableOnly: true}, models.Page{})
		require.NoError(t, err)
		require.Len(t, onlyFeatured, 1)
		assert.Equal(t, matrix.ID, onlyFeatured[0].ID)
	})

	t.Run("partial update", func(t *testing.T) {
		r := NewVideoRepo()
		v, err := r.CreateVideo(t.Context(), models.VideoCreate{Title: "Heat", Description: "LA", DurationSeconds: 10200})
		require.NoError(t, err)

		title, rating := "Heat (1995)", decimal.RequireFromString("8.3")
		updated, err := r.UpdateVideo(t.Context(), v.ID, models.VideoPatch{Title: &title, Rating: &rating})
		require.NoError(t, err)

		assert.Equal(t, "Heat (1995)", updated.Title)
		assert.Equal(t, "LA", updated.Description)
		assert.Equal(t, 10200, updated.DurationSeconds)
		assert.True(t, rating.Equal(updated.Rating))
		assert.False(t, updated.UpdatedAt.Before(v.UpdatedAt))
	})

	t.Run("not found", func(t *testing.T) {
		r := NewVideoRepo()

		_, err := r.GetVideo(t.Context(), uuid.New())
		assert.ErrorIs(t, err, apperrors.ErrVideoNotFound)
		_, err = r.UpdateVideo(t.Context(), uuid.New(), models.VideoPatch{})
		assert.ErrorIs(t, err, apperrors.ErrVideoNotFound)
		assert.ErrorIs(t, r.DeleteVideo(t.Context(), uuid.New()), apperrors.ErrVideoNotFound)
	})
}

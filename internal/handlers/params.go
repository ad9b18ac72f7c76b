package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nkiryanov/streamhub/internal/apperrors"
	"github.com/nkiryanov/streamhub/internal/models"
)

// Malformed id can't match any record, so it's reported as not found
var errBadID = fmt.Errorf("malformed id: %w", apperrors.ErrNotFound)

func idParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, errBadID
	}
	return id, nil
}

// pageParams reads ?limit=&offset=. Missing values fall back to defaults
func pageParams(r *http.Request) (models.Page, error) {
	var page models.Page

	parse := func(key string, dst *int) error {
		raw := r.URL.Query().Get(key)
		if raw == "" {
			return nil
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", apperrors.ErrValidation, key)
		}
		*dst = v
		return nil
	}

	if err := parse("limit", &page.Limit); err != nil {
		return page, err
	}
	if err := parse("offset", &page.Offset); err != nil {
		return page, err
	}

	return page.Normalize(), nil
}

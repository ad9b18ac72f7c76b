package catalog

import (
	"net/http"
	"testing"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/streamhub/internal/service/auth"
	"github.com/nkiryanov/streamhub/internal/testutil"
	"github.com/nkiryanov/streamhub/tests/e2e"
)

const (
	AdminVideosURL  = "/admin/videos"
	ViewerVideosURL = "/viewer/videos"
)

type video struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Rating      float64 `json:"rating"`
	IsFeatured  bool    `json:"is_featured"`
	IsAvailable bool    `json:"is_available"`
}

func Test_Catalog(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgres(t)

	e2e.ServeWithTx(pg.Pool, t, func(_ pgx.Tx, srvURL string, s e2e.Services) {
		token := func(email, role string) string {
			_, pair, err := s.AuthService.Register(t.Context(), auth.RegisterParams{Email: email, Password: "pw1", Name: "Tester", Role: role})
			require.NoError(t, err)
			return pair.AccessToken
		}
		admin := token("admin@example.com", "admin")
		viewer := token("viewer@example.com", "viewer")

		upload := func(t *testing.T, body string) video {
			resp, data := e2e.Do(t, http.MethodPost, srvURL+AdminVideosURL, admin, body)
			require.Equalf(t, http.StatusCreated, resp.StatusCode, "not expected code. Body: %s", data)

			var v video
			require.NoError(t, json.Unmarshal([]byte(data), &v))
			return v
		}

		matrix := upload(t, `{"title": "The Matrix", "duration_seconds": 8160, "release_year": 1999}`)
		hidden := upload(t, `{"title": "Matrix Resurrections", "duration_seconds": 8880}`)

		t.Run("admin updates videos", func(t *testing.T) {
			resp, body := e2e.Do(t, http.MethodPut, srvURL+AdminVideosURL+"/"+matrix.ID, admin, `{"rating": 8.7, "is_featured": true}`)
			require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", body)

			var updated video
			require.NoError(t, json.Unmarshal([]byte(body), &updated))
			require.InDelta(t, 8.7, updated.Rating, 0.0001)
			require.True(t, updated.IsFeatured)

			resp, _ = e2e.Do(t, http.MethodPut, srvURL+AdminVideosURL+"/"+hidden.ID, admin, `{"is_available": false}`)
			require.Equal(t, http.StatusOK, resp.StatusCode)
		})

		t.Run("viewer sees only available videos", func(t *testing.T) {
			resp, body := e2e.Do(t, http.MethodGet, srvURL+ViewerVideosURL, viewer, "")
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var videos []video
			require.NoError(t, json.Unmarshal([]byte(body), &videos))
			require.Len(t, videos, 1)
			require.Equal(t, matrix.ID, videos[0].ID)

			resp, body = e2e.Do(t, http.MethodGet, srvURL+ViewerVideosURL+"/count", viewer, "")
			require.Equal(t, http.StatusOK, resp.StatusCode)
			require.JSONEq(t, `{"total_videos": 1}`, body)

			resp, _ = e2e.Do(t, http.MethodGet, srvURL+ViewerVideosURL+"/"+hidden.ID, viewer, "")
			require.Equal(t, http.StatusNotFound, resp.StatusCode)
		})

		t.Run("viewer search and featured", func(t *testing.T) {
			resp, body := e2e.Do(t, http.MethodGet, srvURL+ViewerVideosURL+"/search?title=MATRIX", viewer, "")
			require.Equal(t, http.StatusOK, resp.StatusCode)
			var videos []video
			require.NoError(t, json.Unmarshal([]byte(body), &videos))
			require.Len(t, videos, 1)

			resp, body = e2e.Do(t, http.MethodGet, srvURL+ViewerVideosURL+"/featured", viewer, "")
			require.Equal(t, http.StatusOK, resp.StatusCode)
			require.NoError(t, json.Unmarshal([]byte(body), &videos))
			require.Len(t, videos, 1)
			require.Equal(t, "The Matrix", videos[0].Title)
		})

		t.Run("viewer can't manage videos", func(t *testing.T) {
			resp, _ := e2e.Do(t, http.MethodDelete, srvURL+AdminVideosURL+"/"+matrix.ID, viewer, "")
			require.Equal(t, http.StatusForbidden, resp.StatusCode)
		})

		t.Run("admin deletes video", func(t *testing.T) {
			resp, _ := e2e.Do(t, http.MethodDelete, srvURL+AdminVideosURL+"/"+hidden.ID, admin, "")
			require.Equal(t, http.StatusOK, resp.StatusCode)

			resp, _ = e2e.Do(t, http.MethodGet, srvURL+AdminVideosURL+"/"+hidden.ID, admin, "")
			require.Equal(t, http.StatusNotFound, resp.StatusCode)
		})
	})
}

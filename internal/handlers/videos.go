package handlers

import (
	"net/http"

	"github.com/nkiryanov/streamhub/internal/handlers/render"
	"github.com/nkiryanov/streamhub/internal/logger"
)

// Admin side

func handleCreateVideo(vs videoAdmin, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[createVideoRequest](w, r)
		if err != nil {
			return
		}

		video, err := vs.Create(r.Context(), data.toModel())
		if err != nil {
			logFailure(l, "create video failed", err)
			render.Error(w, err)
			return
		}

		render.JSONWithStatus(w, newVideoResponse(video), http.StatusCreated)
	})
}

func handleListVideos(vs videoAdmin, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, err := pageParams(r)
		if err != nil {
			render.Error(w, err)
			return
		}

		videos, err := vs.List(r.Context(), page)
		if err != nil {
			logFailure(l, "list videos failed", err)
			render.Error(w, err)
			return
		}

		render.JSON(w, newVideoList(videos))
	})
}

func handleGetVideo(vs videoAdmin, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			render.Error(w, err)
			return
		}

		video, err := vs.Get(r.Context(), id)
		if err != nil {
			logFailure(l, "get video failed", err)
			render.Error(w, err)
			return
		}

		render.JSON(w, newVideoResponse(video))
	})
}

func handleUpdateVideo(vs videoAdmin, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			render.Error(w, err)
			return
		}

		data, err := render.BindAndValidate[updateVideoRequest](w, r)
		if err != nil {
			return
		}

		video, err := vs.Update(r.Context(), id, data.toModel())
		if err != nil {
			logFailure(l, "update video failed", err)
			render.Error(w, err)
			return
		}

		render.JSON(w, newVideoResponse(video))
	})
}

func handleDeleteVideo(vs videoAdmin, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			render.Error(w, err)
			return
		}

		if err := vs.Delete(r.Context(), id); err != nil {
			logFailure(l, "delete video failed", err)
			render.Error(w, err)
			return
		}

		render.JSON(w, messageResponse{Message: "video deleted"})
	})
}

// Viewer side

func handleCatalog(cs videoCatalog, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, err := pageParams(r)
		if err != nil {
			render.Error(w, err)
			return
		}

		videos, err := cs.Catalog(r.Context(), page)
		if err != nil {
			logFailure(l, "catalog failed", err)
			render.Error(w, err)
			return
		}

		render.JSON(w, newVideoList(videos))
	})
}

func handleFeatured(cs videoCatalog, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, err := pageParams(r)
		if err != nil {
			render.Error(w, err)
			return
		}

		videos, err := cs.Featured(r.Context(), page)
		if err != nil {
			logFailure(l, "featured videos failed", err)
			render.Error(w, err)
			return
		}

		render.JSON(w, newVideoList(videos))
	})
}

func handleSearch(cs videoCatalog, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, err := pageParams(r)
		if err != nil {
			render.Error(w, err)
			return
		}

		videos, err := cs.Search(r.Context(), r.URL.Query().Get("title"), page)
		if err != nil {
			logFailure(l, "search videos failed", err)
			render.Error(w, err)
			return
		}

		render.JSON(w, newVideoList(videos))
	})
}

func handleCountCatalog(cs videoCatalog, l logger.Logger) http.Handler {
	type CountResponse struct {
		Total int `json:"total_videos"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		total, err := cs.CountAvailable(r.Context())
		if err != nil {
			logFailure(l, "count videos failed", err)
			render.Error(w, err)
			return
		}

		render.JSON(w, CountResponse{Total: total})
	})
}

func handleWatchVideo(cs videoCatalog, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			render.Error(w, err)
			return
		}

		video, err := cs.GetAvailable(r.Context(), id)
		if err != nil {
			logFailure(l, "get catalog video failed", err)
			render.Error(w, err)
			return
		}

		render.JSON(w, newVideoResponse(video))
	})
}

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nkiryanov/streamhub/internal/handlers/render"
	"github.com/nkiryanov/streamhub/internal/logger"
	"github.com/nkiryanov/streamhub/internal/service/account"
	"github.com/nkiryanov/streamhub/internal/service/auth"
)

func handleListUsers(as accountService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, err := pageParams(r)
		if err != nil {
			render.Error(w, err)
			return
		}

		accounts, err := as.List(r.Context(), page)
		if err != nil {
			logFailure(l, "list users failed", err)
			render.Error(w, err)
			return
		}

		render.JSON(w, newUserList(accounts))
	})
}

func handleCountUsers(as accountService, l logger.Logger) http.Handler {
	type CountResponse struct {
		Total int `json:"total_users"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		total, err := as.Count(r.Context())
		if err != nil {
			logFailure(l, "count users failed", err)
			render.Error(w, err)
			return
		}

		render.JSON(w, CountResponse{Total: total})
	})
}

func handleListUsersByRole(as accountService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, err := pageParams(r)
		if err != nil {
			render.Error(w, err)
			return
		}

		accounts, err := as.ListByRole(r.Context(), r.URL.Query().Get("role"), page)
		if err != nil {
			logFailure(l, "list users by role failed", err)
			render.Error(w, err)
			return
		}

		render.JSON(w, newUserList(accounts))
	})
}

func handleGetUser(as accountService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			render.Error(w, err)
			return
		}

		a, err := as.Get(r.Context(), id)
		if err != nil {
			logFailure(l, "get user failed", err)
			render.Error(w, err)
			return
		}

		render.JSON(w, newUserResponse(a))
	})
}

func handleGetUserByEmail(as accountService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a, err := as.GetByEmail(r.Context(), chi.URLParam(r, "email"))
		if err != nil {
			logFailure(l, "get user by email failed", err)
			render.Error(w, err)
			return
		}

		render.JSON(w, newUserResponse(a))
	})
}

func handleCreateUser(as accountService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[registerRequest](w, r)
		if err != nil {
			return
		}

		a, err := as.Create(r.Context(), auth.RegisterParams{
			Email:    data.Email,
			Password: data.Password,
			Name:     data.Name,
			Role:     data.Role,
		})
		if err != nil {
			logFailure(l, "create user failed", err)
			render.Error(w, err)
			return
		}

		render.JSONWithStatus(w, newUserResponse(a), http.StatusCreated)
	})
}

func handleUpdateUser(as accountService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			render.Error(w, err)
			return
		}

		data, err := render.BindAndValidate[updateUserRequest](w, r)
		if err != nil {
			return
		}

		a, err := as.Update(r.Context(), id, account.UpdateParams{
			Name:  data.Name,
			Email: data.Email,
			Role:  data.Role,
		})
		if err != nil {
			logFailure(l, "update user failed", err)
			render.Error(w, err)
			return
		}

		render.JSON(w, newUserResponse(a))
	})
}

func handleDeleteUser(as accountService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			render.Error(w, err)
			return
		}

		if err := as.Delete(r.Context(), id); err != nil {
			logFailure(l, "delete user failed", err)
			render.Error(w, err)
			return
		}

		render.JSON(w, messageResponse{Message: "user deleted"})
	})
}

package handlers

import (
	"net/http"

	"github.com/nkiryanov/streamhub/internal/handlers/render"
	"github.com/nkiryanov/streamhub/internal/logger"
	"github.com/nkiryanov/streamhub/internal/service/auth"
)

func handleRegister(as authService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[registerRequest](w, r)
		if err != nil {
			return
		}

		account, pair, err := as.Register(r.Context(), auth.RegisterParams{
			Email:    data.Email,
			Password: data.Password,
			Name:     data.Name,
			Role:     data.Role,
		})
		if err != nil {
			logFailure(l, "register failed", err)
			render.Error(w, err)
			return
		}

		as.SetTokenPairToResponse(w, pair)
		render.JSONWithStatus(w, registerResponse{TokenPair: pair, User: account.Summary()}, http.StatusCreated)
	})
}

func handleLogin(as authService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[loginRequest](w, r)
		if err != nil {
			return
		}

		pair, err := as.Login(r.Context(), data.Email, data.Password)
		if err != nil {
			logFailure(l, "login failed", err)
			render.Error(w, err)
			return
		}

		as.SetTokenPairToResponse(w, pair)
		render.JSON(w, pair)
	})
}

func handleTokenRefresh(as authService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[refreshRequest](w, r)
		if err != nil {
			return
		}

		pair, err := as.Refresh(r.Context(), data.RefreshToken)
		if err != nil {
			logFailure(l, "refresh failed", err)
			render.Error(w, err)
			return
		}

		as.SetTokenPairToResponse(w, pair)
		render.JSON(w, pair)
	})
}

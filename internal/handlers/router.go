package handlers

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/google/uuid"

	"github.com/nkiryanov/streamhub/internal/apperrors"
	"github.com/nkiryanov/streamhub/internal/handlers/middleware"
	"github.com/nkiryanov/streamhub/internal/handlers/render"
	"github.com/nkiryanov/streamhub/internal/logger"
	"github.com/nkiryanov/streamhub/internal/models"
	"github.com/nkiryanov/streamhub/internal/service/account"
	"github.com/nkiryanov/streamhub/internal/service/auth"
)

// APIs the server may expose. Each one is mounted under its own prefix: /auth, /admin, /viewer
const (
	APIAuth   = "auth"
	APIAdmin  = "admin"
	APIViewer = "viewer"
)

var AllAPIs = []string{APIAuth, APIAdmin, APIViewer}

type Config struct {
	// Subset of AllAPIs to mount. All if empty
	APIs []string

	// Login and register requests per minute per client IP. 0 disables limiting
	AuthRateLimit int

	// CORS is not enabled if empty
	CORSAllowedOrigins []string
}

type Services struct {
	Auth     authService
	Accounts accountService
	Videos   videoAdmin
	Catalog  videoCatalog
}

type authService interface {
	// Register account and issue token pair for it
	// Has to return apperrors.ErrAccountAlreadyExists if email is taken
	Register(ctx context.Context, params auth.RegisterParams) (models.Account, models.TokenPair, error)

	// Has to return apperrors.ErrInvalidCredentials on unknown email or wrong password
	Login(ctx context.Context, email string, password string) (models.TokenPair, error)

	// Issue new pair by refresh token. Any token problem is apperrors.ErrUnauthorized
	Refresh(ctx context.Context, refresh string) (models.TokenPair, error)

	// Authenticate request by access token in header or cookie
	ClaimsFromRequest(r *http.Request) (models.TokenClaims, error)

	// Set access token to response header and cookie
	SetTokenPairToResponse(w http.ResponseWriter, pair models.TokenPair)
}

type accountService interface {
	Create(ctx context.Context, params auth.RegisterParams) (models.Account, error)
	Get(ctx context.Context, id uuid.UUID) (models.Account, error)
	GetByEmail(ctx context.Context, email string) (models.Account, error)
	List(ctx context.Context, page models.Page) ([]models.Account, error)
	ListByRole(ctx context.Context, role string, page models.Page) ([]models.Account, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, id uuid.UUID, params account.UpdateParams) (models.Account, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type videoAdmin interface {
	Create(ctx context.Context, c models.VideoCreate) (models.Video, error)
	Get(ctx context.Context, id uuid.UUID) (models.Video, error)
	List(ctx context.Context, page models.Page) ([]models.Video, error)
	Update(ctx context.Context, id uuid.UUID, p models.VideoPatch) (models.Video, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type videoCatalog interface {
	Catalog(ctx context.Context, page models.Page) ([]models.Video, error)
	Featured(ctx context.Context, page models.Page) ([]models.Video, error)
	Search(ctx context.Context, title string, page models.Page) ([]models.Video, error)
	GetAvailable(ctx context.Context, id uuid.UUID) (models.Video, error)
	CountAvailable(ctx context.Context) (int, error)
}

// Optional. If set requests are measured and /metrics is served
type metricsService interface {
	ObserveRequest(method, route string, status int, duration time.Duration)
	Handler() http.Handler
}

func NewRouter(cfg Config, svc Services, metrics metricsService, l logger.Logger) (http.Handler, error) {
	apis := cfg.APIs
	if len(apis) == 0 {
		apis = AllAPIs
	}
	for _, api := range apis {
		if !slices.Contains(AllAPIs, api) {
			return nil, fmt.Errorf("%w: unknown api %q", apperrors.ErrConfig, api)
		}
	}

	root := chi.NewRouter()

	root.Use(chimw.RequestID, chimw.RealIP, chimw.Recoverer)
	root.Use(middleware.LoggerMiddleware(l))
	if metrics != nil {
		root.Use(middleware.MetricsMiddleware(metrics))
	}
	if len(cfg.CORSAllowedOrigins) > 0 {
		root.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSAllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Authorization"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	root.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.ServiceError(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})
	root.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		render.ServiceError(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	root.Get("/", textHandler("StreamHub API - Running"))
	root.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, map[string]string{"status": "ok"})
	})
	if metrics != nil {
		root.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	if slices.Contains(apis, APIAuth) {
		root.Mount("/auth", authRouter(svc, cfg.AuthRateLimit, l.With("api", APIAuth)))
	}
	if slices.Contains(apis, APIAdmin) {
		root.Mount("/admin", adminRouter(svc, l.With("api", APIAdmin)))
	}
	if slices.Contains(apis, APIViewer) {
		root.Mount("/viewer", viewerRouter(svc, l.With("api", APIViewer)))
	}

	return root, nil
}

func authRouter(svc Services, rateLimit int, l logger.Logger) chi.Router {
	r := chi.NewRouter()

	r.Get("/health", textHandler("Auth API - OK"))

	r.Group(func(r chi.Router) {
		if rateLimit > 0 {
			r.Use(httprate.Limit(
				rateLimit,
				time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
					render.ServiceError(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				}),
			))
		}
		r.Method(http.MethodPost, "/register", handleRegister(svc.Auth, l))
		r.Method(http.MethodPost, "/login", handleLogin(svc.Auth, l))
	})
	r.Method(http.MethodPost, "/refresh", handleTokenRefresh(svc.Auth, l))

	r.Route("/users", func(r chi.Router) {
		r.Use(middleware.Authenticate(svc.Auth), middleware.RequireRole(models.RoleAdmin))

		r.Method(http.MethodGet, "/", handleListUsers(svc.Accounts, l))
		r.Method(http.MethodPost, "/", handleCreateUser(svc.Accounts, l))
		r.Method(http.MethodGet, "/count", handleCountUsers(svc.Accounts, l))
		r.Method(http.MethodGet, "/by-role", handleListUsersByRole(svc.Accounts, l))
		r.Method(http.MethodGet, "/email/{email}", handleGetUserByEmail(svc.Accounts, l))
		r.Method(http.MethodGet, "/{id}", handleGetUser(svc.Accounts, l))
		r.Method(http.MethodPut, "/{id}", handleUpdateUser(svc.Accounts, l))
		r.Method(http.MethodDelete, "/{id}", handleDeleteUser(svc.Accounts, l))
	})

	return r
}

func adminRouter(svc Services, l logger.Logger) chi.Router {
	r := chi.NewRouter()

	r.Get("/health", textHandler("Admin API - Healthy"))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(svc.Auth), middleware.RequireRole(models.RoleAdmin))

		r.Get("/", textHandler("Admin API - Running"))

		r.Method(http.MethodPost, "/videos", handleCreateVideo(svc.Videos, l))
		r.Method(http.MethodGet, "/videos", handleListVideos(svc.Videos, l))
		r.Method(http.MethodGet, "/videos/{id}", handleGetVideo(svc.Videos, l))
		r.Method(http.MethodPut, "/videos/{id}", handleUpdateVideo(svc.Videos, l))
		r.Method(http.MethodDelete, "/videos/{id}", handleDeleteVideo(svc.Videos, l))
	})

	return r
}

func viewerRouter(svc Services, l logger.Logger) chi.Router {
	r := chi.NewRouter()

	r.Get("/health", textHandler("Viewer API - OK"))

	r.Route("/videos", func(r chi.Router) {
		r.Use(middleware.Authenticate(svc.Auth), middleware.RequireRole(models.RoleViewer))

		r.Method(http.MethodGet, "/", handleCatalog(svc.Catalog, l))
		r.Method(http.MethodGet, "/featured", handleFeatured(svc.Catalog, l))
		r.Method(http.MethodGet, "/search", handleSearch(svc.Catalog, l))
		r.Method(http.MethodGet, "/count", handleCountCatalog(svc.Catalog, l))
		r.Method(http.MethodGet, "/{id}", handleWatchVideo(svc.Catalog, l))
	})

	return r
}

func textHandler(text string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		render.Text(w, text)
	}
}

// logFailure logs internal failures as errors and client ones quietly.
// Client receives only generic message, so the reason is kept in logs
func logFailure(l logger.Logger, msg string, err error) {
	switch code := apperrors.HTTPStatus(err); {
	case code >= http.StatusInternalServerError:
		l.Error(msg, "error", err)
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		l.Warn(msg, "reason", err.Error())
	default:
		l.Debug(msg, "reason", err.Error())
	}
}

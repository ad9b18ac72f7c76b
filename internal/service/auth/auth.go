package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/nkiryanov/streamhub/internal/apperrors"
	"github.com/nkiryanov/streamhub/internal/logger"
	"github.com/nkiryanov/streamhub/internal/models"
	"github.com/nkiryanov/streamhub/internal/repository"
	"github.com/nkiryanov/streamhub/internal/service/validate"
)

const (
	defaultAccessHeaderName = "Authorization"
	defaultAccessAuthScheme = "Bearer"
	defaultAccessCookieName = "access_token"
)

// Interface to create or compare user password hashes
type PasswordHasher interface {
	// Generate Hash from password
	Hash(password string) (string, error)

	// Compare known hashedPassword and user provided password
	// Must be protected against timing attacks
	Compare(hashedPassword string, password string) error
}

// Issues and parses signed tokens
type TokenManager interface {
	GeneratePair(account models.Account) (models.TokenPair, error)
	ParseAccess(token string) (models.TokenClaims, error)
	ParseRefresh(token string) (models.TokenClaims, error)
	AccessTTL() time.Duration
}

// Observes auth outcomes, e.g. metrics. Optional
type Observer interface {
	AuthAttempt(operation string, err error)
}

type Config struct {
	// Where access token is looked for in request and put to response
	// If not set than default is used
	AccessHeaderName string
	AccessAuthScheme string
	AccessCookieName string

	// Hasher to use during registration or login process
	// DefaultHasher if not set
	Hasher PasswordHasher

	Logger   logger.Logger
	Observer Observer
}

// Auth service issues token pairs on register, login and refresh,
// and authenticates requests by access token
type AuthService struct {
	accessHeaderName string
	accessAuthScheme string
	accessCookieName string

	hasher   PasswordHasher
	tokens   TokenManager
	accounts repository.AccountRepo

	logger   logger.Logger
	observer Observer
}

func NewService(cfg Config, tokens TokenManager, accounts repository.AccountRepo) (*AuthService, error) {
	setDefault := func(field *string, def string) {
		if *field == "" {
			*field = def
		}
	}
	setDefault(&cfg.AccessHeaderName, defaultAccessHeaderName)
	setDefault(&cfg.AccessAuthScheme, defaultAccessAuthScheme)
	setDefault(&cfg.AccessCookieName, defaultAccessCookieName)

	if cfg.Hasher == nil {
		cfg.Hasher = DefaultHasher
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNoOpLogger()
	}

	return &AuthService{
		accessHeaderName: cfg.AccessHeaderName,
		accessAuthScheme: cfg.AccessAuthScheme,
		accessCookieName: cfg.AccessCookieName,
		hasher:           cfg.Hasher,
		tokens:           tokens,
		accounts:         accounts,
		logger:           cfg.Logger.With("component", "auth"),
		observer:         cfg.Observer,
	}, nil
}

type RegisterParams struct {
	Email    string
	Password string
	Name     string

	// Optional. models.DefaultRole if empty
	Role string
}

// Register creates account and issues token pair for it
// Returns apperrors.ErrAccountAlreadyExists if email is taken in any casing
func (s *AuthService) Register(ctx context.Context, params RegisterParams) (account models.Account, pair models.TokenPair, err error) {
	defer func() { s.observe("register", err) }()

	create, err := NewAccount(s.hasher, params)
	if err != nil {
		return account, pair, err
	}

	account, err = s.accounts.CreateAccount(ctx, create)
	if err != nil {
		return account, pair, fmt.Errorf("can't create account: %w", err)
	}

	pair, err = s.issue(account)
	return account, pair, err
}

// NewAccount validates params and hashes password, so the result is ready to be stored
func NewAccount(hasher PasswordHasher, params RegisterParams) (models.AccountCreate, error) {
	email := models.NormalizeEmail(params.Email)
	name := strings.TrimSpace(params.Name)

	if err := errors.Join(validate.Email(email), validate.Password(params.Password), validate.Name(name)); err != nil {
		return models.AccountCreate{}, err
	}

	role := models.DefaultRole
	if params.Role != "" {
		var err error
		if role, err = models.ParseRole(params.Role); err != nil {
			return models.AccountCreate{}, err
		}
	}

	// Hash before the store is touched: no store lock is held while hashing
	hash, err := hasher.Hash(params.Password)
	if err != nil {
		return models.AccountCreate{}, fmt.Errorf("%w: can't hash password: %v", apperrors.ErrInternal, err)
	}

	return models.AccountCreate{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         role,
	}, nil
}

// Login checks credentials and issues fresh token pair
// Unknown email and wrong password both are apperrors.ErrInvalidCredentials
func (s *AuthService) Login(ctx context.Context, email string, password string) (pair models.TokenPair, err error) {
	defer func() { s.observe("login", err) }()

	account, err := s.accounts.GetAccountByEmail(ctx, email)
	switch {
	case errors.Is(err, apperrors.ErrAccountNotFound):
		s.logger.Debug("login for unknown email")
		return pair, apperrors.ErrInvalidCredentials
	case err != nil:
		return pair, fmt.Errorf("can't get account: %w", err)
	}

	if err := s.hasher.Compare(account.PasswordHash, password); err != nil {
		s.logger.Debug("login with wrong password", "account_id", account.ID)
		return pair, apperrors.ErrInvalidCredentials
	}

	return s.issue(account)
}

// Refresh rotates both tokens. Only valid refresh token is accepted
// Role and email of the new pair come from the current account state
func (s *AuthService) Refresh(ctx context.Context, refresh string) (pair models.TokenPair, err error) {
	defer func() { s.observe("refresh", err) }()

	claims, err := s.tokens.ParseRefresh(refresh)
	if err != nil {
		s.logger.Warn("refresh token rejected", "reason", err.Error())
		return pair, fmt.Errorf("%w: %w", apperrors.ErrUnauthorized, err)
	}

	account, err := s.accounts.GetAccountByID(ctx, claims.Subject)
	switch {
	case errors.Is(err, apperrors.ErrAccountNotFound):
		s.logger.Warn("refresh token of deleted account", "account_id", claims.Subject)
		return pair, fmt.Errorf("%w: account is gone", apperrors.ErrUnauthorized)
	case err != nil:
		return pair, fmt.Errorf("can't get account: %w", err)
	}

	return s.issue(account)
}

// Authenticate verifies access token and returns it's claims
func (s *AuthService) Authenticate(access string) (models.TokenClaims, error) {
	claims, err := s.tokens.ParseAccess(access)
	if err != nil {
		s.logger.Info("access token rejected", "reason", err.Error())
		return claims, fmt.Errorf("%w: %w", apperrors.ErrUnauthorized, err)
	}
	return claims, nil
}

// ClaimsFromRequest finds access token in request and authenticates it
// Header has priority over cookie
func (s *AuthService) ClaimsFromRequest(r *http.Request) (models.TokenClaims, error) {
	access, err := s.accessFromRequest(r)
	if err != nil {
		return models.TokenClaims{}, err
	}
	return s.Authenticate(access)
}

func (s *AuthService) accessFromRequest(r *http.Request) (string, error) {
	if header := r.Header.Get(s.accessHeaderName); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, s.accessAuthScheme) || strings.TrimSpace(token) == "" {
			return "", fmt.Errorf("%w: malformed %s header", apperrors.ErrUnauthorized, s.accessHeaderName)
		}
		return strings.TrimSpace(token), nil
	}

	cookie, err := r.Cookie(s.accessCookieName)
	if err != nil || cookie.Value == "" {
		return "", fmt.Errorf("%w: access token not found", apperrors.ErrUnauthorized)
	}

	return cookie.Value, nil
}

// SetTokenPairToResponse puts access token to the header and to HttpOnly cookie
func (s *AuthService) SetTokenPairToResponse(w http.ResponseWriter, pair models.TokenPair) {
	w.Header().Set(s.accessHeaderName, s.accessAuthScheme+" "+pair.AccessToken)

	http.SetCookie(w, &http.Cookie{
		Name:     s.accessCookieName,
		Value:    pair.AccessToken,
		Path:     "/",
		MaxAge:   int(s.tokens.AccessTTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *AuthService) issue(account models.Account) (models.TokenPair, error) {
	pair, err := s.tokens.GeneratePair(account)
	if err != nil {
		return pair, fmt.Errorf("%w: token could not generated: %v", apperrors.ErrInternal, err)
	}
	return pair, nil
}

func (s *AuthService) observe(operation string, err error) {
	if s.observer != nil {
		s.observer.AuthAttempt(operation, err)
	}
}

// SeedAccount creates account if email is not taken yet. Used to bootstrap demo accounts
func (s *AuthService) SeedAccount(ctx context.Context, params RegisterParams) (models.Account, bool, error) {
	existing, err := s.accounts.GetAccountByEmail(ctx, params.Email)
	switch {
	case err == nil:
		return existing, false, nil
	case !errors.Is(err, apperrors.ErrAccountNotFound):
		return existing, false, err
	}

	create, err := NewAccount(s.hasher, params)
	if err != nil {
		return models.Account{}, false, err
	}

	account, err := s.accounts.CreateAccount(ctx, create)
	if errors.Is(err, apperrors.ErrAccountAlreadyExists) {
		account, err = s.accounts.GetAccountByEmail(ctx, params.Email)
		return account, false, err
	}

	return account, err == nil, err
}

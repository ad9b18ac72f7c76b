package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/nkiryanov/streamhub/internal/apperrors"
	"github.com/nkiryanov/streamhub/internal/handlers"
	"github.com/nkiryanov/streamhub/internal/logger"
	"github.com/nkiryanov/streamhub/internal/service/auth"
)

const (
	defaultListenAddr    = "localhost:8000"
	defaultLoggingLevel  = logger.LevelInfo
	defaultEnvironment   = logger.EnvProduction
	defaultAccessTTL     = time.Hour
	defaultRefreshTTL    = 7 * 24 * time.Hour
	defaultAuthRateLimit = 20
)

type Config struct {
	// Default logging level
	LogLevel string

	// Environment: development (text logs) or production (json logs)
	Environment string

	// Address on which the server will be run
	ListenAddr string

	// Database to connect to. In-memory storage is used if empty
	DatabaseDSN string

	// Secrets to sign access and refresh tokens. Both required and must differ
	AccessSecret  string
	RefreshSecret string

	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// bcrypt work factor
	BcryptCost int

	// APIs to serve: auth, admin, viewer
	APIs []string

	// Login and register requests per minute per client IP. 0 disables limiting
	AuthRateLimit int

	// Origins allowed to call the API from browser. CORS is disabled if empty
	CORSAllowedOrigins []string

	// Create demo admin and viewer accounts on start
	SeedDemo bool
}

func NewConfig() *Config {
	return &Config{
		LogLevel:      defaultLoggingLevel,
		Environment:   defaultEnvironment,
		ListenAddr:    defaultListenAddr,
		AccessTTL:     defaultAccessTTL,
		RefreshTTL:    defaultRefreshTTL,
		BcryptCost:    auth.DefaultBcryptCost,
		APIs:          slices.Clone(handlers.AllAPIs),
		AuthRateLimit: defaultAuthRateLimit,
	}
}

// Load variable from '.env' file (should be located at working directory)
func (c *Config) LoadDotEnv(getwd func() (string, error)) error {
	wd, err := getwd()
	if err != nil {
		return err
	}

	envMap, err := godotenv.Read(filepath.Join(wd, ".env"))

	switch {
	case err == nil:
		return c.LoadEnv(func(key string) string {
			return envMap[key]
		})
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return err
	}
}

// LoadEnv sets options from not empty variables
func (c *Config) LoadEnv(getenv func(string) string) error {
	setString := func(o *string) func(string) error {
		return func(value string) error {
			*o = value
			return nil
		}
	}
	setDuration := func(o *time.Duration) func(string) error {
		return func(value string) (err error) {
			*o, err = time.ParseDuration(value)
			return err
		}
	}
	setInt := func(o *int) func(string) error {
		return func(value string) (err error) {
			*o, err = strconv.Atoi(value)
			return err
		}
	}
	setBool := func(o *bool) func(string) error {
		return func(value string) (err error) {
			*o, err = strconv.ParseBool(value)
			return err
		}
	}
	setList := func(o *[]string) func(string) error {
		return func(value string) error {
			*o = splitList(value)
			return nil
		}
	}

	envMap := map[string]func(string) error{
		"RUN_ADDRESS":          setString(&c.ListenAddr),
		"DATABASE_URI":         setString(&c.DatabaseDSN),
		"JWT_ACCESS_SECRET":    setString(&c.AccessSecret),
		"JWT_REFRESH_SECRET":   setString(&c.RefreshSecret),
		"LOG_LEVEL":            setString(&c.LogLevel),
		"ENVIRONMENT":          setString(&c.Environment),
		"ACCESS_TOKEN_TTL":     setDuration(&c.AccessTTL),
		"REFRESH_TOKEN_TTL":    setDuration(&c.RefreshTTL),
		"BCRYPT_COST":          setInt(&c.BcryptCost),
		"APIS":                 setList(&c.APIs),
		"AUTH_RATE_LIMIT":      setInt(&c.AuthRateLimit),
		"CORS_ALLOWED_ORIGINS": setList(&c.CORSAllowedOrigins),
		"SEED_DEMO_ACCOUNTS":   setBool(&c.SeedDemo),
	}

	var errs []error
	for key, parseFn := range envMap {
		value := getenv(key)
		if value == "" {
			continue
		}
		if err := parseFn(value); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s=%q: %v", apperrors.ErrConfig, key, value, err))
		}
	}

	return errors.Join(errs...)
}

func (c *Config) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("streamhub", pflag.ContinueOnError)

	fs.StringVarP(&c.ListenAddr, "address", "a", c.ListenAddr, "Server listen address")
	fs.StringVarP(&c.DatabaseDSN, "database", "d", c.DatabaseDSN, "Database connection string, in-memory storage if empty")
	fs.StringVarP(&c.AccessSecret, "access-secret", "s", c.AccessSecret, "Secret to sign access tokens")
	fs.StringVarP(&c.RefreshSecret, "refresh-secret", "r", c.RefreshSecret, "Secret to sign refresh tokens")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "Logging level (debug, info, warn, error)")
	fs.StringVarP(&c.Environment, "environment", "e", c.Environment, "Environment (development, production)")
	fs.DurationVar(&c.AccessTTL, "access-ttl", c.AccessTTL, "Access token lifetime")
	fs.DurationVar(&c.RefreshTTL, "refresh-ttl", c.RefreshTTL, "Refresh token lifetime")
	fs.IntVar(&c.BcryptCost, "bcrypt-cost", c.BcryptCost, "bcrypt work factor")
	fs.StringSliceVar(&c.APIs, "apis", c.APIs, "APIs to serve (auth, admin, viewer)")
	fs.IntVar(&c.AuthRateLimit, "auth-rate-limit", c.AuthRateLimit, "Login and register requests per minute per IP, 0 disables")
	fs.StringSliceVar(&c.CORSAllowedOrigins, "cors-origins", c.CORSAllowedOrigins, "Origins allowed by CORS")
	fs.BoolVar(&c.SeedDemo, "seed-demo", c.SeedDemo, "Create demo admin and viewer accounts")

	return fs.Parse(args)
}

// Validate reports every bad option at once
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{apperrors.ErrConfig}, args...)...))
	}

	if c.ListenAddr == "" {
		fail("listen address is required")
	}
	if c.AccessSecret == "" {
		fail("access token secret is required")
	}
	if c.RefreshSecret == "" {
		fail("refresh token secret is required")
	}
	if c.AccessSecret != "" && c.AccessSecret == c.RefreshSecret {
		fail("access and refresh secrets must differ")
	}
	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 {
		fail("token lifetimes must be positive")
	}
	if c.RefreshTTL <= c.AccessTTL {
		fail("refresh token must live longer than access token")
	}
	if _, err := auth.NewBcryptHasher(c.BcryptCost); err != nil {
		fail("%v", err)
	}
	if len(c.APIs) == 0 {
		fail("at least one api must be served")
	}
	for _, api := range c.APIs {
		if !slices.Contains(handlers.AllAPIs, api) {
			fail("unknown api %q", api)
		}
	}
	if c.AuthRateLimit < 0 {
		fail("auth rate limit must not be negative")
	}

	return errors.Join(errs...)
}

func splitList(value string) []string {
	var list []string
	for item := range strings.SplitSeq(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}

// Package config builds the runtime configuration of the binaries: defaults,
// then an optional .env file, then the process environment, then flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr        string
	MetricsAddr     string
	DatabaseURL     string
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	BcryptCost      int
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	// TokenRetention is how long dead tokens are kept before cmd/tokenpurge deletes them.
	TokenRetention time.Duration
}

func (c *Config) LoadDefaults() {
	c.HTTPAddr = "0.0.0.0:8080"
	c.MetricsAddr = "0.0.0.0:9090"
	c.AccessTokenTTL = 900 * time.Second
	c.RefreshTokenTTL = 30 * 24 * time.Hour
	c.BcryptCost = 12
	c.LogLevel = "info"
	c.LogFormat = "json"
	c.ShutdownTimeout = 30 * time.Second
	c.TokenRetention = 7 * 24 * time.Hour
}

// Load reads configuration for a binary named name. args are the command-line
// arguments without the program name. Missing .env files are not an error.
func Load(name string, args []string) (*Config, error) {
	return load(name, args, (*Config).Validate)
}

// LoadJob is Load for binaries that only talk to the database.
func LoadJob(name string, args []string) (*Config, error) {
	return load(name, args, (*Config).ValidateDatabase)
}

func load(name string, args []string, validate func(*Config) error) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.LoadDefaults()
	if err := cfg.loadEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.parseFlags(name, args); err != nil {
		return nil, err
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

type lookupFunc func(key string) (string, bool)

func (c *Config) loadEnv(lookup lookupFunc) error {
	setString := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	setString("HTTP_ADDR", &c.HTTPAddr)
	setString("JWT_SECRET", &c.JWTSecret)
	setString("LOG_LEVEL", &c.LogLevel)
	setString("LOG_FORMAT", &c.LogFormat)

	// An empty METRICS_ADDR disables the metrics listener.
	if v, ok := lookup("METRICS_ADDR"); ok {
		c.MetricsAddr = v
	}

	if v, ok := lookup("DATABASE_URL"); ok && v != "" {
		c.DatabaseURL = v
	} else if dsn := postgresDSN(lookup); dsn != "" {
		c.DatabaseURL = dsn
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"ACCESS_TOKEN_TTL", &c.AccessTokenTTL},
		{"REFRESH_TOKEN_TTL", &c.RefreshTokenTTL},
		{"SHUTDOWN_TIMEOUT", &c.ShutdownTimeout},
		{"TOKEN_RETENTION", &c.TokenRetention},
	}
	for _, d := range durations {
		v, ok := lookup(d.key)
		if !ok || v == "" {
			continue
		}
		parsed, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", d.key, err)
		}
		*d.dst = parsed
	}

	if v, ok := lookup("BCRYPT_COST"); ok && v != "" {
		cost, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid BCRYPT_COST: %w", err)
		}
		c.BcryptCost = cost
	}

	return nil
}

// parseDuration accepts Go durations ("15m") and bare seconds ("900").
func parseDuration(v string) (time.Duration, error) {
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(v)
}

func postgresDSN(lookup lookupFunc) string {
	host, _ := lookup("POSTGRES_HOST")
	if host == "" {
		return ""
	}
	port, _ := lookup("POSTGRES_PORT")
	if port == "" {
		port = "5432"
	}
	user, _ := lookup("POSTGRES_USER")
	password, _ := lookup("POSTGRES_PASSWORD")
	dbName, _ := lookup("POSTGRES_DB")
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, dbName)
}

func (c *Config) parseFlags(name string, args []string) error {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&c.HTTPAddr, "http-addr", c.HTTPAddr, "API listen address")
	fs.StringVar(&c.MetricsAddr, "metrics-addr", c.MetricsAddr, "Prometheus metrics listen address (empty disables)")
	fs.StringVar(&c.DatabaseURL, "database-url", c.DatabaseURL, "PostgreSQL connection URL")
	fs.StringVar(&c.JWTSecret, "jwt-secret", c.JWTSecret, "HMAC secret for access tokens")
	fs.DurationVar(&c.AccessTokenTTL, "access-token-ttl", c.AccessTokenTTL, "Access token lifetime")
	fs.DurationVar(&c.RefreshTokenTTL, "refresh-token-ttl", c.RefreshTokenTTL, "Refresh token lifetime")
	fs.IntVar(&c.BcryptCost, "bcrypt-cost", c.BcryptCost, "bcrypt cost factor")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "Log format: json or text")
	fs.DurationVar(&c.ShutdownTimeout, "shutdown-timeout", c.ShutdownTimeout, "Graceful shutdown timeout")
	fs.DurationVar(&c.TokenRetention, "token-retention", c.TokenRetention, "Retention of expired or revoked tokens")
	return fs.Parse(args)
}

func (c *Config) ValidateDatabase() error {
	if c.DatabaseURL == "" {
		return errors.New("database url is required")
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error
	if err := c.ValidateDatabase(); err != nil {
		errs = append(errs, err)
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("jwt secret is required"))
	}
	if c.AccessTokenTTL <= 0 {
		errs = append(errs, errors.New("access token ttl must be positive"))
	}
	if c.RefreshTokenTTL <= 0 {
		errs = append(errs, errors.New("refresh token ttl must be positive"))
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("bcrypt cost %d out of range", c.BcryptCost))
	}
	return errors.Join(errs...)
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Identity IdentityConfig
	Seed     SeedConfig
	Worker   WorkerConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// DatabaseConfig holds storage selection and Postgres connection values.
type DatabaseConfig struct {
	Driver         string
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values. An empty Addr disables Redis.
type RedisConfig struct {
	Addr          string
	Password      string
	DB            int
	EventsChannel string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines token and hashing parameters.
type AuthConfig struct {
	JWTKey             string
	JWTIssuer          string
	JWTAudience        string
	JWTExpirationHours int
	BcryptCost         int
	LoginRatePerMinute int
}

// IdentityConfig mirrors the password and account rules applied to users.
type IdentityConfig struct {
	RequireDigit           bool
	RequireLowercase       bool
	RequireUppercase       bool
	RequireNonAlphanumeric bool
	RequiredLength         int
	RequireUniqueEmail     bool
}

// SeedConfig toggles demo data seeding.
type SeedConfig struct {
	DemoData bool
}

// WorkerConfig schedules background jobs. An empty OverdueCron disables the scan.
type WorkerConfig struct {
	OverdueCron string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	dsn := os.Getenv("POSTGRES_DSN")
	driver := strings.ToLower(getEnv("DATABASE_DRIVER", ""))
	if driver == "" {
		driver = DriverPostgres
		if dsn == "" {
			driver = DriverMemory
		}
	}
	if driver != DriverPostgres && driver != DriverMemory {
		return nil, fmt.Errorf("invalid DATABASE_DRIVER %q", driver)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "task-team-service"),
			Env:                   getEnv("APP_ENV", "production"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Database: DatabaseConfig{
			Driver:         driver,
			DSN:            dsn,
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:          os.Getenv("REDIS_ADDR"),
			Password:      os.Getenv("REDIS_PASSWORD"),
			DB:            redisDB,
			EventsChannel: getEnv("REDIS_EVENTS_CHANNEL", "task-team:events"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTKey:             os.Getenv("JWT_KEY"),
			JWTIssuer:          os.Getenv("JWT_ISSUER"),
			JWTAudience:        os.Getenv("JWT_AUDIENCE"),
			JWTExpirationHours: getEnvAsInt("JWT_EXPIRATION_HOURS", 24),
			BcryptCost:         getEnvAsInt("AUTH_BCRYPT_COST", 12),
			LoginRatePerMinute: getEnvAsInt("AUTH_LOGIN_RATE_PER_MINUTE", 30),
		},
		Identity: IdentityConfig{
			RequireDigit:           getEnvAsBool("IDENTITY_PASSWORD_REQUIRE_DIGIT", true),
			RequireLowercase:       getEnvAsBool("IDENTITY_PASSWORD_REQUIRE_LOWERCASE", true),
			RequireUppercase:       getEnvAsBool("IDENTITY_PASSWORD_REQUIRE_UPPERCASE", true),
			RequireNonAlphanumeric: getEnvAsBool("IDENTITY_PASSWORD_REQUIRE_NON_ALPHANUMERIC", false),
			RequiredLength:         getEnvAsInt("IDENTITY_PASSWORD_REQUIRED_LENGTH", 6),
			RequireUniqueEmail:     getEnvAsBool("IDENTITY_REQUIRE_UNIQUE_EMAIL", true),
		},
		Seed: SeedConfig{
			DemoData: getEnvAsBool("SEED_DEMO_DATA", true),
		},
		Worker: WorkerConfig{
			OverdueCron: lookupEnv("WORKER_OVERDUE_CRON", "@every 15m"),
		},
	}

	if err := cfg.applyAuthDefaults(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyAuthDefaults fills JWT settings in development and rejects missing ones elsewhere.
func (c *Config) applyAuthDefaults() error {
	if c.App.IsDevelopment() {
		if c.Auth.JWTKey == "" {
			c.Auth.JWTKey = "dev-secret-key-change-me-0123456789abcdef"
		}
		if c.Auth.JWTIssuer == "" {
			c.Auth.JWTIssuer = "task-team-service"
		}
		if c.Auth.JWTAudience == "" {
			c.Auth.JWTAudience = "task-team-clients"
		}
		return nil
	}
	switch {
	case c.Auth.JWTKey == "":
		return errors.New("JWT_KEY is not configured")
	case c.Auth.JWTIssuer == "":
		return errors.New("JWT_ISSUER is not configured")
	case c.Auth.JWTAudience == "":
		return errors.New("JWT_AUDIENCE is not configured")
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// IsDevelopment reports whether the service runs in development mode.
func (a AppConfig) IsDevelopment() bool {
	return strings.EqualFold(a.Env, "development")
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// TokenTTL returns the JWT lifetime.
func (a AuthConfig) TokenTTL() time.Duration {
	if a.JWTExpirationHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(a.JWTExpirationHours) * time.Hour
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// lookupEnv distinguishes an unset key from one set to the empty string.
func lookupEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(val)
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

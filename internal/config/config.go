package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by MIKRODASH_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("MIKRODASH_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Load main env file (ignore error if file doesn't exist)
	_ = godotenv.Load(envFile)

	// Load secret sidecar if it exists
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 4000
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

// JWTSecret returns the session token signing secret. Rotating it
// invalidates every outstanding token.
func JWTSecret() string {
	return os.Getenv("JWT_SECRET")
}

// TokenTTL returns the session token validity window.
// Defaults to 24 hours if not set.
func TokenTTL() time.Duration {
	hours, err := strconv.Atoi(os.Getenv("TOKEN_TTL_HOURS"))
	if err != nil || hours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(hours) * time.Hour
}

// BcryptCost returns the bcrypt work factor for password and
// security-answer hashing. Defaults to 10 if not set.
func BcryptCost() int {
	cost, err := strconv.Atoi(os.Getenv("BCRYPT_COST"))
	if err != nil || cost <= 0 {
		return 10
	}
	return cost
}

// SessionCheckTimeout bounds the store lookups behind the current-session
// endpoint. The frontend gives that endpoint a short deadline and discards
// its token on any failure, so a slow lookup must fail fast rather than hang.
// Defaults to 3 seconds if not set.
func SessionCheckTimeout() time.Duration {
	ms, err := strconv.Atoi(os.Getenv("SESSION_CHECK_TIMEOUT_MS"))
	if err != nil || ms <= 0 {
		return 3 * time.Second
	}
	return time.Duration(ms) * time.Millisecond
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

func MigrationsPath() string {
	p := os.Getenv("MIGRATIONS_PATH")
	if p == "" {
		return "migrations"
	}
	return p
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}

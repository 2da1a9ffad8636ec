// Package config loads application configuration from environment
// variables. Required values are enforced with must() and abort startup
// when missing; optional subsystems (Redis, rate limiting, caching) have
// their own loaders in this package and degrade gracefully instead.
package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds the runtime configuration of the API server. Each field
// corresponds to one environment variable.
type Config struct {
	Env            string // APP_ENV: dev, test or prod
	Port           string // APP_PORT: HTTP port to listen on
	DBUser         string // DB_USER
	DBPass         string // DB_PASS (empty allowed)
	DBHost         string // DB_HOST
	DBPort         string // DB_PORT
	DBName         string // DB_NAME
	JWTSecret      string // JWT_SECRET: HS256 signing secret
	AccessTTLMin   int    // ACCESS_TOKEN_TTL_MIN
	RefreshTTLDays int    // REFRESH_TOKEN_TTL_DAYS
	BcryptCost     int    // BCRYPT_COST
}

// Load reads the server configuration. Missing required variables are a
// fatal error; there is no sensible default for a DB host or JWT secret.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"),
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),
	}
}

func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

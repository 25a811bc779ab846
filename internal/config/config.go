package config

import (
	"errors"
	"fmt"
	"os"
)

// Config carries the environment-driven settings for the gateway process.
type Config struct {
	Addr string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisAddr     string
	RedisPassword string

	JWTSecret string
	JWTIssuer string
}

// Load reads the configuration from the environment. JWT_SECRET is the only
// required variable; everything else has a local-development default.
func Load() (*Config, error) {
	cfg := &Config{
		Addr:          getenv("ADDR", ":8080"),
		DBHost:        getenv("DB_HOST", "localhost"),
		DBPort:        getenv("DB_PORT", "5432"),
		DBUser:        getenv("DB_USER", "mindconnect"),
		DBPassword:    getenv("DB_PASSWORD", "mindconnect"),
		DBName:        getenv("DB_NAME", "mindconnect"),
		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		JWTIssuer:     getenv("JWT_ISSUER", "mindconnect"),
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("config: JWT_SECRET is required")
	}
	return cfg, nil
}

// PostgresDSN assembles the GORM connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

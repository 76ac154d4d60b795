package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

const devJWTSecret = "dev-jwt-secret"

type Config struct {
	Port     string
	GinMode  string
	JWT      JWT
	Database Database
}

type JWT struct {
	Secret string
	TTL    time.Duration
}

type Database struct {
	Driver string

	MongoURI string
	MongoDB  string

	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string

	SQLitePath string
}

// PostgresDSN builds the key/value DSN used by gorm's postgres driver.
func (d Database) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s dbname=%s port=%s sslmode=%s password=%s",
		d.Host, d.User, d.Name, d.Port, d.SSLMode, d.Password)
}

// Load reads the process environment. Call godotenv before it if a .env
// file should be honoured.
func Load() (Config, error) {
	cfg := Config{
		Port:    envString("PORT", "8080"),
		GinMode: os.Getenv("GIN_MODE"),
		JWT: JWT{
			Secret: envString("JWT_SECRET", devJWTSecret),
		},
		Database: Database{
			Driver:     envString("DB_DRIVER", "mongo"),
			MongoURI:   envString("MONGO_URI", "mongodb://localhost:27017"),
			MongoDB:    envString("MONGO_DB", "postboard"),
			Host:       envString("DB_HOST", "localhost"),
			Port:       envString("DB_PORT", "5432"),
			User:       envString("DB_USER", "postgres"),
			Password:   os.Getenv("DB_PASSWORD"),
			Name:       envString("DB_NAME", "postboard"),
			SSLMode:    envString("DB_SSLMODE", "disable"),
			SQLitePath: envString("SQLITE_PATH", "postboard.db"),
		},
	}

	seconds, err := envInt("JWT_EXPIRES_IN", 3600)
	if err != nil {
		return Config{}, err
	}
	if seconds <= 0 {
		return Config{}, fmt.Errorf("JWT_EXPIRES_IN must be positive, got %d", seconds)
	}
	cfg.JWT.TTL = time.Duration(seconds) * time.Second

	switch cfg.Database.Driver {
	case "mongo", "postgres", "sqlite":
	default:
		return Config{}, fmt.Errorf("unknown DB_DRIVER %q", cfg.Database.Driver)
	}

	if cfg.JWT.Secret == devJWTSecret {
		log.Println("JWT_SECRET not set, using the development secret")
	}
	return cfg, nil
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// CloudinaryConfig holds credentials for signed direct uploads. All fields
// empty means uploads are unconfigured and the signature endpoint returns 503.
type CloudinaryConfig struct {
	CloudName    string
	APIKey       string
	APISecret    string
	UploadFolder string
}

type Config struct {
	AppName string
	Env     string
	Host    string
	Port    int

	DatabaseDriver string // "sqlite" or "postgres"
	SQLitePath     string
	DatabaseURL    string

	JWTSecret          string
	AccessTokenMinutes int
	EncryptKey         string

	DetectorURL string
	Cloudinary  CloudinaryConfig

	CORSOrigins []string
}

func Load() (*Config, error) {
	// Best effort: absence of a .env file is fine, the environment wins.
	_ = godotenv.Load()

	dbHost := getEnv("POSTGRES_HOST", "localhost")
	dbPort := getEnv("POSTGRES_PORT", "5432")
	dbUser := getEnv("POSTGRES_USER", "postgres")
	dbPass := getEnv("POSTGRES_PASSWORD", "postgres")
	dbName := getEnv("POSTGRES_DB", "farmdirect")

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(dbUser, dbPass),
		Host:     fmt.Sprintf("%s:%s", dbHost, dbPort),
		Path:     dbName,
		RawQuery: "sslmode=disable",
	}

	cfg := &Config{
		AppName: getEnv("APP_NAME", "FarmDirect API"),
		Env:     getEnv("APP_ENV", "development"),
		Host:    getEnv("HTTP_HOST", "0.0.0.0"),
		Port:    getEnvAsInt("HTTP_PORT", 8000),

		DatabaseDriver: getEnv("DATABASE_DRIVER", "sqlite"),
		SQLitePath:     getEnv("SQLITE_PATH", "farmerdirect.db"),
		DatabaseURL:    u.String(),

		JWTSecret:          os.Getenv("JWT_SECRET_KEY"),
		AccessTokenMinutes: getEnvAsInt("ACCESS_TOKEN_EXPIRE_MINUTES", 60*24),
		EncryptKey:         os.Getenv("ENCRYPTION_KEY"),

		DetectorURL: os.Getenv("DETECTOR_URL"),
		Cloudinary: CloudinaryConfig{
			CloudName:    os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:       os.Getenv("CLOUDINARY_API_KEY"),
			APISecret:    os.Getenv("CLOUDINARY_API_SECRET"),
			UploadFolder: getEnv("CLOUDINARY_UPLOAD_FOLDER", "farmer_produce_uploads"),
		},
	}

	cors := getEnv("CORS_ORIGINS", "")
	if cors != "" {
		parts := strings.Split(cors, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		cfg.CORSOrigins = parts
	} else {
		cfg.CORSOrigins = []string{"http://localhost:3000"}
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if cfg.EncryptKey == "" {
		return nil, fmt.Errorf("ENCRYPTION_KEY is required")
	}
	if cfg.DatabaseDriver != "sqlite" && cfg.DatabaseDriver != "postgres" {
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}

	return cfg, nil
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvAsInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

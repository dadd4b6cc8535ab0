package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Admin     AdminConfig
	CORS      CORSConfig
	Upload    UploadConfig
	S3        S3Config
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Scheduler SchedulerConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
}

type DatabaseConfig struct {
	Driver   string // postgres, sqlite
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	Path     string // sqlite file path
}

type JWTConfig struct {
	Secret            string
	Algorithm         string
	AccessTokenExpiry time.Duration
}

// AdminConfig holds the bootstrap admin identity.
type AdminConfig struct {
	Username        string
	Password        string
	AllowPhoneLogin bool
	SeedOnStart     bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

type UploadConfig struct {
	Backend           string // local, s3
	Dir               string
	MaxFileSize       int64
	AllowedImageTypes []string
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string // CloudFront or S3 direct URL
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	LoginPerSecond int
	LoginBurst     int
}

type SchedulerConfig struct {
	OfferExpiryEnabled bool
	OfferExpirySpec    string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8000"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "admin"),
			Password: getEnv("DB_PASSWORD", "1234"),
			DBName:   getEnv("DB_NAME", "zhwaweb"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			Path:     getEnv("DB_PATH", "zhwaweb.db"),
		},
		JWT: JWTConfig{
			Secret:            getEnv("SECRET_KEY", "PRODUCTINON_SECRET_KEY"),
			Algorithm:         getEnv("ALGORITHM", "HS256"),
			AccessTokenExpiry: time.Duration(getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 1440)) * time.Minute,
		},
		Admin: AdminConfig{
			Username:        getEnv("ADMIN_USERNAME", ""),
			Password:        getEnv("ADMIN_PASSWORD", ""),
			AllowPhoneLogin: getEnvBool("ALLOW_PHONE_ADMIN_LOGIN", false),
			SeedOnStart:     getEnvBool("ADMIN_SEED_ON_START", true),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "*")),
		},
		Upload: UploadConfig{
			Backend:           getEnv("UPLOAD_BACKEND", "local"),
			Dir:               getEnv("UPLOAD_DIR", "uploads"),
			MaxFileSize:       int64(getEnvInt("MAX_FILE_SIZE", 5242880)),
			AllowedImageTypes: parseSlice(getEnv("ALLOWED_IMAGE_TYPES", "jpg,jpeg,png,gif")),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "eu-central-1"),
			Bucket:          getEnv("AWS_S3_BUCKET", "zhwaweb-uploads"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			BaseURL:         getEnv("AWS_S3_BASE_URL", ""),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		RateLimit: RateLimitConfig{
			LoginPerSecond: getEnvInt("LOGIN_RATE_PER_SECOND", 5),
			LoginBurst:     getEnvInt("LOGIN_RATE_BURST", 10),
		},
		Scheduler: SchedulerConfig{
			OfferExpiryEnabled: getEnvBool("OFFER_EXPIRY_ENABLED", true),
			OfferExpirySpec:    getEnv("OFFER_EXPIRY_SPEC", "@every 15m"),
		},
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	switch c.Upload.Backend {
	case "local", "s3":
	default:
		return fmt.Errorf("unsupported UPLOAD_BACKEND %q", c.Upload.Backend)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("SECRET_KEY must not be empty")
	}
	if c.JWT.AccessTokenExpiry <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}
	return nil
}

func (c *DatabaseConfig) DSN() string {
	if c.Driver == "sqlite" {
		return c.Path
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid integer %s=%s, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Invalid boolean %s=%s, using default %t", key, value, defaultValue)
		return defaultValue
	}
	return b
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

// Package config loads runtime settings: built-in defaults, then an optional
// YAML file named by CONFIG_FILE, then environment variables (a .env file is
// loaded first when present).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"

	ScopeOwner  = "owner"
	ScopeGlobal = "global"

	PhotosLocal = "local"
	PhotosS3    = "s3"
)

// Config holds every runtime setting of the server
type Config struct {
	Server        ServerConfig `yaml:"server"`
	DB            DBConfig     `yaml:"db"`
	Auth          AuthConfig   `yaml:"auth"`
	Photos        PhotoConfig  `yaml:"photos"`
	Storage       string       `yaml:"storage"`        // postgres | memory
	ContactsScope string       `yaml:"contacts_scope"` // owner | global
	LogLevel      string       `yaml:"log_level"`
}

type ServerConfig struct {
	Port    string `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
}

// AuthConfig carries the token signing secret. Changing JWTSecret invalidates
// every token already issued.
type AuthConfig struct {
	JWTSecret          string `yaml:"jwt_secret_key"`
	JWTExpirationHours int64  `yaml:"jwt_expiration_hours"`
	BcryptCost         int    `yaml:"bcrypt_cost"`
}

type PhotoConfig struct {
	Backend     string `yaml:"backend"` // local | s3
	UploadsDir  string `yaml:"uploads_dir"`
	MaxBytes    int64  `yaml:"max_bytes"`
	S3Bucket    string `yaml:"s3_bucket"`
	S3Region    string `yaml:"s3_region"`
	S3Endpoint  string `yaml:"s3_endpoint"`
	S3AccessKey string `yaml:"s3_access_key"`
	S3SecretKey string `yaml:"s3_secret_key"`
	S3PublicURL string `yaml:"s3_public_url"`
}

// Defaults returns the development defaults. JWTSecret has no default.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{Port: "3000", GinMode: "debug"},
		DB:     DBConfig{Host: "localhost", Port: "5432", SSLMode: "disable"},
		Auth:   AuthConfig{JWTExpirationHours: 24, BcryptCost: 10},
		Photos: PhotoConfig{
			Backend:    PhotosLocal,
			UploadsDir: "uploads",
			MaxBytes:   5 * 1024 * 1024,
			S3Region:   "us-east-1",
		},
		Storage:       StoragePostgres,
		ContactsScope: ScopeOwner,
		LogLevel:      "info",
	}
}

// Load builds the configuration and validates it.
func Load() (*Config, error) {
	// A missing .env is normal in containers.
	_ = godotenv.Load()

	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func setString(dst *string, keys ...string) {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			*dst = v
			return
		}
	}
}

func (c *Config) applyEnv() error {
	setString(&c.Server.Port, "SERVER_PORT")
	setString(&c.Server.GinMode, "GIN_MODE")

	setString(&c.DB.Host, "DB_HOST")
	setString(&c.DB.Port, "DB_PORT")
	setString(&c.DB.User, "DB_USER")
	setString(&c.DB.Password, "DB_PASSWORD", "DB_PASS")
	setString(&c.DB.Name, "DB_NAME")
	setString(&c.DB.SSLMode, "DB_SSLMODE")

	setString(&c.Auth.JWTSecret, "JWT_SECRET_KEY")
	if v := os.Getenv("JWT_EXPIRATION_HOURS"); v != "" {
		hours, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid JWT_EXPIRATION_HOURS %q: %w", v, err)
		}
		c.Auth.JWTExpirationHours = hours
	}
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		cost, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid BCRYPT_COST %q: %w", v, err)
		}
		c.Auth.BcryptCost = cost
	}

	setString(&c.Storage, "STORAGE")
	setString(&c.ContactsScope, "CONTACTS_SCOPE")
	setString(&c.LogLevel, "LOG_LEVEL")

	setString(&c.Photos.Backend, "PHOTO_BACKEND")
	setString(&c.Photos.UploadsDir, "UPLOADS_DIR")
	if v := os.Getenv("MAX_PHOTO_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid MAX_PHOTO_BYTES %q: %w", v, err)
		}
		c.Photos.MaxBytes = n
	}
	setString(&c.Photos.S3Bucket, "S3_BUCKET")
	setString(&c.Photos.S3Region, "S3_REGION")
	setString(&c.Photos.S3Endpoint, "S3_ENDPOINT")
	setString(&c.Photos.S3AccessKey, "S3_ACCESS_KEY")
	setString(&c.Photos.S3SecretKey, "S3_SECRET_KEY")
	setString(&c.Photos.S3PublicURL, "S3_PUBLIC_URL")
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET_KEY not set")
	}
	if c.Auth.JWTExpirationHours <= 0 {
		return errors.New("JWT_EXPIRATION_HOURS must be positive")
	}
	switch c.Storage {
	case StorageMemory:
	case StoragePostgres:
		if err := c.DB.Validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown STORAGE %q", c.Storage)
	}
	switch c.Server.GinMode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		return fmt.Errorf("unknown GIN_MODE %q (debug, release or test)", c.Server.GinMode)
	}
	if c.ContactsScope != ScopeOwner && c.ContactsScope != ScopeGlobal {
		return fmt.Errorf("unknown CONTACTS_SCOPE %q", c.ContactsScope)
	}
	if c.Photos.MaxBytes <= 0 {
		return errors.New("MAX_PHOTO_BYTES must be positive")
	}
	switch c.Photos.Backend {
	case PhotosLocal:
		if c.Photos.UploadsDir == "" {
			return errors.New("UPLOADS_DIR not set")
		}
	case PhotosS3:
		if c.Photos.S3Bucket == "" || c.Photos.S3Region == "" {
			return errors.New("S3_BUCKET and S3_REGION are required for the s3 photo backend")
		}
	default:
		return fmt.Errorf("unknown PHOTO_BACKEND %q", c.Photos.Backend)
	}
	return nil
}

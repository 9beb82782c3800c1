// Package config loads process settings from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"strings"
	"time"

	"sntrack/internal/database"
	"sntrack/internal/documents"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env            string
	Host           string
	DBDriver       string
	DatabaseURL    string
	AutoMigrate    bool
	RequestTimeout time.Duration

	Documents documents.Config

	OCRServiceURL string
	OCRTimeout    time.Duration
	// UploadRateLimit is the number of /upload calls allowed per client per
	// minute; 0 disables the limit.
	UploadRateLimit int

	GoogleSheetsCredentialsJSON string
}

func (c Config) Production() bool {
	return c.Env == "production"
}

// Load reads envFiles (".env" when none are given) without overriding
// variables already set, then resolves every setting through viper.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	// A missing .env is fine; the real environment is used.
	_ = godotenv.Load(envFiles...)

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Env:            v.GetString("APP_ENV"),
		Host:           v.GetString("APP_HOST"),
		DBDriver:       strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseURL:    v.GetString("DATABASE_URL"),
		AutoMigrate:    v.GetBool("MIGRATIONS_AUTO"),
		RequestTimeout: v.GetDuration("REQUEST_TIMEOUT"),
		Documents: documents.Config{
			Driver: strings.ToLower(v.GetString("BLOB_DRIVER")),
			FSRoot: v.GetString("BLOB_FS_ROOT"),
			S3: documents.S3Config{
				Bucket:    v.GetString("BLOB_S3_BUCKET"),
				Region:    v.GetString("BLOB_S3_REGION"),
				Endpoint:  v.GetString("BLOB_S3_ENDPOINT"),
				PathStyle: v.GetBool("BLOB_S3_PATH_STYLE"),
			},
		},
		OCRServiceURL:               v.GetString("OCR_SERVICE_URL"),
		OCRTimeout:                  v.GetDuration("OCR_TIMEOUT"),
		UploadRateLimit:             v.GetInt("UPLOAD_RATE_LIMIT"),
		GoogleSheetsCredentialsJSON: v.GetString("GOOGLE_SHEETS_CREDENTIALS_JSON"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_HOST", ":8080")
	v.SetDefault("DB_DRIVER", database.DriverPostgres)
	v.SetDefault("MIGRATIONS_AUTO", true)
	v.SetDefault("REQUEST_TIMEOUT", 30*time.Second)
	v.SetDefault("BLOB_DRIVER", documents.DriverFilesystem)
	v.SetDefault("BLOB_FS_ROOT", "./data/references")
	v.SetDefault("OCR_TIMEOUT", 30*time.Second)
	v.SetDefault("UPLOAD_RATE_LIMIT", 30)
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	switch c.DBDriver {
	case database.DriverPostgres, database.DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.Documents.Driver {
	case documents.DriverFilesystem:
	case documents.DriverS3:
		if c.Documents.S3.Bucket == "" {
			return fmt.Errorf("BLOB_S3_BUCKET is required when BLOB_DRIVER=s3")
		}
	default:
		return fmt.Errorf("unsupported BLOB_DRIVER %q", c.Documents.Driver)
	}
	return nil
}

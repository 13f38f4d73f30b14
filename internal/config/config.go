package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"`
	CORSOrigins string `yaml:"cors_origins"`
	TablePrefix string `yaml:"table_prefix"`
	// Storage
	DBDriver    string `yaml:"db_driver"`
	DatabaseURL string `yaml:"database_url"`
	SQLitePath  string `yaml:"sqlite_path"`
	// OCR
	OCRServiceURL string        `yaml:"ocr_service_url"`
	OCRTimeout    time.Duration `yaml:"ocr_timeout"`
	// Scans
	ScanDir          string `yaml:"scan_dir"`
	CaptureImagePath string `yaml:"capture_image_path"`
	// Logging
	LogDir      string `yaml:"log_dir"`
	LogMaxFiles int    `yaml:"log_max_files"`
	Debug       bool   `yaml:"debug"`
	// OCR inference server (cmd/ocrd)
	OCRDPort     string `yaml:"ocrd_port"`
	OCRLanguages string `yaml:"ocr_languages"`
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_FILE, and the environment. Environment variables win.
func Load() (*Config, error) {
	env := getEnv("ENVIRONMENT", "dev")

	cfg := &Config{
		Port:             "8080",
		Environment:      env,
		CORSOrigins:      "http://localhost:3000",
		TablePrefix:      defaultTablePrefix(env),
		DBDriver:         DriverSQLite,
		SQLitePath:       "gov_doc.db",
		OCRServiceURL:    "http://127.0.0.1:8000/predict",
		OCRTimeout:       15 * time.Second,
		ScanDir:          "data/scans",
		CaptureImagePath: "data/scans/test_doc.jpg",
		LogMaxFiles:      10,
		Debug:            getDefaultDebug(env),
		OCRDPort:         "8000",
		OCRLanguages:     "chi_sim+eng",
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Port = getEnv("PORT", c.Port)
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.CORSOrigins = getEnv("CORS_ORIGINS", c.CORSOrigins)
	// Allow manual override via TABLE_PREFIX env var
	c.TablePrefix = getEnv("TABLE_PREFIX", c.TablePrefix)
	c.DBDriver = strings.ToLower(getEnv("DB_DRIVER", c.DBDriver))
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.SQLitePath = getEnv("SQLITE_PATH", c.SQLitePath)
	c.OCRServiceURL = getEnv("OCR_SERVICE_URL", c.OCRServiceURL)
	c.ScanDir = getEnv("SCAN_DIR", c.ScanDir)
	c.CaptureImagePath = getEnv("CAPTURE_IMAGE_PATH", c.CaptureImagePath)
	c.LogDir = getEnv("LOG_DIR", c.LogDir)
	c.OCRDPort = getEnv("OCRD_PORT", c.OCRDPort)
	c.OCRLanguages = getEnv("OCR_LANGUAGES", c.OCRLanguages)

	if v := os.Getenv("OCR_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("OCR_TIMEOUT: %w", err)
		}
		c.OCRTimeout = d
	}
	if v := os.Getenv("LOG_MAX_FILES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LOG_MAX_FILES: %w", err)
		}
		c.LogMaxFiles = n
	}
	if v := os.Getenv("DEBUG"); v != "" {
		c.Debug = v == "true"
	}
	return nil
}

// Validate checks the settings the server cannot start without
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required),
		validation.Field(&c.DBDriver, validation.Required, validation.In(DriverSQLite, DriverPostgres)),
		validation.Field(&c.DatabaseURL, validation.When(c.DBDriver == DriverPostgres, validation.Required)),
		validation.Field(&c.SQLitePath, validation.When(c.DBDriver == DriverSQLite, validation.Required)),
		validation.Field(&c.OCRServiceURL, validation.Required),
		validation.Field(&c.OCRTimeout, validation.Min(time.Millisecond)),
		validation.Field(&c.CaptureImagePath, validation.Required, validation.Length(1, MaxImagePathLength)),
		validation.Field(&c.LogMaxFiles, validation.Min(1)),
	)
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) bool {
	return env != "prod" // Enable DEBUG in dev/test by default
}

// defaultTablePrefix returns the table prefix based on environment
func defaultTablePrefix(env string) string {
	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	case "dev":
		return "dev_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

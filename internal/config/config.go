package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Catalog source kinds.
const (
	CatalogSourceCSV      = "csv"
	CatalogSourcePostgres = "postgres"
)

// Absent feature encodings.
const (
	AbsentEncodingNull = "null"
	AbsentEncodingOmit = "omit"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Catalog  CatalogConfig
	Database DatabaseConfig
	Models   ModelsConfig
	CORS     CORSConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port     string
	Env      string
	LogLevel string
}

// CatalogConfig describes where the benchmarking dataset is loaded from.
type CatalogConfig struct {
	Source   string
	Path     string
	Table    string
	HeadRows int
}

// DatabaseConfig holds PostgreSQL connection configuration.
// It is only used when the catalog source is postgres.
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	PoolMin  int
	PoolMax  int
}

// TargetConfig locates one trained pipeline. URL takes precedence over Path.
type TargetConfig struct {
	Path      string
	URL       string
	LogTarget bool
}

// Enabled reports whether the target has any model source configured.
func (t TargetConfig) Enabled() bool {
	return t.Path != "" || t.URL != ""
}

// ModelsConfig holds the prediction pipeline configuration.
type ModelsConfig struct {
	Energy         TargetConfig
	Emissions      TargetConfig
	ScorerTimeout  time.Duration
	AbsentEncoding string
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Origins []string
}

// Load reads configuration from environment variables and, when CONFIG_FILE
// is set, from that file first. Environment variables always win.
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults for development
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("CATALOG_SOURCE", CatalogSourceCSV)
	v.SetDefault("CATALOG_PATH", "data/seattle_benchmarking_2016.csv")
	v.SetDefault("CATALOG_TABLE", "building_benchmarks")
	v.SetDefault("CATALOG_HEAD_ROWS", 5)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "benchmarking")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_POOL_MIN", 1)
	v.SetDefault("DB_POOL_MAX", 4)
	v.SetDefault("MODEL_ENERGY_PATH", "models/energy_pipeline.json")
	v.SetDefault("MODEL_ENERGY_LOG_TARGET", true)
	v.SetDefault("MODEL_EMISSIONS_LOG_TARGET", true)
	v.SetDefault("SCORER_TIMEOUT", "5s")
	v.SetDefault("FEATURE_ABSENT_ENCODING", AbsentEncodingNull)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:8501")

	// Bind environment variables
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:     v.GetString("PORT"),
			Env:      v.GetString("ENV"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		Catalog: CatalogConfig{
			Source:   strings.ToLower(v.GetString("CATALOG_SOURCE")),
			Path:     v.GetString("CATALOG_PATH"),
			Table:    v.GetString("CATALOG_TABLE"),
			HeadRows: v.GetInt("CATALOG_HEAD_ROWS"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			PoolMin:  v.GetInt("DB_POOL_MIN"),
			PoolMax:  v.GetInt("DB_POOL_MAX"),
		},
		Models: ModelsConfig{
			Energy: TargetConfig{
				Path:      v.GetString("MODEL_ENERGY_PATH"),
				URL:       v.GetString("MODEL_ENERGY_URL"),
				LogTarget: v.GetBool("MODEL_ENERGY_LOG_TARGET"),
			},
			Emissions: TargetConfig{
				Path:      v.GetString("MODEL_EMISSIONS_PATH"),
				URL:       v.GetString("MODEL_EMISSIONS_URL"),
				LogTarget: v.GetBool("MODEL_EMISSIONS_LOG_TARGET"),
			},
			ScorerTimeout:  v.GetDuration("SCORER_TIMEOUT"),
			AbsentEncoding: strings.ToLower(v.GetString("FEATURE_ABSENT_ENCODING")),
		},
		CORS: CORSConfig{
			Origins: parseOrigins(v.GetString("CORS_ORIGINS")),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	// Validate catalog config
	switch c.Catalog.Source {
	case CatalogSourceCSV:
		if c.Catalog.Path == "" {
			return fmt.Errorf("CATALOG_PATH is required when CATALOG_SOURCE is csv")
		}
	case CatalogSourcePostgres:
		if c.Catalog.Table == "" {
			return fmt.Errorf("CATALOG_TABLE is required when CATALOG_SOURCE is postgres")
		}
		if err := c.Database.Validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("CATALOG_SOURCE must be one of csv, postgres (got %q)", c.Catalog.Source)
	}
	if c.Catalog.HeadRows < 1 {
		return fmt.Errorf("CATALOG_HEAD_ROWS must be at least 1")
	}

	// Validate model config
	if !c.Models.Energy.Enabled() {
		return fmt.Errorf("MODEL_ENERGY_PATH or MODEL_ENERGY_URL is required")
	}
	if c.Models.ScorerTimeout <= 0 {
		return fmt.Errorf("SCORER_TIMEOUT must be positive")
	}
	switch c.Models.AbsentEncoding {
	case AbsentEncodingNull, AbsentEncodingOmit:
	default:
		return fmt.Errorf("FEATURE_ABSENT_ENCODING must be one of null, omit (got %q)", c.Models.AbsentEncoding)
	}

	if len(c.CORS.Origins) == 0 {
		return fmt.Errorf("CORS_ORIGINS is required")
	}

	return nil
}

// Validate checks the PostgreSQL settings.
func (d DatabaseConfig) Validate() error {
	if d.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if d.Port == "" {
		return fmt.Errorf("DB_PORT is required")
	}
	if d.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if d.User == "" {
		return fmt.Errorf("DB_USER is required")
	}
	if d.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if d.PoolMin < 0 {
		return fmt.Errorf("DB_POOL_MIN must be non-negative")
	}
	if d.PoolMax < 1 {
		return fmt.Errorf("DB_POOL_MAX must be at least 1")
	}
	if d.PoolMin > d.PoolMax {
		return fmt.Errorf("DB_POOL_MIN must be less than or equal to DB_POOL_MAX")
	}
	return nil
}

// parseOrigins splits a comma-separated string of origins into a slice.
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// Package config provides configuration loading for the application.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/common"
)

// Config is the resolved application configuration.
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Server    ServerConfig    `mapstructure:"server"`
	Dedup     DedupConfig     `mapstructure:"dedup"`
	Lexicon   LexiconConfig   `mapstructure:"lexicon"`
	Fund      FundConfig      `mapstructure:"fund"`
	Anomaly   AnomalyConfig   `mapstructure:"anomaly"`
	Geocoder  GeocoderConfig  `mapstructure:"geocoder"`
	Extractor ExtractorConfig `mapstructure:"extractor"`
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// DedupConfig tunes duplicate clustering.
type DedupConfig struct {
	RadiusKm         float64 `mapstructure:"radius_km"`
	FullClusterMatch bool    `mapstructure:"full_cluster_match"`
}

// LexiconConfig locates the sector lexicon override file.
type LexiconConfig struct {
	Path string `mapstructure:"path"`
}

// FundConfig sets the constituency fund ceiling.
type FundConfig struct {
	Total float64 `mapstructure:"total"`
}

// AnomalyConfig locates the market-rate override file.
type AnomalyConfig struct {
	RatesPath string `mapstructure:"rates_path"`
}

// GeocoderConfig configures reverse geocoding.
type GeocoderConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Enabled bool   `mapstructure:"enabled"`
}

// ExtractorConfig configures document extraction.
type ExtractorConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// SetDefaults registers the default configuration values with viper.
func SetDefaults() {
	viper.SetDefault("database.path", "$HOME/.local/share/civicfund/civicfund.db")
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("dedup.radius_km", 5.0)
	viper.SetDefault("dedup.full_cluster_match", false)
	viper.SetDefault("fund.total", 50_000_000)
	viper.SetDefault("geocoder.enabled", true)
	viper.SetDefault("geocoder.base_url", "")
	viper.SetDefault("lexicon.path", "")
	viper.SetDefault("anomaly.rates_path", "")
	viper.SetDefault("extractor.api_key", "")
}

// Load resolves the configuration from viper's current state.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}

	cfg.Database.Path = ExpandPath(cfg.Database.Path)
	cfg.Lexicon.Path = ExpandPath(cfg.Lexicon.Path)
	cfg.Anomaly.RatesPath = ExpandPath(cfg.Anomaly.RatesPath)

	if cfg.Fund.Total <= 0 {
		return nil, fmt.Errorf("%w: fund total must be positive", common.ErrInvalidConfig)
	}
	if cfg.Dedup.RadiusKm <= 0 {
		return nil, fmt.Errorf("%w: dedup radius must be positive", common.ErrInvalidConfig)
	}

	return &cfg, nil
}

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}

// Package config loads application settings from the environment and
// an optional openingest.yaml config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

type Config struct {
	// Serve mode
	Addr           string
	APIKey         string
	MaxUploadBytes int64

	// Ingestion defaults
	DefaultFormat       string
	DefaultChunkSize    int
	DefaultChunkOverlap int
	ExtractTables       bool
	ExtractImages       bool

	// PDF
	PDFFallbackPdftotext bool

	// Logging
	LogFile  string
	LogLevel string
}

// Load reads configuration via viper: defaults, then an optional
// openingest.yaml (cwd or ~/.config/openingest), then OPENINGEST_*
// environment variables.
func Load() Config {
	v := viper.New()

	v.SetDefault("addr", ":8090")
	v.SetDefault("api_key", "")
	v.SetDefault("max_upload_bytes", int64(52428800)) // 50MB
	v.SetDefault("default_format", "markdown")
	v.SetDefault("default_chunk_size", 1000)
	v.SetDefault("default_chunk_overlap", 100)
	v.SetDefault("extract_tables", true)
	v.SetDefault("extract_images", false)
	v.SetDefault("pdf_fallback_pdftotext", true)
	v.SetDefault("log_file", "")
	v.SetDefault("log_level", "info")

	v.SetConfigName("openingest")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "openingest"))
	}
	v.SetEnvPrefix("OPENINGEST")
	v.AutomaticEnv()

	_ = v.ReadInConfig() // Missing config file is fine; env and defaults apply.

	cfg := Config{
		Addr:                 v.GetString("addr"),
		APIKey:               v.GetString("api_key"),
		MaxUploadBytes:       v.GetInt64("max_upload_bytes"),
		DefaultFormat:        v.GetString("default_format"),
		DefaultChunkSize:     v.GetInt("default_chunk_size"),
		DefaultChunkOverlap:  v.GetInt("default_chunk_overlap"),
		ExtractTables:        v.GetBool("extract_tables"),
		ExtractImages:        v.GetBool("extract_images"),
		PDFFallbackPdftotext: v.GetBool("pdf_fallback_pdftotext"),
		LogFile:              v.GetString("log_file"),
		LogLevel:             v.GetString("log_level"),
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.DefaultChunkSize <= 0 {
		cfg.DefaultChunkSize = 1000
	}
	if cfg.DefaultChunkOverlap < 0 || cfg.DefaultChunkOverlap >= cfg.DefaultChunkSize {
		cfg.DefaultChunkOverlap = cfg.DefaultChunkSize / 10
	}

	return cfg
}

// Validate checks settings that have no workable fallback.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	return nil
}

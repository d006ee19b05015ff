package common

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Journal JournalConfig
	Scan    ScanConfig
	OCR     OCRConfig
	Retry   RetryConfig
	Server  ServerConfig
	Log     LogConfig
}

// JournalConfig holds the event journal / processed-set database settings.
// A URL starting with postgres:// or postgresql:// selects Postgres, anything else is a SQLite path or DSN.
type JournalConfig struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
	RetainDays      int
}

// ScanConfig holds discovery and rename settings
type ScanConfig struct {
	Dir             string
	AllowedExts     []string
	HeuristicsFile  string
	DryRun          bool
	SkipCanonical   bool
	DocumentTimeout time.Duration
	ForceZone       string
	WatchDebounce   time.Duration
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Tesseract         string
	Pdftoppm          string
	TesseractLang     string
	TessdataDir       string
	DPI               int
	HeicConverter     string
	MinWordConfidence float64
}

// RetryConfig bounds per-document retries in the batch driver
type RetryConfig struct {
	Attempts int
	Backoff  time.Duration
}

// ServerConfig holds daemon-related configuration
type ServerConfig struct {
	GRPCAddr string
	Gops     bool
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Journal: JournalConfig{
			URL:             getEnv("JOURNAL_URL", "scanrename.db"),
			MaxConns:        getEnvAsInt32("JOURNAL_MAX_CONNS", 4),
			MinConns:        getEnvAsInt32("JOURNAL_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("JOURNAL_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime: getEnvAsDuration("JOURNAL_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:     getEnvAsDuration("JOURNAL_DIAL_TIMEOUT", 3*time.Second),
			RetainDays:      getEnvAsInt("JOURNAL_RETAIN_DAYS", 0),
		},
		Scan: ScanConfig{
			Dir:             getEnv("SCAN_DIR", "."),
			AllowedExts:     getEnvAsList("ALLOWED_EXTS", []string{"pdf", "png", "jpg", "jpeg"}),
			HeuristicsFile:  getEnv("HEURISTICS_FILE", ""),
			DryRun:          getEnvAsBool("DRY_RUN", false),
			SkipCanonical:   getEnvAsBool("SKIP_CANONICAL", true),
			DocumentTimeout: getEnvAsDuration("DOCUMENT_TIMEOUT", 5*time.Minute),
			ForceZone:       getEnv("FORCE_ZONE", ""),
			WatchDebounce:   getEnvAsDuration("WATCH_DEBOUNCE", 2*time.Second),
		},
		OCR: OCRConfig{
			Tesseract:         getEnv("TESSERACT", "tesseract"),
			Pdftoppm:          getEnv("PDFTOPPM", "pdftoppm"),
			TesseractLang:     getEnv("TESSERACT_LANG", "deu"),
			TessdataDir:       getEnv("TESSDATA_PREFIX", ""),
			DPI:               getEnvAsInt("OCR_DPI", 300),
			HeicConverter:     getEnv("HEIC_CONVERTER", "magick"),
			MinWordConfidence: getEnvAsFloat("OCR_MIN_WORD_CONFIDENCE", 30),
		},
		Retry: RetryConfig{
			Attempts: getEnvAsInt("RETRY_ATTEMPTS", 3),
			Backoff:  getEnvAsDuration("RETRY_BACKOFF", 2*time.Second),
		},
		Server: ServerConfig{
			GRPCAddr: getEnv("GRPC_ADDR", ":8080"),
			Gops:     getEnvAsBool("GOPS", false),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return ParseCSV(value)
}

// ParseCSV splits a comma-separated list, trimming blanks.
func ParseCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// SlogLevel maps the configured level name onto slog.
func (c LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.Level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator().
		Field("SCAN_DIR", c.Scan.Dir, Required).
		Field("ALLOWED_EXTS", c.Scan.AllowedExts, Required).
		Field("JOURNAL_URL", c.Journal.URL, Required).
		Field("JOURNAL_RETAIN_DAYS", c.Journal.RetainDays, NonNegative).
		Field("OCR_DPI", c.OCR.DPI, Positive).
		Field("OCR_MIN_WORD_CONFIDENCE", c.OCR.MinWordConfidence, NonNegative).
		Field("RETRY_ATTEMPTS", c.Retry.Attempts, Positive).
		Field("RETRY_BACKOFF", c.Retry.Backoff, NonNegative).
		Field("LOG_LEVEL", c.Log.Level, OneOf("debug", "info", "warn", "warning", "error")).
		Field("HEIC_CONVERTER", c.OCR.HeicConverter, OneOf("heif-convert", "magick", "sips"))
	if err := v.Error(); err != nil {
		return NewAppError(CodeConfig, "invalid configuration", err)
	}
	return nil
}

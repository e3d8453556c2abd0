package config

import (
	"fmt"
	"net"
	"strconv"
)

// Config holds all server-side application configuration
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBPath string

	// Matching configuration
	ThresholdFedEx float64
	ThresholdUPS   float64
	ThresholdUSPS  float64
	MatchWorkers   int

	// PDF rendering configuration
	PdftoppmPath string
	RenderDPI    int

	// OCR configuration
	TesseractLanguage string

	// Upload limits
	MaxUploadBytes int64

	// Candidate cache
	DisableCache bool

	// Google Drive configuration (optional)
	DriveEnabled         bool
	DriveCredentialsFile string
	DriveFolderID        string

	// Delivery-status tracking (optional)
	TrackingEnabled         bool
	TrackingAPIURL          string
	TrackingAPIKey          string
	TrackingIntervalMinutes int
	DisableRateLimit        bool

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables with defaults.
// If a .env file exists, it is loaded first.
func Load() (*Config, error) {
	loadEnvFile(".env")

	config := &Config{
		// Server defaults
		ServerPort: getEnvOrDefault("SERVER_PORT", "8080"),
		ServerHost: getEnvOrDefault("SERVER_HOST", "localhost"),

		// Database defaults
		DBPath: getEnvOrDefault("DB_PATH", "./label-matcher.db"),

		// Matching defaults; per-carrier acceptance thresholds are tuned
		// values, overridable for calibration runs.
		ThresholdFedEx: getEnvFloatOrDefault("MATCH_THRESHOLD_FEDEX", 0.25),
		ThresholdUPS:   getEnvFloatOrDefault("MATCH_THRESHOLD_UPS", 0.28),
		ThresholdUSPS:  getEnvFloatOrDefault("MATCH_THRESHOLD_USPS", 0.30),
		MatchWorkers:   getEnvIntOrDefault("MATCH_WORKERS", 4),

		// PDF rendering
		PdftoppmPath: getEnvOrDefault("PDFTOPPM_PATH", "pdftoppm"),
		RenderDPI:    getEnvIntOrDefault("RENDER_DPI", 300),

		// OCR
		TesseractLanguage: getEnvOrDefault("TESSERACT_LANGUAGE", "eng"),

		// Uploads capped at 50 MB by default
		MaxUploadBytes: int64(getEnvIntOrDefault("MAX_UPLOAD_BYTES", 50*1024*1024)),

		// Candidate cache
		DisableCache: getEnvBoolOrDefault("DISABLE_CACHE", false),

		// Google Drive (optional)
		DriveEnabled:         getEnvBoolOrDefault("DRIVE_ENABLED", false),
		DriveCredentialsFile: getEnvOrDefault("DRIVE_CREDENTIALS_FILE", ""),
		DriveFolderID:        getEnvOrDefault("DRIVE_FOLDER_ID", ""),

		// Delivery-status tracking (optional); the refresh pass runs
		// twice a day by default.
		TrackingEnabled:         getEnvBoolOrDefault("TRACKING_ENABLED", false),
		TrackingAPIURL:          getEnvOrDefault("TRACKING_API_URL", ""),
		TrackingAPIKey:          getEnvOrDefault("TRACKING_API_KEY", ""),
		TrackingIntervalMinutes: getEnvIntOrDefault("TRACKING_INTERVAL_MINUTES", 720),
		DisableRateLimit:        getEnvBoolOrDefault("DISABLE_RATE_LIMIT", false),

		// Logging
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// validate checks if the configuration is valid
func (c *Config) validate() error {
	if c.ServerPort == "" {
		return fmt.Errorf("server port cannot be empty")
	}
	if _, err := strconv.Atoi(c.ServerPort); err != nil {
		return fmt.Errorf("invalid server port: %s", c.ServerPort)
	}

	if c.DBPath == "" {
		return fmt.Errorf("database path cannot be empty")
	}

	for name, threshold := range map[string]float64{
		"MATCH_THRESHOLD_FEDEX": c.ThresholdFedEx,
		"MATCH_THRESHOLD_UPS":   c.ThresholdUPS,
		"MATCH_THRESHOLD_USPS":  c.ThresholdUSPS,
	} {
		if threshold <= 0 || threshold > 1 {
			return fmt.Errorf("%s must be in (0, 1], got %g", name, threshold)
		}
	}

	if c.MatchWorkers < 1 {
		return fmt.Errorf("match workers must be at least 1")
	}

	if c.RenderDPI < 72 || c.RenderDPI > 1200 {
		return fmt.Errorf("render DPI must be between 72 and 1200, got %d", c.RenderDPI)
	}

	if c.MaxUploadBytes < 1 {
		return fmt.Errorf("max upload bytes must be positive")
	}

	if c.DriveEnabled && c.DriveCredentialsFile == "" {
		return fmt.Errorf("DRIVE_CREDENTIALS_FILE is required when Drive upload is enabled")
	}

	if c.TrackingEnabled && c.TrackingAPIKey == "" {
		return fmt.Errorf("TRACKING_API_KEY is required when tracking is enabled")
	}
	if c.TrackingIntervalMinutes < 1 {
		return fmt.Errorf("tracking interval must be at least 1 minute, got %d", c.TrackingIntervalMinutes)
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	isValidLogLevel := false
	for _, level := range validLogLevels {
		if c.LogLevel == level {
			isValidLogLevel = true
			break
		}
	}
	if !isValidLogLevel {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// Address returns the host:port address the server should listen on
func (c *Config) Address() string {
	return net.JoinHostPort(c.ServerHost, c.ServerPort)
}

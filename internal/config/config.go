package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Address the HTTP server listens on
	ListenAddr string

	// Public base URL of this service, used to build the Last.fm
	// authentication callback (e.g. "http://localhost:8080")
	BaseURL string

	// Log level: debug, info, warn, error
	LogLevel string

	// Path of the SQLite database holding edit history
	HistoryDB string

	// Lookback window for bulk edits; Last.fm only allows editing
	// scrobbles from the last 14 days
	EditWindowDays int

	// Pause between consecutive scrobble deletions
	DeleteDelay time.Duration

	// Mark the session cookie Secure (disable for plain-HTTP development)
	SecureCookies bool

	// Last.fm API credentials and endpoint overrides
	LastFM LastFMConfig
}

// LastFMConfig holds Last.fm specific configuration
type LastFMConfig struct {
	APIKey     string
	APISecret  string
	APIBaseURL string // empty for the real API
	WebBaseURL string // empty for the real website
}

// Load reads configuration from file and environment
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Config file locations (in order of precedence)
	configDir := getConfigDir()
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	// Set defaults
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("base_url", "http://localhost:8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("history_db", filepath.Join(configDir, "history.db"))
	v.SetDefault("edit_window_days", 14)
	v.SetDefault("delete_delay", "1s")
	v.SetDefault("secure_cookies", true)

	// Read config file (optional - don't fail if missing)
	_ = v.ReadInConfig()

	// Read from environment variables
	v.SetEnvPrefix("SCROBBLEMEND")
	v.AutomaticEnv()

	cfg := &Config{
		ListenAddr:     v.GetString("listen_addr"),
		BaseURL:        v.GetString("base_url"),
		LogLevel:       v.GetString("log_level"),
		HistoryDB:      v.GetString("history_db"),
		EditWindowDays: v.GetInt("edit_window_days"),
		DeleteDelay:    v.GetDuration("delete_delay"),
		SecureCookies:  v.GetBool("secure_cookies"),
		LastFM: LastFMConfig{
			APIKey:     v.GetString("lastfm.api_key"),
			APISecret:  v.GetString("lastfm.api_secret"),
			APIBaseURL: v.GetString("lastfm.api_base_url"),
			WebBaseURL: v.GetString("lastfm.web_base_url"),
		},
	}

	return cfg, nil
}

// Validate checks that required settings are present. Missing API
// credentials are fatal: no signed request can be attempted without them.
func (c *Config) Validate() error {
	if c.LastFM.APIKey == "" {
		return fmt.Errorf("lastfm.api_key is required")
	}
	if c.LastFM.APISecret == "" {
		return fmt.Errorf("lastfm.api_secret is required")
	}
	if c.EditWindowDays <= 0 {
		return fmt.Errorf("edit_window_days must be positive, got %d", c.EditWindowDays)
	}
	return nil
}

// getConfigDir returns the configuration directory path
// Creates the directory if it doesn't exist
func getConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	configDir := filepath.Join(homeDir, ".config", "scrobblemend")

	// Create config directory if it doesn't exist
	_ = os.MkdirAll(configDir, 0755)

	return configDir
}

// GetConfigDir returns the configuration directory path (public helper)
func GetConfigDir() string {
	return getConfigDir()
}

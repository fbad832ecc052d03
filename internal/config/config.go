package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// TMDB catalog
	TMDBAPIKey    string
	TMDBBaseURL   string
	TMDBLanguage  string  // Display locale sent with every catalog request
	TMDBRateLimit float64 // Requests per second

	// Profile store
	ProfileStoreURL string
	ProfilesPath    string

	HTTPTimeout time.Duration

	// Browsing
	DiscoveryDebounce time.Duration
	ReferenceCacheTTL time.Duration
	BrowseSessionTTL  time.Duration

	// Server
	ServerPort string

	// Paths
	DatabaseFile string // $CONFIG_DIR/cinesync.db

	// Logging / tracing
	LogLevel       string
	LogFormat      string
	TracingEnabled bool
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = viper.ReadInConfig()

	setDefaults()

	configDir := viper.GetString("CONFIG_DIR")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "cinesync")
	} else {
		absPath, err := filepath.Abs(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
		}
		configDir = absPath
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config := &Config{
		TMDBAPIKey:    viper.GetString("TMDB_API_KEY"),
		TMDBBaseURL:   viper.GetString("TMDB_BASE_URL"),
		TMDBLanguage:  viper.GetString("TMDB_LANGUAGE"),
		TMDBRateLimit: viper.GetFloat64("TMDB_RATE_LIMIT"),

		ProfileStoreURL: viper.GetString("PROFILE_STORE_URL"),
		ProfilesPath:    viper.GetString("PROFILES_PATH"),

		HTTPTimeout: time.Duration(viper.GetInt("HTTP_TIMEOUT_SECONDS")) * time.Second,

		DiscoveryDebounce: time.Duration(viper.GetInt("DISCOVERY_DEBOUNCE_MS")) * time.Millisecond,
		ReferenceCacheTTL: time.Duration(viper.GetInt("REFERENCE_CACHE_HOURS")) * time.Hour,
		BrowseSessionTTL:  time.Duration(viper.GetInt("BROWSE_SESSION_MINUTES")) * time.Minute,

		ServerPort: viper.GetString("SERVER_PORT"),

		DatabaseFile: filepath.Join(configDir, "cinesync.db"),

		LogLevel:       viper.GetString("LOG_LEVEL"),
		LogFormat:      viper.GetString("LOG_FORMAT"),
		TracingEnabled: viper.GetBool("TRACING_ENABLED"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func setDefaults() {
	viper.SetDefault("TMDB_BASE_URL", "https://api.themoviedb.org/3")
	viper.SetDefault("TMDB_LANGUAGE", "pt-PT")
	viper.SetDefault("TMDB_RATE_LIMIT", 40)
	viper.SetDefault("PROFILE_STORE_URL", "https://cinesync-api-2dpa.onrender.com")
	viper.SetDefault("PROFILES_PATH", "/profiles")
	viper.SetDefault("HTTP_TIMEOUT_SECONDS", 30)
	viper.SetDefault("DISCOVERY_DEBOUNCE_MS", 500)
	viper.SetDefault("REFERENCE_CACHE_HOURS", 12)
	viper.SetDefault("BROWSE_SESSION_MINUTES", 30)
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")
	viper.SetDefault("TRACING_ENABLED", false)
}

// Validate checks required fields and value ranges
func (c *Config) Validate() error {
	if c.TMDBAPIKey == "" {
		return fmt.Errorf("TMDB_API_KEY is required")
	}
	if c.ProfileStoreURL == "" {
		return fmt.Errorf("PROFILE_STORE_URL is required")
	}
	if c.TMDBRateLimit <= 0 {
		return fmt.Errorf("TMDB_RATE_LIMIT must be positive, got %v", c.TMDBRateLimit)
	}
	if c.DiscoveryDebounce < 0 {
		return fmt.Errorf("DISCOVERY_DEBOUNCE_MS must not be negative")
	}
	if c.ReferenceCacheTTL <= 0 {
		return fmt.Errorf("REFERENCE_CACHE_HOURS must be positive")
	}
	return nil
}

package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from config files,
// environment variables, and .env files. Command-line flags override these
// values after cobra parses them.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool

	// Config file
	ConfigFile string

	// Run configuration
	DatabasePath       string
	ProximityThreshold float64
	NameSimilarity     float64
	StartYear          int
	EndYear            int

	// Logging configuration
	LogLevel  string
	LogFormat string
}

// Configuration defaults matching the standard Colorado run.
const (
	defaultDatabasePath       = "perimeters.db"
	defaultProximityThreshold = 500.0
	defaultNameSimilarity     = 0.85
	defaultStartYear          = 1984
	defaultEndYear            = 2024
)

// LoadConfig loads configuration from all sources in order of precedence:
// command-line flags (handled by cobra), environment variables, .env files,
// config file (~/.perimeters.yaml), defaults.
func LoadConfig() (*Config, error) {
	loadEnvFiles()

	viper.AutomaticEnv()
	viper.SetEnvPrefix("perimeters")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.AddConfigPath(".")
			viper.SetConfigType("yaml")
			viper.SetConfigName(".perimeters")
		}
	}

	viper.SetDefault("database", defaultDatabasePath)
	viper.SetDefault("proximity_threshold", defaultProximityThreshold)
	viper.SetDefault("name_similarity", defaultNameSimilarity)
	viper.SetDefault("start_year", defaultStartYear)
	viper.SetDefault("end_year", defaultEndYear)

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()

	config := &Config{
		Verbose: viper.GetBool("verbose"),
		Quiet:   viper.GetBool("quiet"),

		ConfigFile: viper.ConfigFileUsed(),

		DatabasePath:       viper.GetString("database"),
		ProximityThreshold: viper.GetFloat64("proximity_threshold"),
		NameSimilarity:     viper.GetFloat64("name_similarity"),
		StartYear:          viper.GetInt("start_year"),
		EndYear:            viper.GetInt("end_year"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
	}

	return config, nil
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	envFiles := []string{
		".env",
		".env.local",
	}
	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if
// not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

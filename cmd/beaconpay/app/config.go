package app

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/beaconpay/beaconpay/pkg/constants"
)

// Config holds the application configuration loaded from flags,
// environment variables, .env files, and the optional config file, in
// that order of precedence.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool

	// Config file
	ConfigFile string

	// Paths
	ConfigDir string
	DataDir   string
	CacheDir  string

	// Data selection
	Session int
	Year    int

	// Upstream endpoints
	APIBase    string
	PayrollURL string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of
// precedence: flags (applied later by cobra), environment variables,
// .env files, config file, defaults.
func LoadConfig() (*Config, error) {
	loadEnvFiles()

	viper.AutomaticEnv()
	viper.SetEnvPrefix("BEACONPAY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".beaconpay")
	}
	_ = viper.ReadInConfig()

	config := &Config{
		Verbose: viper.GetBool("verbose"),
		Quiet:   viper.GetBool("quiet"),
		NoColor: viper.GetBool("no-color"),

		ConfigFile: viper.ConfigFileUsed(),

		ConfigDir: stringOrDefault(viper.GetString("config_dir"), "config"),
		DataDir:   stringOrDefault(viper.GetString("data_dir"), "data"),
		CacheDir:  viper.GetString("cache_dir"),

		Session: intOrDefault(viper.GetInt("session"), 194),
		Year:    intOrDefault(viper.GetInt("year"), 2025),

		APIBase:    stringOrDefault(viper.GetString("api_base"), constants.DefaultAPIBase),
		PayrollURL: stringOrDefault(viper.GetString("payroll_url"), constants.DefaultPayrollURL),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", ""),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	return config, nil
}

// UpdateFromFlags applies parsed command flags, which take precedence
// over every other source.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// ConfigPath returns the path of a file under the config directory.
func (c *Config) ConfigPath(name string) string {
	return filepath.Join(c.ConfigDir, name)
}

// DataPath returns the path of a file under the data directory.
func (c *Config) DataPath(name string) string {
	return filepath.Join(c.DataDir, name)
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func stringOrDefault(value, defaultValue string) string {
	if value != "" {
		return value
	}
	return defaultValue
}

func intOrDefault(value, defaultValue int) int {
	if value != 0 {
		return value
	}
	return defaultValue
}

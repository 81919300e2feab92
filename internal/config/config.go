package config

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
	"github.com/teslasoft/id-agent/internal/common"
)

func DefaultConfig() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling default config: %w", err)
	}

	return &config, nil
}

// Load loads the configuration from various sources
func Load(configFile string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	v := viper.New()

	setupViperConfig(v, configFile)
	bindEnvironmentVariables(v)

	config, err := readAndUnmarshalConfig(v)
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	if err := setupLogging(config, v); err != nil {
		return nil, err
	}

	return config, nil
}

// loadEnvFile loads the .env file if it exists
func loadEnvFile() error {
	if err := gotenv.Load(); err != nil {
		// .env file not found, that's okay - continue with other sources
		if !os.IsNotExist(err) {
			fmt.Printf("Warning: Error loading .env file: %v\n", err)
		}
	}
	return nil
}

// setupViperConfig configures viper with file paths and defaults
func setupViperConfig(v *viper.Viper, configFile string) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath(defaultStoragePath())

	if len(configFile) > 0 {
		v.SetConfigFile(configFile)
	}

	setDefaults(v)

	v.SetEnvPrefix("TESLASOFT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
}

// bindEnvironmentVariables binds all environment variables to viper
func bindEnvironmentVariables(v *viper.Viper) {
	v.BindEnv("teslasoft.endpoint", "TESLASOFT_ENDPOINT")
	v.BindEnv("teslasoft.strict", "TESLASOFT_STRICT")
	v.BindEnv("teslasoft.timeout", "TESLASOFT_TIMEOUT")

	v.BindEnv("core.executable", "TESLASOFT_CORE_EXECUTABLE")
	v.BindEnv("core.timeout", "TESLASOFT_CORE_TIMEOUT")

	v.BindEnv("app.api_key", "TESLASOFT_API_KEY")
	v.BindEnv("app.app_id", "TESLASOFT_APP_ID")

	v.BindEnv("storage.path", "TESLASOFT_STORAGE_PATH")
	v.BindEnv("sync.interval", "TESLASOFT_SYNC_INTERVAL")

	v.BindEnv("logging.level", "TESLASOFT_LOGGING_LEVEL")
	v.BindEnv("logging.format", "TESLASOFT_LOGGING_FORMAT")
}

// readAndUnmarshalConfig reads the configuration file and unmarshals it
func readAndUnmarshalConfig(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; proceed with defaults and environment variables
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if !common.IsValidURL(c.Teslasoft.Endpoint) {
		return fmt.Errorf("invalid teslasoft endpoint: %q", c.Teslasoft.Endpoint)
	}
	if len(c.Core.Executable) == 0 {
		return fmt.Errorf("core executable is not configured")
	}
	if len(c.Storage.Path) == 0 {
		return fmt.Errorf("storage path is not configured")
	}
	if c.Sync.Interval <= 0 {
		return fmt.Errorf("sync interval must be positive, got %s", c.Sync.Interval)
	}
	return nil
}

// setupLogging configures the logging system based on the config
func setupLogging(config *Config, v *viper.Viper) error {
	logrusLevel, err := logrus.ParseLevel(config.Logging.Level)
	if err != nil {
		return fmt.Errorf("error parsing log level: %w", err)
	}

	logrus.SetLevel(logrusLevel)

	switch strings.ToLower(config.Logging.Format) {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	default:
		logrus.WithFields(logrus.Fields{
			"format": config.Logging.Format,
		}).Warn("Unknown log format")
	}

	// Dump out the config settings if in debug mode
	if logrusLevel >= logrus.DebugLevel {
		for key, value := range v.AllSettings() {
			if key == "app" {
				// keeps the api key out of the logs
				continue
			}
			logrus.Debugf("Config '%s': %v\n", key, value)
		}
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("teslasoft.endpoint", DefaultEndpoint)
	v.SetDefault("teslasoft.strict", false)
	v.SetDefault("teslasoft.timeout", "0s")

	v.SetDefault("core.executable", DefaultCoreExecutable)
	v.SetDefault("core.package", DefaultCorePackage)
	v.SetDefault("core.activity", DefaultCoreActivity)
	v.SetDefault("core.timeout", DefaultCoreTimeout.String())

	v.SetDefault("app.api_key", "")
	v.SetDefault("app.app_id", "")

	v.SetDefault("storage.path", defaultStoragePath())
	v.SetDefault("sync.interval", DefaultSyncInterval.String())

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// defaultStoragePath resolves ~/.config/teslasoft, falling back to the
// working directory when there is no home.
func defaultStoragePath() string {
	usr, err := user.Current()
	if err != nil || len(usr.HomeDir) == 0 {
		logrus.WithError(err).Debugln("Failed to get current user, using working directory for storage")
		return filepath.Join(".", "."+DefaultStorageFolderName)
	}
	return filepath.Join(usr.HomeDir, ".config", DefaultStorageFolderName)
}

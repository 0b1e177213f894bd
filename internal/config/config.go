package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lestrrat-go/strftime"

	"shortlog/internal/rescuetime"
	"shortlog/internal/shortlog"
)

// DefaultKeyringService is the keyring service the API key is stored under.
const DefaultKeyringService = "rescuetime"

type Config struct {
	// Username selects the keyring entry when none is given on the command line.
	Username string `json:"username,omitempty"`
	// Directory holds the shortlog files when none is given on the command line.
	Directory      string           `json:"directory,omitempty"`
	FilePattern    string           `json:"file_pattern" validate:"required"`
	KeyringService string           `json:"keyring_service" validate:"required"`
	RescueTime     RescueTimeConfig `json:"rescuetime"`
}

type RescueTimeConfig struct {
	URL     string `json:"url" validate:"required,url"`
	Source  string `json:"source,omitempty"`
	Timeout string `json:"timeout" validate:"required"`
}

func DefaultConfig() *Config {
	return &Config{
		FilePattern:    shortlog.DefaultPattern,
		KeyringService: DefaultKeyringService,
		RescueTime: RescueTimeConfig{
			URL:     rescuetime.DefaultURL,
			Timeout: rescuetime.DefaultTimeout.String(),
		},
	}
}

func Load() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	// If config file doesn't exist, create default
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config := DefaultConfig()
		if err := config.Save(); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Fields missing from the file keep their defaults
	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return config, nil
}

func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	// Create config directory if it doesn't exist
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

var validate = validator.New()

// Validate checks struct constraints, the file pattern and the timeout.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	if _, err := strftime.New(c.FilePattern); err != nil {
		return fmt.Errorf("file_pattern: %w", err)
	}

	timeout, err := time.ParseDuration(c.RescueTime.Timeout)
	if err != nil {
		return fmt.Errorf("rescuetime.timeout: %w", err)
	}
	if timeout <= 0 {
		return errors.New("rescuetime.timeout: must be positive")
	}

	return nil
}

// ClientConfig returns the highlights client settings.
func (c *Config) ClientConfig() (rescuetime.Config, error) {
	timeout, err := time.ParseDuration(c.RescueTime.Timeout)
	if err != nil {
		return rescuetime.Config{}, fmt.Errorf("rescuetime.timeout: %w", err)
	}

	return rescuetime.Config{
		URL:     c.RescueTime.URL,
		Source:  c.RescueTime.Source,
		Timeout: timeout,
	}, nil
}

// ShortlogDirectory returns the configured directory with a leading ~ expanded.
func (c *Config) ShortlogDirectory() (string, error) {
	return ExpandHome(c.Directory)
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, strings.TrimPrefix(path, "~")), nil
}

// configPathFunc is a function variable to allow testing with different paths
var configPathFunc = defaultConfigPath

func defaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".config", "shortlog", "config.json"), nil
}

func getConfigPath() (string, error) {
	return configPathFunc()
}

func GetConfigPath() (string, error) {
	return getConfigPath()
}

// Package config loads the driverhub YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/redbco/redb-driverhub/pkg/connbuilder"
	"github.com/redbco/redb-driverhub/pkg/logger"
)

// DefaultSymbol is the symbol driver libraries export their driver under.
const DefaultSymbol = "Driver"

type Config struct {
	Logging     logger.Options     `yaml:"logging"`
	Drivers     DriversConfig      `yaml:"drivers"`
	Connections ConnectionsConfig  `yaml:"connections"`
	Execution   ExecutionConfig    `yaml:"execution"`
	Keyring     KeyringConfig      `yaml:"keyring"`
	Profiles    map[string]Profile `yaml:"profiles,omitempty" validate:"dive"`
}

// DriversConfig locates plugin libraries. A connect request without a
// driver path gets Directory joined with the plugin artifact file name.
type DriversConfig struct {
	Directory string `yaml:"directory" validate:"required"`
	Symbol    string `yaml:"symbol" validate:"required"`
}

type ConnectionsConfig struct {
	ConnectTimeout time.Duration `yaml:"connect_timeout" validate:"gt=0,lte=5m"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" validate:"gte=0"`
	ReapInterval   time.Duration `yaml:"reap_interval" validate:"gte=0"`
}

type ExecutionConfig struct {
	// MaxRows caps result sets. Zero means unlimited.
	MaxRows int `yaml:"max_rows" validate:"gte=0"`
}

type KeyringConfig struct {
	Path string `yaml:"path"`
}

// Profile is a named connect request.
type Profile struct {
	Engine     string             `yaml:"engine" validate:"required"`
	PluginID   string             `yaml:"plugin_id,omitempty"`
	Connection connbuilder.Config `yaml:",inline"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Logging: logger.Options{Level: "info", MaxSizeMB: 100, MaxBackups: 5, MaxAgeDays: 30},
		Drivers: DriversConfig{
			Directory: filepath.Join(defaultHome(), "drivers"),
			Symbol:    DefaultSymbol,
		},
		Connections: ConnectionsConfig{
			ConnectTimeout: 30 * time.Second,
			IdleTimeout:    30 * time.Minute,
			ReapInterval:   time.Minute,
		},
	}
}

func defaultHome() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".redb", "driverhub")
	}
	return filepath.Join(os.TempDir(), "redb-driverhub")
}

// Load reads path, fills unset values from Default and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Init writes the default configuration to path unless a file is already
// there. It reports whether a file was written.
func Init(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, err
	}
	data, err := yaml.Marshal(Default())
	if err != nil {
		return false, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and reports them by YAML-ish path.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", strings.TrimPrefix(fe.Namespace(), "Config."), fe.Tag()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// Profile looks up a named profile.
func (c *Config) Profile(name string) (Profile, error) {
	p, ok := c.Profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("profile %q not found", name)
	}
	return p, nil
}

package jsql

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// ConfigEnv names the environment variable LoadConfigFromEnv reads.
const ConfigEnv = "JSQL_CONFIG"

const (
	defaultURLCacheSize = 64
	defaultLogPrefix    = "jsql: "
)

// Config holds the settings applied to a DriverManager and to the
// interpretation of temporal values.
type Config struct {
	// LoginTimeout bounds Connect. Zero means no limit.
	LoginTimeout Duration `toml:"login_timeout"`
	// URLCacheSize is the number of URL to driver resolutions remembered.
	URLCacheSize int `toml:"url_cache_size"`
	// TimeZone is an IANA zone name for Location; empty keeps the local zone.
	TimeZone string `toml:"time_zone"`
	// LogPrefix prefixes every line the manager logs.
	LogPrefix string `toml:"log_prefix"`
	// Quiet disables the manager's log output.
	Quiet bool `toml:"quiet"`
	// Drivers lists driver names expected to be registered. Missing ones
	// are reported when the config is applied.
	Drivers []string `toml:"drivers"`
}

// Duration wraps time.Duration so it can be written as "30s" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// LoadConfig loads configuration from a TOML file.
func LoadConfig(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DecodeConfig parses configuration from TOML text.
func DecodeConfig(data string) (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfigFromEnv loads configuration from the file named by JSQL_CONFIG,
// falling back to ./jsql.toml and ~/.config/jsql/config.toml. With no file
// anywhere it returns the defaults.
func LoadConfigFromEnv() (*Config, error) {
	path := os.Getenv(ConfigEnv)
	if path == "" {
		for _, p := range []string{
			"./jsql.toml",
			filepath.Join(os.Getenv("HOME"), ".config/jsql/config.toml"),
		} {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	var cfg Config
	// The zero config has no fields that can fail validation.
	_ = cfg.applyDefaults()
	return &cfg
}

// applyDefaults sets default values for missing configuration and
// rejects values that cannot be used.
func (c *Config) applyDefaults() error {
	if c.URLCacheSize == 0 {
		c.URLCacheSize = defaultURLCacheSize
	}
	if c.URLCacheSize < 0 {
		return fmt.Errorf("url_cache_size must be positive, got %d", c.URLCacheSize)
	}
	if c.LoginTimeout.Duration < 0 {
		return fmt.Errorf("login_timeout must not be negative, got %s", c.LoginTimeout.Duration)
	}
	if c.LogPrefix == "" {
		c.LogPrefix = defaultLogPrefix
	}
	if c.TimeZone != "" {
		if _, err := time.LoadLocation(c.TimeZone); err != nil {
			return fmt.Errorf("time_zone: %w", err)
		}
	}
	return nil
}

// Location returns the zone named by TimeZone, or time.Local.
func (c *Config) Location() (*time.Location, error) {
	if c.TimeZone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.TimeZone)
}

// Apply configures m and sets the package Location. Expected drivers that
// are not registered with m are logged, not treated as errors.
func (c *Config) Apply(m *DriverManager) error {
	loc, err := c.Location()
	if err != nil {
		return fmt.Errorf("time_zone: %w", err)
	}
	if err := m.SetURLCacheSize(c.URLCacheSize); err != nil {
		return err
	}
	Location = loc
	m.SetLoginTimeout(c.LoginTimeout.Duration)
	if c.Quiet {
		m.SetLogger(nil)
	} else {
		m.SetLogger(log.New(os.Stderr, c.LogPrefix, log.LstdFlags))
	}
	for _, name := range c.Drivers {
		if !m.Registered(name) {
			m.Println("expected driver not registered:", name)
		}
	}
	return nil
}

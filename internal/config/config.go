// Package config loads storectl settings. Values are resolved in this order,
// later sources winning: defaults, config file, STORECTL_* environment
// variables, command line flags bound with BindFlags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Keys of the settings, shared by flags, environment and config file.
const (
	KeyAPIURL          = "api-url"
	KeyBackend         = "backend"
	KeyDBPath          = "db-path"
	KeyTimeout         = "timeout"
	KeyLogLevel        = "log-level"
	KeyLogFormat       = "log-format"
	KeyAddr            = "addr"
	KeyShutdownTimeout = "shutdown-timeout"
)

// Backends selectable with --backend.
const (
	BackendRemote = "remote"
	BackendMemory = "memory"
	BackendPebble = "pebble"
)

// EnvPrefix prefixes every environment variable, e.g. STORECTL_API_URL.
const EnvPrefix = "STORECTL"

// EnvConfigFile names the environment variable pointing at a config file.
const EnvConfigFile = EnvPrefix + "_CONFIG"

// Config holds application configuration.
type Config struct {
	APIURL          string        `mapstructure:"api-url"`
	Backend         string        `mapstructure:"backend"`
	DBPath          string        `mapstructure:"db-path"`
	Timeout         time.Duration `mapstructure:"timeout"`
	LogLevel        string        `mapstructure:"log-level"`
	LogFormat       string        `mapstructure:"log-format"`
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown-timeout"`
}

// New returns a viper instance with defaults and environment lookup configured.
func New() *viper.Viper {
	v := viper.New()

	// default values
	v.SetDefault(KeyAPIURL, "https://fakestoreapi.com")
	v.SetDefault(KeyBackend, BackendRemote)
	v.SetDefault(KeyDBPath, filepath.Join(os.Getenv("HOME"), ".local", "share", "storectl", "pebble"))
	v.SetDefault(KeyTimeout, 10*time.Second)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyAddr, ":3000")
	v.SetDefault(KeyShutdownTimeout, 5*time.Second)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	return v
}

// BindFlags binds every flag of fs whose name is a known key.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for _, key := range []string{
		KeyAPIURL, KeyBackend, KeyDBPath, KeyTimeout,
		KeyLogLevel, KeyLogFormat, KeyAddr, KeyShutdownTimeout,
	} {
		flag := fs.Lookup(key)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag %s: %w", key, err)
		}
	}
	return nil
}

// ReadConfigFile reads the config file at path, or at $STORECTL_CONFIG when path
// is empty. Without either, $HOME/.config/storectl/config.yaml is read if it exists.
func ReadConfigFile(v *viper.Viper, path string) error {
	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
		return nil
	}

	v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "storectl"))
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	var notFound viper.ConfigFileNotFoundError
	if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load unmarshals and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Backend = strings.ToLower(c.Backend)
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks the values that cannot be checked by their type.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendRemote:
		u, err := url.Parse(c.APIURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid %s %q: must be an http(s) URL", KeyAPIURL, c.APIURL)
		}
	case BackendMemory:
	case BackendPebble:
		if c.DBPath == "" {
			return fmt.Errorf("%s is required for the %s backend", KeyDBPath, BackendPebble)
		}
	default:
		return fmt.Errorf("invalid %s %q: must be one of %s, %s, %s",
			KeyBackend, c.Backend, BackendRemote, BackendMemory, BackendPebble)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("invalid %s %s: must be positive", KeyTimeout, c.Timeout)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("invalid %s %s: must be positive", KeyShutdownTimeout, c.ShutdownTimeout)
	}
	return nil
}

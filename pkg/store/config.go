package store

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config keys. They double as the LEDGER_* environment variable suffixes.
const (
	KeyAPIURL         = "api_url"
	KeyTimeout        = "timeout"
	KeyLogLevel       = "log_level"
	KeyLogFile        = "log_file"
	KeyStatePath      = "state_path"
	KeyRestoreFilters = "restore_filters"
)

// Config is the resolved client configuration.
type Config struct {
	APIURL         string        `json:"api_url"`
	Timeout        time.Duration `json:"timeout"`
	LogLevel       string        `json:"log_level"`
	LogFile        string        `json:"log_file"`
	StatePath      string        `json:"state_path"`
	RestoreFilters bool          `json:"restore_filters"`
}

// SetDefaults registers the default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyAPIURL, "http://localhost:8000")
	v.SetDefault(KeyTimeout, 10*time.Second)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFile, "~/.ledger/ledger.log")
	v.SetDefault(KeyStatePath, "~/.ledger/state")
	v.SetDefault(KeyRestoreFilters, true)
}

// LoadConfig reads .ledger.yaml from $LEDGER_CONFIG_PATH, the working
// directory or $HOME, with LEDGER_* environment variables on top. A missing
// file is not an error.
func LoadConfig() (*Config, error) {
	return loadConfig(viper.GetViper())
}

func loadConfig(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	v.SetConfigName(".ledger") // .yaml is implicit
	v.SetEnvPrefix("LEDGER")
	v.AutomaticEnv()

	if override := os.Getenv("LEDGER_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	return FromViper(v)
}

// FromViper resolves a Config from the current values of v.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		APIURL:         strings.TrimSpace(v.GetString(KeyAPIURL)),
		Timeout:        v.GetDuration(KeyTimeout),
		LogLevel:       v.GetString(KeyLogLevel),
		RestoreFilters: v.GetBool(KeyRestoreFilters),
	}
	var err error
	if cfg.LogFile, err = expand(v.GetString(KeyLogFile)); err != nil {
		return nil, err
	}
	if cfg.StatePath, err = expand(v.GetString(KeyStatePath)); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that would otherwise fail much later.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: %s %q is not an absolute URL", KeyAPIURL, c.APIURL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("config: %s must not be negative", KeyTimeout)
	}
	return nil
}

// WatchConfig calls onChange with the re-resolved config whenever the
// config file in use changes. Invalid edits are reported through onError.
func WatchConfig(v *viper.Viper, onChange func(*Config), onError func(error)) {
	if v.ConfigFileUsed() == "" {
		return
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		if e.Op&(fsnotify.Write|fsnotify.Create) == 0 {
			return
		}
		cfg, err := FromViper(v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
}

func expand(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	p, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("config: expanding %q: %w", path, err)
	}
	return p, nil
}

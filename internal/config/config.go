// Package config handles the XDG configuration directory, the config file
// and environment overrides.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"dtask/internal/logging"
	"dtask/internal/reminder"
)

const (
	// AppName is the application directory name.
	AppName = "dtask"

	// ConfigFile is the config filename inside the config directory.
	ConfigFile = "config.toml"

	// EnvFile is an optional dotenv file inside the config directory.
	EnvFile = ".env"

	// EnvPrefix prefixes every environment override (DTASK_BACKEND, ...).
	EnvPrefix = "DTASK"

	BackendCSV    = "csv"
	BackendSQLite = "sqlite"

	// DefaultCSVFile is the default data filename for the csv backend.
	DefaultCSVFile = "tugas.csv"

	// DefaultSQLiteFile is the default data filename for the sqlite backend.
	DefaultSQLiteFile = "tasks.db"
)

// ErrConfigExists is returned by WriteStarter when config.toml already exists.
var ErrConfigExists = errors.New("config file already exists")

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Backend selects the task store: "csv" or "sqlite".
	Backend string

	// DataFile overrides the data file path. Empty means the backend default in Dir.
	DataFile string

	// RemindDays is the reminder window length after today.
	RemindDays int

	LogLevel  string
	LogFormat string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Now overrides the clock (tests). Nil means time.Now.
	Now func() time.Time
}

// fileConfig is the on-disk shape of config.toml.
type fileConfig struct {
	Backend    string `toml:"backend"`
	DataFile   string `toml:"data_file,omitempty"`
	RemindDays int    `toml:"remind_days"`
	LogLevel   string `toml:"log_level"`
	LogFormat  string `toml:"log_format"`
}

// New creates a Config with defaults and the default or specified config directory.
// It does not read any file or environment variable.
func New(configDir string) *Config {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{
		Dir:        dir,
		Backend:    BackendCSV,
		RemindDays: reminder.DefaultWindowDays,
		LogLevel:   "warn",
		LogFormat:  "text",
	}
}

// Load builds a Config from defaults, <dir>/.env, <dir>/config.toml and
// DTASK_* environment variables, in increasing priority.
func Load(configDir string) (*Config, error) {
	cfg := New(configDir)

	// Variables already set in the environment win over .env.
	if err := godotenv.Load(filepath.Join(cfg.Dir, EnvFile)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", EnvFile, err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("backend", cfg.Backend)
	v.SetDefault("data_file", "")
	v.SetDefault("remind_days", cfg.RemindDays)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("log_format", cfg.LogFormat)

	if _, err := os.Stat(cfg.ConfigPath()); err == nil {
		v.SetConfigFile(cfg.ConfigPath())
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read %s: %w", cfg.ConfigPath(), err)
		}
	}

	cfg.Backend = strings.ToLower(strings.TrimSpace(v.GetString("backend")))
	cfg.DataFile = strings.TrimSpace(v.GetString("data_file"))
	// GetInt would turn a non-number into 0.
	raw := v.Get("remind_days")
	days, err := cast.ToIntE(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid remind_days %q", fmt.Sprint(raw))
	}
	cfg.RemindDays = days
	cfg.LogLevel = v.GetString("log_level")
	cfg.LogFormat = v.GetString("log_format")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks setting values.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendCSV, BackendSQLite:
	default:
		return fmt.Errorf("invalid backend %q (want %s or %s)", c.Backend, BackendCSV, BackendSQLite)
	}
	if c.RemindDays < 0 {
		return fmt.Errorf("invalid remind_days %d (must be >= 0)", c.RemindDays)
	}
	if !logging.ValidLevel(c.LogLevel) {
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	if !logging.ValidFormat(c.LogFormat) {
		return fmt.Errorf("invalid log_format %q", c.LogFormat)
	}
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// ConfigPath returns the path to config.toml.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// DataPath returns the data file path for the configured backend.
func (c *Config) DataPath() string {
	if c.DataFile != "" {
		return expandHome(c.DataFile)
	}
	if c.Backend == BackendSQLite {
		return filepath.Join(c.Dir, DefaultSQLiteFile)
	}
	return filepath.Join(c.Dir, DefaultCSVFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// Today returns the current time from the configured clock.
func (c *Config) Today() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// WriteTOML writes the effective settings as TOML.
func (c *Config) WriteTOML(w io.Writer) error {
	return toml.NewEncoder(w).Encode(fileConfig{
		Backend:    c.Backend,
		DataFile:   c.DataPath(),
		RemindDays: c.RemindDays,
		LogLevel:   c.LogLevel,
		LogFormat:  c.LogFormat,
	})
}

// WriteStarter writes a config.toml holding the default settings.
// Returns ErrConfigExists if the file is already present.
func (c *Config) WriteStarter() error {
	if err := c.EnsureDir(); err != nil {
		return err
	}
	f, err := os.OpenFile(c.ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return ErrConfigExists
		}
		return err
	}
	defaults := New(c.Dir)
	encErr := toml.NewEncoder(f).Encode(fileConfig{
		Backend:    defaults.Backend,
		RemindDays: defaults.RemindDays,
		LogLevel:   defaults.LogLevel,
		LogFormat:  defaults.LogFormat,
	})
	if err := f.Close(); err != nil && encErr == nil {
		encErr = err
	}
	return encErr
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/adrg/xdg"
	"github.com/dustin/go-humanize"
	"github.com/jamesainslie/burrow/pkg/burrow/logging"
	"github.com/jamesainslie/burrow/pkg/burrow/tuner"
	"github.com/spf13/viper"
)

// ErrInvalid is wrapped by validation failures.
var ErrInvalid = errors.New("invalid configuration")

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSize    string `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Daily      bool   `mapstructure:"daily"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Rotation   RotationConfig    `mapstructure:"rotation"`
	Components map[string]string `mapstructure:"components"`
}

// ScanConfig configures directory scans.
type ScanConfig struct {
	// Memo enables the in-memory subtree size memo.
	Memo bool `mapstructure:"memo"`

	// WalkWorkers is the goroutine count of one subtree walk.
	WalkWorkers int `mapstructure:"walk_workers"`
}

// DeleteConfig configures rm and rmdir.
type DeleteConfig struct {
	// UseTrash moves deleted objects to the system trash instead of
	// removing them.
	UseTrash bool `mapstructure:"use_trash"`
}

// Config is the application configuration.
type Config struct {
	DefaultPath string        `mapstructure:"default_path"`
	Workers     int           `mapstructure:"workers"`
	Sort        string        `mapstructure:"sort"`
	Output      string        `mapstructure:"output"`
	Scan        ScanConfig    `mapstructure:"scan"`
	Delete      DeleteConfig  `mapstructure:"delete"`
	Logging     LoggingConfig `mapstructure:"logging"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("default_path", DefaultPath)
	v.SetDefault("workers", DefaultWorkers)
	v.SetDefault("sort", DefaultSort)
	v.SetDefault("output", DefaultOutput)
	v.SetDefault("scan.memo", tuner.Memo())
	v.SetDefault("scan.walk_workers", DefaultWalkWorkers)
	v.SetDefault("delete.use_trash", false)

	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.rotation.max_size", DefaultLogMaxSize)
	v.SetDefault("logging.rotation.max_age", 14)
	v.SetDefault("logging.rotation.max_backups", 3)
	v.SetDefault("logging.rotation.daily", true)
	v.SetDefault("logging.components", map[string]string{})
}

// Load reads configuration into v and returns it decoded.
//
// If file is empty the file config.yaml is searched in
// $XDG_CONFIG_HOME/burrow and then ~/.config/burrow; a missing file is
// not an error. Environment variables use the BURROW_ prefix with dots
// replaced by underscores (BURROW_SCAN_MEMO=false).
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
			v.AddConfigPath(filepath.Join(dir, "burrow"))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "burrow"))
		}
	}

	v.SetEnvPrefix("BURROW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and normalizes case.
func (c *Config) Validate() error {
	c.Sort = strings.ToLower(c.Sort)
	if !slices.Contains(SortOrders, c.Sort) {
		return fmt.Errorf("%w: sort must be one of %s, got %q",
			ErrInvalid, strings.Join(SortOrders, ", "), c.Sort)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalid)
	}
	if c.Scan.WalkWorkers < 0 {
		return fmt.Errorf("%w: scan.walk_workers must not be negative", ErrInvalid)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging.level: %w", ErrInvalid, err)
	}
	if c.Logging.Rotation.MaxSize != "" {
		if _, err := humanize.ParseBytes(c.Logging.Rotation.MaxSize); err != nil {
			return fmt.Errorf("%w: logging.rotation.max_size: %w", ErrInvalid, err)
		}
	}
	return nil
}

// LoggingOptions converts the logging section into logging.Config.
// consoleLevel mirrors records to stderr; empty disables the mirror.
func (c *Config) LoggingOptions(consoleLevel string, tui bool) logging.Config {
	var maxSize int64
	if n, err := humanize.ParseBytes(c.Logging.Rotation.MaxSize); err == nil {
		maxSize = int64(n)
	}

	path := c.Logging.Path
	if expanded, err := ExpandPath(path); err == nil {
		path = expanded
	}

	return logging.Config{
		Level:      c.Logging.Level,
		Path:       path,
		Components: c.Logging.Components,
		Rotation: logging.RotationConfig{
			MaxSize:    maxSize,
			MaxAge:     c.Logging.Rotation.MaxAge,
			MaxBackups: c.Logging.Rotation.MaxBackups,
			Daily:      c.Logging.Rotation.Daily,
		},
		ConsoleLevel: consoleLevel,
		TUIMode:      tui,
	}
}

// StartPath returns the directory to open when no path argument is given:
// default_path with ~ expanded, or the user's home directory.
func (c *Config) StartPath() (string, error) {
	if c.DefaultPath != "" {
		return ExpandPath(c.DefaultPath)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return home, nil
}

// Dir returns the configuration directory.
func Dir() string {
	return filepath.Join(xdg.ConfigHome, "burrow")
}

// Path returns the default configuration file path.
func Path() string {
	return filepath.Join(Dir(), "config.yaml")
}

// WriteDefault writes a commented default configuration to path unless a
// file already exists there. It reports whether a file was written.
func WriteDefault(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("check config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(defaultFile()), 0o644); err != nil {
		return false, fmt.Errorf("write default config: %w", err)
	}
	return true, nil
}

func defaultFile() string {
	var comps strings.Builder
	names := make([]string, 0, len(defaultComponents))
	for name := range defaultComponents {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Fprintf(&comps, "    %s: %s\n", name, defaultComponents[name])
	}

	return fmt.Sprintf(`# burrow configuration

# Directory opened when no path is given (empty means your home directory)
default_path: %q

# Scan pool size (0 picks two workers per CPU core)
workers: %d

# Listing order: name, size or none (scan completion order)
sort: %s

# Listing format: table, plain, json or yaml
output: %s

scan:
  # Remember directory sizes for the rest of the session
  # (on by default unless free memory is below 256 MiB)
  memo: %t
  # Goroutines used to walk one entry's subtree
  walk_workers: %d

delete:
  # Move deleted files to the system trash instead of removing them
  use_trash: false

logging:
  # Log level: debug, info, warn, error
  level: %s
  # Log file (empty means $XDG_STATE_HOME/burrow/burrow.log)
  path: ""
  rotation:
    max_size: %s
    max_age: 14       # days
    max_backups: 3
    daily: true
  # Per-component log levels
  components:
%s`, DefaultPath, DefaultWorkers, DefaultSort, DefaultOutput, tuner.Memo(), DefaultWalkWorkers,
		DefaultLogLevel, DefaultLogMaxSize, comps.String())
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

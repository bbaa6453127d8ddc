package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied by New before the config file and environment are read.
const (
	DefaultServerURL  = "http://localhost:8080"
	DefaultPageSize   = 20
	DefaultCurrency   = "VND"
	DefaultLocale     = "vi-VN"
	DefaultDateFormat = "02/01/2006"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "json"

	configDirName  = ".fintrack"
	configFileName = "config.yaml"
)

// DefaultPageSizeOptions is the fixed set of page sizes a user can pick from.
//
//nolint:gochecknoglobals // Read-only default table.
var DefaultPageSizeOptions = []int{10, 20, 50, 100}

// Environment variables recognized by the CLI.
const (
	EnvHome      = "FINTRACK_HOME"
	EnvServer    = "FINTRACK_SERVER"
	EnvToken     = "FINTRACK_TOKEN"
	EnvPageSize  = "FINTRACK_PAGE_SIZE"
	EnvLogLevel  = "FINTRACK_LOG_LEVEL"
	EnvLogFormat = "FINTRACK_LOG_FORMAT"
	EnvCurrency  = "FINTRACK_CURRENCY"
)

// Validation errors.
var (
	ErrServerURLRequired   = errors.New("server.url is required")
	ErrInvalidPageSize     = errors.New("list.page_size must be one of list.page_size_options")
	ErrEmptyPageSizeOption = errors.New("list.page_size_options must contain at least one positive size")
	ErrNegativeTimeout     = errors.New("server.timeout_seconds cannot be negative")
	ErrUnknownKey          = errors.New("unknown configuration key")
)

// Config is the fintrack configuration file.
type Config struct {
	Version string        `yaml:"version"`
	Server  ServerConfig  `yaml:"server"`
	List    ListConfig    `yaml:"list"`
	Display DisplayConfig `yaml:"display"`
	Logging LoggingConfig `yaml:"logging"`

	path string
}

// ServerConfig points the client at the finance tracker backend.
type ServerConfig struct {
	URL   string `yaml:"url"`
	Token string `yaml:"token,omitempty"`
	// TimeoutSeconds bounds each HTTP request. 0 means no client-side timeout.
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty"`
}

// Timeout returns the configured request timeout.
func (s ServerConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// ListConfig controls the paged list views.
type ListConfig struct {
	PageSize        int   `yaml:"page_size"`
	PageSizeOptions []int `yaml:"page_size_options"`
}

// DisplayConfig controls how amounts and dates are rendered.
type DisplayConfig struct {
	Currency   string `yaml:"currency"`
	Locale     string `yaml:"locale"`
	DateFormat string `yaml:"date_format"`
}

// LoggingConfig is the logging section of the config file.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// Dir returns the fintrack home directory ($FINTRACK_HOME or ~/.fintrack).
func Dir() string {
	if home := os.Getenv(EnvHome); home != "" {
		return home
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return configDirName
	}
	return filepath.Join(userHome, configDirName)
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(Dir(), configFileName)
}

// Defaults returns a Config populated with built-in defaults only.
func Defaults() *Config {
	return &Config{
		Version: SchemaVersion,
		Server:  ServerConfig{URL: DefaultServerURL},
		List: ListConfig{
			PageSize:        DefaultPageSize,
			PageSizeOptions: slices.Clone(DefaultPageSizeOptions),
		},
		Display: DisplayConfig{
			Currency:   DefaultCurrency,
			Locale:     DefaultLocale,
			DateFormat: DefaultDateFormat,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
			File:   filepath.Join(Dir(), "logs", "fintrack.log"),
		},
		path: Path(),
	}
}

// New loads defaults, the config file (if present) and environment overrides.
// A malformed config file is ignored in favor of defaults; use Load to surface
// the error.
func New() *Config {
	cfg := Defaults()
	if err := cfg.Load(cfg.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		cfg = Defaults()
	}
	cfg.ApplyEnv(os.LookupEnv)
	return cfg
}

// Load reads path onto cfg. Missing keys keep their current values.
func (c *Config) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err = yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	c.path = path
	return CheckSchemaVersion(c.Version)
}

// Save writes cfg to its file path with 0600 permissions.
func (c *Config) Save() error {
	if c.path == "" {
		c.path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err = os.WriteFile(c.path, data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", c.path, err)
	}
	return nil
}

// FilePath returns the file the config was loaded from or will be saved to.
func (c *Config) FilePath() string {
	return c.path
}

// SetFilePath overrides the config file location.
func (c *Config) SetFilePath(path string) {
	c.path = path
}

// ApplyEnv overlays environment variables onto cfg.
func (c *Config) ApplyEnv(lookupEnv func(string) (string, bool)) {
	if v, ok := lookupEnv(EnvServer); ok && v != "" {
		c.Server.URL = v
	}
	if v, ok := lookupEnv(EnvToken); ok && v != "" {
		c.Server.Token = v
	}
	if v, ok := lookupEnv(EnvPageSize); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.List.PageSize = n
		}
	}
	if v, ok := lookupEnv(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookupEnv(EnvLogFormat); ok && v != "" {
		c.Logging.Format = v
	}
	if v, ok := lookupEnv(EnvCurrency); ok && v != "" {
		c.Display.Currency = v
	}
}

// Validate checks the config for values the client cannot work with.
func (c *Config) Validate() error {
	if err := CheckSchemaVersion(c.Version); err != nil {
		return err
	}
	if strings.TrimSpace(c.Server.URL) == "" {
		return ErrServerURLRequired
	}
	if c.Server.TimeoutSeconds < 0 {
		return ErrNegativeTimeout
	}
	if len(c.List.PageSizeOptions) == 0 {
		return ErrEmptyPageSizeOption
	}
	for _, size := range c.List.PageSizeOptions {
		if size <= 0 {
			return fmt.Errorf("%w: got %d", ErrEmptyPageSizeOption, size)
		}
	}
	if !slices.Contains(c.List.PageSizeOptions, c.List.PageSize) {
		return fmt.Errorf("%w: got %d, options %v", ErrInvalidPageSize, c.List.PageSize, c.List.PageSizeOptions)
	}
	return nil
}

// Get returns the value of a dotted key such as "server.url".
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "version":
		return c.Version, nil
	case "server.url":
		return c.Server.URL, nil
	case "server.token":
		return c.Server.Token, nil
	case "server.timeout_seconds":
		return strconv.Itoa(c.Server.TimeoutSeconds), nil
	case "list.page_size":
		return strconv.Itoa(c.List.PageSize), nil
	case "list.page_size_options":
		parts := make([]string, len(c.List.PageSizeOptions))
		for i, n := range c.List.PageSizeOptions {
			parts[i] = strconv.Itoa(n)
		}
		return strings.Join(parts, ","), nil
	case "display.currency":
		return c.Display.Currency, nil
	case "display.locale":
		return c.Display.Locale, nil
	case "display.date_format":
		return c.Display.DateFormat, nil
	case "logging.level":
		return c.Logging.Level, nil
	case "logging.format":
		return c.Logging.Format, nil
	case "logging.file":
		return c.Logging.File, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
}

// Set assigns a dotted key from its string form.
func (c *Config) Set(key, value string) error {
	switch key {
	case "server.url":
		c.Server.URL = value
	case "server.token":
		c.Server.Token = value
	case "server.timeout_seconds":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		c.Server.TimeoutSeconds = n
	case "list.page_size":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		c.List.PageSize = n
	case "list.page_size_options":
		var sizes []int
		for _, part := range strings.Split(value, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			sizes = append(sizes, n)
		}
		c.List.PageSizeOptions = sizes
	case "display.currency":
		c.Display.Currency = strings.ToUpper(value)
	case "display.locale":
		c.Display.Locale = value
	case "display.date_format":
		c.Display.DateFormat = value
	case "logging.level":
		c.Logging.Level = value
	case "logging.format":
		c.Logging.Format = value
	case "logging.file":
		c.Logging.File = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return c.Validate()
}

// Keys lists the keys accepted by Get and Set, in display order.
func Keys() []string {
	return []string{
		"version",
		"server.url", "server.token", "server.timeout_seconds",
		"list.page_size", "list.page_size_options",
		"display.currency", "display.locale", "display.date_format",
		"logging.level", "logging.format", "logging.file",
	}
}

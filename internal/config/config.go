package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"yearcal/internal/calendar"
	appLog "yearcal/internal/log"
)

// ErrEmptyPath is returned by Load and Save when no config path is given.
var ErrEmptyPath = errors.New("config path is empty")

// EnvPrefix prefixes every environment override, e.g. YEARCAL_LISTEN.
const EnvPrefix = "YEARCAL"

// ICSConfig describes a single ICS subscription source.
type ICSConfig struct {
	// ID is an internal identifier used for de-dup and logging.
	ID string `yaml:"id" json:"id"`
	// Name is a human-friendly label.
	Name string `yaml:"name" json:"name"`
	// URL is the ICS subscription endpoint (http, https or webcal).
	URL string `yaml:"url" json:"url" validate:"required,url"`
	// Color is the calendar background colour used when an event has none.
	Color string `yaml:"color,omitempty" json:"color,omitempty" validate:"omitempty,hexcolor"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username" validate:"required"`
	Password string `yaml:"password" json:"password" validate:"required"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the API.
	Listen string `yaml:"listen" json:"listen" validate:"required,hostname_port"`

	// Timezone is the IANA zone that defines "today" and local midnight.
	Timezone string `yaml:"timezone" json:"timezone" validate:"required"`

	// RefreshCron is a standard 5-field cron schedule for feed refresh.
	RefreshCron string `yaml:"refresh" json:"refresh" validate:"required"`

	LogLevel string `yaml:"log_level" json:"log_level" validate:"oneof=DEBUG INFO WARN ERROR"`

	// DefaultView is the view printed by -once when none is requested.
	DefaultView string `yaml:"default_view" json:"default_view" validate:"oneof=year linear trips"`

	// LinearColumns is the default column count of the linear view.
	LinearColumns int `yaml:"linear_columns" json:"linear_columns" validate:"min=7,week"`

	// ExcludeTerms hides events whose title contains any term.
	ExcludeTerms []string `yaml:"exclude_terms" json:"exclude_terms"`

	// ICS is the list of subscribed ICS sources.
	ICS []ICSConfig `yaml:"ics" json:"ics" validate:"dive"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all
	// endpoints except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`

	// CacheDir stores the last good body of every feed.
	CacheDir string `yaml:"cache_dir" json:"cache_dir" validate:"required"`
}

const (
	defaultListen   = "127.0.0.1:8080"
	defaultTimezone = "UTC"
	defaultRefresh  = "*/15 * * * *"
	defaultCacheDir = "./cache/ics"
)

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:        defaultListen,
		Timezone:      defaultTimezone,
		RefreshCron:   defaultRefresh,
		LogLevel:      "INFO",
		DefaultView:   "year",
		LinearColumns: calendar.DaysPerWeek * 2,
		ExcludeTerms:  []string{},
		ICS:           []ICSConfig{},
		CacheDir:      defaultCacheDir,
	}
}

// Normalize fills in missing/zero values with defaults so that
// partially-filled configs still behave.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = defaultListen
	}
	if c.Timezone == "" {
		c.Timezone = defaultTimezone
	}
	if c.RefreshCron == "" {
		c.RefreshCron = defaultRefresh
	}
	c.LogLevel = strings.ToUpper(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = "INFO"
	}
	c.DefaultView = strings.ToLower(strings.TrimSpace(c.DefaultView))
	if c.DefaultView == "" {
		c.DefaultView = "year"
	}
	if c.LinearColumns == 0 {
		c.LinearColumns = calendar.DaysPerWeek * 2
	}
	if c.ExcludeTerms == nil {
		c.ExcludeTerms = []string{}
	}
	if c.ICS == nil {
		c.ICS = []ICSConfig{}
	}
	for i := range c.ICS {
		src := &c.ICS[i]
		if src.ID == "" {
			if src.Name != "" {
				src.ID = src.Name
			} else {
				src.ID = src.URL
			}
		}
	}
	// Empty credentials disable auth rather than fail validation.
	if c.BasicAuth != nil && c.BasicAuth.Username == "" && c.BasicAuth.Password == "" {
		c.BasicAuth = nil
	}
	if c.CacheDir == "" {
		c.CacheDir = defaultCacheDir
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("week", func(fl validator.FieldLevel) bool {
		return fl.Field().Int()%7 == 0
	})
	return v
}

// Validate checks field constraints plus the timezone and cron schedule.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid config: timezone %q: %w", c.Timezone, err)
	}
	if _, err := cron.ParseStandard(c.RefreshCron); err != nil {
		return fmt.Errorf("invalid config: refresh %q: %w", c.RefreshCron, err)
	}
	return nil
}

// Location resolves Timezone, falling back to time.Local.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		appLog.Error("failed to load timezone; falling back to local", err, "name", c.Timezone)
		return time.Local
	}
	return loc
}

// AuthEnabled reports whether HTTP Basic Auth is configured.
func (c *Config) AuthEnabled() bool {
	return c.BasicAuth != nil && c.BasicAuth.Username != "" && c.BasicAuth.Password != ""
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist, a default config is written with 0600
//     perms and used.
//   - A .env file next to the config, if present, is loaded into the
//     process environment without overriding variables already set.
//   - YEARCAL_* environment variables override file values.
//   - The result is normalized and validated.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	cfg, err := readFile(path)
	if err != nil {
		return nil, err
	}

	if err := LoadDotEnv(filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return nil, err
	}
	ApplyEnv(cfg)
	cfg.Normalize()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func readFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return nil, fmt.Errorf("write default config: %w", err)
			}
			appLog.Info("wrote default config", "path", path)
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from path. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides cfg fields from YEARCAL_* environment variables.
func ApplyEnv(cfg *Config) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	for _, key := range []string{"listen", "timezone", "refresh", "log_level", "default_view", "linear_columns", "exclude_terms", "cache_dir"} {
		_ = v.BindEnv(key)
	}
	_ = v.BindEnv("basic_auth_username", EnvPrefix+"_BASIC_AUTH_USERNAME")
	_ = v.BindEnv("basic_auth_password", EnvPrefix+"_BASIC_AUTH_PASSWORD")

	setString := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = strings.TrimSpace(v.GetString(key))
		}
	}
	setString("listen", &cfg.Listen)
	setString("timezone", &cfg.Timezone)
	setString("refresh", &cfg.RefreshCron)
	setString("log_level", &cfg.LogLevel)
	setString("default_view", &cfg.DefaultView)
	setString("cache_dir", &cfg.CacheDir)

	if v.IsSet("linear_columns") {
		cfg.LinearColumns = v.GetInt("linear_columns")
	}
	if v.IsSet("exclude_terms") {
		cfg.ExcludeTerms = calendar.ParseExcludeTerms(v.GetString("exclude_terms"))
	}
	if v.IsSet("basic_auth_username") || v.IsSet("basic_auth_password") {
		if cfg.BasicAuth == nil {
			cfg.BasicAuth = &BasicAuthConfig{}
		}
		setString("basic_auth_username", &cfg.BasicAuth.Username)
		setString("basic_auth_password", &cfg.BasicAuth.Password)
	}
}

// Save writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Writes atomically via a temp file + rename.
//   - Ensures final file permissions are 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return ErrEmptyPath
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".yearcal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save delegates to the package-level Save.
func (c *Config) Save(path string) error {
	return Save(path, c)
}

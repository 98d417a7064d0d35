package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/GustavoCaso/movienight/internal/filter"
	"github.com/GustavoCaso/movienight/internal/logger"
	"github.com/GustavoCaso/movienight/internal/movie"
)

type DBConfig struct {
	Source          string        `toml:"source" yaml:"source"`
	MaxOpenConns    int           `toml:"max_open_conns" yaml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns" yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime" yaml:"conn_max_lifetime"`
	JournalMode     string        `toml:"journal_mode" yaml:"journal_mode"`
	BusyTimeout     int           `toml:"busy_timeout" yaml:"busy_timeout"`
}

type APIConfig struct {
	BaseURL  string        `toml:"base_url" yaml:"base_url"`
	RetryMax int           `toml:"retry_max" yaml:"retry_max"`
	Timeout  time.Duration `toml:"timeout" yaml:"timeout"`
	// Token is an access token used instead of the stored login session.
	Token string `toml:"token" yaml:"token"`
}

type Config struct {
	API     APIConfig     `toml:"api" yaml:"api"`
	DB      DBConfig      `toml:"db" yaml:"db"`
	Logger  logger.Config `toml:"logger" yaml:"logger"`
	Filters filter.Config `toml:"filters" yaml:"filters"`
}

const (
	defaultAPIURL      = "http://localhost:8000/api"
	defaultRetryMax    = 2
	defaultTimeout     = 10 * time.Second
	defaultDBFile      = "movienight.db"
	defaultJournalMode = "WAL"
	defaultBusyTimeout = 5000
	defaultLogLevel    = logger.LevelInfo
	defaultLogFormat   = logger.FormatText
	defaultLogOutput   = "stderr"
)

func (c *Config) parseFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(content, c)
	default:
		err = toml.Unmarshal(content, c)
	}
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}

	return nil
}

func (c *Config) parseEnv() error {
	if url := os.Getenv("MOVIENIGHT_API_URL"); url != "" {
		c.API.BaseURL = url
	}

	if retries := os.Getenv("MOVIENIGHT_RETRY_MAX"); retries != "" {
		n, err := strconv.Atoi(retries)
		if err != nil {
			return fmt.Errorf("invalid MOVIENIGHT_RETRY_MAX: %w", err)
		}
		c.API.RetryMax = n
	}

	if timeout := os.Getenv("MOVIENIGHT_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid MOVIENIGHT_TIMEOUT: %w", err)
		}
		c.API.Timeout = d
	}

	if token := os.Getenv("MOVIENIGHT_API_TOKEN"); token != "" {
		c.API.Token = token
	}

	if db := os.Getenv("MOVIENIGHT_DB"); db != "" {
		c.DB.Source = db
	}

	if level := os.Getenv("MOVIENIGHT_LOG_LEVEL"); level != "" {
		c.Logger.Level = logger.Level(level)
	}

	if format := os.Getenv("MOVIENIGHT_LOG_FORMAT"); format != "" {
		c.Logger.Format = logger.Format(format)
	}

	if output := os.Getenv("MOVIENIGHT_LOG_OUTPUT"); output != "" {
		c.Logger.Output = output
	}

	return nil
}

func (c *Config) setDefaults(now time.Time) {
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaultAPIURL
	}
	if c.API.RetryMax == 0 {
		c.API.RetryMax = defaultRetryMax
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = defaultTimeout
	}
	if c.DB.Source == "" {
		c.DB.Source = defaultDBFile
	}
	if c.DB.JournalMode == "" {
		c.DB.JournalMode = defaultJournalMode
	}
	if c.DB.BusyTimeout == 0 {
		c.DB.BusyTimeout = defaultBusyTimeout
	}
	if c.Logger.Level == "" {
		c.Logger.Level = defaultLogLevel
	}
	if c.Logger.Format == "" {
		c.Logger.Format = defaultLogFormat
	}
	if c.Logger.Output == "" {
		c.Logger.Output = defaultLogOutput
	}
	if len(c.Filters) == 0 {
		c.Filters = movie.DefaultFilterConfig(now)
	}
}

// Parse reads the configuration file at path, when it exists, applies the
// MOVIENIGHT_* environment variables on top and fills defaults. Filters
// declared in the file replace the built-in movie filters and must be valid.
func Parse(path string) (*Config, error) {
	conf := &Config{}

	if err := conf.parseFile(path); err != nil {
		return nil, err
	}

	if err := conf.parseEnv(); err != nil {
		return nil, err
	}

	conf.setDefaults(time.Now())

	if err := conf.Filters.Validate(); err != nil {
		return nil, err
	}

	return conf, nil
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/bryanwahyu/chatlens/internal/domain/chat"
)

type Config struct {
	Server struct {
		Port           int           `yaml:"port"`
		ReadTimeout    time.Duration `yaml:"readTimeout"`
		WriteTimeout   time.Duration `yaml:"writeTimeout"`
		IdleTimeout    time.Duration `yaml:"idleTimeout"`
		MaxBodyBytes   int64         `yaml:"maxBodyBytes"`
		StaticDir      string        `yaml:"staticDir"`
		AllowedOrigins []string      `yaml:"allowedOrigins"`
		RateLimit      struct {
			Capacity        int `yaml:"capacity"`
			RefillPerSecond int `yaml:"refillPerSecond"`
		} `yaml:"rateLimit"`
		APIKeys map[string]string `yaml:"apiKeys"` // client -> key
	} `yaml:"server"`

	Analysis struct {
		MinKeywordLength      int              `yaml:"minKeywordLength"`
		KeywordTopN           int              `yaml:"keywordTopN"`
		ExtraStopwords        []string         `yaml:"extraStopwords"`
		ReplaceStopwords      bool             `yaml:"replaceStopwords"`
		ActivitySaturation    int              `yaml:"activitySaturation"`
		Weights               chat.Weights     `yaml:"weights"`
		Labels                []chat.LabelTier `yaml:"labels"`
		ExcludeMalformedHours bool             `yaml:"excludeMalformedHours"`
		// A list given here replaces the built-in one; [] disables it.
		Tone chat.ToneLexicon `yaml:"tone"`
	} `yaml:"analysis"`

	Legacy struct {
		Source string `yaml:"source"` // file | minio | ""
		Path   string `yaml:"path"`
		Minio  struct {
			Endpoint   string `yaml:"endpoint"`
			AccessKey  string `yaml:"accessKey"`
			SecretKey  string `yaml:"secretKey"`
			BucketName string `yaml:"bucketName"`
			ObjectKey  string `yaml:"objectKey"`
			Region     string `yaml:"region"`
			UseSSL     bool   `yaml:"useSSL"`
		} `yaml:"minio"`
	} `yaml:"legacy"`

	ErrorLog struct {
		Driver   string `yaml:"driver"` // mysql | postgres | ""
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslMode"`
	} `yaml:"errorLog"`

	Log struct {
		Level  string `yaml:"level"`  // debug | info | warn | error
		Format string `yaml:"format"` // text | json
	} `yaml:"log"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var cfg Config
	cfg.Server.Port = 8080
	cfg.Server.ReadTimeout = 15 * time.Second
	cfg.Server.WriteTimeout = 15 * time.Second
	cfg.Server.IdleTimeout = 60 * time.Second
	cfg.Server.MaxBodyBytes = 5 << 20
	cfg.Server.AllowedOrigins = []string{"*"}
	cfg.Server.RateLimit.Capacity = 60
	cfg.Server.RateLimit.RefillPerSecond = 1

	cfg.Analysis.MinKeywordLength = chat.DefaultMinKeywordLength
	cfg.Analysis.KeywordTopN = chat.DefaultKeywordTopN
	cfg.Analysis.ActivitySaturation = chat.DefaultActivitySaturation
	cfg.Analysis.Weights = chat.Weights{
		Balance:        chat.DefaultBalanceWeight,
		Responsiveness: chat.DefaultResponsivenessWeight,
		Activity:       chat.DefaultActivityWeight,
	}
	cfg.Analysis.Labels = chat.DefaultLabels()
	cfg.Analysis.Tone = chat.DefaultToneLexicon()

	cfg.ErrorLog.SSLMode = "disable"
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	return &cfg
}

// Load baca .env (kalau ada) lalu file config.yaml. ${VAR} di YAML
// di-expand dari environment. Field yang tidak ada di file tetap default.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data = []byte(os.ExpandEnv(string(data)))

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the sections that would otherwise fail at first use.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.MaxBodyBytes < 0 {
		return errors.New("server.maxBodyBytes must be >= 0")
	}
	switch c.Legacy.Source {
	case "":
	case "file":
		if strings.TrimSpace(c.Legacy.Path) == "" {
			return errors.New("legacy.path is required for source file")
		}
	case "minio":
		m := c.Legacy.Minio
		if m.Endpoint == "" || m.BucketName == "" || m.ObjectKey == "" {
			return errors.New("legacy.minio endpoint, bucketName and objectKey are required for source minio")
		}
	default:
		return fmt.Errorf("legacy.source %q: want file, minio or empty", c.Legacy.Source)
	}
	switch c.ErrorLog.Driver {
	case "", "mysql", "postgres":
	default:
		return fmt.Errorf("errorLog.driver %q: want mysql, postgres or empty", c.ErrorLog.Driver)
	}
	if _, err := c.AnalysisSettings(); err != nil {
		return fmt.Errorf("analysis: %w", err)
	}
	return nil
}

// AnalysisSettings builds the engine settings from the analysis section.
func (c *Config) AnalysisSettings() (chat.Settings, error) {
	a := c.Analysis
	base := chat.DefaultStopwords
	if a.ReplaceStopwords {
		base = nil
	}
	s := chat.Settings{
		Stopwords:             chat.StopwordSet(base, a.ExtraStopwords),
		MinKeywordLength:      a.MinKeywordLength,
		KeywordTopN:           a.KeywordTopN,
		ActivitySaturation:    a.ActivitySaturation,
		Weights:               a.Weights,
		Labels:                a.Labels,
		ExcludeMalformedHours: a.ExcludeMalformedHours,
		Tone:                  a.Tone.Normalized(),
	}
	if err := s.Validate(); err != nil {
		return chat.Settings{}, err
	}
	return s, nil
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.ErrorLog.User,
		c.ErrorLog.Password,
		c.ErrorLog.Host,
		c.ErrorLog.Port,
		c.ErrorLog.Name,
	)
}

// PostgresDSN builds a lib/pq URL DSN.
func (c *Config) PostgresDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.ErrorLog.User, c.ErrorLog.Password),
		Host:     fmt.Sprintf("%s:%d", c.ErrorLog.Host, c.ErrorLog.Port),
		Path:     "/" + c.ErrorLog.Name,
		RawQuery: "sslmode=" + url.QueryEscape(c.ErrorLog.SSLMode),
	}
	return u.String()
}

// Logger builds the process logger from the log section.
func (c *Config) Logger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

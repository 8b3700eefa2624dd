// Package config loads adapter and CLI settings from defaults, an optional
// .env file, an optional YAML file and SCG_* environment variables, in that
// order of precedence (later wins).
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/next-trace/scg-failure/failure"
)

// Config is the full runtime configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	NATS     NATSConfig     `yaml:"nats"`
	Log      LogConfig      `yaml:"log"`
	Statuses map[string]int `yaml:"statuses"`
}

// HTTPConfig configures the demo HTTP server.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// NATSConfig names the NATS server and the subject and queue group consumed.
type NATSConfig struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
	Queue   string `yaml:"queue"`
}

// LogConfig selects the slog level (debug, info, warn, error) and handler
// format (text or json).
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		HTTP: HTTPConfig{Addr: ":8080"},
		NATS: NATSConfig{
			URL:     "nats://127.0.0.1:4222",
			Subject: "scg.events",
			Queue:   "scg-workers",
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// envFile is read from the working directory when present.
const envFile = ".env"

// Load builds a Config. path may be empty, in which case only defaults, .env
// and the environment apply.
func Load(path string) (Config, error) {
	cfg := Default()

	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, failure.InvalidInput.Wrap("config: read "+envFile, err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, failure.InvalidInput.Wrap("config: read "+path, err)
		}

		if err := decodeYAML(data, &cfg); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return failure.InvalidInput.Wrap("config: parse yaml", err)
	}

	return nil
}

func applyEnv(cfg *Config) {
	set := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	set(&cfg.HTTP.Addr, "SCG_HTTP_ADDR")
	set(&cfg.NATS.URL, "SCG_NATS_URL")
	set(&cfg.NATS.Subject, "SCG_NATS_SUBJECT")
	set(&cfg.NATS.Queue, "SCG_NATS_QUEUE")
	set(&cfg.Log.Level, "SCG_LOG_LEVEL")
	set(&cfg.Log.Format, "SCG_LOG_FORMAT")
}

// Validate checks every field. Violations are InvalidInput failures.
func (c Config) Validate() error {
	if _, err := c.StatusMap(); err != nil {
		return err
	}

	if _, err := c.level(); err != nil {
		return err
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return failure.InvalidInput.Msgf("config: log format must be text or json, got %q", c.Log.Format)
	}

	return nil
}

// StatusMap returns the configured status overrides keyed by kind.
func (c Config) StatusMap() (map[failure.Kind]int, error) {
	out := make(map[failure.Kind]int, len(c.Statuses))

	for name, code := range c.Statuses {
		k, err := failure.ParseKind(name)
		if err != nil {
			return nil, failure.InvalidInput.Wrap("config: statuses", err)
		}

		if code < 400 || code > 599 {
			return nil, failure.InvalidInput.Msgf("config: status for %s must be 400-599, got %d", k, code)
		}

		out[k] = code
	}

	return out, nil
}

func (c Config) level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(c.Log.Level))); err != nil {
		return 0, failure.InvalidInput.Wrap(fmt.Sprintf("config: log level %q", c.Log.Level), err)
	}

	return lvl, nil
}

// Logger builds the slog logger described by c. Call Validate first; an
// invalid level falls back to info.
func (c Config) Logger(w io.Writer) *slog.Logger {
	lvl, err := c.level()
	if err != nil {
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}

// Package config loads agentdeck settings from the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
)

// Store kinds accepted by AGENTDECK_STORE.
const (
	StoreFile     = "file"
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config holds the runtime settings of the CLI and the reference backend.
type Config struct {
	APIURL         string        `mapstructure:"AGENTDECK_API_URL"`
	Addr           string        `mapstructure:"AGENTDECK_ADDR"`
	Store          string        `mapstructure:"AGENTDECK_STORE"`
	DataDir        string        `mapstructure:"AGENTDECK_DATA_DIR"`
	RedisURL       string        `mapstructure:"REDIS_URL"`
	DatabaseURL    string        `mapstructure:"DATABASE_URL"`
	LogLevel       string        `mapstructure:"AGENTDECK_LOG_LEVEL"`
	LogFormat      string        `mapstructure:"AGENTDECK_LOG_FORMAT"`
	RequestTimeout time.Duration `mapstructure:"AGENTDECK_REQUEST_TIMEOUT"`
	Models         []string      `mapstructure:"AGENTDECK_MODELS"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		APIURL:    "http://127.0.0.1:8000",
		Addr:      ":8000",
		Store:     StoreFile,
		DataDir:   "saved_agents",
		LogLevel:  "info",
		LogFormat: "text",
		Models:    []string{"gpt-4o-mini", "gpt-4o"},
	}
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load() (Config, error) {
	// A missing .env is the common case.
	_ = godotenv.Load()
	return FromEnv(os.LookupEnv)
}

// FromEnv overlays the variables found by lookup on the defaults.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	raw := make(map[string]any)
	for _, key := range keys() {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			raw[key] = strings.TrimSpace(v)
		}
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		ZeroFields:       true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			durationHook,
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return cfg, err
	}
	if err := dec.Decode(raw); err != nil {
		return cfg, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	cfg.Models = trimAll(cfg.Models)
	return cfg, nil
}

// durationHook accepts Go durations ("30s") and bare seconds ("30").
func durationHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(time.Duration(0)) {
		return data, nil
	}
	s := data.(string)
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	var secs float64
	if _, err := fmt.Sscanf(s, "%g", &secs); err != nil {
		return nil, fmt.Errorf("bad duration %q", s)
	}
	return time.Duration(secs * float64(time.Second)), nil
}

func keys() []string {
	t := reflect.TypeOf(Config{})
	out := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		out = append(out, t.Field(i).Tag.Get("mapstructure"))
	}
	return out
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Validate checks that the settings are usable together.
func (c Config) Validate() error {
	switch c.Store {
	case StoreFile:
		if c.DataDir == "" {
			return fmt.Errorf("%w: file store needs AGENTDECK_DATA_DIR", ErrInvalid)
		}
	case StoreMemory:
	case StoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("%w: redis store needs REDIS_URL", ErrInvalid)
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: postgres store needs DATABASE_URL", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown store %q", ErrInvalid, c.Store)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalid, c.LogFormat)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("%w: negative request timeout", ErrInvalid)
	}
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: api url %q", ErrInvalid, c.APIURL)
	}
	return nil
}

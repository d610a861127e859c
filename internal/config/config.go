// Package config loads runtime settings from an optional TOML file and
// IMAGE_INGEST_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/ironsheep/image-ingest-mcp/internal/imaging"
	"github.com/ironsheep/image-ingest-mcp/internal/remote"
)

// EnvPrefix is prepended to every environment variable name, with dots in
// keys replaced by underscores: remote.base_url -> IMAGE_INGEST_REMOTE_BASE_URL.
const EnvPrefix = "IMAGE_INGEST"

// Config holds the settings the binary wires into its components.
type Config struct {
	LogLevel      zerolog.Level
	RemoteBaseURL string
	RemoteTimeout time.Duration
	Quality       int
	Resampler     imaging.Resampler
}

// Load reads configuration. If path is empty, image-ingest.toml in the
// working directory is used when present; a missing default file is not an
// error. Environment variables override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log.level", "info")
	v.SetDefault("remote.base_url", remote.DefaultBaseURL)
	v.SetDefault("remote.timeout", "30s")
	v.SetDefault("encode.quality", imaging.DefaultQuality)
	v.SetDefault("resample.filter", "imaging")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("could not read config file: %w", err)
		}
	} else {
		v.SetConfigName("image-ingest")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("could not read config file: %w", err)
			}
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	level, err := parseLevel(v.GetString("log.level"))
	if err != nil {
		return nil, err
	}

	timeout, err := time.ParseDuration(v.GetString("remote.timeout"))
	if err != nil {
		return nil, fmt.Errorf("invalid remote.timeout: %w", err)
	}

	quality := v.GetInt("encode.quality")
	if quality < 1 || quality > 100 {
		return nil, fmt.Errorf("invalid encode.quality %d: must be 1-100", quality)
	}

	filter := v.GetString("resample.filter")
	resampler, ok := imaging.ResamplerByName(filter)
	if !ok {
		return nil, fmt.Errorf("invalid resample.filter %q: want imaging or bild", filter)
	}

	return &Config{
		LogLevel:      level,
		RemoteBaseURL: v.GetString("remote.base_url"),
		RemoteTimeout: timeout,
		Quality:       quality,
		Resampler:     resampler,
	}, nil
}

func parseLevel(s string) (zerolog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return zerolog.DebugLevel, nil
	case "", "info":
		return zerolog.InfoLevel, nil
	case "warn":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("invalid log.level %q", s)
	}
}

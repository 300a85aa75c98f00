// Package config loads settings for the development host.
//
// Precedence, lowest to highest: defaults, YAML file, environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/phenix/musicbox/internal/log"
	"github.com/phenix/musicbox/runtime"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Environment variable names.
const (
	EnvListen   = "MUSICBOX_LISTEN"
	EnvAssetDir = "MUSICBOX_ASSET_DIR"
	EnvMountID  = "MUSICBOX_MOUNT_ID"
	EnvLogLevel = "LOG_LEVEL"
	EnvMediaDir = "MUSICBOX_MEDIA_DIR"
	EnvAudio    = "MUSICBOX_AUDIO"
)

// Config holds the development host settings.
type Config struct {
	Listen   string `yaml:"listen"`
	AssetDir string `yaml:"assetDir"` // holds main.wasm and wasm_exec.js
	MountID  string `yaml:"mountId"`  // CSS selector the WASM renderer mounts into
	LogLevel string `yaml:"logLevel"`
	Title    string `yaml:"title"`    // document <title>
	MediaDir string `yaml:"mediaDir"` // root for files players may load
	Audio    bool   `yaml:"audio"`    // play through the system speaker instead of discarding
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Listen:   ":8080",
		AssetDir: "web/dist",
		MountID:  "#app",
		LogLevel: "info",
		Title:    "Phenix Music Box",
		MediaDir: "media",
	}
}

// Load builds a Config from defaults, the optional YAML file at path, and the environment.
// An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		// #nosec G304 -- path comes from the operator via flag
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := mergeYAML(&cfg, data); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := mergeEnv(&cfg, log.WithComponent("config")); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// mergeYAML decodes data over cfg. Unknown keys and extra documents are rejected.
func mergeYAML(cfg *Config, data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("strict config parse error: %w", err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("config file contains multiple documents or trailing content")
	}
	return nil
}

func mergeEnv(cfg *Config, logger zerolog.Logger) error {
	for _, e := range []struct {
		key string
		dst *string
	}{
		{EnvListen, &cfg.Listen},
		{EnvAssetDir, &cfg.AssetDir},
		{EnvMountID, &cfg.MountID},
		{EnvLogLevel, &cfg.LogLevel},
		{EnvMediaDir, &cfg.MediaDir},
	} {
		value, ok := lookupEnv(logger, e.key)
		if !ok {
			continue
		}
		*e.dst = value
	}

	if value, ok := lookupEnv(logger, EnvAudio); ok {
		audio, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalid, EnvAudio, value)
		}
		cfg.Audio = audio
	}
	return nil
}

func lookupEnv(logger zerolog.Logger, key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return "", false
	}
	logger.Debug().
		Str("key", key).
		Str("value", value).
		Str("source", "environment").
		Msg("using environment variable")
	return value, true
}

// Validate reports the first problem found, wrapped in ErrInvalid.
func (c Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Listen); err != nil {
		return fmt.Errorf("%w: listen %q: %v", ErrInvalid, c.Listen, err)
	}
	if strings.TrimSpace(c.AssetDir) == "" {
		return fmt.Errorf("%w: assetDir must be set", ErrInvalid)
	}
	if strings.TrimSpace(c.MediaDir) == "" {
		return fmt.Errorf("%w: mediaDir must be set", ErrInvalid)
	}
	if runtime.ResolveMountSelector(c.MountID, "") != c.MountID {
		return fmt.Errorf("%w: mountId %q must be an id selector like #app", ErrInvalid, c.MountID)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: logLevel %q: %v", ErrInvalid, c.LogLevel, err)
	}
	return nil
}

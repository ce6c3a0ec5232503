/**
 * Copyright (c) 2019, The Artemis Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

// Package config loads the configuration of the service from a YAML file and the environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/roofs-runner/gql-apollo/graphql/handler"
	"github.com/roofs-runner/gql-apollo/internal/logging"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Environment variables overriding the settings
const (
	EnvAddress  = "GQL_ADDRESS"
	EnvLogLevel = "GQL_LOG_LEVEL"
	EnvSeedFile = "GQL_SEED_FILE"
)

// Config contains all settings of the service.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	GraphQL GraphQLConfig `yaml:"graphql"`
	Log     LogConfig     `yaml:"log"`
	Store   StoreConfig   `yaml:"store"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Address         string        `yaml:"address"`
	GraphQLPath     string        `yaml:"graphql_path"`
	Playground      bool          `yaml:"playground"`
	WebSocket       bool          `yaml:"websocket"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxBodySize     uint          `yaml:"max_body_size"`
}

// GraphQLConfig configures the GraphQL handler.
type GraphQLConfig struct {
	// OperationCacheSize is the number of prepared operations to keep. Zero disables the cache.
	OperationCacheSize int `yaml:"operation_cache_size"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// StoreConfig configures the initial contents of the store.
type StoreConfig struct {
	// Seed populates the store with the built-in records unless SeedFile is given.
	Seed bool `yaml:"seed"`

	// SeedFile names a YAML file with the records to populate the store with.
	SeedFile string `yaml:"seed_file"`
}

// Default returns the configuration used when nothing is specified.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Address:         ":4000",
			GraphQLPath:     "/graphql",
			Playground:      true,
			WebSocket:       true,
			ShutdownTimeout: 10 * time.Second,
			MaxBodySize:     handler.DefaultMaxBodySize,
		},
		GraphQL: GraphQLConfig{
			OperationCacheSize: handler.DefaultOperationCacheSize,
		},
		Log: LogConfig{
			Level:  "info",
			Format: logging.FormatJSON,
		},
		Store: StoreConfig{
			Seed: true,
		},
	}
}

// Load reads the configuration from the YAML file at path on top of the defaults, then applies the
// environment overrides and validates the result. The file is optional; an empty path loads the
// defaults.
func Load(path string) (*Config, error) {
	config := Default()

	if len(path) > 0 {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		if err := config.decode(data); err != nil {
			return nil, fmt.Errorf("config: %s: %w", path, err)
		}
	}

	config.applyEnv(os.LookupEnv)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (config *Config) decode(data []byte) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(config); err != nil && err != io.EOF {
		return err
	}
	return nil
}

func (config *Config) applyEnv(lookup func(key string) (string, bool)) {
	if v, ok := lookup(EnvAddress); ok {
		config.Server.Address = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		config.Log.Level = v
	}
	if v, ok := lookup(EnvSeedFile); ok {
		config.Store.SeedFile = v
	}
}

// Validate reports the invalid settings.
func (config *Config) Validate() error {
	var errs []error

	if len(config.Server.Address) == 0 {
		errs = append(errs, errors.New("server.address is required"))
	}
	if !strings.HasPrefix(config.Server.GraphQLPath, "/") {
		errs = append(errs, fmt.Errorf("server.graphql_path %q must start with /", config.Server.GraphQLPath))
	}
	if config.Server.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must be positive"))
	}
	if config.GraphQL.OperationCacheSize < 0 {
		errs = append(errs, errors.New("graphql.operation_cache_size must not be negative"))
	}
	if _, err := zerolog.ParseLevel(config.Log.Level); err != nil || len(config.Log.Level) == 0 {
		errs = append(errs, fmt.Errorf("log.level %q is unknown", config.Log.Level))
	}
	switch config.Log.Format {
	case logging.FormatJSON, logging.FormatConsole:
	default:
		errs = append(errs, fmt.Errorf("log.format %q is unknown", config.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// Copyright 2026 The UrbanLogiq Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the travel-time client's local files: the
// account configuration and the parameter rows of a request.
//
// Both files are JSON with comments and trailing commas allowed
// (JSONC). A configuration file whose name ends in .yaml or .yml is
// parsed as YAML instead. There is no discovery: the caller passes the
// path, and nothing in the environment overrides file values. The
// only expansion is ${VAR} and ${VAR:-default} in the username and
// password, so a checked-in file can keep credentials out of the
// repository.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/urbanlogiq/london-travel-time/lib/objectid"
	"github.com/urbanlogiq/london-travel-time/lib/paramtable"
)

// Config is the account and endpoint configuration of the client.
// Optional fields left empty take the defaults of the package that
// consumes them (lib/ulapi, lib/traveltime).
type Config struct {
	// ClientID is the application id issued by UrbanLogiq.
	ClientID string `json:"client_id" yaml:"client_id"`
	Username string `json:"username" yaml:"username"`

	// Password may be empty, in which case the command prompts for it.
	Password string `json:"password" yaml:"password"`

	// Schematic is the object id of the travel time job definition, in
	// dashed or undashed hex.
	Schematic string `json:"schematic" yaml:"schematic"`

	// Realm is written into every parameter row.
	Realm string `json:"realm" yaml:"realm"`

	APIBaseURL string `json:"api_base_url,omitempty" yaml:"api_base_url,omitempty"`
	TokenURL   string `json:"token_url,omitempty" yaml:"token_url,omitempty"`
	Authority  string `json:"authority,omitempty" yaml:"authority,omitempty"`
	Policy     string `json:"policy,omitempty" yaml:"policy,omitempty"`

	RequestTimeout      Duration `json:"request_timeout,omitempty" yaml:"request_timeout,omitempty"`
	PollInitialInterval Duration `json:"poll_initial_interval,omitempty" yaml:"poll_initial_interval,omitempty"`
	PollMaxInterval     Duration `json:"poll_max_interval,omitempty" yaml:"poll_max_interval,omitempty"`
	PollTimeout         Duration `json:"poll_timeout,omitempty" yaml:"poll_timeout,omitempty"`

	// ParamsCompression is the Arrow body compression of the parameter
	// table: "none" (default), "lz4", or "zstd".
	ParamsCompression string `json:"params_compression,omitempty" yaml:"params_compression,omitempty"`

	// AcceptZstd asks the API for zstd-compressed responses.
	AcceptZstd bool `json:"accept_zstd,omitempty" yaml:"accept_zstd,omitempty"`
}

// Duration is a time.Duration written as a Go duration string ("45s",
// "2m30s") in configuration files.
type Duration time.Duration

func (duration *Duration) set(text string) error {
	parsed, err := time.ParseDuration(text)
	if err != nil {
		return err
	}
	*duration = Duration(parsed)
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (duration *Duration) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("duration must be a string such as \"30s\": %w", err)
	}
	return duration.set(text)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (duration *Duration) UnmarshalYAML(value *yaml.Node) error {
	var text string
	if err := value.Decode(&text); err != nil {
		return err
	}
	return duration.set(text)
}

// Std returns duration as a time.Duration.
func (duration Duration) Std() time.Duration { return time.Duration(duration) }

// LoadFile reads and validates the configuration at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(jsonc.ToJSON(data), &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	cfg.expandVariables()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks that required keys are present and that every
// optional value parses. All problems are reported together.
func (c *Config) Validate() error {
	var errs []error

	required := []struct {
		key, value string
	}{
		{"client_id", c.ClientID},
		{"username", c.Username},
		{"schematic", c.Schematic},
		{"realm", c.Realm},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			errs = append(errs, fmt.Errorf("%s is required", field.key))
		}
	}

	if c.Schematic != "" {
		if _, err := objectid.Parse(c.Schematic); err != nil {
			errs = append(errs, fmt.Errorf("schematic: %w", err))
		}
	}
	if _, err := paramtable.ParseCompression(c.ParamsCompression); err != nil {
		errs = append(errs, fmt.Errorf("params_compression: %w", err))
	}

	durations := []struct {
		key   string
		value Duration
	}{
		{"request_timeout", c.RequestTimeout},
		{"poll_initial_interval", c.PollInitialInterval},
		{"poll_max_interval", c.PollMaxInterval},
		{"poll_timeout", c.PollTimeout},
	}
	for _, field := range durations {
		if field.value < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative", field.key))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// SchematicID returns the parsed Schematic field.
func (c *Config) SchematicID() (objectid.ID, error) {
	return objectid.Parse(c.Schematic)
}

// Compression returns the parsed ParamsCompression field.
func (c *Config) Compression() (paramtable.Compression, error) {
	return paramtable.ParseCompression(c.ParamsCompression)
}

func (c *Config) expandVariables() {
	c.Username = expandVars(c.Username)
	c.Password = expandVars(c.Password)
}

// varPattern matches ${VAR} and ${VAR:-default}.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}

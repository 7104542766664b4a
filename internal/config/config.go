// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package config loads Holecard's application configuration: built-in
// defaults, a YAML file, and environment variables, merged in that
// priority order (each later source overrides the fields it sets) via the
// same builder pattern the teacher uses for every multi-source concern.
// CLI flags are not read by this package; [Merge] overlays one Config on
// another. The recognised keys are a closed set (spec.md §6); anything
// else present in the YAML file is preserved verbatim on rewrite rather
// than discarded (spec.md §9).
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config is the fully merged, typed view of Holecard's configuration.
type Config struct {
	// SessionTimeoutMinutes is how long a session stays live after unlock,
	// in minutes. Must be >= 1. Default 60.
	SessionTimeoutMinutes int `yaml:"session-timeout-minutes" env:"SESSION_TIMEOUT_MINUTES"`

	// DefaultDeckPath is the deck file path used by `init` when no
	// explicit path is given. Default ~/.holecard/vault.enc.
	DefaultDeckPath string `yaml:"default-deck-path" env:"DEFAULT_DECK_PATH"`

	// EnableBiometric reserves the credential-store key schema for an
	// optional macOS biometric-cached master password (spec.md §6); the
	// core never acts on this flag itself.
	EnableBiometric bool `yaml:"enable-biometric" env:"ENABLE_BIOMETRIC"`
}

// SessionTimeout returns SessionTimeoutMinutes as a [time.Duration].
func (c Config) SessionTimeout() time.Duration {
	return time.Duration(c.SessionTimeoutMinutes) * time.Minute
}

// Default returns the built-in default configuration: the base every
// other source is merged on top of.
func Default() Config {
	return Config{
		SessionTimeoutMinutes: 60,
		DefaultDeckPath:       defaultDeckPath(),
		EnableBiometric:       false,
	}
}

func defaultDeckPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".holecard", "vault.enc")
}

// DefaultConfigPath returns the path Load reads the YAML config file
// from when no explicit path is given: ~/.holecard/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".holecard", "config.yaml")
}

// DefaultRegistryPath returns the path the deck registry is persisted at.
func DefaultRegistryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".holecard", "registry.yaml")
}

// DefaultSessionDir returns the directory session sidecar files are
// written under, one file per deck name.
func DefaultSessionDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".holecard", "sessions")
}

// Load merges built-in defaults, the YAML file at path (if it exists),
// and environment variables, in that priority order, and validates the
// result. Flags are not part of Load, since cobra owns flag parsing and
// Load must not import it.
func Load(path string) (Config, error) {
	return newBuilder().
		withDefaults().
		withFile(path).
		withEnv().
		build()
}

// Merge overlays override onto base: any field override explicitly set
// away from its zero value takes precedence, and the result is validated.
// The CLI layer in this repository does not call it.
func Merge(base, override Config) (Config, error) {
	return mergeConfigs(base, override)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/shabaraba/holecard/internal/holeerr"
	"github.com/shabaraba/holecard/internal/storage"
)

// recognisedKeys is the closed set of configuration keys Holecard
// understands (spec.md §6). Any other top-level key found in the YAML
// file is preserved verbatim by [readFile]/[WriteFile] but never acted
// upon (spec.md §9).
var recognisedKeys = map[string]struct{}{
	"session-timeout-minutes": {},
	"default-deck-path":       {},
	"enable-biometric":        {},
}

// readFile decodes the YAML config file at path into both a typed
// [Config] (the recognised keys) and a raw map overlay (every key,
// recognised or not). A missing file is not an error: it returns a zero
// Config and an empty overlay, since the file is created lazily on first
// write.
func readFile(path string) (Config, map[string]any, error) {
	exists, err := storage.Exists(path)
	if err != nil {
		return Config{}, nil, err
	}
	if !exists {
		return Config{}, map[string]any{}, nil
	}

	raw, err := storage.Read(path)
	if err != nil {
		return Config{}, nil, err
	}

	var overlay map[string]any
	if err := yaml.Unmarshal(raw, &overlay); err != nil {
		return Config{}, nil, fmt.Errorf("%w: %v", holeerr.ErrInvalidInput, err)
	}
	if overlay == nil {
		overlay = map[string]any{}
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, nil, fmt.Errorf("%w: %v", holeerr.ErrInvalidInput, err)
	}

	return cfg, overlay, nil
}

// WriteFile persists cfg to the YAML file at path, preserving any
// unrecognised keys already present there (spec.md §9: unknown keys
// round-trip verbatim even though this binary never acts on them).
func WriteFile(path string, cfg Config) error {
	_, overlay, err := readFile(path)
	if err != nil {
		return err
	}
	if overlay == nil {
		overlay = map[string]any{}
	}

	overlay["session-timeout-minutes"] = cfg.SessionTimeoutMinutes
	overlay["default-deck-path"] = cfg.DefaultDeckPath
	overlay["enable-biometric"] = cfg.EnableBiometric

	raw, err := yaml.Marshal(overlay)
	if err != nil {
		return fmt.Errorf("%w: %v", holeerr.ErrInvalidInput, err)
	}
	return storage.Write(path, raw)
}

// UnknownKeys returns every top-level key present in the YAML file at
// path that is not part of Holecard's recognised set, for diagnostic or
// `status`-style display.
func UnknownKeys(path string) ([]string, error) {
	_, overlay, err := readFile(path)
	if err != nil {
		return nil, err
	}
	var unknown []string
	for k := range overlay {
		if _, ok := recognisedKeys[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	return unknown, nil
}

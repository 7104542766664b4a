// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"

	"dario.cat/mergo"
)

// builder accumulates partial [Config] values from different sources and
// merges them into a single configuration on [builder.build], following
// the same fluent fail-fast pattern as the rest of Holecard's multi-source
// components.
type builder struct {
	configs []Config
	err     error
}

func newBuilder() *builder {
	return &builder{configs: make([]Config, 0, 4)}
}

// build merges all accumulated sources in append order — later sources
// win for any non-zero field — and validates the result.
func (b *builder) build() (Config, error) {
	if b.err != nil {
		return Config{}, fmt.Errorf("error building config: %w", b.err)
	}

	cfg := Config{}
	for _, c := range b.configs {
		if err := mergo.Merge(&cfg, c, mergo.WithOverride); err != nil {
			return Config{}, fmt.Errorf("error merging configs: %w", err)
		}
	}

	return cfg, cfg.validate()
}

func (b *builder) withDefaults() *builder {
	b.configs = append(b.configs, Default())
	return b
}

func (b *builder) withFile(path string) *builder {
	fileCfg, _, err := readFile(path)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}
	b.configs = append(b.configs, fileCfg)
	return b
}

func (b *builder) withEnv() *builder {
	envCfg := Config{}
	if err := parseEnv(&envCfg); err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}
	b.configs = append(b.configs, envCfg)
	return b
}

func mergeConfigs(base, override Config) (Config, error) {
	cfg := base
	if err := mergo.Merge(&cfg, override, mergo.WithOverride); err != nil {
		return Config{}, fmt.Errorf("error merging configs: %w", err)
	}
	return cfg, cfg.validate()
}

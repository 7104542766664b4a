// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// envPrefix is prepended to every `env` struct tag on [Config] before the
// process environment is consulted, so Holecard only ever reads variables
// of the form HOLECARD_SESSION_TIMEOUT_MINUTES (spec.md §2.3).
const envPrefix = "HOLECARD_"

// parseEnv populates cfg from environment variables using the caarlos0/env
// library, honouring [envPrefix]. Unset variables leave their field at its
// zero value, which [builder.build] then simply fails to override.
func parseEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: envPrefix}); err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}
	return nil
}

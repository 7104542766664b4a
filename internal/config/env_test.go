// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseEnv_ReadsPrefixedVariables(t *testing.T) {
	t.Setenv("HOLECARD_SESSION_TIMEOUT_MINUTES", "42")
	t.Setenv("HOLECARD_DEFAULT_DECK_PATH", "/tmp/deck.enc")
	t.Setenv("HOLECARD_ENABLE_BIOMETRIC", "true")

	var cfg Config
	require.NoError(t, parseEnv(&cfg))

	require.Equal(t, 42, cfg.SessionTimeoutMinutes)
	require.Equal(t, "/tmp/deck.enc", cfg.DefaultDeckPath)
	require.True(t, cfg.EnableBiometric)
}

func TestParseEnv_UnprefixedVariableIsIgnored(t *testing.T) {
	t.Setenv("SESSION_TIMEOUT_MINUTES", "42")

	var cfg Config
	require.NoError(t, parseEnv(&cfg))

	require.Zero(t, cfg.SessionTimeoutMinutes)
}

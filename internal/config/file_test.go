// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteFileThenReadFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Config{SessionTimeoutMinutes: 20, DefaultDeckPath: "/tmp/deck.enc", EnableBiometric: true}

	require.NoError(t, WriteFile(path, cfg))

	got, _, err := readFile(path)
	require.NoError(t, err)
	require.Equal(t, cfg, got)
}

func TestWriteFile_PreservesUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("session-timeout-minutes: 60\nfuture-feature-flag: true\n"), 0o600))

	require.NoError(t, WriteFile(path, Config{SessionTimeoutMinutes: 90, DefaultDeckPath: "/tmp/deck.enc"}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(raw), "future-feature-flag: true")

	unknown, err := UnknownKeys(path)
	require.NoError(t, err)
	require.Equal(t, []string{"future-feature-flag"}, unknown)
}

func TestReadFile_MissingFileReturnsEmptyOverlayNoError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.yaml")

	cfg, overlay, err := readFile(path)
	require.NoError(t, err)
	require.Equal(t, Config{}, cfg)
	require.Empty(t, overlay)
}

func TestUnknownKeys_AllRecognisedReturnsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteFile(path, Config{SessionTimeoutMinutes: 60, DefaultDeckPath: "/tmp/deck.enc"}))

	unknown, err := UnknownKeys(path)
	require.NoError(t, err)
	require.Empty(t, unknown)
}

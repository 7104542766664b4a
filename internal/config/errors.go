// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "errors"

// ErrInvalidSessionTimeout is returned by [Config.validate] when
// SessionTimeoutMinutes is less than 1 (spec.md §6).
var ErrInvalidSessionTimeout = errors.New("session-timeout-minutes must be >= 1")

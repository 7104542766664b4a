// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package totp derives live TOTP codes from a base32 seed stored as an
// ordinary card value. It is a pure external collaborator: nothing in this
// package persists, logs, or otherwise treats a seed as anything but an
// opaque string handed to it by the caller, per spec.md §1 and §3.
package totp

import (
	"fmt"
	"time"

	"github.com/pquerna/otp/totp"

	"github.com/shabaraba/holecard/internal/holeerr"
)

// Code derives the current 6-digit TOTP code for seed (an RFC 4648 base32
// string, padding optional) at the given instant. A malformed seed is
// reported as [holeerr.ErrInvalidInput] rather than surfaced as whatever
// internal error the otp library happens to return.
func Code(seed string, at time.Time) (string, error) {
	code, err := totp.GenerateCode(seed, at)
	if err != nil {
		return "", fmt.Errorf("%w: %v", holeerr.ErrInvalidInput, err)
	}
	return code, nil
}

// SecondsRemaining reports how many seconds remain in the current 30-second
// TOTP step at the given instant, for a CLI countdown display.
func SecondsRemaining(at time.Time) int {
	const step = 30
	return step - int(at.Unix()%step)
}

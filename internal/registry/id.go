// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package registry

import "github.com/google/uuid"

// newEntryID returns a time-ordered UUID v7 for a new registry entry,
// falling back to a random v4 UUID if v7 generation fails (entropy
// exhaustion at process start, in practice never observed on a desktop
// OS). Entry names are chosen by the user and may be renamed in a future
// format; ID gives each registration a stable identity independent of
// that name.
func newEntryID() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return v7.String()
}

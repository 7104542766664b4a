// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package credstore abstracts the operating system's credential store
// (macOS Keychain, the Secret Service over D-Bus on Linux, Windows
// Credential Manager) as a simple keyed byte-string map, via
// github.com/zalando/go-keyring. It is the only component permitted to
// call into the OS credential store.
package credstore

//go:generate mockgen -source=credstore.go -destination=credstoremock/gateway_mock.go -package=credstoremock

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/shabaraba/holecard/internal/holeerr"
)

// Service is the constant service name every Holecard credential is
// stored under; only the account string varies (spec.md §6).
const Service = "holecard"

// Gateway abstracts a (service, account) -> bytes map. Service is always
// [Service]; account is one of the deterministic keys described in
// spec.md §3/§6 (e.g. "holecard.secret-key.<deck-name>").
type Gateway interface {
	// Get returns the value stored under account, or
	// [holeerr.ErrNotFound] if nothing is stored there, or
	// [holeerr.ErrKeyringDenied] if the store refused or is unavailable.
	Get(account string) ([]byte, error)

	// Set stores value under account, creating or overwriting the entry.
	Set(account string, value []byte) error

	// Delete removes the entry under account. Deleting an absent entry is
	// not an error (idempotent).
	Delete(account string) error

	// Exists reports whether an entry is stored under account.
	Exists(account string) (bool, error)
}

// osGateway is the production [Gateway] backed by the platform credential
// store via go-keyring. go-keyring only stores strings, so byte values are
// carried as-is through its API (it makes no encoding assumption itself);
// Holecard base64-encodes binary secrets before calling Set and decodes
// after Get — see [holecard/internal/session] and the secret-key account.
type osGateway struct{}

// New returns the production OS-backed [Gateway].
func New() Gateway {
	return osGateway{}
}

func (osGateway) Get(account string) ([]byte, error) {
	value, err := keyring.Get(Service, account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, holeerr.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", holeerr.ErrKeyringDenied, err)
	}
	return []byte(value), nil
}

func (osGateway) Set(account string, value []byte) error {
	if err := keyring.Set(Service, account, string(value)); err != nil {
		return fmt.Errorf("%w: %v", holeerr.ErrKeyringDenied, err)
	}
	return nil
}

func (osGateway) Delete(account string) error {
	if err := keyring.Delete(Service, account); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("%w: %v", holeerr.ErrKeyringDenied, err)
	}
	return nil
}

func (osGateway) Exists(account string) (bool, error) {
	_, err := keyring.Get(Service, account)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, keyring.ErrNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("%w: %v", holeerr.ErrKeyringDenied, err)
}

// SecretKeyAccount returns the deterministic credential-store account
// string for a deck's secret key (spec.md §3/§6).
func SecretKeyAccount(deckName string) string {
	return fmt.Sprintf("holecard.secret-key.%s", deckName)
}

// SessionKeyAccount returns the deterministic credential-store account
// string for a deck's cached session key (spec.md §3/§6).
func SessionKeyAccount(deckName string) string {
	return fmt.Sprintf("holecard.session-key.%s", deckName)
}

// BiometricMasterAccount returns the reserved credential-store account
// string for an optional macOS biometric-cached master password. The core
// never writes to this account; the key schema is reserved for an
// external collaborator per spec.md §6 and is exposed here so that
// collaborator and the core agree on naming.
func BiometricMasterAccount(deckName string) string {
	return fmt.Sprintf("holecard.biometric-master.%s", deckName)
}

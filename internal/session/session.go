// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package session owns the lifecycle of a cached derived key: unlock,
// resume, lock, and rotation (spec.md §4.E). A session couples a sidecar
// metadata file — timestamps only, never key material — with an entry in
// the credential store holding the derived key itself. Both must agree
// for a session to be considered live.
package session

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/shabaraba/holecard/internal/credstore"
	"github.com/shabaraba/holecard/internal/cryptoprim"
	"github.com/shabaraba/holecard/internal/holeerr"
	"github.com/shabaraba/holecard/internal/logger"
	"github.com/shabaraba/holecard/internal/storage"
)

// sessionIDLen is the number of random bytes in a session identifier
// (spec.md §6: 16 random bytes, lowercase hex).
const sessionIDLen = 16

// sidecar is the textual object persisted at a deck's sidecar path
// (spec.md §6). It never carries key material.
type sidecar struct {
	SessionID    string `json:"session_id"`
	CreatedAt    string `json:"created_at"`
	LastAccessAt string `json:"last_access_at"`
	ExpiresAt    string `json:"expires_at"`
	DeckName     string `json:"deck_name"`
}

// credValue is the JSON value stored in the credential store under the
// session-key account. Carrying session_id alongside the key lets
// [Manager.TryResume] verify the sidecar and the credential store agree
// on which session is live, without a separate round trip.
type credValue struct {
	SessionID string `json:"session_id"`
	Key       string `json:"key"` // base64-encoded derived key
}

const rfc3339 = "2006-01-02T15:04:05.999999999Z07:00"

// Status describes the externally observable state of a deck's session,
// surfaced by the core's status() operation (spec.md §6).
type Status struct {
	Locked    bool
	ExpiresAt time.Time
}

// Manager owns the session lifecycle for a set of named decks. One
// Manager instance is shared across every deck known to a process; each
// operation is parameterised by deckName.
type Manager struct {
	gateway     credstore.Gateway
	sidecarPath func(deckName string) string
	timeout     time.Duration
	log         *logger.Logger
}

// New returns a session [Manager]. sidecarPath maps a deck name to the
// absolute path of its sidecar file (owned by the registry's config
// directory layout); timeout is the fixed session lifetime applied to
// every unlock (spec.md §4.E — absolute, not sliding). log defaults to
// [logger.Nop] if nil.
func New(gateway credstore.Gateway, sidecarPath func(deckName string) string, timeout time.Duration, log *logger.Logger) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	return &Manager{gateway: gateway, sidecarPath: sidecarPath, timeout: timeout, log: log}
}

// Unlock records a freshly verified derived key as the live session for
// deckName: it stores the key in the credential store under a new
// session id and writes the sidecar with expiresAt = now + timeout. The
// caller is responsible for having already verified key against the
// deck (by a successful decrypt) before calling Unlock — this package
// has no way to check that itself.
func (m *Manager) Unlock(deckName string, key []byte, now time.Time) error {
	sessionID, err := cryptoprim.Random(sessionIDLen)
	if err != nil {
		return err
	}
	sessionIDHex := hex.EncodeToString(sessionID)

	cv := credValue{
		SessionID: sessionIDHex,
		Key:       base64.StdEncoding.EncodeToString(key),
	}
	raw, err := json.Marshal(cv)
	if err != nil {
		return fmt.Errorf("%w: %v", holeerr.ErrInvalidInput, err)
	}
	if err := m.gateway.Set(credstore.SessionKeyAccount(deckName), raw); err != nil {
		return err
	}

	sc := sidecar{
		SessionID:    sessionIDHex,
		CreatedAt:    now.UTC().Format(rfc3339),
		LastAccessAt: now.UTC().Format(rfc3339),
		ExpiresAt:    now.Add(m.timeout).UTC().Format(rfc3339),
		DeckName:     deckName,
	}
	return m.writeSidecar(deckName, sc)
}

// TryResume returns the live derived key for deckName if one exists: the
// sidecar must be present and well-formed, its session_id must match the
// credential store's entry, and now must be strictly before expires_at.
// Any other outcome — missing sidecar, mismatch, or expiry — returns
// ok=false with no error; an expired session is also actively locked
// (credential-store entry and sidecar removed) before returning.
//
// A [holeerr.ErrKeyringDenied] from the credential store degrades to
// "session absent" rather than propagating, per spec.md §7: the caller
// re-prompts for the master password instead of failing outright.
func (m *Manager) TryResume(deckName string, now time.Time) (key []byte, ok bool, err error) {
	scBytes, err := storage.Read(m.sidecarPath(deckName))
	if err != nil {
		return nil, false, nil
	}
	var sc sidecar
	if jsonErr := json.Unmarshal(scBytes, &sc); jsonErr != nil {
		return nil, false, nil
	}

	expiresAt, parseErr := time.Parse(rfc3339, sc.ExpiresAt)
	if parseErr != nil {
		return nil, false, nil
	}

	raw, credErr := m.gateway.Get(credstore.SessionKeyAccount(deckName))
	if credErr != nil {
		// Both "not found" and "keyring denied" degrade to "session
		// absent" here: spec.md §7 only requires KeyringDenied to do so,
		// but a missing credential-store entry with a present sidecar is
		// itself just an inconsistent-but-absent session.
		if errors.Is(credErr, holeerr.ErrKeyringDenied) {
			m.log.Warn().Str("deck", deckName).Err(credErr).Msg("credential store denied session read, falling back to re-prompt")
		}
		return nil, false, nil
	}
	var cv credValue
	if jsonErr := json.Unmarshal(raw, &cv); jsonErr != nil {
		return nil, false, nil
	}
	if !cryptoprim.ConstantTimeEqual([]byte(cv.SessionID), []byte(sc.SessionID)) {
		return nil, false, nil
	}

	if !now.Before(expiresAt) {
		_ = m.Lock(deckName)
		return nil, false, nil
	}

	sc.LastAccessAt = now.UTC().Format(rfc3339)
	if err := m.writeSidecar(deckName, sc); err != nil {
		return nil, false, err
	}

	decoded, decErr := base64.StdEncoding.DecodeString(cv.Key)
	if decErr != nil {
		return nil, false, nil
	}
	return decoded, true, nil
}

// Lock tears down deckName's session: it deletes the credential-store
// entry and the sidecar file. Locking an already-locked deck is a no-op,
// not an error.
func (m *Manager) Lock(deckName string) error {
	if err := m.gateway.Delete(credstore.SessionKeyAccount(deckName)); err != nil {
		return err
	}
	path := m.sidecarPath(deckName)
	exists, err := storage.Exists(path)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	return removeSidecar(path)
}

// Rotate invalidates deckName's current session so the next operation
// must re-unlock. It is called whenever the master password changes or
// the deck is re-initialised (spec.md §4.E).
func (m *Manager) Rotate(deckName string) error {
	return m.Lock(deckName)
}

// StatusOf reports the externally observable session state for deckName
// without mutating anything — used by the core's status() operation,
// which must not itself extend or disturb a session merely by being
// queried.
func (m *Manager) StatusOf(deckName string, now time.Time) (Status, error) {
	scBytes, err := storage.Read(m.sidecarPath(deckName))
	if err != nil {
		return Status{Locked: true}, nil
	}
	var sc sidecar
	if err := json.Unmarshal(scBytes, &sc); err != nil {
		return Status{Locked: true}, nil
	}
	expiresAt, err := time.Parse(rfc3339, sc.ExpiresAt)
	if err != nil {
		return Status{Locked: true}, nil
	}
	if !now.Before(expiresAt) {
		return Status{Locked: true}, nil
	}
	return Status{Locked: false, ExpiresAt: expiresAt}, nil
}

func (m *Manager) writeSidecar(deckName string, sc sidecar) error {
	raw, err := json.Marshal(sc)
	if err != nil {
		return fmt.Errorf("%w: %v", holeerr.ErrInvalidInput, err)
	}
	return storage.Write(m.sidecarPath(deckName), raw)
}

func removeSidecar(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %v", holeerr.ErrIO, err)
	}
	return nil
}

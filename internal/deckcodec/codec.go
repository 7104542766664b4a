// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package deckcodec is the only component permitted to encode or decode
// deck bytes. It owns the bit-exact deck file envelope (spec.md §6) and
// the canonical textual serialisation of a deck's logical contents, and
// orchestrates encryption and authentication via
// [holecard/internal/cryptoprim]. The codec never mutates the
// [deck.Deck] it is given, and never touches the filesystem — that is
// [holecard/internal/storage]'s job.
package deckcodec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shabaraba/holecard/internal/cryptoprim"
	"github.com/shabaraba/holecard/internal/deck"
	"github.com/shabaraba/holecard/internal/holeerr"
)

// Magic is the 4-byte ASCII magic value at the start of every deck file.
var Magic = [4]byte{'H', 'C', 'D', 'K'}

// Version is the only deck envelope format version currently defined.
const Version byte = 1

const headerLen = len(Magic) + 1 + cryptoprim.SaltLen + cryptoprim.NonceLen

// canonicalBody mirrors [deck.Deck] with explicit JSON tags; encoding/json
// sorts map keys alphabetically on marshal, which is what gives the
// canonical body its deterministic, sorted-key property for both the
// top-level hands map and each hand's inner cards map, with no need for a
// third-party canonical-JSON library (see DESIGN.md).
type canonicalBody struct {
	Version  int                      `json:"version"`
	Revision uint64                   `json:"revision"`
	Hands    map[string]canonicalHand `json:"hands"`
}

type canonicalHand struct {
	CreatedAt string            `json:"created_at"`
	UpdatedAt string            `json:"updated_at"`
	Cards     map[string]string `json:"cards"`
}

const rfc3339 = "2006-01-02T15:04:05.999999999Z07:00"

func toBody(d *deck.Deck) canonicalBody {
	hands := make(map[string]canonicalHand, len(d.Hands))
	for name, h := range d.Hands {
		hands[name] = canonicalHand{
			CreatedAt: h.CreatedAt.UTC().Format(rfc3339),
			UpdatedAt: h.UpdatedAt.UTC().Format(rfc3339),
			Cards:     h.Cards,
		}
	}
	return canonicalBody{Version: d.Version, Revision: d.Revision, Hands: hands}
}

func fromBody(b canonicalBody) (*deck.Deck, error) {
	hands := make(map[string]deck.Hand, len(b.Hands))
	for name, h := range b.Hands {
		createdAt, err := parseTimestamp(h.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: hand %q created_at: %v", holeerr.ErrCorruptDeck, name, err)
		}
		updatedAt, err := parseTimestamp(h.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: hand %q updated_at: %v", holeerr.ErrCorruptDeck, name, err)
		}
		cards := h.Cards
		if cards == nil {
			cards = make(map[string]string)
		}
		hands[name] = deck.Hand{CreatedAt: createdAt, UpdatedAt: updatedAt, Cards: cards}
	}
	return &deck.Deck{Version: b.Version, Revision: b.Revision, Hands: hands}, nil
}

// Load parses a deck envelope, verifies its magic and version, derives the
// AEAD key from (password, secretKeyASCII, kdf_salt), authenticates and
// decrypts the body, and parses the canonical body into a [deck.Deck].
//
// A magic/version mismatch or an unparsable body after a successful tag
// check both surface as [holeerr.ErrCorruptDeck]. A tag mismatch surfaces
// as [holeerr.ErrAuthenticationFailed], indistinguishable from a wrong
// password or wrong secret key (spec.md §7).
func Load(raw []byte, password, secretKeyASCII string) (*deck.Deck, error) {
	d, key, err := LoadWithKey(raw, password, secretKeyASCII)
	if err != nil {
		return nil, err
	}
	cryptoprim.Zero(key)
	return d, nil
}

// LoadWithKey behaves like [Load] but also returns the AEAD key the
// envelope was decrypted with, so a caller (the session manager's
// collaborator in [holecard/internal/deckctx]) can cache it without
// recomputing the Argon2id derivation. The caller owns the returned key
// and must zeroise it once it is no longer needed.
func LoadWithKey(raw []byte, password, secretKeyASCII string) (*deck.Deck, []byte, error) {
	salt, nonce, ciphertextAndTag, err := splitEnvelope(raw)
	if err != nil {
		return nil, nil, err
	}

	key := cryptoprim.Derive(password, secretKeyASCII, salt)

	plaintext, err := cryptoprim.Decrypt(key, nonce, ciphertextAndTag)
	if err != nil {
		cryptoprim.Zero(key)
		return nil, nil, err
	}
	defer cryptoprim.Zero(plaintext)

	var body canonicalBody
	if err := json.Unmarshal(plaintext, &body); err != nil {
		cryptoprim.Zero(key)
		return nil, nil, fmt.Errorf("%w: %v", holeerr.ErrCorruptDeck, err)
	}

	d, err := fromBody(body)
	if err != nil {
		cryptoprim.Zero(key)
		return nil, nil, err
	}
	return d, key, nil
}

// LoadWithDerivedKey decrypts an envelope using an already-derived AEAD
// key (typically one cached by a live session), skipping the Argon2id
// derivation entirely. Used for read-only operations against a resumed
// session (spec.md §4.E/§4.G) — the caller never needs to recompute or
// even hold the master password in this path.
func LoadWithDerivedKey(raw []byte, key []byte) (*deck.Deck, error) {
	_, nonce, ciphertextAndTag, err := splitEnvelope(raw)
	if err != nil {
		return nil, err
	}

	plaintext, err := cryptoprim.Decrypt(key, nonce, ciphertextAndTag)
	if err != nil {
		return nil, err
	}
	defer cryptoprim.Zero(plaintext)

	var body canonicalBody
	if err := json.Unmarshal(plaintext, &body); err != nil {
		return nil, fmt.Errorf("%w: %v", holeerr.ErrCorruptDeck, err)
	}

	return fromBody(body)
}

func splitEnvelope(raw []byte) (salt, nonce, ciphertextAndTag []byte, err error) {
	if len(raw) < headerLen {
		return nil, nil, nil, fmt.Errorf("%w: envelope too short", holeerr.ErrCorruptDeck)
	}
	if !bytes.Equal(raw[0:4], Magic[:]) {
		return nil, nil, nil, fmt.Errorf("%w: bad magic", holeerr.ErrCorruptDeck)
	}
	if raw[4] != Version {
		return nil, nil, nil, fmt.Errorf("%w: unsupported version %d", holeerr.ErrCorruptDeck, raw[4])
	}
	salt = raw[5 : 5+cryptoprim.SaltLen]
	nonce = raw[5+cryptoprim.SaltLen : headerLen]
	ciphertextAndTag = raw[headerLen:]
	return salt, nonce, ciphertextAndTag, nil
}

// Store encrypts d under a freshly sampled kdf_salt and aead_nonce and
// returns the resulting envelope bytes. A fresh salt and nonce are sampled
// on every call — never reused across writes of this or any other deck
// (spec.md §3 invariants).
func Store(d *deck.Deck, password, secretKeyASCII string) ([]byte, error) {
	envelope, key, err := StoreWithKey(d, password, secretKeyASCII)
	if err != nil {
		return nil, err
	}
	cryptoprim.Zero(key)
	return envelope, nil
}

// StoreWithKey behaves like [Store] but also returns the freshly derived
// AEAD key, letting the caller refresh a live session's cached key to
// match the envelope it just wrote without a second Argon2id pass.
func StoreWithKey(d *deck.Deck, password, secretKeyASCII string) (envelope []byte, key []byte, err error) {
	salt, err := cryptoprim.Random(cryptoprim.SaltLen)
	if err != nil {
		return nil, nil, err
	}
	nonce, err := cryptoprim.Random(cryptoprim.NonceLen)
	if err != nil {
		return nil, nil, err
	}

	key = cryptoprim.Derive(password, secretKeyASCII, salt)

	plaintext, err := json.Marshal(toBody(d))
	if err != nil {
		cryptoprim.Zero(key)
		return nil, nil, fmt.Errorf("%w: %v", holeerr.ErrCorruptDeck, err)
	}
	defer cryptoprim.Zero(plaintext)

	ciphertextAndTag, err := cryptoprim.Encrypt(key, nonce, plaintext)
	if err != nil {
		cryptoprim.Zero(key)
		return nil, nil, err
	}

	out := make([]byte, 0, headerLen+len(ciphertextAndTag))
	out = append(out, Magic[:]...)
	out = append(out, Version)
	out = append(out, salt...)
	out = append(out, nonce...)
	out = append(out, ciphertextAndTag...)
	return out, key, nil
}

func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(rfc3339, s)
}

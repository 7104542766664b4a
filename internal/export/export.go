// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package export implements the portable backup/restore envelope
// (spec.md §4.H): a single-file format independent of the deck file
// format, keyed by a standalone export password with no secret-key
// factor.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shabaraba/holecard/internal/cryptoprim"
	"github.com/shabaraba/holecard/internal/deck"
	"github.com/shabaraba/holecard/internal/holeerr"
)

// Magic is the 4-byte ASCII magic value at the start of every export file.
var Magic = [4]byte{'H', 'C', 'E', 'X'}

// Version is the only export envelope format version currently defined.
const Version byte = 1

const headerLen = len(Magic) + 1 + cryptoprim.SaltLen + cryptoprim.NonceLen

// canonicalBody mirrors deckcodec's body shape. Kept as a distinct type
// (rather than importing deckcodec's unexported one) since the export
// envelope's plaintext is documented independently in spec.md §4.H, even
// though it happens to share deckcodec's exact JSON shape today.
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

// Export encrypts d under exportPassword (no secret key) and returns the
// resulting export envelope bytes, with a freshly sampled salt and nonce.
func Export(d *deck.Deck, exportPassword string) ([]byte, error) {
	salt, err := cryptoprim.Random(cryptoprim.SaltLen)
	if err != nil {
		return nil, err
	}
	nonce, err := cryptoprim.Random(cryptoprim.NonceLen)
	if err != nil {
		return nil, err
	}

	key := cryptoprim.DeriveSimple(exportPassword, salt)
	defer cryptoprim.Zero(key)

	hands := make(map[string]canonicalHand, len(d.Hands))
	for name, h := range d.Hands {
		hands[name] = canonicalHand{
			CreatedAt: h.CreatedAt.UTC().Format(rfc3339),
			UpdatedAt: h.UpdatedAt.UTC().Format(rfc3339),
			Cards:     h.Cards,
		}
	}
	body := canonicalBody{Version: d.Version, Revision: d.Revision, Hands: hands}

	plaintext, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", holeerr.ErrCorruptDeck, err)
	}
	defer cryptoprim.Zero(plaintext)

	ciphertextAndTag, err := cryptoprim.Encrypt(key, nonce, plaintext)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, headerLen+len(ciphertextAndTag))
	out = append(out, Magic[:]...)
	out = append(out, Version)
	out = append(out, salt...)
	out = append(out, nonce...)
	out = append(out, ciphertextAndTag...)
	return out, nil
}

// Import decrypts an export envelope produced by [Export] and returns the
// [deck.Deck] it carries. Failure semantics mirror [deckcodec.Load]: bad
// magic/version or an unparsable body is [holeerr.ErrCorruptDeck]; a tag
// mismatch is [holeerr.ErrAuthenticationFailed].
func Import(raw []byte, exportPassword string) (*deck.Deck, error) {
	if len(raw) < headerLen {
		return nil, fmt.Errorf("%w: envelope too short", holeerr.ErrCorruptDeck)
	}
	if !bytes.Equal(raw[0:4], Magic[:]) {
		return nil, fmt.Errorf("%w: bad magic", holeerr.ErrCorruptDeck)
	}
	if raw[4] != Version {
		return nil, fmt.Errorf("%w: unsupported version %d", holeerr.ErrCorruptDeck, raw[4])
	}

	salt := raw[5 : 5+cryptoprim.SaltLen]
	nonce := raw[5+cryptoprim.SaltLen : headerLen]
	ciphertextAndTag := raw[headerLen:]

	key := cryptoprim.DeriveSimple(exportPassword, salt)
	defer cryptoprim.Zero(key)

	plaintext, err := cryptoprim.Decrypt(key, nonce, ciphertextAndTag)
	if err != nil {
		return nil, err
	}
	defer cryptoprim.Zero(plaintext)

	var body canonicalBody
	if err := json.Unmarshal(plaintext, &body); err != nil {
		return nil, fmt.Errorf("%w: %v", holeerr.ErrCorruptDeck, err)
	}

	hands := make(map[string]deck.Hand, len(body.Hands))
	for name, h := range body.Hands {
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

	return &deck.Deck{Version: body.Version, Revision: body.Revision, Hands: hands}, nil
}

func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(rfc3339, s)
}

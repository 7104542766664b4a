// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package cryptoprim implements the cryptographic primitives shared by
// every component that touches deck bytes: the two-factor key derivation
// function, AES-256-GCM authenticated encryption, CSPRNG sampling,
// constant-time comparison, and best-effort in-memory zeroisation.
//
// This package owns every algorithm choice in the application. It is
// deliberately free of file I/O, credential-store access, and envelope
// framing — those concerns belong to [holecard/internal/deckcodec],
// [holecard/internal/storage], and [holecard/internal/credstore].
package cryptoprim

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"

	"github.com/shabaraba/holecard/internal/holeerr"
)

const (
	// KeyLen is the size in bytes of a derived AEAD key (256 bits).
	KeyLen = 32

	// SaltLen is the size in bytes of kdf_salt.
	SaltLen = 16

	// NonceLen is the size in bytes of aead_nonce (AES-GCM standard nonce).
	NonceLen = 12

	// TagLen is the size in bytes of the AES-GCM authentication tag.
	TagLen = 16

	// argonTime is the Argon2id iteration count fixed for format v1.
	argonTime = 2

	// argonMemoryKiB is the Argon2id memory parameter in KiB (19 MiB).
	argonMemoryKiB = 19 * 1024

	// argonThreads is the Argon2id parallelism parameter fixed for format v1.
	argonThreads = 1

	// secretKeySeparator is the literal byte placed between the master
	// password and the secret key in the KDF input transcript. It is part
	// of the on-disk format and MUST NOT change.
	secretKeySeparator = '|'
)

// Derive computes the 32-byte AEAD key from a master password and a
// machine-bound secret key using Argon2id with the fixed v1 parameters
// (memory = 19 MiB, time = 2, parallelism = 1). The KDF transcript is
// password || 0x7C || secretKeyASCII, matching the on-disk format exactly.
func Derive(password string, secretKeyASCII string, salt []byte) []byte {
	transcript := make([]byte, 0, len(password)+1+len(secretKeyASCII))
	transcript = append(transcript, password...)
	transcript = append(transcript, secretKeySeparator)
	transcript = append(transcript, secretKeyASCII...)

	key := argon2.IDKey(transcript, salt, argonTime, argonMemoryKiB, argonThreads, KeyLen)
	Zero(transcript)
	return key
}

// DeriveSimple computes a 32-byte AEAD key from a single password with no
// secret-key factor, used by the export envelope (spec.md §4.H) whose KDF
// input is the export password alone.
func DeriveSimple(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, argonTime, argonMemoryKiB, argonThreads, KeyLen)
}

// Encrypt seals plaintext under key using AES-256-GCM with the given
// 12-byte nonce. The returned slice is ciphertext || tag, exactly the
// ciphertext_and_tag field of the deck and export envelopes. No associated
// data is bound, per spec.md §4.A and the v1 open question in §9.
func Encrypt(key, nonce, plaintext []byte) ([]byte, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != NonceLen {
		return nil, fmt.Errorf("%w: nonce must be %d bytes", holeerr.ErrInvalidInput, NonceLen)
	}
	return aead.Seal(nil, nonce, plaintext, nil), nil
}

// Decrypt opens a ciphertext_and_tag blob produced by [Encrypt]. A tag
// mismatch — wrong key or tampered bytes — surfaces as
// [holeerr.ErrAuthenticationFailed], never as a lower-level cipher error,
// so the caller cannot distinguish the two root causes (spec.md §7).
func Decrypt(key, nonce, ciphertextAndTag []byte) ([]byte, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != NonceLen {
		return nil, fmt.Errorf("%w: nonce must be %d bytes", holeerr.ErrInvalidInput, NonceLen)
	}
	plaintext, err := aead.Open(nil, nonce, ciphertextAndTag, nil)
	if err != nil {
		return nil, holeerr.ErrAuthenticationFailed
	}
	return plaintext, nil
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	if len(key) != KeyLen {
		return nil, fmt.Errorf("%w: key must be %d bytes", holeerr.ErrInvalidInput, KeyLen)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", holeerr.ErrInvalidInput, err)
	}
	return cipher.NewGCM(block)
}

// Random returns n cryptographically random bytes read from the platform
// CSPRNG. Every salt, nonce, secret key, and session identifier in the
// application is sampled through this function.
func Random(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return nil, fmt.Errorf("%w: %v", holeerr.ErrIO, err)
	}
	return buf, nil
}

// ConstantTimeEqual reports whether a and b are equal using a
// constant-time comparison, for the rare case a secret value (a session
// identifier, never a password) must be compared directly rather than
// verified through an AEAD tag.
func ConstantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}

// Zero overwrites buf with zero bytes in place. It is a best-effort
// mitigation only — the Go runtime may have copied the underlying bytes
// during garbage collection or escape analysis before Zero runs — but
// every transient buffer holding a password, a derived key, or a decrypted
// card value must still call it on every exit path, including errors.
func Zero(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
}

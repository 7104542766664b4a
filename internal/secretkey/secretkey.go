// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package secretkey generates and presents the 160-bit machine-bound
// secret key that is the second factor of Holecard's key derivation
// (spec.md §3/§6). The secret key is generated once on init, shown to the
// user exactly once, and never stored anywhere but the OS credential
// store — this package only handles its byte generation and its
// human-facing text encoding, never its persistence.
package secretkey

import (
	"fmt"
	"strings"

	"github.com/shabaraba/holecard/internal/cryptoprim"
	"github.com/shabaraba/holecard/internal/holeerr"
)

// Len is the number of random bytes in a secret key (160 bits).
const Len = 20

// prefix is prepended to every presented secret key so a user can
// recognise a Holecard secret key by sight.
const prefix = "HCSK"

// crockford is the Crockford base-32 alphabet: no I, L, O, or U, to avoid
// visual confusion and accidental profanity.
const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// groupCount is the number of dash-separated groups following the prefix
// (spec.md §6). A 20-byte key encodes to 32 Crockford base-32 characters,
// so groups are 6 characters each except the last, which is 2.
const groupCount = 6

// Generate samples a fresh 20-byte secret key from the platform CSPRNG.
func Generate() ([]byte, error) {
	return cryptoprim.Random(Len)
}

// Format renders raw as its Crockford base-32, upper-case, dash-grouped
// presentation form: a fixed prefix followed by groupCount dash-separated
// groups, sized to split the encoded text as evenly as groupCount
// allows. The grouping is cosmetic but the encoding must round-trip
// exactly through [Parse].
func Format(raw []byte) string {
	encoded := encodeCrockford(raw)
	groupSize := (len(encoded) + groupCount - 1) / groupCount

	var b strings.Builder
	b.WriteString(prefix)
	for i := 0; i < len(encoded); i += groupSize {
		end := i + groupSize
		if end > len(encoded) {
			end = len(encoded)
		}
		b.WriteByte('-')
		b.WriteString(encoded[i:end])
	}
	return b.String()
}

// Parse recovers the raw secret-key bytes from a string produced by
// [Format] (or any equivalent prefix + dash-grouped Crockford base-32
// text — the grouping is not significant to Parse, only the characters
// between dashes are). Returns [holeerr.ErrInvalidInput] if the prefix is
// missing or the remaining text is not valid Crockford base-32 of the
// expected length.
func Parse(s string) ([]byte, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if !strings.HasPrefix(s, prefix) {
		return nil, fmt.Errorf("%w: missing secret key prefix %q", holeerr.ErrInvalidInput, prefix)
	}
	s = strings.TrimPrefix(s, prefix)
	s = strings.ReplaceAll(s, "-", "")

	raw, err := decodeCrockford(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", holeerr.ErrInvalidInput, err)
	}
	if len(raw) != Len {
		return nil, fmt.Errorf("%w: secret key must decode to %d bytes, got %d", holeerr.ErrInvalidInput, Len, len(raw))
	}
	return raw, nil
}

// ASCII returns the ASCII-safe representation of raw used as the
// secret-key factor in the KDF transcript (spec.md §4.A): the same
// Crockford base-32 text produced by [Format], without the cosmetic
// prefix or dashes, so the transcript is independent of presentation
// choices.
func ASCII(raw []byte) string {
	return encodeCrockford(raw)
}

func encodeCrockford(raw []byte) string {
	var bits uint64
	var bitCount uint
	var out strings.Builder

	for _, b := range raw {
		bits = bits<<8 | uint64(b)
		bitCount += 8
		for bitCount >= 5 {
			bitCount -= 5
			idx := (bits >> bitCount) & 0x1F
			out.WriteByte(crockford[idx])
		}
	}
	if bitCount > 0 {
		idx := (bits << (5 - bitCount)) & 0x1F
		out.WriteByte(crockford[idx])
	}
	return out.String()
}

func decodeCrockford(s string) ([]byte, error) {
	var bits uint64
	var bitCount uint
	out := make([]byte, 0, len(s)*5/8+1)

	for _, c := range s {
		idx := strings.IndexRune(crockford, normalizeCrockfordRune(c))
		if idx < 0 {
			return nil, fmt.Errorf("invalid Crockford base-32 character %q", c)
		}
		bits = bits<<5 | uint64(idx)
		bitCount += 5
		if bitCount >= 8 {
			bitCount -= 8
			out = append(out, byte(bits>>bitCount))
		}
	}
	return out, nil
}

// normalizeCrockfordRune applies Crockford's documented ambiguous-character
// substitutions (I/L -> 1, O -> 0) so that a human-transcribed key still
// parses.
func normalizeCrockfordRune(c rune) rune {
	switch c {
	case 'I', 'L':
		return '1'
	case 'O':
		return '0'
	default:
		return c
	}
}

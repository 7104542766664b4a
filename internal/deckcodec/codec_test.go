package deckcodec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shabaraba/holecard/internal/deck"
	"github.com/shabaraba/holecard/internal/holeerr"
)

func sampleDeck() *deck.Deck {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	d := deck.New()
	d.SetCard("github", "password", "p@ss", now)
	d.SetCard("github", "username", "octocat", now)
	d.SetCard(deck.TOTPHandName, "aws", "JBSWY3DPEHPK3PXP", now)
	return d
}

func TestRoundTrip(t *testing.T) {
	d := sampleDeck()

	raw, err := Store(d, "hunter2", "SECRETKEY")
	require.NoError(t, err)

	loaded, err := Load(raw, "hunter2", "SECRETKEY")
	require.NoError(t, err)

	require.Equal(t, d.Hands["github"].Cards, loaded.Hands["github"].Cards)
	require.Equal(t, d.Hands[deck.TOTPHandName].Cards, loaded.Hands[deck.TOTPHandName].Cards)
	require.Equal(t, d.Version, loaded.Version)
}

func TestEnvelopeHeader(t *testing.T) {
	raw, err := Store(sampleDeck(), "hunter2", "SECRETKEY")
	require.NoError(t, err)

	require.Equal(t, Magic[:], raw[0:4])
	require.Equal(t, Version, raw[4])
	require.Greater(t, len(raw), headerLen)
}

func TestLoad_FlippedBitFailsAuthentication(t *testing.T) {
	raw, err := Store(sampleDeck(), "hunter2", "SECRETKEY")
	require.NoError(t, err)

	raw[len(raw)-1] ^= 0xFF

	_, err = Load(raw, "hunter2", "SECRETKEY")
	require.ErrorIs(t, err, holeerr.ErrAuthenticationFailed)
}

func TestLoad_BadMagicIsCorrupt(t *testing.T) {
	raw, err := Store(sampleDeck(), "hunter2", "SECRETKEY")
	require.NoError(t, err)

	raw[0] = 'X'

	_, err = Load(raw, "hunter2", "SECRETKEY")
	require.ErrorIs(t, err, holeerr.ErrCorruptDeck)
}

func TestLoad_BadVersionIsCorrupt(t *testing.T) {
	raw, err := Store(sampleDeck(), "hunter2", "SECRETKEY")
	require.NoError(t, err)

	raw[4] = 0x02

	_, err = Load(raw, "hunter2", "SECRETKEY")
	require.ErrorIs(t, err, holeerr.ErrCorruptDeck)
}

func TestLoad_WrongPasswordFailsAuthentication(t *testing.T) {
	raw, err := Store(sampleDeck(), "hunter2", "SECRETKEY")
	require.NoError(t, err)

	_, err = Load(raw, "wrong-password", "SECRETKEY")
	require.ErrorIs(t, err, holeerr.ErrAuthenticationFailed)
}

func TestLoad_WrongSecretKeyFailsAuthentication(t *testing.T) {
	raw, err := Store(sampleDeck(), "hunter2", "SECRETKEY")
	require.NoError(t, err)

	_, err = Load(raw, "hunter2", "OTHER-SECRET")
	require.ErrorIs(t, err, holeerr.ErrAuthenticationFailed)
}

func TestStore_FreshnessAcross1000Writes(t *testing.T) {
	d := sampleDeck()
	salts := make(map[string]struct{}, 1000)
	nonces := make(map[string]struct{}, 1000)

	for i := 0; i < 1000; i++ {
		raw, err := Store(d, "hunter2", "SECRETKEY")
		require.NoError(t, err)

		salt := string(raw[5 : 5+16])
		nonce := string(raw[21:33])
		salts[salt] = struct{}{}
		nonces[nonce] = struct{}{}
	}

	require.Len(t, salts, 1000)
	require.Len(t, nonces, 1000)
}

func TestLoad_EmptyDeckRoundTrips(t *testing.T) {
	d := deck.New()
	raw, err := Store(d, "pw", "sk")
	require.NoError(t, err)

	loaded, err := Load(raw, "pw", "sk")
	require.NoError(t, err)
	require.Empty(t, loaded.Hands)
}

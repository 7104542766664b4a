package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shabaraba/holecard/internal/deck"
	"github.com/shabaraba/holecard/internal/holeerr"
)

func sampleDeck(now time.Time) *deck.Deck {
	d := deck.New()
	d.PutHand("github", map[string]string{"username": "alice", "password": "p@ss"}, now)
	d.PutHand(deck.TOTPHandName, map[string]string{"github": "JBSWY3DPEHPK3PXP"}, now)
	return d
}

func TestExportImport_RoundTrip(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	d := sampleDeck(now)

	raw, err := Export(d, "ex-pw")
	require.NoError(t, err)

	imported, err := Import(raw, "ex-pw")
	require.NoError(t, err)

	require.ElementsMatch(t, d.HandNames(), imported.HandNames())
	gh, err := imported.GetHand("github")
	require.NoError(t, err)
	require.Equal(t, "alice", gh.Cards["username"])
	require.Equal(t, "p@ss", gh.Cards["password"])
}

func TestImport_WrongPasswordFailsAuthentication(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	raw, err := Export(sampleDeck(now), "ex-pw")
	require.NoError(t, err)

	_, err = Import(raw, "wrong-pw")
	require.ErrorIs(t, err, holeerr.ErrAuthenticationFailed)
}

func TestImport_BadMagicIsCorruptDeck(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	raw, err := Export(sampleDeck(now), "ex-pw")
	require.NoError(t, err)

	raw[0] = 'X'
	_, err = Import(raw, "ex-pw")
	require.ErrorIs(t, err, holeerr.ErrCorruptDeck)
}

func TestExport_FreshSaltAndNonceEachCall(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	d := sampleDeck(now)

	a, err := Export(d, "ex-pw")
	require.NoError(t, err)
	b, err := Export(d, "ex-pw")
	require.NoError(t, err)

	require.NotEqual(t, a[5:5+16], b[5:5+16], "kdf_salt must differ across exports")
	require.NotEqual(t, a[21:33], b[21:33], "aead_nonce must differ across exports")
}

func TestImportThenMerge_IntoEmptyDeckYieldsOriginal(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	original := sampleDeck(now)

	raw, err := Export(original, "ex-pw")
	require.NoError(t, err)

	imported, err := Import(raw, "ex-pw")
	require.NoError(t, err)

	fresh := deck.New()
	fresh.Merge(imported, false, now)

	require.ElementsMatch(t, original.HandNames(), fresh.HandNames())
}

func TestImportThenMerge_SkipPolicyPreservesExistingCard(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	original := sampleDeck(now)

	raw, err := Export(original, "ex-pw")
	require.NoError(t, err)
	imported, err := Import(raw, "ex-pw")
	require.NoError(t, err)

	target := deck.New()
	target.PutHand("github", map[string]string{"username": "bob"}, now)

	target.Merge(imported, false, now)

	gh, err := target.GetHand("github")
	require.NoError(t, err)
	require.Equal(t, "bob", gh.Cards["username"], "skip policy must not overwrite an existing card")
}

func TestImportThenMerge_OverwritePolicyReplacesExistingCard(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	original := sampleDeck(now)

	raw, err := Export(original, "ex-pw")
	require.NoError(t, err)
	imported, err := Import(raw, "ex-pw")
	require.NoError(t, err)

	target := deck.New()
	target.PutHand("github", map[string]string{"username": "bob"}, now)

	target.Merge(imported, true, now)

	gh, err := target.GetHand("github")
	require.NoError(t, err)
	require.Equal(t, "alice", gh.Cards["username"], "overwrite policy must replace an existing card")
}

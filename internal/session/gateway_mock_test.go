package session

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/shabaraba/holecard/internal/credstore"
	"github.com/shabaraba/holecard/internal/credstore/credstoremock"
	"github.com/shabaraba/holecard/internal/holeerr"
	"github.com/shabaraba/holecard/internal/storage"
)

// TestTryResume_KeyringDeniedDegradesToAbsent exercises the credstore.Gateway
// mock directly: a sidecar is present and well-formed, but the credential
// store refuses the read (e.g. the user denied the OS keychain prompt).
// spec.md §7 requires this to degrade to "session absent" rather than
// propagate the error, so the caller falls back to re-prompting.
func TestTryResume_KeyringDeniedDegradesToAbsent(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := credstoremock.NewMockGateway(ctrl)

	dir := t.TempDir()
	sidecarPath := filepath.Join(dir, "work.session.json")
	m := New(gw, func(string) string { return sidecarPath }, time.Hour, nil)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, storage.Write(sidecarPath, []byte(`{
		"session_id": "deadbeef",
		"created_at": "2026-01-01T00:00:00Z",
		"last_access_at": "2026-01-01T00:00:00Z",
		"expires_at": "2026-01-01T01:00:00Z",
		"deck_name": "work"
	}`)))

	gw.EXPECT().
		Get(credstore.SessionKeyAccount("work")).
		Return(nil, holeerr.ErrKeyringDenied)

	key, ok, err := m.TryResume("work", now.Add(time.Minute))
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, key)
}

// TestLock_DeletesCredentialStoreEntry confirms Lock calls through to the
// gateway's Delete exactly once with the session-key account.
func TestLock_DeletesCredentialStoreEntry(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := credstoremock.NewMockGateway(ctrl)

	gw.EXPECT().
		Delete(credstore.SessionKeyAccount("work")).
		Return(nil)

	m := New(gw, func(string) string { return filepath.Join(t.TempDir(), "absent.json") }, time.Hour, nil)
	require.NoError(t, m.Lock("work"))
}

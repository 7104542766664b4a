package registry

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shabaraba/holecard/internal/holeerr"
)

type fakeLocker struct {
	locked []string
}

func (f *fakeLocker) Lock(deckName string) error {
	f.locked = append(f.locked, deckName)
	return nil
}

func newTestRegistry(t *testing.T) (*Registry, *fakeLocker) {
	t.Helper()
	locker := &fakeLocker{}
	reg := New(filepath.Join(t.TempDir(), "registry.yaml"), locker, nil)
	return reg, locker
}

func TestAdd_FirstDeckBecomesActive(t *testing.T) {
	reg, _ := newTestRegistry(t)

	require.NoError(t, reg.Add("work", "/tmp/work.enc"))

	name, path, err := reg.GetActive()
	require.NoError(t, err)
	require.Equal(t, "work", name)
	require.Equal(t, "/tmp/work.enc", path)
}

func TestAdd_AssignsDistinctEntryIDs(t *testing.T) {
	reg, _ := newTestRegistry(t)

	require.NoError(t, reg.Add("work", "/tmp/work.enc"))
	require.NoError(t, reg.Add("personal", "/tmp/personal.enc"))

	entries, err := reg.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.NotEmpty(t, entries[0].ID)
	require.NotEmpty(t, entries[1].ID)
	require.NotEqual(t, entries[0].ID, entries[1].ID)
}

func TestAdd_SecondDeckDoesNotChangeActive(t *testing.T) {
	reg, _ := newTestRegistry(t)

	require.NoError(t, reg.Add("work", "/tmp/work.enc"))
	require.NoError(t, reg.Add("personal", "/tmp/personal.enc"))

	name, _, err := reg.GetActive()
	require.NoError(t, err)
	require.Equal(t, "work", name)
}

func TestAdd_DuplicateNameRejected(t *testing.T) {
	reg, _ := newTestRegistry(t)

	require.NoError(t, reg.Add("work", "/tmp/work.enc"))
	err := reg.Add("work", "/tmp/other.enc")
	require.Error(t, err)
}

func TestSetActive_InvalidatesPreviousSession(t *testing.T) {
	reg, locker := newTestRegistry(t)

	require.NoError(t, reg.Add("work", "/tmp/work.enc"))
	require.NoError(t, reg.Add("personal", "/tmp/personal.enc"))

	require.NoError(t, reg.SetActive("personal"))

	require.Contains(t, locker.locked, "work")

	name, _, err := reg.GetActive()
	require.NoError(t, err)
	require.Equal(t, "personal", name)
}

func TestSetActive_UnknownDeckIsNotFound(t *testing.T) {
	reg, _ := newTestRegistry(t)

	err := reg.SetActive("ghost")
	require.ErrorIs(t, err, holeerr.ErrNotFound)
}

func TestRemove_IsNonDestructiveToRegistryNeighbors(t *testing.T) {
	reg, locker := newTestRegistry(t)

	require.NoError(t, reg.Add("work", "/tmp/work.enc"))
	require.NoError(t, reg.Add("personal", "/tmp/personal.enc"))

	require.NoError(t, reg.Remove("work"))

	require.Contains(t, locker.locked, "work")

	list, err := reg.List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "personal", list[0].Name)

	_, _, err = reg.GetActive()
	require.ErrorIs(t, err, holeerr.ErrNotFound, "removing the active deck clears the active selection")
}

func TestList_ReflectsActiveFlag(t *testing.T) {
	reg, _ := newTestRegistry(t)

	require.NoError(t, reg.Add("work", "/tmp/work.enc"))
	require.NoError(t, reg.Add("personal", "/tmp/personal.enc"))
	require.NoError(t, reg.SetActive("personal"))

	list, err := reg.List()
	require.NoError(t, err)

	byName := make(map[string]Entry, len(list))
	for _, e := range list {
		byName[e.Name] = e
	}
	require.True(t, byName["personal"].Active)
	require.False(t, byName["work"].Active)
}

func TestTouch_UpdatesLastAccess(t *testing.T) {
	reg, _ := newTestRegistry(t)
	require.NoError(t, reg.Add("work", "/tmp/work.enc"))

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, reg.Touch("work", now))

	list, err := reg.List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.WithinDuration(t, now, list[0].LastAccessAt, time.Second)
}

func TestGetActive_EmptyRegistryIsNotFound(t *testing.T) {
	reg, _ := newTestRegistry(t)

	_, _, err := reg.GetActive()
	require.ErrorIs(t, err, holeerr.ErrNotFound)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package storage implements atomic read/modify/write access to files on
// the local filesystem: deck envelopes, the deck registry, config, and
// session sidecars all go through here. It owns the temp-file-plus-rename
// discipline, the best-effort exclusive lock held for the duration of each
// [Write], and the world/group-readable permission warning of spec.md §4.C.
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/gofrs/flock"

	"github.com/shabaraba/holecard/internal/cryptoprim"
	"github.com/shabaraba/holecard/internal/holeerr"
)

// filePerm is the mode new deck, registry, config, and sidecar files are
// created with. On platforms that honour POSIX permissions this keeps the
// file unreadable by other users; on platforms that don't (Windows),
// [PermissionWarning] is simply never triggered.
const filePerm fs.FileMode = 0o600

// Read returns the full contents of path. A missing file is reported as
// [holeerr.ErrDeckNotInitialized] rather than a generic I/O error, since
// every core caller treats "file absent" as a distinct, expected outcome.
func Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, holeerr.ErrDeckNotInitialized
		}
		return nil, fmt.Errorf("%w: %v", holeerr.ErrIO, err)
	}
	return data, nil
}

// Exists reports whether a regular file exists at path.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("%w: %v", holeerr.ErrIO, err)
}

// PermissionWarning reports a human-readable warning if path is
// world- or group-readable on a POSIX filesystem, or "" if permissions are
// fine or cannot be determined (e.g. on Windows). The caller — never this
// package — decides what to do with a non-empty warning; spec.md §4.C
// requires proceeding regardless.
func PermissionWarning(path string) string {
	if runtime.GOOS == "windows" {
		return ""
	}
	info, err := os.Stat(path)
	if err != nil {
		return ""
	}
	if info.Mode().Perm()&0o044 != 0 {
		return fmt.Sprintf("deck file %s is group- or world-readable (mode %o)", path, info.Mode().Perm())
	}
	return ""
}

// Write atomically replaces the contents of path with data: it creates a
// sibling temp file with a random suffix at 0600, writes data, fsyncs, and
// renames it over path. The write is guarded by a best-effort exclusive
// file lock that is taken and released inside this call; a caller's
// preceding [Read] of the same path is not covered by the lock. If another
// process already holds the lock, Write fails fast with
// [holeerr.ErrDeckBusy] rather than blocking. On any failure, the temp file
// is removed and path is left untouched.
func Write(path string, data []byte) error {
	lock, err := tryLock(path)
	if err != nil {
		return err
	}
	defer lock.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("%w: %v", holeerr.ErrIO, err)
	}

	suffix, err := cryptoprim.Random(8)
	if err != nil {
		return err
	}
	tmpPath := fmt.Sprintf("%s.tmp.%x", path, suffix)

	if err := writeAndSync(tmpPath, data); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", holeerr.ErrIO, err)
	}

	return nil
}

func writeAndSync(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm)
	if err != nil {
		return fmt.Errorf("%w: %v", holeerr.ErrIO, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("%w: %v", holeerr.ErrIO, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("%w: %v", holeerr.ErrIO, err)
	}
	return nil
}

// lockPath returns the sidecar lock file path used to guard path's
// read-modify-write window. A dedicated lock file (rather than locking
// path itself) means the lock survives the temp-file-plus-rename dance
// that replaces path's inode on every write.
func lockPath(path string) string {
	return path + ".lock"
}

func tryLock(path string) (*flock.Flock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("%w: %v", holeerr.ErrIO, err)
	}

	lock := flock.New(lockPath(path))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", holeerr.ErrIO, err)
	}
	if !locked {
		return nil, holeerr.ErrDeckBusy
	}
	return lock, nil
}

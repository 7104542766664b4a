// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package registry owns the named directory of deck files and which one
// is active (spec.md §4.F). It persists its state as YAML alongside the
// application config, and is the only component permitted to read or
// write that file.
package registry

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/shabaraba/holecard/internal/holeerr"
	"github.com/shabaraba/holecard/internal/logger"
	"github.com/shabaraba/holecard/internal/storage"
)

// Entry is one named deck known to the registry.
type Entry struct {
	ID           string
	Name         string
	Path         string
	LastAccessAt time.Time
	Active       bool
}

// fileEntry is the on-disk shape of a single registry entry (spec.md §6:
// "decks" map whose values carry "path" and "last_access_at"). ID is a
// supplemental stable identifier, independent of the user-chosen name
// (map key), surfaced so a future rename operation could preserve it.
type fileEntry struct {
	ID           string `yaml:"id"`
	Path         string `yaml:"path"`
	LastAccessAt string `yaml:"last_access_at"`
}

// file is the on-disk shape of the whole registry file.
type file struct {
	Active string               `yaml:"active"`
	Decks  map[string]fileEntry `yaml:"decks"`
}

const rfc3339 = time.RFC3339Nano

// locker invalidates a deck's cached session. Satisfied by
// [holecard/internal/session.Manager]; declared locally so this package
// does not need to import the session package's full surface.
type locker interface {
	Lock(deckName string) error
}

// Registry manages the deck registry persisted at path.
type Registry struct {
	path    string
	session locker
	log     *logger.Logger
}

// New returns a [Registry] backed by the YAML file at path. session is
// used to invalidate the previously active deck's cached session
// whenever [Registry.SetActive] changes the active deck. log defaults to
// [logger.Nop] if nil.
func New(path string, session locker, log *logger.Logger) *Registry {
	if log == nil {
		log = logger.Nop()
	}
	return &Registry{path: path, session: session, log: log}
}

func (r *Registry) load() (file, error) {
	exists, err := storage.Exists(r.path)
	if err != nil {
		return file{}, err
	}
	if !exists {
		return file{Decks: make(map[string]fileEntry)}, nil
	}

	raw, err := storage.Read(r.path)
	if err != nil {
		return file{}, err
	}

	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return file{}, fmt.Errorf("%w: %v", holeerr.ErrCorruptDeck, err)
	}
	if f.Decks == nil {
		f.Decks = make(map[string]fileEntry)
	}
	return f, nil
}

func (r *Registry) save(f file) error {
	raw, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("%w: %v", holeerr.ErrInvalidInput, err)
	}
	return storage.Write(r.path, raw)
}

// Add registers a new deck name pointing at path. It is an error to add
// a name that already exists.
func (r *Registry) Add(name, path string) error {
	if name == "" || path == "" {
		return fmt.Errorf("%w: deck name and path must be non-empty", holeerr.ErrInvalidInput)
	}
	f, err := r.load()
	if err != nil {
		return err
	}
	if _, exists := f.Decks[name]; exists {
		return fmt.Errorf("%w: deck %q already registered", holeerr.ErrInvalidInput, name)
	}
	f.Decks[name] = fileEntry{ID: newEntryID(), Path: path, LastAccessAt: time.Time{}.Format(rfc3339)}
	if f.Active == "" {
		f.Active = name
	}
	return r.save(f)
}

// Remove deletes name's registry entry only — the deck file and its
// credential-store entries are left untouched (spec.md §4.F: removal
// must be non-destructive). Removing the active deck clears the active
// selection and locks its session.
func (r *Registry) Remove(name string) error {
	f, err := r.load()
	if err != nil {
		return err
	}
	if _, exists := f.Decks[name]; !exists {
		return fmt.Errorf("%w: deck %q", holeerr.ErrNotFound, name)
	}
	delete(f.Decks, name)
	if f.Active == name {
		f.Active = ""
		if err := r.session.Lock(name); err != nil {
			return err
		}
	}
	return r.save(f)
}

// List returns every registered deck, in no particular order.
func (r *Registry) List() ([]Entry, error) {
	f, err := r.load()
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(f.Decks))
	for name, fe := range f.Decks {
		lastAccess, _ := time.Parse(rfc3339, fe.LastAccessAt)
		out = append(out, Entry{
			ID:           fe.ID,
			Name:         name,
			Path:         fe.Path,
			LastAccessAt: lastAccess,
			Active:       name == f.Active,
		})
	}
	return out, nil
}

// SetActive marks name as the active deck, invalidating the previously
// active deck's cached session (spec.md §4.F). It is cheap: one registry
// read-modify-write plus one session lock call.
func (r *Registry) SetActive(name string) error {
	f, err := r.load()
	if err != nil {
		return err
	}
	if _, exists := f.Decks[name]; !exists {
		return fmt.Errorf("%w: deck %q", holeerr.ErrNotFound, name)
	}

	previous := f.Active
	if previous != "" && previous != name {
		if err := r.session.Lock(previous); err != nil {
			return err
		}
	}

	f.Active = name
	return r.save(f)
}

// GetActive returns the name and path of the currently active deck, or
// [holeerr.ErrNotFound] if no deck is active.
func (r *Registry) GetActive() (name, path string, err error) {
	f, err := r.load()
	if err != nil {
		return "", "", err
	}
	if f.Active == "" {
		return "", "", fmt.Errorf("%w: no active deck", holeerr.ErrNotFound)
	}
	fe, exists := f.Decks[f.Active]
	if !exists {
		return "", "", fmt.Errorf("%w: active deck %q missing from registry", holeerr.ErrCorruptDeck, f.Active)
	}
	return f.Active, fe.Path, nil
}

// Touch updates name's last-access timestamp, called by the deck context
// after any successful operation against it.
func (r *Registry) Touch(name string, now time.Time) error {
	f, err := r.load()
	if err != nil {
		return err
	}
	fe, exists := f.Decks[name]
	if !exists {
		return fmt.Errorf("%w: deck %q", holeerr.ErrNotFound, name)
	}
	fe.LastAccessAt = now.UTC().Format(rfc3339)
	f.Decks[name] = fe
	return r.save(f)
}

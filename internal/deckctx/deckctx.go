// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package deckctx is the user-facing façade of Holecard: it binds the
// registry, the session manager, the credential-store gateway, the
// codec, and storage into the operations described in spec.md §4.G, and
// is the only component external collaborators (the CLI, scripts) call
// into directly.
package deckctx

import (
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"github.com/shabaraba/holecard/internal/credstore"
	"github.com/shabaraba/holecard/internal/cryptoprim"
	"github.com/shabaraba/holecard/internal/deck"
	"github.com/shabaraba/holecard/internal/deckcodec"
	"github.com/shabaraba/holecard/internal/export"
	"github.com/shabaraba/holecard/internal/holeerr"
	"github.com/shabaraba/holecard/internal/logger"
	"github.com/shabaraba/holecard/internal/registry"
	"github.com/shabaraba/holecard/internal/secretkey"
	"github.com/shabaraba/holecard/internal/session"
	"github.com/shabaraba/holecard/internal/storage"
)

// PasswordPrompter is the external collaborator asked for the master
// password whenever no live session covers the requested deck. It is the
// only hook into interactive I/O the core requires.
type PasswordPrompter interface {
	PromptMasterPassword(deckName string) (string, error)
}

// Status is the result of [Context.Status]: the active deck's name and
// whether its session is currently live.
type Status struct {
	ActiveDeck string
	Locked     bool
	ExpiresAt  time.Time
}

// Context is the user-facing façade (spec.md §4.G). It holds no deck
// plaintext between calls — every operation resolves the active deck,
// obtains a key, does its work, and zeroises before returning.
type Context struct {
	registry *registry.Registry
	session  *session.Manager
	cred     credstore.Gateway
	prompter PasswordPrompter
	now      func() time.Time
	log      *logger.Logger

	mu        sync.Mutex
	passwords map[string]string // deckName -> master password, process-lifetime cache only
}

// New returns a deck context façade. now defaults to time.Now if nil,
// overridable so tests can control session timing deterministically. log
// defaults to [logger.Nop] if nil.
func New(reg *registry.Registry, sess *session.Manager, cred credstore.Gateway, prompter PasswordPrompter, now func() time.Time, log *logger.Logger) *Context {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Context{
		registry:  reg,
		session:   sess,
		cred:      cred,
		prompter:  prompter,
		now:       now,
		log:       log,
		passwords: make(map[string]string),
	}
}

// Init creates a new deck at path under name: it generates a fresh
// secret key, stores it in the credential store, and writes an empty
// deck (with a totp hand already present) encrypted under (password,
// secret key). It fails with [holeerr.ErrAlreadyInitialized] if a deck
// file already exists at path and force is false.
func (c *Context) Init(name, path, password string, force bool) (secretKeyPresentation string, err error) {
	if password == "" {
		return "", fmt.Errorf("%w: master password must not be empty", holeerr.ErrInvalidInput)
	}
	exists, err := storage.Exists(path)
	if err != nil {
		return "", err
	}
	if exists && !force {
		return "", holeerr.ErrAlreadyInitialized
	}

	rawSecret, err := secretkey.Generate()
	if err != nil {
		return "", err
	}
	defer cryptoprim.Zero(rawSecret)

	if err := c.cred.Set(credstore.SecretKeyAccount(name), []byte(base64.StdEncoding.EncodeToString(rawSecret))); err != nil {
		return "", err
	}

	now := c.now()
	d := deck.New()
	d.PutHand(deck.TOTPHandName, map[string]string{}, now)

	ascii := secretkey.ASCII(rawSecret)
	envelope, err := deckcodec.Store(d, password, ascii)
	if err != nil {
		return "", err
	}
	if err := storage.Write(path, envelope); err != nil {
		return "", err
	}
	if exists {
		if err := c.session.Rotate(name); err != nil {
			return "", err
		}
	}

	if err := c.registry.Add(name, path); err != nil {
		return "", err
	}

	c.mu.Lock()
	c.passwords[name] = password
	c.mu.Unlock()

	return secretkey.Format(rawSecret), nil
}

// ChangeMasterPassword re-encrypts the active deck under a new master
// password, verifying old first, then rotates the session so every
// subsequent access re-unlocks with the new password.
func (c *Context) ChangeMasterPassword(old, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: new master password must not be empty", holeerr.ErrInvalidInput)
	}
	name, path, err := c.registry.GetActive()
	if err != nil {
		return err
	}

	rawSecret, err := c.secretKeyFor(name)
	if err != nil {
		return err
	}
	defer cryptoprim.Zero(rawSecret)
	ascii := secretkey.ASCII(rawSecret)

	raw, err := storage.Read(path)
	if err != nil {
		return err
	}
	d, oldKey, err := deckcodec.LoadWithKey(raw, old, ascii)
	if err != nil {
		return err
	}
	cryptoprim.Zero(oldKey)

	envelope, newKey, err := deckcodec.StoreWithKey(d, newPassword, ascii)
	if err != nil {
		return err
	}
	cryptoprim.Zero(newKey)

	if err := storage.Write(path, envelope); err != nil {
		return err
	}

	if err := c.session.Rotate(name); err != nil {
		return err
	}
	c.mu.Lock()
	delete(c.passwords, name)
	c.mu.Unlock()

	return nil
}

// Unlock verifies password against the active deck immediately — rather
// than lazily on the next mutating call — and primes both the session and
// the in-process password cache on success. This exists for the CLI's
// explicit `unlock` command (spec.md §8 scenario 2: a wrong password must
// fail right away, not on whatever operation happens to run next).
func (c *Context) Unlock(password string) error {
	name, path, err := c.registry.GetActive()
	if err != nil {
		return err
	}

	raw, err := storage.Read(path)
	if err != nil {
		return err
	}

	rawSecret, err := c.secretKeyFor(name)
	if err != nil {
		return err
	}
	defer cryptoprim.Zero(rawSecret)
	ascii := secretkey.ASCII(rawSecret)

	_, key, err := deckcodec.LoadWithKey(raw, password, ascii)
	if err != nil {
		return err
	}
	defer cryptoprim.Zero(key)

	if err := c.session.Unlock(name, key, c.now()); err != nil {
		return err
	}
	c.rememberPassword(name, password)
	return nil
}

// HandList returns the sorted names of every hand in the active deck.
func (c *Context) HandList() ([]string, error) {
	var names []string
	err := c.withDeck(func(d *deck.Deck) (bool, error) {
		names = d.HandNames()
		return false, nil
	})
	return names, err
}

// HandGet returns the named hand from the active deck.
func (c *Context) HandGet(name string) (deck.Hand, error) {
	var h deck.Hand
	err := c.withDeck(func(d *deck.Deck) (bool, error) {
		var getErr error
		h, getErr = d.GetHand(name)
		return false, getErr
	})
	return h, err
}

// HandPut creates or replaces the named hand in the active deck.
func (c *Context) HandPut(name string, cards map[string]string) error {
	return c.withDeck(func(d *deck.Deck) (bool, error) {
		d.PutHand(name, cards, c.now())
		return true, nil
	})
}

// HandDelete removes the named hand from the active deck.
func (c *Context) HandDelete(name string) error {
	return c.withDeck(func(d *deck.Deck) (bool, error) {
		return true, d.DeleteHand(name)
	})
}

// CardGet returns a single card's value from the active deck.
func (c *Context) CardGet(hand, key string) (string, error) {
	var value string
	err := c.withDeck(func(d *deck.Deck) (bool, error) {
		var getErr error
		value, getErr = d.GetCard(hand, key)
		return false, getErr
	})
	return value, err
}

// CardSet sets a single card's value within a hand of the active deck,
// creating the hand if necessary.
func (c *Context) CardSet(hand, key, value string) error {
	return c.withDeck(func(d *deck.Deck) (bool, error) {
		d.SetCard(hand, key, value, c.now())
		return true, nil
	})
}

// CardDelete removes a single card from a hand of the active deck.
func (c *Context) CardDelete(hand, key string) error {
	return c.withDeck(func(d *deck.Deck) (bool, error) {
		return true, d.DeleteCard(hand, key, c.now())
	})
}

// Export encrypts the active deck's current contents under exportPassword
// and writes the resulting export envelope to outPath.
func (c *Context) Export(outPath, exportPassword string) error {
	var envelope []byte
	err := c.withDeck(func(d *deck.Deck) (bool, error) {
		var expErr error
		envelope, expErr = export.Export(d, exportPassword)
		return false, expErr
	})
	if err != nil {
		return err
	}
	return storage.Write(outPath, envelope)
}

// Import decrypts the export envelope at inPath under exportPassword and
// merges its contents into the active deck, per the given collision
// policy (overwrite=false skips existing cards, overwrite=true replaces
// them).
func (c *Context) Import(inPath, exportPassword string, overwrite bool) error {
	raw, err := storage.Read(inPath)
	if err != nil {
		return err
	}
	imported, err := export.Import(raw, exportPassword)
	if err != nil {
		return err
	}
	return c.withDeck(func(d *deck.Deck) (bool, error) {
		d.Merge(imported, overwrite, c.now())
		return true, nil
	})
}

// Status reports the active deck's name and session state without
// touching any secret material.
func (c *Context) Status() (Status, error) {
	name, _, err := c.registry.GetActive()
	if err != nil {
		return Status{}, err
	}
	st, err := c.session.StatusOf(name, c.now())
	if err != nil {
		return Status{}, err
	}
	return Status{ActiveDeck: name, Locked: st.Locked, ExpiresAt: st.ExpiresAt}, nil
}

// Lock explicitly locks the active deck's session and drops any
// in-process cached password for it.
func (c *Context) Lock() error {
	name, _, err := c.registry.GetActive()
	if err != nil {
		return err
	}
	c.mu.Lock()
	delete(c.passwords, name)
	c.mu.Unlock()
	return c.session.Lock(name)
}

// withDeck resolves the active deck, obtains a decrypted in-memory
// [deck.Deck] (via a live session when possible, else by prompting for
// the master password), runs fn against it, and — if fn reports it
// mutated the deck — re-encrypts and persists the result, refreshing the
// session to match the freshly written envelope (spec.md §4.G template).
func (c *Context) withDeck(fn func(d *deck.Deck) (mutated bool, err error)) error {
	name, path, err := c.registry.GetActive()
	if err != nil {
		return err
	}

	d, key, fromSession, err := c.readActiveDeck(name, path)
	if err != nil {
		return err
	}
	defer cryptoprim.Zero(key)

	mutated, fnErr := fn(d)
	if fnErr != nil {
		return fnErr
	}

	if err := c.registry.Touch(name, c.now()); err != nil {
		return err
	}

	if !mutated {
		if !fromSession {
			if err := c.session.Unlock(name, key, c.now()); err != nil {
				return err
			}
		}
		return nil
	}

	rawSecret, err := c.secretKeyFor(name)
	if err != nil {
		return err
	}
	defer cryptoprim.Zero(rawSecret)
	ascii := secretkey.ASCII(rawSecret)

	// A mutating write always needs the actual password (never just a
	// cached derived key): storing resamples kdf_salt and aead_nonce, which
	// requires a fresh Argon2id pass. If readActiveDeck already verified
	// the password this call (fromSession==false), it is cached already;
	// if the deck was read via a resumed session, this may prompt once, and
	// the prompted password is verified against the current deck bytes
	// before it is used or remembered.
	password, fromCache, err := c.passwordFor(name)
	if err != nil {
		return err
	}
	if !fromCache {
		current, err := storage.Read(path)
		if err != nil {
			return err
		}
		_, verifyKey, err := deckcodec.LoadWithKey(current, password, ascii)
		if err != nil {
			return err
		}
		cryptoprim.Zero(verifyKey)
	}

	envelope, newKey, err := deckcodec.StoreWithKey(d, password, ascii)
	if err != nil {
		return err
	}
	defer cryptoprim.Zero(newKey)
	c.rememberPassword(name, password)

	if err := storage.Write(path, envelope); err != nil {
		return err
	}

	return c.session.Unlock(name, newKey, c.now())
}

// readActiveDeck returns the decrypted active deck, the AEAD key it was
// read with, and whether that key came from a resumed session (in which
// case the caller need not re-derive it for a read-only operation).
func (c *Context) readActiveDeck(name, path string) (d *deck.Deck, key []byte, fromSession bool, err error) {
	if warning := storage.PermissionWarning(path); warning != "" {
		c.log.Warn().Str("deck", name).Msg(warning)
	}

	raw, err := storage.Read(path)
	if err != nil {
		return nil, nil, false, err
	}

	if resumedKey, ok, resumeErr := c.session.TryResume(name, c.now()); resumeErr == nil && ok {
		resumedDeck, loadErr := deckcodec.LoadWithDerivedKey(raw, resumedKey)
		if loadErr == nil {
			return resumedDeck, resumedKey, true, nil
		}
		cryptoprim.Zero(resumedKey)
		// A resumed key that fails to decrypt the current bytes means the
		// on-disk deck moved on without this session (e.g. a concurrent
		// change_master_password); fall through to a fresh unlock.
		c.log.Warn().Str("deck", name).Msg("resumed session key stale, re-prompting for master password")
	}

	password, fromCache, err := c.passwordFor(name)
	if err != nil {
		return nil, nil, false, err
	}

	rawSecret, err := c.secretKeyFor(name)
	if err != nil {
		return nil, nil, false, err
	}
	defer cryptoprim.Zero(rawSecret)
	ascii := secretkey.ASCII(rawSecret)

	d, key, err = deckcodec.LoadWithKey(raw, password, ascii)
	if err != nil {
		return nil, nil, false, err
	}
	if !fromCache {
		c.rememberPassword(name, password)
	}
	return d, key, false, nil
}

// passwordFor returns the master password for name, either from the
// in-process cache or by prompting. It does NOT cache a freshly prompted
// password itself — the caller must call [Context.rememberPassword] only
// once that password has been verified against the deck, so a mistyped
// password is never silently cached and repeatedly retried.
func (c *Context) passwordFor(name string) (password string, fromCache bool, err error) {
	c.mu.Lock()
	pw, ok := c.passwords[name]
	c.mu.Unlock()
	if ok {
		return pw, true, nil
	}

	pw, err = c.prompter.PromptMasterPassword(name)
	if err != nil {
		return "", false, err
	}
	return pw, false, nil
}

func (c *Context) rememberPassword(name, password string) {
	c.mu.Lock()
	c.passwords[name] = password
	c.mu.Unlock()
}

func (c *Context) secretKeyFor(name string) ([]byte, error) {
	raw, err := c.cred.Get(credstore.SecretKeyAccount(name))
	if err != nil {
		return nil, err
	}
	decoded, err := base64.StdEncoding.DecodeString(string(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", holeerr.ErrCorruptDeck, err)
	}
	return decoded, nil
}

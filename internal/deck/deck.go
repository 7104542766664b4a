// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package deck defines the logical data model of a Holecard deck: Cards,
// Hands, and the Deck that contains them. These types carry no knowledge
// of encryption, file formats, or persistence — that is the codec's job
// (see [holecard/internal/deckcodec]).
package deck

import (
	"sort"
	"time"

	"github.com/shabaraba/holecard/internal/holeerr"
)

// TOTPHandName is the distinguished hand created by init whose cards map
// service names to base32 TOTP seeds. The codec never interprets these
// values; only the external totp collaborator does (spec.md §3).
const TOTPHandName = "totp"

// Hand is a named record inside a Deck. Card names are unique within a
// Hand and case-sensitive.
type Hand struct {
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Cards     map[string]string `json:"cards"`
}

// NewHand returns an empty Hand with both timestamps set to now.
func NewHand(now time.Time) Hand {
	return Hand{
		CreatedAt: now,
		UpdatedAt: now,
		Cards:     make(map[string]string),
	}
}

// Deck is the top-level, decrypted logical contents of a deck file: a
// mapping from hand name to Hand, plus a format version and a debugging
// revision counter that carries no authenticated semantics.
type Deck struct {
	Version  int             `json:"version"`
	Revision uint64          `json:"revision"`
	Hands    map[string]Hand `json:"hands"`
}

// New returns an empty Deck at format version 1.
func New() *Deck {
	return &Deck{
		Version: 1,
		Hands:   make(map[string]Hand),
	}
}

// HandNames returns the sorted list of hand names present in the deck.
func (d *Deck) HandNames() []string {
	names := make([]string, 0, len(d.Hands))
	for name := range d.Hands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetHand returns the named hand, or [holeerr.ErrNotFound] if it does not
// exist.
func (d *Deck) GetHand(name string) (Hand, error) {
	h, ok := d.Hands[name]
	if !ok {
		return Hand{}, holeerr.ErrNotFound
	}
	return h, nil
}

// PutHand inserts or replaces the named hand, bumping UpdatedAt to now and
// preserving CreatedAt if the hand already existed. The deck revision is
// incremented.
func (d *Deck) PutHand(name string, cards map[string]string, now time.Time) {
	createdAt := now
	if existing, ok := d.Hands[name]; ok {
		createdAt = existing.CreatedAt
	}
	if cards == nil {
		cards = make(map[string]string)
	}
	d.Hands[name] = Hand{
		CreatedAt: createdAt,
		UpdatedAt: now,
		Cards:     cards,
	}
	d.Revision++
}

// DeleteHand removes the named hand. Returns [holeerr.ErrNotFound] if it
// did not exist.
func (d *Deck) DeleteHand(name string) error {
	if _, ok := d.Hands[name]; !ok {
		return holeerr.ErrNotFound
	}
	delete(d.Hands, name)
	d.Revision++
	return nil
}

// SetCard sets a single card's value within the named hand, creating the
// hand if it does not yet exist.
func (d *Deck) SetCard(hand, key, value string, now time.Time) {
	h, ok := d.Hands[hand]
	if !ok {
		h = NewHand(now)
	}
	h.Cards[key] = value
	h.UpdatedAt = now
	d.Hands[hand] = h
	d.Revision++
}

// GetCard returns the value of a card within the named hand.
func (d *Deck) GetCard(hand, key string) (string, error) {
	h, ok := d.Hands[hand]
	if !ok {
		return "", holeerr.ErrNotFound
	}
	v, ok := h.Cards[key]
	if !ok {
		return "", holeerr.ErrNotFound
	}
	return v, nil
}

// DeleteCard removes a single card from the named hand.
func (d *Deck) DeleteCard(hand, key string, now time.Time) error {
	h, ok := d.Hands[hand]
	if !ok {
		return holeerr.ErrNotFound
	}
	if _, ok := h.Cards[key]; !ok {
		return holeerr.ErrNotFound
	}
	delete(h.Cards, key)
	h.UpdatedAt = now
	d.Hands[hand] = h
	d.Revision++
	return nil
}

// Merge copies every hand/card from other into d according to the given
// collision policy, used by the export importer (spec.md §4.H). It never
// mutates other.
func (d *Deck) Merge(other *Deck, overwrite bool, now time.Time) {
	for name, otherHand := range other.Hands {
		existing, exists := d.Hands[name]
		if !exists {
			cards := make(map[string]string, len(otherHand.Cards))
			for k, v := range otherHand.Cards {
				cards[k] = v
			}
			d.Hands[name] = Hand{
				CreatedAt: otherHand.CreatedAt,
				UpdatedAt: otherHand.UpdatedAt,
				Cards:     cards,
			}
			d.Revision++
			continue
		}

		changed := false
		for k, v := range otherHand.Cards {
			if _, has := existing.Cards[k]; has && !overwrite {
				continue
			}
			existing.Cards[k] = v
			changed = true
		}
		if changed {
			existing.UpdatedAt = now
			d.Hands[name] = existing
			d.Revision++
		}
	}
}

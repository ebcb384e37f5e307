// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package vocab

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mtreilly/memorydeck/internal/kv"
)

const (
	keyDecks    = "memorydeck:decks"
	keyTerms    = "memorydeck:terms"
	keyProgress = "memorydeck:progress"
)

// KVStore is the key-value Backend variant: one persisted entry per entity
// collection, each a JSON-serialized array. Relational behavior the SQL
// variant gets for free (cascade delete, id assignment, upsert) is emulated
// in application code here.
type KVStore struct {
	kv kv.Store

	// Serializes read-modify-write cycles on the collection entries and
	// guards the id counters.
	mu         sync.Mutex
	nextDeckID int64
	nextTermID int64
}

// NewKVStore creates a key-value backend over the given store and seeds the
// id counters from whatever is already persisted. Ids are allocated
// monotonically and never reused within a process; the sole exception is
// RestoreTerm, which puts a captured id back verbatim.
func NewKVStore(ctx context.Context, store kv.Store) (*KVStore, error) {
	s := &KVStore{kv: store}
	decks, err := readCollection[Deck](ctx, store, keyDecks)
	if err != nil {
		return nil, fmt.Errorf("load decks: %w", err)
	}
	terms, err := readCollection[Term](ctx, store, keyTerms)
	if err != nil {
		return nil, fmt.Errorf("load terms: %w", err)
	}
	for _, d := range decks {
		if d.ID >= s.nextDeckID {
			s.nextDeckID = d.ID + 1
		}
	}
	for _, t := range terms {
		if t.ID >= s.nextTermID {
			s.nextTermID = t.ID + 1
		}
	}
	if s.nextDeckID == 0 {
		s.nextDeckID = 1
	}
	if s.nextTermID == 0 {
		s.nextTermID = 1
	}
	return s, nil
}

func readCollection[T any](ctx context.Context, store kv.Store, key string) ([]T, error) {
	data, err := store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return out, nil
}

func writeCollection[T any](ctx context.Context, store kv.Store, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return store.Set(ctx, key, data)
}

// Deck operations

func (s *KVStore) ListDecks(ctx context.Context) ([]Deck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return readCollection[Deck](ctx, s.kv, keyDecks)
}

func (s *KVStore) CreateDeck(ctx context.Context, name string) (Deck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	decks, err := readCollection[Deck](ctx, s.kv, keyDecks)
	if err != nil {
		return Deck{}, err
	}
	d := Deck{ID: s.nextDeckID, Name: name, CreatedAt: time.Now().UTC()}
	if err := writeCollection(ctx, s.kv, keyDecks, append(decks, d)); err != nil {
		return Deck{}, err
	}
	s.nextDeckID++
	return d, nil
}

func (s *KVStore) RenameDeck(ctx context.Context, id int64, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	decks, err := readCollection[Deck](ctx, s.kv, keyDecks)
	if err != nil {
		return err
	}
	for i := range decks {
		if decks[i].ID == id {
			decks[i].Name = name
			return writeCollection(ctx, s.kv, keyDecks, decks)
		}
	}
	return nil
}

func (s *KVStore) SetDeckLastStudied(ctx context.Context, id int64, t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	decks, err := readCollection[Deck](ctx, s.kv, keyDecks)
	if err != nil {
		return err
	}
	for i := range decks {
		if decks[i].ID == id {
			ts := t.UTC()
			decks[i].LastStudied = &ts
			return writeCollection(ctx, s.kv, keyDecks, decks)
		}
	}
	return nil
}

// DeleteDeck emulates the SQL cascade: dependent terms and progress are
// dropped in the same logical operation, before the deck entry is persisted.
func (s *KVStore) DeleteDeck(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	terms, err := readCollection[Term](ctx, s.kv, keyTerms)
	if err != nil {
		return err
	}
	doomed := make(map[int64]bool)
	kept := terms[:0:0]
	for _, t := range terms {
		if t.DeckID == id {
			doomed[t.ID] = true
		} else {
			kept = append(kept, t)
		}
	}

	progress, err := readCollection[Progress](ctx, s.kv, keyProgress)
	if err != nil {
		return err
	}
	keptProgress := progress[:0:0]
	for _, p := range progress {
		if !doomed[p.TermID] {
			keptProgress = append(keptProgress, p)
		}
	}

	if err := writeCollection(ctx, s.kv, keyTerms, kept); err != nil {
		return err
	}
	if err := writeCollection(ctx, s.kv, keyProgress, keptProgress); err != nil {
		return err
	}

	decks, err := readCollection[Deck](ctx, s.kv, keyDecks)
	if err != nil {
		return err
	}
	keptDecks := decks[:0:0]
	for _, d := range decks {
		if d.ID != id {
			keptDecks = append(keptDecks, d)
		}
	}
	return writeCollection(ctx, s.kv, keyDecks, keptDecks)
}

// Term operations

func (s *KVStore) ListTerms(ctx context.Context) ([]Term, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return readCollection[Term](ctx, s.kv, keyTerms)
}

func (s *KVStore) CreateTerm(ctx context.Context, t Term) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	terms, err := readCollection[Term](ctx, s.kv, keyTerms)
	if err != nil {
		return 0, err
	}
	t.ID = s.nextTermID
	if err := writeCollection(ctx, s.kv, keyTerms, append(terms, t)); err != nil {
		return 0, err
	}
	s.nextTermID++
	return t.ID, nil
}

// RestoreTerm puts a just-deleted term back under its original id, splicing
// it into id order so the collection reads the same as before the delete.
func (s *KVStore) RestoreTerm(ctx context.Context, t Term) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	terms, err := readCollection[Term](ctx, s.kv, keyTerms)
	if err != nil {
		return 0, err
	}
	for _, existing := range terms {
		if existing.ID == t.ID {
			// Already present: restore raced an identical restore.
			return t.ID, nil
		}
	}
	inserted := false
	out := make([]Term, 0, len(terms)+1)
	for _, existing := range terms {
		if !inserted && existing.ID > t.ID {
			out = append(out, t)
			inserted = true
		}
		out = append(out, existing)
	}
	if !inserted {
		out = append(out, t)
	}
	if err := writeCollection(ctx, s.kv, keyTerms, out); err != nil {
		return 0, err
	}
	if t.ID >= s.nextTermID {
		s.nextTermID = t.ID + 1
	}
	return t.ID, nil
}

func (s *KVStore) UpdateTerm(ctx context.Context, id int64, patch TermPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	terms, err := readCollection[Term](ctx, s.kv, keyTerms)
	if err != nil {
		return err
	}
	for i := range terms {
		if terms[i].ID != id {
			continue
		}
		if patch.Term != nil {
			terms[i].Term = *patch.Term
		}
		if patch.Definition != nil {
			terms[i].Definition = *patch.Definition
		}
		if patch.IPA != nil {
			terms[i].IPA = *patch.IPA
		}
		if patch.Function != nil {
			terms[i].Function = *patch.Function
		}
		return writeCollection(ctx, s.kv, keyTerms, terms)
	}
	return nil
}

func (s *KVStore) DeleteTerm(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	terms, err := readCollection[Term](ctx, s.kv, keyTerms)
	if err != nil {
		return err
	}
	kept := terms[:0:0]
	for _, t := range terms {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if err := writeCollection(ctx, s.kv, keyTerms, kept); err != nil {
		return err
	}

	progress, err := readCollection[Progress](ctx, s.kv, keyProgress)
	if err != nil {
		return err
	}
	keptProgress := progress[:0:0]
	for _, p := range progress {
		if p.TermID != id {
			keptProgress = append(keptProgress, p)
		}
	}
	return writeCollection(ctx, s.kv, keyProgress, keptProgress)
}

// Progress operations

func (s *KVStore) ListProgress(ctx context.Context) ([]Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return readCollection[Progress](ctx, s.kv, keyProgress)
}

func (s *KVStore) UpsertProgress(ctx context.Context, p Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	progress, err := readCollection[Progress](ctx, s.kv, keyProgress)
	if err != nil {
		return err
	}
	for i := range progress {
		if progress[i].TermID == p.TermID {
			progress[i] = p
			return writeCollection(ctx, s.kv, keyProgress, progress)
		}
	}
	return writeCollection(ctx, s.kv, keyProgress, append(progress, p))
}

func (s *KVStore) Close() error { return s.kv.Close() }

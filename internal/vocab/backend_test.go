// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package vocab

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mtreilly/memorydeck/internal/kv"
)

func newTestSQLStore(t *testing.T) *SQLStore {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	s, err := NewSQLStore(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestKVStore(t *testing.T) *KVStore {
	t.Helper()
	s, err := NewKVStore(context.Background(), kv.NewMemoryStore())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// The two Backend variants must agree on everything except RestoreTerm's id
// assignment, so the shared behavior runs against both.
func TestBackendContract(t *testing.T) {
	backends := map[string]func(*testing.T) Backend{
		"sql": func(t *testing.T) Backend { return newTestSQLStore(t) },
		"kv":  func(t *testing.T) Backend { return newTestKVStore(t) },
	}
	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			t.Run("decks", func(t *testing.T) { testBackendDecks(t, open(t)) })
			t.Run("terms", func(t *testing.T) { testBackendTerms(t, open(t)) })
			t.Run("cascade", func(t *testing.T) { testBackendCascade(t, open(t)) })
			t.Run("progress", func(t *testing.T) { testBackendProgress(t, open(t)) })
		})
	}
}

func testBackendDecks(t *testing.T, b Backend) {
	ctx := context.Background()

	decks, err := b.ListDecks(ctx)
	require.NoError(t, err)
	require.Empty(t, decks)

	d1, err := b.CreateDeck(ctx, "Spanish")
	require.NoError(t, err)
	require.NotZero(t, d1.ID)

	d2, err := b.CreateDeck(ctx, "French")
	require.NoError(t, err)
	require.Greater(t, d2.ID, d1.ID, "deck ids must be assigned in increasing order")

	require.NoError(t, b.RenameDeck(ctx, d1.ID, "Castilian"))

	when := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, b.SetDeckLastStudied(ctx, d2.ID, when))

	decks, err = b.ListDecks(ctx)
	require.NoError(t, err)
	require.Len(t, decks, 2)
	require.Equal(t, "Castilian", decks[0].Name)
	require.Nil(t, decks[0].LastStudied)
	require.NotNil(t, decks[1].LastStudied)
	require.True(t, decks[1].LastStudied.Equal(when))
}

func testBackendTerms(t *testing.T, b Backend) {
	ctx := context.Background()

	d, err := b.CreateDeck(ctx, "Spanish")
	require.NoError(t, err)

	id1, err := b.CreateTerm(ctx, Term{DeckID: d.ID, Term: "gato", Definition: "cat", IPA: "/ˈɡato/", Function: "(noun)"})
	require.NoError(t, err)
	id2, err := b.CreateTerm(ctx, Term{DeckID: d.ID, Term: "perro", Definition: "dog"})
	require.NoError(t, err)
	require.Greater(t, id2, id1)

	newDef := "a domestic cat"
	require.NoError(t, b.UpdateTerm(ctx, id1, TermPatch{Definition: &newDef}))

	terms, err := b.ListTerms(ctx)
	require.NoError(t, err)
	require.Len(t, terms, 2)
	require.Equal(t, "gato", terms[0].Term, "untouched field must survive a patch")
	require.Equal(t, newDef, terms[0].Definition)
	require.Equal(t, "/ˈɡato/", terms[0].IPA)

	require.NoError(t, b.DeleteTerm(ctx, id1))
	terms, err = b.ListTerms(ctx)
	require.NoError(t, err)
	require.Len(t, terms, 1)
	require.Equal(t, id2, terms[0].ID)
}

func testBackendCascade(t *testing.T, b Backend) {
	ctx := context.Background()

	keep, err := b.CreateDeck(ctx, "Keep")
	require.NoError(t, err)
	doomed, err := b.CreateDeck(ctx, "Doomed")
	require.NoError(t, err)

	keptID, err := b.CreateTerm(ctx, Term{DeckID: keep.ID, Term: "stay", Definition: "remain"})
	require.NoError(t, err)
	goneID, err := b.CreateTerm(ctx, Term{DeckID: doomed.ID, Term: "go", Definition: "leave"})
	require.NoError(t, err)

	now := time.Now().UTC()
	require.NoError(t, b.UpsertProgress(ctx, Progress{TermID: keptID, Status: StatusLearning, LastReviewed: now}))
	require.NoError(t, b.UpsertProgress(ctx, Progress{TermID: goneID, Status: StatusMastered, LastReviewed: now}))

	require.NoError(t, b.DeleteDeck(ctx, doomed.ID))

	terms, err := b.ListTerms(ctx)
	require.NoError(t, err)
	require.Len(t, terms, 1)
	require.Equal(t, keptID, terms[0].ID)

	records, err := b.ListProgress(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, keptID, records[0].TermID)
}

func testBackendProgress(t *testing.T, b Backend) {
	ctx := context.Background()

	d, err := b.CreateDeck(ctx, "Spanish")
	require.NoError(t, err)
	id, err := b.CreateTerm(ctx, Term{DeckID: d.ID, Term: "gato", Definition: "cat"})
	require.NoError(t, err)

	first := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, b.UpsertProgress(ctx, Progress{TermID: id, Status: StatusLearning, LastReviewed: first}))

	// Second upsert for the same term replaces, never duplicates.
	second := first.Add(24 * time.Hour)
	require.NoError(t, b.UpsertProgress(ctx, Progress{TermID: id, Status: StatusMastered, LastReviewed: second}))

	records, err := b.ListProgress(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, StatusMastered, records[0].Status)
	require.True(t, records[0].LastReviewed.Equal(second))
}

// The SQL variant hands a restored term a fresh id: AUTOINCREMENT never
// reuses a freed rowid.
func TestSQLStoreRestoreAssignsFreshID(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLStore(t)

	d, err := s.CreateDeck(ctx, "Spanish")
	require.NoError(t, err)
	id, err := s.CreateTerm(ctx, Term{DeckID: d.ID, Term: "gato", Definition: "cat"})
	require.NoError(t, err)
	require.NoError(t, s.DeleteTerm(ctx, id))

	restored, err := s.RestoreTerm(ctx, Term{ID: id, DeckID: d.ID, Term: "gato", Definition: "cat"})
	require.NoError(t, err)
	require.Greater(t, restored, id)
}

// The key-value variant restores the captured id verbatim, splicing the
// term back where it was.
func TestKVStoreRestoreKeepsID(t *testing.T) {
	ctx := context.Background()
	s := newTestKVStore(t)

	d, err := s.CreateDeck(ctx, "Spanish")
	require.NoError(t, err)
	first, err := s.CreateTerm(ctx, Term{DeckID: d.ID, Term: "gato", Definition: "cat"})
	require.NoError(t, err)
	second, err := s.CreateTerm(ctx, Term{DeckID: d.ID, Term: "perro", Definition: "dog"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteTerm(ctx, first))
	restored, err := s.RestoreTerm(ctx, Term{ID: first, DeckID: d.ID, Term: "gato", Definition: "cat"})
	require.NoError(t, err)
	require.Equal(t, first, restored)

	terms, err := s.ListTerms(ctx)
	require.NoError(t, err)
	require.Len(t, terms, 2)
	require.Equal(t, first, terms[0].ID, "restored term must come back in id order")
	require.Equal(t, second, terms[1].ID)

	// Fresh ids still move forward after a restore.
	third, err := s.CreateTerm(ctx, Term{DeckID: d.ID, Term: "pez", Definition: "fish"})
	require.NoError(t, err)
	require.Greater(t, third, second)
}

// Counters reseed from persisted data, so ids stay monotonic across
// process restarts.
func TestKVStoreReseedsCounters(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemoryStore()

	s1, err := NewKVStore(ctx, mem)
	require.NoError(t, err)
	d, err := s1.CreateDeck(ctx, "Spanish")
	require.NoError(t, err)
	id1, err := s1.CreateTerm(ctx, Term{DeckID: d.ID, Term: "gato", Definition: "cat"})
	require.NoError(t, err)

	s2, err := NewKVStore(ctx, mem)
	require.NoError(t, err)
	id2, err := s2.CreateTerm(ctx, Term{DeckID: d.ID, Term: "perro", Definition: "dog"})
	require.NoError(t, err)
	require.Greater(t, id2, id1)
}

// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package vocab

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// A database written under the old naming (categories/words, word/example
// columns, progress.word_id, difficulty_level) must come up readable under
// the current schema with its data intact.
func TestSQLStoreMigratesLegacySchema(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "legacy.db")

	db, err := OpenDB(path)
	require.NoError(t, err)

	legacy := `
	CREATE TABLE categories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL
	);

	CREATE TABLE words (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		category_id INTEGER,
		word TEXT NOT NULL,
		definition TEXT NOT NULL,
		ipa TEXT,
		example TEXT,
		FOREIGN KEY (category_id) REFERENCES categories (id) ON DELETE CASCADE
	);

	CREATE TABLE progress (
		word_id INTEGER PRIMARY KEY,
		status TEXT,
		difficulty_level INTEGER,
		last_reviewed TEXT,
		FOREIGN KEY (word_id) REFERENCES words (id) ON DELETE CASCADE
	);
	`
	_, err = db.Exec(legacy)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO categories (name) VALUES ('Spanish')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO words (category_id, word, definition, ipa, example)
		VALUES (1, 'gato', 'cat', '/ˈɡato/', '(noun)')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO progress (word_id, status, difficulty_level, last_reviewed)
		VALUES (1, 'learning', 3, '2025-06-01T12:00:00Z')`)
	require.NoError(t, err)

	s, err := NewSQLStore(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	decks, err := s.ListDecks(ctx)
	require.NoError(t, err)
	require.Len(t, decks, 1)
	require.Equal(t, "Spanish", decks[0].Name)

	terms, err := s.ListTerms(ctx)
	require.NoError(t, err)
	require.Len(t, terms, 1)
	require.Equal(t, decks[0].ID, terms[0].DeckID)
	require.Equal(t, "gato", terms[0].Term)
	require.Equal(t, "(noun)", terms[0].Function)

	records, err := s.ListProgress(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, StatusLearning, records[0].Status)

	// New rows work on the migrated schema.
	id, err := s.CreateTerm(ctx, Term{DeckID: decks[0].ID, Term: "perro", Definition: "dog"})
	require.NoError(t, err)
	require.Greater(t, id, terms[0].ID)
}

// Running migrations on a current database must be a no-op.
func TestSQLStoreMigrateIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "current.db")

	db, err := OpenDB(path)
	require.NoError(t, err)
	s1, err := NewSQLStore(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	d, err := s1.CreateDeck(ctx, "Spanish")
	require.NoError(t, err)
	_, err = s1.CreateTerm(ctx, Term{DeckID: d.ID, Term: "gato", Definition: "cat"})
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	db2, err := OpenDB(path)
	require.NoError(t, err)
	s2, err := NewSQLStore(db2, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { s2.Close() })

	terms, err := s2.ListTerms(ctx)
	require.NoError(t, err)
	require.Len(t, terms, 1)
	require.Equal(t, "gato", terms[0].Term)
}

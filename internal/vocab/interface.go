// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package vocab

import (
	"context"
	"time"
)

// Backend is the storage contract for decks, terms and progress records.
// Both variants (embedded SQL and key-value) satisfy it with identical
// semantics; the Store is written entirely against this interface and must
// never be able to tell the variants apart, with one sanctioned exception:
// RestoreTerm may assign a fresh id (SQL) or reuse the captured one (KV).
type Backend interface {
	// Deck operations
	ListDecks(ctx context.Context) ([]Deck, error)
	CreateDeck(ctx context.Context, name string) (Deck, error)
	RenameDeck(ctx context.Context, id int64, name string) error
	SetDeckLastStudied(ctx context.Context, id int64, t time.Time) error
	// DeleteDeck removes the deck and cascades to its terms and progress.
	DeleteDeck(ctx context.Context, id int64) error

	// Term operations
	ListTerms(ctx context.Context) ([]Term, error)
	// CreateTerm ignores t.ID and returns the backend-assigned id.
	CreateTerm(ctx context.Context, t Term) (int64, error)
	// RestoreTerm re-inserts a term captured before deletion (the undo
	// path). Returns the id the restored term ended up with.
	RestoreTerm(ctx context.Context, t Term) (int64, error)
	UpdateTerm(ctx context.Context, id int64, patch TermPatch) error
	DeleteTerm(ctx context.Context, id int64) error

	// Progress operations
	ListProgress(ctx context.Context) ([]Progress, error)
	// UpsertProgress is a single atomic insert-or-update keyed by term id.
	UpsertProgress(ctx context.Context, p Progress) error

	Close() error
}

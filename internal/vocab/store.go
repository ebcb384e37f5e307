// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package vocab

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// DefaultUndoWindow is how long a deleted term stays undoable.
const DefaultUndoWindow = 5 * time.Second

// Snapshot is a consistent read of the three collections. Slices are copies;
// mutating them does not affect the store.
type Snapshot struct {
	Decks    []Deck
	Terms    []Term
	Progress []Progress
}

// Options configures a Store.
type Options struct {
	Notifier   Notifier
	Logger     *slog.Logger
	UndoWindow time.Duration

	// OnExpire, if set, is called once a term deletion becomes permanent
	// (undo window passed or notification dismissed). The backend delete
	// happened long before; this is a permanence signal, not a trigger.
	OnExpire func(term Term)
}

// Store owns the in-memory authoritative cache of decks, terms and progress,
// synchronized with a Backend. Mutations apply optimistically: the backend
// call is issued first, then the cache is patched, and readers only ever see
// the cache. Term deletion alone follows a deferred-commit protocol where
// the visible removal is reversible for a grace period even though the
// backend delete is immediate.
type Store struct {
	backend    Backend
	notifier   Notifier
	log        *slog.Logger
	undoWindow time.Duration
	onExpire   func(Term)

	mu       sync.Mutex
	decks    []Deck
	terms    []Term
	progress map[int64]Progress

	pending *ledger

	subs    map[int64]func(Snapshot)
	nextSub int64
}

// Open loads the three collections from the backend and returns a ready
// store. The backend is selected once, before this call; the store never
// re-detects it.
func Open(ctx context.Context, backend Backend, opts Options) (*Store, error) {
	if opts.Notifier == nil {
		opts.Notifier = NopNotifier{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.UndoWindow <= 0 {
		opts.UndoWindow = DefaultUndoWindow
	}

	decks, err := backend.ListDecks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load decks: %w", err)
	}
	terms, err := backend.ListTerms(ctx)
	if err != nil {
		return nil, fmt.Errorf("load terms: %w", err)
	}
	records, err := backend.ListProgress(ctx)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	progress := make(map[int64]Progress, len(records))
	for _, p := range records {
		progress[p.TermID] = p
	}

	return &Store{
		backend:    backend,
		notifier:   opts.Notifier,
		log:        opts.Logger,
		undoWindow: opts.UndoWindow,
		onExpire:   opts.OnExpire,
		decks:      decks,
		terms:      terms,
		progress:   progress,
		pending:    newLedger(),
		subs:       make(map[int64]func(Snapshot)),
	}, nil
}

// Close stops pending-deletion timers and closes the backend. Any still-
// pending deletions are already durable; only their undo window is lost.
func (s *Store) Close() error {
	s.pending.close()
	return s.backend.Close()
}

// Subscribe registers fn to receive a snapshot after every mutation.
// It returns an unsubscribe function.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Snapshot returns a consistent copy of all three collections, progress
// sorted by term id.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		Decks:    make([]Deck, len(s.decks)),
		Terms:    make([]Term, len(s.terms)),
		Progress: make([]Progress, 0, len(s.progress)),
	}
	copy(snap.Decks, s.decks)
	copy(snap.Terms, s.terms)
	for _, p := range s.progress {
		snap.Progress = append(snap.Progress, p)
	}
	sort.Slice(snap.Progress, func(i, j int) bool {
		return snap.Progress[i].TermID < snap.Progress[j].TermID
	})
	return snap
}

// notify delivers a snapshot to subscribers. Called with the lock held; the
// callbacks run after it is released so a subscriber may call back into the
// store.
func (s *Store) notifyLocked() func() {
	snap := s.snapshotLocked()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	return func() {
		for _, fn := range fns {
			fn(snap)
		}
	}
}

// Deck operations

// Decks returns the decks in creation order.
func (s *Store) Decks() []Deck {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Deck, len(s.decks))
	copy(out, s.decks)
	return out
}

// DeckByID returns the deck with the given id, if present.
func (s *Store) DeckByID(id int64) (Deck, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.decks {
		if d.ID == id {
			return d, true
		}
	}
	return Deck{}, false
}

// AddDeck creates a deck and returns its backend-assigned id so the caller
// can act on the new deck immediately. Name validation is the caller's
// concern (see ValidateDeckName); AddDeck passes the name through as-is.
func (s *Store) AddDeck(ctx context.Context, name string) (int64, error) {
	d, err := s.backend.CreateDeck(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("create deck: %w", err)
	}
	s.mu.Lock()
	s.decks = append(s.decks, d)
	deliver := s.notifyLocked()
	s.mu.Unlock()
	deliver()
	return d.ID, nil
}

// RenameDeck updates a deck's name. Unknown ids are a no-op.
func (s *Store) RenameDeck(ctx context.Context, id int64, name string) error {
	if _, ok := s.DeckByID(id); !ok {
		return nil
	}
	if err := s.backend.RenameDeck(ctx, id, name); err != nil {
		return fmt.Errorf("rename deck: %w", err)
	}
	s.mu.Lock()
	for i := range s.decks {
		if s.decks[i].ID == id {
			s.decks[i].Name = name
			break
		}
	}
	deliver := s.notifyLocked()
	s.mu.Unlock()
	deliver()
	return nil
}

// MarkDeckStudied stamps the deck's last-studied time with the current
// time. Invoked once per completed study session, not per card.
func (s *Store) MarkDeckStudied(ctx context.Context, id int64) error {
	if _, ok := s.DeckByID(id); !ok {
		return nil
	}
	now := time.Now().UTC()
	if err := s.backend.SetDeckLastStudied(ctx, id, now); err != nil {
		return fmt.Errorf("set deck last studied: %w", err)
	}
	s.mu.Lock()
	for i := range s.decks {
		if s.decks[i].ID == id {
			t := now
			s.decks[i].LastStudied = &t
			break
		}
	}
	deliver := s.notifyLocked()
	s.mu.Unlock()
	deliver()
	return nil
}

// DeleteDeck removes a deck and everything under it. The in-memory removal
// mirrors the backend cascade exactly: no orphaned terms or progress remain
// in the cache. Unknown ids are a no-op.
func (s *Store) DeleteDeck(ctx context.Context, id int64) error {
	if _, ok := s.DeckByID(id); !ok {
		return nil
	}
	if err := s.backend.DeleteDeck(ctx, id); err != nil {
		return fmt.Errorf("delete deck: %w", err)
	}

	s.mu.Lock()
	keptDecks := s.decks[:0:0]
	for _, d := range s.decks {
		if d.ID != id {
			keptDecks = append(keptDecks, d)
		}
	}
	s.decks = keptDecks

	keptTerms := s.terms[:0:0]
	for _, t := range s.terms {
		if t.DeckID == id {
			delete(s.progress, t.ID)
		} else {
			keptTerms = append(keptTerms, t)
		}
	}
	s.terms = keptTerms
	deliver := s.notifyLocked()
	s.mu.Unlock()
	deliver()
	return nil
}

// Term operations

// GetTermsForDeck returns the deck's terms in insertion order.
func (s *Store) GetTermsForDeck(deckID int64) []Term {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Term
	for _, t := range s.terms {
		if t.DeckID == deckID {
			out = append(out, t)
		}
	}
	return out
}

// TermByID returns the term with the given id, if present.
func (s *Store) TermByID(id int64) (Term, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.terms {
		if t.ID == id {
			return t, true
		}
	}
	return Term{}, false
}

// AddTermsToDeck bulk-inserts terms. Rows with an empty term or definition
// after trimming are silently dropped; accepted rows are trimmed and their
// IPA/function fields canonicalized. Backend inserts run sequentially and
// the cache gets all accepted rows appended once they have all resolved.
// On a mid-batch backend failure the rows already persisted stay in the
// cache and the error is returned.
func (s *Store) AddTermsToDeck(ctx context.Context, deckID int64, rows []NewTerm) ([]Term, error) {
	clean := CleanNewTerms(rows)
	added := make([]Term, 0, len(clean))
	var firstErr error
	for _, r := range clean {
		t := Term{
			DeckID:     deckID,
			Term:       r.Term,
			Definition: r.Definition,
			IPA:        r.IPA,
			Function:   r.Function,
		}
		id, err := s.backend.CreateTerm(ctx, t)
		if err != nil {
			firstErr = fmt.Errorf("create term %q: %w", r.Term, err)
			s.log.Error("bulk insert aborted", "deck", deckID, "err", err)
			break
		}
		t.ID = id
		added = append(added, t)
	}
	if len(added) > 0 {
		s.mu.Lock()
		s.terms = append(s.terms, added...)
		deliver := s.notifyLocked()
		s.mu.Unlock()
		deliver()
	}
	return added, firstErr
}

// UpdateTerm applies a partial update: only non-nil patch fields change.
// Unknown ids are a no-op.
func (s *Store) UpdateTerm(ctx context.Context, id int64, patch TermPatch) error {
	if _, ok := s.TermByID(id); !ok {
		return nil
	}
	if err := s.backend.UpdateTerm(ctx, id, patch); err != nil {
		return fmt.Errorf("update term: %w", err)
	}
	s.mu.Lock()
	for i := range s.terms {
		if s.terms[i].ID != id {
			continue
		}
		if patch.Term != nil {
			s.terms[i].Term = *patch.Term
		}
		if patch.Definition != nil {
			s.terms[i].Definition = *patch.Definition
		}
		if patch.IPA != nil {
			s.terms[i].IPA = *patch.IPA
		}
		if patch.Function != nil {
			s.terms[i].Function = *patch.Function
		}
		break
	}
	deliver := s.notifyLocked()
	s.mu.Unlock()
	deliver()
	return nil
}

// DeleteTerm runs the deferred-commit delete protocol:
//
//  1. Snapshot the term and its progress record.
//  2. Issue the backend delete immediately. Durability beats perfect undo:
//     if the process dies before the undo window closes, the row is gone
//     rather than resurrected.
//  3. Remove term and progress from the cache so readers see the deletion
//     at once.
//  4. Surface an undoable notification and arm the expiry timer.
//
// The returned id resolves the pending deletion via UndoDelete or
// ExpireDelete. Deleting an id that is already gone is a no-op and returns
// an empty id.
//
// A backend failure in step 2 is logged but does not abort the protocol:
// from the user's perspective the delete must not fail silently, so the
// visible removal and the undo notification happen regardless.
func (s *Store) DeleteTerm(ctx context.Context, id int64) (string, error) {
	term, ok := s.TermByID(id)
	if !ok {
		return "", nil
	}

	s.mu.Lock()
	var snapshot *Progress
	if p, ok := s.progress[id]; ok {
		cp := p
		snapshot = &cp
	}
	s.mu.Unlock()

	if err := s.backend.DeleteTerm(ctx, id); err != nil {
		s.log.Error("backend delete failed", "term", id, "err", err)
	}

	s.mu.Lock()
	kept := s.terms[:0:0]
	for _, t := range s.terms {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.terms = kept
	delete(s.progress, id)
	deliver := s.notifyLocked()
	s.mu.Unlock()
	deliver()

	entry := s.pending.add(term, snapshot, s.undoWindow, func(entryID string) {
		s.ExpireDelete(entryID)
	})
	noticeID := s.notifier.Show(
		fmt.Sprintf("Deleted %q", term.Term),
		s.undoWindow,
		func() {
			if err := s.UndoDelete(context.Background(), entry.id); err != nil {
				s.log.Error("undo failed", "term", term.Term, "err", err)
			}
		},
		func() { s.ExpireDelete(entry.id) },
	)
	s.pending.setNotice(entry.id, noticeID)
	return entry.id, nil
}

// UndoDelete reverses a pending term deletion: the captured term is
// re-inserted through the backend (the SQL variant assigns a fresh id, the
// key-value variant restores the original), any progress snapshot is
// re-upserted under the restored id, and both splice back into the cache in
// id order. Resolving an id that already expired or was undone is a no-op.
func (s *Store) UndoDelete(ctx context.Context, entryID string) error {
	entry := s.pending.take(entryID)
	if entry == nil {
		return nil
	}
	s.notifier.Dismiss(entry.noticeID)

	newID, err := s.backend.RestoreTerm(ctx, entry.term)
	if err != nil {
		return fmt.Errorf("restore term: %w", err)
	}
	restored := entry.term
	restored.ID = newID

	if entry.progress != nil {
		p := *entry.progress
		p.TermID = newID
		if err := s.backend.UpsertProgress(ctx, p); err != nil {
			s.log.Error("restore progress failed", "term", newID, "err", err)
		} else {
			s.mu.Lock()
			s.progress[newID] = p
			s.mu.Unlock()
		}
	}

	s.mu.Lock()
	s.terms = append(s.terms, restored)
	sort.SliceStable(s.terms, func(i, j int) bool { return s.terms[i].ID < s.terms[j].ID })
	deliver := s.notifyLocked()
	s.mu.Unlock()
	deliver()
	return nil
}

// ExpireDelete makes a pending deletion permanent. No backend action is
// needed: the delete was durable the moment it was issued. Idempotent, and
// a harmless no-op if the entry was already undone.
func (s *Store) ExpireDelete(entryID string) {
	entry := s.pending.take(entryID)
	if entry == nil {
		return
	}
	s.notifier.Dismiss(entry.noticeID)
	if s.onExpire != nil {
		s.onExpire(entry.term)
	}
}

// Progress operations

// GetProgressForTerm returns the stored progress record, or a synthesized
// default (status New, last reviewed now) when none exists. Callers never
// need to special-case "no progress"; the synthesized record is derived,
// not stored.
func (s *Store) GetProgressForTerm(termID int64) Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.progress[termID]; ok {
		return p
	}
	return Progress{TermID: termID, Status: StatusNew, LastReviewed: time.Now().UTC()}
}

// UpdateProgress merges a partial update into the current (stored or
// synthesized) progress and always stamps last-reviewed to the current
// time, whatever else changed. Unknown term ids are a no-op.
func (s *Store) UpdateProgress(ctx context.Context, termID int64, patch ProgressPatch) error {
	if _, ok := s.TermByID(termID); !ok {
		return nil
	}
	merged := s.GetProgressForTerm(termID)
	if patch.Status != nil {
		merged.Status = *patch.Status
	}
	merged.LastReviewed = time.Now().UTC()

	if err := s.backend.UpsertProgress(ctx, merged); err != nil {
		return fmt.Errorf("upsert progress: %w", err)
	}
	s.mu.Lock()
	s.progress[termID] = merged
	deliver := s.notifyLocked()
	s.mu.Unlock()
	deliver()
	return nil
}

// ApplyReview records a review-quality signal against a term: the status
// moves per Transition and last-reviewed refreshes. The neutral
// SignalReviewed refreshes the timestamp without changing status.
func (s *Store) ApplyReview(ctx context.Context, termID int64, sig Signal) error {
	next := Transition(s.GetProgressForTerm(termID).Status, sig)
	return s.UpdateProgress(ctx, termID, ProgressPatch{Status: &next})
}

// ReviewOrder returns the flashcard study order for a deck, computed from
// the current cache. Sessions should call this once at session start and
// iterate the returned snapshot.
//
// Progress is materialized before sorting: missing records are synthesized
// once, all sharing one timestamp, so the comparator sees the same value
// for a term on every call and unreviewed terms tie (keeping insertion
// order). Sorting over GetProgressForTerm directly would stamp a fresh
// "now" per lookup and never produce equal keys.
func (s *Store) ReviewOrder(deckID int64) []Term {
	s.mu.Lock()
	var terms []Term
	for _, t := range s.terms {
		if t.DeckID == deckID {
			terms = append(terms, t)
		}
	}
	now := time.Now().UTC()
	progress := make(map[int64]Progress, len(terms))
	for _, t := range terms {
		if p, ok := s.progress[t.ID]; ok {
			progress[t.ID] = p
		} else {
			progress[t.ID] = Progress{TermID: t.ID, Status: StatusNew, LastReviewed: now}
		}
	}
	s.mu.Unlock()

	return BuildReviewOrder(terms, func(id int64) Progress { return progress[id] })
}

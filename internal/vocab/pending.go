// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package vocab

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// pendingDelete is one ledger entry: the snapshot needed to reverse a term
// deletion, alive only until undo or expiry. The backend row is already
// gone by the time an entry exists; the snapshot is the only way back.
type pendingDelete struct {
	id       string
	term     Term
	progress *Progress
	noticeID string
	timer    *time.Timer
}

// ledger is the short-lived registry of terms that have been removed from
// visible state but can still be undone. At most one in-flight entry per
// term id.
type ledger struct {
	mu      sync.Mutex
	entries map[string]*pendingDelete
	byTerm  map[int64]string
}

func newLedger() *ledger {
	return &ledger{
		entries: make(map[string]*pendingDelete),
		byTerm:  make(map[int64]string),
	}
}

// add registers a snapshot and arms its expiry timer. If an entry for the
// same term id is somehow still in flight, it is expired first.
func (l *ledger) add(term Term, progress *Progress, window time.Duration, onExpire func(entryID string)) *pendingDelete {
	l.mu.Lock()
	defer l.mu.Unlock()

	if prevID, ok := l.byTerm[term.ID]; ok {
		if prev, ok := l.entries[prevID]; ok {
			prev.timer.Stop()
			delete(l.entries, prevID)
		}
		delete(l.byTerm, term.ID)
	}

	e := &pendingDelete{
		id:       uuid.New().String(),
		term:     term,
		progress: progress,
	}
	e.timer = time.AfterFunc(window, func() { onExpire(e.id) })
	l.entries[e.id] = e
	l.byTerm[term.ID] = e.id
	return e
}

// setNotice records the notification id shown for an entry. No-op if the
// entry already resolved.
func (l *ledger) setNotice(entryID, noticeID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.entries[entryID]; ok {
		e.noticeID = noticeID
	}
}

// take removes and returns an entry, stopping its timer. Returns nil if the
// entry already resolved: undo and expire race, first one wins.
func (l *ledger) take(entryID string) *pendingDelete {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[entryID]
	if !ok {
		return nil
	}
	e.timer.Stop()
	delete(l.entries, entryID)
	delete(l.byTerm, e.term.ID)
	return e
}

// close stops all timers. Pending deletions are already durable in the
// backend, so dropping the entries loses only the undo affordance.
func (l *ledger) close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id, e := range l.entries {
		e.timer.Stop()
		delete(l.entries, id)
		delete(l.byTerm, e.term.ID)
	}
}

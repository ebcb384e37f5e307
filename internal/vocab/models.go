// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package vocab

import (
	"time"
)

// Status is the three-tier review classification of a term.
// The ordering matters: lower values surface earlier in review sessions.
type Status int

const (
	StatusNew      Status = 0
	StatusLearning Status = 1
	StatusMastered Status = 2
)

func (s Status) String() string {
	switch s {
	case StatusLearning:
		return "learning"
	case StatusMastered:
		return "mastered"
	default:
		return "new"
	}
}

// ParseStatus maps a stored status label back to its tier.
// Unknown labels fall back to StatusNew rather than erroring, so a
// hand-edited or legacy database never wedges startup.
func ParseStatus(s string) Status {
	switch s {
	case "learning", "1":
		return StatusLearning
	case "mastered", "2":
		return StatusMastered
	default:
		return StatusNew
	}
}

// Signal is a review-quality input emitted by a study mode.
type Signal string

const (
	SignalEasy Signal = "easy"
	SignalGood Signal = "good"
	SignalHard Signal = "hard"

	// SignalReviewed is the neutral signal from modes that do not grade
	// difficulty (quiz, matching, spelling). It refreshes last_reviewed
	// without touching status.
	SignalReviewed Signal = "reviewed"
)

// Deck is a named collection of terms studied together.
type Deck struct {
	ID          int64      `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	CreatedAt   time.Time  `json:"created_at" yaml:"created_at"`
	LastStudied *time.Time `json:"last_studied,omitempty" yaml:"last_studied,omitempty"`
}

// Term is one vocabulary entry. A term belongs to exactly one deck for
// its lifetime; deck reassignment is not supported.
type Term struct {
	ID         int64  `json:"id" yaml:"id"`
	DeckID     int64  `json:"deck_id" yaml:"deck_id"`
	Term       string `json:"term" yaml:"term"`
	Definition string `json:"definition" yaml:"definition"`
	IPA        string `json:"ipa,omitempty" yaml:"ipa,omitempty"`           // canonically /…/ or empty
	Function   string `json:"function,omitempty" yaml:"function,omitempty"` // part of speech, (…) or empty
}

// Progress is the per-term review record, keyed 1:1 by term id.
// Absence of a record means the term has never been reviewed.
type Progress struct {
	TermID       int64     `json:"term_id" yaml:"term_id"`
	Status       Status    `json:"status" yaml:"status"`
	LastReviewed time.Time `json:"last_reviewed" yaml:"last_reviewed"`
}

// NewTerm is one row of a bulk insert, before trimming and canonicalization.
type NewTerm struct {
	Term       string
	Definition string
	IPA        string
	Function   string
}

// TermPatch is a partial term update; nil fields keep their previous value.
type TermPatch struct {
	Term       *string
	Definition *string
	IPA        *string
	Function   *string
}

// ProgressPatch is a partial progress update. LastReviewed is never part of
// the patch: every progress write stamps it to the current time.
type ProgressPatch struct {
	Status *Status
}

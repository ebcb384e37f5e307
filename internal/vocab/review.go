// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package vocab

import (
	"sort"
)

// Transition applies a review-quality signal to a status.
//
//   - easy always promotes to Mastered.
//   - good promotes New to Learning and otherwise changes nothing; repeated
//     good answers never reach Mastered, only easy does.
//   - hard always demotes to Learning, including from Mastered.
//   - reviewed (and anything unrecognized) leaves the status alone.
func Transition(cur Status, sig Signal) Status {
	switch sig {
	case SignalEasy:
		return StatusMastered
	case SignalGood:
		if cur == StatusNew {
			return StatusLearning
		}
		return cur
	case SignalHard:
		return StatusLearning
	default:
		return cur
	}
}

// BuildReviewOrder returns the terms in flashcard study order: status
// ascending (New before Learning before Mastered), then last-reviewed
// ascending within a tier. The sort is stable, so terms that tie on both
// keys keep their insertion order.
//
// Callers build a session from one invocation and work through that
// snapshot; re-sorting mid-session would move cards out from under the
// user as their progress updates.
func BuildReviewOrder(terms []Term, progressFor func(termID int64) Progress) []Term {
	out := make([]Term, len(terms))
	copy(out, terms)
	sort.SliceStable(out, func(i, j int) bool {
		pi := progressFor(out[i].ID)
		pj := progressFor(out[j].ID)
		if pi.Status != pj.Status {
			return pi.Status < pj.Status
		}
		return pi.LastReviewed.Before(pj.LastReviewed)
	})
	return out
}

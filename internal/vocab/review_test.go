// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package vocab

import (
	"testing"
	"time"
)

func TestTransition(t *testing.T) {
	cases := []struct {
		cur  Status
		sig  Signal
		want Status
	}{
		{StatusNew, SignalEasy, StatusMastered},
		{StatusLearning, SignalEasy, StatusMastered},
		{StatusMastered, SignalEasy, StatusMastered},

		{StatusNew, SignalGood, StatusLearning},
		{StatusLearning, SignalGood, StatusLearning},
		{StatusMastered, SignalGood, StatusMastered},

		{StatusNew, SignalHard, StatusLearning},
		{StatusLearning, SignalHard, StatusLearning},
		{StatusMastered, SignalHard, StatusLearning},

		{StatusNew, SignalReviewed, StatusNew},
		{StatusLearning, SignalReviewed, StatusLearning},
		{StatusMastered, SignalReviewed, StatusMastered},

		{StatusLearning, Signal("bogus"), StatusLearning},
	}
	for _, c := range cases {
		if got := Transition(c.cur, c.sig); got != c.want {
			t.Errorf("Transition(%v, %q) = %v, want %v", c.cur, c.sig, got, c.want)
		}
	}
}

func TestBuildReviewOrder(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	terms := []Term{
		{ID: 1, Term: "mastered-old"},
		{ID: 2, Term: "new-late"},
		{ID: 3, Term: "learning"},
		{ID: 4, Term: "new-early"},
		{ID: 5, Term: "mastered-recent"},
	}
	progress := map[int64]Progress{
		1: {TermID: 1, Status: StatusMastered, LastReviewed: base.Add(-48 * time.Hour)},
		2: {TermID: 2, Status: StatusNew, LastReviewed: base},
		3: {TermID: 3, Status: StatusLearning, LastReviewed: base.Add(-time.Hour)},
		4: {TermID: 4, Status: StatusNew, LastReviewed: base.Add(-24 * time.Hour)},
		5: {TermID: 5, Status: StatusMastered, LastReviewed: base},
	}

	got := BuildReviewOrder(terms, func(id int64) Progress { return progress[id] })

	want := []int64{4, 2, 3, 1, 5}
	if len(got) != len(want) {
		t.Fatalf("got %d terms, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d: got term %d, want %d", i, got[i].ID, id)
		}
	}

	// Input must not be reordered in place.
	if terms[0].ID != 1 || terms[4].ID != 5 {
		t.Error("input slice was mutated")
	}
}

func TestBuildReviewOrderStable(t *testing.T) {
	// Terms tying on both keys keep insertion order.
	when := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	terms := []Term{
		{ID: 10, Term: "a"},
		{ID: 11, Term: "b"},
		{ID: 12, Term: "c"},
	}
	same := func(id int64) Progress {
		return Progress{TermID: id, Status: StatusLearning, LastReviewed: when}
	}

	got := BuildReviewOrder(terms, same)
	for i, want := range []int64{10, 11, 12} {
		if got[i].ID != want {
			t.Errorf("position %d: got term %d, want %d", i, got[i].ID, want)
		}
	}
}

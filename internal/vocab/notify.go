// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package vocab

import "time"

// Notifier is the presentation capability the Store uses to surface
// time-boxed, undoable notifications. The Store owns the expiry timer; a
// Notifier only presents and relays the user's choice through the
// callbacks it was handed.
type Notifier interface {
	// Show displays a dismissible notification and returns an id usable
	// with Dismiss. onUndo and onExpire may be nil.
	Show(message string, duration time.Duration, onUndo, onExpire func()) string
	Dismiss(id string)
}

// Confirmer is the confirmation-dialog capability consulted before
// destructive deck deletion. Gating on it is the caller's job; the Store
// itself never asks.
type Confirmer interface {
	Confirm(title, body string) bool
}

// NopNotifier drops every notification. Deletions still commit and expire
// normally; there is just nothing to undo from.
type NopNotifier struct{}

func (NopNotifier) Show(string, time.Duration, func(), func()) string { return "" }
func (NopNotifier) Dismiss(string)                                    {}

// ConfirmFunc adapts a plain function to Confirmer.
type ConfirmFunc func(title, body string) bool

func (f ConfirmFunc) Confirm(title, body string) bool { return f(title, body) }

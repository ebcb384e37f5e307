// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mtreilly/memorydeck/internal/vocab"
)

// TerminalNotifier satisfies vocab.Notifier for a CLI process. Showing a
// notice prints it; there is no persistent banner to dismiss, so Dismiss
// only marks the notice resolved. The undo interaction itself is driven by
// the term delete command, which prompts on stdin for the undo window.
type TerminalNotifier struct {
	mu     sync.Mutex
	active map[string]bool
}

// NewTerminalNotifier returns a Notifier suited to one-shot CLI runs.
func NewTerminalNotifier() *TerminalNotifier {
	return &TerminalNotifier{active: make(map[string]bool)}
}

func (n *TerminalNotifier) Show(message string, duration time.Duration, onUndo, onExpire func()) string {
	id := uuid.NewString()
	n.mu.Lock()
	n.active[id] = true
	n.mu.Unlock()
	fmt.Printf("%s (undo available for %s)\n", message, duration)
	return id
}

func (n *TerminalNotifier) Dismiss(id string) {
	n.mu.Lock()
	delete(n.active, id)
	n.mu.Unlock()
}

// stdinConfirmer returns a vocab.Confirmer that asks on stdin.
func stdinConfirmer() vocab.Confirmer {
	return vocab.ConfirmFunc(func(title, body string) bool {
		fmt.Println(title)
		return confirmStdin(body + " [y/N] ")
	})
}

// confirmStdin asks a yes/no question on stdin. Anything but y/yes is no.
func confirmStdin(prompt string) bool {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// readLineTimeout reads one stdin line, giving up after d. The second
// return is false on timeout or read error.
func readLineTimeout(d time.Duration) (string, bool) {
	type result struct {
		line string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		ch <- result{line, err}
	}()
	select {
	case r := <-ch:
		if r.err != nil {
			return "", false
		}
		return strings.TrimSpace(r.line), true
	case <-time.After(d):
		return "", false
	}
}

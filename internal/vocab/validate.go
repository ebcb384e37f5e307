// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package vocab

import (
	"fmt"
	"strings"
	"unicode"
)

// ValidationError describes a rejected input. It is surfaced synchronously,
// before any backend call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// deckNameDisallowed are characters rejected in deck names. Deck names end
// up in export filenames, so path separators and quoting characters are out.
const deckNameDisallowed = `/\:"`

// ValidateDeckName checks a prospective deck name against the existing
// decks. The zero-length check applies after trimming; the duplicate check
// is case-insensitive.
func ValidateDeckName(name string, existing []Deck) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &ValidationError{Field: "name", Reason: "deck name must not be empty"}
	}
	if strings.ContainsAny(name, deckNameDisallowed) {
		return &ValidationError{Field: "name", Reason: fmt.Sprintf("deck name must not contain any of %q", deckNameDisallowed)}
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return &ValidationError{Field: "name", Reason: "deck name must not contain control characters"}
		}
	}
	for _, d := range existing {
		if strings.EqualFold(d.Name, name) {
			return &ValidationError{Field: "name", Reason: fmt.Sprintf("a deck named %q already exists", d.Name)}
		}
	}
	return nil
}

// FormatIPA canonicalizes a phonetic transcription: trimmed and wrapped in
// /…/ delimiters, or empty. Already-wrapped input passes through unchanged.
func FormatIPA(ipa string) string {
	content := strings.TrimSpace(ipa)
	content = strings.TrimPrefix(content, "/")
	content = strings.TrimSuffix(content, "/")
	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}
	return "/" + content + "/"
}

// FormatFunction canonicalizes a part-of-speech annotation: trimmed and
// wrapped in (…) unless empty or already wrapped.
func FormatFunction(fn string) string {
	content := strings.TrimSpace(fn)
	if content == "" {
		return ""
	}
	if strings.HasPrefix(content, "(") && strings.HasSuffix(content, ")") {
		return content
	}
	return "(" + content + ")"
}

// CleanNewTerms trims and canonicalizes bulk-insert rows, silently dropping
// rows whose term or definition is empty after trimming.
func CleanNewTerms(rows []NewTerm) []NewTerm {
	out := make([]NewTerm, 0, len(rows))
	for _, r := range rows {
		term := strings.TrimSpace(r.Term)
		def := strings.TrimSpace(r.Definition)
		if term == "" || def == "" {
			continue
		}
		out = append(out, NewTerm{
			Term:       term,
			Definition: def,
			IPA:        FormatIPA(r.IPA),
			Function:   FormatFunction(r.Function),
		})
	}
	return out
}

// ParseTSV parses pasted tab-separated rows into bulk-insert rows.
// Two formats per line:
//
//	term <tab> definition
//	term <tab> function <tab> ipa <tab> definition
//
// Blank lines and lines with any other column count are skipped.
func ParseTSV(text string) []NewTerm {
	var rows []NewTerm
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.Split(line, "\t")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		switch len(parts) {
		case 2:
			rows = append(rows, NewTerm{Term: parts[0], Definition: parts[1]})
		case 4:
			rows = append(rows, NewTerm{Term: parts[0], Function: parts[1], IPA: parts[2], Definition: parts[3]})
		}
	}
	return rows
}

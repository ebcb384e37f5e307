// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package vocab

import (
	"errors"
	"testing"
)

func TestFormatIPA(t *testing.T) {
	cases := []struct{ in, want string }{
		{"kæt", "/kæt/"},
		{"/kæt/", "/kæt/"},
		{"  kæt  ", "/kæt/"},
		{"/ kæt /", "/kæt/"},
		{"kæt/", "/kæt/"},
		{"/kæt", "/kæt/"},
		{"", ""},
		{"   ", ""},
		{"//", ""},
	}
	for _, c := range cases {
		if got := FormatIPA(c.in); got != c.want {
			t.Errorf("FormatIPA(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatFunction(t *testing.T) {
	cases := []struct{ in, want string }{
		{"noun", "(noun)"},
		{"(noun)", "(noun)"},
		{"  verb ", "(verb)"},
		{"", ""},
		{"  ", ""},
	}
	for _, c := range cases {
		if got := FormatFunction(c.in); got != c.want {
			t.Errorf("FormatFunction(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestValidateDeckName(t *testing.T) {
	existing := []Deck{{ID: 1, Name: "Spanish"}}

	if err := ValidateDeckName("French", existing); err != nil {
		t.Errorf("valid name rejected: %v", err)
	}

	bad := []string{
		"",
		"   ",
		"a/b",
		`a\b`,
		"a:b",
		`say "hi"`,
		"tab\there",
		"spanish", // duplicate, case-insensitive
		"SPANISH",
	}
	for _, name := range bad {
		err := ValidateDeckName(name, existing)
		if err == nil {
			t.Errorf("ValidateDeckName(%q) accepted, want error", name)
			continue
		}
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("ValidateDeckName(%q) returned %T, want *ValidationError", name, err)
		}
	}
}

func TestCleanNewTerms(t *testing.T) {
	rows := []NewTerm{
		{Term: "  cat ", Definition: " a small animal ", IPA: "kæt", Function: "noun"},
		{Term: "", Definition: "dropped"},
		{Term: "dropped", Definition: "   "},
		{Term: "dog", Definition: "a loyal animal"},
	}

	got := CleanNewTerms(rows)
	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2", len(got))
	}
	first := got[0]
	if first.Term != "cat" || first.Definition != "a small animal" {
		t.Errorf("row not trimmed: %+v", first)
	}
	if first.IPA != "/kæt/" {
		t.Errorf("IPA = %q, want /kæt/", first.IPA)
	}
	if first.Function != "(noun)" {
		t.Errorf("Function = %q, want (noun)", first.Function)
	}
	if got[1].IPA != "" || got[1].Function != "" {
		t.Errorf("empty optional fields should stay empty: %+v", got[1])
	}
}

func TestParseTSV(t *testing.T) {
	text := "cat\ta small animal\n" +
		"dog\tnoun\tdɒɡ\ta loyal animal\n" +
		"\n" +
		"one\ttwo\tthree\n" + // 3 columns: skipped
		"five\tsix\tseven\teight\tnine\n" // 5 columns: skipped

	rows := ParseTSV(text)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Term != "cat" || rows[0].Definition != "a small animal" {
		t.Errorf("two-column row parsed wrong: %+v", rows[0])
	}
	if rows[1].Term != "dog" || rows[1].Function != "noun" || rows[1].IPA != "dɒɡ" || rows[1].Definition != "a loyal animal" {
		t.Errorf("four-column row parsed wrong: %+v", rows[1])
	}
}

func TestExportTSVRoundTrip(t *testing.T) {
	terms := []Term{
		{ID: 1, Term: "cat", Definition: "a small animal", IPA: "/kæt/", Function: "(noun)"},
		{ID: 2, Term: "run", Definition: "move fast", IPA: "", Function: "(verb)"},
	}

	rows := ParseTSV(string(ExportTSV(terms)))
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	clean := CleanNewTerms(rows)
	for i, r := range clean {
		if r.Term != terms[i].Term || r.Definition != terms[i].Definition ||
			r.IPA != terms[i].IPA || r.Function != terms[i].Function {
			t.Errorf("row %d did not survive round trip: %+v", i, r)
		}
	}
}

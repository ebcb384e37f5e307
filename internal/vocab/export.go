// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package vocab

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// deckExport is the serialized shape for JSON and YAML deck exports.
type deckExport struct {
	Deck  string    `json:"deck" yaml:"deck"`
	Terms []termRow `json:"terms" yaml:"terms"`
}

type termRow struct {
	Term       string `json:"term" yaml:"term"`
	Definition string `json:"definition" yaml:"definition"`
	IPA        string `json:"ipa,omitempty" yaml:"ipa,omitempty"`
	Function   string `json:"function,omitempty" yaml:"function,omitempty"`
	Status     string `json:"status" yaml:"status"`
}

// ExportTSV renders terms as tab-separated rows in the four-column layout
// (term, function, ipa, definition) that ParseTSV reads back, so an export
// re-imports losslessly. Tabs and newlines inside fields are flattened to
// spaces to keep the row structure intact.
func ExportTSV(terms []Term) []byte {
	var buf bytes.Buffer
	for _, t := range terms {
		fields := []string{t.Term, t.Function, t.IPA, t.Definition}
		for i, f := range fields {
			f = strings.ReplaceAll(f, "\t", " ")
			f = strings.ReplaceAll(f, "\n", " ")
			fields[i] = f
		}
		buf.WriteString(strings.Join(fields, "\t"))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// ExportJSON renders a deck and its terms with per-term status labels.
func ExportJSON(deck Deck, terms []Term, progressFor func(int64) Progress) ([]byte, error) {
	out, err := json.MarshalIndent(buildExport(deck, terms, progressFor), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal deck %q: %w", deck.Name, err)
	}
	return out, nil
}

// ExportYAML renders the same shape as ExportJSON in YAML.
func ExportYAML(deck Deck, terms []Term, progressFor func(int64) Progress) ([]byte, error) {
	out, err := yaml.Marshal(buildExport(deck, terms, progressFor))
	if err != nil {
		return nil, fmt.Errorf("marshal deck %q: %w", deck.Name, err)
	}
	return out, nil
}

func buildExport(deck Deck, terms []Term, progressFor func(int64) Progress) deckExport {
	ex := deckExport{Deck: deck.Name, Terms: make([]termRow, 0, len(terms))}
	for _, t := range terms {
		ex.Terms = append(ex.Terms, termRow{
			Term:       t.Term,
			Definition: t.Definition,
			IPA:        t.IPA,
			Function:   t.Function,
			Status:     progressFor(t.ID).Status.String(),
		})
	}
	return ex
}

// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mtreilly/memorydeck/internal/config"
	"github.com/mtreilly/memorydeck/internal/vocab"
)

func newExportCmd(cfg *config.Config, store *vocab.Store) *cobra.Command {
	var (
		format string // "tsv", "json", "yaml"
		out    string // file path or "-" for stdout
	)

	cmd := &cobra.Command{
		Use:   "export <deck>",
		Short: "Export a deck to TSV, JSON, or YAML",
		Long: `Export a deck's terms. The TSV layout (term, function, ipa,
definition) is the one 'term import' reads, so a TSV export re-imports
losslessly. JSON and YAML additionally carry each term's learning status.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deckID, err := parseDeckID(store, args[0])
			if err != nil {
				return err
			}
			deck, ok := store.DeckByID(deckID)
			if !ok {
				return fmt.Errorf("no deck with id %d", deckID)
			}
			terms := store.GetTermsForDeck(deckID)

			var outBytes []byte
			switch format {
			case "tsv":
				outBytes = vocab.ExportTSV(terms)
			case "json":
				outBytes, err = vocab.ExportJSON(deck, terms, store.GetProgressForTerm)
			case "yaml":
				outBytes, err = vocab.ExportYAML(deck, terms, store.GetProgressForTerm)
			default:
				return fmt.Errorf("unsupported format: %s (choose tsv, json, yaml)", format)
			}
			if err != nil {
				return fmt.Errorf("export %s: %w", format, err)
			}

			if out == "-" || out == "" {
				fmt.Print(string(outBytes))
				return nil
			}
			if err := os.WriteFile(out, outBytes, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Printf("Exported %d term(s) to %s\n", len(terms), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "tsv", "Export format: tsv, json, yaml")
	cmd.Flags().StringVarP(&out, "file", "F", "-", "Output file (default: stdout)")

	return cmd
}

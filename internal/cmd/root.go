// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mtreilly/memorydeck/internal/config"
	"github.com/mtreilly/memorydeck/internal/vocab"
)

// NewRootCmd creates the root command for memorydeck.
func NewRootCmd(cfg *config.Config, store *vocab.Store) *cobra.Command {

	root := &cobra.Command{
		Use:   "memorydeck",
		Short: "Study vocabulary with flashcard decks",
		Long: `Build vocabulary decks and study them with flashcards.

memorydeck provides tools to:
- Create decks and fill them with terms
- Import terms from tab-separated files
- Study decks in flashcard sessions with easy/good/hard grading
- Track per-term learning status (new, learning, mastered)
- Export decks to TSV, JSON, or YAML`,
		SilenceUsage: true,
	}

	root.AddCommand(newDeckCmd(cfg, store))
	root.AddCommand(newTermCmd(cfg, store))
	root.AddCommand(newStudyCmd(cfg, store))
	root.AddCommand(newStatsCmd(cfg, store))
	root.AddCommand(newExportCmd(cfg, store))

	return root
}

// truncate shortens s to max runes with an ellipsis.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

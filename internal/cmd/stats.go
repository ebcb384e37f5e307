// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mtreilly/memorydeck/internal/config"
	"github.com/mtreilly/memorydeck/internal/output"
	"github.com/mtreilly/memorydeck/internal/vocab"
)

type deckStats struct {
	Deck        string `json:"deck"`
	Terms       int    `json:"terms"`
	New         int    `json:"new"`
	Learning    int    `json:"learning"`
	Mastered    int    `json:"mastered"`
	LastStudied string `json:"last_studied,omitempty"`
}

func newStatsCmd(cfg *config.Config, store *vocab.Store) *cobra.Command {
	var out output.OutputOptions

	cmd := &cobra.Command{
		Use:   "stats [deck]",
		Short: "Show learning progress per deck",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.Resolve(); err != nil {
				return err
			}

			decks := store.Decks()
			if len(args) == 1 {
				id, err := parseDeckID(store, args[0])
				if err != nil {
					return err
				}
				d, ok := store.DeckByID(id)
				if !ok {
					return fmt.Errorf("no deck with id %d", id)
				}
				decks = []vocab.Deck{d}
			}

			stats := make([]deckStats, 0, len(decks))
			for _, d := range decks {
				s := deckStats{Deck: d.Name}
				if d.LastStudied != nil {
					s.LastStudied = humanize.Time(*d.LastStudied)
				}
				for _, t := range store.GetTermsForDeck(d.ID) {
					s.Terms++
					switch store.GetProgressForTerm(t.ID).Status {
					case vocab.StatusMastered:
						s.Mastered++
					case vocab.StatusLearning:
						s.Learning++
					default:
						s.New++
					}
				}
				stats = append(stats, s)
			}

			if out.Is(output.OutputJSON) {
				return output.JSON(stats)
			}
			if out.Is(output.OutputYAML) {
				return output.YAML(stats)
			}

			if len(stats) == 0 {
				fmt.Println("No decks yet.")
				return nil
			}

			table := output.NewTable("Deck", "Terms", "New", "Learning", "Mastered", "Last Studied")
			for _, s := range stats {
				studied := s.LastStudied
				if studied == "" {
					studied = "never"
				}
				table.AddRow(
					truncate(s.Deck, 30),
					strconv.Itoa(s.Terms),
					strconv.Itoa(s.New),
					strconv.Itoa(s.Learning),
					strconv.Itoa(s.Mastered),
					studied,
				)
			}
			table.Render()
			return nil
		},
	}

	out.AddOutputFlags(cmd, output.OutputTable)
	return cmd
}

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

func newDeckCmd(cfg *config.Config, store *vocab.Store) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deck",
		Short: "Manage vocabulary decks",
		Long:  "Create, list, rename, and delete vocabulary decks.",
	}

	cmd.AddCommand(newDeckCreateCmd(store))
	cmd.AddCommand(newDeckListCmd(store))
	cmd.AddCommand(newDeckRenameCmd(store))
	cmd.AddCommand(newDeckDeleteCmd(store))

	return cmd
}

func newDeckCreateCmd(store *vocab.Store) *cobra.Command {
	var out output.OutputOptions

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.Resolve(); err != nil {
				return err
			}

			name := args[0]
			if err := vocab.ValidateDeckName(name, store.Decks()); err != nil {
				return err
			}

			id, err := store.AddDeck(cmd.Context(), name)
			if err != nil {
				return err
			}

			if out.Is(output.OutputJSON) {
				d, _ := store.DeckByID(id)
				return output.JSON(d)
			}
			fmt.Printf("Deck created: %s (id %d)\n", name, id)
			return nil
		},
	}

	out.AddOutputFlags(cmd, output.OutputTable)
	return cmd
}

func newDeckListCmd(store *vocab.Store) *cobra.Command {
	var out output.OutputOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List decks",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.Resolve(); err != nil {
				return err
			}

			decks := store.Decks()

			if out.Is(output.OutputJSON) {
				return output.JSON(decks)
			}
			if out.Is(output.OutputYAML) {
				return output.YAML(decks)
			}

			if len(decks) == 0 {
				fmt.Println("No decks yet.")
				fmt.Println("Use 'memorydeck deck create <name>' to add one.")
				return nil
			}

			table := output.NewTable("ID", "Name", "Terms", "Last Studied")
			for _, d := range decks {
				studied := "never"
				if d.LastStudied != nil {
					studied = humanize.Time(*d.LastStudied)
				}
				count := len(store.GetTermsForDeck(d.ID))
				table.AddRow(strconv.FormatInt(d.ID, 10), truncate(d.Name, 40), strconv.Itoa(count), studied)
			}
			table.Render()

			fmt.Printf("\nTotal: %d deck(s)\n", len(decks))
			return nil
		},
	}

	out.AddOutputFlags(cmd, output.OutputTable)
	return cmd
}

func newDeckRenameCmd(store *vocab.Store) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <deck-id> <new-name>",
		Short: "Rename a deck",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseDeckID(store, args[0])
			if err != nil {
				return err
			}
			name := args[1]

			// The deck being renamed may keep its own name, so exclude it
			// from the duplicate check.
			var others []vocab.Deck
			for _, d := range store.Decks() {
				if d.ID != id {
					others = append(others, d)
				}
			}
			if err := vocab.ValidateDeckName(name, others); err != nil {
				return err
			}

			if err := store.RenameDeck(cmd.Context(), id, name); err != nil {
				return err
			}
			fmt.Printf("Deck %d renamed to %q\n", id, name)
			return nil
		},
	}

	return cmd
}

func newDeckDeleteCmd(store *vocab.Store) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <deck-id>",
		Short: "Delete a deck and all its terms",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseDeckID(store, args[0])
			if err != nil {
				return err
			}
			d, ok := store.DeckByID(id)
			if !ok {
				fmt.Printf("No deck with id %d\n", id)
				return nil
			}

			terms := len(store.GetTermsForDeck(id))
			if !force {
				ok := stdinConfirmer().Confirm(
					fmt.Sprintf("Delete deck %q?", d.Name),
					fmt.Sprintf("This removes the deck and its %d term(s). There is no undo.", terms),
				)
				if !ok {
					fmt.Println("Aborted.")
					return nil
				}
			}

			if err := store.DeleteDeck(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("Deleted deck %q (%d terms)\n", d.Name, terms)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")
	return cmd
}

func parseDeckID(store *vocab.Store, arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		// Fall back to name lookup for convenience.
		for _, d := range store.Decks() {
			if d.Name == arg {
				return d.ID, nil
			}
		}
		return 0, fmt.Errorf("unknown deck %q (use an id or exact name)", arg)
	}
	return id, nil
}

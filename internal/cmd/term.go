// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mtreilly/memorydeck/internal/config"
	"github.com/mtreilly/memorydeck/internal/output"
	"github.com/mtreilly/memorydeck/internal/vocab"
)

func newTermCmd(cfg *config.Config, store *vocab.Store) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "term",
		Short: "Manage terms within decks",
		Long:  "Add, import, list, edit, and delete vocabulary terms.",
	}

	cmd.AddCommand(newTermAddCmd(store))
	cmd.AddCommand(newTermImportCmd(store))
	cmd.AddCommand(newTermListCmd(store))
	cmd.AddCommand(newTermEditCmd(store))
	cmd.AddCommand(newTermDeleteCmd(cfg, store))

	return cmd
}

func newTermAddCmd(store *vocab.Store) *cobra.Command {
	var (
		definition string
		ipa        string
		function   string
		out        output.OutputOptions
	)

	cmd := &cobra.Command{
		Use:   "add <deck> <term>",
		Short: "Add a term to a deck",
		Long:  "Add a single term. IPA and function are cleaned to the canonical /ipa/ and (function) forms.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.Resolve(); err != nil {
				return err
			}

			deckID, err := parseDeckID(store, args[0])
			if err != nil {
				return err
			}
			if _, ok := store.DeckByID(deckID); !ok {
				return fmt.Errorf("no deck with id %d", deckID)
			}
			if definition == "" {
				return fmt.Errorf("definition is required")
			}

			added, err := store.AddTermsToDeck(cmd.Context(), deckID, []vocab.NewTerm{{
				Term:       args[1],
				Definition: definition,
				IPA:        ipa,
				Function:   function,
			}})
			if err != nil {
				return err
			}
			if len(added) == 0 {
				return fmt.Errorf("term and definition must be non-empty")
			}

			if out.Is(output.OutputJSON) {
				return output.JSON(added[0])
			}
			t := added[0]
			fmt.Printf("Added term %d: %s", t.ID, t.Term)
			if t.IPA != "" {
				fmt.Printf(" %s", t.IPA)
			}
			if t.Function != "" {
				fmt.Printf(" %s", t.Function)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().StringVarP(&definition, "definition", "d", "", "Definition (required)")
	cmd.Flags().StringVar(&ipa, "ipa", "", "IPA pronunciation")
	cmd.Flags().StringVar(&function, "function", "", "Grammatical function (noun, verb, ...)")
	out.AddOutputFlags(cmd, output.OutputTable)

	return cmd
}

func newTermImportCmd(store *vocab.Store) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <deck> <file.tsv>",
		Short: "Import terms from a tab-separated file",
		Long: `Import terms from a TSV file. Two layouts are recognized per line:

  term<TAB>definition
  term<TAB>function<TAB>ipa<TAB>definition

Lines with any other column count are skipped, as are rows whose term or
definition is empty after trimming.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			deckID, err := parseDeckID(store, args[0])
			if err != nil {
				return err
			}
			if _, ok := store.DeckByID(deckID); !ok {
				return fmt.Errorf("no deck with id %d", deckID)
			}

			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[1], err)
			}

			rows := vocab.ParseTSV(string(data))
			if len(rows) == 0 {
				fmt.Println("No importable rows found.")
				return nil
			}

			added, err := store.AddTermsToDeck(cmd.Context(), deckID, rows)
			if err != nil {
				return fmt.Errorf("imported %d of %d term(s) before failure: %w", len(added), len(rows), err)
			}
			fmt.Printf("Imported %d term(s)\n", len(added))
			return nil
		},
	}

	return cmd
}

func newTermListCmd(store *vocab.Store) *cobra.Command {
	var out output.OutputOptions

	cmd := &cobra.Command{
		Use:   "list <deck>",
		Short: "List a deck's terms",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.Resolve(); err != nil {
				return err
			}

			deckID, err := parseDeckID(store, args[0])
			if err != nil {
				return err
			}
			terms := store.GetTermsForDeck(deckID)

			if out.Is(output.OutputJSON) {
				return output.JSON(terms)
			}
			if out.Is(output.OutputYAML) {
				return output.YAML(terms)
			}

			if len(terms) == 0 {
				fmt.Println("No terms in this deck.")
				return nil
			}

			table := output.NewTable("ID", "Term", "IPA", "Function", "Definition", "Status")
			for _, t := range terms {
				status := store.GetProgressForTerm(t.ID).Status.String()
				table.AddRow(
					strconv.FormatInt(t.ID, 10),
					truncate(t.Term, 24),
					t.IPA,
					t.Function,
					truncate(t.Definition, 40),
					status,
				)
			}
			table.Render()

			fmt.Printf("\nTotal: %d term(s)\n", len(terms))
			return nil
		},
	}

	out.AddOutputFlags(cmd, output.OutputTable)
	return cmd
}

func newTermEditCmd(store *vocab.Store) *cobra.Command {
	var (
		term       string
		definition string
		ipa        string
		function   string
	)

	cmd := &cobra.Command{
		Use:   "edit <term-id>",
		Short: "Edit term fields",
		Long:  "Update only the fields whose flags are given; others are left unchanged.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid term id %q", args[0])
			}
			if _, ok := store.TermByID(id); !ok {
				fmt.Printf("No term with id %d\n", id)
				return nil
			}

			var patch vocab.TermPatch
			if cmd.Flags().Changed("term") {
				patch.Term = &term
			}
			if cmd.Flags().Changed("definition") {
				patch.Definition = &definition
			}
			if cmd.Flags().Changed("ipa") {
				cleaned := vocab.FormatIPA(ipa)
				patch.IPA = &cleaned
			}
			if cmd.Flags().Changed("function") {
				cleaned := vocab.FormatFunction(function)
				patch.Function = &cleaned
			}
			if patch.Term == nil && patch.Definition == nil && patch.IPA == nil && patch.Function == nil {
				return fmt.Errorf("nothing to change (use --term, --definition, --ipa, or --function)")
			}

			if err := store.UpdateTerm(cmd.Context(), id, patch); err != nil {
				return err
			}
			fmt.Printf("Updated term %d\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&term, "term", "", "New term text")
	cmd.Flags().StringVarP(&definition, "definition", "d", "", "New definition")
	cmd.Flags().StringVar(&ipa, "ipa", "", "New IPA pronunciation")
	cmd.Flags().StringVar(&function, "function", "", "New grammatical function")

	return cmd
}

func newTermDeleteCmd(cfg *config.Config, store *vocab.Store) *cobra.Command {
	var noUndo bool

	cmd := &cobra.Command{
		Use:   "delete <term-id>",
		Short: "Delete a term (undoable for a few seconds)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid term id %q", args[0])
			}

			entryID, err := store.DeleteTerm(cmd.Context(), id)
			if err != nil {
				return err
			}
			if entryID == "" {
				fmt.Printf("No term with id %d\n", id)
				return nil
			}

			if noUndo {
				store.ExpireDelete(entryID)
				return nil
			}

			fmt.Print("Press u+Enter to undo: ")
			line, ok := readLineTimeout(cfg.UndoWindow)
			if ok && (line == "u" || line == "undo") {
				if err := store.UndoDelete(cmd.Context(), entryID); err != nil {
					return err
				}
				fmt.Println("Restored.")
				return nil
			}
			store.ExpireDelete(entryID)
			fmt.Println("\nDeleted.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&noUndo, "no-undo", false, "Delete immediately without the undo prompt")
	return cmd
}

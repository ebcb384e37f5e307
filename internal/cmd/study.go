// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mtreilly/memorydeck/internal/config"
	"github.com/mtreilly/memorydeck/internal/vocab"
)

func newStudyCmd(cfg *config.Config, store *vocab.Store) *cobra.Command {
	var (
		mode  string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "study <deck>",
		Short: "Run a study session",
		Long: `Study a deck. Cards come up least-learned first: new terms before
learning, learning before mastered, and within a tier the least recently
reviewed first. The order is fixed when the session starts; grading a
card does not reshuffle the cards still ahead.

Modes:
  flashcard  front-to-back with e/g/h grading (moves learning status)
  quiz       multiple-choice definitions (refreshes review time only)
  spelling   type the term from its definition (refreshes review time only)`,
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

			cards := store.ReviewOrder(deckID)
			if len(cards) == 0 {
				fmt.Println("This deck has no terms to study.")
				return nil
			}
			if limit > 0 && len(cards) > limit {
				cards = cards[:limit]
			}

			var seen int
			switch mode {
			case "flashcard":
				seen, err = runFlashcards(cmd, store, deck, cards)
			case "quiz":
				seen, err = runQuiz(cmd, store, deck, cards)
			case "spelling":
				seen, err = runSpelling(cmd, store, deck, cards)
			default:
				return fmt.Errorf("unknown mode %q (choose flashcard, quiz, spelling)", mode)
			}
			if err != nil {
				return err
			}

			if seen > 0 {
				if err := store.MarkDeckStudied(cmd.Context(), deckID); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", "flashcard", "Study mode: flashcard, quiz, spelling")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum cards this session")
	return cmd
}

// runFlashcards is the grading mode: the only one that moves a term's
// learning status.
func runFlashcards(cmd *cobra.Command, store *vocab.Store, deck vocab.Deck, cards []vocab.Term) (int, error) {
	fmt.Printf("Studying %q: %d card(s)\n\n", deck.Name, len(cards))

	reader := bufio.NewReader(os.Stdin)
	var easy, good, hard, skipped, seen int

session:
	for i, card := range cards {
		status := store.GetProgressForTerm(card.ID).Status
		fmt.Printf("[%d/%d] %s", i+1, len(cards), card.Term)
		if card.IPA != "" {
			fmt.Printf("  %s", card.IPA)
		}
		if card.Function != "" {
			fmt.Printf("  %s", card.Function)
		}
		fmt.Printf("  (%s)\n", status)

		fmt.Print("  ... press Enter to reveal ")
		if _, err := reader.ReadString('\n'); err != nil {
			break session
		}
		fmt.Printf("  %s\n", card.Definition)

	grade:
		for {
			fmt.Print("  [e]asy [g]ood [h]ard [s]kip [q]uit: ")
			line, err := reader.ReadString('\n')
			if err != nil {
				break session
			}
			var sig vocab.Signal
			switch strings.ToLower(strings.TrimSpace(line)) {
			case "e":
				sig, easy = vocab.SignalEasy, easy+1
			case "g":
				sig, good = vocab.SignalGood, good+1
			case "h":
				sig, hard = vocab.SignalHard, hard+1
			case "s":
				sig, skipped = vocab.SignalReviewed, skipped+1
			case "q":
				break session
			default:
				continue grade
			}
			if err := store.ApplyReview(cmd.Context(), card.ID, sig); err != nil {
				return seen, err
			}
			seen++
			break grade
		}
		fmt.Println()
	}

	fmt.Printf("\nSession over: %d card(s) reviewed", seen)
	if seen > 0 {
		fmt.Printf(" (%d easy, %d good, %d hard, %d skipped)", easy, good, hard, skipped)
	}
	fmt.Println()
	return seen, nil
}

// runQuiz asks multiple-choice definition questions. Answers emit the
// neutral reviewed signal: the quiz refreshes review time but never moves
// status.
func runQuiz(cmd *cobra.Command, store *vocab.Store, deck vocab.Deck, cards []vocab.Term) (int, error) {
	pool := store.GetTermsForDeck(deck.ID)
	if len(pool) < 2 {
		fmt.Println("Quiz mode needs at least 2 terms in the deck.")
		return 0, nil
	}

	fmt.Printf("Quiz on %q: %d question(s)\n\n", deck.Name, len(cards))

	reader := bufio.NewReader(os.Stdin)
	var correct, seen int

	for i, card := range cards {
		choices := quizChoices(card, pool, 4)
		fmt.Printf("[%d/%d] What does %q mean?\n", i+1, len(cards), card.Term)
		for j, c := range choices {
			fmt.Printf("  %d) %s\n", j+1, c.Definition)
		}

		fmt.Print("  answer (or q to quit): ")
		line, err := reader.ReadString('\n')
		if err != nil {
			break
		}
		answer := strings.TrimSpace(line)
		if strings.EqualFold(answer, "q") {
			break
		}

		n, err := strconv.Atoi(answer)
		if err == nil && n >= 1 && n <= len(choices) && choices[n-1].ID == card.ID {
			correct++
			fmt.Println("  correct!")
		} else {
			fmt.Printf("  wrong: %s\n", card.Definition)
		}
		if err := store.ApplyReview(cmd.Context(), card.ID, vocab.SignalReviewed); err != nil {
			return seen, err
		}
		seen++
		fmt.Println()
	}

	fmt.Printf("\nQuiz over: %d/%d correct\n", correct, seen)
	return seen, nil
}

// quizChoices builds up to n answer options including the right one,
// shuffled.
func quizChoices(card vocab.Term, pool []vocab.Term, n int) []vocab.Term {
	choices := []vocab.Term{card}
	perm := rand.Perm(len(pool))
	for _, idx := range perm {
		if len(choices) == n {
			break
		}
		if pool[idx].ID != card.ID {
			choices = append(choices, pool[idx])
		}
	}
	rand.Shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})
	return choices
}

// runSpelling prompts with the definition and checks the typed term.
// Comparison ignores case and surrounding whitespace. Like quiz mode,
// spelling emits only the neutral reviewed signal.
func runSpelling(cmd *cobra.Command, store *vocab.Store, deck vocab.Deck, cards []vocab.Term) (int, error) {
	fmt.Printf("Spelling on %q: %d word(s)\n\n", deck.Name, len(cards))

	reader := bufio.NewReader(os.Stdin)
	var correct, seen int

	for i, card := range cards {
		fmt.Printf("[%d/%d] %s\n", i+1, len(cards), card.Definition)
		if card.IPA != "" {
			fmt.Printf("  hint: %s\n", card.IPA)
		}

		fmt.Print("  spell it (or !q to quit): ")
		line, err := reader.ReadString('\n')
		if err != nil {
			break
		}
		answer := strings.TrimSpace(line)
		if answer == "!q" {
			break
		}

		if strings.EqualFold(answer, card.Term) {
			correct++
			fmt.Println("  correct!")
		} else {
			fmt.Printf("  wrong: %s\n", card.Term)
		}
		if err := store.ApplyReview(cmd.Context(), card.ID, vocab.SignalReviewed); err != nil {
			return seen, err
		}
		seen++
		fmt.Println()
	}

	fmt.Printf("\nSpelling over: %d/%d correct\n", correct, seen)
	return seen, nil
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/scholarprep/internal/scoring"
	"github.com/abhisek/scholarprep/internal/session"
	"github.com/abhisek/scholarprep/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics across all sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryAnswers(cmd.Context(), store.QueryOpts{})
		if err != nil {
			return fmt.Errorf("query answers: %w", err)
		}
		answers := session.AnswersFromEvents(events)
		in := scoring.ComputeInsights(answers, scoring.Errors(answers))
		if in.Empty() {
			fmt.Println("No answers recorded yet. Finish a practice exam first.")
			return nil
		}

		fmt.Println("Overview")
		fmt.Println(strings.Repeat("─", 48))
		fmt.Printf("Answers:   %d\n", in.TotalAnswers)
		fmt.Printf("Accuracy:  %.0f%%\n", in.Accuracy)
		fmt.Printf("Errors:    %d\n", in.TotalErrors)

		if len(in.TopErrors) > 0 {
			fmt.Println()
			fmt.Println("Recurring Errors")
			fmt.Println(strings.Repeat("─", 48))
			for _, e := range in.TopErrors {
				fmt.Printf("%-36s  %5d\n", truncate(e.TopicID, 36), e.Count)
			}
		}

		fmt.Println()
		fmt.Println("Pacing (seconds per question)")
		fmt.Println(strings.Repeat("─", 48))
		fmt.Printf("Overall:   %.1f\n", in.Pacing.Overall)
		fmt.Printf("Correct:   %.1f\n", in.Pacing.Correct)
		fmt.Printf("Incorrect: %.1f\n", in.Pacing.Incorrect)

		if len(in.Categories) > 0 {
			fmt.Println()
			fmt.Println("By Skill")
			fmt.Println(strings.Repeat("─", 48))
			for _, c := range in.Categories {
				fmt.Printf("%-24s  %4d/%-4d  %5.0f%%\n", truncate(c.Category, 24), c.Correct, c.Total, c.Accuracy())
			}
		}
		return nil
	},
}

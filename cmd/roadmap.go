package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/scholarprep/internal/content"
	"github.com/abhisek/scholarprep/internal/session"
)

var roadmapCmd = &cobra.Command{
	Use:   "roadmap",
	Short: "Generate a study roadmap without the TUI",
	Long: `Run onboarding headlessly and print the generated roadmap.

The roadmap is saved like any other session, so "scholarprep play"
picks it up afterwards.`,
	RunE: runRoadmap,
}

func init() {
	roadmapCmd.Flags().StringSlice("subjects", []string{"English", "Mathematics"}, "Exactly two subjects, comma separated")
	roadmapCmd.Flags().String("date", "", "Target exam date, YYYY-MM-DD (default: 60 days from today)")
	roadmapCmd.Flags().String("weaknesses", "", "Free-text description of weak areas")
	roadmapCmd.Flags().Bool("json", false, "Print the roadmap as JSON")
}

func runRoadmap(cmd *cobra.Command, args []string) error {
	subjects, _ := cmd.Flags().GetStringSlice("subjects")
	date, _ := cmd.Flags().GetString("date")
	weaknesses, _ := cmd.Flags().GetString("weaknesses")
	asJSON, _ := cmd.Flags().GetBool("json")

	if len(subjects) != 2 {
		return fmt.Errorf("--subjects needs exactly two subjects, got %d", len(subjects))
	}
	if date == "" {
		date = time.Now().AddDate(0, 0, 60).Format(session.DateLayout)
	}

	rt, err := bootstrap(cmd, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	ticket, err := rt.machine.CompleteOnboarding(session.Profile{
		Subjects:   [2]string{strings.TrimSpace(subjects[0]), strings.TrimSpace(subjects[1])},
		TargetDate: date,
		Weaknesses: weaknesses,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, "Building your study roadmap...")
	if err := rt.machine.Run(cmd.Context(), ticket); err != nil {
		return fmt.Errorf("generate roadmap: %w", err)
	}

	r := rt.machine.Roadmap()
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	printRoadmap(r)
	return nil
}

func printRoadmap(r *content.Roadmap) {
	fmt.Printf("Roadmap %s → %s  (%d weeks, %d tasks)\n", r.StartDate, r.EndDate, len(r.Schedule), r.TaskCount())
	for _, w := range r.Schedule {
		fmt.Println()
		fmt.Printf("Week %d: %s\n", w.Week, w.Theme)
		fmt.Println(strings.Repeat("─", 60))
		for _, t := range w.Tasks {
			label := t.Description
			if label == "" {
				label = t.TopicID
			}
			fmt.Printf("  %-10s  %-8s  %-12s  %s\n", t.Day, t.TaskType, t.Subject, label)
		}
	}
}

package cmd

import (
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start or resume a study session",
	RunE: func(cmd *cobra.Command, args []string) error {
		fresh, _ := cmd.Flags().GetBool("fresh")
		return runApp(cmd, fresh)
	},
}

func init() {
	playCmd.Flags().Bool("fresh", false, "Ignore the saved session and start onboarding again")
}

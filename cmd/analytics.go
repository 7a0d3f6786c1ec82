package cmd

import "github.com/spf13/cobra"

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Launch the TUI on the analytics dashboard",
	Long:  "Open secnews on the analytics view: summary cards, per-source and per-type counts, and the most affected locations.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(true)
	},
}

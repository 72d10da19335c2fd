package cmd

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "sentinel-criptobot",
	Short: "Telegram signal bot with confluence scoring and weekly summaries",
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func Execute() error {
	return rootCmd.Execute()
}

package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tradein-estimator",
	Short: "Boat trade-in estimator",
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(estimateCmd)
}

func Execute() error {
	return rootCmd.Execute()
}

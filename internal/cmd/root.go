package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "Kalban Greenbag order and customization service",
	Long: `Kalban Greenbag serves the order and product customization API:
order lifecycle, paginated lookups and status analytics for dashboards.

Run "server migrate" once to create the schema, then "server serve".`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var checkConfigCmd = &cobra.Command{
	Use:   "check-config",
	Short: "Load and validate the environment",
	Long:  `Load configuration the way the server does and print it with secrets masked.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		summary := cfg.Redacted()
		keys := make([]string, 0, len(summary))
		for k := range summary {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			fmt.Printf("%-24s %s\n", k, summary[k])
		}
		fmt.Println("\nConfiguration OK")
	},
}

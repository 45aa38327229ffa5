package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"marie/internal/config"
	"marie/internal/usage"
)

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Print aggregated token usage",
	RunE:  runUsage,
}

func runUsage(cmd *cobra.Command, args []string) error {
	dataDir, err := config.DataDir()
	if err != nil {
		return err
	}
	tracker, err := usage.NewTracker(dataDir)
	if err != nil {
		return err
	}

	stats := tracker.Stats()
	fmt.Printf("Analyses completed: %d\n", stats.Analyses)
	fmt.Printf("Total tokens: %d (%d in, %d out)\n\n", stats.Total.Total, stats.Total.Input, stats.Total.Output)

	printBreakdown("By provider", stats.ByProvider)
	printBreakdown("By model", stats.ByModel)
	printBreakdown("By stage", stats.ByStage)
	return nil
}

func printBreakdown(title string, counts map[string]usage.TokenCounts) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Println(title + ":")
	for _, k := range keys {
		c := counts[k]
		fmt.Printf("  %-24s %10d (%d in, %d out)\n", k, c.Total, c.Input, c.Output)
	}
	fmt.Println()
}

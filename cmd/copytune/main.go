package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:           "copytune",
		Short:         "Scan, classify, and rewrite UI copy in design snapshots",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newScanCmd(),
		newOptimizeCmd(),
		newBatchCmd(),
		newChatCmd(),
		newExportCmd(),
		newRevertCmd(),
		newReviewCmd(),
		newAgentCmd(),
		newModelCmd(),
		newTermCmd(),
		newRuleCmd(),
		newHistoryCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

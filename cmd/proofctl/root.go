package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "proofctl",
	Short: "Inspect and evaluate building safety reports locally",
	Long: `proofctl runs the proofing core against report files on disk — parse a
report into its section document, evaluate a checklist's deterministic rules,
or canonicalise floor names — without touching the judge or any remote
service.`,
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	execute()
}

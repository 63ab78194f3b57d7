package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/metrosafety/proofd/internal/assemble"
	"github.com/metrosafety/proofd/internal/config"
	"github.com/metrosafety/proofd/internal/ingest"
)

var parseWorkType string

var parseCmd = &cobra.Command{
	Use:   "parse <report-file>",
	Short: "Parse a report into its section document",
	Long: `Parse a report file (.json Textract output, .md, or .docx) and print the
section document as JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		ing, err := ingest.ForFile(path)
		if err != nil {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		var headings *assemble.HeadingSet
		if parseWorkType != "" {
			cl, err := config.LoadChecklists(os.Getenv("CHECKLIST_CONFIG"))
			if err != nil {
				return err
			}
			headings = assemble.NewHeadingSet(cl.HeadingsFor(parseWorkType))
		}

		doc, err := ing.Ingest(f, filepath.Base(path), headings)
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	},
}

func init() {
	parseCmd.Flags().StringVar(&parseWorkType, "work-type", "", "Heading vocabulary to apply (fra, hsa, water)")
	rootCmd.AddCommand(parseCmd)
}

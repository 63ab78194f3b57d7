package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/metrosafety/proofd/internal/assemble"
	"github.com/metrosafety/proofd/internal/config"
	"github.com/metrosafety/proofd/internal/ingest"
	"github.com/metrosafety/proofd/internal/rules"
)

var (
	evalWorkType    string
	evalShowPrompts bool
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <report-file>",
	Short: "Run a checklist's rules against a report",
	Long: `Evaluate the deterministic checklist rules against a report file. Questions
that need the semantic judge are listed with JUDGE; pass --show-prompts to see
what would be sent.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cl, err := config.LoadChecklists(os.Getenv("CHECKLIST_CONFIG"))
		if err != nil {
			return err
		}

		var registry *rules.Registry
		switch evalWorkType {
		case "fra":
			registry = rules.FRAChecklist()
		case "hsa":
			registry = rules.HSAChecklist()
		case "water":
			registry = rules.WaterChecklist(rules.WaterParams{
				ListingSection:   cl.Water.ListingSection,
				ExpectedItems:    cl.Water.ExpectedItems,
				NarrativeSection: cl.Water.NarrativeSection,
				ExcludePrefixes:  cl.Water.ExcludePrefixes,
			})
		default:
			return fmt.Errorf("unknown work type: %q (want fra, hsa or water)", evalWorkType)
		}

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

		headings := assemble.NewHeadingSet(cl.HeadingsFor(evalWorkType))
		doc, err := ing.Ingest(f, filepath.Base(path), headings)
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s checklist — %d sections parsed\n\n", strings.ToUpper(evalWorkType), len(doc.Sections))

		pass := color.New(color.FgGreen).SprintFunc()
		fail := color.New(color.FgRed).SprintFunc()
		pend := color.New(color.FgYellow).SprintFunc()

		for _, res := range registry.Evaluate(doc) {
			heading := registry.Heading(res.Question)
			switch {
			case !res.Decided:
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s — %s\n", pend("JUDGE"), res.Question, heading)
				if evalShowPrompts {
					fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n\n", res.Prompt)
				}
			case strings.HasPrefix(res.Verdict, rules.PassToken):
				fmt.Fprintf(cmd.OutOrStdout(), "%s   %s — %s\n", pass(rules.PassToken), res.Question, heading)
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "%s   %s — %s\n", fail(rules.FailToken), res.Question, heading)
				fmt.Fprintf(cmd.OutOrStdout(), "       %s\n", res.Verdict)
			}
		}
		return nil
	},
}

func init() {
	evaluateCmd.Flags().StringVar(&evalWorkType, "work-type", "fra", "Checklist to run (fra, hsa, water)")
	evaluateCmd.Flags().BoolVar(&evalShowPrompts, "show-prompts", false, "Print the judge prompts for undecided questions")
	rootCmd.AddCommand(evaluateCmd)
}

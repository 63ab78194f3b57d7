package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/metrosafety/proofd/internal/rules"
)

var floorsCmd = &cobra.Command{
	Use:   "floors <name>...",
	Short: "Canonicalise floor names",
	Long: `Map free-text floor names ("B5", "Grd Mezzanine", "2nd") onto the
recognised floor vocabulary.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		miss := color.New(color.FgRed).SprintFunc()
		for _, name := range args {
			canonical, ok := rules.CanonicalFloor(name)
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "%-30s %s\n", name, miss("(not recognised)"))
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-30s %s\n", name, canonical)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(floorsCmd)
}

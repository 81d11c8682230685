package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sumanth428/market-basket-analysis/internal/pipeline"
	"github.com/sumanth428/market-basket-analysis/internal/report"
)

var (
	recSource sourceFlags
	recMining miningFlags
	recRank   rankFlags
)

var recommendCmd = &cobra.Command{
	Use:   "recommend <file> <item>",
	Short: "Show what customers who bought an item are likely to buy too",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rankBy, topK, err := recRank.resolve(cmd)
		if err != nil {
			return err
		}
		_, run, err := loadAndRun(cmd.Context(), cmd, &recSource, &recMining, pipeline.NewRunner(nil), args[0])
		if err != nil {
			return err
		}
		item := strings.TrimSpace(args[1])
		out := cmd.OutOrStdout()

		if _, ok := run.Matrix.Column(item); !ok {
			fmt.Fprintf(out, "⚠ %q does not appear in %s.\n", item, run.Name)
			fmt.Fprintln(out, "  Run `basket items` to list the available items.")
			return nil
		}
		recs, err := run.Recommend(item, rankBy, topK)
		if err != nil {
			return err
		}
		if len(recs) == 0 {
			fmt.Fprintf(out, "⚠ No association rules found with %q in the antecedent.\n", item)
			fmt.Fprintln(out, "  Try a lower --min-support or --min-threshold.")
			return nil
		}
		report.Table(out, fmt.Sprintf("Recommendations for %s (ranked by %s)", item, rankBy), recs)
		best := recs[0]
		fmt.Fprintf(out, "✓ Strongest recommendation: customers who buy %s are likely to also buy %s (confidence %.1f%%, lift %.2f)\n",
			best.Antecedent.String(), best.Consequent.String(), best.Confidence*100, best.Lift)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(recommendCmd)
	recSource.register(recommendCmd.Flags())
	recMining.register(recommendCmd.Flags())
	recRank.register(recommendCmd.Flags())
}

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sumanth428/market-basket-analysis/internal/dataset"
	"github.com/sumanth428/market-basket-analysis/internal/pipeline"
	"github.com/sumanth428/market-basket-analysis/internal/report"
)

var (
	anaSource     sourceFlags
	anaMining     miningFlags
	anaOutputPath string
	anaTopItems   int
	anaItemsets   int
	anaQuiet      bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Mine frequent itemsets and association rules from a transaction file",
	Long: `Load a CSV/TSV/XLSX transaction file, mine frequent itemsets with Apriori and
print the association rules that pass --metric >= --min-threshold.

By default every row is one transaction made of its non-empty cells. With
--item-column and --group-by the file is read as an event log instead, one
item per row, grouped into transactions by the given columns.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, run, err := loadAndRun(cmd.Context(), cmd, &anaSource, &anaMining, pipeline.NewRunner(nil), args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if !anaQuiet {
			fmt.Fprintln(out, ds.Markdown(anaTopItems))
			report.ItemsetTable(out, "Frequent itemsets", run.Frequent, 1, anaItemsets)
			fmt.Fprintln(out)
		}
		printRules(out, run)
		if anaOutputPath != "" {
			if err := report.Export(anaOutputPath, run.Rules.Rules()); err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ Wrote %d rules to %s\n", run.Rules.Len(), anaOutputPath)
		}
		return nil
	},
}

// loadAndRun reads path and mines it with the thresholds resolved from flags and config.
func loadAndRun(ctx context.Context, cmd *cobra.Command, src *sourceFlags, mf *miningFlags, runner *pipeline.Runner, path string) (*dataset.Dataset, *pipeline.Run, error) {
	params, err := mf.params(cmd)
	if err != nil {
		return nil, nil, err
	}
	opt, err := src.options(cmd)
	if err != nil {
		return nil, nil, err
	}
	ds, err := dataset.Load(path, opt)
	if err != nil {
		return nil, nil, err
	}
	run, err := runner.Execute(ctx, ds.Name, ds.Transactions, params)
	if err != nil {
		return ds, nil, err
	}
	return ds, run, nil
}

func printRules(out io.Writer, run *pipeline.Run) {
	rs := run.Rules
	title := fmt.Sprintf("Association rules (%s >= %g, min support %g)", rs.Metric(), rs.Threshold(), run.Params.MinSupport)
	report.Table(out, title, rs.Rules())
	if rs.Len() == 0 {
		fmt.Fprintf(out, "⚠ No rules passed the threshold (%d frequent itemsets found).\n", run.Frequent.Len())
		fmt.Fprintln(out, "  Try a lower --min-support or --min-threshold.")
		return
	}
	fmt.Fprintf(out, "✓ %d rules from %d frequent itemsets over %d transactions\n",
		rs.Len(), run.Frequent.Len(), run.Frequent.NumTransactions())
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	anaSource.register(analyzeCmd.Flags())
	anaMining.register(analyzeCmd.Flags())
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "export rules to a file (.csv, .json, .xlsx or .md)")
	analyzeCmd.Flags().IntVar(&anaTopItems, "top-items", 10, "most frequent items listed in the summary")
	analyzeCmd.Flags().IntVar(&anaItemsets, "itemsets", 20, "frequent itemsets shown (0 = all)")
	analyzeCmd.Flags().BoolVarP(&anaQuiet, "quiet", "q", false, "print only the rule table")
}

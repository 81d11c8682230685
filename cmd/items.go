package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sumanth428/market-basket-analysis/internal/basket"
	"github.com/sumanth428/market-basket-analysis/internal/dataset"
	"github.com/sumanth428/market-basket-analysis/internal/pipeline"
)

var (
	itemsSource      sourceFlags
	itemsMining      miningFlags
	itemsAntecedents bool
	itemsCounts      bool
)

var itemsCmd = &cobra.Command{
	Use:   "items <file>",
	Short: "List the items of a transaction file",
	Long: `List the distinct items of a transaction file in ascending order.

With --antecedents only items that start at least one mined rule are listed;
these are the items recommend can answer for.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if itemsAntecedents {
			_, run, err := loadAndRun(cmd.Context(), cmd, &itemsSource, &itemsMining, pipeline.NewRunner(nil), args[0])
			if err != nil {
				return err
			}
			items := basket.AntecedentItems(run.Rules)
			if len(items) == 0 {
				fmt.Fprintln(out, "(no rules; try a lower --min-support or --min-threshold)")
				return nil
			}
			for _, it := range items {
				fmt.Fprintln(out, it)
			}
			return nil
		}

		opt, err := itemsSource.options(cmd)
		if err != nil {
			return err
		}
		ds, err := dataset.Load(args[0], opt)
		if err != nil {
			return err
		}
		if len(ds.ItemCounts) == 0 {
			fmt.Fprintln(out, "(no items)")
			return nil
		}
		counts := make(map[string]int, len(ds.ItemCounts))
		for _, ic := range ds.ItemCounts {
			counts[ic.Item] = ic.Count
		}
		for _, it := range ds.Items() {
			if itemsCounts {
				fmt.Fprintf(out, "%s\t%d\n", it, counts[it])
			} else {
				fmt.Fprintln(out, it)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(itemsCmd)
	itemsSource.register(itemsCmd.Flags())
	itemsMining.register(itemsCmd.Flags())
	itemsCmd.Flags().BoolVar(&itemsAntecedents, "antecedents", false, "list only items that appear in a rule antecedent")
	itemsCmd.Flags().BoolVar(&itemsCounts, "counts", false, "print the number of transactions containing each item")
}

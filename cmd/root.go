package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sumanth428/market-basket-analysis/internal/basket"
	cfgpkg "github.com/sumanth428/market-basket-analysis/internal/config"
)

var (
	// Global flags
	cfgFile   string
	debug     bool
	logLevel  string
	logFormat string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "basket",
	Short: "basket: market-basket analysis for transaction files",
	Long: `basket mines frequent itemsets and association rules from transaction data
(CSV, TSV or XLSX) with the Apriori algorithm, and answers "customers who bought X
also bought" queries from the mined rules.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		lc := cfgpkg.LogConfig{Level: "info", Format: "console"}
		if cfg != nil {
			lc = cfg.LogConfig
		}
		if logLevel != "" {
			lc.Level = logLevel
		}
		if logFormat != "" {
			lc.Format = logFormat
		}
		if debug {
			lc.Level = "debug"
		}
		return cfgpkg.InitLogger(lc)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		printError(rootCmd, err)
		os.Exit(1)
	}
}

func printError(cmd *cobra.Command, err error) {
	fmt.Fprintln(cmd.ErrOrStderr(), "✗ Error:", err)
	if hint := basket.Hint(err); hint != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), "  Hint:", hint)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.basket/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: console|json (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: flag defaults still apply
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfg = nil
		return
	}
	if err := c.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v\n", err)
	}
	cfg = c
}

package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sumanth428/market-basket-analysis/internal/basket"
	cfgpkg "github.com/sumanth428/market-basket-analysis/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set basket configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "min_support: %g\n", cfg.MinSupport)
		fmt.Fprintf(out, "max_len: %d\n", cfg.MaxLen)
		fmt.Fprintf(out, "metric: %s\n", cfg.Metric)
		fmt.Fprintf(out, "min_threshold: %g\n", cfg.MinThreshold)
		fmt.Fprintf(out, "rank_by: %s\n", cfg.RankBy)
		fmt.Fprintf(out, "top_k: %d\n", cfg.TopK)
		fmt.Fprintf(out, "max_rows: %d\n", cfg.MaxRows)
		fmt.Fprintf(out, "missing_values: %s\n", strings.Join(cfg.MissingValues, ", "))
		fmt.Fprintf(out, "concurrency: %d\n", cfg.Concurrency)
		fmt.Fprintf(out, "log_level: %s\n", cfg.Level)
		fmt.Fprintf(out, "log_format: %s\n", cfg.Format)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], strings.TrimSpace(args[1])
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		next := *cfg
		switch key {
		case "min_support":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return eris.Errorf("invalid float for min_support: %v", val)
			}
			next.MinSupport = f
		case "max_len":
			i, err := strconv.Atoi(val)
			if err != nil {
				return eris.Errorf("invalid int for max_len: %v", val)
			}
			next.MaxLen = i
		case "metric", "rank_by":
			m, err := basket.ParseMetric(val)
			if err != nil {
				return err
			}
			if key == "metric" {
				next.Metric = string(m)
			} else {
				next.RankBy = string(m)
			}
		case "min_threshold":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return eris.Errorf("invalid float for min_threshold: %v", val)
			}
			next.MinThreshold = f
		case "top_k", "max_rows", "concurrency":
			i, err := strconv.Atoi(val)
			if err != nil {
				return eris.Errorf("invalid int for %s: %v", key, val)
			}
			switch key {
			case "top_k":
				next.TopK = i
			case "max_rows":
				next.MaxRows = i
			default:
				next.Concurrency = i
			}
		case "missing_values":
			var vals []string
			for _, v := range strings.Split(val, ",") {
				if v = strings.TrimSpace(v); v != "" {
					vals = append(vals, v)
				}
			}
			next.MissingValues = vals
		case "log_level":
			next.Level = strings.ToLower(val)
		case "log_format":
			next.Format = strings.ToLower(val)
		default:
			return eris.Errorf("unknown key: %s", key)
		}
		if err := next.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(&next, cfgFile); err != nil {
			return err
		}
		cfg = &next
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

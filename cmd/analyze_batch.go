package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	cfgpkg "github.com/sumanth428/market-basket-analysis/internal/config"
	"github.com/sumanth428/market-basket-analysis/internal/pipeline"
	"github.com/sumanth428/market-basket-analysis/internal/report"
	"github.com/sumanth428/market-basket-analysis/internal/utils"
)

var (
	abSource      sourceFlags
	abMining      miningFlags
	abConcurrency int
	abOutDir      string
	abFormat      string
	abQuiet       bool
)

type batchResult struct {
	path string
	out  bytes.Buffer
	err  error
}

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze several transaction files concurrently",
	Long: `Analyze each file independently with the same thresholds. Files are processed
concurrently; a failing file does not stop the others. Arguments may be globs.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var files []string
		seen := map[string]struct{}{}
		for _, arg := range args {
			matches, _ := filepath.Glob(arg)
			if len(matches) == 0 {
				// treat as literal path if exists
				if _, err := os.Stat(arg); err == nil {
					matches = []string{arg}
				}
			}
			for _, m := range matches {
				if _, ok := seen[m]; ok {
					continue
				}
				seen[m] = struct{}{}
				files = append(files, m)
			}
		}
		if len(files) == 0 {
			return eris.New("no input files matched")
		}
		sort.Strings(files)

		format := "." + strings.TrimPrefix(strings.ToLower(abFormat), ".")
		if abOutDir != "" {
			switch format {
			case ".csv", ".json", ".xlsx", ".md":
			default:
				return eris.Errorf("unsupported --format: %s (use csv, json, xlsx or md)", abFormat)
			}
			if err := utils.EnsureDir(abOutDir); err != nil {
				return err
			}
		}
		concurrency := setting(cmd, "concurrency", abConcurrency, func(c *cfgpkg.Global) int { return c.Concurrency })
		if concurrency < 1 {
			concurrency = 1
		}

		var dests []string
		if abOutDir != "" {
			dests = utils.OutputNames(abOutDir, files, format)
		}

		cache := pipeline.NewCache()
		runner := pipeline.NewRunner(cache)
		results := make([]*batchResult, len(files))
		var failed atomic.Int64

		zap.L().Info("starting batch analysis", zap.Int("files", len(files)), zap.Int("concurrency", concurrency))
		g, gctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(concurrency)
		for i, path := range files {
			res := &batchResult{path: path}
			results[i] = res
			g.Go(func() error {
				log := zap.L().With(zap.String("file", path))
				_, run, err := loadAndRun(gctx, cmd, &abSource, &abMining, runner, path)
				if err == nil && abOutDir != "" {
					dest := dests[i]
					if err = report.Export(dest, run.Rules.Rules()); err == nil {
						fmt.Fprintf(&res.out, "✓ Wrote %d rules to %s\n", run.Rules.Len(), dest)
					}
				}
				if err != nil {
					failed.Add(1)
					res.err = err
					log.Error("analysis failed", zap.Error(err))
					return nil // don't abort batch on individual failure
				}
				if !abQuiet {
					printRules(&res.out, run)
				}
				return nil
			})
		}
		_ = g.Wait()

		out := cmd.OutOrStdout()
		total := len(files)
		for i, res := range results {
			fmt.Fprintf(out, "[%d/%d] %s\n", i+1, total, filepath.Base(res.path))
			if res.err != nil {
				fmt.Fprintf(out, "✗ %v\n", res.err)
				continue
			}
			_, _ = res.out.WriteTo(out)
		}
		hits, _ := cache.Stats()
		zap.L().Debug("batch analysis finished", zap.Int64("failed", failed.Load()), zap.Int("cache_hits", hits))
		if n := failed.Load(); n > 0 {
			return eris.Errorf("%d of %d files failed", n, total)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	abSource.register(analyzeBatchCmd.Flags())
	abMining.register(analyzeBatchCmd.Flags())
	analyzeBatchCmd.Flags().IntVar(&abConcurrency, "concurrency", 4, "files analyzed in parallel")
	analyzeBatchCmd.Flags().StringVar(&abOutDir, "out-dir", "", "export each file's rules into this directory")
	analyzeBatchCmd.Flags().StringVar(&abFormat, "format", "csv", "export format for --out-dir: csv|json|xlsx|md")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress rule tables")
}

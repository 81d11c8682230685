package cmd

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sumanth428/market-basket-analysis/internal/basket"
	cfgpkg "github.com/sumanth428/market-basket-analysis/internal/config"
	"github.com/sumanth428/market-basket-analysis/internal/dataset"
	"github.com/sumanth428/market-basket-analysis/internal/pipeline"
)

// sourceFlags select and shape the transaction file.
type sourceFlags struct {
	delimiter  string
	noHeader   bool
	maxRows    int
	sampleRows int
	itemColumn string
	groupBy    []string
	missing    []string
	sheetName  string
	sheetIndex int
}

func (s *sourceFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&s.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | '|' (auto-detect if omitted)")
	fs.BoolVar(&s.noHeader, "no-header", false, "treat the first row as data rather than column names")
	fs.IntVar(&s.maxRows, "max-rows", 0, "maximum data rows to process (0 = unlimited)")
	fs.IntVar(&s.sampleRows, "sample-rows", 5, "number of raw rows to preview in the summary")
	fs.StringVar(&s.itemColumn, "item-column", "", "event-log mode: column holding one item per row")
	fs.StringSliceVar(&s.groupBy, "group-by", nil, "event-log mode: columns identifying a transaction, e.g. Member_number,Date")
	fs.StringSliceVar(&s.missing, "missing", nil, "cell values treated as missing (replaces the configured list)")
	fs.StringVar(&s.sheetName, "sheet-name", "", "XLSX: sheet name to read")
	fs.IntVar(&s.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}

func (s *sourceFlags) options(cmd *cobra.Command) (dataset.Options, error) {
	opt := dataset.DefaultOptions()
	switch s.delimiter {
	case "":
	case ",":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";":
		opt.Delimiter = ';'
	case "|", "pipe":
		opt.Delimiter = '|'
	default:
		return opt, eris.Errorf("unsupported --delimiter: %s", s.delimiter)
	}
	opt.Header = !s.noHeader
	opt.MaxRows = setting(cmd, "max-rows", s.maxRows, func(c *cfgpkg.Global) int { return c.MaxRows })
	opt.SampleRows = s.sampleRows
	opt.ItemColumn = strings.TrimSpace(s.itemColumn)
	opt.GroupBy = s.groupBy
	if opt.ItemColumn == "" && len(opt.GroupBy) > 0 {
		return opt, eris.New("--group-by requires --item-column")
	}
	if opt.ItemColumn != "" && len(opt.GroupBy) == 0 {
		return opt, eris.New("--item-column requires --group-by")
	}
	switch {
	case cmd.Flags().Changed("missing"):
		opt.MissingValues = s.missing
	case cfg != nil && cfg.MissingValues != nil:
		opt.MissingValues = cfg.MissingValues
	}
	opt.SheetName = s.sheetName
	opt.SheetIndex = s.sheetIndex
	return opt, nil
}

// miningFlags carry the thresholds of one run.
type miningFlags struct {
	minSupport   float64
	maxLen       int
	metric       string
	minThreshold float64
}

func (m *miningFlags) register(fs *pflag.FlagSet) {
	fs.Float64Var(&m.minSupport, "min-support", 0.01, "minimum itemset support in (0,1]")
	fs.IntVar(&m.maxLen, "max-len", 0, "maximum itemset size (0 = unbounded)")
	fs.StringVar(&m.metric, "metric", string(basket.MetricLift), "rule filter metric: support|confidence|lift|leverage|conviction")
	fs.Float64Var(&m.minThreshold, "min-threshold", 0.5, "minimum value of --metric for a rule to be kept")
}

func (m *miningFlags) params(cmd *cobra.Command) (pipeline.Params, error) {
	metricName := m.metric
	if !cmd.Flags().Changed("metric") && cfg != nil && cfg.Metric != "" {
		metricName = cfg.Metric
	}
	metric, err := basket.ParseMetric(metricName)
	if err != nil {
		return pipeline.Params{}, err
	}
	p := pipeline.Params{
		MinSupport:   setting(cmd, "min-support", m.minSupport, func(c *cfgpkg.Global) float64 { return c.MinSupport }),
		MaxLen:       setting(cmd, "max-len", m.maxLen, func(c *cfgpkg.Global) int { return c.MaxLen }),
		Metric:       metric,
		MinThreshold: setting(cmd, "min-threshold", m.minThreshold, func(c *cfgpkg.Global) float64 { return c.MinThreshold }),
	}
	return p, p.Validate()
}

// rankFlags shape a recommendation query.
type rankFlags struct {
	rankBy string
	topK   int
}

func (r *rankFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&r.rankBy, "rank-by", string(basket.MetricLift), "metric used to rank recommendations")
	fs.IntVar(&r.topK, "top-k", basket.DefaultTopK, "maximum number of recommendations")
}

func (r *rankFlags) resolve(cmd *cobra.Command) (basket.Metric, int, error) {
	name := r.rankBy
	if !cmd.Flags().Changed("rank-by") && cfg != nil && cfg.RankBy != "" {
		name = cfg.RankBy
	}
	m, err := basket.ParseMetric(name)
	if err != nil {
		return "", 0, err
	}
	return m, setting(cmd, "top-k", r.topK, func(c *cfgpkg.Global) int { return c.TopK }), nil
}

// setting returns the flag value when the flag was given or no config is
// loaded, and the configured value otherwise.
func setting[T any](cmd *cobra.Command, name string, flagVal T, fromCfg func(*cfgpkg.Global) T) T {
	if cmd.Flags().Changed(name) || cfg == nil {
		return flagVal
	}
	return fromCfg(cfg)
}

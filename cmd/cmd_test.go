package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumanth428/market-basket-analysis/internal/basket"
	"github.com/sumanth428/market-basket-analysis/internal/report"
)

const groceriesCSV = `i1,i2,i3,i4
bread,milk,,
bread,diapers,beer,eggs
milk,diapers,beer,cola
bread,milk,diapers,beer
bread,milk,diapers,cola
`

var mineArgs = []string{"--min-support", "0.4", "--metric", "confidence", "--min-threshold", "0.6"}

// resetFlags restores every flag to its default so package-level flag
// variables do not leak between invocations.
func resetFlags(c *cobra.Command) {
	reset := func(fl *pflag.Flag) {
		if sv, ok := fl.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = fl.Value.Set(fl.DefValue)
		}
		fl.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runCmd executes the root command with args and returns its output.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func setup(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	p := filepath.Join(home, "groceries.csv")
	require.NoError(t, os.WriteFile(p, []byte(groceriesCSV), 0o644))
	return p
}

func TestAnalyze(t *testing.T) {
	p := setup(t)
	out, err := runCmd(t, append([]string{"analyze", p}, mineArgs...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "[DATASET SUMMARY]")
	assert.Contains(t, out, "Transactions: 5")
	assert.Contains(t, out, "beer, diapers")
	assert.Contains(t, out, "rules from")
	assert.Contains(t, out, "over 5 transactions")
}

func TestAnalyzeExport(t *testing.T) {
	p := setup(t)
	dest := filepath.Join(t.TempDir(), "rules.json")
	out, err := runCmd(t, append([]string{"analyze", p, "-q", "-o", dest}, mineArgs...)...)
	require.NoError(t, err)
	assert.NotContains(t, out, "[DATASET SUMMARY]")
	assert.Contains(t, out, "✓ Wrote")

	f, err := os.Open(dest)
	require.NoError(t, err)
	defer f.Close()
	rows, err := report.DecodeJSON(f)
	require.NoError(t, err)
	assert.NotEmpty(t, rows)
	for _, r := range rows {
		assert.GreaterOrEqual(t, r.Confidence, 0.6)
	}
}

func TestAnalyzeNoRules(t *testing.T) {
	p := setup(t)
	out, err := runCmd(t, "analyze", p, "--min-support", "0.4", "--metric", "lift", "--min-threshold", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "No rules passed the threshold")
}

func TestAnalyzeInvalidSupport(t *testing.T) {
	p := setup(t)
	_, err := runCmd(t, "analyze", p, "--min-support", "1.5")
	require.Error(t, err)
	assert.True(t, eris.Is(err, basket.ErrInvalidSupport))

	var buf bytes.Buffer
	c := &cobra.Command{}
	c.SetErr(&buf)
	printError(c, err)
	assert.Contains(t, buf.String(), "✗ Error:")
	assert.Contains(t, buf.String(), "Hint:")
}

func TestAnalyzeInvalidMetric(t *testing.T) {
	p := setup(t)
	_, err := runCmd(t, "analyze", p, "--metric", "zest")
	require.Error(t, err)
	assert.True(t, eris.Is(err, basket.ErrInvalidMetric))
}

func TestAnalyzeEventLog(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	p := filepath.Join(home, "events.csv")
	require.NoError(t, os.WriteFile(p, []byte(strings.Join([]string{
		"Member_number,Date,itemDescription",
		"1,01-01-2015,jam",
		"1,01-01-2015,toast",
		"2,01-01-2015,jam",
		"2,01-01-2015,toast",
		"3,02-01-2015,tea",
	}, "\n")), 0o644))

	out, err := runCmd(t, "analyze", p, "--item-column", "itemDescription", "--group-by", "Member_number,Date",
		"--min-support", "0.5", "--metric", "confidence", "--min-threshold", "0.9")
	require.NoError(t, err)
	assert.Contains(t, out, "Transactions: 3")
	assert.Contains(t, out, "2 rules from")

	_, err = runCmd(t, "analyze", p, "--group-by", "Member_number")
	require.Error(t, err)
}

func TestSourceFlagErrorsCarryStack(t *testing.T) {
	for _, tc := range []struct {
		flags sourceFlags
		msg   string
	}{
		{sourceFlags{delimiter: "x"}, "unsupported --delimiter: x"},
		{sourceFlags{groupBy: []string{"Member_number"}}, "--group-by requires --item-column"},
		{sourceFlags{itemColumn: "itemDescription"}, "--item-column requires --group-by"},
	} {
		_, err := tc.flags.options(&cobra.Command{})
		require.Error(t, err)
		assert.Equal(t, tc.msg, err.Error())
		assert.NotEmpty(t, eris.StackFrames(err), tc.msg)
	}
}

func TestRecommend(t *testing.T) {
	p := setup(t)
	out, err := runCmd(t, append([]string{"recommend", p, "beer"}, mineArgs...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Strongest recommendation: customers who buy {beer} are likely to also buy {diapers} (confidence 100.0%, lift 1.25)")

	out, err = runCmd(t, append([]string{"recommend", p, "caviar"}, mineArgs...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "does not appear")

	out, err = runCmd(t, "recommend", p, "eggs", "--min-support", "0.4")
	require.NoError(t, err)
	assert.Contains(t, out, "No association rules found")

	_, err = runCmd(t, append([]string{"recommend", p, "beer", "--rank-by", "zest"}, mineArgs...)...)
	assert.True(t, eris.Is(err, basket.ErrInvalidMetric))
}

func TestItems(t *testing.T) {
	p := setup(t)
	out, err := runCmd(t, "items", p)
	require.NoError(t, err)
	assert.Equal(t, "beer\nbread\ncola\ndiapers\neggs\nmilk\n", out)

	out, err = runCmd(t, "items", p, "--counts")
	require.NoError(t, err)
	assert.Contains(t, out, "bread\t4\n")

	out, err = runCmd(t, append([]string{"items", p, "--antecedents"}, mineArgs...)...)
	require.NoError(t, err)
	assert.Equal(t, "beer\nbread\ncola\ndiapers\nmilk\n", out)
}

func TestAnalyzeBatch(t *testing.T) {
	p := setup(t)
	dir := filepath.Dir(p)
	second := filepath.Join(dir, "more.csv")
	require.NoError(t, os.WriteFile(second, []byte(groceriesCSV), 0o644))
	outDir := filepath.Join(dir, "out")

	out, err := runCmd(t, append([]string{"analyze-batch", filepath.Join(dir, "*.csv"), "--out-dir", outDir, "--format", "json", "--concurrency", "2", "--quiet"}, mineArgs...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "[1/2] groceries.csv")
	assert.Contains(t, out, "[2/2] more.csv")
	for _, name := range []string{"groceries.rules.json", "more.rules.json"} {
		_, statErr := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, statErr, name)
	}

	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, []byte("a,b\n"), 0o644))
	out, err = runCmd(t, append([]string{"analyze-batch", p, empty}, mineArgs...)...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 files failed")
	assert.Contains(t, out, "✗")

	_, err = runCmd(t, "analyze-batch", filepath.Join(dir, "*.nothing"))
	require.Error(t, err)
}

func TestAnalyzeBatchSameStemKeepsBothExports(t *testing.T) {
	p := setup(t)
	dir := filepath.Dir(p)
	for _, sub := range []string{"a", "b"} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, sub), 0o755))
	}
	first := filepath.Join(dir, "a", "x.csv")
	second := filepath.Join(dir, "b", "x.csv")
	require.NoError(t, os.WriteFile(first, []byte(groceriesCSV), 0o644))
	require.NoError(t, os.WriteFile(second, []byte("i1,i2\njam,toast\njam,toast\ntea,\n"), 0o644))
	outDir := filepath.Join(dir, "out")

	out, err := runCmd(t, append([]string{"analyze-batch", first, second, "--out-dir", outDir, "--format", "json", "--quiet"}, mineArgs...)...)
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(outDir, "x.rules.json"))
	assert.Contains(t, out, filepath.Join(outDir, "x__2.rules.json"))

	read := func(name string) []report.Row {
		f, err := os.Open(filepath.Join(outDir, name))
		require.NoError(t, err)
		defer f.Close()
		rows, err := report.DecodeJSON(f)
		require.NoError(t, err)
		return rows
	}
	groceryRules := read("x.rules.json")
	jamRules := read("x__2.rules.json")
	assert.NotEqual(t, len(groceryRules), len(jamRules))
	require.Len(t, jamRules, 2)
	assert.ElementsMatch(t, []string{"jam", "toast"}, append(jamRules[0].Antecedents, jamRules[0].Consequents...))
}

func TestConfigSetAndShow(t *testing.T) {
	setup(t)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")

	out, err := runCmd(t, "config", "set", "min_support", "0.4", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Saved config")

	_, err = runCmd(t, "config", "set", "metric", "Confidence", "--config", cfgPath)
	require.NoError(t, err)

	_, err = runCmd(t, "config", "set", "min_support", "2", "--config", cfgPath)
	require.Error(t, err)

	_, err = runCmd(t, "config", "set", "colour", "blue", "--config", cfgPath)
	require.Error(t, err)

	out, err = runCmd(t, "config", "show", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "min_support: 0.4\n")
	assert.Contains(t, out, "metric: confidence\n")
	assert.Contains(t, out, "rank_by: lift\n")
}

func TestConfigDrivesThresholds(t *testing.T) {
	p := setup(t)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("min_support: 0.4\nmetric: confidence\nmin_threshold: 0.6\n"), 0o644))

	withFlags, err := runCmd(t, append([]string{"analyze", p, "-q"}, mineArgs...)...)
	require.NoError(t, err)
	fromConfig, err := runCmd(t, "analyze", p, "-q", "--config", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, withFlags, fromConfig)
}

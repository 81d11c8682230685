package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumanth428/market-basket-analysis/internal/utils"
)

func TestSafeWriteFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "rules.csv")
	require.NoError(t, os.WriteFile(p, []byte("old"), 0o644))

	require.NoError(t, utils.SafeWriteFile(p, []byte("new")))
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "new", string(b))
	_, err = os.Stat(p + ".tmp")
	assert.True(t, os.IsNotExist(err))

	err = utils.SafeWriteFile(filepath.Join(dir, "missing", "x.csv"), nil)
	assert.Error(t, err)
}

func TestPrettyJSON(t *testing.T) {
	b, err := utils.PrettyJSON(map[string]int{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}", string(b))
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "groceries.rules.json"), utils.OutputName("out", "data/groceries.csv", ".json"))
	assert.Equal(t, filepath.Join("out", "x.rules.csv"), utils.OutputName("out", "x", ".csv"))
}

func TestEnsureDir(t *testing.T) {
	p := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, utils.EnsureDir(p))
	info, err := os.Stat(p)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestOutputNamesAreDistinct(t *testing.T) {
	got := utils.OutputNames("out", []string{"a/x.csv", "b/x.csv", "x.tsv", "y.csv", "X.csv"}, ".csv")
	assert.Equal(t, []string{
		filepath.Join("out", "x.rules.csv"),
		filepath.Join("out", "x__2.rules.csv"),
		filepath.Join("out", "x__3.rules.csv"),
		filepath.Join("out", "y.rules.csv"),
		filepath.Join("out", "X__4.rules.csv"),
	}, got)
}

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
)

// EnsureDir ensures the provided directory exists.
func EnsureDir(dir string) error {
	return eris.Wrapf(os.MkdirAll(dir, 0o755), "mkdir %s", dir)
}

// SafeWriteFile writes data to a temp file and atomically renames it into place.
func SafeWriteFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return eris.Wrap(err, "write temp file")
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return eris.Wrap(err, "atomic rename")
	}
	return nil
}

// PrettyJSON marshals a value as indented JSON.
func PrettyJSON(v any) ([]byte, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, eris.Wrap(err, "marshal json")
	}
	return b, nil
}

// OutputNames maps each input to a distinct export path in dir. Inputs that
// share a stem get a numeric suffix in input order, e.g. x.rules.csv then
// x__2.rules.csv.
func OutputNames(dir string, inputs []string, ext string) []string {
	out := make([]string, len(inputs))
	used := make(map[string]struct{}, len(inputs))
	for i, in := range inputs {
		name := OutputName(dir, in, ext)
		if _, taken := used[strings.ToLower(name)]; taken {
			base := filepath.Base(in)
			stem := strings.TrimSuffix(base, filepath.Ext(base))
			if stem == "" {
				stem = "dataset"
			}
			for idx := 2; ; idx++ {
				name = filepath.Join(dir, fmt.Sprintf("%s__%d.rules%s", stem, idx, ext))
				if _, taken := used[strings.ToLower(name)]; !taken {
					break
				}
			}
		}
		used[strings.ToLower(name)] = struct{}{}
		out[i] = name
	}
	return out
}

// OutputName derives an export file name in dir from an input file name,
// e.g. ("out", "data/groceries.csv", ".json") -> "out/groceries.rules.json".
func OutputName(dir, input, ext string) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = "dataset"
	}
	return filepath.Join(dir, stem+".rules"+ext)
}

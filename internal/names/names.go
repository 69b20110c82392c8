// Package names maps solver and feature column names to display names.
package names

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Resolver returns the display name of a column. Unknown names map to
// themselves.
type Resolver func(name string) string

// Identity leaves every name unchanged.
func Identity(name string) string { return name }

// FromMap resolves names through m.
func FromMap(m map[string]string) Resolver {
	cp := make(map[string]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return func(name string) string {
		if v, ok := cp[name]; ok {
			return v
		}
		return name
	}
}

type renameFile struct {
	Names map[string]string `toml:"names"`
}

// Parse reads a rename table of the form
//
//	[names]
//	kissat_mab = "Kissat MAB"
func Parse(data []byte) (Resolver, error) {
	var f renameFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse rename table: %w", err)
	}
	return FromMap(f.Names), nil
}

// Load reads a rename table from path. An empty path yields Identity.
func Load(path string) (Resolver, error) {
	if path == "" {
		return Identity, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rename table: %w", err)
	}
	return Parse(data)
}

// All resolves every name in list.
func (r Resolver) All(list []string) []string {
	res := make([]string, len(list))
	for i, n := range list {
		res[i] = r(n)
	}
	return res
}

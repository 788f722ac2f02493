// Package cargo holds the cargo-type taxonomy and expands storage rules that
// name only a cargo type into one rule per concrete cargo key.
package cargo

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed taxonomy.yaml
var defaultTaxonomy []byte

// Taxonomy maps a cargo type (e.g. "EDeliveryCargoType::Food") to the cargo
// keys belonging to it.
type Taxonomy map[string][]string

type taxonomyFile struct {
	Types map[string][]string `yaml:"types"`
}

// Default returns the built-in taxonomy.
func Default() Taxonomy {
	t, err := Parse(defaultTaxonomy)
	if err != nil {
		panic(fmt.Sprintf("cargo: built-in taxonomy is invalid: %v", err))
	}
	return t
}

// Parse decodes a taxonomy YAML document and validates it.
func Parse(data []byte) (Taxonomy, error) {
	var f taxonomyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy: %w", err)
	}
	t := Taxonomy(f.Types)
	if t == nil {
		t = Taxonomy{}
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// LoadFile reads a taxonomy override file. An empty path yields Default.
func LoadFile(path string) (Taxonomy, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy file %s: %w", path, err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Validate rejects blank type names and blank cargo keys.
func (t Taxonomy) Validate() error {
	for _, typ := range t.Types() {
		if strings.TrimSpace(typ) == "" {
			return fmt.Errorf("taxonomy: empty cargo type name")
		}
		for i, key := range t[typ] {
			if strings.TrimSpace(key) == "" {
				return fmt.Errorf("taxonomy: %s: item %d has an empty cargo key", typ, i)
			}
		}
	}
	return nil
}

// Types returns the cargo types, sorted.
func (t Taxonomy) Types() []string {
	types := make([]string, 0, len(t))
	for typ := range t {
		types = append(types, typ)
	}
	sort.Strings(types)
	return types
}

// Items returns the cargo keys of typ, or nil when typ is unknown.
func (t Taxonomy) Items(typ string) []string {
	return t[typ]
}

// Len is the total number of cargo keys across all types.
func (t Taxonomy) Len() int {
	n := 0
	for _, items := range t {
		n += len(items)
	}
	return n
}

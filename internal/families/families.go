// Package families holds the curated grouping of paraphrase styles into
// families. The table is plain data handed to the rollup; it can be replaced
// from a YAML file without touching aggregation code.
package families

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Family is a named group of related styles.
type Family struct {
	Name   string   `yaml:"name" json:"name"`
	Styles []string `yaml:"styles" json:"styles"`
}

// Set is an ordered list of families. Order is the display order of rollup rows.
type Set []Family

// fileFormat is the on-disk YAML layout.
type fileFormat struct {
	Families Set `yaml:"families"`
}

// Names returns the family names in order.
func (s Set) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}
	return names
}

// Lookup returns the family with the given name.
func (s Set) Lookup(name string) (Family, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return Family{}, false
}

// Validate rejects unnamed, duplicate or empty families.
func (s Set) Validate() error {
	seen := make(map[string]bool, len(s))
	var errs []error
	for i, f := range s {
		name := strings.TrimSpace(f.Name)
		switch {
		case name == "":
			errs = append(errs, fmt.Errorf("family %d: name is required", i))
		case seen[name]:
			errs = append(errs, fmt.Errorf("family %q: defined more than once", name))
		case len(f.Styles) == 0:
			errs = append(errs, fmt.Errorf("family %q: no styles listed", name))
		}
		seen[name] = true
	}
	return errors.Join(errs...)
}

// Load reads a family table from a YAML file of the form
//
//	families:
//	  - name: tone
//	    styles: [instruct_friendly, instruct_cynical]
func Load(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading families file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML family table.
func Parse(data []byte) (Set, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing families file: %w", err)
	}
	if err := f.Families.Validate(); err != nil {
		return nil, err
	}
	return f.Families, nil
}

// LoadOrDefault loads path when it is set, otherwise returns Default().
func LoadOrDefault(path string) (Set, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	return Load(path)
}

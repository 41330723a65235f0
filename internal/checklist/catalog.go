// Package checklist holds the declarative catalog of business-formation fields
// and computes completion reports against it. The catalog is configuration, not
// logic: tuning which fields exist or which stage asks for them is a data change.
package checklist

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Sentinel marks a field as known-to-be-empty rather than never-asked.
// Sentinel values never count toward completion.
const Sentinel = "Not extracted"

//go:embed checklist.yaml
var defaultCatalogYAML []byte

type Catalog struct {
	Stages []Stage `yaml:"stages"`

	fieldSet map[string]bool
	ordered  []string
}

type Stage struct {
	Number     int        `yaml:"stage"`
	Name       string     `yaml:"name"`
	Categories []Category `yaml:"categories"`
}

type Category struct {
	Name   string   `yaml:"name"`
	Fields []string `yaml:"fields"`
}

// Load reads a catalog from path, or the embedded default when path is empty.
func Load(path string) (*Catalog, error) {
	data := defaultCatalogYAML
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read checklist: %w", err)
		}
		data = b
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse checklist: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("invalid checklist: %w", err)
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	if len(c.Stages) != 4 {
		return fmt.Errorf("expected 4 stages, got %d", len(c.Stages))
	}
	c.fieldSet = make(map[string]bool)
	c.ordered = nil
	for i, s := range c.Stages {
		if s.Number != i+1 {
			return fmt.Errorf("stage %d out of order (found %d)", i+1, s.Number)
		}
		for _, cat := range s.Categories {
			if len(cat.Fields) == 0 {
				return fmt.Errorf("stage %d category %q has no fields", s.Number, cat.Name)
			}
			for _, f := range cat.Fields {
				if c.fieldSet[f] {
					return fmt.Errorf("duplicate field %q", f)
				}
				c.fieldSet[f] = true
				c.ordered = append(c.ordered, f)
			}
		}
	}
	return nil
}

// TotalFields is the fixed item count the completion percentage is measured against.
func (c *Catalog) TotalFields() int {
	return len(c.ordered)
}

// FieldNames returns every catalog field in stage/category order.
func (c *Catalog) FieldNames() []string {
	out := make([]string, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// HasField reports whether name is a valid customer attribute.
func (c *Catalog) HasField(name string) bool {
	return c.fieldSet[name]
}

// StageByNumber returns the stage definition for n, or nil if out of range.
func (c *Catalog) StageByNumber(n int) *Stage {
	if n < 1 || n > len(c.Stages) {
		return nil
	}
	return &c.Stages[n-1]
}

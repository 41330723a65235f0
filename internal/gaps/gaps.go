// Package gaps computes what is still missing from a customer record and in
// what order the next call should ask for it.
package gaps

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/launchline/concierge/internal/checklist"
)

type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// actionItemThreshold: categories below this completion percentage get an
// action item in operational output.
const actionItemThreshold = 50

// maxExampleFields caps how many missing field names an action item carries.
const maxExampleFields = 3

//go:embed priorities.yaml
var defaultPriorityYAML []byte

// Table is the static field→priority lookup, loaded at startup.
type Table struct {
	Critical []string `yaml:"critical"`
	High     []string `yaml:"high"`
	Medium   []string `yaml:"medium"`

	byField map[string]Priority
}

// LoadTable reads a priority table from path, or the embedded default when
// path is empty.
func LoadTable(path string) (*Table, error) {
	data := defaultPriorityYAML
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read priority table: %w", err)
		}
		data = b
	}

	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse priority table: %w", err)
	}

	t.byField = make(map[string]Priority)
	for _, f := range t.Critical {
		t.byField[f] = PriorityCritical
	}
	for _, f := range t.High {
		t.byField[f] = PriorityHigh
	}
	for _, f := range t.Medium {
		t.byField[f] = PriorityMedium
	}
	return &t, nil
}

// Of returns the priority bucket for a field. Unlisted fields are low.
func (t *Table) Of(field string) Priority {
	if p, ok := t.byField[field]; ok {
		return p
	}
	return PriorityLow
}

// Analysis partitions a stage's missing fields by priority. Field order within
// each bucket follows catalog order, so repeated analysis of the same record
// is deterministic.
type Analysis struct {
	Stage    int      `json:"stage"`
	Critical []string `json:"critical"`
	High     []string `json:"high"`
	Medium   []string `json:"medium"`
	Low      []string `json:"low"`
}

// Analyze buckets the missing fields for the customer's current stage.
// Critical fields from earlier stages that are still unfilled carry forward
// into the critical bucket: a stage-2 call still needs the business name if
// stage 1 never captured it.
func Analyze(cat *checklist.Catalog, t *Table, fields map[string]string, stageNum int) Analysis {
	a := Analysis{Stage: stageNum}

	for n := 1; n < stageNum; n++ {
		forEachMissing(cat, fields, n, func(f string) {
			if t.Of(f) == PriorityCritical {
				a.Critical = append(a.Critical, f)
			}
		})
	}

	forEachMissing(cat, fields, stageNum, func(f string) {
		switch t.Of(f) {
		case PriorityCritical:
			a.Critical = append(a.Critical, f)
		case PriorityHigh:
			a.High = append(a.High, f)
		case PriorityMedium:
			a.Medium = append(a.Medium, f)
		default:
			a.Low = append(a.Low, f)
		}
	})

	return a
}

func forEachMissing(cat *checklist.Catalog, fields map[string]string, stageNum int, fn func(field string)) {
	s := cat.StageByNumber(stageNum)
	if s == nil {
		return
	}
	for _, category := range s.Categories {
		for _, f := range category.Fields {
			if !checklist.FieldComplete(fields[f]) {
				fn(f)
			}
		}
	}
}

// ActionItem is an operational pointer at an under-filled category.
type ActionItem struct {
	Priority          Priority `json:"priority"`
	Category          string   `json:"category"`
	CallStage         int      `json:"call_stage"`
	MissingFields     []string `json:"missing_fields"`
	CompletionPercent int      `json:"completion_percent"`
}

// ActionItems emits one item per category below the completion threshold,
// carrying up to three example missing fields. Items sort by priority weight
// descending; ties keep encounter order.
func ActionItems(cat *checklist.Catalog, t *Table, fields map[string]string) []ActionItem {
	report := cat.Report(fields)

	var items []ActionItem
	for _, s := range cat.Stages {
		for _, category := range s.Categories {
			pct := report.CategoryPercent(s.Number, category.Name)
			if pct >= actionItemThreshold {
				continue
			}

			item := ActionItem{
				Priority:          PriorityLow,
				Category:          category.Name,
				CallStage:         s.Number,
				CompletionPercent: pct,
			}
			best := weight(PriorityLow)
			for _, f := range category.Fields {
				if checklist.FieldComplete(fields[f]) {
					continue
				}
				if len(item.MissingFields) < maxExampleFields {
					item.MissingFields = append(item.MissingFields, f)
				}
				if w := weight(t.Of(f)); w > best {
					best = w
					item.Priority = t.Of(f)
				}
			}
			if len(item.MissingFields) == 0 {
				continue
			}
			items = append(items, item)
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return weight(items[i].Priority) > weight(items[j].Priority)
	})
	return items
}

// weight orders action items: high=3, medium=2, low=1. Critical fields weigh
// in with the high bucket at the category level.
func weight(p Priority) int {
	switch p {
	case PriorityCritical, PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	default:
		return 1
	}
}

package checklist

import (
	"math"
	"strings"
)

type CategoryCompletion struct {
	Name      string `json:"name"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	Percent   int    `json:"percent"`
}

type StageCompletion struct {
	Stage      int                  `json:"stage"`
	Name       string               `json:"name"`
	Categories []CategoryCompletion `json:"categories"`
	Completed  int                  `json:"completed"`
	Total      int                  `json:"total"`
	Percent    int                  `json:"percent"`
}

type CompletionReport struct {
	Stages               []StageCompletion `json:"stages"`
	CompletedItems       int               `json:"completedItems"`
	TotalItems           int               `json:"totalItems"`
	CompletionPercentage int               `json:"completionPercentage"`
}

// FieldComplete reports whether a stored value counts toward completion:
// present, non-empty after trimming, and not the sentinel.
func FieldComplete(value string) bool {
	v := strings.TrimSpace(value)
	return v != "" && v != Sentinel
}

// Report computes the completion breakdown for a customer's field map.
// A nil or empty map yields a zero-valued report; callers treat a missing
// customer as 0% complete, not as an error.
func (c *Catalog) Report(fields map[string]string) CompletionReport {
	report := CompletionReport{TotalItems: c.TotalFields()}

	for _, s := range c.Stages {
		sc := StageCompletion{Stage: s.Number, Name: s.Name}
		for _, cat := range s.Categories {
			cc := CategoryCompletion{Name: cat.Name, Total: len(cat.Fields)}
			for _, f := range cat.Fields {
				if FieldComplete(fields[f]) {
					cc.Completed++
				}
			}
			cc.Percent = percent(cc.Completed, cc.Total)
			sc.Categories = append(sc.Categories, cc)
			sc.Completed += cc.Completed
			sc.Total += cc.Total
		}
		sc.Percent = percent(sc.Completed, sc.Total)
		report.Stages = append(report.Stages, sc)
		report.CompletedItems += sc.Completed
	}

	report.CompletionPercentage = percent(report.CompletedItems, report.TotalItems)
	return report
}

// CategoryPercent returns the completion percentage of one stage/category pair,
// or 0 when the pair does not exist.
func (r CompletionReport) CategoryPercent(stage int, category string) int {
	for _, s := range r.Stages {
		if s.Stage != stage {
			continue
		}
		for _, c := range s.Categories {
			if c.Name == category {
				return c.Percent
			}
		}
	}
	return 0
}

func percent(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

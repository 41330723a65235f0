package checklist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Load("")
	require.NoError(t, err)
	return c
}

func TestFieldComplete(t *testing.T) {
	assert.True(t, FieldComplete("Jane Doe"))
	assert.False(t, FieldComplete(""))
	assert.False(t, FieldComplete("   "))
	assert.False(t, FieldComplete(Sentinel))
}

func TestReportEmptyRecord(t *testing.T) {
	c := loadCatalog(t)

	report := c.Report(nil)
	assert.Equal(t, 0, report.CompletedItems)
	assert.Equal(t, 108, report.TotalItems)
	assert.Equal(t, 0, report.CompletionPercentage)
	for _, s := range report.Stages {
		assert.Equal(t, 0, s.Percent)
	}
}

func TestReportCountsFilledFields(t *testing.T) {
	c := loadCatalog(t)

	fields := map[string]string{
		"customer_name":      "Jane Doe",
		"customer_email":     "jane@x.com",
		"business_name":      "Doe Consulting LLC",
		"entity_type":        "LLC",
		"state_of_operation": "Texas",
		"unrelated_junk":     "ignored", // not a catalog field
	}
	report := c.Report(fields)

	assert.Equal(t, 5, report.CompletedItems)
	assert.Greater(t, report.CompletionPercentage, 0)

	// contact_info has 9 fields, 2 filled → 22%.
	assert.Equal(t, 22, report.CategoryPercent(1, "contact_info"))
	// legal_foundation has 12 fields, 3 filled → 25%.
	assert.Equal(t, 25, report.CategoryPercent(1, "legal_foundation"))
	assert.Equal(t, 0, report.CategoryPercent(2, "brand_identity"))
}

func TestReportIgnoresSentinelValues(t *testing.T) {
	c := loadCatalog(t)

	report := c.Report(map[string]string{
		"customer_name": Sentinel,
		"business_name": "  ",
	})
	assert.Equal(t, 0, report.CompletedItems)
}

func TestReportMonotonicUnderFill(t *testing.T) {
	c := loadCatalog(t)

	fields := map[string]string{}
	last := 0
	for _, f := range c.FieldNames() {
		fields[f] = "value"
		pct := c.Report(fields).CompletionPercentage
		assert.GreaterOrEqual(t, pct, last, "completion dropped after filling %s", f)
		last = pct
	}
	assert.Equal(t, 100, last)
}

func TestCategoryPercentUnknownPair(t *testing.T) {
	c := loadCatalog(t)
	report := c.Report(nil)
	assert.Equal(t, 0, report.CategoryPercent(9, "nope"))
}

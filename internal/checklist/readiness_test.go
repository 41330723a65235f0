package checklist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fillCategory(t *testing.T, c *Catalog, fields map[string]string, stageNum int, category string) {
	t.Helper()
	s := c.StageByNumber(stageNum)
	for _, cat := range s.Categories {
		if cat.Name != category {
			continue
		}
		for _, f := range cat.Fields {
			fields[f] = "filled"
		}
		return
	}
	t.Fatalf("no category %q in stage %d", category, stageNum)
}

func TestReadinessAllGatesClosedOnEmptyRecord(t *testing.T) {
	c := loadCatalog(t)
	r := Evaluate(c.Report(nil))

	assert.False(t, r.ReadyForLLCFiling)
	assert.False(t, r.ReadyForEINApplication)
	assert.False(t, r.ReadyForBankAccount)
	assert.False(t, r.ReadyForDomainPurchase)
	assert.False(t, r.ReadyForLaunchAnnouncement)
}

func TestReadinessFilingGate(t *testing.T) {
	c := loadCatalog(t)
	fields := map[string]string{}

	fillCategory(t, c, fields, 1, "legal_foundation")
	r := Evaluate(c.Report(fields))
	// Legal alone is not enough: filing also needs contact info.
	assert.False(t, r.ReadyForLLCFiling)
	assert.True(t, r.ReadyForEINApplication)

	fillCategory(t, c, fields, 1, "contact_info")
	r = Evaluate(c.Report(fields))
	assert.True(t, r.ReadyForLLCFiling)
}

func TestReadinessGatesAreIndependent(t *testing.T) {
	c := loadCatalog(t)
	fields := map[string]string{}

	fillCategory(t, c, fields, 2, "online_presence")
	r := Evaluate(c.Report(fields))
	assert.True(t, r.ReadyForDomainPurchase)
	assert.False(t, r.ReadyForLLCFiling)
	assert.False(t, r.ReadyForBankAccount)

	fillCategory(t, c, fields, 1, "legal_foundation")
	fillCategory(t, c, fields, 3, "financial_setup")
	r = Evaluate(c.Report(fields))
	assert.True(t, r.ReadyForBankAccount)
}

func TestReadinessLaunchGate(t *testing.T) {
	c := loadCatalog(t)
	fields := map[string]string{}

	fillCategory(t, c, fields, 4, "marketing_strategy")
	r := Evaluate(c.Report(fields))
	assert.False(t, r.ReadyForLaunchAnnouncement)

	fillCategory(t, c, fields, 2, "brand_identity")
	r = Evaluate(c.Report(fields))
	assert.True(t, r.ReadyForLaunchAnnouncement)
}

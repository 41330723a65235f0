package checklist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultCatalog(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 108, c.TotalFields())
	assert.Len(t, c.Stages, 4)

	assert.True(t, c.HasField("customer_name"))
	assert.True(t, c.HasField("brand_personality"))
	assert.True(t, c.HasField("ongoing_coaching_interest"))
	assert.False(t, c.HasField("no_such_field"))

	// Total must equal the sum of all category list lengths.
	sum := 0
	for _, s := range c.Stages {
		for _, cat := range s.Categories {
			sum += len(cat.Fields)
		}
	}
	assert.Equal(t, sum, c.TotalFields())
}

func TestLoadRejectsDuplicateFields(t *testing.T) {
	bad := `
stages:
  - stage: 1
    name: One
    categories:
      - name: a
        fields: [x, y]
  - stage: 2
    name: Two
    categories:
      - name: b
        fields: [x]
  - stage: 3
    name: Three
    categories:
      - name: c
        fields: [z]
  - stage: 4
    name: Four
    categories:
      - name: d
        fields: [w]
`
	path := filepath.Join(t.TempDir(), "checklist.yaml")
	require.NoError(t, os.WriteFile(path, []byte(bad), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate field")
}

func TestLoadRejectsWrongStageCount(t *testing.T) {
	bad := `
stages:
  - stage: 1
    name: Only
    categories:
      - name: a
        fields: [x]
`
	path := filepath.Join(t.TempDir(), "checklist.yaml")
	require.NoError(t, os.WriteFile(path, []byte(bad), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestStageByNumber(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	s := c.StageByNumber(2)
	require.NotNil(t, s)
	assert.Equal(t, "Brand Identity", s.Name)

	assert.Nil(t, c.StageByNumber(0))
	assert.Nil(t, c.StageByNumber(5))
}

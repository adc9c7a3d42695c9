package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocConfigMerge_NilKeepsDefaults(t *testing.T) {
	def := DefaultDocConfig()

	got := def.Merge(nil)

	assert.Equal(t, def, got)
}

func TestDocConfigMerge_PartialOverride(t *testing.T) {
	var o ConfigOverride
	require.NoError(t, json.Unmarshal([]byte(`{
		"docsPath": "documentation",
		"prConfig": {"labels": [], "branchPrefix": "docs/"},
		"llmConfig": {"temperature": 0}
	}`), &o))

	got := DefaultDocConfig().Merge(&o)

	assert.Equal(t, "documentation", got.DocsPath)
	assert.Equal(t, "docs/", got.PR.BranchPrefix)
	assert.Empty(t, got.PR.Labels)
	assert.Equal(t, 0.0, got.LLM.Temperature)
	assert.Equal(t, "mint.json", got.NavigationFile)
	assert.Equal(t, DefaultDocConfig().PR.TitleTemplate, got.PR.TitleTemplate)
}

func TestDocConfigMerge_DoesNotAliasLabels(t *testing.T) {
	base := DefaultDocConfig()

	got := base.Merge(nil)
	got.PR.Labels[0] = "changed"

	assert.Equal(t, "documentation", base.PR.Labels[0])
}

func TestConfigOverrideMerge_LaterWins(t *testing.T) {
	a, b := "a", "b"
	t1 := 0.5

	base := &ConfigOverride{DocsPath: &a, PR: &PRConfigOverride{BranchPrefix: &a}}
	top := &ConfigOverride{DocsPath: &b, LLM: &LLMConfigOverride{Temperature: &t1}, PR: &PRConfigOverride{Labels: []string{"x"}}}

	got := DefaultDocConfig().Merge(base.Merge(top))

	assert.Equal(t, "b", got.DocsPath)
	assert.Equal(t, "a", got.PR.BranchPrefix)
	assert.Equal(t, []string{"x"}, got.PR.Labels)
	assert.Equal(t, 0.5, got.LLM.Temperature)
}

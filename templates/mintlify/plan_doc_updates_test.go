package mintlify

import (
	"testing"

	"github.com/haikalllp/spinai-fork/core"
	"github.com/haikalllp/spinai-fork/internal/testutil"
	"github.com/haikalllp/spinai-fork/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plannerState() core.ReviewState {
	return testutil.NewStateBuilder("acme", "widgets", 7).
		Analysis(core.CodeAnalysis{
			Summary:            "Adds login",
			ImpactedAreas:      []string{"api"},
			SignificantChanges: true,
			Changes:            []core.CodeChange{{File: "src/api/auth.ts", Status: core.ChangeModified, Category: "api", RelatedFiles: []string{}}},
		}).
		Structure(core.DocStructure{
			Files:      []core.DocFile{{Path: "docs/api/auth.mdx", Category: "api", References: []string{}}},
			Categories: []string{"api"},
			Navigation: core.Navigation{},
		}).
		Build()
}

func TestPlanDocUpdates_Run(t *testing.T) {
	llm := model.NewMockModel("mock", "test")
	llm.AddResponse("documentation planning expert", "```json\n"+`{
		"summary": "Document the login flow",
		"updates": [
			{
				"path": "docs/api/auth.mdx",
				"type": "update",
				"priority": "high",
				"reason": "login was added",
				"sourceFiles": ["src/api/auth.ts"],
				"suggestedContent": {"sections": ["Login"]}
			},
			{"path": "docs/api/sessions.mdx", "type": "create"}
		],
		"navigationChanges": [
			{"group": "API", "changes": [{"type": "add", "page": "api/sessions"}]}
		]
	}`+"\n```")

	state := plannerState()

	out, err := NewPlanDocUpdates(llm).Run(testutil.RunContext(), state)
	require.NoError(t, err)
	require.NotNil(t, out.UpdatePlan)
	assert.Equal(t, state.Version+1, out.Version)

	plan := out.UpdatePlan
	assert.Equal(t, "Document the login flow", plan.Summary)
	require.Len(t, plan.Updates, 2)
	assert.Equal(t, core.UpdateUpdate, plan.Updates[0].Type)
	assert.Equal(t, core.PriorityHigh, plan.Updates[0].Priority)
	assert.Equal(t, []string{"src/api/auth.ts"}, plan.Updates[0].SourceFiles)
	require.NotNil(t, plan.Updates[0].SuggestedContent)
	assert.Equal(t, []string{"Login"}, plan.Updates[0].SuggestedContent.Sections)
	assert.Equal(t, core.UpdateCreate, plan.Updates[1].Type)
	assert.Equal(t, []core.NavigationOp{{Type: core.NavAdd, Page: "api/sessions", Group: "API"}}, plan.Operations())

	reqs := llm.Requests()
	require.Len(t, reqs, 1)
	assert.Contains(t, reqs[0].Messages[0].Text, `"summary": "Adds login"`)
	assert.Contains(t, reqs[0].Messages[0].Text, "docs/api/auth.mdx")
	assert.Contains(t, reqs[0].Messages[0].Text, "The docs directory is: docs")
	assert.InDelta(t, 0.2, *reqs[0].Temperature, 1e-9)
}

func TestPlanDocUpdates_Fallback(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{name: "prose", response: "Nothing to do here."},
		{name: "truncated", response: `{"summary": "cut off", "updates": [`},
		{name: "unknown update type", response: `{"summary": "x", "updates": [{"path": "docs/a.mdx", "type": "rename"}]}`},
		{name: "unknown navigation type", response: `{"summary": "x", "navigationChanges": [{"group": "API", "changes": [{"type": "swap", "page": "a"}]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := model.NewMockModel("mock", "test")
			llm.AddResponse("documentation planning expert", tt.response)

			out, err := NewPlanDocUpdates(llm).Run(testutil.RunContext(), plannerState())
			require.NoError(t, err)

			plan := out.UpdatePlan
			assert.Equal(t, fallbackPlanSummary, plan.Summary)
			assert.Equal(t, []core.PlannedDocUpdate{}, plan.Updates)
			assert.Equal(t, []core.NavigationChangeGroup{}, plan.NavigationChanges)
		})
	}
}

func TestPlanDocUpdates_MissingLists(t *testing.T) {
	llm := model.NewMockModel("mock", "test")
	llm.AddResponse("documentation planning expert", `{"summary": "No documentation changes needed"}`)

	out, err := NewPlanDocUpdates(llm).Run(testutil.RunContext(), plannerState())
	require.NoError(t, err)
	assert.Equal(t, "No documentation changes needed", out.UpdatePlan.Summary)
	assert.NotNil(t, out.UpdatePlan.Updates)
	assert.Empty(t, out.UpdatePlan.Updates)
	assert.NotNil(t, out.UpdatePlan.NavigationChanges)
}

func TestPlanDocUpdates_NullOptionalFields(t *testing.T) {
	llm := model.NewMockModel("mock", "test")
	llm.AddResponse("documentation planning expert", `{
		"summary": "Document login",
		"updates": [{
			"path": "docs/api/auth.mdx",
			"type": "update",
			"priority": null,
			"reason": null,
			"sourceFiles": null,
			"relatedDocs": null,
			"suggestedContent": null
		}],
		"navigationChanges": []
	}`)

	out, err := NewPlanDocUpdates(llm).Run(testutil.RunContext(), plannerState())
	require.NoError(t, err)

	plan := out.UpdatePlan
	assert.Equal(t, "Document login", plan.Summary)
	require.Len(t, plan.Updates, 1)
	assert.Equal(t, "docs/api/auth.mdx", plan.Updates[0].Path)
	assert.Equal(t, core.UpdateUpdate, plan.Updates[0].Type)
	assert.Empty(t, plan.Updates[0].RelatedDocs)
	assert.Nil(t, plan.Updates[0].SuggestedContent)
}

func TestPlanDocUpdates_MissingState(t *testing.T) {
	llm := model.NewMockModel("mock", "test")
	a := NewPlanDocUpdates(llm)

	_, err := a.Run(testutil.RunContext(), testutil.NewStateBuilder("acme", "widgets", 7).Build())
	require.ErrorIs(t, err, core.ErrMissingState)
	assert.Contains(t, err.Error(), "no code analysis found")

	noStructure := testutil.NewStateBuilder("acme", "widgets", 7).Analysis(core.CodeAnalysis{Summary: "x"}).Build()

	_, err = a.Run(testutil.RunContext(), noStructure)
	require.ErrorIs(t, err, core.ErrMissingState)
	assert.Contains(t, err.Error(), "no documentation structure found")

	assert.Empty(t, llm.Requests())
}

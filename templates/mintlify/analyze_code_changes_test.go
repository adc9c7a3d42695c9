package mintlify

import (
	"errors"
	"testing"

	"github.com/haikalllp/spinai-fork/core"
	"github.com/haikalllp/spinai-fork/internal/testutil"
	"github.com/haikalllp/spinai-fork/model"
	"github.com/haikalllp/spinai-fork/scm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const authPatch = "@@ -1,2 +1,2 @@\n class Session {\n-type Token = string\n+export function login() {}\n"

func analyzerHost() *scm.MemoryHost {
	return testutil.NewHostBuilder("acme", "widgets").
		Changed(7, "src/api/auth.ts", authPatch, "export function login() {}").
		Added(7, "src/api/auth.test.ts", "@@ -0,0 +1 @@\n+export const x = 1\n", "export const x = 1").
		Changed(7, "README.md", "", "# Widgets").
		Build()
}

func TestAnalyzeCodeChanges_Run(t *testing.T) {
	llm := model.NewMockModel("mock", "test")
	llm.AddResponse("code analysis expert", `{
		"summary": "Adds a login function",
		"impactedAreas": ["authentication", "api"],
		"significantChanges": true,
		"relatedFiles": ["src/api/auth.ts", "src/session.ts"]
	}`)

	a := NewAnalyzeCodeChanges(analyzerHost(), llm)
	state := testutil.NewStateBuilder("acme", "widgets", 7).Build()

	out, err := a.Run(testutil.RunContext(), state)
	require.NoError(t, err)
	require.NotNil(t, out.CodeAnalysis)
	assert.Nil(t, state.CodeAnalysis)

	got := out.CodeAnalysis
	assert.Equal(t, "Adds a login function", got.Summary)
	assert.True(t, got.SignificantChanges)
	assert.Equal(t, []string{"api", "authentication"}, got.ImpactedAreas)
	require.Len(t, got.Changes, 3)

	auth := got.Changes[0]
	assert.Equal(t, "src/api/auth.ts", auth.File)
	assert.Equal(t, "api", auth.Category)
	assert.Equal(t, core.ChangeModified, auth.Status)
	assert.True(t, auth.Significance.HasExports)
	assert.True(t, auth.Significance.HasTypes)
	assert.False(t, auth.Significance.HasClasses, "context lines are not scanned")
	assert.False(t, auth.Significance.IsTest)
	assert.Equal(t, []string{"src/session.ts"}, auth.RelatedFiles)

	test := got.Changes[1]
	assert.True(t, test.Significance.IsTest)
	assert.Equal(t, core.ChangeAdded, test.Status)
	assert.Equal(t, []string{"src/api/auth.ts", "src/session.ts"}, test.RelatedFiles)

	assert.Empty(t, got.Changes[2].Category)

	reqs := llm.Requests()
	require.Len(t, reqs, 1)
	assert.True(t, reqs[0].JSON)
	require.NotNil(t, reqs[0].Temperature)
	assert.InDelta(t, 0.1, *reqs[0].Temperature, 1e-9)
	assert.Contains(t, reqs[0].Messages[0].Text, "File: src/api/auth.ts")
	assert.Contains(t, reqs[0].Messages[0].Text, "export function login")
}

func TestAnalyzeCodeChanges_Fallback(t *testing.T) {
	tests := []struct {
		name     string
		response string
		summary  string
	}{
		{name: "not json", response: "I think this PR is great", summary: fallbackAnalysisSummary},
		{name: "wrong type", response: `{"summary": 42}`, summary: fallbackAnalysisSummary},
		{name: "empty summary", response: `{"impactedAreas": ["billing"]}`, summary: defaultAnalysisSummary},
		{name: "null optional fields", response: `{"summary": "Adds login", "impactedAreas": null, "significantChanges": null, "relatedFiles": null}`, summary: "Adds login"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := model.NewMockModel("mock", "test")
			llm.AddResponse("code analysis expert", tt.response)

			out, err := NewAnalyzeCodeChanges(analyzerHost(), llm).Run(testutil.RunContext(), testutil.NewStateBuilder("acme", "widgets", 7).Build())
			require.NoError(t, err)

			got := out.CodeAnalysis
			assert.Equal(t, tt.summary, got.Summary)
			assert.False(t, got.SignificantChanges)
			assert.Contains(t, got.ImpactedAreas, "api")
			assert.Len(t, got.Changes, 3)

			for _, c := range got.Changes {
				assert.NotNil(t, c.RelatedFiles)
			}
		})
	}
}

func TestAnalyzeCodeChanges_Errors(t *testing.T) {
	t.Run("invalid state", func(t *testing.T) {
		a := NewAnalyzeCodeChanges(analyzerHost(), model.NewMockModel("mock", "test"))

		_, err := a.Run(testutil.RunContext(), testutil.NewStateBuilder("acme", "", 7).Build())
		assert.ErrorIs(t, err, core.ErrInvalidState)
	})

	t.Run("unknown pull request", func(t *testing.T) {
		a := NewAnalyzeCodeChanges(analyzerHost(), model.NewMockModel("mock", "test"))

		_, err := a.Run(testutil.RunContext(), testutil.NewStateBuilder("acme", "widgets", 99).Build())
		assert.ErrorIs(t, err, scm.ErrNotFound)
	})

	t.Run("model failure", func(t *testing.T) {
		boom := errors.New("upstream unavailable")
		llm := model.NewMockModel("mock", "test")
		llm.AddError("code analysis expert", boom)

		state := testutil.NewStateBuilder("acme", "widgets", 7).Build()

		out, err := NewAnalyzeCodeChanges(analyzerHost(), llm).Run(testutil.RunContext(), state)
		assert.ErrorIs(t, err, boom)
		assert.Nil(t, out.CodeAnalysis)
	})
}

func TestDiffLines(t *testing.T) {
	added, deleted, body := diffLines(scm.ChangedFile{Filename: "src/a.ts", Patch: authPatch})
	assert.Equal(t, 1, added)
	assert.Equal(t, 1, deleted)
	assert.Contains(t, body, "type Token")
	assert.Contains(t, body, "export function login")
	assert.NotContains(t, body, "class Session")

	added, deleted, body = diffLines(scm.ChangedFile{Filename: "src/a.ts", Patch: "not a diff at all"})
	assert.Zero(t, added)
	assert.Zero(t, deleted)
	assert.Equal(t, "not a diff at all", body)

	_, _, body = diffLines(scm.ChangedFile{Filename: "bin.png"})
	assert.Empty(t, body)
}

func TestClassifyChanges(t *testing.T) {
	changes, areas := classifyChanges([]scm.ChangedFile{
		{Filename: "pkg/store/store.go", Patch: "@@ -0,0 +1 @@\n+type Store interface {}\n"},
		{Filename: "pkg/store/store_test.go"},
		{Filename: "web/ui/button.spec.tsx"},
		{Filename: "web/ui/button.tsx", Patch: "@@ -0,0 +1 @@\n+enum Size { S, M }\n"},
		{Filename: "go.mod"},
	})

	require.Len(t, changes, 5)
	assert.Equal(t, []string{"store", "ui"}, areas)
	assert.True(t, changes[0].Significance.HasTypes)
	assert.True(t, changes[0].Significance.HasInterfaces)
	assert.Equal(t, 1, changes[0].Additions)
	assert.True(t, changes[1].Significance.IsTest)
	assert.True(t, changes[2].Significance.IsTest)
	assert.True(t, changes[3].Significance.HasEnums)
	assert.Empty(t, changes[4].Category)
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []string{}, dedupe(nil))
	assert.Equal(t, []string{"a", "b", "c"}, dedupe([]string{"a", "", "b"}, []string{"b", "c", "a"}))
}

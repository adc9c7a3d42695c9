package scm

import (
	"context"
	"testing"

	"github.com/haikalllp/spinai-fork/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Interface compliance (compile-time assertions)
var _ Host = (*MemoryHost)(nil)

var testRepo = Repo{Owner: "acme", Name: "widgets"}

func TestMemoryHost_ListDir(t *testing.T) {
	h := NewMemoryHost()
	h.AddFile(testRepo, "main", "docs/intro.mdx", "intro")
	h.AddFile(testRepo, "main", "docs/guides/setup.mdx", "setup")
	h.AddFile(testRepo, "main", "docs/mint.json", "{}")

	entries, err := h.ListDir(context.Background(), testRepo, "docs", "main")
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Name: "guides", Path: "docs/guides", Type: EntryDir},
		{Name: "intro.mdx", Path: "docs/intro.mdx", Type: EntryFile},
		{Name: "mint.json", Path: "docs/mint.json", Type: EntryFile},
	}, entries)

	_, err = h.ListDir(context.Background(), testRepo, "missing", "main")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryHost_BranchAndWrites(t *testing.T) {
	ctx := context.Background()
	h := NewMemoryHost()
	h.AddFile(testRepo, "main", "docs/a.mdx", "a")

	sha, err := h.GetBranchSHA(ctx, testRepo, "main")
	require.NoError(t, err)
	require.NoError(t, h.CreateBranch(ctx, testRepo, "docs/update", sha))
	assert.ErrorIs(t, h.CreateBranch(ctx, testRepo, "docs/update", sha), ErrConflict)

	// create without sha on an existing file is rejected
	err = h.PutFile(ctx, testRepo, FileWrite{Path: "docs/a.mdx", Content: []byte("x"), Branch: "docs/update"})
	assert.ErrorIs(t, err, ErrConflict)

	f, err := h.GetFile(ctx, testRepo, "docs/a.mdx", "docs/update")
	require.NoError(t, err)
	require.NoError(t, h.PutFile(ctx, testRepo, FileWrite{Path: "docs/a.mdx", Content: []byte("x"), Branch: "docs/update", SHA: f.SHA}))
	require.NoError(t, h.PutFile(ctx, testRepo, FileWrite{Path: "docs/b.mdx", Content: []byte("b"), Branch: "docs/update"}))

	got, _ := h.File(testRepo, "docs/update", "docs/a.mdx")
	assert.Equal(t, "x", got)
	orig, _ := h.File(testRepo, "main", "docs/a.mdx")
	assert.Equal(t, "a", orig)

	require.NoError(t, h.DeleteFile(ctx, testRepo, "docs/b.mdx", "rm", "docs/update", BlobSHA("b")))
	_, ok := h.File(testRepo, "docs/update", "docs/b.mdx")
	assert.False(t, ok)
}

func TestMemoryHost_PullRequests(t *testing.T) {
	ctx := context.Background()
	h := NewMemoryHost()
	h.AddFile(testRepo, "main", "README.md", "hi")
	h.AddPullRequest(testRepo, 7, []ChangedFile{{Filename: "src/api.ts", Status: core.ChangeModified}}, map[string]string{"src/api.ts": "export const x = 1"})

	files, err := h.ListPullRequestFiles(ctx, testRepo, 7)
	require.NoError(t, err)
	assert.Len(t, files, 1)

	src, err := h.GetFile(ctx, testRepo, "src/api.ts", PullRef(7))
	require.NoError(t, err)
	assert.Equal(t, "export const x = 1", src.Content)

	pr, err := h.CreatePullRequest(ctx, testRepo, NewPullRequest{Title: "t", Head: "main", Base: "main"})
	require.NoError(t, err)
	assert.Equal(t, 8, pr.Number)

	require.NoError(t, h.AddLabels(ctx, testRepo, pr.Number, []string{"documentation", "documentation"}))
	require.NoError(t, h.CreateComment(ctx, testRepo, 7, "hello"))
	assert.Equal(t, []string{"documentation"}, h.Labels(testRepo, 8))
	assert.Equal(t, []string{"hello"}, h.Comments(testRepo, 7))
	assert.ErrorIs(t, h.CreateComment(ctx, testRepo, 99, "x"), ErrNotFound)
}

func TestMemoryHost_Fail(t *testing.T) {
	h := NewMemoryHost()
	h.AddFile(testRepo, "main", "docs/a.mdx", "a")
	h.Fail("GetFile", "docs/a.mdx", assert.AnError)

	_, err := h.GetFile(context.Background(), testRepo, "docs/a.mdx", "main")
	assert.ErrorIs(t, err, assert.AnError)
}

package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/haikalllp/spinai-fork/retry"
	"github.com/haikalllp/spinai-fork/scm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Interface compliance (compile-time assertions)
var _ scm.Host = (*Client)(nil)

var repo = scm.Repo{Owner: "acme", Name: "widgets"}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c, err := New(func(o *Options) {
		o.Token = "test-token"
		o.BaseURL = srv.URL
		o.Retry = retry.Policy{MaxAttempts: 3, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond}
	})
	require.NoError(t, err)

	return c
}

func TestNew_RequiresToken(t *testing.T) {
	_, err := New()
	assert.Error(t, err)
}

func TestClient_ListPullRequestFiles_Paginates(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/acme/widgets/pulls/7/files", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		if r.URL.Query().Get("page") == "2" {
			writeJSON(w, http.StatusOK, []map[string]any{{"filename": "b.go", "status": "added", "additions": 3}})
			return
		}

		w.Header().Set("Link", fmt.Sprintf(`<http://%s%s?page=2>; rel="next"`, r.Host, r.URL.Path))
		writeJSON(w, http.StatusOK, []map[string]any{{"filename": "a.go", "status": "modified", "patch": "@@ -1 +1 @@\n-a\n+b"}})
	})

	c := newTestClient(t, mux)

	files, err := c.ListPullRequestFiles(context.Background(), repo, 7)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.go", files[0].Filename)
	assert.Equal(t, "@@ -1 +1 @@\n-a\n+b", files[0].Patch)
	assert.Equal(t, "b.go", files[1].Filename)
	assert.Equal(t, 3, files[1].Additions)
}

func TestClient_GetFileAndListDir(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/acme/widgets/contents/docs/intro.mdx", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "main", r.URL.Query().Get("ref"))
		writeJSON(w, http.StatusOK, map[string]any{
			"type":     "file",
			"encoding": "base64",
			"content":  base64.StdEncoding.EncodeToString([]byte("# Intro")),
			"sha":      "abc123",
			"path":     "docs/intro.mdx",
			"name":     "intro.mdx",
		})
	})
	mux.HandleFunc("GET /repos/acme/widgets/contents/docs", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{
			{"type": "dir", "path": "docs/guides", "name": "guides"},
			{"type": "file", "path": "docs/intro.mdx", "name": "intro.mdx"},
		})
	})
	mux.HandleFunc("GET /repos/acme/widgets/contents/docs/missing.mdx", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not Found"})
	})

	c := newTestClient(t, mux)
	ctx := context.Background()

	f, err := c.GetFile(ctx, repo, "docs/intro.mdx", "main")
	require.NoError(t, err)
	assert.Equal(t, &scm.File{Path: "docs/intro.mdx", Content: "# Intro", SHA: "abc123"}, f)

	entries, err := c.ListDir(ctx, repo, "docs", "main")
	require.NoError(t, err)
	assert.Equal(t, []scm.Entry{
		{Name: "guides", Path: "docs/guides", Type: scm.EntryDir},
		{Name: "intro.mdx", Path: "docs/intro.mdx", Type: scm.EntryFile},
	}, entries)

	_, err = c.GetFile(ctx, repo, "docs/missing.mdx", "main")
	assert.ErrorIs(t, err, scm.ErrNotFound)
}

func TestClient_BranchAndPullRequest(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/acme/widgets/git/ref/heads/main", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ref": "refs/heads/main", "object": map[string]any{"sha": "base-sha"}})
	})
	mux.HandleFunc("POST /repos/acme/widgets/git/refs", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "refs/heads/docs/update-pr-7-1", body["ref"])
		assert.Equal(t, "base-sha", body["sha"])
		writeJSON(w, http.StatusCreated, map[string]any{"ref": body["ref"]})
	})
	mux.HandleFunc("PUT /repos/acme/widgets/contents/docs/new.mdx", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Add docs/new.mdx", body["message"])
		assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("body")), body["content"])
		assert.Nil(t, body["sha"])
		writeJSON(w, http.StatusCreated, map[string]any{})
	})
	mux.HandleFunc("POST /repos/acme/widgets/pulls", func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(raw), `"head":"docs/update-pr-7-1"`)
		writeJSON(w, http.StatusCreated, map[string]any{"number": 12, "html_url": "https://github.com/acme/widgets/pull/12"})
	})

	c := newTestClient(t, mux)
	ctx := context.Background()

	sha, err := c.GetBranchSHA(ctx, repo, "main")
	require.NoError(t, err)
	assert.Equal(t, "base-sha", sha)

	require.NoError(t, c.CreateBranch(ctx, repo, "docs/update-pr-7-1", sha))
	require.NoError(t, c.PutFile(ctx, repo, scm.FileWrite{Path: "docs/new.mdx", Content: []byte("body"), Message: "Add docs/new.mdx", Branch: "docs/update-pr-7-1"}))

	pr, err := c.CreatePullRequest(ctx, repo, scm.NewPullRequest{Title: "t", Body: "b", Head: "docs/update-pr-7-1", Base: "main"})
	require.NoError(t, err)
	assert.Equal(t, &scm.PullRequest{Number: 12, URL: "https://github.com/acme/widgets/pull/12"}, pr)
}

func TestClient_UpdateAndDeleteSendSHA(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /repos/acme/widgets/contents/docs/mint.json", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Update navigation structure", body["message"])
		assert.Equal(t, "docs/update-pr-7-1", body["branch"])
		assert.Equal(t, "nav-sha", body["sha"])
		writeJSON(w, http.StatusOK, map[string]any{})
	})
	mux.HandleFunc("DELETE /repos/acme/widgets/contents/docs/old.mdx", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Remove docs/old.mdx", body["message"])
		assert.Equal(t, "docs/update-pr-7-1", body["branch"])
		assert.Equal(t, "old-sha", body["sha"])
		writeJSON(w, http.StatusOK, map[string]any{})
	})

	c := newTestClient(t, mux)
	ctx := context.Background()

	require.NoError(t, c.PutFile(ctx, repo, scm.FileWrite{
		Path:    "docs/mint.json",
		Content: []byte("{}"),
		Message: "Update navigation structure",
		Branch:  "docs/update-pr-7-1",
		SHA:     "nav-sha",
	}))
	require.NoError(t, c.DeleteFile(ctx, repo, "docs/old.mdx", "Remove docs/old.mdx", "docs/update-pr-7-1", "old-sha"))
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("POST /repos/acme/widgets/issues/7/comments", func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			writeJSON(w, http.StatusBadGateway, map[string]any{"message": "bad gateway"})
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"id": 1})
	})
	mux.HandleFunc("POST /repos/acme/widgets/issues/8/labels", func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"message": "invalid"})
	})

	c := newTestClient(t, mux)

	require.NoError(t, c.CreateComment(context.Background(), repo, 7, "hello"))
	assert.Equal(t, int32(2), calls.Load())

	calls.Store(0)
	err := c.AddLabels(context.Background(), repo, 8, []string{"documentation"})
	assert.ErrorIs(t, err, scm.ErrConflict)
	assert.Equal(t, int32(1), calls.Load())
}

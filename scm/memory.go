package scm

import (
	"context"
	"crypto/sha1" //nolint:gosec // content addressing, not security
	"encoding/hex"
	"fmt"
	"maps"
	"path"
	"slices"
	"sort"
	"strings"
	"sync"
)

const memDefaultBranch = "main"

type memRepo struct {
	refs      map[string]map[string]string // ref -> path -> content
	pullFiles map[int][]ChangedFile
	opened    []OpenedPullRequest
	labels    map[int][]string
	comments  map[int][]string
}

// OpenedPullRequest is a pull request created through a MemoryHost.
type OpenedPullRequest struct {
	PullRequest
	NewPullRequest
}

type memFailure struct {
	op, path string
	err      error
}

// MemoryHost is a thread-safe in-memory Host. Branch and blob SHAs are
// derived from content, so writes with a stale SHA fail with ErrConflict the
// way the real host rejects them.
type MemoryHost struct {
	mu       sync.RWMutex
	repos    map[string]*memRepo
	failures []memFailure
}

// NewMemoryHost creates an empty MemoryHost.
func NewMemoryHost() *MemoryHost {
	return &MemoryHost{repos: make(map[string]*memRepo)}
}

func (h *MemoryHost) repo(r Repo) *memRepo {
	key := r.String()

	mr, ok := h.repos[key]
	if !ok {
		mr = &memRepo{
			refs:      map[string]map[string]string{},
			pullFiles: map[int][]ChangedFile{},
			labels:    map[int][]string{},
			comments:  map[int][]string{},
		}
		h.repos[key] = mr
	}

	return mr
}

func normalizeRef(ref string) string {
	switch {
	case ref == "":
		return memDefaultBranch
	case strings.HasPrefix(ref, "refs/heads/"):
		return strings.TrimPrefix(ref, "refs/heads/")
	case strings.HasPrefix(ref, "heads/"):
		return strings.TrimPrefix(ref, "heads/")
	default:
		return ref
	}
}

func cleanPath(p string) string {
	p = strings.Trim(path.Clean("/"+p), "/")
	if p == "." {
		return ""
	}

	return p
}

// BlobSHA returns the SHA MemoryHost reports for content.
func BlobSHA(content string) string {
	sum := sha1.Sum([]byte(content)) //nolint:gosec
	return hex.EncodeToString(sum[:])
}

func snapshotSHA(files map[string]string) string {
	keys := slices.Sorted(maps.Keys(files))

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte(0)
		b.WriteString(BlobSHA(files[k]))
		b.WriteByte('\n')
	}

	return BlobSHA(b.String())
}

// Fail makes every call of op (method name) on path fail with err. An empty
// path matches all paths.
func (h *MemoryHost) Fail(op, path string, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.failures = append(h.failures, memFailure{op: op, path: cleanPath(path), err: err})
}

func (h *MemoryHost) failure(op, p string) error {
	for _, f := range h.failures {
		if f.op == op && (f.path == "" || f.path == cleanPath(p)) {
			return f.err
		}
	}

	return nil
}

// AddFile seeds a file on ref (a branch name or a pull ref).
func (h *MemoryHost) AddFile(r Repo, ref, p, content string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	mr := h.repo(r)
	ref = normalizeRef(ref)

	if mr.refs[ref] == nil {
		mr.refs[ref] = map[string]string{}
	}

	mr.refs[ref][cleanPath(p)] = content
}

// AddPullRequest seeds a pull request's changed files. Files with a
// non-removed status are also readable at the pull request ref; their content
// comes from head.
func (h *MemoryHost) AddPullRequest(r Repo, number int, files []ChangedFile, head map[string]string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	mr := h.repo(r)
	mr.pullFiles[number] = slices.Clone(files)

	ref := PullRef(number)
	if mr.refs[ref] == nil {
		mr.refs[ref] = map[string]string{}
	}

	for p, c := range head {
		mr.refs[ref][cleanPath(p)] = c
	}
}

// ListPullRequestFiles implements Host.
func (h *MemoryHost) ListPullRequestFiles(_ context.Context, r Repo, number int) ([]ChangedFile, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if err := h.failure("ListPullRequestFiles", ""); err != nil {
		return nil, err
	}

	mr, ok := h.repos[r.String()]
	if !ok {
		return nil, fmt.Errorf("pull request %s#%d: %w", r, number, ErrNotFound)
	}

	files, ok := mr.pullFiles[number]
	if !ok {
		return nil, fmt.Errorf("pull request %s#%d: %w", r, number, ErrNotFound)
	}

	return slices.Clone(files), nil
}

func (h *MemoryHost) snapshot(r Repo, ref string) (map[string]string, bool) {
	mr, ok := h.repos[r.String()]
	if !ok {
		return nil, false
	}

	files, ok := mr.refs[normalizeRef(ref)]

	return files, ok
}

// GetFile implements Host.
func (h *MemoryHost) GetFile(_ context.Context, r Repo, p, ref string) (*File, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if err := h.failure("GetFile", p); err != nil {
		return nil, err
	}

	files, _ := h.snapshot(r, ref)

	content, ok := files[cleanPath(p)]
	if !ok {
		return nil, fmt.Errorf("file %s@%s: %w", p, ref, ErrNotFound)
	}

	return &File{Path: cleanPath(p), Content: content, SHA: BlobSHA(content)}, nil
}

// ListDir implements Host. Entries are sorted by name.
func (h *MemoryHost) ListDir(_ context.Context, r Repo, p, ref string) ([]Entry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if err := h.failure("ListDir", p); err != nil {
		return nil, err
	}

	dir := cleanPath(p)
	prefix := ""

	if dir != "" {
		prefix = dir + "/"
	}

	files, _ := h.snapshot(r, ref)
	seen := map[string]Entry{}

	for fp := range files {
		rest, ok := strings.CutPrefix(fp, prefix)
		if !ok || rest == "" {
			continue
		}

		name, _, isDir := strings.Cut(rest, "/")
		e := Entry{Name: name, Path: prefix + name, Type: EntryFile}

		if isDir {
			e.Type = EntryDir
		}

		seen[name] = e
	}

	if len(seen) == 0 {
		return nil, fmt.Errorf("directory %s@%s: %w", p, ref, ErrNotFound)
	}

	out := make([]Entry, 0, len(seen))
	for _, e := range seen {
		out = append(out, e)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out, nil
}

// GetBranchSHA implements Host.
func (h *MemoryHost) GetBranchSHA(_ context.Context, r Repo, branch string) (string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	files, ok := h.snapshot(r, branch)
	if !ok {
		return "", fmt.Errorf("branch %s: %w", branch, ErrNotFound)
	}

	return snapshotSHA(files), nil
}

// CreateBranch implements Host. sha must be the current SHA of an existing branch.
func (h *MemoryHost) CreateBranch(_ context.Context, r Repo, branch, sha string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.failure("CreateBranch", ""); err != nil {
		return err
	}

	mr := h.repo(r)
	branch = normalizeRef(branch)

	if _, exists := mr.refs[branch]; exists {
		return fmt.Errorf("branch %s already exists: %w", branch, ErrConflict)
	}

	for _, files := range mr.refs {
		if snapshotSHA(files) == sha {
			mr.refs[branch] = maps.Clone(files)
			return nil
		}
	}

	return fmt.Errorf("commit %s: %w", sha, ErrNotFound)
}

// PutFile implements Host.
func (h *MemoryHost) PutFile(_ context.Context, r Repo, w FileWrite) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.failure("PutFile", w.Path); err != nil {
		return err
	}

	mr := h.repo(r)

	files, ok := mr.refs[normalizeRef(w.Branch)]
	if !ok {
		return fmt.Errorf("branch %s: %w", w.Branch, ErrNotFound)
	}

	p := cleanPath(w.Path)
	current, exists := files[p]

	switch {
	case w.SHA == "" && exists:
		return fmt.Errorf("%s exists and no sha was supplied: %w", p, ErrConflict)
	case w.SHA != "" && (!exists || BlobSHA(current) != w.SHA):
		return fmt.Errorf("%s does not match %s: %w", p, w.SHA, ErrConflict)
	}

	files[p] = string(w.Content)

	return nil
}

// DeleteFile implements Host.
func (h *MemoryHost) DeleteFile(_ context.Context, r Repo, p, _, branch, sha string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.failure("DeleteFile", p); err != nil {
		return err
	}

	files, ok := h.repo(r).refs[normalizeRef(branch)]
	if !ok {
		return fmt.Errorf("branch %s: %w", branch, ErrNotFound)
	}

	p = cleanPath(p)

	current, exists := files[p]
	if !exists {
		return fmt.Errorf("file %s: %w", p, ErrNotFound)
	}

	if BlobSHA(current) != sha {
		return fmt.Errorf("%s does not match %s: %w", p, sha, ErrConflict)
	}

	delete(files, p)

	return nil
}

func (mr *memRepo) knownPull(number int) bool {
	if _, ok := mr.pullFiles[number]; ok {
		return true
	}

	for _, pr := range mr.opened {
		if pr.Number == number {
			return true
		}
	}

	return false
}

// CreatePullRequest implements Host.
func (h *MemoryHost) CreatePullRequest(_ context.Context, r Repo, pr NewPullRequest) (*PullRequest, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.failure("CreatePullRequest", ""); err != nil {
		return nil, err
	}

	mr := h.repo(r)

	if _, ok := mr.refs[normalizeRef(pr.Head)]; !ok {
		return nil, fmt.Errorf("head branch %s: %w", pr.Head, ErrNotFound)
	}

	number := 1
	for n := range mr.pullFiles {
		number = max(number, n+1)
	}

	for _, o := range mr.opened {
		number = max(number, o.Number+1)
	}

	created := PullRequest{Number: number, URL: fmt.Sprintf("memory://%s/pull/%d", r, number)}
	mr.opened = append(mr.opened, OpenedPullRequest{PullRequest: created, NewPullRequest: pr})

	return &created, nil
}

// AddLabels implements Host.
func (h *MemoryHost) AddLabels(_ context.Context, r Repo, number int, labels []string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.failure("AddLabels", ""); err != nil {
		return err
	}

	mr := h.repo(r)
	if !mr.knownPull(number) {
		return fmt.Errorf("pull request %s#%d: %w", r, number, ErrNotFound)
	}

	for _, l := range labels {
		if !slices.Contains(mr.labels[number], l) {
			mr.labels[number] = append(mr.labels[number], l)
		}
	}

	return nil
}

// CreateComment implements Host.
func (h *MemoryHost) CreateComment(_ context.Context, r Repo, number int, body string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.failure("CreateComment", ""); err != nil {
		return err
	}

	mr := h.repo(r)
	if !mr.knownPull(number) {
		return fmt.Errorf("pull request %s#%d: %w", r, number, ErrNotFound)
	}

	mr.comments[number] = append(mr.comments[number], body)

	return nil
}

// File returns the content of p on ref.
func (h *MemoryHost) File(r Repo, ref, p string) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	files, _ := h.snapshot(r, ref)
	c, ok := files[cleanPath(p)]

	return c, ok
}

// Branches lists the branch and pull refs of r.
func (h *MemoryHost) Branches(r Repo) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	mr, ok := h.repos[r.String()]
	if !ok {
		return nil
	}

	return slices.Sorted(maps.Keys(mr.refs))
}

// PullRequests returns the pull requests opened through h.
func (h *MemoryHost) PullRequests(r Repo) []OpenedPullRequest {
	h.mu.RLock()
	defer h.mu.RUnlock()

	mr, ok := h.repos[r.String()]
	if !ok {
		return nil
	}

	return slices.Clone(mr.opened)
}

// Labels returns the labels applied to a pull request.
func (h *MemoryHost) Labels(r Repo, number int) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if mr, ok := h.repos[r.String()]; ok {
		return slices.Clone(mr.labels[number])
	}

	return nil
}

// Comments returns the comments posted on a pull request.
func (h *MemoryHost) Comments(r Repo, number int) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if mr, ok := h.repos[r.String()]; ok {
		return slices.Clone(mr.comments[number])
	}

	return nil
}

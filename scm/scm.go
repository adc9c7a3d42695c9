// Package scm defines the source-control host boundary used by the pipeline:
// reading pull request changes and repository contents, and publishing
// branches, files, pull requests, labels and comments.
//
// Two implementations exist: MemoryHost in this package (tests, dry runs) and
// scm/github backed by the GitHub REST API.
package scm

import (
	"context"
	"errors"
	"fmt"

	"github.com/haikalllp/spinai-fork/core"
)

// ErrNotFound is returned when a file, directory, branch or pull request does
// not exist.
var ErrNotFound = errors.New("scm: not found")

// ErrConflict is returned when a write does not match the current revision.
var ErrConflict = errors.New("scm: conflict")

// Repo identifies a repository.
type Repo struct {
	Owner string
	Name  string
}

func (r Repo) String() string { return r.Owner + "/" + r.Name }

// PullRef is the git ref of a pull request's head commit.
func PullRef(number int) string { return fmt.Sprintf("refs/pull/%d/head", number) }

// ChangedFile is a file touched by a pull request.
type ChangedFile struct {
	Filename  string
	Patch     string
	Status    core.ChangeStatus
	Additions int
	Deletions int
}

// EntryType distinguishes files from directories in a listing.
type EntryType string

const (
	EntryFile EntryType = "file"
	EntryDir  EntryType = "dir"
)

// Entry is one item of a directory listing.
type Entry struct {
	Name string
	Path string
	Type EntryType
}

// File is a decoded file with its blob SHA.
type File struct {
	Path    string
	Content string
	SHA     string
}

// FileWrite creates a file when SHA is empty and updates it otherwise.
type FileWrite struct {
	Path    string
	Content []byte
	Message string
	Branch  string
	SHA     string
}

// NewPullRequest describes a pull request to open.
type NewPullRequest struct {
	Title string
	Body  string
	Head  string
	Base  string
}

// PullRequest identifies an opened pull request.
type PullRequest struct {
	Number int
	URL    string
}

// Host is the source-control host boundary.
type Host interface {
	ListPullRequestFiles(ctx context.Context, repo Repo, number int) ([]ChangedFile, error)
	GetFile(ctx context.Context, repo Repo, path, ref string) (*File, error)
	ListDir(ctx context.Context, repo Repo, path, ref string) ([]Entry, error)
	GetBranchSHA(ctx context.Context, repo Repo, branch string) (string, error)
	CreateBranch(ctx context.Context, repo Repo, branch, sha string) error
	PutFile(ctx context.Context, repo Repo, w FileWrite) error
	DeleteFile(ctx context.Context, repo Repo, path, message, branch, sha string) error
	CreatePullRequest(ctx context.Context, repo Repo, pr NewPullRequest) (*PullRequest, error)
	AddLabels(ctx context.Context, repo Repo, number int, labels []string) error
	CreateComment(ctx context.Context, repo Repo, number int, body string) error
}

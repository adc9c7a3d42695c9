// Package github implements scm.Host on top of the GitHub REST API.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v66/github"
	"github.com/haikalllp/spinai-fork/core"
	"github.com/haikalllp/spinai-fork/logging"
	"github.com/haikalllp/spinai-fork/retry"
	"github.com/haikalllp/spinai-fork/scm"
)

// Options configures the GitHub host.
type Options struct {
	Token      string
	BaseURL    string // GitHub Enterprise or test server API root
	HTTPClient *http.Client
	Retry      retry.Policy
	Logger     logging.Logger
}

// Client is an scm.Host backed by go-github.
type Client struct {
	gh     *gh.Client
	retry  retry.Policy
	logger logging.Logger
}

// New creates a Client. A token is required.
func New(optFns ...func(o *Options)) (*Client, error) {
	opts := Options{
		Retry:  retry.DefaultPolicy(),
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Token == "" {
		return nil, errors.New("github token is required")
	}

	client := gh.NewClient(opts.HTTPClient).WithAuthToken(opts.Token)

	if opts.BaseURL != "" {
		base := opts.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}

		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("parse base url: %w", err)
		}

		client.BaseURL = u
	}

	return &Client{gh: client, retry: opts.Retry, logger: opts.Logger}, nil
}

// do runs one API call under the retry policy and maps host errors.
func (c *Client) do(ctx context.Context, op string, fn func() (*gh.Response, error)) error {
	start := time.Now()

	err := retry.Do(ctx, c.retry, func() error {
		resp, err := fn()
		return classify(resp, err)
	}, func(attempt int, err error, wait time.Duration) {
		c.logger.Warn("Retrying host call", "operation", op, "attempt", attempt, "wait", wait, "error", err.Error())
	})

	if errors.Is(err, scm.ErrNotFound) {
		c.logger.Debug("Host call found nothing", "operation", op)
		return err
	}

	logging.LogHostCall(c.logger, op, time.Since(start), err)

	return err
}

// classify maps a go-github error to scm sentinels and marks transient failures.
func classify(resp *gh.Response, err error) error {
	if err == nil {
		return nil
	}

	var (
		rateErr  *gh.RateLimitError
		abuseErr *gh.AbuseRateLimitError
	)

	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return retry.Transient(err)
	}

	if resp != nil && resp.Response != nil {
		switch code := resp.StatusCode; {
		case code == http.StatusNotFound:
			return fmt.Errorf("%w: %w", scm.ErrNotFound, err)
		case code == http.StatusConflict || code == http.StatusUnprocessableEntity:
			return fmt.Errorf("%w: %w", scm.ErrConflict, err)
		case retry.IsTransientStatus(code):
			return retry.Transient(err)
		}
	}

	return err
}

// ListPullRequestFiles implements scm.Host, following pagination.
func (c *Client) ListPullRequestFiles(ctx context.Context, repo scm.Repo, number int) ([]scm.ChangedFile, error) {
	var out []scm.ChangedFile

	opts := &gh.ListOptions{PerPage: 100}

	for {
		var (
			page []*gh.CommitFile
			resp *gh.Response
		)

		err := c.do(ctx, "ListPullRequestFiles", func() (*gh.Response, error) {
			var err error
			page, resp, err = c.gh.PullRequests.ListFiles(ctx, repo.Owner, repo.Name, number, opts)

			return resp, err
		})
		if err != nil {
			return nil, fmt.Errorf("list files of %s#%d: %w", repo, number, err)
		}

		for _, f := range page {
			out = append(out, scm.ChangedFile{
				Filename:  f.GetFilename(),
				Patch:     f.GetPatch(),
				Status:    core.ChangeStatus(f.GetStatus()),
				Additions: f.GetAdditions(),
				Deletions: f.GetDeletions(),
			})
		}

		if resp == nil || resp.NextPage == 0 {
			return out, nil
		}

		opts.Page = resp.NextPage
	}
}

func (c *Client) contents(ctx context.Context, repo scm.Repo, path, ref string) (*gh.RepositoryContent, []*gh.RepositoryContent, error) {
	var (
		file *gh.RepositoryContent
		dir  []*gh.RepositoryContent
	)

	var opts *gh.RepositoryContentGetOptions
	if ref != "" {
		opts = &gh.RepositoryContentGetOptions{Ref: ref}
	}

	err := c.do(ctx, "GetContents", func() (*gh.Response, error) {
		var (
			resp *gh.Response
			err  error
		)

		file, dir, resp, err = c.gh.Repositories.GetContents(ctx, repo.Owner, repo.Name, path, opts)

		return resp, err
	})

	return file, dir, err
}

// GetFile implements scm.Host.
func (c *Client) GetFile(ctx context.Context, repo scm.Repo, path, ref string) (*scm.File, error) {
	file, _, err := c.contents(ctx, repo, path, ref)
	if err != nil {
		return nil, fmt.Errorf("get %s@%s: %w", path, ref, err)
	}

	if file == nil {
		return nil, fmt.Errorf("get %s@%s: path is a directory", path, ref)
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return &scm.File{Path: file.GetPath(), Content: content, SHA: file.GetSHA()}, nil
}

// ListDir implements scm.Host. A path naming a file yields that file alone.
func (c *Client) ListDir(ctx context.Context, repo scm.Repo, path, ref string) ([]scm.Entry, error) {
	file, dir, err := c.contents(ctx, repo, path, ref)
	if err != nil {
		return nil, fmt.Errorf("list %s@%s: %w", path, ref, err)
	}

	if file != nil {
		dir = []*gh.RepositoryContent{file}
	}

	out := make([]scm.Entry, 0, len(dir))
	for _, item := range dir {
		t := scm.EntryFile
		if item.GetType() == "dir" {
			t = scm.EntryDir
		}

		out = append(out, scm.Entry{Name: item.GetName(), Path: item.GetPath(), Type: t})
	}

	return out, nil
}

// GetBranchSHA implements scm.Host.
func (c *Client) GetBranchSHA(ctx context.Context, repo scm.Repo, branch string) (string, error) {
	var ref *gh.Reference

	err := c.do(ctx, "GetRef", func() (*gh.Response, error) {
		var (
			resp *gh.Response
			err  error
		)

		ref, resp, err = c.gh.Git.GetRef(ctx, repo.Owner, repo.Name, "heads/"+branch)

		return resp, err
	})
	if err != nil {
		return "", fmt.Errorf("get ref heads/%s: %w", branch, err)
	}

	return ref.GetObject().GetSHA(), nil
}

// CreateBranch implements scm.Host.
func (c *Client) CreateBranch(ctx context.Context, repo scm.Repo, branch, sha string) error {
	err := c.do(ctx, "CreateRef", func() (*gh.Response, error) {
		_, resp, err := c.gh.Git.CreateRef(ctx, repo.Owner, repo.Name, &gh.Reference{
			Ref:    gh.String("refs/heads/" + branch),
			Object: &gh.GitObject{SHA: gh.String(sha)},
		})

		return resp, err
	})
	if err != nil {
		return fmt.Errorf("create branch %s: %w", branch, err)
	}

	return nil
}

// PutFile implements scm.Host.
func (c *Client) PutFile(ctx context.Context, repo scm.Repo, w scm.FileWrite) error {
	opts := &gh.RepositoryContentFileOptions{
		Message: gh.String(w.Message),
		Content: w.Content,
		Branch:  gh.String(w.Branch),
	}

	op := "CreateFile"
	if w.SHA != "" {
		opts.SHA = gh.String(w.SHA)
		op = "UpdateFile"
	}

	err := c.do(ctx, op, func() (*gh.Response, error) {
		var (
			resp *gh.Response
			err  error
		)

		if w.SHA != "" {
			_, resp, err = c.gh.Repositories.UpdateFile(ctx, repo.Owner, repo.Name, w.Path, opts)
		} else {
			_, resp, err = c.gh.Repositories.CreateFile(ctx, repo.Owner, repo.Name, w.Path, opts)
		}

		return resp, err
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", w.Path, err)
	}

	return nil
}

// DeleteFile implements scm.Host.
func (c *Client) DeleteFile(ctx context.Context, repo scm.Repo, path, message, branch, sha string) error {
	err := c.do(ctx, "DeleteFile", func() (*gh.Response, error) {
		_, resp, err := c.gh.Repositories.DeleteFile(ctx, repo.Owner, repo.Name, path, &gh.RepositoryContentFileOptions{
			Message: gh.String(message),
			Branch:  gh.String(branch),
			SHA:     gh.String(sha),
		})

		return resp, err
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}

	return nil
}

// CreatePullRequest implements scm.Host.
func (c *Client) CreatePullRequest(ctx context.Context, repo scm.Repo, pr scm.NewPullRequest) (*scm.PullRequest, error) {
	var created *gh.PullRequest

	err := c.do(ctx, "CreatePullRequest", func() (*gh.Response, error) {
		var (
			resp *gh.Response
			err  error
		)

		created, resp, err = c.gh.PullRequests.Create(ctx, repo.Owner, repo.Name, &gh.NewPullRequest{
			Title: gh.String(pr.Title),
			Body:  gh.String(pr.Body),
			Head:  gh.String(pr.Head),
			Base:  gh.String(pr.Base),
		})

		return resp, err
	})
	if err != nil {
		return nil, fmt.Errorf("create pull request: %w", err)
	}

	return &scm.PullRequest{Number: created.GetNumber(), URL: created.GetHTMLURL()}, nil
}

// AddLabels implements scm.Host.
func (c *Client) AddLabels(ctx context.Context, repo scm.Repo, number int, labels []string) error {
	err := c.do(ctx, "AddLabels", func() (*gh.Response, error) {
		_, resp, err := c.gh.Issues.AddLabelsToIssue(ctx, repo.Owner, repo.Name, number, labels)
		return resp, err
	})
	if err != nil {
		return fmt.Errorf("add labels to #%d: %w", number, err)
	}

	return nil
}

// CreateComment implements scm.Host.
func (c *Client) CreateComment(ctx context.Context, repo scm.Repo, number int, body string) error {
	err := c.do(ctx, "CreateComment", func() (*gh.Response, error) {
		_, resp, err := c.gh.Issues.CreateComment(ctx, repo.Owner, repo.Name, number, &gh.IssueComment{Body: gh.String(body)})
		return resp, err
	})
	if err != nil {
		return fmt.Errorf("comment on #%d: %w", number, err)
	}

	return nil
}

package mintlify

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/haikalllp/spinai-fork/agent"
	"github.com/haikalllp/spinai-fork/core"
	"github.com/haikalllp/spinai-fork/internal/util"
	"github.com/haikalllp/spinai-fork/scm"
)

const (
	navigationCommitMessage = "Update navigation structure"
	defaultPRSummary        = "Documentation updates"
)

// CreateDocsPR publishes the generated content as a pull request on the
// docs repository and links it from the originating pull request.
type CreateDocsPR struct {
	agent.BaseAction
	host scm.Host
	now  func() time.Time
}

// NewCreateDocsPR creates the publisher. now defaults to time.Now.
func NewCreateDocsPR(host scm.Host, now func() time.Time) *CreateDocsPR {
	if now == nil {
		now = time.Now
	}

	a := &CreateDocsPR{BaseAction: agent.NewBaseAction(ActionCreateDocsPR), host: host, now: now}
	a.SetDescription("Creates a pull request with documentation updates")

	return a
}

// Run implements core.Action.
func (a *CreateDocsPR) Run(rc *core.RunContext, state core.ReviewState) (core.ReviewState, error) {
	if state.GeneratedContent == nil {
		return state, fmt.Errorf("%w: no generated content found, generate content first", core.ErrMissingState)
	}

	if state.UpdatePlan == nil {
		return state, fmt.Errorf("%w: update plan must be created before creating PR", core.ErrMissingState)
	}

	gen := state.GeneratedContent
	if len(gen.Files) == 0 && gen.NavigationUpdate == nil {
		rc.LogInfo("No updates to process, skipping PR creation")
		return state.WithPullRequest(core.PRResult{Files: []string{}, Skipped: true}), nil
	}

	docs := state.Docs()
	repo := scm.Repo{Owner: docs.Owner, Name: docs.Repo}
	now := a.now()
	branch := fmt.Sprintf("%s%d-%d", state.Config.PR.BranchPrefix, state.PullNumber, now.Unix())

	rc.LogInfo("Creating documentation branch", "repo", repo.String(), "base", docs.Branch, "branch", branch)

	baseSHA, err := a.host.GetBranchSHA(rc.Context, repo, docs.Branch)
	if err != nil {
		return state, fmt.Errorf("resolve base branch: %w", err)
	}

	if err := a.host.CreateBranch(rc.Context, repo, branch, baseSHA); err != nil {
		return state, err
	}

	committed := make([]string, 0, len(gen.Files))

	for _, f := range gen.Files {
		ok, err := a.commitFile(rc, repo, branch, f)
		if err != nil {
			if fatal(err) {
				return state, err
			}

			rc.LogError("Error committing file", "path", f.Path, "error", err.Error())

			continue
		}

		if ok {
			committed = append(committed, f.Path)
		}
	}

	if nav := gen.NavigationUpdate; nav != nil {
		err := a.host.PutFile(rc.Context, repo, scm.FileWrite{
			Path:    nav.Path,
			Content: []byte(nav.Content),
			Message: navigationCommitMessage,
			Branch:  branch,
			SHA:     nav.SHA,
		})
		if err != nil {
			rc.LogError("Error updating navigation", "path", nav.Path, "error", err.Error())
		}
	}

	summary := state.UpdatePlan.Summary
	if summary == "" {
		summary = defaultPRSummary
	}

	vars := map[string]string{
		"PR_NUMBER": strconv.Itoa(state.PullNumber),
		"TIMESTAMP": now.UTC().Format(time.DateOnly),
		"SUMMARY":   summary,
	}

	pr, err := a.host.CreatePullRequest(rc.Context, repo, scm.NewPullRequest{
		Title: util.ExpandPlaceholders(state.Config.PR.TitleTemplate, vars),
		Body:  util.ExpandPlaceholders(state.Config.PR.BodyTemplate, vars),
		Head:  branch,
		Base:  docs.Branch,
	})
	if err != nil {
		return state, err
	}

	rc.LogInfo("Pull request created", "number", pr.Number, "url", pr.URL)

	if labels := state.Config.PR.Labels; len(labels) > 0 {
		if err := a.host.AddLabels(rc.Context, repo, pr.Number, labels); err != nil {
			return state, err
		}
	}

	origin := scm.Repo{Owner: state.Owner, Name: state.Repo}
	if err := a.host.CreateComment(rc.Context, origin, state.PullNumber, "I've created a documentation update PR: "+pr.URL); err != nil {
		rc.LogWarn("Failed to add comment to original PR", "error", err.Error())
	}

	return state.WithPullRequest(core.PRResult{
		Number: pr.Number,
		URL:    pr.URL,
		Branch: branch,
		Files:  committed,
	}), nil
}

// commitFile writes or removes one generated file on branch. It reports
// false when there was nothing to do.
func (a *CreateDocsPR) commitFile(rc *core.RunContext, repo scm.Repo, branch string, f core.GeneratedFile) (bool, error) {
	existing, err := a.host.GetFile(rc.Context, repo, f.Path, branch)
	if err != nil && !errors.Is(err, scm.ErrNotFound) {
		return false, err
	}

	if f.Type == core.UpdateDelete {
		if existing == nil {
			rc.LogWarn("File to remove does not exist", "path", f.Path)
			return false, nil
		}

		return true, a.host.DeleteFile(rc.Context, repo, f.Path, "Remove "+f.Path, branch, existing.SHA)
	}

	w := scm.FileWrite{
		Path:    f.Path,
		Content: []byte(f.Content),
		Message: "Update " + f.Path,
		Branch:  branch,
	}

	if f.Type == core.UpdateCreate {
		w.Message = "Add " + f.Path
	}

	if existing != nil {
		w.SHA = existing.SHA
	}

	rc.LogDebug("Committing file", "path", f.Path, "exists", existing != nil)

	return true, a.host.PutFile(rc.Context, repo, w)
}

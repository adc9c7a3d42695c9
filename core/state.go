package core

import (
	"fmt"
	"strings"
)

// ChangeStatus is the host-reported status of a changed file.
type ChangeStatus string

const (
	ChangeAdded    ChangeStatus = "added"
	ChangeModified ChangeStatus = "modified"
	ChangeRemoved  ChangeStatus = "removed"
	ChangeRenamed  ChangeStatus = "renamed"
)

// Significance holds the cheap keyword heuristics computed per changed file.
type Significance struct {
	HasExports    bool `json:"hasExports"`
	HasInterfaces bool `json:"hasInterfaces"`
	HasClasses    bool `json:"hasClasses"`
	HasTypes      bool `json:"hasTypes"`
	HasEnums      bool `json:"hasEnums"`
	IsTest        bool `json:"isTest"`
}

// CodeChange describes one file touched by the pull request.
type CodeChange struct {
	File         string       `json:"file"`
	Patch        string       `json:"patch,omitempty"`
	Status       ChangeStatus `json:"status"`
	Additions    int          `json:"additions"`
	Deletions    int          `json:"deletions"`
	Category     string       `json:"category"`
	Significance Significance `json:"significance"`
	RelatedFiles []string     `json:"relatedFiles"`
}

// CodeAnalysis is the output of the code change analyzer.
type CodeAnalysis struct {
	Changes            []CodeChange `json:"changes"`
	Summary            string       `json:"summary"`
	ImpactedAreas      []string     `json:"impactedAreas"`
	SignificantChanges bool         `json:"significantChanges"`
}

// DocFile is a single documentation page found by the scanner.
type DocFile struct {
	Path       string   `json:"path"`
	Category   string   `json:"category"`
	References []string `json:"references"`
}

// DocStructure is the output of the doc structure scanner.
type DocStructure struct {
	Files      []DocFile  `json:"files"`
	Categories []string   `json:"categories"`
	Navigation Navigation `json:"navigation"`
	FileTree   string     `json:"fileTree"`
}

// File returns the doc file with the given path.
func (d DocStructure) File(path string) (DocFile, bool) {
	for _, f := range d.Files {
		if f.Path == path {
			return f, true
		}
	}

	return DocFile{}, false
}

// UpdateType is the kind of planned document operation.
type UpdateType string

const (
	UpdateCreate UpdateType = "create"
	UpdateUpdate UpdateType = "update"
	UpdateDelete UpdateType = "delete"
)

// Priority ranks planned updates.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// SuggestedContent is the outline the planner proposes for a page.
type SuggestedContent struct {
	Sections []string `json:"sections,omitempty"`
	Examples []string `json:"examples,omitempty"`
	Notes    []string `json:"notes,omitempty"`
}

// PlannedDocUpdate is one entry of the update plan.
type PlannedDocUpdate struct {
	Path             string            `json:"path"`
	Type             UpdateType        `json:"type" enum:"create,update,delete"`
	Priority         Priority          `json:"priority,omitempty" enum:"high,medium,low"`
	Reason           string            `json:"reason,omitempty"`
	SourceFiles      []string          `json:"sourceFiles,omitempty"`
	RelatedDocs      []string          `json:"relatedDocs,omitempty"`
	SuggestedContent *SuggestedContent `json:"suggestedContent,omitempty"`
}

// NavChangeType is a navigation operation kind.
type NavChangeType string

const (
	NavAdd    NavChangeType = "add"
	NavMove   NavChangeType = "move"
	NavRemove NavChangeType = "remove"
)

// NavigationChange is a single page operation inside a group.
type NavigationChange struct {
	Type NavChangeType `json:"type" enum:"add,move,remove"`
	Page string        `json:"page"`
}

// NavigationChangeGroup collects the changes that target one group.
type NavigationChangeGroup struct {
	Group   string             `json:"group"`
	Changes []NavigationChange `json:"changes"`
}

// NavigationOp is a flattened navigation change with its target group.
type NavigationOp struct {
	Type  NavChangeType `json:"type"`
	Page  string        `json:"page"`
	Group string        `json:"group"`
}

// UpdatePlan is the output of the update planner.
type UpdatePlan struct {
	Summary           string                  `json:"summary"`
	Updates           []PlannedDocUpdate      `json:"updates"`
	NavigationChanges []NavigationChangeGroup `json:"navigationChanges"`
}

// Operations flattens the navigation change groups in plan order.
func (p UpdatePlan) Operations() []NavigationOp {
	var ops []NavigationOp

	for _, g := range p.NavigationChanges {
		for _, c := range g.Changes {
			ops = append(ops, NavigationOp{Type: c.Type, Page: c.Page, Group: g.Group})
		}
	}

	return ops
}

// IsPlanned reports whether the plan creates or updates path.
func (p UpdatePlan) IsPlanned(path string) bool {
	for _, u := range p.Updates {
		if u.Path == path && u.Type != UpdateDelete {
			return true
		}
	}

	return false
}

// GeneratedFile is a finalized document body.
type GeneratedFile struct {
	Path    string     `json:"path"`
	Content string     `json:"content"`
	Type    UpdateType `json:"type"`
	Reason  string     `json:"reason"`
}

// NavigationUpdate is a rewritten navigation manifest.
type NavigationUpdate struct {
	Path    string         `json:"path"`
	Content string         `json:"content"`
	SHA     string         `json:"sha"`
	Changes []NavigationOp `json:"changes"`
}

// GeneratedContent is the output of the content generator and the
// navigation updater.
type GeneratedContent struct {
	Files            []GeneratedFile   `json:"files"`
	NavigationUpdate *NavigationUpdate `json:"navigationUpdate,omitempty"`
}

// PRResult identifies the published documentation pull request. Skipped is
// set when there was nothing to publish.
type PRResult struct {
	Number  int      `json:"prNumber"`
	URL     string   `json:"prUrl"`
	Branch  string   `json:"branch"`
	Files   []string `json:"files"`
	Skipped bool     `json:"skipped,omitempty"`
}

// DocsRepo locates the repository holding the documentation.
type DocsRepo struct {
	Owner  string `json:"owner" yaml:"owner"`
	Repo   string `json:"repo" yaml:"repo"`
	Branch string `json:"branch" yaml:"branch"`
}

// ReviewState is the value threaded through the pipeline. Actions never
// mutate a received state; they return an updated copy built with the With*
// methods, each of which bumps Version.
type ReviewState struct {
	Owner      string    `json:"owner"`
	Repo       string    `json:"repo"`
	PullNumber int       `json:"pullNumber"`
	Config     DocConfig `json:"config"`
	DocsRepo   *DocsRepo `json:"docsRepo,omitempty"`
	Version    int       `json:"version"`

	CodeAnalysis     *CodeAnalysis     `json:"codeAnalysis,omitempty"`
	DocStructure     *DocStructure     `json:"docStructure,omitempty"`
	UpdatePlan       *UpdatePlan       `json:"updatePlan,omitempty"`
	GeneratedContent *GeneratedContent `json:"generatedContent,omitempty"`
	PullRequest      *PRResult         `json:"pullRequest,omitempty"`
}

// NewReviewState creates the initial state for a pull request.
func NewReviewState(owner, repo string, pullNumber int, cfg DocConfig) ReviewState {
	return ReviewState{
		Owner:      owner,
		Repo:       repo,
		PullNumber: pullNumber,
		Config:     cfg,
	}
}

// Validate checks the run identifiers.
func (s ReviewState) Validate() error {
	if strings.TrimSpace(s.Owner) == "" || strings.TrimSpace(s.Repo) == "" || s.PullNumber <= 0 {
		return fmt.Errorf("%w: owner, repo and a positive pull number are required", ErrInvalidState)
	}

	return nil
}

// Docs resolves the documentation repository, defaulting to the pull
// request's repository on branch main.
func (s ReviewState) Docs() DocsRepo {
	d := DocsRepo{Owner: s.Owner, Repo: s.Repo, Branch: "main"}
	if s.DocsRepo == nil {
		return d
	}

	if s.DocsRepo.Owner != "" {
		d.Owner = s.DocsRepo.Owner
	}

	if s.DocsRepo.Repo != "" {
		d.Repo = s.DocsRepo.Repo
	}

	if s.DocsRepo.Branch != "" {
		d.Branch = s.DocsRepo.Branch
	}

	return d
}

// WithCodeAnalysis returns a copy carrying a.
func (s ReviewState) WithCodeAnalysis(a CodeAnalysis) ReviewState {
	s.CodeAnalysis = &a
	s.Version++

	return s
}

// WithDocStructure returns a copy carrying d.
func (s ReviewState) WithDocStructure(d DocStructure) ReviewState {
	s.DocStructure = &d
	s.Version++

	return s
}

// WithUpdatePlan returns a copy carrying p.
func (s ReviewState) WithUpdatePlan(p UpdatePlan) ReviewState {
	s.UpdatePlan = &p
	s.Version++

	return s
}

// WithGeneratedContent returns a copy carrying g.
func (s ReviewState) WithGeneratedContent(g GeneratedContent) ReviewState {
	s.GeneratedContent = &g
	s.Version++

	return s
}

// WithNavigationUpdate returns a copy whose generated content carries u.
// The receiver's GeneratedContent is not modified.
func (s ReviewState) WithNavigationUpdate(u *NavigationUpdate) ReviewState {
	var g GeneratedContent
	if s.GeneratedContent != nil {
		g = *s.GeneratedContent
	}

	g.NavigationUpdate = u

	return s.WithGeneratedContent(g)
}

// WithPullRequest returns a copy carrying r.
func (s ReviewState) WithPullRequest(r PRResult) ReviewState {
	s.PullRequest = &r
	s.Version++

	return s
}

package mintlify

import (
	"fmt"
	"path"
	"regexp"
	"slices"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
	"github.com/haikalllp/spinai-fork/agent"
	"github.com/haikalllp/spinai-fork/core"
	"github.com/haikalllp/spinai-fork/internal/structured"
	"github.com/haikalllp/spinai-fork/internal/util"
	"github.com/haikalllp/spinai-fork/model"
	"github.com/haikalllp/spinai-fork/scm"
)

const (
	analysisTemperature = 0.1

	fallbackAnalysisSummary = "Error parsing analysis"
	defaultAnalysisSummary  = "No summary provided"
)

// codeAnalysisResponse is the JSON the model returns for a diff.
type codeAnalysisResponse struct {
	Summary            string   `json:"summary,omitempty"`
	ImpactedAreas      []string `json:"impactedAreas,omitempty"`
	SignificantChanges bool     `json:"significantChanges,omitempty"`
	RelatedFiles       []string `json:"relatedFiles,omitempty"`
}

var codeAnalysisSchema = structured.MustSchema[codeAnalysisResponse]()

// AnalyzeCodeChanges summarizes the files changed by the pull request.
type AnalyzeCodeChanges struct {
	agent.BaseAction
	host scm.Host
	llm  model.Model
}

// NewAnalyzeCodeChanges creates the analyzer.
func NewAnalyzeCodeChanges(host scm.Host, llm model.Model) *AnalyzeCodeChanges {
	a := &AnalyzeCodeChanges{BaseAction: agent.NewBaseAction(ActionAnalyzeCodeChanges), host: host, llm: llm}
	a.SetDescription("Analyzes code changes from a PR to determine what documentation needs updating")

	return a
}

// Run implements core.Action.
func (a *AnalyzeCodeChanges) Run(rc *core.RunContext, state core.ReviewState) (core.ReviewState, error) {
	if err := state.Validate(); err != nil {
		return state, err
	}

	repo := scm.Repo{Owner: state.Owner, Name: state.Repo}
	rc.LogInfo("Analyzing pull request", "repo", repo.String(), "pull_number", state.PullNumber)

	files, err := a.host.ListPullRequestFiles(rc.Context, repo, state.PullNumber)
	if err != nil {
		return state, fmt.Errorf("fetch changed files: %w", err)
	}

	rc.LogDebug("Fetched changed files", "count", len(files))

	changes, areas := classifyChanges(files)

	prompt, err := util.RenderTemplate(codeAnalysisPrompt, changes)
	if err != nil {
		return state, err
	}

	text, err := model.Complete(rc, a.llm, model.Request{
		Instructions: codeAnalysisInstructions,
		Messages:     []model.Message{model.UserMessage(prompt)},
		Temperature:  model.Temperature(analysisTemperature),
		JSON:         true,
	})
	if err != nil {
		return state, err
	}

	res := codeAnalysisSchema.Decode(text)
	if !res.OK() {
		rc.LogError("Failed to parse code analysis", "kind", string(res.Err.Kind), "error", res.Err.Error())
	}

	analysis := mergeAnalysis(changes, areas, res.Or(codeAnalysisResponse{Summary: fallbackAnalysisSummary}))

	rc.LogInfo("Code analysis complete",
		"summary", analysis.Summary,
		"impacted_areas", strings.Join(analysis.ImpactedAreas, ", "),
		"significant", analysis.SignificantChanges,
		"files", len(analysis.Changes),
	)

	return state.WithCodeAnalysis(analysis), nil
}

// mergeAnalysis combines the heuristic results with the model's answer.
func mergeAnalysis(changes []core.CodeChange, areas []string, resp codeAnalysisResponse) core.CodeAnalysis {
	for i := range changes {
		related := append([]string{}, resp.RelatedFiles...)
		changes[i].RelatedFiles = slices.DeleteFunc(related, func(f string) bool {
			return f == changes[i].File
		})
	}

	summary := resp.Summary
	if summary == "" {
		summary = defaultAnalysisSummary
	}

	return core.CodeAnalysis{
		Changes:            changes,
		Summary:            summary,
		ImpactedAreas:      dedupe(areas, resp.ImpactedAreas),
		SignificantChanges: resp.SignificantChanges,
	}
}

// classifyChanges computes per-file heuristics and the impacted categories
// of non-test files, in first-seen order.
func classifyChanges(files []scm.ChangedFile) ([]core.CodeChange, []string) {
	changes := make([]core.CodeChange, 0, len(files))

	var areas []string

	for _, f := range files {
		added, deleted, body := diffLines(f)

		c := core.CodeChange{
			File:         f.Filename,
			Patch:        f.Patch,
			Status:       f.Status,
			Additions:    f.Additions,
			Deletions:    f.Deletions,
			Category:     category(f.Filename),
			Significance: significance(f.Filename, body),
		}

		if c.Additions == 0 && c.Deletions == 0 {
			c.Additions, c.Deletions = added, deleted
		}

		changes = append(changes, c)

		if c.Category != "" && !c.Significance.IsTest {
			areas = append(areas, c.Category)
		}
	}

	return changes, dedupe(areas)
}

// category is the name of the file's parent directory.
func category(file string) string {
	dir := path.Dir(file)
	if dir == "." || dir == "/" {
		return ""
	}

	return path.Base(dir)
}

var (
	exportRe    = regexp.MustCompile(`\bexport\s`)
	interfaceRe = regexp.MustCompile(`\binterface\s`)
	classRe     = regexp.MustCompile(`\bclass\s`)
	typeRe      = regexp.MustCompile(`\btype\s`)
	enumRe      = regexp.MustCompile(`\benum\s`)
)

func significance(file, body string) core.Significance {
	return core.Significance{
		HasExports:    exportRe.MatchString(body),
		HasInterfaces: interfaceRe.MatchString(body),
		HasClasses:    classRe.MatchString(body),
		HasTypes:      typeRe.MatchString(body),
		HasEnums:      enumRe.MatchString(body),
		IsTest:        isTestFile(file),
	}
}

func isTestFile(file string) bool {
	return strings.Contains(file, ".test.") || strings.Contains(file, ".spec.") || strings.HasSuffix(file, "_test.go")
}

// diffLines parses the hunk-only patch the host returns and yields the
// counts and the text of added and deleted lines. When the patch cannot be
// parsed, the raw patch is returned as the body.
func diffLines(f scm.ChangedFile) (added, deleted int, body string) {
	if f.Patch == "" {
		return 0, 0, ""
	}

	header := fmt.Sprintf("diff --git a/%[1]s b/%[1]s\n--- a/%[1]s\n+++ b/%[1]s\n", f.Filename)

	parsed, _, err := gitdiff.Parse(strings.NewReader(header + strings.TrimRight(f.Patch, "\n") + "\n"))
	if err != nil || len(parsed) == 0 || len(parsed[0].TextFragments) == 0 {
		return 0, 0, f.Patch
	}

	var b strings.Builder

	for _, frag := range parsed[0].TextFragments {
		for _, line := range frag.Lines {
			switch line.Op {
			case gitdiff.OpAdd:
				added++
			case gitdiff.OpDelete:
				deleted++
			default:
				continue
			}

			b.WriteString(line.Line)
		}
	}

	return added, deleted, b.String()
}

// dedupe concatenates lists, dropping empty and repeated entries while
// keeping first-seen order. The result is never nil.
func dedupe(lists ...[]string) []string {
	out := []string{}
	seen := map[string]bool{}

	for _, list := range lists {
		for _, s := range list {
			if s == "" || seen[s] {
				continue
			}

			seen[s] = true
			out = append(out, s)
		}
	}

	return out
}

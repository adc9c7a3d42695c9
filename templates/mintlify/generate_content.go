package mintlify

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/haikalllp/spinai-fork/agent"
	"github.com/haikalllp/spinai-fork/core"
	"github.com/haikalllp/spinai-fork/internal/structured"
	"github.com/haikalllp/spinai-fork/internal/util"
	"github.com/haikalllp/spinai-fork/model"
	"github.com/haikalllp/spinai-fork/scm"
)

// ErrEmptyContent is returned when the model produces no page body.
var ErrEmptyContent = errors.New("failed to generate content")

type sourceContext struct {
	Path    string
	Status  string
	Patch   string
	Content string
}

type generateInput struct {
	Update    core.PlannedDocUpdate
	Sources   []sourceContext
	Template  string
	Existing  string
	Suggested string
	Related   []string
}

// GenerateContent writes the body of every planned page.
type GenerateContent struct {
	agent.BaseAction
	host scm.Host
	llm  model.Model
}

// NewGenerateContent creates the content generator.
func NewGenerateContent(host scm.Host, llm model.Model) *GenerateContent {
	a := &GenerateContent{BaseAction: agent.NewBaseAction(ActionGenerateContent), host: host, llm: llm}
	a.SetDescription("Generates content for documentation updates based on the plan")

	return a
}

// Run implements core.Action.
func (a *GenerateContent) Run(rc *core.RunContext, state core.ReviewState) (core.ReviewState, error) {
	switch {
	case state.UpdatePlan == nil:
		return state, fmt.Errorf("%w: no update plan found, create a plan first", core.ErrMissingState)
	case state.DocStructure == nil:
		return state, fmt.Errorf("%w: no documentation structure found, analyze docs first", core.ErrMissingState)
	case state.CodeAnalysis == nil:
		return state, fmt.Errorf("%w: no code analysis found, analyze code first", core.ErrMissingState)
	}

	files := make([]core.GeneratedFile, 0, len(state.UpdatePlan.Updates))

	for _, u := range state.UpdatePlan.Updates {
		rc.LogInfo("Processing planned update", "path", u.Path, "type", string(u.Type), "priority", string(u.Priority))

		if u.Type == core.UpdateDelete {
			files = append(files, core.GeneratedFile{Path: u.Path, Type: u.Type, Reason: u.Reason})
			continue
		}

		content, err := a.generate(rc, state, u)
		if err != nil {
			return state, fmt.Errorf("generate %s: %w", u.Path, err)
		}

		files = append(files, core.GeneratedFile{Path: u.Path, Content: content, Type: u.Type, Reason: u.Reason})
	}

	rc.LogInfo("Content generation complete", "files", len(files))

	return state.WithGeneratedContent(core.GeneratedContent{Files: files}), nil
}

func (a *GenerateContent) generate(rc *core.RunContext, state core.ReviewState, u core.PlannedDocUpdate) (string, error) {
	docs := state.Docs()
	docsRepo := scm.Repo{Owner: docs.Owner, Name: docs.Repo}

	in := generateInput{
		Update:  u,
		Sources: a.sources(rc, state, u.SourceFiles),
		Related: relatedDocs(state, u.RelatedDocs),
	}

	switch u.Type {
	case core.UpdateUpdate:
		if f, err := a.host.GetFile(rc.Context, docsRepo, u.Path, docs.Branch); err != nil {
			rc.LogDebug("No existing content found", "path", u.Path, "error", err.Error())
		} else {
			in.Existing = f.Content
		}
	case core.UpdateCreate:
		if tmpl, ok := templateFile(*state.DocStructure, u.Path); ok {
			if f, err := a.host.GetFile(rc.Context, docsRepo, tmpl, docs.Branch); err != nil {
				rc.LogDebug("Template unavailable", "template", tmpl, "error", err.Error())
			} else {
				in.Template = f.Content
				rc.LogDebug("Found template", "template", tmpl)
			}
		}
	}

	if u.SuggestedContent != nil {
		if b, err := json.MarshalIndent(u.SuggestedContent, "", "  "); err == nil {
			in.Suggested = string(b)
		}
	}

	instructions, err := util.RenderTemplate(generateInstructions, map[string]any{
		"Type":       u.Type,
		"StyleGuide": state.Config.LLM.StyleGuide,
	})
	if err != nil {
		return "", err
	}

	prompt, err := util.RenderTemplate(generatePrompt, in)
	if err != nil {
		return "", err
	}

	text, err := model.Complete(rc, a.llm, model.Request{
		Instructions: instructions,
		Messages:     []model.Message{model.UserMessage(prompt)},
		Temperature:  model.Temperature(state.Config.LLM.Temperature),
	})
	if err != nil {
		return "", err
	}

	content := structured.StripFence(text)
	if content == "" {
		return "", ErrEmptyContent
	}

	return content, nil
}

// sources collects the patch and head content of each source file.
func (a *GenerateContent) sources(rc *core.RunContext, state core.ReviewState, files []string) []sourceContext {
	repo := scm.Repo{Owner: state.Owner, Name: state.Repo}
	out := make([]sourceContext, 0, len(files))

	for _, p := range files {
		sc := sourceContext{Path: p}

		for _, c := range state.CodeAnalysis.Changes {
			if c.File == p {
				sc.Status, sc.Patch = string(c.Status), c.Patch
				break
			}
		}

		f, err := a.host.GetFile(rc.Context, repo, p, scm.PullRef(state.PullNumber))
		if err != nil {
			rc.LogWarn("Could not fetch source file", "path", p, "error", err.Error())
		} else {
			sc.Content = f.Content
		}

		out = append(out, sc)
	}

	return out
}

// templateFile picks the first page of the same category as p.
func templateFile(d core.DocStructure, p string) (string, bool) {
	cat := category(p)

	for _, f := range d.Files {
		if f.Category == cat && f.Path != p {
			return f.Path, true
		}
	}

	return "", false
}

// relatedDocs annotates each related page as existing or planned.
func relatedDocs(state core.ReviewState, docs []string) []string {
	out := make([]string, 0, len(docs))

	for _, d := range docs {
		mark := "(planned)"
		if _, ok := state.DocStructure.File(d); ok {
			mark = "(exists)"
		}

		out = append(out, d+" "+mark)
	}

	return out
}

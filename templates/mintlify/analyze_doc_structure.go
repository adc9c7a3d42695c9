package mintlify

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/haikalllp/spinai-fork/agent"
	"github.com/haikalllp/spinai-fork/core"
	"github.com/haikalllp/spinai-fork/internal/structured"
	"github.com/haikalllp/spinai-fork/internal/util"
	"github.com/haikalllp/spinai-fork/model"
	"github.com/haikalllp/spinai-fork/scm"
	"golang.org/x/sync/errgroup"
)

// docReferenceResponse is the JSON the model returns for one page.
type docReferenceResponse struct {
	References  []string `json:"references,omitempty"`
	CodeFiles   []string `json:"codeFiles,omitempty"`
	RelatedDocs []string `json:"relatedDocs,omitempty"`
}

var docReferenceSchema = structured.MustSchema[docReferenceResponse]()

// AnalyzeDocStructure scans the documentation tree of the docs repository.
type AnalyzeDocStructure struct {
	agent.BaseAction
	host scm.Host
	llm  model.Model
}

// NewAnalyzeDocStructure creates the scanner.
func NewAnalyzeDocStructure(host scm.Host, llm model.Model) *AnalyzeDocStructure {
	a := &AnalyzeDocStructure{BaseAction: agent.NewBaseAction(ActionAnalyzeDocStructure), host: host, llm: llm}
	a.SetDescription("Analyzes the documentation repository structure and relationships between files")

	return a
}

// Run implements core.Action.
func (a *AnalyzeDocStructure) Run(rc *core.RunContext, state core.ReviewState) (core.ReviewState, error) {
	docs := state.Docs()
	repo := scm.Repo{Owner: docs.Owner, Name: docs.Repo}
	cfg := state.Config

	rc.LogInfo("Scanning documentation", "repo", repo.String(), "branch", docs.Branch, "docs_path", cfg.DocsPath)

	w := &docWalker{host: a.host, repo: repo, ref: docs.Branch, root: cleanDir(cfg.DocsPath), navFile: cfg.NavigationFile, rc: rc}
	w.walk(rc.Context, w.root, 0)

	if err := rc.Err(); err != nil {
		return state, err
	}

	if w.files == nil {
		w.files = []core.DocFile{}
	}

	structure := core.DocStructure{
		Files:      w.files,
		Categories: dedupe(w.categories),
		FileTree:   w.tree.String(),
		Navigation: core.Navigation{},
	}

	if m := a.navigation(rc, repo, docs.Branch, cfg, w.manifest); m != nil {
		structure.Navigation = m.Navigation
		rc.LogDebug("Read navigation manifest", "path", m.Path, "groups", len(m.Navigation))
	}

	if err := a.analyzeReferences(rc, repo, docs.Branch, cfg.ReferenceConcurrency, structure.Files); err != nil {
		return state, err
	}

	rc.LogInfo("Documentation scan complete", "files", len(structure.Files), "categories", strings.Join(structure.Categories, ", "))

	return state.WithDocStructure(structure), nil
}

// navigation reads the manifest found during the walk, or locates one.
// Failures are logged and leave the navigation empty.
func (a *AnalyzeDocStructure) navigation(rc *core.RunContext, repo scm.Repo, ref string, cfg core.DocConfig, found string) *manifest {
	var (
		m   *manifest
		err error
	)

	if found != "" {
		m, err = readManifest(rc.Context, a.host, repo, ref, found)
	} else {
		m, err = locateManifest(rc.Context, a.host, repo, ref, cfg)
	}

	if err != nil {
		rc.LogWarn("Could not read navigation manifest", "file", cfg.NavigationFile, "error", err.Error())
		return nil
	}

	return m
}

// analyzeReferences asks the model for the references of every page. Up to
// limit pages are analyzed at once; results are stored by index so the
// outcome does not depend on scheduling.
func (a *AnalyzeDocStructure) analyzeReferences(rc *core.RunContext, repo scm.Repo, ref string, limit int, files []core.DocFile) error {
	if len(files) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(rc.Context)
	g.SetLimit(max(limit, 1))

	grc := rc.WithContext(gctx)
	results := make([][]string, len(files))

	for i, f := range files {
		g.Go(func() error {
			refs, err := a.references(grc, repo, ref, f.Path)
			if err != nil {
				if fatal(err) {
					return err
				}

				grc.LogWarn("Error analyzing references", "path", f.Path, "error", err.Error())

				return nil
			}

			results[i] = refs

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("analyze references: %w", err)
	}

	for i := range files {
		files[i].References = dedupe(results[i])
	}

	return nil
}

func (a *AnalyzeDocStructure) references(rc *core.RunContext, repo scm.Repo, ref, p string) ([]string, error) {
	f, err := a.host.GetFile(rc.Context, repo, p, ref)
	if err != nil {
		return nil, err
	}

	prompt, err := util.RenderTemplate(docReferencePrompt, map[string]string{"Path": p, "Content": f.Content})
	if err != nil {
		return nil, err
	}

	text, err := model.Complete(rc, a.llm, model.Request{
		Instructions: docReferenceInstructions,
		Messages:     []model.Message{model.UserMessage(prompt)},
		Temperature:  model.Temperature(analysisTemperature),
		JSON:         true,
	})
	if err != nil {
		return nil, err
	}

	res := docReferenceSchema.Decode(text)
	if !res.OK() {
		rc.LogError("Failed to parse reference analysis", "path", p, "kind", string(res.Err.Kind))
		return nil, nil
	}

	return dedupe(res.Value.References, res.Value.CodeFiles, res.Value.RelatedDocs), nil
}

// fatal reports errors that must abort the run instead of skipping an item.
func fatal(err error) bool {
	return errors.Is(err, core.ErrModelCallLimit) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// docWalker lists the docs tree depth-first.
type docWalker struct {
	host    scm.Host
	repo    scm.Repo
	ref     string
	root    string
	navFile string
	rc      *core.RunContext

	files      []core.DocFile
	categories []string
	tree       strings.Builder
	manifest   string
}

func (w *docWalker) walk(ctx context.Context, dir string, depth int) {
	if ctx.Err() != nil {
		return
	}

	w.rc.LogDebug("Traversing path", "path", dir)

	entries, err := w.host.ListDir(ctx, w.repo, dir, w.ref)
	if err != nil {
		w.rc.LogWarn("Error reading directory", "path", dir, "error", err.Error())
		return
	}

	for _, e := range entries {
		icon := "📄"
		if e.Type == scm.EntryDir {
			icon = "📁"
		}

		fmt.Fprintf(&w.tree, "%s%s %s\n", strings.Repeat("  ", depth), icon, e.Path)

		switch {
		case e.Type == scm.EntryDir:
			if dir == w.root {
				w.categories = append(w.categories, e.Name)
			}

			w.walk(ctx, e.Path, depth+1)
		case isDocPage(e.Path):
			w.files = append(w.files, core.DocFile{Path: e.Path, Category: category(e.Path), References: []string{}})
		case e.Name == w.navFile && w.manifest == "":
			w.manifest = e.Path
		}
	}
}

func isDocPage(p string) bool {
	ext := path.Ext(p)
	return ext == ".md" || ext == ".mdx"
}

func cleanDir(p string) string {
	c := path.Clean(strings.Trim(p, "/"))
	if c == "." {
		return ""
	}

	return c
}

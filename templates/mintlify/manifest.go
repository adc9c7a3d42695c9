package mintlify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"

	"github.com/haikalllp/spinai-fork/core"
	"github.com/haikalllp/spinai-fork/scm"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// ErrNoNavigation is returned for manifests without a navigation array.
var ErrNoNavigation = errors.New("manifest has no navigation array")

const navigationKey = "navigation"

// manifest is a navigation manifest as read from the host.
type manifest struct {
	Path       string
	SHA        string
	Content    string
	Navigation core.Navigation
}

// manifestCandidates lists where the manifest may live: inside the docs
// directory first, then at the repository root.
func manifestCandidates(cfg core.DocConfig) []string {
	root := cfg.NavigationFile

	docs := cleanDir(cfg.DocsPath)
	if docs == "" {
		return []string{root}
	}

	return []string{path.Join(docs, root), root}
}

// locateManifest returns the first manifest found among the candidates.
func locateManifest(ctx context.Context, host scm.Host, repo scm.Repo, ref string, cfg core.DocConfig) (*manifest, error) {
	var lastErr error

	for _, p := range manifestCandidates(cfg) {
		m, err := readManifest(ctx, host, repo, ref, p)
		if err == nil {
			return m, nil
		}

		if !errors.Is(err, scm.ErrNotFound) {
			return nil, err
		}

		lastErr = err
	}

	return nil, lastErr
}

// readManifest fetches p and decodes its navigation array.
func readManifest(ctx context.Context, host scm.Host, repo scm.Repo, ref, p string) (*manifest, error) {
	f, err := host.GetFile(ctx, repo, p, ref)
	if err != nil {
		return nil, err
	}

	nav, err := parseNavigation(f.Content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}

	return &manifest{Path: f.Path, SHA: f.SHA, Content: f.Content, Navigation: nav}, nil
}

func parseNavigation(content string) (core.Navigation, error) {
	if !gjson.Valid(content) {
		return nil, errors.New("invalid JSON")
	}

	res := gjson.Get(content, navigationKey)
	if !res.IsArray() {
		return nil, ErrNoNavigation
	}

	var nav core.Navigation
	if err := json.Unmarshal([]byte(res.Raw), &nav); err != nil {
		return nil, fmt.Errorf("decode navigation: %w", err)
	}

	return nav, nil
}

// rewriteNavigation replaces the navigation array of content and returns
// the pretty-printed manifest. Every other key keeps its value and position.
func rewriteNavigation(content string, nav core.Navigation) (string, error) {
	if nav == nil {
		nav = core.Navigation{}
	}

	raw, err := json.Marshal(nav)
	if err != nil {
		return "", fmt.Errorf("encode navigation: %w", err)
	}

	out, err := sjson.SetRawBytes([]byte(content), navigationKey, raw)
	if err != nil {
		return "", fmt.Errorf("set navigation: %w", err)
	}

	return string(pretty.PrettyOptions(out, &pretty.Options{Width: 80, Indent: "  "})), nil
}

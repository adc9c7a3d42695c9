package mintlify

import (
	"fmt"

	"github.com/haikalllp/spinai-fork/agent"
	"github.com/haikalllp/spinai-fork/core"
	"github.com/haikalllp/spinai-fork/scm"
)

// UpdateNavigation applies the planned navigation changes to the manifest.
// Every failure here is logged and leaves the state without a navigation
// update.
type UpdateNavigation struct {
	agent.BaseAction
	host scm.Host
}

// NewUpdateNavigation creates the navigation updater.
func NewUpdateNavigation(host scm.Host) *UpdateNavigation {
	a := &UpdateNavigation{BaseAction: agent.NewBaseAction(ActionUpdateNavigation), host: host}
	a.SetDescription("Updates the navigation structure in the navigation manifest")

	return a
}

// Run implements core.Action.
func (a *UpdateNavigation) Run(rc *core.RunContext, state core.ReviewState) (core.ReviewState, error) {
	if state.UpdatePlan == nil {
		return state, fmt.Errorf("%w: update plan must be created before updating navigation", core.ErrMissingState)
	}

	if state.DocStructure == nil {
		return state, fmt.Errorf("%w: documentation structure must be analyzed before updating navigation", core.ErrMissingState)
	}

	ops := state.UpdatePlan.Operations()
	if len(ops) == 0 {
		rc.LogInfo("No navigation changes required")
		return state, nil
	}

	docs := state.Docs()
	repo := scm.Repo{Owner: docs.Owner, Name: docs.Repo}

	m, err := locateManifest(rc.Context, a.host, repo, docs.Branch, state.Config)
	if err != nil {
		rc.LogError("Error updating navigation", "error", err.Error())
		return state, nil
	}

	update, err := buildNavigationUpdate(rc, m, ops)
	if err != nil {
		rc.LogError("Error updating navigation", "path", m.Path, "error", err.Error())
		return state, nil
	}

	if update == nil {
		rc.LogInfo("No changes made to navigation structure", "path", m.Path)
		return state, nil
	}

	rc.LogInfo("Navigation updated", "path", update.Path, "changes", len(update.Changes))

	return state.WithNavigationUpdate(update), nil
}

// buildNavigationUpdate applies ops to the manifest. It returns nil when the
// resulting tree is structurally equal to the current one.
func buildNavigationUpdate(rc *core.RunContext, m *manifest, ops []core.NavigationOp) (*core.NavigationUpdate, error) {
	updated, skipped := m.Navigation.Apply(ops)

	for _, op := range skipped {
		rc.LogWarn("Navigation group not found", "group", op.Group, "operation", string(op.Type), "page", op.Page)
	}

	if updated.Equal(m.Navigation) {
		return nil, nil
	}

	content, err := rewriteNavigation(m.Content, updated)
	if err != nil {
		return nil, err
	}

	return &core.NavigationUpdate{
		Path:    m.Path,
		Content: content,
		SHA:     m.SHA,
		Changes: ops,
	}, nil
}

package mintlify

import (
	"encoding/json"
	"fmt"

	"github.com/haikalllp/spinai-fork/agent"
	"github.com/haikalllp/spinai-fork/core"
	"github.com/haikalllp/spinai-fork/internal/structured"
	"github.com/haikalllp/spinai-fork/internal/util"
	"github.com/haikalllp/spinai-fork/model"
)

const (
	planTemperature = 0.2

	fallbackPlanSummary = "Error parsing LLM response"
)

// planResponse is the JSON the model returns for a plan. Entries are
// validated strictly; missing top-level lists are tolerated.
type planResponse struct {
	Summary           string                       `json:"summary,omitempty"`
	Updates           []core.PlannedDocUpdate      `json:"updates,omitempty"`
	NavigationChanges []core.NavigationChangeGroup `json:"navigationChanges,omitempty"`
}

var planSchema = structured.MustSchema[planResponse]()

// PlanDocUpdates turns the code analysis and doc structure into an update plan.
type PlanDocUpdates struct {
	agent.BaseAction
	llm model.Model
}

// NewPlanDocUpdates creates the planner.
func NewPlanDocUpdates(llm model.Model) *PlanDocUpdates {
	a := &PlanDocUpdates{BaseAction: agent.NewBaseAction(ActionPlanDocUpdates), llm: llm}
	a.SetDescription("Plans documentation updates based on code changes")

	return a
}

// Run implements core.Action.
func (a *PlanDocUpdates) Run(rc *core.RunContext, state core.ReviewState) (core.ReviewState, error) {
	if state.CodeAnalysis == nil {
		return state, fmt.Errorf("%w: no code analysis found, analyze code first", core.ErrMissingState)
	}

	if state.DocStructure == nil {
		return state, fmt.Errorf("%w: no documentation structure found, analyze docs first", core.ErrMissingState)
	}

	analysis, err := json.MarshalIndent(state.CodeAnalysis, "", "  ")
	if err != nil {
		return state, fmt.Errorf("encode code analysis: %w", err)
	}

	structure, err := json.MarshalIndent(state.DocStructure, "", "  ")
	if err != nil {
		return state, fmt.Errorf("encode doc structure: %w", err)
	}

	prompt, err := util.RenderTemplate(planPrompt, map[string]string{
		"Analysis":  string(analysis),
		"Structure": string(structure),
		"DocsPath":  state.Config.DocsPath,
	})
	if err != nil {
		return state, err
	}

	text, err := model.Complete(rc, a.llm, model.Request{
		Instructions: planInstructions,
		Messages:     []model.Message{model.UserMessage(prompt)},
		Temperature:  model.Temperature(planTemperature),
		JSON:         true,
	})
	if err != nil {
		return state, err
	}

	res := planSchema.Decode(text)
	if !res.OK() {
		rc.LogError("Failed to parse plan response", "kind", string(res.Err.Kind), "error", res.Err.Error())
	}

	resp := res.Or(planResponse{Summary: fallbackPlanSummary})
	plan := core.UpdatePlan{
		Summary:           resp.Summary,
		Updates:           resp.Updates,
		NavigationChanges: resp.NavigationChanges,
	}

	if plan.Updates == nil {
		plan.Updates = []core.PlannedDocUpdate{}
	}

	if plan.NavigationChanges == nil {
		plan.NavigationChanges = []core.NavigationChangeGroup{}
	}

	rc.LogInfo("Plan generated", "summary", plan.Summary, "updates", len(plan.Updates), "navigation_changes", len(plan.Operations()))

	for i, u := range plan.Updates {
		rc.LogDebug("Planned update", "index", i+1, "path", u.Path, "type", string(u.Type), "priority", string(u.Priority))
	}

	return state.WithUpdatePlan(plan), nil
}

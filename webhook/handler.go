package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"strings"

	"github.com/google/go-github/v66/github"

	"github.com/haikalllp/spinai-fork/core"
)

const eventPullRequest = "pull_request"

var relevantActions = []string{"opened", "synchronize"}

// eventBody is a pull_request delivery with an optional pipeline config
// override.
type eventBody struct {
	github.PullRequestEvent

	Config *core.ConfigOverride `json:"config,omitempty"`
}

func (b eventBody) valid() bool {
	return b.GetPullRequest().GetNumber() > 0 &&
		b.GetRepo().GetOwner().GetLogin() != "" &&
		b.GetRepo().GetName() != "" &&
		b.GetAction() != ""
}

// runResponse is the pipeline outcome echoed to the caller.
type runResponse struct {
	Summary     string         `json:"summary"`
	PullRequest *core.PRResult `json:"pullRequest,omitempty"`
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	event := github.WebHookType(r)
	if event == "" {
		writeError(w, http.StatusBadRequest, "No GitHub event header found")
		return
	}

	payload, err := github.ValidatePayload(r, []byte(s.opts.Secret))
	if err != nil {
		s.logger.Warn("Rejected webhook payload", "event", event, "delivery", github.DeliveryID(r), "error", err.Error())
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid webhook payload", "details": err.Error()})

		return
	}

	var body eventBody
	if err := json.Unmarshal(payload, &body); err != nil || !body.valid() {
		writeError(w, http.StatusBadRequest, "Invalid webhook payload")
		return
	}

	cfg := s.opts.Config.Merge(body.Config)

	if isBotPR(body.GetPullRequest(), cfg.PR) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Skipping bot PR"})
		return
	}

	if event != eventPullRequest || !slices.Contains(relevantActions, body.GetAction()) {
		s.logger.Debug("Ignoring event", "event", event, "action", body.GetAction())
		writeJSON(w, http.StatusOK, map[string]string{"message": "Event ignored"})

		return
	}

	state := core.NewReviewState(
		body.GetRepo().GetOwner().GetLogin(),
		body.GetRepo().GetName(),
		body.GetPullRequest().GetNumber(),
		cfg,
	)

	if s.opts.DocsRepo != nil {
		docs := *s.opts.DocsRepo
		state.DocsRepo = &docs
	}

	s.logger.Info("Processing pull request", "repo", state.Owner+"/"+state.Repo, "pull_number", state.PullNumber, "action", body.GetAction())

	// The run outlives a client disconnect; the runtime applies its own timeout.
	report, err := s.pipeline.Run(context.WithoutCancel(r.Context()), state)
	if err != nil {
		s.logger.Error("Webhook processing failed", "pull_number", state.PullNumber, "error", err.Error())

		resp := map[string]string{"error": "Webhook processing failed", "details": err.Error()}
		if report != nil {
			resp["run_id"] = report.RunID
		}

		writeJSON(w, http.StatusInternalServerError, resp)

		return
	}

	out := runResponse{}
	if st := report.State; st.UpdatePlan != nil {
		out.Summary = st.UpdatePlan.Summary
	}

	out.PullRequest = report.State.PullRequest

	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Documentation update completed",
		"run_id":   report.RunID,
		"response": out,
	})
}

// isBotPR reports pull requests opened by the pipeline itself: matched by
// title prefix or by one of the skip labels.
func isBotPR(pr *github.PullRequest, cfg core.PRConfig) bool {
	if cfg.BotTitlePrefix != "" && strings.HasPrefix(pr.GetTitle(), cfg.BotTitlePrefix) {
		return true
	}

	for _, l := range pr.Labels {
		if slices.Contains(cfg.SkipLabels, l.GetName()) {
			return true
		}
	}

	return false
}

package core

import "time"

// RunStatus is the outcome of a pipeline run.
type RunStatus string

const (
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// ReportArtifact is the artifact name under which run reports are stored.
const ReportArtifact = "report.json"

// RunReport summarizes one finished pipeline run.
type RunReport struct {
	RunID      string      `json:"runId"`
	Action     string      `json:"action"`
	Owner      string      `json:"owner"`
	Repo       string      `json:"repo"`
	PullNumber int         `json:"pullNumber"`
	Status     RunStatus   `json:"status"`
	Error      string      `json:"error,omitempty"`
	StartedAt  time.Time   `json:"startedAt"`
	FinishedAt time.Time   `json:"finishedAt"`
	ModelCalls int         `json:"modelCalls"`
	State      ReviewState `json:"state"`
}

// Duration returns the wall time of the run.
func (r RunReport) Duration() time.Duration { return r.FinishedAt.Sub(r.StartedAt) }

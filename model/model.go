package model

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/haikalllp/spinai-fork/core"
	"github.com/haikalllp/spinai-fork/logging"
	"github.com/haikalllp/spinai-fork/retry"
)

// Roles used in Message.Role.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged turn sent to the model.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// UserMessage is a convenience constructor for a user turn.
func UserMessage(text string) Message { return Message{Role: RoleUser, Text: text} }

// Request captures the normalized model input produced by actions.
type Request struct {
	Instructions string    `json:"instructions"` // System prompt
	Messages     []Message `json:"messages"`
	Temperature  *float64  `json:"temperature,omitempty"` // nil uses the provider default
	JSON         bool      `json:"json,omitempty"`        // ask for a single JSON object
}

// Temperature returns a pointer usable in Request.Temperature.
func Temperature(t float64) *float64 { return &t }

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is a (partial or final) chunk emitted by a model.
type Response struct {
	ID           string      `json:"id"`
	Partial      bool        `json:"partial"`
	Text         string      `json:"text"`
	FinishReason string      `json:"finish_reason"` // "stop", "length", ...
	Usage        *TokenUsage `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock"
}

// Model is the minimal interface required by actions to drive generation.
// Implementations close both channels when done and send at most one error.
type Model interface {
	Generate(ctx context.Context, req Request) (<-chan Response, <-chan error)

	// Info returns information about the model implementation.
	Info() Info
}

// ErrEmptyResponse is returned when a model produced no final response.
var ErrEmptyResponse = errors.New("model returned no response")

// collect drains a Generate call into its final response.
func collect(ctx context.Context, m Model, req Request) (Response, error) {
	respCh, errCh := m.Generate(ctx, req)

	var (
		final Response
		got   bool
	)

	for r := range respCh {
		if r.Partial {
			continue
		}

		final = r
		got = true
	}

	if err := <-errCh; err != nil {
		return Response{}, err
	}

	if !got {
		return Response{}, ErrEmptyResponse
	}

	return final, nil
}

// Complete performs one model call on behalf of an action. It counts the
// call against the run's model budget and logs latency.
func Complete(rc *core.RunContext, m Model, req Request) (string, error) {
	if err := rc.AcquireModelCall(); err != nil {
		return "", err
	}

	start := time.Now()
	resp, err := collect(rc.Context, m, req)
	logging.LogLLMCall(rc.Logger(), m.Info().Name, time.Since(start), err)

	if err != nil {
		return "", fmt.Errorf("%s completion: %w", m.Info().Provider, err)
	}

	if resp.Usage != nil {
		rc.LogDebug("Token usage", "model", m.Info().Name, "total_tokens", resp.Usage.TotalTokens)
	}

	return resp.Text, nil
}

// RetryModel applies a retry policy to another Model. Partial chunks of
// failed attempts are discarded; only the final response is forwarded.
type RetryModel struct {
	inner  Model
	policy retry.Policy
	logger logging.Logger
}

// WithRetry wraps m with policy p.
func WithRetry(m Model, p retry.Policy, logger logging.Logger) *RetryModel {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}

	return &RetryModel{inner: m, policy: p, logger: logger}
}

// Generate implements Model.
func (r *RetryModel) Generate(ctx context.Context, req Request) (<-chan Response, <-chan error) {
	out := make(chan Response, 1)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		var resp Response

		err := retry.Do(ctx, r.policy, func() error {
			var err error
			resp, err = collect(ctx, r.inner, req)

			return err
		}, func(attempt int, err error, wait time.Duration) {
			r.logger.Warn("Retrying model call", "model", r.inner.Info().Name, "attempt", attempt, "wait", wait, "error", err.Error())
		})
		if err != nil {
			errCh <- err
			return
		}

		out <- resp
	}()

	return out, errCh
}

// Info implements Model.
func (r *RetryModel) Info() Info { return r.inner.Info() }

type mockRule struct {
	match    string
	response string
	err      error
	once     bool
}

// MockModel is a lightweight in-memory Model useful for tests & examples.
// Rules are matched in registration order against the request's
// instructions and message text.
type MockModel struct {
	info     Info
	mu       sync.Mutex
	rules    []*mockRule
	requests []Request
}

// NewMockModel constructs a MockModel.
func NewMockModel(name, provider string) *MockModel {
	return &MockModel{info: Info{Name: name, Provider: provider}}
}

// AddResponse registers a canned completion for every request containing match.
func (m *MockModel) AddResponse(match, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rules = append(m.rules, &mockRule{match: match, response: response})
}

// AddError makes the next request containing match fail with err. The rule
// is consumed by that request.
func (m *MockModel) AddError(match string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rules = append(m.rules, &mockRule{match: match, err: err, once: true})
}

// Requests returns the requests received so far.
func (m *MockModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Request, len(m.requests))
	copy(out, m.requests)

	return out
}

func (m *MockModel) resolve(req Request) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)

	var b strings.Builder
	b.WriteString(req.Instructions)

	for _, msg := range req.Messages {
		b.WriteString("\n")
		b.WriteString(msg.Text)
	}

	input := b.String()

	for i, r := range m.rules {
		if !strings.Contains(input, r.match) {
			continue
		}

		if r.once {
			m.rules = append(m.rules[:i], m.rules[i+1:]...)
		}

		return r.response, r.err
	}

	last := ""
	if n := len(req.Messages); n > 0 {
		last = req.Messages[n-1].Text
	}

	return fmt.Sprintf("Mock response to: %s", last), nil
}

// Generate implements Model.
func (m *MockModel) Generate(ctx context.Context, req Request) (<-chan Response, <-chan error) {
	respCh := make(chan Response, 1)
	errCh := make(chan error, 1)

	go func() {
		defer close(respCh)
		defer close(errCh)

		if err := ctx.Err(); err != nil {
			errCh <- err
			return
		}

		if len(req.Messages) == 0 {
			errCh <- fmt.Errorf("no messages provided")
			return
		}

		text, err := m.resolve(req)
		if err != nil {
			errCh <- err
			return
		}

		respCh <- Response{Text: text, FinishReason: "stop"}
	}()

	return respCh, errCh
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }

package mintlify

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/haikalllp/spinai-fork/agent"
	"github.com/haikalllp/spinai-fork/core"
	"github.com/haikalllp/spinai-fork/logging"
	"github.com/haikalllp/spinai-fork/model"
	anthropicmodel "github.com/haikalllp/spinai-fork/model/anthropic"
	openaimodel "github.com/haikalllp/spinai-fork/model/openai"
	"github.com/haikalllp/spinai-fork/retry"
	"github.com/haikalllp/spinai-fork/scm"
	githubscm "github.com/haikalllp/spinai-fork/scm/github"
)

// Action names, in pipeline order.
const (
	ActionAnalyzeCodeChanges  = "analyzeCodeChanges"
	ActionAnalyzeDocStructure = "analyzeDocStructure"
	ActionPlanDocUpdates      = "planDocUpdates"
	ActionGenerateContent     = "generateContent"
	ActionUpdateNavigation    = "updateNavigation"
	ActionCreateDocsPR        = "createDocsPR"
)

// AgentName is the name of the composed pipeline.
const AgentName = "mintlify-update-agent"

// Supported LLM providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// ErrMissingCredentials is returned when a required API key or token is absent.
var ErrMissingCredentials = errors.New("missing credentials")

// Options configures NewDocUpdateAgent. Host and LLM take precedence over
// the credential fields; keys left empty are read from OPENAI_API_KEY,
// ANTHROPIC_API_KEY and GITHUB_TOKEN.
type Options struct {
	Host scm.Host
	LLM  model.Model

	Provider string
	Model    string

	OpenAIKey     string
	OpenAIBaseURL string
	AnthropicKey  string
	GitHubToken   string
	GitHubBaseURL string

	Retry  retry.Policy
	Logger logging.Logger

	// Now is the publisher's clock (defaults to time.Now).
	Now func() time.Time
}

// NewDocUpdateAgent builds the six-step documentation pipeline.
func NewDocUpdateAgent(optFns ...func(o *Options)) (*agent.SequentialAgent, error) {
	opts := Options{
		Provider: ProviderOpenAI,
		Retry:    retry.DefaultPolicy(),
		Logger:   logging.NoOpLogger{},
		Now:      time.Now,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	host, err := buildHost(opts)
	if err != nil {
		return nil, err
	}

	llm, err := buildModel(opts)
	if err != nil {
		return nil, err
	}

	seq := agent.NewSequentialAgent(AgentName, Actions(host, llm, opts.Now)...)
	seq.SetDescription("Keeps documentation in sync with code changes: analyzes a pull request, plans and writes doc updates, and opens a docs pull request")

	return seq, nil
}

// Actions returns the pipeline steps in execution order.
func Actions(host scm.Host, llm model.Model, now func() time.Time) []core.Action {
	return []core.Action{
		NewAnalyzeCodeChanges(host, llm),
		NewAnalyzeDocStructure(host, llm),
		NewPlanDocUpdates(llm),
		NewGenerateContent(host, llm),
		NewUpdateNavigation(host),
		NewCreateDocsPR(host, now),
	}
}

func buildHost(opts Options) (scm.Host, error) {
	if opts.Host != nil {
		return opts.Host, nil
	}

	token := firstNonEmpty(opts.GitHubToken, os.Getenv("GITHUB_TOKEN"))
	if token == "" {
		return nil, fmt.Errorf("%w: GitHub token is required", ErrMissingCredentials)
	}

	return githubscm.New(func(o *githubscm.Options) {
		o.Token = token
		o.BaseURL = opts.GitHubBaseURL
		o.Retry = opts.Retry
		o.Logger = logging.With(opts.Logger, "component", "github")
	})
}

func buildModel(opts Options) (model.Model, error) {
	if opts.LLM != nil {
		return opts.LLM, nil
	}

	logger := logging.With(opts.Logger, "component", "llm")

	switch opts.Provider {
	case "", ProviderOpenAI:
		key := firstNonEmpty(opts.OpenAIKey, os.Getenv("OPENAI_API_KEY"))
		if key == "" {
			return nil, fmt.Errorf("%w: OpenAI API key is required", ErrMissingCredentials)
		}

		m := openaimodel.NewModel(func(o *openaimodel.Options) {
			o.APIKey = key
			o.BaseURL = opts.OpenAIBaseURL

			if opts.Model != "" {
				o.Model = opts.Model
			}
		})

		return model.WithRetry(m, opts.Retry, logger), nil
	case ProviderAnthropic:
		key := firstNonEmpty(opts.AnthropicKey, os.Getenv("ANTHROPIC_API_KEY"))
		if key == "" {
			return nil, fmt.Errorf("%w: Anthropic API key is required", ErrMissingCredentials)
		}

		m := anthropicmodel.NewModel(func(o *anthropicmodel.Options) {
			o.APIKey = key

			if opts.Model != "" {
				o.Model = anthropic.Model(opts.Model)
			}
		})

		return model.WithRetry(m, opts.Retry, logger), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", opts.Provider)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}

package core

import "slices"

// Placeholders recognized in PR title and body templates.
const (
	PlaceholderPRNumber  = "{{PR_NUMBER}}"
	PlaceholderTimestamp = "{{TIMESTAMP}}"
	PlaceholderSummary   = "{{SUMMARY}}"
)

// PRConfig controls how the documentation pull request is published and
// which incoming pull requests are treated as the bot's own.
type PRConfig struct {
	TitleTemplate  string   `json:"titleTemplate" yaml:"title_template"`
	BodyTemplate   string   `json:"bodyTemplate" yaml:"body_template"`
	BranchPrefix   string   `json:"branchPrefix" yaml:"branch_prefix"`
	Labels         []string `json:"labels" yaml:"labels"`
	BotTitlePrefix string   `json:"botTitlePrefix" yaml:"bot_title_prefix"`
	SkipLabels     []string `json:"skipLabels" yaml:"skip_labels"`
}

// LLMConfig tunes content generation.
type LLMConfig struct {
	Temperature float64 `json:"temperature" yaml:"temperature"`
	StyleGuide  string  `json:"styleGuide" yaml:"style_guide"`
}

// DocConfig is the fully resolved pipeline configuration.
type DocConfig struct {
	DocsPath             string    `json:"docsPath" yaml:"docs_path"`
	NavigationFile       string    `json:"navigationFile" yaml:"navigation_file"`
	ReferenceConcurrency int       `json:"referenceConcurrency" yaml:"reference_concurrency"`
	PR                   PRConfig  `json:"prConfig" yaml:"pr"`
	LLM                  LLMConfig `json:"llmConfig" yaml:"llm"`
}

// DefaultDocConfig returns the baseline configuration.
func DefaultDocConfig() DocConfig {
	return DocConfig{
		DocsPath:             "docs",
		NavigationFile:       "mint.json",
		ReferenceConcurrency: 1,
		PR: PRConfig{
			TitleTemplate: "📚 Update documentation for #" + PlaceholderPRNumber,
			BodyTemplate: "This PR updates the documentation to reflect the changes in #" + PlaceholderPRNumber + ".\n\n" +
				"## Summary\n\n" + PlaceholderSummary + "\n\n" +
				"_Generated on " + PlaceholderTimestamp + "._",
			BranchPrefix:   "docs/update-pr-",
			Labels:         []string{"documentation"},
			BotTitlePrefix: "📚 Update documentation",
			SkipLabels:     []string{"documentation"},
		},
		LLM: LLMConfig{
			Temperature: 0.3,
		},
	}
}

// PRConfigOverride is a partial PRConfig. A nil field keeps the base value;
// a non-nil slice (even empty) replaces it.
type PRConfigOverride struct {
	TitleTemplate  *string  `json:"titleTemplate,omitempty" yaml:"title_template,omitempty"`
	BodyTemplate   *string  `json:"bodyTemplate,omitempty" yaml:"body_template,omitempty"`
	BranchPrefix   *string  `json:"branchPrefix,omitempty" yaml:"branch_prefix,omitempty"`
	Labels         []string `json:"labels,omitempty" yaml:"labels,omitempty"`
	BotTitlePrefix *string  `json:"botTitlePrefix,omitempty" yaml:"bot_title_prefix,omitempty"`
	SkipLabels     []string `json:"skipLabels,omitempty" yaml:"skip_labels,omitempty"`
}

// LLMConfigOverride is a partial LLMConfig.
type LLMConfigOverride struct {
	Temperature *float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	StyleGuide  *string  `json:"styleGuide,omitempty" yaml:"style_guide,omitempty"`
}

// ConfigOverride is a partial DocConfig as accepted from webhook bodies and
// configuration files.
type ConfigOverride struct {
	DocsPath             *string            `json:"docsPath,omitempty" yaml:"docs_path,omitempty"`
	NavigationFile       *string            `json:"navigationFile,omitempty" yaml:"navigation_file,omitempty"`
	ReferenceConcurrency *int               `json:"referenceConcurrency,omitempty" yaml:"reference_concurrency,omitempty"`
	PR                   *PRConfigOverride  `json:"prConfig,omitempty" yaml:"pr,omitempty"`
	LLM                  *LLMConfigOverride `json:"llmConfig,omitempty" yaml:"llm,omitempty"`
}

// Merge returns a copy of c with every set field of o applied.
func (c DocConfig) Merge(o *ConfigOverride) DocConfig {
	out := c
	out.PR.Labels = slices.Clone(c.PR.Labels)
	out.PR.SkipLabels = slices.Clone(c.PR.SkipLabels)

	if o == nil {
		return out
	}

	setString(&out.DocsPath, o.DocsPath)
	setString(&out.NavigationFile, o.NavigationFile)

	if o.ReferenceConcurrency != nil && *o.ReferenceConcurrency > 0 {
		out.ReferenceConcurrency = *o.ReferenceConcurrency
	}

	if p := o.PR; p != nil {
		setString(&out.PR.TitleTemplate, p.TitleTemplate)
		setString(&out.PR.BodyTemplate, p.BodyTemplate)
		setString(&out.PR.BranchPrefix, p.BranchPrefix)
		setString(&out.PR.BotTitlePrefix, p.BotTitlePrefix)

		if p.Labels != nil {
			out.PR.Labels = slices.Clone(p.Labels)
		}

		if p.SkipLabels != nil {
			out.PR.SkipLabels = slices.Clone(p.SkipLabels)
		}
	}

	if l := o.LLM; l != nil {
		if l.Temperature != nil {
			out.LLM.Temperature = *l.Temperature
		}

		setString(&out.LLM.StyleGuide, l.StyleGuide)
	}

	return out
}

// Merge layers o over the receiver: fields set in o win.
func (c *ConfigOverride) Merge(o *ConfigOverride) *ConfigOverride {
	if c == nil {
		return o
	}

	if o == nil {
		return c
	}

	out := *c
	if o.DocsPath != nil {
		out.DocsPath = o.DocsPath
	}

	if o.NavigationFile != nil {
		out.NavigationFile = o.NavigationFile
	}

	if o.ReferenceConcurrency != nil {
		out.ReferenceConcurrency = o.ReferenceConcurrency
	}

	if o.PR != nil {
		pr := PRConfigOverride{}
		if c.PR != nil {
			pr = *c.PR
		}

		mergePR(&pr, o.PR)
		out.PR = &pr
	}

	if o.LLM != nil {
		llm := LLMConfigOverride{}
		if c.LLM != nil {
			llm = *c.LLM
		}

		if o.LLM.Temperature != nil {
			llm.Temperature = o.LLM.Temperature
		}

		if o.LLM.StyleGuide != nil {
			llm.StyleGuide = o.LLM.StyleGuide
		}

		out.LLM = &llm
	}

	return &out
}

func mergePR(dst, src *PRConfigOverride) {
	if src.TitleTemplate != nil {
		dst.TitleTemplate = src.TitleTemplate
	}

	if src.BodyTemplate != nil {
		dst.BodyTemplate = src.BodyTemplate
	}

	if src.BranchPrefix != nil {
		dst.BranchPrefix = src.BranchPrefix
	}

	if src.BotTitlePrefix != nil {
		dst.BotTitlePrefix = src.BotTitlePrefix
	}

	if src.Labels != nil {
		dst.Labels = src.Labels
	}

	if src.SkipLabels != nil {
		dst.SkipLabels = src.SkipLabels
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

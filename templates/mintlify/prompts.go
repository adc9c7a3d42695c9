package mintlify

import "github.com/haikalllp/spinai-fork/internal/util"

const codeAnalysisInstructions = `You are a code analysis expert. Analyze the following code changes and provide:
1. A brief summary of the changes
2. Identification of impacted areas/categories
3. Assessment of whether these are significant changes (new features, API changes, etc.)
4. Related files that might need documentation updates

Return your analysis as a JSON object with this structure:
{
  "summary": "Brief description of changes",
  "impactedAreas": ["area1", "area2"],
  "significantChanges": boolean,
  "relatedFiles": ["file1", "file2"]
}`

var codeAnalysisPrompt = util.MustParseTemplate("code_analysis", `Here are the code changes to analyze:
{{range .}}
File: {{.File}} ({{.Status}}, +{{.Additions}} -{{.Deletions}})
Category: {{default "(root)" .Category}}
Significance: {{json .Significance}}
Patch:
`+"```diff"+`
{{truncate 12000 .Patch}}
`+"```"+`
{{end}}`)

const docReferenceInstructions = `You are a documentation analyzer. Analyze this documentation file and identify:
1. References to other documentation files or sections
2. Code files or packages it documents
3. Related documentation that should be updated together

Return your analysis as a JSON object with this structure:
{
  "references": ["file1", "file2"],
  "codeFiles": ["code1", "code2"],
  "relatedDocs": ["doc1", "doc2"]
}`

var docReferencePrompt = util.MustParseTemplate("doc_reference", `Documentation file: {{.Path}}

Content:
{{truncate 12000 .Content}}`)

const planInstructions = `You are a documentation planning expert. Your task is to analyze code changes and the existing documentation structure to plan necessary documentation updates.

Key principles:
1. Focus on user value - what would developers need to know?
2. Respect existing documentation structure and organization
3. Prioritize updates based on significance and impact
4. Consider relationships between documents
5. Plan navigation changes to maintain good organization

Consider these factors when planning:
- New features or APIs need comprehensive documentation
- Significant changes to existing features need doc updates
- Related documents may need cross-reference updates
- Overview/index files need updates for significant changes
- Navigation structure should reflect content organization

Navigation pages are referenced without file extension, relative to the site root (for example "api/authentication").

Return a detailed plan as a JSON object with this structure:
{
  "summary": "Brief summary of overall documentation update needs",
  "updates": [
    {
      "path": "docs/path/to/file.mdx",
      "type": "create|update|delete",
      "priority": "high|medium|low",
      "reason": "Explanation of why this update is needed",
      "sourceFiles": ["src/path/to/file.ts"],
      "relatedDocs": ["docs/path/to/related.mdx"],
      "suggestedContent": {
        "sections": ["Section 1", "Section 2"],
        "examples": ["Example usage 1"],
        "notes": ["Important note"]
      }
    }
  ],
  "navigationChanges": [
    {
      "group": "Group name",
      "changes": [
        { "type": "add|move|remove", "page": "path/to/page" }
      ]
    }
  ]
}`

var planPrompt = util.MustParseTemplate("plan", `Here is the code analysis:
{{.Analysis}}

Here is the current documentation structure:
{{.Structure}}

Please create a detailed documentation update plan based on these changes.
The docs directory is: {{.DocsPath}}
`)

var generateInstructions = util.MustParseTemplate("generate_instructions", `You are a technical documentation expert specializing in Mintlify MDX documentation.
Your task is to {{if eq .Type "create"}}create new{{else}}update existing{{end}} documentation based on code changes.

MDX Formatting Rules:
1. Use {/* */} for comments, not HTML <!-- --> style
2. Always add a blank line before and after code blocks
3. Ensure code blocks have proper language tags
4. Use proper heading spacing: "## Heading" not "##Heading"
5. Keep consistent newline spacing - one blank line between sections
6. Use proper MDX components for callouts, tabs, etc.
7. Start with frontmatter (---) containing title and description
8. IMPORTANT: Return the MDX content directly, do not wrap in backticks

Content Guidelines:
- Be precise and technical in descriptions
- Include code examples where relevant
- Follow existing documentation style
- Maintain any existing metadata and tags
- If documenting APIs, include:
  - Function signatures
  - Parameter descriptions
  - Return types
  - Usage examples
{{- with .StyleGuide}}

Style Guide:
{{.}}
{{- end}}`)

var generatePrompt = util.MustParseTemplate("generate", `Task: {{if eq .Update.Type "create"}}Create new{{else}}Update{{end}} documentation file at {{.Update.Path}}

Context:
{{default "No reason given" .Update.Reason}}

Source Files:
{{range .Sources}}
File: {{.Path}}
Type: {{default "unknown" .Status}}
Patch:
`+"```diff"+`
{{truncate 12000 .Patch}}
`+"```"+`
{{- with .Content}}
Content at pull request head:
`+"```"+`
{{truncate 12000 .}}
`+"```"+`
{{- end}}
{{else}}
No source files listed.
{{end}}
{{with .Template}}Template to follow:
{{.}}
{{end}}
{{with .Existing}}Current content to update:
{{.}}
{{end}}
Suggested Structure:
{{default "Standard documentation structure" .Suggested}}

Related Documentation:
{{range .Related}}- {{.}}
{{else}}No related documentation
{{end}}
Please provide the complete MDX content for this documentation file.
Remember: Return the content directly, starting with frontmatter (---). Do not wrap in backticks.`)

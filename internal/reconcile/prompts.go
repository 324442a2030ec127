// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reconcile

import (
	"bytes"
	"text/template"
)

// Role labels attached to the two candidates in a merge prompt.
const (
	StructuredLabel = "VERSION A (from Reducto - has accurate math equations and tables)"
	LinkedLabel     = "VERSION B (from Pandoc - has image references and hyperlinks)"
)

// styleRules are shared by the merge, cleanup and generation prompts.
const styleRules = `Rules:
- Output Markdown only. No commentary, no explanations, no code fence around the whole document.
- Write inline math as $...$ and display math as $$...$$ on their own lines.
- Use ATX headings (#, ##, ###) and keep the document's heading hierarchy.
- Use pipe tables for tabular data.
- Keep every image reference and hyperlink exactly as given.
- Remove navigation, cookie banners, share buttons and other page chrome.
- Do not summarize, shorten or reword the prose.
`

var mergePromptTmpl = template.Must(template.New("merge").Parse(`You are merging two Markdown conversions of the same document into one polished document.

Each version is flawed in a different way:
- VERSION A is accurate on equations and tables but has lost images and links.
- VERSION B keeps image references and hyperlinks but mangles equations and tables.

Merge them as follows:
- Take every equation from VERSION A, in LaTeX notation.
- Take every table from VERSION A, keeping its formatting.
- Splice VERSION B's image references and hyperlinks into the matching places of VERSION A.
- Follow VERSION A's document order.
- Remove content duplicated between the two versions so that each passage appears once.

{{.Rules}}
{{.StructuredLabel}}:
{{.Structured}}

{{.LinkedLabel}}:
{{.Linked}}`))

var cleanupPromptTmpl = template.Must(template.New("cleanup").Parse(`You are cleaning up raw Markdown into polished, idiomatic Markdown.

{{.Rules}}
{{.Markdown}}`))

var generatePromptTmpl = template.Must(template.New("generate").Parse(`Convert the attached PDF into one polished Markdown document.

Begin the output with a YAML frontmatter block delimited by lines containing exactly "---", holding:
- title: the document title, double-quoted
- publish_date: the publication date as YYYY-MM-DD, omitted when unknown
- tags: a block list of 3 to 7 short lowercase topic tags

Follow the frontmatter with one blank line and then the document body.

{{.Rules}}`))

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// BuildMergePrompt renders the role-labelled merge instruction for c.
func BuildMergePrompt(c Candidates) (string, error) {
	return render(mergePromptTmpl, struct {
		Rules           string
		StructuredLabel string
		Structured      string
		LinkedLabel     string
		Linked          string
	}{
		Rules:           styleRules,
		StructuredLabel: StructuredLabel,
		Structured:      c.Structured,
		LinkedLabel:     LinkedLabel,
		Linked:          c.Linked,
	})
}

func buildCleanupPrompt(markdown string) (string, error) {
	return render(cleanupPromptTmpl, struct{ Rules, Markdown string }{styleRules, markdown})
}

func buildGeneratePrompt() (string, error) {
	return render(generatePromptTmpl, struct{ Rules string }{styleRules})
}

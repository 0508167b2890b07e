package markdown

import (
	"strings"

	"git.home.luguber.info/inful/actiondocs/internal/content"
)

const (
	lintDisable = "<!-- textlint-disable -->"
	lintEnable  = "<!-- textlint-enable -->"
)

// HTMLFallback renders code as a single-line <pre> element for contexts
// where real line breaks are not allowed, table cells in particular.
// Literal line breaks become &#13;, backticks and emphasis delimiters are
// backslash-escaped, the rest is HTML-escaped, and leading whitespace on
// each wrapped line collapses to at most one space. The element is
// bracketed by textlint disable/enable comments so downstream linters do
// not re-interpret the escaped text as Markdown.
func HTMLFallback(c content.Content, language string) content.Content {
	if language == "" {
		language = DefaultLanguage
	}
	lines := strings.Split(c.TrimSpace().String(), "\n")
	escaped := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed != line && trimmed != "" {
			trimmed = " " + trimmed
		}
		esc := content.FromString(trimmed).Escape("`*").HTMLEscape()
		escaped = append(escaped, esc.String())
	}
	var sb strings.Builder
	sb.WriteString(lintDisable)
	sb.WriteString(`<pre lang="`)
	sb.WriteString(language)
	sb.WriteString(`">`)
	sb.WriteString(strings.Join(escaped, "&#13;"))
	sb.WriteString("</pre>")
	sb.WriteString(lintEnable)
	return content.FromString(sb.String())
}

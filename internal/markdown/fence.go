// Package markdown renders manifest fragments into GitHub-flavored
// Markdown: fenced code blocks sized so they can never collide with their
// own payload, pipe tables with code-aware cell layout, and an HTML
// fallback for code that must survive inside a single table cell.
package markdown

import (
	"strings"

	"git.home.luguber.info/inful/actiondocs/internal/content"
)

// DefaultLanguage is the info string used when a code block has no
// explicit language tag.
const DefaultLanguage = "text"

// IsFenceLine reports whether line opens or closes a backtick fence,
// taken as-is (no leading-whitespace tolerance; callers scan raw lines).
func IsFenceLine(line string) bool {
	n := 0
	for n < len(line) && line[n] == '`' {
		n++
	}
	return n >= 3
}

// FenceLengthFor returns the fence length that safely wraps c: one more
// backtick than the longest backtick run inside c, with a floor of three.
func FenceLengthFor(c content.Content) int {
	longest, run := 0, 0
	b := c.Bytes()
	for i := 0; i < len(b); i++ {
		if b[i] == '`' {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	if longest < 3 {
		return 3
	}
	return longest + 1
}

// CodeBlock wraps c (trimmed) in a fenced code block. The fence length is
// computed from the content so previously-fenced content nests safely.
// An empty language defaults to DefaultLanguage.
func CodeBlock(c content.Content, language string) content.Content {
	if language == "" {
		language = DefaultLanguage
	}
	fence := strings.Repeat("`", FenceLengthFor(c))
	body := c.TrimSpace()
	if body.IsEmpty() {
		return content.FromString(fence + language + "\n" + fence + "\n")
	}
	return content.FromString(fence + language + "\n").
		Append(body).
		AppendString("\n" + fence + "\n")
}

// InlineCode wraps c in a single backtick pair for inline placement.
// Embedded backticks and emphasis delimiters are backslash-escaped and
// the result is HTML-escaped, so the span cannot terminate early or be
// re-interpreted as markup.
func InlineCode(c content.Content) content.Content {
	escaped := c.Escape("`*").HTMLEscape()
	return content.FromString("`").Append(escaped).AppendString("`")
}

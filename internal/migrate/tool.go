// Package migrate rewrites documents that carry a third-party
// documentation tool's marker syntax into the canonical marker
// vocabulary, then normalizes the result so every canonical section is
// present exactly once.
package migrate

import (
	"regexp"
	"sort"
	"strings"

	"git.home.luguber.info/inful/actiondocs/internal/section"
)

// ToolConfig describes one legacy tool's marker syntax. A single generic
// rewriter consumes the config; tools are data, not subclasses.
type ToolConfig struct {
	Name string

	// Start and End match the tool's marker lines. Capture group 1 is
	// the tool's section name. When SameMarker is set only Start is
	// used: the tool writes the identical marker for both ends of a
	// span and occurrences alternate start/end through the document.
	Start      *regexp.Regexp
	End        *regexp.Regexp
	SameMarker bool

	// Sections maps the tool's section names (lower-cased) to canonical
	// identifiers. Unmapped names are elided during rewriting.
	Sections map[string]section.Identifier
}

var tools = map[string]ToolConfig{
	"auto-doc": {
		Name:  "auto-doc",
		Start: regexp.MustCompile(`<!--\s*AUTO-DOC-([A-Z]+):START[^>]*-->`),
		End:   regexp.MustCompile(`<!--\s*AUTO-DOC-([A-Z]+):END[^>]*-->`),
		Sections: map[string]section.Identifier{
			"input":  section.Inputs,
			"output": section.Outputs,
			"secret": section.Secrets,
		},
	},
	"action-docs": {
		Name:       "action-docs",
		Start:      regexp.MustCompile(`<!--\s*action-docs-([a-z]+)(?:\s+source="[^"]*")?\s*-->`),
		SameMarker: true,
		Sections: map[string]section.Identifier{
			"header":      section.Header,
			"description": section.Overview,
			"usage":       section.Usage,
			"inputs":      section.Inputs,
			"outputs":     section.Outputs,
		},
	},
	"readme-generator": {
		Name:  "readme-generator",
		Start: regexp.MustCompile(`<!--\s*start\s+([a-z]+)\s*-->`),
		End:   regexp.MustCompile(`<!--\s*end\s+([a-z]+)\s*-->`),
		Sections: map[string]section.Identifier{
			"title":        section.Header,
			"badges":       section.Badges,
			"description":  section.Overview,
			"usage":        section.Usage,
			"inputs":       section.Inputs,
			"outputs":      section.Outputs,
			"contributing": section.Contributing,
		},
	},
}

// Tool returns the built-in config for name.
func Tool(name string) (ToolConfig, bool) {
	t, ok := tools[strings.ToLower(name)]
	return t, ok
}

// ToolNames lists the built-in tool names, sorted.
func ToolNames() []string {
	names := make([]string, 0, len(tools))
	for name := range tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

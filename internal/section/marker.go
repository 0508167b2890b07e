package section

import (
	"fmt"
	"regexp"

	"git.home.luguber.info/inful/actiondocs/internal/content"
)

// Start returns the canonical start marker line for id.
func Start(id Identifier) string {
	return fmt.Sprintf("<!-- %s:start -->", id)
}

// End returns the canonical end marker line for id.
func End(id Identifier) string {
	return fmt.Sprintf("<!-- %s:end -->", id)
}

// MarkerPattern matches any canonical marker and captures the identifier
// and the kind ("start" or "end").
var MarkerPattern = regexp.MustCompile(`<!-- ([a-z]+):(start|end) -->`)

// Render wraps trimmed content in the id's marker pair: start marker,
// blank line, content, blank line, end marker, each on its own line. An
// empty body collapses to start marker, blank line, end marker.
func Render(id Identifier, c content.Content) content.Content {
	body := c.TrimSpace()
	if body.IsEmpty() {
		return content.FromString(Start(id) + "\n\n" + End(id) + "\n")
	}
	return content.FromString(Start(id) + "\n\n").
		Append(body).
		AppendString("\n\n" + End(id) + "\n")
}

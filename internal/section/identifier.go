// Package section defines the canonical section vocabulary of generated
// documents and the idempotent writer that installs rendered sections
// into them.
package section

// Identifier names one documentation concern. The set is closed and the
// order of All is the canonical document order.
type Identifier string

const (
	Header       Identifier = "header"
	Badges       Identifier = "badges"
	Overview     Identifier = "overview"
	Usage        Identifier = "usage"
	Inputs       Identifier = "inputs"
	Outputs      Identifier = "outputs"
	Secrets      Identifier = "secrets"
	Examples     Identifier = "examples"
	Contributing Identifier = "contributing"
	Security     Identifier = "security"
	License      Identifier = "license"
	Generated    Identifier = "generated"
)

// All lists every identifier in canonical document order.
func All() []Identifier {
	return []Identifier{
		Header, Badges, Overview, Usage, Inputs, Outputs,
		Secrets, Examples, Contributing, Security, License, Generated,
	}
}

// Valid reports whether id is one of the canonical identifiers.
func Valid(id Identifier) bool {
	for _, known := range All() {
		if id == known {
			return true
		}
	}
	return false
}

// Rank returns the identifier's position in canonical order, or -1 for
// an unknown identifier.
func Rank(id Identifier) int {
	for i, known := range All() {
		if id == known {
			return i
		}
	}
	return -1
}

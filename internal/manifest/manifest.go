// Package manifest parses CI/CD manifests (GitHub Action definitions
// and reusable workflow files) into the typed structures the section
// generators consume. Input, output, and secret order is preserved as
// written in the file, since generated tables mirror it.
package manifest

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/actiondocs/internal/errors"
)

// Kind distinguishes the supported manifest flavors.
type Kind string

const (
	KindAction   Kind = "action"
	KindWorkflow Kind = "workflow"
)

// Manifest is a parsed CI/CD manifest.
type Manifest struct {
	Kind        Kind
	Path        string
	Name        string
	Author      string
	Description string
	Branding    Branding
	Inputs      []Input
	Outputs     []Output
	Secrets     []Secret
	Runs        Runs
}

// Input is one declared input parameter, in file order.
type Input struct {
	Name               string
	Description        string
	Required           bool
	Default            string
	HasDefault         bool
	DeprecationMessage string
}

// Output is one declared output, in file order.
type Output struct {
	Name        string
	Description string
	Value       string
}

// Secret is one declared workflow_call secret, in file order.
type Secret struct {
	Name        string
	Description string
	Required    bool
}

// Branding is the action marketplace branding block.
type Branding struct {
	Icon  string
	Color string
}

// Runs describes how an action executes.
type Runs struct {
	Using string
	Main  string
	Image string
}

// Load reads and parses the manifest at path. The kind is detected from
// the content (a top-level "runs" means action, an "on.workflow_call"
// means reusable workflow) with the filename as a tiebreaker.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryManifest, errors.SeverityFatal, "read manifest").
			WithContext("path", path)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, err
	}
	m.Path = path
	if m.Kind == "" {
		m.Kind = kindFromFilename(path)
	}
	return m, nil
}

// Parse parses manifest bytes. The returned Kind is empty when the
// content alone cannot decide it.
func Parse(data []byte) (*Manifest, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(err, errors.CategoryManifest, errors.SeverityFatal, "parse manifest YAML")
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return &Manifest{}, nil
	}
	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, errors.New(errors.CategoryManifest, errors.SeverityFatal, "manifest root is not a mapping")
	}

	m := &Manifest{}
	for key, value := range mappingPairs(doc) {
		switch key {
		case "name":
			m.Name = value.Value
		case "author":
			m.Author = value.Value
		case "description":
			m.Description = value.Value
		case "branding":
			for k, v := range mappingPairs(value) {
				switch k {
				case "icon":
					m.Branding.Icon = v.Value
				case "color":
					m.Branding.Color = v.Value
				}
			}
		case "inputs":
			m.Kind = KindAction
			m.Inputs = parseInputs(value)
		case "outputs":
			m.Outputs = parseOutputs(value)
		case "runs":
			m.Kind = KindAction
			for k, v := range mappingPairs(value) {
				switch k {
				case "using":
					m.Runs.Using = v.Value
				case "main":
					m.Runs.Main = v.Value
				case "image":
					m.Runs.Image = v.Value
				}
			}
		case "on", "true":
			// yaml.v3 resolves a bare "on" key to the boolean true.
			if call := lookupKey(value, "workflow_call"); call != nil {
				m.Kind = KindWorkflow
				if inputs := lookupKey(call, "inputs"); inputs != nil {
					m.Inputs = parseInputs(inputs)
				}
				if outputs := lookupKey(call, "outputs"); outputs != nil {
					m.Outputs = parseOutputs(outputs)
				}
				if secrets := lookupKey(call, "secrets"); secrets != nil {
					m.Secrets = parseSecrets(secrets)
				}
			}
		}
	}
	return m, nil
}

func parseInputs(node *yaml.Node) []Input {
	var inputs []Input
	for name, spec := range mappingPairs(node) {
		in := Input{Name: name}
		for k, v := range mappingPairs(spec) {
			switch k {
			case "description":
				in.Description = v.Value
			case "required":
				in.Required = v.Value == "true"
			case "default":
				in.Default = scalarString(v)
				in.HasDefault = true
			case "deprecationMessage":
				in.DeprecationMessage = v.Value
			}
		}
		inputs = append(inputs, in)
	}
	return inputs
}

func parseOutputs(node *yaml.Node) []Output {
	var outputs []Output
	for name, spec := range mappingPairs(node) {
		out := Output{Name: name}
		for k, v := range mappingPairs(spec) {
			switch k {
			case "description":
				out.Description = v.Value
			case "value":
				out.Value = v.Value
			}
		}
		outputs = append(outputs, out)
	}
	return outputs
}

func parseSecrets(node *yaml.Node) []Secret {
	var secrets []Secret
	for name, spec := range mappingPairs(node) {
		s := Secret{Name: name}
		for k, v := range mappingPairs(spec) {
			switch k {
			case "description":
				s.Description = v.Value
			case "required":
				s.Required = v.Value == "true"
			}
		}
		secrets = append(secrets, s)
	}
	return secrets
}

// mappingPairs iterates a mapping node's key/value pairs in file order.
func mappingPairs(node *yaml.Node) func(yield func(string, *yaml.Node) bool) {
	return func(yield func(string, *yaml.Node) bool) {
		if node == nil || node.Kind != yaml.MappingNode {
			return
		}
		for i := 0; i+1 < len(node.Content); i += 2 {
			if !yield(node.Content[i].Value, node.Content[i+1]) {
				return
			}
		}
	}
}

func lookupKey(node *yaml.Node, key string) *yaml.Node {
	for k, v := range mappingPairs(node) {
		if k == key {
			return v
		}
	}
	return nil
}

// scalarString renders a value node as the string the docs should show.
// Non-scalar defaults (lists, maps) are re-marshaled compactly.
func scalarString(node *yaml.Node) string {
	if node.Kind == yaml.ScalarNode {
		return node.Value
	}
	out, err := yaml.Marshal(node)
	if err != nil {
		return ""
	}
	return strings.TrimRight(string(out), "\n")
}

func kindFromFilename(path string) Kind {
	base := filepath.Base(path)
	if base == "action.yml" || base == "action.yaml" {
		return KindAction
	}
	if strings.Contains(filepath.ToSlash(path), ".github/workflows/") {
		return KindWorkflow
	}
	return KindAction
}

// DisplayName returns the name to head the generated document with,
// falling back to the manifest filename.
func (m *Manifest) DisplayName() string {
	if m.Name != "" {
		return m.Name
	}
	if m.Path != "" {
		return filepath.Base(m.Path)
	}
	return "Untitled Action"
}

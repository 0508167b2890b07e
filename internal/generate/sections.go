// Package generate renders manifest data into per-section content
// fragments and installs them into destination documents through the
// section writer.
package generate

import (
	"fmt"
	"strings"
	"time"

	"git.home.luguber.info/inful/actiondocs/internal/content"
	"git.home.luguber.info/inful/actiondocs/internal/errors"
	"git.home.luguber.info/inful/actiondocs/internal/forge"
	"git.home.luguber.info/inful/actiondocs/internal/manifest"
	"git.home.luguber.info/inful/actiondocs/internal/markdown"
	"git.home.luguber.info/inful/actiondocs/internal/section"
)

// Options tunes section rendering.
type Options struct {
	// Repo is the detected hosting location; nil degrades badge and
	// link rendering to repository-neutral output.
	Repo *forge.Repository

	// Sections restricts which sections are generated. Empty means all.
	Sections []section.Identifier

	// Version is the tool version stamped into the generated section.
	Version string

	// Now supplies the generation timestamp; tests pin it.
	Now func() time.Time
}

func (o Options) sections() []section.Identifier {
	if len(o.Sections) == 0 {
		return section.All()
	}
	return o.Sections
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// RenderSection renders the fragment for one canonical section from the
// manifest. Sections with nothing to say render empty content; the
// writer still installs their marker pair so later runs stay idempotent.
func RenderSection(id section.Identifier, m *manifest.Manifest, opts Options) (content.Content, error) {
	switch id {
	case section.Header:
		return renderHeader(m), nil
	case section.Badges:
		return renderBadges(opts.Repo), nil
	case section.Overview:
		return renderOverview(m), nil
	case section.Usage:
		return renderUsage(m, opts.Repo), nil
	case section.Inputs:
		return renderInputs(m)
	case section.Outputs:
		return renderOutputs(m)
	case section.Secrets:
		return renderSecrets(m)
	case section.Examples:
		return renderExamples(m, opts.Repo), nil
	case section.Contributing:
		return renderContributing(opts.Repo), nil
	case section.Security:
		return renderSecurity(opts.Repo), nil
	case section.License:
		return renderLicense(opts.Repo), nil
	case section.Generated:
		return renderGenerated(opts), nil
	}
	return content.Empty, errors.New(errors.CategoryRender, errors.SeverityError,
		fmt.Sprintf("no renderer for section %q", id))
}

func renderHeader(m *manifest.Manifest) content.Content {
	out := content.FromString("# " + m.DisplayName())
	if m.Description != "" {
		out = out.AppendString("\n\n" + m.Description)
	}
	return out
}

func renderBadges(repo *forge.Repository) content.Content {
	if repo == nil {
		return content.Empty
	}
	badges := []string{
		fmt.Sprintf("[![Release](https://img.shields.io/github/v/release/%s)](%s/releases)",
			repo.Slug(), repo.HTTPURL()),
		fmt.Sprintf("[![License](https://img.shields.io/github/license/%s)](%s/blob/%s/LICENSE)",
			repo.Slug(), repo.HTTPURL(), repo.Ref),
	}
	if repo.Kind == forge.KindGitHub {
		badges = append(badges,
			fmt.Sprintf("[![Marketplace](https://img.shields.io/badge/marketplace-%s-blue)](https://github.com/marketplace/actions/%s)",
				repo.Name, repo.Name))
	}
	return content.FromString(strings.Join(badges, "\n"))
}

func renderOverview(m *manifest.Manifest) content.Content {
	var parts []string
	if m.Description != "" {
		parts = append(parts, m.Description)
	}
	if m.Author != "" {
		parts = append(parts, fmt.Sprintf("Maintained by %s.", m.Author))
	}
	if m.Branding.Icon != "" || m.Branding.Color != "" {
		parts = append(parts, fmt.Sprintf("Marketplace branding: icon `%s`, color `%s`.",
			m.Branding.Icon, m.Branding.Color))
	}
	return content.FromString(strings.Join(parts, "\n\n"))
}

func renderUsage(m *manifest.Manifest, repo *forge.Repository) content.Content {
	uses := "owner/repository@main"
	if repo != nil {
		uses = repo.UsesRef()
	}

	var sb strings.Builder
	if m.Kind == manifest.KindWorkflow {
		sb.WriteString("jobs:\n")
		sb.WriteString("  call:\n")
		sb.WriteString(fmt.Sprintf("    uses: %s\n", uses))
		writeWithBlock(&sb, m.Inputs, "    ")
	} else {
		sb.WriteString("steps:\n")
		sb.WriteString(fmt.Sprintf("  - uses: %s\n", uses))
		writeWithBlock(&sb, m.Inputs, "    ")
	}
	return markdown.CodeBlock(content.FromString(sb.String()), "yaml")
}

func writeWithBlock(sb *strings.Builder, inputs []manifest.Input, indent string) {
	if len(inputs) == 0 {
		return
	}
	sb.WriteString(indent + "with:\n")
	for _, in := range inputs {
		value := "<value>"
		comment := "required"
		if in.HasDefault {
			value = in.Default
			comment = "default"
		} else if !in.Required {
			comment = "optional"
		}
		if strings.Contains(value, "\n") {
			// Multi-line defaults do not fit a usage one-liner.
			value = "<value>"
		}
		sb.WriteString(fmt.Sprintf("%s  %s: %s # %s\n", indent, in.Name, value, comment))
	}
}

func renderInputs(m *manifest.Manifest) (content.Content, error) {
	if len(m.Inputs) == 0 {
		return content.Empty, nil
	}
	tbl := markdown.Table{
		Headers: headerCells("Name", "Description", "Required", "Default"),
	}
	for _, in := range m.Inputs {
		desc := in.Description
		if in.DeprecationMessage != "" {
			desc = strings.TrimSpace(desc + "\n**Deprecated**: " + in.DeprecationMessage)
		}
		def := content.FromString("n/a")
		if in.HasDefault {
			def = markdown.InlineCode(content.FromString(in.Default))
			if strings.Contains(in.Default, "\n") {
				def = markdown.CodeBlock(content.FromString(in.Default), "text")
			}
		}
		tbl.Rows = append(tbl.Rows, []content.Content{
			markdown.InlineCode(content.FromString(in.Name)),
			content.FromString(desc),
			content.FromString(yesNo(in.Required)),
			def,
		})
	}
	out, err := tbl.Render()
	if err != nil {
		return content.Empty, errors.Wrap(err, errors.CategoryRender, errors.SeverityError, "render inputs table")
	}
	return out, nil
}

func renderOutputs(m *manifest.Manifest) (content.Content, error) {
	if len(m.Outputs) == 0 {
		return content.Empty, nil
	}
	tbl := markdown.Table{Headers: headerCells("Name", "Description")}
	for _, out := range m.Outputs {
		tbl.Rows = append(tbl.Rows, []content.Content{
			markdown.InlineCode(content.FromString(out.Name)),
			content.FromString(out.Description),
		})
	}
	out, err := tbl.Render()
	if err != nil {
		return content.Empty, errors.Wrap(err, errors.CategoryRender, errors.SeverityError, "render outputs table")
	}
	return out, nil
}

func renderSecrets(m *manifest.Manifest) (content.Content, error) {
	if len(m.Secrets) == 0 {
		return content.Empty, nil
	}
	tbl := markdown.Table{Headers: headerCells("Name", "Description", "Required")}
	for _, s := range m.Secrets {
		tbl.Rows = append(tbl.Rows, []content.Content{
			markdown.InlineCode(content.FromString(s.Name)),
			content.FromString(s.Description),
			content.FromString(yesNo(s.Required)),
		})
	}
	out, err := tbl.Render()
	if err != nil {
		return content.Empty, errors.Wrap(err, errors.CategoryRender, errors.SeverityError, "render secrets table")
	}
	return out, nil
}

func renderExamples(m *manifest.Manifest, repo *forge.Repository) content.Content {
	uses := "owner/repository@main"
	if repo != nil {
		uses = repo.UsesRef()
	}
	var sb strings.Builder
	sb.WriteString("name: Example\n")
	sb.WriteString("on: push\n")
	sb.WriteString("jobs:\n")
	sb.WriteString("  example:\n")
	sb.WriteString("    runs-on: ubuntu-latest\n")
	sb.WriteString("    steps:\n")
	sb.WriteString(fmt.Sprintf("      - uses: %s\n", uses))
	required := requiredInputs(m.Inputs)
	if len(required) > 0 {
		sb.WriteString("        with:\n")
		for _, in := range required {
			sb.WriteString(fmt.Sprintf("          %s: <value>\n", in.Name))
		}
	}
	return markdown.CodeBlock(content.FromString(sb.String()), "yaml")
}

func renderContributing(repo *forge.Repository) content.Content {
	if repo == nil {
		return content.FromString("Contributions are welcome. Open an issue or a pull request to get started.")
	}
	return content.FromString(fmt.Sprintf(
		"Contributions are welcome. Open an issue or a pull request at %s to get started.", repo.HTTPURL()))
}

func renderSecurity(repo *forge.Repository) content.Content {
	if repo == nil || repo.Kind != forge.KindGitHub {
		return content.FromString("Report security issues privately to the maintainers; do not open a public issue.")
	}
	return content.FromString(fmt.Sprintf(
		"Report security issues privately via %s/security/advisories; do not open a public issue.", repo.HTTPURL()))
}

func renderLicense(repo *forge.Repository) content.Content {
	if repo == nil {
		return content.FromString("See the `LICENSE` file in the repository root.")
	}
	return content.FromString(fmt.Sprintf("See [LICENSE](%s/blob/%s/LICENSE).", repo.HTTPURL(), repo.Ref))
}

func renderGenerated(opts Options) content.Content {
	version := opts.Version
	if version == "" {
		version = "unknown"
	}
	return content.FromString(fmt.Sprintf(
		"*This file was generated by actiondocs %s on %s. Do not edit generated sections by hand.*",
		version, opts.now().Format("2006-01-02")))
}

func headerCells(names ...string) []content.Content {
	out := make([]content.Content, len(names))
	for i, n := range names {
		out[i] = content.FromString(n)
	}
	return out
}

func requiredInputs(inputs []manifest.Input) []manifest.Input {
	var out []manifest.Input
	for _, in := range inputs {
		if in.Required && !in.HasDefault {
			out = append(out, in)
		}
	}
	return out
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

package main

import (
	"context"
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/actiondocs/internal/config"
	"git.home.luguber.info/inful/actiondocs/internal/content"
	"git.home.luguber.info/inful/actiondocs/internal/docio"
	"git.home.luguber.info/inful/actiondocs/internal/forge"
	"git.home.luguber.info/inful/actiondocs/internal/generate"
	"git.home.luguber.info/inful/actiondocs/internal/logfields"
	"git.home.luguber.info/inful/actiondocs/internal/manifest"
	"git.home.luguber.info/inful/actiondocs/internal/section"
	"git.home.luguber.info/inful/actiondocs/internal/verify"
	"git.home.luguber.info/inful/actiondocs/internal/version"
)

func runGenerate(ctx context.Context, cfg *config.Config) error {
	manifests := CLI.Generate.Manifest
	if len(manifests) == 0 {
		manifests = cfg.Manifests
	}
	output := CLI.Generate.Output
	if output == "" {
		output = cfg.Output
	}
	sections := CLI.Generate.Sections
	if len(sections) == 0 {
		sections = cfg.Sections
	}

	opts := generate.Options{
		Repo:     detectRepo(),
		Sections: toIdentifiers(sections),
		Version:  version.Version,
	}
	gen := generate.New(nil, opts)

	for _, path := range manifests {
		m, err := manifest.Load(path)
		if err != nil {
			return err
		}
		if err := writeDocument(ctx, gen, m, output, CLI.Generate.DryRun, CLI.Generate.Verify); err != nil {
			return err
		}
	}
	return nil
}

// writeDocument runs generation against output. Dry runs render into a
// memory copy of the destination and print a diff instead of writing.
func writeDocument(ctx context.Context, gen *generate.Generator, m *manifest.Manifest, output string, dryRun, check bool) error {
	file := docio.NewFile(output)

	if dryRun {
		before, err := file.Read(ctx)
		if err != nil {
			return err
		}
		mem := docio.NewMemWith(output, before)
		if err := gen.Run(ctx, m, mem); err != nil {
			return err
		}
		after, err := mem.Read(ctx)
		if err != nil {
			return err
		}
		fmt.Print(docio.Diff(before, after))
		return verifyDocument(after, check)
	}

	if err := gen.Run(ctx, m, file); err != nil {
		return err
	}
	result, err := file.Read(ctx)
	if err != nil {
		return err
	}
	return verifyDocument(result, check)
}

func verifyDocument(c content.Content, check bool) error {
	if !check {
		return nil
	}
	issues := verify.Document(c)
	for _, issue := range issues {
		slog.Warn("Verification issue", slog.String("check", issue.Check), slog.String("detail", issue.Message))
	}
	return verify.Error(issues)
}

func detectRepo() *forge.Repository {
	repo, err := forge.Detect(".")
	if err != nil {
		slog.Warn("No repository detected, links and badges degrade", logfields.Error(err))
		return nil
	}
	slog.Debug("Detected repository",
		logfields.ForgeType(string(repo.Kind)), logfields.URL(repo.HTTPURL()))
	return repo
}

func toIdentifiers(names []string) []section.Identifier {
	out := make([]section.Identifier, 0, len(names))
	for _, n := range names {
		out = append(out, section.Identifier(n))
	}
	return out
}

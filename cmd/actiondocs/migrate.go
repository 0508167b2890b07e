package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/actiondocs/internal/config"
	"git.home.luguber.info/inful/actiondocs/internal/docio"
	"git.home.luguber.info/inful/actiondocs/internal/errors"
	"git.home.luguber.info/inful/actiondocs/internal/logfields"
	"git.home.luguber.info/inful/actiondocs/internal/metrics"
	"git.home.luguber.info/inful/actiondocs/internal/migrate"
)

func runMigrate(ctx context.Context, cfg *config.Config) error {
	tool, ok := migrate.Tool(CLI.Migrate.Tool)
	if !ok {
		return errors.New(errors.CategoryConfig, errors.SeverityFatal,
			fmt.Sprintf("unknown tool %q, supported: %s",
				CLI.Migrate.Tool, strings.Join(migrate.ToolNames(), ", ")))
	}

	path := CLI.Migrate.File
	src, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, errors.CategoryIO, errors.SeverityFatal, "open document")
	}
	defer src.Close()

	rewriter := migrate.NewRewriter(tool)
	if cfg.PushGateway != "" {
		registry := prom.NewRegistry()
		rewriter.SetRecorder(metrics.NewPrometheusRecorder(registry))
		defer func() {
			if err := metrics.Push(cfg.PushGateway, registry); err != nil {
				slog.Warn("Could not push metrics", logfields.Error(err))
			}
		}()
	}
	migrated, err := rewriter.Rewrite(ctx, src)
	if err != nil {
		return err
	}

	file := docio.NewFile(path)
	if CLI.Migrate.DryRun {
		before, err := file.Read(ctx)
		if err != nil {
			return err
		}
		fmt.Print(docio.Diff(before, migrated))
		return verifyDocument(migrated, CLI.Migrate.Verify)
	}

	if err := file.ReplaceAll(ctx, migrated); err != nil {
		return err
	}
	slog.Info("Migrated document",
		logfields.Tool(CLI.Migrate.Tool), logfields.Destination(path))
	return verifyDocument(migrated, CLI.Migrate.Verify)
}

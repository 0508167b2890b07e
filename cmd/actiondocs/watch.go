package main

import (
	"context"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/actiondocs/internal/config"
	"git.home.luguber.info/inful/actiondocs/internal/docio"
	"git.home.luguber.info/inful/actiondocs/internal/errors"
	"git.home.luguber.info/inful/actiondocs/internal/generate"
	"git.home.luguber.info/inful/actiondocs/internal/manifest"
	"git.home.luguber.info/inful/actiondocs/internal/metrics"
	"git.home.luguber.info/inful/actiondocs/internal/state"
	"git.home.luguber.info/inful/actiondocs/internal/version"
	"git.home.luguber.info/inful/actiondocs/internal/watch"
)

func runWatch(ctx context.Context, cfg *config.Config) error {
	manifests := CLI.Watch.Manifest
	if len(manifests) == 0 {
		manifests = cfg.Manifests
	}
	output := CLI.Watch.Output
	if output == "" {
		output = cfg.Output
	}

	every := cfg.Every
	if CLI.Watch.Every != "" {
		parsed, err := time.ParseDuration(CLI.Watch.Every)
		if err != nil {
			return errors.Wrap(err, errors.CategoryConfig, errors.SeverityFatal, "parse rebuild interval")
		}
		every = parsed
	}
	metricsAddr := CLI.Watch.MetricsAddr
	if metricsAddr == "" {
		metricsAddr = cfg.MetricsAddr
	}

	store, err := state.Open(CLI.Watch.StateFile)
	if err != nil {
		return errors.Wrap(err, errors.CategoryIO, errors.SeverityFatal, "open state store")
	}
	defer store.Close()

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var registry *prom.Registry
	if metricsAddr != "" {
		registry = prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(registry)
	}

	gen := generate.New(nil, generate.Options{
		Repo:     detectRepo(),
		Sections: cfg.SectionIdentifiers(),
		Version:  version.Version,
	})
	rebuild := func(ctx context.Context, path string) error {
		m, err := manifest.Load(path)
		if err != nil {
			return err
		}
		return gen.Run(ctx, m, docio.NewFile(output))
	}

	watcher, err := watch.New(watch.Options{
		Manifests:   manifests,
		Rebuild:     rebuild,
		Store:       store,
		Recorder:    recorder,
		Every:       every,
		MetricsAddr: metricsAddr,
		Registry:    registry,
	})
	if err != nil {
		return err
	}
	if err := watcher.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

package generate

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"git.home.luguber.info/inful/actiondocs/internal/docio"
	"git.home.luguber.info/inful/actiondocs/internal/logfields"
	"git.home.luguber.info/inful/actiondocs/internal/manifest"
	"git.home.luguber.info/inful/actiondocs/internal/section"
)

// Generator renders manifests into destination documents section by
// section. It is safe for concurrent use; writes to a shared destination
// serialize through the section writer's lock registry.
type Generator struct {
	writer *section.Writer
	opts   Options
}

// New returns a Generator using the given writer and options.
func New(writer *section.Writer, opts Options) *Generator {
	if writer == nil {
		writer = section.NewWriter()
	}
	return &Generator{writer: writer, opts: opts}
}

// Run generates every configured section from m into dst. Sections are
// written in canonical order so a fresh document comes out ordered; on
// an existing document each section replaces its own span in place.
func (g *Generator) Run(ctx context.Context, m *manifest.Manifest, dst docio.Resource) error {
	started := time.Now()
	for _, id := range g.opts.sections() {
		fragment, err := RenderSection(id, m, g.opts)
		if err != nil {
			return err
		}
		if err := g.writer.Write(ctx, dst, id, fragment); err != nil {
			return err
		}
		slog.Debug("Wrote section",
			logfields.Section(string(id)),
			logfields.Destination(dst.Name()))
	}
	slog.Info("Generated documentation",
		logfields.Manifest(m.Path),
		logfields.Destination(dst.Name()),
		logfields.DurationMS(float64(time.Since(started).Milliseconds())))
	return nil
}

// Job pairs one manifest with its destination document.
type Job struct {
	Manifest *manifest.Manifest
	Dest     docio.Resource
}

// RunAll processes jobs concurrently. Jobs targeting distinct
// destinations run fully in parallel; jobs sharing a destination are
// serialized per section by the writer's lock registry. The first error
// per job is collected; RunAll returns the first non-nil one.
func (g *Generator) RunAll(ctx context.Context, jobs []Job) error {
	if len(jobs) == 0 {
		return nil
	}
	errs := make([]error, len(jobs))
	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		go func(i int, job Job) {
			defer wg.Done()
			errs[i] = g.Run(ctx, job.Manifest, job.Dest)
		}(i, job)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Package watch rebuilds documentation when manifests change on disk.
// A fingerprint store skips manifests whose bytes did not change, so
// editor save storms and periodic rebuilds stay cheap.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/actiondocs/internal/errors"
	"git.home.luguber.info/inful/actiondocs/internal/logfields"
	"git.home.luguber.info/inful/actiondocs/internal/metrics"
	"git.home.luguber.info/inful/actiondocs/internal/state"
)

// Rebuilder regenerates documentation for one manifest.
type Rebuilder func(ctx context.Context, manifest string) error

// Options configures a Watcher.
type Options struct {
	// Manifests are the files to watch and rebuild from.
	Manifests []string

	// Rebuild is invoked for each manifest that changed.
	Rebuild Rebuilder

	// Store skips unchanged manifests. Nil disables skipping.
	Store *state.Store

	// Recorder receives run counters. Nil means no metrics.
	Recorder metrics.Recorder

	// Every schedules a periodic full rebuild. Zero disables it.
	Every time.Duration

	// MetricsAddr serves prometheus metrics when non-empty.
	MetricsAddr string

	// Debounce collapses rapid change bursts. Zero uses a default.
	Debounce time.Duration

	// Registry backs the metrics endpoint. Nil uses a fresh registry.
	Registry *prom.Registry
}

const defaultDebounce = 300 * time.Millisecond

// Watcher drives the rebuild loop.
type Watcher struct {
	opts Options
}

// New validates opts and returns a Watcher.
func New(opts Options) (*Watcher, error) {
	if len(opts.Manifests) == 0 {
		return nil, errors.New(errors.CategoryConfig, errors.SeverityFatal, "nothing to watch")
	}
	if opts.Rebuild == nil {
		return nil, errors.New(errors.CategoryInternal, errors.SeverityFatal, "no rebuild function")
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	if opts.Debounce <= 0 {
		opts.Debounce = defaultDebounce
	}
	return &Watcher{opts: opts}, nil
}

// Run builds everything once, then blocks rebuilding on changes until
// ctx is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer watcher.Close()

	watched, err := w.addWatches(watcher)
	if err != nil {
		return err
	}

	rebuildReq, trigger := w.debouncer()

	if w.opts.Every > 0 {
		scheduler, err := w.schedulePeriodic(trigger)
		if err != nil {
			return err
		}
		defer func() { _ = scheduler.Shutdown() }()
	}

	if w.opts.MetricsAddr != "" {
		server := w.serveMetrics()
		defer func() { _ = server.Shutdown(context.Background()) }()
	}

	w.rebuildAll(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-rebuildReq:
			w.rebuildAll(ctx)
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !watched[filepath.Clean(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			slog.Debug("Manifest changed", logfields.Path(event.Name))
			trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("Watch error", logfields.Error(err))
		}
	}
}

// addWatches registers the parent directory of every manifest (editors
// replace files by rename, which unregisters direct file watches) and
// returns the set of absolute manifest paths worth reacting to.
func (w *Watcher) addWatches(watcher *fsnotify.Watcher) (map[string]bool, error) {
	watched := make(map[string]bool, len(w.opts.Manifests))
	dirs := map[string]bool{}
	for _, m := range w.opts.Manifests {
		abs, err := filepath.Abs(m)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", m, err)
		}
		watched[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	return watched, nil
}

// debouncer returns a rebuild request channel and a trigger that
// collapses bursts into one request.
func (w *Watcher) debouncer() (chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	rebuildReq := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(w.opts.Debounce, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}
	return rebuildReq, trigger
}

func (w *Watcher) schedulePeriodic(trigger func()) (gocron.Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(w.opts.Every),
		gocron.NewTask(trigger),
		gocron.WithName("periodic-rebuild"),
	)
	if err != nil {
		return nil, fmt.Errorf("schedule periodic rebuild: %w", err)
	}
	scheduler.Start()
	slog.Info("Scheduled periodic rebuild", slog.Duration("every", w.opts.Every))
	return scheduler, nil
}

func (w *Watcher) serveMetrics() *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(w.opts.Registry))
	server := &http.Server{Addr: w.opts.MetricsAddr, Handler: mux}
	go func() {
		slog.Info("Serving metrics", slog.String("addr", w.opts.MetricsAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Metrics server failed", logfields.Error(err))
		}
	}()
	return server
}

// rebuildAll regenerates every manifest whose fingerprint changed.
func (w *Watcher) rebuildAll(ctx context.Context) {
	started := time.Now()
	for _, manifest := range w.opts.Manifests {
		if ctx.Err() != nil {
			return
		}
		if err := w.rebuildOne(ctx, manifest); err != nil {
			w.opts.Recorder.IncError(string(errors.GetCategory(err)))
			slog.Error("Rebuild failed", logfields.Manifest(manifest), logfields.Error(err))
		}
	}
	w.opts.Recorder.ObserveRunDuration(time.Since(started))
}

func (w *Watcher) rebuildOne(ctx context.Context, manifest string) error {
	data, err := os.ReadFile(manifest)
	if err != nil {
		return errors.Wrap(err, errors.CategoryIO, errors.SeverityError, "read manifest")
	}

	if w.opts.Store != nil {
		changed, err := w.opts.Store.Changed(ctx, manifest, data)
		if err != nil {
			return errors.Wrap(err, errors.CategoryIO, errors.SeverityError, "check fingerprint")
		}
		if !changed {
			w.opts.Recorder.IncSkipped(manifest)
			slog.Debug("Manifest unchanged, skipping", logfields.Manifest(manifest))
			return nil
		}
	}

	if err := w.opts.Rebuild(ctx, manifest); err != nil {
		return err
	}
	w.opts.Recorder.IncGeneration(manifest)

	if w.opts.Store != nil {
		if err := w.opts.Store.Remember(ctx, manifest, data); err != nil {
			return errors.Wrap(err, errors.CategoryIO, errors.SeverityError, "store fingerprint")
		}
	}
	return nil
}

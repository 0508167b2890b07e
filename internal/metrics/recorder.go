// Package metrics exposes counters for watch-mode runs. The Recorder
// interface keeps the generator and watcher free of a hard prometheus
// dependency; the noop implementation is the default outside watch mode.
package metrics

import "time"

// Recorder defines the observability hooks for generation and
// migration runs.
type Recorder interface {
	IncGeneration(manifest string)
	IncMigration(tool string)
	IncSkipped(manifest string)
	IncError(category string)
	ObserveRunDuration(d time.Duration)
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) IncGeneration(string)             {}
func (NoopRecorder) IncMigration(string)              {}
func (NoopRecorder) IncSkipped(string)                {}
func (NoopRecorder) IncError(string)                  {}
func (NoopRecorder) ObserveRunDuration(time.Duration) {}

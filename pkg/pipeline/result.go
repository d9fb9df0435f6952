package pipeline

import (
	"time"

	"github.com/hlstatsx/heatmaps/pkg/model"
)

// Outcome is how a map build ended.
type Outcome string

// Build outcomes.
const (
	OutcomeWritten Outcome = "written" // outputs were written
	OutcomeSkipped Outcome = "skipped" // no base image or no events; nothing written
	OutcomeFailed  Outcome = "failed"  // map-local error; nothing written
)

// MapResult describes one map build.
type MapResult struct {
	// Config is the row the build ran for.
	Config model.MapConfig

	// Outcome is written, skipped or failed.
	Outcome Outcome

	// Reason explains a skip.
	Reason string

	// Err is the map-local error behind a failed outcome. Fatal errors are
	// returned by BuildMap instead.
	Err error

	// Outputs lists written files, full-size first.
	Outputs []string

	// Stats contains counts and timings.
	Stats Stats
}

// Stats contains map build statistics.
type Stats struct {
	Width  int // base image width
	Height int // base image height

	Events   int // rows returned by the event query
	Points   int // points accumulated into the field
	NoPoints int // events whose chosen position was NULL

	LoadTime      time.Duration
	QueryTime     time.Duration
	GenerateTime  time.Duration
	CompositeTime time.Duration
	WriteTime     time.Duration
	TotalTime     time.Duration
}

// BatchResult summarises a batch run.
type BatchResult struct {
	Game string

	// Maps holds one result per config row, in processing order. After a
	// fatal error the last entry is the map that failed.
	Maps []*MapResult

	Written int
	Skipped int
	Failed  int

	Duration time.Duration
}

func (b *BatchResult) add(r *MapResult) {
	b.Maps = append(b.Maps, r)
	switch r.Outcome {
	case OutcomeWritten:
		b.Written++
	case OutcomeSkipped:
		b.Skipped++
	case OutcomeFailed:
		b.Failed++
	}
}

// Package pipeline turns hlstats kill events into heatmap images.
//
// A map build runs these stages for one heatmap config row:
//
//  1. Load: decode the map's base image from the source directory
//  2. Query: fetch frag and teamkill events inside the lookback window
//  3. Generate: transform every event position to a pixel and accumulate it
//  4. Composite: overlay the rendered field, crop, derive the thumbnail
//  5. Write: save the full-size PNG and the optional thumbnail
//
// A batch runs one build per config row of a game, strictly in order.
//
// # Failure handling
//
// Builds report one of three outcomes. A map without a base image or without
// events is skipped. A map whose data cannot be rendered (a position outside
// the image, an unreadable image, an unwritable output) fails on its own and
// the batch moves on. Database and allocation failures are fatal: BuildMap
// returns them as errors and RunBatch stops.
//
// # Usage
//
//	runner, err := pipeline.NewRunner(st, pipeline.Options{
//	    WebPath: "/var/www/hlstats",
//	}, logger)
//	if err != nil {
//	    return err
//	}
//	batch, err := runner.RunBatch(ctx, "insurgency")
package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/hlstatsx/heatmaps/pkg/density"
	"github.com/hlstatsx/heatmaps/pkg/errors"
	"github.com/hlstatsx/heatmaps/pkg/model"
	"github.com/hlstatsx/heatmaps/pkg/observability"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultGame is the hlstats game code processed when none is given.
	DefaultGame = "insurgency"

	// DefaultMode is the label appended to output file names.
	DefaultMode = model.ModeKill

	// DefaultSrcDir holds the base images, one directory per game.
	DefaultSrcDir = "./src"

	// DefaultLookback is the event window. It is fixed for every map; the
	// per-map days column is not consulted.
	DefaultLookback = 90 * 24 * time.Hour
)

// =============================================================================
// Sources
// =============================================================================

// ConfigSource lists the heatmap configs of a game.
type ConfigSource interface {
	MapConfigs(ctx context.Context, game string) ([]model.MapConfig, error)
}

// EventSource fetches the kill events recorded on a map since a point in time.
type EventSource interface {
	KillEvents(ctx context.Context, mapName, game string, since time.Time) ([]model.KillEvent, error)
}

// Store is everything a batch reads. *store.Store satisfies it.
type Store interface {
	ConfigSource
	EventSource
}

// =============================================================================
// Options
// =============================================================================

// Options configures a Runner.
type Options struct {
	// WebPath is the hlstats web root. Outputs go to
	// <WebPath>/hlstatsimg/games/<code>/heatmaps/. Required.
	WebPath string

	// SrcDir holds base images as <SrcDir>/<game>/<map>.png.
	SrcDir string

	// Mode is the output file suffix, "kill" by default.
	Mode string

	// Lookback is how far back events are read.
	Lookback time.Duration

	// StampRadius is the density kernel radius in pixels. Zero selects
	// density.DefaultRadius.
	StampRadius int

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	// Hooks receives build and stage events. Defaults to no-op hooks.
	Hooks observability.BuildHooks

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := errors.ValidateDir("web path", o.WebPath); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid web path")
	}
	if o.SrcDir == "" {
		o.SrcDir = DefaultSrcDir
	}
	if err := errors.ValidateDir("source directory", o.SrcDir); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid source directory")
	}
	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	if err := errors.ValidatePathComponent("mode", o.Mode); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid mode")
	}
	if o.Lookback == 0 {
		o.Lookback = DefaultLookback
	}
	if o.Lookback < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "lookback must be positive, got %s", o.Lookback)
	}
	if o.StampRadius == 0 {
		o.StampRadius = density.DefaultRadius
	}
	if o.StampRadius < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "stamp radius must be positive, got %d", o.StampRadius)
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Hooks == nil {
		o.Hooks = observability.NoopBuildHooks{}
	}
	o.validated = true
	return nil
}

// Since returns the start of the event window relative to Now.
func (o *Options) Since() time.Time {
	return o.Now().Add(-o.Lookback)
}

// discardLogger is used when a caller passes no logger.
func discardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

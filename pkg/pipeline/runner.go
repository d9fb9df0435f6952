package pipeline

import (
	"context"
	stderrors "errors"
	"image"
	"time"

	"github.com/charmbracelet/log"

	"github.com/hlstatsx/heatmaps/pkg/composite"
	"github.com/hlstatsx/heatmaps/pkg/density"
	"github.com/hlstatsx/heatmaps/pkg/errors"
	"github.com/hlstatsx/heatmaps/pkg/model"
	"github.com/hlstatsx/heatmaps/pkg/observability"
	"github.com/hlstatsx/heatmaps/pkg/transform"
)

// Runner executes map builds against one store.
//
// The Runner holds no per-build state. Builds are meant to run one after
// another on the single store connection.
type Runner struct {
	Store   Store
	Options Options
	Logger  *log.Logger
}

// NewRunner validates opts and creates a runner reading from s.
// A nil logger discards output.
func NewRunner(s Store, opts Options, logger *log.Logger) (*Runner, error) {
	if s == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "store is required")
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = discardLogger()
	}
	return &Runner{
		Store:   s,
		Options: opts,
		Logger:  logger,
	}, nil
}

// =============================================================================
// Batch
// =============================================================================

// RunBatch builds every configured map of game in config order.
//
// Skipped and failed maps are logged and counted. A fatal error, including
// context cancellation, stops the batch and is returned together with the
// partial result.
func (r *Runner) RunBatch(ctx context.Context, game string) (*BatchResult, error) {
	start := time.Now()
	batch := &BatchResult{Game: game}

	configs, err := r.Store.MapConfigs(ctx, game)
	if err != nil {
		return batch, err
	}
	r.Logger.Info("loaded heatmap config", "game", game, "maps", len(configs))

	for _, cfg := range configs {
		if err := ctx.Err(); err != nil {
			batch.Duration = time.Since(start)
			return batch, err
		}

		res, err := r.BuildMap(ctx, cfg)
		batch.add(res)
		if err != nil {
			batch.Duration = time.Since(start)
			return batch, err
		}
	}

	batch.Duration = time.Since(start)
	r.Logger.Info("batch complete",
		"game", game,
		"written", batch.Written,
		"skipped", batch.Skipped,
		"failed", batch.Failed,
		"duration", batch.Duration)
	return batch, nil
}

// =============================================================================
// Map Build
// =============================================================================

// BuildMap renders the heatmap for one config row.
//
// The returned result is never nil. The error is non-nil only for fatal
// failures; map-local failures are reported through MapResult.Err with
// OutcomeFailed.
func (r *Runner) BuildMap(ctx context.Context, cfg model.MapConfig) (*MapResult, error) {
	b := &build{
		Runner: r,
		cfg:    cfg,
		res:    &MapResult{Config: cfg},
		logger: r.Logger.With("map", cfg.Map, "code", cfg.Code),
	}

	start := time.Now()
	r.Options.Hooks.OnBuildStart(ctx, cfg.Map)

	err := b.run(ctx)
	b.res.Stats.TotalTime = time.Since(start)

	switch {
	case err == nil && b.res.Outcome == "":
		b.res.Outcome = OutcomeWritten
	case err != nil && !errors.IsFatal(err):
		b.res.Outcome = OutcomeFailed
		b.res.Err = err
		b.logger.Error("heatmap failed", "err", err)
		err = nil
	case err != nil:
		b.res.Outcome = OutcomeFailed
		b.res.Err = err
	}

	if b.res.Outcome == OutcomeWritten {
		b.logger.Info("built heatmap",
			"points", b.res.Stats.Points,
			"duration", b.res.Stats.TotalTime)
	}
	r.Options.Hooks.OnBuildComplete(ctx, cfg.Map, string(b.res.Outcome),
		b.res.Stats.Points, b.res.Stats.TotalTime, b.res.Err)

	return b.res, err
}

// build carries the state of one BuildMap call.
type build struct {
	*Runner
	cfg    model.MapConfig
	res    *MapResult
	logger *log.Logger
}

func (b *build) skip(reason string, keyvals ...any) {
	b.res.Outcome = OutcomeSkipped
	b.res.Reason = reason
	b.logger.Warn(reason, keyvals...)
}

// stage times fn and reports it to the hooks.
func (b *build) stage(ctx context.Context, s observability.Stage, d *time.Duration, fn func() error) error {
	start := time.Now()
	err := fn()
	*d = time.Since(start)
	b.Options.Hooks.OnStage(ctx, b.cfg.Map, s, *d, err)
	return err
}

func (b *build) run(ctx context.Context) error {
	cfg, opts, stats := b.cfg, &b.Options, &b.res.Stats

	for _, c := range []struct{ kind, value string }{
		{"site code", cfg.Code},
		{"game", cfg.Game},
		{"map", cfg.Map},
	} {
		if err := errors.ValidatePathComponent(c.kind, c.value); err != nil {
			return err
		}
	}

	b.logger.Debug("building heatmap",
		"game", cfg.Game,
		"days", cfg.Days,
		"lookback", opts.Lookback,
		"scale", cfg.Scale)

	// Load
	var base image.Image
	basePath := BaseImagePath(opts.SrcDir, cfg.Game, cfg.Map)
	err := b.stage(ctx, observability.StageLoadImage, &stats.LoadTime, func() error {
		var err error
		base, err = composite.Open(basePath)
		return err
	})
	if errors.Is(err, errors.ErrCodeMissingImage) {
		b.skip("base image not found", "path", basePath)
		return nil
	}
	if err != nil {
		return err
	}
	stats.Width, stats.Height = base.Bounds().Dx(), base.Bounds().Dy()

	tr, err := transform.New(transform.FromConfig(cfg), stats.Width, stats.Height)
	if err != nil {
		return errors.Wrap(errors.GetCode(err), err, "transform for %s", cfg)
	}

	// Query
	var events []model.KillEvent
	err = b.stage(ctx, observability.StageQuery, &stats.QueryTime, func() error {
		var err error
		events, err = b.Store.KillEvents(ctx, cfg.Map, cfg.Game, opts.Since())
		return err
	})
	if err != nil {
		return err
	}
	stats.Events = len(events)
	if len(events) == 0 {
		b.skip("no events")
		return nil
	}

	// Generate
	stamp := density.NewStamp(opts.StampRadius)
	field, err := density.New(stats.Width, stats.Height, density.WithStamp(stamp))
	if err != nil {
		return err
	}
	defer field.Release()

	var heat *image.NRGBA
	err = b.stage(ctx, observability.StageGenerate, &stats.GenerateTime, func() error {
		for _, ev := range events {
			px, py, ok := ev.Position()
			if !ok {
				stats.NoPoints++
				continue
			}
			pt, err := tr.Apply(px, py)
			if err != nil {
				var oob *transform.OutOfBoundsError
				if stderrors.As(err, &oob) {
					return errors.Wrap(errors.ErrCodeOutOfBounds, err, "%s event %d on %s: %s", ev.KillType, ev.ID, cfg.Map, oob)
				}
				return errors.Wrap(errors.ErrCodeOutOfBounds, err, "%s event %d on %s", ev.KillType, ev.ID, cfg.Map)
			}
			field.AddPoint(pt.X, pt.Y)
		}
		stats.Points = field.Points()
		heat = field.RenderImage()
		return nil
	})
	if err != nil {
		return err
	}
	b.logger.Info("generated heatmap",
		"events", stats.Events,
		"points", stats.Points,
		"duration", stats.GenerateTime)
	b.logger.Debug("density range",
		"max", field.Max(),
		"stamp_radius", stamp.Radius(),
		"no_position", stats.NoPoints)

	// Composite
	geom := composite.GeometryFor(cfg, stats.Width, stats.Height)
	var out *composite.Output
	err = b.stage(ctx, observability.StageComposite, &stats.CompositeTime, func() error {
		var err error
		out, err = composite.Compose(base, heat, geom)
		return err
	})
	if err != nil {
		return err
	}
	b.logger.Debug("composited heatmap", "geometry", geom)

	// Write
	err = b.stage(ctx, observability.StageWrite, &stats.WriteTime, func() error {
		full := OutputPath(opts.WebPath, cfg.Code, cfg.Map, opts.Mode)
		if err := composite.Save(out.Full, full); err != nil {
			return err
		}
		b.res.Outputs = append(b.res.Outputs, full)

		if out.Thumb != nil {
			thumb := ThumbPath(opts.WebPath, cfg.Code, cfg.Map, opts.Mode)
			if err := composite.Save(out.Thumb, thumb); err != nil {
				// The full-size image is already in place and is left there.
				b.res.Reason = "thumbnail not written; full-size output kept"
				b.logger.Warn(b.res.Reason, "path", full)
				return err
			}
			b.res.Outputs = append(b.res.Outputs, thumb)
		}
		return nil
	})
	if err != nil {
		return err
	}
	b.logger.Info("wrote png", "files", len(b.res.Outputs), "duration", stats.WriteTime)

	return nil
}

// Package observability provides hooks for instrumenting heatmap builds.
//
// The pipeline reports the start and end of every map build and the duration
// of each stage within it. Consumers implement BuildHooks and hand it to the
// pipeline runner; the runner falls back to NoopBuildHooks when none is given.
//
// # Usage
//
//	runner, err := pipeline.NewRunner(st, pipeline.Options{
//	    WebPath: "/var/www/hlstats",
//	    Hooks:   myHooks{},
//	}, logger)
//
// The runner then calls:
//
//	hooks.OnBuildStart(ctx, "ministry")
//	hooks.OnStage(ctx, "ministry", observability.StageGenerate, 40*time.Millisecond, nil)
//	hooks.OnBuildComplete(ctx, "ministry", "written", 1523, 180*time.Millisecond, nil)
package observability

import (
	"context"
	"time"
)

// Stage names one step of a map build.
type Stage string

// Build stages in execution order.
const (
	StageLoadImage Stage = "load-image"
	StageQuery     Stage = "query"
	StageGenerate  Stage = "generate"
	StageComposite Stage = "composite"
	StageWrite     Stage = "write"
)

// Stages lists every stage in execution order.
var Stages = []Stage{StageLoadImage, StageQuery, StageGenerate, StageComposite, StageWrite}

// =============================================================================
// Build Hooks
// =============================================================================

// BuildHooks receives events from map builds.
type BuildHooks interface {
	// OnBuildStart is called before anything is read for a map.
	OnBuildStart(ctx context.Context, mapName string)

	// OnStage is called when a stage finishes, successfully or not.
	OnStage(ctx context.Context, mapName string, stage Stage, duration time.Duration, err error)

	// OnBuildComplete is called once per map with the build outcome.
	OnBuildComplete(ctx context.Context, mapName, outcome string, points int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementation
// =============================================================================

// NoopBuildHooks is a no-op implementation of BuildHooks.
type NoopBuildHooks struct{}

func (NoopBuildHooks) OnBuildStart(context.Context, string) {}

func (NoopBuildHooks) OnStage(context.Context, string, Stage, time.Duration, error) {}

func (NoopBuildHooks) OnBuildComplete(context.Context, string, string, int, time.Duration, error) {
}

// =============================================================================
// Fan-out
// =============================================================================

// Multi returns hooks that forward every event to each of hs in order.
// Nil entries are skipped.
func Multi(hs ...BuildHooks) BuildHooks {
	var live multiHooks
	for _, h := range hs {
		if h != nil {
			live = append(live, h)
		}
	}
	switch len(live) {
	case 0:
		return NoopBuildHooks{}
	case 1:
		return live[0]
	}
	return live
}

type multiHooks []BuildHooks

func (m multiHooks) OnBuildStart(ctx context.Context, mapName string) {
	for _, h := range m {
		h.OnBuildStart(ctx, mapName)
	}
}

func (m multiHooks) OnStage(ctx context.Context, mapName string, stage Stage, d time.Duration, err error) {
	for _, h := range m {
		h.OnStage(ctx, mapName, stage, d, err)
	}
}

func (m multiHooks) OnBuildComplete(ctx context.Context, mapName, outcome string, points int, d time.Duration, err error) {
	for _, h := range m {
		h.OnBuildComplete(ctx, mapName, outcome, points, d, err)
	}
}

package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/hlstatsx/heatmaps/pkg/observability"
)

// logHooks reports build stages at debug level.
type logHooks struct {
	logger *log.Logger
}

func newLogHooks(l *log.Logger) observability.BuildHooks {
	return &logHooks{logger: l}
}

func (h *logHooks) OnBuildStart(_ context.Context, mapName string) {
	h.logger.Debug("build started", "map", mapName)
}

func (h *logHooks) OnStage(_ context.Context, mapName string, stage observability.Stage, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("stage failed", "map", mapName, "stage", stage, "duration", d.Round(time.Microsecond), "err", err)
		return
	}
	h.logger.Debug("stage done", "map", mapName, "stage", stage, "duration", d.Round(time.Microsecond))
}

func (h *logHooks) OnBuildComplete(_ context.Context, mapName, outcome string, points int, d time.Duration, _ error) {
	h.logger.Debug("build finished", "map", mapName, "outcome", outcome, "points", points, "duration", d.Round(time.Millisecond))
}

// stageTimer sums stage durations over a batch. Builds run one at a time so
// no locking is needed.
type stageTimer struct {
	observability.NoopBuildHooks
	totals map[observability.Stage]time.Duration
}

func newStageTimer() *stageTimer {
	return &stageTimer{totals: make(map[observability.Stage]time.Duration)}
}

func (s *stageTimer) OnStage(_ context.Context, _ string, stage observability.Stage, d time.Duration, _ error) {
	s.totals[stage] += d
}

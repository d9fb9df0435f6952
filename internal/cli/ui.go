package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/hlstatsx/heatmaps/pkg/errors"
	"github.com/hlstatsx/heatmaps/pkg/observability"
	"github.com/hlstatsx/heatmaps/pkg/pipeline"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconSkipped = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)

	styleDim   = lipgloss.NewStyle().Foreground(colorDim)
	styleValue = lipgloss.NewStyle().Foreground(colorWhite)
	styleMap   = lipgloss.NewStyle().Foreground(colorWhite).Width(24)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconSkipped = "-"
	iconError   = "✗"
	iconArrow   = "→"
)

// =============================================================================
// Batch Summary
// =============================================================================

// printBatchSummary writes one line per map followed by the totals.
func printBatchSummary(w io.Writer, b *pipeline.BatchResult) {
	for _, r := range b.Maps {
		printMapResult(w, r)
	}
	fmt.Fprintf(w, "%s %s\n",
		styleDim.Render(b.Game+":"),
		styleValue.Render(fmt.Sprintf("%d written, %d skipped, %d failed", b.Written, b.Skipped, b.Failed)))
}

func printMapResult(w io.Writer, r *pipeline.MapResult) {
	name := styleMap.Render(r.Config.Code + "/" + r.Config.Map)

	switch r.Outcome {
	case pipeline.OutcomeWritten:
		fmt.Fprintf(w, "%s %s %s\n", styleIconSuccess.Render(iconSuccess), name,
			styleDim.Render(fmt.Sprintf("%d points · %d events", r.Stats.Points, r.Stats.Events)))
		for _, path := range r.Outputs {
			fmt.Fprintf(w, "  %s %s\n", styleDim.Render(iconArrow), styleValue.Render(path))
		}
	case pipeline.OutcomeSkipped:
		fmt.Fprintf(w, "%s %s %s\n", styleIconSkipped.Render(iconSkipped), name, styleDim.Render(r.Reason))
	default:
		msg := r.Reason
		if r.Err != nil {
			msg = errors.UserMessage(r.Err)
		}
		fmt.Fprintf(w, "%s %s %s\n", styleIconError.Render(iconError), name, msg)
		if r.Err != nil && r.Reason != "" {
			fmt.Fprintf(w, "  %s\n", styleDim.Render(r.Reason))
		}
		for _, path := range r.Outputs {
			fmt.Fprintf(w, "  %s %s\n", styleDim.Render(iconArrow), styleValue.Render(path))
		}
	}
}

// printStageTotals writes the time spent in each stage over the batch.
// Stages that never ran are left out.
func printStageTotals(w io.Writer, totals map[observability.Stage]time.Duration) {
	var parts []string
	for _, s := range observability.Stages {
		if d, ok := totals[s]; ok {
			parts = append(parts, fmt.Sprintf("%s %s", s, d.Round(time.Millisecond)))
		}
	}
	if len(parts) == 0 {
		return
	}
	fmt.Fprintf(w, "%s %s\n", styleDim.Render("stages:"), styleDim.Render(strings.Join(parts, " · ")))
}

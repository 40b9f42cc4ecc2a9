// internal/report/report.go

// Package report renders the final run report for the terminal.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"framelift/internal/pipeline"
	"framelift/internal/ui"
)

// Render writes the run summary, the failed-frame listing when enhancement
// failed partially, and any cleanup warnings.
func Render(w io.Writer, rep *pipeline.Report) {
	summary := table.NewWriter()
	summary.SetOutputMirror(w)
	summary.SetStyle(table.StyleRounded)
	summary.AppendRows([]table.Row{
		{"Session", rep.SessionID},
		{"Stage", rep.FinalStage.String()},
		{"Frames", rep.TotalFrames},
		{"Enhanced", rep.EnhancedFrames},
		{"Failed", len(rep.FrameFailures)},
		{"Elapsed", rep.Elapsed.Round(time.Millisecond)},
	})
	if rep.Succeeded() {
		summary.AppendRow(table.Row{"Output", rep.OutputPath})
	}
	summary.Render()

	if len(rep.FrameFailures) > 0 {
		fmt.Fprintln(w, ui.ErrorStyle.Render("Frames that failed enhancement (re-run after fixing the cause):"))
		failures := table.NewWriter()
		failures.SetOutputMirror(w)
		failures.SetStyle(table.StyleRounded)
		failures.AppendHeader(table.Row{"Frame", "Diagnostic"})
		for _, fe := range rep.FrameFailures {
			failures.AppendRow(table.Row{fe.Name, fe.Err.Error()})
		}
		failures.Render()
	}

	for _, warning := range rep.CleanupWarnings {
		fmt.Fprintln(w, ui.ErrorStyle.Render("cleanup: "+warning.String()))
	}

	switch {
	case rep.Succeeded():
		fmt.Fprintln(w, ui.SuccessStyle.Render("Upscaling completed successfully!"))
	default:
		fmt.Fprintln(w, ui.ErrorStyle.Render(fmt.Sprintf("Run failed: %v", rep.Err)))
	}
}

package dashboard

import (
	"fmt"
	"io"
	"strings"

	"github.com/Alias1177/absrisk/internal/analyze"
	"github.com/Alias1177/absrisk/internal/monitor"
	"github.com/Alias1177/absrisk/internal/series"
)

// ANSI color codes
const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiBold   = "\033[1m"
	ansiDim    = "\033[2m"
)

// Options controls dashboard rendering
type Options struct {
	ChartPoints int  // most recent valid points per chart
	ChartHeight int  // rows per chart
	Color       bool // emit ANSI colors
}

// Renderer writes the console dashboard
type Renderer struct {
	opts Options
}

// NewRenderer creates a new Renderer
func NewRenderer(opts Options) *Renderer {
	if opts.ChartPoints <= 0 {
		opts.ChartPoints = 48
	}
	if opts.ChartHeight <= 0 {
		opts.ChartHeight = 8
	}
	return &Renderer{opts: opts}
}

func (r *Renderer) colorize(s, color string) string {
	if !r.opts.Color {
		return s
	}
	return color + s + ansiReset
}

// Render writes the full dashboard for a report
func (r *Renderer) Render(w io.Writer, report monitor.Report) error {
	var sb strings.Builder
	e := report.Evaluation

	sb.WriteString(r.colorize("Auto Loan ABS Risk Monitoring Dashboard", ansiBold))
	fmt.Fprintf(&sb, "\n%s\n\n", r.colorize(fmt.Sprintf("run %s at %s", report.RunID, report.GeneratedAt.Format("2006-01-02 15:04:05")), ansiDim))

	r.writeSeries(&sb, "Subprime Auto Loan Delinquencies (60+ Days)", report.Delinquency)
	r.writeSeries(&sb, "Used Vehicle Value Index (Proxy: Used Car CPI)", report.Vehicle)

	sb.WriteString(r.colorize("Alert Settings", ansiBold))
	fmt.Fprintf(&sb, "\n  Delinquency threshold:     %.2f%%\n", e.Thresholds.Delinquency)
	fmt.Fprintf(&sb, "  Monthly decline threshold: %.2f%%\n\n", e.Thresholds.Decline)

	sb.WriteString(r.colorize("Indicator Interpretation", ansiBold))
	fmt.Fprintf(&sb, "\n  Delinquency Rate: %.2f%%\n    - %s\n", e.LatestDelinquency, r.status(e.Interpretation.DelinquencyStatus, e.Flags.Delinquency))
	fmt.Fprintf(&sb, "  Used Car CPI Change: %.2f%%\n    - %s\n\n", e.PercentChange, r.status(e.Interpretation.VehicleStatus, e.Flags.Decline))

	for _, warning := range e.Interpretation.Warnings {
		fmt.Fprintf(&sb, "%s\n", r.colorize("⚠️  "+warning, ansiYellow))
	}
	if len(e.Interpretation.Warnings) > 0 {
		sb.WriteString("\n")
	}

	sb.WriteString(r.colorize("Strategy Recommendation", ansiBold))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "  %s\n", r.recommendation(e.Recommendation))
	if len(e.Recommendation.Actions) > 0 {
		sb.WriteString("  Suggested Actions:\n")
		for _, action := range e.Recommendation.Actions {
			fmt.Fprintf(&sb, "    - %s\n", action)
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func (r *Renderer) writeSeries(sb *strings.Builder, title string, res series.Result) {
	fmt.Fprintf(sb, "%s %s\n", r.colorize(title, ansiBold), r.colorize("["+res.Series.ID+"]", ansiDim))

	switch {
	case res.Failed():
		fmt.Fprintf(sb, "  %s\n\n", r.colorize("Failed to fetch data from FRED API: "+res.Err.Error(), ansiRed))
		return
	case res.Series.Empty():
		sb.WriteString("  No observations available\n\n")
		return
	}

	points := res.Series.Tail(r.opts.ChartPoints)
	if len(points) == 0 {
		sb.WriteString("  No valid observations available\n\n")
		return
	}
	sb.WriteString(LineChart(points, r.opts.ChartHeight))
	sb.WriteString("\n")
}

func (r *Renderer) status(text string, raised bool) string {
	if raised {
		return r.colorize("⚠️  "+text, ansiRed)
	}
	return r.colorize("🟡 "+text, ansiYellow)
}

func (r *Renderer) recommendation(rec analyze.Recommendation) string {
	switch rec.Level {
	case analyze.LevelHighRisk:
		return r.colorize("🚨 "+rec.Text, ansiRed)
	case analyze.LevelElevated:
		return r.colorize("🟡 "+rec.Text, ansiYellow)
	default:
		return r.colorize("✅ "+rec.Text, ansiGreen)
	}
}

package dashboard

import (
	"fmt"
	"math"
	"strings"

	"github.com/Alias1177/absrisk/internal/model"
)

// LineChart renders observations as a fixed-height text plot, one column per point.
// The y axis is labelled with the min and max of the plotted window.
func LineChart(points []model.Observation, height int) string {
	if len(points) == 0 {
		return ""
	}
	if height < 2 {
		height = 2
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		lo = math.Min(lo, p.Value)
		hi = math.Max(hi, p.Value)
	}

	grid := make([][]rune, height)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", len(points)))
	}

	for c, p := range points {
		row := height / 2
		if hi > lo {
			row = int(math.Round((p.Value - lo) / (hi - lo) * float64(height-1)))
		}
		grid[height-1-row][c] = '•'
	}

	hiLabel := fmt.Sprintf("%.2f", hi)
	loLabel := fmt.Sprintf("%.2f", lo)
	width := len(hiLabel)
	if len(loLabel) > width {
		width = len(loLabel)
	}

	var sb strings.Builder
	for r, line := range grid {
		label := ""
		switch r {
		case 0:
			label = hiLabel
		case height - 1:
			label = loLabel
		}
		fmt.Fprintf(&sb, "%*s │%s\n", width, label, string(line))
	}
	fmt.Fprintf(&sb, "%*s └%s\n", width, "", strings.Repeat("─", len(points)))
	fmt.Fprintf(&sb, "%*s  %s → %s\n", width, "",
		points[0].Date.Format("2006-01"), points[len(points)-1].Date.Format("2006-01"))

	return sb.String()
}

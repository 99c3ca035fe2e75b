package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/guptarohit/asciigraph"
)

const (
	ChartHeight = 10
	ChartWidth  = 80
)

// HistoryChart plots the metric series. Series longer than the chart width
// are resampled by asciigraph.
func HistoryChart(history []float64, caption string) string {
	if len(history) == 0 {
		return Subtle.Render("no history")
	}
	data := history
	if len(data) == 1 {
		data = []float64{history[0], history[0]}
	}
	return asciigraph.Plot(data,
		asciigraph.Height(ChartHeight),
		asciigraph.Width(ChartWidth),
		asciigraph.Caption(caption),
	)
}

type SummaryInfo struct {
	Model   string
	Width   int
	Height  int
	Steps   int
	Stopped bool
	Metrics map[string]float64
}

// Summary renders a bordered panel with the run shape and sorted metrics.
func Summary(info SummaryInfo) string {
	var b strings.Builder
	b.WriteString(Title.Render(info.Model))
	status := StatusRunning.Render("completed")
	if info.Stopped {
		status = StatusPaused.Render("stopped")
	}
	fmt.Fprintf(&b, "  %s\n", status)
	fmt.Fprintf(&b, "%s %s\n", MetricLabel.Render("grid "), MetricValue.Render(fmt.Sprintf("%dx%d", info.Width, info.Height)))
	fmt.Fprintf(&b, "%s %s", MetricLabel.Render("steps"), MetricValue.Render(fmt.Sprintf("%d", info.Steps)))

	names := make([]string, 0, len(info.Metrics))
	for name := range info.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "\n%s %s", MetricLabel.Render(fmt.Sprintf("%-5s", name)), MetricValue.Render(fmt.Sprintf("%.6g", info.Metrics[name])))
	}
	return Panel.Render(b.String())
}

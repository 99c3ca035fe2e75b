package viz

import (
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type level struct {
	upper float64
	glyph string
	style lipgloss.Style
}

// levels maps a normalized value in [0,1] to a glyph, cold to hot.
var levels = []level{
	{0.05, " ", lipgloss.NewStyle()},
	{0.10, "░", lipgloss.NewStyle().Foreground(lipgloss.Color("8"))},
	{0.20, "▒", lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("15"))},
	{0.30, "▓", lipgloss.NewStyle().Foreground(lipgloss.Color("7"))},
	{0.40, "█", lipgloss.NewStyle().Foreground(lipgloss.Color("12"))},
	{0.50, "█", lipgloss.NewStyle().Foreground(lipgloss.Color("6"))},
	{0.60, "█", lipgloss.NewStyle().Foreground(lipgloss.Color("2"))},
	{0.70, "█", lipgloss.NewStyle().Foreground(lipgloss.Color("3"))},
	{0.85, "█", lipgloss.NewStyle().Foreground(lipgloss.Color("11"))},
	{math.Inf(1), "█", lipgloss.NewStyle().Foreground(lipgloss.Color("9"))},
}

var obstacleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8888aa")).Bold(true)

// DefaultScale is the value drawn at full heat.
const DefaultScale = 10.0

func levelFor(v, scale float64) level {
	if scale <= 0 {
		scale = DefaultScale
	}
	n := math.Max(0, math.Min(1, v/scale))
	for _, l := range levels {
		if n <= l.upper {
			return l
		}
	}
	return levels[len(levels)-1]
}

// Heatmap draws rows with values normalized by scale. obstacles may be nil or
// shorter than rows.
func Heatmap(rows [][]float64, obstacles [][]bool, scale float64) string {
	var b strings.Builder
	for r, row := range rows {
		for c, v := range row {
			if r < len(obstacles) && c < len(obstacles[r]) && obstacles[r][c] {
				b.WriteString(obstacleStyle.Render("#"))
				continue
			}
			l := levelFor(v, scale)
			b.WriteString(l.style.Render(l.glyph))
		}
		if r < len(rows)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// AutoScale returns the largest absolute value in rows, or DefaultScale for an
// all-zero field.
func AutoScale(rows [][]float64) float64 {
	peak := 0.0
	for _, row := range rows {
		for _, v := range row {
			peak = math.Max(peak, math.Abs(v))
		}
	}
	if peak == 0 {
		return DefaultScale
	}
	return peak
}

// Plain prints each row as bracketed rounded values.
func Plain(rows [][]float64) string {
	var b strings.Builder
	for r, row := range rows {
		b.WriteByte('[')
		for c, v := range row {
			if c > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.FormatFloat(math.Round(v), 'f', 0, 64))
		}
		b.WriteByte(']')
		if r < len(rows)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

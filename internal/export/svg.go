package export

import (
	"fmt"
	"math"
	"strings"
)

// heatStops runs cold to hot; values between stops are interpolated.
var heatStops = [][3]float64{
	{10, 10, 30},
	{0, 90, 200},
	{0, 200, 200},
	{240, 220, 0},
	{230, 30, 20},
}

func heatColor(n float64) string {
	n = math.Max(0, math.Min(1, n))
	pos := n * float64(len(heatStops)-1)
	i := int(pos)
	if i >= len(heatStops)-1 {
		i = len(heatStops) - 2
	}
	t := pos - float64(i)
	a, b := heatStops[i], heatStops[i+1]
	return fmt.Sprintf("#%02x%02x%02x",
		int(a[0]+t*(b[0]-a[0])),
		int(a[1]+t*(b[1]-a[1])),
		int(a[2]+t*(b[2]-a[2])))
}

// FieldToSVG draws one square of side cell per grid cell, normalized by scale.
// Obstacles are drawn grey.
func FieldToSVG(rows [][]float64, obstacles [][]bool, scale, cell float64) string {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return ""
	}
	if scale <= 0 {
		scale = 1
	}
	if cell <= 0 {
		cell = 8
	}

	width := float64(len(rows[0])) * cell
	height := float64(len(rows)) * cell

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for r, row := range rows {
		for c, v := range row {
			fill := heatColor(v / scale)
			if r < len(obstacles) && c < len(obstacles[r]) && obstacles[r][c] {
				fill = "#8888aa"
			}
			sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>
`, float64(c)*cell, float64(r)*cell, cell, cell, fill))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// HistoryToSVG plots the metric against step as a polyline.
func HistoryToSVG(history []float64, width, height int, strokeColor string) string {
	if len(history) < 2 {
		return ""
	}

	minY, maxY := history[0], history[0]
	for _, v := range history {
		minY = math.Min(minY, v)
		maxY = math.Max(maxY, v)
	}

	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY
	rangeX := float64(len(history) - 1)

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, v := range history {
		x := float64(i) / rangeX * float64(width)
		y := float64(height) - (v-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

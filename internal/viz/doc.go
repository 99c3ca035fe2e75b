// Package viz renders grid fields and run histories for the terminal.
//
//   - [Heatmap]: one colored glyph per cell, obstacles drawn as '#'
//   - [Plain]: rounded values, one bracketed row per line
//   - [HistoryChart]: asciigraph plot of the per-step metric
//   - [Summary]: bordered panel of run statistics
//
// Colors come from lipgloss and degrade to plain glyphs when the output is
// not a terminal.
package viz

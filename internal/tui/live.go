package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/san-kum/gridsim/internal/sim"
	"github.com/san-kum/gridsim/internal/viz"
)

const (
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer redraws the field on every frame it receives, at most
// frameRate times per second. The last frame of a run is always drawn.
type LiveRenderer struct {
	out       io.Writer
	model     string
	frameRate int
	scale     float64
	obstacles [][]bool
	lastFrame time.Time
}

func NewLiveRenderer(out io.Writer, model string, frameRate int) *LiveRenderer {
	if frameRate <= 0 {
		frameRate = 30
	}
	return &LiveRenderer{out: out, model: model, frameRate: frameRate}
}

// SetScale fixes the heat scale; zero picks it from each frame.
func (r *LiveRenderer) SetScale(scale float64) { r.scale = scale }

func (r *LiveRenderer) SetObstacles(mask [][]bool) { r.obstacles = mask }

func (r *LiveRenderer) OnFrame(f sim.Frame) {
	last := f.Step == f.Total
	if !last && time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = time.Now()
	r.render(f)
}

func (r *LiveRenderer) render(f sim.Frame) {
	scale := r.scale
	if scale <= 0 {
		scale = viz.AutoScale(f.Snapshot)
	}

	width := 0
	if len(f.Snapshot) > 0 {
		width = len(f.Snapshot[0])
	}

	var b strings.Builder
	b.WriteString(clearScreen)
	fmt.Fprintf(&b, "  %s  step %d/%d  metric=%.4g\n", r.model, f.Step, f.Total, f.Metric)
	b.WriteString("  " + strings.Repeat("-", width) + "\n")
	for _, line := range strings.Split(viz.Heatmap(f.Snapshot, r.obstacles, scale), "\n") {
		b.WriteString("  " + line + "\n")
	}
	b.WriteString("  " + strings.Repeat("-", width) + "\n")
	fmt.Fprint(r.out, b.String())
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }

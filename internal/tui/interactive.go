package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/gridsim/internal/sim"
	"github.com/san-kum/gridsim/internal/stencil"
	"github.com/san-kum/gridsim/internal/viz"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

const (
	barWidth  = 36
	keyLegend = "space pause  n step  d diagonals  w wrap  ±speed  r reset  q quit"

	minSpeed = 1
	maxSpeed = 64
)

// Factory builds a fresh engine with its initial conditions applied.
type Factory func() (*stencil.Engine, error)

type Options struct {
	Model     string
	Steps     int
	Diagonals bool
	Wrap      bool
	Interval  time.Duration
	Metrics   []sim.Metric
}

// Model is a bubbletea program that steps one engine on the UI goroutine.
type Model struct {
	opts    Options
	factory Factory
	engine  *stencil.Engine
	err     error

	diagonals bool
	wrap      bool
	paused    bool
	speed     int
	done      bool
	scale     float64

	width  int
	height int
}

func New(factory Factory, opts Options) (*Model, error) {
	if opts.Interval <= 0 {
		opts.Interval = time.Second / 30
	}
	m := &Model{
		opts:    opts,
		factory: factory,
		speed:   minSpeed,
		width:   80,
		height:  24,
	}
	if err := m.reset(); err != nil {
		return nil, err
	}
	return m, nil
}

type tickMsg time.Time

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.opts.Interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) Init() tea.Cmd { return m.tick() }

func (m *Model) Engine() *stencil.Engine { return m.engine }

func (m *Model) reset() error {
	e, err := m.factory()
	if err != nil {
		return err
	}
	m.engine = e
	m.diagonals = m.opts.Diagonals
	m.wrap = m.opts.Wrap
	m.done = false
	m.scale = viz.AutoScale(e.Snapshot())
	for _, metric := range m.opts.Metrics {
		metric.Reset()
	}
	m.observe()
	return nil
}

func (m *Model) frame() sim.Frame {
	return sim.Frame{
		Step:     m.engine.Steps(),
		Total:    m.opts.Steps,
		Time:     float64(m.engine.Steps()) * m.engine.TimeStep(),
		Metric:   m.engine.Metric(),
		Snapshot: m.engine.Snapshot(),
	}
}

func (m *Model) observe() {
	if len(m.opts.Metrics) == 0 {
		return
	}
	f := m.frame()
	for _, metric := range m.opts.Metrics {
		metric.Observe(f)
	}
}

// advance runs up to n steps, stopping at the configured step count.
func (m *Model) advance(n int) {
	for i := 0; i < n && !m.done; i++ {
		m.engine.Step(m.diagonals, m.wrap)
		if m.opts.Steps > 0 && m.engine.Steps() >= m.opts.Steps {
			m.done = true
		}
	}
	m.observe()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if !m.paused && !m.done {
			m.advance(m.speed)
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case " ", "p":
		m.paused = !m.paused
	case "n":
		if m.paused {
			m.advance(1)
		}
	case "d":
		m.diagonals = !m.diagonals
	case "w":
		m.wrap = !m.wrap
	case "+", "=":
		m.speed = min(m.speed*2, maxSpeed)
	case "-", "_":
		m.speed = max(m.speed/2, minSpeed)
	case "r":
		if err := m.reset(); err != nil {
			m.err = err
		}
		return m, tea.ClearScreen
	}
	return m, nil
}

func (m *Model) View() string {
	var b strings.Builder

	statusIcon := green.Render("●")
	statusText := green.Render("running")
	switch {
	case m.done:
		statusIcon = dim.Render("■")
		statusText = dim.Render("done")
	case m.paused:
		statusIcon = yellow.Render("○")
		statusText = yellow.Render("paused")
	}
	fmt.Fprintf(&b, "\n   %s %s  %s  %s\n", statusIcon, cyan.Render(m.opts.Model), statusText, dim.Render(m.flags()))

	steps := m.engine.Steps()
	if m.opts.Steps > 0 {
		progress := math.Min(1, float64(steps)/float64(m.opts.Steps))
		fmt.Fprintf(&b, "   %s %s  %s\n\n", viz.ProgressBar(progress, barWidth), dim.Render(fmt.Sprintf("%d/%d", steps, m.opts.Steps)), dim.Render(fmt.Sprintf("x%d", m.speed)))
	} else {
		fmt.Fprintf(&b, "   %s  %s\n\n", dim.Render(fmt.Sprintf("step %d", steps)), dim.Render(fmt.Sprintf("x%d", m.speed)))
	}

	heat := viz.Heatmap(m.engine.Snapshot(), m.engine.Obstacles(), m.scale)
	for _, line := range strings.Split(heat, "\n") {
		b.WriteString("   " + line + "\n")
	}

	fmt.Fprintf(&b, "\n   %s %s", viz.MetricLabel.Render("metric"), viz.MetricValue.Render(fmt.Sprintf("%.6g", m.engine.Metric())))
	for _, metric := range m.opts.Metrics {
		fmt.Fprintf(&b, "  %s %s", viz.MetricLabel.Render(metric.Name()), viz.MetricValue.Render(fmt.Sprintf("%.4g", metric.Value())))
	}
	b.WriteString("\n")

	if history := m.engine.History(); len(history) > 1 {
		fmt.Fprintf(&b, "   %s\n", viz.SparklineChart(history, 40))
	}
	if m.err != nil {
		b.WriteString("   " + viz.ErrorText.Render(m.err.Error()) + "\n")
	}

	b.WriteString("\n   " + viz.KeyHint.Render(keyLegend) + "\n")
	return b.String()
}

func (m *Model) flags() string {
	var parts []string
	if m.diagonals {
		parts = append(parts, "diag")
	}
	if m.wrap {
		parts = append(parts, "wrap")
	}
	if len(parts) == 0 {
		return "orthogonal clamped"
	}
	return strings.Join(parts, " ")
}

// Run starts the program on the alternate screen and blocks until it quits.
func Run(m *Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

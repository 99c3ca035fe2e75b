package tui

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/gridsim/internal/metrics"
	"github.com/san-kum/gridsim/internal/rules"
	"github.com/san-kum/gridsim/internal/sim"
	"github.com/san-kum/gridsim/internal/stencil"
)

func rippleFactory() (*stencil.Engine, error) {
	e, err := stencil.New(9, 9, rules.NewRipple())
	if err != nil {
		return nil, err
	}
	return e, e.SetValue(4, 4, 1)
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newModel(t *testing.T) *Model {
	t.Helper()
	m, err := New(rippleFactory, Options{Model: "ripple", Steps: 3, Diagonals: true, Metrics: []sim.Metric{metrics.NewActive()}})
	require.NoError(t, err)
	return m
}

func TestModelTicksAdvance(t *testing.T) {
	m := newModel(t)
	assert.NotNil(t, m.Init())

	m.Update(tickMsg{})
	assert.Equal(t, 1, m.Engine().Steps())

	m.Update(key("+"))
	m.Update(tickMsg{})
	assert.Equal(t, 3, m.Engine().Steps())
	assert.True(t, m.done)

	m.Update(tickMsg{})
	assert.Equal(t, 3, m.Engine().Steps())
	assert.Contains(t, m.View(), "done")
}

func TestModelViewProgressAndLegend(t *testing.T) {
	m := newModel(t)
	view := m.View()
	assert.Contains(t, view, strings.Repeat("░", barWidth))
	assert.Contains(t, view, "0/3")
	assert.Contains(t, view, keyLegend)

	for i := 0; i < 3; i++ {
		m.Update(tickMsg{})
	}
	view = m.View()
	assert.Contains(t, view, strings.Repeat("█", barWidth))
	assert.Contains(t, view, "3/3")
}

func TestModelPauseAndSingleStep(t *testing.T) {
	m := newModel(t)

	m.Update(key("n"))
	assert.Equal(t, 0, m.Engine().Steps(), "single step only while paused")

	m.Update(key(" "))
	m.Update(tickMsg{})
	assert.Equal(t, 0, m.Engine().Steps())
	assert.Contains(t, m.View(), "paused")

	m.Update(key("n"))
	assert.Equal(t, 1, m.Engine().Steps())
	assert.Equal(t, 8.0, m.opts.Metrics[0].Value())
}

func TestModelToggles(t *testing.T) {
	m := newModel(t)

	m.Update(key("d"))
	m.Update(key("w"))
	assert.False(t, m.diagonals)
	assert.True(t, m.wrap)
	assert.Contains(t, m.View(), "wrap")

	for i := 0; i < 10; i++ {
		m.Update(key("+"))
	}
	assert.Equal(t, maxSpeed, m.speed)
	for i := 0; i < 10; i++ {
		m.Update(key("-"))
	}
	assert.Equal(t, minSpeed, m.speed)
}

func TestModelReset(t *testing.T) {
	m := newModel(t)
	m.Update(tickMsg{})
	m.Update(key("d"))

	m.Update(key("r"))
	assert.Equal(t, 0, m.Engine().Steps())
	assert.True(t, m.diagonals)
	v, err := m.Engine().Value(4, 4)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
}

func TestModelQuit(t *testing.T) {
	m := newModel(t)
	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestLiveRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := NewLiveRenderer(&buf, "heat", 1)
	r.SetObstacles([][]bool{{false, true}})

	r.OnFrame(sim.Frame{Step: 1, Total: 5, Snapshot: [][]float64{{10, 0}}})
	r.OnFrame(sim.Frame{Step: 2, Total: 5, Snapshot: [][]float64{{10, 0}}})
	assert.Equal(t, 1, strings.Count(buf.String(), clearScreen), "throttled to the frame rate")

	r.OnFrame(sim.Frame{Step: 5, Total: 5, Snapshot: [][]float64{{10, 0}}})
	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, clearScreen))
	assert.Contains(t, out, "step 5/5")
	assert.Contains(t, out, "#")
}

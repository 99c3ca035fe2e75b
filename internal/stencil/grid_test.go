package stencil

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGrid_InvalidSize(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"zero width", 0, 3},
		{"zero height", 3, 0},
		{"negative", -1, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGrid(tt.width, tt.height)
			assert.Nil(t, g)
			assert.ErrorIs(t, err, ErrConfig)
		})
	}
}

func TestGrid_GetSetRange(t *testing.T) {
	g, err := NewGrid(4, 3)
	require.NoError(t, err)

	require.NoError(t, g.Set(2, 3, 7.5))
	v, err := g.Get(2, 3)
	require.NoError(t, err)
	assert.Equal(t, 7.5, v)

	for _, rc := range [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 4}} {
		_, err := g.Get(rc[0], rc[1])
		assert.ErrorIs(t, err, ErrRange, "get %v", rc)
		assert.ErrorIs(t, g.Set(rc[0], rc[1], 1), ErrRange, "set %v", rc)
	}

	var cellErr *CellError
	err = g.Set(5, 1, 2)
	require.True(t, errors.As(err, &cellErr))
	assert.Equal(t, 5, cellErr.Row)
	assert.Equal(t, 1, cellErr.Col)
}

func TestGrid_ValidValues(t *testing.T) {
	g, err := NewGrid(3, 3, 0, 1)
	require.NoError(t, err)

	assert.True(t, g.Restricted())
	assert.Equal(t, []float64{0, 1}, g.ValidValues())
	require.NoError(t, g.Set(1, 1, 1))

	err = g.Set(1, 1, 0.5)
	assert.ErrorIs(t, err, ErrDomain)
	v, _ := g.Get(1, 1)
	assert.Equal(t, 1.0, v, "rejected write must not change the cell")

	assert.ErrorIs(t, g.SetBlock(0, 0, 2, 2, 3), ErrDomain)
	assert.Equal(t, 1.0, g.Sum(), "rejected block must not change the grid")
}

func TestGrid_Nearest(t *testing.T) {
	g, _ := NewGrid(1, 1, 0, 1, 4)

	tests := []struct {
		in, want float64
	}{
		{0.2, 0},
		{0.5, 0},
		{0.6, 1},
		{3, 4},
		{-10, 0},
		{1, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, g.Nearest(tt.in), "nearest(%v)", tt.in)
	}

	free, _ := NewGrid(1, 1)
	assert.Equal(t, 0.37, free.Nearest(0.37))
}

func TestGrid_Neighbors(t *testing.T) {
	g, _ := NewGrid(3, 3)
	n := 1.0
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			require.NoError(t, g.Set(r, c, n))
			n++
		}
	}

	assert.Equal(t, []float64{1, 2, 3, 4, 6, 7, 8, 9}, g.Neighbors(1, 1))
	assert.Equal(t, []float64{2, 4, 5}, g.Neighbors(0, 0))
	assert.Equal(t, []float64{4, 5, 6, 7, 9}, g.Neighbors(2, 1))
}

func TestGrid_SetBlockCommutative(t *testing.T) {
	corners := [][4]int{
		{0, 0, 2, 3},
		{-3, 1, 9, 2},
		{4, 4, -1, -1},
		{1, 5, 3, 0},
		{2, 2, 2, 2},
	}

	for _, q := range corners {
		a, _ := NewGrid(5, 4)
		b, _ := NewGrid(5, 4)
		require.NoError(t, a.SetBlock(q[0], q[1], q[2], q[3], 9))
		require.NoError(t, b.SetBlock(q[2], q[3], q[0], q[1], 9))
		assert.Equal(t, a.Rows(), b.Rows(), "corners %v", q)
	}
}

func TestGrid_SetBlockClamps(t *testing.T) {
	g, _ := NewGrid(3, 3)
	require.NoError(t, g.SetBlock(-5, -5, 1, 0, 2))

	assert.Equal(t, [][]float64{
		{2, 0, 0},
		{2, 0, 0},
		{0, 0, 0},
	}, g.Rows())
}

func TestGrid_CloneIndependent(t *testing.T) {
	g, _ := NewGrid(2, 2)
	_ = g.Set(0, 0, 1)

	c := g.Clone()
	_ = c.Set(0, 0, 5)
	assert.Equal(t, 1.0, g.At(0, 0))

	other, _ := NewGrid(3, 2)
	assert.ErrorIs(t, other.CopyFrom(g), ErrConfig)
}

func TestMask_MarkAndClear(t *testing.T) {
	m, err := NewMask(4, 4)
	require.NoError(t, err)

	m.MarkRectangle(3, 3, 1, 2)
	assert.Equal(t, 6, m.Count())
	assert.True(t, m.IsObstacle(1, 2))
	assert.True(t, m.IsObstacle(3, 3))
	assert.False(t, m.IsObstacle(0, 0))
	assert.False(t, m.IsObstacle(-1, 9))

	m.ClearRectangle(2, 0, 2, 9)
	assert.Equal(t, 4, m.Count())

	m.MarkRectangle(-10, -10, 10, 10)
	assert.Equal(t, 16, m.Count())
}

func TestPair_DimensionMismatch(t *testing.T) {
	g, _ := NewGrid(3, 4)
	m, _ := NewMask(4, 3)
	assert.ErrorIs(t, Pair(g, m), ErrConfig)

	ok, _ := NewMask(3, 4)
	assert.NoError(t, Pair(g, ok))
}

func TestPaired(t *testing.T) {
	a, _ := NewGrid(5, 5)
	b, _ := NewGrid(5, 5)
	_ = a.Set(2, 2, 10)
	_ = b.Set(2, 2, 20)

	p, err := NewPaired(a, b)
	require.NoError(t, err)
	x, y, err := p.Get(2, 2)
	require.NoError(t, err)
	assert.Equal(t, 10.0, x)
	assert.Equal(t, 20.0, y)

	_, _, err = p.Get(5, 0)
	assert.ErrorIs(t, err, ErrRange)

	small, _ := NewGrid(3, 3)
	_, err = NewPaired(a, small)
	assert.ErrorIs(t, err, ErrConfig)
}

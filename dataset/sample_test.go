package dataset

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowValueFor(t *testing.T) {
	ctx := context.Background()
	r := Row{true, false}
	v, err := r.ValueFor(ctx, 0)
	require.NoError(t, err)
	assert.True(t, v)
	v, err = r.ValueFor(ctx, 1)
	require.NoError(t, err)
	assert.False(t, v)

	_, err = r.ValueFor(ctx, 2)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = r.ValueFor(ctx, -1)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "1 0", r.String())
}

func TestNewMatrix(t *testing.T) {
	rows := [][]bool{{true, false}, {false, true}}
	m, err := NewMatrix(rows, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, 2, m.Width())
	assert.True(t, m.Value(0, 0))
	assert.True(t, m.Value(1, 1))
	assert.Equal(t, Row{false, true}, m.Row(1))

	rows[0][0] = false
	assert.True(t, m.Value(0, 0), "matrix must hold a copy of the rows")
	assert.Equal(t, [][]bool{{true, false}, {false, true}}, m.Rows())
	assert.Panics(t, func() { m.Value(0, 2) }, "feature past the width must not read the next row")
	assert.Panics(t, func() { m.Value(0, -1) })
	assert.Panics(t, func() { m.Value(2, 0) })

	_, err = NewMatrix([][]bool{{true}, {true, true}}, 1)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = NewMatrix(nil, -2)
	assert.ErrorIs(t, err, ErrInvalidInput)

	m, err = NewMatrix([][]bool{{}, {}}, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Len())
	assert.Empty(t, m.Row(1))
}

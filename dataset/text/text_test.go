package text

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/pbanos/sapling/dataset"
)

func TestRead(t *testing.T) {
	input := "1 0 1 2\n" +
		"0 0 1 1\n" +
		"\n" +
		"  0 1 0   1\n"
	ds, err := Read(context.Background(), strings.NewReader(input), -1)
	require.NoError(t, err)

	assert.Equal(t, 3, ds.Count())
	assert.Equal(t, 3, ds.NumFeatures())
	assert.Equal(t, []int{2, 1, 1}, ds.Labels)
	assert.Equal(t, [][]bool{
		{true, false, true},
		{false, false, true},
		{false, true, false},
	}, ds.Samples.Rows())
}

func TestReadWithoutTrailingNewline(t *testing.T) {
	ds, err := Read(context.Background(), strings.NewReader("1 1\n0 2"), 1)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, ds.Labels)
}

func TestReadErrors(t *testing.T) {
	input := "1 0 1\n" +
		"1 1\n" +
		"1 x 2\n" +
		"0 1 y\n" +
		"0 1 0\n"
	_, err := Read(context.Background(), strings.NewReader(input), -1)
	require.Error(t, err)
	assert.ErrorIs(t, err, dataset.ErrInvalidInput)
	assert.Len(t, multierr.Errors(err), 4)
	assert.Contains(t, err.Error(), "line 2")
	assert.Contains(t, err.Error(), "line 5")
}

func TestReadRejectsNonBinaryValues(t *testing.T) {
	input := "1 0 2\n" +
		"2 0 1\n" +
		"0 -1 1\n" +
		"01 1 1\n"
	_, err := Read(context.Background(), strings.NewReader(input), 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, dataset.ErrInvalidInput)
	assert.Len(t, multierr.Errors(err), 3)
	assert.NotContains(t, err.Error(), "line 1")
}

func TestReadExpectedWidth(t *testing.T) {
	_, err := Read(context.Background(), strings.NewReader("1 0 1\n"), 3)
	assert.ErrorIs(t, err, dataset.ErrInvalidInput)
}

func TestWriteRoundTrip(t *testing.T) {
	ctx := context.Background()
	ds, err := dataset.FromRows([][]bool{{true, false}, {false, false}}, []int{3, 1}, 2)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(ctx, &buf, ds))
	assert.Equal(t, "1 0 3\n0 0 1\n", buf.String())

	read, err := Read(ctx, &buf, 2)
	require.NoError(t, err)
	assert.Equal(t, ds.Samples.Rows(), read.Samples.Rows())
	assert.Equal(t, ds.Labels, read.Labels)
}

package dataset

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/pbanos/sapling/feature"
)

// ErrInvalidInput is the error returned, possibly wrapped, when
// samples, labels or feature indexes violate the expected contract.
var ErrInvalidInput = errors.New("invalid input")

/*
Row is a sample as an ordered sequence of boolean feature values.
It implements feature.Sample.
*/
type Row []bool

var _ feature.Sample = Row(nil)

/*
ValueFor returns the value of the feature with the given index or
an error wrapping ErrInvalidInput if the row has no such feature.
*/
func (r Row) ValueFor(_ context.Context, f int) (bool, error) {
	if f < 0 || f >= len(r) {
		return false, errors.Wrapf(ErrInvalidInput, "feature %d out of range for sample with %d features", f, len(r))
	}
	return r[f], nil
}

func (r Row) String() string {
	var b strings.Builder
	for i, v := range r {
		if i > 0 {
			b.WriteByte(' ')
		}
		if v {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

/*
Matrix is an immutable rectangular matrix of boolean feature values,
one row per sample. Values are kept in a single slice so every row
is guaranteed to have the same width.
*/
type Matrix struct {
	values []bool
	rows   int
	width  int
}

/*
NewMatrix takes a slice of rows and the number of features each row
must have and returns a Matrix with a copy of their values, or an error
wrapping ErrInvalidInput if any row has a different number of values.
*/
func NewMatrix(rows [][]bool, numFeatures int) (*Matrix, error) {
	if numFeatures < 0 {
		return nil, errors.Wrapf(ErrInvalidInput, "negative number of features %d", numFeatures)
	}
	m := &Matrix{
		values: make([]bool, 0, len(rows)*numFeatures),
		rows:   len(rows),
		width:  numFeatures,
	}
	for i, r := range rows {
		if len(r) != numFeatures {
			return nil, errors.Wrapf(ErrInvalidInput, "sample %d has %d features, expected %d", i, len(r), numFeatures)
		}
		m.values = append(m.values, r...)
	}
	return m, nil
}

// Len returns the number of rows (samples) in the matrix.
func (m *Matrix) Len() int {
	return m.rows
}

// Width returns the number of features of every row.
func (m *Matrix) Width() int {
	return m.width
}

// Value returns the value of feature f for sample i. It panics if
// either index is out of range.
func (m *Matrix) Value(i, f int) bool {
	if i < 0 || i >= m.rows || f < 0 || f >= m.width {
		panic(fmt.Sprintf("matrix value (%d, %d) out of range for %dx%d matrix", i, f, m.rows, m.width))
	}
	return m.values[i*m.width+f]
}

// Row returns the sample at index i. The returned row must not be modified.
func (m *Matrix) Row(i int) Row {
	return Row(m.values[i*m.width : (i+1)*m.width : (i+1)*m.width])
}

// Rows returns a copy of the matrix as a slice of rows.
func (m *Matrix) Rows() [][]bool {
	result := make([][]bool, m.rows)
	for i := range result {
		result[i] = append([]bool(nil), m.Row(i)...)
	}
	return result
}

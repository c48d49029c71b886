package dataset

import (
	"context"

	"github.com/pkg/errors"
)

/*
Writer is an interface for a destination to which labeled
samples can be written.
*/
type Writer interface {
	// Write will attempt to write the given samples with
	// the labels aligned with them and will return the
	// number of samples actually written and an error
	// if not all of them could be written.
	Write(ctx context.Context, rows []Row, labels []int) (int, error)
	// Count returns the total number of samples written
	// to the writer.
	Count() int
	// Flush ensures any pending written operations finish
	// before returning. It returns an error if that cannot
	// be ensured.
	Flush() error
}

// WriteBatchSize is the number of samples WriteAll hands to a Writer at once.
const WriteBatchSize = 500

/*
WriteAll takes a context, a Writer and a Dataset and writes every
sample of the dataset to the writer in batches, flushing it at the
end. It returns an error if any write or the flush fails.
*/
func WriteAll(ctx context.Context, w Writer, d *Dataset) error {
	for start := 0; start < d.Count(); start += WriteBatchSize {
		end := start + WriteBatchSize
		if end > d.Count() {
			end = d.Count()
		}
		rows := make([]Row, 0, end-start)
		for i := start; i < end; i++ {
			rows = append(rows, d.Samples.Row(i))
		}
		n, err := w.Write(ctx, rows, d.Labels[start:end])
		if err != nil {
			return errors.Wrapf(err, "writing sample %d", start+n)
		}
	}
	return w.Flush()
}

// Builder accumulates samples read one at a time into a Dataset.
type Builder struct {
	rows   [][]bool
	labels []int
	width  int
}

/*
NewBuilder returns a Builder for samples with the given number of
features. A negative number makes the Builder take it from the first
sample added.
*/
func NewBuilder(numFeatures int) *Builder {
	return &Builder{width: numFeatures}
}

/*
Add takes a row and its label and appends them to the samples of the
builder, or returns an error wrapping ErrInvalidInput if the row does
not have the expected number of features or the label is not positive.
*/
func (b *Builder) Add(row []bool, label int) error {
	if b.width < 0 {
		b.width = len(row)
	}
	if len(row) != b.width {
		return errors.Wrapf(ErrInvalidInput, "sample has %d features, expected %d", len(row), b.width)
	}
	if label < 1 {
		return errors.Wrapf(ErrInvalidInput, "label %d, labels must be positive", label)
	}
	b.rows = append(b.rows, row)
	b.labels = append(b.labels, label)
	return nil
}

// Count returns the number of samples added so far.
func (b *Builder) Count() int {
	return len(b.labels)
}

/*
Dataset returns a Dataset with the samples added so far. A builder
that took its width from its first sample and got none has 0 features.
*/
func (b *Builder) Dataset() (*Dataset, error) {
	width := b.width
	if width < 0 {
		width = 0
	}
	return FromRows(b.rows, b.labels, width)
}

package sqldataset

import (
	"context"

	"github.com/pkg/errors"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
)

/*
Set is a dataset stored in a database through an Adapter.
It implements dataset.Writer, so samples can be added to it.
*/
type Set struct {
	db      Adapter
	names   feature.Names
	columns []string
	written int
}

var _ dataset.Writer = (*Set)(nil)

/*
CreateSet takes a context, an Adapter and the names of the features of
the samples to store and returns a Set backed by the given adapter or
an error. It ensures the samples table exists on the database.
*/
func CreateSet(ctx context.Context, a Adapter, names feature.Names) (*Set, error) {
	columns := make([]string, len(names))
	for i, name := range names {
		c, err := a.ColumnName(name)
		if err != nil {
			return nil, err
		}
		columns[i] = c
	}
	if err := a.CreateSampleTable(ctx, columns); err != nil {
		return nil, err
	}
	return &Set{db: a, names: names, columns: columns}, nil
}

/*
OpenSet takes a context and an Adapter and returns a Set backed by the
given adapter, with the features of the existing samples table, or an
error if no set is available through the adapter.
*/
func OpenSet(ctx context.Context, a Adapter) (*Set, error) {
	columns, err := a.ListColumns(ctx)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		if _, err := a.CountSamples(ctx); err != nil {
			return nil, errors.Wrap(err, "opening set")
		}
	}
	return &Set{db: a, names: feature.Names(columns), columns: columns}, nil
}

// Names returns the names of the features of the samples in the set.
func (ss *Set) Names() feature.Names {
	return ss.names
}

// Len returns the number of samples stored in the set.
func (ss *Set) Len(ctx context.Context) (int, error) {
	return ss.db.CountSamples(ctx)
}

func (ss *Set) Write(ctx context.Context, rows []dataset.Row, labels []int) (int, error) {
	n, err := ss.db.AddSamples(ctx, rows, labels, ss.columns)
	ss.written += n
	return n, err
}

// Count returns the number of samples written to the set through Write.
func (ss *Set) Count() int {
	return ss.written
}

// Flush does nothing, as every Write is committed to the database.
func (ss *Set) Flush() error {
	return nil
}

/*
Read takes a context and returns a dataset.Dataset with every sample
in the set, in insertion order.
*/
func (ss *Set) Read(ctx context.Context) (*dataset.Dataset, error) {
	b := dataset.NewBuilder(len(ss.columns))
	err := ss.db.IterateOnSamples(ctx, ss.columns, func(i int, values []bool, label int) (bool, error) {
		if err := b.Add(values, label); err != nil {
			return false, errors.Wrapf(err, "sample %d", i)
		}
		return true, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "reading samples")
	}
	return b.Dataset()
}

// Close closes the underlying adapter.
func (ss *Set) Close() error {
	return ss.db.Close()
}

package sqldataset

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/pbanos/sapling/dataset"
)

const (
	// SampleTable is the name of the table holding the samples.
	SampleTable = "samples"
	// IDColumn and LabelColumn are reserved and cannot be used as feature names.
	IDColumn    = "id"
	LabelColumn = "label"

	// MaxSampleInsertionsPerStatement is the maximum number
	// of samples that are allowed to be added with a single
	// insert command with the AddSamples method of the adapter.
	// Trying to add more will result in making more insertion commands
	MaxSampleInsertionsPerStatement = 10
)

/*
Adapter is an interface providing the methods
needed to implement a dataset with a database backend.
*/
type Adapter interface {
	// ColumnName takes the name of a feature and returns
	// the name of its column or an error if it cannot be used.
	ColumnName(string) (string, error)
	// CreateSampleTable ensures the samples table exists with
	// the given feature columns.
	CreateSampleTable(ctx context.Context, columns []string) error
	// ListColumns returns the feature columns of the samples table in order.
	ListColumns(ctx context.Context) ([]string, error)
	// AddSamples inserts the given samples and labels and returns how many were inserted.
	AddSamples(ctx context.Context, rows []dataset.Row, labels []int, columns []string) (int, error)
	// IterateOnSamples calls lambda with the index, values and label of every
	// sample in insertion order, until it returns false or an error.
	IterateOnSamples(ctx context.Context, columns []string, lambda func(int, []bool, int) (bool, error)) error
	// CountSamples returns the number of samples in the table.
	CountSamples(ctx context.Context) (int, error)
	// Close releases the database connection.
	Close() error
}

/*
Dialect holds the statements that differ between database engines.
Queries are written with ? placeholders and rebound with sqlx for
the engine's driver.
*/
type Dialect struct {
	// IDColumnDefinition is the definition of the autoincremented id column.
	IDColumnDefinition string
	// ListColumnsQuery lists the names of the columns of the samples table in order.
	ListColumnsQuery string
}

type adapter struct {
	db      *sqlx.DB
	dialect Dialect
}

// NewAdapter takes a database and its dialect and returns an Adapter working on it.
func NewAdapter(db *sqlx.DB, d Dialect) Adapter {
	return &adapter{db, d}
}

func (a *adapter) ColumnName(featureName string) (string, error) {
	if featureName == IDColumn || featureName == LabelColumn {
		return "", errors.Wrapf(dataset.ErrInvalidInput, `'%s' is reserved and cannot be used as feature name`, featureName)
	}
	if featureName == "" {
		return "", errors.Wrap(dataset.ErrInvalidInput, "empty feature name")
	}
	if strings.ContainsAny(featureName, `"`) {
		return "", errors.Wrapf(dataset.ErrInvalidInput, `feature name '%s' contains invalid character '"'`, featureName)
	}
	return featureName, nil
}

func (a *adapter) CreateSampleTable(ctx context.Context, columns []string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s(", SampleTable)
	for _, c := range columns {
		fmt.Fprintf(&b, `"%s" INTEGER NOT NULL, `, c)
	}
	fmt.Fprintf(&b, `"%s" INTEGER NOT NULL, "%s" %s)`, LabelColumn, IDColumn, a.dialect.IDColumnDefinition)
	if _, err := a.db.ExecContext(ctx, b.String()); err != nil {
		return errors.Wrap(err, "ensuring samples table exists")
	}
	return nil
}

func (a *adapter) ListColumns(ctx context.Context) ([]string, error) {
	var all []string
	if err := a.db.SelectContext(ctx, &all, a.db.Rebind(a.dialect.ListColumnsQuery), SampleTable); err != nil {
		return nil, errors.Wrap(err, "listing sample columns")
	}
	columns := make([]string, 0, len(all))
	for _, c := range all {
		if c != IDColumn && c != LabelColumn {
			columns = append(columns, c)
		}
	}
	return columns, nil
}

func (a *adapter) AddSamples(ctx context.Context, rows []dataset.Row, labels []int, columns []string) (int, error) {
	if len(rows) != len(labels) {
		return 0, errors.Wrapf(dataset.ErrInvalidInput, "%d samples but %d labels", len(rows), len(labels))
	}
	var n int
	for start := 0; start < len(rows); start += MaxSampleInsertionsPerStatement {
		end := start + MaxSampleInsertionsPerStatement
		if end > len(rows) {
			end = len(rows)
		}
		query, args, err := a.insertStatement(rows[start:end], labels[start:end], columns)
		if err != nil {
			return n, err
		}
		if _, err = a.db.ExecContext(ctx, query, args...); err != nil {
			return n, errors.Wrapf(err, "inserting %d samples", end-start)
		}
		n = end
	}
	return n, nil
}

func (a *adapter) insertStatement(rows []dataset.Row, labels []int, columns []string) (string, []interface{}, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (", SampleTable)
	for _, c := range columns {
		fmt.Fprintf(&b, `"%s", `, c)
	}
	fmt.Fprintf(&b, `"%s") VALUES `, LabelColumn)
	placeholders := "(" + strings.Repeat("?, ", len(columns)) + "?)"
	args := make([]interface{}, 0, len(rows)*(len(columns)+1))
	for i, r := range rows {
		if len(r) != len(columns) {
			return "", nil, errors.Wrapf(dataset.ErrInvalidInput, "sample has %d features, expected %d", len(r), len(columns))
		}
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(placeholders)
		for _, v := range r {
			if v {
				args = append(args, 1)
			} else {
				args = append(args, 0)
			}
		}
		args = append(args, labels[i])
	}
	return a.db.Rebind(b.String()), args, nil
}

func (a *adapter) IterateOnSamples(ctx context.Context, columns []string, lambda func(int, []bool, int) (bool, error)) error {
	var b strings.Builder
	b.WriteString("SELECT ")
	for _, c := range columns {
		fmt.Fprintf(&b, `"%s", `, c)
	}
	fmt.Fprintf(&b, `"%s" FROM %s ORDER BY "%s"`, LabelColumn, SampleTable, IDColumn)
	rows, err := a.db.QueryxContext(ctx, b.String())
	if err != nil {
		return errors.Wrap(err, "querying samples")
	}
	defer rows.Close()
	values := make([]int64, len(columns)+1)
	dest := make([]interface{}, len(values))
	for i := range values {
		dest[i] = &values[i]
	}
	for i := 0; rows.Next(); i++ {
		if err := rows.Scan(dest...); err != nil {
			return errors.Wrapf(err, "scanning sample %d", i)
		}
		sample := make([]bool, len(columns))
		for j := range sample {
			sample[j] = values[j] != 0
		}
		ok, err := lambda(i, sample, int(values[len(columns)]))
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return rows.Err()
}

func (a *adapter) CountSamples(ctx context.Context) (int, error) {
	var count int
	if err := a.db.GetContext(ctx, &count, fmt.Sprintf("SELECT COUNT(*) FROM %s", SampleTable)); err != nil {
		return 0, errors.Wrap(err, "counting samples")
	}
	return count, nil
}

func (a *adapter) Close() error {
	return a.db.Close()
}

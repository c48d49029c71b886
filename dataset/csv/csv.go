/*
Package csv reads and writes datasets as CSV. The header or first row
holds the names of the features followed by the name of the label
column, and the rest of the rows hold the values of the features of a
sample (0/1, true/false, yes/no) followed by its label.
*/
package csv

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
)

// LabelColumn is the name of the label column written by NewWriter.
const LabelColumn = "label"

type csvWriter struct {
	count int
	w     *csv.Writer
}

/*
ReadSet takes a context and an io.Reader for a CSV stream and returns
the dataset parsed from it along with the names of its features, or an
error. Every malformed row is reported in the returned error, which
wraps dataset.ErrInvalidInput.
*/
func ReadSet(ctx context.Context, reader io.Reader) (*dataset.Dataset, feature.Names, error) {
	r := csv.NewReader(reader)
	r.TrimLeadingSpace = true
	header, err := r.Read()
	if err == io.EOF {
		return nil, nil, errors.Wrap(dataset.ErrInvalidInput, "no CSV header")
	}
	if err != nil {
		return nil, nil, errors.Wrap(err, "reading header")
	}
	if len(header) == 0 {
		return nil, nil, errors.Wrap(dataset.ErrInvalidInput, "empty CSV header")
	}
	names := feature.Names(header[:len(header)-1])
	b := dataset.NewBuilder(len(names))
	r.FieldsPerRecord = len(header)
	var errs error
	for l := 2; ; l++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if pe, ok := err.(*csv.ParseError); ok && pe.Err == csv.ErrFieldCount {
			errs = multierr.Append(errs, errors.Wrapf(dataset.ErrInvalidInput, "line %d: %d fields, expected %d", l, len(row), len(header)))
			continue
		}
		if err != nil {
			return nil, nil, errors.Wrap(err, "reading body")
		}
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		values, label, err := parseRow(row, names)
		if err == nil {
			err = b.Add(values, label)
		}
		if err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "line %d", l))
		}
	}
	if errs != nil {
		return nil, nil, errs
	}
	ds, err := b.Dataset()
	if err != nil {
		return nil, nil, err
	}
	return ds, names, nil
}

/*
ReadSetFromFilePath takes a context and a filepath string, opens the
file to which the filepath points to and uses ReadSet to return the
dataset and feature names read from it. If the filepath is "",
os.Stdin is used instead.
*/
func ReadSetFromFilePath(ctx context.Context, filepath string) (*dataset.Dataset, feature.Names, error) {
	f := os.Stdin
	if filepath != "" {
		var err error
		f, err = os.Open(filepath)
		if err != nil {
			return nil, nil, errors.Wrap(err, "reading dataset")
		}
		defer f.Close()
	}
	ds, names, err := ReadSet(ctx, f)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "parsing CSV file %s", filepath)
	}
	return ds, names, nil
}

/*
NewWriter takes an io.Writer and the names of the features of the
samples to write and returns a dataset.Writer that will write the
samples as CSV on the io.Writer, starting with the header.
*/
func NewWriter(writer io.Writer, names feature.Names) (dataset.Writer, error) {
	w := csv.NewWriter(writer)
	record := make([]string, 0, len(names)+1)
	record = append(record, names...)
	record = append(record, LabelColumn)
	if err := w.Write(record); err != nil {
		return nil, errors.Wrap(err, "writing CSV header")
	}
	return &csvWriter{w: w}, nil
}

/*
WriteCSVSet takes a context, a writer, a dataset and the names of its
features and dumps the dataset to the writer in CSV format. Missing
names default to the feature indexes.
*/
func WriteCSVSet(ctx context.Context, writer io.Writer, ds *dataset.Dataset, names feature.Names) error {
	header := make(feature.Names, ds.NumFeatures())
	for i := range header {
		header[i] = names.Name(i)
	}
	cw, err := NewWriter(writer, header)
	if err != nil {
		return err
	}
	return dataset.WriteAll(ctx, cw, ds)
}

func parseRow(row []string, names feature.Names) ([]bool, int, error) {
	values := make([]bool, len(names))
	for i := range values {
		v, err := parseValue(row[i])
		if err != nil {
			return nil, 0, errors.Wrapf(err, "feature %s", names.Name(i))
		}
		values[i] = v
	}
	last := strings.TrimSpace(row[len(row)-1])
	label, err := strconv.Atoi(last)
	if err != nil {
		return nil, 0, errors.Wrapf(dataset.ErrInvalidInput, "label %q is not an integer", last)
	}
	return values, label, nil
}

func parseValue(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "t", "yes", "y":
		return true, nil
	case "0", "false", "f", "no", "n":
		return false, nil
	}
	return false, errors.Wrapf(dataset.ErrInvalidInput, "invalid boolean value %q", s)
}

func (cw *csvWriter) Count() int {
	return cw.count
}

func (cw *csvWriter) Write(ctx context.Context, rows []dataset.Row, labels []int) (int, error) {
	if len(rows) != len(labels) {
		return 0, errors.Wrapf(dataset.ErrInvalidInput, "%d samples but %d labels", len(rows), len(labels))
	}
	for n, r := range rows {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		record := make([]string, 0, len(r)+1)
		for _, v := range r {
			if v {
				record = append(record, "1")
			} else {
				record = append(record, "0")
			}
		}
		record = append(record, strconv.Itoa(labels[n]))
		if err := cw.w.Write(record); err != nil {
			return n, errors.Wrapf(err, "writing CSV row for sample %d", cw.count+1)
		}
		cw.count++
	}
	return len(rows), nil
}

func (cw *csvWriter) Flush() error {
	cw.w.Flush()
	return cw.w.Error()
}

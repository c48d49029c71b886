/*
Package text reads and writes datasets in a plain text format with
one sample per line: the values of its features as whitespace
separated 0 (false) or 1 (true) values, followed by its label.

	1 0 0 1 2
	0 1 1 0 1
*/
package text

import (
	"bufio"
	"context"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/pbanos/sapling/dataset"
)

/*
Read takes a context, an io.Reader and the number of features of
each sample, and returns the dataset read from the reader. With a
negative number of features, it is taken from the first sample.
Blank lines are skipped.

Every malformed line is reported in the returned error, which wraps
dataset.ErrInvalidInput.
*/
func Read(ctx context.Context, r io.Reader, numFeatures int) (*dataset.Dataset, error) {
	b := dataset.NewBuilder(numFeatures)
	var errs error
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for l := 1; scanner.Scan(); l++ {
		if l%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		row, label, err := parseLine(fields)
		if err == nil {
			err = b.Add(row, label)
		}
		if err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "line %d", l))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading samples")
	}
	if errs != nil {
		return nil, errs
	}
	return b.Dataset()
}

/*
ReadFile takes a context, a file path and a number of features and
returns the dataset read with Read from the file. The empty path and
"-" read from os.Stdin.
*/
func ReadFile(ctx context.Context, path string, numFeatures int) (*dataset.Dataset, error) {
	f := os.Stdin
	if path != "" && path != "-" {
		var err error
		f, err = os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "reading dataset")
		}
		defer f.Close()
	}
	ds, err := Read(ctx, f, numFeatures)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return ds, nil
}

func parseLine(fields []string) ([]bool, int, error) {
	row := make([]bool, len(fields)-1)
	for i, field := range fields[:len(row)] {
		switch field {
		case "1":
			row[i] = true
		case "0":
		default:
			return nil, 0, errors.Wrapf(dataset.ErrInvalidInput, "value %q for feature %d is not 0 or 1", field, i)
		}
	}
	last := fields[len(fields)-1]
	label, err := strconv.Atoi(last)
	if err != nil {
		return nil, 0, errors.Wrapf(dataset.ErrInvalidInput, "label %q is not an integer", last)
	}
	return row, label, nil
}

type textWriter struct {
	count int
	w     *bufio.Writer
}

// NewWriter takes an io.Writer and returns a dataset.Writer that writes samples onto it.
func NewWriter(w io.Writer) dataset.Writer {
	return &textWriter{w: bufio.NewWriter(w)}
}

func (tw *textWriter) Write(ctx context.Context, rows []dataset.Row, labels []int) (int, error) {
	if len(rows) != len(labels) {
		return 0, errors.Wrapf(dataset.ErrInvalidInput, "%d samples but %d labels", len(rows), len(labels))
	}
	for i, r := range rows {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		line := r.String()
		if len(r) > 0 {
			line += " "
		}
		if _, err := tw.w.WriteString(line + strconv.Itoa(labels[i]) + "\n"); err != nil {
			return i, errors.Wrapf(err, "writing sample %d", tw.count+1)
		}
		tw.count++
	}
	return len(rows), nil
}

func (tw *textWriter) Count() int {
	return tw.count
}

func (tw *textWriter) Flush() error {
	return tw.w.Flush()
}

// Write takes a context, an io.Writer and a dataset and writes the dataset onto the io.Writer.
func Write(ctx context.Context, w io.Writer, ds *dataset.Dataset) error {
	return dataset.WriteAll(ctx, NewWriter(w), ds)
}

/*
Package inputsample provides an implementation of feature.Sample that is read
from an io.Reader.
*/
package inputsample

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
)

// ErrNoInput is returned when the reader ends before a value is given.
var ErrNoInput = errors.New("EOF when requesting value")

/*
readSample represents a sample whose feature values
are retrieved from a reader. A feature value will be
requested using a FeatureValueRequester before reading it.
*/
type readSample struct {
	obtainedValues        map[int]bool
	scanner               *bufio.Scanner
	featureValueRequester FeatureValueRequester
	names                 feature.Names
	numFeatures           int
}

/*
FeatureValueRequester represents a way to ask
for feature values and reject the given values.
*/
type FeatureValueRequester interface {
	RequestValueFor(f int, name string) error
	RejectValueFor(f int, name string, value string) error
}

/*
New takes an io.Reader, the number of features of the sample, their
names and a FeatureValueRequester and returns a feature.Sample.

The returned Sample ValueFor method reads feature values first
requesting them with the given FeatureValueRequester and
then parsing the values from the reader, one per line:
1, y, yes, t or true for true and 0, n, no, f or false for false,
in any case. Other values are rejected with the requester's
RejectValueFor method and the next line is read.

Values are only requested once: later calls for the same feature
return the value obtained the first time. Attempting to obtain a
value for a feature out of range returns an error wrapping
dataset.ErrInvalidInput.
*/
func New(r io.Reader, numFeatures int, names feature.Names, featureValueRequester FeatureValueRequester) feature.Sample {
	return &readSample{
		obtainedValues:        make(map[int]bool),
		scanner:               bufio.NewScanner(r),
		featureValueRequester: featureValueRequester,
		names:                 names,
		numFeatures:           numFeatures,
	}
}

func (rs *readSample) ValueFor(ctx context.Context, f int) (bool, error) {
	if value, ok := rs.obtainedValues[f]; ok {
		return value, nil
	}
	if f < 0 || f >= rs.numFeatures {
		return false, errors.Wrapf(dataset.ErrInvalidInput, "feature %d out of range for sample with %d features", f, rs.numFeatures)
	}
	name := rs.names.Name(f)
	if err := rs.featureValueRequester.RequestValueFor(f, name); err != nil {
		return false, err
	}
	for rs.scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		line := rs.scanner.Text()
		if value, ok := parseValue(line); ok {
			rs.obtainedValues[f] = value
			return value, nil
		}
		if err := rs.featureValueRequester.RejectValueFor(f, name, line); err != nil {
			return false, err
		}
	}
	if err := rs.scanner.Err(); err != nil {
		return false, err
	}
	return false, ErrNoInput
}

func parseValue(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "y", "yes", "t", "true":
		return true, true
	case "0", "n", "no", "f", "false":
		return false, true
	}
	return false, false
}

package dataset

import (
	"github.com/pkg/errors"
)

/*
Dataset represents a collection of labeled samples: a matrix of boolean
features and a vector of class labels aligned with its rows.

Labels are positive integers identifying classes, assumed to range
densely from 1 to the maximum observed label.
*/
type Dataset struct {
	Samples *Matrix
	Labels  []int
}

/*
New takes a Matrix and a slice of labels and returns a Dataset with them,
or an error wrapping ErrInvalidInput if there are not as many labels as
samples or any label is lower than 1.
*/
func New(m *Matrix, labels []int) (*Dataset, error) {
	d := &Dataset{Samples: m, Labels: labels}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

/*
Validate returns an error wrapping ErrInvalidInput if the dataset has
no sample matrix, there are not as many labels as samples or any label
is lower than 1.
*/
func (d *Dataset) Validate() error {
	if d.Samples == nil {
		return errors.Wrap(ErrInvalidInput, "nil sample matrix")
	}
	if d.Samples.Len() != len(d.Labels) {
		return errors.Wrapf(ErrInvalidInput, "%d samples but %d labels", d.Samples.Len(), len(d.Labels))
	}
	for i, l := range d.Labels {
		if l < 1 {
			return errors.Wrapf(ErrInvalidInput, "sample %d has label %d, labels must be positive", i, l)
		}
	}
	return nil
}

/*
FromRows takes a slice of rows, a slice of labels and a number of features
and returns a Dataset built with them or an error wrapping ErrInvalidInput
if they do not describe a valid dataset.
*/
func FromRows(rows [][]bool, labels []int, numFeatures int) (*Dataset, error) {
	m, err := NewMatrix(rows, numFeatures)
	if err != nil {
		return nil, err
	}
	return New(m, labels)
}

// Count returns the number of samples in the dataset.
func (d *Dataset) Count() int {
	return len(d.Labels)
}

// NumFeatures returns the number of features of every sample.
func (d *Dataset) NumFeatures() int {
	return d.Samples.Width()
}

// MaxLabel returns the greatest label in the dataset, 0 if it is empty.
func (d *Dataset) MaxLabel() int {
	var m int
	for _, l := range d.Labels {
		if l > m {
			m = l
		}
	}
	return m
}

// Sample returns the row and label for the i-th sample.
func (d *Dataset) Sample(i int) (Row, int) {
	return d.Samples.Row(i), d.Labels[i]
}

/*
All returns a View over every sample of the dataset. Each call returns
a View with its own index slice.
*/
func (d *Dataset) All() View {
	indices := make([]int, d.Count())
	for i := range indices {
		indices[i] = i
	}
	return View{d, indices}
}

/*
Select takes a slice of sample indexes and returns a new Dataset with
copies of those samples in the given order.
*/
func (d *Dataset) Select(indices []int) (*Dataset, error) {
	rows := make([][]bool, 0, len(indices))
	labels := make([]int, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= d.Count() {
			return nil, errors.Wrapf(ErrInvalidInput, "sample index %d out of range", i)
		}
		rows = append(rows, d.Samples.Row(i))
		labels = append(labels, d.Labels[i])
	}
	return FromRows(rows, labels, d.NumFeatures())
}

/*
View is the subset of samples of a Dataset under consideration at
some point of the growth of a tree, represented as a slice of indexes
into the dataset. Views never copy samples.
*/
type View struct {
	ds      *Dataset
	indices []int
}

// NewView returns a View over the samples of ds with the given indexes.
func NewView(ds *Dataset, indices []int) View {
	return View{ds, indices}
}

// Dataset returns the dataset the view selects samples from.
func (v View) Dataset() *Dataset {
	return v.ds
}

// Indices returns the indexes of the samples in the view.
func (v View) Indices() []int {
	return v.indices
}

// Count returns the number of samples in the view.
func (v View) Count() int {
	return len(v.indices)
}

// MaxLabel returns the greatest label among the samples in the view, 0 if empty.
func (v View) MaxLabel() int {
	var m int
	for _, i := range v.indices {
		if l := v.ds.Labels[i]; l > m {
			m = l
		}
	}
	return m
}

/*
ClassCounts returns the number of samples in the view for each class,
indexed by label-1, over the range of classes from 1 to the maximum
label in the view.
*/
func (v View) ClassCounts() []int {
	counts := make([]int, v.MaxLabel())
	for _, i := range v.indices {
		counts[v.ds.Labels[i]-1]++
	}
	return counts
}

/*
SplitClassCounts takes a feature index and returns the class counts, as
returned by ClassCounts, of the samples in the view whose value for the
feature is false (left) and true (right). Both slices cover the classes
from 1 to the maximum label in the whole view. An error wrapping
ErrInvalidInput is returned if the dataset has no feature f.
*/
func (v View) SplitClassCounts(f int) (left, right []int, err error) {
	if f < 0 || f >= v.ds.NumFeatures() {
		return nil, nil, errors.Wrapf(ErrInvalidInput, "feature %d out of range for samples with %d features", f, v.ds.NumFeatures())
	}
	m := v.MaxLabel()
	left = make([]int, m)
	right = make([]int, m)
	for _, i := range v.indices {
		if v.ds.Samples.Value(i, f) {
			right[v.ds.Labels[i]-1]++
		} else {
			left[v.ds.Labels[i]-1]++
		}
	}
	return left, right, nil
}

/*
Pure returns whether all samples in the view share a label and that
label. Views with a single sample are pure, and so are empty views,
for which the returned label is 0.
*/
func (v View) Pure() (int, bool) {
	if len(v.indices) == 0 {
		return 0, true
	}
	label := v.ds.Labels[v.indices[0]]
	for _, i := range v.indices[1:] {
		if v.ds.Labels[i] != label {
			return label, false
		}
	}
	return label, true
}

/*
Majority returns the label with most samples in the view. Ties are
resolved in favour of the lowest label. It returns 0 for an empty view.
*/
func (v View) Majority() int {
	counts := v.ClassCounts()
	if len(counts) == 0 {
		return 0
	}
	result := 1
	for c, n := range counts {
		if counts[result-1] < n {
			result = c + 1
		}
	}
	return result
}

/*
Partition takes a feature index and splits the view into the samples
whose value for the feature is false (left) and true (right).

The partition is stable and performed in place: the view's index slice
is reordered so that it holds the left indexes followed by the right
ones, and the returned views are disjoint sub-slices of it. The receiver
must not be used to iterate in the original order afterwards.

It panics if the dataset has no feature f.
*/
func (v View) Partition(f int) (left, right View) {
	var trues []int
	n := 0
	for _, i := range v.indices {
		if v.ds.Samples.Value(i, f) {
			trues = append(trues, i)
			continue
		}
		v.indices[n] = i
		n++
	}
	copy(v.indices[n:], trues)
	return View{v.ds, v.indices[:n:n]}, View{v.ds, v.indices[n:]}
}

package feature

import (
	"context"
	"fmt"
)

/*
Sample is an interface for something that can be classified
by a tree.

Its ValueFor method returns the boolean value of the feature
with the given index, or an error if the value cannot be
obtained (the index is out of range, the sample is read from
a source that fails, ...).
*/
type Sample interface {
	ValueFor(ctx context.Context, f int) (bool, error)
}

/*
Criterion is the test performed by an internal node of a tree:
it is satisfied by samples whose value for the feature is true.
Samples that satisfy it go down the right branch, the rest go
down the left one.
*/
type Criterion int

// Feature returns the index of the feature tested by the criterion.
func (c Criterion) Feature() int {
	return int(c)
}

/*
SatisfiedBy takes a context and a sample and returns whether the
sample's value for the criterion's feature is true, or an error
if the value cannot be obtained.
*/
func (c Criterion) SatisfiedBy(ctx context.Context, s Sample) (bool, error) {
	return s.ValueFor(ctx, int(c))
}

func (c Criterion) String() string {
	return fmt.Sprintf("feature %d is true", int(c))
}

package tree

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
)

// ErrEmptyTree is returned when operating on a tree without a root node.
var ErrEmptyTree = errors.New("empty tree")

/*
Tree represents a binary decision tree over boolean features. It owns
its nodes: every node is reachable from Root through exactly one path.
*/
type Tree struct {
	Root        *Node
	NumFeatures int
	// Names are optional human readable names for features, used
	// when rendering the tree.
	Names feature.Names
}

// New takes a root node and the number of features of the samples it classifies and returns a tree.
func New(root *Node, numFeatures int) *Tree {
	return &Tree{Root: root, NumFeatures: numFeatures}
}

/*
Predict takes a context and a sample and returns the class for the
sample according to the tree. Starting on the root, it descends
right when the sample's value for the node feature is true and
left otherwise until it reaches a leaf.

An error is returned if the tree is empty or a feature value cannot
be obtained from the sample.
*/
func (t *Tree) Predict(ctx context.Context, s feature.Sample) (int, error) {
	if t == nil || t.Root == nil {
		return 0, ErrEmptyTree
	}
	n := t.Root
	for !n.IsLeaf() {
		ok, err := n.Criterion().SatisfiedBy(ctx, s)
		if err != nil {
			return 0, errors.Wrapf(err, "predicting sample on feature %d", n.Feature)
		}
		if ok {
			n = n.Right
		} else {
			n = n.Left
		}
	}
	return n.Class, nil
}

/*
Evaluate takes a context and a dataset and returns the fraction of
samples in the dataset for which the tree predicts their label. It
returns an error wrapping dataset.ErrInvalidInput if the dataset is
malformed or empty.
*/
func (t *Tree) Evaluate(ctx context.Context, ds *dataset.Dataset) (float64, error) {
	cm, err := t.Test(ctx, ds)
	if err != nil {
		return 0.0, err
	}
	return cm.Accuracy(), nil
}

/*
EvaluateRows is Evaluate over a slice of samples and a slice of labels
aligned by index. It returns an error wrapping dataset.ErrInvalidInput
if their lengths differ or they are empty.
*/
func (t *Tree) EvaluateRows(ctx context.Context, samples [][]bool, labels []int) (float64, error) {
	if len(samples) != len(labels) {
		return 0.0, errors.Wrapf(dataset.ErrInvalidInput, "%d samples but %d labels", len(samples), len(labels))
	}
	if len(samples) == 0 {
		return 0.0, errors.Wrap(dataset.ErrInvalidInput, "cannot evaluate tree without samples")
	}
	var hits int
	for i, s := range samples {
		class, err := t.Predict(ctx, dataset.Row(s))
		if err != nil {
			return 0.0, errors.Wrapf(err, "sample %d", i)
		}
		if class == labels[i] {
			hits++
		}
	}
	return float64(hits) / float64(len(samples)), nil
}

/*
Test takes a context and a dataset, predicts every sample in it and
returns a ConfusionMatrix with the results or an error. Missing,
malformed and empty datasets are reported as errors wrapping
dataset.ErrInvalidInput.
*/
func (t *Tree) Test(ctx context.Context, ds *dataset.Dataset) (*ConfusionMatrix, error) {
	if ds == nil {
		return nil, errors.Wrap(dataset.ErrInvalidInput, "nil dataset")
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	if ds.Count() == 0 {
		return nil, errors.Wrap(dataset.ErrInvalidInput, "cannot test tree without samples")
	}
	cm := NewConfusionMatrix()
	for i := 0; i < ds.Count(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, label := ds.Sample(i)
		class, err := t.Predict(ctx, row)
		if err != nil {
			return nil, errors.Wrapf(err, "sample %d", i)
		}
		cm.Add(label, class)
	}
	return cm, nil
}

// Traverse takes a context, bottomup boolean and an
// error-returning function that takes a context, a node
// and its depth, and goes through the tree running the
// function with every traversed node.
// Traverse visits a parent before its children if bottomup
// is false, and after them if it is true; left children are
// always visited before right ones.
// If the given context is cancelled or the function returns
// an error, the traversing is aborted and the error returned.
func (t *Tree) Traverse(ctx context.Context, bottomup bool, f func(context.Context, *Node, int) error) error {
	if t == nil || t.Root == nil {
		return ErrEmptyTree
	}
	return traverse(ctx, t.Root, 0, bottomup, f)
}

func traverse(ctx context.Context, n *Node, depth int, bottomup bool, f func(context.Context, *Node, int) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !bottomup {
		if err := f(ctx, n, depth); err != nil {
			return err
		}
	}
	if !n.IsLeaf() {
		if err := traverse(ctx, n.Left, depth+1, bottomup, f); err != nil {
			return err
		}
		if err := traverse(ctx, n.Right, depth+1, bottomup, f); err != nil {
			return err
		}
	}
	if bottomup {
		return f(ctx, n, depth)
	}
	return nil
}

// Stats holds the shape of a tree.
type Stats struct {
	Nodes  int
	Leaves int
	Depth  int
}

// Stats returns the number of nodes and leaves of the tree and its depth.
func (t *Tree) Stats() Stats {
	var s Stats
	t.Traverse(context.Background(), false, func(_ context.Context, n *Node, depth int) error {
		s.Nodes++
		if n.IsLeaf() {
			s.Leaves++
		}
		if depth > s.Depth {
			s.Depth = depth
		}
		return nil
	})
	return s
}

func (t *Tree) String() string {
	if t == nil || t.Root == nil {
		return "[empty tree]\n"
	}
	return t.subtreeString(t.Root)
}

func (t *Tree) subtreeString(n *Node) string {
	var result string
	if n.IsLeaf() {
		result = fmt.Sprintf("{ class=%d } [ %d ]\n \n", n.Class, n.Weight)
		return result
	}
	result = fmt.Sprintf("{ %s? } [ %d ]\n|\n", t.Names.Name(n.Feature), n.Weight)
	children := []*Node{n.Left, n.Right}
	for i, child := range children {
		branch := "no"
		if i == 1 {
			branch = "yes"
		}
		for j, line := range strings.Split(t.subtreeString(child), "\n") {
			if len(strings.TrimSpace(line)) == 0 {
				continue
			}
			if j == 0 {
				result = fmt.Sprintf("%s|__%s: %s\n", result, branch, line)
			} else if i == len(children)-1 {
				result = fmt.Sprintf("%s   %s\n", result, line)
			} else {
				result = fmt.Sprintf("%s|  %s\n", result, line)
			}
		}
	}
	return result
}

package queue

import (
	"fmt"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
	"github.com/pbanos/sapling/tree"
)

// Task represents a tree.Node to be developed
// on a tree.Tree.
type Task struct {
	// The path from the root to the node: "r" for
	// the root followed by 0 for every left branch
	// and 1 for every right branch.
	Path string
	// The node to be developed
	Node *tree.Node
	// The training samples reaching the node.
	View dataset.View
	// The features used by the ancestors of the node.
	Used feature.Set
	// The class for the node should View be empty:
	// the majority class of its parent.
	Fallback int
}

// ID returns a string that identifies the
// task, the path to its Node.
func (t *Task) ID() string {
	return t.Path
}

func (t *Task) String() string {
	return fmt.Sprintf("{Task %s (%d samples, used %v)}", t.Path, t.View.Count(), t.Used)
}

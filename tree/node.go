package tree

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/pbanos/sapling/feature"
)

/*
Node is a node of the tree. It is either a leaf, holding the class
predicted for samples reaching it, or an internal node, holding the
feature to test and exactly two children: Left for samples whose value
for the feature is false, Right for those whose value is true.

A node is a leaf if and only if it has no children.
*/
type Node struct {
	// The feature tested by an internal node. Meaningless on leaves.
	Feature int
	// The class predicted by a leaf. Meaningless on internal nodes.
	Class int
	// The number of training samples that reached the node.
	Weight int
	Left   *Node
	Right  *Node
}

// NewLeaf returns a leaf predicting the given class.
func NewLeaf(class, weight int) *Node {
	return &Node{Class: class, Weight: weight}
}

// NewInternal returns an internal node testing feature f with the given children.
func NewInternal(f int, left, right *Node, weight int) *Node {
	return &Node{Feature: f, Weight: weight, Left: left, Right: right}
}

// IsLeaf returns whether the node has no children.
func (n *Node) IsLeaf() bool {
	return n.Left == nil && n.Right == nil
}

// Criterion returns the criterion a sample must satisfy to descend right.
func (n *Node) Criterion() feature.Criterion {
	return feature.Criterion(n.Feature)
}

/*
Validate checks that the node and its descendants are well formed:
every node has either zero or two children, internal nodes test a
feature in [0, numFeatures) and leaves hold a positive class.
*/
func (n *Node) Validate(numFeatures int) error {
	if n == nil {
		return ErrEmptyTree
	}
	if n.IsLeaf() {
		if n.Class < 1 {
			return errors.Errorf("leaf with non-positive class %d", n.Class)
		}
		return nil
	}
	if n.Left == nil || n.Right == nil {
		return errors.Errorf("internal node on feature %d with a single child", n.Feature)
	}
	if n.Feature < 0 || n.Feature >= numFeatures {
		return errors.Errorf("internal node on feature %d out of range [0, %d)", n.Feature, numFeatures)
	}
	if err := n.Left.Validate(numFeatures); err != nil {
		return err
	}
	return n.Right.Validate(numFeatures)
}

func (n *Node) String() string {
	if n.IsLeaf() {
		return fmt.Sprintf("class=%d", n.Class)
	}
	return fmt.Sprintf("%d", n.Feature)
}

package tree

import (
	"bufio"
	"context"
	"io"
	"strings"
)

/*
Print takes an io.Writer and a tree and writes a plain debugging
rendering of the tree: one line per node in pre-order (left subtree
before right), indented with one tab per level, holding the feature
index for internal nodes and class=<id> for leaves.
*/
func Print(w io.Writer, t *Tree) error {
	bw := bufio.NewWriter(w)
	err := t.Traverse(context.Background(), false, func(_ context.Context, n *Node, depth int) error {
		_, err := bw.WriteString(strings.Repeat("\t", depth) + n.String() + "\n")
		return err
	})
	if err != nil {
		return err
	}
	return bw.Flush()
}

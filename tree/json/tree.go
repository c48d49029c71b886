package json

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/pbanos/sapling/feature"
	"github.com/pbanos/sapling/tree"
)

/*
Header holds the attributes of a serialized tree
other than its nodes.
*/
type Header struct {
	NumFeatures int           `json:"numFeatures"`
	Features    feature.Names `json:"features,omitempty"`
}

/*
WriteJSONTree takes a context.Context, a pointer to a tree.Tree and an
io.Writer and serializes the given tree as JSON onto the io.Writer.
A tree is serialized as a JSON object with the following fields:
  - "numFeatures": the number of features of the samples the tree classifies
  - "features": an optional array with the names of the features
  - "nodes": an array with the nodes of the tree in pre-order, each of
    them encoded with the NodeEncodeDecoder returned by NewNodeEncodeDecoder.

An error is returned if the tree cannot be traversed, serialized or written
onto the io.Writer.
*/
func WriteJSONTree(ctx context.Context, t *tree.Tree, w io.Writer) error {
	if t == nil || t.Root == nil {
		return tree.ErrEmptyTree
	}
	err := marshalJSONTreeHeader(t, w)
	if err != nil {
		return err
	}
	ned := NewNodeEncodeDecoder()
	var i int
	err = Walk(ctx, t.Root, func(id string, n *tree.Node) error {
		err := writeNode(i, id, n, ned, w)
		i++
		return err
	})
	if err != nil {
		return err
	}
	_, err = w.Write([]byte(`]}`))
	return err
}

/*
ReadJSONTree takes a context.Context and an io.Reader and unmarshals
a tree from the contents of the io.Reader in the format written by
WriteJSONTree.
An error is returned if the JSON cannot be read from the io.Reader or
does not describe a valid tree.
*/
func ReadJSONTree(ctx context.Context, r io.Reader) (*tree.Tree, error) {
	dec := json.NewDecoder(r)
	jt := &struct {
		Header
		Nodes []json.RawMessage `json:"nodes"`
	}{}
	if err := dec.Decode(jt); err != nil {
		return nil, errors.Wrap(err, "decoding tree")
	}
	ned := NewNodeEncodeDecoder()
	nodes := make(map[string]*tree.Node, len(jt.Nodes))
	for _, jn := range jt.Nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		id, n, err := ned.Decode(jn)
		if err != nil {
			return nil, errors.Wrap(err, "decoding tree node")
		}
		if _, ok := nodes[id]; ok {
			return nil, errors.Errorf("duplicate node %q", id)
		}
		nodes[id] = n
	}
	return NewTree(jt.Header, nodes)
}

/*
NewTree takes a Header and the decoded nodes of a tree, indexed by ID,
and returns the assembled and validated tree.
*/
func NewTree(h Header, nodes map[string]*tree.Node) (*tree.Tree, error) {
	root, err := Assemble(nodes)
	if err != nil {
		return nil, err
	}
	if err := root.Validate(h.NumFeatures); err != nil {
		return nil, errors.Wrap(err, "invalid tree")
	}
	t := tree.New(root, h.NumFeatures)
	t.Names = h.Features
	return t, nil
}

/*
Walk takes a context, a node and a function and calls the function
with the ID and the node of every node in the subtree, in pre-order
visiting left children before right ones. The given node gets the
ID RootID.
*/
func Walk(ctx context.Context, n *tree.Node, f func(string, *tree.Node) error) error {
	return walk(ctx, RootID, n, f)
}

func walk(ctx context.Context, id string, n *tree.Node, f func(string, *tree.Node) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := f(id, n); err != nil {
		return err
	}
	if n.IsLeaf() {
		return nil
	}
	if err := walk(ctx, id+"0", n.Left, f); err != nil {
		return err
	}
	return walk(ctx, id+"1", n.Right, f)
}

func marshalJSONTreeHeader(t *tree.Tree, w io.Writer) error {
	jnf, err := json.Marshal(t.NumFeatures)
	if err != nil {
		return err
	}
	header := fmt.Sprintf(`{"numFeatures":%s,`, jnf)
	if len(t.Names) > 0 {
		jnames, err := json.Marshal(t.Names)
		if err != nil {
			return err
		}
		header = fmt.Sprintf(`%s"features":%s,`, header, jnames)
	}
	_, err = w.Write([]byte(header + `"nodes":[`))
	return err
}

func writeNode(i int, id string, n *tree.Node, ned NodeEncodeDecoder, w io.Writer) error {
	if i != 0 {
		_, err := w.Write([]byte(","))
		if err != nil {
			return err
		}
	}
	jn, err := ned.Encode(id, n)
	if err != nil {
		return err
	}
	_, err = w.Write(jn)
	return err
}

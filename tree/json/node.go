package json

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"github.com/pbanos/sapling/tree"
)

// RootID is the ID of the root node of every serialized tree.
const RootID = "r"

/*
NodeEncodeDecoder is an interface for objects
that allow encoding nodes into slices of
bytes and decoding them back to nodes.

Nodes are identified by their path from the root:
RootID followed by a 0 for every left branch and
a 1 for every right branch taken to reach them.
*/
type NodeEncodeDecoder interface {
	// Encode receives the ID of a node and the node and
	// returns a slice of bytes with the node encoded, or
	// an error if it could not be encoded. Children are
	// not encoded, they are implied by the IDs of the
	// nodes encoded separately.
	Encode(string, *tree.Node) ([]byte, error)

	// Decode receives a slice of bytes and returns the
	// ID and the node decoded from it, or an error if the
	// decoding could not be performed. Decoded internal
	// nodes get empty placeholder children, to be replaced
	// by their actual children with Assemble.
	Decode([]byte) (string, *tree.Node, error)
}

type nodeEncodeDecoder struct{}

type node struct {
	ID      string `json:"id"`
	Feature *int   `json:"f,omitempty"`
	Class   int    `json:"c,omitempty"`
	Weight  int    `json:"w"`
}

// NewNodeEncodeDecoder returns a NodeEncodeDecoder that encodes nodes as JSON objects.
func NewNodeEncodeDecoder() NodeEncodeDecoder {
	return nodeEncodeDecoder{}
}

func (nodeEncodeDecoder) Encode(id string, n *tree.Node) ([]byte, error) {
	jn := &node{ID: id, Weight: n.Weight}
	if n.IsLeaf() {
		jn.Class = n.Class
	} else {
		f := n.Feature
		jn.Feature = &f
	}
	return json.Marshal(jn)
}

func (nodeEncodeDecoder) Decode(data []byte) (string, *tree.Node, error) {
	jn := &node{}
	if err := json.Unmarshal(data, jn); err != nil {
		return "", nil, err
	}
	if err := checkID(jn.ID); err != nil {
		return "", nil, err
	}
	if jn.Feature != nil && jn.Class != 0 {
		return "", nil, errors.Errorf("node %q has both a feature and a class", jn.ID)
	}
	n := &tree.Node{Class: jn.Class, Weight: jn.Weight}
	if jn.Feature != nil {
		n.Feature = *jn.Feature
		n.Left, n.Right = &tree.Node{}, &tree.Node{}
	}
	return jn.ID, n, nil
}

func checkID(id string) error {
	if !strings.HasPrefix(id, RootID) || strings.Trim(id[len(RootID):], "01") != "" {
		return errors.Errorf("invalid node id %q", id)
	}
	return nil
}

/*
Assemble takes the decoded nodes of a tree indexed by ID and links
them, returning the root node. Internal nodes must have both children
among the given nodes. An error is returned if any node is missing or
cannot be reached from the root.
*/
func Assemble(nodes map[string]*tree.Node) (*tree.Node, error) {
	root, ok := nodes[RootID]
	if !ok {
		return nil, errors.Wrap(tree.ErrEmptyTree, "no root node")
	}
	linked := 1
	var link func(id string, n *tree.Node) error
	link = func(id string, n *tree.Node) error {
		if n.IsLeaf() {
			return nil
		}
		l, lok := nodes[id+"0"]
		r, rok := nodes[id+"1"]
		if !lok || !rok {
			return errors.Errorf("internal node %q is missing children", id)
		}
		n.Left, n.Right = l, r
		linked += 2
		if err := link(id+"0", l); err != nil {
			return err
		}
		return link(id+"1", r)
	}
	if err := link(RootID, root); err != nil {
		return nil, err
	}
	if linked != len(nodes) {
		return nil, errors.Errorf("%d nodes not reachable from the root", len(nodes)-linked)
	}
	return root, nil
}

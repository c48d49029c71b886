/*
Package redisstore stores trees in a redis DB under a name.

Each tree takes two keys: a string with its header and a hash with
its nodes, encoded with the tree/json NodeEncodeDecoder and indexed
by their ID.
*/
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/redis.v5"

	"github.com/pbanos/sapling/tree"
	jsontree "github.com/pbanos/sapling/tree/json"
)

// ErrNotFound is returned when loading a tree that is not in the store.
var ErrNotFound = errors.New("tree not found")

// Store saves and loads trees from a redis DB.
type Store struct {
	rc      *redis.Client
	prefix  string
	nencdec jsontree.NodeEncodeDecoder
}

// New returns a Store saving trees on the given redis client under keys with the given prefix.
func New(rc *redis.Client, prefix string) *Store {
	return &Store{rc, prefix, jsontree.NewNodeEncodeDecoder()}
}

/*
Save takes a context, a name and a tree and stores the tree under the
name, replacing any tree previously stored with it.
*/
func (rs *Store) Save(ctx context.Context, name string, t *tree.Tree) error {
	if t == nil || t.Root == nil {
		return tree.ErrEmptyTree
	}
	header, err := json.Marshal(&jsontree.Header{NumFeatures: t.NumFeatures, Features: t.Names})
	if err != nil {
		return errors.Wrapf(err, "saving tree %q: encoding header", name)
	}
	nodes := make(map[string]string)
	err = jsontree.Walk(ctx, t.Root, func(id string, n *tree.Node) error {
		data, err := rs.nencdec.Encode(id, n)
		if err != nil {
			return errors.Wrapf(err, "encoding node %q", id)
		}
		nodes[id] = string(data)
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "saving tree %q", name)
	}
	_, err = rs.rc.TxPipelined(func(pipe *redis.Pipeline) error {
		pipe.Del(rs.headerKey(name), rs.nodesKey(name))
		pipe.Set(rs.headerKey(name), header, 0)
		for id, data := range nodes {
			pipe.HSet(rs.nodesKey(name), id, data)
		}
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "saving tree %q in redis", name)
	}
	return ctx.Err()
}

/*
Load takes a context and a name and returns the tree stored under the
name, or an error wrapping ErrNotFound if there is none.
*/
func (rs *Store) Load(ctx context.Context, name string) (*tree.Tree, error) {
	data, err := rs.rc.Get(rs.headerKey(name)).Result()
	if err == redis.Nil {
		return nil, errors.Wrapf(ErrNotFound, "loading tree %q", name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "loading tree %q from redis", name)
	}
	h := jsontree.Header{}
	if err = json.Unmarshal([]byte(data), &h); err != nil {
		return nil, errors.Wrapf(err, "loading tree %q: decoding header %q", name, data)
	}
	encoded, err := rs.rc.HGetAll(rs.nodesKey(name)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "loading nodes of tree %q from redis", name)
	}
	nodes := make(map[string]*tree.Node, len(encoded))
	for field, value := range encoded {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		id, n, err := rs.nencdec.Decode([]byte(value))
		if err != nil {
			return nil, errors.Wrapf(err, "loading tree %q: decoding node %q", name, field)
		}
		if id != field {
			return nil, errors.Errorf("loading tree %q: node %q stored as %q", name, id, field)
		}
		nodes[id] = n
	}
	t, err := jsontree.NewTree(h, nodes)
	if err != nil {
		return nil, errors.Wrapf(err, "loading tree %q", name)
	}
	return t, nil
}

// Delete takes a context and a name and removes the tree stored under the name, if any.
func (rs *Store) Delete(ctx context.Context, name string) error {
	_, err := rs.rc.Del(rs.headerKey(name), rs.nodesKey(name)).Result()
	if err != nil {
		return errors.Wrapf(err, "deleting tree %q from redis", name)
	}
	return nil
}

// Close closes the underlying redis client.
func (rs *Store) Close() error {
	return rs.rc.Close()
}

func (rs *Store) headerKey(name string) string {
	return fmt.Sprintf("%s:%s:header", rs.prefix, name)
}

func (rs *Store) nodesKey(name string) string {
	return fmt.Sprintf("%s:%s:nodes", rs.prefix, name)
}

/*
ParseURL takes a URL of the form redis://[:password@]host[:port][/db]#name
and returns the options to connect to the redis DB and the name of the
tree it points to. The port defaults to 6379 and the DB to 0.
*/
func ParseURL(rawURL string) (*redis.Options, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, "", errors.Wrapf(err, "parsing redis URL %q", rawURL)
	}
	if u.Scheme != "redis" {
		return nil, "", errors.Errorf("parsing redis URL %q: unexpected scheme %q", rawURL, u.Scheme)
	}
	if u.Fragment == "" {
		return nil, "", errors.Errorf("parsing redis URL %q: no tree name given after #", rawURL)
	}
	opts := &redis.Options{Addr: u.Host}
	if u.Port() == "" {
		opts.Addr = u.Hostname() + ":6379"
	}
	if u.User != nil {
		opts.Password, _ = u.User.Password()
	}
	if db := strings.Trim(u.Path, "/"); db != "" {
		opts.DB, err = strconv.Atoi(db)
		if err != nil {
			return nil, "", errors.Wrapf(err, "parsing redis URL %q: invalid DB %q", rawURL, db)
		}
	}
	return opts, u.Fragment, nil
}

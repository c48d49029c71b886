package main

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/redis.v5"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/dataset/csv"
	"github.com/pbanos/sapling/dataset/mongodataset"
	"github.com/pbanos/sapling/dataset/sqldataset"
	"github.com/pbanos/sapling/dataset/sqldataset/pgadapter"
	"github.com/pbanos/sapling/dataset/sqldataset/sqlite3adapter"
	"github.com/pbanos/sapling/dataset/text"
	"github.com/pbanos/sapling/feature"
	"github.com/pbanos/sapling/tree"
	jsontree "github.com/pbanos/sapling/tree/json"
	"github.com/pbanos/sapling/tree/redisstore"
)

type locationKind int

const (
	stdioLocation locationKind = iota
	textLocation
	csvLocation
	sqlite3Location
	postgresLocation
	mongoLocation
	redisLocation
)

func kindOf(location string) locationKind {
	switch {
	case location == "" || location == "-":
		return stdioLocation
	case strings.HasPrefix(location, "postgres://") || strings.HasPrefix(location, "postgresql://"):
		return postgresLocation
	case strings.HasPrefix(location, "mongodb://") || strings.HasPrefix(location, "mongodb+srv://"):
		return mongoLocation
	case strings.HasPrefix(location, "redis://"):
		return redisLocation
	case strings.HasSuffix(location, ".db"):
		return sqlite3Location
	case strings.HasSuffix(location, ".csv"):
		return csvLocation
	}
	return textLocation
}

/*
readDataset takes a context, the location of a dataset and the number
of features of its samples, negative if unknown, and returns the
dataset at the location and the names of its features, if known.
*/
func readDataset(ctx context.Context, l logger, location string, numFeatures int) (*dataset.Dataset, feature.Names, error) {
	switch kindOf(location) {
	case stdioLocation:
		l.Logf("Reading dataset from STDIN...")
		ds, err := text.Read(ctx, os.Stdin, numFeatures)
		return ds, nil, err
	case csvLocation:
		l.Logf("Reading CSV dataset from %s...", location)
		return csv.ReadSetFromFilePath(ctx, location)
	case sqlite3Location:
		l.Logf("Creating SQLite3 adapter for file %s to read dataset...", location)
		adapter, err := sqlite3adapter.New(location)
		if err != nil {
			return nil, nil, err
		}
		return readSQLDataset(ctx, adapter)
	case postgresLocation:
		l.Logf("Creating PostgreSQL adapter to read dataset...")
		adapter, err := pgadapter.New(location)
		if err != nil {
			return nil, nil, err
		}
		return readSQLDataset(ctx, adapter)
	case mongoLocation:
		l.Logf("Connecting to MongoDB to read dataset...")
		client, db, err := mongodataset.Connect(ctx, location)
		if err != nil {
			return nil, nil, err
		}
		defer client.Disconnect(context.Background())
		mds, err := mongodataset.Open(ctx, db)
		if err != nil {
			return nil, nil, err
		}
		ds, err := mds.Read(ctx)
		return ds, mds.Names(), err
	case redisLocation:
		return nil, nil, errors.Errorf("cannot read a dataset from %s, redis only stores trees", location)
	}
	l.Logf("Reading dataset from %s...", location)
	ds, err := text.ReadFile(ctx, location, numFeatures)
	return ds, nil, err
}

func readSQLDataset(ctx context.Context, adapter sqldataset.Adapter) (*dataset.Dataset, feature.Names, error) {
	defer adapter.Close()
	set, err := sqldataset.OpenSet(ctx, adapter)
	if err != nil {
		return nil, nil, err
	}
	ds, err := set.Read(ctx)
	return ds, set.Names(), err
}

/*
createWriter takes a context, the location of a dataset to write and
the names of the features of its samples and returns a dataset.Writer
for the location and a function to release it once flushed.
*/
func createWriter(ctx context.Context, l logger, location string, names feature.Names) (dataset.Writer, func() error, error) {
	switch kindOf(location) {
	case stdioLocation:
		l.Logf("Using STDOUT to dump dataset...")
		return text.NewWriter(os.Stdout), noop, nil
	case csvLocation:
		l.Logf("Creating %s to dump CSV dataset...", location)
		f, err := os.Create(location)
		if err != nil {
			return nil, nil, err
		}
		w, err := csv.NewWriter(f, names)
		if err != nil {
			f.Close()
			return nil, nil, err
		}
		return w, f.Close, nil
	case sqlite3Location:
		l.Logf("Creating SQLite3 adapter for file %s to dump dataset...", location)
		adapter, err := sqlite3adapter.New(location)
		if err != nil {
			return nil, nil, err
		}
		return createSQLSet(ctx, adapter, names)
	case postgresLocation:
		l.Logf("Creating PostgreSQL adapter to dump dataset...")
		adapter, err := pgadapter.New(location)
		if err != nil {
			return nil, nil, err
		}
		return createSQLSet(ctx, adapter, names)
	case mongoLocation:
		l.Logf("Connecting to MongoDB to dump dataset...")
		client, db, err := mongodataset.Connect(ctx, location)
		if err != nil {
			return nil, nil, err
		}
		closer := func() error { return client.Disconnect(context.Background()) }
		mds, err := mongodataset.Create(ctx, db, names)
		if err != nil {
			closer()
			return nil, nil, err
		}
		return mds, closer, nil
	case redisLocation:
		return nil, nil, errors.Errorf("cannot write a dataset to %s, redis only stores trees", location)
	}
	l.Logf("Creating %s to dump dataset...", location)
	f, err := os.Create(location)
	if err != nil {
		return nil, nil, err
	}
	return text.NewWriter(f), f.Close, nil
}

func createSQLSet(ctx context.Context, adapter sqldataset.Adapter, names feature.Names) (dataset.Writer, func() error, error) {
	set, err := sqldataset.CreateSet(ctx, adapter, names)
	if err != nil {
		adapter.Close()
		return nil, nil, err
	}
	return set, set.Close, nil
}

func noop() error {
	return nil
}

// loadTree takes a context and the location of a tree and returns the tree stored there.
func loadTree(ctx context.Context, location string) (*tree.Tree, error) {
	switch kindOf(location) {
	case redisLocation:
		store, name, err := openTreeStore(location)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.Load(ctx, name)
	case stdioLocation:
		return readTree(ctx, os.Stdin, "STDIN")
	}
	f, err := os.Open(location)
	if err != nil {
		return nil, errors.Wrapf(err, "reading tree in JSON from %s", location)
	}
	defer f.Close()
	return readTree(ctx, f, location)
}

func readTree(ctx context.Context, r io.Reader, location string) (*tree.Tree, error) {
	t, err := jsontree.ReadJSONTree(ctx, r)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing tree in JSON from %s", location)
	}
	return t, nil
}

// saveTree takes a context, a location and a tree and stores the tree at the location.
func saveTree(ctx context.Context, location string, t *tree.Tree) error {
	switch kindOf(location) {
	case redisLocation:
		store, name, err := openTreeStore(location)
		if err != nil {
			return err
		}
		defer store.Close()
		return store.Save(ctx, name, t)
	case stdioLocation:
		return jsontree.WriteJSONTree(ctx, t, os.Stdout)
	}
	f, err := os.Create(location)
	if err != nil {
		return err
	}
	err = jsontree.WriteJSONTree(ctx, t, f)
	return multierr.Append(err, f.Close())
}

func openTreeStore(location string) (*redisstore.Store, string, error) {
	opts, name, err := redisstore.ParseURL(location)
	if err != nil {
		return nil, "", err
	}
	return redisstore.New(redis.NewClient(opts), "sapling:tree"), name, nil
}

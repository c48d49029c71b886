/*
Package mongodataset provides datasets stored in a MongoDB database.

Samples are documents of the samples collection with a features
array of booleans and a label. The names of the features are kept
in a document of the metadata collection.
*/
package mongodataset

import (
	"context"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
)

const (
	samplesCollectionName  = "samples"
	metadataCollectionName = "metadata"
	featuresMetadataID     = "features"
)

type sampleDoc struct {
	Features []bool `bson:"features"`
	Label    int    `bson:"label"`
}

type featuresDoc struct {
	ID    string   `bson:"_id"`
	Names []string `bson:"names"`
}

/*
Dataset is a dataset stored in a MongoDB database to which samples
can be written and from which they can be read. It implements
dataset.Writer.
*/
type Dataset struct {
	db      *mongo.Database
	names   feature.Names
	written int
}

var _ dataset.Writer = (*Dataset)(nil)

/*
Connect takes a context and a MongoDB connection URI with a database
name as path, as in mongodb://host:27017/db, and returns the connected
client and the database.
*/
func Connect(ctx context.Context, uri string) (*mongo.Client, *mongo.Database, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "parsing MongoDB URI")
	}
	name := strings.Trim(u.Path, "/")
	if name == "" {
		return nil, nil, errors.Errorf("no database name in MongoDB URI %s", u.Redacted())
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, errors.Wrapf(err, "connecting to %s", u.Redacted())
	}
	return client, client.Database(name), nil
}

/*
Create takes a context, a database and the names of the features of
the samples to store and returns a Dataset on the database, recording
the names in its metadata.
*/
func Create(ctx context.Context, db *mongo.Database, names feature.Names) (*Dataset, error) {
	upsert := true
	doc := &featuresDoc{ID: featuresMetadataID, Names: names}
	_, err := db.Collection(metadataCollectionName).ReplaceOne(ctx, bson.D{{Key: "_id", Value: featuresMetadataID}}, doc, &options.ReplaceOptions{Upsert: &upsert})
	if err != nil {
		return nil, errors.Wrap(err, "storing feature names")
	}
	return &Dataset{db: db, names: names}, nil
}

/*
Open takes a context and a database and returns the Dataset stored
on it. Datasets without recorded feature names get none.
*/
func Open(ctx context.Context, db *mongo.Database) (*Dataset, error) {
	doc := &featuresDoc{}
	err := db.Collection(metadataCollectionName).FindOne(ctx, bson.D{{Key: "_id", Value: featuresMetadataID}}).Decode(doc)
	if err != nil && err != mongo.ErrNoDocuments {
		return nil, errors.Wrap(err, "loading feature names")
	}
	return &Dataset{db: db, names: doc.Names}, nil
}

// Names returns the names of the features recorded for the dataset.
func (mds *Dataset) Names() feature.Names {
	return mds.names
}

func (mds *Dataset) Write(ctx context.Context, rows []dataset.Row, labels []int) (int, error) {
	docs, err := toDocs(rows, labels)
	if err != nil {
		return 0, err
	}
	if len(docs) == 0 {
		return 0, nil
	}
	res, err := mds.samplesCollection().InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	var n int
	if res != nil {
		n = len(res.InsertedIDs)
	}
	mds.written += n
	if err != nil {
		return n, errors.Wrap(err, "inserting samples")
	}
	return n, nil
}

// Count returns the number of samples written to the dataset through Write.
func (mds *Dataset) Count() int {
	return mds.written
}

// Flush does nothing, as every Write is acknowledged by the database.
func (mds *Dataset) Flush() error {
	return nil
}

// Len returns the number of samples stored in the dataset.
func (mds *Dataset) Len(ctx context.Context) (int, error) {
	n, err := mds.samplesCollection().CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, errors.Wrap(err, "counting samples")
	}
	return int(n), nil
}

/*
Read takes a context and returns a dataset.Dataset with every sample
stored, in insertion order. The number of features is taken from the
recorded names or, if there are none, from the first sample.
*/
func (mds *Dataset) Read(ctx context.Context) (*dataset.Dataset, error) {
	width := -1
	if len(mds.names) > 0 {
		width = len(mds.names)
	}
	b := dataset.NewBuilder(width)
	cursor, err := mds.samplesCollection().Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(err, "querying samples")
	}
	defer cursor.Close(ctx)
	for i := 0; cursor.Next(ctx); i++ {
		var doc sampleDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, errors.Wrapf(err, "decoding sample %d", i)
		}
		if err := b.Add(doc.Features, doc.Label); err != nil {
			return nil, errors.Wrapf(err, "sample %d", i)
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, errors.Wrap(err, "reading samples")
	}
	return b.Dataset()
}

func (mds *Dataset) samplesCollection() *mongo.Collection {
	return mds.db.Collection(samplesCollectionName)
}

func toDocs(rows []dataset.Row, labels []int) ([]interface{}, error) {
	if len(rows) != len(labels) {
		return nil, errors.Wrapf(dataset.ErrInvalidInput, "%d samples but %d labels", len(rows), len(labels))
	}
	docs := make([]interface{}, 0, len(rows))
	for i, r := range rows {
		docs = append(docs, &sampleDoc{Features: append([]bool(nil), r...), Label: labels[i]})
	}
	return docs, nil
}

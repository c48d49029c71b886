package mongodataset

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
)

func TestToDocs(t *testing.T) {
	rows := []dataset.Row{{true, false}, {false, false}}
	docs, err := toDocs(rows, []int{2, 1})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, &sampleDoc{Features: []bool{true, false}, Label: 2}, docs[0])

	data, err := bson.Marshal(docs[1])
	require.NoError(t, err)
	var m bson.M
	require.NoError(t, bson.Unmarshal(data, &m))
	assert.Equal(t, int32(1), m["label"])
	assert.Equal(t, bson.A{false, false}, m["features"])

	_, err = toDocs(rows, []int{1})
	assert.ErrorIs(t, err, dataset.ErrInvalidInput)
}

// TestDataset runs against the MongoDB server at SAPLING_TEST_MONGO_URI,
// given without database name.
func TestDataset(t *testing.T) {
	uri := os.Getenv("SAPLING_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("SAPLING_TEST_MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	client, db, err := Connect(ctx, fmt.Sprintf("%s/sapling_test_%d", uri, time.Now().UnixNano()))
	require.NoError(t, err)
	defer client.Disconnect(ctx)
	defer db.Drop(ctx)

	mds, err := Create(ctx, db, feature.Names{"a", "b"})
	require.NoError(t, err)
	ds, err := dataset.FromRows([][]bool{{true, false}, {false, true}, {true, true}}, []int{1, 2, 1}, 2)
	require.NoError(t, err)
	require.NoError(t, dataset.WriteAll(ctx, mds, ds))
	assert.Equal(t, 3, mds.Count())

	opened, err := Open(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, feature.Names{"a", "b"}, opened.Names())
	n, err := opened.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	read, err := opened.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, ds.Samples.Rows(), read.Samples.Rows())
	assert.Equal(t, ds.Labels, read.Labels)
}

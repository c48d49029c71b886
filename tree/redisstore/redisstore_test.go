package redisstore

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/redis.v5"

	"github.com/pbanos/sapling/feature"
	"github.com/pbanos/sapling/tree"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		url      string
		addr     string
		password string
		db       int
		name     string
		err      bool
	}{
		{url: "redis://localhost#weather", addr: "localhost:6379", name: "weather"},
		{url: "redis://cache:6380/2#weather", addr: "cache:6380", db: 2, name: "weather"},
		{url: "redis://:secret@cache:6380/1#t1", addr: "cache:6380", password: "secret", db: 1, name: "t1"},
		{url: "redis://localhost", err: true},
		{url: "http://localhost#weather", err: true},
		{url: "redis://localhost/x#weather", err: true},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			opts, name, err := ParseURL(tt.url)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.addr, opts.Addr)
			assert.Equal(t, tt.password, opts.Password)
			assert.Equal(t, tt.db, opts.DB)
			assert.Equal(t, tt.name, name)
		})
	}
}

func TestKeys(t *testing.T) {
	rs := New(redis.NewClient(&redis.Options{Addr: "localhost:6379"}), "sapling")
	defer rs.Close()
	assert.Equal(t, "sapling:weather:header", rs.headerKey("weather"))
	assert.Equal(t, "sapling:weather:nodes", rs.nodesKey("weather"))
}

// TestStore runs against the redis server at SAPLING_TEST_REDIS_ADDR.
func TestStore(t *testing.T) {
	addr := os.Getenv("SAPLING_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("SAPLING_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	rs := New(redis.NewClient(&redis.Options{Addr: addr}), "sapling-test")
	defer rs.Close()

	original := tree.New(tree.NewInternal(1, tree.NewLeaf(1, 2), tree.NewLeaf(2, 1), 3), 2)
	original.Names = feature.Names{"x", "y"}
	require.NoError(t, rs.Save(ctx, "t", original))

	loaded, err := rs.Load(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, original, loaded)

	require.NoError(t, rs.Save(ctx, "t", tree.New(tree.NewLeaf(3, 1), 2)))
	loaded, err = rs.Load(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, tree.NewLeaf(3, 1), loaded.Root)

	require.NoError(t, rs.Delete(ctx, "t"))
	_, err = rs.Load(ctx, "t")
	assert.ErrorIs(t, err, ErrNotFound)
}

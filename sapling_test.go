package sapling

import (
	"context"
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/queue"
	"github.com/pbanos/sapling/tree"
)

func TestBuildPureSet(t *testing.T) {
	tr, err := BuildFromRows([][]bool{
		{true, false},
		{false, true},
		{true, true},
	}, []int{3, 3, 3}, 2)
	require.NoError(t, err)

	require.True(t, tr.Root.IsLeaf())
	assert.Equal(t, 3, tr.Root.Class)
	assert.Equal(t, 3, tr.Root.Weight)
}

func TestBuildSingleSample(t *testing.T) {
	tr, err := BuildFromRows([][]bool{{true}}, []int{2}, 1)
	require.NoError(t, err)
	assert.Equal(t, tree.NewLeaf(2, 1), tr.Root)
}

func TestBuildOneFeaturePerfectSplit(t *testing.T) {
	tr, err := BuildFromRows([][]bool{{false}, {true}, {false}}, []int{1, 2, 1}, 1)
	require.NoError(t, err)

	assert.Equal(t, tree.NewInternal(0, tree.NewLeaf(1, 2), tree.NewLeaf(2, 1), 3), tr.Root)
	assert.Equal(t, 1, tr.Stats().Depth)
}

func TestBuildRoundTrip(t *testing.T) {
	rows := [][]bool{
		{true, false},
		{false, true},
		{true, true},
		{false, false},
	}
	labels := []int{1, 2, 1, 2}
	tr, err := BuildFromRows(rows, labels, 2)
	require.NoError(t, err)

	require.False(t, tr.Root.IsLeaf())
	assert.Equal(t, 0, tr.Root.Feature)
	assert.True(t, tr.Root.Left.IsLeaf())
	assert.True(t, tr.Root.Right.IsLeaf())
	assert.Equal(t, 2, tr.Root.Left.Class)
	assert.Equal(t, 1, tr.Root.Right.Class)

	ctx := context.Background()
	for i, r := range rows {
		class, err := tr.Predict(ctx, dataset.Row(r))
		require.NoError(t, err)
		assert.Equal(t, labels[i], class, "sample %d", i)
	}
}

func TestBuildMajorityVoteWhenFeaturesExhausted(t *testing.T) {
	t.Run("no features", func(t *testing.T) {
		tr, err := BuildFromRows([][]bool{{}, {}}, []int{1, 2}, 0)
		require.NoError(t, err)
		assert.Equal(t, tree.NewLeaf(1, 2), tr.Root)
	})

	t.Run("tie resolved by lowest class", func(t *testing.T) {
		tr, err := BuildFromRows([][]bool{{}, {}, {}, {}}, []int{3, 2, 2, 3}, 0)
		require.NoError(t, err)
		assert.Equal(t, 2, tr.Root.Class)
	})

	t.Run("greatest count wins", func(t *testing.T) {
		tr, err := BuildFromRows([][]bool{{}, {}, {}}, []int{1, 3, 3}, 0)
		require.NoError(t, err)
		assert.Equal(t, 3, tr.Root.Class)
	})
}

func TestBuildDegenerateSplit(t *testing.T) {
	before := testutil.ToFloat64(degenerateSplitsTotal)
	tr, err := BuildFromRows([][]bool{{true}, {true}}, []int{1, 2}, 1)
	require.NoError(t, err)

	expected := tree.NewInternal(0, tree.NewLeaf(1, 0), tree.NewLeaf(1, 2), 2)
	assert.Equal(t, expected, tr.Root)
	assert.Equal(t, before+1, testutil.ToFloat64(degenerateSplitsTotal))
	assert.NoError(t, tr.Root.Validate(tr.NumFeatures))
}

func TestBuildSiblingsDoNotShareFeatureChoices(t *testing.T) {
	// f0 splits first; the left branch is then separated by f1 and the
	// right one by f2, so each branch must still be able to use any
	// feature its own ancestors did not.
	rows := [][]bool{
		{false, false, false},
		{false, true, false},
		{false, false, true},
		{false, true, true},
		{true, false, false},
		{true, false, true},
		{true, true, false},
		{true, true, true},
	}
	labels := []int{1, 2, 1, 2, 3, 4, 3, 4}
	tr, err := BuildFromRows(rows, labels, 3)
	require.NoError(t, err)

	require.False(t, tr.Root.IsLeaf())
	assert.Equal(t, 0, tr.Root.Feature)
	assert.Equal(t, 1, tr.Root.Left.Feature)
	assert.Equal(t, 2, tr.Root.Right.Feature)
	acc, err := tr.EvaluateRows(context.Background(), rows, labels)
	require.NoError(t, err)
	assert.Equal(t, 1.0, acc)
}

func TestBuildMemorizesTrainingSet(t *testing.T) {
	rows := [][]bool{
		{false, false, true},
		{false, true, false},
		{true, false, false},
		{true, true, true},
		{false, false, false},
		{true, true, false},
	}
	// XOR of the first two features, the third is noise.
	labels := []int{1, 2, 2, 1, 1, 1}
	tr, err := BuildFromRows(rows, labels, 3)
	require.NoError(t, err)

	acc, err := tr.EvaluateRows(context.Background(), rows, labels)
	require.NoError(t, err)
	assert.Equal(t, 1.0, acc)
}

func TestBuildInvalidInput(t *testing.T) {
	tests := []struct {
		name        string
		rows        [][]bool
		labels      []int
		numFeatures int
	}{
		{name: "no samples", rows: [][]bool{}, labels: []int{}, numFeatures: 2},
		{name: "mismatched labels", rows: [][]bool{{true}}, labels: []int{1, 2}, numFeatures: 1},
		{name: "zero label", rows: [][]bool{{true}}, labels: []int{0}, numFeatures: 1},
		{name: "negative label", rows: [][]bool{{true}}, labels: []int{-1}, numFeatures: 1},
		{name: "ragged rows", rows: [][]bool{{true}, {true, false}}, labels: []int{1, 1}, numFeatures: 1},
		{name: "negative features", rows: [][]bool{}, labels: []int{}, numFeatures: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildFromRows(tt.rows, tt.labels, tt.numFeatures)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	_, err := Build(nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = Build(&dataset.Dataset{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func randomDataset(t *testing.T, seed int64, samples, features, classes int) *dataset.Dataset {
	r := rand.New(rand.NewSource(seed))
	rows := make([][]bool, samples)
	labels := make([]int, samples)
	for i := range rows {
		rows[i] = make([]bool, features)
		for f := range rows[i] {
			rows[i][f] = r.Intn(2) == 1
		}
		labels[i] = r.Intn(classes) + 1
	}
	ds, err := dataset.FromRows(rows, labels, features)
	require.NoError(t, err)
	return ds
}

func TestGrowMatchesBuild(t *testing.T) {
	ds := randomDataset(t, 42, 300, 7, 3)
	built, err := Build(ds)
	require.NoError(t, err)

	for _, workers := range []int{0, 1, 4} {
		grown, err := Grow(context.Background(), ds, workers)
		require.NoError(t, err)
		assert.Equal(t, built.Root, grown.Root, "%d workers", workers)
		assert.Equal(t, built.NumFeatures, grown.NumFeatures)
	}
}

func TestGrowInvalidInput(t *testing.T) {
	_, err := Grow(context.Background(), &dataset.Dataset{Samples: &dataset.Matrix{}}, 2)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestWorkCancelled(t *testing.T) {
	ds := randomDataset(t, 7, 50, 4, 2)
	q := queue.New()
	_, err := Seed(context.Background(), ds, q)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = Work(ctx, q, DefaultEmptyQueueSleep)
	assert.ErrorIs(t, err, context.Canceled)
}

type failingDropQueue struct {
	queue.Queue
}

func (failingDropQueue) Drop(context.Context, string) error {
	return errors.New("drop failed")
}

func TestWorkTaskCancelledLogsDropFailure(t *testing.T) {
	hook := logtest.NewGlobal()
	defer hook.Reset()
	level := logrus.GetLevel()
	logrus.SetLevel(logrus.DebugLevel)
	defer logrus.SetLevel(level)

	ds := randomDataset(t, 5, 10, 3, 2)
	q := failingDropQueue{queue.New()}
	task, err := rootTask(ds)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = workTask(ctx, task, q)
	assert.ErrorIs(t, err, context.Canceled)

	var logged bool
	for _, e := range hook.AllEntries() {
		if e.Data[logrus.ErrorKey] != nil && e.Message == "dropping task r" {
			logged = true
		}
	}
	assert.True(t, logged, "drop failure must be logged")
}

func TestSeedAndWork(t *testing.T) {
	ds := randomDataset(t, 3, 60, 5, 4)
	q := queue.New()
	ctx := context.Background()
	tr, err := Seed(ctx, ds, q)
	require.NoError(t, err)
	require.NoError(t, Work(ctx, q, DefaultEmptyQueueSleep))

	p, r, err := q.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, p+r)
	assert.NoError(t, tr.Root.Validate(tr.NumFeatures))

	built, err := Build(ds)
	require.NoError(t, err)
	assert.Equal(t, built.Root, tr.Root)
}

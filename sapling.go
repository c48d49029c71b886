/*
Package sapling grows binary decision trees over boolean features by
recursive entropy-based (ID3) splitting.

Build grows a tree sequentially. Grow develops the same tree with a
pool of workers consuming branch-out tasks from a queue.Queue, and
Seed and Work expose the pieces to run those workers elsewhere.
*/
package sapling

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
	"github.com/pbanos/sapling/queue"
	"github.com/pbanos/sapling/tree"
)

var log = logrus.WithField("component", "sapling")

// ErrInvalidInput is returned, wrapped, when the training data is malformed.
var ErrInvalidInput = dataset.ErrInvalidInput

// ErrDegenerateSplit describes a split that sends every sample of a node
// to the same side. Growth tolerates it: the empty side becomes a leaf
// with the majority class of the split node.
var ErrDegenerateSplit = errors.New("degenerate split")

// DefaultEmptyQueueSleep is how long Grow workers wait before polling
// an empty queue again while other workers are still running tasks.
const DefaultEmptyQueueSleep = time.Millisecond

/*
Build takes a dataset and returns the decision tree grown from it.

The dataset must hold at least one sample. An error wrapping
ErrInvalidInput is returned otherwise, or if the dataset is malformed.
*/
func Build(ds *dataset.Dataset) (*tree.Tree, error) {
	root, err := rootTask(ds)
	if err != nil {
		return nil, err
	}
	develop(root)
	return tree.New(root.Node, ds.NumFeatures()), nil
}

/*
BuildFromRows takes a slice of samples, a slice of labels aligned with
them and the number of features of every sample and returns the
decision tree grown from them, or an error wrapping ErrInvalidInput if
they do not form a valid non-empty dataset.
*/
func BuildFromRows(rows [][]bool, labels []int, numFeatures int) (*tree.Tree, error) {
	ds, err := dataset.FromRows(rows, labels, numFeatures)
	if err != nil {
		return nil, err
	}
	return Build(ds)
}

func develop(task *queue.Task) {
	for _, st := range BranchOut(task) {
		develop(st)
	}
}

func rootTask(ds *dataset.Dataset) (*queue.Task, error) {
	if ds == nil {
		return nil, errors.Wrap(ErrInvalidInput, "nil dataset")
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	if ds.Count() == 0 {
		return nil, errors.Wrap(ErrInvalidInput, "cannot grow a tree without samples")
	}
	return &queue.Task{
		Path: "r",
		Node: &tree.Node{},
		View: ds.All(),
		Used: feature.NewSet(ds.NumFeatures()),
	}, nil
}

/*
BranchOut takes a task and develops its node from the task's samples
and used features. It returns the tasks to develop the node's children,
or nil if the node became a leaf:
  - nodes whose samples share a label (or have no samples) become
    leaves with that label (or the task's fallback class);
  - nodes with every feature used become leaves with the majority
    class of their samples;
  - other nodes test the unused feature with the greatest information
    gain and get a child for the samples with each of its values.
*/
func BranchOut(task *queue.Task) []*queue.Task {
	n, v := task.Node, task.View
	n.Weight = v.Count()
	if label, pure := v.Pure(); pure {
		if v.Count() == 0 {
			label = task.Fallback
		}
		n.Class = label
		nodesTotal.WithLabelValues("leaf").Inc()
		log.Debugf("node %s: leaf class=%d with %d samples", task.Path, n.Class, n.Weight)
		return nil
	}
	majority := v.Majority()
	if task.Used.Exhausted() {
		n.Class = majority
		nodesTotal.WithLabelValues("leaf").Inc()
		log.Debugf("node %s: features exhausted, majority leaf class=%d with %d samples", task.Path, n.Class, n.Weight)
		return nil
	}
	f, gain := SelectFeature(v, task.Used)
	left, right := v.Partition(f)
	if left.Count() == 0 || right.Count() == 0 {
		degenerateSplitsTotal.Inc()
		log.WithError(ErrDegenerateSplit).Debugf("node %s: feature %d sends all %d samples to one side", task.Path, f, n.Weight)
	}
	used := task.Used.With(f)
	n.Feature = f
	n.Left = &tree.Node{}
	n.Right = &tree.Node{}
	nodesTotal.WithLabelValues("internal").Inc()
	log.Debugf("node %s: split on feature %d (gain %f) into %d/%d samples", task.Path, f, gain, left.Count(), right.Count())
	return []*queue.Task{
		{Path: task.Path + "0", Node: n.Left, View: left, Used: used, Fallback: majority},
		{Path: task.Path + "1", Node: n.Right, View: right, Used: used, Fallback: majority},
	}
}

/*
Seed takes a context, a dataset and a queue and sets everything up so
that workers consuming from the queue afterwards grow a tree from the
dataset: it pushes the task for the root node to the queue and returns
the tree that those workers will develop.
*/
func Seed(ctx context.Context, ds *dataset.Dataset, q queue.Queue) (*tree.Tree, error) {
	task, err := rootTask(ds)
	if err != nil {
		return nil, err
	}
	if err := q.Push(ctx, task); err != nil {
		return nil, errors.Wrap(err, "seeding tree")
	}
	return tree.New(task.Node, ds.NumFeatures()), nil
}

// Work takes a context, a queue and an emptyQueueSleep
// duration and enters a loop in which it:
//   - pulls a task from the queue,
//   - branches its node out using BranchOut,
//   - pushes the tasks for the children into the queue,
//   - marks the task as completed on the queue.
//
// When no task can be pulled and no task is running
// either, the worker ends returning nil. If tasks are
// still running, it sleeps for emptyQueueSleep and
// retries.
//
// Work returns a non-nil error if the given context
// is done or an operation on the queue fails.
func Work(ctx context.Context, q queue.Queue, emptyQueueSleep time.Duration) error {
	for {
		task, tctx, err := q.Pull(ctx)
		if err != nil {
			return err
		}
		if task == nil {
			p, r, err := q.Count(ctx)
			if err != nil {
				return err
			}
			if p+r == 0 {
				return nil
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(emptyQueueSleep):
			}
			continue
		}
		mctx, cancel := mergeCtxCancel(tctx, ctx)
		err = workTask(mctx, task, q)
		cancel()
		if err != nil {
			return err
		}
	}
}

func workTask(ctx context.Context, task *queue.Task, q queue.Queue) error {
	if err := ctx.Err(); err != nil {
		if derr := q.Drop(context.Background(), task.ID()); derr != nil {
			log.WithError(derr).Debugf("dropping task %s", task.ID())
		}
		return err
	}
	for _, st := range BranchOut(task) {
		if err := q.Push(ctx, st); err != nil {
			return errors.Wrapf(err, "pushing children of node %s", task.Path)
		}
	}
	return q.Complete(ctx, task.ID())
}

/*
Grow takes a context, a dataset and a number of workers and grows the
tree for the dataset with that many workers developing nodes
concurrently. The result is the same tree Build returns.
*/
func Grow(ctx context.Context, ds *dataset.Dataset, workers int) (*tree.Tree, error) {
	if workers < 1 {
		workers = 1
	}
	q := queue.New()
	defer q.Stop(context.Background())
	t, err := Seed(ctx, ds, q)
	if err != nil {
		return nil, err
	}
	eg, ectx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		i := i
		eg.Go(func() error {
			log.Debugf("worker %d started", i)
			defer log.Debugf("worker %d done", i)
			return Work(ectx, q, DefaultEmptyQueueSleep)
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, errors.Wrap(err, "growing tree")
	}
	return t, nil
}

func mergeCtxCancel(ctx1, ctx2 context.Context) (context.Context, context.CancelFunc) {
	mctx, cancel := context.WithCancel(ctx1)
	go func() {
		select {
		case <-mctx.Done():
		case <-ctx2.Done():
			cancel()
		}
	}()
	return mctx, cancel
}

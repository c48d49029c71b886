package sapling

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
)

/*
Entropy takes the number of samples of each class in a set and returns
the Shannon entropy, in bits, of the class distribution. Classes with no
samples do not contribute, and the entropy of an empty distribution is 0.
*/
func Entropy(classCounts []int) float64 {
	var total int
	for _, c := range classCounts {
		total += c
	}
	if total == 0 {
		return 0.0
	}
	p := make([]float64, len(classCounts))
	for i, c := range classCounts {
		p[i] = float64(c) / float64(total)
	}
	return stat.Entropy(p) / math.Ln2
}

/*
InformationGain takes a view and a feature index and returns the
reduction in entropy obtained by splitting the samples in the view on
the feature:

	H(view) - (pLeft * H(left) + pRight * H(right))

where left holds the samples whose value for the feature is false,
right those whose value is true, and pLeft and pRight the fraction of
samples on each side. Class counts cover the labels from 1 to the
greatest label in the view. The gain of an empty view is 0.

An error wrapping ErrInvalidInput is returned if the feature index is
out of range for the samples of the view.
*/
func InformationGain(v dataset.View, f int) (float64, error) {
	left, right, err := v.SplitClassCounts(f)
	if err != nil {
		return 0.0, errors.Wrap(err, "computing information gain")
	}
	total := v.Count()
	if total == 0 {
		return 0.0, nil
	}
	var nLeft int
	for _, c := range left {
		nLeft += c
	}
	pLeft := float64(nLeft) / float64(total)
	pRight := float64(total-nLeft) / float64(total)
	return Entropy(v.ClassCounts()) - (pLeft*Entropy(left) + pRight*Entropy(right)), nil
}

/*
SelectFeature takes a view and the set of used features and returns
the unused feature with the strictly greatest information gain on the
view, and that gain. Ties are resolved in favour of the lowest feature
index, so when no feature has positive gain the lowest unused one is
selected. It returns -1 if every feature is used. Unused features
the samples of the view do not have are skipped.
*/
func SelectFeature(v dataset.View, used feature.Set) (int, float64) {
	best, bestGain := -1, math.Inf(-1)
	for _, f := range used.Available() {
		gain, err := InformationGain(v, f)
		if err != nil {
			continue
		}
		if best == -1 || gain > bestGain {
			best, bestGain = f, gain
		}
	}
	return best, bestGain
}

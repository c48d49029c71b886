package tree

import (
	"fmt"
	"sort"
)

/*
ConfusionMatrix counts the predictions made by a tree over a labeled
dataset by actual and predicted class.
*/
type ConfusionMatrix struct {
	counts  map[[2]int]int
	classes map[int]bool
	total   int
	correct int
}

// NewConfusionMatrix returns an empty ConfusionMatrix.
func NewConfusionMatrix() *ConfusionMatrix {
	return &ConfusionMatrix{
		counts:  make(map[[2]int]int),
		classes: make(map[int]bool),
	}
}

// Add records a prediction of class predicted for a sample of class actual.
func (cm *ConfusionMatrix) Add(actual, predicted int) {
	cm.counts[[2]int{actual, predicted}]++
	cm.classes[actual] = true
	cm.classes[predicted] = true
	cm.total++
	if actual == predicted {
		cm.correct++
	}
}

// Count returns the number of samples of class actual predicted as class predicted.
func (cm *ConfusionMatrix) Count(actual, predicted int) int {
	return cm.counts[[2]int{actual, predicted}]
}

// Classes returns every class seen as actual or predicted, in increasing order.
func (cm *ConfusionMatrix) Classes() []int {
	result := make([]int, 0, len(cm.classes))
	for c := range cm.classes {
		result = append(result, c)
	}
	sort.Ints(result)
	return result
}

// Total returns the number of predictions recorded.
func (cm *ConfusionMatrix) Total() int {
	return cm.total
}

// Correct returns the number of predictions that matched the actual class.
func (cm *ConfusionMatrix) Correct() int {
	return cm.correct
}

// Accuracy returns the fraction of correct predictions, 0 if there are none.
func (cm *ConfusionMatrix) Accuracy() float64 {
	if cm.total == 0 {
		return 0.0
	}
	return float64(cm.correct) / float64(cm.total)
}

func (cm *ConfusionMatrix) String() string {
	return fmt.Sprintf("%d/%d correct (%f)", cm.correct, cm.total, cm.Accuracy())
}

package feature

import (
	"fmt"
	"strings"
)

/*
Set represents the features already consumed along the path from
the root of a tree to one of its nodes.

A Set is immutable: With returns a new Set and leaves the receiver
untouched, so sibling nodes can share the set of their parent and
never observe each other's choices.
*/
type Set struct {
	used  []bool
	count int
}

/*
NewSet takes the number of features available and returns
a Set in which none of them has been used.
*/
func NewSet(numFeatures int) Set {
	return Set{used: make([]bool, numFeatures)}
}

// Len returns the total number of features, used or not.
func (s Set) Len() int {
	return len(s.used)
}

// Used returns how many features of the set have been used.
func (s Set) Used() int {
	return s.count
}

/*
Contains takes a feature index and returns whether it has been
used. Indexes out of range are reported as used, as they can
never be selected.
*/
func (s Set) Contains(f int) bool {
	if f < 0 || f >= len(s.used) {
		return true
	}
	return s.used[f]
}

/*
With takes a feature index and returns a copy of the set where
the feature is marked as used.
*/
func (s Set) With(f int) Set {
	used := make([]bool, len(s.used))
	copy(used, s.used)
	count := s.count
	if f >= 0 && f < len(used) && !used[f] {
		used[f] = true
		count++
	}
	return Set{used: used, count: count}
}

// Exhausted returns whether every feature has been used.
func (s Set) Exhausted() bool {
	return s.count >= len(s.used)
}

// Available returns the unused feature indexes in increasing order.
func (s Set) Available() []int {
	result := make([]int, 0, len(s.used)-s.count)
	for f, u := range s.used {
		if !u {
			result = append(result, f)
		}
	}
	return result
}

func (s Set) String() string {
	var b strings.Builder
	b.WriteString("{")
	first := true
	for f, u := range s.used {
		if !u {
			continue
		}
		if !first {
			b.WriteString(" ")
		}
		first = false
		fmt.Fprintf(&b, "%d", f)
	}
	b.WriteString("}")
	return b.String()
}

/*
Names holds human readable names for features, indexed by
feature index. It may be shorter than the number of features
of a dataset, in which case missing names default to the index.
*/
type Names []string

/*
DefaultNames returns Names for the given number of features
using the feature indexes as names.
*/
func DefaultNames(numFeatures int) Names {
	names := make(Names, numFeatures)
	for i := range names {
		names[i] = fmt.Sprintf("%d", i)
	}
	return names
}

// Name returns the name for the feature with the given index.
func (n Names) Name(f int) string {
	if f >= 0 && f < len(n) && n[f] != "" {
		return n[f]
	}
	return fmt.Sprintf("%d", f)
}

/*
Index takes a feature name and returns its index and true,
or -1 and false if no feature has that name.
*/
func (n Names) Index(name string) (int, bool) {
	for i, fn := range n {
		if fn == name {
			return i, true
		}
	}
	return -1, false
}

package geocoder

import (
	"cmp"
	"math"
)

// candidate is an address index with its distance from the query.
type candidate struct {
	index    int
	distance float32
}

var noCandidate = candidate{index: -1}

func (c candidate) found() bool {
	return c.index >= 0
}

// compare orders candidates by distance, then by insertion index. A NaN
// distance sorts after every number so it can never be the minimum, even if
// it slipped past the distance filter. The empty candidate sorts last.
func compare(a, b candidate) int {
	switch {
	case !a.found() && !b.found():
		return 0
	case !a.found():
		return 1
	case !b.found():
		return -1
	}

	aNaN := math.IsNaN(float64(a.distance))
	bNaN := math.IsNaN(float64(b.distance))
	switch {
	case aNaN && !bNaN:
		return 1
	case !aNaN && bNaN:
		return -1
	case !aNaN && !bNaN:
		if c := cmp.Compare(a.distance, b.distance); c != 0 {
			return c
		}
	}
	return cmp.Compare(a.index, b.index)
}

// nearer is the reduction step: it is associative and commutative, so
// partial results may be combined in any order.
func nearer(a, b candidate) candidate {
	if compare(b, a) < 0 {
		return b
	}
	return a
}

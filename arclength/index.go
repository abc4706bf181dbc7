package arclength

import (
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
)

// distanceIndex is an ordered map from table distances to table indices.
type distanceIndex struct {
	m *treemap.Map
}

func newDistanceIndex(samples []Sample) *distanceIndex {
	idx := &distanceIndex{m: treemap.NewWith(utils.Float64Comparator)}
	for i, s := range samples {
		if _, found := idx.m.Get(s.Distance); found {
			continue // keep the first of equal distances
		}
		idx.m.Put(s.Distance, i)
	}
	return idx
}

// bracket returns the indices of the table entries with the greatest
// distance ≤ d and the smallest distance ≥ d. d has to be within the
// table's range.
func (idx *distanceIndex) bracket(d float64) (lo, hi int) {
	_, v0 := idx.m.Floor(d)
	_, v1 := idx.m.Ceiling(d)
	if v0 == nil || v1 == nil {
		return 0, 0
	}
	return v0.(int), v1.(int)
}

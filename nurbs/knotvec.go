package nurbs

import (
	"fmt"
	"math"
	"strings"
)

// OpenUniform derives the default knot vector for count control points and a
// curve of degree p: p+1 zeros, a linear ramp over the interior, and p+1 ones.
// The result has count+p+1 entries. Curves using it are clamped, i.e., they
// start at the first and end at the last control point.
//
// If count is too small for degree p, OpenUniform returns nil, which signals
// "curve not ready".
func OpenUniform(count, p int) KnotVector {
	if p < 1 || count < p+1 {
		return nil
	}
	n := count - 1
	m := n + p + 1
	knots := make(KnotVector, 0, m+1)
	for i := 0; i <= m; i++ {
		if i < p {
			knots = append(knots, 0.0)
		} else if i > n {
			knots = append(knots, 1.0)
		} else {
			knots = append(knots, float64(i-p)/float64(n-p+1))
		}
	}
	return knots
}

// Clone returns a copy of a knot vector.
func (knots KnotVector) Clone() KnotVector {
	if knots == nil {
		return nil
	}
	return append(KnotVector(nil), knots...)
}

// Last returns the final knot value, or 0 for an empty knot vector.
func (knots KnotVector) Last() float64 {
	if len(knots) == 0 {
		return 0
	}
	return knots[len(knots)-1]
}

// Domain returns the valid parameter range [knots[p], knots[len-p-1]] for a
// curve of degree p. Outside of it basis functions do not sum up to 1.
func (knots KnotVector) Domain(p int) (umin, umax float64) {
	if len(knots) < 2*(p+1) {
		return 0, 0
	}
	return knots[p], knots[len(knots)-p-1]
}

// LastSpan returns the index i of the last non-empty knot span
// [knots[i], knots[i+1]), or -1 if there is none.
func (knots KnotVector) LastSpan() int {
	for i := len(knots) - 2; i >= 0; i-- {
		if knots[i+1]-knots[i] > _epsilon {
			return i
		}
	}
	return -1
}

// IsNonDecreasing is a predicate: do knot values never decrease?
func (knots KnotVector) IsNonDecreasing() bool {
	for i := 1; i < len(knots); i++ {
		if knots[i] < knots[i-1]-_epsilon {
			return false
		}
	}
	return true
}

// IsValid checks if a knot vector is fit for a clamped curve of degree p:
// finite, non-decreasing, with p+1 equal knots at either end and at least
// one non-empty span.
func (knots KnotVector) IsValid(p int) bool {
	if len(knots) < 2*(p+1) {
		return false
	}
	for _, k := range knots {
		if math.IsNaN(k) || math.IsInf(k, 0) {
			return false
		}
	}
	first, last := knots[0], knots.Last()
	for i := 0; i <= p; i++ {
		if math.Abs(knots[i]-first) > _epsilon || math.Abs(knots[len(knots)-1-i]-last) > _epsilon {
			return false
		}
	}
	return knots.IsNonDecreasing() && knots.LastSpan() >= 0
}

// Debug Stringer for knot vectors.
func (knots KnotVector) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, k := range knots {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%.4g", k)
	}
	b.WriteByte(']')
	return b.String()
}

package nurbs

import "math"

// Basis computes the B-spline basis function N(i,p) at parameter u with the
// recursive Cox-de Boor formula
//
//	N(i,0)(u) = 1 if knots[i] ≤ u < knots[i+1], else 0
//	N(i,p)(u) = a⋅N(i,p-1)(u) + b⋅N(i+1,p-1)(u)
//
// with a = (u-knots[i])/(knots[i+p]-knots[i]) and
// b = (knots[i+p+1]-u)/(knots[i+p+1]-knots[i+1]).
// Terms with a vanishing denominator contribute 0. The last non-empty span is
// closed at its right end, so that u = knots.Last() is part of the curve.
//
// Indices outside of the knot vector yield 0.
func Basis(i, p int, u float64, knots KnotVector) float64 {
	if i < 0 || p < 0 || i+p+1 >= len(knots) {
		return 0
	}
	if p == 0 {
		return spanIndicator(i, u, knots, knots.LastSpan())
	}
	var term1, term2 float64
	if d := knots[i+p] - knots[i]; d > _epsilon {
		term1 = (u - knots[i]) / d * Basis(i, p-1, u, knots)
	}
	if d := knots[i+p+1] - knots[i+1]; d > _epsilon {
		term2 = (knots[i+p+1] - u) / d * Basis(i+1, p-1, u, knots)
	}
	return term1 + term2
}

// BasisFunctions computes all basis functions N(i,p) at parameter u,
// i = 0 … len(knots)-p-2, i.e. one value per control point.
// It evaluates the same recurrence as Basis, but bottom-up by degree, which
// avoids evaluating lower-degree functions more than once.
func BasisFunctions(p int, u float64, knots KnotVector) []float64 {
	count := len(knots) - p - 1
	if p < 0 || count <= 0 {
		return nil
	}
	last := knots.LastSpan()
	N := make([]float64, len(knots)-1)
	for i := range N {
		N[i] = spanIndicator(i, u, knots, last)
	}
	for k := 1; k <= p; k++ {
		for i := 0; i < len(knots)-k-1; i++ {
			var term1, term2 float64
			if d := knots[i+k] - knots[i]; d > _epsilon {
				term1 = (u - knots[i]) / d * N[i]
			}
			if d := knots[i+k+1] - knots[i+1]; d > _epsilon {
				term2 = (knots[i+k+1] - u) / d * N[i+1]
			}
			N[i] = term1 + term2 // N[i+1] is still of degree k-1
		}
	}
	return N[:count]
}

// Degree 0: is u within span i?
func spanIndicator(i int, u float64, knots KnotVector, lastSpan int) float64 {
	if u >= knots[i] && u < knots[i+1] {
		return 1
	}
	if i == lastSpan && math.Abs(u-knots.Last()) <= _epsilon {
		return 1
	}
	return 0
}

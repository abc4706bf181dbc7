package nurbs

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// EvaluateAt computes the rational curve point at parameter u:
//
//	C(u) = Σ N(i,p)(u)⋅w.i⋅P.i / Σ N(i,p)(u)⋅w.i
//
// If the curve is not ready or the denominator vanishes (which happens for u
// outside the curve's domain), EvaluateAt returns the zero point together with
// an error. EvaluateAt does not modify the curve and may be called concurrently.
func (curve *Curve) EvaluateAt(u float64) (r3.Vec, error) {
	if !curve.Ready() {
		tracer().Errorf("evaluate: invalid NURBS configuration (%d control points)", curve.N())
		return r3.Vec{}, fmt.Errorf("%w: %d control points", ErrInsufficientControlPoints, curve.N())
	}
	N := BasisFunctions(curve.degree, u, curve.knots)
	var numerator r3.Vec
	var denominator float64
	for i, p := range curve.points {
		nw := N[i] * curve.weights[i]
		if nw == 0 {
			continue
		}
		numerator = r3.Add(numerator, r3.Scale(nw, p))
		denominator += nw
	}
	if denominator < _epsilon {
		tracer().P("u", u).Errorf("evaluate: denominator too small")
		return r3.Vec{}, fmt.Errorf("%w: u=%g", ErrDegenerateParameter, u)
	}
	return r3.Scale(1/denominator, numerator), nil
}

// Point is a non-failing variant of EvaluateAt. Errors are traced and result
// in the zero point.
func (curve *Curve) Point(u float64) r3.Vec {
	p, _ := curve.EvaluateAt(u)
	return p
}

package nurbs

import (
	"fmt"
	"math"

	"github.com/npillmayer/cvcurve"
	"gonum.org/v1/gonum/spatial/r3"
)

func newSkeletonCurve(points []r3.Vec) *Curve {
	curve := &Curve{degree: Degree}
	curve.points = make([]r3.Vec, len(points), len(points)*2)
	curve.weights = make([]float64, len(points), len(points)*2)
	for i, pt := range points {
		curve.points[i] = pt
		curve.weights[i] = 1.0
	}
	return curve
}

// NullCurve creates an empty curve, to be extended by subsequent builder
// calls. The following example builds a curve through the corners of a
// square, pulling it towards the third corner:
//
//	curve := NullCurve().Knot(cvcurve.V(0,0,0)).Knot(cvcurve.V(100,0,0)).
//	    WeightedKnot(cvcurve.V(100,100,0), 2).Knot(cvcurve.V(0,100,0)).End()
//
// Calling End() derives the default knot vector and returns the curve. With
// fewer than MinControlPoints control points the knot vector stays empty
// and the curve is not ready for evaluation.
func NullCurve() *Curve {
	return newSkeletonCurve(nil)
}

// Knot adds a control point of weight 1 to a curve. Part of builder functionality.
func (curve *Curve) Knot(p r3.Vec) *Curve {
	return curve.WeightedKnot(p, 1.0)
}

// WeightedKnot adds a control point with a given weight. Weights greater than 1
// pull the curve towards the control point, weights less than 1 push it away.
// Part of builder functionality.
func (curve *Curve) WeightedKnot(p r3.Vec, w float64) *Curve {
	curve.points = append(curve.points, p)
	curve.weights = append(curve.weights, w)
	curve.knots = nil
	return curve
}

// End finishes a curve by deriving its default (open-uniform) knot vector.
// Part of builder functionality.
func (curve *Curve) End() *Curve {
	curve.knots = OpenUniform(len(curve.points), curve.degree)
	if curve.knots == nil {
		tracer().Infof("curve with %d control points is not ready", len(curve.points))
	}
	return curve
}

// New creates a curve from control points and weights. If weights is nil, all
// weights are 1.0, which makes the curve a non-rational B-spline.
//
// New validates the curve and returns an error for invalid geometry.
func New(points []r3.Vec, weights []float64) (*Curve, error) {
	curve := newSkeletonCurve(points)
	if weights != nil {
		curve.weights = append(curve.weights[:0], weights...)
	}
	curve.End()
	if err := curve.Validate(); err != nil {
		return nil, err
	}
	return curve, nil
}

// MustNew is a helper which panics on validation errors.
func MustNew(points []r3.Vec, weights []float64) *Curve {
	c, err := New(points, weights)
	if err != nil {
		panic(err)
	}
	return c
}

// NewWithKnots creates a curve from control points, weights and an explicit
// knot vector, e.g. a knot vector restored from storage. The knot vector must
// have len(points)+Degree+1 entries and be valid for a clamped curve.
func NewWithKnots(points []r3.Vec, weights []float64, knots []float64) (*Curve, error) {
	curve := newSkeletonCurve(points)
	if weights != nil {
		curve.weights = append(curve.weights[:0], weights...)
	}
	curve.knots = KnotVector(knots).Clone()
	if err := curve.Validate(); err != nil {
		return nil, err
	}
	return curve, nil
}

// Validate checks if a curve is ready for evaluation.
func (curve *Curve) Validate() error {
	if curve == nil {
		return fmt.Errorf("%w: curve is nil", ErrInsufficientControlPoints)
	}
	n := curve.N()
	if n < curve.degree+1 {
		return fmt.Errorf("%w: degree %d needs at least %d, got %d", ErrInsufficientControlPoints,
			curve.degree, curve.degree+1, n)
	}
	if len(curve.weights) != n {
		return fmt.Errorf("%w: %d weights for %d control points", ErrWeightCount, len(curve.weights), n)
	}
	for i, p := range curve.points {
		if !cvcurve.IsFinite(p) {
			return fmt.Errorf("%w at control point %d", ErrInvalidControlPoint, i)
		}
	}
	for i, w := range curve.weights {
		if !(w > 0) || math.IsInf(w, 0) {
			return fmt.Errorf("%w at control point %d: %g", ErrInvalidWeight, i, w)
		}
	}
	if len(curve.knots) != n+curve.degree+1 {
		return fmt.Errorf("%w: expected %d knots, got %d", ErrInvalidKnotVector,
			n+curve.degree+1, len(curve.knots))
	}
	if !curve.knots.IsValid(curve.degree) {
		return fmt.Errorf("%w: %s is not clamped and non-decreasing", ErrInvalidKnotVector, curve.knots)
	}
	return nil
}

// Ready is a predicate: does the curve have enough control points and a
// knot vector of the expected length?
func (curve *Curve) Ready() bool {
	if curve == nil {
		return false
	}
	n := curve.N()
	return n >= curve.degree+1 && len(curve.weights) == n && len(curve.knots) == n+curve.degree+1
}

// N returns the number of control points.
func (curve *Curve) N() int {
	if curve == nil {
		return 0
	}
	return len(curve.points)
}

// Degree returns the polynomial degree of the curve.
func (curve *Curve) Degree() int {
	if curve == nil {
		return 0
	}
	return curve.degree
}

// ControlPoint returns control point i.
func (curve *Curve) ControlPoint(i int) r3.Vec {
	return curve.points[i]
}

// ControlPoints returns a copy of the control points.
func (curve *Curve) ControlPoints() []r3.Vec {
	if curve == nil {
		return nil
	}
	return append([]r3.Vec(nil), curve.points...)
}

// Weight returns the weight of control point i.
func (curve *Curve) Weight(i int) float64 {
	return curve.weights[i]
}

// Weights returns a copy of the weights.
func (curve *Curve) Weights() []float64 {
	if curve == nil {
		return nil
	}
	return append([]float64(nil), curve.weights...)
}

// Knots returns a copy of the knot vector.
func (curve *Curve) Knots() KnotVector {
	if curve == nil {
		return nil
	}
	return curve.knots.Clone()
}

// Domain returns the valid parameter range of the curve, [0,1] for curves
// with a default knot vector.
func (curve *Curve) Domain() (umin, umax float64) {
	if !curve.Ready() {
		return 0, 0
	}
	return curve.knots.Domain(curve.degree)
}

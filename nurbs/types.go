package nurbs

import (
	"errors"

	"github.com/npillmayer/schuko/tracing"
	"gonum.org/v1/gonum/spatial/r3"
)

// tracer writes to trace with key 'cvcurve.nurbs'
func tracer() tracing.Trace {
	return tracing.Select("cvcurve.nurbs")
}

// Degree is the polynomial degree of every curve built by this package.
const Degree = 3

// MinControlPoints is the smallest number of control points making up a
// curve of degree Degree.
const MinControlPoints = Degree + 1

// numbers below _epsilon are considered 0 for span widths and rational denominators
const _epsilon = 0.0000001

var (
	// ErrInsufficientControlPoints indicates a curve with too few control points
	// or without a matching knot vector. Such a curve is not ready for evaluation.
	ErrInsufficientControlPoints = errors.New("curve has too few control points")
	// ErrDegenerateParameter indicates a vanishing rational denominator, usually
	// because a parameter lies outside the curve's domain.
	ErrDegenerateParameter = errors.New("degenerate curve parameter")
	// ErrWeightCount indicates a weight sequence not parallel to the control points.
	ErrWeightCount = errors.New("weight count does not match control point count")
	// ErrInvalidWeight indicates a weight which is not a positive number.
	ErrInvalidWeight = errors.New("curve has non-positive weight")
	// ErrInvalidControlPoint indicates a control point coordinate containing NaN/Inf.
	ErrInvalidControlPoint = errors.New("curve has invalid control point coordinate")
	// ErrInvalidKnotVector indicates a knot vector unfit for a clamped curve.
	ErrInvalidKnotVector = errors.New("invalid knot vector")
)

// Curve is the concrete type for a NURBS curve. To construct a curve, start
// with NullCurve(), which creates an empty curve, and then extend it, or use
// New(…).
//
// A curve is immutable once End() has been called; all evaluation methods
// are safe for concurrent use.
type Curve struct {
	degree  int        // polynomial degree p
	points  []r3.Vec   // control point i
	weights []float64  // weight of control point i
	knots   KnotVector // derived or explicit knot vector
}

// KnotVector is a non-decreasing sequence of parameter values.
type KnotVector []float64

package nurbs

import (
	"fmt"

	"github.com/npillmayer/cvcurve"
)

// AsString returns a curve as a (debugging) string, listing control points,
// weights different from 1 and the knot vector.
//
// Example, a cubic through the corners of a square:
//
//	(0,0,0) .. (100,0,0) .. (100,100,0) .. (0,100,0) knots [0,0,0,0,1,1,1,1]
func AsString(curve *Curve) string {
	if curve == nil {
		return "<nil>"
	}
	var s string
	for i := 0; i < curve.N(); i++ {
		if i > 0 {
			s += " .. "
		}
		s += cvcurve.PointString(curve.points[i])
		if i < len(curve.weights) && !cvcurve.Is1(curve.weights[i]) {
			s += fmt.Sprintf(" w=%.4g", curve.weights[i])
		}
	}
	if curve.knots != nil {
		s += " knots " + curve.knots.String()
	} else {
		s += " (not ready)"
	}
	return s
}

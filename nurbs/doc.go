// Package nurbs deals with non-uniform rational B-spline curves in 3D space.
/*

A NURBS curve of degree p is defined by control points P.0 … P.n, a weight
w.i > 0 for every control point, and a non-decreasing knot vector of n+p+2
parameter values. The curve point at parameter u is

   C(u) = Σ N(i,p)(u)⋅w.i⋅P.i / Σ N(i,p)(u)⋅w.i

where N(i,p) are the B-spline basis functions given by the Cox-de Boor
recurrence. With all weights equal to 1 the curve is an ordinary B-spline.

The primary source of information is

   The NURBS Book -- Les Piegl, Wayne Tiller
   2nd edition, Springer 1997

Usage

Clients build a curve from its control points, either with a builder
(package qualifiers omitted for clarity and brevity)

   curve := NullCurve().Knot(V(0,0,0)).Knot(V(100,0,0)).Knot(V(100,100,0)).Knot(V(0,100,0)).End()

or from slices

   curve, err := New(points, nil)

End() and New(…) derive an open-uniform knot vector, which makes the
curve start at the first and end at the last control point. All curves are
of fixed degree 3 and therefore need at least 4 control points. Curves with
fewer control points may be built, but they are not ready: evaluation
returns the zero point and ErrInsufficientControlPoints.

   p, err := curve.EvaluateAt(0.5)

Curves are immutable after construction; evaluation may be called from
multiple goroutines.

Caveats

Knot insertion or removal, surfaces and derivatives are not supported.

BSD License

Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package nurbs

/*
Package arclength re-parameterizes NURBS curves by arc length.

Curve parameters u do not advance proportionally to the distance travelled
along a curve. Objects moved along a curve by stepping u will therefore speed
up and slow down. This package measures a curve once and builds a table
mapping distances to parameters, which is then used to answer the question
"where along the curve, and facing which way, is an object after travelling a
distance d?".

Building a table takes two passes:

   (1) A fine raw pass samples the curve at many evenly spaced parameters
       and accumulates chord lengths, which yields the total length.

   (2) A resample pass picks distances at fixed fractions of the total
       length (0%, 1%, …, 100% for the default table size of 101) and
       interpolates their parameters from the raw samples.

Queries interpolate linearly between table entries.

The result of a build is a Geometry value, bundling curve, table and
configuration. A Geometry never changes after construction. Changing the
curve means building a new Geometry.

BSD License

Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package arclength

import (
	"errors"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'cvcurve.arclength'
func tracer() tracing.Trace {
	return tracing.Select("cvcurve.arclength")
}

var (
	// ErrTableNotReady is returned for queries against a geometry without a
	// usable table, either because the curve has too few control points or
	// because it has zero length.
	ErrTableNotReady = errors.New("arc length table is not ready")
	// ErrInvalidSnapshot is returned when decoding a corrupt or incompatible
	// geometry snapshot.
	ErrInvalidSnapshot = errors.New("invalid geometry snapshot")
)

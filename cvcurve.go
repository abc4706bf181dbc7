/*
Package cvcurve implements NURBS curves with an arc-length parameterization,
suitable for moving things along a curve at constant speed.

The root package holds numeric helpers, 3D point helpers and rigid
transforms. Curve evaluation lives in sub-package nurbs, arc-length tables
and distance queries live in sub-package arclength, and sub-package
component glues both to a host object supplying control points.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package cvcurve

import (
	"fmt"
	"math"

	"github.com/npillmayer/schuko/tracing"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// tracer writes to trace with key 'cvcurve'
func tracer() tracing.Trace {
	return tracing.Select("cvcurve")
}

// === Numeric Data Type =====================================================

// Deg2Rad is a constant for converting from DEG to RAD or vice versa
var Deg2Rad float64 = 0.01745329251

// Epsilon : numbers below ε are considered 0
var Epsilon float64 = 0.0000001

// Is0 is a predicate: is n = 0 ?
func Is0(n float64) bool {
	return math.Abs(n) <= Epsilon
}

// Is1 is a predicate: is n = 1.0 ?
func Is1(n float64) bool {
	return math.Abs(1-n) <= Epsilon
}

// Zap makes n = 0 if n "means" to be zero
func Zap(n float64) float64 {
	if Is0(n) {
		n = 0
	}
	return n
}

// Lerp interpolates linearly between a and b.
func Lerp(a, b, alpha float64) float64 {
	return a + (b-a)*alpha
}

// Clamp limits n to [lo, hi].
func Clamp(n, lo, hi float64) float64 {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// === Points ================================================================

// Origin represents the frequently used constant (0,0,0).
var Origin = r3.Vec{}

// Forward is the default direction of a transform without rotation.
var Forward = r3.Vec{X: 1}

// V is a quick notation for constructing a point from floats.
func V(x, y, z float64) r3.Vec {
	return r3.Vec{X: x, Y: y, Z: z}
}

// Dist is the Euclidean distance between two points.
func Dist(p, q r3.Vec) float64 {
	return r3.Norm(r3.Sub(q, p))
}

// IsFinite is a predicate: are all coordinates of p finite numbers?
func IsFinite(p r3.Vec) bool {
	for _, c := range [3]float64{p.X, p.Y, p.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// EqualV compares two points, coordinate-wise up to ε.
func EqualV(p, q r3.Vec) bool {
	return Is0(p.X-q.X) && Is0(p.Y-q.Y) && Is0(p.Z-q.Z)
}

// SafeNormal returns the unit vector for p, or the zero vector if p is
// (nearly) of zero length.
func SafeNormal(p r3.Vec) r3.Vec {
	l := r3.Norm(p)
	if l <= Epsilon || math.IsNaN(l) {
		return r3.Vec{}
	}
	return r3.Scale(1/l, p)
}

// PointString is a pretty Stringer for points.
func PointString(p r3.Vec) string {
	return fmt.Sprintf("(%g,%g,%g)", p.X, p.Y, p.Z)
}

// === Rigid Transformations =================================================

// Transform is a rigid transform: a rotation followed by a translation.
// It describes position and orientation of an object placed on a curve.
type Transform struct {
	Location r3.Vec
	Rotation r3.Rotation
}

// Identity transform. Will transform a point onto itself.
func Identity() Transform {
	return Transform{Rotation: r3.Rotation{Real: 1}}
}

// Translation transform. Translate a point by v.
func Translation(v r3.Vec) Transform {
	t := Identity()
	t.Location = v
	return t
}

// YawPitch returns the heading of a direction vector: yaw around the Z-axis
// and pitch out of the XY-plane, both in radians. There is no roll.
func YawPitch(dir r3.Vec) (yaw, pitch float64) {
	if r3.Norm(dir) <= Epsilon {
		return 0, 0
	}
	yaw = math.Atan2(dir.Y, dir.X)
	pitch = math.Atan2(dir.Z, math.Hypot(dir.X, dir.Y))
	return Zap(yaw), Zap(pitch)
}

// RotationFromDirection creates a rotation turning the Forward axis (+X)
// into dir, without roll. A direction of (nearly) zero length results in
// the identity rotation.
func RotationFromDirection(dir r3.Vec) r3.Rotation {
	yaw, pitch := YawPitch(dir)
	qyaw := r3.NewRotation(yaw, r3.Vec{Z: 1})
	qpitch := r3.NewRotation(-pitch, r3.Vec{Y: 1})
	return r3.Rotation(quat.Mul(quat.Number(qyaw), quat.Number(qpitch)))
}

// TransformFromDirection places an object at loc, facing along dir.
// If dir is degenerate, the object faces Forward.
func TransformFromDirection(loc, dir r3.Vec) Transform {
	if r3.Norm(dir) <= Epsilon {
		tracer().Debugf("degenerate direction at %s, facing forward", PointString(loc))
		dir = Forward
	}
	return Transform{
		Location: loc,
		Rotation: RotationFromDirection(dir),
	}
}

// Apply transforms a point. The argument is unchanged and a new point is returned.
func (t Transform) Apply(p r3.Vec) r3.Vec {
	return r3.Add(t.rotation().Rotate(p), t.Location)
}

// Direction returns the Forward axis, rotated by t.
func (t Transform) Direction() r3.Vec {
	return t.rotation().Rotate(Forward)
}

// Combine 2 transformations to a new one, first applying t, then n.
// Returns a new transformation without changing the argument(s).
func (t Transform) Combine(n Transform) Transform {
	nr := n.rotation()
	return Transform{
		Location: r3.Add(nr.Rotate(t.Location), n.Location),
		Rotation: r3.Rotation(quat.Mul(quat.Number(nr), quat.Number(t.rotation()))),
	}
}

// IsIdentity is a predicate: will t transform every point onto itself?
func (t Transform) IsIdentity() bool {
	r := t.rotation()
	return EqualV(t.Location, Origin) && Is1(math.Abs(r.Real)) &&
		Is0(r.Imag) && Is0(r.Jmag) && Is0(r.Kmag)
}

// The zero value of a rotation is no valid unit quaternion; treat it as identity.
func (t Transform) rotation() r3.Rotation {
	if t.Rotation == (r3.Rotation{}) {
		return r3.Rotation{Real: 1}
	}
	return t.Rotation
}

// Debug Stringer for a transform.
func (t Transform) String() string {
	yaw, pitch := YawPitch(t.Direction())
	return fmt.Sprintf("[%s yaw=%.4g pitch=%.4g]", PointString(t.Location),
		yaw/Deg2Rad, pitch/Deg2Rad)
}

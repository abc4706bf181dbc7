/*
Package component attaches an arc length parameterized NURBS curve to a host
object which owns a spline's raw points.

A host supplies its points through interface SplineSource and calls
Rebuild whenever the points change. Rebuild measures the curve into a new
arclength.Geometry and publishes it atomically, so queries running
concurrently with a rebuild observe either the old or the new geometry,
never a partially built one.

Queries on a Component never fail. Error conditions are traced and
answered with safe defaults (length 0, identity transform).

BSD License

Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package component

import (
	"sync/atomic"

	"github.com/npillmayer/cvcurve"
	"github.com/npillmayer/cvcurve/arclength"
	"github.com/npillmayer/cvcurve/nurbs"
	"github.com/npillmayer/schuko/tracing"
	"gonum.org/v1/gonum/spatial/r3"
)

// tracer writes to trace with key 'cvcurve.component'
func tracer() tracing.Trace {
	return tracing.Select("cvcurve.component")
}

// SplineSource is the host side of a curve: an ordered sequence of
// world-space points.
type SplineSource interface {
	NumberOfSplinePoints() int
	LocationAtSplinePoint(i int) r3.Vec
}

// Points is a SplineSource backed by a slice.
type Points []r3.Vec

// NumberOfSplinePoints is part of interface SplineSource.
func (pts Points) NumberOfSplinePoints() int {
	return len(pts)
}

// LocationAtSplinePoint is part of interface SplineSource.
func (pts Points) LocationAtSplinePoint(i int) r3.Vec {
	return pts[i]
}

// Component is a curve bound to a SplineSource.
type Component struct {
	src      SplineSource
	config   arclength.Config
	geometry atomic.Pointer[arclength.Geometry]
	rebuilds atomic.Int64
}

// New creates a component for a spline source. The component is empty until
// the first call to Rebuild.
func New(src SplineSource, cfg arclength.Config) *Component {
	return &Component{
		src:    src,
		config: cfg.Normalized(),
	}
}

// Rebuild reads the points of the spline source, derives the knot vector and
// measures the curve. The resulting geometry replaces the current one.
//
// If the source has fewer than nurbs.MinControlPoints points, or the points
// result in an invalid curve, an empty geometry is installed and the error is
// returned. Concurrent calls to Rebuild are allowed; the last one to finish
// wins.
func (c *Component) Rebuild() error {
	var points []r3.Vec
	if c.src != nil {
		n := c.src.NumberOfSplinePoints()
		points = make([]r3.Vec, n)
		for i := range points {
			points[i] = c.src.LocationAtSplinePoint(i)
		}
	}
	generation := c.rebuilds.Add(1)
	curve, err := nurbs.New(points, nil)
	if err != nil {
		tracer().Errorf("rebuild #%d: %v", generation, err)
		g, _ := arclength.NewGeometry(nil, c.config)
		c.geometry.Store(g)
		return err
	}
	g, err := arclength.NewGeometry(curve, c.config)
	c.geometry.Store(g)
	if err != nil {
		tracer().Errorf("rebuild #%d: %v", generation, err)
		return err
	}
	tracer().Infof("rebuild #%d: %d control points, length = %.4f", generation, curve.N(), g.CurveLength())
	return nil
}

// Geometry returns the current geometry. It is nil before the first rebuild.
func (c *Component) Geometry() *arclength.Geometry {
	return c.geometry.Load()
}

// Rebuilds returns the number of calls to Rebuild so far.
func (c *Component) Rebuilds() int64 {
	return c.rebuilds.Load()
}

// Config returns the component's arc length configuration.
func (c *Component) Config() arclength.Config {
	return c.config
}

// CurveLength returns the length of the current curve, or 0 if no valid
// curve has been built.
func (c *Component) CurveLength() float64 {
	return c.geometry.Load().CurveLength()
}

// TransformAtDistance returns location and orientation at distance d along
// the curve. Distances outside of [0, CurveLength()] are clamped. Without a
// valid curve the identity transform is returned.
func (c *Component) TransformAtDistance(d float64) cvcurve.Transform {
	t, err := c.geometry.Load().TransformAtDistance(d)
	if err != nil {
		tracer().P("distance", d).Errorf("%v", err)
		return cvcurve.Identity()
	}
	return t
}

// Polyline returns segments+1 points spaced equally along the curve, for
// drawing a debug approximation of the curve.
func (c *Component) Polyline(segments int) []r3.Vec {
	return arclength.Polyline(c.geometry.Load(), segments)
}

// PlaceAtDistance returns the world transform of an object attached to the
// curve at distance d. local places the object relative to the curve frame
// at d, which has +X along the curve. Without a valid curve, local is
// returned unchanged.
func (c *Component) PlaceAtDistance(d float64, local cvcurve.Transform) cvcurve.Transform {
	return local.Combine(c.TransformAtDistance(d))
}

// PointAtDistance returns the world position of a point given in the curve
// frame at distance d.
func (c *Component) PointAtDistance(d float64, offset r3.Vec) r3.Vec {
	return c.TransformAtDistance(d).Apply(offset)
}

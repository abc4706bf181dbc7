package arclength

import (
	"fmt"

	"github.com/npillmayer/cvcurve"
	"github.com/npillmayer/cvcurve/nurbs"
	"gonum.org/v1/gonum/spatial/r3"
)

// Geometry is the result of measuring a curve: the curve itself, its arc
// length table and the configuration used to build the table.
// A Geometry is immutable and safe for concurrent use. The nil *Geometry is a
// valid, empty geometry of length 0.
type Geometry struct {
	curve  *nurbs.Curve
	table  *Table
	config Config
}

// NewGeometry measures a curve and returns its geometry. Invalid configuration
// values are replaced by defaults.
//
// NewGeometry always returns a usable geometry. If the curve is not ready or
// has zero length, the geometry is not ready and an error wrapping
// ErrTableNotReady is returned alongside.
func NewGeometry(curve *nurbs.Curve, cfg Config) (*Geometry, error) {
	cfg = cfg.Normalized()
	table, err := Build(curve, cfg.RawSamples, cfg.TableSize, cfg.DomainEpsilon)
	g := &Geometry{curve: curve, table: table, config: cfg}
	if err != nil {
		return g, err
	}
	if !table.Ready() {
		tracer().Infof("curve %s has zero length", nurbs.AsString(curve))
		return g, fmt.Errorf("%w: curve has zero length", ErrTableNotReady)
	}
	tracer().Infof("curve of %d control points measured, length = %.4f", curve.N(), table.Length())
	return g, nil
}

// Ready is a predicate: may the geometry be queried?
func (g *Geometry) Ready() bool {
	return g != nil && g.curve.Ready() && g.table.Ready()
}

// CurveLength returns the total length of the curve, or 0 if the geometry
// is not ready.
func (g *Geometry) CurveLength() float64 {
	if !g.Ready() {
		return 0
	}
	return g.table.Length()
}

// Curve returns the underlying curve.
func (g *Geometry) Curve() *nurbs.Curve {
	if g == nil {
		return nil
	}
	return g.curve
}

// Table returns the arc length table.
func (g *Geometry) Table() *Table {
	if g == nil {
		return nil
	}
	return g.table
}

// Config returns the configuration the geometry has been built with.
func (g *Geometry) Config() Config {
	if g == nil {
		return DefaultConfig()
	}
	return g.config
}

// EvaluateAt evaluates the underlying curve at parameter u.
func (g *Geometry) EvaluateAt(u float64) (r3.Vec, error) {
	if g == nil {
		return r3.Vec{}, nurbs.ErrInsufficientControlPoints
	}
	return g.curve.EvaluateAt(u)
}

// FindParameterByDistance returns the curve parameter at distance d along
// the curve. See Table.FindParameterByDistance.
func (g *Geometry) FindParameterByDistance(d float64) float64 {
	if g == nil {
		return 0
	}
	return g.table.FindParameterByDistance(d)
}

// TransformAtDistance returns location and orientation of an object which
// has travelled distance d along the curve. The object's forward axis (+X)
// is aligned with the curve tangent, without roll.
//
// The tangent is taken from a backward difference. At distance 0 there is
// no room for a step backwards, so a forward difference is used instead:
// the object at the start faces along the curve, not along the default +X.
//
// Distances outside of [0, CurveLength()] are clamped. If the geometry is not
// ready, the identity transform and ErrTableNotReady are returned.
func (g *Geometry) TransformAtDistance(d float64) (cvcurve.Transform, error) {
	if !g.Ready() {
		tracer().Errorf("transform at distance %.4g: arc length table is not ready", d)
		return cvcurve.Identity(), ErrTableNotReady
	}
	d = cvcurve.Clamp(d, 0, g.table.Length())
	u := g.table.FindParameterByDistance(d)
	umin, umax := g.curve.Domain()
	u = cvcurve.Clamp(u, umin, umax-g.config.DomainEpsilon)
	loc, err := g.curve.EvaluateAt(u)
	if err != nil {
		return cvcurve.Identity(), err
	}
	tangent, err := g.tangent(u, loc)
	if err != nil {
		return cvcurve.Identity(), err
	}
	tracer().P("u", u).Debugf("d=%.4f: at %s, tangent %s", d, cvcurve.PointString(loc),
		cvcurve.PointString(tangent))
	return cvcurve.TransformFromDirection(loc, tangent), nil
}

// tangent estimates the unit tangent at u by a backward difference. At the
// very start of the domain, where no step backwards is possible, a forward
// difference is used. A degenerate tangent is returned as the zero vector.
func (g *Geometry) tangent(u float64, at r3.Vec) (r3.Vec, error) {
	umin, umax := g.curve.Domain()
	step := g.config.TangentStep
	back := cvcurve.Clamp(u-step, umin, umax)
	if back < u {
		p, err := g.curve.EvaluateAt(back)
		if err != nil {
			return r3.Vec{}, err
		}
		return cvcurve.SafeNormal(r3.Sub(at, p)), nil
	}
	fwd := cvcurve.Clamp(u+step, umin, umax-g.config.DomainEpsilon)
	p, err := g.curve.EvaluateAt(fwd)
	if err != nil {
		return r3.Vec{}, err
	}
	return cvcurve.SafeNormal(r3.Sub(p, at)), nil
}

// Polyline approximates the curve of a geometry by segments+1 points, spaced
// equally by distance along the curve. It returns nil if the geometry is not
// ready or segments < 1.
func Polyline(g *Geometry, segments int) []r3.Vec {
	if !g.Ready() || segments < 1 {
		return nil
	}
	length := g.table.Length()
	pts := make([]r3.Vec, 0, segments+1)
	for i := 0; i <= segments; i++ {
		u := g.table.Lookup(length * float64(i) / float64(segments))
		pts = append(pts, g.curve.Point(u))
	}
	return pts
}

package arclength

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/npillmayer/cvcurve"
	"github.com/npillmayer/cvcurve/nurbs"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func diff(t *testing.T, want, got interface{}, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Errorf("unexpected result (-want +got):\n%s", d)
	}
}

func squareCurve() *nurbs.Curve {
	return nurbs.MustNew([]r3.Vec{
		cvcurve.V(0, 0, 0),
		cvcurve.V(100, 0, 0),
		cvcurve.V(100, 100, 0),
		cvcurve.V(0, 100, 0),
	}, nil)
}

func wavyCurve() *nurbs.Curve {
	pts := make([]r3.Vec, 8)
	for i := range pts {
		pts[i] = cvcurve.V(float64(i)*50, 40*math.Sin(float64(i)), float64(i%3)*10)
	}
	return nurbs.MustNew(pts, []float64{1, 2, 1, 0.5, 1, 3, 1, 1})
}

func mustGeometry(t *testing.T, curve *nurbs.Curve) *Geometry {
	t.Helper()
	g, err := NewGeometry(curve, DefaultConfig())
	require.NoError(t, err)
	require.True(t, g.Ready())
	return g
}

func TestSquareLength(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	g := mustGeometry(t, squareCurve())
	l := g.CurveLength()
	// between end-to-end chord and open control polygon
	assert.Greater(t, l, 100.0)
	assert.Less(t, l, 300.0)
	assert.InDelta(t, 200.0, l, 1.0)
	assert.Equal(t, 101, g.Table().Len())
}

func TestTableShape(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	for _, curve := range []*nurbs.Curve{squareCurve(), wavyCurve()} {
		table, err := Build(curve, 1000, 101, 0.0001)
		require.NoError(t, err)
		require.Equal(t, 101, table.Len())
		samples := table.Samples()
		assert.Equal(t, 0.0, samples[0].Distance)
		assert.Equal(t, 0.0, samples[0].U)
		assert.Equal(t, table.Length(), samples[100].Distance)
		for i := 1; i < len(samples); i++ {
			assert.Greater(t, samples[i].Distance, samples[i-1].Distance, "distance at %d", i)
			assert.GreaterOrEqual(t, samples[i].U, samples[i-1].U, "parameter at %d", i)
			assert.InDelta(t, table.Length()*float64(i)/100, samples[i].Distance, 1e-9)
		}
		umin, umax := table.Domain()
		assert.Equal(t, 0.0, umin)
		assert.InDelta(t, 1-0.0001, umax, 1e-12)
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	curve := wavyCurve()
	t1, err := Build(curve, 1000, 101, 0.0001)
	require.NoError(t, err)
	t2, err := Build(curve, 1000, 101, 0.0001)
	require.NoError(t, err)
	assert.Equal(t, t1.Length(), t2.Length())
	diff(t, t1.Samples(), t2.Samples())
}

func TestLengthMonotoneInRawSamples(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	for _, curve := range []*nurbs.Curve{squareCurve(), wavyCurve()} {
		prev := 0.0
		for n := 10; n <= 2560; n *= 2 {
			table, err := Build(curve, n, 101, 0.0001)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, table.Length(), prev-1e-9, "length with %d raw samples", n)
			prev = table.Length()
		}
	}
}

func TestFindParameterAtEnds(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	g := mustGeometry(t, wavyCurve())
	umin, umax := g.Curve().Domain()
	assert.InDelta(t, umin, g.FindParameterByDistance(0), 1e-9)
	assert.InDelta(t, umax, g.FindParameterByDistance(g.CurveLength()), 0.001)
	assert.InDelta(t, umin, g.FindParameterByDistance(-50), 1e-9)
	assert.InDelta(t, umax, g.FindParameterByDistance(g.CurveLength()+50), 0.001)
}

func TestFindParameterIsMonotone(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	g := mustGeometry(t, wavyCurve())
	prev := -1.0
	for d := 0.0; d <= g.CurveLength(); d += g.CurveLength() / 333 {
		u := g.FindParameterByDistance(d)
		assert.GreaterOrEqual(t, u, prev)
		prev = u
	}
}

func TestLookupAgreesWithScan(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	table := mustGeometry(t, wavyCurve()).Table()
	l := table.Length()
	for i := -10; i <= 1010; i++ {
		d := l * float64(i) / 1000
		assert.InDelta(t, table.FindParameterByDistance(d), table.Lookup(d), 1e-12, "d = %g", d)
	}
	for _, s := range table.Samples() {
		assert.InDelta(t, s.U, table.Lookup(s.Distance), 1e-12)
	}
}

func TestEmptyTable(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	var table *Table
	assert.Equal(t, 0.0, table.FindParameterByDistance(10))
	assert.Equal(t, 0.0, table.Lookup(10))
	assert.False(t, table.Ready())
	table = &Table{}
	assert.Equal(t, 0.0, table.FindParameterByDistance(10))
	assert.Equal(t, 0.0, table.Lookup(10))
	assert.Equal(t, 0, table.Len())
}

func TestTransformClampsDistance(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	g := mustGeometry(t, squareCurve())
	t0, err := g.TransformAtDistance(0)
	require.NoError(t, err)
	tneg, err := g.TransformAtDistance(-50)
	require.NoError(t, err)
	diff(t, t0, tneg)
	tend, err := g.TransformAtDistance(g.CurveLength())
	require.NoError(t, err)
	tover, err := g.TransformAtDistance(g.CurveLength() + 1000)
	require.NoError(t, err)
	diff(t, tend, tover)
}

func TestTransformAlongSquare(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	g := mustGeometry(t, squareCurve())
	approx := cmpopts.EquateApprox(0, 0.001)
	start, err := g.TransformAtDistance(0)
	require.NoError(t, err)
	diff(t, cvcurve.V(0, 0, 0), start.Location, approx)
	diff(t, cvcurve.V(1, 0, 0), start.Direction(), approx)
	end, err := g.TransformAtDistance(g.CurveLength())
	require.NoError(t, err)
	assert.InDelta(t, 0, cvcurve.Dist(end.Location, cvcurve.V(0, 100, 0)), 0.1)
	diff(t, cvcurve.V(-1, 0, 0), end.Direction(), approx)
	mid, err := g.TransformAtDistance(g.CurveLength() / 2)
	require.NoError(t, err)
	// the curve is symmetric to y = 50; halfway it points straight up
	diff(t, cvcurve.V(75, 50, 0), mid.Location, cmpopts.EquateApprox(0, 0.5))
	diff(t, cvcurve.V(0, 1, 0), mid.Direction(), cmpopts.EquateApprox(0, 0.01))
}

func TestTransformAtStartFacesAlongCurve(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	// starts heading to +Y, away from the default forward axis
	curve := nurbs.MustNew([]r3.Vec{
		cvcurve.V(0, 0, 0),
		cvcurve.V(0, 100, 0),
		cvcurve.V(-100, 100, 0),
		cvcurve.V(-100, 0, 0),
	}, nil)
	g := mustGeometry(t, curve)
	start, err := g.TransformAtDistance(0)
	require.NoError(t, err)
	diff(t, cvcurve.V(0, 0, 0), start.Location, cmpopts.EquateApprox(0, 0.001))
	diff(t, cvcurve.V(0, 1, 0), start.Direction(), cmpopts.EquateApprox(0, 0.001))
}

func TestTransformFollowsTangent(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	g := mustGeometry(t, wavyCurve())
	for i := 1; i < 20; i++ {
		d := g.CurveLength() * float64(i) / 20
		tf, err := g.TransformAtDistance(d)
		require.NoError(t, err)
		ahead, err := g.TransformAtDistance(d + 0.5)
		require.NoError(t, err)
		step := cvcurve.SafeNormal(r3.Sub(ahead.Location, tf.Location))
		assert.Greater(t, r3.Dot(step, tf.Direction()), 0.95, "at d = %g", d)
		assert.InDelta(t, 1.0, r3.Norm(tf.Direction()), 1e-9)
	}
}

func TestTooFewControlPoints(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	curve := nurbs.NullCurve().Knot(cvcurve.V(0, 0, 0)).Knot(cvcurve.V(1, 0, 0)).
		Knot(cvcurve.V(1, 1, 0)).End()
	g, err := NewGeometry(curve, DefaultConfig())
	require.NotNil(t, g)
	assert.True(t, errors.Is(err, ErrTableNotReady), "err = %v", err)
	assert.True(t, errors.Is(err, nurbs.ErrInsufficientControlPoints), "err = %v", err)
	assert.False(t, g.Ready())
	assert.Equal(t, 0.0, g.CurveLength())
	tf, err := g.TransformAtDistance(10)
	assert.True(t, errors.Is(err, ErrTableNotReady))
	assert.True(t, tf.IsIdentity())
	assert.Nil(t, Polyline(g, 10))
	assert.Equal(t, 0.0, g.FindParameterByDistance(5))
}

func TestNilGeometry(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	var g *Geometry
	assert.False(t, g.Ready())
	assert.Equal(t, 0.0, g.CurveLength())
	tf, err := g.TransformAtDistance(1)
	assert.True(t, errors.Is(err, ErrTableNotReady))
	assert.True(t, tf.IsIdentity())
	_, err = g.EvaluateAt(0.5)
	assert.Error(t, err)
	assert.Equal(t, DefaultConfig(), g.Config())
}

func TestZeroLengthCurve(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	tests := []struct {
		name    string
		p       r3.Vec
		weights []float64
	}{
		{"integral", cvcurve.V(3, 4, 5), nil},
		{"fractional", cvcurve.V(0.1, 0.7, 1.0/3), nil},
		{"weighted", cvcurve.V(-17.3, 0.01, 2.9), []float64{1, 2, 0.3, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.p
			curve := nurbs.MustNew([]r3.Vec{p, p, p, p}, tt.weights)
			table, err := Build(curve, 100, 11, 0.0001)
			require.NoError(t, err)
			// measured length is rounding noise only
			assert.Less(t, table.Length(), cvcurve.Epsilon)
			assert.False(t, table.Ready())
			for _, s := range table.Samples() {
				assert.False(t, math.IsNaN(s.U), "NaN parameter in table")
				assert.InDelta(t, 0.0, s.Distance, cvcurve.Epsilon)
			}
			g, err := NewGeometry(curve, DefaultConfig())
			assert.True(t, errors.Is(err, ErrTableNotReady), "err = %v", err)
			assert.False(t, g.Ready())
			assert.Equal(t, 0.0, g.CurveLength())
			tf, err := g.TransformAtDistance(0)
			assert.True(t, errors.Is(err, ErrTableNotReady))
			assert.True(t, tf.IsIdentity(), "transform = %s", tf)
			assert.Nil(t, Polyline(g, 4))
			_, err = g.MarshalBinary()
			assert.True(t, errors.Is(err, ErrTableNotReady))
		})
	}
}

func TestSnapshotRejectsZeroLength(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	noise := 6.5e-13
	samples := []Sample{{U: 0, Distance: 0}, {U: 0.5, Distance: noise / 2}, {U: 0.9999, Distance: noise}}
	err := checkSamples(samples, noise, 0, 0.9999)
	assert.True(t, errors.Is(err, ErrInvalidSnapshot), "err = %v", err)
	samples = []Sample{{U: 0, Distance: 0}, {U: 0.9999, Distance: 10}}
	assert.NoError(t, checkSamples(samples, 10, 0, 0.9999))
}

func TestConfigNormalized(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	diff(t, DefaultConfig(), Config{}.Normalized())
	cfg := Config{RawSamples: 50, TableSize: 11, DomainEpsilon: -1, TangentStep: math.NaN()}.Normalized()
	assert.Equal(t, 50, cfg.RawSamples)
	assert.Equal(t, 11, cfg.TableSize)
	assert.Equal(t, DefaultConfig().DomainEpsilon, cfg.DomainEpsilon)
	assert.Equal(t, DefaultConfig().TangentStep, cfg.TangentStep)
	g, err := NewGeometry(squareCurve(), Config{RawSamples: 50, TableSize: 11})
	require.NoError(t, err)
	assert.Equal(t, 11, g.Table().Len())
	assert.InDelta(t, 200.0, g.CurveLength(), 2.0)
}

func TestPolyline(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	g := mustGeometry(t, squareCurve())
	pts := Polyline(g, 10)
	require.Len(t, pts, 11)
	assert.True(t, cvcurve.EqualV(pts[0], cvcurve.V(0, 0, 0)))
	assert.InDelta(t, 0, cvcurve.Dist(pts[10], cvcurve.V(0, 100, 0)), 0.1)
	for i := 1; i < len(pts); i++ {
		assert.InDelta(t, g.CurveLength()/10, cvcurve.Dist(pts[i-1], pts[i]), 0.5, "segment %d", i)
	}
	assert.Nil(t, Polyline(g, 0))
}

func TestSnapshotRoundTrip(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	g := mustGeometry(t, wavyCurve())
	data, err := g.MarshalBinary()
	require.NoError(t, err)
	h, err := UnmarshalGeometry(data)
	require.NoError(t, err)
	assert.Equal(t, g.CurveLength(), h.CurveLength())
	diff(t, g.Table().Samples(), h.Table().Samples())
	diff(t, g.Curve().Knots(), h.Curve().Knots())
	diff(t, g.Config(), h.Config())
	for i := 0; i <= 10; i++ {
		d := g.CurveLength() * float64(i) / 10
		tg, err := g.TransformAtDistance(d)
		require.NoError(t, err)
		th, err := h.TransformAtDistance(d)
		require.NoError(t, err)
		diff(t, tg, th)
	}
}

func TestSnapshotErrors(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	var empty *Geometry
	_, err := empty.MarshalBinary()
	assert.True(t, errors.Is(err, ErrTableNotReady))
	_, err = UnmarshalGeometry([]byte{0x01, 0x02, 0x03})
	assert.True(t, errors.Is(err, ErrInvalidSnapshot), "err = %v", err)
	data, err := mustGeometry(t, squareCurve()).MarshalBinary()
	require.NoError(t, err)
	_, err = UnmarshalGeometry(data[:len(data)/2])
	assert.True(t, errors.Is(err, ErrInvalidSnapshot), "err = %v", err)
}

func ExamplePolyline() {
	curve := nurbs.MustNew([]r3.Vec{
		cvcurve.V(0, 0, 0),
		cvcurve.V(100, 0, 0),
		cvcurve.V(100, 100, 0),
		cvcurve.V(0, 100, 0),
	}, nil)
	g, err := NewGeometry(curve, DefaultConfig())
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("length = %.0f\n", g.CurveLength())
	for _, p := range Polyline(g, 2) {
		fmt.Printf("(%.0f,%.0f,%.0f)\n", p.X, p.Y, p.Z)
	}
	// Output:
	// length = 200
	// (0,0,0)
	// (75,50,0)
	// (0,100,0)
}

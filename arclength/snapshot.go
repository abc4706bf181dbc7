package arclength

import (
	"fmt"
	"math"

	"github.com/fxamacker/cbor/v2"
	"github.com/npillmayer/cvcurve"
	"github.com/npillmayer/cvcurve/nurbs"
	"gonum.org/v1/gonum/spatial/r3"
)

const snapshotVersion = 1

// interpolated parameters may be off by rounding errors
const _tolerance = 1e-12

// snapshot is the wire format of a baked geometry.
type snapshot struct {
	_             struct{} `cbor:",toarray"`
	Version       int
	Degree        int
	Points        [][3]float64
	Weights       []float64
	Knots         []float64
	Samples       [][2]float64 // (u, distance)
	Length        float64
	UMin, UMax    float64
	RawSamples    int
	TableSize     int
	DomainEpsilon float64
	TangentStep   float64
}

// MarshalBinary encodes a geometry, including its arc length table, as CBOR.
// Only ready geometries may be encoded.
func (g *Geometry) MarshalBinary() ([]byte, error) {
	if !g.Ready() {
		return nil, ErrTableNotReady
	}
	s := snapshot{
		Version:       snapshotVersion,
		Degree:        g.curve.Degree(),
		Weights:       g.curve.Weights(),
		Knots:         g.curve.Knots(),
		Length:        g.table.length,
		UMin:          g.table.umin,
		UMax:          g.table.umax,
		RawSamples:    g.config.RawSamples,
		TableSize:     g.config.TableSize,
		DomainEpsilon: g.config.DomainEpsilon,
		TangentStep:   g.config.TangentStep,
	}
	for _, p := range g.curve.ControlPoints() {
		s.Points = append(s.Points, [3]float64{p.X, p.Y, p.Z})
	}
	for _, smpl := range g.table.samples {
		s.Samples = append(s.Samples, [2]float64{smpl.U, smpl.Distance})
	}
	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, err
	}
	return enc.Marshal(s)
}

// UnmarshalGeometry decodes a geometry encoded by MarshalBinary. The curve is
// not re-measured; instead the decoded table is checked for consistency.
// Errors wrap ErrInvalidSnapshot.
func UnmarshalGeometry(data []byte) (*Geometry, error) {
	mode, err := cbor.DecOptions{
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}.DecMode()
	if err != nil {
		return nil, fmt.Errorf("arclength: failed to initialize decoder: %w", err)
	}
	var s snapshot
	if err := mode.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if s.Version != snapshotVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidSnapshot, s.Version)
	}
	if s.Degree != nurbs.Degree {
		return nil, fmt.Errorf("%w: unsupported degree %d", ErrInvalidSnapshot, s.Degree)
	}
	points := make([]r3.Vec, len(s.Points))
	for i, p := range s.Points {
		points[i] = r3.Vec{X: p[0], Y: p[1], Z: p[2]}
	}
	curve, err := nurbs.NewWithKnots(points, s.Weights, s.Knots)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	samples := make([]Sample, len(s.Samples))
	for i, smpl := range s.Samples {
		samples[i] = Sample{U: smpl[0], Distance: smpl[1]}
	}
	if err := checkSamples(samples, s.Length, s.UMin, s.UMax); err != nil {
		return nil, err
	}
	cfg := Config{
		RawSamples:    s.RawSamples,
		TableSize:     s.TableSize,
		DomainEpsilon: s.DomainEpsilon,
		TangentStep:   s.TangentStep,
	}
	g := &Geometry{
		curve:  curve,
		table:  newTable(samples, s.Length, s.UMin, s.UMax),
		config: cfg.Normalized(),
	}
	tracer().Debugf("decoded geometry, length = %.4f", g.CurveLength())
	return g, nil
}

func checkSamples(samples []Sample, length, umin, umax float64) error {
	if len(samples) < 2 {
		return fmt.Errorf("%w: table has %d entries", ErrInvalidSnapshot, len(samples))
	}
	if !(length > cvcurve.Epsilon) || math.IsInf(length, 0) {
		return fmt.Errorf("%w: length %g", ErrInvalidSnapshot, length)
	}
	if !(umin <= umax) {
		return fmt.Errorf("%w: parameter range [%g,%g]", ErrInvalidSnapshot, umin, umax)
	}
	for i, s := range samples {
		if math.IsNaN(s.U) || math.IsNaN(s.Distance) || s.U < umin-_tolerance || s.U > umax+_tolerance {
			return fmt.Errorf("%w: entry %d out of range", ErrInvalidSnapshot, i)
		}
		if i > 0 && (s.U < samples[i-1].U-_tolerance || s.Distance < samples[i-1].Distance) {
			return fmt.Errorf("%w: entry %d out of order", ErrInvalidSnapshot, i)
		}
	}
	if last := samples[len(samples)-1].Distance; math.Abs(last-length) > length*1e-9 {
		return fmt.Errorf("%w: table ends at %g, length is %g", ErrInvalidSnapshot, last, length)
	}
	return nil
}

package arclength

import (
	"fmt"

	"github.com/npillmayer/cvcurve"
	"github.com/npillmayer/cvcurve/nurbs"
	"gonum.org/v1/gonum/spatial/r3"
)

// Sample is an entry of an arc length table: curve parameter U is reached
// after travelling Distance along the curve.
type Sample struct {
	U        float64
	Distance float64
}

// Table maps distances along a curve to curve parameters. Entries are
// non-decreasing in both U and Distance. Tables are immutable.
type Table struct {
	samples    []Sample
	length     float64 // from the raw pass
	umin, umax float64 // sampled parameter range
	index      *distanceIndex
}

// Build measures a curve and creates its arc length table.
//
// The raw pass evaluates the curve at rawSamples+1 evenly spaced parameters
// in [umin, umax-domainEps], where [umin, umax] is the curve's domain.
// The resample pass then creates tableSize entries at distances
// 0, 1/(tableSize-1), …, 1 times the total length.
//
// If the curve is not ready, Build returns an empty table and an error wrapping
// ErrTableNotReady. A curve of zero length (up to ε) results in a table which
// is not Ready(), but without an error. Calling Build twice for the same curve and
// arguments results in identical tables.
func Build(curve *nurbs.Curve, rawSamples, tableSize int, domainEps float64) (*Table, error) {
	if err := curve.Validate(); err != nil {
		tracer().Errorf("cannot build arc length table: %v", err)
		return &Table{}, fmt.Errorf("%w: %w", ErrTableNotReady, err)
	}
	if rawSamples < 1 {
		rawSamples = 1
	}
	if tableSize < 2 {
		tableSize = 2
	}
	umin, umax := curve.Domain()
	uend := umax - domainEps
	if uend < umin {
		uend = umin
	}
	raw, total := rawPass(curve, umin, uend, rawSamples)
	samples := resample(raw, total, tableSize)
	tracer().Debugf("arc length table: length=%.4f, %d raw samples, %d entries", total, len(raw), len(samples))
	return newTable(samples, total, umin, uend), nil
}

func newTable(samples []Sample, length, umin, umax float64) *Table {
	t := &Table{
		samples: samples,
		length:  length,
		umin:    umin,
		umax:    umax,
	}
	t.index = newDistanceIndex(samples)
	return t
}

// rawPass samples the curve at n+1 evenly spaced parameters and accumulates
// chord lengths.
func rawPass(curve *nurbs.Curve, umin, umax float64, n int) ([]Sample, float64) {
	raw := make([]Sample, 0, n+1)
	prev := curve.Point(umin)
	raw = append(raw, Sample{U: umin})
	var total float64
	for i := 1; i <= n; i++ {
		u := cvcurve.Lerp(umin, umax, float64(i)/float64(n))
		p := curve.Point(u)
		total += r3.Norm(r3.Sub(p, prev))
		raw = append(raw, Sample{U: u, Distance: total})
		prev = p
	}
	return raw, total
}

// resample picks count distances at equal fractions of total and
// interpolates their parameters from raw.
func resample(raw []Sample, total float64, count int) []Sample {
	samples := make([]Sample, 0, count)
	j := 1
	for i := 0; i < count; i++ {
		target := total * (float64(i) / float64(count-1))
		for j < len(raw)-1 && raw[j].Distance < target {
			j++
		}
		a, b := raw[j-1], raw[j]
		var alpha float64
		if d := b.Distance - a.Distance; d > 0 {
			alpha = cvcurve.Clamp((target-a.Distance)/d, 0, 1)
		}
		samples = append(samples, Sample{
			U:        cvcurve.Lerp(a.U, b.U, alpha),
			Distance: target,
		})
	}
	return samples
}

// FindParameterByDistance returns the curve parameter at distance d, found by
// a linear scan of the table and interpolation within the bracketing entries.
// Distances outside of the table are clamped to the first or last entry.
// For a table with fewer than 2 entries the result is 0.
func (t *Table) FindParameterByDistance(d float64) float64 {
	if t == nil || len(t.samples) < 2 {
		return 0
	}
	if d <= t.samples[0].Distance {
		return t.samples[0].U
	}
	for i := 1; i < len(t.samples); i++ {
		s0, s1 := t.samples[i-1], t.samples[i]
		if d >= s0.Distance && d <= s1.Distance {
			return interpolate(s0, s1, d)
		}
	}
	return t.samples[len(t.samples)-1].U
}

// Lookup returns the same result as FindParameterByDistance, but finds the
// bracketing entries in O(log n).
func (t *Table) Lookup(d float64) float64 {
	if t == nil || len(t.samples) < 2 {
		return 0
	}
	first, last := t.samples[0], t.samples[len(t.samples)-1]
	if d <= first.Distance {
		return first.U
	}
	if d >= last.Distance {
		return last.U
	}
	i0, i1 := t.index.bracket(d)
	return interpolate(t.samples[i0], t.samples[i1], d)
}

func interpolate(s0, s1 Sample, d float64) float64 {
	span := s1.Distance - s0.Distance
	if span <= 0 {
		return s0.U
	}
	return cvcurve.Lerp(s0.U, s1.U, (d-s0.Distance)/span)
}

// Length returns the total curve length measured by the raw pass.
func (t *Table) Length() float64 {
	if t == nil {
		return 0
	}
	return t.length
}

// Len returns the number of table entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.samples)
}

// Samples returns a copy of the table entries.
func (t *Table) Samples() []Sample {
	if t == nil {
		return nil
	}
	return append([]Sample(nil), t.samples...)
}

// Domain returns the parameter range covered by the table.
func (t *Table) Domain() (umin, umax float64) {
	if t == nil {
		return 0, 0
	}
	return t.umin, t.umax
}

// Ready is a predicate: may the table be queried? Tables for curves of
// length ≤ ε are not ready, as their length is rounding noise.
func (t *Table) Ready() bool {
	return t != nil && len(t.samples) >= 2 && t.length > cvcurve.Epsilon
}

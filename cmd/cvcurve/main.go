// Command cvcurve measures NURBS curves and places objects along them.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/npillmayer/cvcurve"
	"github.com/npillmayer/cvcurve/arclength"
	"github.com/npillmayer/cvcurve/component"
	"github.com/npillmayer/cvcurve/nurbs"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"gonum.org/v1/gonum/spatial/r3"
)

const usage = `cvcurve - NURBS curves, measured by arc length

Usage:
  cvcurve <command> [options]

Commands:
  length     Print the length of a curve
  sample     Print transforms at equally spaced distances
  polyline   Print a polyline approximation of a curve
  bake       Measure a curve and write the geometry to a file
  inspect    Show a baked geometry

Options (all commands):
  --samples n    raw samples for measuring (default 1000)
  --table n      entries of the arc length table (default 101)
  --trace level  trace level: Error, Info or Debug (default Error)

Options (sample):
  --step d       distance between samples (default: length/10)
  --offset x,y,z place a point relative to the curve, +X along the curve

Options (polyline):
  --segments n   number of segments (default 100)

Points files contain a JSON array of [x,y,z] control points.

Examples:
  cvcurve length points.json
  cvcurve sample points.json --step 10
  cvcurve sample points.json --step 10 --offset 0,5,0
  cvcurve polyline points.json --segments 50
  cvcurve bake points.json -o curve.cbor
  cvcurve inspect curve.cbor
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "length":
		cmdLength(args)
	case "sample":
		cmdSample(args)
	case "polyline":
		cmdPolyline(args)
	case "bake":
		cmdBake(args)
	case "inspect":
		cmdInspect(args)
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}

// options holds the command line options common to all commands, plus
// command specific ones.
type options struct {
	input    string
	output   string
	step     float64
	offset   r3.Vec
	segments int
	conf     testconfig.Conf
}

func parseOptions(cmd string, args []string) options {
	if len(args) < 1 || strings.HasPrefix(args[0], "-") {
		fmt.Fprintf(os.Stderr, "Usage: cvcurve %s <input> [options]\n", cmd)
		os.Exit(1)
	}
	opts := options{
		input:    args[0],
		segments: 100,
		conf:     testconfig.Conf{},
	}
	level := "Error"
	next := func(i *int) string {
		if *i+1 >= len(args) {
			fmt.Fprintf(os.Stderr, "Missing value for %s\n", args[*i])
			os.Exit(1)
		}
		*i++
		return args[*i]
	}
	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "-o", "--output":
			opts.output = next(&i)
		case "--step":
			opts.step = mustFloat(next(&i))
		case "--offset":
			opts.offset = mustVec(next(&i))
		case "--segments":
			opts.segments = mustInt(next(&i))
		case "--samples":
			opts.conf[component.KeyRawSamples] = next(&i)
		case "--table":
			opts.conf[component.KeyTableSize] = next(&i)
		case "--trace":
			level = next(&i)
		default:
			fmt.Fprintf(os.Stderr, "Unknown option: %s\n", args[i])
			os.Exit(1)
		}
	}
	initTracing(opts.conf, level)
	return opts
}

func initTracing(conf testconfig.Conf, level string) {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf["tracing.adapter"] = "go"
	for _, key := range []string{"root", "cvcurve", "cvcurve.nurbs", "cvcurve.arclength", "cvcurve.component"} {
		conf["trace."+key] = level
	}
	if err := trace2go.ConfigureRoot(conf, "trace"); err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring tracing: %v\n", err)
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())
}

func mustFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Not a number: %s\n", s)
		os.Exit(1)
	}
	return f
}

func mustInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Not an integer: %s\n", s)
		os.Exit(1)
	}
	return n
}

// mustVec parses a point written as x,y,z.
func mustVec(s string) r3.Vec {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		fmt.Fprintf(os.Stderr, "Not a point x,y,z: %s\n", s)
		os.Exit(1)
	}
	return r3.Vec{
		X: mustFloat(strings.TrimSpace(parts[0])),
		Y: mustFloat(strings.TrimSpace(parts[1])),
		Z: mustFloat(strings.TrimSpace(parts[2])),
	}
}

// loadPoints reads a JSON array of [x,y,z] triples.
func loadPoints(path string) (component.Points, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var triples [][3]float64
	if err := json.Unmarshal(data, &triples); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	pts := make(component.Points, len(triples))
	for i, t := range triples {
		pts[i] = r3.Vec{X: t[0], Y: t[1], Z: t[2]}
	}
	return pts, nil
}

// build reads the input points and measures the curve.
func build(opts options) *component.Component {
	pts, err := loadPoints(opts.input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", opts.input, err)
		os.Exit(1)
	}
	c := component.New(pts, component.ConfigFrom(opts.conf))
	if err := c.Rebuild(); err != nil {
		fmt.Fprintf(os.Stderr, "Error building curve from %s: %v\n", opts.input, err)
		os.Exit(1)
	}
	return c
}

func cmdLength(args []string) {
	opts := parseOptions("length", args)
	c := build(opts)
	fmt.Printf("%.4f\n", c.CurveLength())
}

func cmdSample(args []string) {
	opts := parseOptions("sample", args)
	c := build(opts)
	l := c.CurveLength()
	step := opts.step
	if step <= 0 {
		step = l / 10
	}
	local := cvcurve.Translation(opts.offset)
	n := int(l/step + cvcurve.Epsilon)
	for i := 0; i <= n; i++ {
		d := float64(i) * step
		fmt.Printf("%10.4f  %s\n", d, c.PlaceAtDistance(d, local))
	}
	if d := float64(n) * step; l-d > cvcurve.Epsilon {
		fmt.Printf("%10.4f  %s\n", l, c.PlaceAtDistance(l, local))
	}
}

func cmdPolyline(args []string) {
	opts := parseOptions("polyline", args)
	c := build(opts)
	for _, p := range c.Polyline(opts.segments) {
		fmt.Printf("%g %g %g\n", p.X, p.Y, p.Z)
	}
}

func cmdBake(args []string) {
	opts := parseOptions("bake", args)
	c := build(opts)
	output := opts.output
	if output == "" {
		output = strings.TrimSuffix(opts.input, filepath.Ext(opts.input)) + ".cbor"
	}
	data, err := c.Geometry().MarshalBinary()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding geometry: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", output, err)
		os.Exit(1)
	}
	fmt.Printf("Written: %s\n", output)
}

func cmdInspect(args []string) {
	opts := parseOptions("inspect", args)
	data, err := os.ReadFile(opts.input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", opts.input, err)
		os.Exit(1)
	}
	g, err := arclength.UnmarshalGeometry(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding %s: %v\n", opts.input, err)
		os.Exit(1)
	}
	cfg := g.Config()
	fmt.Printf("Curve:         %s\n", nurbs.AsString(g.Curve()))
	fmt.Printf("Degree:        %d\n", g.Curve().Degree())
	fmt.Printf("Length:        %.4f\n", g.CurveLength())
	fmt.Printf("Table entries: %d (from %d raw samples)\n", g.Table().Len(), cfg.RawSamples)
	umin, umax := g.Table().Domain()
	fmt.Printf("Parameters:    [%g, %g]\n", umin, umax)
}

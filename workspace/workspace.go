// Package workspace samples a robot's reachable volume by ray-casting from
// the end-effector position at the mid-limit configuration along a
// Fibonacci-sphere direction set, binary-searching each ray's boundary via
// the ik package. The step-drive-and-record shape (advance a parameter,
// record a boundary sample, continue) follows the load-path driver idiom
// finite-element material drivers use for strain increments, generalized
// to a ray-search step.
package workspace

import (
	"context"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/rigidkin/rbd/ik"
	"github.com/rigidkin/rbd/kinematics"
	mdl "github.com/rigidkin/rbd/model"
)

// Options configures Sample. Zero value is not usable directly; use
// DefaultOptions.
type Options struct {
	NumRays   int
	Epsilon   float64
	MaxIKIter int
}

// DefaultOptions returns the engine's documented defaults.
func DefaultOptions() Options {
	return Options{NumRays: 500, Epsilon: 1e-3, MaxIKIter: 100}
}

// Progress optionally reports sampling progress; Sample calls Ray after
// every completed ray (accepted or not) if non-nil.
type Progress struct {
	Ray func(done, total int)
}

// BBox is an axis-aligned bounding box.
type BBox struct {
	Min, Max mgl64.Vec3
}

// Result is the outcome of a Sample call.
type Result struct {
	Points      []mgl64.Vec3
	BBox        BBox
	SuccessRate float64
}

// FibonacciDirections returns n near-uniform unit vectors on the sphere via
// the golden-angle spiral: y = 1 - 2i/(n-1), r = sqrt(1-y^2), theta = i*phi,
// d = (r*cos(theta), y, r*sin(theta)).
func FibonacciDirections(n int) []mgl64.Vec3 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []mgl64.Vec3{{0, 1, 0}}
	}
	goldenAngle := math.Pi * (3 - math.Sqrt(5))
	dirs := make([]mgl64.Vec3, n)
	for i := 0; i < n; i++ {
		y := 1 - 2*float64(i)/float64(n-1)
		r := math.Sqrt(math.Max(0, 1-y*y))
		theta := float64(i) * goldenAngle
		dirs[i] = mgl64.Vec3{r * math.Cos(theta), y, r * math.Sin(theta)}
	}
	return dirs
}

// Sample performs the five-step workspace reachability scan documented on
// the package: locate the mid-limit origin, estimate max reach, generate
// rays, binary-search each ray's boundary, then collect a bounding box and
// success rate. Returns (Result{}, false) if the origin itself is
// unreachable (a malformed model under this engine's own IK).
func Sample(ctx context.Context, m *mdl.Model, d *mdl.Data, opts Options, prog *Progress) (Result, bool) {
	qMid := midpointConfig(m)
	if err := kinematics.ForwardKinematics(m, d, qMid); err != nil {
		return Result{}, false
	}
	ee := m.LastLeaf()
	origin := d.OMi[ee].T

	reachSpan := 0.0
	for j := 1; j < m.NJoints(); j++ {
		jt := &m.Joints[j]
		if jt.NVJ == 0 {
			continue
		}
		reachSpan += math.Abs(boundedUpper(jt) - boundedLower(jt))
	}
	r0 := math.Max(2.0, 0.5*reachSpan)

	ikOpts := ik.DefaultOptions()
	ikOpts.MaxIter = opts.MaxIKIter
	ikOpts.EeJoint = ee

	reachable := func(radius float64, dir mgl64.Vec3) bool {
		target := origin.Add(dir.Mul(radius))
		res, err := ik.Solve(m, d, target, qMid, ikOpts)
		return err == nil && res.Converged
	}
	if !reachable(0, mgl64.Vec3{}) {
		return Result{}, false
	}

	dirs := FibonacciDirections(opts.NumRays)
	points := make([]mgl64.Vec3, 0, len(dirs))
	accepted := 0
rays:
	for i, dir := range dirs {
		select {
		case <-ctx.Done():
			break rays
		default:
		}
		p, ok := binarySearchBoundary(origin, dir, r0, opts.Epsilon, reachable)
		if ok {
			points = append(points, p)
			accepted++
		}
		if prog != nil && prog.Ray != nil {
			prog.Ray(i+1, len(dirs))
		}
	}

	result := Result{
		Points:      points,
		BBox:        boundingBox(points),
		SuccessRate: float64(accepted) / float64(len(dirs)),
	}
	return result, true
}

// binarySearchBoundary doubles outward from r0 while reachable, then
// bisects to locate the boundary along dir to within epsilon.
func binarySearchBoundary(origin, dir mgl64.Vec3, r0, epsilon float64, reachable func(float64, mgl64.Vec3) bool) (mgl64.Vec3, bool) {
	low, high := 0.0, r0
	for tries := 0; tries < 10 && reachable(high, dir); tries++ {
		high *= 2
	}
	for iter := 0; high-low > epsilon && iter < 50; iter++ {
		mid := (low + high) / 2
		if reachable(mid, dir) {
			low = mid
		} else {
			high = mid
		}
	}
	return origin.Add(dir.Mul(low)), true
}

func boundingBox(points []mgl64.Vec3) BBox {
	if len(points) == 0 {
		return BBox{}
	}
	min, max := points[0], points[0]
	for _, p := range points[1:] {
		min = componentMin(min, p)
		max = componentMax(max, p)
	}
	return BBox{Min: min, Max: max}
}

func componentMin(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{math.Min(a.X(), b.X()), math.Min(a.Y(), b.Y()), math.Min(a.Z(), b.Z())}
}

func componentMax(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{math.Max(a.X(), b.X()), math.Max(a.Y(), b.Y()), math.Max(a.Z(), b.Z())}
}

func boundedLower(jt *mdl.Joint) float64 {
	if math.IsInf(jt.Lower, -1) {
		return -math.Pi
	}
	return jt.Lower
}

func boundedUpper(jt *mdl.Joint) float64 {
	if math.IsInf(jt.Upper, 1) {
		return math.Pi
	}
	return jt.Upper
}

// midpointConfig returns q set to the midpoint of each joint's limits
// (falling back to (-pi, pi) for unbounded joints), the workspace sampler's
// reference configuration.
func midpointConfig(m *mdl.Model) []float64 {
	q := mdl.Neutral(m)
	for j := 1; j < m.NJoints(); j++ {
		jt := &m.Joints[j]
		switch jt.Type {
		case mdl.Revolute, mdl.Prismatic:
			q[jt.IdxQ] = (boundedLower(jt) + boundedUpper(jt)) / 2
		}
	}
	return q
}

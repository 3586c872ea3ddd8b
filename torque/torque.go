// Package torque searches a robot's joint-limit box for the worst-case
// generalized torque seen by RNEA, combining exhaustive corner sampling,
// a jittered stratified grid, and a fixed library of hand-picked patterns.
// The three-phase sweep-and-record idiom follows the multi-pass load-case
// driver shape of finite-element material drivers, generalized from
// stress/strain envelopes to a joint-torque envelope.
package torque

import (
	"math"
	"math/rand"

	"github.com/rigidkin/rbd/kinematics"
	mdl "github.com/rigidkin/rbd/model"
)

// NewSeededSource returns a PRNG seeded deterministically, the sampler's
// documented default (seed 0) when Options.RandSource is left nil.
func NewSeededSource(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Options configures Sample. A nil RandSource falls back to NewSeededSource(0).
type Options struct {
	RandSource *rand.Rand
}

// Result is the outcome of a Sample call.
type Result struct {
	Max     []float64   // per-joint max |tau| observed across every sample
	At      [][]float64 // configuration achieving Max[j], one q per joint
	Current []float64   // tau(q, v, a) at the caller-supplied configuration
	Names   []string    // joint names, indexed by velocity index
}

// Sample evaluates tau(q_s) = rnea(q_s, v, a) over the corner, stratified-grid,
// and fixed-pattern families described on the package, and returns the
// per-joint worst case seen. v and a are shared by every sample.
func Sample(m *mdl.Model, d *mdl.Data, q, v, a []float64, opts Options) (Result, error) {
	tau, err := kinematics.Rnea(m, d, q, v, a)
	if err != nil {
		return Result{}, err
	}
	current := append([]float64(nil), tau...)

	rng := opts.RandSource
	if rng == nil {
		rng = NewSeededSource(0)
	}

	bounds := jointBounds(m)
	names := make([]string, m.NV)
	for j := 1; j < m.NJoints(); j++ {
		jt := &m.Joints[j]
		if jt.NVJ == 1 {
			names[jt.IdxV] = jt.Name
		}
	}

	res := Result{
		Max:     make([]float64, m.NV),
		At:      make([][]float64, m.NV),
		Current: current,
		Names:   names,
	}

	var sampleErr error
	evalAt := func(qs []float64) {
		ts, err := kinematics.Rnea(m, d, qs, v, a)
		if err != nil {
			if sampleErr == nil {
				sampleErr = err
			}
			return
		}
		for j, t := range ts {
			if math.Abs(t) > res.Max[j] || res.At[j] == nil {
				res.Max[j] = math.Abs(t)
				res.At[j] = append([]float64(nil), qs...)
			}
		}
	}

	evalAt(q) // seeds max/at with the current configuration so max always dominates current
	for _, angles := range cornerSamples(m, bounds) {
		evalAt(anglesToQ(m, angles))
	}
	for _, angles := range stratifiedSamples(m, bounds, rng) {
		evalAt(anglesToQ(m, angles))
	}
	for _, angles := range fixedPatternSamples(m, bounds) {
		evalAt(anglesToQ(m, angles))
	}
	if sampleErr != nil {
		return Result{}, sampleErr
	}

	return res, nil
}

// anglesToQ expands a per-velocity-index angle vector (as produced by the
// sampling families below) into a full nq-length configuration, writing each
// joint's sampled value at its IdxQ and, for Continuous joints, encoding it
// as the unit (cos,sin) pair the kernel expects rather than a raw angle.
func anglesToQ(m *mdl.Model, angles []float64) []float64 {
	q := make([]float64, m.NQ)
	for j := 1; j < m.NJoints(); j++ {
		jt := &m.Joints[j]
		if jt.NVJ == 0 {
			continue
		}
		theta := angles[jt.IdxV]
		if jt.Type == mdl.Continuous {
			q[jt.IdxQ], q[jt.IdxQ+1] = math.Cos(theta), math.Sin(theta)
		} else {
			q[jt.IdxQ] = theta
		}
	}
	return q
}

type bound struct{ lower, upper float64 }

// jointBounds returns one [lower, upper] pair per velocity index, defaulting
// unbounded revolute/prismatic joints to [-pi, pi].
func jointBounds(m *mdl.Model) []bound {
	b := make([]bound, m.NV)
	for j := 1; j < m.NJoints(); j++ {
		jt := &m.Joints[j]
		if jt.NVJ == 0 {
			continue
		}
		lower, upper := jt.Lower, jt.Upper
		if math.IsInf(lower, -1) {
			lower = -math.Pi
		}
		if math.IsInf(upper, 1) {
			upper = math.Pi
		}
		b[jt.IdxV] = bound{lower, upper}
	}
	return b
}

// cornerSamples generates all 2^min(nv,6) sign patterns over the first up to
// six joints, with every other joint pinned to its lower limit.
func cornerSamples(m *mdl.Model, bounds []bound) [][]float64 {
	nv := m.NV
	nCorner := nv
	if nCorner > 6 {
		nCorner = 6
	}
	n := 1 << uint(nCorner)
	out := make([][]float64, 0, n)
	for mask := 0; mask < n; mask++ {
		q := make([]float64, nv)
		for j := 0; j < nv; j++ {
			q[j] = bounds[j].lower
		}
		for j := 0; j < nCorner; j++ {
			if mask&(1<<uint(j)) != 0 {
				q[j] = bounds[j].upper
			}
		}
		out = append(out, q)
	}
	return out
}

// stratifiedSamples draws 300 random configurations; sample i picks stratum
// s = i/30 for every joint and jitters within it.
func stratifiedSamples(m *mdl.Model, bounds []bound, rng *rand.Rand) [][]float64 {
	nv := m.NV
	const n = 300
	out := make([][]float64, 0, n)
	for i := 0; i < n; i++ {
		s := float64(i / 30)
		q := make([]float64, nv)
		for j := 0; j < nv; j++ {
			jitter := rng.Float64() - 0.5
			span := bounds[j].upper - bounds[j].lower
			q[j] = bounds[j].lower + (s+0.5+jitter)*span/10
		}
		out = append(out, q)
	}
	return out
}

// fixedPatternSamples generates the 12 deterministic patterns documented on
// the package: all-lower, all-upper, two alternating lower/upper patterns,
// uniform at 25/50/75% of range, two alternating 25<->75 patterns, and three
// "thirds" patterns keyed on j mod 3.
func fixedPatternSamples(m *mdl.Model, bounds []bound) [][]float64 {
	nv := m.NV
	at := func(frac float64) []float64 {
		q := make([]float64, nv)
		for j := 0; j < nv; j++ {
			q[j] = bounds[j].lower + frac*(bounds[j].upper-bounds[j].lower)
		}
		return q
	}
	alternating := func(evenFrac, oddFrac float64) []float64 {
		q := make([]float64, nv)
		for j := 0; j < nv; j++ {
			frac := evenFrac
			if j%2 == 1 {
				frac = oddFrac
			}
			q[j] = bounds[j].lower + frac*(bounds[j].upper-bounds[j].lower)
		}
		return q
	}
	thirds := func(k int) []float64 {
		q := make([]float64, nv)
		for j := 0; j < nv; j++ {
			frac := 0.0
			if j%3 == k {
				frac = 1.0
			}
			q[j] = bounds[j].lower + frac*(bounds[j].upper-bounds[j].lower)
		}
		return q
	}
	return [][]float64{
		at(0.0), at(1.0),
		alternating(0.0, 1.0), alternating(1.0, 0.0),
		at(0.25), at(0.5), at(0.75),
		alternating(0.25, 0.75), alternating(0.75, 0.25),
		thirds(0), thirds(1), thirds(2),
	}
}

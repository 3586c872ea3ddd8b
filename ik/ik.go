// Package ik implements a position-only damped-least-squares inverse
// kinematics solver built on the kinematics package's forward kinematics
// and joint Jacobian. The iterate-FK/Jacobian/step loop shape follows
// viamrobotics-rdk's jacobian-based IK solver; the {q, converged, err,
// iters} result shape follows the small Go IK solvers that report
// convergence state alongside the answer (e.g. la3lma-goik-ga).
package ik

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/rigidkin/rbd/errs"
	"github.com/rigidkin/rbd/kinematics"
	"github.com/rigidkin/rbd/la"
	mdl "github.com/rigidkin/rbd/model"
)

// Options configures Solve. Zero value is not usable directly; use
// DefaultOptions.
type Options struct {
	Tol           float64
	MaxIter       int
	Damping       float64
	Step          float64
	EeJoint       int // -1 selects Model.LastLeaf()
	ClampToLimits bool
}

// DefaultOptions returns the engine's documented defaults.
func DefaultOptions() Options {
	return Options{Tol: 1e-4, MaxIter: 200, Damping: 1e-6, Step: 0.5, EeJoint: -1}
}

// Result is the outcome of a Solve call.
type Result struct {
	Q         []float64
	Converged bool
	Err       float64 // final ‖position error‖; +Inf if the loop broke before any evaluation
	Iters     int
}

// Solve drives q from q0 toward a configuration whose end-effector
// translation matches target, using damped-least-squares steps on the
// translational block of the end-effector's LOCAL_WORLD_ALIGNED Jacobian.
// Internal numerical failures (singular damped Jacobian, non-finite step)
// downgrade to Converged=false rather than propagating as an error; only a
// structural input mismatch (wrong q0 length, invalid ee joint) is returned
// as an error.
func Solve(m *mdl.Model, d *mdl.Data, target mgl64.Vec3, q0 []float64, opts Options) (Result, error) {
	if len(q0) != m.NQ {
		return Result{}, &errs.DimensionMismatch{Arg: "q0", Expected: m.NQ, Got: len(q0)}
	}
	ee := opts.EeJoint
	if ee < 0 {
		ee = m.LastLeaf()
	}
	if ee < 0 || ee >= m.NJoints() {
		return Result{}, &errs.InvalidJoint{Index: ee}
	}

	q := append([]float64(nil), q0...)
	res := Result{Q: q, Err: math.Inf(1)}

	for iter := 0; iter < opts.MaxIter; iter++ {
		res.Iters = iter + 1
		if err := kinematics.ForwardKinematics(m, d, q); err != nil {
			return res, nil
		}
		p := d.OMi[ee].T
		errVec := p.Sub(target)
		errNorm := errVec.Len()
		res.Err = errNorm
		if errNorm < opts.Tol {
			res.Converged = true
			return res, nil
		}

		jac, jerr := kinematics.JointJacobian(m, d, q, ee, kinematics.LocalWorldAligned)
		if jerr != nil {
			return res, nil
		}
		jt := jac[0:3]

		pinv, ok := la.DampedPseudoInverseRight(jt, opts.Damping)
		if !ok {
			return res, nil
		}

		dq := la.NewVector(m.NV)
		la.MatVecMul(dq, 1, pinv, errVec[:])
		if !finiteSlice(dq) {
			return res, nil
		}

		applyStep(m, q, dq, opts.Step)
		if opts.ClampToLimits {
			clampToLimits(m, q)
		}
		kinematics.Renormalize(m, q)
	}
	return res, nil
}

func finiteSlice(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// applyStep updates q by -step*dq per velocity index, mapping the
// velocity-space update onto each joint's configuration slot (the scalar
// angle/displacement for revolute/prismatic, or the angle underlying the
// (cos,sin) pair for continuous).
func applyStep(m *mdl.Model, q, dq []float64, step float64) {
	for j := 1; j < m.NJoints(); j++ {
		jt := &m.Joints[j]
		if jt.NVJ == 0 {
			continue
		}
		delta := step * dq[jt.IdxV]
		switch jt.Type {
		case mdl.Continuous:
			theta := math.Atan2(q[jt.IdxQ+1], q[jt.IdxQ]) - delta
			q[jt.IdxQ], q[jt.IdxQ+1] = math.Cos(theta), math.Sin(theta)
		default:
			q[jt.IdxQ] -= delta
		}
	}
}

func clampToLimits(m *mdl.Model, q []float64) {
	for j := 1; j < m.NJoints(); j++ {
		jt := &m.Joints[j]
		if jt.Type != mdl.Revolute && jt.Type != mdl.Prismatic {
			continue
		}
		if q[jt.IdxQ] < jt.Lower {
			q[jt.IdxQ] = jt.Lower
		}
		if q[jt.IdxQ] > jt.Upper {
			q[jt.IdxQ] = jt.Upper
		}
	}
}

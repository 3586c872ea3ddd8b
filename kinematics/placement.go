// Package kinematics implements the kinematics/dynamics kernel: forward
// kinematics, RNEA, ABA, CRBA, energies, center of mass, and joint
// Jacobians. All operations are pure functions of (Model, Data, inputs);
// Data is overwritten on every call. The per-joint forward/backward
// recursive-pass structure mirrors the Update-then-assemble shape that
// finite-element codes use for per-element state updates followed by
// domain-wide residual assembly, generalized from finite elements in a
// mesh to joints in a kinematic tree; the physics itself is the textbook
// Featherstone spatial-algebra formulation.
package kinematics

import (
	"math"

	"github.com/rigidkin/rbd/errs"
	mdl "github.com/rigidkin/rbd/model"
	"github.com/rigidkin/rbd/spatial"
)

// jointPlacement computes jMi, the placement of joint j's frame relative to
// its own parent-placement-adjusted rest pose, from the joint-type formula
// and the relevant slice of q.
func jointPlacement(j *mdl.Joint, q []float64) spatial.SE3 {
	switch j.Type {
	case mdl.Revolute:
		theta := q[j.IdxQ]
		return spatial.SE3{R: spatial.RotAxis(j.Axis, theta)}
	case mdl.Continuous:
		cosT, sinT := q[j.IdxQ], q[j.IdxQ+1]
		return spatial.SE3{R: spatial.RotAxisCosSin(j.Axis, cosT, sinT)}
	case mdl.Prismatic:
		d := q[j.IdxQ]
		return spatial.Translation(j.Axis.Mul(d))
	default: // Fixed
		return spatial.Identity()
	}
}

func checkFiniteSlice(name string, v []float64) error {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return &errs.InvalidInput{Reason: name + " contains a non-finite value"}
		}
	}
	return nil
}

func checkQDim(m *mdl.Model, q []float64) error {
	if len(q) != m.NQ {
		return &errs.DimensionMismatch{Arg: "q", Expected: m.NQ, Got: len(q)}
	}
	return checkFiniteSlice("q", q)
}

func checkVDim(m *mdl.Model, v []float64, arg string) error {
	if len(v) != m.NV {
		return &errs.DimensionMismatch{Arg: arg, Expected: m.NV, Got: len(v)}
	}
	return checkFiniteSlice(arg, v)
}

// ForwardKinematics walks the joint tree root-to-leaf, filling Data.OMi
// (world placement) and Data.LiMi (placement relative to parent) for every
// joint. Continuous-joint (cos,sin) slots are renormalized to unit length in
// place before use. Postcondition: Data.OMi is valid for all joints at this q.
func ForwardKinematics(m *mdl.Model, d *mdl.Data, q []float64) error {
	if err := checkQDim(m, q); err != nil {
		return err
	}
	renormalizeContinuous(m, q)
	d.OMi[0] = spatial.Identity()
	d.LiMi[0] = spatial.Identity()
	for j := 1; j < m.NJoints(); j++ {
		jt := &m.Joints[j]
		jMi := jointPlacement(jt, q)
		liMi := jt.Placement.Compose(jMi)
		d.LiMi[j] = liMi
		d.OMi[j] = d.OMi[jt.Parent].Compose(liMi)
	}
	return nil
}

// JointPlacement returns the world placement of joint j as computed by the
// most recent ForwardKinematics call on this Data.
func JointPlacement(m *mdl.Model, d *mdl.Data, j int) (spatial.SE3, error) {
	if j < 0 || j >= m.NJoints() {
		return spatial.SE3{}, &errs.InvalidJoint{Index: j}
	}
	return d.OMi[j], nil
}

// Frame selects how a Jacobian's columns are expressed.
type Frame int

const (
	World Frame = iota
	Local
	LocalWorldAligned
)

func renormalizeContinuous(m *mdl.Model, q []float64) {
	for j := 1; j < m.NJoints(); j++ {
		jt := &m.Joints[j]
		if jt.Type == mdl.Continuous {
			c, s := q[jt.IdxQ], q[jt.IdxQ+1]
			n := math.Hypot(c, s)
			if n > 1e-300 {
				q[jt.IdxQ], q[jt.IdxQ+1] = c/n, s/n
			} else {
				q[jt.IdxQ], q[jt.IdxQ+1] = 1, 0
			}
		}
	}
}

// Renormalize renormalizes every continuous joint's (cos,sin) slot to unit
// length in place, per §4.E's "configuration slots for continuous joints
// are renormalized to unit (cos,sin) on entry" edge policy.
func Renormalize(m *mdl.Model, q []float64) {
	renormalizeContinuous(m, q)
}

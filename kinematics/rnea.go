package kinematics

import (
	mdl "github.com/rigidkin/rbd/model"
	"github.com/rigidkin/rbd/spatial"
)

// Rnea computes inverse dynamics: the joint torques/forces required to
// produce acceleration a at configuration q with velocity v, including
// gravity (read from Model at call time, never captured at build). Forward
// pass accumulates spatial velocity and classical acceleration along the
// tree, seeding the root's acceleration with -gravity so gravity loading
// falls out of the same recursion as inertial loading. Backward pass
// computes each joint's spatial force and extracts τ_j = Sⱼᵀfⱼ. O(nv).
func Rnea(m *mdl.Model, d *mdl.Data, q, v, a []float64) ([]float64, error) {
	if err := checkQDim(m, q); err != nil {
		return nil, err
	}
	if err := checkVDim(m, v, "v"); err != nil {
		return nil, err
	}
	if err := checkVDim(m, a, "a"); err != nil {
		return nil, err
	}
	if err := ForwardKinematics(m, d, q); err != nil {
		return nil, err
	}

	d.V[0] = spatial.Motion{}
	d.A[0] = spatial.Motion{Linear: m.Gravity.Mul(-1)}

	for j := 1; j < m.NJoints(); j++ {
		jt := &m.Joints[j]
		vj := d.S[j].Apply(velSlice(jt, v))
		parentV := d.LiMi[j].Inverse().ActMotion(d.V[jt.Parent])
		d.V[j] = parentV.Add(vj)

		parentA := d.LiMi[j].Inverse().ActMotion(d.A[jt.Parent])
		aj := d.S[j].Apply(velSlice(jt, a))
		d.A[j] = parentA.Add(aj).Add(d.V[j].CrossMotion(vj))
	}

	for j := 1; j < m.NJoints(); j++ {
		inertia := m.Links[m.Joints[j].Child].Inertia
		d.F[j] = inertia.Act(d.A[j]).Add(d.V[j].CrossForce(inertia.Act(d.V[j])))
	}

	tau := make([]float64, m.NV)
	for j := m.NJoints() - 1; j >= 1; j-- {
		jt := &m.Joints[j]
		cols := d.S[j].TransposeForce(d.F[j])
		copy(tau[jt.IdxV:jt.IdxV+jt.NVJ], cols)
		if jt.Parent != 0 {
			d.F[jt.Parent] = d.F[jt.Parent].Add(d.LiMi[j].ActForce(d.F[j]))
		}
	}
	return tau, nil
}

// velSlice returns the slice of v or a corresponding to joint jt's
// velocity-space degrees of freedom (length 0 or 1 for every joint type
// this engine supports).
func velSlice(jt *mdl.Joint, v []float64) []float64 {
	return v[jt.IdxV : jt.IdxV+jt.NVJ]
}

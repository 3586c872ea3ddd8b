package kinematics

import (
	"math"

	"github.com/rigidkin/rbd/errs"
	"github.com/rigidkin/rbd/la"
	mdl "github.com/rigidkin/rbd/model"
	"github.com/rigidkin/rbd/spatial"
)

// Aba computes forward dynamics: the joint acceleration a that results
// from applying joint force/torque τ at configuration q with velocity v.
// Three passes: (1) forward velocities, convective accelerations c_j, and
// bias forces; (2) backward articulated-inertia and bias-force
// accumulation with the per-joint Schur-complement update, including the
// Yᴬ*c_j term the convective acceleration contributes to the propagated
// bias force; (3) forward joint-acceleration recovery, re-adding c_j
// before solving for qdd. O(nv). Returns SingularArticulatedInertia if any
// joint's D is at or below machine epsilon.
func Aba(m *mdl.Model, d *mdl.Data, q, v, tau []float64) ([]float64, error) {
	if err := checkQDim(m, q); err != nil {
		return nil, err
	}
	if err := checkVDim(m, v, "v"); err != nil {
		return nil, err
	}
	if err := checkVDim(m, tau, "tau"); err != nil {
		return nil, err
	}
	if err := ForwardKinematics(m, d, q); err != nil {
		return nil, err
	}

	// Pass 1: velocities, convective accelerations c = v × (S*qdot), and
	// bias forces p = v ×* (I*v).
	d.V[0] = spatial.Motion{}
	bias := make([]spatial.Force, m.NJoints())
	for j := 1; j < m.NJoints(); j++ {
		jt := &m.Joints[j]
		vj := d.S[j].Apply(velSlice(jt, v))
		parentV := d.LiMi[j].Inverse().ActMotion(d.V[jt.Parent])
		d.V[j] = parentV.Add(vj)
		d.AbaC[j] = d.V[j].CrossMotion(vj)
		inertia := m.Links[jt.Child].Inertia
		bias[j] = d.V[j].CrossForce(inertia.Act(d.V[j]))
		d.AbaYA[j] = spatial.FromInertia(inertia)
		d.AbaPA[j] = bias[j]
	}

	// Pass 2: backward articulated-inertia and bias-force accumulation.
	for j := m.NJoints() - 1; j >= 1; j-- {
		jt := &m.Joints[j]
		if jt.NVJ == 1 {
			s := d.S[j][0]
			uVec := d.AbaYA[j].ColumnOf(s) // U = Yᴬ*S, as a raw 6-vector
			uForce := spatial.ForceFromVec6(uVec)
			dScalar := s.Linear.Dot(uForce.Linear) + s.Angular.Dot(uForce.Angular) // D = Sᵀ*Yᴬ*S
			if math.Abs(dScalar) <= la.Epsilon {
				return nil, &errs.SingularArticulatedInertia{Joint: j}
			}
			uScalar := tau[jt.IdxV] - (s.Linear.Dot(d.AbaPA[j].Linear) + s.Angular.Dot(d.AbaPA[j].Angular)) // u = τ - Sᵀ*pᴬ
			d.AbaU[j] = uVec
			d.AbaD[j] = dScalar
			d.AbaU1[j] = uScalar

			if jt.Parent != 0 {
				reduced := d.AbaYA[j].SubRank1(uVec, 1.0/dScalar)
				reducedInParent := transformMat6(reduced, d.LiMi[j])
				d.AbaYA[jt.Parent] = addYA(d.AbaYA, jt.Parent, reducedInParent)

				biasCorrection := uForce.Scale(uScalar / dScalar)
				pa := d.AbaPA[j].Add(biasCorrection).Add(reduced.Act(d.AbaC[j]))
				d.AbaPA[jt.Parent] = d.AbaPA[jt.Parent].Add(d.LiMi[j].ActForce(pa))
			}
		} else {
			// fixed joint: articulated inertia/bias pass straight through
			if jt.Parent != 0 {
				inParent := transformMat6(d.AbaYA[j], d.LiMi[j])
				d.AbaYA[jt.Parent] = addYA(d.AbaYA, jt.Parent, inParent)
				d.AbaPA[jt.Parent] = d.AbaPA[jt.Parent].Add(d.LiMi[j].ActForce(d.AbaPA[j]))
			}
		}
	}

	// Pass 3: forward acceleration recovery. aPrime = X*A_parent + c_j is
	// the joint's acceleration before its own qdd contribution.
	d.A[0] = spatial.Motion{Linear: m.Gravity.Mul(-1)}
	acc := make([]float64, m.NV)
	for j := 1; j < m.NJoints(); j++ {
		jt := &m.Joints[j]
		aPrime := d.LiMi[j].Inverse().ActMotion(d.A[jt.Parent]).Add(d.AbaC[j])
		if jt.NVJ == 1 {
			s := d.S[j][0]
			uVec := spatial.ForceFromVec6(d.AbaU[j])
			uDotA := uVec.Linear.Dot(aPrime.Linear) + uVec.Angular.Dot(aPrime.Angular)
			qdd := (d.AbaU1[j] - uDotA) / d.AbaD[j]
			acc[jt.IdxV] = qdd
			d.A[j] = aPrime.Add(s.Scale(qdd))
		} else {
			d.A[j] = aPrime
		}
	}
	return acc, nil
}

// transformMat6 re-expresses a general spatial matrix M (mapping a motion
// to a force in joint j's own frame; already stripped of rigid-body
// structure by the ABA Schur-complement update, so it can no longer be
// carried as a spatial.Inertia) into x's reference frame, where x = liMi_j.
// For a parent-frame motion v', the equivalent local-frame motion is
// x⁻¹.ActMotion(v'); M maps that to a local-frame force; x.ActForce maps
// that force back into the parent frame. Built one column at a time from
// the parent-frame standard basis.
func transformMat6(mat spatial.Mat6, x spatial.SE3) spatial.Mat6 {
	inv := x.Inverse()
	var out spatial.Mat6
	for c := 0; c < 6; c++ {
		var e [6]float64
		e[c] = 1
		vParent := spatial.MotionFromVec6(e)
		vLocal := inv.ActMotion(vParent)
		fLocal := mat.Act(vLocal)
		fParent := x.ActForce(fLocal)
		col := fParent.ToVec6()
		for r := 0; r < 6; r++ {
			out[r][c] = col[r]
		}
	}
	return out
}

func addYA(list spatial.Mat6List, idx int, add spatial.Mat6) spatial.Mat6 {
	return list[idx].Add(add)
}

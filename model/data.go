package model

import (
	"github.com/rigidkin/rbd/la"
	"github.com/rigidkin/rbd/spatial"
)

// Data holds all mutable per-query scratch state for one worker. It is
// overwritten on every kernel call; callers must not assume any value
// persists between calls other than what the call they just made
// documents. One Data is created per worker/goroutine from a Model and is
// never shared mutably across goroutines. Fields are exported because the
// kinematics/dynamics kernel (a separate package) reads and writes them
// directly as part of computing each algorithm's forward/backward passes.
type Data struct {
	NJoints int
	Nv      int

	OMi  []spatial.SE3      // world placement of each joint frame, index by joint
	LiMi []spatial.SE3      // placement of joint j relative to its parent, index by joint
	V    []spatial.Motion   // spatial velocity of each joint frame
	A    []spatial.Motion   // spatial (classical) acceleration of each joint frame
	F    []spatial.Force    // spatial force accumulator used by RNEA's backward pass
	S    []spatial.Subspace // joint motion subspace, index by joint (fixed for the life of the Data)

	// CRBA
	MassMatrix la.Matrix // nv x nv, filled symmetric
	Composite  []spatial.Inertia

	// ABA intermediates, one slot per joint (unused entries for fixed joints)
	AbaYA spatial.Mat6List
	AbaPA []spatial.Force
	AbaU  [][6]float64
	AbaD  []float64
	AbaU1 []float64        // u = τ - Sᵀ*pA, scalar per one-dof joint
	AbaC  []spatial.Motion // c = v_j × (S_j*qdot_j), the convective acceleration term
}

// New allocates a Data sized for m, preallocating the per-joint scratch
// arrays once. Kernel calls still allocate: RNEA, ABA and the Jacobian
// return freshly allocated results (CRBA returns this Data's MassMatrix),
// and some calls allocate small temporaries.
func New(m *Model) *Data {
	n := len(m.Joints)
	d := &Data{
		NJoints: n,
		Nv:      m.NV,
		OMi:     make([]spatial.SE3, n),
		LiMi:    make([]spatial.SE3, n),
		V:       make([]spatial.Motion, n),
		A:       make([]spatial.Motion, n),
		F:       make([]spatial.Force, n),
		S:       make([]spatial.Subspace, n),

		MassMatrix: la.NewMatrix(m.NV, m.NV),
		Composite:  make([]spatial.Inertia, n),

		AbaYA: make(spatial.Mat6List, n),
		AbaPA: make([]spatial.Force, n),
		AbaU:  make([][6]float64, n),
		AbaD:  make([]float64, n),
		AbaU1: make([]float64, n),
		AbaC:  make([]spatial.Motion, n),
	}
	for j := 0; j < n; j++ {
		jt := m.Joints[j]
		switch jt.Type {
		case Revolute, Continuous:
			d.S[j] = spatial.RevoluteSubspace(jt.Axis)
		case Prismatic:
			d.S[j] = spatial.PrismaticSubspace(jt.Axis)
		default:
			d.S[j] = spatial.FixedSubspace()
		}
	}
	return d
}

// NVDim returns the velocity-space dimension this Data was allocated for.
func (d *Data) NVDim() int { return d.Nv }

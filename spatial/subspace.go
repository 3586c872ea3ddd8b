package spatial

import "github.com/go-gl/mathgl/mgl64"

// Subspace is the constant joint motion subspace S_j expressed in the
// joint's own frame: one Motion column per velocity degree of freedom the
// joint contributes (0 for fixed, 1 for revolute/prismatic/continuous).
type Subspace []Motion

// RevoluteSubspace returns the motion subspace for a revolute or continuous
// joint rotating about axis: a single column with unit angular velocity
// about axis and zero linear component.
func RevoluteSubspace(axis mgl64.Vec3) Subspace {
	return Subspace{{Linear: mgl64.Vec3{}, Angular: axis}}
}

// PrismaticSubspace returns the motion subspace for a prismatic joint
// sliding along axis: a single column with unit linear velocity along axis
// and zero angular component.
func PrismaticSubspace(axis mgl64.Vec3) Subspace {
	return Subspace{{Linear: axis, Angular: mgl64.Vec3{}}}
}

// FixedSubspace returns the (empty) motion subspace for a fixed joint.
func FixedSubspace() Subspace { return Subspace{} }

// Apply computes S*v for a velocity/acceleration vector v of length
// len(s), returning the resulting spatial motion.
func (s Subspace) Apply(v []float64) Motion {
	m := Motion{}
	for i, col := range s {
		m = m.Add(col.Scale(v[i]))
	}
	return m
}

// TransposeForce computes Sᵀ*f, projecting a spatial force onto the
// joint's degrees of freedom (this is how RNEA extracts joint torque from
// a joint's spatial force; CRBA and ABA compute the same projection
// inline).
func (s Subspace) TransposeForce(f Force) []float64 {
	out := make([]float64, len(s))
	for i, col := range s {
		out[i] = col.Linear.Dot(f.Linear) + col.Angular.Dot(f.Angular)
	}
	return out
}

package spatial

import "github.com/go-gl/mathgl/mgl64"

// Motion is a spatial velocity or acceleration: linear ⊕ angular, a 6-vector
// split into its two 3-vectors for readability at call sites.
type Motion struct {
	Linear  mgl64.Vec3
	Angular mgl64.Vec3
}

// Force is a spatial force or momentum: linear ⊕ angular (force/torque).
type Force struct {
	Linear  mgl64.Vec3
	Angular mgl64.Vec3
}

// ZeroMotion returns the zero motion vector.
func ZeroMotion() Motion { return Motion{} }

// ZeroForce returns the zero force vector.
func ZeroForce() Force { return Force{} }

// Add returns the componentwise sum of two motions.
func (a Motion) Add(b Motion) Motion {
	return Motion{Linear: a.Linear.Add(b.Linear), Angular: a.Angular.Add(b.Angular)}
}

// Sub returns the componentwise difference of two motions.
func (a Motion) Sub(b Motion) Motion {
	return Motion{Linear: a.Linear.Sub(b.Linear), Angular: a.Angular.Sub(b.Angular)}
}

// Scale multiplies a motion by a scalar.
func (a Motion) Scale(s float64) Motion {
	return Motion{Linear: a.Linear.Mul(s), Angular: a.Angular.Mul(s)}
}

// CrossMotion computes the spatial motion Lie bracket v × w, used by RNEA
// and ABA to propagate velocities/accelerations along the joint tree:
//
//	angular' = v.Angular × w.Angular
//	linear'  = v.Angular × w.Linear + v.Linear × w.Angular
func (v Motion) CrossMotion(w Motion) Motion {
	return Motion{
		Angular: v.Angular.Cross(w.Angular),
		Linear:  v.Angular.Cross(w.Linear).Add(v.Linear.Cross(w.Angular)),
	}
}

// CrossForce computes the dual spatial cross product v ×* f mapping a
// motion and a force to a force, used in RNEA's bias-force term:
//
//	linear'  = v.Angular × f.Linear
//	angular' = v.Angular × f.Angular + v.Linear × f.Linear
func (v Motion) CrossForce(f Force) Force {
	return Force{
		Linear:  v.Angular.Cross(f.Linear),
		Angular: v.Angular.Cross(f.Angular).Add(v.Linear.Cross(f.Linear)),
	}
}

// Add returns the componentwise sum of two forces.
func (a Force) Add(b Force) Force {
	return Force{Linear: a.Linear.Add(b.Linear), Angular: a.Angular.Add(b.Angular)}
}

// Sub returns the componentwise difference of two forces.
func (a Force) Sub(b Force) Force {
	return Force{Linear: a.Linear.Sub(b.Linear), Angular: a.Angular.Sub(b.Angular)}
}

// Scale multiplies a force by a scalar.
func (a Force) Scale(s float64) Force {
	return Force{Linear: a.Linear.Mul(s), Angular: a.Angular.Mul(s)}
}

// Dot returns the scalar power v·f (used nowhere in the public API but
// useful for energy sanity checks in tests).
func (v Motion) Dot(f Force) float64 {
	return v.Linear.Dot(f.Linear) + v.Angular.Dot(f.Angular)
}

// ToVec6 flattens a motion to [linear(3), angular(3)] for generic 6xN
// Jacobian-column storage.
func (v Motion) ToVec6() [6]float64 {
	return [6]float64{v.Linear.X(), v.Linear.Y(), v.Linear.Z(), v.Angular.X(), v.Angular.Y(), v.Angular.Z()}
}

// MotionFromVec6 is the inverse of ToVec6.
func MotionFromVec6(c [6]float64) Motion {
	return Motion{Linear: mgl64.Vec3{c[0], c[1], c[2]}, Angular: mgl64.Vec3{c[3], c[4], c[5]}}
}

// ToVec6 flattens a force to [linear(3), angular(3)].
func (f Force) ToVec6() [6]float64 {
	return [6]float64{f.Linear.X(), f.Linear.Y(), f.Linear.Z(), f.Angular.X(), f.Angular.Y(), f.Angular.Z()}
}

// ForceFromVec6 is the inverse of Force.ToVec6.
func ForceFromVec6(c [6]float64) Force {
	return Force{Linear: mgl64.Vec3{c[0], c[1], c[2]}, Angular: mgl64.Vec3{c[3], c[4], c[5]}}
}

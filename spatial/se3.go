// Package spatial implements SE(3) rigid transforms and the spatial-vector
// algebra (motion, force, inertia) the dynamics kernel is built on:
// composition/inversion of poses, the adjoint action of a pose on motion
// and force vectors, the motion/force Lie bracket, and spatial inertia
// acting on a motion to produce a force (spatial momentum).
//
// Vector and matrix storage is github.com/go-gl/mathgl/mgl64, the same
// library akmonengine-feather and Gekko3D-gekko build their rigid-body math
// on. The spatial-6-vector formulas themselves follow the standard
// Featherstone conventions, the source of this package's "oMi"/"liMi"
// naming.
package spatial

import "github.com/go-gl/mathgl/mgl64"

// SE3 is a rigid transform: a rotation R and translation t such that a
// point p expressed in the local frame maps to R*p + t in the reference
// frame.
type SE3 struct {
	R mgl64.Mat3
	T mgl64.Vec3
}

// Identity returns the identity transform.
func Identity() SE3 {
	return SE3{R: mgl64.Ident3(), T: mgl64.Vec3{}}
}

// FromRotTrans builds an SE3 from a rotation matrix and translation.
func FromRotTrans(r mgl64.Mat3, t mgl64.Vec3) SE3 {
	return SE3{R: r, T: t}
}

// Compose returns this ∘ other: applying other first, then this.
func (m SE3) Compose(other SE3) SE3 {
	return SE3{
		R: m.R.Mul3(other.R),
		T: m.R.Mul3x1(other.T).Add(m.T),
	}
}

// Inverse returns the transform mapping the reference frame back to local.
func (m SE3) Inverse() SE3 {
	rt := m.R.Transpose()
	return SE3{R: rt, T: rt.Mul3x1(m.T).Mul(-1)}
}

// ActPoint transforms a point from the local frame to the reference frame.
func (m SE3) ActPoint(p mgl64.Vec3) mgl64.Vec3 {
	return m.R.Mul3x1(p).Add(m.T)
}

// ActMotion applies the spatial motion transform: a motion vector expressed
// in the local frame is re-expressed in the reference frame.
//
//	angular' = R*angular
//	linear'  = R*linear + T × (R*angular)
func (m SE3) ActMotion(v Motion) Motion {
	ang := m.R.Mul3x1(v.Angular)
	lin := m.R.Mul3x1(v.Linear).Add(m.T.Cross(ang))
	return Motion{Linear: lin, Angular: ang}
}

// ActForce applies the spatial force transform (the dual of ActMotion): a
// force vector expressed in the local frame is re-expressed in the
// reference frame.
//
//	linear'  = R*linear
//	angular' = R*angular + T × (R*linear)
func (m SE3) ActForce(f Force) Force {
	lin := m.R.Mul3x1(f.Linear)
	ang := m.R.Mul3x1(f.Angular).Add(m.T.Cross(lin))
	return Force{Linear: lin, Angular: ang}
}

// Rotation about an arbitrary unit axis by angle theta (Rodrigues' formula),
// used by revolute/continuous joint placement formulas.
func RotAxis(axis mgl64.Vec3, theta float64) mgl64.Mat3 {
	return mgl64.HomogRotate3D(theta, axis).Mat3()
}

// RotAxisCosSin builds the same rotation as RotAxis but from a (cos,sin)
// pair directly, avoiding a redundant atan2/trig round trip for continuous
// joints whose configuration slot already stores (cosθ, sinθ).
func RotAxisCosSin(axis mgl64.Vec3, cosT, sinT float64) mgl64.Mat3 {
	k := axis.Normalize()
	kx, ky, kz := k.X(), k.Y(), k.Z()
	K := mgl64.Mat3{
		0, kz, -ky,
		-kz, 0, kx,
		ky, -kx, 0,
	}
	// R = I + sinθ*K + (1-cosθ)*K²   (Rodrigues, column-major mgl64 layout)
	kk := K.Mul3(K)
	r := mgl64.Ident3()
	r = r.Add(K.Mul(sinT))
	r = r.Add(kk.Mul(1 - cosT))
	return r
}

// Translation builds a pure-translation SE3, used by prismatic joints.
func Translation(t mgl64.Vec3) SE3 {
	return SE3{R: mgl64.Ident3(), T: t}
}

package spatial

import "github.com/go-gl/mathgl/mgl64"

// Inertia is a rigid-body spatial inertia: mass, center-of-mass offset from
// the body's reference frame origin, and the 3x3 rotational inertia tensor
// about the center of mass (both expressed in the body's own frame).
type Inertia struct {
	Mass   float64
	Com    mgl64.Vec3
	Tensor mgl64.Mat3 // about Com, symmetric PSD
}

// Zero returns the (physically degenerate, but valid for fixed joints)
// zero inertia.
func Zero() Inertia {
	return Inertia{}
}

// Act applies the spatial inertia operator to a motion, producing the
// spatial momentum (a force). Matches the standard rigid-body-dynamics
// convention for a spatial inertia expressed with the reference point away
// from the center of mass:
//
//	h.linear  = m*(v.linear - com × v.angular)
//	h.angular = com × h.linear + Tensor*v.angular
func (i Inertia) Act(v Motion) Force {
	hLin := v.Linear.Sub(i.Com.Cross(v.Angular)).Mul(i.Mass)
	hAng := i.Com.Cross(hLin).Add(i.Tensor.Mul3x1(v.Angular))
	return Force{Linear: hLin, Angular: hAng}
}

// Add composes two inertias expressed about the same point/frame into a
// single composite inertia (used by CRBA's composite-rigid-body
// accumulation).
func (i Inertia) Add(o Inertia) Inertia {
	if i.Mass+o.Mass == 0 {
		return Inertia{}
	}
	totalMass := i.Mass + o.Mass
	// combine CoM offsets by mass-weighted average, then combine tensors
	// via the parallel-axis theorem back to the shared origin.
	com := i.Com.Mul(i.Mass).Add(o.Com.Mul(o.Mass)).Mul(1.0 / totalMass)
	tensor := parallelAxisToOrigin(i).Add(parallelAxisToOrigin(o))
	tensor = tensor.Sub(parallelAxisFromOriginTo(totalMass, com))
	return Inertia{Mass: totalMass, Com: com, Tensor: tensor}
}

// parallelAxisToOrigin returns the rotational inertia of i about the shared
// frame origin (not about its own CoM), via the parallel axis theorem:
// I_origin = I_com + m*(|c|²*Identity - c⊗c).
func parallelAxisToOrigin(i Inertia) mgl64.Mat3 {
	return i.Tensor.Add(outerShift(i.Mass, i.Com))
}

func parallelAxisFromOriginTo(mass float64, com mgl64.Vec3) mgl64.Mat3 {
	return outerShift(mass, com)
}

// outerShift returns m*(|c|²*Identity - c⊗c), the parallel-axis correction
// term for a point mass m offset by c from the reference point.
func outerShift(m float64, c mgl64.Vec3) mgl64.Mat3 {
	c2 := c.Dot(c)
	id := mgl64.Ident3().Mul(c2)
	outer := mgl64.Mat3{
		c.X() * c.X(), c.Y() * c.X(), c.Z() * c.X(),
		c.X() * c.Y(), c.Y() * c.Y(), c.Z() * c.Y(),
		c.X() * c.Z(), c.Y() * c.Z(), c.Z() * c.Z(),
	}
	return id.Sub(outer).Mul(m)
}

// Transform re-expresses an inertia defined in a local frame into the
// reference frame of the given SE3 placement (rotate the tensor and CoM
// offset, translate the CoM offset).
func (i Inertia) Transform(x SE3) Inertia {
	com := x.R.Mul3x1(i.Com).Add(x.T)
	tensor := x.R.Mul3(i.Tensor).Mul3(x.R.Transpose())
	return Inertia{Mass: i.Mass, Com: com, Tensor: tensor}
}

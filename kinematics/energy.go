package kinematics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/rigidkin/rbd/la"
	mdl "github.com/rigidkin/rbd/model"
)

// CenterOfMass computes the world-frame center of mass and total mass at
// configuration q: the mass-weighted average of each link's CoM offset,
// transformed into world coordinates via the joint's current placement.
func CenterOfMass(m *mdl.Model, d *mdl.Data, q []float64) (c mgl64.Vec3, totalMass float64, err error) {
	if err := ForwardKinematics(m, d, q); err != nil {
		return mgl64.Vec3{}, 0, err
	}
	var weighted mgl64.Vec3
	for j := 1; j < m.NJoints(); j++ {
		link := &m.Links[m.Joints[j].Child]
		if link.Inertia.Mass == 0 {
			continue
		}
		pCom := d.OMi[j].ActPoint(link.Inertia.Com)
		weighted = weighted.Add(pCom.Mul(link.Inertia.Mass))
		totalMass += link.Inertia.Mass
	}
	if totalMass == 0 {
		return mgl64.Vec3{}, 0, nil
	}
	return weighted.Mul(1 / totalMass), totalMass, nil
}

// KineticEnergy computes ½ vᵀ M(q) v via Crba's mass matrix.
func KineticEnergy(m *mdl.Model, d *mdl.Data, q, v []float64) (float64, error) {
	if err := checkVDim(m, v, "v"); err != nil {
		return 0, err
	}
	mass, err := Crba(m, d, q)
	if err != nil {
		return 0, err
	}
	mv := la.NewVector(m.NV)
	la.MatVecMul(mv, 1, mass, v)
	return 0.5 * la.Dot(v, mv), nil
}

// PotentialEnergy computes −m_total · g · c_world, the sign convention
// adopted for this engine's zero (gravity-potential energy decreases as the
// center of mass moves along the gravity vector).
func PotentialEnergy(m *mdl.Model, d *mdl.Data, q []float64) (float64, error) {
	c, totalMass, err := CenterOfMass(m, d, q)
	if err != nil {
		return 0, err
	}
	return -totalMass * m.Gravity.Dot(c), nil
}

package kinematics

import (
	"github.com/rigidkin/rbd/la"
	mdl "github.com/rigidkin/rbd/model"
	"github.com/rigidkin/rbd/spatial"
)

// Crba computes the symmetric positive semidefinite joint-space mass
// matrix M(q) via the Composite-Rigid-Body Algorithm: a forward pass
// computes placements, a backward pass accumulates each joint's composite
// (subtree) inertia up the tree, and for each joint j the column
// F = Y_c[j]*S_j is walked back through j's ancestors to fill M[i][j].
func Crba(m *mdl.Model, d *mdl.Data, q []float64) (la.Matrix, error) {
	if err := checkQDim(m, q); err != nil {
		return nil, err
	}
	if err := ForwardKinematics(m, d, q); err != nil {
		return nil, err
	}

	for j := 1; j < m.NJoints(); j++ {
		d.Composite[j] = m.Links[m.Joints[j].Child].Inertia
	}
	for j := m.NJoints() - 1; j >= 1; j-- {
		parent := m.Joints[j].Parent
		if parent != 0 {
			d.Composite[parent] = d.Composite[parent].Add(d.Composite[j].Transform(d.LiMi[j]))
		}
	}

	la.Fill(d.MassMatrix, 0)
	for j := 1; j < m.NJoints(); j++ {
		jt := &m.Joints[j]
		if jt.NVJ == 0 {
			continue
		}
		fCols := make([]spatial.Force, jt.NVJ)
		for c, s := range d.S[j] {
			fCols[c] = d.Composite[j].Act(s)
		}
		a := j
		for a != 0 {
			at := &m.Joints[a]
			if at.NVJ > 0 {
				for r, sc := range d.S[a] {
					for c := 0; c < jt.NVJ; c++ {
						val := sc.Linear.Dot(fCols[c].Linear) + sc.Angular.Dot(fCols[c].Angular)
						d.MassMatrix[at.IdxV+r][jt.IdxV+c] = val
						d.MassMatrix[jt.IdxV+c][at.IdxV+r] = val
					}
				}
			}
			// re-express the accumulated columns into the next ancestor's frame
			for c := range fCols {
				fCols[c] = d.LiMi[a].ActForce(fCols[c])
			}
			a = at.Parent
		}
	}
	return d.MassMatrix, nil
}

package kinematics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/rigidkin/rbd/errs"
	"github.com/rigidkin/rbd/la"
	mdl "github.com/rigidkin/rbd/model"
	"github.com/rigidkin/rbd/spatial"
)

// JointJacobian computes the 6xnv Jacobian of joint j's motion with respect
// to the velocity-space coordinates, expressed per frame:
//
//	World             - world axes, evaluated at the world origin
//	Local             - joint j's own axes, evaluated at joint j's origin
//	LocalWorldAligned - world axes, evaluated at joint j's origin
//
// Columns for joints not on the root-to-j path are zero, matching the
// kernel's Jacobian sparsity rule. Rows 0-2 are the linear block, rows 3-5
// angular.
func JointJacobian(m *mdl.Model, d *mdl.Data, q []float64, j int, frame Frame) (la.Matrix, error) {
	jac := la.NewMatrix(6, m.NV)
	if j < 0 || j >= m.NJoints() {
		return jac, &errs.InvalidJoint{Index: j}
	}
	if err := ForwardKinematics(m, d, q); err != nil {
		return jac, err
	}

	onPath := make(map[int]bool)
	for k := j; k != 0; k = m.Joints[k].Parent {
		onPath[k] = true
	}

	pj := d.OMi[j].T
	for k := range onPath {
		jt := &m.Joints[k]
		if jt.NVJ == 0 {
			continue
		}
		colWorld := d.OMi[k].ActMotion(d.S[k][0])

		var col spatial.Motion
		switch frame {
		case Local:
			col = d.OMi[j].Inverse().ActMotion(colWorld)
		case LocalWorldAligned:
			col = spatial.SE3{R: mgl64.Ident3(), T: pj.Mul(-1)}.ActMotion(colWorld)
		default: // World
			col = colWorld
		}
		vec := col.ToVec6()
		for r := 0; r < 6; r++ {
			jac[r][jt.IdxV] = vec[r]
		}
	}
	return jac, nil
}

package urdf

import (
	"encoding/xml"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/rigidkin/rbd/errs"
	"github.com/rigidkin/rbd/logging"
	mdl "github.com/rigidkin/rbd/model"
	"github.com/rigidkin/rbd/spatial"
)

// Parse decodes a URDF document and builds a finalized model.Model.
//
// Supported elements: <robot name>, <link><inertial><origin/mass/inertia>,
// <joint name type> for type ∈ {fixed, revolute, continuous, prismatic}
// with <parent>, <child>, <origin>, <axis>, <limit>.
//
// Defaults: missing <inertial> ⇒ zero inertia. Missing <axis> ⇒ (1,0,0).
// Missing <limit> on a revolute joint ⇒ unbounded sentinels; on a
// continuous joint the limit fields are unused (its q slot is periodic)
// and default to (−π, π) for any consumer that reads Joint.Lower/Upper
// directly (e.g. the max-torque sampler's unbounded-joint default).
func Parse(data []byte) (*mdl.Model, error) {
	var doc xmlRobot
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, &errs.ParseError{Msg: errors.Wrap(err, "decoding URDF XML").Error()}
	}
	if doc.Name == "" {
		return nil, &errs.ParseError{Msg: "missing <robot name>"}
	}

	declaredLinks := make(map[string]*xmlLink, len(doc.Links))
	for i := range doc.Links {
		declaredLinks[doc.Links[i].Name] = &doc.Links[i]
	}

	// Determine child links (anything that appears as a joint's <child>)
	// and find the set of links with no incoming joint: the candidate
	// roots.
	isChild := make(map[string]bool, len(doc.Joints))
	childrenOf := make(map[string][]*xmlJoint, len(doc.Joints))
	allLinkNames := make(map[string]bool, len(declaredLinks))
	for name := range declaredLinks {
		allLinkNames[name] = true
	}
	for i := range doc.Joints {
		j := &doc.Joints[i]
		allLinkNames[j.Parent.Link] = true
		allLinkNames[j.Child.Link] = true
		isChild[j.Child.Link] = true
		childrenOf[j.Parent.Link] = append(childrenOf[j.Parent.Link], j)
	}

	var roots []string
	for name := range allLinkNames {
		if !isChild[name] {
			roots = append(roots, name)
		}
	}
	if len(roots) == 0 {
		return nil, &errs.CyclicModel{Detail: "no link without an incoming joint was found"}
	}
	if len(roots) > 1 {
		return nil, &errs.MultipleRoots{Roots: roots}
	}
	rootName := roots[0]

	m := mdl.Empty(doc.Name)

	rootJoint, err := m.AddJoint(0, mdl.Fixed, mgl64.Vec3{1, 0, 0}, spatial.Identity(), 0, 0, rootName+"_root")
	if err != nil {
		return nil, err
	}
	if err := attachInertial(m, rootJoint, declaredLinks[rootName]); err != nil {
		return nil, err
	}

	linkJoint := map[string]int{rootName: rootJoint}
	visited := map[string]bool{rootName: true}
	queue := []string{rootName}

	for len(queue) > 0 {
		parentLink := queue[0]
		queue = queue[1:]
		for _, j := range childrenOf[parentLink] {
			if visited[j.Child.Link] {
				return nil, &errs.CyclicModel{Detail: "link " + j.Child.Link + " reached more than once"}
			}
			parentJoint, ok := linkJoint[j.Parent.Link]
			if !ok {
				return nil, &errs.DanglingLink{Link: j.Parent.Link}
			}
			newJoint, err := buildJoint(m, parentJoint, j)
			if err != nil {
				return nil, err
			}
			if err := attachInertial(m, newJoint, declaredLinks[j.Child.Link]); err != nil {
				return nil, err
			}
			linkJoint[j.Child.Link] = newJoint
			visited[j.Child.Link] = true
			queue = append(queue, j.Child.Link)
		}
	}

	for name := range allLinkNames {
		if !visited[name] {
			return nil, &errs.DanglingLink{Link: name}
		}
	}

	if err := m.Finalize(); err != nil {
		return nil, err
	}
	logging.Logger().Debug().Str("model", m.Name).Int("nq", m.NQ).Int("nv", m.NV).Msg("urdf model finalized")
	return m, nil
}

func buildJoint(m *mdl.Model, parentJoint int, j *xmlJoint) (int, error) {
	placement, err := originToSE3(j.Origin)
	if err != nil {
		return 0, &errs.ParseError{Msg: errors.Wrapf(err, "joint %q origin", j.Name).Error()}
	}

	axis := mgl64.Vec3{1, 0, 0}
	if j.Axis != nil {
		xyz, err := parseXYZ(j.Axis.XYZ)
		if err != nil {
			return 0, &errs.ParseError{Msg: errors.Wrapf(err, "joint %q axis", j.Name).Error()}
		}
		axis = mgl64.Vec3{xyz[0], xyz[1], xyz[2]}
	}

	switch j.Type {
	case "fixed":
		return m.AddJoint(parentJoint, mdl.Fixed, axis, placement, 0, 0, j.Name)
	case "revolute":
		lower, upper := -mdl.Unbounded, mdl.Unbounded
		if j.Limit != nil {
			if j.Limit.Lower != nil {
				lower = *j.Limit.Lower
			}
			if j.Limit.Upper != nil {
				upper = *j.Limit.Upper
			}
		}
		return m.AddJoint(parentJoint, mdl.Revolute, axis, placement, lower, upper, j.Name)
	case "continuous":
		return m.AddJoint(parentJoint, mdl.Continuous, axis, placement, -math.Pi, math.Pi, j.Name)
	case "prismatic":
		lower, upper := -mdl.Unbounded, mdl.Unbounded
		if j.Limit != nil {
			if j.Limit.Lower != nil {
				lower = *j.Limit.Lower
			}
			if j.Limit.Upper != nil {
				upper = *j.Limit.Upper
			}
		}
		return m.AddJoint(parentJoint, mdl.Prismatic, axis, placement, lower, upper, j.Name)
	default:
		return 0, &errs.UnsupportedJointType{Name: j.Name, Type: j.Type}
	}
}

func attachInertial(m *mdl.Model, joint int, link *xmlLink) error {
	if link == nil || link.Inertial == nil {
		return nil // missing inertial ⇒ zero inertia, the zero value of spatial.Inertia
	}
	origin, err := originToSE3(link.Inertial.Origin)
	if err != nil {
		return &errs.ParseError{Msg: errors.Wrap(err, "inertial origin").Error()}
	}
	mass := 0.0
	if link.Inertial.Mass != nil {
		mass = link.Inertial.Mass.Value
	}
	tensor := mgl64.Ident3().Mul(0)
	if t := link.Inertial.Inertia; t != nil {
		tensor = mgl64.Mat3{
			t.Ixx, t.Ixy, t.Ixz,
			t.Ixy, t.Iyy, t.Iyz,
			t.Ixz, t.Iyz, t.Izz,
		}
	}
	inertia := spatial.Inertia{Mass: mass, Tensor: tensor}
	return m.AppendBody(joint, inertia, origin)
}

func originToSE3(p *xmlPose) (spatial.SE3, error) {
	if p == nil {
		return spatial.Identity(), nil
	}
	xyz, err := parseXYZ(p.XYZ)
	if err != nil {
		return spatial.SE3{}, errors.Wrap(err, "xyz")
	}
	rpy, err := parseXYZ(p.RPY)
	if err != nil {
		return spatial.SE3{}, errors.Wrap(err, "rpy")
	}
	r := rpyToRot(rpy[0], rpy[1], rpy[2])
	return spatial.FromRotTrans(r, mgl64.Vec3{xyz[0], xyz[1], xyz[2]}), nil
}

// rpyToRot builds R = Rz(yaw)*Ry(pitch)*Rx(roll), the URDF convention for
// a fixed-axis roll-pitch-yaw orientation.
func rpyToRot(roll, pitch, yaw float64) mgl64.Mat3 {
	rz := mgl64.Rotate3DZ(yaw)
	ry := mgl64.Rotate3DY(pitch)
	rx := mgl64.Rotate3DX(roll)
	return rz.Mul3(ry).Mul3(rx)
}

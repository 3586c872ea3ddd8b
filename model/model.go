// Package model defines the immutable kinematic/dynamic description (Model)
// and the mutable per-query scratch state (Data) the kernel operates on,
// the same split fem.Domain draws between an immutable mesh description
// and the mutable per-stage node/element/solution arrays built once from
// it: a Model is built once by the urdf ingestor and never mutated again;
// a Data is allocated once per worker from a Model and overwritten on
// every query.
package model

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/rigidkin/rbd/errs"
	"github.com/rigidkin/rbd/spatial"
)

// JointType discriminates the four supported joint kinds.
type JointType int

const (
	Fixed JointType = iota
	Revolute
	Continuous
	Prismatic
)

func (t JointType) String() string {
	switch t {
	case Fixed:
		return "fixed"
	case Revolute:
		return "revolute"
	case Continuous:
		return "continuous"
	case Prismatic:
		return "prismatic"
	default:
		return "unknown"
	}
}

// Unbounded is the sentinel value for an unlimited joint-limit bound.
var Unbounded = math.Inf(1)

// Joint describes one edge of the kinematic tree.
type Joint struct {
	Name      string
	Parent    int // index of the parent joint; 0 is the universe
	Child     int // index into Model.Links
	Type      JointType
	Axis      mgl64.Vec3  // unit axis, in the parent (joint) frame
	Placement spatial.SE3 // placement of this joint's frame relative to its parent joint's frame

	IdxQ, IdxV int // offsets into q and v/a
	NQJ, NVJ   int // degrees contributed: NQJ ∈ {0,1,2}, NVJ ∈ {0,1}

	Lower, Upper float64 // per-velocity-index limit; ±Unbounded if unlimited
}

// Link carries the spatial inertia of one rigid body.
type Link struct {
	Name    string
	Inertia spatial.Inertia
}

// Model is the immutable kinematic/dynamic description of a robot. It is
// produced once by the urdf ingestor (or built programmatically via
// Empty/AddJoint/AppendBody/Finalize), validated, and is safe to share by
// reference across worker goroutines once Finalize has returned nil.
type Model struct {
	Name    string
	Joints  []Joint // index 0 is the fixed universe joint
	Links   []Link  // Links[0] is the (massless) universe link
	NQ, NV  int
	Gravity mgl64.Vec3

	finalized bool
}

// Empty returns a new Model containing only the universe joint/link.
func Empty(name string) *Model {
	return &Model{
		Name: name,
		Joints: []Joint{{
			Name:   "universe",
			Parent: -1,
			Child:  0,
			Type:   Fixed,
		}},
		Links:   []Link{{Name: "universe"}},
		Gravity: mgl64.Vec3{0, 0, -9.81},
	}
}

// AddJoint appends a new joint to the tree rooted at parent, together with
// its child link, and returns the new joint's index. axis is normalized
// internally; an axis with norm below 1e-10 is rejected per §4.E of the
// engine's kinematics spec. Offsets (IdxQ/IdxV) are assigned immediately so
// the model is queryable incrementally during construction, and are
// revalidated by Finalize.
func (m *Model) AddJoint(parent int, jtype JointType, axis mgl64.Vec3, placement spatial.SE3, lower, upper float64, name string) (int, error) {
	if m.finalized {
		return 0, &errs.InvalidInput{Reason: "cannot add joint to a finalized model"}
	}
	if parent < 0 || parent >= len(m.Joints) {
		return 0, &errs.InvalidJoint{Index: parent}
	}
	nqj, nvj := dofCounts(jtype)
	if jtype == Revolute || jtype == Continuous || jtype == Prismatic {
		if axis.Len() < 1e-10 {
			return 0, &errs.InvalidInput{Reason: "joint axis norm below 1e-10"}
		}
		axis = axis.Normalize()
	}
	j := Joint{
		Name:      name,
		Parent:    parent,
		Type:      jtype,
		Axis:      axis,
		Placement: placement,
		IdxQ:      m.NQ,
		IdxV:      m.NV,
		NQJ:       nqj,
		NVJ:       nvj,
		Lower:     lower,
		Upper:     upper,
	}
	childLink := len(m.Links)
	j.Child = childLink
	m.Links = append(m.Links, Link{Name: name})
	m.Joints = append(m.Joints, j)
	m.NQ += nqj
	m.NV += nvj
	return len(m.Joints) - 1, nil
}

func dofCounts(t JointType) (nq, nv int) {
	switch t {
	case Fixed:
		return 0, 0
	case Continuous:
		return 2, 1
	case Revolute, Prismatic:
		return 1, 1
	default:
		return 0, 0
	}
}

// AppendBody adds inertia (expressed in a frame offset from joint j's frame
// by childPlacement) to joint j's child link, composing with whatever
// inertia that link already carries. Repeated calls accumulate, matching
// the case of a URDF link whose <inertial> origin is offset from the joint
// frame that created it.
func (m *Model) AppendBody(j int, inertia spatial.Inertia, childPlacement spatial.SE3) error {
	if j < 0 || j >= len(m.Joints) {
		return &errs.InvalidJoint{Index: j}
	}
	link := m.Joints[j].Child
	transformed := inertia.Transform(childPlacement)
	m.Links[link].Inertia = m.Links[link].Inertia.Add(transformed)
	return nil
}

// Finalize validates topology and freezes the model against further
// mutation. It panics via chk (not returns an error) only for
// programmer-error invariant violations that AddJoint should have already
// prevented; malformed-input conditions are returned as errors by AddJoint
// and AppendBody. Finalize itself always returns nil.
func (m *Model) Finalize() error {
	if m.finalized {
		return nil
	}
	for j := 1; j < len(m.Joints); j++ {
		jt := m.Joints[j]
		if jt.Parent >= j {
			chk.Panic("model invariant violated: joint %d has parent %d >= own index", j, jt.Parent)
		}
		if jt.IdxQ+jt.NQJ > m.NQ {
			chk.Panic("model invariant violated: joint %d idx_q out of range", j)
		}
		if (jt.Type == Revolute || jt.Type == Continuous || jt.Type == Prismatic) && math.Abs(jt.Axis.Len()-1) > 1e-8 {
			chk.Panic("model invariant violated: joint %d axis not unit norm", j)
		}
	}
	m.finalized = true
	return nil
}

// IsFinalized reports whether Finalize has been called successfully.
func (m *Model) IsFinalized() bool { return m.finalized }

// NJoints returns the number of joints including the universe joint.
func (m *Model) NJoints() int { return len(m.Joints) }

// Parent returns the parent joint index of joint j.
func (m *Model) Parent(j int) int { return m.Joints[j].Parent }

// JointIndex returns the index of the named joint, or -1 if not found.
func (m *Model) JointIndex(name string) int {
	for i, j := range m.Joints {
		if j.Name == name {
			return i
		}
	}
	return -1
}

// LinkIndex returns the index of the named link, or -1 if not found.
func (m *Model) LinkIndex(name string) int {
	for i, l := range m.Links {
		if l.Name == name {
			return i
		}
	}
	return -1
}

// LastLeaf returns the index of the last joint in topological order that
// has no children, the engine's default end-effector when a host does not
// supply one explicitly (IK/workspace §4.F/§4.G).
func (m *Model) LastLeaf() int {
	hasChild := make([]bool, len(m.Joints))
	for j := 1; j < len(m.Joints); j++ {
		hasChild[m.Joints[j].Parent] = true
	}
	leaf := 0
	for j := 1; j < len(m.Joints); j++ {
		if !hasChild[j] {
			leaf = j
		}
	}
	return leaf
}

// Describe returns a short human-readable listing of the joint tree, for
// Debug-level diagnostics only (never printed unconditionally).
func (m *Model) Describe() string {
	s := m.Name + ":\n"
	for j := 1; j < len(m.Joints); j++ {
		jt := m.Joints[j]
		s += "  " + jt.Name + " (" + jt.Type.String() + ") parent=" + m.Joints[jt.Parent].Name + "\n"
	}
	return s
}

// Neutral returns the canonical configuration vector: zero for
// revolute/prismatic joints, (cos=1,sin=0) for continuous joints.
func Neutral(m *Model) []float64 {
	q := make([]float64, m.NQ)
	for j := 1; j < len(m.Joints); j++ {
		jt := m.Joints[j]
		if jt.Type == Continuous {
			q[jt.IdxQ] = 1
			q[jt.IdxQ+1] = 0
		}
	}
	return q
}

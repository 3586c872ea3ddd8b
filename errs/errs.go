// Package errs defines the discriminated error taxonomy returned by the
// kinematic/dynamic engine. Every exported type implements error; callers
// that need to branch on a specific failure use errors.As.
package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// ParseError reports a malformed URDF document.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error at line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("parse error: %s", e.Msg)
}

// UnsupportedJointType reports a joint whose type is not one of
// fixed/revolute/continuous/prismatic.
type UnsupportedJointType struct {
	Name string
	Type string
}

func (e *UnsupportedJointType) Error() string {
	return fmt.Sprintf("joint %q: unsupported joint type %q", e.Name, e.Type)
}

// CyclicModel reports a joint graph that is not acyclic.
type CyclicModel struct {
	Detail string
}

func (e *CyclicModel) Error() string {
	return fmt.Sprintf("cyclic model: %s", e.Detail)
}

// MultipleRoots reports more than one link with no incoming joint.
type MultipleRoots struct {
	Roots []string
}

func (e *MultipleRoots) Error() string {
	return fmt.Sprintf("multiple roots found: %v", e.Roots)
}

// DanglingLink reports a link that is not reachable from the root link.
type DanglingLink struct {
	Link string
}

func (e *DanglingLink) Error() string {
	return fmt.Sprintf("dangling link %q is unreachable from the root", e.Link)
}

// DimensionMismatch reports an argument whose length does not match the
// Model's nq/nv.
type DimensionMismatch struct {
	Arg      string
	Expected int
	Got      int
}

func (e *DimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch for %q: expected length %d, got %d", e.Arg, e.Expected, e.Got)
}

// InvalidJoint reports an out-of-range joint index.
type InvalidJoint struct {
	Index int
}

func (e *InvalidJoint) Error() string {
	return fmt.Sprintf("invalid joint index %d", e.Index)
}

// InvalidInput reports a non-finite or otherwise malformed numeric input.
type InvalidInput struct {
	Reason string
}

func (e *InvalidInput) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

// SingularArticulatedInertia reports that ABA encountered a near-singular
// articulated inertia at the named joint. The caller may retry at a
// different configuration.
type SingularArticulatedInertia struct {
	Joint int
}

func (e *SingularArticulatedInertia) Error() string {
	return fmt.Sprintf("singular articulated inertia at joint %d", e.Joint)
}

// SingularJacobian reports that the damped least-squares solve inside IK
// failed to invert its 3x3 system. ik.Solve does not return it: a failed
// damped solve ends the iteration with Converged=false instead.
type SingularJacobian struct{}

func (e *SingularJacobian) Error() string {
	return "singular jacobian in damped least-squares solve"
}

// ConvexHullDegenerate is informational: the hull collapsed to fewer than
// four independent directions and the caller received the axis-aligned
// bounding box as a 12-triangle mesh instead.
type ConvexHullDegenerate struct {
	Detail string
}

func (e *ConvexHullDegenerate) Error() string {
	return fmt.Sprintf("convex hull degenerate, bounding-box fallback used: %s", e.Detail)
}

// Wrap annotates err with a message using the same wrapping convention as
// the rest of the engine's API boundaries.
func Wrap(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

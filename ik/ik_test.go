package ik

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mdl "github.com/rigidkin/rbd/model"
	"github.com/rigidkin/rbd/spatial"
)

// build2RPlanar mirrors the kinematics package's concrete 2R scenario:
// two revolute joints about z, link lengths L1=L2=0.5, trailing fixed
// end-effector frame.
func build2RPlanar(t *testing.T) *mdl.Model {
	t.Helper()
	m := mdl.Empty("2r")
	j1, err := m.AddJoint(0, mdl.Revolute, mgl64.Vec3{0, 0, 1}, spatial.Identity(), -mdl.Unbounded, mdl.Unbounded, "j1")
	require.NoError(t, err)
	j2, err := m.AddJoint(j1, mdl.Revolute, mgl64.Vec3{0, 0, 1}, spatial.Translation(mgl64.Vec3{0.5, 0, 0}), -mdl.Unbounded, mdl.Unbounded, "j2")
	require.NoError(t, err)
	_, err = m.AddJoint(j2, mdl.Fixed, mgl64.Vec3{1, 0, 0}, spatial.Translation(mgl64.Vec3{0.5, 0, 0}), 0, 0, "ee")
	require.NoError(t, err)
	require.NoError(t, m.Finalize())
	return m
}

func TestSolve2RConvergesWithinThirtyIterations(t *testing.T) {
	m := build2RPlanar(t)
	d := mdl.New(m)
	q0 := []float64{0.1, -0.1}
	opts := DefaultOptions()
	opts.MaxIter = 30

	res, err := Solve(m, d, mgl64.Vec3{1, 0, 0}, q0, opts)
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.Less(t, res.Err, 1e-4)
	assert.LessOrEqual(t, res.Iters, 30)
}

func TestSolveUnreachableTargetFailsGracefullyWithFiniteQ(t *testing.T) {
	m := build2RPlanar(t)
	d := mdl.New(m)
	q0 := []float64{0.1, -0.1}
	opts := DefaultOptions()
	opts.MaxIter = 50

	res, err := Solve(m, d, mgl64.Vec3{10, 0, 0}, q0, opts)
	require.NoError(t, err)
	assert.False(t, res.Converged)
	for _, v := range res.Q {
		assert.False(t, math.IsNaN(v))
		assert.False(t, math.IsInf(v, 0))
	}
}

func TestSolveRejectsWrongLengthQ0(t *testing.T) {
	m := build2RPlanar(t)
	d := mdl.New(m)
	_, err := Solve(m, d, mgl64.Vec3{1, 0, 0}, []float64{0}, DefaultOptions())
	require.Error(t, err)
}

func TestSolveRejectsInvalidEeJoint(t *testing.T) {
	m := build2RPlanar(t)
	d := mdl.New(m)
	opts := DefaultOptions()
	opts.EeJoint = 99
	_, err := Solve(m, d, mgl64.Vec3{1, 0, 0}, []float64{0, 0}, opts)
	require.Error(t, err)
}

func TestSolveClampToLimitsKeepsQWithinBounds(t *testing.T) {
	m := mdl.Empty("clamped")
	j1, err := m.AddJoint(0, mdl.Revolute, mgl64.Vec3{0, 0, 1}, spatial.Identity(), -0.2, 0.2, "j1")
	require.NoError(t, err)
	j2, err := m.AddJoint(j1, mdl.Revolute, mgl64.Vec3{0, 0, 1}, spatial.Translation(mgl64.Vec3{0.5, 0, 0}), -mdl.Unbounded, mdl.Unbounded, "j2")
	require.NoError(t, err)
	_, err = m.AddJoint(j2, mdl.Fixed, mgl64.Vec3{1, 0, 0}, spatial.Translation(mgl64.Vec3{0.5, 0, 0}), 0, 0, "ee")
	require.NoError(t, err)
	require.NoError(t, m.Finalize())
	d := mdl.New(m)

	opts := DefaultOptions()
	opts.ClampToLimits = true
	opts.MaxIter = 50
	res, err := Solve(m, d, mgl64.Vec3{0, 1, 0}, []float64{0, 0}, opts)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.Q[0], -0.2-1e-9)
	assert.LessOrEqual(t, res.Q[0], 0.2+1e-9)
}

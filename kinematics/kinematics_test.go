package kinematics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mdl "github.com/rigidkin/rbd/model"
	"github.com/rigidkin/rbd/spatial"
)

// build2RPlanar builds a two-revolute planar arm about z with link lengths
// L1=L2=0.5 and a trailing fixed end-effector frame, matching the engine's
// concrete FK/Jacobian scenario.
func build2RPlanar(t *testing.T) (*mdl.Model, int) {
	t.Helper()
	m := mdl.Empty("2r")
	j1, err := m.AddJoint(0, mdl.Revolute, mgl64.Vec3{0, 0, 1}, spatial.Identity(), -mdl.Unbounded, mdl.Unbounded, "j1")
	require.NoError(t, err)
	j2, err := m.AddJoint(j1, mdl.Revolute, mgl64.Vec3{0, 0, 1}, spatial.Translation(mgl64.Vec3{0.5, 0, 0}), -mdl.Unbounded, mdl.Unbounded, "j2")
	require.NoError(t, err)
	ee, err := m.AddJoint(j2, mdl.Fixed, mgl64.Vec3{1, 0, 0}, spatial.Translation(mgl64.Vec3{0.5, 0, 0}), 0, 0, "ee")
	require.NoError(t, err)
	require.NoError(t, m.Finalize())
	return m, ee
}

func TestForwardKinematics2RPlanarAtZero(t *testing.T) {
	m, ee := build2RPlanar(t)
	d := mdl.New(m)
	require.NoError(t, ForwardKinematics(m, d, []float64{0, 0}))
	p := d.OMi[ee].T
	assert.InDelta(t, 1.0, p.X(), 1e-12)
	assert.InDelta(t, 0.0, p.Y(), 1e-12)
	assert.InDelta(t, 0.0, p.Z(), 1e-12)
}

func TestForwardKinematics2RPlanarAtRightAngle(t *testing.T) {
	m, ee := build2RPlanar(t)
	d := mdl.New(m)
	require.NoError(t, ForwardKinematics(m, d, []float64{math.Pi / 2, 0}))
	p := d.OMi[ee].T
	assert.InDelta(t, 0.0, p.X(), 1e-9)
	assert.InDelta(t, 1.0, p.Y(), 1e-9)
	assert.InDelta(t, 0.0, p.Z(), 1e-9)
}

func TestJointJacobian2RPlanarLocalWorldAligned(t *testing.T) {
	m, ee := build2RPlanar(t)
	d := mdl.New(m)
	jac, err := JointJacobian(m, d, []float64{0, 0}, ee, LocalWorldAligned)
	require.NoError(t, err)
	want := [3][2]float64{
		{0, 0},
		{1, 0.5},
		{0, 0},
	}
	for r := 0; r < 3; r++ {
		for c := 0; c < 2; c++ {
			assert.InDeltaf(t, want[r][c], jac[r][c], 1e-9, "row %d col %d", r, c)
		}
	}
}

// buildSingleRevolute builds a single joint with a unit point mass offset
// 1m along local x and zero rotational inertia about its own center of
// mass, the engine's concrete CRBA/RNEA scenario.
func buildSingleRevolute(t *testing.T, axis mgl64.Vec3) *mdl.Model {
	t.Helper()
	m := mdl.Empty("single")
	j, err := m.AddJoint(0, mdl.Revolute, axis, spatial.Identity(), -mdl.Unbounded, mdl.Unbounded, "j1")
	require.NoError(t, err)
	err = m.AppendBody(j, spatial.Inertia{Mass: 1, Com: mgl64.Vec3{1, 0, 0}}, spatial.Identity())
	require.NoError(t, err)
	require.NoError(t, m.Finalize())
	return m
}

func TestCrbaSingleRevoluteAboutZ(t *testing.T) {
	m := buildSingleRevolute(t, mgl64.Vec3{0, 0, 1})
	d := mdl.New(m)
	mass, err := Crba(m, d, []float64{0})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, mass[0][0], 1e-9)
}

func TestRneaSingleRevoluteGravityOrthogonalToAxisZ(t *testing.T) {
	m := buildSingleRevolute(t, mgl64.Vec3{0, 0, 1})
	d := mdl.New(m)
	tau, err := Rnea(m, d, []float64{0}, []float64{0}, []float64{0})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, tau[0], 1e-9)
}

func TestRneaSingleRevoluteGravityAlongAxisY(t *testing.T) {
	m := buildSingleRevolute(t, mgl64.Vec3{0, 1, 0})
	d := mdl.New(m)
	tau, err := Rnea(m, d, []float64{0}, []float64{0}, []float64{0})
	require.NoError(t, err)
	assert.InDelta(t, -9.81, tau[0], 1e-9)
}

// buildDoublePendulum builds a two-link chain, both joints rotating about
// world x, with each link's placement and center of mass offset along its
// own local y - a triad (axis, gravity, rest CoM direction) that is
// mutually orthogonal at q=0. A quarter-turn about x therefore swings each
// link exactly into alignment with gravity, the straight-down (or
// straight-up) equilibrium where the gravity lever arm, and hence every
// joint torque, is exactly zero.
func buildDoublePendulum(t *testing.T) *mdl.Model {
	t.Helper()
	m := mdl.Empty("double")
	axis := mgl64.Vec3{1, 0, 0}
	j1, err := m.AddJoint(0, mdl.Revolute, axis, spatial.Identity(), -mdl.Unbounded, mdl.Unbounded, "j1")
	require.NoError(t, err)
	err = m.AppendBody(j1, spatial.Inertia{Mass: 1, Com: mgl64.Vec3{0, 1, 0}}, spatial.Identity())
	require.NoError(t, err)
	j2, err := m.AddJoint(j1, mdl.Revolute, axis, spatial.Translation(mgl64.Vec3{0, 1, 0}), -mdl.Unbounded, mdl.Unbounded, "j2")
	require.NoError(t, err)
	err = m.AppendBody(j2, spatial.Inertia{Mass: 1, Com: mgl64.Vec3{0, 1, 0}}, spatial.Identity())
	require.NoError(t, err)
	require.NoError(t, m.Finalize())
	return m
}

func TestRneaDoublePendulumVerticalEquilibriumHasZeroTorque(t *testing.T) {
	m := buildDoublePendulum(t)
	d := mdl.New(m)
	q := []float64{math.Pi / 2, 0}
	v := []float64{0, 0}
	a := []float64{0, 0}
	tau, err := Rnea(m, d, q, v, a)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, tau[0], 1e-6)
	assert.InDelta(t, 0.0, tau[1], 1e-6)
}

func TestRneaAbaRoundTrip(t *testing.T) {
	m := buildDoublePendulum(t)
	d := mdl.New(m)
	q := []float64{0.3, -0.4}
	v := []float64{0.1, 0.2}
	a := []float64{0.5, -0.3}
	tau, err := Rnea(m, d, q, v, a)
	require.NoError(t, err)
	aBack, err := Aba(m, d, q, v, tau)
	require.NoError(t, err)
	assert.InDelta(t, a[0], aBack[0], 1e-7)
	assert.InDelta(t, a[1], aBack[1], 1e-7)
}

func TestMassMatrixSymmetric(t *testing.T) {
	m := buildDoublePendulum(t)
	d := mdl.New(m)
	mass, err := Crba(m, d, []float64{0.4, -0.2})
	require.NoError(t, err)
	for i := range mass {
		for j := range mass {
			assert.InDelta(t, mass[i][j], mass[j][i], 1e-12)
		}
	}
}

func TestKineticEnergyMatchesMassMatrixQuadraticForm(t *testing.T) {
	m := buildDoublePendulum(t)
	d := mdl.New(m)
	q := []float64{0.3, 0.6}
	v := []float64{0.4, -0.2}
	ke, err := KineticEnergy(m, d, q, v)
	require.NoError(t, err)

	mass, err := Crba(m, d, q)
	require.NoError(t, err)
	want := 0.0
	for i := range v {
		for j := range v {
			want += 0.5 * v[i] * mass[i][j] * v[j]
		}
	}
	assert.InDelta(t, want, ke, 1e-9)
}

func TestGravityTorqueMatchesFiniteDifferenceOfPotentialEnergy(t *testing.T) {
	m := buildDoublePendulum(t)
	d := mdl.New(m)
	q := []float64{0.5, -0.2}
	zero := []float64{0, 0}
	tau, err := Rnea(m, d, q, zero, zero)
	require.NoError(t, err)

	const h = 1e-6
	for j := 0; j < m.NV; j++ {
		qp := append([]float64(nil), q...)
		qm := append([]float64(nil), q...)
		qp[j] += h
		qm[j] -= h
		pePlus, err := PotentialEnergy(m, d, qp)
		require.NoError(t, err)
		peMinus, err := PotentialEnergy(m, d, qm)
		require.NoError(t, err)
		finiteDiff := (pePlus - peMinus) / (2 * h)
		assert.InDelta(t, finiteDiff, tau[j], 1e-4)
	}
}

func TestCenterOfMassSingleLink(t *testing.T) {
	m := buildSingleRevolute(t, mgl64.Vec3{0, 0, 1})
	d := mdl.New(m)
	c, mass, err := CenterOfMass(m, d, []float64{0})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, mass, 1e-12)
	assert.InDelta(t, 1.0, c.X(), 1e-12)
	assert.InDelta(t, 0.0, c.Y(), 1e-12)
}

func TestJacobianColumnsZeroOffPath(t *testing.T) {
	m, _ := build2RPlanar(t)
	d := mdl.New(m)
	jac, err := JointJacobian(m, d, []float64{0.2, 0.1}, 1, World) // joint1 only depends on joint1
	require.NoError(t, err)
	for r := 0; r < 6; r++ {
		assert.InDelta(t, 0.0, jac[r][1], 1e-12)
	}
}

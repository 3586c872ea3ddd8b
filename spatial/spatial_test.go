package spatial

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestComposeIdentity(t *testing.T) {
	x := SE3{R: RotAxis(mgl64.Vec3{0, 0, 1}, math.Pi/4), T: mgl64.Vec3{1, 2, 3}}
	got := x.Compose(Identity())
	assert.InDelta(t, x.T.X(), got.T.X(), 1e-12)
	assert.InDelta(t, x.T.Y(), got.T.Y(), 1e-12)
	assert.InDelta(t, x.T.Z(), got.T.Z(), 1e-12)
}

func TestInverseRoundTrip(t *testing.T) {
	x := SE3{R: RotAxis(mgl64.Vec3{0, 1, 0}, 0.7), T: mgl64.Vec3{1, -2, 0.5}}
	p := mgl64.Vec3{3, 4, 5}
	back := x.Inverse().ActPoint(x.ActPoint(p))
	assert.InDelta(t, p.X(), back.X(), 1e-9)
	assert.InDelta(t, p.Y(), back.Y(), 1e-9)
	assert.InDelta(t, p.Z(), back.Z(), 1e-9)
}

func TestRotAxisCosSinMatchesRotAxis(t *testing.T) {
	axis := mgl64.Vec3{0, 0, 1}
	theta := 1.1
	a := RotAxis(axis, theta)
	b := RotAxisCosSin(axis, math.Cos(theta), math.Sin(theta))
	for i := 0; i < 9; i++ {
		assert.InDelta(t, a[i], b[i], 1e-9)
	}
}

func TestInertiaActOnZeroVelocityIsZeroForce(t *testing.T) {
	i := Inertia{Mass: 2, Com: mgl64.Vec3{0.1, 0, 0}, Tensor: mgl64.Ident3()}
	f := i.Act(Motion{})
	assert.Equal(t, mgl64.Vec3{}, f.Linear)
	assert.Equal(t, mgl64.Vec3{}, f.Angular)
}

func TestSubspaceRevolute(t *testing.T) {
	s := RevoluteSubspace(mgl64.Vec3{0, 0, 1})
	m := s.Apply([]float64{2.0})
	assert.InDelta(t, 2.0, m.Angular.Z(), 1e-12)
	assert.InDelta(t, 0.0, m.Linear.Len(), 1e-12)
}

package la

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDet3Identity(t *testing.T) {
	id := NewMatrix(3, 3)
	id[0][0], id[1][1], id[2][2] = 1, 1, 1
	assert.InDelta(t, 1.0, Det3(id), 1e-12)
}

func TestInverse3RoundTrip(t *testing.T) {
	a := Matrix{
		{2, 0, 0},
		{0, 3, 0},
		{0, 0, 4},
	}
	inv, ok := Inverse3(a)
	assert.True(t, ok)
	var prod Matrix = NewMatrix(3, 3)
	MatMul(prod, 1, a, inv)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			assert.InDelta(t, want, prod[i][j], 1e-12)
		}
	}
}

func TestInverse3Singular(t *testing.T) {
	a := NewMatrix(3, 3) // all zeros
	_, ok := Inverse3(a)
	assert.False(t, ok)
}

func TestLDLTSolveSPD(t *testing.T) {
	a := Matrix{
		{4, 2},
		{2, 3},
	}
	f := FactorLDLT(a)
	assert.True(t, f.PositiveDefinite())
	b := []float64{1, 2}
	x, ok := f.Solve(b)
	assert.True(t, ok)
	// verify A*x == b
	got := NewVector(2)
	MatVecMul(got, 1, a, x)
	assert.InDelta(t, b[0], got[0], 1e-9)
	assert.InDelta(t, b[1], got[1], 1e-9)
}

func TestLDLTFailsOnZeroPivot(t *testing.T) {
	a := Matrix{
		{0, 0},
		{0, 1},
	}
	f := FactorLDLT(a)
	assert.True(t, f.Failed())
	_, ok := f.Solve([]float64{1, 1})
	assert.False(t, ok)
}

func TestDampedPseudoInverseShape(t *testing.T) {
	j := Matrix{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
	pinv, ok := DampedPseudoInverseRight(j, 1e-6)
	assert.True(t, ok)
	assert.Len(t, pinv, 3)
	assert.Len(t, pinv[0], 3)
	// near-identity J should produce a near-identity pseudo-inverse.
	for i := 0; i < 3; i++ {
		assert.InDelta(t, 1.0, pinv[i][i], 1e-5)
	}
}

// Package la implements the dense small-matrix primitives the dynamics
// kernel needs: allocation, matvec/mattrmul, transpose, scaling, 3x3
// closed-form determinant/inverse, symmetric LDLT, and a damped
// right-pseudo-inverse for the IK solver's 3xnv Jacobian block.
//
// Allocation and the plain vector/matrix moves reuse github.com/cpmech/gosl/la,
// the same package finite-element solvers in this codebase's lineage build
// their element matrices with. The factorizations below (LDLT, 3x3 inverse,
// damped pseudo-inverse)
// are hand-written: gosl/la's own solvers target sparse systems via external
// umfpack/mumps backends, a poor fit for a dense nv x nv mass matrix with nv
// in the single digits to low tens.
package la

import (
	"math"

	gosl "github.com/cpmech/gosl/la"
)

// Matrix is a dense row-major matrix stored as a slice of row slices,
// matching gosl/la's [][]float64 convention.
type Matrix = [][]float64

// NewMatrix allocates a rows x cols matrix of zeros.
func NewMatrix(rows, cols int) Matrix {
	return gosl.MatAlloc(rows, cols)
}

// NewVector allocates a zero vector of the given length.
func NewVector(n int) []float64 {
	return make([]float64, n)
}

// Fill sets every entry of a to val.
func Fill(a Matrix, val float64) { gosl.MatFill(a, val) }

// FillVec sets every entry of v to val.
func FillVec(v []float64, val float64) { gosl.VecFill(v, val) }

// CopyVec sets dst = alpha*src.
func CopyVec(dst []float64, alpha float64, src []float64) { gosl.VecCopy(dst, alpha, src) }

// CopyMat sets dst = alpha*src.
func CopyMat(dst Matrix, alpha float64, src Matrix) { gosl.MatCopy(dst, alpha, src) }

// MatVecMul sets dst = alpha*A*u.
func MatVecMul(dst []float64, alpha float64, a Matrix, u []float64) {
	gosl.MatVecMul(dst, alpha, a, u)
}

// MatTrVecMulAdd sets dst += alpha*Aᵀ*u.
func MatTrVecMulAdd(dst []float64, alpha float64, a Matrix, u []float64) {
	gosl.MatTrVecMulAdd(dst, alpha, a, u)
}

// Norm returns the Euclidean norm of v.
func Norm(v []float64) float64 { return gosl.VecNorm(v) }

// Dot returns the inner product of u and v, computed with a direct loop.
func Dot(u, v []float64) float64 {
	s := 0.0
	for i := range u {
		s += u[i] * v[i]
	}
	return s
}

// AddVec sets dst = alpha*u + beta*v.
func AddVec(dst []float64, alpha float64, u []float64, beta float64, v []float64) {
	for i := range dst {
		dst[i] = alpha*u[i] + beta*v[i]
	}
}

// Scale multiplies every entry of v by alpha in place.
func Scale(v []float64, alpha float64) {
	for i := range v {
		v[i] *= alpha
	}
}

// Transpose returns a new matrix that is the transpose of a.
func Transpose(a Matrix) Matrix {
	if len(a) == 0 {
		return Matrix{}
	}
	rows, cols := len(a), len(a[0])
	t := NewMatrix(cols, rows)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			t[j][i] = a[i][j]
		}
	}
	return t
}

// MatMul sets dst = alpha*A*B. dst must be preallocated to len(A) x cols(B).
func MatMul(dst Matrix, alpha float64, a, b Matrix) {
	rows, inner, cols := len(a), len(b), len(b[0])
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			s := 0.0
			for k := 0; k < inner; k++ {
				s += a[i][k] * b[k][j]
			}
			dst[i][j] = alpha * s
		}
	}
}

// Det3 returns the determinant of a 3x3 matrix.
func Det3(a Matrix) float64 {
	return a[0][0]*(a[1][1]*a[2][2]-a[1][2]*a[2][1]) -
		a[0][1]*(a[1][0]*a[2][2]-a[1][2]*a[2][0]) +
		a[0][2]*(a[1][0]*a[2][1]-a[1][1]*a[2][0])
}

// Inverse3 returns the closed-form inverse of a 3x3 matrix and whether the
// determinant was large enough to trust (not the zero-pivot marker used by
// LDLT, since this is used on small well-conditioned rotation-adjacent
// matrices rather than arbitrary systems).
func Inverse3(a Matrix) (inv Matrix, ok bool) {
	det := Det3(a)
	if math.Abs(det) < 1e-300 {
		return nil, false
	}
	id := 1.0 / det
	inv = NewMatrix(3, 3)
	inv[0][0] = (a[1][1]*a[2][2] - a[1][2]*a[2][1]) * id
	inv[0][1] = (a[0][2]*a[2][1] - a[0][1]*a[2][2]) * id
	inv[0][2] = (a[0][1]*a[1][2] - a[0][2]*a[1][1]) * id
	inv[1][0] = (a[1][2]*a[2][0] - a[1][0]*a[2][2]) * id
	inv[1][1] = (a[0][0]*a[2][2] - a[0][2]*a[2][0]) * id
	inv[1][2] = (a[0][2]*a[1][0] - a[0][0]*a[1][2]) * id
	inv[2][0] = (a[1][0]*a[2][1] - a[1][1]*a[2][0]) * id
	inv[2][1] = (a[0][1]*a[2][0] - a[0][0]*a[2][1]) * id
	inv[2][2] = (a[0][0]*a[1][1] - a[0][1]*a[1][0]) * id
	return inv, true
}

package la

import "math"

// Epsilon is the machine-epsilon-scale threshold used to detect a zero
// pivot during LDLT factorization and a singular articulated inertia in
// the ABA kernel.
const Epsilon = 1e-12

// LDLT holds the factorization A = L*D*Lᵀ of a symmetric matrix, with L
// unit lower-triangular and D diagonal, stored densely.
type LDLT struct {
	n    int
	l    Matrix
	d    []float64
	fail bool // true if any pivot was below Epsilon in magnitude
}

// FactorLDLT computes the LDLT factorization of the symmetric matrix a
// (only the lower triangle is read). Division by a zero pivot sets the
// failure marker on the returned LDLT rather than propagating NaN/Inf
// through the rest of the factorization.
func FactorLDLT(a Matrix) *LDLT {
	n := len(a)
	f := &LDLT{n: n, l: NewMatrix(n, n), d: NewVector(n)}
	for i := 0; i < n; i++ {
		f.l[i][i] = 1
	}
	for j := 0; j < n; j++ {
		sum := a[j][j]
		for k := 0; k < j; k++ {
			sum -= f.l[j][k] * f.l[j][k] * f.d[k]
		}
		f.d[j] = sum
		if math.Abs(f.d[j]) < Epsilon {
			f.fail = true
			continue
		}
		for i := j + 1; i < n; i++ {
			sum := a[i][j]
			for k := 0; k < j; k++ {
				sum -= f.l[i][k] * f.l[j][k] * f.d[k]
			}
			f.l[i][j] = sum / f.d[j]
		}
	}
	return f
}

// Failed reports whether any pivot was below Epsilon.
func (f *LDLT) Failed() bool { return f.fail }

// PositiveDefinite reports whether every pivot is strictly positive, the
// condition required of a physically valid joint-space mass matrix.
func (f *LDLT) PositiveDefinite() bool {
	for _, d := range f.d {
		if d <= 0 {
			return false
		}
	}
	return true
}

// Solve computes x such that A*x = b using the factorization, via forward
// substitution (L*y=b), diagonal scaling (D*z=y), and back substitution
// (Lᵀ*x=z). Returns ok=false if the factorization had failed pivots.
func (f *LDLT) Solve(b []float64) (x []float64, ok bool) {
	if f.fail {
		return nil, false
	}
	n := f.n
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := b[i]
		for k := 0; k < i; k++ {
			sum -= f.l[i][k] * y[k]
		}
		y[i] = sum
	}
	z := make([]float64, n)
	for i := 0; i < n; i++ {
		z[i] = y[i] / f.d[i]
	}
	x = make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := z[i]
		for k := i + 1; k < n; k++ {
			sum -= f.l[k][i] * x[k]
		}
		x[i] = sum
	}
	return x, true
}

// DampedPseudoInverseRight computes J⊤(JJ⊤ + λ²I)⁻¹ for a 3xnv matrix J,
// the closed-form damped least-squares pseudo-inverse used by the IK
// solver. Returns ok=false if j has no rows or the 3x3 inner inverse fails
// (determinant magnitude below 1e-300), which with λ>0 does not happen for
// finite input. Non-finite input is not detected here: it yields ok=true
// with non-finite entries.
func DampedPseudoInverseRight(j Matrix, lambda float64) (pinv Matrix, ok bool) {
	rows := len(j) // 3
	if rows == 0 {
		return nil, false
	}
	cols := len(j[0])
	a := NewMatrix(rows, rows)
	for i := 0; i < rows; i++ {
		for k := 0; k < rows; k++ {
			s := 0.0
			for c := 0; c < cols; c++ {
				s += j[i][c] * j[k][c]
			}
			a[i][k] = s
		}
		a[i][i] += lambda * lambda
	}
	ainv, ok := Inverse3(a)
	if !ok {
		return nil, false
	}
	pinv = NewMatrix(cols, rows)
	for c := 0; c < cols; c++ {
		for i := 0; i < rows; i++ {
			s := 0.0
			for k := 0; k < rows; k++ {
				s += j[k][c] * ainv[k][i]
			}
			pinv[c][i] = s
		}
	}
	return pinv, true
}

package spatial

import "github.com/go-gl/mathgl/mgl64"

// Mat6 is a dense 6x6 spatial matrix, laid out as linear-then-angular
// blocks to match Motion/Force's ToVec6 ordering. It exists only for the
// articulated-body inertia used by ABA: after the rank-1 Schur-complement
// update Y -= U*D⁻¹*Uᵀ an articulated inertia generally no longer
// decomposes into a rigid (mass, com, tensor) triple, so it cannot be
// represented by Inertia. CRBA's composite inertia, by contrast, is always
// a sum of rigid inertias about a common frame and stays representable by
// Inertia (see Inertia.Add), so no Mat6 is needed there.
type Mat6 [6][6]float64

// Mat6List is a slice of Mat6, used by model.Data to store one articulated
// inertia per joint.
type Mat6List []Mat6

func skew(v mgl64.Vec3) mgl64.Mat3 {
	return mgl64.Mat3{
		0, v.Z(), -v.Y(),
		-v.Z(), 0, v.X(),
		v.Y(), -v.X(), 0,
	}
}

// FromInertia builds the 6x6 spatial inertia matrix equivalent to i.Act.
func FromInertia(i Inertia) Mat6 {
	var m Mat6
	sk := skew(i.Com)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			m[r][c] = 0
			if r == c {
				m[r][c] = i.Mass
			}
			m[r][c+3] = -i.Mass * sk[c*3+r] // -m*skew(com), column-major mgl64 read as [col*3+row]
			m[r+3][c] = i.Mass * sk[c*3+r]
		}
	}
	skSq := sk.Mul3(sk)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			m[r+3][c+3] = i.Tensor[c*3+r] - i.Mass*skSq[c*3+r]
		}
	}
	return m
}

// Act computes f = M*v.
func (m Mat6) Act(v Motion) Force {
	vv := v.ToVec6()
	var fv [6]float64
	for r := 0; r < 6; r++ {
		s := 0.0
		for c := 0; c < 6; c++ {
			s += m[r][c] * vv[c]
		}
		fv[r] = s
	}
	return ForceFromVec6(fv)
}

// Add returns the componentwise sum of two spatial matrices.
func (m Mat6) Add(o Mat6) Mat6 {
	var r Mat6
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			r[i][j] = m[i][j] + o[i][j]
		}
	}
	return r
}

// SubRank1 returns m - scale*outer(u,u), the Schur-complement update ABA
// applies when folding a child's articulated inertia into its parent.
func (m Mat6) SubRank1(u [6]float64, scale float64) Mat6 {
	var r Mat6
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			r[i][j] = m[i][j] - scale*u[i]*u[j]
		}
	}
	return r
}

// ColumnOf returns M*e where e is the motion subspace column, as a raw
// 6-vector (used to build ABA's U = Yᴬ*S for a one-dof joint).
func (m Mat6) ColumnOf(s Motion) [6]float64 {
	f := m.Act(s)
	return f.ToVec6()
}

package gf2

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestIdentityEncoding tests the exact byte layout of both encodings
func TestIdentityEncoding(t *testing.T) {
	id := Identity(4)

	require.Equal(t, "04000000"+"04000000"+"01020408", hex.EncodeToString(id.Bytes()))
	require.Equal(t,
		"04000000"+"04000000"+"01000000"+"02000000"+"04000000"+"08000000",
		hex.EncodeToString(id.WordBytes()))
}

// TestMatrixEncodingRoundTrip tests both encodings on random matrices
func TestMatrixEncodingRoundTrip(t *testing.T) {
	src := testSource(t)
	for _, dims := range [][2]int{{1, 1}, {3, 9}, {33, 31}, {10, 64}, {5, 100}} {
		m := RandomMatrix(dims[0], dims[1], src)

		dec, err := MatrixFromBytes(m.Bytes())
		require.NoError(t, err)
		require.True(t, dec.Equal(m), "byte round trip %v", dims)

		dec, err = MatrixFromWordBytes(m.WordBytes())
		require.NoError(t, err)
		require.True(t, dec.Equal(m), "word round trip %v", dims)
	}
}

// TestMatrixDecodeRejects tests malformed matrix encodings
func TestMatrixDecodeRejects(t *testing.T) {
	enc := Identity(4).Bytes()
	_, err := MatrixFromBytes(enc[:len(enc)-1])
	require.ErrorIs(t, err, ErrEncoding)

	bad := append([]byte(nil), enc...)
	bad[8] |= 0x10 // column 4 does not exist
	_, err = MatrixFromBytes(bad)
	require.ErrorIs(t, err, ErrEncoding)

	_, err = MatrixFromWordBytes([]byte{1, 0, 0})
	require.ErrorIs(t, err, ErrEncoding)
}

// TestMatrixInverse tests M * M^-1 = M^-1 * M = I for random regular matrices
func TestMatrixInverse(t *testing.T) {
	src := testSource(t)
	for _, n := range []int{1, 2, 31, 32, 33, 70, 130} {
		m := RandomRegular(n, src)
		inv, err := m.Inverse()
		require.NoError(t, err, "n=%d", n)

		left, err := m.Multiply(inv)
		require.NoError(t, err)
		right, err := inv.Multiply(m)
		require.NoError(t, err)
		if !left.IsIdentity() || !right.IsIdentity() {
			t.Errorf("n=%d: product with inverse is not the identity", n)
		}
	}
}

// TestMatrixInverseSingular tests that singular matrices return ErrSingular
// and non-square ones ErrDimension
func TestMatrixInverseSingular(t *testing.T) {
	m := Identity(5)
	m.data[3] = append([]uint32(nil), m.data[1]...)
	_, err := m.Inverse()
	require.ErrorIs(t, err, ErrSingular)

	_, err = NewMatrix(3, 4).Inverse()
	require.ErrorIs(t, err, ErrDimension)
	require.NotErrorIs(t, err, ErrSingular)
}

// TestRandomMatrix tests shapes, padding bits and that entries vary
func TestRandomMatrix(t *testing.T) {
	src := testSource(t)
	for _, dims := range [][2]int{{0, 5}, {4, 0}, {1, 1}, {7, 33}, {40, 64}} {
		m := RandomMatrix(dims[0], dims[1], src)
		require.Equal(t, dims[0], m.Rows())
		require.Equal(t, dims[1], m.Cols())
		for i, row := range m.data {
			if dims[1] > 0 {
				require.Zero(t, row[len(row)-1]&^lastMask(dims[1]), "row %d padding", i)
			}
		}
		dec, err := MatrixFromBytes(m.Bytes())
		require.NoError(t, err)
		require.True(t, dec.Equal(m))
	}

	m := RandomMatrix(64, 64, src)
	ones := 0
	for i := 0; i < 64; i++ {
		ones += m.Row(i).HammingWeight()
	}
	require.Greater(t, ones, 64*64/4)
	require.Less(t, ones, 3*64*64/4)
}

// TestTriangularShapes tests the random triangular constructors
func TestTriangularShapes(t *testing.T) {
	src := testSource(t)
	n := 45
	l := RandomLowerTriangular(n, src)
	u := RandomUpperTriangular(n, src)
	for i := 0; i < n; i++ {
		require.Equal(t, uint(1), l.Bit(i, i))
		require.Equal(t, uint(1), u.Bit(i, i))
		for j := i + 1; j < n; j++ {
			if l.Bit(i, j) != 0 {
				t.Fatalf("lower triangular has entry at (%d,%d)", i, j)
			}
			if u.Bit(j, i) != 0 {
				t.Fatalf("upper triangular has entry at (%d,%d)", j, i)
			}
		}
	}
}

// TestTransposeAndVectorProducts tests A*v against v*A^T
func TestTransposeAndVectorProducts(t *testing.T) {
	src := testSource(t)
	m := RandomMatrix(37, 70, src)
	tr := m.Transpose()
	require.Equal(t, 70, tr.Rows())
	require.True(t, tr.Transpose().Equal(m))

	v := NewRandomVector(70, src)
	av, err := m.MultiplyVector(v)
	require.NoError(t, err)
	vat, err := tr.VectorMultiply(v)
	require.NoError(t, err)
	require.True(t, av.Equal(vat))

	// bit i of A*v is the parity of row i AND v
	for i := 0; i < m.Rows(); i++ {
		var p uint
		for j := 0; j < m.Cols(); j++ {
			p ^= m.Bit(i, j) & v.Bit(j)
		}
		require.Equal(t, p, av.Bit(i))
	}

	_, err = m.MultiplyVector(NewVector(69))
	require.ErrorIs(t, err, ErrDimension)
}

// TestMultiplyAssociative tests (AB)v = A(Bv)
func TestMultiplyAssociative(t *testing.T) {
	src := testSource(t)
	a := RandomMatrix(20, 50, src)
	b := RandomRegular(50, src)
	v := NewRandomVector(50, src)

	ab, err := a.Multiply(b)
	require.NoError(t, err)
	lhs, err := ab.MultiplyVector(v)
	require.NoError(t, err)
	bv, err := b.MultiplyVector(v)
	require.NoError(t, err)
	rhs, err := a.MultiplyVector(bv)
	require.NoError(t, err)
	require.True(t, lhs.Equal(rhs))

	_, err = b.Multiply(a)
	require.ErrorIs(t, err, ErrDimension)
}

// TestPermuteColumns tests (A*P)(v*P) = A*v
func TestPermuteColumns(t *testing.T) {
	src := testSource(t)
	m := RandomMatrix(12, 40, src)
	p := RandomPermutation(40, src)
	v := NewRandomVector(40, src)

	mp, err := m.PermuteColumns(p)
	require.NoError(t, err)
	vp, err := v.Permute(p)
	require.NoError(t, err)

	lhs, err := mp.MultiplyVector(vp)
	require.NoError(t, err)
	rhs, err := m.MultiplyVector(v)
	require.NoError(t, err)
	require.True(t, lhs.Equal(rhs))

	back, err := mp.PermuteColumns(p.Inverse())
	require.NoError(t, err)
	require.True(t, back.Equal(m))
}

// TestPermuteRows tests P*A row placement and its inverse
func TestPermuteRows(t *testing.T) {
	src := testSource(t)
	m := RandomMatrix(9, 20, src)
	p := RandomPermutation(9, src)
	pm, err := m.PermuteRows(p)
	require.NoError(t, err)
	for i := 0; i < 9; i++ {
		require.True(t, pm.Row(i).Equal(m.Row(p.At(i))))
	}
	back, err := pm.PermuteRows(p.Inverse())
	require.NoError(t, err)
	require.True(t, back.Equal(m))
}

// TestCompactForms tests the identity extensions against the sub-matrix extraction
func TestCompactForms(t *testing.T) {
	src := testSource(t)
	for _, dims := range [][2]int{{5, 3}, {32, 40}, {33, 70}, {7, 1}} {
		m := RandomMatrix(dims[0], dims[1], src)

		ext := m.ExtendLeftCompactForm()
		left, err := ext.LeftSubMatrix()
		require.NoError(t, err)
		require.True(t, left.IsIdentity())
		right, err := ext.RightSubMatrix()
		require.NoError(t, err)
		require.True(t, right.Equal(m), "dims %v", dims)

		ext = m.ExtendRightCompactForm()
		for i := 0; i < m.Rows(); i++ {
			for j := 0; j < m.Cols(); j++ {
				require.Equal(t, m.Bit(i, j), ext.Bit(i, j))
			}
			for j := 0; j < m.Rows(); j++ {
				want := uint(0)
				if i == j {
					want = 1
				}
				require.Equal(t, want, ext.Bit(i, m.Cols()+j))
			}
		}
	}

	_, err := Identity(4).LeftSubMatrix()
	require.ErrorIs(t, err, ErrDimension)
}

// TestHammingWeightRatio tests the weight ratio of simple matrices
func TestHammingWeightRatio(t *testing.T) {
	require.InDelta(t, 0.25, Identity(4).HammingWeightRatio(), 1e-12)
	require.InDelta(t, 0.0, NewMatrix(3, 3).HammingWeightRatio(), 1e-12)
}

// TestMatrixFromRows tests building a matrix from vectors
func TestMatrixFromRows(t *testing.T) {
	src := testSource(t)
	rows := []*Vector{NewRandomVector(10, src), NewRandomVector(10, src)}
	m, err := MatrixFromRows(rows)
	require.NoError(t, err)
	require.True(t, m.Row(1).Equal(rows[1]))

	_, err = MatrixFromRows([]*Vector{NewVector(3), NewVector(4)})
	require.ErrorIs(t, err, ErrDimension)
}

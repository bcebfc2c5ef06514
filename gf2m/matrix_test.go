package gf2m

import (
	"testing"

	"github.com/ppopth/mceliece/random"
	"github.com/stretchr/testify/require"
)

func randomMatrix(f *Field, n int, src random.Source) *Matrix {
	rows := make([][]int, n)
	for i := range rows {
		rows[i] = make([]int, n)
		for j := range rows[i] {
			rows[i][j] = f.RandomElement(src)
		}
	}
	m, _ := NewMatrix(f, rows)
	return m
}

// TestMatrixInverse tests M * (M^-1 * v) = v for random invertible matrices
func TestMatrixInverse(t *testing.T) {
	f := mustField(t, 8)
	src := testSource(t)
	tested := 0
	for tested < 5 {
		m := randomMatrix(f, 12, src)
		inv, err := m.Inverse()
		if err != nil {
			require.ErrorIs(t, err, ErrSingular)
			continue
		}
		tested++
		for k := 0; k < 5; k++ {
			elems := make([]int, 12)
			for i := range elems {
				elems[i] = f.RandomElement(src)
			}
			v, err := NewVector(f, elems)
			require.NoError(t, err)
			w, err := inv.MultiplyVector(v)
			require.NoError(t, err)
			back, err := m.MultiplyVector(w)
			require.NoError(t, err)
			require.True(t, back.Equal(v))
		}
		again, err := inv.Inverse()
		require.NoError(t, err)
		require.True(t, again.Equal(m))
	}
}

// TestMatrixSingular tests that dependent rows are reported
func TestMatrixSingular(t *testing.T) {
	f := mustField(t, 4)
	m, err := NewMatrix(f, [][]int{
		{1, 2, 3},
		{2, 4, 6},
		{0, 0, 7},
	})
	require.NoError(t, err)
	// row 1 is 2 * row 0 since 2*3 = 6 in GF(16)
	require.Equal(t, 6, f.Mult(2, 3))
	_, err = m.Inverse()
	require.ErrorIs(t, err, ErrSingular)
}

// TestMatrixRestrictedOperations tests the unsupported products
func TestMatrixRestrictedOperations(t *testing.T) {
	f := mustField(t, 4)
	m := IdentityMatrix(f, 3)
	_, err := m.Multiply(m)
	require.ErrorIs(t, err, ErrNotSupported)
	v, err := NewVector(f, []int{1, 2, 3})
	require.NoError(t, err)
	_, err = m.VectorMultiply(v)
	require.ErrorIs(t, err, ErrNotSupported)

	w, err := m.MultiplyVector(v)
	require.NoError(t, err)
	require.True(t, w.Equal(v))
}

// TestMatrixBytesRoundTrip tests the row-count prefixed encoding
func TestMatrixBytesRoundTrip(t *testing.T) {
	src := testSource(t)
	for _, deg := range []int{4, 12} {
		f := mustField(t, deg)
		m := randomMatrix(f, 7, src)
		enc := m.Bytes()
		require.Len(t, enc, 4+49*((deg+7)/8))
		dec, err := MatrixFromBytes(f, enc)
		require.NoError(t, err)
		require.True(t, dec.Equal(m))

		_, err = MatrixFromBytes(f, enc[:len(enc)-1])
		require.ErrorIs(t, err, ErrEncoding)
	}
	f := mustField(t, 4)
	require.Equal(t, []byte{2, 0, 0, 0, 1, 0, 0, 1}, IdentityMatrix(f, 2).Bytes())
}
